package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"scribehub/models"
)

func TestAppendMentionNotification_DeduplicatesPerDocument(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID()}
	doc := &models.Document{ID: primitive.NewObjectID(), Title: "Roadmap"}

	assert.True(t, appendMentionNotification(user, doc, time.Now()))
	assert.False(t, appendMentionNotification(user, doc, time.Now()))
	assert.False(t, appendMentionNotification(user, doc, time.Now()))

	require.Len(t, user.Notifications, 1)
	assert.Equal(t, models.NotificationMention, user.Notifications[0].Type)
	assert.Equal(t, doc.ID, user.Notifications[0].Document)
	assert.False(t, user.Notifications[0].Read)
	assert.Contains(t, user.Notifications[0].Message, "Roadmap")
}

func TestAppendMentionNotification_SeparateDocuments(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID()}
	first := &models.Document{ID: primitive.NewObjectID(), Title: "First"}
	second := &models.Document{ID: primitive.NewObjectID(), Title: "Second"}

	assert.True(t, appendMentionNotification(user, first, time.Now()))
	assert.True(t, appendMentionNotification(user, second, time.Now()))

	assert.Len(t, user.Notifications, 2)
}

func TestAppendMentionNotification_ShareDoesNotBlockMention(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID()}
	doc := &models.Document{ID: primitive.NewObjectID(), Title: "Notes"}

	appendShareNotification(user, doc, "Dana", time.Now())

	// a share entry for the same document must not suppress the mention
	assert.True(t, appendMentionNotification(user, doc, time.Now()))
	assert.Len(t, user.Notifications, 2)
}

func TestAppendShareNotification_AlwaysAppends(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID()}
	doc := &models.Document{ID: primitive.NewObjectID(), Title: "Plan"}

	appendShareNotification(user, doc, "Dana", time.Now())
	appendShareNotification(user, doc, "Dana", time.Now())

	require.Len(t, user.Notifications, 2)
	for _, n := range user.Notifications {
		assert.Equal(t, models.NotificationShare, n.Type)
		assert.Equal(t, doc.ID, n.Document)
		assert.Contains(t, n.Message, "Dana")
		assert.Contains(t, n.Message, "Plan")
	}
}
