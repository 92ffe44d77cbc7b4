package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"scribehub/models"
)

func TestExtractMentions(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "single mention",
			content: "<p>Hello @alice!</p>",
			want:    []string{"alice"},
		},
		{
			name:    "duplicate mentions collapse",
			content: "Thanks @alice and @alice for the review",
			want:    []string{"alice"},
		},
		{
			name:    "multiple distinct mentions",
			content: "@bob please sync with @alice and @carol_99",
			want:    []string{"bob", "alice", "carol_99"},
		},
		{
			name:    "underscores and digits",
			content: "ping @dev_user2",
			want:    []string{"dev_user2"},
		},
		{
			name:    "punctuation terminates the token",
			content: "cc @alice, @bob.",
			want:    []string{"alice", "bob"},
		},
		{
			name:    "no mentions",
			content: "<p>plain content</p>",
			want:    nil,
		},
		{
			name:    "empty content",
			content: "",
			want:    nil,
		},
		{
			name:    "bare at sign is not a mention",
			content: "meet @ noon",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractMentions(tt.content))
		})
	}
}

// fakeDirectory resolves names from an in-memory map.
type fakeDirectory struct {
	users   map[string]*models.User
	lookups int
	failFor map[string]error
}

func (d *fakeDirectory) FindByName(_ context.Context, name string) (*models.User, error) {
	d.lookups++
	if err, ok := d.failFor[name]; ok {
		return nil, err
	}
	return d.users[name], nil
}

// fakeNotifier applies the real dedup rule against in-memory users and
// records every call.
type fakeNotifier struct {
	calls   int
	failFor map[primitive.ObjectID]error
}

func (n *fakeNotifier) NotifyMention(_ context.Context, user *models.User, doc *models.Document) error {
	n.calls++
	if err, ok := n.failFor[user.ID]; ok {
		return err
	}
	appendMentionNotification(user, doc, time.Now())
	return nil
}

func newTestUser(t *testing.T, name string) *models.User {
	t.Helper()
	return &models.User{
		ID:    primitive.NewObjectID(),
		Name:  name,
		Email: name + "@example.com",
	}
}

func newTestDocument(t *testing.T, author primitive.ObjectID, content string) *models.Document {
	t.Helper()
	now := time.Now()
	return &models.Document{
		ID:            primitive.NewObjectID(),
		Title:         "Design notes",
		Content:       content,
		Author:        author,
		Visibility:    models.VisibilityPrivate,
		Collaborators: []models.Collaborator{},
		Versions:      []models.Version{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestMentionPipeline_SingleSaveIsIdempotent(t *testing.T) {
	author := primitive.NewObjectID()
	alice := newTestUser(t, "alice")
	directory := &fakeDirectory{users: map[string]*models.User{"alice": alice}}
	notifier := &fakeNotifier{}
	pipeline := NewMentionPipeline(directory, notifier)

	doc := newTestDocument(t, author, "Thanks @alice and @alice for the review")
	pipeline.Run(context.Background(), doc)

	require.Len(t, doc.Collaborators, 1)
	assert.Equal(t, alice.ID, doc.Collaborators[0].User)
	assert.Equal(t, models.PermissionView, doc.Collaborators[0].Permission)

	require.Len(t, alice.Notifications, 1)
	assert.Equal(t, models.NotificationMention, alice.Notifications[0].Type)
	assert.Equal(t, doc.ID, alice.Notifications[0].Document)
	assert.False(t, alice.Notifications[0].Read)
}

func TestMentionPipeline_RepeatedSavesStayIdempotent(t *testing.T) {
	author := primitive.NewObjectID()
	alice := newTestUser(t, "alice")
	directory := &fakeDirectory{users: map[string]*models.User{"alice": alice}}
	notifier := &fakeNotifier{}
	pipeline := NewMentionPipeline(directory, notifier)

	doc := newTestDocument(t, author, "Hello @alice")
	for i := 0; i < 5; i++ {
		pipeline.Run(context.Background(), doc)
	}

	assert.Len(t, doc.Collaborators, 1)
	assert.Len(t, alice.Notifications, 1)
}

func TestMentionPipeline_SkipsAuthor(t *testing.T) {
	author := newTestUser(t, "author")
	directory := &fakeDirectory{users: map[string]*models.User{"author": author}}
	notifier := &fakeNotifier{}
	pipeline := NewMentionPipeline(directory, notifier)

	doc := newTestDocument(t, author.ID, "Note to self: @author finish this")
	pipeline.Run(context.Background(), doc)

	assert.Empty(t, doc.Collaborators)
	assert.Empty(t, author.Notifications)
	assert.Zero(t, notifier.calls)
}

func TestMentionPipeline_SkipsUnresolvedNames(t *testing.T) {
	author := primitive.NewObjectID()
	directory := &fakeDirectory{users: map[string]*models.User{}}
	notifier := &fakeNotifier{}
	pipeline := NewMentionPipeline(directory, notifier)

	doc := newTestDocument(t, author, "ping @ghost and @nobody")
	pipeline.Run(context.Background(), doc)

	assert.Equal(t, 2, directory.lookups)
	assert.Empty(t, doc.Collaborators)
	assert.Zero(t, notifier.calls)
}

func TestMentionPipeline_ContinuesPastFailedMentions(t *testing.T) {
	author := primitive.NewObjectID()
	alice := newTestUser(t, "alice")
	bob := newTestUser(t, "bob")
	carol := newTestUser(t, "carol")

	directory := &fakeDirectory{
		users: map[string]*models.User{
			"alice": alice,
			"bob":   bob,
			"carol": carol,
		},
		failFor: map[string]error{"alice": errors.New("directory unavailable")},
	}
	notifier := &fakeNotifier{
		failFor: map[primitive.ObjectID]error{bob.ID: errors.New("write failed")},
	}
	pipeline := NewMentionPipeline(directory, notifier)

	doc := newTestDocument(t, author, "review by @alice @bob @carol")
	pipeline.Run(context.Background(), doc)

	// alice's lookup failed, so she is skipped entirely. bob's
	// notification failed, but his collaborator entry and carol's whole
	// mention still went through.
	require.Len(t, doc.Collaborators, 2)
	assert.Equal(t, bob.ID, doc.Collaborators[0].User)
	assert.Equal(t, carol.ID, doc.Collaborators[1].User)
	assert.Empty(t, bob.Notifications)
	require.Len(t, carol.Notifications, 1)
}

func TestMentionPipeline_MentionedUserKeepsExistingPermission(t *testing.T) {
	author := primitive.NewObjectID()
	alice := newTestUser(t, "alice")
	directory := &fakeDirectory{users: map[string]*models.User{"alice": alice}}
	notifier := &fakeNotifier{}
	pipeline := NewMentionPipeline(directory, notifier)

	doc := newTestDocument(t, author, "editing with @alice")
	require.NoError(t, AddCollaborator(doc, alice.ID, models.PermissionEdit))

	pipeline.Run(context.Background(), doc)

	require.Len(t, doc.Collaborators, 1)
	assert.Equal(t, models.PermissionEdit, doc.Collaborators[0].Permission)
}
