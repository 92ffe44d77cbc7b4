package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"scribehub/models"
)

// fakeDocumentCollection serves a single stored document and records
// every replacement written back.
type fakeDocumentCollection struct {
	stored     *models.Document
	replaced   []models.Document
	replaceErr []error // errors returned by successive ReplaceOne calls
}

func (f *fakeDocumentCollection) FindOne(_ context.Context, _ interface{}, _ ...*options.FindOneOptions) *mongo.SingleResult {
	return mongo.NewSingleResultFromDocument(f.stored, nil, nil)
}

func (f *fakeDocumentCollection) Find(_ context.Context, _ interface{}, _ ...*options.FindOptions) (*mongo.Cursor, error) {
	return mongo.NewCursorFromDocuments([]interface{}{}, nil, nil)
}

func (f *fakeDocumentCollection) InsertOne(_ context.Context, document interface{}, _ ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	doc, ok := document.(*models.Document)
	if !ok {
		return nil, errors.New("unexpected insert payload")
	}
	f.stored = doc
	return &mongo.InsertOneResult{InsertedID: doc.ID}, nil
}

func (f *fakeDocumentCollection) ReplaceOne(_ context.Context, _ interface{}, replacement interface{}, _ ...*options.ReplaceOptions) (*mongo.UpdateResult, error) {
	call := len(f.replaced)
	if doc, ok := replacement.(*models.Document); ok {
		f.replaced = append(f.replaced, *doc)
	}
	if call < len(f.replaceErr) && f.replaceErr[call] != nil {
		return nil, f.replaceErr[call]
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (f *fakeDocumentCollection) DeleteOne(_ context.Context, _ interface{}, _ ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

func TestRequireAuthor(t *testing.T) {
	author := primitive.NewObjectID()
	doc := &models.Document{Author: author}

	assert.NoError(t, requireAuthor(doc, author))
	assert.ErrorIs(t, requireAuthor(doc, primitive.NewObjectID()), ErrForbidden)
}

func TestSnapshotVersion_CapturesPreUpdateState(t *testing.T) {
	author := primitive.NewObjectID()
	doc := &models.Document{
		Author:  author,
		Title:   "v1 title",
		Content: "v1 content",
	}

	now := time.Now()
	snapshotVersion(doc, author, now)
	applyUpdate(doc, UpdateDocumentRequest{Title: "v2 title", Content: "v2 content"}, now)

	require.Len(t, doc.Versions, 1)
	assert.Equal(t, "v1 title", doc.Versions[0].Title)
	assert.Equal(t, "v1 content", doc.Versions[0].Content)
	assert.Equal(t, author, doc.Versions[0].ModifiedBy)
	assert.Equal(t, "v2 title", doc.Title)
	assert.Equal(t, "v2 content", doc.Content)
}

func TestSnapshotVersion_AccumulatesAcrossUpdates(t *testing.T) {
	author := primitive.NewObjectID()
	doc := &models.Document{
		Author:  author,
		Title:   "title 0",
		Content: "content 0",
	}

	const updates = 4
	for i := 1; i <= updates; i++ {
		now := time.Now()
		snapshotVersion(doc, author, now)
		applyUpdate(doc, UpdateDocumentRequest{
			Title:   fmt.Sprintf("title %d", i),
			Content: fmt.Sprintf("content %d", i),
		}, now)
	}

	require.Len(t, doc.Versions, updates)
	for i := 0; i < updates; i++ {
		assert.Equal(t, fmt.Sprintf("content %d", i), doc.Versions[i].Content)
		assert.Equal(t, fmt.Sprintf("title %d", i), doc.Versions[i].Title)
	}
	assert.Equal(t, fmt.Sprintf("content %d", updates), doc.Content)
}

func TestApplyUpdate_EmptyFieldsKeepCurrentValues(t *testing.T) {
	doc := &models.Document{
		Title:      "original title",
		Content:    "original content",
		Visibility: models.VisibilityPrivate,
	}

	applyUpdate(doc, UpdateDocumentRequest{Content: "new content"}, time.Now())

	assert.Equal(t, "original title", doc.Title)
	assert.Equal(t, "new content", doc.Content)
	assert.Equal(t, models.VisibilityPrivate, doc.Visibility)
}

func TestApplyUpdate_VisibilityOnly(t *testing.T) {
	doc := &models.Document{
		Title:      "title",
		Content:    "content",
		Visibility: models.VisibilityPrivate,
	}

	applyUpdate(doc, UpdateDocumentRequest{Visibility: models.VisibilityPublic}, time.Now())

	assert.Equal(t, models.VisibilityPublic, doc.Visibility)
	assert.Equal(t, "title", doc.Title)
	assert.Equal(t, "content", doc.Content)
}

func TestUpdateDocument_CommitsEditBeforeMentionHandling(t *testing.T) {
	author := primitive.NewObjectID()
	alice := newTestUser(t, "alice")
	directory := &fakeDirectory{users: map[string]*models.User{"alice": alice}}
	notifier := &fakeNotifier{}

	coll := &fakeDocumentCollection{stored: newTestDocument(t, author, "draft")}
	service := &DocumentService{
		documentCollection: coll,
		pipeline:           NewMentionPipeline(directory, notifier),
	}

	updated, err := service.UpdateDocument(context.Background(), coll.stored.ID.Hex(), author,
		UpdateDocumentRequest{Content: "please review @alice"})
	require.NoError(t, err)

	require.Len(t, coll.replaced, 2)

	// First write carries the edit and its version snapshot but no
	// mention side effects yet.
	first := coll.replaced[0]
	assert.Equal(t, "please review @alice", first.Content)
	require.Len(t, first.Versions, 1)
	assert.Equal(t, "draft", first.Versions[0].Content)
	assert.Empty(t, first.Collaborators)

	// Second write persists the collaborator the mention added.
	second := coll.replaced[1]
	require.Len(t, second.Collaborators, 1)
	assert.Equal(t, alice.ID, second.Collaborators[0].User)

	assert.Equal(t, 1, notifier.calls)
	require.Len(t, alice.Notifications, 1)
	require.Len(t, updated.Collaborators, 1)
}

func TestUpdateDocument_FailedSaveSendsNoMentionNotifications(t *testing.T) {
	author := primitive.NewObjectID()
	alice := newTestUser(t, "alice")
	directory := &fakeDirectory{users: map[string]*models.User{"alice": alice}}
	notifier := &fakeNotifier{}

	coll := &fakeDocumentCollection{
		stored:     newTestDocument(t, author, "draft"),
		replaceErr: []error{errors.New("replace failed")},
	}
	service := &DocumentService{
		documentCollection: coll,
		pipeline:           NewMentionPipeline(directory, notifier),
	}

	_, err := service.UpdateDocument(context.Background(), coll.stored.ID.Hex(), author,
		UpdateDocumentRequest{Content: "please review @alice"})
	require.Error(t, err)

	// The edit never committed, so no mention side effects reached
	// anyone.
	assert.Len(t, coll.replaced, 1)
	assert.Zero(t, notifier.calls)
	assert.Empty(t, alice.Notifications)
}

func TestTrashRoundTrip(t *testing.T) {
	doc := &models.Document{
		Title:   "title",
		Content: "content",
		Versions: []models.Version{
			{Title: "old", Content: "old content"},
		},
	}

	markTrashed(doc, time.Now())
	assert.True(t, doc.Deleted)
	require.NotNil(t, doc.DeletedAt)

	clearTrashed(doc, time.Now())
	assert.False(t, doc.Deleted)
	assert.Nil(t, doc.DeletedAt)

	// content, title and versions survive the round trip untouched
	assert.Equal(t, "title", doc.Title)
	assert.Equal(t, "content", doc.Content)
	require.Len(t, doc.Versions, 1)
	assert.Equal(t, "old content", doc.Versions[0].Content)
}

func TestMarkTrashed_SetsBothFieldsTogether(t *testing.T) {
	doc := &models.Document{}
	now := time.Now()

	markTrashed(doc, now)

	assert.True(t, doc.Deleted)
	require.NotNil(t, doc.DeletedAt)
	assert.Equal(t, now, *doc.DeletedAt)
}
