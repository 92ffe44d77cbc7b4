package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"scribehub/models"
	"scribehub/utils"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrForbidden        = errors.New("only the author can perform this action")
	ErrValidation       = errors.New("validation failed")
)

// docCollection is the subset of *mongo.Collection the document
// service relies on.
type docCollection interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	ReplaceOne(ctx context.Context, filter interface{}, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// DocumentService orchestrates the document lifecycle: create, update,
// soft delete, restore and permanent removal. Documents are read and
// written as whole aggregates; mutations happen in memory and the full
// document is written back.
type DocumentService struct {
	documentCollection docCollection
	pipeline           *MentionPipeline
}

func NewDocumentService(db *mongo.Database, pipeline *MentionPipeline) *DocumentService {
	return &DocumentService{
		documentCollection: db.Collection("documents"),
		pipeline:           pipeline,
	}
}

type UpdateDocumentRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Visibility string `json:"visibility"`
}

// requireAuthor is the capability check used by every author-only
// transition. Authorization is by document authorship alone.
func requireAuthor(doc *models.Document, callerID primitive.ObjectID) error {
	if doc.Author != callerID {
		return ErrForbidden
	}
	return nil
}

// snapshotVersion appends the document's current title and content to
// the version archive. It must run before the new values are applied,
// otherwise the snapshot would duplicate the post-update state.
func snapshotVersion(doc *models.Document, editorID primitive.ObjectID, now time.Time) {
	doc.Versions = append(doc.Versions, models.Version{
		Title:      doc.Title,
		Content:    doc.Content,
		ModifiedAt: now,
		ModifiedBy: editorID,
	})
}

// applyUpdate overwrites the changed fields. Empty fields keep their
// current value.
func applyUpdate(doc *models.Document, req UpdateDocumentRequest, now time.Time) {
	if req.Title != "" {
		doc.Title = req.Title
	}
	if req.Content != "" {
		doc.Content = req.Content
	}
	if req.Visibility != "" {
		doc.Visibility = req.Visibility
	}
	doc.UpdatedAt = now
}

func markTrashed(doc *models.Document, now time.Time) {
	doc.Deleted = true
	doc.DeletedAt = &now
	doc.UpdatedAt = now
}

func clearTrashed(doc *models.Document, now time.Time) {
	doc.Deleted = false
	doc.DeletedAt = nil
	doc.UpdatedAt = now
}

// CreateDocument creates an active document owned by the caller and
// runs the mention pipeline over the initial content.
func (s *DocumentService) CreateDocument(ctx context.Context, author primitive.ObjectID, title, content, visibility string) (*models.Document, error) {
	if err := utils.ValidateDocumentTitle(title); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := utils.ValidateDocumentContent(content); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if visibility == "" {
		visibility = models.VisibilityPrivate
	}
	if err := utils.ValidateVisibility(visibility); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	now := time.Now()
	doc := &models.Document{
		ID:            primitive.NewObjectID(),
		Title:         title,
		Content:       content,
		Author:        author,
		Visibility:    visibility,
		Collaborators: []models.Collaborator{},
		Versions:      []models.Version{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := s.documentCollection.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	// The document is committed; mention processing runs after and
	// its per-user failures never abort the create.
	s.pipeline.Run(ctx, doc)

	if err := s.saveDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// UpdateDocument applies an author-only edit to an active document:
// snapshot the current state, apply the changes, then re-run the
// mention pipeline over the new content. Trashed documents cannot be
// edited.
func (s *DocumentService) UpdateDocument(ctx context.Context, documentID string, editor primitive.ObjectID, req UpdateDocumentRequest) (*models.Document, error) {
	doc, err := s.fetchDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Deleted {
		return nil, ErrDocumentNotFound
	}
	if err := requireAuthor(doc, editor); err != nil {
		return nil, err
	}
	if req.Visibility != "" {
		if err := utils.ValidateVisibility(req.Visibility); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	now := time.Now()
	snapshotVersion(doc, editor, now)
	applyUpdate(doc, req, now)

	if err := s.saveDocument(ctx, doc); err != nil {
		return nil, err
	}

	// The edit commits first; mention processing runs after it and a
	// second save persists any collaborators the pipeline added.
	s.pipeline.Run(ctx, doc)

	if err := s.saveDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// SoftDelete moves an author's document to the trash.
func (s *DocumentService) SoftDelete(ctx context.Context, documentID string, caller primitive.ObjectID) error {
	doc, err := s.fetchDocument(ctx, documentID)
	if err != nil {
		return err
	}
	if err := requireAuthor(doc, caller); err != nil {
		return err
	}

	markTrashed(doc, time.Now())
	return s.saveDocument(ctx, doc)
}

// Restore brings a trashed document back to the active state with its
// content, title and versions untouched.
func (s *DocumentService) Restore(ctx context.Context, documentID string, caller primitive.ObjectID) error {
	doc, err := s.fetchDocument(ctx, documentID)
	if err != nil {
		return err
	}
	if err := requireAuthor(doc, caller); err != nil {
		return err
	}

	clearTrashed(doc, time.Now())
	return s.saveDocument(ctx, doc)
}

// DeleteDocument destroys an active document immediately, bypassing
// the trash.
func (s *DocumentService) DeleteDocument(ctx context.Context, documentID string, caller primitive.ObjectID) error {
	return s.destroy(ctx, documentID, caller)
}

// PermanentlyDelete destroys a document from either the active or the
// trashed state. Irreversible.
func (s *DocumentService) PermanentlyDelete(ctx context.Context, documentID string, caller primitive.ObjectID) error {
	return s.destroy(ctx, documentID, caller)
}

func (s *DocumentService) destroy(ctx context.Context, documentID string, caller primitive.ObjectID) error {
	doc, err := s.fetchDocument(ctx, documentID)
	if err != nil {
		return err
	}
	if err := requireAuthor(doc, caller); err != nil {
		return err
	}

	_, err = s.documentCollection.DeleteOne(ctx, bson.M{"_id": doc.ID})
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// GetDocument returns a single document if the caller may view it:
// public documents, the author, and collaborators.
func (s *DocumentService) GetDocument(ctx context.Context, documentID string, caller primitive.ObjectID) (*models.Document, error) {
	doc, err := s.fetchDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if doc.Visibility != models.VisibilityPublic && doc.Author != caller && !HasCollaborator(doc, caller) {
		return nil, ErrForbidden
	}
	return doc, nil
}

// ListDocuments returns the caller's visible set: documents they
// authored, collaborate on, or that are public.
func (s *DocumentService) ListDocuments(ctx context.Context, caller primitive.ObjectID, showDeleted bool) ([]models.Document, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"author": caller},
			{"collaborators.user": caller},
			{"visibility": models.VisibilityPublic},
		},
		"deleted": showDeleted,
	}
	return s.findDocuments(ctx, filter)
}

// MyDocuments returns the caller's own active documents.
func (s *DocumentService) MyDocuments(ctx context.Context, caller primitive.ObjectID) ([]models.Document, error) {
	return s.findDocuments(ctx, bson.M{"author": caller, "deleted": false})
}

// SearchDocuments matches the query against title and content of the
// caller's visible, active documents.
func (s *DocumentService) SearchDocuments(ctx context.Context, caller primitive.ObjectID, query string) ([]models.Document, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{
		"deleted": false,
		"$and": []bson.M{
			{"$or": []bson.M{
				{"title": pattern},
				{"content": pattern},
			}},
			{"$or": []bson.M{
				{"author": caller},
				{"collaborators.user": caller},
				{"visibility": models.VisibilityPublic},
			}},
		},
	}
	return s.findDocuments(ctx, filter)
}

func (s *DocumentService) findDocuments(ctx context.Context, filter bson.M) ([]models.Document, error) {
	findOptions := options.Find().SetSort(bson.M{"updated_at": -1})

	cursor, err := s.documentCollection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []models.Document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}
	return docs, nil
}

func (s *DocumentService) fetchDocument(ctx context.Context, documentID string) (*models.Document, error) {
	objID, err := primitive.ObjectIDFromHex(documentID)
	if err != nil {
		return nil, ErrDocumentNotFound
	}

	var doc models.Document
	err = s.documentCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}
	return &doc, nil
}

func (s *DocumentService) saveDocument(ctx context.Context, doc *models.Document) error {
	_, err := s.documentCollection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}
