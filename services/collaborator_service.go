package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"scribehub/models"
	"scribehub/utils"
)

var (
	ErrAlreadyCollaborator  = errors.New("user is already a collaborator")
	ErrCollaboratorNotFound = errors.New("collaborator not found")
)

// The collaborator list is unique per user. Every mutation of the
// embedded list goes through the functions below so the invariant is
// enforced in one place rather than at each call site.

func HasCollaborator(doc *models.Document, userID primitive.ObjectID) bool {
	for _, c := range doc.Collaborators {
		if c.User == userID {
			return true
		}
	}
	return false
}

// AddCollaboratorIfAbsent inserts the user with the given permission
// and reports whether an entry was added. Existing entries are left
// untouched, so repeated mentions are idempotent. Never called for the
// document's author.
func AddCollaboratorIfAbsent(doc *models.Document, userID primitive.ObjectID, permission string) bool {
	if HasCollaborator(doc, userID) {
		return false
	}
	doc.Collaborators = append(doc.Collaborators, models.Collaborator{
		User:       userID,
		Permission: permission,
	})
	return true
}

// AddCollaborator is the strict, caller-driven variant used by explicit
// sharing: unlike the mention path it fails when the user is already on
// the document.
func AddCollaborator(doc *models.Document, userID primitive.ObjectID, permission string) error {
	if !AddCollaboratorIfAbsent(doc, userID, permission) {
		return ErrAlreadyCollaborator
	}
	return nil
}

// RemoveCollaborator filters the user out of the list. Removing a user
// who is not a collaborator is a no-op.
func RemoveCollaborator(doc *models.Document, userID primitive.ObjectID) {
	filtered := doc.Collaborators[:0]
	for _, c := range doc.Collaborators {
		if c.User != userID {
			filtered = append(filtered, c)
		}
	}
	doc.Collaborators = filtered
}

// UpdateCollaboratorPermission sets the permission in place; it never
// inserts a new entry.
func UpdateCollaboratorPermission(doc *models.Document, userID primitive.ObjectID, permission string) error {
	for i := range doc.Collaborators {
		if doc.Collaborators[i].User == userID {
			doc.Collaborators[i].Permission = permission
			return nil
		}
	}
	return ErrCollaboratorNotFound
}

// CollaboratorService handles explicit document sharing. Per current
// product behavior any authenticated caller who knows the document id
// may manage collaborators; content edits remain author-only.
type CollaboratorService struct {
	documentCollection  *mongo.Collection
	userService         *UserService
	notificationService *NotificationService
}

func NewCollaboratorService(db *mongo.Database, userService *UserService, notificationService *NotificationService) *CollaboratorService {
	return &CollaboratorService{
		documentCollection:  db.Collection("documents"),
		userService:         userService,
		notificationService: notificationService,
	}
}

// ShareDocument adds the user identified by email as a collaborator
// and sends them a share notification. Sharing with the author or an
// existing collaborator fails with ErrAlreadyCollaborator.
func (s *CollaboratorService) ShareDocument(ctx context.Context, documentID, email, permission, sharerName string) (*models.Document, error) {
	if err := utils.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := utils.ValidatePermission(permission); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	doc, err := s.fetchDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	user, err := s.userService.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	// The author already has full access and never appears in the
	// collaborator list.
	if user.ID == doc.Author {
		return nil, ErrAlreadyCollaborator
	}

	if err := AddCollaborator(doc, user.ID, permission); err != nil {
		return nil, err
	}

	doc.UpdatedAt = time.Now()
	if err := s.saveDocument(ctx, doc); err != nil {
		return nil, err
	}

	// Best effort: the share itself has committed.
	if err := s.notificationService.NotifyShare(ctx, user, doc, sharerName); err != nil {
		utils.LogError(fmt.Sprintf("share notification failed for %s on document %s", email, doc.ID.Hex()), err)
	}

	return doc, nil
}

// RemoveCollaborator drops the user from the document. Unknown users
// are tolerated.
func (s *CollaboratorService) RemoveCollaborator(ctx context.Context, documentID string, userID primitive.ObjectID) (*models.Document, error) {
	doc, err := s.fetchDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	RemoveCollaborator(doc, userID)
	doc.UpdatedAt = time.Now()

	if err := s.saveDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// UpdatePermission changes an existing collaborator's permission.
func (s *CollaboratorService) UpdatePermission(ctx context.Context, documentID string, userID primitive.ObjectID, permission string) (*models.Document, error) {
	if err := utils.ValidatePermission(permission); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	doc, err := s.fetchDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if err := UpdateCollaboratorPermission(doc, userID, permission); err != nil {
		return nil, err
	}
	doc.UpdatedAt = time.Now()

	if err := s.saveDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *CollaboratorService) fetchDocument(ctx context.Context, documentID string) (*models.Document, error) {
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

func (s *CollaboratorService) saveDocument(ctx context.Context, doc *models.Document) error {
	_, err := s.documentCollection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}
