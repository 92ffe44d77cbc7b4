package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	VisibilityPrivate = "private"
	VisibilityPublic  = "public"

	PermissionView = "view"
	PermissionEdit = "edit"
)

type Document struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Content       string             `bson:"content" json:"content"` // rich-text HTML
	Author        primitive.ObjectID `bson:"author" json:"author"`
	Visibility    string             `bson:"visibility" json:"visibility"` // "private" or "public"
	Collaborators []Collaborator     `bson:"collaborators" json:"collaborators"`
	Versions      []Version          `bson:"versions" json:"versions"`
	Deleted       bool               `bson:"deleted" json:"deleted"`
	DeletedAt     *time.Time         `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// Collaborator is unique per user within a document; the author is
// never listed as a collaborator of their own document.
type Collaborator struct {
	User       primitive.ObjectID `bson:"user" json:"user"`
	Permission string             `bson:"permission" json:"permission"` // "view" or "edit"
}

// Version is an immutable pre-update snapshot. Versions are append-only
// and are never pruned or rewritten.
type Version struct {
	Title      string             `bson:"title" json:"title"`
	Content    string             `bson:"content" json:"content"`
	ModifiedAt time.Time          `bson:"modified_at" json:"modified_at"`
	ModifiedBy primitive.ObjectID `bson:"modified_by" json:"modified_by"`
}
