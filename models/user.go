package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	NotificationMention = "mention"
	NotificationShare   = "share"
)

type User struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                 string             `bson:"name" json:"name"`
	Email                string             `bson:"email" json:"email"`
	Password             string             `bson:"password" json:"-"` // bcrypt hash, empty for OAuth-only accounts
	GoogleID             string             `bson:"google_id,omitempty" json:"google_id,omitempty"`
	ProfilePic           string             `bson:"profile_pic,omitempty" json:"profile_pic,omitempty"`
	ResetPasswordToken   string             `bson:"reset_password_token,omitempty" json:"-"`
	ResetPasswordExpires *time.Time         `bson:"reset_password_expires,omitempty" json:"-"`
	Notifications        []Notification     `bson:"notifications" json:"notifications"`
	CreatedAt            time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time          `bson:"updated_at" json:"updated_at"`
}

// Notification is append-only except for the read flag. At most one
// mention notification exists per (user, document) pair.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type      string             `bson:"type" json:"type"` // "mention" or "share"
	Message   string             `bson:"message" json:"message"`
	Document  primitive.ObjectID `bson:"document" json:"document"`
	Read      bool               `bson:"read" json:"read"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
