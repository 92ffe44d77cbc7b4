package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"scribehub/models"
	"scribehub/utils"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService appends mention and share notifications to the
// target user's embedded notification list and sends the accompanying
// emails through Mailgun.
type NotificationService struct {
	userCollection *mongo.Collection
	mailgunAPIKey  string
	mailgunDomain  string
	fromEmail      string
}

type MailgunMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

func NewNotificationService(db *mongo.Database, mailgunAPIKey, mailgunDomain, fromEmail string) *NotificationService {
	return &NotificationService{
		userCollection: db.Collection("users"),
		mailgunAPIKey:  mailgunAPIKey,
		mailgunDomain:  mailgunDomain,
		fromEmail:      fromEmail,
	}
}

// appendMentionNotification enforces the at-most-one-mention rule for a
// (user, document) pair and reports whether an entry was appended.
// The check-then-append is not atomic across concurrent requests that
// mention the same user; a duplicate produced by that race is a
// cosmetic defect, not a correctness violation, so no locking here.
func appendMentionNotification(user *models.User, doc *models.Document, now time.Time) bool {
	for _, n := range user.Notifications {
		if n.Type == models.NotificationMention && n.Document == doc.ID {
			return false
		}
	}

	user.Notifications = append(user.Notifications, models.Notification{
		ID:        primitive.NewObjectID(),
		Type:      models.NotificationMention,
		Message:   fmt.Sprintf("You were mentioned in %q", doc.Title),
		Document:  doc.ID,
		Read:      false,
		CreatedAt: now,
	})
	return true
}

// appendShareNotification has no dedup rule: every explicit share
// produces its own entry.
func appendShareNotification(user *models.User, doc *models.Document, sharerName string, now time.Time) {
	user.Notifications = append(user.Notifications, models.Notification{
		ID:        primitive.NewObjectID(),
		Type:      models.NotificationShare,
		Message:   fmt.Sprintf("%s shared %q with you", sharerName, doc.Title),
		Document:  doc.ID,
		Read:      false,
		CreatedAt: now,
	})
}

// NotifyMention records a mention notification for the user. Repeat
// mentions of the same user in the same document are a no-op.
func (s *NotificationService) NotifyMention(ctx context.Context, user *models.User, doc *models.Document) error {
	if !appendMentionNotification(user, doc, time.Now()) {
		return nil
	}
	return s.saveNotifications(ctx, user)
}

// NotifyShare records a share notification and emails the user.
// Email delivery is best effort; the notification itself must persist.
func (s *NotificationService) NotifyShare(ctx context.Context, user *models.User, doc *models.Document, sharerName string) error {
	appendShareNotification(user, doc, sharerName, time.Now())
	if err := s.saveNotifications(ctx, user); err != nil {
		return err
	}

	if s.mailgunAPIKey != "" {
		subject := fmt.Sprintf("Document shared with you: %s", doc.Title)
		text := fmt.Sprintf("Hi %s,\n\n%s has shared a document with you: %s\n\nYou can open it in your ScribeHub account.\n\nBest regards,\nScribeHub Team",
			user.Name, sharerName, doc.Title)
		html := fmt.Sprintf(`
			<h2>Document Shared With You</h2>
			<p>Hi %s,</p>
			<p><strong>%s</strong> has shared a document with you: <strong>%s</strong></p>
			<p>You can open it in your ScribeHub account.</p>
			<p>Best regards,<br>ScribeHub Team</p>
		`, user.Name, sharerName, doc.Title)

		if err := s.sendEmail(user.Email, subject, text, html); err != nil {
			utils.LogError(fmt.Sprintf("share email to %s failed", user.Email), err)
		}
	}

	return nil
}

// SendPasswordResetEmail mails a reset link to the user.
func (s *NotificationService) SendPasswordResetEmail(user *models.User, resetURL string) error {
	subject := "Reset your ScribeHub password"
	text := fmt.Sprintf("Hi %s,\n\nWe received a request to reset your password. Open the link below to choose a new one:\n\n%s\n\nIf you did not request this, you can ignore this email.\n\nBest regards,\nScribeHub Team",
		user.Name, resetURL)
	html := fmt.Sprintf(`
		<h2>Password Reset</h2>
		<p>Hi %s,</p>
		<p>We received a request to reset your password. Click the link below to choose a new one:</p>
		<p><a href="%s">Reset password</a></p>
		<p>If you did not request this, you can ignore this email.</p>
		<p>Best regards,<br>ScribeHub Team</p>
	`, user.Name, resetURL)

	return s.sendEmail(user.Email, subject, text, html)
}

// GetNotifications returns the user's notifications, newest first.
func (s *NotificationService) GetNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	var user models.User
	err := s.userCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	notifications := user.Notifications
	for i, j := 0, len(notifications)-1; i < j; i, j = i+1, j-1 {
		notifications[i], notifications[j] = notifications[j], notifications[i]
	}
	return notifications, nil
}

// MarkNotificationRead flips the read flag on one notification.
func (s *NotificationService) MarkNotificationRead(ctx context.Context, userID, notificationID primitive.ObjectID) error {
	var user models.User
	err := s.userCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to fetch user: %w", err)
	}

	found := false
	for i := range user.Notifications {
		if user.Notifications[i].ID == notificationID {
			user.Notifications[i].Read = true
			found = true
			break
		}
	}
	if !found {
		return ErrNotificationNotFound
	}

	return s.saveNotifications(ctx, &user)
}

func (s *NotificationService) saveNotifications(ctx context.Context, user *models.User) error {
	update := bson.M{"$set": bson.M{
		"notifications": user.Notifications,
		"updated_at":    time.Now(),
	}}

	_, err := s.userCollection.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to save notifications: %w", err)
	}
	return nil
}

func (s *NotificationService) sendEmail(to, subject, text, html string) error {
	url := fmt.Sprintf("https://api.mailgun.net/v3/%s/messages", s.mailgunDomain)

	payload := MailgunMessage{
		From:    s.fromEmail,
		To:      to,
		Subject: subject,
		Text:    text,
		HTML:    html,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal mailgun message: %w", err)
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create mailgun request: %w", err)
	}

	req.SetBasicAuth("api", s.mailgunAPIKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send mailgun request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("mailgun responded with status: %s", resp.Status)
	}

	return nil
}
