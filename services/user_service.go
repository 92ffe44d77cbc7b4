package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"scribehub/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserService is the identity resolver: exact-match lookups by name or
// email against the user directory. Lookups that match nobody return
// (nil, nil) rather than an error.
type UserService struct {
	userCollection *mongo.Collection
}

func NewUserService(db *mongo.Database) *UserService {
	return &UserService{
		userCollection: db.Collection("users"),
	}
}

func (s *UserService) FindByName(ctx context.Context, name string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"name": name})
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *UserService) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := s.userCollection.FindOne(ctx, filter).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}
	return &user, nil
}

func (s *UserService) GetByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.userCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}
	return &user, nil
}

// ListUsers returns the directory entries used by mention and share
// pickers. Only public fields are projected.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	projection := options.Find().
		SetProjection(bson.M{"name": 1, "email": 1, "profile_pic": 1}).
		SetSort(bson.M{"name": 1})

	cursor, err := s.userCollection.Find(ctx, bson.M{}, projection)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// UpdateProfile changes the user's display name.
func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, name string) (*models.User, error) {
	update := bson.M{"$set": bson.M{
		"name":       name,
		"updated_at": time.Now(),
	}}

	result, err := s.userCollection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, ErrUserNotFound
	}

	return s.GetByID(ctx, userID)
}
