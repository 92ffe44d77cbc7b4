package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"scribehub/models"
)

// TrashService lists a user's trashed documents and purges expired
// ones on behalf of the cleanup job.
type TrashService struct {
	documentCollection *mongo.Collection
	retentionDays      int
}

type TrashItem struct {
	ID          primitive.ObjectID `json:"id"`
	Title       string             `json:"title"`
	DeletedAt   time.Time          `json:"deleted_at"`
	AutoPurgeAt time.Time          `json:"auto_purge_at"`
}

func NewTrashService(db *mongo.Database, retentionDays int) *TrashService {
	return &TrashService{
		documentCollection: db.Collection("documents"),
		retentionDays:      retentionDays,
	}
}

// GetTrashItems returns the caller's trashed documents with the date
// each will be purged automatically.
func (s *TrashService) GetTrashItems(ctx context.Context, userID primitive.ObjectID) ([]TrashItem, error) {
	filter := bson.M{
		"author":  userID,
		"deleted": true,
	}

	findOptions := options.Find().SetSort(bson.M{"deleted_at": -1})

	cursor, err := s.documentCollection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trashed documents: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []models.Document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode trashed documents: %w", err)
	}

	items := make([]TrashItem, 0, len(docs))
	for _, doc := range docs {
		var deletedAt, autoPurgeAt time.Time
		if doc.DeletedAt != nil {
			deletedAt = *doc.DeletedAt
			autoPurgeAt = deletedAt.AddDate(0, 0, s.retentionDays)
		}

		items = append(items, TrashItem{
			ID:          doc.ID,
			Title:       doc.Title,
			DeletedAt:   deletedAt,
			AutoPurgeAt: autoPurgeAt,
		})
	}

	return items, nil
}

// PurgeExpired permanently deletes every trashed document whose
// deletion is older than the retention window.
func (s *TrashService) PurgeExpired(ctx context.Context) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)

	filter := bson.M{
		"deleted":    true,
		"deleted_at": bson.M{"$lte": cutoff},
	}

	result, err := s.documentCollection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired documents: %w", err)
	}
	return result.DeletedCount, nil
}
