package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/abdussamietahir2006-stack/remotage-backend/internal/db"
	"github.com/abdussamietahir2006-stack/remotage-backend/internal/logger"
	"github.com/abdussamietahir2006-stack/remotage-backend/internal/models"
)

// ErrContentIDRequired is returned by SaveContent when no id was supplied.
var ErrContentIDRequired = errors.New("Content ID is required")

// IContentService defines the interface for page content operations.
type IContentService interface {
	GetContent(ctx context.Context, id string) (interface{}, error)
	GetAllContent(ctx context.Context) (map[string]interface{}, error)
	SaveContent(ctx context.Context, id string, data interface{}) (*models.PageContent, error)
	DeleteContent(ctx context.Context, id string) error
}

// contentService implements IContentService.
type contentService struct {
	collection *mongo.Collection
	timeout    time.Duration
	now        func() time.Time
}

// NewContentService creates a new ContentService.
func NewContentService(db *mongo.Database, timeout time.Duration) IContentService {
	return &contentService{
		collection: db.Collection(models.PageContentCollection),
		timeout:    timeout,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// GetContent returns the data stored under id, or nil when there is none.
func (s *contentService) GetContent(ctx context.Context, id string) (interface{}, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var content models.PageContent
	err := s.collection.FindOne(ctx, bson.M{"id": id}).Decode(&content)
	if errors.Is(err, mongo.ErrNoDocuments) {
		logger.GetLogger().Infow("No content found", "id", id)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find content %q: %w", id, err)
	}

	logger.GetLogger().Infow("Retrieved content",
		"id", id,
		"version", content.Version,
		"sections", models.SectionCount(content.Data))
	return content.Data, nil
}

// GetAllContent collapses every stored document into an id -> data map.
func (s *contentService) GetAllContent(ctx context.Context) (map[string]interface{}, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query content: %w", err)
	}
	defer cursor.Close(ctx)

	result := make(map[string]interface{})
	for cursor.Next(ctx) {
		var content models.PageContent
		if err := cursor.Decode(&content); err != nil {
			return nil, fmt.Errorf("failed to decode content: %w", err)
		}
		result[content.ID] = content.Data
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating content cursor: %w", err)
	}
	return result, nil
}

// SaveContent creates or replaces the data under id in a single findAndModify.
// The first write produces version 1 and every later write adds exactly one.
// An upsert that loses a first-write race on the unique id index is re-issued
// and then updates the winner's document.
func (s *contentService) SaveContent(ctx context.Context, id string, data interface{}) (*models.PageContent, error) {
	if id == "" {
		return nil, ErrContentIDRequired
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var updated models.PageContent
	err := db.Try(func() error {
		now := s.now()
		update := bson.M{
			"$set": bson.M{
				"data":         data,
				"lastModified": now,
				"updatedAt":    now,
			},
			"$inc":         bson.M{"version": 1},
			"$setOnInsert": bson.M{"createdAt": now},
		}
		return s.collection.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&updated)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save content %q: %w", id, err)
	}

	logger.GetLogger().Infow("Saved content",
		"id", id,
		"version", updated.Version,
		"sections", models.SectionCount(updated.Data),
		"lastModified", updated.LastModified)
	return &updated, nil
}

// DeleteContent removes the document for id. Deleting a missing id succeeds.
func (s *contentService) DeleteContent(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	err := s.collection.FindOneAndDelete(ctx, bson.M{"id": id}).Err()
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to delete content %q: %w", id, err)
	}
	return nil
}
