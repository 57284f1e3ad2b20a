package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/abdussamietahir2006-stack/remotage-backend/internal/models"
)

// ILeadService defines the interface for lead operations.
type ILeadService interface {
	ListLeads(ctx context.Context) ([]models.Lead, error)
	CreateLead(ctx context.Context, lead *models.Lead) (*models.Lead, error)
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// leadService implements ILeadService.
type leadService struct {
	collection *mongo.Collection
	timeout    time.Duration
	now        func() time.Time
}

// NewLeadService creates a new LeadService. A zero timeout leaves calls bound
// only by the caller's context.
func NewLeadService(db *mongo.Database, timeout time.Duration) ILeadService {
	return &leadService{
		collection: db.Collection(models.LeadsCollection),
		timeout:    timeout,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ListLeads returns every stored lead, newest first.
func (s *leadService) ListLeads(ctx context.Context) ([]models.Lead, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	defer cursor.Close(ctx)

	leads := make([]models.Lead, 0)
	if err = cursor.All(ctx, &leads); err != nil {
		return nil, fmt.Errorf("failed to decode leads: %w", err)
	}
	return leads, nil
}

// CreateLead validates the lead against its schema and inserts it.
// CreatedAt defaults to now when the submission did not carry one.
func (s *leadService) CreateLead(ctx context.Context, lead *models.Lead) (*models.Lead, error) {
	if err := lead.Validate(); err != nil {
		return nil, err
	}

	lead.ID = primitive.NewObjectID()
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = s.now()
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.collection.InsertOne(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to insert lead: %w", err)
	}
	return lead, nil
}

// DeleteExpired removes leads created before cutoff. The TTL index does the
// same on its own schedule; this backs it up from the sweep task.
func (s *leadService) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.collection.DeleteMany(ctx, bson.M{"createdAt": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired leads: %w", err)
	}
	return res.DeletedCount, nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
