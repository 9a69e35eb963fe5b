// File: database/repository/availability/interface.go
package availabilityRepo

import (
	"context"
	"time"

	"droply/database"
	"droply/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// Repository persists recurring rules and one-off exceptions.
type Repository interface {
	// ReplaceRules swaps a provider's weekly rules wholesale.
	ReplaceRules(ctx context.Context, providerID string, rules []models.AvailabilityRule) error
	ListRules(ctx context.Context, providerID string) ([]models.AvailabilityRule, error)

	CreateException(ctx context.Context, exc *models.AvailabilityException) error
	DeleteException(ctx context.Context, providerID, exceptionID string) error
	// ListExceptions returns exceptions overlapping [from, to).
	ListExceptions(ctx context.Context, providerID string, from, to time.Time) ([]models.AvailabilityException, error)
}

type mongoAvailabilityRepo struct {
	rules      *mongo.Collection
	exceptions *mongo.Collection
}

// NewMongoAvailabilityRepo constructs a MongoDB-backed Repository.
func NewMongoAvailabilityRepo() Repository {
	db := database.MongoClient.Database(database.Name)
	return &mongoAvailabilityRepo{
		rules:      db.Collection("availability_rules"),
		exceptions: db.Collection("availability_exceptions"),
	}
}
