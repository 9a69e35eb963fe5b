// File: database/repository/slot/interface.go
package slotRepo

import (
	"context"
	"time"

	"droply/database"
	"droply/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// Repository persists bookable time slots. Reserve and Release are the
// only writes that touch the availability flag; both are single
// conditional updates so that concurrent reservations of one slot resolve
// to exactly one winner inside the storage layer.
type Repository interface {
	Create(ctx context.Context, slot *models.TimeSlot) error
	CreateMany(ctx context.Context, slots []models.TimeSlot) ([]string, error)
	GetByID(ctx context.Context, slotID string) (*models.TimeSlot, error)
	DeleteByID(ctx context.Context, providerID, slotID string) error
	// ListByProvider returns slots overlapping [from, to), ordered by start.
	ListByProvider(ctx context.Context, providerID string, from, to time.Time) ([]models.TimeSlot, error)

	// Reserve flips isAvailable from true to false. It reports false with a
	// nil error when the slot was not available (taken or missing).
	Reserve(ctx context.Context, slotID string) (bool, error)
	// Release flips isAvailable back to true after a cancellation.
	Release(ctx context.Context, slotID string) error
}

type mongoSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoSlotRepo constructs a MongoDB-backed Repository.
func NewMongoSlotRepo() Repository {
	db := database.MongoClient.Database(database.Name)
	return &mongoSlotRepo{coll: db.Collection("timeslots")}
}
