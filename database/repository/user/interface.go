// File: database/repository/user/interface.go
package userRepo

import (
	"context"

	"droply/database"
	"droply/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// Repository persists marketplace users.
type Repository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
	SetFCMToken(ctx context.Context, userID, token string) error
}

type mongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo constructs a MongoDB-backed Repository.
func NewMongoUserRepo() Repository {
	db := database.MongoClient.Database(database.Name)
	return &mongoUserRepo{coll: db.Collection("users")}
}
