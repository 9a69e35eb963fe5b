// File: database/repository/procurement/interface.go
package procurementRepo

import (
	"context"
	"time"

	"droply/database"
	"droply/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// Repository persists the procurement entities the agents coordinate.
type Repository interface {
	CreateRFQ(ctx context.Context, rfq *models.RFQ) error
	GetRFQ(ctx context.Context, rfqID string) (*models.RFQ, error)
	AppendQuote(ctx context.Context, rfqID string, quote models.Quote) error

	CreateOrder(ctx context.Context, po *models.PurchaseOrder) error
	GetOrder(ctx context.Context, orderID string) (*models.PurchaseOrder, error)
	SetOrderStatus(ctx context.Context, orderID, status string, escalationLevel int) error

	UpsertSupplier(ctx context.Context, s *models.Supplier) error
	GetSupplier(ctx context.Context, supplierID string) (*models.Supplier, error)
	// SuppliersByCategory returns suppliers serving a part category, best
	// on-time performers first.
	SuppliersByCategory(ctx context.Context, category string, limit int) ([]models.Supplier, error)

	CreateContract(ctx context.Context, c *models.Contract) error
	// ContractsExpiringBy returns contracts ending on or before the deadline.
	ContractsExpiringBy(ctx context.Context, deadline time.Time) ([]models.Contract, error)
}

type mongoProcurementRepo struct {
	rfqs      *mongo.Collection
	orders    *mongo.Collection
	suppliers *mongo.Collection
	contracts *mongo.Collection
}

// NewMongoProcurementRepo constructs a MongoDB-backed Repository.
func NewMongoProcurementRepo() Repository {
	db := database.MongoClient.Database(database.Name)
	return &mongoProcurementRepo{
		rfqs:      db.Collection("rfqs"),
		orders:    db.Collection("purchase_orders"),
		suppliers: db.Collection("suppliers"),
		contracts: db.Collection("contracts"),
	}
}
