// File: database/repository/procurement/crud.go
package procurementRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"droply/models"
)

func (r *mongoProcurementRepo) CreateRFQ(ctx context.Context, rfq *models.RFQ) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if rfq.ID == "" {
		rfq.ID = uuid.New().String()
	}
	if rfq.CreatedAt.IsZero() {
		rfq.CreatedAt = time.Now().UTC()
	}
	_, err := r.rfqs.InsertOne(ctx, rfq)
	return err
}

func (r *mongoProcurementRepo) GetRFQ(ctx context.Context, rfqID string) (*models.RFQ, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rfq models.RFQ
	if err := r.rfqs.FindOne(ctx, bson.M{"id": rfqID}).Decode(&rfq); err != nil {
		return nil, err
	}
	return &rfq, nil
}

func (r *mongoProcurementRepo) AppendQuote(ctx context.Context, rfqID string, quote models.Quote) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.rfqs.UpdateOne(ctx,
		bson.M{"id": rfqID},
		bson.M{
			"$push": bson.M{"quotes": quote},
			"$set":  bson.M{"status": models.RFQStatusQuoted},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoProcurementRepo) CreateOrder(ctx context.Context, po *models.PurchaseOrder) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if po.ID == "" {
		po.ID = uuid.New().String()
	}
	if po.CreatedAt.IsZero() {
		po.CreatedAt = time.Now().UTC()
	}
	_, err := r.orders.InsertOne(ctx, po)
	return err
}

func (r *mongoProcurementRepo) GetOrder(ctx context.Context, orderID string) (*models.PurchaseOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var po models.PurchaseOrder
	if err := r.orders.FindOne(ctx, bson.M{"id": orderID}).Decode(&po); err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *mongoProcurementRepo) SetOrderStatus(ctx context.Context, orderID, status string, escalationLevel int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.orders.UpdateOne(ctx,
		bson.M{"id": orderID},
		bson.M{"$set": bson.M{"status": status, "escalationLevel": escalationLevel}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoProcurementRepo) UpsertSupplier(ctx context.Context, s *models.Supplier) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	s.UpdatedAt = time.Now().UTC()
	opts := options.Replace().SetUpsert(true)
	_, err := r.suppliers.ReplaceOne(ctx, bson.M{"id": s.ID}, s, opts)
	return err
}

func (r *mongoProcurementRepo) GetSupplier(ctx context.Context, supplierID string) (*models.Supplier, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var s models.Supplier
	if err := r.suppliers.FindOne(ctx, bson.M{"id": supplierID}).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *mongoProcurementRepo) SuppliersByCategory(ctx context.Context, category string, limit int) ([]models.Supplier, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "onTimeDeliveries", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.suppliers.Find(ctx, bson.M{"categories": category}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var suppliers []models.Supplier
	if err := cursor.All(ctx, &suppliers); err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *mongoProcurementRepo) CreateContract(ctx context.Context, c *models.Contract) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := r.contracts.InsertOne(ctx, c)
	return err
}

func (r *mongoProcurementRepo) ContractsExpiringBy(ctx context.Context, deadline time.Time) ([]models.Contract, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "endDate", Value: 1}})
	cursor, err := r.contracts.Find(ctx, bson.M{"endDate": bson.M{"$lte": deadline}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var contracts []models.Contract
	if err := cursor.All(ctx, &contracts); err != nil {
		return nil, err
	}
	return contracts, nil
}
