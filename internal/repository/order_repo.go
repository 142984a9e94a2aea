package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dibyendu02/eMadhyam-backend/internal/domain"
)

type mongoOrderRepository struct {
	collection *mongo.Collection
	log        *logrus.Logger
}

func NewMongoOrderRepository(ctx context.Context, db *mongo.Database, logger *logrus.Logger) (domain.OrderRepository, error) {
	collection := db.Collection("orders")

	// Reconciliation looks orders up by their gateway session id.
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "razorpayOrder.id", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "time", Value: -1}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create order indexes: %w", err)
	}

	return &mongoOrderRepository{collection: collection, log: logger}, nil
}

func (r *mongoOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if _, err := r.collection.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("could not insert order: %w", err)
	}
	r.log.Infof("Order %s created for user %s", order.ID, order.UserID)
	return nil
}

func (r *mongoOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("could not retrieve order %s: %w", id, err)
	}
	return &order, nil
}

func (r *mongoOrderRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Order, error) {
	var order domain.Order
	err := r.collection.FindOne(ctx, bson.M{"razorpayOrder.id": gatewayOrderID}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("order for gateway session %s: %w", gatewayOrderID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("could not retrieve order for gateway session %s: %w", gatewayOrderID, err)
	}
	return &order, nil
}

func (r *mongoOrderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, bson.M{})
}

func (r *mongoOrderRepository) ListByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.list(ctx, bson.M{"userId": userID})
}

func (r *mongoOrderRepository) list(ctx context.Context, filter bson.M) ([]domain.Order, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "time", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("could not query orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []domain.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("could not decode orders: %w", err)
	}
	return orders, nil
}

func (r *mongoOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": order.ID}, order)
	if err != nil {
		return fmt.Errorf("could not update order %s: %w", order.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("order %s: %w", order.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *mongoOrderRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("could not delete order %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	r.log.Infof("Order %s deleted", id)
	return nil
}
