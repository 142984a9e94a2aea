package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dibyendu02/eMadhyam-backend/internal/domain"
)

type mongoProductRepository struct {
	collection *mongo.Collection
	log        *logrus.Logger
}

func NewMongoProductRepository(db *mongo.Database, logger *logrus.Logger) domain.ProductRepository {
	return &mongoProductRepository{
		collection: db.Collection("products"),
		log:        logger,
	}
}

func (r *mongoProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("could not insert product: %w", err)
	}
	r.log.Infof("Product %s (%s) created", product.ID, product.Name)
	return nil
}

func (r *mongoProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("could not retrieve product %s: %w", id, err)
	}
	return &product, nil
}

func (r *mongoProductRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}
	return r.list(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *mongoProductRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, bson.M{})
}

func (r *mongoProductRepository) ListByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	return r.list(ctx, bson.M{"category": categoryID})
}

func (r *mongoProductRepository) list(ctx context.Context, filter bson.M) ([]domain.Product, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("could not query products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []domain.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("could not decode products: %w", err)
	}
	return products, nil
}

func (r *mongoProductRepository) Update(ctx context.Context, product *domain.Product) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return fmt.Errorf("could not update product %s: %w", product.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("product %s: %w", product.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *mongoProductRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("could not delete product %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	r.log.Infof("Product %s deleted", id)
	return nil
}
