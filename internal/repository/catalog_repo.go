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

// mongoTaxonomyRepository serves all four taxonomy collections (categories,
// colortypes, planttypes, producttypes); each instance is bound to one.
type mongoTaxonomyRepository struct {
	collection *mongo.Collection
	kind       string
	log        *logrus.Logger
}

func NewMongoTaxonomyRepository(db *mongo.Database, collection, kind string, logger *logrus.Logger) domain.TaxonomyRepository {
	return &mongoTaxonomyRepository{
		collection: db.Collection(collection),
		kind:       kind,
		log:        logger,
	}
}

func (r *mongoTaxonomyRepository) Create(ctx context.Context, t *domain.Taxonomy) error {
	if _, err := r.collection.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("could not insert %s: %w", r.kind, err)
	}
	r.log.Infof("%s %s (%s) created", r.kind, t.ID, t.Name)
	return nil
}

func (r *mongoTaxonomyRepository) GetByID(ctx context.Context, id string) (*domain.Taxonomy, error) {
	var t domain.Taxonomy
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s %s: %w", r.kind, id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("could not retrieve %s %s: %w", r.kind, id, err)
	}
	return &t, nil
}

func (r *mongoTaxonomyRepository) ListAll(ctx context.Context) ([]domain.Taxonomy, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("could not query %s list: %w", r.kind, err)
	}
	defer cursor.Close(ctx)

	items := []domain.Taxonomy{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("could not decode %s list: %w", r.kind, err)
	}
	return items, nil
}

func (r *mongoTaxonomyRepository) Update(ctx context.Context, t *domain.Taxonomy) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": t.ID}, t)
	if err != nil {
		return fmt.Errorf("could not update %s %s: %w", r.kind, t.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%s %s: %w", r.kind, t.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *mongoTaxonomyRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("could not delete %s %s: %w", r.kind, id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%s %s: %w", r.kind, id, domain.ErrNotFound)
	}
	r.log.Infof("%s %s deleted", r.kind, id)
	return nil
}

type mongoBannerRepository struct {
	collection *mongo.Collection
	log        *logrus.Logger
}

func NewMongoBannerRepository(db *mongo.Database, logger *logrus.Logger) domain.BannerRepository {
	return &mongoBannerRepository{
		collection: db.Collection("banners"),
		log:        logger,
	}
}

func (r *mongoBannerRepository) Create(ctx context.Context, b *domain.Banner) error {
	if _, err := r.collection.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("could not insert banner: %w", err)
	}
	r.log.Infof("Banner %s created", b.ID)
	return nil
}

func (r *mongoBannerRepository) ListAll(ctx context.Context) ([]domain.Banner, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("could not query banners: %w", err)
	}
	defer cursor.Close(ctx)

	banners := []domain.Banner{}
	if err := cursor.All(ctx, &banners); err != nil {
		return nil, fmt.Errorf("could not decode banners: %w", err)
	}
	return banners, nil
}

func (r *mongoBannerRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("could not delete banner %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("banner %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
