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

type mongoUserRepository struct {
	collection *mongo.Collection
	log        *logrus.Logger
}

func NewMongoUserRepository(ctx context.Context, db *mongo.Database, logger *logrus.Logger) (domain.UserRepository, error) {
	collection := db.Collection("users")

	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "phoneNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user indexes: %w", err)
	}

	return &mongoUserRepository{collection: collection, log: logger}, nil
}

func (r *mongoUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user with this phone number or email: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("could not insert user: %w", err)
	}
	r.log.Infof("User %s created", user.ID)
	return nil
}

func (r *mongoUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id}, "user "+id)
}

func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, "user by email")
}

func (r *mongoUserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"phoneNumber": phone}, "user by phone")
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M, what string) (*domain.User, error) {
	var user domain.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", what, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("could not retrieve %s: %w", what, err)
	}
	return &user, nil
}

func (r *mongoUserRepository) ListCustomers(ctx context.Context) ([]domain.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"isAdmin": false})
	if err != nil {
		return nil, fmt.Errorf("could not query users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []domain.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("could not decode users: %w", err)
	}
	return users, nil
}

func (r *mongoUserRepository) Update(ctx context.Context, user *domain.User) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user with this phone number or email: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("could not update user %s: %w", user.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", user.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *mongoUserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("could not delete user %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	r.log.Infof("User %s deleted", id)
	return nil
}

// legacyCartUser matches documents whose cart is still the old bare
// product-id array shape.
type legacyCartUser struct {
	ID   string   `bson:"_id"`
	Cart []string `bson:"cart"`
}

// MigrateLegacyCarts rewrites old-shape carts (arrays of product id strings)
// into the tagged {product, quantity} representation, counting repeated ids
// as quantity. Runs once at startup and is idempotent: already-migrated
// documents do not match the filter.
func (r *mongoUserRepository) MigrateLegacyCarts(ctx context.Context) (int64, error) {
	filter := bson.M{"cart.0": bson.M{"$type": "string"}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("could not query legacy carts: %w", err)
	}
	defer cursor.Close(ctx)

	var migrated int64
	for cursor.Next(ctx) {
		var legacy legacyCartUser
		if err := cursor.Decode(&legacy); err != nil {
			return migrated, fmt.Errorf("could not decode legacy cart: %w", err)
		}

		quantities := make(map[string]int)
		orderSeen := []string{}
		for _, productID := range legacy.Cart {
			if quantities[productID] == 0 {
				orderSeen = append(orderSeen, productID)
			}
			quantities[productID]++
		}
		cart := make([]domain.CartItem, 0, len(orderSeen))
		for _, productID := range orderSeen {
			cart = append(cart, domain.CartItem{ProductID: productID, Quantity: quantities[productID]})
		}

		_, err := r.collection.UpdateOne(ctx,
			bson.M{"_id": legacy.ID},
			bson.M{"$set": bson.M{"cart": cart}},
		)
		if err != nil {
			return migrated, fmt.Errorf("could not migrate cart for user %s: %w", legacy.ID, err)
		}
		migrated++
		r.log.Infof("Migrated legacy cart for user %s (%d entries)", legacy.ID, len(cart))
	}
	if err := cursor.Err(); err != nil {
		return migrated, fmt.Errorf("error iterating legacy carts: %w", err)
	}
	return migrated, nil
}
