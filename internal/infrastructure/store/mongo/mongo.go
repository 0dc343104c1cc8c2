// Package mongo implements the purchase and user stores on MongoDB. Emails
// are the _id of both collections, so the unique index gives Create its
// one-shot semantics for free.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/teacherpoli/members-api/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

const (
	purchaseCollection = "purchases"
	userCollection     = "users"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// PurchaseStore persists purchase records in the purchases collection.
type PurchaseStore struct {
	coll *mongo.Collection
}

func NewPurchaseStore(db *mongo.Database) *PurchaseStore {
	return &PurchaseStore{coll: db.Collection(purchaseCollection)}
}

func (s *PurchaseStore) Get(ctx context.Context, email string) (*domain.Purchase, error) {
	var p domain.Purchase
	err := s.coll.FindOne(ctx, bson.M{"_id": domain.NormalizeEmail(email)}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPurchaseNotFound
		}
		return nil, fmt.Errorf("find purchase: %w", err)
	}
	return &p, nil
}

func (s *PurchaseStore) Put(ctx context.Context, purchase *domain.Purchase) error {
	filter := bson.M{"_id": domain.NormalizeEmail(purchase.Email)}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, filter, purchase, opts); err != nil {
		return fmt.Errorf("upsert purchase: %w", err)
	}
	return nil
}

// UserStore persists user credential records in the users collection.
type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{coll: db.Collection(userCollection)}
}

func (s *UserStore) Get(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := s.coll.FindOne(ctx, bson.M{"_id": domain.NormalizeEmail(email)}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (s *UserStore) Has(ctx context.Context, email string) (bool, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"_id": domain.NormalizeEmail(email)}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if _, err := s.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStore) SetOnboardingCompleted(ctx context.Context, email string) error {
	filter := bson.M{"_id": domain.NormalizeEmail(email)}
	update := bson.M{"$set": bson.M{"has_completed_onboarding": true}}

	res, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
