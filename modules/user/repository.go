package user

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Repository defines the storage operations the user service requires.
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context) ([]User, error)
	Replace(ctx context.Context, id bson.ObjectID, u *User) (*User, error)
}

const usersCollection = "users"

// MongoRepository is the MongoDB-backed account store.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository creates the repository and ensures a unique index on
// email. The index makes Create an atomic insert-if-absent: two concurrent
// registrations with the same email cannot both succeed, regardless of any
// earlier existence check.
func NewMongoRepository(ctx context.Context, db *mongo.Database) (*MongoRepository, error) {
	coll := db.Collection(usersCollection)

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure unique email index: %w", err)
	}

	return &MongoRepository{coll: coll}, nil
}

// Create inserts a new account. A duplicate email reports ErrAlreadyExists.
func (r *MongoRepository) Create(ctx context.Context, u *User) error {
	if u.ID.IsZero() {
		u.ID = bson.NewObjectID()
	}

	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByEmail returns the account registered under email, or ErrNotFound.
func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &u, nil
}

// FindAll returns every account record.
func (r *MongoRepository) FindAll(ctx context.Context) ([]User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	users := []User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// Replace overwrites the whole document for id and returns the post-image.
// There is no field merging: the stored record becomes exactly u.
func (r *MongoRepository) Replace(ctx context.Context, id bson.ObjectID, u *User) (*User, error) {
	u.ID = id

	var updated User
	err := r.coll.FindOneAndReplace(
		ctx,
		bson.M{"_id": id},
		u,
		options.FindOneAndReplace().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to replace user: %w", err)
	}
	return &updated, nil
}
