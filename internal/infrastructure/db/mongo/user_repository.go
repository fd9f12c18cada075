package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cesizen/identity-system/internal/core/domain"
)

const usersCollection = "users"

// UserRepository is the MongoDB credential store. Username and email
// uniqueness is enforced by unique indexes, so concurrent duplicate inserts
// are resolved by the server rather than by a racy check-then-insert.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email,omitempty"`
	FullName     string             `bson:"full_name,omitempty"`
	PasswordHash string             `bson:"hashed_password"`
	Role         string             `bson:"role"`
	Disabled     bool               `bson:"disabled"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func (mu mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           mu.ID.Hex(),
		Username:     mu.Username,
		Email:        mu.Email,
		FullName:     mu.FullName,
		PasswordHash: mu.PasswordHash,
		Role:         mu.Role,
		Disabled:     mu.Disabled,
	}
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// Create inserts the record and maps a duplicate key violation onto the
// sentinel matching the clashing index.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	role := user.Role
	if role == "" {
		role = domain.RoleUser
	}
	now := time.Now().Unix()
	doc := mongoUser{
		Username:     user.Username,
		Email:        user.Email,
		FullName:     user.FullName,
		PasswordHash: user.PasswordHash,
		Role:         role,
		Disabled:     user.Disabled,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateKeySentinel(err)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := doc.toDomain()
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return created, nil
}

// Update applies only the non-nil patch fields via $set and reports whether
// the document changed.
func (r *UserRepository) Update(ctx context.Context, username string, patch domain.UserPatch) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.FullName != nil {
		set["full_name"] = *patch.FullName
	}
	if patch.Password != nil {
		// Already hashed by the service layer.
		set["hashed_password"] = *patch.Password
	}
	if patch.Disabled != nil {
		set["disabled"] = *patch.Disabled
	}
	if patch.Role != nil {
		set["role"] = *patch.Role
	}
	if len(set) == 0 {
		return false, nil
	}
	set["updated_at"] = time.Now().Unix()

	res, err := r.coll.UpdateOne(ctx, bson.M{"username": username}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, duplicateKeySentinel(err)
		}
		return false, fmt.Errorf("update user: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *UserRepository) Delete(ctx context.Context, username string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"username": username})
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *UserRepository) List(ctx context.Context, skip, limit int64) ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSkip(skip).SetSort(bson.D{{Key: "username", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []domain.User
	for cur.Next(ctx) {
		var mu mongoUser
		if err := cur.Decode(&mu); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, *mu.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// EnsureIndexes creates the unique indexes backing the uniqueness
// invariants. The email index is sparse so records without an email do not
// collide with each other. Idempotent.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

// duplicateKeySentinel picks the sentinel for a duplicate key error by the
// index named in the server message.
func duplicateKeySentinel(err error) error {
	if strings.Contains(err.Error(), "email") {
		return domain.ErrEmailExists
	}
	return domain.ErrUserExists
}
