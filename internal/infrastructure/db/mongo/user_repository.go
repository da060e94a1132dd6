package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clipstream/video-platform/internal/core/domain"
	"github.com/clipstream/video-platform/internal/core/ports"
)

const usersCollection = "users"

// UserRepository is the MongoDB-backed credential store. Username/email
// uniqueness relies on the unique indexes created by EnsureIndexes.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Username     string               `bson:"username"`
	FirstName    string               `bson:"first_name"`
	LastName     string               `bson:"last_name"`
	Email        string               `bson:"email"`
	PasswordHash string               `bson:"password_hash"`
	Avatar       string               `bson:"avatar"`
	CoverImage   string               `bson:"cover_image,omitempty"`
	RefreshToken string               `bson:"refresh_token,omitempty"`
	WatchHistory []primitive.ObjectID `bson:"watch_history,omitempty"`
	CreatedAt    time.Time            `bson:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at"`
}

func (mu *mongoUser) toDomain() *domain.User {
	history := make([]string, 0, len(mu.WatchHistory))
	for _, id := range mu.WatchHistory {
		history = append(history, id.Hex())
	}
	return &domain.User{
		ID:           mu.ID.Hex(),
		Username:     mu.Username,
		FirstName:    mu.FirstName,
		LastName:     mu.LastName,
		Email:        mu.Email,
		PasswordHash: mu.PasswordHash,
		Avatar:       mu.Avatar,
		CoverImage:   mu.CoverImage,
		RefreshToken: mu.RefreshToken,
		WatchHistory: history,
		CreatedAt:    mu.CreatedAt,
		UpdatedAt:    mu.UpdatedAt,
	}
}

// EnsureIndexes creates the unique indexes backing the handle/email
// uniqueness invariant.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Avatar:       user.Avatar,
		CoverImage:   user.CoverImage,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// FindByUsernameOrEmail looks a user up by either unique key. Empty
// arguments are skipped; at least one must be non-empty.
func (r *UserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	or := bson.A{}
	if username != "" {
		or = append(or, bson.M{"username": username})
	}
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	if len(or) == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"$or": or})
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

// UpdateRefreshToken atomically sets or clears the single stored refresh
// token for the user.
func (r *UserRepository) UpdateRefreshToken(ctx context.Context, userID, token string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"updated_at": time.Now().UTC()}}
	if token == "" {
		update["$unset"] = bson.M{"refresh_token": ""}
	} else {
		update["$set"].(bson.M)["refresh_token"] = token
	}

	_, err = r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("update refresh token: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"password_hash": passwordHash,
		"updated_at":    time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateDetails(ctx context.Context, userID string, fields ports.UserDetails) (*domain.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if fields.Username != "" {
		set["username"] = fields.Username
	}
	if fields.FirstName != "" {
		set["first_name"] = fields.FirstName
	}
	if fields.LastName != "" {
		set["last_name"] = fields.LastName
	}
	if fields.Email != "" {
		set["email"] = fields.Email
	}
	return r.findOneAndUpdate(ctx, userID, bson.M{"$set": set})
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, userID, url string) (*domain.User, error) {
	return r.findOneAndUpdate(ctx, userID, bson.M{"$set": bson.M{
		"avatar":     url,
		"updated_at": time.Now().UTC(),
	}})
}

func (r *UserRepository) UpdateCoverImage(ctx context.Context, userID, url string) (*domain.User, error) {
	return r.findOneAndUpdate(ctx, userID, bson.M{"$set": bson.M{
		"cover_image": url,
		"updated_at":  time.Now().UTC(),
	}})
}

func (r *UserRepository) findOneAndUpdate(ctx context.Context, userID string, update bson.M) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&mu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return mu.toDomain(), nil
}

// AddToWatchHistory removes any earlier occurrence of the video and appends
// it at the tail. Two writes, but the $push is unconditional so a rewatch
// always lands at the end.
func (r *UserRepository) AddToWatchHistory(ctx context.Context, userID, videoID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	vid, err := primitive.ObjectIDFromHex(videoID)
	if err != nil {
		return domain.ErrVideoNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.UpdateByID(ctx, oid, bson.M{"$pull": bson.M{"watch_history": vid}}); err != nil {
		return fmt.Errorf("watch history pull: %w", err)
	}
	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$push": bson.M{"watch_history": vid}})
	if err != nil {
		return fmt.Errorf("watch history push: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) WatchHistoryIDs(ctx context.Context, userID string) ([]string, error) {
	user, err := r.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.WatchHistory, nil
}
