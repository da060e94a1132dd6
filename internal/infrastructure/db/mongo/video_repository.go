package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clipstream/video-platform/internal/core/domain"
)

const videosCollection = "videos"

type VideoRepository struct {
	coll *mongo.Collection
}

func NewVideoRepository(db *mongo.Database) *VideoRepository {
	return &VideoRepository{coll: db.Collection(videosCollection)}
}

type mongoVideo struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	URL         string             `bson:"url"`
	Thumbnail   string             `bson:"thumbnail"`
	Owner       primitive.ObjectID `bson:"owner"`
	Channel     string             `bson:"channel"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (mv *mongoVideo) toDomain() domain.Video {
	return domain.Video{
		ID:          mv.ID.Hex(),
		Title:       mv.Title,
		Description: mv.Description,
		URL:         mv.URL,
		Thumbnail:   mv.Thumbnail,
		Owner:       mv.Owner.Hex(),
		Channel:     mv.Channel,
		CreatedAt:   mv.CreatedAt,
		UpdatedAt:   mv.UpdatedAt,
	}
}

func (r *VideoRepository) Create(ctx context.Context, video *domain.Video) (*domain.Video, error) {
	owner, err := primitive.ObjectIDFromHex(video.Owner)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoVideo{
		Title:       video.Title,
		Description: video.Description,
		URL:         video.URL,
		Thumbnail:   video.Thumbnail,
		Owner:       owner,
		Channel:     video.Channel,
		CreatedAt:   video.CreatedAt,
		UpdatedAt:   video.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert video: %w", err)
	}

	created := *video
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

// FindByIDs fetches the videos for the given ids and returns them in the
// order the ids were supplied. Ids that resolve to nothing are skipped.
func (r *VideoRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Video, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return []domain.Video{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find videos: %w", err)
	}
	defer func() { _ = cur.Close(ctx) }()

	byID := make(map[string]domain.Video, len(oids))
	for cur.Next(ctx) {
		var mv mongoVideo
		if err := cur.Decode(&mv); err != nil {
			return nil, fmt.Errorf("decode video: %w", err)
		}
		v := mv.toDomain()
		byID[v.ID] = v
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}

	ordered := make([]domain.Video, 0, len(byID))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			ordered = append(ordered, v)
		}
	}
	return ordered, nil
}
