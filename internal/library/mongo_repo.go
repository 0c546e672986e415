package library

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoCollection = "manga"

type mongoEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     string             `bson:"userId"`
	KitsuID    string             `bson:"kitsuId"`
	Title      string             `bson:"title"`
	Genres     []string           `bson:"genres"`
	Status     string             `bson:"status"`
	Rating     *int               `bson:"rating"`
	Synopsis   string             `bson:"synopsis"`
	CoverImage string             `bson:"coverImage"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

func (m mongoEntry) toEntry() Entry {
	genres := m.Genres
	if genres == nil {
		genres = []string{}
	}
	return Entry{
		ID:         m.ID.Hex(),
		UserID:     m.UserID,
		KitsuID:    m.KitsuID,
		Title:      m.Title,
		Genres:     genres,
		Status:     Status(m.Status),
		Rating:     m.Rating,
		Synopsis:   m.Synopsis,
		CoverImage: m.CoverImage,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// MongoRepo keeps entries in the "manga" collection.
type MongoRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewMongoRepo(db *mongo.Database, timeout time.Duration) *MongoRepo {
	return &MongoRepo{coll: db.Collection(mongoCollection), timeout: timeout}
}

func (r *MongoRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// EnsureIndexes creates the per-scope uniqueness index on kitsuId.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.coll.Indexes().CreateOne(timeoutCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "kitsuId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("user_kitsu_unique"),
	})
	return err
}

func (r *MongoRepo) List(ctx context.Context, userID string) ([]Entry, error) {
	filter := bson.M{"userId": userID}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	cur, err := r.coll.Find(timeoutCtx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(timeoutCtx)

	var docs []mongoEntry
	if err := cur.All(timeoutCtx, &docs); err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, d.toEntry())
	}
	return entries, nil
}

func (r *MongoRepo) Get(ctx context.Context, id string) (Entry, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Entry{}, ErrNotFound
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var doc mongoEntry
	if err := r.coll.FindOne(timeoutCtx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, err
	}
	return doc.toEntry(), nil
}

func (r *MongoRepo) Create(ctx context.Context, e *Entry) error {
	now := time.Now().UTC()
	doc := mongoEntry{
		UserID:     e.UserID,
		KitsuID:    e.KitsuID,
		Title:      e.Title,
		Genres:     e.Genres,
		Status:     string(e.Status),
		Rating:     e.Rating,
		Synopsis:   e.Synopsis,
		CoverImage: e.CoverImage,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	res, err := r.coll.InsertOne(timeoutCtx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyOwned
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		e.ID = oid.Hex()
	}
	e.CreatedAt, e.UpdatedAt = now, now
	return nil
}

func (r *MongoRepo) UpdateProgress(ctx context.Context, id string, status Status, rating *int) (Entry, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Entry{}, ErrNotFound
	}

	update := bson.M{"$set": bson.M{
		"status":    string(status),
		"rating":    rating,
		"updatedAt": time.Now().UTC(),
	}}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var doc mongoEntry
	err = r.coll.FindOneAndUpdate(timeoutCtx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, err
	}
	return doc.toEntry(), nil
}

func (r *MongoRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	res, err := r.coll.DeleteOne(timeoutCtx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
