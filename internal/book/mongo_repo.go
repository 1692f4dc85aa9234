package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type MongoRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewMongoRepo(coll *mongo.Collection, timeout time.Duration) *MongoRepo {
	return &MongoRepo{coll: coll, timeout: timeout}
}

func (r *MongoRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func findOptions(spec findSpec) *options.FindOptionsBuilder {
	opts := options.Find()
	if len(spec.Sort) > 0 {
		opts.SetSort(spec.Sort)
	}
	if spec.Skip > 0 {
		opts.SetSkip(spec.Skip)
	}
	if spec.Limit > 0 {
		opts.SetLimit(spec.Limit)
	}
	return opts
}

func (r *MongoRepo) List(ctx context.Context, q Query) ([]Book, int, error) {
	spec, err := buildFind(q)
	if err != nil {
		return nil, 0, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	total, err := r.coll.CountDocuments(timeoutCtx, spec.Filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	cur, err := r.coll.Find(timeoutCtx, spec.Filter, findOptions(spec))
	if err != nil {
		return nil, 0, fmt.Errorf("find books: %w", err)
	}
	out := []Book{}
	if err := cur.All(timeoutCtx, &out); err != nil {
		return nil, 0, fmt.Errorf("decode books: %w", err)
	}
	return out, int(total), nil
}

func (r *MongoRepo) ListSummaries(ctx context.Context, q Query) ([]Summary, error) {
	spec, err := buildFind(q)
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	cur, err := r.coll.Find(timeoutCtx, spec.Filter, findOptions(spec).SetProjection(summaryProjection))
	if err != nil {
		return nil, fmt.Errorf("find book summaries: %w", err)
	}
	out := []Summary{}
	if err := cur.All(timeoutCtx, &out); err != nil {
		return nil, fmt.Errorf("decode book summaries: %w", err)
	}
	return out, nil
}

func (r *MongoRepo) GetByTitle(ctx context.Context, title string) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var b Book
	err := r.coll.FindOne(timeoutCtx, bson.D{{Key: "title", Value: title}}).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *MongoRepo) Create(ctx context.Context, b *Book) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.coll.InsertOne(timeoutCtx, b)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		b.ID = id
	}
	return nil
}

func (r *MongoRepo) InsertMany(ctx context.Context, books []Book) (int, error) {
	if len(books) == 0 {
		return 0, nil
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.coll.InsertMany(timeoutCtx, books)
	if err != nil {
		return 0, fmt.Errorf("insert books: %w", err)
	}
	return len(res.InsertedIDs), nil
}

func (r *MongoRepo) Update(ctx context.Context, title string, p Patch) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(timeoutCtx, bson.D{{Key: "title", Value: title}}, SetDoc(p))
	if err != nil {
		return fmt.Errorf("update book %q: %w", title, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) DeleteByTitle(ctx context.Context, title string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.coll.DeleteOne(timeoutCtx, bson.D{{Key: "title", Value: title}})
	if err != nil {
		return fmt.Errorf("delete book %q: %w", title, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Reset drops the collection together with its indexes.
func (r *MongoRepo) Reset(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.coll.Drop(timeoutCtx)
}
