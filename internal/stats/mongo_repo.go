package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/mongo"
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

type groupRow struct {
	ID           string  `bson:"_id"`
	AveragePrice float64 `bson:"averagePrice"`
	Count        int     `bson:"count"`
}

func (r *MongoRepo) aggregate(ctx context.Context, name string, pipeline mongo.Pipeline) ([]groupRow, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	cur, err := r.coll.Aggregate(timeoutCtx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", name, err)
	}
	var rows []groupRow
	if err := cur.All(timeoutCtx, &rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return rows, nil
}

func (r *MongoRepo) AveragePriceByGenre(ctx context.Context) ([]GenreAverage, error) {
	rows, err := r.aggregate(ctx, "average price by genre", averagePricePipeline())
	if err != nil {
		return nil, err
	}
	out := make([]GenreAverage, len(rows))
	for i, row := range rows {
		out[i] = GenreAverage{Genre: row.ID, AveragePrice: decimal.NewFromFloat(row.AveragePrice)}
	}
	return out, nil
}

func (r *MongoRepo) TopAuthors(ctx context.Context, limit int) ([]AuthorCount, error) {
	rows, err := r.aggregate(ctx, "top authors", topAuthorsPipeline(limit))
	if err != nil {
		return nil, err
	}
	out := make([]AuthorCount, len(rows))
	for i, row := range rows {
		out[i] = AuthorCount{Author: row.ID, Count: row.Count}
	}
	return out, nil
}

func (r *MongoRepo) CountByDecade(ctx context.Context) ([]DecadeCount, error) {
	rows, err := r.aggregate(ctx, "books by decade", decadePipeline())
	if err != nil {
		return nil, err
	}
	out := make([]DecadeCount, len(rows))
	for i, row := range rows {
		out[i] = DecadeCount{Decade: row.ID, Count: row.Count}
	}
	return out, nil
}
