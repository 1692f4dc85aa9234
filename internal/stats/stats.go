// Package stats runs the aggregation pipelines over the books collection.
package stats

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidLimit is returned for a non-positive or oversized top-N limit.
var ErrInvalidLimit = errors.New("invalid limit")

// MaxTopLimit caps TopAuthors.
const MaxTopLimit = 100

// GenreAverage is the mean price of the books of one genre.
type GenreAverage struct {
	Genre        string          `json:"genre"`
	AveragePrice decimal.Decimal `json:"average_price"`
}

// AuthorCount is the number of books written by one author.
type AuthorCount struct {
	Author string `json:"author"`
	Count  int    `json:"count"`
}

// DecadeCount is the number of books published in a decade such as "1990s".
type DecadeCount struct {
	Decade string `json:"decade"`
	Count  int    `json:"count"`
}

// Repository runs the pipelines against storage.
type Repository interface {
	AveragePriceByGenre(ctx context.Context) ([]GenreAverage, error)
	TopAuthors(ctx context.Context, limit int) ([]AuthorCount, error)
	CountByDecade(ctx context.Context) ([]DecadeCount, error)
}
