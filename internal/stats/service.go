package stats

import (
	"context"
	"fmt"
)

// Service exposes the collection statistics.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// AveragePriceByGenre returns the mean price per genre rounded to cents.
func (s *Service) AveragePriceByGenre(ctx context.Context) ([]GenreAverage, error) {
	rows, err := s.repo.AveragePriceByGenre(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].AveragePrice = rows[i].AveragePrice.Round(2)
	}
	return rows, nil
}

// TopAuthors returns the limit authors with the most books. A zero limit
// means the single top author.
func (s *Service) TopAuthors(ctx context.Context, limit int) ([]AuthorCount, error) {
	if limit == 0 {
		limit = 1
	}
	if limit < 0 || limit > MaxTopLimit {
		return nil, fmt.Errorf("%w: must be between 1 and %d", ErrInvalidLimit, MaxTopLimit)
	}
	return s.repo.TopAuthors(ctx, limit)
}

func (s *Service) CountByDecade(ctx context.Context) ([]DecadeCount, error) {
	return s.repo.CountByDecade(ctx)
}
