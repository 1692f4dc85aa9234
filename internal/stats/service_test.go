package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) AveragePriceByGenre(ctx context.Context) ([]GenreAverage, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]GenreAverage)
	return rows, args.Error(1)
}

func (m *mockRepository) TopAuthors(ctx context.Context, limit int) ([]AuthorCount, error) {
	args := m.Called(ctx, limit)
	rows, _ := args.Get(0).([]AuthorCount)
	return rows, args.Error(1)
}

func (m *mockRepository) CountByDecade(ctx context.Context) ([]DecadeCount, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]DecadeCount)
	return rows, args.Error(1)
}

func TestService_AveragePriceByGenre_RoundsToCents(t *testing.T) {
	repo := new(mockRepository)
	repo.On("AveragePriceByGenre", mock.Anything).Return([]GenreAverage{
		{Genre: "Fantasy", AveragePrice: decimal.NewFromFloat(16.4899999)},
		{Genre: "Romance", AveragePrice: decimal.NewFromFloat(7.99)},
	}, nil)

	rows, err := NewService(repo).AveragePriceByGenre(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "16.49", rows[0].AveragePrice.StringFixed(2))
	assert.True(t, rows[0].AveragePrice.Equal(decimal.RequireFromString("16.49")))
	assert.Equal(t, "7.99", rows[1].AveragePrice.String())
	repo.AssertExpectations(t)
}

func TestService_TopAuthors(t *testing.T) {
	t.Run("zero means the single top author", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("TopAuthors", mock.Anything, 1).Return([]AuthorCount{{Author: "J.K. Rowling", Count: 3}}, nil)

		rows, err := NewService(repo).TopAuthors(context.Background(), 0)
		require.NoError(t, err)
		assert.Equal(t, []AuthorCount{{Author: "J.K. Rowling", Count: 3}}, rows)
		repo.AssertExpectations(t)
	})

	t.Run("limit out of range", func(t *testing.T) {
		repo := new(mockRepository)
		service := NewService(repo)

		_, err := service.TopAuthors(context.Background(), -1)
		assert.ErrorIs(t, err, ErrInvalidLimit)
		_, err = service.TopAuthors(context.Background(), MaxTopLimit+1)
		assert.ErrorIs(t, err, ErrInvalidLimit)
		repo.AssertNotCalled(t, "TopAuthors", mock.Anything, mock.Anything)
	})
}

func TestService_CountByDecade_PropagatesErrors(t *testing.T) {
	repo := new(mockRepository)
	boom := errors.New("server selection timeout")
	repo.On("CountByDecade", mock.Anything).Return(nil, boom)

	_, err := NewService(repo).CountByDecade(context.Background())
	assert.ErrorIs(t, err, boom)
}
