package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	List(ctx context.Context, q Query) ([]Book, int, error)
	ListSummaries(ctx context.Context, q Query) ([]Summary, error)
	GetByTitle(ctx context.Context, title string) (Book, error)
	Create(ctx context.Context, b *Book) error
	InsertMany(ctx context.Context, books []Book) (int, error)
	Update(ctx context.Context, title string, p Patch) error
	DeleteByTitle(ctx context.Context, title string) error
	Reset(ctx context.Context) error
}
