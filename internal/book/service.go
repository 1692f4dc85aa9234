package book

import (
	"context"
	"fmt"
	"strings"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns a page of books matching the query and the total match count.
func (s *Service) List(ctx context.Context, q Query) ([]Book, int, error) {
	if _, err := SortDoc(q.Sort, q.Desc); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, q)
}

// ListSummaries returns title, author and price of the matching books.
func (s *Service) ListSummaries(ctx context.Context, q Query) ([]Summary, error) {
	if _, err := SortDoc(q.Sort, q.Desc); err != nil {
		return nil, err
	}
	return s.repo.ListSummaries(ctx, q)
}

// GetByTitle returns the first book with the exact title.
func (s *Service) GetByTitle(ctx context.Context, title string) (Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Book{}, invalid("title", "title is required")
	}
	return s.repo.GetByTitle(ctx, title)
}

// Create validates and stores a new book.
func (s *Service) Create(ctx context.Context, b *Book) error {
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	if err := validateStruct(b); err != nil {
		return err
	}
	return s.repo.Create(ctx, b)
}

// Update applies p to the book with the given title.
func (s *Service) Update(ctx context.Context, title string, p Patch) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return invalid("title", "title is required")
	}
	if p.Empty() {
		return invalid("patch", "at least one field must be set")
	}
	if err := validateStruct(p); err != nil {
		return err
	}
	return s.repo.Update(ctx, title, p)
}

// UpdatePrice sets the price of the book with the given title.
func (s *Service) UpdatePrice(ctx context.Context, title string, price float64) error {
	return s.Update(ctx, title, Patch{Price: &price})
}

// Delete removes one book with the given title.
func (s *Service) Delete(ctx context.Context, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return invalid("title", "title is required")
	}
	return s.repo.DeleteByTitle(ctx, title)
}

// Seed replaces the collection content with books.
func (s *Service) Seed(ctx context.Context, books []Book) (int, error) {
	if err := s.repo.Reset(ctx); err != nil {
		return 0, fmt.Errorf("reset collection: %w", err)
	}
	return s.repo.InsertMany(ctx, books)
}
