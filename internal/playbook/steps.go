package playbook

import (
	"context"

	"bookstore/internal/book"
	"bookstore/internal/index"
	"bookstore/internal/stats"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Books is the part of book.Service the playbook drives.
type Books interface {
	List(ctx context.Context, q book.Query) ([]book.Book, int, error)
	ListSummaries(ctx context.Context, q book.Query) ([]book.Summary, error)
	GetByTitle(ctx context.Context, title string) (book.Book, error)
	UpdatePrice(ctx context.Context, title string, price float64) error
	Delete(ctx context.Context, title string) error
}

// Stats is the part of stats.Service the playbook drives.
type Stats interface {
	AveragePriceByGenre(ctx context.Context) ([]stats.GenreAverage, error)
	TopAuthors(ctx context.Context, limit int) ([]stats.AuthorCount, error)
	CountByDecade(ctx context.Context) ([]stats.DecadeCount, error)
}

// Indexes is the part of index.Manager the playbook drives.
type Indexes interface {
	Ensure(ctx context.Context, defs ...index.Definition) ([]string, error)
	Explain(ctx context.Context, filter bson.D) (index.Plan, error)
}

const pageSize = 5

func yearAfter(y int) *int { return &y }
func inStock(b bool) *bool  { return &b }

// Steps returns the playbook in execution order.
func Steps(books Books, st Stats, idx Indexes) []Step {
	find := func(q book.Query) func(context.Context) (any, error) {
		return func(ctx context.Context) (any, error) {
			out, _, err := books.List(ctx, q)
			return out, err
		}
	}
	explain := func(filter bson.D) func(context.Context) (any, error) {
		return func(ctx context.Context) (any, error) {
			return idx.Explain(ctx, filter)
		}
	}
	ensure := func(d index.Definition) func(context.Context) (any, error) {
		return func(ctx context.Context) (any, error) {
			return idx.Ensure(ctx, d)
		}
	}

	return []Step{
		{Name: "crud/genre-fantasy", Run: find(book.Query{Genre: "Fantasy"})},
		{Name: "crud/published-after-2010", Run: find(book.Query{PublishedAfter: yearAfter(2010)})},
		{Name: "crud/author-rowling", Run: find(book.Query{Author: "J.K. Rowling"})},
		{Name: "crud/update-hobbit-price", Run: func(ctx context.Context) (any, error) {
			if err := books.UpdatePrice(ctx, "The Hobbit", 17.99); err != nil {
				return nil, err
			}
			return books.GetByTitle(ctx, "The Hobbit")
		}},
		{Name: "crud/delete-catcher", Run: func(ctx context.Context) (any, error) {
			if err := books.Delete(ctx, "The Catcher in the Rye"); err != nil {
				return nil, err
			}
			return map[string]string{"deleted": "The Catcher in the Rye"}, nil
		}},

		{Name: "advanced/in-stock-after-2010", Run: find(book.Query{InStock: inStock(true), PublishedAfter: yearAfter(2010)})},
		{Name: "advanced/projection", Run: func(ctx context.Context) (any, error) {
			return books.ListSummaries(ctx, book.Query{})
		}},
		{Name: "advanced/sort-price-asc", Run: find(book.Query{Sort: "price"})},
		{Name: "advanced/sort-price-desc", Run: find(book.Query{Sort: "price", Desc: true})},
		{Name: "advanced/page-1", Run: find(book.Query{Offset: 0, Limit: pageSize})},
		{Name: "advanced/page-2", Run: find(book.Query{Offset: pageSize, Limit: pageSize})},

		{Name: "aggregate/avg-price-by-genre", Run: func(ctx context.Context) (any, error) {
			return st.AveragePriceByGenre(ctx)
		}},
		{Name: "aggregate/top-author", Run: func(ctx context.Context) (any, error) {
			return st.TopAuthors(ctx, 1)
		}},
		{Name: "aggregate/books-by-decade", Run: func(ctx context.Context) (any, error) {
			return st.CountByDecade(ctx)
		}},

		{Name: "index/title", Run: ensure(index.Title)},
		{Name: "index/author-year", Run: ensure(index.AuthorYear)},

		{Name: "explain/title-hobbit", Run: explain(bson.D{{Key: "title", Value: "The Hobbit"}})},
		{Name: "explain/author-year", Run: explain(bson.D{
			{Key: "author", Value: "J.K. Rowling"},
			{Key: "published_year", Value: 1997},
		})},
	}
}
