package book

import (
	"context"
	"testing"
	"time"

	"bookstore/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) *MongoRepo {
	t.Helper()
	db := testutil.MongoDatabase(t)
	repo := NewMongoRepo(db.Collection("books"), 5*time.Second)
	_, err := NewService(repo).Seed(context.Background(), SampleBooks())
	require.NoError(t, err)
	return repo
}

func titles(books []Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}

func TestMongoRepo_List(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	t.Run("genre", func(t *testing.T) {
		books, total, err := repo.List(ctx, Query{Genre: "Fantasy"})
		require.NoError(t, err)
		assert.Equal(t, 6, total)
		for _, b := range books {
			assert.Equal(t, "Fantasy", b.Genre)
		}
	})

	t.Run("published after is strict", func(t *testing.T) {
		books, _, err := repo.List(ctx, Query{PublishedAfter: intPtr(2010)})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"The Night Circus", "The Martian", "Project Hail Mary"}, titles(books))

		books, _, err = repo.List(ctx, Query{PublishedAfter: intPtr(2011)})
		require.NoError(t, err)
		assert.NotContains(t, titles(books), "The Night Circus")
	})

	t.Run("author", func(t *testing.T) {
		books, _, err := repo.List(ctx, Query{Author: "J.K. Rowling"})
		require.NoError(t, err)
		assert.Len(t, books, 3)
	})

	t.Run("in stock after 2010", func(t *testing.T) {
		books, _, err := repo.List(ctx, Query{InStock: boolPtr(true), PublishedAfter: intPtr(2010)})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"The Night Circus", "Project Hail Mary"}, titles(books))
	})

	t.Run("sorted by price", func(t *testing.T) {
		asc, _, err := repo.List(ctx, Query{Sort: "price"})
		require.NoError(t, err)
		for i := 1; i < len(asc); i++ {
			assert.LessOrEqual(t, asc[i-1].Price, asc[i].Price)
		}

		desc, _, err := repo.List(ctx, Query{Sort: "price", Desc: true})
		require.NoError(t, err)
		for i := 1; i < len(desc); i++ {
			assert.GreaterOrEqual(t, desc[i-1].Price, desc[i].Price)
		}
	})

	t.Run("pages are disjoint", func(t *testing.T) {
		page1, total, err := repo.List(ctx, Query{Sort: "title", Limit: 5})
		require.NoError(t, err)
		page2, _, err := repo.List(ctx, Query{Sort: "title", Offset: 5, Limit: 5})
		require.NoError(t, err)

		assert.Equal(t, len(SampleBooks()), total)
		assert.Len(t, page1, 5)
		assert.Len(t, page2, 5)
		for _, title := range titles(page2) {
			assert.NotContains(t, titles(page1), title)
		}
	})

	t.Run("skip past the end", func(t *testing.T) {
		books, _, err := repo.List(ctx, Query{Offset: 100, Limit: 5})
		require.NoError(t, err)
		assert.Empty(t, books)
	})
}

func TestMongoRepo_ListSummaries(t *testing.T) {
	repo := setupRepo(t)

	rows, err := repo.ListSummaries(context.Background(), Query{Title: "The Hobbit"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, Summary{Title: "The Hobbit", Author: "J.R.R. Tolkien", Price: 14.99}, rows[0])
}

func TestMongoRepo_Update(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	before, err := repo.GetByTitle(ctx, "The Hobbit")
	require.NoError(t, err)

	require.NoError(t, repo.Update(ctx, "The Hobbit", Patch{Price: floatPtr(17.99)}))

	after, err := repo.GetByTitle(ctx, "The Hobbit")
	require.NoError(t, err)
	assert.Equal(t, 17.99, after.Price)
	before.Price = 17.99
	assert.Equal(t, before, after)

	assert.ErrorIs(t, repo.Update(ctx, "Missing", Patch{Price: floatPtr(1)}), ErrNotFound)
}

func TestMongoRepo_DeleteByTitle(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.DeleteByTitle(ctx, "The Catcher in the Rye"))

	_, err := repo.GetByTitle(ctx, "The Catcher in the Rye")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.DeleteByTitle(ctx, "The Catcher in the Rye"), ErrNotFound)

	_, total, err := repo.List(ctx, Query{})
	require.NoError(t, err)
	assert.Equal(t, len(SampleBooks())-1, total)
}

func TestMongoRepo_Create(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	b := &Book{Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction", PublishedYear: 1965, Price: 9.99, InStock: true}
	require.NoError(t, repo.Create(ctx, b))
	assert.False(t, b.ID.IsZero())

	got, err := repo.GetByTitle(ctx, "Dune")
	require.NoError(t, err)
	assert.Equal(t, *b, got)
}

func TestMongoRepo_NaturalOrderPages(t *testing.T) {
	db := testutil.MongoDatabase(t)
	repo := NewMongoRepo(db.Collection("books"), 5*time.Second)
	ctx := context.Background()

	inserted, err := repo.InsertMany(ctx, SampleBooks()[:10])
	require.NoError(t, err)
	require.Equal(t, 10, inserted)

	all, total, err := repo.List(ctx, Query{})
	require.NoError(t, err)
	require.Equal(t, 10, total)

	page1, _, err := repo.List(ctx, Query{Offset: 0, Limit: 5})
	require.NoError(t, err)
	page2, _, err := repo.List(ctx, Query{Offset: 5, Limit: 5})
	require.NoError(t, err)

	require.Len(t, page1, 5)
	require.Len(t, page2, 5)
	assert.Equal(t, titles(all), append(titles(page1), titles(page2)...))
}
