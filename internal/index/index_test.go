package index

import (
	"context"
	"testing"
	"time"

	"bookstore/internal/book"
	"bookstore/internal/testutil"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func setupManager(t *testing.T) *Manager {
	t.Helper()
	coll := testutil.MongoDatabase(t).Collection("books")
	_, err := book.NewMongoRepo(coll, 5*time.Second).InsertMany(context.Background(), book.SampleBooks())
	require.NoError(t, err)
	return NewManager(coll, 5*time.Second, zerolog.Nop())
}

func indexNames(infos []Info) []string {
	out := make([]string, len(infos))
	for i, info := range infos {
		out[i] = info.Name
	}
	return out
}

func TestManager_EnsureListDrop(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	names, err := m.Ensure(ctx, Defaults()...)
	require.NoError(t, err)
	assert.Equal(t, []string{"title_1", "author_1_published_year_-1"}, names)

	_, err = m.Ensure(ctx, Defaults()...)
	require.NoError(t, err, "ensuring twice is idempotent")

	infos, err := m.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"_id_", "title_1", "author_1_published_year_-1"}, indexNames(infos))

	require.NoError(t, m.Drop(ctx, "title_1"))
	assert.ErrorIs(t, m.Drop(ctx, "title_1"), ErrIndexNotFound)

	infos, err = m.List(ctx)
	require.NoError(t, err)
	assert.NotContains(t, indexNames(infos), "title_1")
}

func TestManager_Explain(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()
	hobbit := bson.D{{Key: "title", Value: "The Hobbit"}}

	before, err := m.Explain(ctx, hobbit)
	require.NoError(t, err)
	assert.True(t, before.CollectionScan())
	assert.Equal(t, int64(1), before.NReturned)
	assert.Equal(t, int64(len(book.SampleBooks())), before.TotalDocsExamined)

	_, err = m.Ensure(ctx, Defaults()...)
	require.NoError(t, err)

	after, err := m.Explain(ctx, hobbit)
	require.NoError(t, err)
	assert.Equal(t, "title_1", after.IndexName)
	assert.False(t, after.CollectionScan())
	assert.Equal(t, int64(1), after.TotalDocsExamined)

	rowling, err := m.Explain(ctx, bson.D{
		{Key: "author", Value: "J.K. Rowling"},
		{Key: "published_year", Value: 1997},
	})
	require.NoError(t, err)
	assert.Equal(t, "author_1_published_year_-1", rowling.IndexName)
	assert.Equal(t, int64(1), rowling.NReturned)
}
