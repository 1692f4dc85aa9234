// Package index manages the secondary indexes of the books collection and
// reports how the server plans queries against them.
package index

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ErrIndexNotFound is returned when dropping an index that does not exist.
var ErrIndexNotFound = errors.New("index not found")

// codeIndexNotFound is the server error code for a missing index.
const codeIndexNotFound = 27

// Definition describes one secondary index.
type Definition struct {
	Name string
	Keys bson.D
}

var (
	// Title serves exact title lookups, updates and deletes.
	Title = Definition{
		Name: "title_1",
		Keys: bson.D{{Key: "title", Value: 1}},
	}
	// AuthorYear serves author lookups ordered newest first.
	AuthorYear = Definition{
		Name: "author_1_published_year_-1",
		Keys: bson.D{{Key: "author", Value: 1}, {Key: "published_year", Value: -1}},
	}
)

// Defaults returns the indexes the bookstore expects.
func Defaults() []Definition {
	return []Definition{Title, AuthorYear}
}

// Lookup finds a default definition by name.
func Lookup(name string) (Definition, bool) {
	for _, d := range Defaults() {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

func (d Definition) model() mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    d.Keys,
		Options: options.Index().SetName(d.Name),
	}
}

// Info is one entry of listIndexes.
type Info struct {
	Name string `bson:"name" json:"name"`
	Keys bson.D `bson:"key" json:"keys"`
}

type Manager struct {
	coll    *mongo.Collection
	timeout time.Duration
	log     zerolog.Logger
}

func NewManager(coll *mongo.Collection, timeout time.Duration, log zerolog.Logger) *Manager {
	return &Manager{
		coll:    coll,
		timeout: timeout,
		log:     log.With().Str("component", "index").Str("collection", coll.Name()).Logger(),
	}
}

func (m *Manager) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, m.timeout)
}

// Ensure creates defs. Creating an index that already exists with the same
// keys is a no-op on the server.
func (m *Manager) Ensure(ctx context.Context, defs ...Definition) ([]string, error) {
	if len(defs) == 0 {
		return nil, nil
	}

	models := make([]mongo.IndexModel, len(defs))
	for i, d := range defs {
		models[i] = d.model()
	}

	timeoutCtx, cancel := m.withTimeout(ctx)
	defer cancel()

	names, err := m.coll.Indexes().CreateMany(timeoutCtx, models)
	if err != nil {
		return nil, fmt.Errorf("create indexes: %w", err)
	}
	m.log.Info().Strs("indexes", names).Msg("indexes ensured")
	return names, nil
}

// List returns every index of the collection, _id_ included.
func (m *Manager) List(ctx context.Context) ([]Info, error) {
	timeoutCtx, cancel := m.withTimeout(ctx)
	defer cancel()

	cur, err := m.coll.Indexes().List(timeoutCtx)
	if err != nil {
		return nil, fmt.Errorf("list indexes: %w", err)
	}
	var out []Info
	if err := cur.All(timeoutCtx, &out); err != nil {
		return nil, fmt.Errorf("decode indexes: %w", err)
	}
	return out, nil
}

// Drop removes the named index.
func (m *Manager) Drop(ctx context.Context, name string) error {
	timeoutCtx, cancel := m.withTimeout(ctx)
	defer cancel()

	if err := m.coll.Indexes().DropOne(timeoutCtx, name); err != nil {
		var cmdErr mongo.CommandError
		if errors.As(err, &cmdErr) && cmdErr.Code == codeIndexNotFound {
			return fmt.Errorf("%w: %s", ErrIndexNotFound, name)
		}
		return fmt.Errorf("drop index %s: %w", name, err)
	}
	m.log.Info().Str("index", name).Msg("index dropped")
	return nil
}

// Explain runs find(filter) under the executionStats verbosity and
// summarizes the winning plan.
func (m *Manager) Explain(ctx context.Context, filter bson.D) (Plan, error) {
	if filter == nil {
		filter = bson.D{}
	}
	cmd := bson.D{
		{Key: "explain", Value: bson.D{
			{Key: "find", Value: m.coll.Name()},
			{Key: "filter", Value: filter},
		}},
		{Key: "verbosity", Value: "executionStats"},
	}

	timeoutCtx, cancel := m.withTimeout(ctx)
	defer cancel()

	raw, err := m.coll.Database().RunCommand(timeoutCtx, cmd).Raw()
	if err != nil {
		return Plan{}, fmt.Errorf("explain find: %w", err)
	}
	return parseExplain(raw)
}
