package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/event"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const pingTimeout = 2 * time.Second

// Connect opens a client for uri and verifies the primary is reachable.
// Every command the driver sends is reported to log.
func Connect(ctx context.Context, uri string, log zerolog.Logger) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetAppName("bookstore").
		SetMonitor(NewCommandMonitor(log))

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("create mongo client (%s): %w", RedactURI(uri), err)
	}

	if err := Ping(ctx, client); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo (%s): %w", RedactURI(uri), err)
	}
	return client, nil
}

// Ping checks the primary with a short deadline. Used by readiness probes.
func Ping(ctx context.Context, client *mongo.Client) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return client.Ping(pingCtx, readpref.Primary())
}

// NewCommandMonitor logs driver commands: start and success at debug,
// the raw command body at trace, failures at warn.
func NewCommandMonitor(log zerolog.Logger) *event.CommandMonitor {
	log = log.With().Str("component", "mongo").Logger()

	return &event.CommandMonitor{
		Started: func(_ context.Context, e *event.CommandStartedEvent) {
			entry := log.Debug().
				Str("command", e.CommandName).
				Str("db", e.DatabaseName).
				Int64("request_id", e.RequestID)
			if log.GetLevel() <= zerolog.TraceLevel {
				entry = entry.Str("body", e.Command.String())
			}
			entry.Msg("mongo command started")
		},
		Succeeded: func(_ context.Context, e *event.CommandSucceededEvent) {
			log.Debug().
				Str("command", e.CommandName).
				Int64("request_id", e.RequestID).
				Dur("duration", e.Duration).
				Msg("mongo command succeeded")
		},
		Failed: func(_ context.Context, e *event.CommandFailedEvent) {
			log.Warn().
				Str("command", e.CommandName).
				Int64("request_id", e.RequestID).
				Dur("duration", e.Duration).
				Err(e.Failure).
				Msg("mongo command failed")
		},
	}
}

// RedactURI hides the credentials of a connection string.
func RedactURI(uri string) string {
	const marker = "://"
	start := strings.Index(uri, marker)
	if start < 0 {
		return uri
	}
	start += len(marker)
	authority := uri[start:]
	if slash := strings.IndexAny(authority, "/?"); slash >= 0 {
		authority = authority[:slash]
	}
	end := strings.LastIndex(authority, "@")
	if end < 0 {
		return uri
	}
	return uri[:start] + "***" + uri[start+end:]
}
