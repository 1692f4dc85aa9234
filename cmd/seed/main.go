package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"bookstore/internal/book"
	"bookstore/internal/config"
	"bookstore/internal/index"
	"bookstore/internal/logger"
	"bookstore/internal/platform/mongodb"
)

func main() {
	withIndexes := flag.Bool("indexes", false, "Also create the default indexes after seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "json")
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, err := mongodb.Connect(ctx, cfg.MongoURI, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	coll := client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
	service := book.NewService(book.NewMongoRepo(coll, cfg.QueryTimeout))

	books := book.SampleBooks()
	log.Info().Int("count", len(books)).Str("collection", namespace(cfg)).Msg("seeding books")

	inserted, err := service.Seed(ctx, books)
	if err != nil {
		log.Fatal().Err(err).Msg("seed books")
	}
	log.Info().Int("inserted", inserted).Msg("books seeded")

	if *withIndexes {
		if _, err := index.NewManager(coll, cfg.QueryTimeout, log).Ensure(ctx, index.Defaults()...); err != nil {
			log.Fatal().Err(err).Msg("create indexes")
		}
	}
}

// namespace is the database.collection the seed writes to.
func namespace(cfg *config.Config) string {
	return cfg.MongoDatabase + "." + cfg.MongoCollection
}
