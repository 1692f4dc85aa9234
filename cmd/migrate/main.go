package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"bookstore/internal/config"
	"bookstore/internal/index"
	"bookstore/internal/logger"
	"bookstore/internal/platform/mongodb"
)

func main() {
	var (
		command = flag.String("command", "up", "Index command: up, down, status, explain")
		name    = flag.String("index", "", "Restrict up/down to one index, e.g. title_1")
		filter  = flag.String("filter", "", "Extended JSON filter for 'explain' (default "+defaultExplainFilter+")")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "json")
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	client, err := mongodb.Connect(ctx, cfg.MongoURI, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	coll := client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
	manager := index.NewManager(coll, cfg.QueryTimeout, log)

	switch *command {
	case "up":
		defs, err := selectDefinitions(*name)
		if err != nil {
			log.Fatal().Err(err).Msg("select indexes")
		}
		names, err := manager.Ensure(ctx, defs...)
		if err != nil {
			log.Fatal().Err(err).Msg("create indexes")
		}
		fmt.Printf("Indexes ensured: %v\n", names)
	case "down":
		defs, err := selectDefinitions(*name)
		if err != nil {
			log.Fatal().Err(err).Msg("select indexes")
		}
		for _, d := range defs {
			if err := manager.Drop(ctx, d.Name); err != nil {
				if errors.Is(err, index.ErrIndexNotFound) {
					log.Warn().Str("index", d.Name).Msg("index already absent")
					continue
				}
				log.Fatal().Err(err).Msg("drop index")
			}
		}
		fmt.Println("Indexes dropped successfully")
	case "status":
		existing, err := manager.List(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("list indexes")
		}
		printJSON(statusReport(existing))
	case "explain":
		f, err := parseFilter(*filter)
		if err != nil {
			log.Fatal().Err(err).Msg("parse filter")
		}
		plan, err := manager.Explain(ctx, f)
		if err != nil {
			log.Fatal().Err(err).Msg("explain")
		}
		printJSON(plan)
	default:
		log.Fatal().Str("command", *command).Msg("unknown command. Use: up, down, status, explain")
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
