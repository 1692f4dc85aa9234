package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"bookstore/internal/book"
	"bookstore/internal/config"
	"bookstore/internal/index"
	"bookstore/internal/logger"
	"bookstore/internal/platform/mongodb"
	"bookstore/internal/playbook"
	"bookstore/internal/stats"
)

func main() {
	var (
		only = flag.String("only", "", "Comma separated step prefixes to run, e.g. crud/,aggregate/top")
		seed = flag.Bool("seed", false, "Reset the collection to the sample books first")
		list = flag.Bool("list", false, "Print the step names and exit")
	)
	flag.Parse()

	if *list {
		for _, s := range playbook.Steps(nil, nil, nil) {
			fmt.Println(s.Name)
		}
		return
	}

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
	books := book.NewService(book.NewMongoRepo(coll, cfg.QueryTimeout))

	if *seed {
		n, err := books.Seed(ctx, book.SampleBooks())
		if err != nil {
			log.Fatal().Err(err).Msg("seed books")
		}
		log.Info().Int("inserted", n).Msg("books seeded")
	}

	steps := playbook.Select(
		playbook.Steps(books, stats.NewService(stats.NewMongoRepo(coll, cfg.QueryTimeout)), index.NewManager(coll, cfg.QueryTimeout, log)),
		splitPrefixes(*only)...,
	)
	if len(steps) == 0 {
		log.Fatal().Str("only", *only).Msg("no step matches")
	}

	results := playbook.NewRunner(steps, log).Run(ctx)
	if failed := report(os.Stdout, results); failed > 0 {
		stop()
		_ = client.Disconnect(context.Background())
		os.Exit(1)
	}
}

func splitPrefixes(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// report prints every result as indented JSON under a "// step" header and
// returns the number of failed steps.
func report(w io.Writer, results []playbook.Result) int {
	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
		fmt.Fprintf(w, "// %s\n", r.Step)
		body, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			fmt.Fprintf(w, "{\"error\": %q}\n\n", err.Error())
			continue
		}
		fmt.Fprintf(w, "%s\n\n", body)
	}
	return failed
}
