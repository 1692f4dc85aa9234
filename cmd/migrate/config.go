package main

import (
	"fmt"

	"bookstore/internal/index"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const defaultExplainFilter = `{"title": "The Hobbit"}`

// selectDefinitions resolves -index: empty means every default index.
func selectDefinitions(name string) ([]index.Definition, error) {
	if name == "" {
		return index.Defaults(), nil
	}
	d, ok := index.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown index %q", name)
	}
	return []index.Definition{d}, nil
}

// parseFilter reads an extended JSON query document such as
// {"author": "J.K. Rowling", "published_year": 1997}.
func parseFilter(s string) (bson.D, error) {
	if s == "" {
		s = defaultExplainFilter
	}
	var filter bson.D
	if err := bson.UnmarshalExtJSON([]byte(s), false, &filter); err != nil {
		return nil, fmt.Errorf("parse filter: %w", err)
	}
	return filter, nil
}

type indexStatus struct {
	Name    string `json:"name"`
	Keys    bson.D `json:"keys"`
	Present bool   `json:"present"`
	Managed bool   `json:"managed"`
}

// statusReport lists the default indexes, present or not, followed by any
// other index found on the collection.
func statusReport(existing []index.Info) []indexStatus {
	found := make(map[string]index.Info, len(existing))
	for _, info := range existing {
		found[info.Name] = info
	}

	var out []indexStatus
	for _, d := range index.Defaults() {
		_, ok := found[d.Name]
		out = append(out, indexStatus{Name: d.Name, Keys: d.Keys, Present: ok, Managed: true})
		delete(found, d.Name)
	}
	for _, info := range existing {
		if _, ok := found[info.Name]; ok {
			out = append(out, indexStatus{Name: info.Name, Keys: info.Keys, Present: true})
		}
	}
	return out
}
