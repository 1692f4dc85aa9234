package book

import (
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// SortFields are the fields a listing may be ordered by.
var SortFields = map[string]bool{
	"title":          true,
	"author":         true,
	"genre":          true,
	"published_year": true,
	"price":          true,
}

// summaryProjection is {_id: 0, title: 1, author: 1, price: 1}.
var summaryProjection = bson.D{
	{Key: "_id", Value: 0},
	{Key: "title", Value: 1},
	{Key: "author", Value: 1},
	{Key: "price", Value: 1},
}

// findSpec is everything a find needs besides the collection.
type findSpec struct {
	Filter bson.D
	Sort   bson.D
	Skip   int64
	Limit  int64
}

// Filter builds the find filter for q. An empty query yields an empty
// document, which matches every book.
func Filter(q Query) bson.D {
	filter := bson.D{}
	if q.Title != "" {
		filter = append(filter, bson.E{Key: "title", Value: q.Title})
	}
	if q.Author != "" {
		filter = append(filter, bson.E{Key: "author", Value: q.Author})
	}
	if q.Genre != "" {
		filter = append(filter, bson.E{Key: "genre", Value: q.Genre})
	}
	if q.InStock != nil {
		filter = append(filter, bson.E{Key: "in_stock", Value: *q.InStock})
	}
	if q.PublishedAfter != nil {
		filter = append(filter, bson.E{Key: "published_year", Value: bson.D{{Key: "$gt", Value: *q.PublishedAfter}}})
	}
	return filter
}

// SortDoc returns {field: 1} or {field: -1}, or nil for natural order.
func SortDoc(field string, desc bool) (bson.D, error) {
	if field == "" {
		return nil, nil
	}
	if !SortFields[field] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSort, field)
	}
	dir := 1
	if desc {
		dir = -1
	}
	return bson.D{{Key: field, Value: dir}}, nil
}

// SetDoc builds {$set: {...}} from the non-nil fields of p.
func SetDoc(p Patch) bson.D {
	set := bson.D{}
	if p.Author != nil {
		set = append(set, bson.E{Key: "author", Value: *p.Author})
	}
	if p.Genre != nil {
		set = append(set, bson.E{Key: "genre", Value: *p.Genre})
	}
	if p.PublishedYear != nil {
		set = append(set, bson.E{Key: "published_year", Value: *p.PublishedYear})
	}
	if p.Price != nil {
		set = append(set, bson.E{Key: "price", Value: *p.Price})
	}
	if p.InStock != nil {
		set = append(set, bson.E{Key: "in_stock", Value: *p.InStock})
	}
	return bson.D{{Key: "$set", Value: set}}
}

func buildFind(q Query) (findSpec, error) {
	sort, err := SortDoc(q.Sort, q.Desc)
	if err != nil {
		return findSpec{}, err
	}
	spec := findSpec{Filter: Filter(q), Sort: sort}
	if q.Offset > 0 {
		spec.Skip = int64(q.Offset)
	}
	if q.Limit > 0 {
		spec.Limit = int64(q.Limit)
	}
	return spec, nil
}
