package book

import (
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	// ErrNotFound is returned when no book matches a title.
	ErrNotFound = errors.New("book not found")
	// ErrInvalidSort is returned for sort fields outside SortFields.
	ErrInvalidSort = errors.New("invalid sort field")
	// ErrInvalidInput wraps validation failures of write requests.
	ErrInvalidInput = errors.New("invalid book input")
)

// Book is a document of the books collection.
type Book struct {
	ID            bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title         string        `bson:"title" json:"title" validate:"required"`
	Author        string        `bson:"author" json:"author" validate:"required"`
	Genre         string        `bson:"genre" json:"genre"`
	PublishedYear int           `bson:"published_year" json:"published_year"`
	Price         float64       `bson:"price" json:"price" validate:"gte=0"`
	InStock       bool          `bson:"in_stock" json:"in_stock"`
}

// Summary is the projection {title, author, price} without _id.
type Summary struct {
	Title  string  `bson:"title" json:"title"`
	Author string  `bson:"author" json:"author"`
	Price  float64 `bson:"price" json:"price"`
}

// Patch lists the fields to $set on an existing book. Nil fields are left
// untouched.
type Patch struct {
	Author        *string  `json:"author,omitempty" validate:"omitempty,min=1"`
	Genre         *string  `json:"genre,omitempty"`
	PublishedYear *int     `json:"published_year,omitempty"`
	Price         *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	InStock       *bool    `json:"in_stock,omitempty"`
}

// Empty reports whether the patch would change nothing.
func (p Patch) Empty() bool {
	return p.Author == nil && p.Genre == nil && p.PublishedYear == nil && p.Price == nil && p.InStock == nil
}

// Query defines filters, ordering and pagination for listing books.
// Filters are ANDed; zero values are ignored.
type Query struct {
	Genre          string
	Author         string
	Title          string
	PublishedAfter *int
	InStock        *bool
	Sort           string
	Desc           bool
	Limit          int
	Offset         int
}
