package stats

import (
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// averagePricePipeline groups by genre and averages the price.
func averagePricePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$genre"},
			{Key: "averagePrice", Value: bson.D{{Key: "$avg", Value: "$price"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

// topAuthorsPipeline counts books per author, most prolific first.
// Equal counts fall back to the author name.
func topAuthorsPipeline(limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$author"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "count", Value: -1},
			{Key: "_id", Value: 1},
		}}},
		{{Key: "$limit", Value: int64(limit)}},
	}
}

// decadePipeline labels each book with year - year%10 followed by "s",
// then counts per label.
func decadePipeline() mongo.Pipeline {
	decade := bson.D{{Key: "$subtract", Value: bson.A{
		"$published_year",
		bson.D{{Key: "$mod", Value: bson.A{"$published_year", 10}}},
	}}}

	return mongo.Pipeline{
		{{Key: "$project", Value: bson.D{
			{Key: "decade", Value: bson.D{{Key: "$concat", Value: bson.A{
				bson.D{{Key: "$toString", Value: decade}},
				"s",
			}}}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$decade"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}
