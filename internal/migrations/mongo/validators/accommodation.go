package validators

import "go.mongodb.org/mongo-driver/bson"

var AccommodationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"slug", "name", "capacity", "active", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id": bson.M{"bsonType": "objectId"},
			"slug": bson.M{
				"bsonType":  "string",
				"pattern":   "^[a-z0-9]+(-[a-z0-9]+)*$",
				"minLength": 2,
				"maxLength": 100,
			},
			"name":              bson.M{"bsonType": "string", "minLength": 2, "maxLength": 120},
			"short_description": bson.M{"bsonType": "string", "maxLength": 500},
			"description":       bson.M{"bsonType": "string", "maxLength": 5000},
			"capacity":          bson.M{"bsonType": "string", "maxLength": 60},
			"price":             bson.M{"bsonType": "string", "maxLength": 60},
			"address":           bson.M{"bsonType": "string"},
			"distance":          bson.M{"bsonType": "string"},
			"features": bson.M{
				"bsonType": "array",
				"maxItems": 30,
				"items":    bson.M{"bsonType": "string"},
			},
			"main_image": bson.M{"bsonType": "string"},
			"images": bson.M{
				"bsonType": "array",
				"maxItems": 50,
				"items":    bson.M{"bsonType": "string"},
			},
			"active":     bson.M{"bsonType": "bool"},
			"priority":   bson.M{"bsonType": []string{"int", "long"}, "minimum": 0, "maximum": 1000},
			"created_at": bson.M{"bsonType": "date"},
			"updated_at": bson.M{"bsonType": "date"},
		},
	},
}
