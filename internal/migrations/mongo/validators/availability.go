package validators

import "go.mongodb.org/mongo-driver/bson"

var AvailabilityValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"days",
			"updated_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"days": bson.M{
				"bsonType": "object",
				"additionalProperties": bson.M{
					"bsonType": "object",
					"required": []string{"is_available", "start_time", "end_time"},
					"properties": bson.M{
						"is_available": bson.M{
							"bsonType": "bool",
						},
						"start_time": bson.M{
							"bsonType": "string",
							"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]$",
						},
						"end_time": bson.M{
							"bsonType": "string",
							"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]$",
						},
					},
				},
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var TimeGapValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"minutes",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"minutes": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  10080,
			},
		},
	},
}
