package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const PageContentCollection = "pagecontents"

// PageContent is one editable section of the site, keyed by ID.
// Data is opaque to the server; editors usually store {sections: [...]}.
type PageContent struct {
	ObjectID     primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ID           string             `bson:"id" json:"id"`
	Data         interface{}        `bson:"data" json:"data"`
	Version      int64              `bson:"version" json:"version"`
	LastModified time.Time          `bson:"lastModified" json:"lastModified"`
	CreatedAt    time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt    time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// SectionCount returns len(data.sections) when data has that shape, else 0.
func SectionCount(data interface{}) int {
	var sections interface{}
	switch d := data.(type) {
	case map[string]interface{}:
		sections = d["sections"]
	case primitive.M:
		sections = d["sections"]
	default:
		return 0
	}
	switch s := sections.(type) {
	case []interface{}:
		return len(s)
	case primitive.A:
		return len(s)
	}
	return 0
}
