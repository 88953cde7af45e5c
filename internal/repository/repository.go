// internal/repository/repository.go

package repository

import (
	"context"
	"fmt"

	"IoTDashboard/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HistoryRepository reads the newest records of one collection. Failures
// are logged and yield an empty slice.
type HistoryRepository interface {
	Fetch(ctx context.Context, limit int) []models.Document
	// SourceName is "database.collection", for display.
	SourceName() string
}

func sourceName(database, collection string) string {
	return database + "." + collection
}

// normalizeDocument turns a decoded store document into plain Go values:
// the id becomes a string, dates become time.Time in UTC and nested
// documents become maps.
func normalizeDocument(doc bson.M) models.Document {
	out := make(models.Document, len(doc))
	for k, v := range doc {
		out[k] = normalizeValue(v)
	}
	if id, ok := doc[models.IDField]; ok {
		out[models.IDField] = stringifyID(id)
	}
	return out
}

func normalizeAll(docs []bson.M) []models.Document {
	out := make([]models.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, normalizeDocument(d))
	}
	return out
}

func normalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.Timestamp:
		return primitive.DateTime(int64(t.T) * 1000).Time().UTC()
	case primitive.M:
		m := make(map[string]interface{}, len(t))
		for k, inner := range t {
			m[k] = normalizeValue(inner)
		}
		return m
	case primitive.D:
		m := make(map[string]interface{}, len(t))
		for _, e := range t {
			m[e.Key] = normalizeValue(e.Value)
		}
		return m
	case primitive.A:
		list := make([]interface{}, len(t))
		for i, inner := range t {
			list[i] = normalizeValue(inner)
		}
		return list
	}
	return v
}

func stringifyID(id interface{}) string {
	switch t := id.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case string:
		return t
	}
	return fmt.Sprint(id)
}
