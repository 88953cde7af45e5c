package repository

import (
	"context"

	"IoTDashboard/internal/database"
	"IoTDashboard/internal/logger"
	"IoTDashboard/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

// DefaultAlertSortField is used when the collection is empty.
const DefaultAlertSortField = "receivedAt"

// MongoAlertRepository reads alerts newest first. Rule engines have written
// the event time under different keys, so the sort key is picked from a
// sample document on every fetch.
type MongoAlertRepository struct {
	collection collectionResolver
	source     string
	log        *logger.Logger
}

func NewMongoAlertRepository(m *database.Manager, uri, db, collection string, log *logger.Logger) *MongoAlertRepository {
	return newMongoAlertRepository(managedCollection(m, uri, db, collection), sourceName(db, collection), log)
}

func newMongoAlertRepository(resolve collectionResolver, source string, log *logger.Logger) *MongoAlertRepository {
	if log == nil {
		log = logger.Discard()
	}
	return &MongoAlertRepository{collection: resolve, source: source, log: log}
}

func (r *MongoAlertRepository) SourceName() string {
	return r.source
}

func (r *MongoAlertRepository) Fetch(ctx context.Context, limit int) []models.Document {
	if limit <= 0 {
		return []models.Document{}
	}

	coll, err := r.collection(ctx)
	if err != nil {
		r.log.Error("Error fetching alerts from %s: %v", r.source, err)
		return []models.Document{}
	}

	sortField := DefaultAlertSortField
	count, err := coll.EstimatedDocumentCount(ctx)
	if err != nil {
		r.log.Error("Error fetching alerts from %s: %v", r.source, err)
		return []models.Document{}
	}
	if count > 0 {
		sample, err := coll.SampleOne(ctx)
		if err != nil {
			r.log.Error("Error sampling alerts from %s: %v", r.source, err)
			return []models.Document{}
		}
		if sample != nil {
			sortField = detectSortField(sample)
		}
	}

	docs, err := coll.FindNewest(ctx, sortField, int64(limit))
	if err != nil {
		r.log.Error("Error fetching alerts from %s: %v", r.source, err)
		return []models.Document{}
	}

	r.log.Debug("Fetched %d alerts from %s sorted by %s", len(docs), r.source, sortField)
	return normalizeAll(docs)
}

// detectSortField prefers receivedAt, then alertTimestamp, then the id.
func detectSortField(sample bson.M) string {
	if _, ok := sample["receivedAt"]; ok {
		return "receivedAt"
	}
	if _, ok := sample["alertTimestamp"]; ok {
		return "alertTimestamp"
	}
	return models.IDField
}
