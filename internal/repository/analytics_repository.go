package repository

import (
	"context"

	"IoTDashboard/internal/database"
	"IoTDashboard/internal/logger"
	"IoTDashboard/internal/models"
)

const analyticsSortField = "timestamp"

type MongoAnalyticsRepository struct {
	collection collectionResolver
	source     string
	log        *logger.Logger
}

func NewMongoAnalyticsRepository(m *database.Manager, uri, db, collection string, log *logger.Logger) *MongoAnalyticsRepository {
	return newMongoAnalyticsRepository(managedCollection(m, uri, db, collection), sourceName(db, collection), log)
}

func newMongoAnalyticsRepository(resolve collectionResolver, source string, log *logger.Logger) *MongoAnalyticsRepository {
	if log == nil {
		log = logger.Discard()
	}
	return &MongoAnalyticsRepository{collection: resolve, source: source, log: log}
}

func (r *MongoAnalyticsRepository) SourceName() string {
	return r.source
}

func (r *MongoAnalyticsRepository) Fetch(ctx context.Context, limit int) []models.Document {
	if limit <= 0 {
		return []models.Document{}
	}

	coll, err := r.collection(ctx)
	if err != nil {
		r.log.Error("Error fetching analytics from %s: %v", r.source, err)
		return []models.Document{}
	}

	docs, err := coll.FindNewest(ctx, analyticsSortField, int64(limit))
	if err != nil {
		r.log.Error("Error fetching analytics from %s: %v", r.source, err)
		return []models.Document{}
	}

	r.log.Debug("Fetched %d analytics points from %s", len(docs), r.source)
	return normalizeAll(docs)
}
