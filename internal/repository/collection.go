package repository

import (
	"context"
	"errors"

	"IoTDashboard/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// documentCollection is the subset of collection operations the history
// repositories use.
type documentCollection interface {
	EstimatedDocumentCount(ctx context.Context) (int64, error)
	// SampleOne returns any single document, or nil when there is none.
	SampleOne(ctx context.Context) (bson.M, error)
	// FindNewest returns up to limit documents sorted descending by field.
	FindNewest(ctx context.Context, field string, limit int64) ([]bson.M, error)
}

// collectionResolver yields the collection to read on each Fetch, so the
// shared client can be replaced between calls.
type collectionResolver func(ctx context.Context) (documentCollection, error)

type mongoCollection struct {
	coll *mongo.Collection
}

func (c mongoCollection) EstimatedDocumentCount(ctx context.Context) (int64, error) {
	return c.coll.EstimatedDocumentCount(ctx)
}

func (c mongoCollection) SampleOne(ctx context.Context) (bson.M, error) {
	var doc bson.M
	err := c.coll.FindOne(ctx, bson.D{}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (c mongoCollection) FindNewest(ctx context.Context, field string, limit int64) ([]bson.M, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: field, Value: -1}}).
		SetLimit(limit)

	cursor, err := c.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func managedCollection(m *database.Manager, uri, db, name string) collectionResolver {
	return func(ctx context.Context) (documentCollection, error) {
		coll, err := m.Collection(ctx, uri, db, name)
		if err != nil {
			return nil, err
		}
		return mongoCollection{coll: coll}, nil
	}
}
