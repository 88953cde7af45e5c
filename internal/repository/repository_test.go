package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"IoTDashboard/internal/database"
	"IoTDashboard/internal/mock"
	"IoTDashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeCollection struct {
	docs      []bson.M
	countErr  error
	findErr   error
	sortField string
	limit     int64
}

func (f *fakeCollection) EstimatedDocumentCount(context.Context) (int64, error) {
	return int64(len(f.docs)), f.countErr
}

func (f *fakeCollection) SampleOne(context.Context) (bson.M, error) {
	if len(f.docs) == 0 {
		return nil, nil
	}
	return f.docs[0], nil
}

func (f *fakeCollection) FindNewest(_ context.Context, field string, limit int64) ([]bson.M, error) {
	f.sortField = field
	f.limit = limit
	if f.findErr != nil {
		return nil, f.findErr
	}

	out := append([]bson.M(nil), f.docs...)
	sort.SliceStable(out, func(i, j int) bool {
		return sortKey(out[i][field]) > sortKey(out[j][field])
	})
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sortKey(v interface{}) string {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC().Format(time.RFC3339Nano)
	}
	return fmt.Sprint(v)
}

func resolverFor(f *fakeCollection) collectionResolver {
	return func(context.Context) (documentCollection, error) { return f, nil }
}

func alertDocs(n int, timeKey string) []bson.M {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	docs := make([]bson.M, 0, n)
	for i := 0; i < n; i++ {
		ts := base.Add(time.Duration(i) * time.Minute)
		docs = append(docs, bson.M{
			"_id":      primitive.NewObjectIDFromTimestamp(ts),
			"ruleId":   "LOW_BATTERY",
			"severity": "INFO",
			timeKey:    primitive.NewDateTimeFromTime(ts),
		})
	}
	return docs
}

func TestDetectSortField(t *testing.T) {
	assert.Equal(t, "receivedAt", detectSortField(bson.M{"receivedAt": 1, "alertTimestamp": 2}))
	assert.Equal(t, "alertTimestamp", detectSortField(bson.M{"alertTimestamp": 2}))
	assert.Equal(t, "_id", detectSortField(bson.M{"ruleId": "X"}))
}

func TestAlertFetchNewestFirstWithStringIDs(t *testing.T) {
	f := &fakeCollection{docs: alertDocs(12, "receivedAt")}
	repo := newMongoAlertRepository(resolverFor(f), "iot.alerts", nil)

	got := repo.Fetch(context.Background(), 5)

	require.Len(t, got, 5)
	assert.Equal(t, "receivedAt", f.sortField)
	assert.EqualValues(t, 5, f.limit)

	var prev time.Time
	for i, d := range got {
		assert.IsType(t, "", d[models.IDField])
		assert.Len(t, d.ID(), 24)
		ts, ok := d.Time("receivedAt")
		require.True(t, ok)
		assert.Equal(t, time.UTC, ts.Location())
		if i > 0 {
			assert.True(t, ts.Before(prev))
		}
		prev = ts
	}
	assert.Equal(t, "iot.alerts", repo.SourceName())
}

// Only alertTimestamp present.
func TestAlertFetchSortsByAlertTimestamp(t *testing.T) {
	f := &fakeCollection{docs: alertDocs(3, "alertTimestamp")}
	repo := newMongoAlertRepository(resolverFor(f), "iot.alerts", nil)

	got := repo.Fetch(context.Background(), 10)

	assert.Equal(t, "alertTimestamp", f.sortField)
	require.Len(t, got, 3)
	assert.Equal(t, models.ParseAlert(got[0]).ReceivedAt, time.Date(2025, 3, 1, 0, 2, 0, 0, time.UTC))
}

func TestAlertFetchEmptyCollection(t *testing.T) {
	f := &fakeCollection{}
	repo := newMongoAlertRepository(resolverFor(f), "iot.alerts", nil)

	got := repo.Fetch(context.Background(), 10)

	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, DefaultAlertSortField, f.sortField)
}

func TestFetchNonPositiveLimit(t *testing.T) {
	f := &fakeCollection{docs: alertDocs(3, "receivedAt")}

	alerts := newMongoAlertRepository(resolverFor(f), "iot.alerts", nil)
	analytics := newMongoAnalyticsRepository(resolverFor(f), "iot.analytics", nil)

	for _, limit := range []int{0, -1} {
		assert.Empty(t, alerts.Fetch(context.Background(), limit))
		assert.Empty(t, analytics.Fetch(context.Background(), limit))
	}
	assert.Empty(t, f.sortField, "store must not be queried")
}

func TestFetchErrorsYieldEmpty(t *testing.T) {
	boom := errors.New("server selection timeout")

	f := &fakeCollection{docs: alertDocs(3, "receivedAt"), findErr: boom}
	assert.Empty(t, newMongoAlertRepository(resolverFor(f), "a.b", nil).Fetch(context.Background(), 5))
	assert.Empty(t, newMongoAnalyticsRepository(resolverFor(f), "a.b", nil).Fetch(context.Background(), 5))

	f = &fakeCollection{countErr: boom}
	assert.Empty(t, newMongoAlertRepository(resolverFor(f), "a.b", nil).Fetch(context.Background(), 5))

	failing := func(context.Context) (documentCollection, error) { return nil, boom }
	assert.Empty(t, newMongoAlertRepository(failing, "a.b", nil).Fetch(context.Background(), 5))
	assert.Empty(t, newMongoAnalyticsRepository(failing, "a.b", nil).Fetch(context.Background(), 5))
}

func TestAnalyticsFetchSortsByTimestamp(t *testing.T) {
	f := &fakeCollection{docs: alertDocs(4, "timestamp")}
	f.docs[0]["metrics"] = bson.M{"battery": bson.D{{Key: "avg", Value: 81.5}}}
	repo := newMongoAnalyticsRepository(resolverFor(f), "iot.analytics", nil)

	got := repo.Fetch(context.Background(), 2)

	assert.Equal(t, "timestamp", f.sortField)
	require.Len(t, got, 2)

	f.limit = 0
	all := repo.Fetch(context.Background(), 10)
	require.Len(t, all, 4)
	oldest := models.ParseAnalyticsPoint(all[3])
	assert.Equal(t, 81.5, oldest.Metrics.Battery.Avg)
}

func TestStringifyID(t *testing.T) {
	oid := primitive.NewObjectID()
	assert.Equal(t, oid.Hex(), stringifyID(oid))
	assert.Equal(t, "mock_001", stringifyID("mock_001"))
	assert.Equal(t, "42", stringifyID(int32(42)))
}

func TestNormalizeDocument(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	doc := normalizeDocument(bson.M{
		"_id":  int64(7),
		"when": primitive.NewDateTimeFromTime(ts),
		"tags": primitive.A{"a", primitive.M{"k": "v"}},
	})

	assert.Equal(t, "7", doc.ID())
	assert.Equal(t, ts, doc["when"])
	tags := doc["tags"].([]interface{})
	assert.Equal(t, map[string]interface{}{"k": "v"}, tags[1])
}

func TestMockRepositories(t *testing.T) {
	gen := mock.NewGenerator(mock.WithClock(func() time.Time {
		return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	}))

	alerts := NewMockAlertRepository(gen, "mock_db", "mock_alerts")
	assert.Equal(t, "mock_db.mock_alerts", alerts.SourceName())
	assert.Len(t, alerts.Fetch(context.Background(), 7), 7)
	assert.Len(t, alerts.Fetch(context.Background(), 80), mock.MaxAlerts)
	assert.Empty(t, alerts.Fetch(context.Background(), 0))

	analytics := NewMockAnalyticsRepository(gen, "mock_db", "mock_analytics")
	assert.Len(t, analytics.Fetch(context.Background(), 80), 80)
	assert.Equal(t, "mock_db.mock_analytics", analytics.SourceName())
}

func TestMongoRepositoryUnreachableStore(t *testing.T) {
	m := database.NewManager(100*time.Millisecond, nil)
	defer m.Close(context.Background())

	repo := NewMongoAlertRepository(m, "mongodb://127.0.0.1:1/?directConnection=true", "iot", "alerts", nil)
	assert.Empty(t, repo.Fetch(context.Background(), 5))
	assert.Equal(t, "iot.alerts", repo.SourceName())
}
