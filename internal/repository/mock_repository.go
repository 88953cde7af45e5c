package repository

import (
	"context"

	"IoTDashboard/internal/mock"
	"IoTDashboard/internal/models"
)

// MockAlertRepository serves generated alerts.
type MockAlertRepository struct {
	gen    *mock.Generator
	source string
}

func NewMockAlertRepository(gen *mock.Generator, db, collection string) *MockAlertRepository {
	return &MockAlertRepository{gen: gen, source: sourceName(db, collection)}
}

func (r *MockAlertRepository) Fetch(_ context.Context, limit int) []models.Document {
	return r.gen.Alerts(limit)
}

func (r *MockAlertRepository) SourceName() string {
	return r.source
}

// MockAnalyticsRepository serves generated analytics history.
type MockAnalyticsRepository struct {
	gen    *mock.Generator
	source string
}

func NewMockAnalyticsRepository(gen *mock.Generator, db, collection string) *MockAnalyticsRepository {
	return &MockAnalyticsRepository{gen: gen, source: sourceName(db, collection)}
}

func (r *MockAnalyticsRepository) Fetch(_ context.Context, limit int) []models.Document {
	return r.gen.AnalyticsHistory(limit)
}

func (r *MockAnalyticsRepository) SourceName() string {
	return r.source
}
