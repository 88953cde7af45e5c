package service

import (
	"context"
	"net/url"
	"strconv"

	"IoTDashboard/internal/client"
	"IoTDashboard/internal/logger"
	"IoTDashboard/internal/models"
	"IoTDashboard/internal/repository"
)

// IAnalyticsService exposes the analytics engine's state and its stored history.
type IAnalyticsService interface {
	GetStatus(ctx context.Context) models.Status
	UpdateConfig(ctx context.Context, method string, batchSize int) bool
	GetHistory(ctx context.Context, limit int) []models.Document
	HistorySource() string
}

type AnalyticsService struct {
	client client.APIClient
	repo   repository.HistoryRepository
	log    *logger.Logger
}

func NewAnalyticsService(c client.APIClient, repo repository.HistoryRepository, log *logger.Logger) *AnalyticsService {
	if log == nil {
		log = logger.Discard()
	}
	return &AnalyticsService{client: c, repo: repo, log: log}
}

func (s *AnalyticsService) GetStatus(ctx context.Context) models.Status {
	return s.client.Get(ctx, "/api/analytics/status")
}

func (s *AnalyticsService) UpdateConfig(ctx context.Context, method string, batchSize int) bool {
	s.log.Debug("Analytics config: method=%s batchSize=%d", method, batchSize)
	params := url.Values{
		"method":    {method},
		"batchSize": {strconv.Itoa(batchSize)},
	}
	return s.client.Post(ctx, "/api/analytics/config", nil, params)
}

func (s *AnalyticsService) GetHistory(ctx context.Context, limit int) []models.Document {
	return s.repo.Fetch(ctx, limit)
}

func (s *AnalyticsService) HistorySource() string {
	return s.repo.SourceName()
}
