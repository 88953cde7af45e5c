package service

import (
	"context"

	"IoTDashboard/internal/models"
	"IoTDashboard/internal/repository"
)

// IAlertsService reads the alert history.
type IAlertsService interface {
	GetAlerts(ctx context.Context, limit int) []models.Document
	Source() string
}

type AlertsService struct {
	repo repository.HistoryRepository
}

func NewAlertsService(repo repository.HistoryRepository) *AlertsService {
	return &AlertsService{repo: repo}
}

func (s *AlertsService) GetAlerts(ctx context.Context, limit int) []models.Document {
	return s.repo.Fetch(ctx, limit)
}

func (s *AlertsService) Source() string {
	return s.repo.SourceName()
}
