package service

import (
	"context"
	"net/url"
	"strconv"

	"IoTDashboard/internal/client"
	"IoTDashboard/internal/logger"
	"IoTDashboard/internal/models"
)

// ISimulatorService controls the device simulator.
type ISimulatorService interface {
	GetStatus(ctx context.Context) models.Status
	Toggle(ctx context.Context, running bool) bool
	UpdateConfig(ctx context.Context, deviceCount, messagesPerSecond int) bool
}

type SimulatorService struct {
	client client.APIClient
	log    *logger.Logger
}

func NewSimulatorService(c client.APIClient, log *logger.Logger) *SimulatorService {
	if log == nil {
		log = logger.Discard()
	}
	return &SimulatorService{client: c, log: log}
}

func (s *SimulatorService) GetStatus(ctx context.Context) models.Status {
	return s.client.Get(ctx, "/api/simulator/status")
}

// Toggle flips the simulator given its current running state: a running
// simulator is stopped, a stopped one is started.
func (s *SimulatorService) Toggle(ctx context.Context, running bool) bool {
	action := "start"
	if running {
		action = "stop"
	}
	s.log.Debug("Simulator %s requested", action)
	return s.client.Post(ctx, "/api/simulator/"+action, nil, nil)
}

func (s *SimulatorService) UpdateConfig(ctx context.Context, deviceCount, messagesPerSecond int) bool {
	s.log.Debug("Simulator config: deviceCount=%d messagesPerSecond=%d", deviceCount, messagesPerSecond)
	params := url.Values{
		"deviceCount":       {strconv.Itoa(deviceCount)},
		"messagesPerSecond": {strconv.Itoa(messagesPerSecond)},
	}
	return s.client.Post(ctx, "/api/simulator/config", nil, params)
}
