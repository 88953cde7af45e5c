// internal/database/database.go

package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"IoTDashboard/internal/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const DefaultServerSelectionTimeout = 3 * time.Second

var ErrNotConnected = errors.New("database: no client connected")

// Manager owns the single shared document-store client. Connect reuses the
// client while the URI is unchanged and replaces it when the URI changes.
type Manager struct {
	mu               sync.Mutex
	client           *mongo.Client
	uri              string
	selectionTimeout time.Duration
	log              *logger.Logger
}

func NewManager(selectionTimeout time.Duration, log *logger.Logger) *Manager {
	if selectionTimeout <= 0 {
		selectionTimeout = DefaultServerSelectionTimeout
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Manager{selectionTimeout: selectionTimeout, log: log}
}

// Connect returns the client for uri, creating it on first use. The driver
// connects lazily, so an unreachable server surfaces on the first query.
func (m *Manager) Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client != nil && m.uri == uri {
		return m.client, nil
	}

	if m.client != nil {
		m.log.Info("MongoDB URI changed, replacing client")
		if err := m.client.Disconnect(ctx); err != nil {
			m.log.Warn("Failed to disconnect previous MongoDB client: %v", err)
		}
		m.client = nil
		m.uri = ""
	}

	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(m.selectionTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	m.client = client
	m.uri = uri
	m.log.Debug("MongoDB client created (server selection timeout %v)", m.selectionTimeout)
	return client, nil
}

// Collection resolves database.collection on the client for uri.
func (m *Manager) Collection(ctx context.Context, uri, database, collection string) (*mongo.Collection, error) {
	client, err := m.Connect(ctx, uri)
	if err != nil {
		return nil, err
	}
	return client.Database(database).Collection(collection), nil
}

// Health pings the primary. It reports ErrNotConnected before the first Connect.
func (m *Manager) Health(ctx context.Context) error {
	m.mu.Lock()
	client := m.client
	m.mu.Unlock()

	if client == nil {
		return ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, m.selectionTimeout)
	defer cancel()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client == nil {
		return nil
	}
	err := m.client.Disconnect(ctx)
	m.client = nil
	m.uri = ""
	if err != nil {
		return fmt.Errorf("failed to disconnect mongodb: %w", err)
	}
	return nil
}
