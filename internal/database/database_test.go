package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Nothing listens on these ports; the driver only dials on first use.
const (
	uriA = "mongodb://127.0.0.1:1/?directConnection=true"
	uriB = "mongodb://127.0.0.1:2/?directConnection=true"
)

func TestConnectReusesClientForSameURI(t *testing.T) {
	ctx := context.Background()
	m := NewManager(200*time.Millisecond, nil)
	defer m.Close(ctx)

	first, err := m.Connect(ctx, uriA)
	require.NoError(t, err)
	second, err := m.Connect(ctx, uriA)
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestConnectReplacesClientWhenURIChanges(t *testing.T) {
	ctx := context.Background()
	m := NewManager(200*time.Millisecond, nil)
	defer m.Close(ctx)

	first, err := m.Connect(ctx, uriA)
	require.NoError(t, err)
	second, err := m.Connect(ctx, uriB)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
}

func TestConnectRejectsBadURI(t *testing.T) {
	m := NewManager(0, nil)
	_, err := m.Connect(context.Background(), "not-a-uri")
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	ctx := context.Background()
	m := NewManager(200*time.Millisecond, nil)

	assert.True(t, errors.Is(m.Health(ctx), ErrNotConnected))

	_, err := m.Connect(ctx, uriA)
	require.NoError(t, err)
	assert.Error(t, m.Health(ctx), "no server is listening")

	require.NoError(t, m.Close(ctx))
	assert.True(t, errors.Is(m.Health(ctx), ErrNotConnected))
	assert.NoError(t, m.Close(ctx))
}
