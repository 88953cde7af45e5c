package mqtt

import (
	"context"
	"fmt"

	"IoTDashboard/internal/models"
)

func (c *Client) Health(ctx context.Context) (*models.BrokerHealth, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return &models.BrokerHealth{
		Broker:         fmt.Sprintf("%s:%d", c.cfg.Broker, c.cfg.Port),
		Connected:      c.connected && c.client.IsConnected(),
		LastConnected:  c.lastConnected,
		LastDisconnect: c.lastLost,
		LastPublished:  c.lastPublished,
		Published:      c.published,
		Subscriptions:  len(c.handlers),
	}, nil
}
