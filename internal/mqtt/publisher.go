package mqtt

import (
	"encoding/json"

	"IoTDashboard/internal/models"
)

// SnapshotPublisher forwards refresh snapshots to the broker.
type SnapshotPublisher struct {
	client *Client
	topic  string
}

func NewSnapshotPublisher(c *Client, topic string) *SnapshotPublisher {
	return &SnapshotPublisher{client: c, topic: topic}
}

// Publish sends snap without waiting for the broker. Snapshots produced
// while disconnected are skipped.
func (p *SnapshotPublisher) Publish(snap *models.Snapshot) {
	if !p.client.IsConnected() {
		p.client.log.Debug("MQTT disconnected, skipping snapshot %s", snap.CycleID)
		return
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		p.client.log.Error("Failed to marshal snapshot %s: %v", snap.CycleID, err)
		return
	}

	go func() {
		if err := p.client.Publish(p.topic, payload); err != nil {
			p.client.log.Warn("Snapshot %s not published: %v", snap.CycleID, err)
		}
	}()
}
