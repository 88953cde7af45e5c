package mqtt

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"IoTDashboard/internal/config"
	"IoTDashboard/internal/logger"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	StatusOnline  = "online"
	StatusOffline = "offline"

	operationTimeout = 5 * time.Second
)

// Client publishes dashboard snapshots to a broker and listens for operator
// commands. When a status topic is configured the broker holds a retained
// "online"/"offline" marker for the dashboard, with "offline" doubling as
// the last will.
type Client struct {
	client        mqtt.Client
	cfg           *config.MQTTConfig
	log           *logger.Logger
	handlers      map[string]MessageHandler
	mu            sync.RWMutex
	connected     bool
	lastConnected time.Time
	lastLost      time.Time
	published     uint64
	lastPublished time.Time
}

type MessageHandler func(topic string, payload []byte) error

type ClientConfig struct {
	MQTT   *config.MQTTConfig
	Logger *logger.Logger
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if cfg.MQTT == nil || !cfg.MQTT.Enabled() {
		return nil, fmt.Errorf("mqtt broker not configured")
	}

	c := &Client{
		cfg:      cfg.MQTT,
		log:      cfg.Logger,
		handlers: make(map[string]MessageHandler),
	}
	c.client = mqtt.NewClient(c.options())
	return c, nil
}

func (c *Client) options() *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", c.cfg.Broker, c.cfg.Port))
	opts.SetClientID(c.cfg.ClientID)
	opts.SetKeepAlive(c.cfg.KeepAlive)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetConnectTimeout(c.cfg.ConnectTimeout)
	opts.SetAutoReconnect(c.cfg.AutoReconnect)
	opts.SetCleanSession(true)

	if c.cfg.Username != "" {
		opts.SetUsername(c.cfg.Username)
		opts.SetPassword(c.cfg.Password)
	}
	if c.cfg.StatusTopic != "" {
		opts.SetWill(c.cfg.StatusTopic, StatusOffline, c.cfg.QoS, true)
	}

	opts.SetOnConnectHandler(c.onConnect)
	opts.SetConnectionLostHandler(c.onConnectionLost)
	opts.SetReconnectingHandler(c.onReconnecting)
	return opts
}

func (c *Client) Connect() error {
	c.log.Info("Connecting to MQTT broker: %s:%d", c.cfg.Broker, c.cfg.Port)

	token := c.client.Connect()
	if !token.WaitTimeout(c.cfg.ConnectTimeout) {
		return fmt.Errorf("connection timeout after %v", c.cfg.ConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}

	c.setConnected(true)
	c.log.Info("Successfully connected to MQTT broker")
	return nil
}

// Disconnect marks the dashboard offline and closes the connection.
func (c *Client) Disconnect() {
	if c.IsConnected() && c.cfg.StatusTopic != "" {
		if err := c.publish(c.cfg.StatusTopic, []byte(StatusOffline), true); err != nil {
			c.log.Warn("Failed to publish offline status: %v", err)
		}
	}

	c.log.Info("Disconnecting from MQTT broker")
	c.setConnected(false)
	c.client.Disconnect(250)
}

func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected && c.client.IsConnected()
}

// Subscribe registers handler for topic. The subscription is restored after
// every reconnect.
func (c *Client) Subscribe(topic string, handler MessageHandler) error {
	if !c.IsConnected() {
		return fmt.Errorf("not connected to broker")
	}

	c.mu.Lock()
	c.handlers[topic] = handler
	c.mu.Unlock()

	if err := c.subscribe(c.client, topic); err != nil {
		return err
	}
	c.log.Info("Successfully subscribed to topic: %s", topic)
	return nil
}

func (c *Client) subscribe(client mqtt.Client, topic string) error {
	c.log.Debug("Subscribing to topic: %s (QoS: %d)", topic, c.cfg.QoS)

	token := client.Subscribe(topic, c.cfg.QoS, func(_ mqtt.Client, msg mqtt.Message) {
		c.handleMessage(msg.Topic(), msg.Payload())
	})
	if !token.WaitTimeout(operationTimeout) {
		return fmt.Errorf("subscribe timeout for topic: %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe failed for topic %s: %w", topic, err)
	}
	return nil
}

// Publish sends payload with the configured QoS and retain flag.
func (c *Client) Publish(topic string, payload []byte) error {
	err := c.publish(topic, payload, c.cfg.RetainMessages)
	if err != nil {
		messagesTotal.WithLabelValues(directionOut, outcomeFailed).Inc()
		return err
	}
	messagesTotal.WithLabelValues(directionOut, outcomeOK).Inc()

	c.mu.Lock()
	c.published++
	c.lastPublished = time.Now()
	c.mu.Unlock()
	return nil
}

func (c *Client) publish(topic string, payload []byte, retain bool) error {
	if !c.IsConnected() {
		return fmt.Errorf("not connected to broker")
	}

	c.log.Debug("Publishing to topic: %s (size: %d bytes)", topic, len(payload))

	token := c.client.Publish(topic, c.cfg.QoS, retain, payload)
	if !token.WaitTimeout(operationTimeout) {
		return fmt.Errorf("publish timeout for topic: %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish failed for topic %s: %w", topic, err)
	}
	return nil
}

func (c *Client) handleMessage(topic string, payload []byte) {
	c.log.Debug("Received message on topic: %s (size: %d bytes)", topic, len(payload))

	handler, ok := c.handlerFor(topic)
	if !ok {
		messagesTotal.WithLabelValues(directionIn, outcomeUnrouted).Inc()
		c.log.Warn("No handler found for topic: %s", topic)
		return
	}

	if err := handler(topic, payload); err != nil {
		messagesTotal.WithLabelValues(directionIn, outcomeFailed).Inc()
		c.log.Error("Handler error for topic %s: %v", topic, err)
		return
	}
	messagesTotal.WithLabelValues(directionIn, outcomeOK).Inc()
}

// handlerFor prefers an exact subscription over a wildcard one.
func (c *Client) handlerFor(topic string) (MessageHandler, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if h, ok := c.handlers[topic]; ok {
		return h, true
	}
	for pattern, h := range c.handlers {
		if matchTopic(pattern, topic) {
			return h, true
		}
	}
	return nil, false
}

func (c *Client) setConnected(up bool) {
	c.mu.Lock()
	c.connected = up
	if up {
		c.lastConnected = time.Now()
	} else {
		c.lastLost = time.Now()
	}
	c.mu.Unlock()

	if up {
		connectedGauge.Set(1)
	} else {
		connectedGauge.Set(0)
	}
}

func (c *Client) onConnect(client mqtt.Client) {
	c.setConnected(true)

	c.mu.RLock()
	topics := make([]string, 0, len(c.handlers))
	for topic := range c.handlers {
		topics = append(topics, topic)
	}
	c.mu.RUnlock()

	c.log.Info("MQTT connection established")

	if c.cfg.StatusTopic != "" {
		// Runs on paho's callback goroutine, so the token is not awaited here.
		client.Publish(c.cfg.StatusTopic, c.cfg.QoS, true, StatusOnline)
	}

	for _, topic := range topics {
		c.log.Debug("Re-subscribing to topic: %s", topic)
		if err := c.subscribe(client, topic); err != nil {
			c.log.Error("Failed to re-subscribe to %s: %v", topic, err)
		}
	}
}

func (c *Client) onConnectionLost(client mqtt.Client, err error) {
	c.setConnected(false)
	c.log.Error("MQTT connection lost: %v", err)
}

func (c *Client) onReconnecting(client mqtt.Client, opts *mqtt.ClientOptions) {
	c.log.Warn("Attempting to reconnect to MQTT broker...")
}

// matchTopic reports whether topic matches pattern with + and # wildcards.
func matchTopic(pattern, topic string) bool {
	if pattern == topic {
		return true
	}

	patternParts := strings.Split(pattern, "/")
	topicParts := strings.Split(topic, "/")

	for i, part := range patternParts {
		if part == "#" {
			return true
		}
		if i >= len(topicParts) {
			return false
		}
		if part != "+" && part != topicParts[i] {
			return false
		}
	}

	return len(patternParts) == len(topicParts)
}
