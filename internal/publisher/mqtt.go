package publisher

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/jgoulah/bikestats/internal/config"
	"github.com/jgoulah/bikestats/internal/stats"
)

// publishTimeout bounds how long a single publish waits for the broker
const publishTimeout = 10 * time.Second

// client is the subset of mqtt.Client the publisher uses
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	IsConnected() bool
	Disconnect(quiesce uint)
}

// Publisher sends statistics reports to an MQTT broker
type Publisher struct {
	client      client
	topicPrefix string
	retain      bool
}

// New connects to the configured MQTT broker
func New(cfg config.MQTTConfig) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("MQTT publishing is not enabled in config")
	}
	if cfg.Broker == "" {
		return nil, fmt.Errorf("MQTT broker address is required when enabled")
	}

	// Configure MQTT client options
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL(cfg.Broker))
	opts.SetClientID(cfg.GetClientID())
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(false)
	opts.SetConnectTimeout(10 * time.Second)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	// Create and connect client
	c := mqtt.NewClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}

	return newWithClient(c, cfg), nil
}

func newWithClient(c client, cfg config.MQTTConfig) *Publisher {
	return &Publisher{
		client:      c,
		topicPrefix: cfg.GetTopicPrefix(),
		retain:      cfg.Retain,
	}
}

// Topic returns the topic a city's reports are published to
func (p *Publisher) Topic(city string) string {
	return fmt.Sprintf("%s/%s/stats", p.topicPrefix, slug(city))
}

// Publish sends a report as JSON with QoS 1
func (p *Publisher) Publish(report *stats.Report) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	token := p.client.Publish(p.Topic(report.City), 1, p.retain, body)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publishing report: timed out after %s", publishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing report: %w", err)
	}
	return nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}

func brokerURL(broker string) string {
	if strings.Contains(broker, "://") {
		return broker
	}
	return "tcp://" + broker
}

// slug turns "new york city" into "new_york_city"
func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}
