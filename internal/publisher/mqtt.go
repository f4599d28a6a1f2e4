package publisher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"energytracker/internal/config"
	"energytracker/pkg/models"
)

// Publisher pushes forecast points to an MQTT broker and/or the Home
// Assistant HTTP API, depending on which is enabled in config.
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
	haConfig    config.HAConfig
}

// New creates a new publisher (supports both MQTT and HA HTTP API)
func New(mqttCfg config.MQTTConfig, haCfg config.HAConfig) (*Publisher, error) {
	// Validate HA config if enabled
	if haCfg.Enabled {
		if haCfg.URL == "" {
			return nil, fmt.Errorf("Home Assistant URL is required when enabled")
		}
		if haCfg.Token == "" {
			return nil, fmt.Errorf("Home Assistant token is required when enabled")
		}
		if haCfg.EntityID == "" {
			return nil, fmt.Errorf("Home Assistant entity_id is required when enabled")
		}
	}

	var client mqtt.Client
	var topicPrefix string

	if mqttCfg.Enabled {
		if mqttCfg.Broker == "" {
			return nil, fmt.Errorf("MQTT broker address is required when enabled")
		}

		// Set default topic prefix if not specified
		topicPrefix = mqttCfg.TopicPrefix
		if topicPrefix == "" {
			topicPrefix = "energytracker"
		}

		// Configure MQTT client options
		opts := mqtt.NewClientOptions()
		opts.AddBroker(fmt.Sprintf("tcp://%s", mqttCfg.Broker))
		opts.SetClientID("energytracker")
		opts.SetAutoReconnect(true)
		opts.SetConnectRetry(true)
		opts.SetConnectTimeout(10 * time.Second)

		if mqttCfg.Username != "" {
			opts.SetUsername(mqttCfg.Username)
		}
		if mqttCfg.Password != "" {
			opts.SetPassword(mqttCfg.Password)
		}

		// Create and connect client
		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
		}
	}

	return &Publisher{
		client:      client,
		topicPrefix: topicPrefix,
		haConfig:    haCfg,
	}, nil
}

// forecastMessage is the MQTT payload for one forecast point.
type forecastMessage struct {
	Date          string  `json:"date"`
	PredictedKWh  float64 `json:"predicted_kwh"`
	PredictedCost float64 `json:"predicted_cost"`
	Confidence    float64 `json:"confidence"`
}

// haStatePayload matches the Home Assistant states API body.
type haStatePayload struct {
	State      string            `json:"state"`
	Attributes map[string]string `json:"attributes"`
}

// Publish sends one forecast point to every enabled destination.
func (p *Publisher) Publish(userID int, point models.ForecastPoint) error {
	if p.client == nil && !p.haConfig.Enabled {
		return fmt.Errorf("no publishing destination is enabled in config")
	}

	if p.client != nil {
		if err := p.publishMQTT(userID, point); err != nil {
			return err
		}
	}

	if p.haConfig.Enabled {
		if err := p.publishHA(point); err != nil {
			return err
		}
	}

	return nil
}

// publishMQTT sends the point to <prefix>/<user_id>/forecast.
func (p *Publisher) publishMQTT(userID int, point models.ForecastPoint) error {
	body, err := json.Marshal(forecastMessage{
		Date:          point.Date.Format("2006-01-02"),
		PredictedKWh:  point.PredictedKWh,
		PredictedCost: point.PredictedCost,
		Confidence:    point.ConfidenceScore,
	})
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	topic := fmt.Sprintf("%s/%d/forecast", p.topicPrefix, userID)
	if token := p.client.Publish(topic, 1, true, body); token.Wait() && token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", topic, token.Error())
	}

	return nil
}

// publishHA posts the point as an entity state via the HA states API.
func (p *Publisher) publishHA(point models.ForecastPoint) error {
	apiURL := fmt.Sprintf("%s/api/states/%s", p.haConfig.URL, p.haConfig.EntityID)

	payload := haStatePayload{
		State: fmt.Sprintf("%.4f", point.PredictedKWh),
		Attributes: map[string]string{
			"date":           point.Date.Format("2006-01-02"),
			"predicted_cost": fmt.Sprintf("%.2f", point.PredictedCost),
			"confidence":     fmt.Sprintf("%.2f", point.ConfidenceScore),
			"unit_of_measurement": "kWh",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequest("POST", apiURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+p.haConfig.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		// Read error response body for debugging
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP error: status %d, response: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
