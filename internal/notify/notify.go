package notify

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/autoserve/jobcard-backend/internal/models"
)

// StatusEvent describes an effective status change on a job card.
type StatusEvent struct {
	JobCardID     string           `json:"jobCardId"`
	Status        models.JobStatus `json:"status"`
	CriticalIssue bool             `json:"criticalIssue"`
	UpdatedBy     string           `json:"updatedBy"`
	At            time.Time        `json:"at"`
}

// Notifier publishes status-change events. Publishing is best effort:
// callers log failures and move on, the request never fails on it.
type Notifier interface {
	StatusChanged(event StatusEvent) error
}

// Noop discards all events.
type Noop struct{}

func (Noop) StatusChanged(StatusEvent) error { return nil }

// MQTTNotifier publishes status events to an MQTT topic at QoS 0.
type MQTTNotifier struct {
	client mqtt.Client
	topic  string
}

// NewMQTTNotifier connects to the broker and returns a ready notifier.
func NewMQTTNotifier(brokerURL, clientID, topic string) (*MQTTNotifier, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect error: %w", token.Error())
	}

	return &MQTTNotifier{client: client, topic: topic}, nil
}

// StatusChanged publishes the event as JSON.
func (n *MQTTNotifier) StatusChanged(event StatusEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal status event: %w", err)
	}

	token := n.client.Publish(n.topic, 0, false, payload)
	token.Wait()
	return token.Error()
}

// Close disconnects from the broker.
func (n *MQTTNotifier) Close() {
	n.client.Disconnect(250)
}
