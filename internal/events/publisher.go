// Package events publishes provisioning audit events to RabbitMQ. Partial
// provisioning failures leave the local store and the identity provider
// divergent; the events give operators the trail needed to reconcile
// orphaned accounts. Publishing is best-effort: errors are logged and
// returned so callers can ignore them without failing the request.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const provisioningQueue = "user.provisioning"

const (
	TypeUserProvisioned = "user.provisioned"
	TypeProvisionFailed = "user.provision_failed"
	TypeUserDeactivated = "user.deactivated"
)

// Event describes a provisioning state change. OrphanAccountID is set only
// on provision_failed events where an IdP account exists without a local
// record.
type Event struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Username        string    `json:"username"`
	IdPAccountID    string    `json:"idp_account_id,omitempty"`
	OrphanAccountID string    `json:"orphan_account_id,omitempty"`
	Detail          string    `json:"detail,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// RabbitMQPublisher holds a connection/channel pair for the lifetime of the
// process.
type RabbitMQPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewRabbitMQPublisher(url string) (*RabbitMQPublisher, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("rabbitmq url is required")
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	// Durable so events survive broker restarts.
	if _, err := ch.QueueDeclare(provisioningQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &RabbitMQPublisher{conn: conn, channel: ch}, nil
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("events: marshal failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Timestamp:    event.OccurredAt,
		Body:         body,
	}

	if err := p.channel.PublishWithContext(ctx, "", provisioningQueue, false, false, pub); err != nil {
		log.Printf("events: publish failed: %v", err)
		return err
	}
	return nil
}

func (p *RabbitMQPublisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event Event) error {
	return nil
}
