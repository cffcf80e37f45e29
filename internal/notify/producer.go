// Package notify implements both ends of the notification pipeline: the
// producer that puts envelopes on the durable queue and the worker that
// drains it and performs delivery.
package notify

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"janmat/backend/internal/apperr"
	"janmat/backend/internal/config"
	"janmat/backend/internal/models"
)

// Producer publishes NotificationMessage envelopes onto the durable
// notifications queue. The broker connection is established lazily on the
// first publish and reused afterwards; the mutex makes establishment
// single-flight when several triggers race on first use.
type Producer struct {
	url string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewProducer(url string) *Producer {
	return &Producer{url: url}
}

// Publish serializes the envelope and sends it with the persistent
// delivery flag so the broker retains it across restarts. Callers on the
// business path treat a returned error as log-and-continue: a broker
// outage must never block or roll back the triggering state change.
func (p *Producer) Publish(msg models.NotificationMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ch, err := p.channel()
	if err != nil {
		return apperr.Unavailable("Notification broker unreachable")
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.BrokerDialTimeout)
	defer cancel()

	err = ch.PublishWithContext(ctx, "", config.NotificationQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		// Drop the channel so the next publish redials.
		p.reset()
		log.Printf("ERROR: Failed to publish notification for %s: %v", msg.To, err)
		return apperr.Unavailable("Notification broker unreachable")
	}
	return nil
}

// channel returns the cached channel, dialing the broker first if needed.
func (p *Producer) channel() (*amqp.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		return p.ch, nil
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Dial: amqp.DefaultDial(config.BrokerDialTimeout),
	})
	if err != nil {
		log.Printf("ERROR: Broker connection failed: %v", err)
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if _, err := ch.QueueDeclare(config.NotificationQueue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Println("Broker connected")
	p.conn = conn
	p.ch = ch
	return p.ch, nil
}

func (p *Producer) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
}

// Close releases the broker connection.
func (p *Producer) Close() {
	p.reset()
}
