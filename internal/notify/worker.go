package notify

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"janmat/backend/internal/config"
	"janmat/backend/internal/models"
)

// Mailer sends an email. The worker treats a nil Mailer as "not
// configured" and logs the delivery instead of failing it.
type Mailer interface {
	Send(to, subject, text string) error
}

// TelegramSender delivers a message to a Telegram chat id.
type TelegramSender interface {
	Send(chatID, text string) error
}

// publisher is the slice of *amqp.Channel the delivery handler needs for
// requeueing and dead-lettering.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

const retryHeader = "x-retry-count"

// Worker drains the notifications queue and performs delivery. A message
// is acknowledged only after its side effect succeeds; failed deliveries
// are requeued with an incremented retry counter until the budget is
// spent, then parked on the dead-letter queue for manual inspection.
type Worker struct {
	url      string
	mailer   Mailer
	telegram TelegramSender
}

func NewWorker(url string, mailer Mailer, telegram TelegramSender) *Worker {
	return &Worker{url: url, mailer: mailer, telegram: telegram}
}

// Run connects to the broker and consumes until ctx is cancelled or the
// connection drops. Connection setup errors are returned to the caller;
// the surrounding process supervises restarts.
func (w *Worker) Run(ctx context.Context) error {
	conn, err := amqp.DialConfig(w.url, amqp.Config{
		Dial: amqp.DefaultDial(config.BrokerDialTimeout),
	})
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(config.NotificationQueue, true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(config.DeadLetterQueue, true, false, false, false, nil); err != nil {
		return err
	}

	// One unacknowledged message at a time.
	if err := ch.Qos(1, 0, false); err != nil {
		return err
	}

	deliveries, err := ch.ConsumeWithContext(ctx, config.NotificationQueue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	log.Println("Notification worker waiting for messages...")

	for d := range deliveries {
		w.handle(ch, d)
	}
	return ctx.Err()
}

func (w *Worker) handle(pub publisher, d amqp.Delivery) {
	var msg models.NotificationMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		log.Printf("ERROR: Malformed notification payload, parking: %v", err)
		w.park(pub, d)
		return
	}

	if err := w.deliver(msg); err != nil {
		attempt := retryCount(d.Headers) + 1
		if attempt >= config.MaxDeliveryAttempts {
			log.Printf("ERROR: Delivery to %s failed %d times, parking: %v", msg.To, attempt, err)
			w.park(pub, d)
			return
		}
		log.Printf("WARNING: Delivery to %s failed (attempt %d), requeueing: %v", msg.To, attempt, err)
		w.requeue(pub, d, attempt)
		return
	}

	if err := d.Ack(false); err != nil {
		log.Printf("ERROR: Failed to ack notification: %v", err)
	}
}

func (w *Worker) deliver(msg models.NotificationMessage) error {
	switch msg.Type {
	case models.NotifyEmail:
		if w.mailer == nil {
			log.Printf("Email transport not configured, would send to %s: %s", msg.To, msg.Subject)
			return nil
		}
		if err := w.mailer.Send(msg.To, msg.Subject, msg.Text); err != nil {
			return err
		}
		log.Printf("Email sent to %s", msg.To)
		return nil

	case models.NotifyTelegram:
		if w.telegram == nil {
			log.Printf("Telegram transport not configured, would send to %s", msg.To)
			return nil
		}
		if err := w.telegram.Send(msg.To, msg.Text); err != nil {
			return err
		}
		log.Printf("Telegram message sent to %s", msg.To)
		return nil

	default:
		// Unknown kinds are dropped, not retried.
		log.Printf("WARNING: Unknown notification kind %q, dropping", msg.Type)
		return nil
	}
}

// requeue republishes the message with an incremented retry counter and
// acknowledges the original. If the republish itself fails, the original
// is nacked back to the broker so nothing is lost.
func (w *Worker) requeue(pub publisher, d amqp.Delivery, attempt int) {
	err := pub.PublishWithContext(context.Background(), "", config.NotificationQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Headers:      amqp.Table{retryHeader: int64(attempt)},
		Body:         d.Body,
	})
	if err != nil {
		log.Printf("ERROR: Failed to requeue notification: %v", err)
		if err := d.Nack(false, true); err != nil {
			log.Printf("ERROR: Failed to nack notification: %v", err)
		}
		return
	}
	if err := d.Ack(false); err != nil {
		log.Printf("ERROR: Failed to ack requeued notification: %v", err)
	}
}

func (w *Worker) park(pub publisher, d amqp.Delivery) {
	err := pub.PublishWithContext(context.Background(), "", config.DeadLetterQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Headers:      d.Headers,
		Body:         d.Body,
	})
	if err != nil {
		log.Printf("ERROR: Failed to park notification: %v", err)
		if err := d.Nack(false, true); err != nil {
			log.Printf("ERROR: Failed to nack notification: %v", err)
		}
		return
	}
	if err := d.Ack(false); err != nil {
		log.Printf("ERROR: Failed to ack parked notification: %v", err)
	}
}

// retryCount reads the retry header; brokers hand integer headers back in
// varying widths.
func retryCount(headers amqp.Table) int {
	switch v := headers[retryHeader].(type) {
	case int64:
		return int(v)
	case int32:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
