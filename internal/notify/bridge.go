// Package notify carries the advisory live-notification channel: a
// fire-and-forget message bus between console instances and a websocket
// hub that relays bus messages to connected browser sessions. Messages are
// human-readable event strings with no delivery or ordering guarantees.
package notify

import (
	"context"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// exchangeName is the fanout exchange every console instance publishes to
// and consumes from.
const exchangeName = "citas.events"

// Handler receives one bus message.
type Handler func(message string)

// Subscription identifies an active bus consumer so it can be cancelled.
type Subscription struct {
	tag string
}

// Bridge is a thin publish/subscribe wrapper around one broker
// connection, established at application start and closed at teardown.
// A nil Bridge is valid and inert: when the broker is unreachable the
// console runs in degraded mode without live updates, and every method
// quietly does nothing.
type Bridge struct {
	conn *amqp.Connection

	mu sync.Mutex
	ch *amqp.Channel
}

// Connect dials the broker and declares the fanout exchange. Callers log
// the error and continue with a nil bridge when the connection fails;
// notification loss must never take the console down.
func Connect(url string) (*Bridge, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	// Non-durable, auto-delete: advisory messages have no life beyond the
	// sessions currently listening.
	if err := ch.ExchangeDeclare(exchangeName, "fanout", false, true, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Bridge{conn: conn, ch: ch}, nil
}

// Publish broadcasts one event string to every connected session.
func (b *Bridge) Publish(ctx context.Context, message string) error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ch.PublishWithContext(ctx,
		exchangeName,
		"",    // fanout ignores the routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "text/plain",
			Timestamp:   time.Now().UTC(),
			Body:        []byte(message),
		},
	)
}

// Subscribe binds a fresh server-named queue to the exchange and feeds
// every delivery to the handler on a background goroutine.
func (b *Bridge) Subscribe(handler Handler) (*Subscription, error) {
	if b == nil {
		return nil, nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	q, err := b.ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return nil, err
	}
	if err := b.ch.QueueBind(q.Name, "", exchangeName, false, nil); err != nil {
		return nil, err
	}
	// Auto-ack: a dropped advisory message is acceptable by contract.
	msgs, err := b.ch.Consume(q.Name, q.Name, true, true, false, false, nil)
	if err != nil {
		return nil, err
	}

	go func() {
		for d := range msgs {
			handler(string(d.Body))
		}
		log.Printf("notify: subscription %s closed", q.Name)
	}()
	return &Subscription{tag: q.Name}, nil
}

// Unsubscribe cancels a consumer registered with Subscribe.
func (b *Bridge) Unsubscribe(sub *Subscription) error {
	if b == nil || sub == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ch.Cancel(sub.tag, false)
}

// Close tears the connection down at application shutdown.
func (b *Bridge) Close() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_ = b.ch.Close()
	return b.conn.Close()
}
