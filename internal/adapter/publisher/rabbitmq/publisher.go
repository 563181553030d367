// Package rabbitmq publishes booking lifecycle events. Each event type has its
// own durable queue on the default exchange, named after the type.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/srgjo27/seatlock/internal/core/domain"
)

const (
	DefaultBufferSize  = 256
	DefaultSendTimeout = 5 * time.Second
)

var (
	ErrBufferFull = errors.New("rabbitmq: event buffer full")
	ErrClosed     = errors.New("rabbitmq: publisher closed")
)

// Channel is the subset of *amqp.Channel the publisher uses.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Dialer opens a channel and returns a func that closes everything it opened.
// It must give up once ctx is done.
type Dialer func(ctx context.Context) (Channel, func() error, error)

// DialURL dials a broker at url. The TCP connect and the AMQP handshake are
// bounded by ctx's deadline.
func DialURL(url string) Dialer {
	return func(ctx context.Context) (Channel, func() error, error) {
		timeout := DefaultSendTimeout
		if deadline, ok := ctx.Deadline(); ok {
			timeout = time.Until(deadline)
		}
		if err := ctx.Err(); err != nil || timeout <= 0 {
			return nil, nil, fmt.Errorf("dial: %w", context.DeadlineExceeded)
		}

		conn, err := amqp.DialConfig(url, amqp.Config{
			Heartbeat: 10 * time.Second,
			Locale:    "en_US",
			Dial:      amqp.DefaultDial(timeout),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("dial: %w", err)
		}

		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("channel open: %w", err)
		}

		return ch, conn.Close, nil
	}
}

type Config struct {
	BufferSize  int
	SendTimeout time.Duration
}

// Publisher queues events in memory and sends them from one background
// goroutine, so Publish never waits on the broker. Events that do not fit in
// the buffer, or that fail to send, are dropped and logged.
type Publisher struct {
	dial        Dialer
	sendTimeout time.Duration

	mu     sync.Mutex
	closed bool
	events chan domain.BookingEvent
	done   chan struct{}

	// owned by the run goroutine
	ch       Channel
	closeFn  func() error
	declared map[string]bool
}

func NewPublisher(dial Dialer, cfg Config) *Publisher {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = DefaultSendTimeout
	}

	p := &Publisher{
		dial:        dial,
		sendTimeout: cfg.SendTimeout,
		events:      make(chan domain.BookingEvent, cfg.BufferSize),
		done:        make(chan struct{}),
		declared:    make(map[string]bool),
	}
	go p.run()

	return p
}

// Publish enqueues event without blocking.
func (p *Publisher) Publish(_ context.Context, event domain.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	select {
	case p.events <- event:
		return nil
	default:
		return fmt.Errorf("%w: dropping %s for booking %s", ErrBufferFull, event.Type, event.BookingID)
	}
}

// Close stops accepting events, sends what is already queued, and closes the
// broker connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.events)
	}
	p.mu.Unlock()

	<-p.done
	return nil
}

func (p *Publisher) run() {
	defer close(p.done)
	defer p.reset()

	for event := range p.events {
		if err := p.send(event); err != nil {
			log.Printf("rabbitmq: dropped %s for booking %s: %v", event.Type, event.BookingID, err)
		}
	}
}

// send delivers one event. A failure drops the channel so the next event
// redials.
func (p *Publisher) send(event domain.BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.sendTimeout)
	defer cancel()

	ch, err := p.channel(ctx)
	if err != nil {
		return err
	}

	queue := string(event.Type)
	if !p.declared[queue] {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			p.reset()
			return fmt.Errorf("queue declare %s: %w", queue, err)
		}
		p.declared[queue] = true
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.BookingID.String(),
		Type:         queue,
		Timestamp:    event.OccurredAt.UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		p.reset()
		return fmt.Errorf("publish %s: %w", queue, err)
	}

	return nil
}

func (p *Publisher) channel(ctx context.Context) (Channel, error) {
	if p.ch != nil {
		return p.ch, nil
	}

	ch, closeFn, err := p.dial(ctx)
	if err != nil {
		return nil, err
	}

	p.ch, p.closeFn = ch, closeFn
	p.declared = make(map[string]bool)
	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch == nil {
		return
	}
	if err := errors.Join(p.ch.Close(), p.closeFn()); err != nil {
		log.Printf("rabbitmq: close channel: %v", err)
	}
	p.ch, p.closeFn = nil, nil
}

// Noop discards events; used when RABBITMQ_URL is unset.
type Noop struct{}

func (Noop) Publish(context.Context, domain.BookingEvent) error { return nil }
