package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/phambaophuc/multiscale/internal/models"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

const defaultBuffer = 256

type publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPSink publishes usage events to a RabbitMQ queue from a background
// goroutine. Emit never blocks: when the buffer is full the event is dropped.
type AMQPSink struct {
	conn      *amqp.Connection
	channel   publisher
	logger    *zap.Logger
	queueName string

	mu     sync.RWMutex
	closed bool
	events chan models.Event
	done   chan struct{}
}

func NewAMQPSink(rabbitmqURL, queueName string, logger *zap.Logger) (*AMQPSink, error) {
	conn, err := amqp.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	s := newAMQPSink(channel, queueName, defaultBuffer, logger)
	s.conn = conn
	return s, nil
}

func newAMQPSink(channel publisher, queueName string, buffer int, logger *zap.Logger) *AMQPSink {
	s := &AMQPSink{
		channel:   channel,
		logger:    logger,
		queueName: queueName,
		events:    make(chan models.Event, buffer),
		done:      make(chan struct{}),
	}
	go s.run()
	return s
}

// Emit queues event for publishing. Events emitted after Close are dropped.
func (s *AMQPSink) Emit(_ context.Context, event models.Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		s.logger.Debug("Telemetry sink closed, dropping event", zap.String("action", event.Action))
		return
	}

	select {
	case s.events <- event:
	default:
		s.logger.Warn("Telemetry buffer full, dropping event", zap.String("action", event.Action))
	}
}

func (s *AMQPSink) run() {
	defer close(s.done)
	for event := range s.events {
		if err := s.publish(event); err != nil {
			s.logger.Warn("Failed to publish usage event",
				zap.String("action", event.Action),
				zap.Error(err))
		}
	}
}

func (s *AMQPSink) publish(event models.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = s.channel.Publish(
		"",          // exchange
		s.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close drains buffered events and closes the connection.
func (s *AMQPSink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.events)
	s.mu.Unlock()

	<-s.done
	if s.conn != nil {
		s.conn.Close()
	}
	return nil
}

func (s *AMQPSink) HealthCheck() string {
	if s.conn == nil || s.conn.IsClosed() {
		return "unhealthy: connection closed"
	}
	return models.HealthHealthy
}
