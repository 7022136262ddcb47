package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fletes/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

type AMQPConfig struct {
	URL      string
	Exchange string
	Queue    string
	Prefetch int
}

type AMQPClient struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	config  AMQPConfig
	log     *logger.Logger
}

func NewAMQPClient(config AMQPConfig, log *logger.Logger) (*AMQPClient, error) {
	conn, err := amqp.Dial(config.URL)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &AMQPClient{
		conn:    conn,
		channel: channel,
		config:  config,
		log:     log,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *AMQPClient) setup() error {
	err := c.channel.ExchangeDeclare(
		c.config.Exchange, // name
		"topic",           // type
		true,              // durable
		false,             // auto-deleted
		false,             // internal
		false,             // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.config.Queue, // name
		true,           // durable
		false,          // delete when unused
		false,          // exclusive
		false,          // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	for _, key := range []string{"cotizacion.*", "viaje.*"} {
		if err := c.channel.QueueBind(c.config.Queue, key, c.config.Exchange, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", key, err)
		}
	}

	if c.config.Prefetch > 0 {
		if err := c.channel.Qos(c.config.Prefetch, 0, false); err != nil {
			return fmt.Errorf("set qos: %w", err)
		}
	}

	return nil
}

// Publish sends the event with its type as routing key.
func (c *AMQPClient) Publish(ctx context.Context, event Event) error {
	body, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.config.Exchange,
		event.Type,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID,
			Timestamp:    event.OccurredAt,
			Type:         event.Type,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	c.log.WithFields(map[string]interface{}{
		"event_id":   event.ID,
		"event_type": event.Type,
		"exchange":   c.config.Exchange,
	}).Debug("Published event")

	return nil
}

// Consume delivers events to handler until ctx is cancelled or the channel
// closes. Undecodable messages are dropped; failed ones are requeued once.
func (c *AMQPClient) Consume(ctx context.Context, handler Handler) error {
	deliveries, err := c.channel.Consume(
		c.config.Queue,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	c.log.WithField("queue", c.config.Queue).Info("Started consuming events")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			c.handleDelivery(ctx, delivery, handler)
		}
	}
}

func (c *AMQPClient) handleDelivery(ctx context.Context, delivery amqp.Delivery, handler Handler) {
	event, err := FromJSON(delivery.Body)
	if err != nil {
		c.log.WithError(err).Error("Failed to decode event")
		_ = delivery.Nack(false, false)
		return
	}

	log := c.log.WithFields(map[string]interface{}{
		"event_id":   event.ID,
		"event_type": event.Type,
	})

	if err := handler(ctx, event); err != nil {
		requeue := !delivery.Redelivered
		log.WithError(err).WithField("requeue", requeue).Error("Failed to handle event")
		_ = delivery.Nack(false, requeue)
		return
	}

	_ = delivery.Ack(false)
	log.Debug("Handled event")
}

func (c *AMQPClient) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// ConsumeWithRetry reconnects with exponential backoff when the broker
// connection drops.
func ConsumeWithRetry(ctx context.Context, config AMQPConfig, handler Handler, log *logger.Logger) error {
	for attempt := 0; ; attempt++ {
		client, err := NewAMQPClient(config, log)
		if err == nil {
			attempt = 0
			err = client.Consume(ctx, handler)
			client.Close()
		}
		if ctx.Err() != nil {
			return nil
		}
		if err != nil && !isConnectionError(err) {
			return err
		}

		wait := exponentialBackoff(attempt)
		log.WithError(err).WithField("retry_in", wait.String()).Warn("AMQP connection lost, reconnecting")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
	}
}

func exponentialBackoff(attempt int) time.Duration {
	if attempt > 5 {
		return 30 * time.Second
	}
	d := time.Second << uint(attempt)
	if d > 30*time.Second {
		d = 30 * time.Second
	}
	return d
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"dial amqp", "connection", "eof", "broken pipe", "channel closed", "delivery channel closed"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
