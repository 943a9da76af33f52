package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/fastprodman/walletsvc/internal/events"
)

var _ events.Publisher = (*Publisher)(nil)

// Publisher sends events as persistent JSON messages to a topic exchange.
type Publisher struct {
	mu       sync.Mutex
	channel  *amqp.Channel
	exchange string
	log      zerolog.Logger
}

// Dial connects, opens a channel and declares the exchange. The returned
// close func closes the channel and then the connection.
func Dial(url, exchange string, log zerolog.Logger) (*Publisher, func() error, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}

	p, err := NewPublisher(ch, exchange, log)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()

		return nil, nil, err
	}

	closeFn := func() error {
		chErr := ch.Close()

		connErr := conn.Close()
		if connErr != nil {
			return fmt.Errorf("close connection: %w", connErr)
		}

		if chErr != nil {
			return fmt.Errorf("close channel: %w", chErr)
		}

		return nil
	}

	return p, closeFn, nil
}

func NewPublisher(ch *amqp.Channel, exchange string, log zerolog.Logger) (*Publisher, error) {
	err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}

	return &Publisher{channel: ch, exchange: exchange, log: log}, nil
}

func (p *Publisher) Publish(ctx context.Context, msg events.Message) error {
	publishing, err := toPublishing(msg)
	if err != nil {
		return err
	}

	// amqp channels are not safe for concurrent publishing.
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, p.exchange, msg.RoutingKey, false, false, publishing)
	if err != nil {
		return fmt.Errorf("publish %s: %w", msg.RoutingKey, err)
	}

	p.log.Debug().Str("routingKey", msg.RoutingKey).Str("messageId", msg.ID).Msg("event published")

	return nil
}

func toPublishing(msg events.Message) (amqp.Publishing, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		MessageId:    msg.ID,
		Timestamp:    msg.OccurredAt,
		Type:         msg.RoutingKey,
		DeliveryMode: amqp.Persistent,
		Body:         body,
	}, nil
}
