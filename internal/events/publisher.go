package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Sudarshan-812/tiffintales-sub000/internal/order"
	"github.com/Sudarshan-812/tiffintales-sub000/internal/sequence"
)

// Publisher fans order lifecycle events out over the events exchange.
// It implements order.Publisher.
type Publisher struct {
	ch  *amqp.Channel
	seq sequence.Repository
}

func NewPublisher(conn *amqp.Connection, seq sequence.Repository) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	// Declare the exchange so publish never fails due to missing infra.
	if err := declareEventsExchange(ch); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Publisher{ch: ch, seq: seq}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) PublishOrderPlaced(ctx context.Context, o *order.Order) error {
	seq, err := p.seq.NextSequence(ctx, o.ID)
	if err != nil {
		return fmt.Errorf("sequence for %s: %w", o.ID, err)
	}

	body, err := json.Marshal(BuildOrderPlacedEnvelope(o, seq))
	if err != nil {
		return fmt.Errorf("marshal OrderPlaced: %w", err)
	}

	return p.publishJSON(ctx, OrderPlacedRoutingKey, body)
}

func (p *Publisher) PublishStatusChanged(ctx context.Context, o *order.Order) error {
	seq, err := p.seq.NextSequence(ctx, o.ID)
	if err != nil {
		return fmt.Errorf("sequence for %s: %w", o.ID, err)
	}

	body, err := json.Marshal(BuildStatusChangedEnvelope(o, seq))
	if err != nil {
		return fmt.Errorf("marshal OrderStatusChanged: %w", err)
	}

	return p.publishJSON(ctx, statusRoutingKey(o.BuyerID), body)
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
