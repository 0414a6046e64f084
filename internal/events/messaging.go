package events

import (
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange         = "tiffintales.events"
	OrderPlacedRoutingKey  = "order.placed.v1"
	orderStatusRoutingBase = "order.status.v1."
	producerName           = "order-service"
)

// statusRoutingKey scopes status updates to one buyer so a feed subscription
// only ever sees its own orders.
func statusRoutingKey(buyerID string) string {
	return orderStatusRoutingBase + buyerID
}

func declareEventsExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	)
}

// MustDial connects to RabbitMQ or exits. Used from main only.
func MustDial(url string) *amqp.Connection {
	conn, err := amqp.Dial(url)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	return conn
}
