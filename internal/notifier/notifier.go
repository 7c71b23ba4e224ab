package notifier

import (
	"context"
	"encoding/json"
	"log"

	"farmfeed-api/pkg/rabbitmq"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Notification template types.
const (
	TemplateOfferReceived = "offer_received"
	TemplateOfferRejected = "offer_rejected"
	TemplateCounterOffer  = "counter_offer"
	TemplateDealCreated   = "deal_created"
	TemplateQuoteReceived = "quote_received"
	TemplateQuoteAccepted = "quote_accepted"
)

// Notifier dispatches best-effort notifications. Send failures must never
// block the state transition that triggered them; callers log and move on.
type Notifier interface {
	Send(ctx context.Context, template string, vars map[string]string) error
}

type message struct {
	Template string            `json:"template"`
	Vars     map[string]string `json:"vars"`
}

// AMQPNotifier publishes notification messages to a RabbitMQ exchange; a
// downstream consumer renders and delivers the actual emails.
type AMQPNotifier struct {
	publisher *rabbitmq.Publisher
}

func NewAMQPNotifier(p *rabbitmq.Publisher) *AMQPNotifier {
	return &AMQPNotifier{publisher: p}
}

func (n *AMQPNotifier) Send(ctx context.Context, template string, vars map[string]string) error {
	body, err := json.Marshal(message{Template: template, Vars: vars})
	if err != nil {
		return err
	}

	return n.publisher.Publish(ctx, template, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

// LogNotifier is the fallback when no broker is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Send(_ context.Context, template string, vars map[string]string) error {
	log.Printf("notification %s: %v", template, vars)

	return nil
}
