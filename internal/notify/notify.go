// Package notify holds the observers hung off the event bus: simulated
// email/SMS senders, a log sink and a Kafka mirror for out-of-process
// consumers.
package notify

import (
	"context"
	"log"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/google/uuid"

	"github.com/ariefcatur/go-food-orders.git/internal/eventbus"
	kafkax "github.com/ariefcatur/go-food-orders.git/internal/kafka"
	"github.com/ariefcatur/go-food-orders.git/internal/orders"
)

// EmailObserver simulates email delivery; a real sender would slot in here.
type EmailObserver struct{}

func (EmailObserver) Handle(ctx context.Context, ev orders.Event) {
	log.Printf("[EMAIL] %s order=%s customer=%s", ev.Name, ev.OrderID, ev.CustomerID)
}

// SMSObserver simulates SMS delivery.
type SMSObserver struct{}

func (SMSObserver) Handle(ctx context.Context, ev orders.Event) {
	log.Printf("[SMS] %s order=%s customer=%s", ev.Name, ev.OrderID, ev.CustomerID)
}

// LogObserver writes every event to the process log.
type LogObserver struct{}

func (LogObserver) Handle(ctx context.Context, ev orders.Event) {
	log.Printf("[EVENT] %s order=%s customer=%s fields=%v", ev.Name, ev.OrderID, ev.CustomerID, ev.Fields)
}

// StreamObserver mirrors bus events onto the order.events topic so the
// notifier binary can fan them out without holding up the request path.
type StreamObserver struct {
	Producer    *kafkax.Producer
	ServiceName string
}

func (s *StreamObserver) Handle(ctx context.Context, ev orders.Event) {
	env := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     ev.Name,
		EventVersion:  1,
		OccurredAt:    ev.Timestamp,
		Producer:      s.ServiceName,
		CorrelationID: ev.OrderID,
		Payload: kafkax.MustMarshal(orders.StreamPayload{
			OrderID:    ev.OrderID,
			CustomerID: ev.CustomerID,
			Fields:     ev.Fields,
		}),
	}
	s.Producer.Publish(orders.PartitionKey(ev.OrderID), kafkax.MustMarshal(env),
		kafkago.Header{Key: "x-event-type", Value: []byte(ev.Name)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

var allEvents = []string{
	orders.EventOrderCreated,
	orders.EventOrderStatusChanged,
	orders.EventOrderCancelled,
	orders.EventOrderCompleted,
	orders.EventOrderUndone,
}

// Subscribe wires the default observer set: email on created/statusChanged/
// cancelled, SMS on the delivery-relevant ones, log on everything, and the
// Kafka mirror (when given) on everything.
func Subscribe(bus *eventbus.Bus, stream *StreamObserver) {
	email := EmailObserver{}
	sms := SMSObserver{}

	bus.Subscribe(orders.EventOrderCreated, email)
	bus.Subscribe(orders.EventOrderStatusChanged, email)
	bus.Subscribe(orders.EventOrderCancelled, email)

	bus.Subscribe(orders.EventOrderStatusChanged, sms)
	bus.Subscribe(orders.EventOrderCompleted, sms)

	for _, name := range allEvents {
		bus.Subscribe(name, LogObserver{})
		if stream != nil {
			bus.Subscribe(name, stream)
		}
	}
}

// Dispatch routes a consumed envelope to the simulated senders; the notifier
// binary runs this off-process.
func Dispatch(ctx context.Context, env orders.Envelope) error {
	p, err := kafkax.UnwrapPayload[orders.StreamPayload](env.Payload)
	if err != nil {
		return err
	}
	ev := orders.Event{
		Name:       env.EventType,
		OrderID:    p.OrderID,
		CustomerID: p.CustomerID,
		Timestamp:  env.OccurredAt,
		Fields:     p.Fields,
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	switch ev.Name {
	case orders.EventOrderCreated, orders.EventOrderCancelled:
		EmailObserver{}.Handle(ctx, ev)
	case orders.EventOrderStatusChanged:
		EmailObserver{}.Handle(ctx, ev)
		SMSObserver{}.Handle(ctx, ev)
	case orders.EventOrderCompleted:
		SMSObserver{}.Handle(ctx, ev)
	}
	LogObserver{}.Handle(ctx, ev)
	return nil
}
