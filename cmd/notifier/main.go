package main

import (
	"context"
	"encoding/json"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-food-orders.git/internal/config"
	kafkax "github.com/ariefcatur/go-food-orders.git/internal/kafka"
	"github.com/ariefcatur/go-food-orders.git/internal/notify"
	"github.com/ariefcatur/go-food-orders.git/internal/orders"
	"github.com/ariefcatur/go-food-orders.git/internal/redisx"
)

// The notifier consumes the order.events mirror and runs the email/SMS
// senders off the request path. Events are deduplicated by event id so
// redeliveries do not re-notify.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()
	cache := redisx.NewCache(rdb)

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.NotifierGroup, orders.TopicOrderEvents, cfg.NotifierWorkers)

	handle := func(ctx context.Context, m kafkago.Message) error {
		var env orders.Envelope
		if err := json.Unmarshal(m.Value, &env); err != nil {
			return err
		}
		if cache.SeenEvent(ctx, "notifier", env.EventID) {
			return nil
		}
		return notify.Dispatch(ctx, env)
	}

	log.Printf("notifier started: group=%s topic=%s workers=%d",
		cfg.NotifierGroup, orders.TopicOrderEvents, cfg.NotifierWorkers)
	if err := cons.Start(ctx, handle); err != nil {
		log.Printf("consumer exit: %v", err)
	}
	log.Println("shutting down notifier...")
}
