package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/ariefcatur/go-food-orders.git/internal/config"
	"github.com/ariefcatur/go-food-orders.git/internal/eventbus"
	"github.com/ariefcatur/go-food-orders.git/internal/facade"
	"github.com/ariefcatur/go-food-orders.git/internal/httpx"
	"github.com/ariefcatur/go-food-orders.git/internal/inventory"
	kafkax "github.com/ariefcatur/go-food-orders.git/internal/kafka"
	"github.com/ariefcatur/go-food-orders.git/internal/metrics"
	"github.com/ariefcatur/go-food-orders.git/internal/notify"
	"github.com/ariefcatur/go-food-orders.git/internal/orders"
	"github.com/ariefcatur/go-food-orders.git/internal/postgres"
	"github.com/ariefcatur/go-food-orders.git/internal/redisx"
	"github.com/ariefcatur/go-food-orders.git/internal/service"
	pgstore "github.com/ariefcatur/go-food-orders.git/internal/store/postgres"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer for the event mirror
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderEvents, 1024)
	prod.Start(ctx)

	// Core wiring
	st := pgstore.New(db)
	inv := inventory.NewService(st)
	ordersvc := service.NewOrderService(st, inv)
	cartsvc := service.NewCartService(st, st)

	bus := eventbus.New()
	notify.Subscribe(bus, &notify.StreamObserver{Producer: prod, ServiceName: cfg.ServiceName})

	fac := facade.New(ordersvc, cartsvc, bus).
		WithCache(redisx.NewCache(rdb)).
		WithMetrics(metrics.New("api"))

	router := httpx.NewRouter()
	h := &httpx.Handler{Facade: fac, Carts: cartsvc}
	h.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("shutting down...")
	stop() // stops the producer loop, which flushes and exits
	prod.WaitClosed()
}
