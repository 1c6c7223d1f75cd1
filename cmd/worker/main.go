package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/detailops/booking-api/internal/event"
	"github.com/detailops/booking-api/pkg/logger"
	"github.com/detailops/booking-api/pkg/messaging"
	redisBroker "github.com/detailops/booking-api/pkg/messaging/redis"
)

var (
	notificationsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "worker_notifications_processed_total",
		Help: "The total number of processed appointment notifications",
	}, []string{"type"})
	notificationsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "worker_notifications_failed_total",
		Help: "The total number of notifications that could not be decoded",
	})
)

// Config is read from the environment; the worker has no config file.
type Config struct {
	RedisURL   string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	HealthPort string `envconfig:"HEALTH_PORT" default:"8081"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
}

func main() {
	var cfg Config
	if err := envconfig.Process("worker", &cfg); err != nil {
		os.Exit(1)
	}

	log := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.LogLevel),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	}).WithComponent("worker")

	broker, err := redisBroker.NewRedisBroker(redisBroker.Config{
		URL:          cfg.RedisURL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 2,
	}, log.Zerolog())
	if err != nil {
		log.Fatal(err, "failed to connect to broker")
	}
	defer broker.Close()

	setupHealthCheck(cfg.HealthPort, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutting down")
		cancel()
	}()

	run(ctx, broker, log)
}

// run consumes appointment notifications until the context is cancelled.
// This is where side channels beyond email would hang off: SMS, calendar
// sync, a dashboard websocket push.
func run(ctx context.Context, broker messaging.Broker, log *logger.Logger) {
	msgs, err := broker.Subscribe(ctx, event.ChannelAppointments)
	if err != nil {
		log.Fatal(err, "failed to subscribe")
	}
	log.Info("worker started", "channel", event.ChannelAppointments)

	for {
		select {
		case <-ctx.Done():
			log.Info("worker stopped")
			return
		case raw, ok := <-msgs:
			if !ok {
				log.Info("subscription closed")
				return
			}
			handle(raw, log)
		}
	}
}

func handle(raw []byte, log *logger.Logger) {
	var msg struct {
		Type    string             `json:"type"`
		Payload event.Notification `json:"payload"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		notificationsFailed.Inc()
		log.Error(err, "failed to decode notification")
		return
	}

	notificationsProcessed.WithLabelValues(msg.Type).Inc()
	log.Info("notification processed",
		"type", msg.Type,
		"appointment_id", msg.Payload.AppointmentID,
		"business_id", msg.Payload.BusinessID,
	)
}

func setupHealthCheck(port string, log *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(":"+port, mux); err != nil {
			log.Fatal(err, "health check server failed")
		}
	}()
}
