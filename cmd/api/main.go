package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/detailops/booking-api/internal/config"
	"github.com/detailops/booking-api/internal/conversation"
	"github.com/detailops/booking-api/internal/email"
	"github.com/detailops/booking-api/internal/event"
	bookingHandler "github.com/detailops/booking-api/internal/handler/booking"
	catalogHandler "github.com/detailops/booking-api/internal/handler/catalog"
	chatHandler "github.com/detailops/booking-api/internal/handler/chat"
	"github.com/detailops/booking-api/internal/handler/health"
	"github.com/detailops/booking-api/internal/ledger"
	"github.com/detailops/booking-api/internal/middleware"
	"github.com/detailops/booking-api/internal/repository"
	"github.com/detailops/booking-api/internal/repository/catalog"
	"github.com/detailops/booking-api/internal/repository/kv"
	"github.com/detailops/booking-api/internal/router"
	"github.com/detailops/booking-api/internal/scheduling"
	bookingService "github.com/detailops/booking-api/internal/service/booking"
	chatService "github.com/detailops/booking-api/internal/service/chat"
	"github.com/detailops/booking-api/pkg/logger"
	"github.com/detailops/booking-api/pkg/messaging"
	redisBroker "github.com/detailops/booking-api/pkg/messaging/redis"
	"github.com/detailops/booking-api/pkg/metrics"
	"github.com/detailops/booking-api/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	m := metrics.NewMetrics("booking")

	store, err := newStore(cfg.Store)
	if err != nil {
		log.Fatal(err, "failed to initialize ledger store")
	}

	broker, err := newBroker(cfg.Broker, log)
	if err != nil {
		log.Fatal(err, "failed to initialize message broker")
	}
	defer broker.Close()

	emitter := event.NewEmitter(broker, log)

	ldg, err := ledger.NewLedger(context.Background(), store, emitter, log)
	if err != nil {
		log.Fatal(err, "failed to load booking ledger")
	}

	catalogProvider := catalog.NewProvider(catalog.DefaultCatalog(cfg.Catalog.BusinessID))

	var mailer email.Sender = email.NoopSender{}
	if cfg.SMTP.Enabled {
		mailer = email.NewSMTPSender(email.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, log)
	}

	// Placeholder availability until the shop's real calendar feed exists:
	// roughly 80% of in-window slots read as open. Booked windows are
	// masked on top regardless.
	policy := scheduling.RandomPolicy(rand.New(rand.NewSource(time.Now().UnixNano())), 0.8)

	bookingSvc := bookingService.NewService(ldg, catalogProvider, validator.New(), mailer, policy, m, log)
	chatSvc := chatService.NewService(catalogProvider, conversation.NewPlanner(nil), m, log)

	healthH := health.NewHandler(map[string]health.Checker{
		"store": storeCheck(store),
	})

	r := router.NewRouter(log, healthH, router.Config{
		RateLimit:     rate.Limit(cfg.RateLimit.RPS),
		RateBurst:     cfg.RateLimit.Burst,
		CORSConfig:    middleware.DefaultCORSConfig(),
		MetricsPrefix: "booking_http",
	},
		bookingHandler.NewHandler(bookingSvc),
		chatHandler.NewHandler(chatSvc),
		catalogHandler.NewHandler(catalogProvider),
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err, "server forced to shutdown")
	}

	log.Info("server exited properly")
}

func newStore(cfg config.StoreConfig) (repository.KVStore, error) {
	switch cfg.Backend {
	case "redis":
		return kv.NewRedisStore(kv.RedisConfig{
			URL:    cfg.Redis.URL,
			Prefix: cfg.Redis.KeyPrefix,
		})
	case "postgres":
		return kv.NewPostgresStore(kv.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Name:     cfg.Postgres.Name,
			SSLMode:  cfg.Postgres.SSLMode,
		})
	default:
		return kv.NewMemoryStore(), nil
	}
}

func newBroker(cfg config.BrokerConfig, log *logger.Logger) (messaging.Broker, error) {
	if cfg.Backend == "redis" {
		return redisBroker.NewRedisBroker(redisBroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   3,
			RetryBackoff: 100 * time.Millisecond,
			PoolSize:     10,
			MinIdleConns: 2,
		}, log.Zerolog())
	}
	return messaging.NewMemoryBroker(), nil
}

// storeCheck probes the ledger store. A missing state document is fine;
// only transport failures mark the store unready.
func storeCheck(store repository.KVStore) health.Checker {
	return func(ctx context.Context) error {
		_, err := store.Load(ctx, "health/probe")
		if err == kv.ErrKeyNotFound {
			return nil
		}
		return err
	}
}
