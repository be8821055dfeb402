package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	config "github.com/NordCoder/Carelink/internal/config/outbox-relay"
	"github.com/NordCoder/Carelink/internal/obs"
	"github.com/NordCoder/Carelink/internal/obs/retry"
	outboxrunner "github.com/NordCoder/Carelink/internal/outbox"
	kafkaRepo "github.com/NordCoder/Carelink/internal/repository/kafka"
	pg "github.com/NordCoder/Carelink/internal/repository/postgres"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to the yaml config")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	// logger
	l, err := obs.NewLogger(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()
	l.Info("starting outbox-relay",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic),
		zap.String("metrics_addr", cfg.MetricsAddr),
	)

	// otel
	otelCloser, err := obs.SetupOTel(ctx, &cfg.OTEL)
	if err != nil {
		l.Fatal("otel init", zap.Error(err))
	}
	defer func() { _ = otelCloser.Shutdown(context.Background()) }()

	// db
	db, err := pg.New(ctx, cfg.DB)
	if err != nil {
		l.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	// kafka
	producer := kafkaRepo.BootstrapProducer(ctx, cfg.Kafka, l)
	defer func() { _ = producer.Close() }()
	autoCalls := kafkaRepo.NewAutoCallEventsKafka(producer)

	ms := obs.BootstrapMetricsServer(cfg.MetricsAddr, db.Ping, l)

	// wiring
	runner := outboxrunner.NewOutboxRunner(
		l,
		pg.NewOutboxRepo(db),
		outboxrunner.MakeGlobalOutboxHandler(autoCalls, retry.PublishPolicy("kafka_autocall", l)),
		cfg.Runner,
		prometheus.DefaultRegisterer,
	)

	l.Info("outbox-relay started")
	runner.Run(ctx)

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = ms.Shutdown(shCtx)
	l.Info("outbox-relay stopped")
}
