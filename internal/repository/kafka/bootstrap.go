package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// BootstrapProducer makes sure the topic exists before returning a producer
// for it. A broker that is not reachable yet is logged, not fatal.
func BootstrapProducer(ctx context.Context, cfg ProducerConfig, logger *zap.Logger) *Producer {
	err := EnsureTopic(ctx, cfg.Brokers, TopicSpec{
		Name:              cfg.Topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
		MaxWait:           5 * time.Second,
	}, logger)
	if err != nil {
		logger.Warn("topic bootstrap skipped", zap.String("topic", cfg.Topic), zap.Error(err))
	}

	return NewProducer(cfg.Brokers, cfg.Topic).WithLogger(logger)
}
