package main

import (
	"context"

	"go.uber.org/zap"

	config "github.com/NordCoder/Carelink/internal/config/api-gateway"
	"github.com/NordCoder/Carelink/internal/obs"
)

func initOTel(ctx context.Context, cfg *config.Config, logger *zap.Logger) (func(context.Context) error, error) {
	o, err := obs.SetupOTel(ctx, cfg.OTEL.AsOTELConfig(cfg.App))
	if err != nil {
		return nil, err
	}
	if cfg.OTEL.Enable {
		logger.Info("otel enabled", zap.String("endpoint", cfg.OTEL.OTLPEndpoint))
	}
	return o.Shutdown, nil
}
