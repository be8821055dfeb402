package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/NordCoder/Carelink/internal/auth"
	config "github.com/NordCoder/Carelink/internal/config/api-gateway"
	"github.com/NordCoder/Carelink/internal/domain/outbox"
	pg "github.com/NordCoder/Carelink/internal/repository/postgres"
	authsvc "github.com/NordCoder/Carelink/internal/services/api-gateway/auth"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to the yaml config")
	flag.Parse()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	logger, err := initLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting api-gateway", zap.String("env", cfg.App.Env), zap.String("ver", cfg.App.Version))
	if cfg.Auth.InsecureSecret() {
		logger.Warn("SECRET_KEY is the insecure default; set it before deploying")
	}

	otelShutdown, err := initOTel(rootCtx, cfg, logger)
	if err != nil {
		logger.Fatal("otel init", zap.Error(err))
	}
	defer func() { _ = otelShutdown(context.Background()) }()

	db, err := initDB(rootCtx, cfg, logger)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	svcs, err := buildServices(cfg, logger, db)
	if err != nil {
		logger.Fatal("build services", zap.Error(err))
	}

	httpSrv := buildHTTPServer(cfg, buildRouter(cfg, logger, svcs))
	httpErrCh := make(chan error, 1)
	go func() { httpErrCh <- serveHTTP(httpSrv, logger) }()

	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal", zap.String("reason", "context canceled"))
	case err := <-httpErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", zap.Error(err))
		}
	}

	shCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	logger.Info("bye")
}

func buildServices(cfg *config.Config, logger *zap.Logger, db *pg.DB) (services, error) {
	params := auth.DefaultPasswordParams()
	if cfg.Auth.ArgonMemoryKiB > 0 {
		params.Memory = cfg.Auth.ArgonMemoryKiB
	}
	if cfg.Auth.ArgonTime > 0 {
		params.Time = cfg.Auth.ArgonTime
	}
	if cfg.Auth.ArgonParallelism > 0 {
		params.Parallelism = cfg.Auth.ArgonParallelism
	}
	hasher, err := auth.NewArgon2Hasher(params)
	if err != nil {
		return services{}, err
	}
	codec, err := auth.NewTokenCodec([]byte(cfg.Auth.SecretKey), cfg.Auth.AccessTTL())
	if err != nil {
		return services{}, err
	}

	userRepo := pg.NewUserRepo(db)
	tx := pg.NewTransactor(db, logger)
	store := authsvc.NewRefreshStore(pg.NewRefreshTokenRepo(db), cfg.Auth.RefreshTTL(), nil)

	var ob outbox.Repository
	if cfg.Outbox.Enable {
		ob = pg.NewOutboxRepo(db)
	}

	return services{
		Users:     userRepo,
		Profiles:  pg.NewProfileRepo(db),
		Families:  pg.NewFamilyRepo(db),
		Hospitals: pg.NewHospitalRepo(db),
		Outbox:    ob,
		AuthUC:    authsvc.NewUseCase(userRepo, store, tx, hasher, codec, logger),
		Authn:     authsvc.NewAuthenticator(codec, userRepo),
		Tx:        tx,
		Health:    db.Ping,
	}, nil
}
