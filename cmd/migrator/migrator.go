package main

import (
	"context"
	"flag"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/NordCoder/Carelink/internal/obs"
	"github.com/NordCoder/Carelink/migrations"
)

func main() {
	command := flag.String("command", "up", "goose command: up, down, status, reset")
	flag.Parse()

	logger, err := obs.NewLogger(obs.LogConfig{Level: "info", App: "carelink/migrator", Env: os.Getenv("APP_ENV")})
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = os.Getenv("DB_DSN")
	}
	if dsn == "" {
		logger.Fatal("DATABASE_URL is empty")
	}

	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(zap.NewStdLog(logger))
	if err := goose.SetDialect("postgres"); err != nil {
		logger.Fatal("set dialect", zap.Error(err))
	}

	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		logger.Fatal("open db", zap.Error(err))
	}
	defer db.Close()

	if err := goose.RunContext(context.Background(), *command, db, "."); err != nil {
		logger.Fatal("migrate", zap.String("command", *command), zap.Error(err))
	}
	logger.Info("migrations done", zap.String("command", *command))
}
