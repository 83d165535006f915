// Command sweep runs one payment settlement pass and exits. It is meant for
// an external scheduler when the API runs without its in-process cron.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"p2p-lending/internal/adapter/repository/gormrepo"
	"p2p-lending/internal/config"
	"p2p-lending/internal/infrastructure/broker"
	"p2p-lending/internal/infrastructure/db"
	"p2p-lending/internal/infrastructure/logging"
	"p2p-lending/internal/infrastructure/metrics"
	"p2p-lending/internal/usecase/settlement"
)

func main() {
	cfg := config.Load()
	log := logging.Setup(logging.Options{Service: "p2p-lending-sweep", Level: cfg.LogLevel, File: cfg.LogFile})
	if err := run(cfg, log); err != nil {
		log.Error("sweep failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return err
	}
	pub, closePub := broker.Connect(cfg.AMQPURL, cfg.EventsExchange, log)
	defer closePub()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	uc := settlement.NewUsecase(gormrepo.NewGormUoW(gdb), pub, metrics.Ledger(), log)
	res, err := uc.SettleDue(ctx)
	if err != nil {
		return err
	}
	return json.NewEncoder(os.Stdout).Encode(res)
}
