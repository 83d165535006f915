package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "p2p-lending/internal/adapter/http"
	"p2p-lending/internal/adapter/repository/gormrepo"
	"p2p-lending/internal/config"
	"p2p-lending/internal/infrastructure/auth"
	"p2p-lending/internal/infrastructure/broker"
	"p2p-lending/internal/infrastructure/cache"
	"p2p-lending/internal/infrastructure/db"
	"p2p-lending/internal/infrastructure/logging"
	"p2p-lending/internal/infrastructure/metrics"
	"p2p-lending/internal/infrastructure/scheduler"
	"p2p-lending/internal/usecase/funding"
	"p2p-lending/internal/usecase/loanrequest"
	"p2p-lending/internal/usecase/offer"
	"p2p-lending/internal/usecase/settlement"
	"p2p-lending/internal/usecase/user"
	"p2p-lending/internal/usecase/wallet"
)

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "err", err)
	os.Exit(1)
}

func main() {
	cfg := config.Load()
	log := logging.Setup(logging.Options{Service: "p2p-lending-api", Level: cfg.LogLevel, File: cfg.LogFile})
	if err := cfg.Validate(); err != nil {
		fatal(log, "invalid config", err)
	}

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN())
	if err != nil {
		fatal(log, "open database", err)
	}
	if err := db.Migrate(gdb); err != nil {
		fatal(log, "migrate", err)
	}
	rdb, err := cache.OpenRedis(cache.RedisOptions{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		fatal(log, "open redis", err)
	}
	defer rdb.Close()

	pub, closePub := broker.Connect(cfg.AMQPURL, cfg.EventsExchange, log)
	defer closePub()

	m := metrics.Ledger()
	tx := gormrepo.NewGormUoW(gdb)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL())
	active := cache.NewActiveRequests(rdb, cfg.ActiveRequestsTTL())

	orch := funding.NewOrchestrator(tx, active, pub, m, log)
	settle := settlement.NewUsecase(tx, pub, m, log)

	sweep, err := scheduler.New(cfg.SweepSchedule, settle, 10*time.Minute, log)
	if err != nil {
		fatal(log, "scheduler", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		fatal(log, "sql handle", err)
	}
	health := httpadp.NewHandler(
		httpadp.Check{Name: "db", Probe: sqlDB.PingContext},
		httpadp.Check{Name: "redis", Probe: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
	)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	httpadp.Register(e, httpadp.Routes{
		Health:         health,
		Users:          httpadp.NewUserHandler(user.NewUsecase(tx, tokens, cfg.Currency)),
		Wallets:        httpadp.NewWalletHandler(wallet.NewUsecase(tx, pub, m, log)),
		LoanRequests:   httpadp.NewLoanRequestHandler(loanrequest.NewUsecase(tx, active, log)),
		Offers:         httpadp.NewOfferHandler(offer.NewUsecase(tx, orch, cfg.ProcessingFee, m, log)),
		Payments:       httpadp.NewPaymentHandler(settle),
		Tokens:         tokens,
		Idempotency:    rdb,
		IdempotencyTTL: cfg.IdempotencyTTL(),
		Log:            log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweep.Start()
	go func() {
		addr := ":" + cfg.AppPort
		log.Info("listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(log, "http server", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", "err", err)
	}
	select {
	case <-sweep.Stop().Done():
	case <-shutdownCtx.Done():
		log.Warn("payment sweep still running at shutdown")
	}
}
