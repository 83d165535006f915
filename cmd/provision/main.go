// Command provision creates an account outside the public API, typically the
// admin that may delete loan requests, and prints its bearer token.
//
//	provision -username ops -role admin
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"p2p-lending/internal/adapter/repository/gormrepo"
	"p2p-lending/internal/config"
	"p2p-lending/internal/domain/user"
	"p2p-lending/internal/infrastructure/auth"
	"p2p-lending/internal/infrastructure/db"
	"p2p-lending/internal/infrastructure/logging"
	ucUser "p2p-lending/internal/usecase/user"
)

func main() {
	username := flag.String("username", "", "account username")
	role := flag.String("role", string(user.RoleAdmin), "borrower, lender or admin")
	flag.Parse()

	cfg := config.Load()
	log := logging.Setup(logging.Options{Service: "p2p-lending-provision", Level: cfg.LogLevel, File: cfg.LogFile})
	if err := run(cfg, log, *username, user.Role(*role)); err != nil {
		log.Error("provision failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger, username string, role user.Role) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return err
	}
	if err := db.Migrate(gdb); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL())
	dto, err := ucUser.NewUsecase(gormrepo.NewGormUoW(gdb), tokens, cfg.Currency).Provision(ctx, username, role)
	if err != nil {
		return err
	}
	log.Info("account provisioned", "user_id", dto.User.UserID, "role", dto.User.Role)
	return json.NewEncoder(os.Stdout).Encode(dto)
}
