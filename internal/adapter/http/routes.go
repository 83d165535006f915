package http

import (
	"log/slog"
	"time"

	"p2p-lending/internal/adapter/middleware"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// Routes bundles everything Register needs to mount the API.
type Routes struct {
	Health       *Handler
	Users        *UserHandler
	Wallets      *WalletHandler
	LoanRequests *LoanRequestHandler
	Offers       *OfferHandler
	Payments     *PaymentHandler

	Tokens middleware.TokenVerifier
	// Idempotency is optional; nil disables replay protection.
	Idempotency    redis.Cmdable
	IdempotencyTTL time.Duration
	Log            *slog.Logger
}

func Register(e *echo.Echo, r Routes) {
	e.GET("/health", r.Health.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/users", r.Users.Register)

	mws := []echo.MiddlewareFunc{middleware.Auth(r.Tokens)}
	if r.Idempotency != nil {
		mws = append(mws, middleware.IdempotencyMiddleware(r.Idempotency, r.IdempotencyTTL, r.Log))
	}
	e.GET("/wallet", r.Wallets.Get, mws...)
	e.POST("/wallet/deposit", r.Wallets.Deposit, mws...)
	e.POST("/wallet/withdraw", r.Wallets.Withdraw, mws...)
	e.GET("/transfers", r.Wallets.Transfers, mws...)

	e.POST("/loan-requests", r.LoanRequests.Create, mws...)
	e.GET("/loan-requests", r.LoanRequests.ListActive, mws...)
	e.DELETE("/loan-requests/:request_id", r.LoanRequests.Delete, mws...)

	e.POST("/loan-offers", r.Offers.Create, mws...)
	e.GET("/loan-offers", r.Offers.List, mws...)
	e.POST("/loan-offers/:offer_id/:action", r.Offers.Respond, mws...)

	e.GET("/payments", r.Payments.ListOutstanding, mws...)
	e.POST("/payments/:payment_id", r.Payments.Pay, mws...)
}
