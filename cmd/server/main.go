package main

import (
	"context"
	"fmt"
	"time"

	"shopduy_back_end/internal/config"
	"shopduy_back_end/internal/database"
	"shopduy_back_end/internal/events"
	"shopduy_back_end/internal/handlers/address"
	"shopduy_back_end/internal/handlers/cart"
	"shopduy_back_end/internal/handlers/order"
	"shopduy_back_end/internal/mail"
	"shopduy_back_end/internal/payments"
	"shopduy_back_end/internal/reconcile"
	"shopduy_back_end/internal/routes"
	"shopduy_back_end/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load(logger)

	if cfg.JWTSecret == "" {
		logger.Fatal("❌ JWT_SECRET is not set")
	}
	if cfg.StripeSecretKey == "" {
		logger.Fatal("❌ STRIPE_SECRET_KEY is not set")
	}

	db, err := database.OpenMySQL(cfg)
	if err != nil {
		logger.WithError(err).Fatal("❌ MySQL connection failed")
	}
	logger.Info("✅ Connected to MySQL")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	rdb, err := database.OpenRedis(ctx, cfg)
	cancel()
	if err != nil {
		logger.WithError(err).Fatal("❌ Redis connection failed")
	}
	logger.Info("✅ Connected to Redis")

	st := store.New(db, logger)

	card := payments.NewStripeClient(cfg.StripeSecretKey, logger)
	logger.Info("✅ Stripe client initialized")

	wallet := payments.NewPayPalClient(
		cfg.PayPalBaseURL,
		cfg.PayPalClientID,
		cfg.PayPalSecret,
		cfg.APIBaseURL+"/api/paypal/success",
		cfg.APIBaseURL+"/api/paypal/cancel",
		cfg.ExchangeRateVNDUSD,
		logger,
	)

	bank := payments.NewPayOSClient(
		cfg.PayOSBaseURL,
		cfg.PayOSClientID,
		cfg.PayOSAPIKey,
		cfg.PayOSChecksumKey,
		logger,
	)

	mailer := mail.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom, logger)
	publisher := events.NewPublisher(rdb, logger)
	reconciler := reconcile.New(st, logger)

	orderHandler := order.NewHandler(
		st, card, wallet, bank, publisher, mailer, reconciler, rdb, logger,
		cfg.APIBaseURL, cfg.FrontendBaseURL,
	)
	cartHandler := cart.NewHandler(st, logger)
	addressHandler := address.NewHandler(st, logger)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendBaseURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Register(r, []byte(cfg.JWTSecret), orderHandler, cartHandler, addressHandler)

	logger.Infof("🚀 Server listening on port %s", cfg.Port)
	if err := r.Run(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		logger.WithError(err).Fatal("❌ Server stopped")
	}
}
