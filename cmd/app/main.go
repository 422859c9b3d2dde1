// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/manojneupaneweb/GoGain-sub000/internal/config"
	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/model"
	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/ports/adapter"
	"github.com/manojneupaneweb/GoGain-sub000/internal/infra/commerce"
	pg "github.com/manojneupaneweb/GoGain-sub000/internal/infra/db/postgres"
	"github.com/manojneupaneweb/GoGain-sub000/internal/infra/gateway"
	"github.com/manojneupaneweb/GoGain-sub000/internal/infra/logging"
	"github.com/manojneupaneweb/GoGain-sub000/internal/infra/metrics"
	red "github.com/manojneupaneweb/GoGain-sub000/internal/infra/redis"
	"github.com/manojneupaneweb/GoGain-sub000/internal/infra/sched"
	"github.com/manojneupaneweb/GoGain-sub000/internal/infra/web"
	"github.com/manojneupaneweb/GoGain-sub000/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	intents := red.NewIntentStore(redisClient, cfg.Redis.IntentTTL)
	locker := red.NewLocker(redisClient)

	// ---- Collaborators ----
	backend := commerce.NewClient(cfg.Backend.BaseURL, cfg.Backend.ServiceToken, cfg.Backend.Timeout)
	ledger := pg.NewPaymentLedgerRepo(pool)

	gateways := map[model.Provider]adapter.PaymentGateway{
		model.ProviderEsewa: gateway.NewEsewaGateway(
			cfg.Payment.Esewa.ProductCode,
			cfg.Payment.Esewa.Secret,
			cfg.Payment.Esewa.Sandbox,
		),
		model.ProviderKhalti: gateway.NewKhaltiGateway(backend),
	}

	// ---- Use cases ----
	shipping := model.ShippingPolicy{
		FreeAbove: cfg.Checkout.ShippingFreeAbove,
		Fee:       cfg.Checkout.ShippingFee,
	}
	cartUC := usecase.NewCartUseCase(backend, shipping, logger)
	checkoutUC := usecase.NewCheckoutUseCase(gateways, intents, ledger, shipping, logger)
	settlementUC := usecase.NewSettlementUseCase(backend, intents, ledger, locker, cartUC, logger)

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Session.Secret, !cfg.Runtime.Dev, cfg.Session.TTL)
	srv := web.NewServer(checkoutUC, settlementUC, cartUC, auth, cfg.Payment.ReturnURL, logger)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}

	// ---- Reaper ----
	txManager := pg.NewTxManager(pool)
	reaper := sched.NewIntentReaper(ledger, txManager, cfg.Reaper.Interval, cfg.Reaper.StaleAfter, logger)
	go reaper.Start(ctx)

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("checkout service listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	// ---- Shutdown ----
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info().Msg("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
