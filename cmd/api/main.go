package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/refinance/crowdfund/internal/credential"
	"github.com/refinance/crowdfund/internal/escrow"
	"github.com/refinance/crowdfund/internal/http/handlers"
	"github.com/refinance/crowdfund/internal/http/httpapi"
	"github.com/refinance/crowdfund/internal/infra"
	"github.com/refinance/crowdfund/internal/notify"
	"github.com/refinance/crowdfund/internal/store"
	"github.com/refinance/crowdfund/internal/token"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	records := store.NewPostgres(dbpool, logger, cfg.RecordTTL)
	if err := records.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare record store")
	}
	ledger := token.NewPostgresLedger(dbpool, logger)
	if err := ledger.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare token ledger")
	}

	bus := notify.NewLogBus(logger)
	credentials := credential.NewLedger(records, bus, cfg.AdminIdentity, credential.Collection{
		Name:    cfg.CredentialName,
		Symbol:  cfg.CredentialSymbol,
		BaseURI: cfg.CredentialBaseURI,
	})
	escrowSvc := escrow.New(records, ledger, credentials, bus, logger)

	app := handlers.NewApp(escrowSvc, credentials, logger)
	router := httpapi.NewRouter(app, logger, httpapi.RouterConfig{
		JWTSecret:          cfg.JWTSecret,
		RateLimitPerMin:    cfg.RateLimitPerMin,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
