// The worker finishes what the API could not do atomically: it retries
// credential issuances whose marker survived a failed issuer call, and it
// purges records whose lifetime lapsed.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/refinance/crowdfund/internal/auth"
	"github.com/refinance/crowdfund/internal/credential"
	"github.com/refinance/crowdfund/internal/domain"
	"github.com/refinance/crowdfund/internal/escrow"
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
	logger := infra.NewLogger(cfg.AppEnv).With().Str("component", "worker").Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	records := store.NewPostgres(dbpool, logger, cfg.RecordTTL)
	ledger := token.NewPostgresLedger(dbpool, logger)
	bus := notify.NewLogBus(logger)
	credentials := credential.NewLedger(records, bus, cfg.AdminIdentity, credential.Collection{
		Name:    cfg.CredentialName,
		Symbol:  cfg.CredentialSymbol,
		BaseURI: cfg.CredentialBaseURI,
	})
	escrowSvc := escrow.New(records, ledger, credentials, bus, logger)

	// The worker acts as the platform administrator.
	workCtx := auth.WithCaller(ctx, cfg.AdminIdentity)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.WorkerPollInterval)
	defer ticker.Stop()

	logger.Info().Msgf("worker polling every %s", cfg.WorkerPollInterval)
	for {
		select {
		case <-stop:
			logger.Info().Msg("worker stopped")
			return
		case <-ticker.C:
			issued, err := escrowSvc.RetryPendingIssuances(workCtx)
			if err != nil && !errors.Is(err, domain.ErrNotInitialized) {
				logger.Error().Err(err).Msg("issuance retry pass failed")
			}
			if issued > 0 {
				logger.Info().Int("issued", issued).Msg("pending credentials issued")
			}
			purged, err := records.PurgeExpired(workCtx)
			if err != nil {
				logger.Error().Err(err).Msg("record purge failed")
			}
			if purged > 0 {
				logger.Info().Int64("purged", purged).Msg("expired records purged")
			}
		}
	}
}
