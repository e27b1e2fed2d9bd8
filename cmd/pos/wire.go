package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stylashop-pos/internal/application/cashier"
	"github.com/jhoicas/stylashop-pos/internal/application/events"
	"github.com/jhoicas/stylashop-pos/internal/application/reports"
	"github.com/jhoicas/stylashop-pos/internal/application/sales"
	"github.com/jhoicas/stylashop-pos/internal/application/session"
	"github.com/jhoicas/stylashop-pos/internal/domain/repository"
	"github.com/jhoicas/stylashop-pos/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stylashop-pos/internal/infrastructure/pdf"
	"github.com/jhoicas/stylashop-pos/internal/infrastructure/postgres"
	"github.com/jhoicas/stylashop-pos/internal/infrastructure/rest"
	"github.com/jhoicas/stylashop-pos/internal/infrastructure/tokenstore"
	"github.com/jhoicas/stylashop-pos/internal/interfaces/cli"
	"github.com/jhoicas/stylashop-pos/pkg/config"
	"github.com/jhoicas/stylashop-pos/pkg/logger"
)

// app dependencias cableadas del cliente POS.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	console *cli.Console
	session *session.Manager
	seller  *sales.Seller
	cashier *cashier.Cashier
	reports *reports.Service
	closers []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// wire arma el cliente: token store, REST, sesión restaurada, flujos y journal.
func wire(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log, console: cli.NewConsole(os.Stdin, os.Stdout)}

	store, err := tokenStore(ctx, cfg, a)
	if err != nil {
		return nil, err
	}
	journal, err := collectionJournal(ctx, cfg, a, log.Component("journal"))
	if err != nil {
		a.close()
		return nil, err
	}

	client, err := rest.NewClient(cfg.API.BaseURL, cfg.API.Timeout, log.Component("rest"))
	if err != nil {
		a.close()
		return nil, err
	}
	a.session = session.NewManager(store, log.Component("session"), session.WithGateway(rest.NewAuthAPI(client)))
	client.UseTokens(a.session)
	if err := a.session.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("no se pudo restaurar la sesión")
	}

	bus := events.NewBus()
	salesAPI := rest.NewSaleAPI(client)
	a.seller = sales.NewSeller(rest.NewCatalogAPI(client), salesAPI, a.session, bus, log.Component("vendedor"))
	a.cashier = cashier.NewCashier(salesAPI, rest.NewPaymentAPI(client), journal, a.session, bus, cashier.Config{
		PollInterval:  cfg.Cashier.PollInterval,
		StatusRetries: cfg.Cashier.StatusRetries,
	}, log.Component("caja"))
	a.reports = reports.NewService(rest.NewReportAPI(client), infrapdf.NewMarotoPDFGenerator(cfg.App.Name), log.Component("reportes"))
	return a, nil
}

func tokenStore(ctx context.Context, cfg *config.Config, a *app) (repository.TokenStore, error) {
	if cfg.Session.Store == "redis" {
		rs, err := tokenstore.NewRedisStore(ctx, cfg.Session.RedisURL, cfg.Session.RedisKey)
		if err != nil {
			return nil, fmt.Errorf("token store redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = rs.Close() })
		return rs, nil
	}
	return tokenstore.NewFileStore(cfg.Session.TokenPath), nil
}

func collectionJournal(ctx context.Context, cfg *config.Config, a *app, log zerolog.Logger) (repository.CollectionJournal, error) {
	if cfg.Journal.Driver != "postgres" {
		log.Debug().Msg("journal de cobros en memoria")
		return memory.NewCollectionJournal(), nil
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("journal postgres: %w", err)
	}
	a.closers = append(a.closers, pool.Close)
	repo := postgres.NewCollectionJournalRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("journal postgres: %w", err)
	}
	return repo, nil
}
