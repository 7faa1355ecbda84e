// Package app wires configuration, storage and domain services together for
// the server and the CLI.
package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"ledgerpos/internal/config"
	"ledgerpos/internal/core/tx"
	"ledgerpos/internal/domain/accounts"
	"ledgerpos/internal/domain/cash"
	"ledgerpos/internal/domain/finance"
	"ledgerpos/internal/domain/notify"
	"ledgerpos/internal/domain/payments"
	"ledgerpos/internal/domain/reports"
	"ledgerpos/internal/domain/sales"
	"ledgerpos/internal/infrastructure/notifysender"
	"ledgerpos/internal/infrastructure/numerator"
	"ledgerpos/internal/infrastructure/storage/postgres"
	"ledgerpos/internal/infrastructure/storage/postgres/document_repo"
	"ledgerpos/internal/infrastructure/storage/postgres/register_repo"
	"ledgerpos/internal/infrastructure/storage/postgres/report_repo"
	"ledgerpos/pkg/logger"
)

// Services holds the connected runtime.
type Services struct {
	Pool       *postgres.Pool
	TxManager  *postgres.TxManager
	Dispatcher *notify.Dispatcher

	Accounts *accounts.Service
	Reports  *reports.Service
	Finance  *finance.Service
	Cash     *cash.Service
	Sales    *sales.Service
	Payments *payments.Service

	redis *redis.Client
}

// Build connects to the database (and Redis when notifications go there)
// and constructs every service.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Services, error) {
	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxConns = cfg.DBMaxConns
	poolCfg.TimeZone = cfg.TimeZone

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	s := &Services{Pool: pool, TxManager: postgres.NewTxManager(pool)}

	deps := notifysender.Deps{TxManager: s.TxManager}
	if notifysender.Backend(cfg.NotifyBackend) == notifysender.BackendRedis {
		client, err := notifysender.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		s.redis = client
		deps.Redis = client
	}
	sender, err := notifysender.New(notifysender.Backend(cfg.NotifyBackend), deps)
	if err != nil {
		s.closeConnections(log)
		return nil, err
	}
	s.Dispatcher = notify.NewDispatcher(sender, cfg.NotifyTimeout, log.WithComponent("notify"))

	loc := cfg.Location()
	numbers := numerator.New(s.TxManager)
	documents := document_repo.NewStore(s.TxManager)
	reportRepo := report_repo.NewReportRepo(s.TxManager)

	s.Accounts = accounts.NewService(documents)
	s.Reports = reports.NewService(reportRepo, loc).WithSnapshot(tx.Func(s.TxManager.ReadSnapshot))
	s.Finance = finance.NewService(finance.Config{
		Repo:     reportRepo,
		Balances: s.Accounts,
		Fanout:   cfg.StatsFanout,
		Location: loc,
	})
	s.Cash = cash.NewService(cash.Config{
		Repo:      register_repo.NewCashRepo(s.TxManager),
		TxManager: s.TxManager,
		Numerator: numbers,
		Location:  loc,
	})
	s.Sales = sales.NewService(documents, s.TxManager, numbers, s.Dispatcher)
	s.Payments = payments.NewService(documents, s.Dispatcher)

	log.Infow("services ready",
		"notify_backend", cfg.NotifyBackend,
		"timezone", cfg.TimeZone,
		"stats_fanout", cfg.StatsFanout,
	)
	return s, nil
}

// Close drains pending notifications, then releases connections.
func (s *Services) Close(ctx context.Context, log *logger.Logger) {
	if s.Dispatcher != nil {
		if err := s.Dispatcher.Shutdown(ctx); err != nil {
			log.Warnw("notifications not drained", "error", err)
		}
	}
	s.closeConnections(log)
}

func (s *Services) closeConnections(log *logger.Logger) {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Warnw("redis close", "error", err)
		}
	}
	s.Pool.Close()
}
