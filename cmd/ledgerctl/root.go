package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"ledgerpos/internal/app"
	"ledgerpos/internal/config"
	"ledgerpos/internal/core/id"
	"ledgerpos/pkg/logger"
)

var version = "1.0.0"

type rootOptions struct {
	company string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Ledger reports for a company",
		Long: `ledgerctl reads the ledger database configured by DATABASE_URL (or .env)
and prints or exports the accounts aging report, the financial snapshot
and party balances for one company.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.company, "company", "", "Company id (UUID)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log to stderr")

	root.AddCommand(newExportCmd(opts), newStatsCmd(opts), newBalanceCmd(opts))
	return root
}

func (o *rootOptions) companyID() (id.ID, error) {
	if o.company == "" {
		return id.ID{}, fmt.Errorf("--company is required")
	}
	companyID, err := id.Parse(o.company)
	if err != nil {
		return id.ID{}, fmt.Errorf("invalid --company %q: %w", o.company, err)
	}
	return companyID, nil
}

func (o *rootOptions) logger(cfg *config.Config) (*logger.Logger, error) {
	if !o.verbose {
		return logger.NewNop(), nil
	}
	return logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: true,
		OutputPaths: []string{"stderr"},
	})
}

// connect loads configuration and builds the services. The caller closes them.
func (o *rootOptions) connect(ctx context.Context) (*app.Services, *config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := o.logger(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	services, err := app.Build(ctx, cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return services, cfg, log, nil
}
