package main

import (
	"context"
	"fmt"
	"os"

	"github.com/EduFin215/Finomik-CRM-sub001/internal/config"
	"github.com/EduFin215/Finomik-CRM-sub001/internal/repository/postgres"
	"github.com/EduFin215/Finomik-CRM-sub001/internal/service"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	flagOrg     string
	flagDays    int
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "cashctl",
	Short: "Cash position and forecast CLI",
	Long:  "Inspect the cash forecast, aging buckets and KPIs of an organization straight from the database.",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		level := zerolog.WarnLevel
		if flagVerbose {
			level = zerolog.DebugLevel
		}
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
	},
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagOrg, "org", "o", "", "Organization ID (required)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log upstream warnings")
}

// engine holds the services the commands read from
type engine struct {
	pool     *pgxpool.Pool
	orgID    uuid.UUID
	forecast *service.ForecastService
	aging    *service.AgingService
	kpis     *service.KPIService
	reports  *service.ReportService
}

func (e *engine) Close() {
	e.pool.Close()
}

// openEngine wires the services against the configured database
func openEngine(ctx context.Context) (*engine, error) {
	if flagOrg == "" {
		return nil, fmt.Errorf("--org is required")
	}
	orgID, err := uuid.Parse(flagOrg)
	if err != nil {
		return nil, fmt.Errorf("invalid --org %q: %w", flagOrg, err)
	}

	cfg, err := config.LoadForCLI()
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	calendar := service.NewCalendar(cfg.Forecast.Location())
	ledger := service.NewLedgerReader(postgres.NewLedgerRepository(pool), cfg.Forecast.UpstreamTimeout)
	obligations := service.NewObligationReader(
		postgres.NewObligationRepository(pool),
		postgres.NewBaselineRepository(pool),
		cfg.Forecast.UpstreamTimeout,
	)

	forecast := service.NewForecastService(ledger, obligations, calendar)
	aging := service.NewAgingService(obligations, calendar)
	kpis := service.NewKPIService(ledger, obligations, forecast, calendar)

	return &engine{
		pool:     pool,
		orgID:    orgID,
		forecast: forecast,
		aging:    aging,
		kpis:     kpis,
		reports:  service.NewReportService(forecast, aging, kpis, calendar),
	}, nil
}
