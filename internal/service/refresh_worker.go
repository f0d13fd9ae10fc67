package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/EduFin215/Finomik-CRM-sub001/internal/domain"
	"github.com/EduFin215/Finomik-CRM-sub001/internal/websocket"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultRefreshSchedule runs just after midnight, when "today" moves and every forecast shifts by a day
const DefaultRefreshSchedule = "5 0 * * *"

// RefreshWorker recomputes dashboard KPIs on a cron schedule and pushes them to connected clients
type RefreshWorker struct {
	kpiService     *KPIService
	orgRepo        domain.OrganizationRepository
	eventPublisher websocket.EventPublisher
	logger         zerolog.Logger
	schedule       string
	location       *time.Location
	timeout        time.Duration
	cron           *cron.Cron
	mu             sync.Mutex
	running        bool
}

// RefreshWorkerConfig holds configuration for the refresh worker
type RefreshWorkerConfig struct {
	Schedule string         // cron expression
	Location *time.Location // zone the schedule is evaluated in
	Timeout  time.Duration  // bound for one full refresh run
}

// DefaultRefreshWorkerConfig returns sensible defaults
func DefaultRefreshWorkerConfig() RefreshWorkerConfig {
	return RefreshWorkerConfig{
		Schedule: DefaultRefreshSchedule,
		Location: time.UTC,
		Timeout:  5 * time.Minute,
	}
}

// NewRefreshWorker creates a new refresh worker
func NewRefreshWorker(
	kpiService *KPIService,
	orgRepo domain.OrganizationRepository,
	publisher websocket.EventPublisher,
	logger zerolog.Logger,
	config RefreshWorkerConfig,
) *RefreshWorker {
	defaults := DefaultRefreshWorkerConfig()
	if config.Schedule == "" {
		config.Schedule = defaults.Schedule
	}
	if config.Location == nil {
		config.Location = defaults.Location
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}

	return &RefreshWorker{
		kpiService:     kpiService,
		orgRepo:        orgRepo,
		eventPublisher: publisher,
		logger:         logger.With().Str("component", "refresh_worker").Logger(),
		schedule:       config.Schedule,
		location:       config.Location,
		timeout:        config.Timeout,
	}
}

// Start registers the refresh job and starts the scheduler. Calling Start twice is a no-op.
func (w *RefreshWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	c := cron.New(cron.WithLocation(w.location))
	if _, err := c.AddFunc(w.schedule, func() { w.refreshAll(ctx) }); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", w.schedule, err)
	}
	c.Start()

	w.cron = c
	w.running = true
	w.logger.Info().
		Str("schedule", w.schedule).
		Str("location", w.location.String()).
		Msg("Starting refresh worker")
	return nil
}

// Stop stops the scheduler and waits for a running refresh to finish
func (w *RefreshWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	c := w.cron
	w.cron = nil
	w.running = false
	w.mu.Unlock()

	w.logger.Info().Msg("Stopping refresh worker")
	<-c.Stop().Done()
	w.logger.Info().Msg("Refresh worker stopped")
}

// IsRunning returns whether the worker is currently running
func (w *RefreshWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// RefreshOrganization recomputes one organization's KPIs and publishes them
func (w *RefreshWorker) RefreshOrganization(ctx context.Context, orgID uuid.UUID) *domain.KPIs {
	kpis := w.kpiService.GetKPIs(ctx, orgID)
	w.eventPublisher.Publish(orgID, websocket.DashboardRefreshed(KPIPayload(kpis)))
	return kpis
}

func (w *RefreshWorker) refreshAll(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	orgs, err := w.orgRepo.ListAll(ctx)
	if err != nil {
		w.logger.Error().Err(err).Msg("Failed to list organizations for refresh")
		return
	}

	refreshed := 0
	for _, org := range orgs {
		if ctx.Err() != nil {
			w.logger.Warn().Err(ctx.Err()).Int("refreshed", refreshed).Msg("Refresh run cut short")
			return
		}
		w.RefreshOrganization(ctx, org.ID)
		refreshed++
	}

	w.logger.Info().Int("organizations", refreshed).Msg("Dashboard refresh completed")
}

// KPIPayload formats KPIs the way the API returns them: two-decimal strings, null when unknown
func KPIPayload(k *domain.KPIs) map[string]interface{} {
	return map[string]interface{}{
		"incomeThisMonth":     k.IncomeThisMonth.StringFixed(2),
		"expensesThisMonth":   k.ExpensesThisMonth.StringFixed(2),
		"netResultThisMonth":  k.NetResultThisMonth.StringFixed(2),
		"cashPosition":        optionalFixed(k.CashPosition),
		"forecastNext30Days":  optionalFixed(k.ForecastNext30Days),
		"burnRateLast3Months": k.BurnRateLast3Months.StringFixed(2),
		"incomePrevMonth":     k.IncomePrevMonth.StringFixed(2),
		"expensesPrevMonth":   k.ExpensesPrevMonth.StringFixed(2),
	}
}

func optionalFixed(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}
