package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/EduFin215/Finomik-CRM-sub001/internal/domain"
	"github.com/EduFin215/Finomik-CRM-sub001/internal/repository/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ReportLinkExpiry is how long an exported report download link stays valid
const ReportLinkExpiry = 15 * time.Minute

const (
	sheetForecast = "Forecast"
	sheetAging    = "Aging"
	sheetKPIs     = "KPIs"
)

// ReportService combines forecast, aging and KPI output into reports.
// It never reads raw facts itself.
type ReportService struct {
	forecast *ForecastService
	aging    *AgingService
	kpis     *KPIService
	calendar *Calendar
	store    storage.ReportStore
}

// NewReportService creates a new ReportService
func NewReportService(forecast *ForecastService, aging *AgingService, kpis *KPIService, calendar *Calendar) *ReportService {
	return &ReportService{
		forecast: forecast,
		aging:    aging,
		kpis:     kpis,
		calendar: calendar,
	}
}

// SetReportStore enables exports. Without a store ExportForecast returns ErrReportStorageUnavailable.
func (s *ReportService) SetReportStore(store storage.ReportStore) {
	s.store = store
}

// Overview returns the KPIs, aging and forecast of one organization computed for the same day
func (s *ReportService) Overview(ctx context.Context, orgID uuid.UUID, horizonDays int) (*domain.ReportOverview, error) {
	if horizonDays < 0 {
		return nil, domain.ErrInvalidHorizon
	}
	return s.overviewAt(ctx, orgID, s.calendar.Today(), horizonDays), nil
}

func (s *ReportService) overviewAt(ctx context.Context, orgID uuid.UUID, today time.Time, horizonDays int) *domain.ReportOverview {
	kpis := s.kpis.computeAt(ctx, orgID, today, s.kpis.obligations.GetCashBaseline(ctx, orgID))
	series := s.forecast.projectAt(ctx, orgID, today, horizonDays)

	overview := &domain.ReportOverview{
		GeneratedFor: today,
		KPIs:         kpis,
		Aging:        s.aging.summarizeAt(ctx, orgID, today),
		Forecast:     series,
		RunwayMonths: Runway(kpis.CashPosition, kpis.BurnRateLast3Months),
	}
	overview.LowestPoint = LowestPoint(series)
	overview.FirstNegativeDate = FirstNegativeDate(series)
	return overview
}

// ExportForecast renders the overview as an XLSX workbook, stores it and returns a temporary download link
func (s *ReportService) ExportForecast(ctx context.Context, orgID uuid.UUID, horizonDays int) (*domain.ReportExport, error) {
	if s.store == nil {
		return nil, domain.ErrReportStorageUnavailable
	}
	if horizonDays < 0 {
		return nil, domain.ErrInvalidHorizon
	}

	today := s.calendar.Today()
	overview := s.overviewAt(ctx, orgID, today, horizonDays)

	buf, err := RenderWorkbook(overview)
	if err != nil {
		return nil, fmt.Errorf("render forecast workbook: %w", err)
	}

	objectPath := storage.GenerateReportPath(orgID, "forecast", today)
	if _, err := s.store.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), storage.XLSXContentType, int64(buf.Len())); err != nil {
		return nil, fmt.Errorf("upload forecast workbook: %w", err)
	}

	url, err := s.store.GeneratePresignedURL(ctx, objectPath, ReportLinkExpiry)
	if err != nil {
		if delErr := s.store.Delete(ctx, objectPath); delErr != nil {
			log.Warn().Err(delErr).Str("object_path", objectPath).Msg("Failed to remove unreachable report")
		}
		return nil, fmt.Errorf("presign forecast workbook: %w", err)
	}

	return &domain.ReportExport{
		ObjectPath: objectPath,
		URL:        url,
		ExpiresAt:  time.Now().UTC().Add(ReportLinkExpiry),
	}, nil
}

// LowestPoint returns the first day with the minimum projected cash, nil for an empty series
func LowestPoint(series []domain.ForecastDay) *domain.ForecastPoint {
	if len(series) == 0 {
		return nil
	}
	lowest := series[0]
	for _, day := range series[1:] {
		if day.ProjectedCash.LessThan(lowest.ProjectedCash) {
			lowest = day
		}
	}
	return &domain.ForecastPoint{Date: lowest.Date, ProjectedCash: lowest.ProjectedCash}
}

// FirstNegativeDate returns the first day the projection drops below zero
func FirstNegativeDate(series []domain.ForecastDay) *time.Time {
	for _, day := range series {
		if day.ProjectedCash.IsNegative() {
			date := day.Date
			return &date
		}
	}
	return nil
}

// Runway is how many months of burn the cash position covers, rounded to one decimal.
// Unknown cash or a non-positive burn rate yields nil.
func Runway(cashPosition *decimal.Decimal, burnRate decimal.Decimal) *decimal.Decimal {
	if cashPosition == nil || !burnRate.IsPositive() {
		return nil
	}
	months := cashPosition.Div(burnRate).Round(1)
	return &months
}

// RenderWorkbook writes the Forecast, Aging and KPIs sheets of an overview
func RenderWorkbook(overview *domain.ReportOverview) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close workbook")
		}
	}()

	if err := f.SetSheetName("Sheet1", sheetForecast); err != nil {
		return nil, err
	}
	forecastRows := [][]interface{}{{"Date", "Projected cash"}}
	for _, day := range overview.Forecast {
		forecastRows = append(forecastRows, []interface{}{day.Date.Format(domain.DateLayout), day.ProjectedCash.InexactFloat64()})
	}
	if err := writeRows(f, sheetForecast, forecastRows); err != nil {
		return nil, err
	}

	a := overview.Aging
	agingRows := [][]interface{}{
		{"Bucket", "Invoices", "Expenses"},
		{"Coming due (next 30 days)", a.InvoicesComingDue.InexactFloat64(), a.ExpensesComingDue.InexactFloat64()},
		{"Overdue 1-30 days", a.InvoicesOverdue1_30.InexactFloat64(), a.ExpensesOverdue1_30.InexactFloat64()},
		{"Overdue 31-60 days", a.InvoicesOverdue31_60.InexactFloat64(), a.ExpensesOverdue31_60.InexactFloat64()},
	}
	if _, err := f.NewSheet(sheetAging); err != nil {
		return nil, err
	}
	if err := writeRows(f, sheetAging, agingRows); err != nil {
		return nil, err
	}

	k := overview.KPIs
	kpiRows := [][]interface{}{
		{"Metric", "Value"},
		{"Income this month", k.IncomeThisMonth.InexactFloat64()},
		{"Expenses this month", k.ExpensesThisMonth.InexactFloat64()},
		{"Net result this month", k.NetResultThisMonth.InexactFloat64()},
		{"Cash position", optionalCell(k.CashPosition)},
		{"Forecast in 30 days", optionalCell(k.ForecastNext30Days)},
		{"Burn rate (last 3 months)", k.BurnRateLast3Months.InexactFloat64()},
		{"Income previous month", k.IncomePrevMonth.InexactFloat64()},
		{"Expenses previous month", k.ExpensesPrevMonth.InexactFloat64()},
		{"Runway (months)", optionalCell(overview.RunwayMonths)},
	}
	if _, err := f.NewSheet(sheetKPIs); err != nil {
		return nil, err
	}
	if err := writeRows(f, sheetKPIs, kpiRows); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}

// optionalCell leaves unknown values visibly unknown instead of writing zero
func optionalCell(d *decimal.Decimal) interface{} {
	if d == nil {
		return "unknown"
	}
	return d.InexactFloat64()
}
