package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRenderTable(t *testing.T) {
	out := RenderTable(Table{
		Title:   "Forecast",
		Headers: []string{"Date", "Cash"},
		Rows: [][]string{
			{"2026-10-14", "1000.00"},
			{"2026-10-15", "-25.50"},
		},
	})

	assert.Contains(t, out, "Forecast")
	assert.Contains(t, out, "Date")
	assert.Contains(t, out, "2026-10-15")
	assert.Contains(t, out, "-25.50")
	// title, top border, header, separator, two rows, bottom border
	assert.Equal(t, 7, strings.Count(out, "\n"))
}

func TestRenderTable_Empty(t *testing.T) {
	assert.Empty(t, RenderTable(Table{}))
}

func TestRenderSparkline(t *testing.T) {
	values := []decimal.Decimal{
		decimal.NewFromInt(-100),
		decimal.NewFromInt(0),
		decimal.NewFromInt(100),
	}
	out := RenderSparkline(values)
	assert.Contains(t, out, "▁")
	assert.Contains(t, out, "█")

	flat := RenderSparkline([]decimal.Decimal{decimal.NewFromInt(5), decimal.NewFromInt(5)})
	assert.Contains(t, flat, "▁▁")

	assert.Empty(t, RenderSparkline(nil))
}

func TestFormatOptionalAmount(t *testing.T) {
	assert.Contains(t, FormatOptionalAmount(nil), "unknown")

	d := decimal.RequireFromString("12.5")
	assert.Contains(t, FormatOptionalAmount(&d), "12.50")
	assert.Contains(t, FormatAmount(decimal.NewFromInt(-3)), "-3.00")
}

func TestFormatDate(t *testing.T) {
	day := time.Date(2026, time.October, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-10-14", FormatDate(&day))
	assert.Contains(t, FormatDate(nil), "never")
	assert.Equal(t, "Wed", FormatDayOfWeek(day))
}
