package util

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPreviousMonth_SameYear(t *testing.T) {
	tests := []struct {
		year      int
		month     int
		wantYear  int
		wantMonth int
	}{
		{2026, 6, 2026, 5},   // June -> May
		{2026, 12, 2026, 11}, // Dec -> Nov
		{2026, 2, 2026, 1},   // Feb -> Jan
	}

	for _, tt := range tests {
		gotYear, gotMonth := PreviousMonth(tt.year, tt.month)
		if gotYear != tt.wantYear || gotMonth != tt.wantMonth {
			t.Errorf("PreviousMonth(%d, %d) = (%d, %d), want (%d, %d)",
				tt.year, tt.month, gotYear, gotMonth, tt.wantYear, tt.wantMonth)
		}
	}
}

func TestPreviousMonth_YearBoundary(t *testing.T) {
	// January -> December of previous year
	gotYear, gotMonth := PreviousMonth(2026, 1)
	if gotYear != 2025 || gotMonth != 12 {
		t.Errorf("PreviousMonth(2026, 1) = (%d, %d), want (2025, 12)", gotYear, gotMonth)
	}
}

func TestToday_UsesLocationCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	// 20:00 UTC on the 14th is already the 15th at UTC+9
	now := time.Date(2026, 10, 14, 20, 0, 0, 0, time.UTC)

	if got := Today(now, time.UTC); !got.Equal(date(2026, 10, 14)) {
		t.Errorf("Today(UTC) = %v, want 2026-10-14", got)
	}
	if got := Today(now, loc); !got.Equal(date(2026, 10, 15)) {
		t.Errorf("Today(UTC+9) = %v, want 2026-10-15", got)
	}
	if got := Today(now, nil); !got.Equal(date(2026, 10, 14)) {
		t.Errorf("Today(nil) = %v, want 2026-10-14", got)
	}
}

func TestMonthBounds(t *testing.T) {
	tests := []struct {
		in        time.Time
		wantFirst time.Time
		wantLast  time.Time
	}{
		{date(2026, 2, 15), date(2026, 2, 1), date(2026, 2, 28)},
		{date(2028, 2, 29), date(2028, 2, 1), date(2028, 2, 29)},
		{date(2026, 12, 31), date(2026, 12, 1), date(2026, 12, 31)},
	}

	for _, tt := range tests {
		first, last := MonthBounds(tt.in)
		if !first.Equal(tt.wantFirst) || !last.Equal(tt.wantLast) {
			t.Errorf("MonthBounds(%s) = (%s, %s), want (%s, %s)",
				DateKey(tt.in), DateKey(first), DateKey(last), DateKey(tt.wantFirst), DateKey(tt.wantLast))
		}
	}
}

func TestCalculateActualDate(t *testing.T) {
	tests := []struct {
		name     string
		year     int
		month    time.Month
		day      int
		expected time.Time
	}{
		{"regular day", 2026, time.March, 15, date(2026, 3, 15)},
		{"31st in February", 2026, time.February, 31, date(2026, 2, 28)},
		{"31st in leap February", 2028, time.February, 31, date(2028, 2, 29)},
		{"31st in April", 2026, time.April, 31, date(2026, 4, 30)},
		{"month overflow into next year", 2026, time.Month(14), 31, date(2027, 2, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateActualDate(tt.year, tt.month, tt.day)
			if !got.Equal(tt.expected) {
				t.Errorf("CalculateActualDate() = %s, want %s", DateKey(got), DateKey(tt.expected))
			}
		})
	}
}

func TestAddMonths(t *testing.T) {
	if got := AddMonths(date(2026, 1, 31), 1); !got.Equal(date(2026, 2, 28)) {
		t.Errorf("AddMonths(Jan 31, 1) = %s, want 2026-02-28", DateKey(got))
	}
	if got := AddMonths(date(2026, 5, 31), -3); !got.Equal(date(2026, 2, 28)) {
		t.Errorf("AddMonths(May 31, -3) = %s, want 2026-02-28", DateKey(got))
	}
	if got := AddMonths(date(2026, 11, 15), 2); !got.Equal(date(2027, 1, 15)) {
		t.Errorf("AddMonths(Nov 15, 2) = %s, want 2027-01-15", DateKey(got))
	}
}

func TestMaxDate(t *testing.T) {
	a, b := date(2026, 1, 1), date(2026, 1, 2)
	if got := MaxDate(a, b); !got.Equal(b) {
		t.Errorf("MaxDate() = %s, want %s", DateKey(got), DateKey(b))
	}
	if got := MaxDate(b, a); !got.Equal(b) {
		t.Errorf("MaxDate() = %s, want %s", DateKey(got), DateKey(b))
	}
}
