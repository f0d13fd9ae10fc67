package postgres

import (
	"math/big"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "1000.50", "-42.17", "0.005"} {
		d := decimal.RequireFromString(s)

		num, err := decimalToPgNumeric(d)
		require.NoError(t, err)

		back, ok := pgNumericToDecimal(num)
		assert.True(t, ok)
		assert.True(t, d.Equal(back), "value %s", s)
	}
}

func TestPgNumericToDecimal_Invalid(t *testing.T) {
	_, ok := pgNumericToDecimal(pgtype.Numeric{})
	assert.False(t, ok)

	_, ok = pgNumericToDecimal(pgtype.Numeric{Int: big.NewInt(1), NaN: true, Valid: true})
	assert.False(t, ok)
}

func TestPgDateToTime(t *testing.T) {
	assert.Nil(t, pgDateToTime(pgtype.Date{}))
	assert.Nil(t, pgDateToTime(pgtype.Date{InfinityModifier: pgtype.Infinity, Valid: true}))

	local := time.Date(2026, time.October, 14, 0, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	got := pgDateToTime(pgtype.Date{Time: local, Valid: true})
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2026, time.October, 14, 0, 0, 0, 0, time.UTC), *got)
}
