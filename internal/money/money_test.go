package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPercentRoundsToWholeUnits(t *testing.T) {
	assert.Equal(t, int64(20700), Percent(115000, decimal.NewFromInt(18)))
	assert.Equal(t, int64(18630), Percent(103500, decimal.NewFromInt(18)))
	// 333 * 0.18 = 59.94
	assert.Equal(t, int64(60), Percent(333, decimal.NewFromInt(18)))
	// 25 * 0.10 = 2.5 rounds away from zero
	assert.Equal(t, int64(3), Percent(25, decimal.NewFromInt(10)))
}

func TestTaxIgnoresNonPositiveAmounts(t *testing.T) {
	rate := decimal.NewFromInt(18)
	assert.Zero(t, Tax(0, rate))
	assert.Zero(t, Tax(-500, rate))
	assert.Equal(t, int64(900), Tax(5000, rate))
}

func TestFormatUsesThousandsSeparators(t *testing.T) {
	assert.Equal(t, "50,000 TZS", Format(50000))
	assert.Equal(t, "0 TZS", Format(0))
}
