package emi

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loantrackr-backend/pkg/apperr"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCalculate_KnownValues(t *testing.T) {
	got, err := Calculate(dec("120000.00"), dec("12"), 12)
	require.NoError(t, err)
	assert.Equal(t, "10661.85", got.StringFixed(2))

	assert.Equal(t, "127942.20", TotalPayable(got, 12).StringFixed(2))
	assert.Equal(t, "7942.20", TotalInterest(got, dec("120000.00"), 12).StringFixed(2))
}

func TestCalculate_SingleInstallment(t *testing.T) {
	// One month at 12% p.a.: principal plus one month of interest.
	got, err := Calculate(dec("10000.00"), dec("12"), 1)
	require.NoError(t, err)
	assert.Equal(t, "10100.00", got.StringFixed(2))
}

func TestCalculate_Monotonic_InPrincipal(t *testing.T) {
	rate := dec("14.5")
	prev := decimal.Zero
	for _, p := range []string{"50000", "100000", "250000", "1000000"} {
		got, err := Calculate(dec(p), rate, 24)
		require.NoError(t, err)
		assert.True(t, got.GreaterThan(prev), "EMI(%s)=%s not > %s", p, got, prev)
		prev = got
	}
}

func TestCalculate_RejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name      string
		principal string
		rate      string
		tenure    int
	}{
		{"zero principal", "0", "12", 12},
		{"negative principal", "-1", "12", 12},
		{"zero rate", "100000", "0", 12},
		{"negative rate", "100000", "-2", 12},
		{"zero tenure", "100000", "12", 0},
		{"negative tenure", "100000", "12", -6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Calculate(dec(tc.principal), dec(tc.rate), tc.tenure)
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		})
	}
}

func TestMonthlyRate_Scale(t *testing.T) {
	// 13.75 / 1200 = 0.011458333... kept at 10 fractional digits.
	assert.Equal(t, "0.0114583333", MonthlyRate(dec("13.75")).String())
}
