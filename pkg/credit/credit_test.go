package credit

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDailyRate(t *testing.T) {
	tests := []struct {
		name       string
		annualRate string
		expected   string
	}{
		{"twelve percent", "12", "0.033"},
		{"eighteen percent", "18", "0.049"},
		{"thirty six point five", "36.5", "0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate := DailyRate(decimal.RequireFromString(tt.annualRate))
			assert.True(t, rate.Equal(decimal.RequireFromString(tt.expected)),
				"got %s, want %s", rate, tt.expected)
		})
	}
}

func TestDailyInterest(t *testing.T) {
	// 10,000 at 0.033%/day = 3.30
	interest := DailyInterest(decimal.NewFromInt(10000), decimal.RequireFromString("0.033"))
	assert.True(t, interest.Equal(decimal.RequireFromString("3.30")), "got %s", interest)
}

func TestMinimumDue(t *testing.T) {
	// 3% of 10,000 plus 50 accrued = 350.00
	minDue := MinimumDue(decimal.NewFromInt(10000), decimal.NewFromInt(50))
	assert.True(t, minDue.Equal(decimal.RequireFromString("350.00")), "got %s", minDue)
}

func TestEstimateFirstEMI(t *testing.T) {
	// 5,000 at 12%: monthly interest 50, EMI 150 + 50 = 200
	emi, monthlyInterest := EstimateFirstEMI(decimal.NewFromInt(5000), decimal.NewFromInt(12))
	assert.True(t, monthlyInterest.Equal(decimal.NewFromInt(50)), "interest %s", monthlyInterest)
	assert.True(t, emi.Equal(decimal.NewFromInt(200)), "emi %s", emi)
}

func TestNextBillingDate(t *testing.T) {
	disbursement := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("no prior billing", func(t *testing.T) {
		next := NextBillingDate(nil, disbursement, 30)
		assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), next)
	})

	t.Run("after prior billing", func(t *testing.T) {
		last := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
		next := NextBillingDate(&last, disbursement, 30)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), next)
	})
}

func TestDueDate(t *testing.T) {
	billingDate := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), DueDate(billingDate, 15))
}

func TestAccrualWindowStart(t *testing.T) {
	disbursement := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("first cycle starts the day after disbursement", func(t *testing.T) {
		start := AccrualWindowStart(nil, disbursement)
		assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), start)
	})

	t.Run("later cycles start the day after the last billing", func(t *testing.T) {
		last := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
		start := AccrualWindowStart(&last, disbursement)
		assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), start)
	})
}

func TestScoreFromBalance(t *testing.T) {
	tests := []struct {
		name     string
		balance  int64
		expected int
	}{
		{"zero balance", 0, 300},
		{"at the floor", 10000, 300},
		{"one step above floor", 25000, 310},
		{"partial step rounds down", 39999, 310},
		{"two steps", 40000, 320},
		{"at the ceiling", 1000000, 900},
		{"above the ceiling stays capped", 2000000, 900},
		{"just below the ceiling stays capped at 900 formulaically", 999999, 900},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ScoreFromBalance(decimal.NewFromInt(tt.balance)))
		})
	}
}

func TestDateOnly(t *testing.T) {
	ts := time.Date(2024, 6, 15, 17, 42, 13, 999, time.FixedZone("IST", 19800))
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), DateOnly(ts))
}
