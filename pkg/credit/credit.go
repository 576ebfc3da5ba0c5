package credit

import (
	"time"

	"github.com/shopspring/decimal"
)

// Credit score bounds
const (
	MinCreditScore = 300
	MaxCreditScore = 900
)

var (
	daysPerYear        = decimal.NewFromInt(365)
	monthsPerYear      = decimal.NewFromInt(12)
	hundred            = decimal.NewFromInt(100)
	minDuePrincipalPct = decimal.RequireFromString("0.03")

	scoreBalanceCeiling = decimal.NewFromInt(1000000)
	scoreBalanceFloor   = decimal.NewFromInt(10000)
	scoreStepBalance    = decimal.NewFromInt(15000)
)

// DailyRate converts an annual interest rate in percent to the daily rate,
// rounded to 3 decimal places.
func DailyRate(annualRate decimal.Decimal) decimal.Decimal {
	return annualRate.Div(daysPerYear).Round(3)
}

// DailyInterest computes one day's interest on a principal balance given the
// daily rate in percent, rounded to 2 decimal places for storage.
func DailyInterest(principalBalance, dailyRate decimal.Decimal) decimal.Decimal {
	return principalBalance.Mul(dailyRate).Div(hundred).Round(2)
}

// MinimumDue is the minimum payment for a billing cycle: 3% of the principal
// balance plus the interest accrued in the cycle. The billing generator and
// the loan application validator must both go through this function.
func MinimumDue(principalBalance, interestAccrued decimal.Decimal) decimal.Decimal {
	return principalBalance.Mul(minDuePrincipalPct).Add(interestAccrued)
}

// EstimateFirstEMI approximates the first cycle's payment obligation for a
// prospective loan using simple interest: one month's interest on the full
// amount plus the minimum-due principal portion. Returns the EMI and the
// monthly interest it was built from.
func EstimateFirstEMI(loanAmount, annualRate decimal.Decimal) (emi, monthlyInterest decimal.Decimal) {
	monthlyRate := annualRate.Div(hundred).Div(monthsPerYear)
	monthlyInterest = loanAmount.Mul(monthlyRate)
	return MinimumDue(loanAmount, monthlyInterest), monthlyInterest
}

// NextBillingDate returns the loan's next statement date: 30 days (cycleDays)
// after the last billing date, or after the disbursement date if the loan has
// never been billed.
func NextBillingDate(lastBillingDate *time.Time, disbursementDate time.Time, cycleDays int) time.Time {
	if lastBillingDate != nil {
		return lastBillingDate.AddDate(0, 0, cycleDays)
	}
	return disbursementDate.AddDate(0, 0, cycleDays)
}

// DueDate returns the payment due date for a statement.
func DueDate(billingDate time.Time, offsetDays int) time.Time {
	return billingDate.AddDate(0, 0, offsetDays)
}

// AccrualWindowStart returns the first date of a billing cycle's accrual
// window: the day after the previous billing date, or the day after
// disbursement for the first cycle.
func AccrualWindowStart(lastBillingDate *time.Time, disbursementDate time.Time) time.Time {
	if lastBillingDate != nil {
		return lastBillingDate.AddDate(0, 0, 1)
	}
	return disbursementDate.AddDate(0, 0, 1)
}

// ScoreFromBalance maps a user's aggregate net balance (credits minus debits)
// to a credit score: 900 at or above 1,000,000; 300 at or below 10,000; in
// between, 10 points per full 15,000 above the floor, capped at 900.
func ScoreFromBalance(balance decimal.Decimal) int {
	if balance.GreaterThanOrEqual(scoreBalanceCeiling) {
		return MaxCreditScore
	}
	if balance.LessThanOrEqual(scoreBalanceFloor) {
		return MinCreditScore
	}

	steps := balance.Sub(scoreBalanceFloor).Div(scoreStepBalance).Floor().IntPart()
	score := MinCreditScore + int(steps)*10
	if score > MaxCreditScore {
		return MaxCreditScore
	}
	return score
}

// DateOnly truncates a timestamp to a calendar date in UTC. Accrual and
// billing dates are always stored this way so that the (loan, date)
// uniqueness check compares equal across runs.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
