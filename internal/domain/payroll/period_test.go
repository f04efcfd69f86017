package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewPayPeriod_Weekly(t *testing.T) {
	p, err := NewPayPeriod(date(2025, time.March, 3), CadenceWeekly)
	require.NoError(t, err)

	assert.Equal(t, date(2025, time.March, 3), p.StartDate)
	assert.Equal(t, date(2025, time.March, 9), p.EndDate)
	assert.Equal(t, date(2025, time.March, 12), p.PayDate)
	assert.Equal(t, PeriodStatusOpen, p.Status)
}

func TestNewPayPeriod_Biweekly(t *testing.T) {
	p, err := NewPayPeriod(date(2025, time.March, 3), CadenceBiweekly)
	require.NoError(t, err)

	assert.Equal(t, date(2025, time.March, 16), p.EndDate)
	assert.Equal(t, date(2025, time.March, 19), p.PayDate)
}

func TestNewPayPeriod_SemimonthlyFirstHalf(t *testing.T) {
	p, err := NewPayPeriod(date(2025, time.February, 1), CadenceSemimonthly)
	require.NoError(t, err)

	assert.Equal(t, date(2025, time.February, 15), p.EndDate)
	assert.Equal(t, date(2025, time.February, 17), p.PayDate)
}

func TestNewPayPeriod_SemimonthlySecondHalf(t *testing.T) {
	p, err := NewPayPeriod(date(2025, time.February, 16), CadenceSemimonthly)
	require.NoError(t, err)

	assert.Equal(t, date(2025, time.February, 28), p.EndDate)
	assert.Equal(t, date(2025, time.March, 2), p.PayDate)
}

func TestNewPayPeriod_SemimonthlyInvalidStartDay(t *testing.T) {
	_, err := NewPayPeriod(date(2025, time.February, 10), CadenceSemimonthly)
	assert.ErrorIs(t, err, ErrInvalidPeriodStart)
}

func TestNewPayPeriod_Monthly(t *testing.T) {
	p, err := NewPayPeriod(date(2024, time.February, 1), CadenceMonthly)
	require.NoError(t, err)

	// leap year
	assert.Equal(t, date(2024, time.February, 29), p.EndDate)
	assert.Equal(t, date(2024, time.March, 3), p.PayDate)
}

func TestNewPayPeriod_MonthlyRequiresFirstDay(t *testing.T) {
	_, err := NewPayPeriod(date(2024, time.February, 2), CadenceMonthly)
	assert.ErrorIs(t, err, ErrInvalidPeriodStart)
}

func TestNewPayPeriod_InvariantOrdering(t *testing.T) {
	cadences := []Cadence{CadenceWeekly, CadenceBiweekly, CadenceMonthly}
	for _, c := range cadences {
		p, err := NewPayPeriod(date(2025, time.June, 1), c)
		require.NoError(t, err, string(c))
		assert.True(t, !p.StartDate.After(p.EndDate), "start <= end for %s", c)
		assert.True(t, p.EndDate.Before(p.PayDate), "end < pay for %s", c)
	}
}

func TestNewPayPeriod_InvalidCadence(t *testing.T) {
	_, err := NewPayPeriod(date(2025, time.June, 1), Cadence("quarterly"))
	assert.ErrorIs(t, err, ErrInvalidCadence)
}

func TestCanTransitionTo(t *testing.T) {
	r := PayrollRecord{PaymentStatus: PaymentStatusPending}
	assert.True(t, r.CanTransitionTo(PaymentStatusProcessing))
	assert.True(t, r.CanTransitionTo(PaymentStatusCancelled))
	// Paid is only reachable through processing.
	assert.False(t, r.CanTransitionTo(PaymentStatusPaid))

	r.PaymentStatus = PaymentStatusProcessing
	assert.True(t, r.CanTransitionTo(PaymentStatusPaid))
	assert.True(t, r.CanTransitionTo(PaymentStatusCancelled))
	assert.False(t, r.CanTransitionTo(PaymentStatusPending))

	r.PaymentStatus = PaymentStatusPaid
	assert.False(t, r.CanTransitionTo(PaymentStatusCancelled))

	r.PaymentStatus = PaymentStatusCancelled
	assert.False(t, r.CanTransitionTo(PaymentStatusPaid))
}
