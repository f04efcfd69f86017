package payroll

import "time"

// NewPayPeriod derives the end and pay dates for a period starting at start
// with the given cadence. Dates are truncated to midnight UTC so that two
// runs over the same inputs always produce the same period.
//
//	weekly:      6-day period, paid 3 days after the period ends
//	biweekly:    13-day period, paid 3 days after the period ends
//	semimonthly: 1st-15th or 16th-end-of-month, paid 2 days after
//	monthly:     calendar month, paid 3 days after month end
func NewPayPeriod(start time.Time, cadence Cadence) (PayPeriod, error) {
	if start.IsZero() {
		return PayPeriod{}, ErrInvalidPeriodStart
	}
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	var end, pay time.Time
	switch cadence {
	case CadenceWeekly:
		end = start.AddDate(0, 0, 6)
		pay = end.AddDate(0, 0, 3)
	case CadenceBiweekly:
		end = start.AddDate(0, 0, 13)
		pay = end.AddDate(0, 0, 3)
	case CadenceSemimonthly:
		switch start.Day() {
		case 1:
			end = time.Date(start.Year(), start.Month(), 15, 0, 0, 0, 0, time.UTC)
		case 16:
			end = endOfMonth(start)
		default:
			return PayPeriod{}, ErrInvalidPeriodStart
		}
		pay = end.AddDate(0, 0, 2)
	case CadenceMonthly:
		if start.Day() != 1 {
			return PayPeriod{}, ErrInvalidPeriodStart
		}
		end = endOfMonth(start)
		pay = end.AddDate(0, 0, 3)
	default:
		return PayPeriod{}, ErrInvalidCadence
	}

	return PayPeriod{
		StartDate: start,
		EndDate:   end,
		PayDate:   pay,
		Cadence:   cadence,
		Status:    PeriodStatusOpen,
	}, nil
}

// Label renders the period range the way payslips and notifications show it.
func (p PayPeriod) Label() string {
	return p.StartDate.Format("2006-01-02") + " to " + p.EndDate.Format("2006-01-02")
}

func endOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1)
}
