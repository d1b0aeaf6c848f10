package service

import (
	"time"

	"karrah/internal/model"
)

// StartOfDay truncates t to midnight in its location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// NextOccurrence computes the next due date of a recurrence rule at day
// granularity. A template that has never spawned (nil anchor) is due
// today, which bootstraps the cycle on the first run. An unknown
// frequency yields the zero time, which is never due.
//
// Weekly rules advance by whole weeks from the anchor; the rule's
// DaysOfWeek field is not consulted.
func NextOccurrence(rule model.RecurrenceRule, lastSpawned *time.Time, today time.Time) time.Time {
	if lastSpawned == nil {
		return today
	}

	anchor := StartOfDay(lastSpawned.In(today.Location()))
	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}

	switch rule.Frequency {
	case model.FreqDaily:
		return anchor.AddDate(0, 0, interval)
	case model.FreqWeekly:
		return anchor.AddDate(0, 0, 7*interval)
	case model.FreqMonthly:
		return addMonthsClamped(anchor, interval)
	case model.FreqYearly:
		return addMonthsClamped(anchor, 12*interval)
	default:
		return time.Time{}
	}
}

// Due reports whether an occurrence falls on or before today. The
// boundary is inclusive: an occurrence computed for today is due now.
func Due(next, today time.Time) bool {
	return !next.IsZero() && !next.After(today)
}

// addMonthsClamped adds months preserving the day of month, clamping to
// the last day when the target month is shorter (Jan 31 + 1 month =
// Feb 28/29, not Mar 2).
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, t.Location())
}
