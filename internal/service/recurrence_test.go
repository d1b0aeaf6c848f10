package service

import (
	"testing"
	"time"

	"karrah/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextOccurrenceNilAnchor(t *testing.T) {
	t.Parallel()
	today := date(2026, time.August, 28)
	for _, freq := range []string{model.FreqDaily, model.FreqWeekly, model.FreqMonthly, model.FreqYearly} {
		rule := model.RecurrenceRule{Frequency: freq, Interval: 3}
		if got := NextOccurrence(rule, nil, today); !got.Equal(today) {
			t.Fatalf("freq %s: NextOccurrence(nil anchor) = %v, want today %v", freq, got, today)
		}
	}
}

func TestNextOccurrenceAdvance(t *testing.T) {
	t.Parallel()
	today := date(2026, time.August, 28)
	tests := []struct {
		name   string
		rule   model.RecurrenceRule
		anchor time.Time
		want   time.Time
	}{
		{
			name:   "daily interval 1",
			rule:   model.RecurrenceRule{Frequency: model.FreqDaily, Interval: 1},
			anchor: date(2026, time.August, 27),
			want:   date(2026, time.August, 28),
		},
		{
			name:   "daily interval 3",
			rule:   model.RecurrenceRule{Frequency: model.FreqDaily, Interval: 3},
			anchor: date(2026, time.August, 20),
			want:   date(2026, time.August, 23),
		},
		{
			name:   "weekly interval 1",
			rule:   model.RecurrenceRule{Frequency: model.FreqWeekly, Interval: 1},
			anchor: date(2026, time.August, 21),
			want:   date(2026, time.August, 28),
		},
		{
			name:   "weekly ignores days_of_week",
			rule:   model.RecurrenceRule{Frequency: model.FreqWeekly, Interval: 2, DaysOfWeek: "mon,thu"},
			anchor: date(2026, time.August, 3),
			want:   date(2026, time.August, 17),
		},
		{
			name:   "monthly plain",
			rule:   model.RecurrenceRule{Frequency: model.FreqMonthly, Interval: 1},
			anchor: date(2026, time.July, 15),
			want:   date(2026, time.August, 15),
		},
		{
			name:   "monthly clamps short month",
			rule:   model.RecurrenceRule{Frequency: model.FreqMonthly, Interval: 1},
			anchor: date(2026, time.January, 31),
			want:   date(2026, time.February, 28),
		},
		{
			name:   "monthly clamp leap february",
			rule:   model.RecurrenceRule{Frequency: model.FreqMonthly, Interval: 1},
			anchor: date(2028, time.January, 31),
			want:   date(2028, time.February, 29),
		},
		{
			name:   "monthly across year boundary",
			rule:   model.RecurrenceRule{Frequency: model.FreqMonthly, Interval: 3},
			anchor: date(2025, time.November, 30),
			want:   date(2026, time.February, 28),
		},
		{
			name:   "yearly",
			rule:   model.RecurrenceRule{Frequency: model.FreqYearly, Interval: 2},
			anchor: date(2024, time.May, 10),
			want:   date(2026, time.May, 10),
		},
		{
			name:   "yearly clamps feb 29",
			rule:   model.RecurrenceRule{Frequency: model.FreqYearly, Interval: 1},
			anchor: date(2024, time.February, 29),
			want:   date(2025, time.February, 28),
		},
		{
			name:   "zero interval treated as 1",
			rule:   model.RecurrenceRule{Frequency: model.FreqDaily, Interval: 0},
			anchor: date(2026, time.August, 27),
			want:   date(2026, time.August, 28),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			anchor := tt.anchor
			got := NextOccurrence(tt.rule, &anchor, today)
			if !got.Equal(tt.want) {
				t.Fatalf("NextOccurrence = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDue(t *testing.T) {
	t.Parallel()
	today := date(2026, time.August, 28)

	if !Due(today, today) {
		t.Fatal("occurrence on today must be due (inclusive boundary)")
	}
	if !Due(date(2026, time.August, 1), today) {
		t.Fatal("past occurrence must be due")
	}
	if Due(date(2026, time.August, 29), today) {
		t.Fatal("future occurrence must not be due")
	}
	if Due(time.Time{}, today) {
		t.Fatal("zero time (unknown frequency) must never be due")
	}
}

func TestNextOccurrenceInclusiveBoundary(t *testing.T) {
	t.Parallel()
	today := date(2026, time.August, 28)

	// anchor exactly one period back lands on today for every frequency.
	cases := []struct {
		rule   model.RecurrenceRule
		anchor time.Time
	}{
		{model.RecurrenceRule{Frequency: model.FreqDaily, Interval: 2}, today.AddDate(0, 0, -2)},
		{model.RecurrenceRule{Frequency: model.FreqWeekly, Interval: 1}, today.AddDate(0, 0, -7)},
		{model.RecurrenceRule{Frequency: model.FreqMonthly, Interval: 1}, today.AddDate(0, -1, 0)},
		{model.RecurrenceRule{Frequency: model.FreqYearly, Interval: 1}, today.AddDate(-1, 0, 0)},
	}
	for _, c := range cases {
		anchor := c.anchor
		next := NextOccurrence(c.rule, &anchor, today)
		if !next.Equal(today) {
			t.Fatalf("freq %s: next = %v, want %v", c.rule.Frequency, next, today)
		}
		if !Due(next, today) {
			t.Fatalf("freq %s: boundary occurrence must be due", c.rule.Frequency)
		}
	}
}

func TestNextOccurrenceUnknownFrequency(t *testing.T) {
	t.Parallel()
	anchor := date(2026, time.August, 1)
	got := NextOccurrence(model.RecurrenceRule{Frequency: "fortnightly", Interval: 1}, &anchor, date(2026, time.August, 28))
	if !got.IsZero() {
		t.Fatalf("unknown frequency should yield zero time, got %v", got)
	}
}
