package pricing

import (
    "errors"
    "testing"
    "time"
)

var base = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func TestQuoteInvalidRange(t *testing.T) {
    cases := []time.Time{
        base,                        // end == start
        base.Add(-time.Hour),        // end before start
        base.Add(-time.Millisecond), // just before start
    }
    for _, end := range cases {
        if _, err := Quote(base, end, 5, 35); !errors.Is(err, ErrInvalidRange) {
            t.Fatalf("end=%v: expected ErrInvalidRange, got %v", end, err)
        }
    }
}

func TestQuoteDailyRate(t *testing.T) {
    cases := []struct {
        name string
        dur  time.Duration
        want float64
    }{
        {"three hours bills one day", 3 * time.Hour, 35},
        {"one millisecond bills one day", time.Millisecond, 35},
        {"exactly 24h bills one day", 24 * time.Hour, 35},
        {"just under 24h bills one day", 23*time.Hour + 59*time.Minute, 35},
        {"a minute over 24h bills two days", 24*time.Hour + time.Minute, 70},
        {"three days exactly", 72 * time.Hour, 105},
        {"three days and an hour", 73 * time.Hour, 140},
    }
    for _, tc := range cases {
        got, err := Quote(base, base.Add(tc.dur), 5, 35)
        if err != nil {
            t.Fatalf("%s: unexpected error %v", tc.name, err)
        }
        if got != tc.want {
            t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
        }
    }
}

// Every valid window is billed at the daily rate: the hourly tariff
// never wins because a valid window always rounds up to at least one
// billable day.  This pins the published contract so a change to the
// tiering shows up as a test failure rather than a silent reprice.
func TestQuoteNeverUsesHourlyRate(t *testing.T) {
    durations := []time.Duration{
        time.Minute, time.Hour, 5 * time.Hour, 23 * time.Hour, 25 * time.Hour,
    }
    for _, d := range durations {
        got, err := Quote(base, base.Add(d), 5, 35)
        if err != nil {
            t.Fatalf("dur=%v: unexpected error %v", d, err)
        }
        hours := int64(d / time.Hour)
        if d%time.Hour != 0 {
            hours++
        }
        if hours < 1 {
            hours = 1
        }
        if got == float64(hours)*5 && got != float64((hours+23)/24)*35 {
            t.Fatalf("dur=%v: hourly rate applied (%v)", d, got)
        }
        days := (hours + 23) / 24
        if got != float64(days)*35 {
            t.Fatalf("dur=%v: got %v want %v", d, got, float64(days)*35)
        }
    }
}

func TestQuoteDeterministic(t *testing.T) {
    end := base.Add(26*time.Hour + 500*time.Millisecond)
    first, err := Quote(base, end, 4.5, 30)
    if err != nil {
        t.Fatalf("unexpected error %v", err)
    }
    for i := 0; i < 100; i++ {
        again, err := Quote(base, end, 4.5, 30)
        if err != nil || again != first {
            t.Fatalf("iteration %d: got (%v, %v), want (%v, nil)", i, again, err, first)
        }
    }
}
