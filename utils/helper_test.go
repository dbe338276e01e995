package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate(" 2025-03-31 ")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !got.Equal(date(2025, 3, 31)) {
		t.Fatalf("got %v", got)
	}
	if _, err := ParseDate(""); err == nil {
		t.Fatalf("empty string must not parse")
	}
	if _, err := ParseDate("31/03/2025"); err == nil {
		t.Fatalf("wrong layout must not parse")
	}
}

func TestDateOnly(t *testing.T) {
	ts := time.Date(2025, 3, 31, 23, 59, 59, 123, time.UTC)
	if got := DateOnly(ts); !got.Equal(date(2025, 3, 31)) {
		t.Fatalf("got %v", got)
	}
}

func TestMonthsBetween(t *testing.T) {
	cases := []struct {
		from, to time.Time
		want     int
	}{
		{date(2025, 1, 31), date(2026, 1, 31), 12},
		{date(2025, 1, 31), date(2025, 1, 31), 0},
		{date(2025, 1, 31), date(2024, 6, 30), 0}, // past maturity never negative
		{date(2025, 1, 15), date(2025, 3, 14), 1}, // partial trailing month dropped
		{date(2025, 1, 15), date(2025, 3, 15), 2},
		{date(2025, 1, 31), date(2027, 1, 31), 24},
	}
	for _, tc := range cases {
		if got := MonthsBetween(tc.from, tc.to); got != tc.want {
			t.Errorf("MonthsBetween(%v, %v) = %d, want %d", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestParseDecimal(t *testing.T) {
	if d, err := ParseDecimal(" 12.34 "); err != nil || !d.Equal(decimal.RequireFromString("12.34")) {
		t.Fatalf("ParseDecimal = %v, %v", d, err)
	}
	if _, err := ParseDecimal(""); err == nil {
		t.Fatalf("empty string must not parse")
	}
	if _, err := ParseDecimal("abc"); err == nil {
		t.Fatalf("garbage must not parse")
	}
}

func TestClampDecimal(t *testing.T) {
	lo, hi := decimal.Zero, decimal.NewFromInt(100)
	if got := ClampDecimal(decimal.NewFromInt(-5), lo, hi); !got.Equal(lo) {
		t.Fatalf("got %s", got)
	}
	if got := ClampDecimal(decimal.NewFromInt(105), lo, hi); !got.Equal(hi) {
		t.Fatalf("got %s", got)
	}
	if got := ClampDecimal(decimal.NewFromInt(50), lo, hi); !got.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("got %s", got)
	}
}
