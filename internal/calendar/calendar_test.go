package calendar

import (
	"math"
	"testing"
	"time"
)

func testCalendar() *Calendar {
	return New(map[int]Year{
		2025: {
			Holidays: []string{
				"26-Feb-2025", // Wed
				"14-Mar-2025", // Fri
				"18-Apr-2025", // Fri
			},
			TotalTradingDays: 247,
		},
	})
}

func TestTradingDaysBetween(t *testing.T) {
	c := testCalendar()

	// Mon 24-Feb .. Sun 02-Mar: 5 weekdays, minus Wed 26-Feb holiday = 4
	if got := c.TradingDaysBetween("24-Feb-2025", "02-Mar-2025"); got != 4 {
		t.Errorf("expected 4 trading days, got %d", got)
	}

	// A full week with no holidays: Mon 03-Mar .. Sun 09-Mar = 5
	if got := c.TradingDaysBetween("03-Mar-2025", "09-Mar-2025"); got != 5 {
		t.Errorf("expected 5 trading days, got %d", got)
	}

	// Single weekday, inclusive bounds
	if got := c.TradingDaysBetween("03-Mar-2025", "03-Mar-2025"); got != 1 {
		t.Errorf("expected 1 trading day, got %d", got)
	}

	// Single holiday
	if got := c.TradingDaysBetween("26-Feb-2025", "26-Feb-2025"); got != 0 {
		t.Errorf("expected 0 for a holiday, got %d", got)
	}
}

func TestTradingDaysBetweenDegenerate(t *testing.T) {
	c := testCalendar()

	if got := c.TradingDaysBetween("10-Mar-2025", "03-Mar-2025"); got != 0 {
		t.Errorf("expected 0 when start > end, got %d", got)
	}
	if got := c.TradingDaysBetween("not-a-date", "03-Mar-2025"); got != 0 {
		t.Errorf("expected 0 for malformed start, got %d", got)
	}
	if got := c.TradingDaysBetween("03-Mar-2025", "2025-03-10"); got != 0 {
		t.Errorf("expected 0 for malformed end, got %d", got)
	}
}

func TestTimeToExpiry(t *testing.T) {
	c := testCalendar()
	today := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC) // Monday

	// Mon 03-Mar .. Fri 07-Mar inclusive = 5 trading days
	tte := c.TimeToExpiry("07-Mar-2025", today)
	if tte.TradingDays != 5 {
		t.Errorf("expected 5 trading days, got %d", tte.TradingDays)
	}
	if tte.Fraction != "5/247" {
		t.Errorf("expected fraction 5/247, got %s", tte.Fraction)
	}
	want := 5.0 / 247.0
	if math.Abs(tte.T-want) > 1e-12 {
		t.Errorf("expected T=%f, got %f", want, tte.T)
	}
}

func TestTimeToExpiryDegenerate(t *testing.T) {
	c := testCalendar()
	today := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	// Year without a configured calendar
	tte := c.TimeToExpiry("07-Mar-2026", today)
	if tte.T != 0 || tte.Fraction != "0/0" || tte.TradingDays != 0 {
		t.Errorf("expected zero result for unconfigured year, got %+v", tte)
	}

	// Unparsable expiry
	tte = c.TimeToExpiry("soon", today)
	if tte.T != 0 || tte.Fraction != "0/0" || tte.TradingDays != 0 {
		t.Errorf("expected zero result for unparsable expiry, got %+v", tte)
	}

	// Zero trading-day total
	bad := New(map[int]Year{2025: {TotalTradingDays: 0}})
	tte = bad.TimeToExpiry("07-Mar-2025", today)
	if tte.T != 0 || tte.Fraction != "0/0" || tte.TradingDays != 0 {
		t.Errorf("expected zero result for zero total, got %+v", tte)
	}

	// Expiry already passed
	tte = c.TimeToExpiry("28-Feb-2025", today)
	if tte.TradingDays != 0 || tte.T != 0 {
		t.Errorf("expected zero days for past expiry, got %+v", tte)
	}
}

func TestRawDaysToExpiry(t *testing.T) {
	c := testCalendar()
	today := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	if got := c.RawDaysToExpiry("07-Mar-2025", today); got != 4 {
		t.Errorf("expected 4 raw days, got %d", got)
	}
	if got := c.RawDaysToExpiry("28-Feb-2025", today); got != 0 {
		t.Errorf("expected 0 for past expiry, got %d", got)
	}
	if got := c.RawDaysToExpiry("??", today); got != 0 {
		t.Errorf("expected 0 for malformed expiry, got %d", got)
	}
}

func TestIsHoliday(t *testing.T) {
	c := testCalendar()
	d := time.Date(2025, 2, 26, 15, 30, 0, 0, time.UTC)
	if !c.IsHoliday(d) {
		t.Error("26-Feb-2025 should be a holiday regardless of time of day")
	}
	if c.IsHoliday(time.Date(2025, 2, 27, 0, 0, 0, 0, time.UTC)) {
		t.Error("27-Feb-2025 is not a holiday")
	}
}
