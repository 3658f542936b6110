// Package calendar implements the trading-day calendar used to convert
// calendar expiry dates into trading-day time-to-expiry fractions.
//
// Calendars are keyed by year: each year carries its own holiday set and
// total trading-day count, and the expiry's year selects which set
// applies. An expiry in a year with no configured calendar degrades to a
// zero time-to-expiry rather than an error.
package calendar

import (
	"fmt"
	"time"

	"github.com/seenimoa/trinopricer/pkg/models"
	"github.com/seenimoa/trinopricer/pkg/utils"
)

// Year holds the trading-day configuration for one calendar year.
type Year struct {
	Holidays         []string // DD-Mon-YYYY; unparsable entries are ignored
	TotalTradingDays int
}

// Calendar answers trading-day queries against a set of configured years.
// Immutable after construction; safe for concurrent use.
type Calendar struct {
	years    map[int]Year
	holidays map[time.Time]bool // merged across years, normalized to midnight UTC
}

// New builds a Calendar from per-year configurations. Holiday strings that
// fail to parse are dropped silently, matching the tolerant handling of
// malformed dates everywhere else in the calendar.
func New(years map[int]Year) *Calendar {
	c := &Calendar{
		years:    make(map[int]Year, len(years)),
		holidays: make(map[time.Time]bool),
	}
	for y, yc := range years {
		c.years[y] = yc
		for _, h := range yc.Holidays {
			if d, err := utils.ParseNSEDate(h); err == nil {
				c.holidays[midnight(d)] = true
			}
		}
	}
	return c
}

// Years returns the configured calendar years in no particular order.
func (c *Calendar) Years() []int {
	out := make([]int, 0, len(c.years))
	for y := range c.years {
		out = append(out, y)
	}
	return out
}

// Year returns the configuration for a year, if configured.
func (c *Calendar) Year(y int) (Year, bool) {
	yc, ok := c.years[y]
	return yc, ok
}

// IsHoliday reports whether the given date is a configured exchange holiday.
func (c *Calendar) IsHoliday(d time.Time) bool {
	return c.holidays[midnight(d)]
}

// TradingDaysBetween counts the days in [start, end] inclusive whose
// weekday is Monday-Friday and which are not exchange holidays. Both
// bounds are DD-Mon-YYYY strings. Malformed input or start > end counts
// as zero; malformed dates never propagate an error.
func (c *Calendar) TradingDaysBetween(start, end string) int {
	startDate, err := utils.ParseNSEDate(start)
	if err != nil {
		return 0
	}
	endDate, err := utils.ParseNSEDate(end)
	if err != nil {
		return 0
	}
	if startDate.After(endDate) {
		return 0
	}

	count := 0
	for d := midnight(startDate); !d.After(endDate); d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			continue
		}
		if c.holidays[d] {
			continue
		}
		count++
	}
	return count
}

// TimeToExpiry computes the trading-day time-to-expiry fraction for an
// expiry date, counting from today. The expiry's year selects the holiday
// set and trading-day total. Returns a zero result when the expiry is
// unparsable, its year has no configured calendar, or the configured
// total is not positive. A zero result is a defined degenerate state,
// not an error.
func (c *Calendar) TimeToExpiry(expiry string, today time.Time) models.TimeToExpiry {
	zero := models.TimeToExpiry{T: 0, Fraction: "0/0", TradingDays: 0}

	expiryDate, err := utils.ParseNSEDate(expiry)
	if err != nil {
		return zero
	}

	yc, ok := c.years[expiryDate.Year()]
	if !ok {
		return zero
	}

	if yc.TotalTradingDays <= 0 {
		return zero
	}

	days := c.TradingDaysBetween(utils.FormatNSEDate(today), expiry)
	return models.TimeToExpiry{
		T:           float64(days) / float64(yc.TotalTradingDays),
		Fraction:    fmt.Sprintf("%d/%d", days, yc.TotalTradingDays),
		TradingDays: days,
	}
}

// RawDaysToExpiry returns the plain calendar-day count from today to the
// expiry, clamped at zero. Unparsable expiries count as zero.
func (c *Calendar) RawDaysToExpiry(expiry string, today time.Time) int {
	expiryDate, err := utils.ParseNSEDate(expiry)
	if err != nil {
		return 0
	}
	days := int(midnight(expiryDate).Sub(midnight(today)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
