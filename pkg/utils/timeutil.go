// Package utils provides small shared helpers: IST time handling, the
// NSE date format, and symbol normalization.
package utils

import (
	"time"
)

// NSEDateLayout is the textual date form used throughout NSE payloads
// and holiday lists: DD-Mon-YYYY, e.g. "26-Feb-2025".
const NSEDateLayout = "02-Jan-2006"

// IST is the Indian Standard Time location (UTC+5:30).
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fallback: fixed zone if the tz database is not available
		IST = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// NowIST returns the current time in IST.
func NowIST() time.Time {
	return time.Now().In(IST)
}

// ParseNSEDate parses a DD-Mon-YYYY date string.
func ParseNSEDate(s string) (time.Time, error) {
	return time.Parse(NSEDateLayout, s)
}

// FormatNSEDate renders a time as DD-Mon-YYYY.
func FormatNSEDate(t time.Time) string {
	return t.Format(NSEDateLayout)
}

// FormatDateTimeIST renders a timestamp for display, in IST.
func FormatDateTimeIST(t time.Time) string {
	return t.In(IST).Format("02-Jan-2006 15:04:05 IST")
}

// MarketOpenTime returns the NSE market opening time (9:15 AM IST) for a date.
func MarketOpenTime(date time.Time) time.Time {
	d := date.In(IST)
	return time.Date(d.Year(), d.Month(), d.Day(), 9, 15, 0, 0, IST)
}

// MarketCloseTime returns the NSE market closing time (3:30 PM IST) for a date.
func MarketCloseTime(date time.Time) time.Time {
	d := date.In(IST)
	return time.Date(d.Year(), d.Month(), d.Day(), 15, 30, 0, 0, IST)
}

// IsMarketOpenAt checks if the NSE market would be open at the given time.
// Weekends are closed; exchange holidays are the calendar package's concern.
func IsMarketOpenAt(t time.Time) bool {
	t = t.In(IST)
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !t.Before(MarketOpenTime(t)) && t.Before(MarketCloseTime(t))
}

// MarketStatus returns a human-readable market status string.
func MarketStatus() string {
	if IsMarketOpenAt(NowIST()) {
		return "OPEN"
	}
	return "CLOSED"
}
