// Package dates normalizes the assorted closing-date spellings used by
// upstream tender portals into canonical calendar dates.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Layouts attempted in priority order. The first successful parse wins.
var layouts = []string{
	"2006-01-02",
	"2/1/2006",
	"2-1-2006",
	"2 January 2006",
	"2 Jan 2006",
}

// Prefixes stripped before parsing. Portals decorate closing dates with
// labels like "Closing: 18 Mar".
var prefixes = []string{
	"closing date:",
	"closing:",
	"closes:",
	"date:",
}

// dayMonthRe extracts "18 Mar" style fragments with no year.
var dayMonthRe = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\b`)

var monthIndex = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Normalize parses raw closing-date text against a reference date.
// It returns the canonical closing date, whether parsing succeeded, and
// the days remaining (whole days, floored at zero).
//
// When the text carries no year ("18 Mar"), the year is inferred: the
// reference year if the date has not yet passed, otherwise the next
// year. Unparseable input yields (zero, false, 0).
func Normalize(raw string, ref time.Time) (time.Time, bool, int) {
	text := strings.TrimSpace(raw)
	lower := strings.ToLower(text)
	for _, p := range prefixes {
		if strings.HasPrefix(lower, p) {
			text = strings.TrimSpace(text[len(p):])
			break
		}
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true, daysRemaining(t, ref)
		}
	}

	if m := dayMonthRe.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month := monthIndex[strings.ToLower(m[2])]
		t := time.Date(ref.Year(), month, day, 0, 0, 0, 0, time.UTC)
		// Year-end rollover: a listing closing "18 Mar" seen in April
		// refers to next March.
		if t.Before(truncate(ref)) {
			t = time.Date(ref.Year()+1, month, day, 0, 0, 0, 0, time.UTC)
		}
		return t, true, daysRemaining(t, ref)
	}

	return time.Time{}, false, 0
}

// daysRemaining counts whole days from ref to closing, floored at zero.
// Expired tenders report zero rather than a negative count.
func daysRemaining(closing, ref time.Time) int {
	days := int(closing.Sub(truncate(ref)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
