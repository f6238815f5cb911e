package timerange

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrUnparsedPhrase indicates that a query phrase matched no known keyword
// and contained no extractable calendar date. Callers receive the default
// month range alongside this error and may treat it as advisory.
var ErrUnparsedPhrase = errors.New("query phrase could not be interpreted")

// Kind identifies the shape of a resolved time range.
type Kind int

const (
	// Today covers the current calendar day.
	Today Kind = iota
	// ThisWeek covers Monday through Sunday of the current week.
	ThisWeek
	// ThisMonth covers the current calendar month.
	ThisMonth
	// Day covers a single literal calendar date.
	Day
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case Today:
		return "today"
	case ThisWeek:
		return "this_week"
	case ThisMonth:
		return "this_month"
	case Day:
		return "day"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Category is the result of classifying a query phrase. Date is only
// meaningful when Kind is Day.
type Category struct {
	Kind Kind
	Date time.Time
}

var isoDatePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// Classify maps a free-text query phrase to a range category.
//
// Matching is case-insensitive and substring-based, in fixed order:
// "today", then "week", then "month", then an embedded ISO date
// (YYYY-MM-DD). A phrase that matches nothing classifies as ThisMonth
// and additionally returns ErrUnparsedPhrase so callers can log the
// fallback instead of silently absorbing it.
func Classify(phrase string) (Category, error) {
	p := strings.ToLower(strings.TrimSpace(phrase))

	switch {
	case strings.Contains(p, "today"):
		return Category{Kind: Today}, nil
	case strings.Contains(p, "week"):
		return Category{Kind: ThisWeek}, nil
	case strings.Contains(p, "month"):
		return Category{Kind: ThisMonth}, nil
	}

	if match := isoDatePattern.FindString(p); match != "" {
		d, err := time.Parse("2006-01-02", match)
		if err != nil {
			return Category{Kind: ThisMonth}, fmt.Errorf("%w: %q looks like a date but does not parse", ErrUnparsedPhrase, match)
		}
		return Category{Kind: Day, Date: d}, nil
	}

	return Category{Kind: ThisMonth}, fmt.Errorf("%w: %q", ErrUnparsedPhrase, phrase)
}

// Resolve converts a category into a concrete [start, end] instant pair.
// The range is closed: end is the last whole second inside the range.
// All arithmetic is performed in UTC so the instants handed to the
// calendar API carry a truthful zone designator.
func Resolve(cat Category, now time.Time) (start, end time.Time) {
	now = now.UTC()

	switch cat.Kind {
	case Today:
		start = midnight(now)
		end = start.AddDate(0, 0, 1).Add(-time.Second)

	case ThisWeek:
		// Monday on or before now; Weekday counts Sunday as 0.
		offset := (int(now.Weekday()) + 6) % 7
		start = midnight(now.AddDate(0, 0, -offset))
		end = start.AddDate(0, 0, 7).Add(-time.Second)

	case Day:
		start = midnight(cat.Date.UTC())
		end = start.AddDate(0, 0, 1).Add(-time.Second)

	default: // ThisMonth
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0).Add(-time.Second)
	}

	return start, end
}

// FromPhrase resolves a phrase directly to a range, combining Classify and
// Resolve. The returned error is ErrUnparsedPhrase-wrapped when the phrase
// fell back to the month default; start and end are valid either way.
func FromPhrase(phrase string, now time.Time) (start, end time.Time, err error) {
	cat, err := Classify(phrase)
	start, end = Resolve(cat, now)
	return start, end, err
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
