package core

import (
	"strconv"
	"strings"
	"time"
)

// MonthKey is the sortable form of a month label such as "Jan 2024".
// Month is 1-12, or 0 when the label's month token was not recognized.
type MonthKey struct {
	Year  int
	Month int
}

var monthNumbers = map[string]int{
	"january": 1, "jan": 1,
	"february": 2, "feb": 2,
	"march": 3, "mar": 3,
	"april": 4, "apr": 4,
	"may": 5,
	"june": 6, "jun": 6,
	"july": 7, "jul": 7,
	"august": 8, "aug": 8,
	"september": 9, "sep": 9,
	"october": 10, "oct": 10,
	"november": 11, "nov": 11,
	"december": 12, "dec": 12,
}

// ParseMonthKey parses label against the current calendar year.
func ParseMonthKey(label string) MonthKey {
	return ParseMonthKeyAt(label, time.Now())
}

// ParseMonthKeyAt parses "<Month>" or "<Month> <Year>" labels. It never fails:
// unknown month names give Month 0 and a missing or non-numeric year falls
// back to now's year.
func ParseMonthKeyAt(label string, now time.Time) MonthKey {
	key := MonthKey{Year: now.Year()}

	tokens := strings.Fields(label)
	if len(tokens) == 0 {
		return key
	}
	key.Month = MonthNumber(tokens[0])

	if len(tokens) > 1 {
		if y, err := strconv.Atoi(tokens[1]); err == nil {
			key.Year = y
		}
	}
	return key
}

// MonthNumber resolves a full or three-letter English month name to 1-12,
// case-insensitively. Anything else resolves to 0.
func MonthNumber(token string) int {
	return monthNumbers[strings.ToLower(strings.TrimSpace(token))]
}

// Less reports whether k sorts before other.
func (k MonthKey) Less(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// Compare returns -1, 0 or +1 like cmp.Compare.
func (k MonthKey) Compare(other MonthKey) int {
	switch {
	case k.Less(other):
		return -1
	case other.Less(k):
		return 1
	default:
		return 0
	}
}

// IsKnown reports whether the month token was recognized.
func (k MonthKey) IsKnown() bool {
	return k.Month >= 1 && k.Month <= 12
}
