package core

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	DateMonthFirst DateFormat = "MM/DD/YYYY"
	DateDayFirst   DateFormat = "DD/MM/YYYY"
	DateISO        DateFormat = "YYYY-MM-DD"
)

const maxUserNameLen = 100

// DateFormat is the user's preferred way of displaying calendar dates.
type DateFormat string

func (f DateFormat) IsValid() bool {
	switch f {
	case DateMonthFirst, DateDayFirst, DateISO:
		return true
	default:
		return false
	}
}

func (f DateFormat) layout() string {
	switch f {
	case DateMonthFirst:
		return "01/02/2006"
	case DateDayFirst:
		return "02/01/2006"
	default:
		return time.DateOnly
	}
}

// FormatDate renders a YYYY-MM-DD date in format f. Dates that do not parse
// are returned unchanged, and an unknown format falls back to DateISO.
func FormatDate(f DateFormat, date string) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return t.Format(f.layout())
}

type (
	// User identifies the account behind an Authorization header.
	User struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	// Profile holds the user's display settings as stored upstream.
	Profile struct {
		Currency   Currency   `json:"currency"`
		DateFormat DateFormat `json:"date_format"`
	}

	// ProfileUpdate is the settings payload. Empty fields are left unchanged
	// upstream.
	ProfileUpdate struct {
		Name       string     `json:"name,omitempty"`
		Email      string     `json:"email,omitempty"`
		Currency   Currency   `json:"currency,omitempty"`
		DateFormat DateFormat `json:"date_format,omitempty"`
	}
)

var (
	ErrInvalidCurrency   = errors.New("currency must be USD, EUR or GBP")
	ErrInvalidDateFormat = errors.New("date format must be MM/DD/YYYY, DD/MM/YYYY or YYYY-MM-DD")
	ErrUserNameTooLong   = errors.New("name must be less than 100 characters")
	ErrInvalidEmail      = errors.New("email address is invalid")
	ErrEmptyProfile      = errors.New("at least one setting is required")
)

// WithDefaults fills fields that are missing or unknown from fallback.
func (p Profile) WithDefaults(fallback Profile) Profile {
	if !p.Currency.IsValid() {
		p.Currency = fallback.Currency
	}
	if !p.DateFormat.IsValid() {
		p.DateFormat = fallback.DateFormat
	}
	return p
}

func (u ProfileUpdate) Validate() error {
	if u == (ProfileUpdate{}) {
		return ErrEmptyProfile
	}
	if utf8.RuneCountInString(strings.TrimSpace(u.Name)) > maxUserNameLen {
		return ErrUserNameTooLong
	}
	if u.Email != "" {
		local, domain, ok := strings.Cut(strings.TrimSpace(u.Email), "@")
		if !ok || local == "" || !strings.Contains(domain, ".") {
			return ErrInvalidEmail
		}
	}
	if u.Currency != "" && !u.Currency.IsValid() {
		return ErrInvalidCurrency
	}
	if u.DateFormat != "" && !u.DateFormat.IsValid() {
		return ErrInvalidDateFormat
	}
	return nil
}
