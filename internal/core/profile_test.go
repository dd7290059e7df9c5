package core

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatDate(t *testing.T) {
	cases := []struct {
		f    DateFormat
		in   string
		want string
	}{
		{DateISO, "2024-03-07", "2024-03-07"},
		{DateMonthFirst, "2024-03-07", "03/07/2024"},
		{DateDayFirst, "2024-03-07", "07/03/2024"},
		{"", "2024-03-07", "2024-03-07"},
		{"DD.MM.YYYY", "2024-03-07", "2024-03-07"},
		{DateDayFirst, "2024-03-07T10:00:00Z", "2024-03-07T10:00:00Z"},
		{DateMonthFirst, "", ""},
	}
	for _, tc := range cases {
		if got := FormatDate(tc.f, tc.in); got != tc.want {
			t.Fatalf("%q %q: expected %q, got %q", tc.f, tc.in, tc.want, got)
		}
	}
}

func TestProfileWithDefaults(t *testing.T) {
	fallback := Profile{Currency: EUR, DateFormat: DateISO}

	got := Profile{Currency: GBP, DateFormat: DateDayFirst}.WithDefaults(fallback)
	if got != (Profile{Currency: GBP, DateFormat: DateDayFirst}) {
		t.Fatalf("valid profile changed: %+v", got)
	}

	got = Profile{Currency: "JPY"}.WithDefaults(fallback)
	if got != fallback {
		t.Fatalf("expected fallback, got %+v", got)
	}
}

func TestProfileUpdateValidate(t *testing.T) {
	cases := []struct {
		in   ProfileUpdate
		want error
	}{
		{ProfileUpdate{Currency: EUR}, nil},
		{ProfileUpdate{DateFormat: DateDayFirst, Name: "Ana", Email: "ana@example.com"}, nil},
		{ProfileUpdate{}, ErrEmptyProfile},
		{ProfileUpdate{Currency: "JPY"}, ErrInvalidCurrency},
		{ProfileUpdate{DateFormat: "DD.MM.YYYY"}, ErrInvalidDateFormat},
		{ProfileUpdate{Email: "ana.example.com"}, ErrInvalidEmail},
		{ProfileUpdate{Email: "@example.com"}, ErrInvalidEmail},
		{ProfileUpdate{Name: strings.Repeat("ñ", 101)}, ErrUserNameTooLong},
		{ProfileUpdate{Name: strings.Repeat("ñ", 100)}, nil},
	}
	for i, tc := range cases {
		err := tc.in.Validate()
		if tc.want == nil && err != nil {
			t.Fatalf("case %d: expected ok, got %v", i, err)
		}
		if tc.want != nil && !errors.Is(err, tc.want) {
			t.Fatalf("case %d: expected %v, got %v", i, tc.want, err)
		}
	}
}
