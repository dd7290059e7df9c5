package core

import (
	"strconv"
	"testing"
	"time"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestParseMonthKeyAllNamesAndYears(t *testing.T) {
	full := []string{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"}
	abbr := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

	for _, year := range []int{1999, 2023, 2024, 2031} {
		for i := range full {
			for _, name := range []string{full[i], abbr[i]} {
				label := name + " " + strconv.Itoa(year)
				got := ParseMonthKeyAt(label, fixedNow)
				want := MonthKey{Year: year, Month: i + 1}
				if got != want {
					t.Fatalf("%q: expected %+v, got %+v", label, want, got)
				}
			}
		}
	}
}

func TestParseMonthKeyDegenerate(t *testing.T) {
	cases := []struct {
		in   string
		want MonthKey
	}{
		{"", MonthKey{Year: 2025, Month: 0}},
		{"   ", MonthKey{Year: 2025, Month: 0}},
		{"Mar", MonthKey{Year: 2025, Month: 3}},
		{"march", MonthKey{Year: 2025, Month: 3}},
		{"DEC 2020", MonthKey{Year: 2020, Month: 12}},
		{"Foo 2024", MonthKey{Year: 2024, Month: 0}},
		{"Sept 2024", MonthKey{Year: 2024, Month: 0}},
		{"Jan twenty", MonthKey{Year: 2025, Month: 1}},
		{"  Feb\t2022  ", MonthKey{Year: 2022, Month: 2}},
		{"Apr 2021 extra", MonthKey{Year: 2021, Month: 4}},
		{"2024", MonthKey{Year: 2025, Month: 0}},
	}
	for _, tc := range cases {
		if got := ParseMonthKeyAt(tc.in, fixedNow); got != tc.want {
			t.Fatalf("%q: expected %+v, got %+v", tc.in, tc.want, got)
		}
	}
}

func TestParseMonthKeyUnknownTokens(t *testing.T) {
	for _, tok := range []string{"x", "Janu", "Mayo", "13", "Ene", "0", "🙂"} {
		if got := ParseMonthKeyAt(tok+" 2024", fixedNow); got.Month != 0 {
			t.Fatalf("%q expected month 0, got %d", tok, got.Month)
		}
		if ParseMonthKeyAt(tok, fixedNow).IsKnown() {
			t.Fatalf("%q should not be a known month", tok)
		}
	}
}

func TestParseMonthKeyUsesCurrentYear(t *testing.T) {
	got := ParseMonthKey("")
	if got.Year != time.Now().Year() || got.Month != 0 {
		t.Fatalf("expected current year and month 0, got %+v", got)
	}
}

func TestMonthKeyCompare(t *testing.T) {
	cases := []struct {
		a, b MonthKey
		want int
	}{
		{MonthKey{2024, 1}, MonthKey{2024, 2}, -1},
		{MonthKey{2024, 0}, MonthKey{2024, 1}, -1},
		{MonthKey{2023, 12}, MonthKey{2024, 0}, -1},
		{MonthKey{2024, 5}, MonthKey{2024, 5}, 0},
		{MonthKey{2025, 1}, MonthKey{2024, 12}, 1},
	}
	for i, tc := range cases {
		if got := tc.a.Compare(tc.b); got != tc.want {
			t.Fatalf("case %d: expected %d, got %d", i, tc.want, got)
		}
	}
}
