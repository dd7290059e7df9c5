// Package core holds the finance domain types and the pure computations
// behind the dashboard and analytics views.
//
// This file contains the display formatting for amounts and percentages.
// Values stay at full precision everywhere else; rounding happens here only.
package core

import (
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
)

// NoValue is shown in place of a percentage that could not be computed.
const NoValue = "--"

type Currency string

func (c Currency) Symbol() string {
	switch c {
	case EUR:
		return "€"
	case GBP:
		return "£"
	default:
		return "$"
	}
}

func (c Currency) IsValid() bool {
	switch c {
	case USD, EUR, GBP:
		return true
	default:
		return false
	}
}

// FormatMoney renders an amount with two decimals and the currency symbol,
// sign first: FormatMoney(USD, -12.5) == "-$12.50".
func FormatMoney(c Currency, amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-" + c.Symbol() + amount.Neg().StringFixed(2)
	}
	return c.Symbol() + amount.StringFixed(2)
}

// FormatPercent renders a percentage rounded to one decimal, or NoValue.
func FormatPercent(p *float64) string {
	if p == nil {
		return NoValue
	}
	return strconv.FormatFloat(*p, 'f', 1, 64) + "%"
}
