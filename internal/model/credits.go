package model

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// Credits is an integer amount of the platform currency.
type Credits int64

// MaxTransactionAmount caps the amount of a single purchase or payment.
const MaxTransactionAmount Credits = 1_000_000

// AddSaturating returns a+b clamped to the int64 range.
func AddSaturating(a, b Credits) Credits {
	s := a + b
	switch {
	case b > 0 && s < a:
		return math.MaxInt64
	case b < 0 && s > a:
		return math.MinInt64
	}
	return s
}

func (c Credits) ToUSD() decimal.Decimal {
	return decimal.NewFromInt(int64(c)).Mul(decimal.NewFromInt(CreditValueUSD))
}

// FromUSD converts a display-currency amount to whole credits, rounding down.
func FromUSD(usd decimal.Decimal) (Credits, error) {
	if usd.IsNegative() {
		return 0, errors.New("usd amount must be positive")
	}
	credits := usd.Div(decimal.NewFromInt(CreditValueUSD)).Floor()
	if !credits.IsInteger() || credits.GreaterThan(decimal.NewFromInt(maxCredits)) {
		return 0, errors.New("credits overflow")
	}
	return Credits(credits.IntPart()), nil
}

const maxCredits = 1 << 53
