package domain

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultMinorUnitFactor is the number of minor units (paise) in one major unit (rupee).
const DefaultMinorUnitFactor int64 = 100

// MaxMajorScale is the number of decimal places a stored major-unit amount keeps.
const MaxMajorScale = 2

// ParseMinorUnits parses a gateway amount, which must be an integer string.
// A leading '+' is rejected; the sign of a negative amount is left to the caller.
func ParseMinorUnits(amount string) (int64, error) {
	trimmed := strings.TrimSpace(amount)
	if trimmed == "" {
		return 0, NewInvalidAmountError(amount, errors.New("amount is empty"))
	}
	if strings.HasPrefix(trimmed, "+") {
		return 0, NewInvalidAmountError(amount, errors.New("amount has an explicit sign"))
	}
	minor, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, NewInvalidAmountError(amount, err)
	}
	return minor, nil
}

// MinorToMajor converts gateway minor units into the major unit stored on a Payment.
func MinorToMajor(minor, factor int64) decimal.Decimal {
	if factor <= 0 {
		factor = DefaultMinorUnitFactor
	}
	return decimal.NewFromInt(minor).Div(decimal.NewFromInt(factor))
}

// MajorToMinor converts a major-unit amount into gateway minor units.
// Amounts with more precision than the minor unit are rejected.
func MajorToMinor(major decimal.Decimal, factor int64) (int64, error) {
	if factor <= 0 {
		factor = DefaultMinorUnitFactor
	}
	minor := major.Mul(decimal.NewFromInt(factor))
	if !minor.Equal(minor.Truncate(0)) {
		return 0, NewInvalidAmountError(major.String(), errors.New("amount is finer than the minor unit"))
	}
	return minor.IntPart(), nil
}

// ParseMajorUnits parses a decimal amount expressed in major units, as used by the COD path.
func ParseMajorUnits(amount string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(amount)
	if trimmed == "" {
		return decimal.Zero, NewInvalidAmountError(amount, errors.New("amount is empty"))
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, NewInvalidAmountError(amount, err)
	}
	if d.IsNegative() {
		return decimal.Zero, NewInvalidAmountError(amount, errors.New("amount is negative"))
	}
	if !d.Equal(d.Truncate(MaxMajorScale)) {
		return decimal.Zero, NewInvalidAmountError(amount, errors.New("amount has more than two decimal places"))
	}
	return d, nil
}
