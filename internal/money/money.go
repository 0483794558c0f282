package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrTooManyDecimals = errors.New("amount has too many decimal places")
)

// Decimal places per transaction type: paise for cash, milligrams for gold.
const (
	CashPlaces = 2
	GoldPlaces = 3
)

// ParseAmount parses a positive decimal amount with at most maxPlaces
// decimal places.
func ParseAmount(raw string, maxPlaces int32) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrInvalidAmount
	}
	if amount.Exponent() < -maxPlaces {
		return decimal.Zero, ErrTooManyDecimals
	}
	return amount, nil
}

// FormatINR renders an amount with Indian digit grouping: the last three
// whole digits, then groups of two ("12,34,567.00"). Negative amounts keep
// their sign.
func FormatINR(amount decimal.Decimal) string {
	fixed := amount.StringFixed(CashPlaces)
	negative := strings.HasPrefix(fixed, "-")
	if negative {
		fixed = fixed[1:]
	}
	parts := strings.SplitN(fixed, ".", 2)
	grouped := groupIndian(parts[0])
	formatted := "₹" + grouped + "." + parts[1]
	if negative {
		return "-" + formatted
	}
	return formatted
}

// FormatGrams renders a gold weight to milligram precision, e.g. "9.176 g".
func FormatGrams(weight decimal.Decimal) string {
	return weight.StringFixed(GoldPlaces) + " g"
}

func groupIndian(whole string) string {
	if len(whole) <= 3 {
		return whole
	}
	head := whole[:len(whole)-3]
	tail := whole[len(whole)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)
	return strings.Join(groups, ",") + "," + tail
}
