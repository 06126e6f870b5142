package alignment

import (
	"github.com/shopspring/decimal"
)

// Sign is the direction of an available diff
type Sign int

const (
	// SignNone marks an unavailable diff
	SignNone Sign = iota
	SignPositive
	SignNegative
)

// String returns the sign name
func (s Sign) String() string {
	switch s {
	case SignPositive:
		return "positive"
	case SignNegative:
		return "negative"
	default:
		return "none"
	}
}

// MarshalText encodes the sign by name
func (s Sign) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Diff is a rounded price difference. Sign is SignNone iff the diff is unavailable.
type Diff struct {
	Value decimal.Decimal `json:"value"`
	Sign  Sign            `json:"sign"`
}

// Available reports whether the diff was computed
func (d Diff) Available() bool {
	return d.Sign != SignNone
}

// Negative reports whether the diff is available and below zero
func (d Diff) Negative() bool {
	return d.Sign == SignNegative
}

// diffPlaces is the rounding precision of every diff
const diffPlaces = 2

// unavailable is the zero Diff
var unavailable = Diff{}

// computeDiff returns current - base rounded to two places. A price that is
// zero or negative was never reported and makes the diff unavailable.
func computeDiff(current, base decimal.Decimal) Diff {
	if !reported(current) || !reported(base) {
		return unavailable
	}

	value := current.Sub(base).Round(diffPlaces)
	sign := SignPositive
	if value.IsNegative() {
		sign = SignNegative
	}
	return Diff{Value: value, Sign: sign}
}

func reported(price decimal.Decimal) bool {
	return price.IsPositive()
}
