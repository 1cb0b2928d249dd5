package report

import "github.com/shopspring/decimal"

type Polarity string

const (
	HigherIsBetter Polarity = "HIGHER_IS_BETTER"
	LowerIsBetter  Polarity = "LOWER_IS_BETTER"
)

var hundred = decimal.NewFromInt(100)

// PercentChange is (cur-prev)/prev in percent, or zero when prev is zero.
func PercentChange(cur, prev decimal.Decimal) decimal.Decimal {
	if prev.IsZero() {
		return decimal.Zero
	}
	return cur.Sub(prev).Div(prev).Mul(hundred)
}

// Delta compares one metric across the current and comparison windows.
// Comparable is false when there is no baseline to compare against. Good is
// set only for a comparable, strictly favorable change; no change is neutral.
type Delta struct {
	Current    decimal.Decimal `json:"current"`
	Previous   decimal.Decimal `json:"previous"`
	Change     decimal.Decimal `json:"change"`
	Polarity   Polarity        `json:"polarity"`
	Comparable bool            `json:"comparable"`
	Good       bool            `json:"good"`
}

func NewDelta(cur, prev decimal.Decimal, p Polarity) Delta {
	change := PercentChange(cur, prev).Round(1)
	comparable := !prev.IsZero()
	good := change.IsPositive()
	if p == LowerIsBetter {
		good = change.IsNegative()
	}
	return Delta{
		Current:    cur,
		Previous:   prev,
		Change:     change,
		Polarity:   p,
		Comparable: comparable,
		Good:       comparable && good,
	}
}
