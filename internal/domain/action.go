package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dividend is a cash dividend, dated by its ex-dividend date.
type Dividend struct {
	Symbol string
	ExDate time.Time
	Amount decimal.Decimal // per-share cash amount in listing currency
}

// Split is a share split expressed as a ratio, e.g. 4/1 for a
// four-for-one split and 1/10 for a reverse split.
type Split struct {
	Symbol      string
	Date        time.Time
	Numerator   int64
	Denominator int64
}

// Factor returns the split ratio as an exact decimal.
func (s Split) Factor() decimal.Decimal {
	return decimal.NewFromInt(s.Numerator).Div(decimal.NewFromInt(s.Denominator))
}
