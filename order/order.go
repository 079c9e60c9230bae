// Package order holds the bot's order records and the four-collection
// book that tracks them through their lifecycle.
package order

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Order is one venue-confirmed order. The shape is the shared contract
// with the exchange client: a record returned by placement must round-trip
// losslessly through later status queries.
type Order struct {
	ID         string
	Instrument string
	Side       Side
	Type       Type
	Status     Status
	Price      decimal.Decimal
	Quantity   decimal.Decimal
	LeavesQty  decimal.Decimal
	Timestamp  int64
}

// Intent is the unsubmitted description of an order to be placed.
type Intent struct {
	Instrument string
	Side       Side
	Type       Type
	Price      decimal.Decimal
	Quantity   decimal.Decimal
	Leverage   int
}

// CancelAllQty is the quantity sentinel for "cancel all remaining".
var CancelAllQty = decimal.NewFromInt(-1)

// Instrument is the base/quote/product triple the venue encodes as
// "base_quote_product", e.g. "btc_usdt_spot".
type Instrument struct {
	Base    string
	Quote   string
	Product string
}

// ParseInstrument splits a venue instrument identifier.
func ParseInstrument(s string) (Instrument, error) {
	parts := strings.Split(s, "_")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Instrument{}, fmt.Errorf("invalid instrument %q, want base_quote_product", s)
	}
	return Instrument{Base: parts[0], Quote: parts[1], Product: parts[2]}, nil
}

func (i Instrument) String() string {
	return i.Base + "_" + i.Quote + "_" + i.Product
}
