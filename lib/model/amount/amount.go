// Package amount implements the ledger's amount model: a decimal quantity
// in an interned commodity, optionally annotated with price quotes for
// conversion into other commodities.
package amount

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/plainbook/plainbook/lib/model/commodity"
	"github.com/plainbook/plainbook/lib/syntax"
)

// Price states that one unit of the amount's commodity equals Nominal
// units of Commodity, as observed at the point of use.
type Price struct {
	Nominal   decimal.Decimal
	Commodity int
}

// Amount is a quantity of an interned commodity with optional price
// annotations, in annotation order.
type Amount struct {
	Nominal   decimal.Decimal
	Commodity int
	Prices    []Price
}

// Zero returns the zero amount in the given commodity.
func Zero(commodity int) Amount {
	return Amount{Commodity: commodity}
}

// IsZero reports whether the nominal value is exactly zero.
func (a Amount) IsZero() bool {
	return a.Nominal.IsZero()
}

// Neg flips the sign of the nominal value. The commodity and the price
// annotations are unchanged.
func (a Amount) Neg() Amount {
	return Amount{
		Nominal:   a.Nominal.Neg(),
		Commodity: a.Commodity,
		Prices:    a.Prices,
	}
}

// ConversionError reports that an amount could not be converted into the
// required commodity because no matching price quote was attached.
type ConversionError struct {
	From, To int
}

func (e ConversionError) Error() string {
	return fmt.Sprintf("no price to convert commodity %d into commodity %d", e.From, e.To)
}

// Add adds b to a. If the commodities differ, b is converted through the
// first of its price quotes denominated in a's commodity; without such a
// quote, Add fails with a ConversionError.
func (a Amount) Add(b Amount) (Amount, error) {
	if a.Commodity == b.Commodity {
		a.Nominal = a.Nominal.Add(b.Nominal)
		return a, nil
	}
	for _, price := range b.Prices {
		if price.Commodity == a.Commodity {
			a.Nominal = a.Nominal.Add(b.Nominal.Mul(price.Nominal))
			return a, nil
		}
	}
	return a, ConversionError{From: b.Commodity, To: a.Commodity}
}

// Sub subtracts b from a, converting through b's price quotes if needed.
func (a Amount) Sub(b Amount) (Amount, error) {
	return a.Add(b.Neg())
}

// Create resolves a parsed amount against the commodity store, producing
// an index-referencing amount. Nested price annotations are flattened into
// the quote list in source order.
func Create(units *commodity.Store, a syntax.Amount) (Amount, error) {
	nominal, err := a.Quantity.Parse()
	if err != nil {
		return Amount{}, err
	}
	unit, err := units.Lookup(a.Commodity.Extract())
	if err != nil {
		return Amount{}, syntax.Error{Range: a.Commodity.Range, Message: "resolving commodity", Wrapped: err}
	}
	res := Amount{Nominal: nominal, Commodity: unit}
	for price := a.Price; price != nil; price = price.Price {
		rate, err := price.Quantity.Parse()
		if err != nil {
			return Amount{}, err
		}
		target, err := units.Lookup(price.Commodity.Extract())
		if err != nil {
			return Amount{}, syntax.Error{Range: price.Commodity.Range, Message: "resolving price commodity", Wrapped: err}
		}
		res.Prices = append(res.Prices, Price{Nominal: rate, Commodity: target})
	}
	return res, nil
}
