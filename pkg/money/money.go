// Package money implements the monetary arithmetic used by POS transactions
// and invoices. All amounts are fixed-point decimals with two fractional
// digits; binary floating point is never used for money.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits carried by every monetary amount.
const Places = 2

// Line describes one line item for total computation.
type Line struct {
	Quantity       int
	UnitPrice      decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
}

// Totals holds document-level aggregates.
type Totals struct {
	SubTotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	TotalAmount    decimal.Decimal
}

// Round2 rounds half-up to two decimal places. Applied after each
// multiplication, before summation, so stored line totals match per-line
// display amounts.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Gross returns round2(quantity * unit_price) for a line.
func Gross(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return Round2(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
}

// LineTotal computes round2(quantity*unit_price) - discount + tax.
// A negative result is an input error, not silently clamped: callers must
// ensure discount does not exceed the gross amount.
func LineTotal(quantity int, unitPrice, discount, tax decimal.Decimal) (decimal.Decimal, error) {
	if quantity < 1 {
		return decimal.Zero, fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}
	if unitPrice.IsNegative() {
		return decimal.Zero, fmt.Errorf("unit price must not be negative, got %s", unitPrice)
	}
	if discount.IsNegative() {
		return decimal.Zero, fmt.Errorf("discount must not be negative, got %s", discount)
	}
	if tax.IsNegative() {
		return decimal.Zero, fmt.Errorf("tax must not be negative, got %s", tax)
	}

	total := Gross(quantity, unitPrice).Sub(discount).Add(tax)
	if total.IsNegative() {
		return decimal.Zero, fmt.Errorf("line total is negative (%s): discount exceeds gross amount", total)
	}
	return total, nil
}

// DocumentTotals aggregates lines into document-level amounts:
// subtotal = sum of per-line gross amounts, discount and tax are summed
// per line, total = subtotal - discount + tax.
func DocumentTotals(lines []Line) (Totals, error) {
	t := Totals{
		SubTotal:       decimal.Zero,
		DiscountAmount: decimal.Zero,
		TaxAmount:      decimal.Zero,
		TotalAmount:    decimal.Zero,
	}

	for i, line := range lines {
		if _, err := LineTotal(line.Quantity, line.UnitPrice, line.DiscountAmount, line.TaxAmount); err != nil {
			return Totals{}, fmt.Errorf("line %d: %w", i+1, err)
		}
		t.SubTotal = t.SubTotal.Add(Gross(line.Quantity, line.UnitPrice))
		t.DiscountAmount = t.DiscountAmount.Add(line.DiscountAmount)
		t.TaxAmount = t.TaxAmount.Add(line.TaxAmount)
	}

	t.TotalAmount = t.SubTotal.Sub(t.DiscountAmount).Add(t.TaxAmount)
	if t.TotalAmount.IsNegative() {
		return Totals{}, fmt.Errorf("document total is negative (%s)", t.TotalAmount)
	}
	return t, nil
}

// DocumentTotalsWithTax aggregates lines but uses a caller-supplied
// document-level tax instead of per-line tax. POS sales carry tax at the
// transaction level only.
func DocumentTotalsWithTax(lines []Line, documentTax decimal.Decimal) (Totals, error) {
	if documentTax.IsNegative() {
		return Totals{}, fmt.Errorf("tax must not be negative, got %s", documentTax)
	}

	stripped := make([]Line, len(lines))
	for i, line := range lines {
		line.TaxAmount = decimal.Zero
		stripped[i] = line
	}

	t, err := DocumentTotals(stripped)
	if err != nil {
		return Totals{}, err
	}
	t.TaxAmount = documentTax
	t.TotalAmount = t.SubTotal.Sub(t.DiscountAmount).Add(documentTax)
	return t, nil
}
