package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRound2(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no rounding needed", "10.00", "10"},
		{"half rounds up", "10.005", "10.01"},
		{"below half rounds down", "10.004", "10"},
		{"negative half rounds away from zero", "-10.005", "-10.01"},
		{"three lines of 33.333", "99.999", "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, Round2(d(tt.input)).Equal(d(tt.expected)),
				"Round2(%s) = %s, want %s", tt.input, Round2(d(tt.input)), tt.expected)
		})
	}
}

func TestGross(t *testing.T) {
	assert.True(t, Gross(2, d("100.00")).Equal(d("200.00")))
	assert.True(t, Gross(3, d("0.333")).Equal(d("1.00")))
	assert.True(t, Gross(1, d("0")).Equal(d("0")))
}

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		price    string
		discount string
		tax      string
		expected string
		wantErr  bool
	}{
		{"plain", 2, "100.00", "0", "0", "200.00", false},
		{"with discount and tax", 1, "50.00", "5.00", "2.00", "47.00", false},
		{"discount equals gross", 1, "10.00", "10.00", "0", "0.00", false},
		{"tax only", 4, "25.00", "0", "18.00", "118.00", false},
		{"fractional price rounds before discount", 3, "0.335", "0.01", "0", "1.00", false},
		{"zero quantity", 0, "10.00", "0", "0", "", true},
		{"negative quantity", -1, "10.00", "0", "0", "", true},
		{"negative price", 1, "-10.00", "0", "0", "", true},
		{"negative discount", 1, "10.00", "-1.00", "0", "", true},
		{"negative tax", 1, "10.00", "0", "-1.00", "", true},
		{"discount exceeds gross", 1, "10.00", "15.00", "0", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := LineTotal(tt.quantity, d(tt.price), d(tt.discount), d(tt.tax))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, total.Equal(d(tt.expected)),
				"LineTotal = %s, want %s", total, tt.expected)
		})
	}
}

func TestLineTotalDiscountExceedsGrossButTaxCompensates(t *testing.T) {
	// Total ends up non-negative only because of tax; still valid
	total, err := LineTotal(1, d("10.00"), d("12.00"), d("3.00"))
	require.NoError(t, err)
	assert.True(t, total.Equal(d("1.00")))
}

func TestDocumentTotals(t *testing.T) {
	t.Run("single line with discount and tax", func(t *testing.T) {
		totals, err := DocumentTotals([]Line{
			{Quantity: 1, UnitPrice: d("50.00"), DiscountAmount: d("5.00"), TaxAmount: d("2.00")},
		})
		require.NoError(t, err)
		assert.True(t, totals.SubTotal.Equal(d("50.00")))
		assert.True(t, totals.DiscountAmount.Equal(d("5.00")))
		assert.True(t, totals.TaxAmount.Equal(d("2.00")))
		assert.True(t, totals.TotalAmount.Equal(d("47.00")))
	})

	t.Run("multiple lines sum per line", func(t *testing.T) {
		totals, err := DocumentTotals([]Line{
			{Quantity: 2, UnitPrice: d("100.00")},
			{Quantity: 1, UnitPrice: d("30.00"), DiscountAmount: d("10.00"), TaxAmount: d("4.00")},
		})
		require.NoError(t, err)
		assert.True(t, totals.SubTotal.Equal(d("230.00")))
		assert.True(t, totals.DiscountAmount.Equal(d("10.00")))
		assert.True(t, totals.TaxAmount.Equal(d("4.00")))
		assert.True(t, totals.TotalAmount.Equal(d("224.00")))
	})

	t.Run("empty lines give zero totals", func(t *testing.T) {
		totals, err := DocumentTotals(nil)
		require.NoError(t, err)
		assert.True(t, totals.TotalAmount.IsZero())
		assert.True(t, totals.SubTotal.IsZero())
	})

	t.Run("invalid line reports its index", func(t *testing.T) {
		_, err := DocumentTotals([]Line{
			{Quantity: 1, UnitPrice: d("10.00")},
			{Quantity: 0, UnitPrice: d("10.00")},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("rounding happens per line before summation", func(t *testing.T) {
		// 3 * 0.335 = 1.005 -> 1.01 per line; two lines -> subtotal 2.02,
		// not round2(2.01) of the unrounded sum
		totals, err := DocumentTotals([]Line{
			{Quantity: 3, UnitPrice: d("0.335")},
			{Quantity: 3, UnitPrice: d("0.335")},
		})
		require.NoError(t, err)
		assert.True(t, totals.SubTotal.Equal(d("2.02")),
			"subtotal = %s, want 2.02", totals.SubTotal)
	})
}

func TestDocumentTotalsWithTax(t *testing.T) {
	t.Run("document level tax replaces per line tax", func(t *testing.T) {
		totals, err := DocumentTotalsWithTax([]Line{
			{Quantity: 2, UnitPrice: d("100.00")},
		}, d("18.00"))
		require.NoError(t, err)
		assert.True(t, totals.SubTotal.Equal(d("200.00")))
		assert.True(t, totals.TaxAmount.Equal(d("18.00")))
		assert.True(t, totals.TotalAmount.Equal(d("218.00")))
	})

	t.Run("per line tax is ignored", func(t *testing.T) {
		totals, err := DocumentTotalsWithTax([]Line{
			{Quantity: 1, UnitPrice: d("100.00"), TaxAmount: d("99.00")},
		}, d("5.00"))
		require.NoError(t, err)
		assert.True(t, totals.TaxAmount.Equal(d("5.00")))
		assert.True(t, totals.TotalAmount.Equal(d("105.00")))
	})

	t.Run("negative tax rejected", func(t *testing.T) {
		_, err := DocumentTotalsWithTax([]Line{
			{Quantity: 1, UnitPrice: d("10.00")},
		}, d("-1.00"))
		assert.Error(t, err)
	})
}
