package enum

import "github.com/shopspring/decimal"

// PaymentStatus represents how much of a transaction's total has been paid
type PaymentStatus string

const (
	PaymentStatusUnpaid        PaymentStatus = "unpaid"
	PaymentStatusPaid          PaymentStatus = "paid"
	PaymentStatusPartiallyPaid PaymentStatus = "partially_paid"
	PaymentStatusRefunded      PaymentStatus = "refunded"
)

// IsValid reports whether s is a known payment status
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPaid, PaymentStatusPartiallyPaid, PaymentStatusRefunded:
		return true
	}
	return false
}

// DerivePaymentStatus maps the sum of recorded payments against the
// transaction total: paid when payments cover the total, partially_paid
// when something but not everything was paid, unpaid otherwise.
func DerivePaymentStatus(paid, total decimal.Decimal) PaymentStatus {
	switch {
	case paid.GreaterThanOrEqual(total):
		return PaymentStatusPaid
	case paid.IsPositive():
		return PaymentStatusPartiallyPaid
	default:
		return PaymentStatusUnpaid
	}
}

func (s PaymentStatus) String() string {
	return string(s)
}
