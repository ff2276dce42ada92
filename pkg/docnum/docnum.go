// Package docnum generates document numbers for invoices and POS
// transactions. The millisecond timestamp makes collisions unlikely but not
// impossible; uniqueness is ultimately enforced by the database unique index
// on the number column. On a duplicate-key insert the create operation fails
// with a conflict error and the caller retries with a freshly generated
// number. Numbers are assigned exactly once, at creation, and never reused.
package docnum

import (
	"fmt"
	"time"
)

// InvoiceNumber returns an invoice number in the form INV-<year>-<epochMillis>.
func InvoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%04d-%d", now.Year(), now.UnixMilli())
}

// TransactionNumber returns a POS transaction number in the form TXN-<epochMillis>.
func TransactionNumber(now time.Time) string {
	return fmt.Sprintf("TXN-%d", now.UnixMilli())
}
