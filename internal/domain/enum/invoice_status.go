package enum

// InvoiceStatus represents the lifecycle status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// invoiceTransitions is the allowed status graph. Paid and cancelled are
// terminal; overdue is only reachable from sent.
var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft:     {InvoiceStatusSent, InvoiceStatusCancelled},
	InvoiceStatusSent:      {InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled},
	InvoiceStatusOverdue:   {InvoiceStatusPaid, InvoiceStatusCancelled},
	InvoiceStatusPaid:      {},
	InvoiceStatusCancelled: {},
}

// IsValid reports whether s is a known invoice status
func (s InvoiceStatus) IsValid() bool {
	_, ok := invoiceTransitions[s]
	return ok
}

// IsTerminal reports whether no further transitions are allowed from s
func (s InvoiceStatus) IsTerminal() bool {
	return len(invoiceTransitions[s]) == 0 && s.IsValid()
}

// CanTransitionTo reports whether moving from s to target is allowed.
// Setting the same terminal status again is permitted so that re-marking
// an invoice paid stays idempotent.
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	if !s.IsValid() || !target.IsValid() {
		return false
	}
	if s == target {
		return true
	}
	for _, allowed := range invoiceTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (s InvoiceStatus) String() string {
	return string(s)
}
