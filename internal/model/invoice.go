package model

import "time"

// Invoice statuses. New invoices start incomplete and are moved by their
// owner to complete or cancelled after the payment step.
const (
	InvoiceStatusComplete   = "complete"
	InvoiceStatusIncomplete = "incomplete"
	InvoiceStatusCancelled  = "cancelled"
)

// ValidInvoiceStatus reports whether s is one of the allowed statuses.
func ValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceStatusComplete, InvoiceStatusIncomplete, InvoiceStatusCancelled:
		return true
	}
	return false
}

// Invoice is a row in the `invoices` table, created after checkout and
// referencing the reservation it bills.
type Invoice struct {
	ID            uint64    `json:"id"`             // invoices.id
	UserID        uint64    `json:"user_id"`        // invoices.user_id
	ReservationID uint64    `json:"reservation_id"` // invoices.reservation_id
	Amount        float64   `json:"amount"`         // invoices.amount
	Status        string    `json:"status"`         // invoices.status
	IssuedAt      time.Time `json:"issued_at"`      // invoices.issued_at
}
