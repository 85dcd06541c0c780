package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/car-rental-reservation/internal/model"
)

// InvoiceRepo persists invoices created after checkout.
type InvoiceRepo struct{ DB *sql.DB }

func NewInvoiceRepo(db *sql.DB) *InvoiceRepo { return &InvoiceRepo{DB: db} }

// Create inserts an invoice and fills the generated ID and issue time.
// An empty status falls back to the incomplete default.
func (r *InvoiceRepo) Create(ctx context.Context, inv *model.Invoice) error {
	if inv.Status == "" {
		inv.Status = model.InvoiceStatusIncomplete
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO invoices (user_id, reservation_id, amount, status) VALUES (?,?,?,?)",
		inv.UserID, inv.ReservationID, inv.Amount, inv.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	inv.ID = uint64(id)
	return r.DB.QueryRowContext(ctx,
		"SELECT issued_at FROM invoices WHERE id=?", inv.ID).Scan(&inv.IssuedAt)
}

// ListByUser returns the invoices of a user, newest first.
func (r *InvoiceRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Invoice, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, reservation_id, amount, status, issued_at
		 FROM invoices WHERE user_id=? ORDER BY issued_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	invoices := make([]model.Invoice, 0)
	for rows.Next() {
		var inv model.Invoice
		if err := rows.Scan(&inv.ID, &inv.UserID, &inv.ReservationID,
			&inv.Amount, &inv.Status, &inv.IssuedAt); err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// UpdateStatus sets the status of an invoice, scoped to its owner so a
// user can only mutate their own invoices. sql.ErrNoRows when the invoice
// does not exist or belongs to someone else.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, id, userID uint64, status string) (model.Invoice, error) {
	var inv model.Invoice
	_, err := r.DB.ExecContext(ctx,
		"UPDATE invoices SET status=? WHERE id=? AND user_id=?", status, id, userID)
	if err != nil {
		return inv, err
	}
	err = r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, reservation_id, amount, status, issued_at
		 FROM invoices WHERE id=? AND user_id=?`, id, userID).Scan(
		&inv.ID, &inv.UserID, &inv.ReservationID, &inv.Amount, &inv.Status, &inv.IssuedAt)
	return inv, err
}
