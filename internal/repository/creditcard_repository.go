package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/car-rental-reservation/internal/model"
)

// CreditCardRepo stores at most one payment card per user. The repo works
// with already-encrypted card number and CVV values; encryption happens in
// the handler layer through the injected card cipher.
type CreditCardRepo struct{ DB *sql.DB }

func NewCreditCardRepo(db *sql.DB) *CreditCardRepo { return &CreditCardRepo{DB: db} }

// Create inserts a card row. The unique key on user_id enforces the
// one-card-per-user rule; a violation maps to ErrCardExists.
func (r *CreditCardRepo) Create(ctx context.Context, card *model.CreditCard) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO credit_cards (user_id, card_holder_name, card_number, expiry_month, expiry_year, cvv, card_type)
		 VALUES (?,?,?,?,?,?,?)`,
		card.UserID, card.CardHolderName, card.CardNumber,
		card.ExpiryMonth, card.ExpiryYear, card.CVV, card.CardType)
	if err != nil {
		if isDuplicate(err) {
			return ErrCardExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	card.ID = uint64(id)
	return nil
}

// GetByUser fetches the stored card of a user; sql.ErrNoRows when the
// user has none.
func (r *CreditCardRepo) GetByUser(ctx context.Context, userID uint64) (model.CreditCard, error) {
	var c model.CreditCard
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, card_holder_name, card_number, expiry_month, expiry_year, cvv, card_type, created_at, updated_at
		 FROM credit_cards WHERE user_id=? LIMIT 1`, userID).Scan(
		&c.ID, &c.UserID, &c.CardHolderName, &c.CardNumber,
		&c.ExpiryMonth, &c.ExpiryYear, &c.CVV, &c.CardType, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// ExistsForUser reports whether the user already stored a card.
func (r *CreditCardRepo) ExistsForUser(ctx context.Context, userID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM credit_cards WHERE user_id=? LIMIT 1", userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
