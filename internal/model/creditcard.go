package model

import "time"

// CreditCard is a stored payment card in the `credit_cards` table. A user
// can store at most one card (unique key on user_id). CardNumber and CVV
// hold AES-256-CBC ciphertext in hex; they are decrypted only when the
// owner reads the card back. The json tags omit the sensitive columns so
// a raw model can never leak ciphertext; handlers build an explicit
// decrypted response instead.
type CreditCard struct {
	ID             uint64    `json:"id"`               // credit_cards.id
	UserID         uint64    `json:"user_id"`          // credit_cards.user_id
	CardHolderName string    `json:"card_holder_name"` // credit_cards.card_holder_name
	CardNumber     string    `json:"-"`                // credit_cards.card_number (encrypted)
	ExpiryMonth    uint32    `json:"expiry_month"`     // credit_cards.expiry_month
	ExpiryYear     uint32    `json:"expiry_year"`      // credit_cards.expiry_year
	CVV            string    `json:"-"`                // credit_cards.cvv (encrypted)
	CardType       string    `json:"card_type"`        // credit_cards.card_type
	CreatedAt      time.Time `json:"created_at"`       // credit_cards.created_at
	UpdatedAt      time.Time `json:"updated_at"`       // credit_cards.updated_at
}
