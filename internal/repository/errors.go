// Package repository implements raw-SQL data access for the rental
// backend. This file defines sentinel error values shared across the
// individual repositories so handlers and the reservation engine can map
// failures to HTTP statuses without string matching.
package repository

import (
	"errors"
	"strings"
)

// ErrCarNotFound is returned when a catalog lookup by id matches nothing.
var ErrCarNotFound = errors.New("car not found")

// ErrUserNotFound is returned when a user lookup by id matches nothing.
var ErrUserNotFound = errors.New("user not found")

// ErrCouponNotFound is returned when no coupon exists for a code.
var ErrCouponNotFound = errors.New("coupon not found")

// ErrEmailExists is returned when an insert or update would violate the
// unique key on users.email.
var ErrEmailExists = errors.New("email already exists")

// ErrCardExists is returned when a user who already stored a credit card
// tries to store another one (unique key on credit_cards.user_id).
var ErrCardExists = errors.New("credit card already exists for user")

// isDuplicate reports whether err is a MySQL duplicate-key violation.
// Error 1062 is ER_DUP_ENTRY.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
