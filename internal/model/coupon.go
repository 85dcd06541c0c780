package model

import "time"

// Coupon is a discount code in the `coupons` table. Codes are unique and
// single use: Used flips to true exactly once, after which the coupon can
// never be redeemed again.
type Coupon struct {
	ID                 uint64    `json:"id"`                  // coupons.id
	Code               string    `json:"code"`                // coupons.code
	DiscountPercentage uint32    `json:"discount_percentage"` // coupons.discount_percentage
	ExpiresAt          time.Time `json:"expires_at"`          // coupons.expires_at
	Used               bool      `json:"used"`                // coupons.used
}

// Expired reports whether the coupon's expiry timestamp has passed at t.
func (c Coupon) Expired(t time.Time) bool {
	return t.After(c.ExpiresAt)
}
