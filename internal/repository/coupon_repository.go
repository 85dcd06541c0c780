package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/car-rental-reservation/internal/model"
)

// CouponRepo looks up and consumes discount coupons.
type CouponRepo struct{ DB *sql.DB }

func NewCouponRepo(db *sql.DB) *CouponRepo { return &CouponRepo{DB: db} }

// GetByCode fetches a coupon by its unique code; ErrCouponNotFound when
// the code matches nothing.
func (r *CouponRepo) GetByCode(ctx context.Context, code string) (model.Coupon, error) {
	var c model.Coupon
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, code, discount_percentage, expires_at, used FROM coupons WHERE code=? LIMIT 1",
		code).Scan(&c.ID, &c.Code, &c.DiscountPercentage, &c.ExpiresAt, &c.Used)
	if err == sql.ErrNoRows {
		return c, ErrCouponNotFound
	}
	return c, err
}

// MarkUsed flips the used flag of a coupon exactly once. The WHERE guard
// on used=0 makes consumption single-shot even under concurrent redeems;
// a second call affects zero rows and reports sql.ErrNoRows.
func (r *CouponRepo) MarkUsed(ctx context.Context, code string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE coupons SET used=1 WHERE code=? AND used=0", code)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
