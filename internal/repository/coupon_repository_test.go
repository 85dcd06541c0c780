package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCouponRepoMock(t *testing.T) (*CouponRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCouponRepo(db), mock
}

func TestCouponGetByCode(t *testing.T) {
	repo, mock := newCouponRepoMock(t)

	expires := time.Now().UTC().Add(24 * time.Hour)
	rows := sqlmock.NewRows([]string{"id", "code", "discount_percentage", "expires_at", "used"}).
		AddRow(1, "WELCOME10", 10, expires, false)
	mock.ExpectQuery("SELECT .+ FROM coupons WHERE code=").
		WithArgs("WELCOME10").
		WillReturnRows(rows)

	c, err := repo.GetByCode(context.Background(), "WELCOME10")
	require.NoError(t, err)
	assert.Equal(t, uint32(10), c.DiscountPercentage)
	assert.False(t, c.Used)
	assert.False(t, c.Expired(time.Now().UTC()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCouponGetByCodeNotFound(t *testing.T) {
	repo, mock := newCouponRepoMock(t)

	mock.ExpectQuery("SELECT .+ FROM coupons WHERE code=").
		WithArgs("NOPE").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByCode(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrCouponNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCouponMarkUsedOnce(t *testing.T) {
	repo, mock := newCouponRepoMock(t)

	mock.ExpectExec("UPDATE coupons SET used=1 WHERE code=. AND used=0").
		WithArgs("WELCOME10").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.MarkUsed(context.Background(), "WELCOME10"))

	// Second redeem affects zero rows and surfaces as sql.ErrNoRows.
	mock.ExpectExec("UPDATE coupons SET used=1 WHERE code=. AND used=0").
		WithArgs("WELCOME10").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.MarkUsed(context.Background(), "WELCOME10"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
