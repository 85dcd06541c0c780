package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/car-rental-reservation/internal/repository"
)

func couponHandlerMock(t *testing.T) (*CouponHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCouponHandler(repository.NewCouponRepo(db)), mock
}

func couponContext(code string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("code")
	c.SetParamValues(code)
	return c, rec
}

func couponRow(code string, expires time.Time, used bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "code", "discount_percentage", "expires_at", "used"}).
		AddRow(1, code, 10, expires, used)
}

func TestCouponGetValid(t *testing.T) {
	h, mock := couponHandlerMock(t)
	mock.ExpectQuery("SELECT .+ FROM coupons").
		WithArgs("WELCOME10").
		WillReturnRows(couponRow("WELCOME10", time.Now().UTC().Add(time.Hour), false))

	c, rec := couponContext("WELCOME10")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"WELCOME10"`)
}

func TestCouponGetUnknownCode(t *testing.T) {
	h, mock := couponHandlerMock(t)
	mock.ExpectQuery("SELECT .+ FROM coupons").
		WithArgs("NOPE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "discount_percentage", "expires_at", "used"}))

	c, rec := couponContext("NOPE")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCouponGetExpired(t *testing.T) {
	h, mock := couponHandlerMock(t)
	mock.ExpectQuery("SELECT .+ FROM coupons").
		WithArgs("OLD").
		WillReturnRows(couponRow("OLD", time.Now().UTC().Add(-time.Hour), false))

	c, rec := couponContext("OLD")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Coupon expired")
}

func TestCouponGetAlreadyUsed(t *testing.T) {
	h, mock := couponHandlerMock(t)
	mock.ExpectQuery("SELECT .+ FROM coupons").
		WithArgs("SPENT").
		WillReturnRows(couponRow("SPENT", time.Now().UTC().Add(time.Hour), true))

	c, rec := couponContext("SPENT")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Coupon already used")
}

func TestCouponUseConsumesOnce(t *testing.T) {
	h, mock := couponHandlerMock(t)
	mock.ExpectQuery("SELECT .+ FROM coupons").
		WithArgs("WELCOME10").
		WillReturnRows(couponRow("WELCOME10", time.Now().UTC().Add(time.Hour), false))
	mock.ExpectExec("UPDATE coupons SET used=1").
		WithArgs("WELCOME10").
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := couponContext("WELCOME10")
	require.NoError(t, h.Use(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"used":true`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCouponUseLostRace(t *testing.T) {
	h, mock := couponHandlerMock(t)
	mock.ExpectQuery("SELECT .+ FROM coupons").
		WithArgs("WELCOME10").
		WillReturnRows(couponRow("WELCOME10", time.Now().UTC().Add(time.Hour), false))
	mock.ExpectExec("UPDATE coupons SET used=1").
		WithArgs("WELCOME10").
		WillReturnResult(sqlmock.NewResult(0, 0))

	c, rec := couponContext("WELCOME10")
	require.NoError(t, h.Use(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Coupon already used")
}
