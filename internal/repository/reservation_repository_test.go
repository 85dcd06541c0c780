package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/car-rental-reservation/internal/model"
)

func newReservationRepoMock(t *testing.T) (*ReservationRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewReservationRepo(db), mock
}

func TestExtrasRoundTrip(t *testing.T) {
	s, err := encodeExtras([]string{"child-seat", "roof-box"})
	require.NoError(t, err)
	assert.Equal(t, `["child-seat","roof-box"]`, s)

	got := decodeExtras(sql.NullString{String: s, Valid: true})
	assert.Equal(t, []string{"child-seat", "roof-box"}, got)
}

func TestExtrasNilAndCorrupt(t *testing.T) {
	s, err := encodeExtras(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", s)

	assert.Empty(t, decodeExtras(sql.NullString{}))
	assert.Empty(t, decodeExtras(sql.NullString{String: "", Valid: true}))
	assert.Empty(t, decodeExtras(sql.NullString{String: "not json", Valid: true}))
	assert.Empty(t, decodeExtras(sql.NullString{String: "null", Valid: true}))
}

func reservationRow(id, userID uint64, saved bool) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "user_id", "pickup_location", "dropoff_location", "driver_name", "driver_age",
		"pickup_datetime", "dropoff_datetime", "total_price", "is_saved", "created_at", "updated_at",
	}).AddRow(id, userID, "Airport", "Downtown", "Dana", 30, nil, nil, 0.0, saved, now, now)
}

func emptyItemRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "reservation_id", "car_id", "extras", "insurance", "fuel", "gps", "created_at",
	})
}

func TestGetByIDForUserScopesOwner(t *testing.T) {
	repo, mock := newReservationRepoMock(t)

	mock.ExpectQuery("SELECT .+ FROM reservations WHERE id=. AND user_id=.").
		WithArgs(3, 7).
		WillReturnRows(reservationRow(3, 7, true))
	mock.ExpectQuery("SELECT .+ FROM reservation_cars WHERE reservation_id=").
		WithArgs(3).
		WillReturnRows(emptyItemRows())

	res, err := repo.GetByIDForUser(context.Background(), 3, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), res.ID)
	assert.True(t, res.IsSaved)
	assert.Nil(t, res.PickupDateTime)
	assert.Empty(t, res.Cars)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOpenDraftNone(t *testing.T) {
	repo, mock := newReservationRepoMock(t)

	mock.ExpectQuery("SELECT .+ FROM reservations").
		WithArgs(7).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetOpenDraft(context.Background(), 7)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddLineItemEncodesDefaults(t *testing.T) {
	repo, mock := newReservationRepoMock(t)

	mock.ExpectExec("INSERT INTO reservation_cars").
		WithArgs(3, 42, "[]", "", "", false).
		WillReturnResult(sqlmock.NewResult(21, 1))

	item := model.LineItem{ReservationID: 3, CarID: 42}
	require.NoError(t, repo.AddLineItem(context.Background(), &item))
	assert.Equal(t, uint64(21), item.ID)
	assert.NotNil(t, item.Extras)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveLineItemScopedToReservation(t *testing.T) {
	repo, mock := newReservationRepoMock(t)

	mock.ExpectExec("DELETE FROM reservation_cars WHERE id=. AND reservation_id=.").
		WithArgs(21, 3).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Zero affected rows is not an error: foreign or unknown ids are a
	// silent no-op.
	require.NoError(t, repo.RemoveLineItem(context.Background(), 3, 21))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountCarsForUser(t *testing.T) {
	repo, mock := newReservationRepoMock(t)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM reservation_cars").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	n, err := repo.CountCarsForUser(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetSaved(t *testing.T) {
	repo, mock := newReservationRepoMock(t)

	mock.ExpectExec("UPDATE reservations SET is_saved=").
		WithArgs(false, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetSaved(context.Background(), 3, false))
	assert.NoError(t, mock.ExpectationsWereMet())
}
