package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/car-rental-reservation/internal/model"
)

// fakeStore is an in-memory ReservationStore with the same contract as
// the SQL repository: missing rows surface as sql.ErrNoRows and line
// items keep insertion order.
type fakeStore struct {
	nextResID  uint64
	nextItemID uint64
	res        map[uint64]*model.Reservation
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextResID: 1, nextItemID: 1, res: map[uint64]*model.Reservation{}}
}

func (f *fakeStore) CreateDraft(_ context.Context, r *model.Reservation) error {
	r.ID = f.nextResID
	f.nextResID++
	r.IsSaved = true
	cp := *r
	cp.Cars = append([]model.LineItem(nil), r.Cars...)
	f.res[r.ID] = &cp
	return nil
}

func (f *fakeStore) GetByIDForUser(_ context.Context, id, userID uint64) (*model.Reservation, error) {
	r, ok := f.res[id]
	if !ok || r.UserID != userID {
		return nil, sql.ErrNoRows
	}
	cp := *r
	cp.Cars = append([]model.LineItem(nil), r.Cars...)
	return &cp, nil
}

func (f *fakeStore) GetOpenDraft(_ context.Context, userID uint64) (*model.Reservation, error) {
	var newest *model.Reservation
	for _, r := range f.res {
		if r.UserID != userID || !r.IsSaved {
			continue
		}
		if newest == nil || r.ID > newest.ID {
			newest = r
		}
	}
	if newest == nil {
		return nil, sql.ErrNoRows
	}
	cp := *newest
	cp.Cars = append([]model.LineItem(nil), newest.Cars...)
	return &cp, nil
}

func (f *fakeStore) AddLineItem(_ context.Context, item *model.LineItem) error {
	r, ok := f.res[item.ReservationID]
	if !ok {
		return sql.ErrNoRows
	}
	item.ID = f.nextItemID
	f.nextItemID++
	r.Cars = append(r.Cars, *item)
	return nil
}

func (f *fakeStore) RemoveLineItem(_ context.Context, reservationID, lineItemID uint64) error {
	r, ok := f.res[reservationID]
	if !ok {
		return nil
	}
	for i, it := range r.Cars {
		if it.ID == lineItemID {
			r.Cars = append(r.Cars[:i], r.Cars[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeStore) UpdateLineItem(_ context.Context, reservationID uint64, item model.LineItem) error {
	r, ok := f.res[reservationID]
	if !ok {
		return nil
	}
	for i := range r.Cars {
		if r.Cars[i].ID == item.ID {
			r.Cars[i].Extras = item.Extras
			r.Cars[i].Insurance = item.Insurance
			r.Cars[i].Fuel = item.Fuel
			r.Cars[i].GPS = item.GPS
			return nil
		}
	}
	// Unknown line item ids are a silent no-op, matching the scoped
	// UPDATE in the repository.
	return nil
}

func (f *fakeStore) SetSaved(_ context.Context, id uint64, saved bool) error {
	if r, ok := f.res[id]; ok {
		r.IsSaved = saved
	}
	return nil
}

func (f *fakeStore) CountCarsForUser(_ context.Context, userID uint64) (int, error) {
	n := 0
	for _, r := range f.res {
		if r.UserID == userID {
			n += len(r.Cars)
		}
	}
	return n, nil
}

func (f *fakeStore) GetExpanded(ctx context.Context, id uint64) (*model.Reservation, error) {
	r, ok := f.res[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return f.GetByIDForUser(ctx, id, r.UserID)
}

// fakePoints records every SetPoints call.
type fakePoints struct {
	calls  int
	latest map[uint64]int
}

func newFakePoints() *fakePoints { return &fakePoints{latest: map[uint64]int{}} }

func (f *fakePoints) SetPoints(_ context.Context, userID uint64, points int) error {
	f.calls++
	f.latest[userID] = points
	return nil
}

func newTestEngine() (*ReservationEngine, *fakeStore, *fakePoints) {
	store := newFakeStore()
	points := newFakePoints()
	return NewReservationEngine(store, points), store, points
}

func TestPointsForCarCount(t *testing.T) {
	cases := []struct {
		cars int
		want int
	}{
		{0, 0},
		{9, 0},
		{10, 500},
		{19, 500},
		{20, 1000},
		{29, 1000},
		{30, 0}, // wraps at 1500
		{39, 0},
		{40, 500},
		{60, 0},
		{-3, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, PointsForCarCount(tc.cars), "cars=%d", tc.cars)
	}
}

func TestStartDraftCreatesEmptyDraft(t *testing.T) {
	engine, _, points := newTestEngine()
	ctx := context.Background()

	res, err := engine.StartDraft(ctx, 7, TripDetails{PickupLocation: "Airport", DriverName: "Dana"})
	require.NoError(t, err)
	assert.NotZero(t, res.ID)
	assert.True(t, res.IsSaved)
	assert.Empty(t, res.Cars)
	assert.Equal(t, 1, points.calls)
	assert.Equal(t, 0, points.latest[7])
}

func TestSelectCarAddsToOpenDraft(t *testing.T) {
	engine, _, points := newTestEngine()
	ctx := context.Background()

	draft, err := engine.StartDraft(ctx, 7, TripDetails{})
	require.NoError(t, err)

	res, err := engine.SelectCar(ctx, 7, SelectCarInput{CarID: 42})
	require.NoError(t, err)
	assert.Equal(t, draft.ID, res.ID)
	require.Len(t, res.Cars, 1)
	assert.Equal(t, uint64(42), res.Cars[0].CarID)
	assert.Empty(t, res.Cars[0].Extras)
	assert.Empty(t, res.Cars[0].Insurance)
	assert.False(t, res.Cars[0].GPS)
	assert.Equal(t, 0, points.latest[7])
}

func TestSelectCarExplicitReservation(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	first, err := engine.StartDraft(ctx, 7, TripDetails{})
	require.NoError(t, err)
	second, err := engine.StartDraft(ctx, 7, TripDetails{})
	require.NoError(t, err)

	// Without an explicit id the newest draft wins.
	res, err := engine.SelectCar(ctx, 7, SelectCarInput{CarID: 1})
	require.NoError(t, err)
	assert.Equal(t, second.ID, res.ID)

	// With an explicit id the older draft is targeted.
	res, err = engine.SelectCar(ctx, 7, SelectCarInput{ReservationID: first.ID, CarID: 2})
	require.NoError(t, err)
	assert.Equal(t, first.ID, res.ID)
	require.Len(t, res.Cars, 1)
	assert.Equal(t, uint64(2), res.Cars[0].CarID)
}

func TestSelectCarRejectsForeignReservation(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	other, err := engine.StartDraft(ctx, 99, TripDetails{})
	require.NoError(t, err)

	_, err = engine.SelectCar(ctx, 7, SelectCarInput{ReservationID: other.ID, LineItemID: 1})
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestSelectCarCreatesDraftWhenNoneOpen(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	res, err := engine.SelectCar(ctx, 7, SelectCarInput{CarID: 5})
	require.NoError(t, err)
	assert.NotZero(t, res.ID)
	assert.True(t, res.IsSaved)
	require.Len(t, res.Cars, 1)
	assert.Equal(t, uint64(5), res.Cars[0].CarID)
}

func TestSelectCarNothingToResolve(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	_, err := engine.SelectCar(ctx, 7, SelectCarInput{LineItemID: 3})
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestSelectCarRemoveKeepsAtLeastOne(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	res, err := engine.SelectCar(ctx, 7, SelectCarInput{CarID: 1})
	require.NoError(t, err)
	itemID := res.Cars[0].ID

	// Removing the only car is rejected, even with a bogus item id.
	_, err = engine.SelectCar(ctx, 7, SelectCarInput{LineItemID: itemID})
	assert.ErrorIs(t, err, ErrMinimumOneCar)
	_, err = engine.SelectCar(ctx, 7, SelectCarInput{LineItemID: 9999})
	assert.ErrorIs(t, err, ErrMinimumOneCar)

	res, err = engine.SelectCar(ctx, 7, SelectCarInput{CarID: 2})
	require.NoError(t, err)
	require.Len(t, res.Cars, 2)

	res, err = engine.SelectCar(ctx, 7, SelectCarInput{LineItemID: itemID})
	require.NoError(t, err)
	require.Len(t, res.Cars, 1)
	assert.Equal(t, uint64(2), res.Cars[0].CarID)
}

func TestPointsRecomputedAcrossMutations(t *testing.T) {
	engine, _, points := newTestEngine()
	ctx := context.Background()

	// Five cars on a first reservation.
	res1, err := engine.StartDraft(ctx, 7, TripDetails{})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err = engine.SelectCar(ctx, 7, SelectCarInput{ReservationID: res1.ID, CarID: uint64(i + 1)})
		require.NoError(t, err)
	}
	assert.Equal(t, 0, points.latest[7])

	_, err = engine.Finalize(ctx, 7, res1.ID)
	require.NoError(t, err)

	// Five more on a second reservation pushes the lifetime count to 10.
	res2, err := engine.StartDraft(ctx, 7, TripDetails{})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err = engine.SelectCar(ctx, 7, SelectCarInput{ReservationID: res2.ID, CarID: uint64(i + 10)})
		require.NoError(t, err)
	}
	assert.Equal(t, 500, points.latest[7])

	// Removal drops the count back under the threshold.
	withItems, err := engine.SelectCar(ctx, 7, SelectCarInput{ReservationID: res2.ID, CarID: 99})
	require.NoError(t, err)
	assert.Equal(t, 500, points.latest[7])
	_, err = engine.SelectCar(ctx, 7, SelectCarInput{ReservationID: res2.ID, LineItemID: withItems.Cars[len(withItems.Cars)-1].ID})
	require.NoError(t, err)
	assert.Equal(t, 500, points.latest[7])
	_, err = engine.SelectCar(ctx, 7, SelectCarInput{ReservationID: res2.ID, LineItemID: withItems.Cars[0].ID})
	require.NoError(t, err)
	assert.Equal(t, 0, points.latest[7])
}

func TestFinalizeIsIdempotent(t *testing.T) {
	engine, store, points := newTestEngine()
	ctx := context.Background()

	res, err := engine.SelectCar(ctx, 7, SelectCarInput{CarID: 1})
	require.NoError(t, err)

	done, err := engine.Finalize(ctx, 7, res.ID)
	require.NoError(t, err)
	assert.False(t, done.IsSaved)

	// Second finalize succeeds and leaves the flag off.
	again, err := engine.Finalize(ctx, 7, res.ID)
	require.NoError(t, err)
	assert.False(t, again.IsSaved)
	assert.False(t, store.res[res.ID].IsSaved)

	// Every call still re-persisted the balance.
	assert.GreaterOrEqual(t, points.calls, 3)
}

func TestFinalizeUnknownReservation(t *testing.T) {
	engine, _, _ := newTestEngine()
	_, err := engine.Finalize(context.Background(), 7, 12345)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestFinalizedReservationStaysMutable(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	res, err := engine.SelectCar(ctx, 7, SelectCarInput{CarID: 1})
	require.NoError(t, err)
	_, err = engine.Finalize(ctx, 7, res.ID)
	require.NoError(t, err)

	// An explicit id still resolves a finalized reservation for SelectCar.
	updated, err := engine.SelectCar(ctx, 7, SelectCarInput{ReservationID: res.ID, CarID: 2})
	require.NoError(t, err)
	assert.Len(t, updated.Cars, 2)
}

func TestUpdateLineItemsOverwrites(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	res, err := engine.SelectCar(ctx, 7, SelectCarInput{CarID: 1})
	require.NoError(t, err)
	itemID := res.Cars[0].ID

	updated, err := engine.UpdateLineItems(ctx, 7, res.ID, []model.LineItem{
		{ID: itemID, Extras: []string{"child-seat"}, Insurance: "full", Fuel: "prepaid", GPS: true},
	})
	require.NoError(t, err)
	require.Len(t, updated.Cars, 1)
	assert.Equal(t, []string{"child-seat"}, updated.Cars[0].Extras)
	assert.Equal(t, "full", updated.Cars[0].Insurance)
	assert.True(t, updated.Cars[0].GPS)

	// A second update with zero values resets the options: overwrite, not
	// merge.
	updated, err = engine.UpdateLineItems(ctx, 7, res.ID, []model.LineItem{
		{ID: itemID, Extras: []string{}},
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Cars[0].Extras)
	assert.Empty(t, updated.Cars[0].Insurance)
	assert.False(t, updated.Cars[0].GPS)
}

func TestUpdateLineItemsIgnoresUnknownIDs(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	res, err := engine.SelectCar(ctx, 7, SelectCarInput{CarID: 1})
	require.NoError(t, err)

	updated, err := engine.UpdateLineItems(ctx, 7, res.ID, []model.LineItem{
		{ID: 9999, Insurance: "full"},
	})
	require.NoError(t, err)
	require.Len(t, updated.Cars, 1)
	assert.Empty(t, updated.Cars[0].Insurance)
}

func TestUpdateLineItemsRequiresOpenDraft(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	res, err := engine.SelectCar(ctx, 7, SelectCarInput{CarID: 1})
	require.NoError(t, err)
	_, err = engine.Finalize(ctx, 7, res.ID)
	require.NoError(t, err)

	_, err = engine.UpdateLineItems(ctx, 7, res.ID, nil)
	assert.ErrorIs(t, err, ErrDraftNotFound)

	_, err = engine.UpdateLineItems(ctx, 7, 4242, nil)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}
