// Package service holds the reservation engine, the one piece of real
// business logic in the backend: the draft lifecycle of a reservation and
// the loyalty-points recomputation that follows every mutation.
package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/car-rental-reservation/internal/model"
)

// ErrReservationNotFound is returned when no reservation resolves for the
// caller, either by explicit id or by the implicit open-draft lookup.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrDraftNotFound is returned by UpdateLineItems when the target
// reservation does not exist, belongs to someone else, or is already
// finalized.
var ErrDraftNotFound = errors.New("draft reservation not found")

// ErrMinimumOneCar rejects a line-item removal that would leave the
// reservation without any car.
var ErrMinimumOneCar = errors.New("at least one car must be reserved")

// ReservationStore is the persistence surface the engine needs. It is
// satisfied by *repository.ReservationRepo; tests plug in an in-memory
// fake. Lookup methods report a missing row as sql.ErrNoRows, the way the
// repositories do.
type ReservationStore interface {
	CreateDraft(ctx context.Context, res *model.Reservation) error
	GetByIDForUser(ctx context.Context, id, userID uint64) (*model.Reservation, error)
	GetOpenDraft(ctx context.Context, userID uint64) (*model.Reservation, error)
	AddLineItem(ctx context.Context, item *model.LineItem) error
	RemoveLineItem(ctx context.Context, reservationID, lineItemID uint64) error
	UpdateLineItem(ctx context.Context, reservationID uint64, item model.LineItem) error
	SetSaved(ctx context.Context, id uint64, saved bool) error
	CountCarsForUser(ctx context.Context, userID uint64) (int, error)
	GetExpanded(ctx context.Context, id uint64) (*model.Reservation, error)
}

// PointsStore persists the recomputed loyalty balance. Satisfied by
// *repository.UserRepo.
type PointsStore interface {
	SetPoints(ctx context.Context, userID uint64, points int) error
}

// ReservationEngine manages the draft -> finalized lifecycle of a
// reservation and keeps the owner's loyalty-points counter consistent with
// their total reserved-car count. Every mutating operation ends with a
// full points recomputation: the balance is always rederived from the
// user's complete reservation set, so a write that was lost between the
// reservation update and the points update heals itself on the next
// mutation.
type ReservationEngine struct {
	reservations ReservationStore
	points       PointsStore
}

// NewReservationEngine constructs an engine over the given stores.
func NewReservationEngine(reservations ReservationStore, points PointsStore) *ReservationEngine {
	if reservations == nil || points == nil {
		panic("nil store passed to NewReservationEngine")
	}
	return &ReservationEngine{reservations: reservations, points: points}
}

// TripDetails carries the trip fields supplied when a draft is started.
type TripDetails struct {
	PickupLocation  string
	DropoffLocation string
	DriverName      string
	DriverAge       uint32
	PickupDateTime  *time.Time
	DropoffDateTime *time.Time
}

// SelectCarInput names the three optional identifiers of a SelectCar
// call. Exactly one of CarID (add) or LineItemID (remove) is expected;
// ReservationID targets a specific reservation and falls back to the
// caller's open draft when zero.
type SelectCarInput struct {
	ReservationID uint64
	CarID         uint64
	LineItemID    uint64
}

// StartDraft creates a new empty draft reservation for the user and
// recomputes their points. The recompute is numerically a no-op (the car
// count did not change) but re-persists the balance like every other
// mutating operation.
func (e *ReservationEngine) StartDraft(ctx context.Context, userID uint64, trip TripDetails) (*model.Reservation, error) {
	res := &model.Reservation{
		UserID:          userID,
		PickupLocation:  trip.PickupLocation,
		DropoffLocation: trip.DropoffLocation,
		DriverName:      trip.DriverName,
		DriverAge:       trip.DriverAge,
		PickupDateTime:  trip.PickupDateTime,
		DropoffDateTime: trip.DropoffDateTime,
		Cars:            []model.LineItem{},
	}
	if err := e.reservations.CreateDraft(ctx, res); err != nil {
		return nil, err
	}
	if err := e.RecalculatePoints(ctx, userID); err != nil {
		return nil, err
	}
	return res, nil
}

// SelectCar adds a car to, or removes a line item from, the resolved
// reservation. Resolution prefers the explicit reservation id (which must
// belong to the user) and falls back to the user's open draft. When
// nothing resolves and a car id was supplied, a fresh draft is created
// around that single car; without a car id the call fails with
// ErrReservationNotFound. The returned reservation has every line item's
// car reference expanded to full catalog data.
func (e *ReservationEngine) SelectCar(ctx context.Context, userID uint64, in SelectCarInput) (*model.Reservation, error) {
	res, err := e.resolve(ctx, userID, in.ReservationID)
	if err != nil {
		return nil, err
	}

	switch {
	case res == nil && in.CarID == 0:
		return nil, ErrReservationNotFound
	case res == nil:
		// No reservation resolved but a car was chosen: open a new draft
		// containing just that car.
		res = &model.Reservation{UserID: userID, Cars: []model.LineItem{}}
		if err := e.reservations.CreateDraft(ctx, res); err != nil {
			return nil, err
		}
		if err := e.addDefaultItem(ctx, res, in.CarID); err != nil {
			return nil, err
		}
	case in.CarID != 0:
		if err := e.addDefaultItem(ctx, res, in.CarID); err != nil {
			return nil, err
		}
	case in.LineItemID != 0:
		if len(res.Cars) <= 1 {
			return nil, ErrMinimumOneCar
		}
		if err := e.reservations.RemoveLineItem(ctx, res.ID, in.LineItemID); err != nil {
			return nil, err
		}
	}

	expanded, err := e.reservations.GetExpanded(ctx, res.ID)
	if err != nil {
		return nil, err
	}
	if err := e.RecalculatePoints(ctx, userID); err != nil {
		return nil, err
	}
	return expanded, nil
}

// UpdateLineItems overwrites the extras/insurance/fuel/gps choices of the
// listed line items on an open draft owned by the user. Input items whose
// id does not exist in the draft are ignored without error, and missing
// optional fields reset to their zero values: this is an overwrite, not a
// merge. The refreshed reservation is returned without car expansion.
func (e *ReservationEngine) UpdateLineItems(ctx context.Context, userID, reservationID uint64, items []model.LineItem) (*model.Reservation, error) {
	res, err := e.reservations.GetByIDForUser(ctx, reservationID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}
	if !res.IsSaved {
		return nil, ErrDraftNotFound
	}
	for _, item := range items {
		if err := e.reservations.UpdateLineItem(ctx, res.ID, item); err != nil {
			return nil, err
		}
	}
	updated, err := e.reservations.GetByIDForUser(ctx, res.ID, userID)
	if err != nil {
		return nil, err
	}
	if err := e.RecalculatePoints(ctx, userID); err != nil {
		return nil, err
	}
	return updated, nil
}

// Finalize marks a reservation as no longer a draft. It accepts drafts
// and already-finalized reservations alike, so calling it twice succeeds
// both times with is_saved=false. ErrReservationNotFound when the id does
// not resolve for the user.
func (e *ReservationEngine) Finalize(ctx context.Context, userID, reservationID uint64) (*model.Reservation, error) {
	res, err := e.reservations.GetByIDForUser(ctx, reservationID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if err := e.reservations.SetSaved(ctx, res.ID, false); err != nil {
		return nil, err
	}
	res.IsSaved = false
	if err := e.RecalculatePoints(ctx, userID); err != nil {
		return nil, err
	}
	return res, nil
}

// RecalculatePoints rederives the user's loyalty balance from scratch:
// count every line item across all of the user's reservations regardless
// of draft state, apply the points formula, and persist unconditionally.
// The full recompute costs a scan per mutation but is idempotent and
// self-correcting after partial failures.
func (e *ReservationEngine) RecalculatePoints(ctx context.Context, userID uint64) error {
	total, err := e.reservations.CountCarsForUser(ctx, userID)
	if err != nil {
		return err
	}
	return e.points.SetPoints(ctx, userID, PointsForCarCount(total))
}

// PointsForCarCount maps a lifetime reserved-car count to loyalty points:
// 500 points per full 10 cars, wrapping back to zero at 1500.
func PointsForCarCount(totalCars int) int {
	if totalCars < 0 {
		return 0
	}
	return (totalCars / 10 * 500) % 1500
}

// resolve picks the target reservation for SelectCar: the explicit id
// scoped to the user when given, otherwise the user's open draft. A nil
// reservation with nil error means nothing resolved.
func (e *ReservationEngine) resolve(ctx context.Context, userID, reservationID uint64) (*model.Reservation, error) {
	var (
		res *model.Reservation
		err error
	)
	if reservationID != 0 {
		res, err = e.reservations.GetByIDForUser(ctx, reservationID, userID)
	} else {
		res, err = e.reservations.GetOpenDraft(ctx, userID)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return res, nil
}

// addDefaultItem appends a line item for carID with default sub-fields:
// no extras, empty insurance and fuel, GPS off.
func (e *ReservationEngine) addDefaultItem(ctx context.Context, res *model.Reservation, carID uint64) error {
	item := model.LineItem{
		ReservationID: res.ID,
		CarID:         carID,
		Extras:        []string{},
	}
	if err := e.reservations.AddLineItem(ctx, &item); err != nil {
		return err
	}
	res.Cars = append(res.Cars, item)
	return nil
}
