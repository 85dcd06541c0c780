package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/iliyamo/car-rental-reservation/internal/model"
)

// ReservationRepo provides persistence for reservations and their line
// items. Line items live in the reservation_cars table and carry their own
// identity so single selections can be updated or removed. All timestamp
// fields are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, user_id, pickup_location, dropoff_location, driver_name, driver_age,
	pickup_datetime, dropoff_datetime, total_price, is_saved, created_at, updated_at`

// encodeExtras serializes the extras list as a JSON array. A nil slice is
// stored as [] so the column round-trips to an empty list, never null.
func encodeExtras(extras []string) (string, error) {
	if extras == nil {
		extras = []string{}
	}
	b, err := json.Marshal(extras)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeExtras(raw sql.NullString) []string {
	if !raw.Valid || strings.TrimSpace(raw.String) == "" {
		return []string{}
	}
	var extras []string
	if err := json.Unmarshal([]byte(raw.String), &extras); err != nil || extras == nil {
		return []string{}
	}
	return extras
}

func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
	var (
		res     model.Reservation
		pickup  sql.NullTime
		dropoff sql.NullTime
	)
	err := row.Scan(&res.ID, &res.UserID, &res.PickupLocation, &res.DropoffLocation,
		&res.DriverName, &res.DriverAge, &pickup, &dropoff,
		&res.TotalPrice, &res.IsSaved, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if pickup.Valid {
		t := pickup.Time.UTC()
		res.PickupDateTime = &t
	}
	if dropoff.Valid {
		t := dropoff.Time.UTC()
		res.DropoffDateTime = &t
	}
	return &res, nil
}

// CreateDraft inserts a new reservation row with is_saved=1 and fills the
// generated ID and timestamps on the provided model. The line-item
// collection starts empty; items are added separately.
func (r *ReservationRepo) CreateDraft(ctx context.Context, res *model.Reservation) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO reservations (user_id, pickup_location, dropoff_location, driver_name,
		                           driver_age, pickup_datetime, dropoff_datetime, total_price, is_saved)
		 VALUES (?,?,?,?,?,?,?,?,1)`,
		res.UserID, res.PickupLocation, res.DropoffLocation, res.DriverName,
		res.DriverAge, res.PickupDateTime, res.DropoffDateTime, res.TotalPrice)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	res.IsSaved = true
	if res.Cars == nil {
		res.Cars = []model.LineItem{}
	}
	// Query back the row to populate the DB-generated timestamps.
	saved, err := scanReservation(r.db.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id=?", res.ID))
	if err != nil {
		return err
	}
	res.CreatedAt = saved.CreatedAt
	res.UpdatedAt = saved.UpdatedAt
	return nil
}

// GetByIDForUser returns a reservation owned by the given user, with its
// line items loaded (cars not expanded). sql.ErrNoRows when no matching
// reservation exists for that owner.
func (r *ReservationRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (*model.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id=? AND user_id=?", id, userID))
	if err != nil {
		return nil, err
	}
	res.Cars, err = r.loadItems(ctx, res.ID, false)
	return res, err
}

// GetOpenDraft returns the user's current open draft (is_saved=1), newest
// first when several exist. Draft uniqueness is best effort, not a hard
// constraint. sql.ErrNoRows when the user has no open draft.
func (r *ReservationRepo) GetOpenDraft(ctx context.Context, userID uint64) (*model.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx,
		"SELECT "+reservationColumns+` FROM reservations
		 WHERE user_id=? AND is_saved=1 ORDER BY created_at DESC, id DESC LIMIT 1`, userID))
	if err != nil {
		return nil, err
	}
	res.Cars, err = r.loadItems(ctx, res.ID, false)
	return res, err
}

// AddLineItem appends a line item to a reservation and fills its generated
// ID and creation time.
func (r *ReservationRepo) AddLineItem(ctx context.Context, item *model.LineItem) error {
	extras, err := encodeExtras(item.Extras)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO reservation_cars (reservation_id, car_id, extras, insurance, fuel, gps)
		 VALUES (?,?,?,?,?,?)`,
		item.ReservationID, item.CarID, extras, item.Insurance, item.Fuel, item.GPS)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	item.ID = uint64(id)
	if item.Extras == nil {
		item.Extras = []string{}
	}
	item.CreatedAt = time.Now().UTC()
	return nil
}

// RemoveLineItem deletes a line item scoped to its reservation. Removing
// an id that does not belong to the reservation is a no-op, matching the
// in-memory filter semantics of the draft lifecycle.
func (r *ReservationRepo) RemoveLineItem(ctx context.Context, reservationID, lineItemID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM reservation_cars WHERE id=? AND reservation_id=?", lineItemID, reservationID)
	return err
}

// UpdateLineItem overwrites the per-line choices (extras, insurance, fuel,
// gps) of one line item. Items that do not exist in the reservation are
// silently ignored: the UPDATE simply affects zero rows.
func (r *ReservationRepo) UpdateLineItem(ctx context.Context, reservationID uint64, item model.LineItem) error {
	extras, err := encodeExtras(item.Extras)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		"UPDATE reservation_cars SET extras=?, insurance=?, fuel=?, gps=? WHERE id=? AND reservation_id=?",
		extras, item.Insurance, item.Fuel, item.GPS, item.ID, reservationID)
	return err
}

// SetSaved flips the draft flag of a reservation. Setting an already-set
// value is fine; Finalize relies on that for idempotence.
func (r *ReservationRepo) SetSaved(ctx context.Context, id uint64, saved bool) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE reservations SET is_saved=? WHERE id=?", saved, id)
	return err
}

// CountCarsForUser sums the line items across every reservation the user
// owns, draft or finalized. This feeds the full-recompute points strategy.
func (r *ReservationRepo) CountCarsForUser(ctx context.Context, userID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservation_cars rc
		 JOIN reservations r ON r.id = rc.reservation_id
		 WHERE r.user_id = ?`, userID).Scan(&n)
	return n, err
}

// GetExpanded returns a reservation with each line item's car reference
// expanded to the full catalog row. Used by responses that render the
// selected cars.
func (r *ReservationRepo) GetExpanded(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id=?", id))
	if err != nil {
		return nil, err
	}
	res.Cars, err = r.loadItems(ctx, res.ID, true)
	return res, err
}

// ListByUserExpanded returns all reservations of a user, newest first,
// with car data expanded on every line item.
func (r *ReservationRepo) ListByUserExpanded(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+reservationColumns+` FROM reservations
		 WHERE user_id=? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range list {
		items, err := r.loadItems(ctx, list[i].ID, true)
		if err != nil {
			return nil, err
		}
		list[i].Cars = items
	}
	return list, nil
}

// loadItems fetches the line items of one reservation ordered by insertion.
// With expand=true each item's Car pointer is populated from the catalog;
// a line item whose car was deleted from the catalog keeps a nil Car.
func (r *ReservationRepo) loadItems(ctx context.Context, reservationID uint64, expand bool) ([]model.LineItem, error) {
	if !expand {
		rows, err := r.db.QueryContext(ctx,
			`SELECT id, reservation_id, car_id, extras, insurance, fuel, gps, created_at
			 FROM reservation_cars WHERE reservation_id=? ORDER BY id`, reservationID)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		items := make([]model.LineItem, 0)
		for rows.Next() {
			var (
				item   model.LineItem
				extras sql.NullString
			)
			if err := rows.Scan(&item.ID, &item.ReservationID, &item.CarID, &extras,
				&item.Insurance, &item.Fuel, &item.GPS, &item.CreatedAt); err != nil {
				return nil, err
			}
			item.Extras = decodeExtras(extras)
			items = append(items, item)
		}
		return items, rows.Err()
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT rc.id, rc.reservation_id, rc.car_id, rc.extras, rc.insurance, rc.fuel, rc.gps, rc.created_at,
		        c.id, c.brand, c.model, c.car_group, c.engine_size, c.doors, c.passengers,
		        c.fuel_type, c.gearbox, c.has_ac, c.electric_windows, c.image, c.daily_price,
		        c.created_at, c.updated_at
		 FROM reservation_cars rc
		 LEFT JOIN cars c ON c.id = rc.car_id
		 WHERE rc.reservation_id=? ORDER BY rc.id`, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.LineItem, 0)
	for rows.Next() {
		var (
			item   model.LineItem
			extras sql.NullString
			carID  sql.NullInt64
			car    model.Car
			brand, carModel, group, fuelType, gearbox, image sql.NullString
			engineSize, doors, passengers                    sql.NullInt64
			hasAC, elWindows                                 sql.NullBool
			dailyPrice                                       sql.NullFloat64
			carCreated, carUpdated                           sql.NullTime
		)
		if err := rows.Scan(&item.ID, &item.ReservationID, &item.CarID, &extras,
			&item.Insurance, &item.Fuel, &item.GPS, &item.CreatedAt,
			&carID, &brand, &carModel, &group, &engineSize, &doors, &passengers,
			&fuelType, &gearbox, &hasAC, &elWindows, &image, &dailyPrice,
			&carCreated, &carUpdated); err != nil {
			return nil, err
		}
		item.Extras = decodeExtras(extras)
		if carID.Valid {
			car.ID = uint64(carID.Int64)
			car.Brand = brand.String
			car.Model = carModel.String
			car.Group = group.String
			car.EngineSize = uint32(engineSize.Int64)
			car.Doors = uint32(doors.Int64)
			car.Passengers = uint32(passengers.Int64)
			car.FuelType = fuelType.String
			car.Gearbox = gearbox.String
			car.HasAC = hasAC.Bool
			car.ElectricWindows = elWindows.Bool
			car.Image = image.String
			car.DailyPrice = dailyPrice.Float64
			car.CreatedAt = carCreated.Time
			car.UpdatedAt = carUpdated.Time
			item.Car = &car
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// AdminReservationDetail extends a reservation with contact details of the
// owning user for the admin views.
type AdminReservationDetail struct {
	model.Reservation
	User struct {
		ID       uint64 `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
	} `json:"user"`
}

// AdminList returns every reservation with owner contact info and expanded
// cars, newest first.
func (r *ReservationRepo) AdminList(ctx context.Context) ([]AdminReservationDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.id, r.user_id, r.pickup_location, r.dropoff_location, r.driver_name, r.driver_age,
		        r.pickup_datetime, r.dropoff_datetime, r.total_price, r.is_saved, r.created_at, r.updated_at,
		        u.username, u.email, u.phone
		 FROM reservations r
		 JOIN users u ON u.id = r.user_id
		 ORDER BY r.created_at DESC, r.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]AdminReservationDetail, 0)
	for rows.Next() {
		var (
			d       AdminReservationDetail
			pickup  sql.NullTime
			dropoff sql.NullTime
		)
		if err := rows.Scan(&d.ID, &d.UserID, &d.PickupLocation, &d.DropoffLocation,
			&d.DriverName, &d.DriverAge, &pickup, &dropoff,
			&d.TotalPrice, &d.IsSaved, &d.CreatedAt, &d.UpdatedAt,
			&d.User.Username, &d.User.Email, &d.User.Phone); err != nil {
			return nil, err
		}
		if pickup.Valid {
			t := pickup.Time.UTC()
			d.PickupDateTime = &t
		}
		if dropoff.Valid {
			t := dropoff.Time.UTC()
			d.DropoffDateTime = &t
		}
		d.User.ID = d.UserID
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range details {
		items, err := r.loadItems(ctx, details[i].ID, true)
		if err != nil {
			return nil, err
		}
		details[i].Cars = items
	}
	return details, nil
}

// AdminGet returns one reservation with owner contact info and expanded
// cars. sql.ErrNoRows when the id matches nothing.
func (r *ReservationRepo) AdminGet(ctx context.Context, id uint64) (*AdminReservationDetail, error) {
	var (
		d       AdminReservationDetail
		pickup  sql.NullTime
		dropoff sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT r.id, r.user_id, r.pickup_location, r.dropoff_location, r.driver_name, r.driver_age,
		        r.pickup_datetime, r.dropoff_datetime, r.total_price, r.is_saved, r.created_at, r.updated_at,
		        u.username, u.email, u.phone
		 FROM reservations r
		 JOIN users u ON u.id = r.user_id
		 WHERE r.id=?`, id).Scan(
		&d.ID, &d.UserID, &d.PickupLocation, &d.DropoffLocation,
		&d.DriverName, &d.DriverAge, &pickup, &dropoff,
		&d.TotalPrice, &d.IsSaved, &d.CreatedAt, &d.UpdatedAt,
		&d.User.Username, &d.User.Email, &d.User.Phone)
	if err != nil {
		return nil, err
	}
	if pickup.Valid {
		t := pickup.Time.UTC()
		d.PickupDateTime = &t
	}
	if dropoff.Valid {
		t := dropoff.Time.UTC()
		d.DropoffDateTime = &t
	}
	d.User.ID = d.UserID
	d.Cars, err = r.loadItems(ctx, d.ID, true)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// AdminUpdateFields is the set of trip fields editable through the admin
// reservation update. Line items and the draft flag are out of its reach.
type AdminUpdateFields struct {
	PickupLocation  string     `json:"pickup_location"`
	DropoffLocation string     `json:"dropoff_location"`
	DriverName      string     `json:"driver_name"`
	DriverAge       uint32     `json:"driver_age"`
	PickupDateTime  *time.Time `json:"pickup_datetime"`
	DropoffDateTime *time.Time `json:"dropoff_datetime"`
	TotalPrice      float64    `json:"total_price"`
}

// AdminUpdate overwrites the trip fields of a reservation. sql.ErrNoRows
// when the id matches nothing.
func (r *ReservationRepo) AdminUpdate(ctx context.Context, id uint64, f AdminUpdateFields) error {
	var one int
	if err := r.db.QueryRowContext(ctx, "SELECT 1 FROM reservations WHERE id=?", id).Scan(&one); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET pickup_location=?, dropoff_location=?, driver_name=?, driver_age=?,
		        pickup_datetime=?, dropoff_datetime=?, total_price=?
		 WHERE id=?`,
		f.PickupLocation, f.DropoffLocation, f.DriverName, f.DriverAge,
		f.PickupDateTime, f.DropoffDateTime, f.TotalPrice, id)
	return err
}
