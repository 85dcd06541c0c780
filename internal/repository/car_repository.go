package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/car-rental-reservation/internal/model"
)

// CarRepo provides read and admin-write access to the car catalog.
type CarRepo struct{ DB *sql.DB }

func NewCarRepo(db *sql.DB) *CarRepo { return &CarRepo{DB: db} }

const carColumns = "id,brand,model,car_group,engine_size,doors,passengers,fuel_type,gearbox,has_ac,electric_windows,image,daily_price,created_at,updated_at"

func scanCar(row interface{ Scan(...any) error }) (model.Car, error) {
	var c model.Car
	err := row.Scan(&c.ID, &c.Brand, &c.Model, &c.Group, &c.EngineSize, &c.Doors,
		&c.Passengers, &c.FuelType, &c.Gearbox, &c.HasAC, &c.ElectricWindows,
		&c.Image, &c.DailyPrice, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// List returns the whole catalog ordered by id.
func (r *CarRepo) List(ctx context.Context) ([]model.Car, error) {
	return r.queryCars(ctx, "SELECT "+carColumns+" FROM cars ORDER BY id")
}

// ListByGroup returns the cars belonging to one rental group.
func (r *CarRepo) ListByGroup(ctx context.Context, group string) ([]model.Car, error) {
	return r.queryCars(ctx, "SELECT "+carColumns+" FROM cars WHERE car_group=? ORDER BY id", group)
}

func (r *CarRepo) queryCars(ctx context.Context, query string, args ...any) ([]model.Car, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cars := make([]model.Car, 0)
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

// DistinctGroups returns the unique rental group names in the catalog.
func (r *CarRepo) DistinctGroups(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT DISTINCT car_group FROM cars ORDER BY car_group")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	groups := make([]string, 0)
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// GetByID fetches one car; ErrCarNotFound when the id matches nothing.
func (r *CarRepo) GetByID(ctx context.Context, id uint64) (model.Car, error) {
	c, err := scanCar(r.DB.QueryRowContext(ctx,
		"SELECT "+carColumns+" FROM cars WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return c, ErrCarNotFound
	}
	return c, err
}

// Create inserts a catalog entry and fills in the generated ID.
func (r *CarRepo) Create(ctx context.Context, c *model.Car) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO cars (brand, model, car_group, engine_size, doors, passengers,
		                   fuel_type, gearbox, has_ac, electric_windows, image, daily_price)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		c.Brand, c.Model, c.Group, c.EngineSize, c.Doors, c.Passengers,
		c.FuelType, c.Gearbox, c.HasAC, c.ElectricWindows, c.Image, c.DailyPrice)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// Update overwrites every catalog field of a car. Returns ErrCarNotFound
// when the id matches nothing.
func (r *CarRepo) Update(ctx context.Context, c *model.Car) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE cars SET brand=?, model=?, car_group=?, engine_size=?, doors=?, passengers=?,
		        fuel_type=?, gearbox=?, has_ac=?, electric_windows=?, image=?, daily_price=?
		 WHERE id=?`,
		c.Brand, c.Model, c.Group, c.EngineSize, c.Doors, c.Passengers,
		c.FuelType, c.Gearbox, c.HasAC, c.ElectricWindows, c.Image, c.DailyPrice, c.ID)
	if err != nil {
		return err
	}
	// A no-op update reports zero affected rows, so check existence instead.
	var one int
	if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM cars WHERE id=?", c.ID).Scan(&one); err == sql.ErrNoRows {
		return ErrCarNotFound
	} else if err != nil {
		return err
	}
	return nil
}

// Delete removes a car; ErrCarNotFound when nothing was deleted.
func (r *CarRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM cars WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrCarNotFound
	}
	return nil
}
