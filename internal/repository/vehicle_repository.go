package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/wheelshare/vehicle-rental/internal/model"
)

// VehicleRepo provides read access to the rental catalog and owns
// every mutation of the `available` flag.  The flag is a cached
// projection of "no active rental exists for this vehicle", so the
// only writers are TryReserve and Release, both driven by the
// booking service.
type VehicleRepo struct {
    db *sql.DB
}

// NewVehicleRepo returns a VehicleRepo bound to the given database.
func NewVehicleRepo(db *sql.DB) *VehicleRepo { return &VehicleRepo{db: db} }

// VehicleFilter narrows List results.  Zero values mean "no filter".
// Brand matches as a substring, the price bounds apply to the daily
// rate, and Available filters on the availability flag when non-nil.
type VehicleFilter struct {
    Type      string
    Brand     string
    MinPrice  float64
    MaxPrice  float64
    Available *bool
}

const vehicleColumns = `id, type, brand, model, year, price_per_hour, price_per_day, available, image_url, description, features`

func scanVehicle(row interface{ Scan(...any) error }) (model.Vehicle, error) {
    var (
        v        model.Vehicle
        year     sql.NullInt64
        imageURL sql.NullString
        desc     sql.NullString
        features sql.NullString
    )
    err := row.Scan(&v.ID, &v.Type, &v.Brand, &v.Model, &year,
        &v.PricePerHour, &v.PricePerDay, &v.Available, &imageURL, &desc, &features)
    if err != nil {
        return model.Vehicle{}, err
    }
    if year.Valid {
        v.Year = uint16(year.Int64)
    }
    if imageURL.Valid {
        s := imageURL.String
        v.ImageURL = &s
    }
    if desc.Valid {
        s := desc.String
        v.Description = &s
    }
    if features.Valid {
        s := features.String
        v.Features = &s
    }
    return v, nil
}

// List returns catalog vehicles matching the filter.  The WHERE clause
// is assembled incrementally from the populated filter fields; with an
// empty filter the whole catalog is returned.
func (r *VehicleRepo) List(ctx context.Context, f VehicleFilter) ([]model.Vehicle, error) {
    query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE 1=1`
    args := make([]any, 0, 5)
    if f.Type != "" {
        query += ` AND type = ?`
        args = append(args, f.Type)
    }
    if f.Brand != "" {
        query += ` AND brand LIKE ?`
        args = append(args, "%"+strings.TrimSpace(f.Brand)+"%")
    }
    if f.MinPrice > 0 {
        query += ` AND price_per_day >= ?`
        args = append(args, f.MinPrice)
    }
    if f.MaxPrice > 0 {
        query += ` AND price_per_day <= ?`
        args = append(args, f.MaxPrice)
    }
    if f.Available != nil {
        query += ` AND available = ?`
        args = append(args, *f.Available)
    }
    query += ` ORDER BY id`

    rows, err := r.db.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    vehicles := make([]model.Vehicle, 0)
    for rows.Next() {
        v, err := scanVehicle(rows)
        if err != nil {
            return nil, err
        }
        vehicles = append(vehicles, v)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return vehicles, nil
}

// GetByID fetches a single vehicle.  sql.ErrNoRows is returned when
// the vehicle does not exist.
func (r *VehicleRepo) GetByID(ctx context.Context, id uint64) (model.Vehicle, error) {
    const q = `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = ?`
    return scanVehicle(r.db.QueryRowContext(ctx, q, id))
}

// IsAvailable reads the availability flag.  sql.ErrNoRows is returned
// when the vehicle does not exist.
func (r *VehicleRepo) IsAvailable(ctx context.Context, id uint64) (bool, error) {
    var available bool
    err := r.db.QueryRowContext(ctx,
        `SELECT available FROM vehicles WHERE id = ?`, id).Scan(&available)
    if err != nil {
        return false, err
    }
    return available, nil
}

// TryReserve atomically flips available from true to false and reports
// whether the flip took effect.  The conditional UPDATE is a single
// statement, so two concurrent reservations of the same vehicle can
// never both observe available = 1: MySQL serializes the row write and
// exactly one caller sees RowsAffected == 1.  A false return means the
// vehicle was already unavailable or does not exist; callers that need
// to distinguish the two should look the vehicle up first.
func (r *VehicleRepo) TryReserve(ctx context.Context, id uint64) (bool, error) {
    res, err := r.db.ExecContext(ctx,
        `UPDATE vehicles SET available = 0 WHERE id = ? AND available = 1`, id)
    if err != nil {
        return false, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return n == 1, nil
}

// Release unconditionally marks the vehicle available again.  It is
// idempotent; releasing an already-available vehicle is a no-op.
func (r *VehicleRepo) Release(ctx context.Context, id uint64) error {
    _, err := r.db.ExecContext(ctx,
        `UPDATE vehicles SET available = 1 WHERE id = ?`, id)
    return err
}
