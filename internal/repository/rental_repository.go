package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/wheelshare/vehicle-rental/internal/model"
)

// RentalRepo is the ledger of rental records.  Creation is
// append-only; the only mutation is the status column, written
// unconditionally by UpdateStatus.  Transition legality is checked by
// the booking service against the model.RentalStatus state machine
// before any write reaches this layer.
type RentalRepo struct {
    db *sql.DB
}

// NewRentalRepo returns a RentalRepo bound to the given database.
func NewRentalRepo(db *sql.DB) *RentalRepo { return &RentalRepo{db: db} }

// RentalDetail is a rental joined with the vehicle columns customers
// want to see in their booking list.  The join is a read-side
// convenience only; the rental row itself stays normalized.
type RentalDetail struct {
    model.Rental
    VehicleType  model.VehicleType `json:"vehicle_type"`
    VehicleBrand string            `json:"vehicle_brand"`
    VehicleModel string            `json:"vehicle_model"`
}

// Create appends a rental record with status pending and returns it
// with the generated ID and creation timestamp populated.
func (r *RentalRepo) Create(ctx context.Context, userID, vehicleID uint64, start, end time.Time, cost float64) (model.Rental, error) {
    const q = `INSERT INTO rentals (user_id, vehicle_id, start_date, end_date, total_cost, status)
               VALUES (?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q,
        userID, vehicleID, start.UTC(), end.UTC(), cost, model.RentalStatusPending)
    if err != nil {
        return model.Rental{}, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return model.Rental{}, err
    }
    rental := model.Rental{
        ID:        uint64(id),
        UserID:    userID,
        VehicleID: vehicleID,
        StartDate: start.UTC(),
        EndDate:   end.UTC(),
        TotalCost: cost,
        Status:    model.RentalStatusPending,
    }
    // Read back created_at so the response carries the DB's clock, not ours.
    err = r.db.QueryRowContext(ctx,
        `SELECT created_at FROM rentals WHERE id = ?`, id).Scan(&rental.CreatedAt)
    if err != nil {
        return model.Rental{}, err
    }
    return rental, nil
}

// GetByID fetches a single rental.  sql.ErrNoRows when absent.
func (r *RentalRepo) GetByID(ctx context.Context, id uint64) (model.Rental, error) {
    const q = `SELECT id, user_id, vehicle_id, start_date, end_date, total_cost, status, created_at
               FROM rentals WHERE id = ?`
    var rental model.Rental
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &rental.ID, &rental.UserID, &rental.VehicleID,
        &rental.StartDate, &rental.EndDate, &rental.TotalCost,
        &rental.Status, &rental.CreatedAt,
    )
    if err != nil {
        return model.Rental{}, err
    }
    return rental, nil
}

// GetByIDForUser fetches a rental only when it belongs to the given
// user.  sql.ErrNoRows covers both "absent" and "owned by someone
// else" so that the API cannot be used to probe other users' bookings.
func (r *RentalRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (model.Rental, error) {
    const q = `SELECT id, user_id, vehicle_id, start_date, end_date, total_cost, status, created_at
               FROM rentals WHERE id = ? AND user_id = ?`
    var rental model.Rental
    err := r.db.QueryRowContext(ctx, q, id, userID).Scan(
        &rental.ID, &rental.UserID, &rental.VehicleID,
        &rental.StartDate, &rental.EndDate, &rental.TotalCost,
        &rental.Status, &rental.CreatedAt,
    )
    if err != nil {
        return model.Rental{}, err
    }
    return rental, nil
}

// ListByUser returns the user's rentals newest first, each joined with
// the vehicle's type, brand and model for display.
func (r *RentalRepo) ListByUser(ctx context.Context, userID uint64) ([]RentalDetail, error) {
    const q = `SELECT r.id, r.user_id, r.vehicle_id, r.start_date, r.end_date, r.total_cost, r.status, r.created_at,
                      v.type, v.brand, v.model
               FROM rentals r
               JOIN vehicles v ON v.id = r.vehicle_id
               WHERE r.user_id = ?
               ORDER BY r.created_at DESC`
    rows, err := r.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]RentalDetail, 0)
    for rows.Next() {
        var d RentalDetail
        if err := rows.Scan(
            &d.ID, &d.UserID, &d.VehicleID, &d.StartDate, &d.EndDate,
            &d.TotalCost, &d.Status, &d.CreatedAt,
            &d.VehicleType, &d.VehicleBrand, &d.VehicleModel,
        ); err != nil {
            return nil, err
        }
        details = append(details, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return details, nil
}

// UpdateStatus writes the status column.  sql.ErrNoRows is returned
// when the rental does not exist.  No transition validation happens
// here; callers must consult RentalStatus.CanTransition first.
func (r *RentalRepo) UpdateStatus(ctx context.Context, id uint64, status model.RentalStatus) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE rentals SET status = ? WHERE id = ?`, status, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        // Distinguish "row absent" from "status already had this value":
        // MySQL reports zero affected rows for both.
        var exists bool
        if err := r.db.QueryRowContext(ctx,
            `SELECT EXISTS(SELECT 1 FROM rentals WHERE id = ?)`, id).Scan(&exists); err != nil {
            return err
        }
        if !exists {
            return sql.ErrNoRows
        }
    }
    return nil
}

// CountActiveForVehicle counts rentals that still claim the vehicle
// (status pending or confirmed).  The cancel path calls this at
// restore time rather than trusting any earlier read, so a vehicle is
// never released while a different active rental exists for it.
func (r *RentalRepo) CountActiveForVehicle(ctx context.Context, vehicleID uint64) (int, error) {
    const q = `SELECT COUNT(*) FROM rentals
               WHERE vehicle_id = ? AND status IN (?, ?)`
    var n int
    err := r.db.QueryRowContext(ctx, q, vehicleID,
        model.RentalStatusPending, model.RentalStatusConfirmed).Scan(&n)
    if err != nil {
        return 0, err
    }
    return n, nil
}
