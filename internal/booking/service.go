// Package booking orchestrates the rental lifecycle across the
// vehicle catalog and the rental ledger.  It owns the cross-entity
// invariant of the marketplace: for any vehicle, at most one rental
// with status pending or confirmed exists at a time, and the
// vehicle's availability flag always reflects that.
package booking

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "time"

    "github.com/wheelshare/vehicle-rental/internal/model"
    "github.com/wheelshare/vehicle-rental/internal/pricing"
    "github.com/wheelshare/vehicle-rental/internal/repository"
)

// Sentinel errors form the service's failure taxonomy.  Handlers map
// them to HTTP statuses with errors.Is; anything else is a storage
// failure and surfaces as a 500.
var (
    // ErrValidation covers malformed input, including an invalid
    // date range.
    ErrValidation = errors.New("invalid booking request")
    // ErrVehicleNotFound is returned when the requested vehicle does
    // not exist.
    ErrVehicleNotFound = errors.New("vehicle not found")
    // ErrVehicleUnavailable is returned when the vehicle exists but
    // is already claimed by an active rental.
    ErrVehicleUnavailable = errors.New("vehicle is not available")
    // ErrRentalNotFound is returned when the rental does not exist or
    // does not belong to the caller.
    ErrRentalNotFound = errors.New("rental not found")
    // ErrRentalFinished is returned when cancelling a rental that is
    // already in a terminal state.
    ErrRentalFinished = errors.New("rental already finished")
)

// VehicleStore is the slice of the catalog the service needs: a
// lookup plus the two availability writes.  TryReserve must be a
// single atomic conditional write (see repository.VehicleRepo).
type VehicleStore interface {
    GetByID(ctx context.Context, id uint64) (model.Vehicle, error)
    TryReserve(ctx context.Context, id uint64) (bool, error)
    Release(ctx context.Context, id uint64) error
}

// RentalLedger is the slice of the rental repository the service
// drives.
type RentalLedger interface {
    Create(ctx context.Context, userID, vehicleID uint64, start, end time.Time, cost float64) (model.Rental, error)
    GetByIDForUser(ctx context.Context, id, userID uint64) (model.Rental, error)
    ListByUser(ctx context.Context, userID uint64) ([]repository.RentalDetail, error)
    UpdateStatus(ctx context.Context, id uint64, status model.RentalStatus) error
    CountActiveForVehicle(ctx context.Context, vehicleID uint64) (int, error)
}

// Service implements createRental and cancelRental.
type Service struct {
    vehicles VehicleStore
    rentals  RentalLedger
}

// NewService constructs a Service and panics if a dependency is nil.
func NewService(vehicles VehicleStore, rentals RentalLedger) *Service {
    if vehicles == nil || rentals == nil {
        panic("nil dependency passed to booking.NewService")
    }
    return &Service{vehicles: vehicles, rentals: rentals}
}

// CreateRental books a vehicle for [start, end).
//
// The order of operations matters.  The vehicle is reserved with an
// atomic conditional write BEFORE the ledger row is created, so two
// concurrent bookings of one vehicle resolve to exactly one success;
// the loser gets ErrVehicleUnavailable and writes nothing.  If the
// ledger insert then fails, the reservation is rolled back with
// Release; the compensating step is part of the operation's
// contract, not best-effort cleanup.
func (s *Service) CreateRental(ctx context.Context, userID, vehicleID uint64, start, end time.Time) (model.Rental, error) {
    if vehicleID == 0 || start.IsZero() || end.IsZero() {
        return model.Rental{}, fmt.Errorf("%w: vehicle_id, start_date and end_date are required", ErrValidation)
    }

    vehicle, err := s.vehicles.GetByID(ctx, vehicleID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return model.Rental{}, ErrVehicleNotFound
        }
        return model.Rental{}, fmt.Errorf("look up vehicle: %w", err)
    }

    cost, err := pricing.Quote(start, end, vehicle.PricePerHour, vehicle.PricePerDay)
    if err != nil {
        // Only ErrInvalidRange can come back here; it is a caller mistake.
        return model.Rental{}, fmt.Errorf("%w: %v", ErrValidation, err)
    }

    reserved, err := s.vehicles.TryReserve(ctx, vehicleID)
    if err != nil {
        return model.Rental{}, fmt.Errorf("reserve vehicle: %w", err)
    }
    if !reserved {
        return model.Rental{}, ErrVehicleUnavailable
    }

    rental, err := s.rentals.Create(ctx, userID, vehicleID, start, end, cost)
    if err != nil {
        // The vehicle is reserved but no rental exists.  Undo the
        // reservation; if even that fails, report both so nothing is
        // silently left unavailable.
        if relErr := s.vehicles.Release(ctx, vehicleID); relErr != nil {
            return model.Rental{}, fmt.Errorf("create rental: %w (release failed: %v)", err, relErr)
        }
        return model.Rental{}, fmt.Errorf("create rental: %w", err)
    }
    return rental, nil
}

// CancelRental transitions one of the caller's rentals from pending
// to cancelled and restores the vehicle's availability only when no
// other active rental still claims it.  The "other active
// rental" check runs at restore time against the ledger rather than
// trusting any earlier read.
func (s *Service) CancelRental(ctx context.Context, userID, rentalID uint64) (model.Rental, error) {
    rental, err := s.rentals.GetByIDForUser(ctx, rentalID, userID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return model.Rental{}, ErrRentalNotFound
        }
        return model.Rental{}, fmt.Errorf("look up rental: %w", err)
    }

    if !rental.Status.CanTransition(model.RentalStatusCancelled) {
        return model.Rental{}, fmt.Errorf("%w: status is %s", ErrRentalFinished, rental.Status)
    }

    if err := s.rentals.UpdateStatus(ctx, rentalID, model.RentalStatusCancelled); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return model.Rental{}, ErrRentalNotFound
        }
        return model.Rental{}, fmt.Errorf("cancel rental: %w", err)
    }
    rental.Status = model.RentalStatusCancelled

    active, err := s.rentals.CountActiveForVehicle(ctx, rental.VehicleID)
    if err != nil {
        return model.Rental{}, fmt.Errorf("check active rentals: %w", err)
    }
    if active == 0 {
        if err := s.vehicles.Release(ctx, rental.VehicleID); err != nil {
            return model.Rental{}, fmt.Errorf("release vehicle: %w", err)
        }
    }
    return rental, nil
}

// ListRentals returns the caller's rentals, newest first, joined with
// vehicle display fields.  It lives here rather than on the handler
// so every rental read goes through one place.
func (s *Service) ListRentals(ctx context.Context, userID uint64) ([]repository.RentalDetail, error) {
    return s.rentals.ListByUser(ctx, userID)
}
