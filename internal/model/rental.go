package model

import "time"

// RentalStatus is the closed set of lifecycle states a rental moves
// through.  The values correspond to the ENUM in the rentals table.
type RentalStatus string

const (
    RentalStatusPending   RentalStatus = "pending"
    RentalStatusConfirmed RentalStatus = "confirmed"
    RentalStatusCompleted RentalStatus = "completed"
    RentalStatusCancelled RentalStatus = "cancelled"
)

// transitions is the legal state machine for rentals.  A rental starts
// as pending; completed and cancelled are terminal.  Confirmation and
// completion belong to the fulfillment workflow, cancellation to the
// booking service, but the table covers all of them so illegal writes
// are rejected uniformly.
var transitions = map[RentalStatus][]RentalStatus{
    RentalStatusPending:   {RentalStatusConfirmed, RentalStatusCancelled},
    RentalStatusConfirmed: {RentalStatusCompleted, RentalStatusCancelled},
    RentalStatusCompleted: {},
    RentalStatusCancelled: {},
}

// ValidRentalStatus reports whether s names a known status value.
func ValidRentalStatus(s string) bool {
    _, ok := transitions[RentalStatus(s)]
    return ok
}

// Terminal reports whether the status is an end state.  Terminal
// rentals no longer count against a vehicle's availability and cannot
// be cancelled again.
func (s RentalStatus) Terminal() bool {
    return s == RentalStatusCompleted || s == RentalStatusCancelled
}

// Active reports whether the rental still claims its vehicle.  A
// vehicle must stay unavailable while any active rental exists for it.
func (s RentalStatus) Active() bool {
    return s == RentalStatusPending || s == RentalStatusConfirmed
}

// CanTransition reports whether moving from s to next is legal under
// the state machine.
func (s RentalStatus) CanTransition(next RentalStatus) bool {
    for _, t := range transitions[s] {
        if t == next {
            return true
        }
    }
    return false
}

// Rental records a user's time-boxed reservation of a single vehicle
// as stored in the `rentals` table.  TotalCost is computed once at
// creation by the pricing package and never changes afterwards.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user who made the booking.
//  VehicleID – vehicle being booked (one vehicle has many rentals over time).
//  StartDate – booking start, UTC.
//  EndDate   – booking end, UTC; always after StartDate.
//  TotalCost – price computed at creation.
//  Status    – lifecycle state, see RentalStatus.
//  CreatedAt – creation timestamp.
type Rental struct {
    ID        uint64       `json:"id"`
    UserID    uint64       `json:"user_id"`
    VehicleID uint64       `json:"vehicle_id"`
    StartDate time.Time    `json:"start_date"`
    EndDate   time.Time    `json:"end_date"`
    TotalCost float64      `json:"total_cost"`
    Status    RentalStatus `json:"status"`
    CreatedAt time.Time    `json:"created_at"`
}
