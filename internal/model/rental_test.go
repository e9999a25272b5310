package model

import "testing"

func TestRentalStatusTransitions(t *testing.T) {
    cases := []struct {
        from, to RentalStatus
        ok       bool
    }{
        {RentalStatusPending, RentalStatusCancelled, true},
        {RentalStatusPending, RentalStatusConfirmed, true},
        {RentalStatusPending, RentalStatusCompleted, false},
        {RentalStatusConfirmed, RentalStatusCompleted, true},
        {RentalStatusConfirmed, RentalStatusCancelled, true},
        {RentalStatusConfirmed, RentalStatusPending, false},
        {RentalStatusCompleted, RentalStatusCancelled, false},
        {RentalStatusCancelled, RentalStatusCancelled, false},
        {RentalStatusCancelled, RentalStatusPending, false},
    }
    for _, tc := range cases {
        if got := tc.from.CanTransition(tc.to); got != tc.ok {
            t.Fatalf("%s -> %s: got %v want %v", tc.from, tc.to, got, tc.ok)
        }
    }
}

func TestRentalStatusPredicates(t *testing.T) {
    if !RentalStatusPending.Active() || !RentalStatusConfirmed.Active() {
        t.Fatal("pending and confirmed must count as active")
    }
    if RentalStatusCompleted.Active() || RentalStatusCancelled.Active() {
        t.Fatal("terminal states must not count as active")
    }
    if !RentalStatusCompleted.Terminal() || !RentalStatusCancelled.Terminal() {
        t.Fatal("completed and cancelled must be terminal")
    }
    if RentalStatusPending.Terminal() || RentalStatusConfirmed.Terminal() {
        t.Fatal("active states must not be terminal")
    }
}

func TestValidRentalStatus(t *testing.T) {
    for _, s := range []string{"pending", "confirmed", "completed", "cancelled"} {
        if !ValidRentalStatus(s) {
            t.Fatalf("%q should be valid", s)
        }
    }
    for _, s := range []string{"", "PENDING", "done", "active"} {
        if ValidRentalStatus(s) {
            t.Fatalf("%q should be invalid", s)
        }
    }
}
