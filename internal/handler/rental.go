package handler

import (
    "context"
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/wheelshare/vehicle-rental/internal/booking"
)

// RentalHandler exposes the booking lifecycle over HTTP.  All
// decisions live in the booking service; this layer only parses
// requests and maps sentinel errors to status codes.
type RentalHandler struct {
    Bookings *booking.Service
}

func NewRentalHandler(b *booking.Service) *RentalHandler {
    if b == nil {
        panic("nil service passed to NewRentalHandler")
    }
    return &RentalHandler{Bookings: b}
}

type createRentalReq struct {
    VehicleID uint64 `json:"vehicle_id"`
    StartDate string `json:"start_date"`
    EndDate   string `json:"end_date"`
}

// parseWhen accepts RFC3339 timestamps and, for convenience, bare
// dates which are taken as midnight UTC.
func parseWhen(s string) (time.Time, error) {
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return t.UTC(), nil
    }
    t, err := time.Parse("2006-01-02", s)
    if err != nil {
        return time.Time{}, err
    }
    return t.UTC(), nil
}

// Create books a vehicle for the authenticated user.
func (h *RentalHandler) Create(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createRentalReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.VehicleID == 0 || req.StartDate == "" || req.EndDate == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "vehicle_id, start_date and end_date are required"})
    }
    start, err := parseWhen(req.StartDate)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_date"})
    }
    end, err := parseWhen(req.EndDate)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_date"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    rental, err := h.Bookings.CreateRental(ctx, uid, req.VehicleID, start, end)
    if err != nil {
        switch {
        case errors.Is(err, booking.ErrValidation):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must be after start_date"})
        case errors.Is(err, booking.ErrVehicleNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
        case errors.Is(err, booking.ErrVehicleUnavailable):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "vehicle is not available"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create rental failed"})
    }
    return c.JSON(http.StatusCreated, rental)
}

// List returns the caller's rentals, newest first, with vehicle
// details joined in.
func (h *RentalHandler) List(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    items, err := h.Bookings.ListRentals(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"rentals": items, "count": len(items)})
}

// Cancel moves one of the caller's rentals to cancelled and frees the
// vehicle when no other active rental still claims it.
func (h *RentalHandler) Cancel(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    rental, err := h.Bookings.CancelRental(ctx, uid, id)
    if err != nil {
        switch {
        case errors.Is(err, booking.ErrRentalNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "rental not found"})
        case errors.Is(err, booking.ErrRentalFinished):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "rental already finished"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel rental failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "message": "Rental cancelled successfully",
        "rental":  rental,
    })
}
