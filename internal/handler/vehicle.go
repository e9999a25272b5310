package handler

import (
    "context"
    "database/sql"
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/wheelshare/vehicle-rental/internal/model"
    "github.com/wheelshare/vehicle-rental/internal/repository"
)

// VehicleHandler serves the public rental catalog.
type VehicleHandler struct {
    Vehicles *repository.VehicleRepo
}

func NewVehicleHandler(v *repository.VehicleRepo) *VehicleHandler {
    if v == nil {
        panic("nil repository passed to NewVehicleHandler")
    }
    return &VehicleHandler{Vehicles: v}
}

// List returns catalog vehicles matching optional query filters:
// type, brand, min_price, max_price and available.  Price filters
// apply to the daily rate, which is what the booking flow charges.
func (h *VehicleHandler) List(c echo.Context) error {
    f := repository.VehicleFilter{
        Type:  strings.TrimSpace(c.QueryParam("type")),
        Brand: strings.TrimSpace(c.QueryParam("brand")),
    }
    if f.Type != "" && !model.ValidVehicleType(f.Type) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown vehicle type"})
    }
    if v := c.QueryParam("min_price"); v != "" {
        n, err := strconv.ParseFloat(v, 64)
        if err != nil || n < 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid min_price"})
        }
        f.MinPrice = n
    }
    if v := c.QueryParam("max_price"); v != "" {
        n, err := strconv.ParseFloat(v, 64)
        if err != nil || n <= 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid max_price"})
        }
        f.MaxPrice = n
    }
    if v := c.QueryParam("available"); v != "" {
        b, err := strconv.ParseBool(v)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid available flag"})
        }
        f.Available = &b
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    items, err := h.Vehicles.List(ctx, f)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"vehicles": items, "count": len(items)})
}

// Get returns a single catalog vehicle.
func (h *VehicleHandler) Get(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    v, err := h.Vehicles.GetByID(ctx, id)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, v)
}
