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

// SaleHandler serves second-hand sale listings.
type SaleHandler struct {
    Sales *repository.SaleRepo
}

func NewSaleHandler(s *repository.SaleRepo) *SaleHandler {
    if s == nil {
        panic("nil repository passed to NewSaleHandler")
    }
    return &SaleHandler{Sales: s}
}

type createSaleReq struct {
    Type         string  `json:"type"`
    Brand        string  `json:"brand"`
    Model        string  `json:"model"`
    Year         uint16  `json:"year"`
    Price        float64 `json:"price"`
    Condition    *string `json:"condition"`
    Mileage      *uint32 `json:"mileage"`
    Description  *string `json:"description"`
    ImageURL     *string `json:"image_url"`
    ContactEmail *string `json:"contact_email"`
    ContactPhone *string `json:"contact_phone"`
    Location     *string `json:"location"`
}

// List returns available listings matching optional filters: type,
// brand, min_price, max_price and condition.
func (h *SaleHandler) List(c echo.Context) error {
    f := repository.SaleFilter{
        Type:      strings.TrimSpace(c.QueryParam("type")),
        Brand:     strings.TrimSpace(c.QueryParam("brand")),
        Condition: strings.TrimSpace(c.QueryParam("condition")),
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

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    items, err := h.Sales.List(ctx, f)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"sales": items, "count": len(items)})
}

// Get returns one listing with seller contact details joined.
func (h *SaleHandler) Get(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    s, err := h.Sales.GetByID(ctx, id)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "sale not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, s)
}

// Create publishes a new listing for the authenticated user.
func (h *SaleHandler) Create(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createSaleReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Brand = strings.TrimSpace(req.Brand)
    req.Model = strings.TrimSpace(req.Model)
    if !model.ValidVehicleType(req.Type) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown vehicle type"})
    }
    if req.Brand == "" || req.Model == "" || req.Price <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "brand, model and a positive price are required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    id, err := h.Sales.Create(ctx, model.Sale{
        UserID:       uid,
        Type:         model.VehicleType(req.Type),
        Brand:        req.Brand,
        Model:        req.Model,
        Year:         req.Year,
        Price:        req.Price,
        Condition:    req.Condition,
        Mileage:      req.Mileage,
        Description:  req.Description,
        ImageURL:     req.ImageURL,
        ContactEmail: req.ContactEmail,
        ContactPhone: req.ContactPhone,
        Location:     req.Location,
    })
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create sale failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": id, "status": model.SaleStatusAvailable})
}

// Mine lists the caller's own listings regardless of status.
func (h *SaleHandler) Mine(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    items, err := h.Sales.ListByUser(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"sales": items, "count": len(items)})
}

type saleStatusReq struct {
    Status string `json:"status"`
}

// UpdateStatus marks a listing sold, withdrawn or available again.
// Only the listing owner may change it.
func (h *SaleHandler) UpdateStatus(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req saleStatusReq
    if err := c.Bind(&req); err != nil || !model.ValidSaleStatus(req.Status) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be available, sold or withdrawn"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    err = h.Sales.UpdateStatus(ctx, id, uid, model.SaleStatus(req.Status))
    switch {
    case err == sql.ErrNoRows:
        return c.JSON(http.StatusNotFound, echo.Map{"error": "sale not found"})
    case err == repository.ErrConflict:
        return c.JSON(http.StatusForbidden, echo.Map{"error": "not your listing"})
    case err != nil:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "status": req.Status})
}
