package handler

import (
    "context"
    "database/sql"
    "net/http"
    "strconv"

    "github.com/go-sql-driver/mysql"
    "github.com/labstack/echo/v4"

    "github.com/wheelshare/vehicle-rental/internal/model"
    "github.com/wheelshare/vehicle-rental/internal/repository"
)

// FavoriteHandler lets users bookmark catalog vehicles and sale
// listings.
type FavoriteHandler struct {
    Favorites *repository.FavoriteRepo
}

func NewFavoriteHandler(f *repository.FavoriteRepo) *FavoriteHandler {
    if f == nil {
        panic("nil repository passed to NewFavoriteHandler")
    }
    return &FavoriteHandler{Favorites: f}
}

type addFavoriteReq struct {
    Type      string  `json:"type"` // rental | sale
    VehicleID *uint64 `json:"vehicle_id"`
    SaleID    *uint64 `json:"sale_id"`
}

// Add bookmarks a vehicle or a sale listing.  The body must carry the
// ID matching its type.
func (h *FavoriteHandler) Add(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req addFavoriteReq
    if err := c.Bind(&req); err != nil || !model.ValidFavoriteType(req.Type) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be rental or sale"})
    }
    typ := model.FavoriteType(req.Type)
    fav := model.Favorite{UserID: uid, Type: typ}
    switch typ {
    case model.FavoriteTypeRental:
        if req.VehicleID == nil || *req.VehicleID == 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "vehicle_id required for type rental"})
        }
        fav.VehicleID = req.VehicleID
    case model.FavoriteTypeSale:
        if req.SaleID == nil || *req.SaleID == 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "sale_id required for type sale"})
        }
        fav.SaleID = req.SaleID
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    saved, err := h.Favorites.Add(ctx, fav)
    if err != nil {
        if me, ok := err.(*mysql.MySQLError); ok {
            switch me.Number {
            case 1062: // duplicate bookmark
                return c.JSON(http.StatusConflict, echo.Map{"error": "already favorited"})
            case 1452: // FK violation, target does not exist
                return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
            }
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add favorite failed"})
    }
    return c.JSON(http.StatusCreated, saved)
}

// Remove deletes one of the caller's favorites.
func (h *FavoriteHandler) Remove(c echo.Context) error {
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

    if err := h.Favorites.Remove(ctx, id, uid); err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "favorite not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove favorite failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "removed"})
}

// List returns the caller's favorites with display fields joined.
func (h *FavoriteHandler) List(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    items, err := h.Favorites.ListByUser(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"favorites": items, "count": len(items)})
}

// Check reports whether the caller already bookmarked an item, so UIs
// can render the toggle without fetching the whole list.
func (h *FavoriteHandler) Check(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    typ := c.Param("type")
    if !model.ValidFavoriteType(typ) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be rental or sale"})
    }
    itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 64)
    if err != nil || itemID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    favID, found, err := h.Favorites.Check(ctx, uid, itemID, model.FavoriteType(typ))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    resp := echo.Map{"favorited": found}
    if found {
        resp["favorite_id"] = favID
    }
    return c.JSON(http.StatusOK, resp)
}
