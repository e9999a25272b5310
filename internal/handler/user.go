package handler

import (
    "context"
    "database/sql"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/wheelshare/vehicle-rental/internal/repository"
)

// UserHandler serves public user profile lookups, used by sale
// listings to show who is selling.
type UserHandler struct {
    Users *repository.UserRepo
}

func NewUserHandler(u *repository.UserRepo) *UserHandler {
    if u == nil {
        panic("nil repository passed to NewUserHandler")
    }
    return &UserHandler{Users: u}
}

// Get returns a user's public profile.  Email and phone are omitted
// here; buyers get seller contact details through the sale detail
// endpoint instead.
func (h *UserHandler) Get(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    u, err := h.Users.GetByID(ctx, id)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "id":         u.ID,
        "name":       u.Name,
        "created_at": u.CreatedAt,
    })
}
