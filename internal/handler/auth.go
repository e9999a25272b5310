package handler

import (
    "context"
    "database/sql"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/wheelshare/vehicle-rental/internal/config"
    "github.com/wheelshare/vehicle-rental/internal/repository"
    "github.com/wheelshare/vehicle-rental/internal/utils"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
    Cfg    config.Config
    Users  *repository.UserRepo
    Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AuthHandler {
    if u == nil || t == nil {
        panic("nil repository passed to NewAuthHandler")
    }
    return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
    Name     string  `json:"name"`
    Email    string  `json:"email"`
    Password string  `json:"password"`
    Phone    *string `json:"phone"`
}
type loginReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}
type refreshReq struct {
    RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
    Token   string    `json:"token"`
    Expires time.Time `json:"expires"`
}
type userPart struct {
    ID    uint64  `json:"id"`
    Name  string  `json:"name"`
    Email string  `json:"email"`
    Phone *string `json:"phone,omitempty"`
}
type authResp struct {
    User    userPart  `json:"user"`
    Access  tokenPart `json:"access"`
    Refresh tokenPart `json:"refresh"`
}

// Register creates an account and returns a token pair immediately,
// so the client does not need a follow-up login call.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Name == "" || req.Email == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and password are required"})
    }
    if len(req.Password) < 6 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    uid, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, req.Phone, h.Cfg.BcryptCost)
    if err != nil {
        if err == repository.ErrEmailExists {
            return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
    }

    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, h.Cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
    }
    refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
    }
    if err := h.Tokens.StoreRefresh(ctx, uid, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
    }

    return c.JSON(http.StatusCreated, authResp{
        User:    userPart{ID: uid, Name: req.Name, Email: req.Email, Phone: req.Phone},
        Access:  tokenPart{Token: access.Token, Expires: access.Exp},
        Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw goes back to the client once
    })
}

// Login verifies credentials and returns a fresh token pair.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    u, err := h.Users.GetByEmail(ctx, req.Email)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if !utils.VerifyPassword(u.PasswordHash, req.Password) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
    }

    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, h.Cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
    }
    refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
    }
    if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
    }

    return c.JSON(http.StatusOK, authResp{
        User:    userPart{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone},
        Access:  tokenPart{Token: access.Token, Expires: access.Exp},
        Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
    })
}

// Refresh rotates a refresh token: validate by hash, revoke the old
// one, issue a new pair.  A stolen token therefore works at most once.
func (h *AuthHandler) Refresh(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
    }
    hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    userID, err := h.Tokens.ValidateRefresh(ctx, hash)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
    }
    _ = h.Tokens.RevokeByHash(ctx, hash)

    u, err := h.Users.GetByID(ctx, userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
    }

    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, userID, h.Cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
    }
    newRef, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
    }
    if err := h.Tokens.StoreRefresh(ctx, userID, utils.HashRefreshRaw(newRef.Raw), newRef.Exp); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
    }

    return c.JSON(http.StatusOK, authResp{
        User:    userPart{ID: userID, Name: u.Name, Email: u.Email, Phone: u.Phone},
        Access:  tokenPart{Token: access.Token, Expires: access.Exp},
        Refresh: tokenPart{Token: newRef.Raw, Expires: newRef.Exp},
    })
}

// Logout revokes the presented refresh token.  The access token stays
// valid until it expires; clients should drop it.
func (h *AuthHandler) Logout(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    if err := h.Tokens.RevokeByHash(ctx, utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    u, err := h.Users.GetByID(ctx, uid)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, userPart{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone})
}
