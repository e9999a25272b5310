package handler

import (
    "errors"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
)

// dbTimeout bounds every database call made from a handler so a stuck
// connection cannot hold a request open indefinitely.
const dbTimeout = 5 * time.Second

// getUserID extracts the authenticated user from the echo context.
// The JWT middleware stores the sub claim, which arrives as a float64
// after JSON decoding but may be a string or integer depending on the
// issuer.
func getUserID(c echo.Context) (uint64, error) {
    switch t := c.Get("user_id").(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// pathID parses the :id route parameter. Zero is never a valid
// identifier.
func pathID(c echo.Context) (uint64, error) {
    n, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || n == 0 {
        return 0, errors.New("invalid id")
    }
    return n, nil
}
