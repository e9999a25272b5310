package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/json"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/wheelshare/vehicle-rental/internal/config"
)

// cachedResponse is the envelope stored in Redis for a cache hit.
// Headers are kept so replayed responses carry the same content type
// and formatting the handler produced.
type cachedResponse struct {
    Status int         `json:"status"`
    Header http.Header `json:"header"`
    Body   []byte      `json:"body"`
}

// responseRecorder tees the handler's output so a successful response
// can be stored after it has been sent.  Once size passes the limit
// the buffer is abandoned; an oversized body is served but not cached,
// never truncated.
type responseRecorder struct {
    http.ResponseWriter
    status   int
    buf      bytes.Buffer
    size     int64
    limit    int64
    overflow bool
}

func (rr *responseRecorder) WriteHeader(code int) {
    rr.status = code
    rr.ResponseWriter.WriteHeader(code)
}

func (rr *responseRecorder) Write(b []byte) (int, error) {
    rr.size += int64(len(b))
    if rr.limit > 0 && rr.size > rr.limit {
        rr.overflow = true
        rr.buf.Reset()
    } else if !rr.overflow {
        rr.buf.Write(b)
    }
    return rr.ResponseWriter.Write(b)
}

// NewResponseCache caches whole responses for the public catalog
// endpoints.  Only configured methods are considered and only 200
// responses are stored.  Disabled config or a missing Redis client
// turns the middleware into a pass-through.
func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc {
            return func(c echo.Context) error { return next(c) }
        }
    }
    ttl := cfg.TTL
    if ttl <= 0 {
        ttl = 30 * time.Second
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
                return next(c)
            }

            key := cacheKeyFrom(cfg, c)

            if raw, err := rdb.Get(c.Request().Context(), key).Bytes(); err == nil {
                var entry cachedResponse
                if json.Unmarshal(raw, &entry) == nil && entry.Status != 0 {
                    for k, vals := range entry.Header {
                        if strings.EqualFold(k, "Content-Length") {
                            continue
                        }
                        for _, v := range vals {
                            c.Response().Header().Add(k, v)
                        }
                    }
                    c.Response().Header().Set("X-Cache", "HIT")
                    c.Response().WriteHeader(entry.Status)
                    if len(entry.Body) > 0 {
                        _, _ = c.Response().Write(entry.Body)
                    }
                    return nil
                }
            }

            rr := &responseRecorder{
                ResponseWriter: c.Response().Writer,
                status:         http.StatusOK,
                limit:          int64(cfg.MaxBodyBytes),
            }
            c.Response().Writer = rr
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }

            if rr.status == http.StatusOK && !rr.overflow {
                hdr := make(http.Header, len(c.Response().Header()))
                for k, vals := range c.Response().Header() {
                    vv := make([]string, len(vals))
                    copy(vv, vals)
                    hdr[k] = vv
                }
                entry := cachedResponse{Status: rr.status, Header: hdr, Body: rr.buf.Bytes()}
                if payload, err := json.Marshal(entry); err == nil {
                    // Detached context: the client response is already
                    // on the wire, a cancelled request must not skip
                    // the store.
                    _ = rdb.SetEx(context.Background(), key, payload, ttl).Err()
                }
            }
            return nil
        }
    }
}

// cacheKeyFrom hashes the parts selected by the key strategy so query
// strings of any length map to fixed-size keys.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
    r := c.Request()
    parts := []string{}
    switch strings.ToLower(cfg.KeyStrategy) {
    case "route":
        parts = append(parts, "route", c.Path())
    case "method_route":
        parts = append(parts, "method", r.Method, "route", c.Path())
    case "method_route_query":
        parts = append(parts, "method", r.Method, "route", c.Path(), "q", r.URL.RawQuery)
    default: // "route_query"
        parts = append(parts, "route", c.Path(), "q", r.URL.RawQuery)
    }
    sum := sha1.Sum([]byte(strings.Join(parts, ":")))
    return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}
