package middleware

import (
    "fmt"
    "math"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/wheelshare/vehicle-rental/internal/config"
)

// NewTokenBucket returns a Redis-backed token-bucket limiter.  The
// bucket state lives in a Redis hash and the take-one-token decision
// runs as a Lua script, so concurrent requests across multiple server
// instances see one consistent bucket.  With a nil client or a
// disabled config the middleware is a pass-through, and any Redis
// error fails open: a broken limiter must not take bookings down.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc {
            return func(c echo.Context) error { return next(c) }
        }
    }

    limiterScript := redis.NewScript(`
        local key = KEYS[1]
        local now_ms = tonumber(ARGV[1])
        local capacity = tonumber(ARGV[2])
        local refill_tokens = tonumber(ARGV[3])
        local interval_ms = tonumber(ARGV[4])
        local ttl_seconds = tonumber(ARGV[5])

        local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
        local tokens = tonumber(state[1])
        local last_refill = tonumber(state[2])

        if tokens == nil or last_refill == nil then
            tokens = capacity
            last_refill = now_ms
        end

        if interval_ms > 0 and refill_tokens > 0 then
            local elapsed = math.max(0, now_ms - last_refill)
            local intervals = math.floor(elapsed / interval_ms)
            if intervals > 0 then
                tokens = math.min(capacity, tokens + (intervals * refill_tokens))
                last_refill = last_refill + (intervals * interval_ms)
            end
        end

        local allowed = 0
        local retry_after_ms = 0
        if tokens > 0 then
            allowed = 1
            tokens = tokens - 1
        else
            local until_next = interval_ms - (now_ms - last_refill)
            if until_next < 0 then until_next = 0 end
            retry_after_ms = until_next
        end

        redis.call('HMSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
        redis.call('EXPIRE', key, ttl_seconds)

        return { allowed, tokens, retry_after_ms }
    `)

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := buildRateKey(cfg, c)
            args := []interface{}{
                time.Now().UnixMilli(),
                cfg.Capacity,
                cfg.RefillTokens,
                cfg.RefillInterval.Milliseconds(),
                int64(cfg.TTL / time.Second),
            }

            vals, err := limiterScript.Run(c.Request().Context(), rdb, []string{key}, args...).Result()
            if err != nil {
                if cfg.Debug {
                    c.Logger().Warnf("ratelimit: redis error for key=%s: %v", key, err)
                }
                return next(c)
            }

            arr, ok := vals.([]interface{})
            if !ok || len(arr) != 3 {
                if cfg.Debug {
                    c.Logger().Warnf("ratelimit: unexpected script result for key=%s: %#v", key, vals)
                }
                return next(c)
            }
            allowed := fmt.Sprint(arr[0]) == "1"
            remaining := asInt64(arr[1])
            retryMs := asInt64(arr[2])

            c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
            c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

            if !allowed {
                secs := int(math.Ceil(float64(retryMs) / 1000.0))
                if secs < 0 {
                    secs = 0
                }
                c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
                return c.JSON(http.StatusTooManyRequests, echo.Map{
                    "error":       "too_many_requests",
                    "retry_after": secs,
                })
            }
            return next(c)
        }
    }
}

func asInt64(v interface{}) int64 {
    switch t := v.(type) {
    case int64:
        return t
    case int:
        return int64(t)
    case float64:
        return int64(t)
    case string:
        if n, err := strconv.ParseInt(t, 10, 64); err == nil {
            return n
        }
    }
    return 0
}

// buildRateKey derives the bucket key from the configured strategy.
// The default scopes buckets per client IP, authenticated user and
// route, so one hot endpoint cannot starve the others.
func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
    parts := []string{cfg.Prefix}
    ip := c.RealIP()
    if ip == "" {
        ip = "unknown"
    }
    uid := currentUserID(c)
    route := c.Request().Method + " " + c.Path()

    switch strings.ToLower(cfg.KeyStrategy) {
    case "ip":
        parts = append(parts, "ip", ip)
    case "user":
        parts = append(parts, "user", uid)
    case "route":
        parts = append(parts, "route", route)
    case "ip_route":
        parts = append(parts, "ip", ip, "route", route)
    case "user_route":
        parts = append(parts, "user", uid, "route", route)
    default: // "ip_user_route"
        parts = append(parts, "ip", ip, "user", uid, "route", route)
    }
    return strings.Join(parts, ":")
}

// currentUserID renders the authenticated user for key building.  The
// JWT middleware stores the sub claim, which arrives as a float64 from
// JSON decoding; unauthenticated requests share the "anon" bucket.
func currentUserID(c echo.Context) string {
    switch v := c.Get("user_id").(type) {
    case string:
        if v != "" {
            return v
        }
    case float64:
        return strconv.FormatUint(uint64(v), 10)
    case uint64:
        return strconv.FormatUint(v, 10)
    }
    return "anon"
}
