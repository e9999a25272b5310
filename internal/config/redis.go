package config

// Redis backs the rate limiter and the catalog response cache.  Both are
// best-effort layers: when no Redis server is reachable at startup the
// constructor returns nil and the middleware degrade to pass-through.

import (
    "context"
    "crypto/tls"
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/redis/go-redis/v9"
)

// NewRedisClient instantiates a Redis client using environment variables.
// Supported variables:
//   REDIS_HOST and REDIS_PORT – hostname and port of the Redis server
//   REDIS_ADDR – host:port shorthand (takes precedence when set)
//   REDIS_PASSWORD – optional password
//   REDIS_DB – database number (default 0)
//   REDIS_TLS – enable TLS when "true" or "1"
// The returned client is nil if a connection cannot be established.
func NewRedisClient() *redis.Client {
    host := os.Getenv("REDIS_HOST")
    port := os.Getenv("REDIS_PORT")
    addr := os.Getenv("REDIS_ADDR")
    if host != "" && port != "" {
        addr = host + ":" + port
    }
    if addr == "" {
        addr = "localhost:6379"
    }

    db := 0
    if v := os.Getenv("REDIS_DB"); v != "" {
        if n, err := strconv.Atoi(v); err == nil {
            db = n
        }
    }

    opts := &redis.Options{
        Addr:     addr,
        Password: os.Getenv("REDIS_PASSWORD"),
        DB:       db,
    }
    if v := strings.ToLower(os.Getenv("REDIS_TLS")); v == "true" || v == "1" {
        opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
    }

    client := redis.NewClient(opts)
    ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        _ = client.Close()
        return nil
    }
    return client
}
