package database

import (
    "context"
    "database/sql"
    "fmt"
    "time"

    _ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection before returning.
// The DSN forces parseTime so DATETIME columns scan into time.Time, and
// loc=UTC so every timestamp in the system stays in one zone; the
// rental date math depends on that.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
    auth := user
    if pass != "" {
        auth = fmt.Sprintf("%s:%s", user, pass)
    }
    dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
        auth, host, port, name)

    db, err := sql.Open("mysql", dsn)
    if err != nil {
        return nil, err
    }

    // Enough connections for the handler concurrency we expect; bookings
    // hold a connection only for the duration of a single statement.
    db.SetMaxOpenConns(25)
    db.SetMaxIdleConns(10)
    db.SetConnMaxLifetime(30 * time.Minute)

    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := db.PingContext(ctx); err != nil {
        _ = db.Close()
        return nil, err
    }
    return db, nil
}
