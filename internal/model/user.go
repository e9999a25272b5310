package model

import "time"

// User represents an account record in the `users` table.  The
// password is only ever stored as a bcrypt hash; handlers expose
// separate response types that omit it.
type User struct {
    ID           uint64
    Name         string
    Email        string
    PasswordHash string
    Phone        *string
    CreatedAt    time.Time
    UpdatedAt    time.Time
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only
// the SHA-256 hash of the raw token is persisted; the raw value is
// returned to the client exactly once at issue time.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (nil while active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
    ID        uint64
    UserID    uint64
    TokenHash string
    ExpiresAt time.Time
    RevokedAt *time.Time
    CreatedAt time.Time
}
