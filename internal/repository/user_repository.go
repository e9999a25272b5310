package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/wheelshare/vehicle-rental/internal/model"
    "github.com/wheelshare/vehicle-rental/internal/utils"
)

// UserRepo persists accounts in the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with a bcrypt-hashed password and returns the
// generated ID.  Emails are stored lowercased; a duplicate email maps
// to ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, name, email, password string, phone *string, cost int) (uint64, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    hash, err := utils.HashPassword(password, cost)
    if err != nil {
        return 0, err
    }
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO users (name, email, password_hash, phone) VALUES (?,?,?,?)",
        name, email, hash, phone)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return 0, ErrEmailExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

const userColumns = "id, name, email, password_hash, phone, created_at, updated_at"

func scanUser(row *sql.Row) (model.User, error) {
    var (
        u     model.User
        phone sql.NullString
    )
    err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &phone, &u.CreatedAt, &u.UpdatedAt)
    if err != nil {
        return model.User{}, err
    }
    if phone.Valid {
        p := phone.String
        u.Phone = &p
    }
    return u, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    return scanUser(r.DB.QueryRowContext(ctx,
        "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
    return scanUser(r.DB.QueryRowContext(ctx,
        "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}
