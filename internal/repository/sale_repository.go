package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/wheelshare/vehicle-rental/internal/model"
)

// SaleRepo persists second-hand sale listings.
type SaleRepo struct {
    db *sql.DB
}

// NewSaleRepo returns a SaleRepo bound to the given database.
func NewSaleRepo(db *sql.DB) *SaleRepo { return &SaleRepo{db: db} }

// SaleFilter narrows List results.  Zero values mean "no filter".
type SaleFilter struct {
    Type      string
    Brand     string
    MinPrice  float64
    MaxPrice  float64
    Condition string
}

// SaleDetail is a sale listing joined with seller information for
// display.  Contact details are populated only by GetByID, so the
// browse listing never leaks seller emails in bulk.
type SaleDetail struct {
    model.Sale
    SellerName  string  `json:"seller_name"`
    SellerEmail *string `json:"seller_email,omitempty"`
    SellerPhone *string `json:"seller_phone,omitempty"`
}

const saleColumns = `id, user_id, type, brand, model, year, price, cond, mileage,
        description, image_url, contact_email, contact_phone, location, status, created_at`

// Same columns qualified for queries that join users (id and created_at
// would otherwise be ambiguous).
const saleColumnsQualified = `vs.id, vs.user_id, vs.type, vs.brand, vs.model, vs.year, vs.price,
        vs.cond, vs.mileage, vs.description, vs.image_url, vs.contact_email,
        vs.contact_phone, vs.location, vs.status, vs.created_at`

func scanSale(row interface{ Scan(...any) error }, extra ...any) (model.Sale, error) {
    var (
        s       model.Sale
        year    sql.NullInt64
        mileage sql.NullInt64
        strs    [6]sql.NullString // cond, description, image_url, contact_email, contact_phone, location
    )
    dest := []any{&s.ID, &s.UserID, &s.Type, &s.Brand, &s.Model, &year, &s.Price,
        &strs[0], &mileage, &strs[1], &strs[2], &strs[3], &strs[4], &strs[5],
        &s.Status, &s.CreatedAt}
    dest = append(dest, extra...)
    if err := row.Scan(dest...); err != nil {
        return model.Sale{}, err
    }
    if year.Valid {
        s.Year = uint16(year.Int64)
    }
    if mileage.Valid {
        m := uint32(mileage.Int64)
        s.Mileage = &m
    }
    assign := func(ns sql.NullString) *string {
        if !ns.Valid {
            return nil
        }
        v := ns.String
        return &v
    }
    s.Condition = assign(strs[0])
    s.Description = assign(strs[1])
    s.ImageURL = assign(strs[2])
    s.ContactEmail = assign(strs[3])
    s.ContactPhone = assign(strs[4])
    s.Location = assign(strs[5])
    return s, nil
}

// Create inserts a listing with status available and returns its ID.
func (r *SaleRepo) Create(ctx context.Context, s model.Sale) (uint64, error) {
    const q = `INSERT INTO vehicle_sales
        (user_id, type, brand, model, year, price, cond, mileage, description,
         image_url, contact_email, contact_phone, location)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    var year any
    if s.Year > 0 {
        year = s.Year
    }
    res, err := r.db.ExecContext(ctx, q, s.UserID, s.Type, s.Brand, s.Model, year,
        s.Price, s.Condition, s.Mileage, s.Description, s.ImageURL,
        s.ContactEmail, s.ContactPhone, s.Location)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// List returns available listings matching the filter, newest first,
// with the seller's name joined.
func (r *SaleRepo) List(ctx context.Context, f SaleFilter) ([]SaleDetail, error) {
    query := `SELECT ` + saleColumnsQualified + `, u.name
              FROM vehicle_sales vs
              JOIN users u ON u.id = vs.user_id
              WHERE vs.status = ?`
    args := []any{model.SaleStatusAvailable}
    if f.Type != "" {
        query += ` AND vs.type = ?`
        args = append(args, f.Type)
    }
    if f.Brand != "" {
        query += ` AND vs.brand LIKE ?`
        args = append(args, "%"+strings.TrimSpace(f.Brand)+"%")
    }
    if f.MinPrice > 0 {
        query += ` AND vs.price >= ?`
        args = append(args, f.MinPrice)
    }
    if f.MaxPrice > 0 {
        query += ` AND vs.price <= ?`
        args = append(args, f.MaxPrice)
    }
    if f.Condition != "" {
        query += ` AND vs.cond = ?`
        args = append(args, f.Condition)
    }
    query += ` ORDER BY vs.created_at DESC`

    rows, err := r.db.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]SaleDetail, 0)
    for rows.Next() {
        var d SaleDetail
        s, err := scanSale(rows, &d.SellerName)
        if err != nil {
            return nil, err
        }
        d.Sale = s
        details = append(details, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return details, nil
}

// GetByID fetches one listing with full seller contact details.
// sql.ErrNoRows when absent.
func (r *SaleRepo) GetByID(ctx context.Context, id uint64) (SaleDetail, error) {
    query := `SELECT ` + saleColumnsQualified + `, u.name, u.email, u.phone
              FROM vehicle_sales vs
              JOIN users u ON u.id = vs.user_id
              WHERE vs.id = ?`
    var (
        d     SaleDetail
        email sql.NullString
        phone sql.NullString
    )
    s, err := scanSale(r.db.QueryRowContext(ctx, query, id), &d.SellerName, &email, &phone)
    if err != nil {
        return SaleDetail{}, err
    }
    d.Sale = s
    if email.Valid {
        v := email.String
        d.SellerEmail = &v
    }
    if phone.Valid {
        v := phone.String
        d.SellerPhone = &v
    }
    return d, nil
}

// ListByUser returns all of a user's own listings, newest first,
// regardless of status.
func (r *SaleRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Sale, error) {
    const q = `SELECT ` + saleColumns + ` FROM vehicle_sales
               WHERE user_id = ? ORDER BY created_at DESC`
    rows, err := r.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    sales := make([]model.Sale, 0)
    for rows.Next() {
        s, err := scanSale(rows)
        if err != nil {
            return nil, err
        }
        sales = append(sales, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return sales, nil
}

// UpdateStatus writes the listing status, but only for the listing's
// owner.  sql.ErrNoRows when the listing does not exist; ErrConflict
// when it exists but belongs to someone else.
func (r *SaleRepo) UpdateStatus(ctx context.Context, id, userID uint64, status model.SaleStatus) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE vehicle_sales SET status = ? WHERE id = ? AND user_id = ?`,
        status, id, userID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        var ownerID uint64
        err := r.db.QueryRowContext(ctx,
            `SELECT user_id FROM vehicle_sales WHERE id = ?`, id).Scan(&ownerID)
        if err != nil {
            return err // sql.ErrNoRows: listing absent
        }
        if ownerID != userID {
            return ErrConflict
        }
        // Owner matched and status already had this value: treat as success.
    }
    return nil
}
