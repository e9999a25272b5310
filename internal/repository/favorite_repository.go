package repository

import (
    "context"
    "database/sql"

    "github.com/wheelshare/vehicle-rental/internal/model"
)

// FavoriteRepo persists user bookmarks for rental vehicles and sale
// listings.
type FavoriteRepo struct {
    db *sql.DB
}

// NewFavoriteRepo returns a FavoriteRepo bound to the given database.
func NewFavoriteRepo(db *sql.DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

// FavoriteDetail is a favorite joined with enough of the target item
// to render a bookmark list without further lookups.  Vehicle fields
// are set for rental favorites, sale fields for sale favorites.
type FavoriteDetail struct {
    model.Favorite
    VehicleBrand *string  `json:"vehicle_brand,omitempty"`
    VehicleModel *string  `json:"vehicle_model,omitempty"`
    VehicleImage *string  `json:"vehicle_image,omitempty"`
    SaleBrand    *string  `json:"sale_brand,omitempty"`
    SaleModel    *string  `json:"sale_model,omitempty"`
    SaleImage    *string  `json:"sale_image,omitempty"`
    SalePrice    *float64 `json:"sale_price,omitempty"`
}

// Add inserts a favorite and returns it with the generated ID.
func (r *FavoriteRepo) Add(ctx context.Context, f model.Favorite) (model.Favorite, error) {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO favorites (user_id, vehicle_id, sale_id, type) VALUES (?, ?, ?, ?)`,
        f.UserID, f.VehicleID, f.SaleID, f.Type)
    if err != nil {
        return model.Favorite{}, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return model.Favorite{}, err
    }
    f.ID = uint64(id)
    return f, nil
}

// Remove deletes a favorite owned by the user.  sql.ErrNoRows when no
// such favorite exists for this user.
func (r *FavoriteRepo) Remove(ctx context.Context, id, userID uint64) error {
    res, err := r.db.ExecContext(ctx,
        `DELETE FROM favorites WHERE id = ? AND user_id = ?`, id, userID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

// ListByUser returns the user's favorites newest first, left-joined
// with the bookmarked vehicle or sale listing.
func (r *FavoriteRepo) ListByUser(ctx context.Context, userID uint64) ([]FavoriteDetail, error) {
    const q = `SELECT f.id, f.user_id, f.vehicle_id, f.sale_id, f.type, f.created_at,
                      v.brand, v.model, v.image_url,
                      vs.brand, vs.model, vs.image_url, vs.price
               FROM favorites f
               LEFT JOIN vehicles v       ON v.id = f.vehicle_id AND f.type = 'rental'
               LEFT JOIN vehicle_sales vs ON vs.id = f.sale_id   AND f.type = 'sale'
               WHERE f.user_id = ?
               ORDER BY f.created_at DESC`
    rows, err := r.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    assign := func(ns sql.NullString) *string {
        if !ns.Valid {
            return nil
        }
        v := ns.String
        return &v
    }
    details := make([]FavoriteDetail, 0)
    for rows.Next() {
        var (
            d          FavoriteDetail
            vehicleID  sql.NullInt64
            saleID     sql.NullInt64
            vBrand     sql.NullString
            vModel     sql.NullString
            vImage     sql.NullString
            sBrand     sql.NullString
            sModel     sql.NullString
            sImage     sql.NullString
            salePrice  sql.NullFloat64
        )
        if err := rows.Scan(&d.ID, &d.UserID, &vehicleID, &saleID, &d.Type, &d.CreatedAt,
            &vBrand, &vModel, &vImage, &sBrand, &sModel, &sImage, &salePrice); err != nil {
            return nil, err
        }
        if vehicleID.Valid {
            v := uint64(vehicleID.Int64)
            d.VehicleID = &v
        }
        if saleID.Valid {
            v := uint64(saleID.Int64)
            d.SaleID = &v
        }
        d.VehicleBrand = assign(vBrand)
        d.VehicleModel = assign(vModel)
        d.VehicleImage = assign(vImage)
        d.SaleBrand = assign(sBrand)
        d.SaleModel = assign(sModel)
        d.SaleImage = assign(sImage)
        if salePrice.Valid {
            p := salePrice.Float64
            d.SalePrice = &p
        }
        details = append(details, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return details, nil
}

// Check reports whether the user has favorited the given item and, if
// so, the favorite's ID.  itemID is a vehicle ID for rental favorites
// and a sale ID for sale favorites.
func (r *FavoriteRepo) Check(ctx context.Context, userID, itemID uint64, typ model.FavoriteType) (uint64, bool, error) {
    column := "vehicle_id"
    if typ == model.FavoriteTypeSale {
        column = "sale_id"
    }
    var id uint64
    err := r.db.QueryRowContext(ctx,
        `SELECT id FROM favorites WHERE user_id = ? AND `+column+` = ? AND type = ?`,
        userID, itemID, typ).Scan(&id)
    if err == sql.ErrNoRows {
        return 0, false, nil
    }
    if err != nil {
        return 0, false, err
    }
    return id, true, nil
}
