package model

import "time"

// FavoriteType distinguishes what a favorite points at: a rental
// vehicle from the catalog or a second-hand sale listing.
type FavoriteType string

const (
    FavoriteTypeRental FavoriteType = "rental"
    FavoriteTypeSale   FavoriteType = "sale"
)

// ValidFavoriteType reports whether t names a known favorite type.
func ValidFavoriteType(t string) bool {
    return FavoriteType(t) == FavoriteTypeRental || FavoriteType(t) == FavoriteTypeSale
}

// Favorite is a bookmark row in the `favorites` table.  Exactly one
// of VehicleID and SaleID is set, matching Type.
type Favorite struct {
    ID        uint64       `json:"id"`
    UserID    uint64       `json:"user_id"`
    VehicleID *uint64      `json:"vehicle_id,omitempty"`
    SaleID    *uint64      `json:"sale_id,omitempty"`
    Type      FavoriteType `json:"type"`
    CreatedAt time.Time    `json:"created_at"`
}
