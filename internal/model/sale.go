package model

import "time"

// SaleStatus enumerates the states of a second-hand sale listing.
type SaleStatus string

const (
    SaleStatusAvailable SaleStatus = "available"
    SaleStatusSold      SaleStatus = "sold"
    SaleStatusWithdrawn SaleStatus = "withdrawn"
)

// ValidSaleStatus reports whether s names a known sale status.
func ValidSaleStatus(s string) bool {
    switch SaleStatus(s) {
    case SaleStatusAvailable, SaleStatusSold, SaleStatusWithdrawn:
        return true
    }
    return false
}

// Sale is a second-hand vehicle listing in the `vehicle_sales` table.
// Unlike rental inventory, a sale is owned by the user who listed it
// and carries its own vehicle attributes and contact details.
type Sale struct {
    ID           uint64      `json:"id"`
    UserID       uint64      `json:"user_id"`
    Type         VehicleType `json:"type"`
    Brand        string      `json:"brand"`
    Model        string      `json:"model"`
    Year         uint16      `json:"year,omitempty"`
    Price        float64     `json:"price"`
    Condition    *string     `json:"condition,omitempty"`
    Mileage      *uint32     `json:"mileage,omitempty"`
    Description  *string     `json:"description,omitempty"`
    ImageURL     *string     `json:"image_url,omitempty"`
    ContactEmail *string     `json:"contact_email,omitempty"`
    ContactPhone *string     `json:"contact_phone,omitempty"`
    Location     *string     `json:"location,omitempty"`
    Status       SaleStatus  `json:"status"`
    CreatedAt    time.Time   `json:"created_at"`
}
