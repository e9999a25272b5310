package model

// VehicleType enumerates the kinds of inventory the marketplace rents
// out.  The values correspond to the ENUM in the vehicles table.
type VehicleType string

const (
    VehicleTypeBike VehicleType = "bike"
    VehicleTypeCar  VehicleType = "car"
)

// ValidVehicleType reports whether t is one of the known vehicle types.
func ValidVehicleType(t string) bool {
    switch VehicleType(t) {
    case VehicleTypeBike, VehicleTypeCar:
        return true
    }
    return false
}

// Vehicle represents a rentable unit of inventory as stored in the
// `vehicles` table.  The Available flag is a cached projection of
// "no active rental exists for this vehicle"; it is only ever mutated
// through VehicleRepo.TryReserve and VehicleRepo.Release so that the
// booking service can keep it consistent with the rentals table.
//
// Fields:
//  ID           – primary key identifier.
//  Type         – kind of vehicle (bike or car).
//  Brand, Model – manufacturer and model name.
//  Year         – model year (nullable in the schema, zero when absent).
//  PricePerHour – hourly rental rate.
//  PricePerDay  – daily rental rate.
//  Available    – whether the vehicle can currently be booked.
//  ImageURL     – optional catalog image.
//  Description  – optional free-form description.
//  Features     – optional comma-separated feature list.
type Vehicle struct {
    ID           uint64      `json:"id"`
    Type         VehicleType `json:"type"`
    Brand        string      `json:"brand"`
    Model        string      `json:"model"`
    Year         uint16      `json:"year,omitempty"`
    PricePerHour float64     `json:"price_per_hour"`
    PricePerDay  float64     `json:"price_per_day"`
    Available    bool        `json:"available"`
    ImageURL     *string     `json:"image_url,omitempty"`
    Description  *string     `json:"description,omitempty"`
    Features     *string     `json:"features,omitempty"`
}
