package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Backload is a transporter's advertised empty-return-leg capacity. It is a
// listing-like entity for transport capacity rather than goods.
type Backload struct {
	Id            uuid.UUID           `json:"id" db:"id"`
	TransporterId uuid.UUID           `json:"transporterId" db:"transporter_id"`
	FromLocation  string              `json:"fromLocation" db:"from_location"`
	ToLocation    string              `json:"toLocation" db:"to_location"`
	CapacityTons  decimal.Decimal     `json:"capacityTons" db:"capacity_tons"`
	AvailableDate time.Time           `json:"availableDate" db:"available_date"`
	PriceEstimate decimal.NullDecimal `json:"priceEstimate" db:"price_estimate"`
	IsActive      bool                `json:"isActive" db:"is_active"`
	CreatedAt     string              `json:"createdAt" db:"created_at"`
}

// service + repo input model
type CreateBackloadInput struct {
	TransporterUsername string
	FromLocation        string
	ToLocation          string
	CapacityTons        decimal.Decimal
	AvailableDate       time.Time
	PriceEstimate       decimal.NullDecimal
	// Id and created_at set automatically, is_active starts true
	TransporterId uuid.UUID
}

// controller model
type BackloadOutputModel struct {
	Id            string `json:"id"`
	TransporterId string `json:"transporterId"`
	FromLocation  string `json:"fromLocation"`
	ToLocation    string `json:"toLocation"`
	CapacityTons  string `json:"capacityTons"`
	AvailableDate string `json:"availableDate"`
	PriceEstimate string `json:"priceEstimate,omitempty"`
	IsActive      bool   `json:"isActive"`
	CreatedAt     string `json:"createdAt"`
}
