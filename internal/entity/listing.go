package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// db model
type Listing struct {
	Id                uuid.UUID       `json:"id" db:"id"`
	SellerId          uuid.UUID       `json:"sellerId" db:"seller_id"`
	Product           string          `json:"product" db:"product"`
	Price             decimal.Decimal `json:"price" db:"price"`
	Currency          string          `json:"currency" db:"currency"`
	Quantity          decimal.Decimal `json:"quantity" db:"quantity"`
	AvailableQuantity decimal.Decimal `json:"availableQuantity" db:"available_quantity"`
	Location          string          `json:"location" db:"location"`
	DeliveryExFarm    bool            `json:"deliveryExFarm" db:"delivery_ex_farm"`
	DeliveryDelivered bool            `json:"deliveryDelivered" db:"delivery_delivered"`
	QualityGrade      string          `json:"qualityGrade" db:"quality_grade"`
	ExpiresAt         time.Time       `json:"expiresAt" db:"expires_at"`
	IsActive          bool            `json:"isActive" db:"is_active"`
	CreatedAt         string          `json:"createdAt" db:"created_at"`
}

// IsExpired is the lazily computed expiry check. Listings never move to a
// stored expired status.
func (l *Listing) IsExpired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}

// service + repo input model
type CreateListingInput struct {
	SellerUsername    string
	SellerId          uuid.UUID
	Product           string
	Price             decimal.Decimal
	Currency          string
	Quantity          decimal.Decimal
	Location          string
	DeliveryExFarm    bool
	DeliveryDelivered bool
	QualityGrade      string
	ExpiresAt         time.Time
	// Id and created_at set automatically
	// available_quantity starts equal to quantity
}

// controller model
type ListingOutputModel struct {
	Id                string `json:"id"`
	SellerId          string `json:"sellerId"`
	Product           string `json:"product"`
	Price             string `json:"price"`
	Currency          string `json:"currency"`
	Quantity          string `json:"quantity"`
	AvailableQuantity string `json:"availableQuantity"`
	Location          string `json:"location"`
	DeliveryExFarm    bool   `json:"deliveryExFarm"`
	DeliveryDelivered bool   `json:"deliveryDelivered"`
	QualityGrade      string `json:"qualityGrade"`
	ExpiresAt         string `json:"expiresAt"`
	IsActive          bool   `json:"isActive"`
	CreatedAt         string `json:"createdAt"`
}
