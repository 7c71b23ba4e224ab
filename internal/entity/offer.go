package entity

import (
	"time"

	"farmfeed-api/internal/common"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// db model
type Offer struct {
	Id              uuid.UUID       `json:"id" db:"id"`
	ListingId       uuid.UUID       `json:"listingId" db:"listing_id"`
	BuyerId         uuid.UUID       `json:"buyerId" db:"buyer_id"`
	SellerId        uuid.UUID       `json:"sellerId" db:"seller_id"`
	Price           decimal.Decimal `json:"price" db:"price"`
	Quantity        decimal.Decimal `json:"quantity" db:"quantity"`
	DeliveryType    string          `json:"deliveryType" db:"delivery_type"`
	DeliveryAddress string          `json:"deliveryAddress" db:"delivery_address"`
	Message         string          `json:"message" db:"message"`
	Status          string          `json:"status" db:"status"`
	ExpiresAt       time.Time       `json:"expiresAt" db:"expires_at"`
	IsNegotiable    bool            `json:"isNegotiable" db:"is_negotiable"`
	Terms           string          `json:"terms" db:"terms"`
	CreatedAt       string          `json:"createdAt" db:"created_at"`

	// Single-slot counter. A new counter overwrites the previous one.
	CounterPrice     decimal.NullDecimal `json:"counterPrice" db:"counter_price"`
	CounterMessage   string              `json:"counterMessage" db:"counter_message"`
	CounterCreatedAt *time.Time          `json:"counterCreatedAt" db:"counter_created_at"`
}

// IsExpired is evaluated at read time. The stored status column is never
// flipped to expired by any sweeper.
func (o *Offer) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// IsTerminal reports whether the offer can take no further transitions.
func (o *Offer) IsTerminal() bool {
	return o.Status == common.OfferAccepted || o.Status == common.OfferRejected
}

// EffectivePrice is the price a deal snapshots: the counter price when a
// counter is on the table, the original offer price otherwise.
func (o *Offer) EffectivePrice() decimal.Decimal {
	if o.Status == common.OfferCounterOffered && o.CounterPrice.Valid {
		return o.CounterPrice.Decimal
	}

	return o.Price
}

// service + repo input model
type CreateOfferInput struct {
	ListingId       string
	BuyerUsername   string
	Price           decimal.Decimal
	Quantity        decimal.Decimal
	DeliveryType    string
	DeliveryAddress string
	Message         string
	Terms           string
	IsNegotiable    bool
	// Status should be set: "pending"
	// SellerId denormalized from the listing
	// ExpiresAt should be set: now + 7 days
	// Id and created_at set automatically
	BuyerId   uuid.UUID
	SellerId  uuid.UUID
	Status    string
	ExpiresAt time.Time
}

// controller model
type OfferOutputModel struct {
	Id              string              `json:"id"`
	ListingId       string              `json:"listingId"`
	BuyerId         string              `json:"buyerId"`
	SellerId        string              `json:"sellerId"`
	Price           string              `json:"price"`
	Quantity        string              `json:"quantity"`
	DeliveryType    string              `json:"deliveryType"`
	DeliveryAddress string              `json:"deliveryAddress,omitempty"`
	Message         string              `json:"message,omitempty"`
	Status          string              `json:"status"`
	ExpiresAt       string              `json:"expiresAt"`
	IsNegotiable    bool                `json:"isNegotiable"`
	Terms           string              `json:"terms,omitempty"`
	CreatedAt       string              `json:"createdAt"`
	CounterOffer    *CounterOfferOutput `json:"counterOffer,omitempty"`
}

type CounterOfferOutput struct {
	Price     string `json:"price"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}
