package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// db model
type Deal struct {
	Id              uuid.UUID       `json:"id" db:"id"`
	OfferId         uuid.UUID       `json:"offerId" db:"offer_id"`
	ListingId       uuid.UUID       `json:"listingId" db:"listing_id"`
	BuyerId         uuid.UUID       `json:"buyerId" db:"buyer_id"`
	SellerId        uuid.UUID       `json:"sellerId" db:"seller_id"`
	FinalPrice      decimal.Decimal `json:"finalPrice" db:"final_price"`
	Quantity        decimal.Decimal `json:"quantity" db:"quantity"`
	DeliveryType    string          `json:"deliveryType" db:"delivery_type"`
	DeliveryAddress string          `json:"deliveryAddress" db:"delivery_address"`
	Status          string          `json:"status" db:"status"`
	DeliveryDate    time.Time       `json:"deliveryDate" db:"delivery_date"`
	PaymentStatus   string          `json:"paymentStatus" db:"payment_status"`
	PlatformFee     decimal.Decimal `json:"platformFee" db:"platform_fee"`
	TotalAmount     decimal.Decimal `json:"totalAmount" db:"total_amount"`
	Terms           string          `json:"terms" db:"terms"`
	CreatedAt       string          `json:"createdAt" db:"created_at"`
}

// service + repo input model. Commercial terms are a one-time snapshot of
// the accepted offer; they are never recomputed from the offer or listing
// afterwards.
type CreateDealInput struct {
	OfferId         uuid.UUID
	ListingId       uuid.UUID
	BuyerId         uuid.UUID
	SellerId        uuid.UUID
	FinalPrice      decimal.Decimal
	Quantity        decimal.Decimal
	DeliveryType    string
	DeliveryAddress string
	DeliveryDate    time.Time
	PlatformFee     decimal.Decimal
	TotalAmount     decimal.Decimal
	Terms           string
	// Status should be set: "pending"
	// payment_status should be set: "pending"
	// Id and created_at set automatically

	// OfferAnnotation is appended to the offer message inside the same
	// transaction that flips the offer status (counter acceptance marker).
	OfferAnnotation string
}

// controller model
type DealOutputModel struct {
	Id              string `json:"id"`
	OfferId         string `json:"offerId"`
	ListingId       string `json:"listingId"`
	BuyerId         string `json:"buyerId"`
	SellerId        string `json:"sellerId"`
	FinalPrice      string `json:"finalPrice"`
	Quantity        string `json:"quantity"`
	DeliveryType    string `json:"deliveryType"`
	DeliveryAddress string `json:"deliveryAddress,omitempty"`
	Status          string `json:"status"`
	DeliveryDate    string `json:"deliveryDate"`
	PaymentStatus   string `json:"paymentStatus"`
	PlatformFee     string `json:"platformFee"`
	TotalAmount     string `json:"totalAmount"`
	Terms           string `json:"terms,omitempty"`
	CreatedAt       string `json:"createdAt"`
}
