package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// db model
type TransportRequest struct {
	Id               uuid.UUID       `json:"id" db:"id"`
	DealId           uuid.NullUUID   `json:"dealId" db:"deal_id"`
	RequesterId      uuid.UUID       `json:"requesterId" db:"requester_id"`
	PickupLocation   string          `json:"pickupLocation" db:"pickup_location"`
	DeliveryLocation string          `json:"deliveryLocation" db:"delivery_location"`
	Quantity         decimal.Decimal `json:"quantity" db:"quantity"`
	Unit             string          `json:"unit" db:"unit"`
	PreferredDate    time.Time       `json:"preferredDate" db:"preferred_date"`
	Budget           decimal.NullDecimal `json:"budget" db:"budget"`
	Status           string          `json:"status" db:"status"`
	PlatformFee      decimal.Decimal `json:"platformFee" db:"platform_fee"`
	CreatedAt        string          `json:"createdAt" db:"created_at"`

	// Auto-estimate snapshot taken at creation.
	LowEstimate    decimal.Decimal `json:"lowEstimate" db:"low_estimate"`
	MediumEstimate decimal.Decimal `json:"mediumEstimate" db:"medium_estimate"`
	HighEstimate   decimal.Decimal `json:"highEstimate" db:"high_estimate"`
	DistanceKm     decimal.Decimal `json:"distanceKm" db:"distance_km"`
	FuelCost       decimal.Decimal `json:"fuelCost" db:"fuel_cost"`
	LaborCost      decimal.Decimal `json:"laborCost" db:"labor_cost"`
	Overhead       decimal.Decimal `json:"overhead" db:"overhead"`
}

// service + repo input model
type CreateTransportRequestInput struct {
	DealId            string
	RequesterUsername string
	PickupLocation    string
	DeliveryLocation  string
	Quantity          decimal.Decimal
	Unit              string
	PreferredDate     time.Time
	Budget            decimal.NullDecimal
	DistanceKm        decimal.Decimal
	FuelCost          decimal.Decimal
	LaborCost         decimal.Decimal
	Overhead          decimal.Decimal
	// Status should be set: "open"
	// Estimates and platform_fee computed by the service
	RequesterId    uuid.UUID
	DealUUID       uuid.NullUUID
	Status         string
	PlatformFee    decimal.Decimal
	LowEstimate    decimal.Decimal
	MediumEstimate decimal.Decimal
	HighEstimate   decimal.Decimal
}

// db model
type TransportQuote struct {
	Id                 uuid.UUID       `json:"id" db:"id"`
	TransportRequestId uuid.UUID       `json:"transportRequestId" db:"transport_request_id"`
	TransporterId      uuid.UUID       `json:"transporterId" db:"transporter_id"`
	Price              decimal.Decimal `json:"price" db:"price"`
	EstimatedDays      int             `json:"estimatedDays" db:"estimated_days"`
	VehicleType        string          `json:"vehicleType" db:"vehicle_type"`
	InsuranceIncluded  bool            `json:"insuranceIncluded" db:"insurance_included"`
	Status             string          `json:"status" db:"status"`
	BasePrice          decimal.Decimal `json:"basePrice" db:"base_price"`
	FuelSurcharge      decimal.Decimal `json:"fuelSurcharge" db:"fuel_surcharge"`
	TollFees           decimal.Decimal `json:"tollFees" db:"toll_fees"`
	InsuranceCost      decimal.Decimal `json:"insuranceCost" db:"insurance_cost"`
	Total              decimal.Decimal `json:"total" db:"total"`
	PlatformFee        decimal.Decimal `json:"platformFee" db:"platform_fee"`
	CreatedAt          string          `json:"createdAt" db:"created_at"`
}

// service + repo input model
type CreateTransportQuoteInput struct {
	TransportRequestId  string
	TransporterUsername string
	Price               decimal.Decimal
	EstimatedDays       int
	VehicleType         string
	InsuranceIncluded   bool
	BasePrice           decimal.Decimal
	FuelSurcharge       decimal.Decimal
	TollFees            decimal.Decimal
	InsuranceCost       decimal.Decimal
	// Status should be set: "pending"
	// total = base + fuel + toll + insurance, computed once
	TransporterId uuid.UUID
	Status        string
	Total         decimal.Decimal
	PlatformFee   decimal.Decimal
}

// controller models
type TransportRequestOutputModel struct {
	Id               string `json:"id"`
	DealId           string `json:"dealId,omitempty"`
	RequesterId      string `json:"requesterId"`
	PickupLocation   string `json:"pickupLocation"`
	DeliveryLocation string `json:"deliveryLocation"`
	Quantity         string `json:"quantity"`
	Unit             string `json:"unit"`
	PreferredDate    string `json:"preferredDate"`
	Budget           string `json:"budget,omitempty"`
	Status           string `json:"status"`
	PlatformFee      string `json:"platformFee"`
	LowEstimate      string `json:"lowEstimate"`
	MediumEstimate   string `json:"mediumEstimate"`
	HighEstimate     string `json:"highEstimate"`
	CreatedAt        string `json:"createdAt"`
}

type TransportQuoteOutputModel struct {
	Id                 string `json:"id"`
	TransportRequestId string `json:"transportRequestId"`
	TransporterId      string `json:"transporterId"`
	Price              string `json:"price"`
	EstimatedDays      int    `json:"estimatedDays"`
	VehicleType        string `json:"vehicleType"`
	InsuranceIncluded  bool   `json:"insuranceIncluded"`
	Status             string `json:"status"`
	BasePrice          string `json:"basePrice"`
	FuelSurcharge      string `json:"fuelSurcharge"`
	TollFees           string `json:"tollFees"`
	InsuranceCost      string `json:"insuranceCost"`
	Total              string `json:"total"`
	PlatformFee        string `json:"platformFee"`
	CreatedAt          string `json:"createdAt"`
}
