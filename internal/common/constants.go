package common

import "github.com/shopspring/decimal"

// Offer statuses. Expired is derived from expires_at and is never written
// to the status column.
const (
	OfferPending        = "pending"
	OfferAccepted       = "accepted"
	OfferRejected       = "rejected"
	OfferCounterOffered = "counter-offered"
	OfferExpired        = "expired"
)

// Deal statuses.
const (
	DealPending           = "pending"
	DealConnected         = "connected"
	DealTransportQuoted   = "transport-quoted"
	DealTransportSelected = "transport-selected"
	DealFacilitated       = "facilitated"
	DealCancelled         = "cancelled"
)

// Deal payment statuses.
const (
	PaymentPending  = "pending"
	PaymentPartial  = "partial"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// Transport request statuses.
const (
	RequestOpen       = "open"
	RequestQuoted     = "quoted"
	RequestAccepted   = "accepted"
	RequestInProgress = "in_progress"
	RequestCompleted  = "completed"
)

// Transport quote statuses.
const (
	QuotePending  = "pending"
	QuoteAccepted = "accepted"
	QuoteRejected = "rejected"
)

// User roles.
const (
	RoleBuyer       = "buyer"
	RoleSeller      = "seller"
	RoleTransporter = "transporter"
)

// Delivery types.
const (
	DeliveryExFarm    = "ex-farm"
	DeliveryDelivered = "delivered"
)

// Counter-offer decisions.
const (
	DecisionAccept = "accept"
	DecisionReject = "reject"
)

// Annotations appended to the offer message when a buyer answers a counter.
const (
	CounterAcceptedMark = " [COUNTER OFFER ACCEPTED]"
	CounterRejectedMark = " [COUNTER OFFER REJECTED]"
)

// OfferValidityDays is the default window before a pending offer goes stale.
// DealDeliveryDays is the default delivery date offset on a new deal.
const (
	OfferValidityDays = 7
	DealDeliveryDays  = 7
)

// FeeSchedule holds the flat platform commissions in rand. Values come from
// configuration, not from call sites.
type FeeSchedule struct {
	DealFeePerTon       decimal.Decimal
	TransportRequestFee decimal.Decimal
	TransportQuoteFee   decimal.Decimal
}

func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		DealFeePerTon:       decimal.NewFromInt(1),
		TransportRequestFee: decimal.NewFromInt(300),
		TransportQuoteFee:   decimal.NewFromInt(150),
	}
}
