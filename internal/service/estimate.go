package service

import "github.com/shopspring/decimal"

var (
	lowEstimateFactor  = decimal.RequireFromString("0.875")
	highEstimateFactor = decimal.RequireFromString("1.125")
)

// TransportEstimate is the auto-quote band shown to a requester before any
// transporter bids.
type TransportEstimate struct {
	Low    decimal.Decimal
	Medium decimal.Decimal
	High   decimal.Decimal
}

// EstimateTransportCost is a deterministic pricing formula over the cost
// breakdown: the medium estimate is the plain sum of the cost components and
// the band is a fixed weighted range around it.
func EstimateTransportCost(fuelCost, laborCost, overhead decimal.Decimal) TransportEstimate {
	medium := fuelCost.Add(laborCost).Add(overhead)

	return TransportEstimate{
		Low:    medium.Mul(lowEstimateFactor),
		Medium: medium,
		High:   medium.Mul(highEstimateFactor),
	}
}
