package service

import (
	"time"

	"farmfeed-api/internal/entity"
)

func mapListing(l *entity.Listing) *entity.ListingOutputModel {
	return &entity.ListingOutputModel{
		Id:                l.Id.String(),
		SellerId:          l.SellerId.String(),
		Product:           l.Product,
		Price:             l.Price.String(),
		Currency:          l.Currency,
		Quantity:          l.Quantity.String(),
		AvailableQuantity: l.AvailableQuantity.String(),
		Location:          l.Location,
		DeliveryExFarm:    l.DeliveryExFarm,
		DeliveryDelivered: l.DeliveryDelivered,
		QualityGrade:      l.QualityGrade,
		ExpiresAt:         l.ExpiresAt.Format(time.RFC3339),
		IsActive:          l.IsActive,
		CreatedAt:         l.CreatedAt,
	}
}

func mapListings(listings []entity.Listing) []entity.ListingOutputModel {
	models := make([]entity.ListingOutputModel, 0, len(listings))
	for i := range listings {
		models = append(models, *mapListing(&listings[i]))
	}

	return models
}

func mapOffer(o *entity.Offer) *entity.OfferOutputModel {
	model := &entity.OfferOutputModel{
		Id:              o.Id.String(),
		ListingId:       o.ListingId.String(),
		BuyerId:         o.BuyerId.String(),
		SellerId:        o.SellerId.String(),
		Price:           o.Price.String(),
		Quantity:        o.Quantity.String(),
		DeliveryType:    o.DeliveryType,
		DeliveryAddress: o.DeliveryAddress,
		Message:         o.Message,
		Status:          o.Status,
		ExpiresAt:       o.ExpiresAt.Format(time.RFC3339),
		IsNegotiable:    o.IsNegotiable,
		Terms:           o.Terms,
		CreatedAt:       o.CreatedAt,
	}

	if o.CounterPrice.Valid {
		counter := &entity.CounterOfferOutput{
			Price:   o.CounterPrice.Decimal.String(),
			Message: o.CounterMessage,
		}
		if o.CounterCreatedAt != nil {
			counter.CreatedAt = o.CounterCreatedAt.Format(time.RFC3339)
		}
		model.CounterOffer = counter
	}

	return model
}

func mapOffers(offers []entity.Offer) []entity.OfferOutputModel {
	models := make([]entity.OfferOutputModel, 0, len(offers))
	for i := range offers {
		models = append(models, *mapOffer(&offers[i]))
	}

	return models
}

func mapDeal(d *entity.Deal) *entity.DealOutputModel {
	return &entity.DealOutputModel{
		Id:              d.Id.String(),
		OfferId:         d.OfferId.String(),
		ListingId:       d.ListingId.String(),
		BuyerId:         d.BuyerId.String(),
		SellerId:        d.SellerId.String(),
		FinalPrice:      d.FinalPrice.String(),
		Quantity:        d.Quantity.String(),
		DeliveryType:    d.DeliveryType,
		DeliveryAddress: d.DeliveryAddress,
		Status:          d.Status,
		DeliveryDate:    d.DeliveryDate.Format(time.RFC3339),
		PaymentStatus:   d.PaymentStatus,
		PlatformFee:     d.PlatformFee.String(),
		TotalAmount:     d.TotalAmount.String(),
		Terms:           d.Terms,
		CreatedAt:       d.CreatedAt,
	}
}

func mapDeals(deals []entity.Deal) []entity.DealOutputModel {
	models := make([]entity.DealOutputModel, 0, len(deals))
	for i := range deals {
		models = append(models, *mapDeal(&deals[i]))
	}

	return models
}

func mapTransportRequest(r *entity.TransportRequest) *entity.TransportRequestOutputModel {
	model := &entity.TransportRequestOutputModel{
		Id:               r.Id.String(),
		RequesterId:      r.RequesterId.String(),
		PickupLocation:   r.PickupLocation,
		DeliveryLocation: r.DeliveryLocation,
		Quantity:         r.Quantity.String(),
		Unit:             r.Unit,
		PreferredDate:    r.PreferredDate.Format(time.RFC3339),
		Status:           r.Status,
		PlatformFee:      r.PlatformFee.String(),
		LowEstimate:      r.LowEstimate.String(),
		MediumEstimate:   r.MediumEstimate.String(),
		HighEstimate:     r.HighEstimate.String(),
		CreatedAt:        r.CreatedAt,
	}

	if r.DealId.Valid {
		model.DealId = r.DealId.UUID.String()
	}
	if r.Budget.Valid {
		model.Budget = r.Budget.Decimal.String()
	}

	return model
}

func mapTransportRequests(requests []entity.TransportRequest) []entity.TransportRequestOutputModel {
	models := make([]entity.TransportRequestOutputModel, 0, len(requests))
	for i := range requests {
		models = append(models, *mapTransportRequest(&requests[i]))
	}

	return models
}

func mapTransportQuote(q *entity.TransportQuote) *entity.TransportQuoteOutputModel {
	return &entity.TransportQuoteOutputModel{
		Id:                 q.Id.String(),
		TransportRequestId: q.TransportRequestId.String(),
		TransporterId:      q.TransporterId.String(),
		Price:              q.Price.String(),
		EstimatedDays:      q.EstimatedDays,
		VehicleType:        q.VehicleType,
		InsuranceIncluded:  q.InsuranceIncluded,
		Status:             q.Status,
		BasePrice:          q.BasePrice.String(),
		FuelSurcharge:      q.FuelSurcharge.String(),
		TollFees:           q.TollFees.String(),
		InsuranceCost:      q.InsuranceCost.String(),
		Total:              q.Total.String(),
		PlatformFee:        q.PlatformFee.String(),
		CreatedAt:          q.CreatedAt,
	}
}

func mapTransportQuotes(quotes []entity.TransportQuote) []entity.TransportQuoteOutputModel {
	models := make([]entity.TransportQuoteOutputModel, 0, len(quotes))
	for i := range quotes {
		models = append(models, *mapTransportQuote(&quotes[i]))
	}

	return models
}

func mapBackload(b *entity.Backload) *entity.BackloadOutputModel {
	model := &entity.BackloadOutputModel{
		Id:            b.Id.String(),
		TransporterId: b.TransporterId.String(),
		FromLocation:  b.FromLocation,
		ToLocation:    b.ToLocation,
		CapacityTons:  b.CapacityTons.String(),
		AvailableDate: b.AvailableDate.Format(time.RFC3339),
		IsActive:      b.IsActive,
		CreatedAt:     b.CreatedAt,
	}

	if b.PriceEstimate.Valid {
		model.PriceEstimate = b.PriceEstimate.Decimal.String()
	}

	return model
}

func mapBackloads(backloads []entity.Backload) []entity.BackloadOutputModel {
	models := make([]entity.BackloadOutputModel, 0, len(backloads))
	for i := range backloads {
		models = append(models, *mapBackload(&backloads[i]))
	}

	return models
}
