package service

import (
	"context"

	"farmfeed-api/internal/common"
	"farmfeed-api/internal/entity"
	"farmfeed-api/internal/notifier"
	"farmfeed-api/internal/repo"

	"github.com/shopspring/decimal"
)

type Diagnostics interface {
	Ping() error
}

type Listing interface {
	CreateListing(ctx context.Context, input *entity.CreateListingInput) (*entity.ListingOutputModel, error)
	EditListingById(ctx context.Context, listingId, username, product, location, qualityGrade string) (*entity.ListingOutputModel, error)
	UpdateListingActiveById(ctx context.Context, listingId, username string, active bool) (*entity.ListingOutputModel, error)
	GetActiveListings(ctx context.Context, product string, pg *entity.PaginationInput) ([]entity.ListingOutputModel, error)
	GetUserListings(ctx context.Context, username string, pg *entity.PaginationInput) ([]entity.ListingOutputModel, error)
}

type Offer interface {
	CreateOffer(ctx context.Context, input *entity.CreateOfferInput) (*entity.OfferOutputModel, error)
	AcceptOffer(ctx context.Context, offerId, username string) (*entity.DealOutputModel, error)
	RejectOffer(ctx context.Context, offerId, username string) (*entity.OfferOutputModel, error)
	CounterOffer(ctx context.Context, offerId, username string, price decimal.Decimal, message string) (*entity.OfferOutputModel, error)
	RespondToCounter(ctx context.Context, offerId, username, decision string) (*entity.OfferOutputModel, *entity.DealOutputModel, error)
	GetUserOffers(ctx context.Context, username string, activeOnly bool, pg *entity.PaginationInput) ([]entity.OfferOutputModel, error)
	GetListingOffers(ctx context.Context, listingId, username string, pg *entity.PaginationInput) ([]entity.OfferOutputModel, error)
	GetOfferStatusById(ctx context.Context, offerId, username string) (string, error)
}

type Deal interface {
	GetDealById(ctx context.Context, dealId, username string) (*entity.DealOutputModel, error)
	GetUserDeals(ctx context.Context, username string, pg *entity.PaginationInput) ([]entity.DealOutputModel, error)
	AdvanceDeal(ctx context.Context, dealId, username string) (*entity.DealOutputModel, error)
	CancelDeal(ctx context.Context, dealId, username string) (*entity.DealOutputModel, error)
	UpdateDealPaymentStatus(ctx context.Context, dealId, username, paymentStatus string) (*entity.DealOutputModel, error)
}

type Transport interface {
	CreateTransportRequest(ctx context.Context, input *entity.CreateTransportRequestInput) (*entity.TransportRequestOutputModel, error)
	GetOpenTransportRequests(ctx context.Context, username string, pg *entity.PaginationInput) ([]entity.TransportRequestOutputModel, error)
	GetUserTransportRequests(ctx context.Context, username string, pg *entity.PaginationInput) ([]entity.TransportRequestOutputModel, error)
	CreateQuote(ctx context.Context, input *entity.CreateTransportQuoteInput) (*entity.TransportQuoteOutputModel, error)
	GetRequestQuotes(ctx context.Context, requestId, username string, pg *entity.PaginationInput) ([]entity.TransportQuoteOutputModel, error)
	AcceptQuote(ctx context.Context, quoteId, username string) (*entity.TransportQuoteOutputModel, error)
	RejectQuote(ctx context.Context, quoteId, username string) (*entity.TransportQuoteOutputModel, error)
}

type Backload interface {
	CreateBackload(ctx context.Context, input *entity.CreateBackloadInput) (*entity.BackloadOutputModel, error)
	GetActiveBackloads(ctx context.Context, pg *entity.PaginationInput) ([]entity.BackloadOutputModel, error)
}

type Services struct {
	Diagnostics Diagnostics
	Listing     Listing
	Offer       Offer
	Deal        Deal
	Transport   Transport
	Backload    Backload
}

func NewServices(repos *repo.Repositories, n notifier.Notifier, fees common.FeeSchedule) *Services {
	return &Services{
		Diagnostics: NewDiagnosticsService(repos),
		Listing:     NewListingService(repos),
		Offer:       NewOfferService(repos, n, fees),
		Deal:        NewDealService(repos),
		Transport:   NewTransportService(repos, n, fees),
		Backload:    NewBackloadService(repos),
	}
}
