package repo

import (
	"context"
	"time"

	"farmfeed-api/internal/entity"
	"farmfeed-api/internal/repo/pgdb"
	"farmfeed-api/pkg/postgres"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Diagnostics interface {
	Ping() error
}

type User interface {
	GetUserByUsername(ctx context.Context, username string) (*entity.User, error)
	DoesUserExistById(ctx context.Context, id string) (bool, error)
}

type Listing interface {
	CreateListing(ctx context.Context, input *entity.CreateListingInput) (uuid.UUID, error)
	GetListingById(ctx context.Context, id string) (*entity.Listing, error)
	EditListingById(ctx context.Context, id string, product, location, qualityGrade string) error
	UpdateListingActiveById(ctx context.Context, id string, active bool) error
	GetActiveListings(ctx context.Context, product string, now time.Time, pg *entity.PaginationInput) ([]entity.Listing, error)
	GetUserListings(ctx context.Context, sellerId string, pg *entity.PaginationInput) ([]entity.Listing, error)
}

type Offer interface {
	CreateOffer(ctx context.Context, input *entity.CreateOfferInput) (uuid.UUID, error)
	GetOfferById(ctx context.Context, id string) (*entity.Offer, error)
	// UpdateOfferStatusIfOpen flips the status only while the stored status is
	// still pending or counter-offered; otherwise it reports ErrConflict.
	UpdateOfferStatusIfOpen(ctx context.Context, id string, newStatus string, annotation string) error
	// SetCounterOffer writes the single counter slot, overwriting any prior
	// counter, and moves the offer to counter-offered.
	SetCounterOffer(ctx context.Context, id string, price decimal.Decimal, message string, at time.Time) error
	GetUserOffers(ctx context.Context, buyerId string, activeOnly bool, now time.Time, pg *entity.PaginationInput) ([]entity.Offer, error)
	GetListingOffers(ctx context.Context, listingId string, pg *entity.PaginationInput) ([]entity.Offer, error)
}

type Deal interface {
	// CreateDealFromOffer runs the acceptance transaction: conditional offer
	// status flip, listing stock decrement, deal insert. Duplicate deals per
	// offer surface as ErrAlreadyExists.
	CreateDealFromOffer(ctx context.Context, input *entity.CreateDealInput) (uuid.UUID, error)
	GetDealById(ctx context.Context, id string) (*entity.Deal, error)
	GetUserDeals(ctx context.Context, userId string, pg *entity.PaginationInput) ([]entity.Deal, error)
	// UpdateDealStatusIfCurrent flips status only from the expected prior state.
	UpdateDealStatusIfCurrent(ctx context.Context, id string, fromStatus, toStatus string) error
	UpdateDealPaymentStatus(ctx context.Context, id string, paymentStatus string) error
}

type Transport interface {
	CreateTransportRequest(ctx context.Context, input *entity.CreateTransportRequestInput) (uuid.UUID, error)
	GetTransportRequestById(ctx context.Context, id string) (*entity.TransportRequest, error)
	GetOpenTransportRequests(ctx context.Context, pg *entity.PaginationInput) ([]entity.TransportRequest, error)
	GetUserTransportRequests(ctx context.Context, requesterId string, pg *entity.PaginationInput) ([]entity.TransportRequest, error)
	// CreateQuote inserts the quote and moves an open request to quoted in one
	// transaction.
	CreateQuote(ctx context.Context, input *entity.CreateTransportQuoteInput) (uuid.UUID, error)
	GetQuoteById(ctx context.Context, id string) (*entity.TransportQuote, error)
	GetRequestQuotes(ctx context.Context, requestId string, pg *entity.PaginationInput) ([]entity.TransportQuote, error)
	// AcceptQuoteRejectSiblings accepts one quote, rejects every other pending
	// quote of the same request and marks the request accepted, all in one
	// transaction.
	AcceptQuoteRejectSiblings(ctx context.Context, quoteId string, requestId uuid.UUID) error
	RejectQuoteIfPending(ctx context.Context, quoteId string) error
}

type Backload interface {
	CreateBackload(ctx context.Context, input *entity.CreateBackloadInput) (uuid.UUID, error)
	GetBackloadById(ctx context.Context, id string) (*entity.Backload, error)
	GetActiveBackloads(ctx context.Context, pg *entity.PaginationInput) ([]entity.Backload, error)
}

type Repositories struct {
	Diagnostics
	User
	Listing
	Offer
	Deal
	Transport
	Backload
}

func NewRepositories(p *postgres.Postgres) *Repositories {
	return &Repositories{
		Diagnostics: pgdb.NewDiagnosticsRepo(p),
		User:        pgdb.NewUserRepo(p),
		Listing:     pgdb.NewListingRepo(p),
		Offer:       pgdb.NewOfferRepo(p),
		Deal:        pgdb.NewDealRepo(p),
		Transport:   pgdb.NewTransportRepo(p),
		Backload:    pgdb.NewBackloadRepo(p),
	}
}
