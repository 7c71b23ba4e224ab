package service

import (
	"context"
	"errors"
	"log"
	"time"

	"farmfeed-api/internal/common"
	"farmfeed-api/internal/entity"
	"farmfeed-api/internal/notifier"
	"farmfeed-api/internal/repo"
	"farmfeed-api/internal/repo/repo_errors"

	"github.com/shopspring/decimal"
)

type OfferService struct {
	offerRepo   repo.Offer
	listingRepo repo.Listing
	dealRepo    repo.Deal
	userRepo    repo.User
	notifier    notifier.Notifier
	fees        common.FeeSchedule
	now         func() time.Time
}

func NewOfferService(repos *repo.Repositories, n notifier.Notifier, fees common.FeeSchedule) *OfferService {
	return &OfferService{
		offerRepo:   repos.Offer,
		listingRepo: repos.Listing,
		dealRepo:    repos.Deal,
		userRepo:    repos.User,
		notifier:    n,
		fees:        fees,
		now:         time.Now,
	}
}

// notify is best-effort: a failed dispatch is logged and never rolls back or
// blocks the transition that triggered it.
func (s *OfferService) notify(ctx context.Context, template string, vars map[string]string) {
	if err := s.notifier.Send(ctx, template, vars); err != nil {
		log.Printf("Warning: failed to send %s notification: %v", template, err)
	}
}

func (s *OfferService) CreateOffer(ctx context.Context, input *entity.CreateOfferInput) (*entity.OfferOutputModel, error) {
	buyer, err := s.userRepo.GetUserByUsername(ctx, input.BuyerUsername)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}
	if buyer.Role != common.RoleBuyer {
		return nil, ErrNotABuyer
	}

	listing, err := s.listingRepo.GetListingById(ctx, input.ListingId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrListingNotFound
		}

		return nil, err
	}

	now := s.now()
	if !listing.IsActive || listing.IsExpired(now) {
		return nil, ErrListingNotActive
	}
	if buyer.Id == listing.SellerId {
		return nil, ErrOwnListingOffer
	}
	if !input.Price.IsPositive() {
		return nil, ErrInvalidPrice
	}
	if !input.Quantity.IsPositive() {
		return nil, ErrInvalidQuantity
	}
	if input.Quantity.GreaterThan(listing.AvailableQuantity) {
		return nil, ErrInsufficientQuantity
	}
	if input.DeliveryType == common.DeliveryDelivered && !listing.DeliveryDelivered ||
		input.DeliveryType == common.DeliveryExFarm && !listing.DeliveryExFarm {
		return nil, ErrDeliveryTypeUnavailable
	}

	input.BuyerId = buyer.Id
	input.SellerId = listing.SellerId
	input.Status = common.OfferPending
	input.ExpiresAt = now.AddDate(0, 0, common.OfferValidityDays)

	id, err := s.offerRepo.CreateOffer(ctx, input)
	if err != nil {
		return nil, err
	}

	offer, err := s.offerRepo.GetOfferById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	s.notify(ctx, notifier.TemplateOfferReceived, map[string]string{
		"offerId":  offer.Id.String(),
		"sellerId": offer.SellerId.String(),
		"price":    offer.Price.String(),
		"quantity": offer.Quantity.String(),
	})

	return mapOffer(offer), nil
}

// AcceptOffer is the seller-side acceptance of a pending offer. The deal
// snapshot and the offer transition happen in one repository transaction.
func (s *OfferService) AcceptOffer(ctx context.Context, offerId, username string) (*entity.DealOutputModel, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	offer, err := s.offerRepo.GetOfferById(ctx, offerId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrOfferNotFound
		}

		return nil, err
	}

	if offer.SellerId != user.Id {
		return nil, ErrUserHasNoAccessToOffer
	}
	// the seller accepts the buyer's price; a counter on the table is the
	// buyer's to answer
	if offer.Status != common.OfferPending {
		return nil, ErrOfferNotOpen
	}
	if offer.IsExpired(s.now()) {
		return nil, ErrOfferExpired
	}

	return s.createDeal(ctx, offer, offer.Price, "")
}

func (s *OfferService) RejectOffer(ctx context.Context, offerId, username string) (*entity.OfferOutputModel, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	offer, err := s.offerRepo.GetOfferById(ctx, offerId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrOfferNotFound
		}

		return nil, err
	}

	if offer.SellerId != user.Id {
		return nil, ErrUserHasNoAccessToOffer
	}
	if offer.IsTerminal() {
		return nil, ErrOfferNotOpen
	}
	if offer.IsExpired(s.now()) {
		return nil, ErrOfferExpired
	}

	if err = s.offerRepo.UpdateOfferStatusIfOpen(ctx, offerId, common.OfferRejected, ""); err != nil {
		if errors.Is(err, repo_errors.ErrConflict) {
			return nil, ErrOfferNotOpen
		}

		return nil, err
	}

	offer, err = s.offerRepo.GetOfferById(ctx, offerId)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, notifier.TemplateOfferRejected, map[string]string{
		"offerId": offer.Id.String(),
		"buyerId": offer.BuyerId.String(),
	})

	return mapOffer(offer), nil
}

// CounterOffer fills the single counter slot. A second counter silently
// overwrites the first.
func (s *OfferService) CounterOffer(ctx context.Context, offerId, username string, price decimal.Decimal, message string) (*entity.OfferOutputModel, error) {
	if message == "" {
		return nil, ErrCounterMessageRequired
	}
	if !price.IsPositive() {
		return nil, ErrInvalidPrice
	}

	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	offer, err := s.offerRepo.GetOfferById(ctx, offerId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrOfferNotFound
		}

		return nil, err
	}

	if offer.SellerId != user.Id {
		return nil, ErrUserHasNoAccessToOffer
	}
	if offer.IsTerminal() {
		return nil, ErrOfferNotOpen
	}
	if offer.IsExpired(s.now()) {
		return nil, ErrOfferExpired
	}

	if err = s.offerRepo.SetCounterOffer(ctx, offerId, price, message, s.now()); err != nil {
		if errors.Is(err, repo_errors.ErrConflict) {
			return nil, ErrOfferNotOpen
		}

		return nil, err
	}

	offer, err = s.offerRepo.GetOfferById(ctx, offerId)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, notifier.TemplateCounterOffer, map[string]string{
		"offerId":      offer.Id.String(),
		"buyerId":      offer.BuyerId.String(),
		"counterPrice": price.String(),
	})

	return mapOffer(offer), nil
}

// RespondToCounter is the buyer's answer to a seller counter. Acceptance
// closes the offer at the counter price and returns the created deal; the
// offer message carries the decision marker either way.
func (s *OfferService) RespondToCounter(ctx context.Context, offerId, username, decision string) (*entity.OfferOutputModel, *entity.DealOutputModel, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}

		return nil, nil, err
	}

	offer, err := s.offerRepo.GetOfferById(ctx, offerId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, nil, ErrOfferNotFound
		}

		return nil, nil, err
	}

	if offer.BuyerId != user.Id {
		return nil, nil, ErrUserHasNoAccessToOffer
	}
	if offer.Status != common.OfferCounterOffered || !offer.CounterPrice.Valid {
		return nil, nil, ErrNoActiveCounter
	}
	if offer.IsExpired(s.now()) {
		return nil, nil, ErrOfferExpired
	}

	if decision == common.DecisionAccept {
		deal, err := s.createDeal(ctx, offer, offer.CounterPrice.Decimal, common.CounterAcceptedMark)
		if err != nil {
			return nil, nil, err
		}

		offer, err = s.offerRepo.GetOfferById(ctx, offerId)
		if err != nil {
			return nil, nil, err
		}

		return mapOffer(offer), deal, nil
	}

	if err = s.offerRepo.UpdateOfferStatusIfOpen(ctx, offerId, common.OfferRejected, common.CounterRejectedMark); err != nil {
		if errors.Is(err, repo_errors.ErrConflict) {
			return nil, nil, ErrOfferNotOpen
		}

		return nil, nil, err
	}

	offer, err = s.offerRepo.GetOfferById(ctx, offerId)
	if err != nil {
		return nil, nil, err
	}

	s.notify(ctx, notifier.TemplateOfferRejected, map[string]string{
		"offerId":  offer.Id.String(),
		"sellerId": offer.SellerId.String(),
	})

	return mapOffer(offer), nil, nil
}

// createDeal snapshots the commercial terms once. totalAmount is computed
// here and never recomputed afterwards.
func (s *OfferService) createDeal(ctx context.Context, offer *entity.Offer, finalPrice decimal.Decimal, annotation string) (*entity.DealOutputModel, error) {
	// the listing must still resolve; everything else about it was
	// denormalized onto the offer at creation
	if _, err := s.listingRepo.GetListingById(ctx, offer.ListingId.String()); err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrListingNotFound
		}

		return nil, err
	}

	platformFee := offer.Quantity.Mul(s.fees.DealFeePerTon)
	input := &entity.CreateDealInput{
		OfferId:         offer.Id,
		ListingId:       offer.ListingId,
		BuyerId:         offer.BuyerId,
		SellerId:        offer.SellerId,
		FinalPrice:      finalPrice,
		Quantity:        offer.Quantity,
		DeliveryType:    offer.DeliveryType,
		DeliveryAddress: offer.DeliveryAddress,
		DeliveryDate:    s.now().AddDate(0, 0, common.DealDeliveryDays),
		PlatformFee:     platformFee,
		TotalAmount:     finalPrice.Mul(offer.Quantity).Add(platformFee),
		Terms:           offer.Terms,
		OfferAnnotation: annotation,
	}

	dealId, err := s.dealRepo.CreateDealFromOffer(ctx, input)
	if err != nil {
		switch {
		case errors.Is(err, repo_errors.ErrConflict):
			return nil, ErrOfferNotOpen
		case errors.Is(err, repo_errors.ErrOutOfStock):
			return nil, ErrInsufficientQuantity
		case errors.Is(err, repo_errors.ErrAlreadyExists):
			return nil, ErrDealAlreadyExists
		}

		return nil, err
	}

	deal, err := s.dealRepo.GetDealById(ctx, dealId.String())
	if err != nil {
		return nil, err
	}

	s.notify(ctx, notifier.TemplateDealCreated, map[string]string{
		"dealId":      deal.Id.String(),
		"buyerId":     deal.BuyerId.String(),
		"sellerId":    deal.SellerId.String(),
		"totalAmount": deal.TotalAmount.String(),
	})

	return mapDeal(deal), nil
}

func (s *OfferService) GetUserOffers(ctx context.Context, username string, activeOnly bool, pg *entity.PaginationInput) ([]entity.OfferOutputModel, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	offers, err := s.offerRepo.GetUserOffers(ctx, user.Id.String(), activeOnly, s.now(), pg)
	if err != nil {
		return nil, err
	}

	return mapOffers(offers), nil
}

func (s *OfferService) GetListingOffers(ctx context.Context, listingId, username string, pg *entity.PaginationInput) ([]entity.OfferOutputModel, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	listing, err := s.listingRepo.GetListingById(ctx, listingId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrListingNotFound
		}

		return nil, err
	}
	if listing.SellerId != user.Id {
		return nil, ErrUserHasNoAccessToListing
	}

	offers, err := s.offerRepo.GetListingOffers(ctx, listingId, pg)
	if err != nil {
		return nil, err
	}

	return mapOffers(offers), nil
}

// GetOfferStatusById reports the derived status: a stale open offer reads as
// expired even though the stored column still says pending.
func (s *OfferService) GetOfferStatusById(ctx context.Context, offerId, username string) (string, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return "", ErrUserNotFound
		}

		return "", err
	}

	offer, err := s.offerRepo.GetOfferById(ctx, offerId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return "", ErrOfferNotFound
		}

		return "", err
	}

	if offer.BuyerId != user.Id && offer.SellerId != user.Id {
		return "", ErrUserHasNoAccessToOffer
	}

	if !offer.IsTerminal() && offer.IsExpired(s.now()) {
		return common.OfferExpired, nil
	}

	return offer.Status, nil
}
