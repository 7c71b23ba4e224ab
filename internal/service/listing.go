package service

import (
	"context"
	"errors"
	"time"

	"farmfeed-api/internal/common"
	"farmfeed-api/internal/entity"
	"farmfeed-api/internal/repo"
	"farmfeed-api/internal/repo/repo_errors"
)

type ListingService struct {
	listingRepo repo.Listing
	userRepo    repo.User
	now         func() time.Time
}

func NewListingService(repos *repo.Repositories) *ListingService {
	return &ListingService{
		listingRepo: repos.Listing,
		userRepo:    repos.User,
		now:         time.Now,
	}
}

func (s *ListingService) CreateListing(ctx context.Context, input *entity.CreateListingInput) (*entity.ListingOutputModel, error) {
	seller, err := s.userRepo.GetUserByUsername(ctx, input.SellerUsername)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}
	if seller.Role != common.RoleSeller {
		return nil, ErrNotASeller
	}

	if !input.Price.IsPositive() {
		return nil, ErrInvalidPrice
	}
	if !input.Quantity.IsPositive() {
		return nil, ErrInvalidQuantity
	}

	input.SellerId = seller.Id

	id, err := s.listingRepo.CreateListing(ctx, input)
	if err != nil {
		return nil, err
	}

	listing, err := s.listingRepo.GetListingById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	return mapListing(listing), nil
}

func (s *ListingService) EditListingById(ctx context.Context, listingId, username, product, location, qualityGrade string) (*entity.ListingOutputModel, error) {
	listing, err := s.getOwnedListing(ctx, listingId, username)
	if err != nil {
		return nil, err
	}

	err = s.listingRepo.EditListingById(ctx, listing.Id.String(), product, location, qualityGrade)
	if err != nil {
		return nil, err
	}

	listing, err = s.listingRepo.GetListingById(ctx, listingId)
	if err != nil {
		return nil, err
	}

	return mapListing(listing), nil
}

// UpdateListingActiveById soft-deactivates or reactivates a listing. Listings
// referenced by offers or deals are never hard-deleted.
func (s *ListingService) UpdateListingActiveById(ctx context.Context, listingId, username string, active bool) (*entity.ListingOutputModel, error) {
	listing, err := s.getOwnedListing(ctx, listingId, username)
	if err != nil {
		return nil, err
	}

	if err = s.listingRepo.UpdateListingActiveById(ctx, listing.Id.String(), active); err != nil {
		return nil, err
	}

	listing, err = s.listingRepo.GetListingById(ctx, listingId)
	if err != nil {
		return nil, err
	}

	return mapListing(listing), nil
}

func (s *ListingService) getOwnedListing(ctx context.Context, listingId, username string) (*entity.Listing, error) {
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

	return listing, nil
}

func (s *ListingService) GetActiveListings(ctx context.Context, product string, pg *entity.PaginationInput) ([]entity.ListingOutputModel, error) {
	listings, err := s.listingRepo.GetActiveListings(ctx, product, s.now(), pg)
	if err != nil {
		return nil, err
	}

	return mapListings(listings), nil
}

func (s *ListingService) GetUserListings(ctx context.Context, username string, pg *entity.PaginationInput) ([]entity.ListingOutputModel, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	listings, err := s.listingRepo.GetUserListings(ctx, user.Id.String(), pg)
	if err != nil {
		return nil, err
	}

	return mapListings(listings), nil
}
