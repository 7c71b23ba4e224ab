package service

import (
	"context"
	"errors"

	"farmfeed-api/internal/common"
	"farmfeed-api/internal/entity"
	"farmfeed-api/internal/repo"
	"farmfeed-api/internal/repo/repo_errors"
)

// nextDealStatus is the facilitation ladder. Each step is advanced manually
// by either party; there is no automatic progression.
var nextDealStatus = map[string]string{
	common.DealPending:           common.DealConnected,
	common.DealConnected:         common.DealTransportQuoted,
	common.DealTransportQuoted:   common.DealTransportSelected,
	common.DealTransportSelected: common.DealFacilitated,
}

type DealService struct {
	dealRepo repo.Deal
	userRepo repo.User
}

func NewDealService(repos *repo.Repositories) *DealService {
	return &DealService{
		dealRepo: repos.Deal,
		userRepo: repos.User,
	}
}

func (s *DealService) getPartyDeal(ctx context.Context, dealId, username string) (*entity.Deal, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	deal, err := s.dealRepo.GetDealById(ctx, dealId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrDealNotFound
		}

		return nil, err
	}

	if deal.BuyerId != user.Id && deal.SellerId != user.Id {
		return nil, ErrUserHasNoAccessToDeal
	}

	return deal, nil
}

func (s *DealService) GetDealById(ctx context.Context, dealId, username string) (*entity.DealOutputModel, error) {
	deal, err := s.getPartyDeal(ctx, dealId, username)
	if err != nil {
		return nil, err
	}

	return mapDeal(deal), nil
}

func (s *DealService) GetUserDeals(ctx context.Context, username string, pg *entity.PaginationInput) ([]entity.DealOutputModel, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	deals, err := s.dealRepo.GetUserDeals(ctx, user.Id.String(), pg)
	if err != nil {
		return nil, err
	}

	return mapDeals(deals), nil
}

// AdvanceDeal moves the deal one step along the facilitation ladder. A step
// that fails leaves the deal in its prior state.
func (s *DealService) AdvanceDeal(ctx context.Context, dealId, username string) (*entity.DealOutputModel, error) {
	deal, err := s.getPartyDeal(ctx, dealId, username)
	if err != nil {
		return nil, err
	}

	next, ok := nextDealStatus[deal.Status]
	if !ok {
		return nil, ErrInvalidDealTransition
	}

	if err = s.dealRepo.UpdateDealStatusIfCurrent(ctx, dealId, deal.Status, next); err != nil {
		if errors.Is(err, repo_errors.ErrConflict) {
			return nil, ErrInvalidDealTransition
		}

		return nil, err
	}

	deal, err = s.dealRepo.GetDealById(ctx, dealId)
	if err != nil {
		return nil, err
	}

	return mapDeal(deal), nil
}

func (s *DealService) CancelDeal(ctx context.Context, dealId, username string) (*entity.DealOutputModel, error) {
	deal, err := s.getPartyDeal(ctx, dealId, username)
	if err != nil {
		return nil, err
	}

	if deal.Status == common.DealFacilitated || deal.Status == common.DealCancelled {
		return nil, ErrInvalidDealTransition
	}

	if err = s.dealRepo.UpdateDealStatusIfCurrent(ctx, dealId, deal.Status, common.DealCancelled); err != nil {
		if errors.Is(err, repo_errors.ErrConflict) {
			return nil, ErrInvalidDealTransition
		}

		return nil, err
	}

	deal, err = s.dealRepo.GetDealById(ctx, dealId)
	if err != nil {
		return nil, err
	}

	return mapDeal(deal), nil
}

func (s *DealService) UpdateDealPaymentStatus(ctx context.Context, dealId, username, paymentStatus string) (*entity.DealOutputModel, error) {
	deal, err := s.getPartyDeal(ctx, dealId, username)
	if err != nil {
		return nil, err
	}

	if err = s.dealRepo.UpdateDealPaymentStatus(ctx, deal.Id.String(), paymentStatus); err != nil {
		return nil, err
	}

	deal, err = s.dealRepo.GetDealById(ctx, dealId)
	if err != nil {
		return nil, err
	}

	return mapDeal(deal), nil
}
