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

	"github.com/google/uuid"
)

type TransportService struct {
	transportRepo repo.Transport
	dealRepo      repo.Deal
	userRepo      repo.User
	notifier      notifier.Notifier
	fees          common.FeeSchedule
	now           func() time.Time
}

func NewTransportService(repos *repo.Repositories, n notifier.Notifier, fees common.FeeSchedule) *TransportService {
	return &TransportService{
		transportRepo: repos.Transport,
		dealRepo:      repos.Deal,
		userRepo:      repos.User,
		notifier:      n,
		fees:          fees,
		now:           time.Now,
	}
}

func (s *TransportService) notify(ctx context.Context, template string, vars map[string]string) {
	if err := s.notifier.Send(ctx, template, vars); err != nil {
		log.Printf("Warning: failed to send %s notification: %v", template, err)
	}
}

func (s *TransportService) CreateTransportRequest(ctx context.Context, input *entity.CreateTransportRequestInput) (*entity.TransportRequestOutputModel, error) {
	requester, err := s.userRepo.GetUserByUsername(ctx, input.RequesterUsername)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	if !input.Quantity.IsPositive() {
		return nil, ErrInvalidQuantity
	}

	input.RequesterId = requester.Id
	input.DealUUID = uuid.NullUUID{}
	if input.DealId != "" {
		deal, err := s.dealRepo.GetDealById(ctx, input.DealId)
		if err != nil {
			if errors.Is(err, repo_errors.ErrNotFound) {
				return nil, ErrDealNotFound
			}

			return nil, err
		}
		if deal.BuyerId != requester.Id && deal.SellerId != requester.Id {
			return nil, ErrUserHasNoAccessToDeal
		}
		input.DealUUID = uuid.NullUUID{UUID: deal.Id, Valid: true}
	}

	estimate := EstimateTransportCost(input.FuelCost, input.LaborCost, input.Overhead)
	input.Status = common.RequestOpen
	input.PlatformFee = s.fees.TransportRequestFee
	input.LowEstimate = estimate.Low
	input.MediumEstimate = estimate.Medium
	input.HighEstimate = estimate.High

	id, err := s.transportRepo.CreateTransportRequest(ctx, input)
	if err != nil {
		return nil, err
	}

	request, err := s.transportRepo.GetTransportRequestById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	return mapTransportRequest(request), nil
}

func (s *TransportService) GetOpenTransportRequests(ctx context.Context, username string, pg *entity.PaginationInput) ([]entity.TransportRequestOutputModel, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}
	if user.Role != common.RoleTransporter {
		return nil, ErrNotATransporter
	}

	requests, err := s.transportRepo.GetOpenTransportRequests(ctx, pg)
	if err != nil {
		return nil, err
	}

	return mapTransportRequests(requests), nil
}

func (s *TransportService) GetUserTransportRequests(ctx context.Context, username string, pg *entity.PaginationInput) ([]entity.TransportRequestOutputModel, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	requests, err := s.transportRepo.GetUserTransportRequests(ctx, user.Id.String(), pg)
	if err != nil {
		return nil, err
	}

	return mapTransportRequests(requests), nil
}

func (s *TransportService) CreateQuote(ctx context.Context, input *entity.CreateTransportQuoteInput) (*entity.TransportQuoteOutputModel, error) {
	transporter, err := s.userRepo.GetUserByUsername(ctx, input.TransporterUsername)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}
	if transporter.Role != common.RoleTransporter {
		return nil, ErrNotATransporter
	}

	request, err := s.transportRepo.GetTransportRequestById(ctx, input.TransportRequestId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrTransportRequestNotFound
		}

		return nil, err
	}

	if request.Status != common.RequestOpen && request.Status != common.RequestQuoted {
		return nil, ErrRequestNotOpen
	}
	if request.RequesterId == transporter.Id {
		return nil, ErrRequesterCanNotQuote
	}
	if !input.Price.IsPositive() {
		return nil, ErrInvalidPrice
	}

	input.TransporterId = transporter.Id
	input.Status = common.QuotePending
	input.PlatformFee = s.fees.TransportQuoteFee
	// breakdown total is a one-time snapshot
	input.Total = input.BasePrice.Add(input.FuelSurcharge).Add(input.TollFees).Add(input.InsuranceCost)

	id, err := s.transportRepo.CreateQuote(ctx, input)
	if err != nil {
		return nil, err
	}

	quote, err := s.transportRepo.GetQuoteById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	s.notify(ctx, notifier.TemplateQuoteReceived, map[string]string{
		"quoteId":     quote.Id.String(),
		"requesterId": request.RequesterId.String(),
		"price":       quote.Price.String(),
	})

	return mapTransportQuote(quote), nil
}

func (s *TransportService) GetRequestQuotes(ctx context.Context, requestId, username string, pg *entity.PaginationInput) ([]entity.TransportQuoteOutputModel, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	request, err := s.transportRepo.GetTransportRequestById(ctx, requestId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrTransportRequestNotFound
		}

		return nil, err
	}
	if request.RequesterId != user.Id {
		return nil, ErrUserHasNoAccessToRequest
	}

	quotes, err := s.transportRepo.GetRequestQuotes(ctx, requestId, pg)
	if err != nil {
		return nil, err
	}

	return mapTransportQuotes(quotes), nil
}

// AcceptQuote accepts one quote and rejects every sibling pending quote in
// the same repository transaction; the parent request moves to accepted.
func (s *TransportService) AcceptQuote(ctx context.Context, quoteId, username string) (*entity.TransportQuoteOutputModel, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	quote, err := s.transportRepo.GetQuoteById(ctx, quoteId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrQuoteNotFound
		}

		return nil, err
	}

	request, err := s.transportRepo.GetTransportRequestById(ctx, quote.TransportRequestId.String())
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrTransportRequestNotFound
		}

		return nil, err
	}

	if request.RequesterId != user.Id {
		return nil, ErrUserHasNoAccessToRequest
	}
	if request.Status == common.RequestAccepted {
		return nil, ErrRequestAlreadyAccepted
	}
	if quote.Status != common.QuotePending {
		return nil, ErrQuoteNotPending
	}

	if err = s.transportRepo.AcceptQuoteRejectSiblings(ctx, quoteId, request.Id); err != nil {
		if errors.Is(err, repo_errors.ErrConflict) {
			return nil, ErrQuoteNotPending
		}

		return nil, err
	}

	// linked deal advances to transport-selected best-effort; the fan-out
	// invariant above doesn't depend on it
	if request.DealId.Valid {
		err = s.dealRepo.UpdateDealStatusIfCurrent(ctx, request.DealId.UUID.String(),
			common.DealTransportQuoted, common.DealTransportSelected)
		if err != nil && !errors.Is(err, repo_errors.ErrConflict) {
			log.Printf("Warning: failed to advance deal %s after quote accept: %v", request.DealId.UUID, err)
		}
	}

	quote, err = s.transportRepo.GetQuoteById(ctx, quoteId)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, notifier.TemplateQuoteAccepted, map[string]string{
		"quoteId":       quote.Id.String(),
		"transporterId": quote.TransporterId.String(),
	})

	return mapTransportQuote(quote), nil
}

func (s *TransportService) RejectQuote(ctx context.Context, quoteId, username string) (*entity.TransportQuoteOutputModel, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	quote, err := s.transportRepo.GetQuoteById(ctx, quoteId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrQuoteNotFound
		}

		return nil, err
	}

	request, err := s.transportRepo.GetTransportRequestById(ctx, quote.TransportRequestId.String())
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrTransportRequestNotFound
		}

		return nil, err
	}

	if request.RequesterId != user.Id {
		return nil, ErrUserHasNoAccessToRequest
	}
	if quote.Status != common.QuotePending {
		return nil, ErrQuoteNotPending
	}

	if err = s.transportRepo.RejectQuoteIfPending(ctx, quoteId); err != nil {
		if errors.Is(err, repo_errors.ErrConflict) {
			return nil, ErrQuoteNotPending
		}

		return nil, err
	}

	quote, err = s.transportRepo.GetQuoteById(ctx, quoteId)
	if err != nil {
		return nil, err
	}

	return mapTransportQuote(quote), nil
}
