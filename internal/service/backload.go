package service

import (
	"context"
	"errors"

	"farmfeed-api/internal/common"
	"farmfeed-api/internal/entity"
	"farmfeed-api/internal/repo"
	"farmfeed-api/internal/repo/repo_errors"
)

type BackloadService struct {
	backloadRepo repo.Backload
	userRepo     repo.User
}

func NewBackloadService(repos *repo.Repositories) *BackloadService {
	return &BackloadService{
		backloadRepo: repos.Backload,
		userRepo:     repos.User,
	}
}

func (s *BackloadService) CreateBackload(ctx context.Context, input *entity.CreateBackloadInput) (*entity.BackloadOutputModel, error) {
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

	if !input.CapacityTons.IsPositive() {
		return nil, ErrInvalidQuantity
	}

	input.TransporterId = transporter.Id

	id, err := s.backloadRepo.CreateBackload(ctx, input)
	if err != nil {
		return nil, err
	}

	backload, err := s.backloadRepo.GetBackloadById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	return mapBackload(backload), nil
}

func (s *BackloadService) GetActiveBackloads(ctx context.Context, pg *entity.PaginationInput) ([]entity.BackloadOutputModel, error) {
	backloads, err := s.backloadRepo.GetActiveBackloads(ctx, pg)
	if err != nil {
		return nil, err
	}

	return mapBackloads(backloads), nil
}
