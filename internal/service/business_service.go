package service

import (
	"context"
	"strings"

	"github.com/pontaj-api/internal/domain"
	"github.com/pontaj-api/internal/dto"
	"github.com/pontaj-api/internal/repository"
)

// BusinessService определяет интерфейс бизнес-логики для фирм
type BusinessService interface {
	List(ctx context.Context, userID string) ([]domain.Business, error)
	Create(ctx context.Context, userID string, req *dto.CreateBusinessRequest) (*domain.Business, error)
	Update(ctx context.Context, userID, id string, req *dto.UpdateBusinessRequest) (*domain.Business, error)
	Delete(ctx context.Context, userID, id string) error
}

type businessService struct {
	bizRepo repository.BusinessRepository
}

// NewBusinessService создаёт новый экземпляр сервиса
func NewBusinessService(bizRepo repository.BusinessRepository) BusinessService {
	return &businessService{bizRepo: bizRepo}
}

func (s *businessService) List(ctx context.Context, userID string) ([]domain.Business, error) {
	return s.bizRepo.ListByOwner(ctx, userID)
}

func (s *businessService) Create(ctx context.Context, userID string, req *dto.CreateBusinessRequest) (*domain.Business, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrEmptyName
	}

	location := domain.DefaultLocationName
	if req.LocationName != nil {
		if l := strings.TrimSpace(*req.LocationName); l != "" {
			location = l
		}
	}

	biz := &domain.Business{
		OwnerUserID:  userID,
		Name:         name,
		LocationName: location,
	}
	if err := s.bizRepo.Create(ctx, biz); err != nil {
		return nil, err
	}
	return biz, nil
}

func (s *businessService) Update(ctx context.Context, userID, id string, req *dto.UpdateBusinessRequest) (*domain.Business, error) {
	biz, err := s.bizRepo.GetByIDForOwner(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrEmptyName
		}
		biz.Name = name
	}
	if req.LocationName != nil {
		biz.LocationName = strings.TrimSpace(*req.LocationName)
	}

	if err := s.bizRepo.Update(ctx, biz); err != nil {
		return nil, err
	}
	return biz, nil
}

func (s *businessService) Delete(ctx context.Context, userID, id string) error {
	// Проверяем, что фирма принадлежит пользователю
	if _, err := s.bizRepo.GetByIDForOwner(ctx, id, userID); err != nil {
		return err
	}
	return s.bizRepo.Delete(ctx, id)
}
