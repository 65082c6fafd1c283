package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meridian/marketplace-api/internal/dto"
	"github.com/meridian/marketplace-api/internal/model"
	"github.com/meridian/marketplace-api/internal/repository"
)

var (
	ErrShopNotFound      = errors.New("shop not found")
	ErrShopAlreadyExists = errors.New("user already has a shop")
)

// defaultCommissionRate is written onto new shops. Order creation does
// not read it back; see commission.go.
var defaultCommissionRate = decimal.RequireFromString("0.10")

type ShopService struct {
	shopRepo repository.ShopRepository
	userRepo repository.UserRepository
}

func NewShopService(shopRepo repository.ShopRepository, userRepo repository.UserRepository) *ShopService {
	return &ShopService{shopRepo: shopRepo, userRepo: userRepo}
}

// Create opens a shop for the user and promotes them to SELLER. One shop
// per user; a second create is a conflict.
func (s *ShopService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateShopRequest) (*model.Shop, error) {
	existing, err := s.shopRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check existing shop: %w", err)
	}
	if existing != nil {
		return nil, ErrShopAlreadyExists
	}

	if err := s.userRepo.UpdateRole(ctx, userID, model.RoleSeller); err != nil {
		return nil, fmt.Errorf("promote user to seller: %w", err)
	}

	shop := &model.Shop{
		UserID:         userID,
		Name:           req.Name,
		Description:    req.Description,
		Logo:           req.Logo,
		CommissionRate: defaultCommissionRate,
	}
	if err := s.shopRepo.Create(ctx, shop); err != nil {
		return nil, fmt.Errorf("create shop: %w", err)
	}
	return s.GetByID(ctx, shop.ID)
}

func (s *ShopService) GetByID(ctx context.Context, id uuid.UUID) (*model.Shop, error) {
	shop, err := s.shopRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get shop: %w", err)
	}
	if shop == nil {
		return nil, ErrShopNotFound
	}
	return shop, nil
}

func (s *ShopService) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Shop, error) {
	shop, err := s.shopRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get shop by user: %w", err)
	}
	if shop == nil {
		return nil, ErrShopNotFound
	}
	return shop, nil
}

func (s *ShopService) List(ctx context.Context) ([]model.Shop, error) {
	return s.shopRepo.List(ctx)
}

// Verify marks the shop as admin-approved. Past orders are never
// recomputed when a shop changes.
func (s *ShopService) Verify(ctx context.Context, id uuid.UUID) (*model.Shop, error) {
	shop, err := s.shopRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get shop: %w", err)
	}
	if shop == nil {
		return nil, ErrShopNotFound
	}
	if err := s.shopRepo.SetVerified(ctx, id); err != nil {
		return nil, fmt.Errorf("verify shop: %w", err)
	}
	shop.IsVerified = true
	return shop, nil
}
