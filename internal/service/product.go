package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/meridian/marketplace-api/internal/dto"
	"github.com/meridian/marketplace-api/internal/model"
	"github.com/meridian/marketplace-api/internal/repository"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrProductAccessDenied = errors.New("product belongs to another seller")
	ErrShopRequired        = errors.New("seller has no shop")
)

const productCacheTTL = 60 * time.Second

type ProductService struct {
	productRepo repository.ProductRepository
	shopRepo    repository.ShopRepository
	redisClient *redis.Client
}

func NewProductService(productRepo repository.ProductRepository, shopRepo repository.ShopRepository, redisClient *redis.Client) *ProductService {
	return &ProductService{productRepo: productRepo, shopRepo: shopRepo, redisClient: redisClient}
}

// Create lists a product under the caller's shop. The caller must have
// become a seller first.
func (s *ProductService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	shop, err := s.shopRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get shop: %w", err)
	}
	if shop == nil {
		return nil, ErrShopRequired
	}

	product := &model.Product{
		ShopID:      shop.ID,
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Inventory:   req.Inventory,
		Images:      req.Images,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return s.GetByID(ctx, product.ID)
}

func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	cacheKey := "product:" + id.String()

	// Try cache
	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var resp dto.ProductResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	resp := toProductResponse(product)

	// Write to cache
	if s.redisClient != nil {
		if data, err := json.Marshal(resp); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, productCacheTTL)
		}
	}

	return &resp, nil
}

func (s *ProductService) List(ctx context.Context, req dto.ListProductsRequest) (*dto.ProductListResponse, error) {
	filter := repository.ProductFilter{
		CategorySlug: req.Category,
		ShopID:       req.ShopID,
		Search:       req.Search,
		Limit:        req.Limit,
		Offset:       (req.Page - 1) * req.Limit,
	}
	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	var items []dto.ProductResponse
	for i := range products {
		items = append(items, toProductResponse(&products[i]))
	}

	return &dto.ProductListResponse{
		Products: items,
		Meta:     listMeta(total, req.Page, req.Limit),
	}, nil
}

func (s *ProductService) Update(ctx context.Context, id, userID uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.ownedProduct(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}
	if req.Title != nil {
		product.Title = *req.Title
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Inventory != nil {
		product.Inventory = *req.Inventory
	}
	if req.Images != nil {
		product.Images = *req.Images
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.invalidateCache(ctx, id)
	resp := toProductResponse(product)
	return &resp, nil
}

func (s *ProductService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.ownedProduct(ctx, id, userID); err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.invalidateCache(ctx, id)
	return nil
}

func (s *ProductService) ownedProduct(ctx context.Context, id, userID uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if product.Shop == nil || product.Shop.UserID != userID {
		return nil, ErrProductAccessDenied
	}
	return product, nil
}

func (s *ProductService) invalidateCache(ctx context.Context, id uuid.UUID) {
	if s.redisClient != nil {
		s.redisClient.Del(ctx, "product:"+id.String())
	}
}

func toProductResponse(p *model.Product) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:          p.ID,
		ShopID:      p.ShopID,
		CategoryID:  p.CategoryID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Inventory:   p.Inventory,
		Images:      p.Images,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Shop != nil {
		resp.Shop = &dto.ShopResponse{
			ID:             p.Shop.ID,
			UserID:         p.Shop.UserID,
			Name:           p.Shop.Name,
			Description:    p.Shop.Description,
			Logo:           p.Shop.Logo,
			CommissionRate: p.Shop.CommissionRate,
			IsVerified:     p.Shop.IsVerified,
			CreatedAt:      p.Shop.CreatedAt,
		}
	}
	if p.Category != nil {
		resp.Category = &dto.CategoryResponse{
			ID:   p.Category.ID,
			Name: p.Category.Name,
			Slug: p.Category.Slug,
		}
	}
	return resp
}

func listMeta(total, page, limit int) dto.ListMeta {
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return dto.ListMeta{Total: total, Page: page, Limit: limit, TotalPages: pages}
}
