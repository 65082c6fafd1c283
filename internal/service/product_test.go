package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian/marketplace-api/internal/dto"
	"github.com/meridian/marketplace-api/internal/model"
	"github.com/meridian/marketplace-api/internal/repository"
)

type mockProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (m *mockProductRepo) Create(_ context.Context, p *model.Product) error {
	p.ID = uuid.New()
	p.IsActive = true
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.products[p.ID] = p
	return nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	return m.products[id], nil
}

func (m *mockProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]model.Product, int, error) {
	var all []model.Product
	for _, p := range m.products {
		if !p.IsActive {
			continue
		}
		if filter.ShopID != uuid.Nil && p.ShopID != filter.ShopID {
			continue
		}
		all = append(all, *p)
	}
	return all, len(all), nil
}

func (m *mockProductRepo) Update(_ context.Context, p *model.Product) error {
	m.products[p.ID] = p
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.products, id)
	return nil
}

func TestProductService_Create(t *testing.T) {
	shopRepo := newMockShopRepo()
	sellerID := uuid.New()
	shop := &model.Shop{UserID: sellerID, Name: "Tech Shop"}
	require.NoError(t, shopRepo.Create(context.Background(), shop))

	productRepo := newMockProductRepo()
	svc := NewProductService(productRepo, shopRepo, nil)

	resp, err := svc.Create(context.Background(), sellerID, dto.CreateProductRequest{
		CategoryID:  uuid.New(),
		Title:       "Headphones",
		Description: "Noise cancelling",
		Price:       decimal.RequireFromString("89.99"),
		Inventory:   50,
	})
	require.NoError(t, err)
	assert.Equal(t, "Headphones", resp.Title)
	assert.Equal(t, shop.ID, resp.ShopID)
	assert.True(t, resp.IsActive)
}

func TestProductService_Create_NoShop(t *testing.T) {
	svc := NewProductService(newMockProductRepo(), newMockShopRepo(), nil)
	_, err := svc.Create(context.Background(), uuid.New(), dto.CreateProductRequest{
		CategoryID: uuid.New(), Title: "X", Description: "Y",
	})
	assert.ErrorIs(t, err, ErrShopRequired)
}

func TestProductService_GetByID_NotFound(t *testing.T) {
	svc := NewProductService(newMockProductRepo(), newMockShopRepo(), nil)
	_, err := svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_Update_OtherSeller(t *testing.T) {
	productRepo := newMockProductRepo()
	product := &model.Product{
		Title: "Lamp",
		Shop:  &model.Shop{UserID: uuid.New()},
	}
	require.NoError(t, productRepo.Create(context.Background(), product))

	svc := NewProductService(productRepo, newMockShopRepo(), nil)

	title := "Better Lamp"
	_, err := svc.Update(context.Background(), product.ID, uuid.New(), dto.UpdateProductRequest{Title: &title})
	assert.ErrorIs(t, err, ErrProductAccessDenied)
}

func TestProductService_Delete(t *testing.T) {
	productRepo := newMockProductRepo()
	sellerID := uuid.New()
	product := &model.Product{
		Title: "Lamp",
		Shop:  &model.Shop{UserID: sellerID},
	}
	require.NoError(t, productRepo.Create(context.Background(), product))

	svc := NewProductService(productRepo, newMockShopRepo(), nil)

	require.NoError(t, svc.Delete(context.Background(), product.ID, sellerID))
	assert.Empty(t, productRepo.products)
}
