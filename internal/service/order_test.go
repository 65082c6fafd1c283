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
)

type mockOrderRepo struct {
	orders map[uuid.UUID]*model.Order
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (m *mockOrderRepo) CreateWithItems(_ context.Context, order *model.Order) error {
	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
		order.Items[i].CreatedAt = order.CreatedAt
	}
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	cp.Items = append([]model.OrderItem(nil), o.Items...)
	return &cp, nil
}

func (m *mockOrderRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.OrderStatus) error {
	if o, ok := m.orders[id]; ok {
		o.Status = status
	}
	return nil
}

func (m *mockOrderRepo) CountByUser(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, o := range m.orders {
		if o.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *mockOrderRepo) SumTotalByUserAndStatuses(_ context.Context, userID uuid.UUID, statuses []model.OrderStatus) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, o := range m.orders {
		if o.UserID != userID {
			continue
		}
		for _, s := range statuses {
			if o.Status == s {
				sum = sum.Add(o.Total)
				break
			}
		}
	}
	return sum, nil
}

type mockReviewRepo struct {
	reviews map[uuid.UUID][]model.Review
}

func newMockReviewRepo() *mockReviewRepo {
	return &mockReviewRepo{reviews: make(map[uuid.UUID][]model.Review)}
}

func (m *mockReviewRepo) Create(_ context.Context, review *model.Review) error {
	review.ID = uuid.New()
	review.CreatedAt = time.Now()
	m.reviews[review.UserID] = append(m.reviews[review.UserID], *review)
	return nil
}

func (m *mockReviewRepo) ListByProduct(_ context.Context, productID uuid.UUID) ([]model.Review, error) {
	var out []model.Review
	for _, rs := range m.reviews {
		for _, r := range rs {
			if r.ProductID == productID {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func (m *mockReviewRepo) CountByUser(_ context.Context, userID uuid.UUID) (int, error) {
	return len(m.reviews[userID]), nil
}

func validOrderRequest(productID uuid.UUID) dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		Subtotal:   decimal.NewFromInt(90),
		Commission: decimal.NewFromInt(9),
		Total:      decimal.NewFromInt(99),
		ShippingAddress: model.ShippingAddress{
			Street: "1 Main St", City: "Springfield", State: "IL", Zip: "62701", Country: "US",
		},
		CartItems: []dto.CartItemPayload{
			{ProductID: productID, Quantity: 2, Price: decimal.NewFromInt(45)},
		},
	}
}

func TestOrderService_CreateOrder_EmptyCart(t *testing.T) {
	repo := newMockOrderRepo()
	svc := NewOrderService(repo, newMockProductRepo(), newMockUserRepo(), newMockReviewRepo(), nil)

	req := validOrderRequest(uuid.New())
	req.CartItems = nil

	_, err := svc.CreateOrder(context.Background(), uuid.New(), req)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, repo.orders, "nothing should be written for an empty cart")
}

func TestOrderService_CreateOrder_NegativeTotals(t *testing.T) {
	repo := newMockOrderRepo()
	svc := NewOrderService(repo, newMockProductRepo(), newMockUserRepo(), newMockReviewRepo(), nil)

	req := validOrderRequest(uuid.New())
	req.Total = decimal.NewFromInt(-1)

	_, err := svc.CreateOrder(context.Background(), uuid.New(), req)
	assert.ErrorIs(t, err, ErrInvalidOrderTotals)
	assert.Empty(t, repo.orders)
}

func TestOrderService_CreateOrder_InvalidCartItem(t *testing.T) {
	repo := newMockOrderRepo()
	svc := NewOrderService(repo, newMockProductRepo(), newMockUserRepo(), newMockReviewRepo(), nil)

	req := validOrderRequest(uuid.New())
	req.CartItems[0].Quantity = 0
	_, err := svc.CreateOrder(context.Background(), uuid.New(), req)
	assert.ErrorIs(t, err, ErrInvalidCartItem)

	req = validOrderRequest(uuid.New())
	req.CartItems[0].Price = decimal.NewFromInt(-5)
	_, err = svc.CreateOrder(context.Background(), uuid.New(), req)
	assert.ErrorIs(t, err, ErrInvalidCartItem)

	assert.Empty(t, repo.orders)
}

func TestOrderService_CreateOrder(t *testing.T) {
	productRepo := newMockProductRepo()
	product := &model.Product{
		Title: "Headphones", Price: decimal.NewFromInt(45), Inventory: 50,
		Shop:     &model.Shop{Name: "Tech Shop"},
		Category: &model.Category{Name: "Electronics", Slug: "electronics"},
	}
	require.NoError(t, productRepo.Create(context.Background(), product))

	svc := NewOrderService(newMockOrderRepo(), productRepo, newMockUserRepo(), newMockReviewRepo(), nil)

	userID := uuid.New()
	order, err := svc.CreateOrder(context.Background(), userID, validOrderRequest(product.ID))
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, userID, order.UserID)
	require.Len(t, order.Items, 1)

	item := order.Items[0]
	assert.Equal(t, 2, item.Quantity)
	assert.True(t, item.Price.Equal(decimal.NewFromInt(45)), "price snapshot")
	assert.True(t, item.Commission.Equal(decimal.RequireFromString("4.5")), "10%% of 45, got %s", item.Commission)

	require.NotNil(t, item.Product)
	assert.Equal(t, "Headphones", item.Product.Title)
	require.NotNil(t, item.Product.Shop)
	require.NotNil(t, item.Product.Category)

	// Placing an order never reserves stock.
	stored, _ := productRepo.GetByID(context.Background(), product.ID)
	assert.Equal(t, 50, stored.Inventory)
}

func TestOrderService_CreateOrder_IgnoresShopCommissionRate(t *testing.T) {
	productRepo := newMockProductRepo()
	product := &model.Product{
		Title: "Lamp", Price: decimal.NewFromInt(100),
		Shop:     &model.Shop{Name: "Home Shop", CommissionRate: decimal.RequireFromString("0.25")},
		Category: &model.Category{Name: "Home", Slug: "home"},
	}
	require.NoError(t, productRepo.Create(context.Background(), product))

	svc := NewOrderService(newMockOrderRepo(), productRepo, newMockUserRepo(), newMockReviewRepo(), nil)

	req := dto.CreateOrderRequest{
		Subtotal:   decimal.NewFromInt(100),
		Commission: decimal.NewFromInt(10),
		Total:      decimal.NewFromInt(110),
		ShippingAddress: model.ShippingAddress{
			Street: "1 Main St", City: "Springfield", State: "IL", Zip: "62701", Country: "US",
		},
		CartItems: []dto.CartItemPayload{
			{ProductID: product.ID, Quantity: 1, Price: decimal.NewFromInt(100)},
		},
	}

	order, err := svc.CreateOrder(context.Background(), uuid.New(), req)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	// Flat 10%, not the shop's 25%.
	assert.True(t, order.Items[0].Commission.Equal(decimal.NewFromInt(10)),
		"got %s", order.Items[0].Commission)
}

func TestOrderService_GetByID(t *testing.T) {
	orderRepo := newMockOrderRepo()
	userRepo := newMockUserRepo()

	owner := &model.User{Email: "owner@example.com", FirstName: "Ada", LastName: "L"}
	require.NoError(t, userRepo.Create(context.Background(), owner))

	orderID := uuid.New()
	orderRepo.orders[orderID] = &model.Order{
		ID: orderID, UserID: owner.ID, Status: model.OrderStatusPaid,
		Total: decimal.RequireFromString("99.99"), CreatedAt: time.Now(),
	}

	svc := NewOrderService(orderRepo, newMockProductRepo(), userRepo, newMockReviewRepo(), nil)

	order, err := svc.GetByID(context.Background(), orderID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, orderID, order.ID)
	require.NotNil(t, order.User)
	assert.Equal(t, "owner@example.com", order.User.Email)
}

func TestOrderService_GetByID_NotFound(t *testing.T) {
	svc := NewOrderService(newMockOrderRepo(), newMockProductRepo(), newMockUserRepo(), newMockReviewRepo(), nil)
	_, err := svc.GetByID(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_GetByID_OtherUser(t *testing.T) {
	orderRepo := newMockOrderRepo()
	orderID := uuid.New()
	orderRepo.orders[orderID] = &model.Order{ID: orderID, UserID: uuid.New()}

	svc := NewOrderService(orderRepo, newMockProductRepo(), newMockUserRepo(), newMockReviewRepo(), nil)

	_, err := svc.GetByID(context.Background(), orderID, uuid.New())
	assert.ErrorIs(t, err, ErrOrderAccessDenied)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	orderRepo := newMockOrderRepo()
	orderID := uuid.New()
	orderRepo.orders[orderID] = &model.Order{
		ID: orderID, UserID: uuid.New(), Status: model.OrderStatusPending,
		Items: []model.OrderItem{{ID: uuid.New(), Quantity: 1}},
	}

	svc := NewOrderService(orderRepo, newMockProductRepo(), newMockUserRepo(), newMockReviewRepo(), nil)

	order, err := svc.UpdateStatus(context.Background(), orderID, model.OrderStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, order.Status)

	// Same status again: idempotent, items untouched.
	order, err = svc.UpdateStatus(context.Background(), orderID, model.OrderStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, order.Status)
	assert.Len(t, order.Items, 1)

	// Any status may overwrite any other; there is no transition table.
	order, err = svc.UpdateStatus(context.Background(), orderID, model.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, order.Status)
}

func TestOrderService_UpdateStatus_Unknown(t *testing.T) {
	svc := NewOrderService(newMockOrderRepo(), newMockProductRepo(), newMockUserRepo(), newMockReviewRepo(), nil)
	_, err := svc.UpdateStatus(context.Background(), uuid.New(), model.OrderStatus("ARCHIVED"))
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)
}

func TestOrderService_UpdateStatus_NotFound(t *testing.T) {
	svc := NewOrderService(newMockOrderRepo(), newMockProductRepo(), newMockUserRepo(), newMockReviewRepo(), nil)
	_, err := svc.UpdateStatus(context.Background(), uuid.New(), model.OrderStatusPaid)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_GetUserStats(t *testing.T) {
	orderRepo := newMockOrderRepo()
	reviewRepo := newMockReviewRepo()
	userID := uuid.New()

	pending := uuid.New()
	orderRepo.orders[pending] = &model.Order{
		ID: pending, UserID: userID, Status: model.OrderStatusPending, Total: decimal.NewFromInt(100),
	}
	paid := uuid.New()
	orderRepo.orders[paid] = &model.Order{
		ID: paid, UserID: userID, Status: model.OrderStatusPaid, Total: decimal.NewFromInt(50),
	}
	cancelled := uuid.New()
	orderRepo.orders[cancelled] = &model.Order{
		ID: cancelled, UserID: userID, Status: model.OrderStatusCancelled, Total: decimal.NewFromInt(30),
	}

	reviewRepo.reviews[userID] = []model.Review{{Rating: 5}, {Rating: 3}}

	svc := NewOrderService(orderRepo, newMockProductRepo(), newMockUserRepo(), reviewRepo, nil)

	stats, err := svc.GetUserStats(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Orders)
	assert.True(t, stats.Spent.Equal(decimal.NewFromInt(50)), "only the PAID order counts, got %s", stats.Spent)
	assert.Equal(t, 0, stats.Wishlist)
	assert.Equal(t, 2, stats.Reviews)
}

func TestItemCommission(t *testing.T) {
	assert.True(t, itemCommission(decimal.NewFromInt(45)).Equal(decimal.RequireFromString("4.5")))
	assert.True(t, itemCommission(decimal.NewFromInt(100)).Equal(decimal.NewFromInt(10)))
	// Rounded to cents.
	assert.True(t, itemCommission(decimal.RequireFromString("19.99")).Equal(decimal.RequireFromString("2")))
	assert.True(t, itemCommission(decimal.Zero).Equal(decimal.Zero))
}
