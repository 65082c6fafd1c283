package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/meridian/marketplace-api/internal/dto"
	"github.com/meridian/marketplace-api/internal/metrics"
	"github.com/meridian/marketplace-api/internal/model"
	"github.com/meridian/marketplace-api/internal/repository"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidOrderTotals = errors.New("order totals must not be negative")
	ErrInvalidCartItem    = errors.New("cart item has invalid quantity or price")
	ErrInvalidOrderStatus = errors.New("unknown order status")
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderAccessDenied  = errors.New("access denied")
)

type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	reviewRepo  repository.ReviewRepository
	amqpCh      *amqp.Channel
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	reviewRepo repository.ReviewRepository,
	amqpCh *amqp.Channel,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		reviewRepo:  reviewRepo,
		amqpCh:      amqpCh,
	}
}

// CreateOrder persists an order header plus one line per cart item in a
// single transaction. The caller supplies subtotal, commission and total;
// they are checked for sign only, not recomputed. Product inventory is
// not touched.
func (s *OrderService) CreateOrder(ctx context.Context, userID uuid.UUID, req dto.CreateOrderRequest) (*model.Order, error) {
	if len(req.CartItems) == 0 {
		return nil, ErrEmptyCart
	}
	if req.Subtotal.IsNegative() || req.Commission.IsNegative() || req.Total.IsNegative() {
		return nil, ErrInvalidOrderTotals
	}

	items := make([]model.OrderItem, 0, len(req.CartItems))
	for _, ci := range req.CartItems {
		if ci.Quantity < 1 || ci.Price.IsNegative() {
			return nil, ErrInvalidCartItem
		}
		items = append(items, model.OrderItem{
			ProductID:  ci.ProductID,
			Quantity:   ci.Quantity,
			Price:      ci.Price,
			Commission: itemCommission(ci.Price),
		})
	}

	order := &model.Order{
		UserID:          userID,
		Status:          model.OrderStatusPending,
		Subtotal:        req.Subtotal,
		Commission:      req.Commission,
		Total:           req.Total,
		ShippingAddress: req.ShippingAddress,
		Items:           items,
	}
	if err := s.orderRepo.CreateWithItems(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	metrics.OrdersCreated.Inc()

	if err := s.attachProducts(ctx, order); err != nil {
		return nil, err
	}

	// Notify downstream consumers. Best effort: the order is already
	// committed.
	if s.amqpCh != nil {
		msg, _ := json.Marshal(model.OrderMessage{OrderID: order.ID, UserID: userID})
		_ = s.amqpCh.PublishWithContext(ctx, "", "orders", false, false, amqp.Publishing{
			ContentType:  "application/json",
			Body:         msg,
			DeliveryMode: amqp.Persistent,
		})
	}

	return order, nil
}

// GetByID returns the order with nested products and the owner's public
// fields. Only the owner may read it; the check is a strict user id
// comparison with no admin bypass.
func (s *OrderService) GetByID(ctx context.Context, orderID, userID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != userID {
		return nil, ErrOrderAccessDenied
	}

	if err := s.attachProducts(ctx, order); err != nil {
		return nil, err
	}

	owner, err := s.userRepo.GetByID(ctx, order.UserID)
	if err != nil {
		return nil, fmt.Errorf("get order owner: %w", err)
	}
	order.User = owner
	return order, nil
}

func (s *OrderService) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	for i := range orders {
		if err := s.attachProducts(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// UpdateStatus overwrites the order status. Any status may replace any
// other; there is no transition table. Callers are expected to sit
// behind an admin-only route.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidOrderStatus
	}

	existing, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if existing == nil {
		return nil, ErrOrderNotFound
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("reload order: %w", err)
	}
	if err := s.attachProducts(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// GetUserStats aggregates the buyer dashboard counters. Spend only
// counts orders that progressed past PENDING and were not cancelled.
func (s *OrderService) GetUserStats(ctx context.Context, userID uuid.UUID) (*model.UserStats, error) {
	orders, err := s.orderRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	spent, err := s.orderRepo.SumTotalByUserAndStatuses(ctx, userID, model.SpendStatuses)
	if err != nil {
		return nil, fmt.Errorf("sum spend: %w", err)
	}

	reviews, err := s.reviewRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	// No wishlist feature yet; the dashboard still expects the field.
	return &model.UserStats{Orders: orders, Spent: spent, Wishlist: 0, Reviews: reviews}, nil
}

func (s *OrderService) attachProducts(ctx context.Context, order *model.Order) error {
	for i := range order.Items {
		product, err := s.productRepo.GetByID(ctx, order.Items[i].ProductID)
		if err != nil {
			return fmt.Errorf("get product for order item: %w", err)
		}
		order.Items[i].Product = product
	}
	return nil
}
