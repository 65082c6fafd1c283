package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleSeller   Role = "SELLER"
	RoleAdmin    Role = "ADMIN"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusPaid       OrderStatus = "PAID"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// SpendStatuses are the order statuses counted toward a user's lifetime
// spend. PENDING and CANCELLED orders are excluded.
var SpendStatuses = []OrderStatus{
	OrderStatusPaid, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered,
}

type User struct {
	ID        uuid.UUID
	Email     string
	Password  string
	FirstName string
	LastName  string
	Avatar    string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Shop struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Name           string
	Description    string
	Logo           string
	CommissionRate decimal.Decimal
	IsVerified     bool
	CreatedAt      time.Time
	UpdatedAt      time.Time

	User         *User
	ProductCount int
}

type Category struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time

	ProductCount int
}

type Product struct {
	ID          uuid.UUID
	ShopID      uuid.UUID
	CategoryID  uuid.UUID
	Title       string
	Description string
	Price       decimal.Decimal
	Inventory   int
	Images      []string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Shop     *Shop
	Category *Category
}

type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

type Order struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Status          OrderStatus
	Subtotal        decimal.Decimal
	Commission      decimal.Decimal
	Total           decimal.Decimal
	ShippingAddress ShippingAddress
	Items           []OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time

	User *User
}

type OrderItem struct {
	ID      uuid.UUID
	OrderID uuid.UUID
	// ProductID references the product the line was created from. The
	// price below is a snapshot taken at order time and does not track
	// later changes to the product.
	ProductID  uuid.UUID
	Quantity   int
	Price      decimal.Decimal
	Commission decimal.Decimal
	CreatedAt  time.Time

	Product *Product
}

type Review struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	Rating    int
	Comment   string
	CreatedAt time.Time
}

type UserStats struct {
	Orders   int
	Spent    decimal.Decimal
	Wishlist int
	Reviews  int
}

type OrderMessage struct {
	OrderID uuid.UUID `json:"order_id"`
	UserID  uuid.UUID `json:"user_id"`
}
