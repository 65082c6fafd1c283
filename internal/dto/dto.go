package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meridian/marketplace-api/internal/model"
)

// --- Auth ---

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// --- User ---

type UserResponse struct {
	ID        uuid.UUID     `json:"id"`
	Email     string        `json:"email"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Avatar    string        `json:"avatar,omitempty"`
	Role      model.Role    `json:"role"`
	Shop      *ShopResponse `json:"shop,omitempty"`
}

type UpdateUserRequest struct {
	Email     *string `json:"email" binding:"omitempty,email"`
	Password  *string `json:"password" binding:"omitempty,min=8"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Avatar    *string `json:"avatar"`
}

type ListUsersRequest struct {
	Page  int `form:"page,default=1" binding:"min=1"`
	Limit int `form:"limit,default=10" binding:"min=1,max=100"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Meta  ListMeta       `json:"meta"`
}

type ListMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

// --- Shop ---

type CreateShopRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
}

type ShopResponse struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Logo           string          `json:"logo,omitempty"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	IsVerified     bool            `json:"is_verified"`
	ProductCount   int             `json:"product_count"`
	Owner          *UserResponse   `json:"owner,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// --- Category ---

type CategoryResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	ProductCount int       `json:"product_count"`
}

// --- Product ---

type CreateProductRequest struct {
	CategoryID  uuid.UUID       `json:"category_id" binding:"required"`
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	Inventory   int             `json:"inventory" binding:"min=0"`
	Images      []string        `json:"images"`
}

type UpdateProductRequest struct {
	CategoryID  *uuid.UUID       `json:"category_id"`
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Inventory   *int             `json:"inventory" binding:"omitempty,min=0"`
	Images      *[]string        `json:"images"`
	IsActive    *bool            `json:"is_active"`
}

type ListProductsRequest struct {
	Category string    `form:"category"`
	ShopID   uuid.UUID `form:"shop_id"`
	Search   string    `form:"search"`
	Page     int       `form:"page,default=1" binding:"min=1"`
	Limit    int       `form:"limit,default=20" binding:"min=1,max=100"`
}

type ProductResponse struct {
	ID          uuid.UUID         `json:"id"`
	ShopID      uuid.UUID         `json:"shop_id"`
	CategoryID  uuid.UUID         `json:"category_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Price       decimal.Decimal   `json:"price"`
	Inventory   int               `json:"inventory"`
	Images      []string          `json:"images"`
	IsActive    bool              `json:"is_active"`
	Shop        *ShopResponse     `json:"shop,omitempty"`
	Category    *CategoryResponse `json:"category,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Meta     ListMeta          `json:"meta"`
}

// --- Review ---

type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// --- Order ---

type CartItemPayload struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
	Price     decimal.Decimal `json:"price"`
}

type CreateOrderRequest struct {
	Subtotal        decimal.Decimal       `json:"subtotal"`
	Commission      decimal.Decimal       `json:"commission"`
	Total           decimal.Decimal       `json:"total"`
	ShippingAddress model.ShippingAddress `json:"shipping_address" binding:"required"`
	CartItems       []CartItemPayload     `json:"cart_items" binding:"required,dive"`
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

type OrderResponse struct {
	ID              uuid.UUID             `json:"id"`
	UserID          uuid.UUID             `json:"user_id"`
	Status          model.OrderStatus     `json:"status"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	Commission      decimal.Decimal       `json:"commission"`
	Total           decimal.Decimal       `json:"total"`
	ShippingAddress model.ShippingAddress `json:"shipping_address"`
	Items           []OrderItemResponse   `json:"items"`
	User            *UserResponse         `json:"user,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

type OrderItemResponse struct {
	ID         uuid.UUID        `json:"id"`
	ProductID  uuid.UUID        `json:"product_id"`
	Quantity   int              `json:"quantity"`
	Price      decimal.Decimal  `json:"price"`
	Commission decimal.Decimal  `json:"commission"`
	Product    *ProductResponse `json:"product,omitempty"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
}

type UserStatsResponse struct {
	Orders   int             `json:"orders"`
	Spent    decimal.Decimal `json:"spent"`
	Wishlist int             `json:"wishlist"`
	Reviews  int             `json:"reviews"`
}
