package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/meridian/marketplace-api/internal/dto"
	"github.com/meridian/marketplace-api/internal/middleware"
	"github.com/meridian/marketplace-api/internal/model"
	"github.com/meridian/marketplace-api/internal/service"
)

type ShopHandler struct {
	shopService *service.ShopService
}

func NewShopHandler(shopService *service.ShopService) *ShopHandler {
	return &ShopHandler{shopService: shopService}
}

func (h *ShopHandler) List(c *gin.Context) {
	shops, err := h.shopService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	resp := make([]dto.ShopResponse, 0, len(shops))
	for i := range shops {
		resp = append(resp, toShopResponse(&shops[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ShopHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shop ID"})
		return
	}

	shop, err := h.shopService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrShopNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "shop not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, toShopResponse(shop))
}

// GetMine returns the calling seller's shop.
func (h *ShopHandler) GetMine(c *gin.Context) {
	userID := middleware.GetUserID(c)

	shop, err := h.shopService.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrShopNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "shop not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, toShopResponse(shop))
}

func (h *ShopHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req dto.CreateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shop, err := h.shopService.Create(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, service.ErrShopAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "user already has a shop"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, toShopResponse(shop))
}

func (h *ShopHandler) Verify(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shop ID"})
		return
	}

	shop, err := h.shopService.Verify(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrShopNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "shop not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, toShopResponse(shop))
}

func toShopResponse(shop *model.Shop) dto.ShopResponse {
	resp := dto.ShopResponse{
		ID:             shop.ID,
		UserID:         shop.UserID,
		Name:           shop.Name,
		Description:    shop.Description,
		Logo:           shop.Logo,
		CommissionRate: shop.CommissionRate,
		IsVerified:     shop.IsVerified,
		ProductCount:   shop.ProductCount,
		CreatedAt:      shop.CreatedAt,
	}
	if shop.User != nil {
		resp.Owner = &dto.UserResponse{
			ID:        shop.User.ID,
			Email:     shop.User.Email,
			FirstName: shop.User.FirstName,
			LastName:  shop.User.LastName,
			Role:      shop.User.Role,
		}
	}
	return resp
}
