package promos

import (
	"errors"
	"net/http"

	"showbook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreatePromo handles POST /api/v1/promos
func (c *Controller) CreatePromo(ctx *gin.Context) {
	var req CreatePromoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	promo, err := c.service.CreatePromo(ctx.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrPromoAlreadyExists):
			response.RespondJSON(ctx, "error", http.StatusConflict, "Promo code already exists", nil, nil)
		case errors.Is(err, ErrInvalidWindow), errors.Is(err, ErrInvalidDiscount):
			response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create promo code", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Promo code created successfully", promo, nil)
}

// GetPromo handles GET /api/v1/promos/:id
func (c *Controller) GetPromo(ctx *gin.Context) {
	promoID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid promo ID", nil, nil)
		return
	}

	promo, err := c.service.GetPromo(ctx.Request.Context(), promoID)
	if err != nil {
		if errors.Is(err, ErrPromoNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Promo code not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get promo code", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Promo code retrieved successfully", promo, nil)
}

// ListPromos handles GET /api/v1/promos
func (c *Controller) ListPromos(ctx *gin.Context) {
	activeOnly := ctx.Query("active") == "true"

	promos, err := c.service.ListPromos(ctx.Request.Context(), activeOnly)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list promo codes", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Promo codes retrieved successfully", gin.H{
		"promos": promos,
		"count":  len(promos),
	}, nil)
}

// DeactivatePromo handles DELETE /api/v1/promos/:id
func (c *Controller) DeactivatePromo(ctx *gin.Context) {
	promoID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid promo ID", nil, nil)
		return
	}

	if err := c.service.DeactivatePromo(ctx.Request.Context(), promoID); err != nil {
		if errors.Is(err, ErrPromoNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Promo code not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to deactivate promo code", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Promo code deactivated successfully", nil, nil)
}

// ValidatePromo handles POST /api/v1/promos/validate
// Lets customers preview a discount before booking.
func (c *Controller) ValidatePromo(ctx *gin.Context) {
	var req struct {
		Code        string  `json:"code" binding:"required"`
		OrderAmount float64 `json:"order_amount" binding:"required,gt=0"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	promo, err := c.service.ResolveForOrder(ctx.Request.Context(), req.Code, req.OrderAmount)
	if err != nil {
		if errors.Is(err, ErrPromoNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Promo code not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Promo code cannot be applied", nil, err.Error())
		return
	}

	discount, err := promo.CalculateDiscount(req.OrderAmount)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to calculate discount", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Promo code is valid", gin.H{
		"code":            promo.Code,
		"discount_amount": discount,
		"final_amount":    roundMoney(req.OrderAmount - discount),
	}, nil)
}
