package venues

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

// CreateVenue handles POST /api/v1/venues
func (c *Controller) CreateVenue(ctx *gin.Context) {
	organizerID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req CreateVenueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	venue, err := c.service.CreateVenue(ctx.Request.Context(), organizerID, req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create venue", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Venue created successfully", venue, nil)
}

// GetVenue handles GET /api/v1/venues/:id
func (c *Controller) GetVenue(ctx *gin.Context) {
	venueID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid venue ID", nil, nil)
		return
	}

	venue, err := c.service.GetVenue(ctx.Request.Context(), venueID)
	if err != nil {
		if errors.Is(err, ErrVenueNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Venue not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get venue", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Venue retrieved successfully", venue, nil)
}

// ListVenues handles GET /api/v1/venues
func (c *Controller) ListVenues(ctx *gin.Context) {
	city := ctx.Query("city")

	venues, err := c.service.ListVenues(ctx.Request.Context(), city)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list venues", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Venues retrieved successfully", gin.H{
		"venues": venues,
		"count":  len(venues),
	}, nil)
}

// AddScreen handles POST /api/v1/venues/:id/screens
func (c *Controller) AddScreen(ctx *gin.Context) {
	organizerID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	venueID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid venue ID", nil, nil)
		return
	}

	var req AddScreenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	screen, err := c.service.AddScreen(ctx.Request.Context(), organizerID, venueID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrVenueNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Venue not found", nil, nil)
		case errors.Is(err, ErrNotVenueOwner):
			response.RespondJSON(ctx, "error", http.StatusForbidden, "Access denied", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to add screen", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Screen added successfully", screen, nil)
}

// DeactivateVenue handles DELETE /api/v1/venues/:id
func (c *Controller) DeactivateVenue(ctx *gin.Context) {
	organizerID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	venueID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid venue ID", nil, nil)
		return
	}

	role, _ := ctx.Get("user_role")
	isAdmin := role == "ADMIN"

	if err := c.service.DeactivateVenue(ctx.Request.Context(), organizerID, isAdmin, venueID); err != nil {
		switch {
		case errors.Is(err, ErrVenueNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Venue not found", nil, nil)
		case errors.Is(err, ErrNotVenueOwner):
			response.RespondJSON(ctx, "error", http.StatusForbidden, "Access denied", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to deactivate venue", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Venue deactivated successfully", nil, nil)
}

// currentUserID pulls the authenticated user id set by the JWT middleware
func currentUserID(ctx *gin.Context) (uuid.UUID, bool) {
	userIDInterface, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return uuid.Nil, false
	}

	userIDStr, ok := userIDInterface.(string)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Invalid user ID format", nil, nil)
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid user ID", nil, nil)
		return uuid.Nil, false
	}

	return userID, true
}
