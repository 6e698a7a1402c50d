package showtimes

import (
	"errors"
	"net/http"

	"showbook/internal/programs"
	"showbook/internal/shared/utils/response"
	"showbook/internal/venues"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateShowtime handles POST /api/v1/showtimes
func (c *Controller) CreateShowtime(ctx *gin.Context) {
	organizerID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req CreateShowtimeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	showtime, err := c.service.CreateShowtime(ctx.Request.Context(), organizerID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrProgramRequired),
			errors.Is(err, ErrMissingBaseTier),
			errors.Is(err, ErrUnknownSeatType),
			errors.Is(err, ErrStartInPast),
			errors.Is(err, ErrEventAlreadyOver):
			response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
		case errors.Is(err, ErrScheduleOverlap):
			response.RespondJSON(ctx, "error", http.StatusConflict, "Showtime overlaps an existing one", nil, nil)
		case errors.Is(err, ErrNotScreenOwner):
			response.RespondJSON(ctx, "error", http.StatusForbidden, "Access denied", nil, nil)
		case errors.Is(err, venues.ErrScreenNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Screen not found", nil, nil)
		case errors.Is(err, programs.ErrMovieNotFound), errors.Is(err, programs.ErrEventNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Program not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create showtime", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Showtime created successfully", showtime, nil)
}

// GetShowtime handles GET /api/v1/showtimes/:id
func (c *Controller) GetShowtime(ctx *gin.Context) {
	showtimeID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid showtime ID", nil, nil)
		return
	}

	showtime, err := c.service.GetShowtime(ctx.Request.Context(), showtimeID)
	if err != nil {
		if errors.Is(err, ErrShowtimeNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Showtime not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get showtime", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Showtime retrieved successfully", showtime, nil)
}

// GetAvailability handles GET /api/v1/showtimes/:id/seats
func (c *Controller) GetAvailability(ctx *gin.Context) {
	showtimeID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid showtime ID", nil, nil)
		return
	}

	availability, err := c.service.GetAvailability(ctx.Request.Context(), showtimeID)
	if err != nil {
		if errors.Is(err, ErrShowtimeNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Showtime not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get seat availability", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seat availability retrieved successfully", availability, nil)
}

// ListByScreen handles GET /api/v1/showtimes?screen_id=X or venue_id=Y
func (c *Controller) ListShowtimes(ctx *gin.Context) {
	if screenParam := ctx.Query("screen_id"); screenParam != "" {
		screenID, err := uuid.Parse(screenParam)
		if err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid screen ID", nil, nil)
			return
		}

		showtimes, err := c.service.ListByScreen(ctx.Request.Context(), screenID)
		if err != nil {
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list showtimes", nil, err.Error())
			return
		}
		response.RespondJSON(ctx, "success", http.StatusOK, "Showtimes retrieved successfully", gin.H{
			"showtimes": showtimes,
			"count":     len(showtimes),
		}, nil)
		return
	}

	if venueParam := ctx.Query("venue_id"); venueParam != "" {
		venueID, err := uuid.Parse(venueParam)
		if err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid venue ID", nil, nil)
			return
		}

		showtimes, err := c.service.ListByVenue(ctx.Request.Context(), venueID)
		if err != nil {
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list showtimes", nil, err.Error())
			return
		}
		response.RespondJSON(ctx, "success", http.StatusOK, "Showtimes retrieved successfully", gin.H{
			"showtimes": showtimes,
			"count":     len(showtimes),
		}, nil)
		return
	}

	response.RespondJSON(ctx, "error", http.StatusBadRequest, "screen_id or venue_id query parameter is required", nil, nil)
}

// DeactivateShowtime handles DELETE /api/v1/showtimes/:id
func (c *Controller) DeactivateShowtime(ctx *gin.Context) {
	organizerID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	showtimeID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid showtime ID", nil, nil)
		return
	}

	role, _ := ctx.Get("user_role")
	isAdmin := role == "ADMIN"

	if err := c.service.DeactivateShowtime(ctx.Request.Context(), organizerID, isAdmin, showtimeID); err != nil {
		switch {
		case errors.Is(err, ErrShowtimeNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Showtime not found", nil, nil)
		case errors.Is(err, ErrNotScreenOwner):
			response.RespondJSON(ctx, "error", http.StatusForbidden, "Access denied", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to deactivate showtime", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Showtime deactivated successfully", nil, nil)
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
