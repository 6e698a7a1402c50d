package bookings

import (
	"errors"
	"net/http"

	"showbook/internal/promos"
	"showbook/internal/shared/utils/response"
	"showbook/internal/showtimes"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateBooking handles POST /api/v1/bookings
func (c *Controller) CreateBooking(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := c.service.CreateBooking(ctx.Request.Context(), userID, req)
	if err != nil {
		var conflict *showtimes.SeatConflictError
		var unknownSeat *UnknownSeatError
		switch {
		case errors.As(err, &conflict):
			response.RespondJSON(ctx, "error", http.StatusConflict, "Some seats are no longer available", gin.H{
				"conflicting_seats": conflict.Seats,
			}, nil)
		case errors.As(err, &unknownSeat):
			response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
		case errors.Is(err, showtimes.ErrShowtimeNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Showtime not found", nil, nil)
		case errors.Is(err, showtimes.ErrShowtimeInactive), errors.Is(err, showtimes.ErrShowtimeStarted):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, err.Error(), nil, nil)
		case errors.Is(err, promos.ErrPromoNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Promo code not found", nil, nil)
		case errors.Is(err, promos.ErrPromoInactive),
			errors.Is(err, promos.ErrPromoNotStarted),
			errors.Is(err, promos.ErrPromoExpired),
			errors.Is(err, promos.ErrPromoExhausted),
			errors.Is(err, promos.ErrMinPurchase):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, err.Error(), nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create booking", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking created, awaiting payment", result, nil)
}

// CreatePaymentOrder handles POST /api/v1/bookings/:id/payment/order
func (c *Controller) CreatePaymentOrder(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	result, err := c.service.CreatePaymentOrder(ctx.Request.Context(), userID, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, nil)
		case errors.Is(err, ErrNotBookingOwner):
			response.RespondJSON(ctx, "error", http.StatusForbidden, "Access denied", nil, nil)
		case errors.Is(err, ErrBookingNotPayable), errors.Is(err, ErrNothingToPay):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, err.Error(), nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create payment order", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment order created", result, nil)
}

// VerifyPayment handles POST /api/v1/bookings/:id/payment/verify
func (c *Controller) VerifyPayment(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	var req VerifyPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	booking, err := c.service.VerifyPayment(ctx.Request.Context(), userID, bookingID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, nil)
		case errors.Is(err, ErrNotBookingOwner):
			response.RespondJSON(ctx, "error", http.StatusForbidden, "Access denied", nil, nil)
		case errors.Is(err, ErrBookingNotPayable), errors.Is(err, ErrOrderMismatch):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, err.Error(), nil, nil)
		case errors.Is(err, ErrPaymentNotVerified):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Payment verification failed", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to verify payment", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment verified, booking confirmed", booking, nil)
}

// GetBooking handles GET /api/v1/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	role, _ := ctx.Get("user_role")
	isAdmin := role == "ADMIN"

	booking, err := c.service.GetBooking(ctx.Request.Context(), userID, isAdmin, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, nil)
		case errors.Is(err, ErrNotBookingOwner):
			response.RespondJSON(ctx, "error", http.StatusForbidden, "Access denied", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get booking", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

// GetUserBookings handles GET /api/v1/bookings
func (c *Controller) GetUserBookings(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	bookings, totalCount, err := c.service.GetUserBookings(ctx.Request.Context(), userID, query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list bookings", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", gin.H{
		"bookings":    bookings,
		"total_count": totalCount,
		"total_pages": CalculateTotalPages(totalCount, query.Limit),
	}, nil)
}

// GetAllBookings handles GET /api/v1/bookings/admin/all
func (c *Controller) GetAllBookings(ctx *gin.Context) {
	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	bookings, totalCount, err := c.service.GetAllBookings(ctx.Request.Context(), query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list bookings", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", gin.H{
		"bookings":    bookings,
		"total_count": totalCount,
		"total_pages": CalculateTotalPages(totalCount, query.Limit),
	}, nil)
}

// CancelPendingBooking handles POST /api/v1/bookings/:id/abandon
func (c *Controller) CancelPendingBooking(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	booking, err := c.service.CancelPendingBooking(ctx.Request.Context(), userID, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, nil)
		case errors.Is(err, ErrNotBookingOwner):
			response.RespondJSON(ctx, "error", http.StatusForbidden, "Access denied", nil, nil)
		case errors.Is(err, ErrBookingNotPayable), errors.Is(err, ErrInvalidTransition):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Booking is not awaiting payment", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to abandon booking", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking abandoned, seats released", booking, nil)
}

// CancelBooking handles DELETE /api/v1/bookings/:id
func (c *Controller) CancelBooking(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	booking, err := c.service.CancelBooking(ctx.Request.Context(), userID, bookingID)
	if err != nil {
		c.respondCancelError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking cancelled successfully", booking, nil)
}

// AdminCancelBooking handles DELETE /api/v1/bookings/admin/:id
func (c *Controller) AdminCancelBooking(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	booking, err := c.service.AdminCancelBooking(ctx.Request.Context(), bookingID)
	if err != nil {
		c.respondCancelError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking cancelled successfully", booking, nil)
}

func (c *Controller) respondCancelError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrBookingNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, nil)
	case errors.Is(err, ErrNotBookingOwner):
		response.RespondJSON(ctx, "error", http.StatusForbidden, "Access denied", nil, nil)
	case errors.Is(err, ErrCancellationCutoff):
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Cancellation window has closed", nil, nil)
	case errors.Is(err, ErrInvalidTransition):
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Booking cannot be cancelled in its current state", nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to cancel booking", nil, err.Error())
	}
}

// CheckIn handles POST /api/v1/bookings/checkin
func (c *Controller) CheckIn(ctx *gin.Context) {
	staffID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req struct {
		RefCode string `json:"ref_code" binding:"required,min=4,max=16"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	role, _ := ctx.Get("user_role")
	isAdmin := role == "ADMIN"

	result, err := c.service.ValidateAndCheckIn(ctx.Request.Context(), staffID, isAdmin, req.RefCode)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking reference not found", nil, nil)
		case errors.Is(err, ErrNotVenueStaff):
			response.RespondJSON(ctx, "error", http.StatusForbidden, "Access denied", nil, nil)
		case errors.Is(err, ErrAlreadyCheckedIn):
			response.RespondJSON(ctx, "error", http.StatusConflict, "Booking already checked in", nil, nil)
		case errors.Is(err, ErrBookingNotEntitled), errors.Is(err, ErrCheckInClosed):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, err.Error(), nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to check in booking", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Check-in successful", result, nil)
}

// TicketQR handles GET /api/v1/bookings/:id/qr
func (c *Controller) TicketQR(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	png, err := c.service.TicketQR(ctx.Request.Context(), userID, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, nil)
		case errors.Is(err, ErrNotBookingOwner):
			response.RespondJSON(ctx, "error", http.StatusForbidden, "Access denied", nil, nil)
		case errors.Is(err, ErrBookingNotEntitled):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Booking is not active", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to render ticket", nil, err.Error())
		}
		return
	}

	ctx.Data(http.StatusOK, "image/png", png)
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
