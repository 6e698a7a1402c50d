package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"showbook/internal/auth"
	"showbook/internal/notifications"
	"showbook/internal/payments"
	"showbook/internal/promos"
	"showbook/internal/shared/config"
	"showbook/internal/showtimes"
	"showbook/internal/venues"
	"showbook/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrNotBookingOwner    = errors.New("booking belongs to another user")
	ErrCancellationCutoff = errors.New("cancellation window has closed")
	ErrOrderMismatch      = errors.New("payment order does not match this booking")
	ErrPaymentNotVerified = errors.New("payment signature verification failed")
	ErrBookingNotPayable  = errors.New("booking is not awaiting payment")
	ErrNothingToPay       = errors.New("booking total is zero, nothing to pay")
	ErrRefCodeExhausted   = errors.New("could not allocate a unique booking reference")
)

// VerifyPaymentRequest carries the gateway callback fields
type VerifyPaymentRequest struct {
	GatewayOrderID   string `json:"gateway_order_id" binding:"required"`
	GatewayPaymentID string `json:"gateway_payment_id" binding:"required"`
	Signature        string `json:"signature" binding:"required"`
}

type Service interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingResponse, error)
	CreatePaymentOrder(ctx context.Context, userID, bookingID uuid.UUID) (*BookingResponse, error)
	VerifyPayment(ctx context.Context, userID, bookingID uuid.UUID, req VerifyPaymentRequest) (*Booking, error)
	CancelPendingBooking(ctx context.Context, userID, bookingID uuid.UUID) (*Booking, error)
	CancelBooking(ctx context.Context, userID, bookingID uuid.UUID) (*Booking, error)
	AdminCancelBooking(ctx context.Context, bookingID uuid.UUID) (*Booking, error)

	GetBooking(ctx context.Context, userID uuid.UUID, isAdmin bool, bookingID uuid.UUID) (*Booking, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)
	GetAllBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error)

	ValidateAndCheckIn(ctx context.Context, staffID uuid.UUID, isAdmin bool, refCode string) (*CheckInResult, error)
	TicketQR(ctx context.Context, userID, bookingID uuid.UUID) ([]byte, error)
}

type service struct {
	repo         Repository
	showtimeRepo showtimes.Repository
	showtimeSvc  showtimes.Service
	guard        *showtimes.SeatGuard
	venues       venues.Service
	promos       promos.Service
	users        auth.Repository
	gateway      payments.Gateway
	notifier     notifications.Service
	cfg          *config.Config
	log          *logger.Logger
}

func NewService(
	repo Repository,
	showtimeRepo showtimes.Repository,
	showtimeSvc showtimes.Service,
	guard *showtimes.SeatGuard,
	venueService venues.Service,
	promoService promos.Service,
	userRepo auth.Repository,
	gateway payments.Gateway,
	notifier notifications.Service,
	cfg *config.Config,
) Service {
	return &service{
		repo:         repo,
		showtimeRepo: showtimeRepo,
		showtimeSvc:  showtimeSvc,
		guard:        guard,
		venues:       venueService,
		promos:       promoService,
		users:        userRepo,
		gateway:      gateway,
		notifier:     notifier,
		cfg:          cfg,
		log:          logger.GetDefault(),
	}
}

// CreateBooking claims the requested seats and opens a payment order.
// The booking starts in PAYMENT_PENDING; the seats are already exclusive
// at that point, so a second request for any of them fails immediately.
func (s *service) CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingResponse, error) {
	showtime, err := s.showtimeRepo.GetByID(ctx, req.ShowtimeID)
	if err != nil {
		return nil, err
	}
	if !showtime.IsActive {
		return nil, showtimes.ErrShowtimeInactive
	}
	if !showtime.StartTime.After(time.Now()) {
		return nil, showtimes.ErrShowtimeStarted
	}

	layout, err := s.venues.GetScreenLayout(ctx, showtime.ScreenID)
	if err != nil {
		return nil, err
	}

	_, originalAmount, err := ResolveOrderTotal(layout, showtime.PriceTiers, req.Seats)
	if err != nil {
		return nil, err
	}

	// Fast-path rejection before the transaction. The database row lock
	// is still the authority; guard errors other than a conflict are
	// ignored so Redis downtime never blocks bookings.
	if s.guard != nil {
		guardTTL := showtime.StartTime.Sub(time.Now())
		if err := s.guard.Claim(ctx, showtime.ID, req.Seats, guardTTL); err != nil {
			var conflict *showtimes.SeatConflictError
			if errors.As(err, &conflict) {
				s.log.LogSeatConflict(ctx, showtime.ID.String(), conflict.Seats)
				return nil, conflict
			}
		}
	}

	discountAmount := 0.0
	var promoID *uuid.UUID
	if req.PromoCode != "" {
		promo, err := s.promos.ResolveForOrder(ctx, req.PromoCode, originalAmount)
		if err != nil {
			s.releaseGuard(ctx, showtime.ID, req.Seats)
			return nil, err
		}
		discountAmount, err = promo.CalculateDiscount(originalAmount)
		if err != nil {
			s.releaseGuard(ctx, showtime.ID, req.Seats)
			return nil, err
		}
		promoID = &promo.ID
	}

	finalAmount := roundMoney(originalAmount - discountAmount)

	booking, err := s.createWithUniqueRef(ctx, userID, showtime.ID, req.Seats, originalAmount, discountAmount, finalAmount, promoID)
	if err != nil {
		s.releaseGuard(ctx, showtime.ID, req.Seats)
		var conflict *showtimes.SeatConflictError
		if errors.As(err, &conflict) {
			s.log.LogSeatConflict(ctx, showtime.ID.String(), conflict.Seats)
		}
		return nil, err
	}

	s.showtimeSvc.InvalidateAvailability(ctx, showtime.ID)
	s.log.LogBookingCreated(ctx, booking.ID.String(), showtime.ID.String(), userID.String(), len(req.Seats))

	result := &BookingResponse{
		Booking:   booking,
		AmountDue: finalAmount,
		Currency:  s.cfg.Payment.Currency,
	}

	// A fully discounted order has nothing to charge and the gateway
	// rejects zero-amount orders, so checkout is skipped entirely.
	if finalAmount <= 0 {
		return result, nil
	}

	order, err := s.gateway.CreateOrder(ctx, payments.MinorUnits(finalAmount), s.cfg.Payment.Currency, booking.RefCode)
	if err != nil {
		// Without a payment order the booking can never be paid, so give
		// the seats back right away.
		if _, cancelErr := s.repo.Cancel(ctx, booking.ID); cancelErr != nil {
			s.log.ErrorWithContext(ctx, "failed to cancel booking after gateway error", cancelErr, map[string]interface{}{
				"booking_id": booking.ID.String(),
			})
		} else {
			s.releaseGuard(ctx, showtime.ID, req.Seats)
			s.showtimeSvc.InvalidateAvailability(ctx, showtime.ID)
		}
		return nil, fmt.Errorf("failed to create payment order: %w", err)
	}

	if err := s.repo.SetGatewayOrder(ctx, booking.ID, order.ID); err != nil {
		return nil, err
	}
	booking.GatewayOrderID = order.ID
	result.GatewayOrderID = order.ID
	result.GatewayKeyID = s.cfg.Payment.KeyID

	return result, nil
}

// createWithUniqueRef retries booking creation on ref code collisions.
// The transaction rolls back completely on a collision, so the retry
// starts from a clean ledger.
func (s *service) createWithUniqueRef(ctx context.Context, userID, showtimeID uuid.UUID, seats []string, original, discount, final float64, promoID *uuid.UUID) (*Booking, error) {
	for attempt := 0; attempt < s.cfg.Booking.RefMaxAttempts; attempt++ {
		refCode, err := GenerateRefCode(s.cfg.Booking.RefLength)
		if err != nil {
			return nil, err
		}

		booking := &Booking{
			RefCode:        refCode,
			UserID:         userID,
			ShowtimeID:     showtimeID,
			Seats:          seats,
			OriginalAmount: original,
			DiscountAmount: discount,
			FinalAmount:    final,
			PromoCodeID:    promoID,
			Status:         StatusPaymentPending,
		}

		err = s.repo.CreateWithSeatClaim(ctx, booking, promoID)
		if err == nil {
			return booking, nil
		}
		if errors.Is(err, ErrRefCodeTaken) {
			continue
		}
		return nil, err
	}

	return nil, ErrRefCodeExhausted
}

// CreatePaymentOrder opens a fresh gateway order for a pending booking.
// Booking creation already opens one; this covers clients that lost the
// checkout session before paying.
func (s *service) CreatePaymentOrder(ctx context.Context, userID, bookingID uuid.UUID) (*BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrNotBookingOwner
	}
	if booking.Status != StatusPaymentPending {
		return nil, ErrBookingNotPayable
	}
	if booking.FinalAmount <= 0 {
		return nil, ErrNothingToPay
	}

	order, err := s.gateway.CreateOrder(ctx, payments.MinorUnits(booking.FinalAmount), s.cfg.Payment.Currency, booking.RefCode)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment order: %w", err)
	}

	if err := s.repo.SetGatewayOrder(ctx, booking.ID, order.ID); err != nil {
		return nil, err
	}
	booking.GatewayOrderID = order.ID

	return &BookingResponse{
		Booking:        booking,
		GatewayOrderID: order.ID,
		GatewayKeyID:   s.cfg.Payment.KeyID,
		AmountDue:      booking.FinalAmount,
		Currency:       s.cfg.Payment.Currency,
	}, nil
}

// VerifyPayment settles a pending booking from the gateway callback.
// A bad signature moves the booking to PAYMENT_FAILED; the seats stay
// claimed so the disputed order can be resolved by support.
func (s *service) VerifyPayment(ctx context.Context, userID, bookingID uuid.UUID, req VerifyPaymentRequest) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrNotBookingOwner
	}
	if booking.Status != StatusPaymentPending {
		return nil, ErrBookingNotPayable
	}
	if booking.GatewayOrderID == "" || booking.GatewayOrderID != req.GatewayOrderID {
		return nil, ErrOrderMismatch
	}

	verified := payments.VerifySignature(s.cfg.Payment.KeySecret, req.GatewayOrderID, req.GatewayPaymentID, req.Signature)
	s.log.LogPaymentVerified(ctx, bookingID.String(), req.GatewayOrderID, verified)

	if !verified {
		failed, err := s.repo.MarkPaymentFailed(ctx, bookingID, req.GatewayPaymentID, req.Signature)
		if err != nil {
			return nil, err
		}
		s.notifyAsync(booking.UserID, func(recipient notifications.Recipient) {
			_ = s.notifier.NotifyPaymentFailed(context.Background(), recipient, bookingID, map[string]interface{}{
				"ref_code": failed.RefCode,
			})
		})
		return nil, ErrPaymentNotVerified
	}

	confirmed, err := s.repo.Confirm(ctx, bookingID, req.GatewayPaymentID, req.Signature)
	if err != nil {
		return nil, err
	}

	s.notifyAsync(booking.UserID, func(recipient notifications.Recipient) {
		_ = s.notifier.NotifyBookingConfirmed(context.Background(), recipient, confirmed.ID, confirmed.ShowtimeID, map[string]interface{}{
			"ref_code": confirmed.RefCode,
			"seats":    confirmed.Seats,
			"amount":   confirmed.FinalAmount,
		})
	})

	return confirmed, nil
}

// CancelPendingBooking abandons an unpaid booking. Only the owner can
// abandon it, and only while it is still PAYMENT_PENDING; the seats go
// straight back to the ledger.
func (s *service) CancelPendingBooking(ctx context.Context, userID, bookingID uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrNotBookingOwner
	}
	if booking.Status != StatusPaymentPending {
		return nil, ErrBookingNotPayable
	}

	abandoned, err := s.repo.CancelPending(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	s.releaseGuard(ctx, abandoned.ShowtimeID, abandoned.Seats)
	s.showtimeSvc.InvalidateAvailability(ctx, abandoned.ShowtimeID)
	s.log.LogBookingCancelled(ctx, abandoned.ID.String(), abandoned.ShowtimeID.String(), abandoned.UserID.String())

	return abandoned, nil
}

// CancelBooking cancels the caller's own booking. Pending bookings can
// always be abandoned; confirmed ones only before the cutoff ahead of
// the showtime. Promo uses are never returned.
func (s *service) CancelBooking(ctx context.Context, userID, bookingID uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrNotBookingOwner
	}

	// Once the ticket has been used at the gate only an admin can revoke it.
	if booking.Status == StatusCheckedIn {
		return nil, ErrInvalidTransition
	}

	if booking.Status == StatusConfirmed {
		showtime, err := s.showtimeRepo.GetByID(ctx, booking.ShowtimeID)
		if err != nil {
			return nil, err
		}
		if time.Until(showtime.StartTime) < s.cfg.Booking.CancellationCutoff {
			return nil, ErrCancellationCutoff
		}
	}

	// Pending bookings are abandoned quietly; a paid booking gets an email
	return s.cancel(ctx, booking, booking.Status == StatusConfirmed)
}

// AdminCancelBooking cancels any cancellable booking without cutoff
// checks. The owner is always notified.
func (s *service) AdminCancelBooking(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return s.cancel(ctx, booking, true)
}

func (s *service) cancel(ctx context.Context, booking *Booking, notify bool) (*Booking, error) {
	cancelled, err := s.repo.Cancel(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	s.releaseGuard(ctx, cancelled.ShowtimeID, cancelled.Seats)
	s.showtimeSvc.InvalidateAvailability(ctx, cancelled.ShowtimeID)
	s.log.LogBookingCancelled(ctx, cancelled.ID.String(), cancelled.ShowtimeID.String(), cancelled.UserID.String())

	if notify {
		s.notifyAsync(cancelled.UserID, func(recipient notifications.Recipient) {
			_ = s.notifier.NotifyBookingCancelled(context.Background(), recipient, cancelled.ID, cancelled.ShowtimeID, map[string]interface{}{
				"ref_code": cancelled.RefCode,
			})
		})
	}

	return cancelled, nil
}

func (s *service) GetBooking(ctx context.Context, userID uuid.UUID, isAdmin bool, bookingID uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.UserID != userID {
		return nil, ErrNotBookingOwner
	}
	return booking, nil
}

func (s *service) GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	return s.repo.GetUserBookings(ctx, userID, query)
}

func (s *service) GetAllBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error) {
	return s.repo.GetAllBookings(ctx, query)
}

// releaseGuard clears the Redis fast-path claim. Failures are harmless:
// the guard entry expires on its own TTL.
func (s *service) releaseGuard(ctx context.Context, showtimeID uuid.UUID, seats []string) {
	if s.guard == nil {
		return
	}
	_, _ = s.guard.Release(ctx, showtimeID, seats)
}

// notifyAsync looks up the recipient and fires the notification off the
// request path
func (s *service) notifyAsync(userID uuid.UUID, send func(notifications.Recipient)) {
	go func() {
		user, err := s.users.GetUserByID(context.Background(), userID.String())
		if err != nil {
			s.log.ErrorWithContext(context.Background(), "failed to load notification recipient", err, map[string]interface{}{
				"user_id": userID.String(),
			})
			return
		}
		send(notifications.Recipient{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.FirstName + " " + user.LastName,
		})
	}()
}
