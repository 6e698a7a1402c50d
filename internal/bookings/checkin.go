package bookings

import (
	"context"
	"errors"
	"time"

	"showbook/internal/showtimes"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

var (
	ErrCheckInClosed      = errors.New("check-in is not open for this showtime")
	ErrBookingNotEntitled = errors.New("booking does not entitle entry")
	ErrNotVenueStaff      = errors.New("user does not manage this venue")
)

// checkInOpensBefore is how long before the showtime the gate opens.
const checkInOpensBefore = 2 * time.Hour

// CheckInResult is returned to gate staff after a successful scan.
type CheckInResult struct {
	Booking  *Booking            `json:"booking"`
	Showtime *showtimes.Showtime `json:"showtime"`
}

// ValidateAndCheckIn resolves a booking reference at the gate and marks
// it checked in. Staff must manage the showtime's venue unless they are
// an admin. A second scan of the same reference is rejected.
func (s *service) ValidateAndCheckIn(ctx context.Context, staffID uuid.UUID, isAdmin bool, refCode string) (*CheckInResult, error) {
	booking, err := s.repo.GetByRefCode(ctx, refCode)
	if err != nil {
		return nil, err
	}

	showtime, err := s.showtimeRepo.GetByID(ctx, booking.ShowtimeID)
	if err != nil {
		return nil, err
	}

	if !isAdmin {
		owned, err := s.venues.IsVenueOwnedBy(ctx, showtime.VenueID, staffID)
		if err != nil {
			return nil, err
		}
		if !owned {
			return nil, ErrNotVenueStaff
		}
	}

	if booking.Status != StatusConfirmed {
		if booking.Status == StatusCheckedIn {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, ErrBookingNotEntitled
	}

	now := time.Now()
	if now.Before(showtime.StartTime.Add(-checkInOpensBefore)) || now.After(showtime.EndTime) {
		return nil, ErrCheckInClosed
	}

	checkedIn, err := s.repo.CheckIn(ctx, booking.ID, staffID)
	if err != nil {
		return nil, err
	}

	s.log.LogCheckIn(ctx, checkedIn.RefCode, staffID.String())

	return &CheckInResult{
		Booking:  checkedIn,
		Showtime: showtime,
	}, nil
}

// TicketQR renders the booking reference as a PNG QR code for the
// owner's ticket.
func (s *service) TicketQR(ctx context.Context, userID, bookingID uuid.UUID) ([]byte, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrNotBookingOwner
	}
	if !booking.Status.IsActive() {
		return nil, ErrBookingNotEntitled
	}

	return qrcode.Encode(booking.RefCode, qrcode.Medium, 256)
}
