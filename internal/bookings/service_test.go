package bookings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"showbook/internal/notifications"
	"showbook/internal/payments"
	"showbook/internal/promos"
	"showbook/internal/shared/config"
	"showbook/internal/showtimes"
	"showbook/internal/users"
	"showbook/internal/venues"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ---- fakes ----

type fakeShowtimeStore struct {
	mu        sync.Mutex
	showtimes map[uuid.UUID]*showtimes.Showtime
}

func newFakeShowtimeStore() *fakeShowtimeStore {
	return &fakeShowtimeStore{showtimes: make(map[uuid.UUID]*showtimes.Showtime)}
}

func (f *fakeShowtimeStore) Create(ctx context.Context, st *showtimes.Showtime) error {
	f.showtimes[st.ID] = st
	return nil
}

func (f *fakeShowtimeStore) GetByID(ctx context.Context, id uuid.UUID) (*showtimes.Showtime, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.showtimes[id]
	if !ok {
		return nil, showtimes.ErrShowtimeNotFound
	}
	copied := *st
	return &copied, nil
}

func (f *fakeShowtimeStore) ListByScreen(ctx context.Context, screenID uuid.UUID, upcomingOnly bool) ([]showtimes.Showtime, error) {
	return nil, nil
}

func (f *fakeShowtimeStore) ListByVenue(ctx context.Context, venueID uuid.UUID) ([]showtimes.Showtime, error) {
	return nil, nil
}

func (f *fakeShowtimeStore) Deactivate(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeShowtimeStore) HasOverlap(ctx context.Context, screenID uuid.UUID, start, end time.Time) (bool, error) {
	return false, nil
}

func (f *fakeShowtimeStore) ClaimSeatsTx(tx *gorm.DB, showtimeID uuid.UUID, seats []string) (*showtimes.Showtime, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.showtimes[showtimeID]
	if !ok {
		return nil, showtimes.ErrShowtimeNotFound
	}
	if conflicts := st.OccupiedSeats.Overlap(seats); len(conflicts) > 0 {
		return nil, &showtimes.SeatConflictError{Seats: conflicts}
	}
	st.OccupiedSeats = st.OccupiedSeats.Add(seats)
	return st, nil
}

func (f *fakeShowtimeStore) ReleaseSeatsTx(tx *gorm.DB, showtimeID uuid.UUID, seats []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.showtimes[showtimeID]
	if !ok {
		return showtimes.ErrShowtimeNotFound
	}
	st.OccupiedSeats = st.OccupiedSeats.Remove(seats)
	return nil
}

func (f *fakeShowtimeStore) ReleaseSeats(ctx context.Context, showtimeID uuid.UUID, seats []string) error {
	return f.ReleaseSeatsTx(nil, showtimeID, seats)
}

// fakeBookingRepo keeps bookings in memory and drives the shared
// showtime store's ledger the way the real transactional repo does.
type fakeBookingRepo struct {
	store              *fakeShowtimeStore
	bookings           map[uuid.UUID]*Booking
	failPromoIncrement bool
}

func newFakeBookingRepo(store *fakeShowtimeStore) *fakeBookingRepo {
	return &fakeBookingRepo{store: store, bookings: make(map[uuid.UUID]*Booking)}
}

func (f *fakeBookingRepo) CreateWithSeatClaim(ctx context.Context, booking *Booking, promoID *uuid.UUID) error {
	if _, err := f.store.ClaimSeatsTx(nil, booking.ShowtimeID, booking.Seats); err != nil {
		return err
	}
	if promoID != nil && f.failPromoIncrement {
		// Rolls back the claim, like the real transaction would
		_ = f.store.ReleaseSeatsTx(nil, booking.ShowtimeID, booking.Seats)
		return promos.ErrPromoExhausted
	}
	booking.ID = uuid.New()
	copied := *booking
	f.bookings[booking.ID] = &copied
	return nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) GetByRefCode(ctx context.Context, refCode string) (*Booking, error) {
	for _, b := range f.bookings {
		if b.RefCode == refCode {
			copied := *b
			return &copied, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (f *fakeBookingRepo) GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	return nil, 0, nil
}

func (f *fakeBookingRepo) GetAllBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error) {
	return nil, 0, nil
}

func (f *fakeBookingRepo) transition(id uuid.UUID, next Status, apply func(*Booking)) (*Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	if !b.Status.CanTransitionTo(next) {
		if next == StatusCheckedIn && b.Status == StatusCheckedIn {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, ErrInvalidTransition
	}
	apply(b)
	b.Status = next
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) Confirm(ctx context.Context, id uuid.UUID, gatewayPaymentID, gatewaySignature string) (*Booking, error) {
	return f.transition(id, StatusConfirmed, func(b *Booking) {
		b.GatewayPaymentID = gatewayPaymentID
		b.GatewaySignature = gatewaySignature
	})
}

func (f *fakeBookingRepo) MarkPaymentFailed(ctx context.Context, id uuid.UUID, gatewayPaymentID, gatewaySignature string) (*Booking, error) {
	return f.transition(id, StatusPaymentFailed, func(b *Booking) {
		b.GatewayPaymentID = gatewayPaymentID
		b.GatewaySignature = gatewaySignature
	})
}

func (f *fakeBookingRepo) CancelPending(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return f.transition(id, StatusPaymentFailed, func(b *Booking) {
		_ = f.store.ReleaseSeatsTx(nil, b.ShowtimeID, b.Seats)
	})
}

func (f *fakeBookingRepo) Cancel(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return f.transition(id, StatusCancelled, func(b *Booking) {
		_ = f.store.ReleaseSeatsTx(nil, b.ShowtimeID, b.Seats)
		now := time.Now()
		b.CancelledAt = &now
	})
}

func (f *fakeBookingRepo) CheckIn(ctx context.Context, id uuid.UUID, staffID uuid.UUID) (*Booking, error) {
	return f.transition(id, StatusCheckedIn, func(b *Booking) {
		now := time.Now()
		b.CheckedInAt = &now
		b.CheckedInBy = &staffID
	})
}

func (f *fakeBookingRepo) SetGatewayOrder(ctx context.Context, id uuid.UUID, gatewayOrderID string) error {
	b, ok := f.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	b.GatewayOrderID = gatewayOrderID
	return nil
}

type fakeShowtimeService struct {
	invalidated int
}

func (f *fakeShowtimeService) CreateShowtime(ctx context.Context, organizerID uuid.UUID, req showtimes.CreateShowtimeRequest) (*showtimes.Showtime, error) {
	return nil, nil
}
func (f *fakeShowtimeService) GetShowtime(ctx context.Context, id uuid.UUID) (*showtimes.Showtime, error) {
	return nil, nil
}
func (f *fakeShowtimeService) GetAvailability(ctx context.Context, id uuid.UUID) (*showtimes.SeatAvailability, error) {
	return nil, nil
}
func (f *fakeShowtimeService) ListByScreen(ctx context.Context, screenID uuid.UUID) ([]showtimes.Showtime, error) {
	return nil, nil
}
func (f *fakeShowtimeService) ListByVenue(ctx context.Context, venueID uuid.UUID) ([]showtimes.Showtime, error) {
	return nil, nil
}
func (f *fakeShowtimeService) DeactivateShowtime(ctx context.Context, organizerID uuid.UUID, isAdmin bool, id uuid.UUID) error {
	return nil
}
func (f *fakeShowtimeService) InvalidateAvailability(ctx context.Context, id uuid.UUID) {
	f.invalidated++
}

type fakeVenueService struct {
	layout venues.SeatLayout
	owners map[uuid.UUID]uuid.UUID
}

func (f *fakeVenueService) CreateVenue(ctx context.Context, organizerID uuid.UUID, req venues.CreateVenueRequest) (*venues.Venue, error) {
	return nil, nil
}
func (f *fakeVenueService) GetVenue(ctx context.Context, id uuid.UUID) (*venues.Venue, error) {
	return nil, nil
}
func (f *fakeVenueService) ListVenues(ctx context.Context, city string) ([]venues.Venue, error) {
	return nil, nil
}
func (f *fakeVenueService) DeactivateVenue(ctx context.Context, organizerID uuid.UUID, isAdmin bool, venueID uuid.UUID) error {
	return nil
}
func (f *fakeVenueService) AddScreen(ctx context.Context, organizerID uuid.UUID, venueID uuid.UUID, req venues.AddScreenRequest) (*venues.Screen, error) {
	return nil, nil
}
func (f *fakeVenueService) GetScreenLayout(ctx context.Context, screenID uuid.UUID) (venues.SeatLayout, error) {
	return f.layout, nil
}
func (f *fakeVenueService) GetScreen(ctx context.Context, screenID uuid.UUID) (*venues.Screen, error) {
	return nil, nil
}
func (f *fakeVenueService) IsVenueOwnedBy(ctx context.Context, venueID, organizerID uuid.UUID) (bool, error) {
	return f.owners[venueID] == organizerID, nil
}

type fakePromoService struct {
	promo *promos.PromoCode
	err   error
}

func (f *fakePromoService) CreatePromo(ctx context.Context, req promos.CreatePromoRequest) (*promos.PromoCode, error) {
	return nil, nil
}
func (f *fakePromoService) GetPromo(ctx context.Context, id uuid.UUID) (*promos.PromoCode, error) {
	return nil, nil
}
func (f *fakePromoService) ListPromos(ctx context.Context, activeOnly bool) ([]promos.PromoCode, error) {
	return nil, nil
}
func (f *fakePromoService) DeactivatePromo(ctx context.Context, id uuid.UUID) error { return nil }
func (f *fakePromoService) ResolveForOrder(ctx context.Context, code string, orderAmount float64) (*promos.PromoCode, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.promo, nil
}

type fakeUserRepo struct{}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *users.User) error { return nil }
func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*users.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*users.User, error) {
	uid, _ := uuid.Parse(id)
	return &users.User{ID: uid, Email: "test@example.com", FirstName: "Test", LastName: "User"}, nil
}
func (f *fakeUserRepo) UpdateUserPassword(ctx context.Context, userID string, hashedPassword string) error {
	return nil
}
func (f *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	return false, nil
}

type fakeGateway struct {
	orders int
	fail   bool
}

func (f *fakeGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*payments.Order, error) {
	if f.fail {
		return nil, errors.New("gateway unavailable")
	}
	f.orders++
	return &payments.Order{ID: "order_test_1", Amount: amountMinor, Currency: currency, Receipt: receipt}, nil
}

type fakeNotifier struct{}

func (f *fakeNotifier) NotifyBookingConfirmed(ctx context.Context, r notifications.Recipient, bookingID, showtimeID uuid.UUID, data map[string]interface{}) error {
	return nil
}
func (f *fakeNotifier) NotifyBookingCancelled(ctx context.Context, r notifications.Recipient, bookingID, showtimeID uuid.UUID, data map[string]interface{}) error {
	return nil
}
func (f *fakeNotifier) NotifyPaymentFailed(ctx context.Context, r notifications.Recipient, bookingID uuid.UUID, data map[string]interface{}) error {
	return nil
}
func (f *fakeNotifier) Close() error { return nil }

// ---- harness ----

type harness struct {
	svc      Service
	repo     *fakeBookingRepo
	store    *fakeShowtimeStore
	gateway  *fakeGateway
	promos   *fakePromoService
	venueSvc *fakeVenueService
	showtime *showtimes.Showtime
	venueID  uuid.UUID
	staffID  uuid.UUID
	cfg      *config.Config
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	store := newFakeShowtimeStore()
	repo := newFakeBookingRepo(store)
	gateway := &fakeGateway{}
	promoSvc := &fakePromoService{err: promos.ErrPromoNotFound}
	staffID := uuid.New()
	venueID := uuid.New()

	showtime := &showtimes.Showtime{
		ID:            uuid.New(),
		ScreenID:      uuid.New(),
		VenueID:       venueID,
		StartTime:     time.Now().Add(24 * time.Hour),
		EndTime:       time.Now().Add(26 * time.Hour),
		PriceTiers:    showtimes.PriceTiers{"Normal": 200, "Premium": 350},
		OccupiedSeats: showtimes.SeatList{},
		IsActive:      true,
	}
	store.showtimes[showtime.ID] = showtime

	venueSvc := &fakeVenueService{
		layout: venues.SeatLayout{
			{Row: "A", Seats: 5, SeatType: "Premium"},
			{Row: "B", Seats: 10, SeatType: venues.SeatTypeNormal},
		},
		owners: map[uuid.UUID]uuid.UUID{venueID: staffID},
	}

	cfg := &config.Config{
		Payment: config.PaymentConfig{KeyID: "rzp_test", KeySecret: "secret", Currency: "INR"},
		Booking: config.BookingConfig{
			CancellationCutoff: 2 * time.Hour,
			RefLength:          8,
			RefMaxAttempts:     5,
		},
	}

	svc := NewService(repo, store, &fakeShowtimeService{}, nil, venueSvc, promoSvc, &fakeUserRepo{}, gateway, &fakeNotifier{}, cfg)

	return &harness{
		svc:      svc,
		repo:     repo,
		store:    store,
		gateway:  gateway,
		promos:   promoSvc,
		venueSvc: venueSvc,
		showtime: showtime,
		venueID:  venueID,
		staffID:  staffID,
		cfg:      cfg,
	}
}

// ---- tests ----

func TestCreateBookingClaimsSeats(t *testing.T) {
	h := newHarness(t)
	userID := uuid.New()

	result, err := h.svc.CreateBooking(context.Background(), userID, CreateBookingRequest{
		ShowtimeID: h.showtime.ID,
		Seats:      []string{"A1", "B3"},
	})
	if err != nil {
		t.Fatalf("CreateBooking returned error: %v", err)
	}

	if result.Booking.Status != StatusPaymentPending {
		t.Errorf("status = %s, want PAYMENT_PENDING", result.Booking.Status)
	}
	if result.AmountDue != 550 {
		t.Errorf("amount due = %v, want 550", result.AmountDue)
	}
	if result.GatewayOrderID != "order_test_1" {
		t.Errorf("gateway order = %q, want order_test_1", result.GatewayOrderID)
	}
	if len(result.Booking.RefCode) != 8 {
		t.Errorf("ref code %q length = %d, want 8", result.Booking.RefCode, len(result.Booking.RefCode))
	}

	st, _ := h.store.GetByID(context.Background(), h.showtime.ID)
	if !st.OccupiedSeats.Contains("A1") || !st.OccupiedSeats.Contains("B3") {
		t.Errorf("ledger = %v, want A1 and B3 occupied", st.OccupiedSeats)
	}
}

func TestCreateBookingSeatConflict(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		ShowtimeID: h.showtime.ID,
		Seats:      []string{"B1", "B2"},
	})
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	_, err = h.svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		ShowtimeID: h.showtime.ID,
		Seats:      []string{"B2", "B3"},
	})

	var conflict *showtimes.SeatConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected SeatConflictError, got %v", err)
	}
	if len(conflict.Seats) != 1 || conflict.Seats[0] != "B2" {
		t.Errorf("conflicting seats = %v, want [B2]", conflict.Seats)
	}

	// The losing request must not have claimed its free seat either
	st, _ := h.store.GetByID(context.Background(), h.showtime.ID)
	if st.OccupiedSeats.Contains("B3") {
		t.Error("B3 claimed by a failed booking")
	}
}

func TestCreateBookingAppliesPromo(t *testing.T) {
	h := newHarness(t)
	from, until := time.Now().Add(-time.Hour), time.Now().Add(time.Hour)
	h.promos.err = nil
	h.promos.promo = &promos.PromoCode{
		ID:            uuid.New(),
		Code:          "SAVE10",
		Type:          promos.DiscountPercentage,
		DiscountValue: 10,
		ValidFrom:     &from,
		ValidUntil:    &until,
		MaxUses:       100,
		IsActive:      true,
	}

	result, err := h.svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		ShowtimeID: h.showtime.ID,
		Seats:      []string{"B1"},
		PromoCode:  "SAVE10",
	})
	if err != nil {
		t.Fatalf("CreateBooking returned error: %v", err)
	}

	if result.Booking.DiscountAmount != 20 {
		t.Errorf("discount = %v, want 20", result.Booking.DiscountAmount)
	}
	if result.AmountDue != 180 {
		t.Errorf("amount due = %v, want 180", result.AmountDue)
	}
}

func TestCreateBookingPromoRaceReleasesSeats(t *testing.T) {
	h := newHarness(t)
	from, until := time.Now().Add(-time.Hour), time.Now().Add(time.Hour)
	h.promos.err = nil
	h.promos.promo = &promos.PromoCode{
		ID:            uuid.New(),
		Code:          "LAST1",
		Type:          promos.DiscountFixed,
		DiscountValue: 50,
		ValidFrom:     &from,
		ValidUntil:    &until,
		MaxUses:       1,
		IsActive:      true,
	}
	h.repo.failPromoIncrement = true

	_, err := h.svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		ShowtimeID: h.showtime.ID,
		Seats:      []string{"B5"},
		PromoCode:  "LAST1",
	})
	if !errors.Is(err, promos.ErrPromoExhausted) {
		t.Fatalf("expected ErrPromoExhausted, got %v", err)
	}

	// The whole transaction rolled back: no claimed seats left behind
	st, _ := h.store.GetByID(context.Background(), h.showtime.ID)
	if st.OccupiedSeats.Contains("B5") {
		t.Error("seat still claimed after promo failure rollback")
	}
}

func TestCreateBookingFullyDiscounted(t *testing.T) {
	h := newHarness(t)
	from, until := time.Now().Add(-time.Hour), time.Now().Add(time.Hour)
	h.promos.err = nil
	h.promos.promo = &promos.PromoCode{
		ID:            uuid.New(),
		Code:          "FREE200",
		Type:          promos.DiscountFixed,
		DiscountValue: 200,
		ValidFrom:     &from,
		ValidUntil:    &until,
		MaxUses:       10,
		IsActive:      true,
	}

	result, err := h.svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		ShowtimeID: h.showtime.ID,
		Seats:      []string{"B1"},
		PromoCode:  "FREE200",
	})
	if err != nil {
		t.Fatalf("CreateBooking returned error: %v", err)
	}

	if result.AmountDue != 0 {
		t.Errorf("amount due = %v, want 0", result.AmountDue)
	}
	if result.GatewayOrderID != "" {
		t.Errorf("gateway order = %q, want none for a zero total", result.GatewayOrderID)
	}
	if h.gateway.orders != 0 {
		t.Errorf("gateway orders created = %d, want 0", h.gateway.orders)
	}
	if result.Booking.Status != StatusPaymentPending {
		t.Errorf("status = %s, want PAYMENT_PENDING", result.Booking.Status)
	}

	st, _ := h.store.GetByID(context.Background(), h.showtime.ID)
	if !st.OccupiedSeats.Contains("B1") {
		t.Error("seat not claimed for a fully discounted booking")
	}
}

func TestCreateBookingGatewayFailureReleasesSeats(t *testing.T) {
	h := newHarness(t)
	h.gateway.fail = true

	_, err := h.svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		ShowtimeID: h.showtime.ID,
		Seats:      []string{"A2"},
	})
	if err == nil {
		t.Fatal("expected gateway error")
	}

	st, _ := h.store.GetByID(context.Background(), h.showtime.ID)
	if st.OccupiedSeats.Contains("A2") {
		t.Error("seat still claimed after gateway failure")
	}
}

func TestCreatePaymentOrderReopensCheckout(t *testing.T) {
	h := newHarness(t)
	userID := uuid.New()

	result, err := h.svc.CreateBooking(context.Background(), userID, CreateBookingRequest{
		ShowtimeID: h.showtime.ID,
		Seats:      []string{"A1"},
	})
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	reopened, err := h.svc.CreatePaymentOrder(context.Background(), userID, result.Booking.ID)
	if err != nil {
		t.Fatalf("CreatePaymentOrder returned error: %v", err)
	}
	if reopened.GatewayOrderID == "" {
		t.Error("expected a gateway order id")
	}
	if reopened.AmountDue != result.AmountDue {
		t.Errorf("amount due = %v, want %v", reopened.AmountDue, result.AmountDue)
	}
	if h.gateway.orders != 2 {
		t.Errorf("gateway orders created = %d, want 2", h.gateway.orders)
	}

	if _, err := h.svc.CreatePaymentOrder(context.Background(), uuid.New(), result.Booking.ID); !errors.Is(err, ErrNotBookingOwner) {
		t.Fatalf("expected ErrNotBookingOwner, got %v", err)
	}
}

func TestCreatePaymentOrderRequiresPendingStatus(t *testing.T) {
	h := newHarness(t)
	h.cfg.Booking.CancellationCutoff = 0
	userID := uuid.New()

	booking := confirmedBooking(t, h, userID, []string{"A2"})

	if _, err := h.svc.CreatePaymentOrder(context.Background(), userID, booking.ID); !errors.Is(err, ErrBookingNotPayable) {
		t.Fatalf("expected ErrBookingNotPayable, got %v", err)
	}
}

func TestVerifyPaymentConfirmsBooking(t *testing.T) {
	h := newHarness(t)
	userID := uuid.New()

	result, err := h.svc.CreateBooking(context.Background(), userID, CreateBookingRequest{
		ShowtimeID: h.showtime.ID,
		Seats:      []string{"B1"},
	})
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	signature := payments.ComputeSignature(h.cfg.Payment.KeySecret, result.GatewayOrderID, "pay_123")
	booking, err := h.svc.VerifyPayment(context.Background(), userID, result.Booking.ID, VerifyPaymentRequest{
		GatewayOrderID:   result.GatewayOrderID,
		GatewayPaymentID: "pay_123",
		Signature:        signature,
	})
	if err != nil {
		t.Fatalf("VerifyPayment returned error: %v", err)
	}
	if booking.Status != StatusConfirmed {
		t.Errorf("status = %s, want CONFIRMED", booking.Status)
	}
	if booking.GatewayPaymentID != "pay_123" {
		t.Errorf("payment id = %q, want pay_123", booking.GatewayPaymentID)
	}

	stored, _ := h.repo.GetByID(context.Background(), result.Booking.ID)
	if stored.GatewaySignature != signature {
		t.Errorf("stored signature = %q, want %q", stored.GatewaySignature, signature)
	}
}

func TestVerifyPaymentBadSignatureKeepsSeats(t *testing.T) {
	h := newHarness(t)
	userID := uuid.New()

	result, err := h.svc.CreateBooking(context.Background(), userID, CreateBookingRequest{
		ShowtimeID: h.showtime.ID,
		Seats:      []string{"B7"},
	})
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	_, err = h.svc.VerifyPayment(context.Background(), userID, result.Booking.ID, VerifyPaymentRequest{
		GatewayOrderID:   result.GatewayOrderID,
		GatewayPaymentID: "pay_123",
		Signature:        "forged",
	})
	if !errors.Is(err, ErrPaymentNotVerified) {
		t.Fatalf("expected ErrPaymentNotVerified, got %v", err)
	}

	booking, _ := h.repo.GetByID(context.Background(), result.Booking.ID)
	if booking.Status != StatusPaymentFailed {
		t.Errorf("status = %s, want PAYMENT_FAILED", booking.Status)
	}

	// Disputed bookings keep their seats until support resolves them
	st, _ := h.store.GetByID(context.Background(), h.showtime.ID)
	if !st.OccupiedSeats.Contains("B7") {
		t.Error("seat released for a failed payment")
	}
}

func TestVerifyPaymentOrderMismatch(t *testing.T) {
	h := newHarness(t)
	userID := uuid.New()

	result, err := h.svc.CreateBooking(context.Background(), userID, CreateBookingRequest{
		ShowtimeID: h.showtime.ID,
		Seats:      []string{"B8"},
	})
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	_, err = h.svc.VerifyPayment(context.Background(), userID, result.Booking.ID, VerifyPaymentRequest{
		GatewayOrderID:   "order_someone_elses",
		GatewayPaymentID: "pay_123",
		Signature:        "sig",
	})
	if !errors.Is(err, ErrOrderMismatch) {
		t.Fatalf("expected ErrOrderMismatch, got %v", err)
	}
}

func TestCancelPendingBookingReleasesSeats(t *testing.T) {
	h := newHarness(t)
	userID := uuid.New()

	result, err := h.svc.CreateBooking(context.Background(), userID, CreateBookingRequest{
		ShowtimeID: h.showtime.ID,
		Seats:      []string{"B9"},
	})
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	cancelled, err := h.svc.CancelBooking(context.Background(), userID, result.Booking.ID)
	if err != nil {
		t.Fatalf("CancelBooking returned error: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Errorf("status = %s, want CANCELLED", cancelled.Status)
	}

	st, _ := h.store.GetByID(context.Background(), h.showtime.ID)
	if st.OccupiedSeats.Contains("B9") {
		t.Error("seat still claimed after cancellation")
	}
}

func TestAbandonPendingBookingReleasesSeats(t *testing.T) {
	h := newHarness(t)
	userID := uuid.New()

	result, err := h.svc.CreateBooking(context.Background(), userID, CreateBookingRequest{
		ShowtimeID: h.showtime.ID,
		Seats:      []string{"A4"},
	})
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	if _, err := h.svc.CancelPendingBooking(context.Background(), uuid.New(), result.Booking.ID); !errors.Is(err, ErrNotBookingOwner) {
		t.Fatalf("expected ErrNotBookingOwner, got %v", err)
	}

	abandoned, err := h.svc.CancelPendingBooking(context.Background(), userID, result.Booking.ID)
	if err != nil {
		t.Fatalf("CancelPendingBooking returned error: %v", err)
	}
	if abandoned.Status != StatusPaymentFailed {
		t.Errorf("status = %s, want PAYMENT_FAILED", abandoned.Status)
	}

	st, _ := h.store.GetByID(context.Background(), h.showtime.ID)
	if st.OccupiedSeats.Contains("A4") {
		t.Error("seat still claimed after abandoning the booking")
	}

	// A second abandon finds the booking no longer pending
	if _, err := h.svc.CancelPendingBooking(context.Background(), userID, result.Booking.ID); !errors.Is(err, ErrBookingNotPayable) {
		t.Fatalf("expected ErrBookingNotPayable, got %v", err)
	}
}

func TestAbandonRejectsConfirmedBooking(t *testing.T) {
	h := newHarness(t)
	h.cfg.Booking.CancellationCutoff = 0
	userID := uuid.New()

	booking := confirmedBooking(t, h, userID, []string{"A5"})

	if _, err := h.svc.CancelPendingBooking(context.Background(), userID, booking.ID); !errors.Is(err, ErrBookingNotPayable) {
		t.Fatalf("expected ErrBookingNotPayable, got %v", err)
	}
}

func TestCancelBookingCutoff(t *testing.T) {
	h := newHarness(t)
	userID := uuid.New()

	// Showtime starts inside the cutoff window
	h.showtime.StartTime = time.Now().Add(30 * time.Minute)

	result, err := h.svc.CreateBooking(context.Background(), userID, CreateBookingRequest{
		ShowtimeID: h.showtime.ID,
		Seats:      []string{"B1"},
	})
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	signature := payments.ComputeSignature(h.cfg.Payment.KeySecret, result.GatewayOrderID, "pay_1")
	if _, err := h.svc.VerifyPayment(context.Background(), userID, result.Booking.ID, VerifyPaymentRequest{
		GatewayOrderID:   result.GatewayOrderID,
		GatewayPaymentID: "pay_1",
		Signature:        signature,
	}); err != nil {
		t.Fatalf("VerifyPayment failed: %v", err)
	}

	if _, err := h.svc.CancelBooking(context.Background(), userID, result.Booking.ID); !errors.Is(err, ErrCancellationCutoff) {
		t.Fatalf("expected ErrCancellationCutoff, got %v", err)
	}

	// Admins can still cancel
	if _, err := h.svc.AdminCancelBooking(context.Background(), result.Booking.ID); err != nil {
		t.Fatalf("AdminCancelBooking returned error: %v", err)
	}
}

func TestCancelBookingNotOwner(t *testing.T) {
	h := newHarness(t)

	result, err := h.svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		ShowtimeID: h.showtime.ID,
		Seats:      []string{"B2"},
	})
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	if _, err := h.svc.CancelBooking(context.Background(), uuid.New(), result.Booking.ID); !errors.Is(err, ErrNotBookingOwner) {
		t.Fatalf("expected ErrNotBookingOwner, got %v", err)
	}
}

func confirmedBooking(t *testing.T, h *harness, userID uuid.UUID, seats []string) *Booking {
	t.Helper()

	result, err := h.svc.CreateBooking(context.Background(), userID, CreateBookingRequest{
		ShowtimeID: h.showtime.ID,
		Seats:      seats,
	})
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	signature := payments.ComputeSignature(h.cfg.Payment.KeySecret, result.GatewayOrderID, "pay_ok")
	booking, err := h.svc.VerifyPayment(context.Background(), userID, result.Booking.ID, VerifyPaymentRequest{
		GatewayOrderID:   result.GatewayOrderID,
		GatewayPaymentID: "pay_ok",
		Signature:        signature,
	})
	if err != nil {
		t.Fatalf("VerifyPayment failed: %v", err)
	}
	return booking
}

func TestCheckInFlow(t *testing.T) {
	h := newHarness(t)
	// Gate is open: showtime starts within the check-in window
	h.showtime.StartTime = time.Now().Add(time.Hour)
	h.showtime.EndTime = time.Now().Add(3 * time.Hour)
	h.cfg.Booking.CancellationCutoff = 0

	booking := confirmedBooking(t, h, uuid.New(), []string{"B4"})

	result, err := h.svc.ValidateAndCheckIn(context.Background(), h.staffID, false, booking.RefCode)
	if err != nil {
		t.Fatalf("ValidateAndCheckIn returned error: %v", err)
	}
	if result.Booking.Status != StatusCheckedIn {
		t.Errorf("status = %s, want CHECKED_IN", result.Booking.Status)
	}
	if result.Booking.CheckedInBy == nil || *result.Booking.CheckedInBy != h.staffID {
		t.Error("checked_in_by not recorded")
	}

	// Second scan of the same reference is rejected
	if _, err := h.svc.ValidateAndCheckIn(context.Background(), h.staffID, false, booking.RefCode); !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Fatalf("expected ErrAlreadyCheckedIn, got %v", err)
	}
}

func TestAdminCancelCheckedInBooking(t *testing.T) {
	h := newHarness(t)
	h.showtime.StartTime = time.Now().Add(time.Hour)
	h.showtime.EndTime = time.Now().Add(3 * time.Hour)
	h.cfg.Booking.CancellationCutoff = 0
	userID := uuid.New()

	booking := confirmedBooking(t, h, userID, []string{"A1"})
	if _, err := h.svc.ValidateAndCheckIn(context.Background(), h.staffID, false, booking.RefCode); err != nil {
		t.Fatalf("ValidateAndCheckIn failed: %v", err)
	}

	// The owner cannot undo a used ticket
	if _, err := h.svc.CancelBooking(context.Background(), userID, booking.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	cancelled, err := h.svc.AdminCancelBooking(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("AdminCancelBooking returned error: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Errorf("status = %s, want CANCELLED", cancelled.Status)
	}

	st, _ := h.store.GetByID(context.Background(), h.showtime.ID)
	if st.OccupiedSeats.Contains("A1") {
		t.Error("seat still claimed after admin revocation")
	}
}

func TestCheckInRequiresVenueStaff(t *testing.T) {
	h := newHarness(t)
	h.showtime.StartTime = time.Now().Add(time.Hour)
	h.showtime.EndTime = time.Now().Add(3 * time.Hour)

	booking := confirmedBooking(t, h, uuid.New(), []string{"B6"})

	otherStaff := uuid.New()
	if _, err := h.svc.ValidateAndCheckIn(context.Background(), otherStaff, false, booking.RefCode); !errors.Is(err, ErrNotVenueStaff) {
		t.Fatalf("expected ErrNotVenueStaff, got %v", err)
	}

	// Admins bypass venue ownership
	if _, err := h.svc.ValidateAndCheckIn(context.Background(), otherStaff, true, booking.RefCode); err != nil {
		t.Fatalf("admin check-in returned error: %v", err)
	}
}

func TestCheckInWindow(t *testing.T) {
	h := newHarness(t)

	booking := confirmedBooking(t, h, uuid.New(), []string{"B10"})

	// Showtime is 24h away, gate not open yet
	if _, err := h.svc.ValidateAndCheckIn(context.Background(), h.staffID, false, booking.RefCode); !errors.Is(err, ErrCheckInClosed) {
		t.Fatalf("expected ErrCheckInClosed, got %v", err)
	}
}

func TestCheckInRejectsPendingBooking(t *testing.T) {
	h := newHarness(t)
	h.showtime.StartTime = time.Now().Add(time.Hour)
	h.showtime.EndTime = time.Now().Add(3 * time.Hour)

	result, err := h.svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		ShowtimeID: h.showtime.ID,
		Seats:      []string{"B3"},
	})
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	if _, err := h.svc.ValidateAndCheckIn(context.Background(), h.staffID, false, result.Booking.RefCode); !errors.Is(err, ErrBookingNotEntitled) {
		t.Fatalf("expected ErrBookingNotEntitled, got %v", err)
	}
}

func TestTicketQR(t *testing.T) {
	h := newHarness(t)
	h.cfg.Booking.CancellationCutoff = 0
	userID := uuid.New()

	booking := confirmedBooking(t, h, userID, []string{"A3"})

	png, err := h.svc.TicketQR(context.Background(), userID, booking.ID)
	if err != nil {
		t.Fatalf("TicketQR returned error: %v", err)
	}
	if len(png) == 0 {
		t.Error("expected PNG bytes")
	}

	if _, err := h.svc.TicketQR(context.Background(), uuid.New(), booking.ID); !errors.Is(err, ErrNotBookingOwner) {
		t.Fatalf("expected ErrNotBookingOwner, got %v", err)
	}
}
