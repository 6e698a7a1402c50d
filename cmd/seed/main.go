package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"showbook/internal/programs"
	"showbook/internal/promos"
	"showbook/internal/shared/config"
	"showbook/internal/shared/database"
	"showbook/internal/showtimes"
	"showbook/internal/users"
	"showbook/internal/venues"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Showbook Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"bookings",
		"promo_codes",
		"showtimes",
		"movies",
		"events",
		"screens",
		"venues",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	userIDs, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	screenIDs, venueID, err := s.SeedVenues(userIDs["organizer"])
	if err != nil {
		return fmt.Errorf("failed to seed venues: %w", err)
	}

	movieID, eventID, err := s.SeedPrograms()
	if err != nil {
		return fmt.Errorf("failed to seed programs: %w", err)
	}

	if err := s.SeedShowtimes(venueID, screenIDs, movieID, eventID); err != nil {
		return fmt.Errorf("failed to seed showtimes: %w", err)
	}

	if err := s.SeedPromos(); err != nil {
		return fmt.Errorf("failed to seed promo codes: %w", err)
	}

	// Fresh cache so availability reflects the reseeded ledger
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedUsers creates an admin, an organizer and two customers
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  👤 Seeding users...")

	userIDs := make(map[string]uuid.UUID)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key       string
		firstName string
		lastName  string
		email     string
		role      users.Role
	}{
		{"admin", "Admin", "User", "admin@showbook.app", users.RoleAdmin},
		{"organizer", "Olivia", "Organizer", "organizer@showbook.app", users.RoleOrganizer},
		{"customer1", "Chris", "Customer", "chris@showbook.app", users.RoleCustomer},
		{"customer2", "Casey", "Customer", "casey@showbook.app", users.RoleCustomer},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:        uuid.New(),
			FirstName: userData.firstName,
			LastName:  userData.lastName,
			Email:     userData.email,
			Password:  string(hashedPassword),
			Role:      userData.role,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		userIDs[userData.key] = user.ID
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}

	return userIDs, nil
}

// SeedVenues creates one venue with two screens
func (s *Seeder) SeedVenues(organizerID uuid.UUID) (map[string]uuid.UUID, uuid.UUID, error) {
	fmt.Println("  🏟️ Seeding venue and screens...")

	venue := venues.Venue{
		ID:          uuid.New(),
		Name:        "Galaxy Multiplex",
		City:        "Mumbai",
		Address:     "12 Marine Drive",
		OrganizerID: organizerID,
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.db.PostgreSQL.Create(&venue).Error; err != nil {
		return nil, uuid.Nil, fmt.Errorf("failed to create venue: %w", err)
	}
	fmt.Printf("    ✅ Created venue: %s\n", venue.Name)

	screenIDs := make(map[string]uuid.UUID)

	screensData := []struct {
		key    string
		name   string
		layout venues.SeatLayout
	}{
		{
			"audi1", "Audi 1",
			venues.SeatLayout{
				{Row: "A", Seats: 8, SeatType: "Recliner"},
				{Row: "B", Seats: 12, SeatType: "Premium"},
				{Row: "C", Seats: 12, SeatType: "Premium"},
				{Row: "D", Seats: 16, SeatType: "Normal"},
				{Row: "E", Seats: 16, SeatType: "Normal"},
			},
		},
		{
			"audi2", "Audi 2",
			venues.SeatLayout{
				{Row: "A", Seats: 10, SeatType: "Premium"},
				{Row: "B", Seats: 14, SeatType: "Normal"},
				{Row: "C", Seats: 14, SeatType: "Normal"},
			},
		},
	}

	for _, screenData := range screensData {
		screen := venues.Screen{
			ID:         uuid.New(),
			VenueID:    venue.ID,
			Name:       screenData.name,
			Layout:     screenData.layout,
			TotalSeats: screenData.layout.TotalSeats(),
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&screen).Error; err != nil {
			return nil, uuid.Nil, fmt.Errorf("failed to create screen %s: %w", screen.Name, err)
		}

		screenIDs[screenData.key] = screen.ID
		fmt.Printf("    ✅ Created screen: %s (%d seats)\n", screen.Name, screen.TotalSeats)
	}

	return screenIDs, venue.ID, nil
}

// SeedPrograms creates one movie and one live event
func (s *Seeder) SeedPrograms() (uuid.UUID, uuid.UUID, error) {
	fmt.Println("  🎬 Seeding programs...")

	movie := programs.Movie{
		ID:              uuid.New(),
		Title:           "The Midnight Express",
		Description:     "A night train, a missing passenger, and one stop too many.",
		DurationMinutes: 142,
		Language:        "English",
		Genre:           "Thriller",
		ReleaseDate:     time.Now().AddDate(0, -1, 0),
		IsActive:        true,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if err := s.db.PostgreSQL.Create(&movie).Error; err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("failed to create movie: %w", err)
	}
	fmt.Printf("    ✅ Created movie: %s\n", movie.Title)

	event := programs.Event{
		ID:          uuid.New(),
		Title:       "Standup Night Live",
		Description: "Two hours of standup with a rotating lineup.",
		Category:    "Comedy",
		EndsAt:      time.Now().AddDate(0, 0, 7).Add(2 * time.Hour),
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.db.PostgreSQL.Create(&event).Error; err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("failed to create event: %w", err)
	}
	fmt.Printf("    ✅ Created event: %s\n", event.Title)

	return movie.ID, event.ID, nil
}

// SeedShowtimes schedules the movie on both screens and the event on one
func (s *Seeder) SeedShowtimes(venueID uuid.UUID, screenIDs map[string]uuid.UUID, movieID, eventID uuid.UUID) error {
	fmt.Println("  🕐 Seeding showtimes...")

	tomorrow := time.Now().AddDate(0, 0, 1).Truncate(time.Hour)

	showtimesData := []struct {
		screen     string
		movieID    *uuid.UUID
		eventID    *uuid.UUID
		start      time.Time
		end        time.Time
		priceTiers showtimes.PriceTiers
	}{
		{
			screen:  "audi1",
			movieID: &movieID,
			start:   tomorrow.Add(18 * time.Hour),
			end:     tomorrow.Add(18*time.Hour + 162*time.Minute),
			priceTiers: showtimes.PriceTiers{
				"Normal":   250,
				"Premium":  400,
				"Recliner": 700,
			},
		},
		{
			screen:  "audi2",
			movieID: &movieID,
			start:   tomorrow.Add(21 * time.Hour),
			end:     tomorrow.Add(21*time.Hour + 162*time.Minute),
			priceTiers: showtimes.PriceTiers{
				"Normal":  200,
				"Premium": 350,
			},
		},
		{
			screen:  "audi1",
			eventID: &eventID,
			start:   time.Now().AddDate(0, 0, 7),
			end:     time.Now().AddDate(0, 0, 7).Add(2 * time.Hour),
			priceTiers: showtimes.PriceTiers{
				"Normal":   500,
				"Premium":  800,
				"Recliner": 1200,
			},
		},
	}

	for _, showtimeData := range showtimesData {
		showtime := showtimes.Showtime{
			ID:            uuid.New(),
			ScreenID:      screenIDs[showtimeData.screen],
			VenueID:       venueID,
			MovieID:       showtimeData.movieID,
			EventID:       showtimeData.eventID,
			StartTime:     showtimeData.start,
			EndTime:       showtimeData.end,
			PriceTiers:    showtimeData.priceTiers,
			OccupiedSeats: showtimes.SeatList{},
			IsActive:      true,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&showtime).Error; err != nil {
			return fmt.Errorf("failed to create showtime on %s: %w", showtimeData.screen, err)
		}

		fmt.Printf("    ✅ Created showtime on %s at %s\n", showtimeData.screen, showtime.StartTime.Format(time.RFC822))
	}

	return nil
}

// SeedPromos creates a percentage and a fixed discount code
func (s *Seeder) SeedPromos() error {
	fmt.Println("  🎟️ Seeding promo codes...")

	welcomeFrom := time.Now().AddDate(0, 0, -1)
	welcomeUntil := time.Now().AddDate(0, 3, 0)
	flatUntil := time.Now().AddDate(0, 1, 0)

	promosData := []promos.PromoCode{
		{
			ID:                uuid.New(),
			Code:              "WELCOME10",
			Description:       "10% off for new customers, capped at 150",
			Type:              promos.DiscountPercentage,
			DiscountValue:     10,
			MinPurchase:       0,
			MaxDiscountAmount: 150,
			ValidFrom:         &welcomeFrom,
			ValidUntil:        &welcomeUntil,
			MaxUses:           1000,
			IsActive:          true,
			CreatedAt:         time.Now(),
			UpdatedAt:         time.Now(),
		},
		{
			ID:            uuid.New(),
			Code:          "FLAT100",
			Description:   "Flat 100 off on orders above 500, no start date",
			Type:          promos.DiscountFixed,
			DiscountValue: 100,
			MinPurchase:   500,
			ValidUntil:    &flatUntil,
			MaxUses:       200,
			IsActive:      true,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		},
	}

	for i := range promosData {
		if err := s.db.PostgreSQL.Create(&promosData[i]).Error; err != nil {
			return fmt.Errorf("failed to create promo %s: %w", promosData[i].Code, err)
		}
		fmt.Printf("    ✅ Created promo: %s\n", promosData[i].Code)
	}

	return nil
}
