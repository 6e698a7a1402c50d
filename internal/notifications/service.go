package notifications

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// Recipient identifies who a notification is addressed to
type Recipient struct {
	ID    uuid.UUID
	Email string
	Name  string
}

// Service is the high-level notification API used by the booking flow.
// Implementations must not block the caller on delivery.
type Service interface {
	NotifyBookingConfirmed(ctx context.Context, recipient Recipient, bookingID, showtimeID uuid.UUID, data map[string]interface{}) error
	NotifyBookingCancelled(ctx context.Context, recipient Recipient, bookingID, showtimeID uuid.UUID, data map[string]interface{}) error
	NotifyPaymentFailed(ctx context.Context, recipient Recipient, bookingID uuid.UUID, data map[string]interface{}) error
	Close() error
}

type kafkaService struct {
	producer NotificationProducer
}

// NewService creates a notification service backed by the Kafka producer
func NewService(producer NotificationProducer) Service {
	return &kafkaService{producer: producer}
}

func (s *kafkaService) NotifyBookingConfirmed(ctx context.Context, recipient Recipient, bookingID, showtimeID uuid.UUID, data map[string]interface{}) error {
	notification := NewNotificationBuilder().
		WithType(NotificationTypeBookingConfirmed).
		WithRecipient(recipient.ID, recipient.Email, recipient.Name).
		WithBookingContext(bookingID).
		WithShowtimeContext(showtimeID).
		WithTemplateData(data).
		WithSubject(subjectFor(NotificationTypeBookingConfirmed, data)).
		Build()

	return s.producer.PublishNotification(ctx, notification)
}

func (s *kafkaService) NotifyBookingCancelled(ctx context.Context, recipient Recipient, bookingID, showtimeID uuid.UUID, data map[string]interface{}) error {
	notification := NewNotificationBuilder().
		WithType(NotificationTypeBookingCancelled).
		WithRecipient(recipient.ID, recipient.Email, recipient.Name).
		WithBookingContext(bookingID).
		WithShowtimeContext(showtimeID).
		WithTemplateData(data).
		WithSubject(subjectFor(NotificationTypeBookingCancelled, data)).
		Build()

	return s.producer.PublishNotification(ctx, notification)
}

func (s *kafkaService) NotifyPaymentFailed(ctx context.Context, recipient Recipient, bookingID uuid.UUID, data map[string]interface{}) error {
	notification := NewNotificationBuilder().
		WithType(NotificationTypePaymentFailed).
		WithRecipient(recipient.ID, recipient.Email, recipient.Name).
		WithBookingContext(bookingID).
		WithTemplateData(data).
		WithSubject(subjectFor(NotificationTypePaymentFailed, data)).
		Build()

	return s.producer.PublishNotification(ctx, notification)
}

func (s *kafkaService) Close() error {
	return s.producer.Close()
}

// subjectFor generates the email subject for a notification type
func subjectFor(notificationType NotificationType, data map[string]interface{}) string {
	switch notificationType {
	case NotificationTypeBookingConfirmed:
		if title, ok := data["program_title"]; ok {
			return fmt.Sprintf("✅ Booking Confirmed for %s", title)
		}
		return "✅ Your booking is confirmed!"

	case NotificationTypeBookingCancelled:
		if title, ok := data["program_title"]; ok {
			return fmt.Sprintf("❌ Booking Cancelled for %s", title)
		}
		return "❌ Your booking has been cancelled"

	case NotificationTypePaymentFailed:
		return "❌ Payment failed - Action required"

	default:
		return "📧 Notification from ShowBook"
	}
}

// noopService is used when Kafka is disabled. Notifications are logged
// and dropped.
type noopService struct{}

// NewNoopService creates a notification service that only logs
func NewNoopService() Service {
	return &noopService{}
}

func (s *noopService) NotifyBookingConfirmed(ctx context.Context, recipient Recipient, bookingID, showtimeID uuid.UUID, data map[string]interface{}) error {
	log.Printf("notifications disabled: skipping booking confirmation for %s", recipient.Email)
	return nil
}

func (s *noopService) NotifyBookingCancelled(ctx context.Context, recipient Recipient, bookingID, showtimeID uuid.UUID, data map[string]interface{}) error {
	log.Printf("notifications disabled: skipping cancellation notice for %s", recipient.Email)
	return nil
}

func (s *noopService) NotifyPaymentFailed(ctx context.Context, recipient Recipient, bookingID uuid.UUID, data map[string]interface{}) error {
	log.Printf("notifications disabled: skipping payment failure notice for %s", recipient.Email)
	return nil
}

func (s *noopService) Close() error {
	return nil
}
