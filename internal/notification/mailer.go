package notification

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"resource-booking-backend/internal/model"
)

// Mailer sends the booking confirmation to the person who booked.
type Mailer interface {
	SendConfirmation(ctx context.Context, b model.Booking, assetName string) error
}

// LogMailer only logs the confirmation; nothing is delivered.
type LogMailer struct{}

func (LogMailer) SendConfirmation(ctx context.Context, b model.Booking, assetName string) error {
	log.Info().
		Str("to", b.UserEmail).
		Str("booking_id", b.ID).
		Str("asset", assetName).
		Str("start", b.StartTime.UTC().Format(time.RFC3339)).
		Str("end", b.EndTime.UTC().Format(time.RFC3339)).
		Msg("[SMTP MOCK] booking confirmed")
	return nil
}
