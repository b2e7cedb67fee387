package kiosk

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"resource-booking-backend/internal/booking"
	"resource-booking-backend/internal/model"
	"resource-booking-backend/internal/store"
)

// Kind tells a data frame from a clock tick.
type Kind string

const (
	KindData  Kind = "data"
	KindClock Kind = "clock"
)

// Frame is one message of the kiosk stream. Clock frames only carry Now.
type Frame struct {
	Kind    Kind           `json:"kind"`
	Now     time.Time      `json:"now"`
	Asset   *model.Asset   `json:"asset,omitempty"`
	Status  booking.Status `json:"status,omitempty"`
	Booking *model.Booking `json:"booking,omitempty"`
	Next    *model.Booking `json:"next,omitempty"`
}

// Source is the part of the store the kiosk reads from.
type Source interface {
	GetAsset(ctx context.Context, id string) (model.Asset, error)
	ListBookings(ctx context.Context, filter store.BookingFilter) ([]model.Booking, error)
}

// Snapshot resolves the occupancy of one asset at now.
func Snapshot(ctx context.Context, src Source, assetID string, now time.Time) (Frame, error) {
	asset, err := src.GetAsset(ctx, assetID)
	if err != nil {
		return Frame{}, err
	}
	bookings, err := src.ListBookings(ctx, store.BookingFilter{AssetID: assetID, From: now})
	if err != nil {
		return Frame{}, err
	}

	occ := booking.ResolveStatus(asset, bookings, now)
	frame := Frame{
		Kind:    KindData,
		Now:     now,
		Asset:   &asset,
		Status:  occ.Status,
		Booking: occ.Booking,
	}

	upcoming := bookings
	if occ.Booking != nil {
		upcoming = without(bookings, occ.Booking.ID)
	}
	frame.Next = booking.NextBooking(upcoming, now)
	return frame, nil
}

func without(bookings []model.Booking, id string) []model.Booking {
	out := make([]model.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.ID != id {
			out = append(out, b)
		}
	}
	return out
}

// Options control the cadence of Run.
type Options struct {
	// Refresh is the period between data frames.
	Refresh time.Duration
	// Clock is the period between clock frames.
	Clock time.Duration
	Now   func() time.Time
}

// Run emits a data frame right away and then every Refresh, and a clock frame
// every Clock, until ctx is cancelled or emit fails. A failed fetch is logged and
// retried on the next refresh. Both tickers are stopped on return.
func Run(ctx context.Context, opts Options, fetch func(ctx context.Context, now time.Time) (Frame, error), emit func(Frame) error) error {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	refresh := func() error {
		frame, err := fetch(ctx, opts.Now())
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn().Err(err).Msg("kiosk refresh failed")
			return nil
		}
		return emit(frame)
	}

	if err := refresh(); err != nil {
		return err
	}

	dataTicker := time.NewTicker(opts.Refresh)
	defer dataTicker.Stop()
	clockTicker := time.NewTicker(opts.Clock)
	defer clockTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-dataTicker.C:
			if err := refresh(); err != nil {
				return err
			}
		case <-clockTicker.C:
			if err := emit(Frame{Kind: KindClock, Now: opts.Now()}); err != nil {
				return err
			}
		}
	}
}
