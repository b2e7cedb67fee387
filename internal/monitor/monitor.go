package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog/log"

	"resource-booking-backend/config"
	"resource-booking-backend/internal/booking"
	"resource-booking-backend/internal/notification"
	"resource-booking-backend/internal/store"
)

// Service periodically resolves the occupancy of every asset and notifies
// subscribers when an asset becomes free.
type Service struct {
	cfg        *config.Config
	store      store.Store
	workerPool *notification.WorkerPool
	now        func() time.Time

	mu   sync.Mutex
	last map[string]booking.Status
}

// NewService creates the monitor together with its notification worker pool.
func NewService(cfg *config.Config, s store.Store) *Service {
	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	return &Service{
		cfg:        cfg,
		store:      s,
		workerPool: notification.NewWorkerPool(cfg.WorkerPool.Size, s, &webpushOptions),
		now:        time.Now,
		last:       make(map[string]booking.Status),
	}
}

// Run sweeps once and then every configured interval until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Monitor.Enabled {
		log.Info().Msg("occupancy monitor is disabled, not starting")
		return
	}
	log.Info().Dur("interval", s.cfg.Monitor.Interval).Msg("starting occupancy monitor")

	s.workerPool.Start(ctx)

	s.SweepOnce(ctx)

	timer := time.NewTimer(s.cfg.Monitor.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("occupancy monitor shutting down")
			return
		case <-timer.C:
			s.SweepOnce(ctx)
			timer.Reset(s.cfg.Monitor.Interval)
		}
	}
}

// SweepOnce resolves every asset at the current time and dispatches a notification
// for each asset that went from OCCUPIED or MAINTENANCE to FREE since the previous
// sweep. It returns the IDs of those assets. The first sweep only records state.
func (s *Service) SweepOnce(ctx context.Context) []string {
	now := s.now().UTC()

	assets, err := s.store.ListAssets(ctx)
	if err != nil {
		log.Error().Err(err).Msg("sweep aborted: failed to list assets")
		return nil
	}
	// Only bookings that have not ended yet can contain now.
	bookings, err := s.store.ListBookings(ctx, store.BookingFilter{From: now})
	if err != nil {
		log.Error().Err(err).Msg("sweep aborted: failed to list bookings")
		return nil
	}

	current := make(map[string]booking.Status, len(assets))
	for _, asset := range assets {
		occ := booking.ResolveStatus(asset, booking.ForAsset(bookings, asset.ID), now)
		current[asset.ID] = occ.Status
	}

	s.mu.Lock()
	var freed []string
	for _, asset := range assets {
		prev, seen := s.last[asset.ID]
		if seen && prev != booking.StatusFree && current[asset.ID] == booking.StatusFree {
			freed = append(freed, asset.ID)
		}
	}
	s.last = current
	s.mu.Unlock()

	if len(freed) > 0 {
		log.Info().Int("count", len(freed)).Msg("dispatching asset-free notifications")
		for _, id := range freed {
			if err := s.workerPool.Dispatch(ctx, id); err != nil {
				log.Warn().Err(err).Str("asset_id", id).Msg("dropping asset-free notification")
				break
			}
		}
	}
	log.Debug().Int("assets", len(assets)).Msg("sweep finished")
	return freed
}
