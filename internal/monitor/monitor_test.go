package monitor

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resource-booking-backend/config"
	"resource-booking-backend/internal/model"
	"resource-booking-backend/internal/notification"
	"resource-booking-backend/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", regexp.MustCompile(`\W`).ReplaceAllString(t.Name(), "_"))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, gormDB.AutoMigrate(&model.Asset{}, &model.Booking{}, &model.PushSubscription{}))
	return store.NewGormStore(gormDB, model.Settings{})
}

func at(hour, minute int) time.Time {
	return time.Date(2030, 5, 6, hour, minute, 0, 0, time.UTC)
}

func TestMonitor_SweepDetectsFreedAssets(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	room, err := s.CreateAsset(ctx, model.Asset{Name: "Raum", Type: "Room"})
	require.NoError(t, err)
	car, err := s.CreateAsset(ctx, model.Asset{Name: "Auto", Type: "Vehicle", IsMaintenance: true})
	require.NoError(t, err)
	idle, err := s.CreateAsset(ctx, model.Asset{Name: "Beamer", Type: "Equipment"})
	require.NoError(t, err)

	// Written directly: the booking lies in the past relative to the wall clock.
	require.NoError(t, s.DB().Create(&model.Booking{
		ID: "b1", AssetID: room.ID, Title: "Daily", StartTime: at(9, 0), EndTime: at(10, 0),
		UserName: "Max", UserEmail: "max@example.com", CreatedAt: at(8, 0),
	}).Error)

	cfg := config.Default()
	service := NewService(cfg, s)

	// Replace the worker pool with one nobody works on and drain it here.
	pool := notification.NewWorkerPool(1, nil, nil)
	service.workerPool = pool
	dispatched := make(chan string, 8)
	go func() {
		for id := range pool.Jobs() {
			dispatched <- id
		}
	}()

	clock := at(9, 30)
	service.now = func() time.Time { return clock }

	freed := service.SweepOnce(ctx)
	assert.Empty(t, freed, "the first sweep only records state")

	_, err = s.SetMaintenance(ctx, car.ID, false)
	require.NoError(t, err)
	clock = at(10, 0)

	freed = service.SweepOnce(ctx)
	sort.Strings(freed)
	want := []string{room.ID, car.ID}
	sort.Strings(want)
	assert.Equal(t, want, freed)
	assert.NotContains(t, freed, idle.ID, "assets that were already free are not reported")

	var got []string
	for range want {
		select {
		case id := <-dispatched:
			got = append(got, id)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for dispatch")
		}
	}
	sort.Strings(got)
	assert.Equal(t, want, got)

	clock = at(10, 1)
	assert.Empty(t, service.SweepOnce(ctx), "a free asset is reported once")
}

func TestMonitor_RunDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Monitor.Enabled = false
	service := NewService(cfg, nil)

	done := make(chan struct{})
	go func() {
		service.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled monitor should return immediately")
	}
}

func TestMonitor_RunStopsOnCancel(t *testing.T) {
	s := newTestStore(t)
	cfg := config.Default()
	cfg.Monitor.Enabled = true
	cfg.Monitor.Interval = 5 * time.Millisecond
	service := NewService(cfg, s)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		service.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after cancel")
	}
}

func TestMonitor_SweepReturnsWhenQueueIsStuck(t *testing.T) {
	s := newTestStore(t)
	var ids []string
	for _, name := range []string{"Auto", "Beamer", "Raum"} {
		a, err := s.CreateAsset(context.Background(), model.Asset{Name: name, Type: "Other", IsMaintenance: true})
		require.NoError(t, err)
		ids = append(ids, a.ID)
	}

	service := NewService(config.Default(), s)
	// One slot and no workers: the second dispatch can only wait for ctx.
	service.workerPool = notification.NewWorkerPool(1, nil, nil)
	service.now = func() time.Time { return at(10, 0) }

	require.Empty(t, service.SweepOnce(context.Background()))
	for _, id := range ids {
		_, err := s.SetMaintenance(context.Background(), id, false)
		require.NoError(t, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan []string, 1)
	go func() { done <- service.SweepOnce(ctx) }()

	select {
	case freed := <-done:
		assert.Len(t, freed, len(ids))
		assert.Len(t, service.workerPool.Jobs(), 1)
	case <-time.After(2 * time.Second):
		t.Fatal("sweep blocked on a full notification queue")
	}
}
