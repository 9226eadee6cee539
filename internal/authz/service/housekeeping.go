package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/classhubhq/classhub/internal/authz/store"
)

// TenantRetention is how long a soft-deleted tenant lingers before the
// sweep hard-deletes it along with everything scoped under it.
const TenantRetention = 30 * 24 * time.Hour

// HousekeepingService periodically flips overdue pending invitations to
// expired and purges tenants whose soft-delete retention ran out. Lazy
// expiry on accept is still authoritative; the sweep only tidies rows
// nobody ever came back for, so listings stay honest.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService builds the sweeper. A zero or negative interval
// defaults to 1 hour.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the background worker. Non-blocking; call Stop to shut it
// down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping started", "interval", s.Interval)
}

// Stop shuts the worker down, blocking until an in-progress sweep finishes.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// One sweep right away so a restart does not delay overdue rows.
	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) sweep() {
	ctx := context.Background()
	now := time.Now().UTC()

	n, err := s.Store.Invitations().ExpireOverdue(ctx, now)
	if err != nil {
		s.Logger.Error("failed to expire overdue invitations", "error", err)
	} else if n > 0 {
		s.Logger.Info("expired overdue invitations", "count", n)
	}

	purged, err := s.Store.Tenants().PurgeDeletedBefore(ctx, now.Add(-TenantRetention))
	if err != nil {
		s.Logger.Error("failed to purge deleted tenants", "error", err)
	} else if purged > 0 {
		s.Logger.Info("purged deleted tenants", "count", purged)
	}
}
