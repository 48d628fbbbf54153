/*

This file contains the catalog service: an immutable in-memory snapshot of
the protocol catalog, refreshed from the database on a cron schedule.
Request handlers read the snapshot; nothing on the request path touches the
database for catalog data.

*/

package catalog

import (
	"errors"
	"sync/atomic"

	"github.com/farmsight/engine/internal/logger"
	"github.com/farmsight/engine/internal/types"
	"github.com/robfig/cron/v3"
)

var catalogLogger = logger.GetForComponent("catalog_service")

var ErrNilLoader = errors.New("catalog loader cannot be nil")

// snapshot pairs a catalog with a monotonically increasing version, used to
// key derived caches.
type snapshot struct {
	protocols []types.ProtocolActivity
	version   uint64
}

// Service holds the current catalog snapshot behind an atomic pointer.
// Refresh replaces the whole snapshot; readers never see a partial update.
type Service struct {
	load     func() ([]types.ProtocolActivity, error)
	current  atomic.Pointer[snapshot]
	versions atomic.Uint64
	cron     *cron.Cron
}

// NewService creates a catalog service around a loader function. The loader
// is injected so tests can run without a database.
func NewService(load func() ([]types.ProtocolActivity, error)) (*Service, error) {
	if load == nil {
		return nil, ErrNilLoader
	}
	s := &Service{load: load}
	s.current.Store(&snapshot{protocols: []types.ProtocolActivity{}})
	return s, nil
}

// Refresh loads the catalog and swaps it in. On load failure the previous
// snapshot stays in place so readers keep serving stale-but-valid data.
func (s *Service) Refresh() error {
	protocols, err := s.load()
	if err != nil {
		catalogLogger.Error().Err(err).Msg("Catalog refresh failed, keeping previous snapshot")
		return err
	}

	version := s.versions.Add(1)
	s.current.Store(&snapshot{protocols: protocols, version: version})

	catalogLogger.Info().
		Int("protocols", len(protocols)).
		Uint64("version", version).
		Msg("Catalog snapshot refreshed")
	return nil
}

// Snapshot returns the current catalog. Callers must treat the returned
// slice as read-only.
func (s *Service) Snapshot() []types.ProtocolActivity {
	return s.current.Load().protocols
}

// Version returns the version of the current snapshot.
func (s *Service) Version() uint64 {
	return s.current.Load().version
}

// StartRefreshing schedules periodic refreshes using a cron expression
// (e.g. "@every 10m").
func (s *Service) StartRefreshing(spec string) error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(spec, func() {
		if err := s.Refresh(); err != nil {
			catalogLogger.Warn().Err(err).Msg("Scheduled catalog refresh failed")
		}
	}); err != nil {
		return err
	}
	s.cron.Start()
	catalogLogger.Info().Str("schedule", spec).Msg("Catalog refresh scheduled")
	return nil
}

// Stop halts the refresh schedule.
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}
