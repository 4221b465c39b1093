package hostlist

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"hostgrip/internal/domain"
	"hostgrip/internal/eventbus"
	"hostgrip/internal/logging"
)

// Store keeps the last successfully loaded host list in memory. Searches
// read from the store; only Reload touches the backing source.
type Store struct {
	mu     sync.RWMutex
	source Source
	bus    eventbus.EventBus
	hosts  []domain.HostEntry
	loaded bool
}

// NewStore creates a store over source. A nil source yields a store that
// always reports ErrNoHosts.
func NewStore(source Source, bus eventbus.EventBus) *Store {
	return &Store{source: source, bus: bus}
}

// Hosts returns the cached host list, or ErrNoHosts if none was loaded
func (s *Store) Hosts() ([]domain.HostEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, ErrNoHosts
	}
	return s.hosts, nil
}

// Reload reads the source again. On failure the previous list is kept.
func (s *Store) Reload(ctx context.Context) error {
	if s.source == nil {
		return ErrNoHosts
	}

	hosts, err := s.source.Load(ctx)
	if err != nil {
		logging.Log.WithError(err).WithField("source", s.source.String()).Warn("host list load failed")
		if s.bus != nil {
			s.bus.Publish(eventbus.ErrorEvent{Message: "host list load failed", Err: err})
		}
		return errors.Wrapf(err, "load hosts from %s", s.source)
	}

	s.mu.Lock()
	s.hosts = hosts
	s.loaded = true
	s.mu.Unlock()

	logging.Log.WithFields(logrus.Fields{
		"source": s.source.String(),
		"count":  len(hosts),
	}).Info("host list loaded")
	if s.bus != nil {
		s.bus.Publish(eventbus.HostsLoadedEvent{Source: s.source.String(), Count: len(hosts)})
	}
	return nil
}

// Source names the backing source, or "" without one
func (s *Store) Source() string {
	if s.source == nil {
		return ""
	}
	return s.source.String()
}

// Len returns the number of cached hosts
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.hosts)
}
