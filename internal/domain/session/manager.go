package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebOS/backend/internal/domain/vfs"
	"github.com/GriffinCanCode/WebOS/backend/internal/infrastructure/persistence"
	"github.com/GriffinCanCode/WebOS/backend/internal/shared/id"
)

// Manager owns every open session of the process
type Manager struct {
	mu       sync.RWMutex
	sessions map[id.SessionID]*Session
	byName   map[string]id.SessionID
	store    persistence.Store
	opts     options
}

// NewManager creates a manager persisting into store
func NewManager(store persistence.Store, opts ...Option) *Manager {
	return &Manager{
		sessions: make(map[id.SessionID]*Session),
		byName:   make(map[string]id.SessionID),
		store:    store,
		opts:     buildOptions(opts),
	}
}

// Open returns the session called name, restoring its tree from the store or
// seeding the default tree when nothing was saved. A session that is already
// open is returned as is.
func (m *Manager) Open(ctx context.Context, name string) (*Session, error) {
	if err := validName(name); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if sid, ok := m.byName[name]; ok {
		return m.sessions[sid], nil
	}

	fs, source, err := m.load(ctx, name)
	if err != nil {
		return nil, err
	}

	s := newSession(name, fs, m.store, m.opts)
	if m.opts.autoBoot {
		if err := s.Boot(); err != nil {
			_ = s.Close(ctx)
			return nil, fmt.Errorf("failed to boot session %s: %w", name, err)
		}
	}

	m.sessions[s.id] = s
	m.byName[name] = s.id
	m.opts.recorder.SessionOpened(source)
	m.opts.recorder.SetSessionsActive(len(m.sessions))
	m.opts.logger.Info("Session opened",
		zap.String("session", name),
		zap.String("id", s.id.String()),
		zap.String("source", source))
	return s, nil
}

// load must hold lock
func (m *Manager) load(ctx context.Context, name string) (*vfs.FileSystem, string, error) {
	data, err := m.store.Get(ctx, SnapshotKey(name))
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		fs, err := vfs.Default(vfs.WithClock(m.opts.clock))
		return fs, "seeded", err
	case err != nil:
		return nil, "", fmt.Errorf("failed to load session %s: %w", name, err)
	}

	fs, err := vfs.Load(data, vfs.WithClock(m.opts.clock))
	if err != nil {
		m.opts.logger.Warn("Discarding unreadable snapshot",
			zap.String("session", name),
			zap.Error(err))
		fs, err := vfs.Default(vfs.WithClock(m.opts.clock))
		return fs, "seeded", err
	}
	return fs, "restored", nil
}

// Get returns an open session
func (m *Manager) Get(sessionID id.SessionID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	return s, nil
}

// List returns open sessions ordered by name
func (m *Manager) List() []*Session {
	m.mu.RLock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	m.mu.RUnlock()

	sortByName(out)
	return out
}

// Saved returns the names of sessions with a stored file tree, open or not
func (m *Manager) Saved(ctx context.Context) ([]string, error) {
	keys, err := m.store.Keys(ctx, keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved sessions: %w", err)
	}

	names := make([]string, 0, len(keys))
	for _, key := range keys {
		name, leaf, ok := strings.Cut(strings.TrimPrefix(key, keyPrefix), "/")
		if ok && leaf == snapshotLeaf {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Close closes and forgets one session
func (m *Manager) Close(ctx context.Context, sessionID id.SessionID) error {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	if ok {
		delete(m.sessions, sessionID)
		delete(m.byName, s.name)
	}
	active := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}

	m.opts.recorder.SetSessionsActive(active)
	m.opts.logger.Info("Session closed", zap.String("session", s.name))
	return s.Close(ctx)
}

// CloseAll closes every session, returning all flush errors joined
func (m *Manager) CloseAll(ctx context.Context) error {
	var errs []error
	for _, s := range m.List() {
		if err := m.Close(ctx, s.id); err != nil && !errors.Is(err, ErrNotFound) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
