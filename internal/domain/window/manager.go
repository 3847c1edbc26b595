package window

import (
	"fmt"
	"sort"
	"sync"

	"github.com/GriffinCanCode/WebOS/backend/internal/shared/id"
)

const (
	// DefaultCapacity is the maximum number of open windows per session
	DefaultCapacity = 10

	// BaseZIndex is the first zIndex ever issued
	BaseZIndex = 1000
)

// Manager owns the open windows of one session
type Manager struct {
	mu       sync.RWMutex
	windows  []*State // creation order
	capacity int
	nextZ    int
	newID    func() id.WindowID
}

// Option configures a Manager
type Option func(*Manager)

// WithCapacity overrides the open-window cap
func WithCapacity(n int) Option {
	return func(m *Manager) {
		m.capacity = n
	}
}

// WithIDGenerator overrides window id generation
func WithIDGenerator(gen func() id.WindowID) Option {
	return func(m *Manager) {
		m.newID = gen
	}
}

// NewManager creates an empty window collection
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		capacity: DefaultCapacity,
		nextZ:    BaseZIndex,
		newID:    id.NewWindowID,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add opens a window on top of the stack
func (m *Manager) Add(spec Spec) (State, error) {
	if !spec.AppType.Valid() {
		return State{}, fmt.Errorf("%w: %q", ErrUnknownKind, spec.AppType)
	}
	if err := checkPayload(spec.AppType, spec.Data); err != nil {
		return State{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.windows) >= m.capacity {
		return State{}, fmt.Errorf("%w: %d windows open", ErrCapacityExceeded, len(m.windows))
	}

	w := &State{
		ID:        m.newID(),
		AppType:   spec.AppType,
		Title:     spec.Title,
		Width:     spec.Width,
		Height:    spec.Height,
		Minimized: spec.Minimized,
		Maximized: spec.Maximized,
		ZIndex:    m.issueZ(),
		Data:      spec.Data,
	}
	if w.Title == "" {
		w.Title = spec.AppType.DefaultTitle()
	}
	if w.Width <= 0 || w.Height <= 0 {
		size := spec.AppType.DefaultSize()
		w.Width, w.Height = size.Width, size.Height
	}
	if spec.X != nil {
		w.X = *spec.X
	}
	if spec.Y != nil {
		w.Y = *spec.Y
	}
	if spec.X == nil && spec.Y == nil {
		offset := float64(50 + 25*(len(m.windows)%5))
		w.X, w.Y = offset, offset
	}

	m.windows = append(m.windows, w)
	return *w, nil
}

// Remove closes a window. It reports whether the window existed.
func (m *Manager) Remove(windowID id.WindowID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, w := range m.windows {
		if w.ID == windowID {
			m.windows = append(m.windows[:i], m.windows[i+1:]...)
			return true
		}
	}
	return false
}

// Update shallow-merges patch into a window. Unknown ids are a no-op and
// report false.
func (m *Manager) Update(windowID id.WindowID, patch Patch) (State, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.find(windowID)
	if w == nil {
		return State{}, false, nil
	}
	if err := checkPayload(w.AppType, patch.Data); err != nil {
		return State{}, true, err
	}

	if patch.Title != nil {
		w.Title = *patch.Title
	}
	if patch.X != nil {
		w.X = *patch.X
	}
	if patch.Y != nil {
		w.Y = *patch.Y
	}
	if patch.Width != nil {
		w.Width = *patch.Width
	}
	if patch.Height != nil {
		w.Height = *patch.Height
	}
	if patch.Minimized != nil {
		w.Minimized = *patch.Minimized
	}
	if patch.Maximized != nil {
		w.Maximized = *patch.Maximized
	}
	if patch.Data != nil {
		w.Data = patch.Data
	}
	return *w, true, nil
}

// Focus raises a window to the top and restores it if minimized. Focusing the
// top window changes nothing. It reports whether the window was raised.
func (m *Manager) Focus(windowID id.WindowID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.find(windowID)
	if w == nil || w.ZIndex == m.maxZ() {
		return false
	}
	w.ZIndex = m.issueZ()
	w.Minimized = false
	return true
}

// Minimize toggles the minimized flag
func (m *Manager) Minimize(windowID id.WindowID) (State, bool) {
	return m.toggle(windowID, func(w *State) { w.Minimized = !w.Minimized })
}

// Maximize toggles the maximized flag
func (m *Manager) Maximize(windowID id.WindowID) (State, bool) {
	return m.toggle(windowID, func(w *State) { w.Maximized = !w.Maximized })
}

// Clear closes every window and returns how many were open
func (m *Manager) Clear() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.windows)
	m.windows = nil
	return n
}

// Get returns a copy of one window
func (m *Manager) Get(windowID id.WindowID) (State, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if w := m.find(windowID); w != nil {
		return *w, true
	}
	return State{}, false
}

// List returns copies of all windows in creation order
func (m *Manager) List() []State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]State, len(m.windows))
	for i, w := range m.windows {
		out[i] = *w
	}
	return out
}

// Stacked returns all windows ordered bottom to top
func (m *Manager) Stacked() []State {
	out := m.List()
	sort.Slice(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}

// Top returns the window with the highest zIndex
func (m *Manager) Top() (State, bool) {
	stacked := m.Stacked()
	if len(stacked) == 0 {
		return State{}, false
	}
	return stacked[len(stacked)-1], true
}

// Len returns the number of open windows
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.windows)
}

// Capacity returns the open-window cap
func (m *Manager) Capacity() int {
	return m.capacity
}

func (m *Manager) toggle(windowID id.WindowID, fn func(*State)) (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.find(windowID)
	if w == nil {
		return State{}, false
	}
	fn(w)
	return *w, true
}

// find must hold lock
func (m *Manager) find(windowID id.WindowID) *State {
	for _, w := range m.windows {
		if w.ID == windowID {
			return w
		}
	}
	return nil
}

// maxZ must hold lock
func (m *Manager) maxZ() int {
	max := 0
	for _, w := range m.windows {
		if w.ZIndex > max {
			max = w.ZIndex
		}
	}
	return max
}

// issueZ hands out the next stacking key (must hold lock)
func (m *Manager) issueZ() int {
	z := m.nextZ
	m.nextZ++
	return z
}
