package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebOS/backend/internal/domain/power"
	"github.com/GriffinCanCode/WebOS/backend/internal/domain/shell"
	"github.com/GriffinCanCode/WebOS/backend/internal/domain/vfs"
	"github.com/GriffinCanCode/WebOS/backend/internal/domain/window"
	"github.com/GriffinCanCode/WebOS/backend/internal/infrastructure/persistence"
	"github.com/GriffinCanCode/WebOS/backend/internal/providers/preferences"
	"github.com/GriffinCanCode/WebOS/backend/internal/shared/id"
)

var (
	ErrNotRunning  = errors.New("desktop is not running")
	ErrNotFound    = errors.New("session not found")
	ErrNotTerminal = errors.New("window is not a terminal")
	ErrClosed      = errors.New("session closed")
	ErrInvalidName = errors.New("invalid session name")
)

const flushTimeout = 10 * time.Second

const (
	keyPrefix    = "sessions/"
	snapshotLeaf = "filesystem-root"
)

// SnapshotKey is the store key holding a session's file tree
func SnapshotKey(name string) string {
	return keyPrefix + name + "/" + snapshotLeaf
}

// Info summarizes a session for listings
type Info struct {
	ID          id.SessionID `json:"id"`
	Name        string       `json:"name"`
	Power       power.State  `json:"power"`
	WindowCount int          `json:"windowCount"`
	CurrentPath string       `json:"currentPath"`
	LastFlush   *time.Time   `json:"lastFlush,omitempty"`
}

// Session is one desktop: a file tree, its windows, power state and shells
type Session struct {
	id      id.SessionID
	name    string
	fs      *vfs.FileSystem
	windows *window.Manager
	power   *power.Machine
	store   persistence.Store
	prefs   *preferences.Provider

	clock    clockwork.Clock
	logger   *zap.Logger
	recorder Recorder
	config   Config

	mu          sync.Mutex
	shells      map[id.WindowID]*shell.Interpreter // Protected by mu
	currentPath string                             // Protected by mu
	lastFlush   time.Time                          // Protected by mu
	closed      bool                               // Protected by mu

	obsMu     sync.Mutex
	observers map[int]power.Observer
	nextObs   int

	stop chan struct{}
	done chan struct{}
}

// New creates a powered-off session over fs, persisting into store
func New(name string, fs *vfs.FileSystem, store persistence.Store, opts ...Option) *Session {
	return newSession(name, fs, store, buildOptions(opts))
}

func newSession(name string, fs *vfs.FileSystem, store persistence.Store, o options) *Session {
	s := &Session{
		id:          id.NewSessionID(),
		name:        name,
		fs:          fs,
		store:       store,
		prefs:       preferences.NewProvider(store, keyPrefix+name),
		clock:       o.clock,
		logger:      o.logger.With(zap.String("session", name)),
		recorder:    o.recorder,
		config:      o.config,
		shells:      make(map[id.WindowID]*shell.Interpreter),
		currentPath: o.config.Environment.Home,
		observers:   make(map[int]power.Observer),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	s.windows = window.NewManager(window.WithCapacity(o.config.MaxWindows))
	s.power = power.NewMachine(
		power.WithClock(o.clock),
		power.WithDelays(o.config.BootDelay, o.config.RestartDelay),
		power.WithLogger(s.logger),
	)
	s.power.Subscribe(s.onTransition)

	go s.persistLoop(o.clock.NewTicker(o.config.PersistInterval))
	return s
}

// ID returns the session id
func (s *Session) ID() id.SessionID { return s.id }

// Name returns the name the tree is persisted under
func (s *Session) Name() string { return s.name }

// FileSystem returns the session's file tree
func (s *Session) FileSystem() *vfs.FileSystem { return s.fs }

// Preferences returns the session's display preferences
func (s *Session) Preferences() *preferences.Provider { return s.prefs }

// Environment returns the variables every shell of this session reports
func (s *Session) Environment() shell.Environment { return s.config.Environment }

// Info returns a summary of the session
func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := Info{
		ID:          s.id,
		Name:        s.name,
		Power:       s.power.State(),
		WindowCount: s.windows.Len(),
		CurrentPath: s.currentPath,
	}
	if !s.lastFlush.IsZero() {
		at := s.lastFlush
		info.LastFlush = &at
	}
	return info
}

// Subscribe registers an observer of power transitions. Observers run on the
// goroutine that caused the transition and must not call back into the session.
func (s *Session) Subscribe(o power.Observer) (cancel func()) {
	s.obsMu.Lock()
	key := s.nextObs
	s.nextObs++
	s.observers[key] = o
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, key)
		s.obsMu.Unlock()
	}
}

func (s *Session) onTransition(t power.Transition) {
	s.recorder.PowerTransition(string(t.From), string(t.To))
	s.logger.Info("Power state changed",
		zap.String("from", string(t.From)),
		zap.String("to", string(t.To)),
		zap.String("action", string(t.Action)))

	s.obsMu.Lock()
	observers := make([]power.Observer, 0, len(s.observers))
	for _, o := range s.observers {
		observers = append(observers, o)
	}
	s.obsMu.Unlock()

	for _, o := range observers {
		o(t)
	}
}

// PowerState returns the current power state
func (s *Session) PowerState() power.State {
	return s.power.State()
}

// Boot powers the desktop on
func (s *Session) Boot() error {
	return s.power.Boot()
}

// Sleep suspends the desktop. Windows are kept but hidden.
func (s *Session) Sleep() error {
	return s.power.Sleep()
}

// WakeUp resumes a sleeping desktop
func (s *Session) WakeUp() error {
	return s.power.WakeUp()
}

// Shutdown powers off, discards every window and flushes the tree
func (s *Session) Shutdown(ctx context.Context) error {
	return s.powerOff(ctx, s.power.Shutdown)
}

// Restart powers off like Shutdown, then boots again after the restart delay
func (s *Session) Restart(ctx context.Context) error {
	return s.powerOff(ctx, s.power.Restart)
}

func (s *Session) powerOff(ctx context.Context, transition func() error) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if err := transition(); err != nil {
		s.mu.Unlock()
		return err
	}
	closed := s.windows.Clear()
	s.shells = make(map[id.WindowID]*shell.Interpreter)
	s.mu.Unlock()

	s.recorder.SetWindowsOpen(s.name, 0)
	if closed > 0 {
		s.logger.Debug("Discarded windows on power off", zap.Int("count", closed))
	}
	return s.Flush(ctx)
}

// OpenWindow opens a window on top of the stack
func (s *Session) OpenWindow(spec window.Spec) (window.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireRunning(); err != nil {
		return window.State{}, err
	}
	w, err := s.windows.Add(spec)
	if err != nil {
		return window.State{}, err
	}
	s.windowChanged("open")
	return w, nil
}

// CloseWindow closes a window, drops its shell and flushes the tree
func (s *Session) CloseWindow(ctx context.Context, windowID id.WindowID) error {
	s.mu.Lock()
	if err := s.requireRunning(); err != nil {
		s.mu.Unlock()
		return err
	}
	removed := s.windows.Remove(windowID)
	delete(s.shells, windowID)
	if removed {
		s.windowChanged("close")
	}
	s.mu.Unlock()

	if !removed {
		return fmt.Errorf("%w: %s", window.ErrNotFound, windowID)
	}
	if err := s.Flush(ctx); err != nil {
		s.logger.Warn("Flush after window close failed", zap.Error(err))
	}
	return nil
}

// UpdateWindow merges patch into a window
func (s *Session) UpdateWindow(windowID id.WindowID, patch window.Patch) (window.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireRunning(); err != nil {
		return window.State{}, err
	}
	w, found, err := s.windows.Update(windowID, patch)
	if !found {
		return window.State{}, fmt.Errorf("%w: %s", window.ErrNotFound, windowID)
	}
	if err != nil {
		return window.State{}, err
	}
	s.windowChanged("update")
	return w, nil
}

// FocusWindow raises a window and restores it if minimized
func (s *Session) FocusWindow(windowID id.WindowID) (window.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireRunning(); err != nil {
		return window.State{}, err
	}
	if _, ok := s.windows.Get(windowID); !ok {
		return window.State{}, fmt.Errorf("%w: %s", window.ErrNotFound, windowID)
	}
	if s.windows.Focus(windowID) {
		s.windowChanged("focus")
	}
	w, _ := s.windows.Get(windowID)
	return w, nil
}

// MinimizeWindow toggles a window's minimized flag
func (s *Session) MinimizeWindow(windowID id.WindowID) (window.State, error) {
	return s.toggle(windowID, "minimize", s.windows.Minimize)
}

// MaximizeWindow toggles a window's maximized flag
func (s *Session) MaximizeWindow(windowID id.WindowID) (window.State, error) {
	return s.toggle(windowID, "maximize", s.windows.Maximize)
}

func (s *Session) toggle(windowID id.WindowID, event string, fn func(id.WindowID) (window.State, bool)) (window.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireRunning(); err != nil {
		return window.State{}, err
	}
	w, ok := fn(windowID)
	if !ok {
		return window.State{}, fmt.Errorf("%w: %s", window.ErrNotFound, windowID)
	}
	s.windowChanged(event)
	return w, nil
}

// Window returns one window in any power state
func (s *Session) Window(windowID id.WindowID) (window.State, bool) {
	return s.windows.Get(windowID)
}

// Windows returns every window in creation order, including hidden ones
func (s *Session) Windows() []window.State {
	return s.windows.List()
}

// VisibleWindows returns the non-minimized windows bottom to top while
// running, and nothing in any other state.
func (s *Session) VisibleWindows() []window.State {
	if !s.power.Running() {
		return nil
	}
	var visible []window.State
	for _, w := range s.windows.Stacked() {
		if !w.Minimized {
			visible = append(visible, w)
		}
	}
	return visible
}

// Execute runs a command line in the shell of a terminal window
func (s *Session) Execute(windowID id.WindowID, line string) (shell.Result, error) {
	sh, err := s.shell(windowID)
	if err != nil {
		return shell.Result{}, err
	}

	res := sh.Execute(line)
	if res.Command != "" {
		label := res.Command
		if !shell.IsBuiltin(label) {
			label = "unknown"
		}
		s.recorder.ShellCommand(label, res.IsError)
	}
	return res, nil
}

// History returns the command history of a terminal window
func (s *Session) History(windowID id.WindowID) ([]string, error) {
	sh, err := s.shell(windowID)
	if err != nil {
		return nil, err
	}
	return sh.History(), nil
}

// shell returns the interpreter of a terminal window, creating it on first use
func (s *Session) shell(windowID id.WindowID) (*shell.Interpreter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireRunning(); err != nil {
		return nil, err
	}
	w, ok := s.windows.Get(windowID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", window.ErrNotFound, windowID)
	}
	if w.AppType != window.KindTerminal {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotTerminal, windowID, w.AppType)
	}

	if sh, ok := s.shells[windowID]; ok {
		return sh, nil
	}
	opts := []shell.Option{
		shell.WithClock(s.clock),
		shell.WithEnvironment(s.config.Environment),
	}
	if p, ok := w.Data.(window.TerminalPayload); ok && p.WorkingDirectory != "" {
		if node, found := s.fs.Resolve(p.WorkingDirectory); found && node.IsDir() {
			opts = append(opts, shell.WithWorkingDirectory(p.WorkingDirectory))
		}
	}
	sh := shell.New(s.fs, opts...)
	s.shells[windowID] = sh
	return sh, nil
}

// CurrentPath returns the file manager cursor
func (s *Session) CurrentPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.currentPath
}

// SetCurrentPath moves the file manager cursor to an existing directory
func (s *Session) SetCurrentPath(path string) error {
	node, ok := s.fs.Resolve(path)
	if !ok {
		return fmt.Errorf("%w: %s", vfs.ErrNotFound, path)
	}
	if !node.IsDir() {
		return fmt.Errorf("%w: %s", vfs.ErrNotDirectory, path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentPath = vfs.JoinPath(path)
	return nil
}

// Flush writes the file tree to the store
func (s *Session) Flush(ctx context.Context) error {
	start := s.clock.Now()
	data, err := vfs.Marshal(s.fs.Snapshot())
	if err == nil {
		err = s.store.Put(ctx, SnapshotKey(s.name), data)
	}
	s.recorder.Flush(s.clock.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to flush session %s: %w", s.name, err)
	}

	s.mu.Lock()
	s.lastFlush = s.clock.Now()
	s.mu.Unlock()

	u := s.fs.Usage()
	s.recorder.SetTreeUsage(s.name, u.Files, u.Directories, u.Bytes)
	return nil
}

// Close cancels every pending timer and performs a final flush. Later calls
// return nil without flushing again.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.power.Dispose()
	close(s.stop)
	<-s.done

	s.recorder.ForgetSession(s.name)
	return s.Flush(ctx)
}

func (s *Session) persistLoop(ticker clockwork.Ticker) {
	defer close(s.done)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.Chan():
			if !s.power.Running() {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
			if err := s.Flush(ctx); err != nil {
				s.logger.Warn("Periodic flush failed", zap.Error(err))
			}
			cancel()
		}
	}
}

// requireRunning must hold mu
func (s *Session) requireRunning() error {
	if s.closed {
		return ErrClosed
	}
	if state := s.power.State(); state != power.StateRunning {
		return fmt.Errorf("%w: desktop is %s", ErrNotRunning, state)
	}
	return nil
}

// windowChanged must hold mu
func (s *Session) windowChanged(event string) {
	s.recorder.WindowEvent(event)
	s.recorder.SetWindowsOpen(s.name, s.windows.Len())
}

// validName rejects names that cannot be used as a store key segment
func validName(name string) error {
	if err := vfs.ValidateName(name); err != nil || strings.TrimSpace(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func sortByName(sessions []*Session) {
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].name < sessions[j].name })
}
