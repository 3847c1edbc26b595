package persistence

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/WebOS/backend/internal/infrastructure/resilience"
)

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "sessions/default/filesystem-root")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "sessions/default/filesystem-root", []byte(`{"name":"/"}`)))
	require.NoError(t, s.Put(ctx, "sessions/work/filesystem-root", []byte("work")))
	require.NoError(t, s.Put(ctx, "desktop-wallpaper", []byte(`"x"`)))
	require.NoError(t, s.Put(ctx, "empty", []byte{}))

	value, err := s.Get(ctx, "sessions/default/filesystem-root")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"/"}`, string(value))

	value, err = s.Get(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, value)

	require.NoError(t, s.Put(ctx, "sessions/work/filesystem-root", []byte("work v2")))
	value, err = s.Get(ctx, "sessions/work/filesystem-root")
	require.NoError(t, err)
	assert.Equal(t, "work v2", string(value))

	keys, err := s.Keys(ctx, "sessions/")
	require.NoError(t, err)
	assert.Equal(t, []string{"sessions/default/filesystem-root", "sessions/work/filesystem-root"}, keys)

	keys, err = s.Keys(ctx, "")
	require.NoError(t, err)
	assert.Len(t, keys, 4)

	require.NoError(t, s.Delete(ctx, "desktop-wallpaper"))
	require.NoError(t, s.Delete(ctx, "desktop-wallpaper"))
	_, err = s.Get(ctx, "desktop-wallpaper")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	testStore(t, s)

	require.NoError(t, s.Close())
	_, err := s.Get(context.Background(), "x")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	value := []byte("abc")
	require.NoError(t, s.Put(ctx, "k", value))
	value[0] = 'z'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	testStore(t, s)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".tmp-"), "temp file left behind: %s", e.Name())
	}

	// A second store over the same directory sees the data
	reopened, err := NewFileStore(dir)
	require.NoError(t, err)
	value, err := reopened.Get(context.Background(), "sessions/work/filesystem-root")
	require.NoError(t, err)
	assert.Equal(t, "work v2", string(value))
}

func TestFileStoreLayout(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "sessions/alice/filesystem-root", []byte("tree")))
	_, err = os.Stat(filepath.Join(dir, "sessions", "alice", "filesystem-root.kv"))
	assert.NoError(t, err)

	odd := []string{"../escape", "a//b", "/lead", "dots.in.name", "100%", "sp ace"}
	for _, key := range odd {
		require.NoError(t, s.Put(ctx, key, []byte(key)), key)
	}
	for _, key := range odd {
		value, err := s.Get(ctx, key)
		require.NoError(t, err, key)
		assert.Equal(t, key, string(value))
	}
	_, err = os.Stat(filepath.Join(filepath.Dir(dir), "escape.kv"))
	assert.True(t, os.IsNotExist(err))

	keys, err := s.Keys(ctx, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, append(odd, "sessions/alice/filesystem-root"), keys)
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "webos.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	testStore(t, s)
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()
	value, err := reopened.Get(context.Background(), "sessions/default/filesystem-root")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"/"}`, string(value))
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	prefix := "webos-test:" + time.Now().Format("150405.000000") + ":"
	s, err := NewRedisStore(ctx, RedisOptions{Addr: addr, Prefix: prefix})
	require.NoError(t, err)
	defer s.Close()
	defer func() {
		keys, _ := s.Keys(ctx, "")
		for _, k := range keys {
			_ = s.Delete(ctx, k)
		}
	}()

	testStore(t, s)
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, `webos:\*\?\[x\]`, escapeGlob("webos:*?[x]"))
}

func TestCompressed(t *testing.T) {
	inner := NewMemoryStore()
	s, err := NewCompressed(inner)
	require.NoError(t, err)
	testStore(t, s)

	ctx := context.Background()
	large := []byte(strings.Repeat("Welcome to WebOS! ", 500))
	require.NoError(t, s.Put(ctx, "big", large))

	raw, err := inner.Get(ctx, "big")
	require.NoError(t, err)
	assert.Less(t, len(raw), len(large))
	assert.True(t, strings.HasPrefix(string(raw), string(zstdMagic)))

	got, err := s.Get(ctx, "big")
	require.NoError(t, err)
	assert.Equal(t, large, got)
}

func TestCompressedReadsLegacyValues(t *testing.T) {
	inner := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, inner.Put(ctx, "legacy", []byte(`{"name":"/"}`)))

	s, err := NewCompressed(inner)
	require.NoError(t, err)
	got, err := s.Get(ctx, "legacy")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"/"}`, string(got))
}

type flakyStore struct {
	*MemoryStore
	err   error
	calls int
}

func (f *flakyStore) Put(ctx context.Context, key string, value []byte) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return f.MemoryStore.Put(ctx, key, value)
}

func TestGuarded(t *testing.T) {
	testStore(t, NewGuarded("memory", NewMemoryStore(), resilience.Settings{Clock: clockwork.NewFakeClock()}, nil))
}

func TestGuardedOpensOnFailures(t *testing.T) {
	clock := clockwork.NewFakeClock()
	inner := &flakyStore{MemoryStore: NewMemoryStore(), err: errors.New("connection refused")}
	g := NewGuarded("flaky", inner, resilience.Settings{
		Clock:       clock,
		Timeout:     time.Minute,
		ReadyToTrip: func(c resilience.Counts) bool { return c.ConsecutiveFailures >= 2 },
	}, nil)
	ctx := context.Background()

	assert.Error(t, g.Put(ctx, "k", nil))
	assert.Error(t, g.Put(ctx, "k", nil))
	assert.Equal(t, resilience.StateOpen, g.State())

	err := g.Put(ctx, "k", nil)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 2, inner.calls)

	inner.err = nil
	clock.Advance(time.Minute)
	require.NoError(t, g.Put(ctx, "k", []byte("v")))
	assert.Equal(t, resilience.StateClosed, g.State())
}

func TestGuardedIgnoresNotFound(t *testing.T) {
	g := NewGuarded("memory", NewMemoryStore(), resilience.Settings{
		Clock:       clockwork.NewFakeClock(),
		ReadyToTrip: func(c resilience.Counts) bool { return c.ConsecutiveFailures >= 1 },
	}, nil)

	for i := 0; i < 3; i++ {
		_, err := g.Get(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, resilience.StateClosed, g.State())
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{Backend: BackendMemory}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, Options{Backend: BackendFile, Path: t.TempDir(), Compress: true}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Guarded{}, s)
	testStore(t, s)
	require.NoError(t, s.Close())

	s, err = Open(ctx, Options{Backend: BackendSQLite, Path: t.TempDir()}, nil)
	require.NoError(t, err)
	testStore(t, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, Options{Backend: "tape"}, nil)
	assert.Error(t, err)
}
