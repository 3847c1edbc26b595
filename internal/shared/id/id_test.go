package id

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUnique(t *testing.T) {
	gen := NewGenerator()

	assert.NotEqual(t, gen.Generate().String(), gen.Generate().String())
	assert.Len(t, gen.GenerateString(), 26)
}

func TestTypedIDs(t *testing.T) {
	ids := map[string]string{
		NodePrefix:    NewNodeID().String(),
		WindowPrefix:  NewWindowID().String(),
		SessionPrefix: NewSessionID().String(),
		RequestPrefix: NewRequestID().String(),
	}

	for prefix, value := range ids {
		parts := strings.Split(value, "_")
		require.Len(t, parts, 2, value)
		assert.Equal(t, prefix, parts[0])
		assert.Len(t, parts[1], 26)
		assert.True(t, HasPrefix(value, prefix))
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid(NewGenerator().GenerateString()))
	assert.True(t, IsValid(NewWindowID().String()))

	for _, bad := range []string{"", "invalid", "win_", "1234567890", "zzzzzzzzzzzzzzzzzzzzzzzzzzz"} {
		assert.False(t, IsValid(bad), bad)
	}
}

func TestHasPrefixRejectsOtherTypes(t *testing.T) {
	node := NewNodeID().String()

	assert.False(t, HasPrefix(node, WindowPrefix))
	assert.False(t, HasPrefix("win_not-a-ulid", WindowPrefix))
}

func TestTimestamp(t *testing.T) {
	before := time.Now()
	value := NewSessionID().String()
	after := time.Now()

	ts, err := Timestamp(value)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, ts.UnixMilli(), before.UnixMilli())
	assert.LessOrEqual(t, ts.UnixMilli(), after.UnixMilli())
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator()

	const goroutines = 50
	const perGoroutine = 100

	var wg sync.WaitGroup
	out := make(chan string, goroutines*perGoroutine)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				out <- gen.GenerateWithPrefix(NodePrefix)
			}
		}()
	}
	wg.Wait()
	close(out)

	seen := make(map[string]bool, goroutines*perGoroutine)
	for value := range out {
		assert.False(t, seen[value], "duplicate id %s", value)
		seen[value] = true
	}
	assert.Len(t, seen, goroutines*perGoroutine)
}

func TestLexicographicOrder(t *testing.T) {
	gen := NewGenerator()

	ids := make([]string, 4)
	for i := range ids {
		ids[i] = gen.GenerateString()
		time.Sleep(2 * time.Millisecond)
	}

	for i := 1; i < len(ids); i++ {
		assert.Greater(t, ids[i], ids[i-1])
	}
}

func BenchmarkGenerateWithPrefix(b *testing.B) {
	gen := NewGenerator()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = gen.GenerateWithPrefix(NodePrefix)
	}
}
