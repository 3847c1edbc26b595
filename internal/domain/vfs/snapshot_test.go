package vfs

import (
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	fs, err := Default(WithClock(clockwork.NewFakeClock()))
	require.NoError(t, err)
	_, err = fs.CreateFile("/home/user", "b.txt", "")
	require.NoError(t, err)

	data, err := Marshal(fs.Snapshot())
	require.NoError(t, err)

	restored, err := Load(data)
	require.NoError(t, err)

	assert.Equal(t, fs.Snapshot(), restored.Snapshot())
	assert.Equal(t, fs.Len(), restored.Len())

	content, err := restored.ReadFile("/home/user/Documents/welcome.txt")
	require.NoError(t, err)
	assert.Contains(t, content, "Welcome to WebOS!")

	// Empty files keep an explicit empty content field
	snap := restored.Snapshot()
	home := snap.Children[0].Children[0]
	last := home.Children[len(home.Children)-1]
	require.NotNil(t, last.Content)
	assert.Equal(t, "", *last.Content)
}

func TestRestoreRecomputesFileSize(t *testing.T) {
	content := "abc"
	snap := SnapshotNode{
		ID:   "node_root",
		Name: "/",
		Kind: KindDirectory,
		Children: []SnapshotNode{
			{ID: "node_f", Name: "f", Kind: KindFile, Content: &content, Size: 99},
		},
	}

	fs := New()
	require.NoError(t, fs.Restore(snap))

	node, ok := fs.Resolve("/f")
	require.True(t, ok)
	assert.Equal(t, int64(3), node.Size)
	assert.Equal(t, snap.ID, fs.Root().ID)
}

func TestRestoreRejectsCorruptSnapshot(t *testing.T) {
	content := "x"
	tests := []struct {
		name string
		snap SnapshotNode
	}{
		{"root is a file", SnapshotNode{ID: "r", Name: "/", Kind: KindFile}},
		{"root misnamed", SnapshotNode{ID: "r", Name: "root", Kind: KindDirectory}},
		{"missing id", SnapshotNode{ID: "r", Name: "/", Kind: KindDirectory, Children: []SnapshotNode{
			{Name: "a", Kind: KindDirectory},
		}}},
		{"duplicate names", SnapshotNode{ID: "r", Name: "/", Kind: KindDirectory, Children: []SnapshotNode{
			{ID: "a", Name: "x", Kind: KindDirectory},
			{ID: "b", Name: "x", Kind: KindDirectory},
		}}},
		{"duplicate ids", SnapshotNode{ID: "r", Name: "/", Kind: KindDirectory, Children: []SnapshotNode{
			{ID: "r", Name: "x", Kind: KindDirectory},
		}}},
		{"directory with content", SnapshotNode{ID: "r", Name: "/", Kind: KindDirectory, Children: []SnapshotNode{
			{ID: "a", Name: "x", Kind: KindDirectory, Content: &content},
		}}},
		{"file with children", SnapshotNode{ID: "r", Name: "/", Kind: KindDirectory, Children: []SnapshotNode{
			{ID: "a", Name: "x", Kind: KindFile, Children: []SnapshotNode{{ID: "b", Name: "y", Kind: KindFile}}},
		}}},
		{"unknown kind", SnapshotNode{ID: "r", Name: "/", Kind: KindDirectory, Children: []SnapshotNode{
			{ID: "a", Name: "x", Kind: "symlink"},
		}}},
		{"invalid name", SnapshotNode{ID: "r", Name: "/", Kind: KindDirectory, Children: []SnapshotNode{
			{ID: "a", Name: "a/b", Kind: KindDirectory},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := New()
			_, err := fs.CreateFile("/", "keep.txt", "kept")
			require.NoError(t, err)

			err = fs.Restore(tt.snap)
			assert.ErrorIs(t, err, ErrCorruptSnapshot)
			assert.True(t, fs.Exists("/keep.txt"), "tree must be untouched")
		})
	}
}

func TestUnmarshalGarbage(t *testing.T) {
	_, err := Load([]byte("{not json"))
	assert.ErrorIs(t, err, ErrCorruptSnapshot)
}
