package preferences

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/WebOS/backend/internal/infrastructure/persistence"
)

func TestDefaultsWhenUnset(t *testing.T) {
	p := NewProvider(persistence.NewMemoryStore(), "")
	ctx := context.Background()

	w, err := p.Wallpaper(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultWallpaper(), w)

	theme, err := p.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultTheme(), theme)
}

func TestRoundTrip(t *testing.T) {
	store := persistence.NewMemoryStore()
	p := NewProvider(store, "sessions/default")
	ctx := context.Background()

	solid := Wallpaper{Type: WallpaperSolid, Solid: "#112233"}
	require.NoError(t, p.SetWallpaper(ctx, solid))
	require.NoError(t, p.SetTheme(ctx, ThemePresets()[2].Colors))

	// A fresh provider over the same store sees the values
	p = NewProvider(store, "sessions/default")
	w, err := p.Wallpaper(ctx)
	require.NoError(t, err)
	assert.Equal(t, solid, w)

	theme, err := p.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, "oklch(0.4 0.15 30)", theme.Primary)

	raw, err := store.Get(ctx, "sessions/default/desktop-wallpaper")
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"solid","solid":"#112233"}`, string(raw))

	require.NoError(t, p.ResetWallpaper(ctx))
	require.NoError(t, p.ResetTheme(ctx))
	w, _ = p.Wallpaper(ctx)
	assert.Equal(t, DefaultWallpaper(), w)
	theme, _ = p.Theme(ctx)
	assert.Equal(t, DefaultTheme(), theme)
}

func TestNamespacesAreIsolated(t *testing.T) {
	store := persistence.NewMemoryStore()
	ctx := context.Background()
	a, b := NewProvider(store, "a"), NewProvider(store, "b")

	require.NoError(t, a.SetWallpaper(ctx, Wallpaper{Type: WallpaperImage, ImageURL: "https://example.com/bg.png"}))

	w, err := b.Wallpaper(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultWallpaper(), w)
}

func TestValidation(t *testing.T) {
	p := NewProvider(persistence.NewMemoryStore(), "")
	ctx := context.Background()

	invalid := []Wallpaper{
		{Type: "video"},
		{Type: WallpaperGradient},
		{Type: WallpaperGradient, Gradient: &Gradient{From: "#fff"}},
		{Type: WallpaperSolid},
		{Type: WallpaperImage},
	}
	for _, w := range invalid {
		assert.ErrorIs(t, p.SetWallpaper(ctx, w), ErrInvalid, "%+v", w)
	}

	assert.ErrorIs(t, p.SetTheme(ctx, ThemeColors{Primary: "red"}), ErrInvalid)
}

func TestCorruptValueFallsBack(t *testing.T) {
	store := persistence.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, ThemeKey, []byte("{oops")))

	theme, err := NewProvider(store, "").Theme(ctx)
	assert.Error(t, err)
	assert.Equal(t, DefaultTheme(), theme)
}

func TestPresets(t *testing.T) {
	assert.Len(t, GradientPresets(), 8)
	require.Len(t, ThemePresets(), 6)
	assert.Equal(t, DefaultTheme(), ThemePresets()[0].Colors)
	for _, preset := range ThemePresets() {
		assert.NoError(t, preset.Colors.Validate(), preset.Name)
	}
}
