package preferences

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/WebOS/backend/internal/infrastructure/persistence"
)

// Storage keys, relative to the provider namespace
const (
	WallpaperKey = "desktop-wallpaper"
	ThemeKey     = "theme-colors"
)

var ErrInvalid = errors.New("invalid preference")

// WallpaperType selects how the desktop background is drawn
type WallpaperType string

const (
	WallpaperGradient WallpaperType = "gradient"
	WallpaperSolid    WallpaperType = "solid"
	WallpaperImage    WallpaperType = "image"
)

// Gradient is a three-stop background gradient. Via is optional.
type Gradient struct {
	Name string `json:"name,omitempty"`
	From string `json:"from"`
	Via  string `json:"via,omitempty"`
	To   string `json:"to"`
}

// Wallpaper is the desktop background setting
type Wallpaper struct {
	Type     WallpaperType `json:"type"`
	Gradient *Gradient     `json:"gradient,omitempty"`
	Solid    string        `json:"solid,omitempty"`
	ImageURL string        `json:"imageUrl,omitempty"`
}

// ThemeColors are the interface colors
type ThemeColors struct {
	Primary    string `json:"primary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Foreground string `json:"foreground"`
}

// Validate checks that the variant named by Type is populated
func (w Wallpaper) Validate() error {
	switch w.Type {
	case WallpaperGradient:
		if w.Gradient == nil || w.Gradient.From == "" || w.Gradient.To == "" {
			return fmt.Errorf("%w: gradient wallpaper needs from and to colors", ErrInvalid)
		}
	case WallpaperSolid:
		if w.Solid == "" {
			return fmt.Errorf("%w: solid wallpaper needs a color", ErrInvalid)
		}
	case WallpaperImage:
		if w.ImageURL == "" {
			return fmt.Errorf("%w: image wallpaper needs an imageUrl", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown wallpaper type %q", ErrInvalid, w.Type)
	}
	return nil
}

// Validate requires every color
func (c ThemeColors) Validate() error {
	if c.Primary == "" || c.Accent == "" || c.Background == "" || c.Foreground == "" {
		return fmt.Errorf("%w: theme needs primary, accent, background and foreground", ErrInvalid)
	}
	return nil
}

// Provider reads and writes display preferences through a key/value store
type Provider struct {
	store     persistence.Store
	namespace string
}

// NewProvider stores keys under namespace, which may be empty
func NewProvider(store persistence.Store, namespace string) *Provider {
	return &Provider{store: store, namespace: namespace}
}

// Wallpaper returns the stored wallpaper or the default
func (p *Provider) Wallpaper(ctx context.Context) (Wallpaper, error) {
	w := DefaultWallpaper()
	if err := p.load(ctx, WallpaperKey, &w); err != nil {
		return DefaultWallpaper(), err
	}
	return w, nil
}

// SetWallpaper validates and stores w
func (p *Provider) SetWallpaper(ctx context.Context, w Wallpaper) error {
	if err := w.Validate(); err != nil {
		return err
	}
	return p.save(ctx, WallpaperKey, w)
}

// ResetWallpaper forgets the stored wallpaper
func (p *Provider) ResetWallpaper(ctx context.Context) error {
	return p.store.Delete(ctx, p.key(WallpaperKey))
}

// Theme returns the stored theme or the default
func (p *Provider) Theme(ctx context.Context) (ThemeColors, error) {
	c := DefaultTheme()
	if err := p.load(ctx, ThemeKey, &c); err != nil {
		return DefaultTheme(), err
	}
	return c, nil
}

// SetTheme validates and stores c
func (p *Provider) SetTheme(ctx context.Context, c ThemeColors) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return p.save(ctx, ThemeKey, c)
}

// ResetTheme forgets the stored theme
func (p *Provider) ResetTheme(ctx context.Context) error {
	return p.store.Delete(ctx, p.key(ThemeKey))
}

func (p *Provider) key(name string) string {
	if p.namespace == "" {
		return name
	}
	return p.namespace + "/" + name
}

// load leaves v untouched when nothing is stored
func (p *Provider) load(ctx context.Context, name string, v interface{}) error {
	data, err := p.store.Get(ctx, p.key(name))
	if errors.Is(err, persistence.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", name, err)
	}
	if err := sonic.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

func (p *Provider) save(ctx context.Context, name string, v interface{}) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := p.store.Put(ctx, p.key(name), data); err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}
	return nil
}
