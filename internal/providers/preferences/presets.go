package preferences

// DefaultWallpaper is the soft blue-to-lavender gradient
func DefaultWallpaper() Wallpaper {
	return Wallpaper{
		Type:     WallpaperGradient,
		Gradient: &Gradient{From: "#eff6ff", Via: "#e0e7ff", To: "#f3e8ff"},
	}
}

// DefaultTheme is the "Default Blue" preset
func DefaultTheme() ThemeColors {
	return ThemeColors{
		Primary:    "oklch(0.35 0.05 250)",
		Accent:     "oklch(0.55 0.18 250)",
		Background: "oklch(0.98 0.005 250)",
		Foreground: "oklch(0.2 0.01 250)",
	}
}

// NamedTheme is a theme preset
type NamedTheme struct {
	Name   string      `json:"name"`
	Colors ThemeColors `json:"colors"`
}

// GradientPresets lists the built-in wallpaper gradients
func GradientPresets() []Gradient {
	return []Gradient{
		{Name: "Ocean Blue", From: "#eff6ff", Via: "#e0e7ff", To: "#dbeafe"},
		{Name: "Sunset", From: "#fef3c7", Via: "#fed7aa", To: "#fecaca"},
		{Name: "Forest", From: "#d1fae5", Via: "#a7f3d0", To: "#86efac"},
		{Name: "Purple Dream", From: "#ede9fe", Via: "#ddd6fe", To: "#f3e8ff"},
		{Name: "Coral", From: "#ffedd5", Via: "#fed7aa", To: "#fecdd3"},
		{Name: "Arctic", From: "#f0f9ff", Via: "#e0f2fe", To: "#dbeafe"},
		{Name: "Slate", From: "#f8fafc", Via: "#f1f5f9", To: "#e2e8f0"},
		{Name: "Rose Gold", From: "#fff1f2", Via: "#ffe4e6", To: "#fce7f3"},
	}
}

// ThemePresets lists the built-in themes
func ThemePresets() []NamedTheme {
	return []NamedTheme{
		{"Default Blue", DefaultTheme()},
		{"Dark Ocean", ThemeColors{"oklch(0.25 0.05 220)", "oklch(0.45 0.2 200)", "oklch(0.96 0.01 220)", "oklch(0.15 0.01 220)"}},
		{"Warm Sunset", ThemeColors{"oklch(0.4 0.15 30)", "oklch(0.6 0.2 50)", "oklch(0.99 0.01 50)", "oklch(0.25 0.02 30)"}},
		{"Forest Green", ThemeColors{"oklch(0.35 0.1 150)", "oklch(0.55 0.15 140)", "oklch(0.98 0.005 150)", "oklch(0.2 0.01 150)"}},
		{"Royal Purple", ThemeColors{"oklch(0.3 0.15 290)", "oklch(0.5 0.22 280)", "oklch(0.97 0.01 290)", "oklch(0.18 0.01 290)"}},
		{"Charcoal", ThemeColors{"oklch(0.3 0.01 250)", "oklch(0.45 0.1 250)", "oklch(0.95 0.005 250)", "oklch(0.15 0 0)"}},
	}
}
