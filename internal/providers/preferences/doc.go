// Package preferences persists the desktop's display settings: the wallpaper
// and the theme colors. Missing values fall back to the built-in defaults.
package preferences
