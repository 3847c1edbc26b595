package window

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// AppKind identifies the application hosted by a window
type AppKind string

const (
	KindTerminal    AppKind = "terminal"
	KindFileManager AppKind = "file-manager"
	KindTextEditor  AppKind = "text-editor"
	KindBrowser     AppKind = "browser"
	KindMediaPlayer AppKind = "media-player"
	KindSettings    AppKind = "settings"
	KindCalculator  AppKind = "calculator"
)

// Size is a window's default geometry
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type kindInfo struct {
	title string
	size  Size
}

var kinds = map[AppKind]kindInfo{
	KindFileManager: {"Files", Size{800, 600}},
	KindTerminal:    {"Terminal", Size{700, 500}},
	KindTextEditor:  {"Text Editor", Size{700, 500}},
	KindBrowser:     {"Browser", Size{1000, 700}},
	KindMediaPlayer: {"Media", Size{600, 500}},
	KindSettings:    {"Settings", Size{700, 550}},
	KindCalculator:  {"Calculator", Size{320, 480}},
}

// Kinds lists every application kind in launcher order
func Kinds() []AppKind {
	return []AppKind{
		KindFileManager, KindTerminal, KindTextEditor, KindBrowser,
		KindMediaPlayer, KindSettings, KindCalculator,
	}
}

// Valid reports whether k is a known kind
func (k AppKind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

// DefaultTitle returns the launcher title for k
func (k AppKind) DefaultTitle() string {
	return kinds[k].title
}

// DefaultSize returns the launcher geometry for k
func (k AppKind) DefaultSize() Size {
	return kinds[k].size
}

// Payload is the typed data handed to the application inside a window
type Payload interface {
	Kind() AppKind
}

// TerminalPayload starts a terminal in a directory
type TerminalPayload struct {
	WorkingDirectory string `json:"workingDirectory,omitempty"`
}

// FileManagerPayload opens the file manager at a path
type FileManagerPayload struct {
	Path string `json:"path,omitempty"`
}

// TextEditorPayload opens a file for editing
type TextEditorPayload struct {
	FilePath string `json:"filePath"`
}

// BrowserPayload opens a URL
type BrowserPayload struct {
	URL string `json:"url,omitempty"`
}

// MediaPlayerPayload plays a source
type MediaPlayerPayload struct {
	Source string `json:"source,omitempty"`
}

// SettingsPayload opens a settings section
type SettingsPayload struct {
	Section string `json:"section,omitempty"`
}

// CalculatorPayload carries nothing
type CalculatorPayload struct{}

func (TerminalPayload) Kind() AppKind    { return KindTerminal }
func (FileManagerPayload) Kind() AppKind { return KindFileManager }
func (TextEditorPayload) Kind() AppKind  { return KindTextEditor }
func (BrowserPayload) Kind() AppKind     { return KindBrowser }
func (MediaPlayerPayload) Kind() AppKind { return KindMediaPlayer }
func (SettingsPayload) Kind() AppKind    { return KindSettings }
func (CalculatorPayload) Kind() AppKind  { return KindCalculator }

// DecodePayload decodes raw JSON into the payload type of kind.
// Empty input yields a nil payload.
func DecodePayload(kind AppKind, raw []byte) (Payload, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var err error
	switch kind {
	case KindTerminal:
		var p TerminalPayload
		err = sonic.Unmarshal(raw, &p)
		return p, wrapDecode(kind, err)
	case KindFileManager:
		var p FileManagerPayload
		err = sonic.Unmarshal(raw, &p)
		return p, wrapDecode(kind, err)
	case KindTextEditor:
		var p TextEditorPayload
		err = sonic.Unmarshal(raw, &p)
		return p, wrapDecode(kind, err)
	case KindBrowser:
		var p BrowserPayload
		err = sonic.Unmarshal(raw, &p)
		return p, wrapDecode(kind, err)
	case KindMediaPlayer:
		var p MediaPlayerPayload
		err = sonic.Unmarshal(raw, &p)
		return p, wrapDecode(kind, err)
	case KindSettings:
		var p SettingsPayload
		err = sonic.Unmarshal(raw, &p)
		return p, wrapDecode(kind, err)
	case KindCalculator:
		var p CalculatorPayload
		err = sonic.Unmarshal(raw, &p)
		return p, wrapDecode(kind, err)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func wrapDecode(kind AppKind, err error) error {
	if err != nil {
		return fmt.Errorf("%w: invalid %s payload: %v", ErrPayloadMismatch, kind, err)
	}
	return nil
}

func checkPayload(kind AppKind, p Payload) error {
	if p != nil && p.Kind() != kind {
		return fmt.Errorf("%w: %s payload for %s window", ErrPayloadMismatch, p.Kind(), kind)
	}
	return nil
}
