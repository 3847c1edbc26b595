package window

import (
	"encoding/json"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/WebOS/backend/internal/shared/id"
)

// State is one open window
type State struct {
	ID        id.WindowID `json:"id"`
	AppType   AppKind     `json:"appType"`
	Title     string      `json:"title"`
	X         float64     `json:"x"`
	Y         float64     `json:"y"`
	Width     float64     `json:"width"`
	Height    float64     `json:"height"`
	Minimized bool        `json:"minimized"`
	Maximized bool        `json:"maximized"`
	ZIndex    int         `json:"zIndex"`
	Data      Payload     `json:"data,omitempty"`
}

// Spec describes a window to open. Zero title and size take the kind's
// defaults. With neither X nor Y set the manager cascades the window.
type Spec struct {
	AppType   AppKind  `json:"appType"`
	Title     string   `json:"title"`
	X         *float64 `json:"x,omitempty"`
	Y         *float64 `json:"y,omitempty"`
	Width     float64  `json:"width"`
	Height    float64  `json:"height"`
	Minimized bool     `json:"minimized"`
	Maximized bool     `json:"maximized"`
	Data      Payload  `json:"-"`
}

// Patch holds the fields Update merges. Nil fields are left alone.
type Patch struct {
	Title     *string  `json:"title,omitempty"`
	X         *float64 `json:"x,omitempty"`
	Y         *float64 `json:"y,omitempty"`
	Width     *float64 `json:"width,omitempty"`
	Height    *float64 `json:"height,omitempty"`
	Minimized *bool    `json:"minimized,omitempty"`
	Maximized *bool    `json:"maximized,omitempty"`
	Data      Payload  `json:"-"`
}

type stateJSON struct {
	ID        id.WindowID     `json:"id"`
	AppType   AppKind         `json:"appType"`
	Title     string          `json:"title"`
	X         float64         `json:"x"`
	Y         float64         `json:"y"`
	Width     float64         `json:"width"`
	Height    float64         `json:"height"`
	Minimized bool            `json:"minimized"`
	Maximized bool            `json:"maximized"`
	ZIndex    int             `json:"zIndex"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// UnmarshalJSON decodes data according to appType
func (s *State) UnmarshalJSON(b []byte) error {
	var raw stateJSON
	if err := sonic.Unmarshal(b, &raw); err != nil {
		return err
	}
	data, err := DecodePayload(raw.AppType, raw.Data)
	if err != nil {
		return err
	}
	*s = State{
		ID:        raw.ID,
		AppType:   raw.AppType,
		Title:     raw.Title,
		X:         raw.X,
		Y:         raw.Y,
		Width:     raw.Width,
		Height:    raw.Height,
		Minimized: raw.Minimized,
		Maximized: raw.Maximized,
		ZIndex:    raw.ZIndex,
		Data:      data,
	}
	return nil
}

// UnmarshalJSON decodes data according to appType
func (s *Spec) UnmarshalJSON(b []byte) error {
	var raw struct {
		AppType   AppKind         `json:"appType"`
		Title     string          `json:"title"`
		X         *float64        `json:"x"`
		Y         *float64        `json:"y"`
		Width     float64         `json:"width"`
		Height    float64         `json:"height"`
		Minimized bool            `json:"minimized"`
		Maximized bool            `json:"maximized"`
		Data      json.RawMessage `json:"data"`
	}
	if err := sonic.Unmarshal(b, &raw); err != nil {
		return err
	}
	data, err := DecodePayload(raw.AppType, raw.Data)
	if err != nil {
		return err
	}
	*s = Spec{
		AppType:   raw.AppType,
		Title:     raw.Title,
		X:         raw.X,
		Y:         raw.Y,
		Width:     raw.Width,
		Height:    raw.Height,
		Minimized: raw.Minimized,
		Maximized: raw.Maximized,
		Data:      data,
	}
	return nil
}
