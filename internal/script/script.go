// Package script parses a declarative YAML edit script and replays it
// through an editor session, one committed operation per step. Scripts are
// how the CLI and the HTTP host describe edits without pointer input.
package script

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/example/snapedit/internal/adjust"
	"github.com/example/snapedit/internal/compose"
	"github.com/example/snapedit/internal/document"
	"github.com/example/snapedit/internal/editor"
	"github.com/example/snapedit/internal/geom"
)

// Script is one parsed edit script. Steps apply in the fixed order rotate,
// preset, adjustments, aspect, crop, texts, stickers, strokes so a script
// always replays deterministically.
type Script struct {
	Rotate      int            `yaml:"rotate"`
	Preset      string         `yaml:"preset"`
	Adjustments map[string]int `yaml:"adjustments"`
	Aspect      string         `yaml:"aspect"`
	Crop        *CropRect      `yaml:"crop"`
	Texts       []Text         `yaml:"texts"`
	Stickers    []Sticker      `yaml:"stickers"`
	Strokes     []Stroke       `yaml:"strokes"`
}

// CropRect is the crop region in percent of the source.
type CropRect struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Text describes one text overlay to add.
type Text struct {
	Text     string  `yaml:"text"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Size     float64 `yaml:"size"`
	Font     string  `yaml:"font"`
	Color    string  `yaml:"color"`
	Rotation float64 `yaml:"rotation"`
}

// Sticker describes one sticker overlay to add.
type Sticker struct {
	Kind     string  `yaml:"kind"`
	Label    string  `yaml:"label"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Scale    float64 `yaml:"scale"`
	Rotation float64 `yaml:"rotation"`
}

// Stroke describes one freehand stroke; points are [x,y] percent pairs.
type Stroke struct {
	Color  string      `yaml:"color"`
	Size   float64     `yaml:"size"`
	Points [][]float64 `yaml:"points"`
}

// The channel names a script may adjust.
var channels = map[string]adjust.Channel{
	"brightness": adjust.ChannelBrightness,
	"contrast":   adjust.ChannelContrast,
	"saturation": adjust.ChannelSaturation,
	"exposure":   adjust.ChannelExposure,
}

// channelOrder fixes the replay order of the adjustments map.
var channelOrder = []string{"brightness", "contrast", "saturation", "exposure"}

// Parse unmarshals and validates a script. Colors are normalized to hex so
// downstream consumers never re-parse names.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("script: parse: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Script) validate() error {
	if s.Preset != "" {
		if _, ok := adjust.PresetByID(s.Preset); !ok {
			return fmt.Errorf("script: unknown preset %q", s.Preset)
		}
	}
	for name := range s.Adjustments {
		if _, ok := channels[name]; !ok {
			return fmt.Errorf("script: unknown adjustment channel %q", name)
		}
	}
	if s.Aspect != "" {
		if _, err := geom.ParseAspect(s.Aspect); err != nil {
			return fmt.Errorf("script: %w", err)
		}
	}
	for i := range s.Texts {
		t := &s.Texts[i]
		if t.Text == "" {
			return fmt.Errorf("script: texts[%d]: empty text", i)
		}
		if t.Color != "" {
			c, err := compose.ParseColor(t.Color)
			if err != nil {
				return fmt.Errorf("script: texts[%d]: %w", i, err)
			}
			t.Color = compose.FormatHex(c)
		}
	}
	for i, st := range s.Stickers {
		switch st.Kind {
		case "", string(document.StickerBadge), string(document.StickerEmoji):
		default:
			return fmt.Errorf("script: stickers[%d]: unknown kind %q", i, st.Kind)
		}
		if st.Label == "" {
			return fmt.Errorf("script: stickers[%d]: empty label", i)
		}
	}
	for i := range s.Strokes {
		st := &s.Strokes[i]
		if len(st.Points) < 2 {
			return fmt.Errorf("script: strokes[%d]: needs at least 2 points", i)
		}
		for j, p := range st.Points {
			if len(p) != 2 {
				return fmt.Errorf("script: strokes[%d]: point %d must be [x, y]", i, j)
			}
		}
		if st.Color != "" {
			c, err := compose.ParseColor(st.Color)
			if err != nil {
				return fmt.Errorf("script: strokes[%d]: %w", i, err)
			}
			st.Color = compose.FormatHex(c)
		}
	}
	return nil
}

// Apply replays the script through sess. Each step commits to the session
// history, so a replayed script is undoable step by step.
func (s *Script) Apply(sess *editor.Session) error {
	if s.Rotate != 0 {
		sess.Rotate(s.Rotate)
	}
	if s.Preset != "" {
		if err := sess.ApplyPreset(s.Preset); err != nil {
			return fmt.Errorf("script: %w", err)
		}
	}
	for _, name := range channelOrder {
		if value, ok := s.Adjustments[name]; ok {
			sess.SetAdjustment(channels[name], value)
		}
	}
	if s.Aspect != "" {
		if err := sess.SetAspect(s.Aspect); err != nil {
			return fmt.Errorf("script: %w", err)
		}
	}
	if s.Crop != nil {
		sess.SetCrop(geom.Rect{X: s.Crop.X, Y: s.Crop.Y, W: s.Crop.Width, H: s.Crop.Height})
	}
	for _, t := range s.Texts {
		o := sess.AddText(t.Text)
		u := editor.TextUpdate{X: &t.X, Y: &t.Y}
		if t.Size > 0 {
			u.FontSize = &t.Size
		}
		if t.Font != "" {
			u.FontFamily = &t.Font
		}
		if t.Color != "" {
			u.Color = &t.Color
		}
		if t.Rotation != 0 {
			u.Rotation = &t.Rotation
		}
		if err := sess.UpdateText(o.ID, u); err != nil {
			return fmt.Errorf("script: %w", err)
		}
	}
	for _, st := range s.Stickers {
		kind := document.StickerBadge
		if st.Kind == string(document.StickerEmoji) {
			kind = document.StickerEmoji
		}
		o := sess.AddSticker(kind, st.Label)
		u := editor.StickerUpdate{X: &st.X, Y: &st.Y}
		if st.Scale > 0 {
			u.Scale = &st.Scale
		}
		if st.Rotation != 0 {
			u.Rotation = &st.Rotation
		}
		if err := sess.UpdateSticker(o.ID, u); err != nil {
			return fmt.Errorf("script: %w", err)
		}
	}
	for _, st := range s.Strokes {
		points := make([]geom.Point, len(st.Points))
		for i, p := range st.Points {
			points[i] = geom.Point{X: p[0], Y: p[1]}
		}
		stroke := document.Stroke{Points: points, Color: st.Color, BrushSize: st.Size}
		if err := sess.AddStroke(stroke); err != nil {
			return fmt.Errorf("script: %w", err)
		}
	}
	return nil
}
