package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the HUD.
type HUDData struct {
	Title       string
	Profile     string
	Boundary    string
	Accent      rl.Color
	Particles   int
	GridLines   int
	Circles     int
	Connections int
	Time        float64
	Frame       uint64
	FPS         int32
	Paused      bool
	Width       int
	Height      int

	// Frame phase shares in percent, keyed by phase name
	PhasePct   map[string]float64
	PhaseOrder []string
	FrameAvg   time.Duration
}

// HUDSections returns the descriptors of the main HUD panel.
func HUDSections() []SectionDescriptor {
	return []SectionDescriptor{
		{
			ID:    "field",
			Title: "Field",
			Fields: []FieldDescriptor{
				{ID: "profile", Label: "Profile", Widget: WidgetText, TextGetter: func(d any) string {
					return d.(HUDData).Profile
				}},
				{ID: "boundary", Label: "Boundary", Widget: WidgetText, TextGetter: func(d any) string {
					return d.(HUDData).Boundary
				}},
				{ID: "accent", Label: "Color", Widget: WidgetColorSwatch, ColorGetter: func(d any) rl.Color {
					return d.(HUDData).Accent
				}},
				{ID: "size", Label: "Surface", Widget: WidgetText, TextGetter: func(d any) string {
					h := d.(HUDData)
					return fmt.Sprintf("%dx%d", h.Width, h.Height)
				}},
				{ID: "particles", Label: "Particles", Widget: WidgetText, TextGetter: func(d any) string {
					return fmt.Sprintf("%d", d.(HUDData).Particles)
				}},
				{ID: "time", Label: "Time", Widget: WidgetText, TextGetter: func(d any) string {
					return fmt.Sprintf("%.2f", d.(HUDData).Time)
				}},
			},
		},
		{
			ID:    "frame",
			Title: "Frame",
			Fields: []FieldDescriptor{
				{ID: "fps", Label: "FPS", Widget: WidgetText, TextGetter: func(d any) string {
					return fmt.Sprintf("%d", d.(HUDData).FPS)
				}},
				{ID: "frame", Label: "Frame", Widget: WidgetText, TextGetter: func(d any) string {
					return fmt.Sprintf("%d", d.(HUDData).Frame)
				}},
				{ID: "draws", Label: "Draw calls", Widget: WidgetText, TextGetter: func(d any) string {
					h := d.(HUDData)
					return fmt.Sprintf("%d lines, %d circles", h.GridLines+h.Connections, h.Circles)
				}},
				{ID: "connections", Label: "Links", Widget: WidgetText, TextGetter: func(d any) string {
					return fmt.Sprintf("%d", d.(HUDData).Connections)
				}},
				{ID: "paused", Label: "State", Widget: WidgetText, TextGetter: func(d any) string {
					if d.(HUDData).Paused {
						return "PAUSED"
					}
					return "running"
				}},
			},
		},
	}
}

// HUD renders the heads-up display.
type HUD struct {
	renderer *Renderer
	sections []SectionDescriptor
	width    int32
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
		sections: HUDSections(),
		width:    240,
	}
}

// Draw renders the main panel at the top-left corner.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	padding := r.Theme.Padding

	height := padding*2 + r.Theme.LineHeight + 4
	for _, sd := range h.sections {
		height += r.SectionHeight(sd, data)
	}

	x, y := int32(10), int32(10)
	r.DrawPanel(x, y, h.width, height)
	rl.DrawText(data.Title, x+padding, y+padding, r.Theme.HeaderFontSize+2, rl.White)

	cy := y + padding + r.Theme.LineHeight + 4
	for _, sd := range h.sections {
		cy = r.DrawSection(x+padding, cy, sd, data, h.width-padding*2)
	}
}

// DrawPerf renders the frame phase breakdown at the top-right corner.
func (h *HUD) DrawPerf(data HUDData, screenWidth int32) {
	r := h.renderer
	padding := r.Theme.Padding

	fields := make([]FieldDescriptor, 0, len(data.PhaseOrder))
	for _, phase := range data.PhaseOrder {
		fields = append(fields, FieldDescriptor{
			ID:     phase,
			Label:  phase,
			Widget: WidgetBar,
			Getter: func(d any) float32 { return float32(d.(HUDData).PhasePct[phase] / 100) },
		})
	}
	sd := SectionDescriptor{
		ID:     "perf",
		Title:  fmt.Sprintf("Frame %s", data.FrameAvg.Round(time.Microsecond)),
		Fields: fields,
	}

	width := int32(260)
	x, y := screenWidth-width-10, int32(10)
	r.DrawPanel(x, y, width, r.SectionHeight(sd, data)+padding*2)
	r.DrawSection(x+padding, y+padding, sd, data, width-padding*2)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
