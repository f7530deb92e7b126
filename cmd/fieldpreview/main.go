// Field preview tool - live particle field with tuning sliders.
//
// Usage: go run ./cmd/fieldpreview [-profile sparse] [-config path]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/field"
	"github.com/pthm-cable/backdrop/frame"
	"github.com/pthm-cable/backdrop/renderer"
)

const (
	windowWidth  = 1200
	windowHeight = 760
	previewWidth = 820
	panelWidth   = windowWidth - previewWidth - 30
)

// slider describes one tunable field parameter.
type slider struct {
	label    string
	min, max float32
	format   string
	get      func(*config.FieldConfig) float32
	set      func(*config.FieldConfig, float32)
	regen    bool // changing it needs a fresh particle set
}

func sliders() []slider {
	return []slider{
		{"Grid step", 20, 120, "%.0f",
			func(c *config.FieldConfig) float32 { return float32(c.Grid.Step) },
			func(c *config.FieldConfig, v float32) { c.Grid.Step = float64(int(v)); c.GridLines.Step = c.Grid.Step }, true},
		{"Scattered count", 0, 1500, "%.0f",
			func(c *config.FieldConfig) float32 { return float32(c.Scattered.Count) },
			func(c *config.FieldConfig, v float32) { c.Scattered.Count = int(v) }, true},
		{"Pulse opacity", 0, 0.6, "%.2f",
			func(c *config.FieldConfig) float32 { return float32(c.Animation.PulseOpacity) },
			func(c *config.FieldConfig, v float32) { c.Animation.PulseOpacity = float64(v) }, false},
		{"Pulse size", 0, 2, "%.2f",
			func(c *config.FieldConfig) float32 { return float32(c.Animation.PulseSize) },
			func(c *config.FieldConfig, v float32) { c.Animation.PulseSize = float64(v) }, false},
		{"Link threshold", 0, 200, "%.0f",
			func(c *config.FieldConfig) float32 { return float32(c.Connections.Threshold) },
			func(c *config.FieldConfig, v float32) { c.Connections.Threshold = float64(v) }, false},
		{"Link window", 1, 256, "%.0f",
			func(c *config.FieldConfig) float32 { return float32(c.Connections.Window) },
			func(c *config.FieldConfig, v float32) { c.Connections.Window = int(v) }, false},
		{"Link opacity", 0, 0.5, "%.2f",
			func(c *config.FieldConfig) float32 { return float32(c.Connections.MaxOpacity) },
			func(c *config.FieldConfig, v float32) { c.Connections.MaxOpacity = float64(v) }, false},
		{"Grid line opacity", 0, 0.3, "%.3f",
			func(c *config.FieldConfig) float32 { return float32(c.GridLines.BaseOpacity) },
			func(c *config.FieldConfig, v float32) { c.GridLines.BaseOpacity = float64(v) }, false},
	}
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	profile := flag.String("profile", "", "Density profile")
	flag.Parse()

	cfg, err := config.Load(*configPath, *profile)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	initial := cfg.Field

	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(windowWidth, windowHeight, "Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	bg, err := config.ParseColor(cfg.Screen.Background)
	if err != nil {
		slog.Error("invalid background", "error", err)
		os.Exit(1)
	}
	surface := renderer.NewRaylibSurface(bg)
	host := frame.NewHost(previewWidth, windowHeight)
	f := field.New(cfg.Field, rand.New(rand.NewSource(time.Now().UnixNano())))
	f.Start(host, surface)
	defer f.Teardown()

	params := cfg.Field
	paused := false
	controls := sliders()

	for !rl.WindowShouldClose() {
		rl.BeginDrawing()

		// Field, clipped to the preview area
		rl.BeginScissorMode(0, 0, previewWidth, windowHeight)
		if paused {
			f.Render(surface)
		} else {
			host.Flush(time.Now())
		}
		rl.EndScissorMode()

		// Control panel
		rl.DrawRectangle(previewWidth, 0, windowWidth-previewWidth, windowHeight, rl.RayWhite)
		panelX := float32(previewWidth + 15)
		panelY := float32(10)

		rl.DrawText("Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		changed, regen := false, false
		for _, s := range controls {
			cur := s.get(&params)
			rl.DrawText(s.label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			next := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				"", "",
				cur, s.min, s.max,
			)
			rl.DrawText(fmt.Sprintf(s.format, cur), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if next != cur {
				s.set(&params, next)
				changed = true
				regen = regen || s.regen
			}
			panelY += 32
		}

		if changed {
			apply := f.Tune
			if regen {
				apply = f.Reconfigure
			}
			if err := apply(params); err != nil {
				params = f.Config()
			}
		}

		stats := f.Stats()
		rl.DrawText(fmt.Sprintf("Particles: %d  Links: %d", stats.Particles, stats.Connections), int32(panelX), int32(panelY), 14, rl.DarkGray)
		panelY += 18
		rl.DrawText(fmt.Sprintf("FPS: %d  Time: %.2f", rl.GetFPS(), f.Time()), int32(panelX), int32(panelY), 14, rl.DarkGray)
		panelY += 30

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(paused, "Resume", "Pause")) {
			paused = !paused
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Regenerate") {
			f.Regenerate()
		}
		panelY += 40

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Toggle Bounce") {
			policy := config.BoundaryBounce
			if params.Animation.Boundary == config.BoundaryBounce {
				policy = config.BoundaryWrap
			}
			params.Animation.Boundary = policy
			f.SetBoundary(policy)
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = initial
			if err := f.Reconfigure(params); err != nil {
				slog.Error("failed to reset field", "error", err)
			}
		}
		panelY += 50

		// Output YAML
		out := fieldYAML(params)
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 22
		for _, line := range strings.Split(out, "\n") {
			if panelY > windowHeight-40 {
				break
			}
			rl.DrawText(line, int32(panelX), int32(panelY), 12, rl.Gray)
			panelY += 14
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-25), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(out)
		}

		rl.EndDrawing()
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// fieldYAML renders the tunable sections as a field: block.
func fieldYAML(c config.FieldConfig) string {
	doc := map[string]any{
		"field": map[string]any{
			"grid":        map[string]any{"step": c.Grid.Step},
			"scattered":   map[string]any{"count": c.Scattered.Count},
			"animation":   map[string]any{"pulse_opacity": c.Animation.PulseOpacity, "pulse_size": c.Animation.PulseSize, "boundary": c.Animation.Boundary},
			"grid_lines":  map[string]any{"step": c.GridLines.Step, "base_opacity": c.GridLines.BaseOpacity},
			"connections": map[string]any{"threshold": c.Connections.Threshold, "window": c.Connections.Window, "max_opacity": c.Connections.MaxOpacity},
		},
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return err.Error()
	}
	return strings.TrimRight(string(out), "\n")
}
