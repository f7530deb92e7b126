package ui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlayDefaultsAndToggle(t *testing.T) {
	reg := NewOverlayRegistry()

	assert.True(t, reg.IsEnabled(OverlayHUD))
	assert.False(t, reg.IsEnabled(OverlayPerf))
	assert.True(t, reg.IsEnabled(OverlayControls))

	id, on, ok := reg.HandleKeyPress(rl.KeyH)
	require.True(t, ok)
	assert.Equal(t, OverlayHUD, id)
	assert.False(t, on)
	assert.False(t, reg.IsEnabled(OverlayHUD))

	_, _, ok = reg.HandleKeyPress(rl.KeyZ)
	assert.False(t, ok, "unbound key")

	assert.False(t, reg.Toggle("unknown"))
	assert.Equal(t, "[H] HUD  [P] Perf  [K] Controls", reg.Legend())
}

func fieldByID(t *testing.T, id string) FieldDescriptor {
	t.Helper()
	for _, sd := range HUDSections() {
		for _, fd := range sd.Fields {
			if fd.ID == id {
				return fd
			}
		}
	}
	t.Fatalf("no HUD field %q", id)
	return FieldDescriptor{}
}

func TestHUDSectionsFormat(t *testing.T) {
	data := HUDData{
		Profile:     "dense",
		Boundary:    "wrap",
		Particles:   2875,
		GridLines:   39,
		Circles:     5000,
		Connections: 120,
		Time:        1.23456,
		Width:       800,
		Height:      600,
		Paused:      true,
	}

	tests := []struct {
		id   string
		want string
	}{
		{"profile", "dense"},
		{"boundary", "wrap"},
		{"size", "800x600"},
		{"particles", "2875"},
		{"time", "1.23"},
		{"draws", "159 lines, 5000 circles"},
		{"connections", "120"},
		{"paused", "PAUSED"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			fd := fieldByID(t, tt.id)
			require.NotNil(t, fd.TextGetter)
			assert.Equal(t, tt.want, fd.TextGetter(data))
		})
	}
}

func TestSectionHeight(t *testing.T) {
	r := NewRenderer()
	sd := SectionDescriptor{
		Title: "x",
		Fields: []FieldDescriptor{
			{Widget: WidgetText},
			{Widget: WidgetBar},
			{Widget: WidgetSpacer},
			{Widget: WidgetText, Visible: func(any) bool { return false }},
		},
	}
	lh := r.Theme.LineHeight
	assert.Equal(t, lh+lh+(lh+2)+6+4, r.SectionHeight(sd, nil))

	sd.Visible = func(any) bool { return false }
	assert.Equal(t, int32(0), r.SectionHeight(sd, nil))
}

func TestFieldHeights(t *testing.T) {
	r := NewRenderer()
	lh := r.Theme.LineHeight

	tests := []struct {
		widget WidgetType
		want   int32
	}{
		{WidgetText, lh},
		{WidgetColorSwatch, lh},
		{WidgetBar, lh + 2},
		{WidgetSpacer, spacerHeight},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.fieldHeight(tt.widget))
	}

	sd := SectionDescriptor{Fields: []FieldDescriptor{{Widget: WidgetColorSwatch}}}
	assert.Equal(t, lh+sectionGap, r.SectionHeight(sd, nil), "untitled section")
}
