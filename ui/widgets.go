package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	swatchSize   = 12
	spacerHeight = 6
	sectionGap   = 4
)

// Renderer draws HUD panels and widgets in one theme.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a translucent panel with a border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section title and returns the next line's Y.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

func (r *Renderer) drawLabel(x, y int32, label string) {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
}

// DrawLabelValue draws "label: value" and returns the next line's Y.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	r.drawLabel(x, y, label)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a share in [0, 1] as a filled bar followed by its percentage.
func (r *Renderer) DrawBar(x, y int32, label string, share float32, width int32) int32 {
	share = min(max(share, 0), 1)

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50

	r.drawLabel(x, y, label)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*share), r.Theme.BarHeight, r.Theme.BarFill)
	rl.DrawText(fmt.Sprintf("%.0f%%", share*100), barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.fieldHeight(WidgetBar)
}

// DrawColorSwatch draws a color square followed by its hex code.
func (r *Renderer) DrawColorSwatch(x, y int32, label string, c rl.Color) int32 {
	sx := x + r.Theme.LabelWidth

	r.drawLabel(x, y, label)
	rl.DrawRectangle(sx, y+1, swatchSize, swatchSize, c)
	rl.DrawText(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B), sx+swatchSize+6, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.fieldHeight(WidgetColorSwatch)
}

// fieldHeight is the vertical space one widget takes.
func (r *Renderer) fieldHeight(w WidgetType) int32 {
	switch w {
	case WidgetBar:
		return r.Theme.LineHeight + 2
	case WidgetSpacer:
		return spacerHeight
	default:
		return r.Theme.LineHeight
	}
}

// DrawField draws one descriptor and returns the next line's Y.
func (r *Renderer) DrawField(x, y int32, fd FieldDescriptor, data any, width int32) int32 {
	switch fd.Widget {
	case WidgetText:
		text := ""
		switch {
		case fd.TextGetter != nil:
			text = fd.TextGetter(data)
		case fd.Getter != nil:
			text = fmt.Sprintf(fd.Format, fd.Getter(data))
		}
		return r.DrawLabelValue(x, y, fd.Label, text)

	case WidgetBar:
		var share float32
		if fd.Getter != nil {
			share = fd.Getter(data)
		}
		return r.DrawBar(x, y, fd.Label, share, width)

	case WidgetColorSwatch:
		var c rl.Color
		if fd.ColorGetter != nil {
			c = fd.ColorGetter(data)
		}
		return r.DrawColorSwatch(x, y, fd.Label, c)

	case WidgetSpacer:
		return y + spacerHeight
	}
	return y
}

// DrawSection draws a titled group of fields and returns the Y below it.
// Hidden sections and fields take no space.
func (r *Renderer) DrawSection(x, y int32, sd SectionDescriptor, data any, width int32) int32 {
	if sd.Visible != nil && !sd.Visible(data) {
		return y
	}
	if sd.Title != "" {
		y = r.DrawSectionHeader(x, y, sd.Title)
	}
	for _, fd := range sd.Fields {
		if fd.Visible != nil && !fd.Visible(data) {
			continue
		}
		y = r.DrawField(x, y, fd, data, width)
	}
	return y + sectionGap
}

// SectionHeight returns the height DrawSection would use for sd.
func (r *Renderer) SectionHeight(sd SectionDescriptor, data any) int32 {
	if sd.Visible != nil && !sd.Visible(data) {
		return 0
	}
	var h int32
	if sd.Title != "" {
		h += r.Theme.LineHeight
	}
	for _, fd := range sd.Fields {
		if fd.Visible == nil || fd.Visible(data) {
			h += r.fieldHeight(fd.Widget)
		}
	}
	return h + sectionGap
}
