package field

import (
	"image/color"

	"github.com/pthm-cable/backdrop/frame"
)

// Surface is a 2D drawing target in pixel coordinates.
// Colors are non-premultiplied; the alpha channel carries the stroke opacity.
// Surfaces have no input methods, so the field never intercepts pointer input.
type Surface interface {
	Clear()
	StrokeLine(x1, y1, x2, y2, width float32, c color.NRGBA)
	FillCircle(x, y, radius float32, c color.NRGBA)
}

// Host is what a field needs from the view it is mounted on: frame callback
// scheduling and the viewport size with resize notifications.
type Host interface {
	RequestFrame(cb frame.Callback) frame.Handle
	CancelFrame(h frame.Handle)
	Size() (width, height int)
	AddResizeListener(fn frame.ResizeListener) frame.ListenerID
	RemoveResizeListener(id frame.ListenerID)
}

var _ Host = (*frame.Host)(nil)

// rgba builds the accent color at the given opacity, clamped to [0, 1].
func rgba(rgb [3]uint8, alpha float64) color.NRGBA {
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	return color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: uint8(alpha*255 + 0.5)}
}
