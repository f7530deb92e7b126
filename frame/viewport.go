package frame

// ResizeListener receives the new viewport size.
type ResizeListener func(width, height int)

// ListenerID identifies a registered resize listener.
type ListenerID uint64

// Viewport tracks the host's drawable size and notifies listeners when it
// changes.
type Viewport struct {
	width, height int
	next          ListenerID
	listeners     []listenerEntry
}

type listenerEntry struct {
	id ListenerID
	fn ResizeListener
}

// NewViewport creates a viewport of the given size.
func NewViewport(width, height int) *Viewport {
	return &Viewport{width: width, height: height}
}

// Size returns the current size.
func (v *Viewport) Size() (width, height int) {
	return v.width, v.height
}

// SetSize updates the size and notifies listeners in registration order.
// Setting the current size again is a no-op.
func (v *Viewport) SetSize(width, height int) {
	if width == v.width && height == v.height {
		return
	}
	v.width, v.height = width, height

	// Listeners may remove themselves while being notified.
	snapshot := make([]listenerEntry, len(v.listeners))
	copy(snapshot, v.listeners)
	for _, l := range snapshot {
		if v.has(l.id) {
			l.fn(width, height)
		}
	}
}

// AddResizeListener registers fn and returns its id.
func (v *Viewport) AddResizeListener(fn ResizeListener) ListenerID {
	v.next++
	v.listeners = append(v.listeners, listenerEntry{id: v.next, fn: fn})
	return v.next
}

// RemoveResizeListener unregisters a listener. Unknown ids are ignored.
func (v *Viewport) RemoveResizeListener(id ListenerID) {
	for i, l := range v.listeners {
		if l.id == id {
			v.listeners = append(v.listeners[:i], v.listeners[i+1:]...)
			return
		}
	}
}

// Listeners returns the number of registered listeners.
func (v *Viewport) Listeners() int {
	return len(v.listeners)
}

func (v *Viewport) has(id ListenerID) bool {
	for _, l := range v.listeners {
		if l.id == id {
			return true
		}
	}
	return false
}
