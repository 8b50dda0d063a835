package terminal

import (
	"errors"
	"fmt"

	"github.com/dodorz/contline/internal/sendtext"
)

// ErrStaleFocus is returned when a split's focus index no longer points at
// a child.
var ErrStaleFocus = errors.New("focused pane index out of range")

// Orientation is the direction a split divides its area.
type Orientation int

const (
	// Vertical places panes side by side (left/right).
	Vertical Orientation = iota
	// Horizontal stacks panes (top/bottom).
	Horizontal
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Rect is a pane's area in cells.
type Rect struct {
	X, Y, Width, Height int
}

// Split is a tab's container: ordered panes sharing one area, one of which
// has focus.
type Split struct {
	Name        string
	Orientation Orientation

	children []*Window
	focus    int
}

// NewSplit returns an empty split.
func NewSplit(name string, orientation Orientation) *Split {
	return &Split{Name: name, Orientation: orientation, focus: -1}
}

// TargetName names the split in logs.
func (s *Split) TargetName() string {
	if s == nil {
		return ""
	}
	return s.Name
}

// IsNil reports whether s is a nil pointer.
func (s *Split) IsNil() bool { return s == nil }

// FocusedChild returns the focused pane, nil for an empty split, or
// ErrStaleFocus when the focus index is out of range.
func (s *Split) FocusedChild() (sendtext.Target, error) {
	w, err := s.focused()
	if err != nil || w == nil {
		return nil, err
	}
	return w, nil
}

// Focused returns the focused pane, or nil.
func (s *Split) Focused() *Window {
	w, _ := s.focused()
	return w
}

func (s *Split) focused() (*Window, error) {
	if s == nil || len(s.children) == 0 {
		return nil, nil
	}
	if s.focus < 0 || s.focus >= len(s.children) {
		return nil, fmt.Errorf("%w: %d of %d", ErrStaleFocus, s.focus, len(s.children))
	}
	return s.children[s.focus], nil
}

// FocusIndex returns the focused position, -1 when empty.
func (s *Split) FocusIndex() int { return s.focus }

// Children returns the panes in order.
func (s *Split) Children() []*Window {
	return append([]*Window(nil), s.children...)
}

// Len returns the number of panes.
func (s *Split) Len() int { return len(s.children) }

// Add appends w after the focused pane and focuses it.
func (s *Split) Add(w *Window) {
	at := len(s.children)
	if s.focus >= 0 && s.focus < len(s.children) {
		at = s.focus + 1
	}
	s.children = append(s.children, nil)
	copy(s.children[at+1:], s.children[at:])
	s.children[at] = w
	s.focus = at
}

// Remove takes the pane with id out of the split and returns it. Focus
// moves to the previous pane.
func (s *Split) Remove(id string) *Window {
	for i, w := range s.children {
		if w.ID != id {
			continue
		}
		s.children = append(s.children[:i], s.children[i+1:]...)
		switch {
		case len(s.children) == 0:
			s.focus = -1
		case s.focus == i:
			s.focus = max(i-1, 0)
		case s.focus > i:
			s.focus--
		}
		return w
	}
	return nil
}

// Find returns the pane with id, or nil.
func (s *Split) Find(id string) *Window {
	for _, w := range s.children {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// FocusNext moves focus forward, wrapping around.
func (s *Split) FocusNext() {
	if len(s.children) > 0 {
		s.focus = (s.focus + 1) % len(s.children)
	}
}

// FocusPrev moves focus backward, wrapping around.
func (s *Split) FocusPrev() {
	if n := len(s.children); n > 0 {
		s.focus = (s.focus - 1 + n) % n
	}
}

// Layout divides area between the panes along the split's orientation and
// resizes each one. The last pane takes the remainder.
func (s *Split) Layout(area Rect) []Rect {
	n := len(s.children)
	if n == 0 {
		return nil
	}

	rects := make([]Rect, n)
	total := area.Width
	if s.Orientation == Horizontal {
		total = area.Height
	}
	size := total / n
	offset := 0
	for i := range n {
		length := size
		if i == n-1 {
			length = total - offset
		}
		if s.Orientation == Horizontal {
			rects[i] = Rect{X: area.X, Y: area.Y + offset, Width: area.Width, Height: length}
		} else {
			rects[i] = Rect{X: area.X + offset, Y: area.Y, Width: length, Height: area.Height}
		}
		offset += length
	}

	for i, w := range s.children {
		w.Resize(rects[i].Width, rects[i].Height)
	}
	return rects
}

// Close closes every pane.
func (s *Split) Close() {
	for _, w := range s.children {
		w.Close()
	}
	s.children = nil
	s.focus = -1
}
