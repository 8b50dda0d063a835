package app

import (
	tea "charm.land/bubbletea/v2"
)

// getRealCursor returns a real terminal cursor for the focused pane, or nil
// to hide the cursor while an overlay is open.
func (h *Host) getRealCursor() *tea.Cursor {
	if h.ShowHelp || h.ShowLogs || h.Settings != nil {
		return nil
	}

	split := h.ActiveSplit()
	if split == nil {
		return nil
	}
	focused := split.Focused()
	if focused == nil {
		return nil
	}

	x, y, ok := focused.CursorPosition()
	if !ok {
		return nil
	}

	rects := split.Layout(h.ContentArea())
	for i, w := range split.Children() {
		if w != focused {
			continue
		}
		r := rects[i]
		// Bounds check: the cursor must be inside the content area
		if x < 0 || x >= r.Width-2 || y < 0 || y >= r.Height-2 {
			return nil
		}
		// +1 for the border
		return tea.NewCursor(r.X+1+x, r.Y+1+y)
	}
	return nil
}
