package input

import (
	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"
)

// KeyEvent converts a key press into the event the pane emulator encodes.
func KeyEvent(msg tea.KeyPressMsg) uv.KeyEvent {
	return uv.KeyPressEvent{
		Code:        msg.Code,
		ShiftedCode: msg.ShiftedCode,
		BaseCode:    msg.BaseCode,
		Mod:         uv.KeyMod(msg.Mod),
		Text:        msg.Text,
		IsRepeat:    msg.IsRepeat,
	}
}
