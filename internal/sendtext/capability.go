// Package sendtext sends a configured literal string into the focused terminal.
//
// The package is split in three steps that mirror a hotkey press: the focused
// Target is resolved to a Handle, the configured text is expanded, and the
// expanded text is written through the first capability the Handle exposes.
// Failures never propagate to the caller; they are reported to a Reporter.
package sendtext

// SessionWriter writes raw bytes to the session behind a terminal (the PTY).
type SessionWriter interface {
	WriteSession(p []byte) error
}

// FrontendWriter writes text to the terminal's display.
type FrontendWriter interface {
	WriteFrontend(s string) error
}

// InputSender feeds text through the terminal's input path.
type InputSender interface {
	SendInput(s string) error
}

// Capability names, in probe priority order.
const (
	CapabilitySession  = "session"
	CapabilityFrontend = "frontend"
	CapabilityInput    = "input"
)

// Capabilities is the set of optional write handles a terminal exposes.
// A nil field means the capability is absent.
type Capabilities struct {
	Session  SessionWriter
	Frontend FrontendWriter
	Input    InputSender
}

// Any reports whether at least one capability is present.
func (c Capabilities) Any() bool {
	return c.Session != nil || c.Frontend != nil || c.Input != nil
}

// Names returns the names of the present capabilities in priority order.
func (c Capabilities) Names() []string {
	names := make([]string, 0, 3)
	if c.Session != nil {
		names = append(names, CapabilitySession)
	}
	if c.Frontend != nil {
		names = append(names, CapabilityFrontend)
	}
	if c.Input != nil {
		names = append(names, CapabilityInput)
	}
	return names
}

// Target is anything the host can report as focused: a pane, a split, a
// settings page.
type Target interface {
	TargetName() string
}

// Terminal is a Target that may accept text.
type Terminal interface {
	Target
	Capabilities() Capabilities
}

// Container is a Target holding child targets, such as a split view.
type Container interface {
	Target
	FocusedChild() (Target, error)
}

// Handle is a resolved terminal with its capabilities captured once.
type Handle struct {
	name string
	caps Capabilities
}

// NewHandle builds a Handle from a name and capability set.
func NewHandle(name string, caps Capabilities) *Handle {
	return &Handle{name: name, caps: caps}
}

// Name returns the resolved target's name.
func (h *Handle) Name() string {
	if h == nil {
		return ""
	}
	return h.name
}

// Capabilities returns the capabilities captured at resolution time.
func (h *Handle) Capabilities() Capabilities {
	if h == nil {
		return Capabilities{}
	}
	return h.caps
}
