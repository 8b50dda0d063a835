package testutil

import (
	"fmt"
	"strings"
)

// ANSIBuilder chains escape sequences for feeding to an emulator.
type ANSIBuilder struct {
	sb strings.Builder
}

// NewANSIBuilder returns an empty builder.
func NewANSIBuilder() *ANSIBuilder {
	return &ANSIBuilder{}
}

func (b *ANSIBuilder) csi(format string, args ...any) *ANSIBuilder {
	b.sb.WriteString("\x1b[")
	fmt.Fprintf(&b.sb, format, args...)
	return b
}

// Text appends plain text.
func (b *ANSIBuilder) Text(s string) *ANSIBuilder {
	b.sb.WriteString(s)
	return b
}

// Reset clears all text attributes.
func (b *ANSIBuilder) Reset() *ANSIBuilder { return b.csi("0m") }

// Bold turns on bold.
func (b *ANSIBuilder) Bold() *ANSIBuilder { return b.csi("1m") }

// FgColor sets a basic SGR foreground (30-37, 90-97).
func (b *ANSIBuilder) FgColor(code int) *ANSIBuilder { return b.csi("%dm", code) }

// EnableBracketedPaste turns on bracketed paste mode.
func (b *ANSIBuilder) EnableBracketedPaste() *ANSIBuilder { return b.csi("?2004h") }

// OSCTitle sets the window title.
func (b *ANSIBuilder) OSCTitle(title string) *ANSIBuilder {
	b.sb.WriteString("\x1b]0;" + title + "\x07")
	return b
}

// String returns the accumulated sequence.
func (b *ANSIBuilder) String() string { return b.sb.String() }

// ShellPrompt renders a bash-style colored prompt.
func ShellPrompt(user, host, dir string) string {
	return NewANSIBuilder().
		Bold().FgColor(32).Text(user + "@" + host).Reset().
		Text(":").
		Bold().FgColor(34).Text(dir).Reset().
		Text("$ ").
		String()
}
