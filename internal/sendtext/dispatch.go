package sendtext

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCapability is reported when a handle has no write capability.
	ErrNoCapability = errors.New("no write capability available")
	// ErrWrite wraps a failed write through the chosen capability.
	ErrWrite = errors.New("write failed")
)

// EventKind classifies what happened during one hotkey press.
type EventKind int

const (
	// EventMiss means there was nothing to send to.
	EventMiss EventKind = iota
	// EventProbeFault means a container's focused-child lookup failed.
	EventProbeFault
	// EventSent means the text was written.
	EventSent
	// EventNoCapability means the handle exposed no write method.
	EventNoCapability
	// EventWriteFailed means the chosen write method returned an error.
	EventWriteFailed
)

func (k EventKind) String() string {
	switch k {
	case EventMiss:
		return "miss"
	case EventProbeFault:
		return "probe-fault"
	case EventSent:
		return "sent"
	case EventNoCapability:
		return "no-capability"
	case EventWriteFailed:
		return "write-failed"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one observation routed to a Reporter.
type Event struct {
	Kind         EventKind
	Target       string
	Method       string   // capability used, empty unless a write was attempted
	Bytes        int      // bytes handed to the capability
	Capabilities []string // capabilities present on the target, for diagnosis
	Err          error
}

// Reporter receives dispatch events. Implementations must not block.
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Event)

// Report calls f(ev).
func (f ReporterFunc) Report(ev Event) { f(ev) }

type nopReporter struct{}

func (nopReporter) Report(Event) {}

// Result is the outcome of a single Dispatch call.
type Result struct {
	Method string
	Text   string
	Err    error
}

// Sent reports whether the text was written.
func (r Result) Sent() bool {
	return r.Method != "" && r.Err == nil
}

// Dispatcher expands text and writes it to a resolved handle.
type Dispatcher struct {
	reporter Reporter
}

// NewDispatcher returns a Dispatcher that reports to r. A nil r discards
// events.
func NewDispatcher(r Reporter) *Dispatcher {
	if r == nil {
		r = nopReporter{}
	}
	return &Dispatcher{reporter: r}
}

// Dispatch writes Expand(raw) through the first capability h exposes,
// probing session, frontend and input in that order. It writes at most once,
// never retries and never panics.
func (d *Dispatcher) Dispatch(h *Handle, raw string) Result {
	if h == nil {
		return Result{}
	}

	text := Expand(raw)
	caps := h.Capabilities()

	method, write := pick(caps)
	if write == nil {
		err := fmt.Errorf("%w on %q", ErrNoCapability, h.Name())
		d.reporter.Report(Event{
			Kind:         EventNoCapability,
			Target:       h.Name(),
			Capabilities: caps.Names(),
			Err:          err,
		})
		return Result{Text: text, Err: err}
	}

	if err := safeWrite(write, text); err != nil {
		err = fmt.Errorf("%w via %s on %q: %w", ErrWrite, method, h.Name(), err)
		d.reporter.Report(Event{
			Kind:         EventWriteFailed,
			Target:       h.Name(),
			Method:       method,
			Bytes:        len(text),
			Capabilities: caps.Names(),
			Err:          err,
		})
		return Result{Method: method, Text: text, Err: err}
	}

	d.reporter.Report(Event{
		Kind:         EventSent,
		Target:       h.Name(),
		Method:       method,
		Bytes:        len(text),
		Capabilities: caps.Names(),
	})
	return Result{Method: method, Text: text}
}

// pick returns the first present capability as a write function.
func pick(c Capabilities) (string, func(string) error) {
	switch {
	case c.Session != nil:
		return CapabilitySession, func(s string) error { return c.Session.WriteSession([]byte(s)) }
	case c.Frontend != nil:
		return CapabilityFrontend, c.Frontend.WriteFrontend
	case c.Input != nil:
		return CapabilityInput, c.Input.SendInput
	}
	return "", nil
}

func safeWrite(write func(string) error, text string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return write(text)
}
