package sendtext

import (
	"errors"
	"sync"
)

// ErrAlreadyStarted is returned by Start when the handler is subscribed.
var ErrAlreadyStarted = errors.New("send-text handler already started")

// FocusProvider returns whatever currently has focus in the host. It may
// return nil.
type FocusProvider interface {
	ActiveTarget() Target
}

// FocusFunc adapts a function to FocusProvider.
type FocusFunc func() Target

// ActiveTarget calls f.
func (f FocusFunc) ActiveTarget() Target { return f() }

// Subscriber is the host's stream of matched hotkey identifiers.
type Subscriber interface {
	Subscribe(fn func(action string)) (unsubscribe func())
}

// HandlerOptions configures a Handler.
type HandlerOptions struct {
	// Action is the hotkey identifier the handler reacts to.
	Action   string
	Focus    FocusProvider
	Text     TextSource
	Reporter Reporter
}

// Handler ties a hotkey stream to Resolve and Dispatch.
//
// Construction and subscription are separate steps: the host builds the
// handler once its configuration defaults exist, and calls Start once its
// hotkey stream is ready.
type Handler struct {
	action     string
	focus      FocusProvider
	text       TextSource
	reporter   Reporter
	dispatcher *Dispatcher

	mu          sync.Mutex
	unsubscribe func()
}

// NewHandler builds a Handler. Text may be nil, in which case DefaultText is
// always sent.
func NewHandler(opts HandlerOptions) *Handler {
	reporter := opts.Reporter
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Handler{
		action:     opts.Action,
		focus:      opts.Focus,
		text:       opts.Text,
		reporter:   reporter,
		dispatcher: NewDispatcher(reporter),
	}
}

// Action returns the hotkey identifier the handler listens for.
func (h *Handler) Action() string { return h.action }

// Start subscribes to sub. It may be called once until Stop.
func (h *Handler) Start(sub Subscriber) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.unsubscribe != nil {
		return ErrAlreadyStarted
	}
	h.unsubscribe = sub.Subscribe(func(action string) {
		if action == h.action {
			h.Trigger()
		}
	})
	return nil
}

// Stop unsubscribes from the hotkey stream.
func (h *Handler) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.unsubscribe != nil {
		h.unsubscribe()
		h.unsubscribe = nil
	}
}

// Started reports whether the handler is subscribed.
func (h *Handler) Started() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.unsubscribe != nil
}

// Trigger resolves the current focus and sends the effective text to it.
func (h *Handler) Trigger() Result {
	var focus Target
	if h.focus != nil {
		focus = h.focus.ActiveTarget()
	}

	handle, err := Resolve(focus)
	if err != nil {
		name := ""
		if !isNil(focus) {
			name = focus.TargetName()
		}
		h.reporter.Report(Event{Kind: EventProbeFault, Target: name, Err: err})
	}
	if handle == nil {
		h.reporter.Report(Event{Kind: EventMiss})
		return Result{}
	}

	return h.dispatcher.Dispatch(handle, EffectiveText(h.text))
}
