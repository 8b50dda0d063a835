package sendtext

import (
	"errors"
	"slices"
	"testing"
)

// fakeBus is a minimal synchronous hotkey stream.
type fakeBus struct {
	subs map[int]func(string)
	next int
}

func newFakeBus() *fakeBus { return &fakeBus{subs: map[int]func(string){}} }

func (b *fakeBus) Subscribe(fn func(string)) func() {
	id := b.next
	b.next++
	b.subs[id] = fn
	return func() { delete(b.subs, id) }
}

func (b *fakeBus) publish(action string) {
	for _, fn := range b.subs {
		fn(action)
	}
}

func TestHandler_FiltersAction(t *testing.T) {
	session := &fakeSession{}
	pane := &fakePane{name: "pane", caps: Capabilities{Session: session}}
	bus := newFakeBus()

	h := NewHandler(HandlerOptions{
		Action: "send_text",
		Focus:  FocusFunc(func() Target { return &fakeSplit{child: pane} }),
		Text:   staticText{text: `echo\n`, ok: true},
	})
	if err := h.Start(bus); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	bus.publish("new_tab")
	if len(session.writes) != 0 {
		t.Fatalf("unrelated hotkey wrote %q", session.writes)
	}

	bus.publish("send_text")
	if len(session.writes) != 1 || string(session.writes[0]) != "echo\n" {
		t.Fatalf("session writes = %q, want [\"echo\\n\"]", session.writes)
	}

	h.Stop()
	bus.publish("send_text")
	if len(session.writes) != 1 {
		t.Errorf("handler still subscribed after Stop")
	}
}

func TestHandler_StartTwice(t *testing.T) {
	h := NewHandler(HandlerOptions{Action: "send_text"})
	bus := newFakeBus()

	if err := h.Start(bus); err != nil {
		t.Fatalf("first Start() error = %v", err)
	}
	if err := h.Start(bus); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start() error = %v, want ErrAlreadyStarted", err)
	}
	if len(bus.subs) != 1 {
		t.Errorf("subscriptions = %d, want 1", len(bus.subs))
	}

	h.Stop()
	if h.Started() {
		t.Error("Started() = true after Stop")
	}
	if err := h.Start(bus); err != nil {
		t.Errorf("Start() after Stop error = %v", err)
	}
}

func TestHandler_DefaultText(t *testing.T) {
	session := &fakeSession{}
	h := NewHandler(HandlerOptions{
		Action: "send_text",
		Focus:  FocusFunc(func() Target { return &fakePane{name: "p", caps: Capabilities{Session: session}} }),
		Text:   staticText{},
	})

	res := h.Trigger()
	if !res.Sent() {
		t.Fatalf("Trigger() = %+v, want sent", res)
	}
	if string(session.writes[0]) != " \\\n" {
		t.Errorf("sent %q, want %q", session.writes[0], " \\\n")
	}
}

func TestHandler_Reports(t *testing.T) {
	tests := []struct {
		name  string
		focus Target
		want  []EventKind
	}{
		{"no focus", nil, []EventKind{EventMiss}},
		{"not a terminal", plainTarget{name: "settings"}, []EventKind{EventMiss}},
		{"probe fault", &fakeSplit{err: errors.New("stale")}, []EventKind{EventProbeFault, EventMiss}},
		{"sent", &fakePane{name: "p", caps: Capabilities{Input: &fakeInput{}}}, []EventKind{EventSent}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			h := NewHandler(HandlerOptions{
				Action:   "send_text",
				Focus:    FocusFunc(func() Target { return tt.focus }),
				Reporter: rec,
			})
			h.Trigger()
			if !slices.Equal(rec.kinds(), tt.want) {
				t.Errorf("events = %v, want %v", rec.kinds(), tt.want)
			}
		})
	}
}
