package sendtext

import (
	"errors"
	"slices"
	"testing"
)

type fakeSession struct {
	writes [][]byte
	err    error
}

func (f *fakeSession) WriteSession(p []byte) error {
	f.writes = append(f.writes, append([]byte(nil), p...))
	return f.err
}

type fakeFrontend struct{ writes []string }

func (f *fakeFrontend) WriteFrontend(s string) error {
	f.writes = append(f.writes, s)
	return nil
}

type fakeInput struct{ writes []string }

func (f *fakeInput) SendInput(s string) error {
	f.writes = append(f.writes, s)
	return nil
}

type panicSession struct{}

func (panicSession) WriteSession([]byte) error { panic("pty gone") }

type fakePane struct {
	name string
	caps Capabilities
}

func (p *fakePane) TargetName() string         { return p.name }
func (p *fakePane) Capabilities() Capabilities { return p.caps }

// nilUnsafePane dereferences its receiver, so a typed nil of it panics.
type nilUnsafePane struct{ caps Capabilities }

func (p *nilUnsafePane) TargetName() string         { return "unsafe" }
func (p *nilUnsafePane) Capabilities() Capabilities { return p.caps }

type plainTarget struct{ name string }

func (p plainTarget) TargetName() string { return p.name }

type fakeSplit struct {
	child  Target
	err    error
	panics bool
	caps   Capabilities
}

func (s *fakeSplit) TargetName() string { return "split" }

func (s *fakeSplit) FocusedChild() (Target, error) {
	if s.panics {
		panic("index out of range")
	}
	return s.child, s.err
}

// terminalSplit is a container that is also a terminal itself.
type terminalSplit struct{ fakeSplit }

func (s *terminalSplit) Capabilities() Capabilities { return s.caps }

type recorder struct{ events []Event }

func (r *recorder) Report(ev Event) { r.events = append(r.events, ev) }

func (r *recorder) kinds() []EventKind {
	var out []EventKind
	for _, ev := range r.events {
		out = append(out, ev.Kind)
	}
	return out
}

func TestResolve(t *testing.T) {
	pane := &fakePane{name: "pane", caps: Capabilities{Session: &fakeSession{}}}

	tests := []struct {
		name      string
		focus     Target
		wantName  string
		wantErr   bool
		wantFound bool
	}{
		{name: "nil focus", focus: nil},
		{name: "plain target without capabilities", focus: plainTarget{name: "settings"}},
		{name: "terminal without capabilities", focus: &fakePane{name: "dead"}},
		{name: "terminal with session", focus: pane, wantName: "pane", wantFound: true},
		{
			name:      "frontend alone is enough",
			focus:     &fakePane{name: "ro", caps: Capabilities{Frontend: &fakeFrontend{}}},
			wantName:  "ro",
			wantFound: true,
		},
		{
			name:      "input alone is enough",
			focus:     &fakePane{name: "in", caps: Capabilities{Input: &fakeInput{}}},
			wantName:  "in",
			wantFound: true,
		},
		{name: "container returns focused child", focus: &fakeSplit{child: pane}, wantName: "pane", wantFound: true},
		{name: "container with no focused child", focus: &fakeSplit{}},
		{name: "container with non-terminal child", focus: &fakeSplit{child: plainTarget{name: "x"}}},
		{name: "container lookup error", focus: &fakeSplit{err: errors.New("stale index")}, wantErr: true},
		{name: "container lookup panic", focus: &fakeSplit{panics: true}, wantErr: true},
		{name: "typed nil child panics in predicate", focus: &fakeSplit{child: (*nilUnsafePane)(nil)}, wantErr: true},
		{
			name:      "failing container falls through to itself",
			focus:     &terminalSplit{fakeSplit{err: errors.New("boom"), caps: Capabilities{Input: &fakeInput{}}}},
			wantName:  "split",
			wantErr:   true,
			wantFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := Resolve(tt.focus)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrFocusProbe) {
				t.Errorf("Resolve() error = %v, want ErrFocusProbe", err)
			}
			if (h != nil) != tt.wantFound {
				t.Fatalf("Resolve() handle = %v, wantFound %v", h, tt.wantFound)
			}
			if h != nil && h.Name() != tt.wantName {
				t.Errorf("Resolve() name = %q, want %q", h.Name(), tt.wantName)
			}
		})
	}
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"plain", "abc", "abc"},
		{"newline token", `a\nb`, "a\nb"},
		{"tab token", `a\tb`, "a\tb"},
		{"carriage return token", `a\rb`, "a\rb"},
		{"escaped backslash", `a\\b`, `a\b`},
		{"default text unchanged", DefaultText, " \\\n"},
		{"backslash before newline token", `a\\n`, "a\\\n"},
		{"three backslashes", `\\\n`, "\\\n"},
		{"four backslashes", `\\\\`, `\\`},
		{"continuation", ` \\\n`, " \\\n"},
		{"mixed", `x\t\r\n`, "x\t\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Expand(tt.raw); got != tt.want {
				t.Errorf("Expand(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{` \\\n`, "·\\⏎"},
		{`a\tb`, "a→b"},
		{"a b", "a·b"},
		{DefaultText, "·\\⏎"},
		{"x\r", "x␍"},
	}

	for _, tt := range tests {
		if got := Preview(tt.raw); got != tt.want {
			t.Errorf("Preview(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

type staticText struct {
	text string
	ok   bool
}

func (s staticText) CustomText() (string, bool) { return s.text, s.ok }

func TestEffectiveText(t *testing.T) {
	tests := []struct {
		name string
		src  TextSource
		want string
	}{
		{"nil source", nil, DefaultText},
		{"absent", staticText{}, DefaultText},
		{"empty", staticText{text: "", ok: true}, DefaultText},
		{"custom", staticText{text: `&&\n`, ok: true}, `&&\n`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveText(tt.src); got != tt.want {
				t.Errorf("EffectiveText() = %q, want %q", got, tt.want)
			}
		})
	}

	if DefaultText != " \\\n" {
		t.Errorf("DefaultText = %q, want space, backslash, newline", DefaultText)
	}
}

func TestDispatch_PriorityOrder(t *testing.T) {
	session := &fakeSession{}
	frontend := &fakeFrontend{}
	input := &fakeInput{}
	rec := &recorder{}

	h := NewHandle("pane", Capabilities{Session: session, Frontend: frontend, Input: input})
	res := NewDispatcher(rec).Dispatch(h, `a\nb`)

	if !res.Sent() || res.Method != CapabilitySession {
		t.Fatalf("Dispatch() = %+v, want sent via session", res)
	}
	if len(session.writes) != 1 || string(session.writes[0]) != "a\nb" {
		t.Errorf("session writes = %q, want one write of %q", session.writes, "a\nb")
	}
	if len(frontend.writes) != 0 || len(input.writes) != 0 {
		t.Errorf("lower priority capabilities were written: frontend=%q input=%q", frontend.writes, input.writes)
	}
	if !slices.Equal(rec.kinds(), []EventKind{EventSent}) {
		t.Errorf("events = %v, want [sent]", rec.kinds())
	}
}

func TestDispatch_SessionAndInputOnly(t *testing.T) {
	session := &fakeSession{}
	input := &fakeInput{}

	h := NewHandle("pane", Capabilities{Session: session, Input: input})
	NewDispatcher(nil).Dispatch(h, "x")

	if len(session.writes) != 1 {
		t.Errorf("session writes = %d, want 1", len(session.writes))
	}
	if len(input.writes) != 0 {
		t.Errorf("input writes = %d, want 0", len(input.writes))
	}
}

func TestDispatch_FallsBack(t *testing.T) {
	frontend := &fakeFrontend{}
	input := &fakeInput{}

	res := NewDispatcher(nil).Dispatch(NewHandle("a", Capabilities{Frontend: frontend, Input: input}), `\t`)
	if res.Method != CapabilityFrontend || len(frontend.writes) != 1 || frontend.writes[0] != "\t" {
		t.Errorf("Dispatch() = %+v, frontend = %q, want one tab via frontend", res, frontend.writes)
	}

	res = NewDispatcher(nil).Dispatch(NewHandle("b", Capabilities{Input: input}), "z")
	if res.Method != CapabilityInput || len(input.writes) != 1 {
		t.Errorf("Dispatch() = %+v, input = %q, want one write via input", res, input.writes)
	}
}

func TestDispatch_NoCapability(t *testing.T) {
	rec := &recorder{}
	res := NewDispatcher(rec).Dispatch(NewHandle("empty", Capabilities{}), "x")

	if !errors.Is(res.Err, ErrNoCapability) {
		t.Errorf("Dispatch() err = %v, want ErrNoCapability", res.Err)
	}
	if len(rec.events) != 1 || rec.events[0].Kind != EventNoCapability {
		t.Fatalf("events = %v, want one no-capability report", rec.kinds())
	}
	if rec.events[0].Target != "empty" || len(rec.events[0].Capabilities) != 0 {
		t.Errorf("event = %+v, want target name and empty capability list", rec.events[0])
	}
}

func TestDispatch_NilHandle(t *testing.T) {
	rec := &recorder{}
	res := NewDispatcher(rec).Dispatch(nil, "x")
	if res.Sent() || res.Err != nil || len(rec.events) != 0 {
		t.Errorf("Dispatch(nil) = %+v, events %v, want silent no-op", res, rec.kinds())
	}
}

func TestDispatch_WriteErrors(t *testing.T) {
	tests := []struct {
		name string
		caps Capabilities
	}{
		{"error", Capabilities{Session: &fakeSession{err: errors.New("closed")}, Input: &fakeInput{}}},
		{"panic", Capabilities{Session: panicSession{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			res := NewDispatcher(rec).Dispatch(NewHandle("p", tt.caps), "x")

			if !errors.Is(res.Err, ErrWrite) {
				t.Errorf("Dispatch() err = %v, want ErrWrite", res.Err)
			}
			if res.Method != CapabilitySession {
				t.Errorf("Dispatch() method = %q, want session (no retry on other capabilities)", res.Method)
			}
			if !slices.Equal(rec.kinds(), []EventKind{EventWriteFailed}) {
				t.Errorf("events = %v, want [write-failed]", rec.kinds())
			}
			if in, ok := tt.caps.Input.(*fakeInput); ok && len(in.writes) != 0 {
				t.Errorf("input was written after session failure")
			}
		})
	}
}

func TestCapabilitiesNames(t *testing.T) {
	c := Capabilities{Input: &fakeInput{}, Session: &fakeSession{}}
	if got := c.Names(); !slices.Equal(got, []string{"session", "input"}) {
		t.Errorf("Names() = %v, want [session input]", got)
	}
	if (Capabilities{}).Any() {
		t.Error("empty Capabilities.Any() = true")
	}
}
