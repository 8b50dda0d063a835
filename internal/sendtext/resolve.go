package sendtext

import (
	"errors"
	"fmt"
)

// ErrFocusProbe wraps failures of a container's focused-child lookup.
var ErrFocusProbe = errors.New("focused child lookup failed")

// Resolve finds the terminal that should receive text for the given focus.
//
// A nil handle with a nil error is a normal miss. When focus is a container
// whose lookup fails, the returned error wraps ErrFocusProbe and resolution
// continues with focus itself, so the handle may still be non-nil.
func Resolve(focus Target) (*Handle, error) {
	if isNil(focus) {
		return nil, nil
	}

	var probeErr error
	if container, ok := focus.(Container); ok {
		h, err := focusedHandle(container)
		if err != nil {
			probeErr = fmt.Errorf("%w: %s: %w", ErrFocusProbe, focus.TargetName(), err)
		} else if h != nil {
			return h, nil
		}
	}

	return asHandle(focus), probeErr
}

// focusedHandle looks up the focused child and applies the terminal
// predicate to it. A panic in either step becomes an error; a typed nil
// child without IsNil panics in Capabilities.
func focusedHandle(c Container) (h *Handle, err error) {
	defer func() {
		if r := recover(); r != nil {
			h = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	child, err := c.FocusedChild()
	if err != nil {
		return nil, err
	}
	return asHandle(child), nil
}

// asHandle applies the terminal predicate: any one capability is enough.
func asHandle(t Target) *Handle {
	if isNil(t) {
		return nil
	}
	term, ok := t.(Terminal)
	if !ok {
		return nil
	}
	caps := term.Capabilities()
	if !caps.Any() {
		return nil
	}
	return NewHandle(t.TargetName(), caps)
}

// isNil catches typed nil pointers stored in an interface, which hosts
// produce easily when a split has no focused pane.
func isNil(t Target) bool {
	if t == nil {
		return true
	}
	if n, ok := t.(interface{ IsNil() bool }); ok {
		return n.IsNil()
	}
	return false
}
