package config

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/dodorz/contline/internal/hotkey"
)

// ErrInvalidConfig is wrapped by the error returned for a config with
// validation errors.
var ErrInvalidConfig = errors.New("invalid configuration")

// LogLevels lists the accepted [log] level values.
var LogLevels = []string{"off", "debug", "info", "warn", "error"}

// ValidationIssue describes one problem found in the config.
type ValidationIssue struct {
	Field   string // config section, e.g. "keybindings.hotkeys"
	Key     string // key or action within the section
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("[%s] %s: %s", v.Field, v.Key, v.Message)
}

// ValidationResult collects errors (fatal) and warnings (reported, ignored).
type ValidationResult struct {
	Errors   []ValidationIssue
	Warnings []ValidationIssue
}

// HasErrors reports whether any fatal issue was found.
func (r *ValidationResult) HasErrors() bool { return len(r.Errors) > 0 }

// HasWarnings reports whether any non-fatal issue was found.
func (r *ValidationResult) HasWarnings() bool { return len(r.Warnings) > 0 }

// Err joins all errors into one, or returns nil.
func (r *ValidationResult) Err() error {
	if !r.HasErrors() {
		return nil
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.String()
	}
	return fmt.Errorf("%w: %d error(s): %s", ErrInvalidConfig, len(r.Errors), strings.Join(msgs, "; "))
}

func (r *ValidationResult) addError(field, key, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationIssue{field, key, fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) addWarning(field, key, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationIssue{field, key, fmt.Sprintf(format, args...)})
}

// ValidateConfig checks cfg for values the host cannot honor.
//
// Errors: unknown border style, unknown log level, an empty key, the same key
// bound to two different hotkey actions (or two prefix actions), and a
// hotkey equal to the leader key. Warnings: unknown action names.
func ValidateConfig(cfg *UserConfig) *ValidationResult {
	r := &ValidationResult{}
	if cfg == nil {
		return r
	}

	if s := cfg.Appearance.BorderStyle; s != "" && !slices.Contains(BorderStyles, s) {
		r.addError("appearance", "border_style", "unknown border style %q (options: %s)", s, strings.Join(BorderStyles, ", "))
	}
	if l := strings.ToLower(cfg.Log.Level); l != "" && !slices.Contains(LogLevels, l) {
		r.addError("log", "level", "unknown log level %q (options: %s)", cfg.Log.Level, strings.Join(LogLevels, ", "))
	}

	leader := hotkey.Normalize(cfg.Keybindings.LeaderKey)
	validateSection(r, "keybindings.hotkeys", cfg.Keybindings.Hotkeys, knownHotkeyActions(), leader)
	validateSection(r, "keybindings.prefix_mode", cfg.Keybindings.PrefixMode, knownPrefixActions(), "")

	return r
}

func validateSection(r *ValidationResult, field string, binds map[string][]string, known map[string]bool, leader string) {
	// Iterate in a stable order so messages are deterministic
	actions := make([]string, 0, len(binds))
	for action := range binds {
		actions = append(actions, action)
	}
	sort.Strings(actions)

	owner := make(map[string]string)
	for _, action := range actions {
		if !known[action] {
			r.addWarning(field, action, "unknown action, binding ignored")
			continue
		}
		for _, key := range binds[action] {
			norm := hotkey.Normalize(key)
			if norm == "" {
				r.addError(field, action, "empty key")
				continue
			}
			if leader != "" && norm == leader {
				r.addError(field, action, "key %q is the leader key", key)
				continue
			}
			if prev, ok := owner[norm]; ok && prev != action {
				r.addError(field, action, "key %q is already bound to %s", key, prev)
				continue
			}
			owner[norm] = action
		}
	}
}
