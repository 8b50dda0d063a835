package hotkey

import "strings"

// modifierOrder is the canonical order modifiers appear in a normalized key.
var modifierOrder = []string{"ctrl", "alt", "shift", "meta", "hyper", "super"}

var modifierAliases = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	"alt":     "alt",
	"opt":     "alt",
	"option":  "alt",
	"shift":   "shift",
	"meta":    "meta",
	"hyper":   "hyper",
	"super":   "super",
	"cmd":     "super",
	"command": "super",
	"win":     "super",
}

var keyAliases = map[string]string{
	"return":   "enter",
	"escape":   "esc",
	"spacebar": "space",
	" ":        "space",
	"del":      "delete",
	"ins":      "insert",
	"pageup":   "pgup",
	"pgdn":     "pgdown",
	"pagedown": "pgdown",
}

// Normalize turns a user-written key such as "Shift-Enter" or "cmd+opt+k"
// into the form Bubble Tea reports for a key press: lower case, "+" between
// parts, modifiers first in a fixed order. A trailing "+" is the plus key
// itself, so "ctrl++" is ctrl and plus.
//
// Single printable characters keep their case: "M" stays "M".
func Normalize(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if key == "+" || key == "-" {
		return key
	}

	parts := splitKey(key)
	if len(parts) == 0 {
		return ""
	}

	base := parts[len(parts)-1]
	mods := make(map[string]bool, len(parts)-1)
	for _, p := range parts[:len(parts)-1] {
		if m, ok := modifierAliases[strings.ToLower(p)]; ok {
			mods[m] = true
		}
	}

	if len([]rune(base)) > 1 {
		base = strings.ToLower(base)
		if alias, ok := keyAliases[base]; ok {
			base = alias
		}
	}

	var sb strings.Builder
	for _, m := range modifierOrder {
		if mods[m] {
			sb.WriteString(m)
			sb.WriteByte('+')
		}
	}
	sb.WriteString(base)
	return sb.String()
}

// splitKey splits on "+" or "-" separators while keeping a literal "+" or
// "-" as the final key.
func splitKey(key string) []string {
	sep := "+"
	if !strings.Contains(key, "+") && strings.Contains(key[:len(key)-1], "-") {
		sep = "-"
	}

	var trailing string
	if strings.HasSuffix(key, sep+sep) {
		trailing = sep
		key = key[:len(key)-2]
	}

	var parts []string
	for p := range strings.SplitSeq(key, sep) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if trailing != "" {
		parts = append(parts, trailing)
	}
	return parts
}

// NormalizeAll normalizes every key and drops empty results.
func NormalizeAll(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if n := Normalize(k); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Display renders a normalized key for help text: "shift+enter" becomes
// "Shift+Enter".
func Display(key string) string {
	if key == "+" || len([]rune(key)) == 1 {
		return key
	}
	parts := splitKey(key)
	for i, p := range parts {
		if len([]rune(p)) > 1 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "+")
}
