package sendtext

import "strings"

// DefaultText is sent when no custom text is configured: a space, a
// backslash and a newline.
const DefaultText = " \\\n"

// escapePasses are applied one after another over the whole string.
// The backslash pass must stay last.
var escapePasses = []struct{ token, value string }{
	{`\n`, "\n"},
	{`\t`, "\t"},
	{`\r`, "\r"},
	{`\\`, `\`},
}

// Expand replaces the escape tokens \n, \t, \r and \\ in raw. Each token is
// replaced by a separate full-text pass in that order, so `\\n` expands to a
// backslash followed by a newline.
func Expand(raw string) string {
	out := raw
	for _, p := range escapePasses {
		out = strings.ReplaceAll(out, p.token, p.value)
	}
	return out
}

// Preview renders raw for display: escaped backslashes are collapsed,
// newline and tab tokens become glyphs and spaces become middle dots.
// Control characters already present in raw are shown as glyphs as well.
func Preview(raw string) string {
	return previewReplacer.Replace(strings.ReplaceAll(raw, `\\`, `\`))
}

var previewReplacer = strings.NewReplacer(
	`\n`, "⏎",
	`\t`, "→",
	" ", "·",
	"\n", "⏎",
	"\t", "→",
	"\r", "␍",
)

// TextSource exposes the optionally configured custom text.
type TextSource interface {
	CustomText() (string, bool)
}

// EffectiveText returns the configured text, or DefaultText when the
// source is nil or the value is absent or empty.
func EffectiveText(src TextSource) string {
	if src == nil {
		return DefaultText
	}
	if text, ok := src.CustomText(); ok && text != "" {
		return text
	}
	return DefaultText
}
