package config

// Keybinding represents a single keybinding entry
type Keybinding struct {
	Key         string
	Description string
}

// KeybindingSection represents a section of related keybindings
type KeybindingSection struct {
	Title    string
	Bindings []Keybinding
}

// HotkeyDescription declares a hotkey action the host understands.
type HotkeyDescription struct {
	ID          string
	Name        string
	Description string
}

// HotkeyDescriptions returns the direct hotkeys, in help order.
func HotkeyDescriptions() []HotkeyDescription {
	return []HotkeyDescription{
		{
			ID:          ActionSendText,
			Name:        "Send configured custom text",
			Description: "Types the configured text into the focused pane (default: space, backslash, newline)",
		},
		{ID: "next_tab", Name: "Next tab", Description: "Switch to the next tab"},
		{ID: "prev_tab", Name: "Previous tab", Description: "Switch to the previous tab"},
	}
}

// prefixDescriptions are the prefix-mode actions, in help order.
var prefixDescriptions = []HotkeyDescription{
	{ID: "prefix_new_tab", Name: "New tab"},
	{ID: "prefix_close_pane", Name: "Close pane"},
	{ID: "prefix_next_tab", Name: "Next tab"},
	{ID: "prefix_prev_tab", Name: "Previous tab"},
	{ID: "prefix_split_horizontal", Name: "Split horizontal (top/bottom)"},
	{ID: "prefix_split_vertical", Name: "Split vertical (left/right)"},
	{ID: "prefix_focus_next", Name: "Focus next pane"},
	{ID: "prefix_focus_prev", Name: "Focus previous pane"},
	{ID: "prefix_send_text", Name: "Send configured custom text"},
	{ID: "prefix_settings", Name: "Send-text settings"},
	{ID: "prefix_logs", Name: "Toggle log viewer"},
	{ID: "prefix_help", Name: "Toggle help"},
	{ID: "prefix_quit", Name: "Quit"},
}

// PrefixDescriptions returns the prefix-mode actions, in help order.
func PrefixDescriptions() []HotkeyDescription {
	out := make([]HotkeyDescription, len(prefixDescriptions))
	copy(out, prefixDescriptions)
	return out
}

func knownHotkeyActions() map[string]bool {
	known := make(map[string]bool)
	for _, d := range HotkeyDescriptions() {
		known[d.ID] = true
	}
	return known
}

func knownPrefixActions() map[string]bool {
	known := make(map[string]bool)
	for _, d := range prefixDescriptions {
		known[d.ID] = true
	}
	return known
}

// GetKeybindings returns all keybinding sections for the help menu
// If registry is provided, it generates bindings dynamically from user config
// If registry is nil, it falls back to the defaults
func GetKeybindings(registry *KeybindRegistry) []KeybindingSection {
	if registry == nil {
		registry = NewKeybindRegistry(DefaultConfig())
	}

	hotkeys := KeybindingSection{Title: "HOTKEYS"}
	for _, d := range HotkeyDescriptions() {
		addBinding(&hotkeys, registry.GetKeysForDisplay(d.ID), d.Name)
	}

	prefix := KeybindingSection{Title: "PREFIX (" + registry.LeaderDisplay() + ")"}
	for _, d := range prefixDescriptions {
		addBinding(&prefix, registry.GetPrefixKeysForDisplay(d.ID), d.Name)
	}
	addBinding(&prefix, registry.LeaderDisplay(), "Send literal "+registry.LeaderDisplay())

	sections := []KeybindingSection{}
	for _, s := range []KeybindingSection{hotkeys, prefix} {
		if len(s.Bindings) > 0 {
			sections = append(sections, s)
		}
	}
	return append(sections, getStaticHelpSections()...)
}

// addBinding adds a keybinding to a section if the action has keys configured
func addBinding(section *KeybindingSection, keys, description string) {
	if keys != "" {
		section.Bindings = append(section.Bindings, Keybinding{
			Key:         keys,
			Description: description,
		})
	}
}

// getStaticHelpSections returns help sections that don't need dynamic binding info
func getStaticHelpSections() []KeybindingSection {
	return []KeybindingSection{
		{
			Title: "OVERLAYS:",
			Bindings: []Keybinding{
				{"Esc", "Close help, logs or settings"},
				{"q", "Close help or logs"},
				{"↑/↓, j/k", "Scroll log viewer"},
			},
		},
		{
			Title: "SETTINGS:",
			Bindings: []Keybinding{
				{"Ctrl+R", "Reset custom text to default"},
				{"←/→, Home/End", "Move cursor"},
			},
		},
		{
			Title: "",
			Bindings: []Keybinding{
				{"Ctrl+C", "Passed to the focused pane"},
			},
		},
	}
}
