package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// configRelPath is the config file location relative to the XDG config home.
const configRelPath = "contline/config.toml"

// UserConfig represents the user's custom configuration
type UserConfig struct {
	SendText    SendTextConfig    `toml:"send_text"`
	Appearance  AppearanceConfig  `toml:"appearance"`
	Keybindings KeybindingsConfig `toml:"keybindings"`
	Log         LogConfig         `toml:"log"`
}

// SendTextConfig holds the text sent by the send_text hotkey
type SendTextConfig struct {
	// CustomText is the raw text with \n, \t, \r and \\ escapes. Nil or empty
	// means the built-in default is sent.
	CustomText *string `toml:"custom_text,omitempty"`
}

// AppearanceConfig holds appearance-related settings
type AppearanceConfig struct {
	BorderStyle    string `toml:"border_style"`    // Border style: rounded, normal, thick, double, hidden, block, ascii, outer-half-block, inner-half-block
	Theme          string `toml:"theme"`           // Color theme name (e.g., dracula, nord, my-custom-theme)
	PreferredShell string `toml:"preferred_shell"` // Preferred shell: if empty, auto-detect based on platform.
	HideStatusBar  bool   `toml:"hide_status_bar"` // Hide the bottom status bar (default: false)
}

// KeybindingsConfig holds all keybinding configurations
type KeybindingsConfig struct {
	LeaderKey  string              `toml:"leader_key"` // Leader key for prefix commands (default: ctrl+b)
	Hotkeys    map[string][]string `toml:"hotkeys"`    // Direct keybinds that work without the prefix key
	PrefixMode map[string][]string `toml:"prefix_mode"`
}

// LogConfig holds file logging settings
type LogConfig struct {
	Level string `toml:"level"` // off, debug, info, warn, error (default: off)
	File  string `toml:"file"`  // Log file path (default: $XDG_STATE_HOME/contline/contline.log)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *UserConfig {
	return &UserConfig{
		Appearance: AppearanceConfig{
			BorderStyle:    "rounded",
			PreferredShell: "",
		},
		Keybindings: KeybindingsConfig{
			LeaderKey: "ctrl+b",
			Hotkeys: map[string][]string{
				ActionSendText: {DefaultSendTextKey},
				"next_tab":     {"alt+n"},
				"prev_tab":     {"alt+p"},
			},
			PrefixMode: map[string][]string{
				"prefix_new_tab":          {"c"},
				"prefix_close_pane":       {"x"},
				"prefix_next_tab":         {"n"},
				"prefix_prev_tab":         {"p"},
				"prefix_split_horizontal": {"-"},
				"prefix_split_vertical":   {"|", "\\"},
				"prefix_focus_next":       {"o", "tab"},
				"prefix_focus_prev":       {"shift+tab"},
				"prefix_settings":         {"s"},
				"prefix_logs":             {"l"},
				"prefix_help":             {"?"},
				"prefix_send_text":        {"enter"},
				"prefix_quit":             {"q"},
			},
		},
		Log: LogConfig{
			Level: "off",
		},
	}
}

// CustomTextValue returns the configured custom text and whether it is set.
func (c *UserConfig) CustomTextValue() (string, bool) {
	if c == nil || c.SendText.CustomText == nil {
		return "", false
	}
	return *c.SendText.CustomText, true
}

// LoadUserConfig loads the user configuration from XDG config directory
func LoadUserConfig() (*UserConfig, error) {
	// Try to find existing config file
	configPath, err := xdg.SearchConfigFile(configRelPath)
	if err != nil {
		// Config doesn't exist, create default
		return createDefaultConfig()
	}
	return LoadUserConfigFrom(configPath)
}

// LoadUserConfigFrom loads, fills and validates the config file at path.
func LoadUserConfigFrom(configPath string) (*UserConfig, error) {
	// #nosec G304 - configPath is from XDG search or an explicit flag, reading user config is intentional
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := parseUserConfig(data)
	if err != nil {
		return nil, err
	}

	validation := ValidateConfig(cfg)
	if validation.HasErrors() {
		return nil, validation.Err()
	}
	return cfg, nil
}

// parseUserConfig decodes data and fills in missing sections with defaults.
func parseUserConfig(data []byte) (*UserConfig, error) {
	var cfg UserConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	defaultCfg := DefaultConfig()
	fillMissingAppearance(&cfg, defaultCfg)
	fillMissingLog(&cfg, defaultCfg)
	fillMissingKeybinds(&cfg, defaultCfg)
	return &cfg, nil
}

// createDefaultConfig creates a default config file in the user's config directory
func createDefaultConfig() (*UserConfig, error) {
	cfg := DefaultConfig()

	// Get config file path
	configPath, err := xdg.ConfigFile(configRelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	if err := SaveUserConfig(cfg, configPath); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveUserConfig writes cfg to path with the documented header, creating the
// directory when needed.
func SaveUserConfig(cfg *UserConfig, configPath string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal config to TOML
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	writeConfigHeader(&sb, configPath)
	sb.Write(data)

	// Write to a sibling file first so a watcher never sees a half-written config
	tmp := configPath + ".tmp"
	if err := os.WriteFile(tmp, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmp, configPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace config file: %w", err)
	}
	return nil
}

func writeConfigHeader(sb *strings.Builder, configPath string) {
	sb.WriteString("# contline Configuration File\n")
	sb.WriteString("# This file sets the send-text hotkey, appearance and keybindings\n")
	sb.WriteString("#\n")
	sb.WriteString("# Configuration location: " + configPath + "\n")
	sb.WriteString("# For keybindings documentation, run: contline keybinds list\n\n")

	sb.WriteString("# ============================================================================\n")
	sb.WriteString("# SEND TEXT\n")
	sb.WriteString("# ============================================================================\n")
	sb.WriteString("# custom_text: Text sent to the focused pane by the send_text hotkey\n")
	sb.WriteString("#   Escapes: \\n newline, \\t tab, \\r carriage return, \\\\ backslash\n")
	sb.WriteString("#   Default: (unset) sends a space, a backslash and a newline\n")
	sb.WriteString("#\n")
	sb.WriteString("# ============================================================================\n")
	sb.WriteString("# APPEARANCE SETTINGS\n")
	sb.WriteString("# ============================================================================\n")
	sb.WriteString("# border_style: Pane border style\n")
	sb.WriteString("#   Options: " + strings.Join(BorderStyles, ", ") + "\n")
	sb.WriteString("#   Default: rounded\n")
	sb.WriteString("#\n")
	sb.WriteString("# theme: Color theme name (e.g., dracula, nord, my-custom-theme)\n")
	sb.WriteString("#   Leave empty to use standard terminal colors.\n")
	sb.WriteString("#   CLI flag --theme overrides this. Custom themes: ~/.config/contline/themes/*.toml\n")
	sb.WriteString("#\n")
	sb.WriteString("# preferred_shell: Shell started in new panes (empty: $SHELL, then platform default)\n")
	sb.WriteString("#\n")
	sb.WriteString("# ============================================================================\n")
	sb.WriteString("# LOGGING\n")
	sb.WriteString("# ============================================================================\n")
	sb.WriteString("# level: off, debug, info, warn, error (default: off)\n")
	sb.WriteString("# file: log file path (default: $XDG_STATE_HOME/contline/contline.log)\n")
	sb.WriteString("# ============================================================================\n\n")
}

// fillMissingAppearance fills in any missing appearance settings with defaults
func fillMissingAppearance(cfg, defaultCfg *UserConfig) {
	if cfg.Appearance.BorderStyle == "" {
		cfg.Appearance.BorderStyle = defaultCfg.Appearance.BorderStyle
	}
}

// fillMissingLog fills in any missing log settings with defaults
func fillMissingLog(cfg, defaultCfg *UserConfig) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultCfg.Log.Level
	}
	// File defaults to empty (use XDG state path), so we don't override it
}

// fillMissingKeybinds fills in any missing keybindings with defaults
func fillMissingKeybinds(cfg, defaultCfg *UserConfig) {
	if cfg.Keybindings.Hotkeys == nil {
		cfg.Keybindings.Hotkeys = make(map[string][]string)
	}
	if cfg.Keybindings.PrefixMode == nil {
		cfg.Keybindings.PrefixMode = make(map[string][]string)
	}

	// Set default leader key if not specified
	if cfg.Keybindings.LeaderKey == "" {
		cfg.Keybindings.LeaderKey = defaultCfg.Keybindings.LeaderKey
	}

	fillMapDefaults(cfg.Keybindings.Hotkeys, defaultCfg.Keybindings.Hotkeys)
	fillMapDefaults(cfg.Keybindings.PrefixMode, defaultCfg.Keybindings.PrefixMode)
}

func fillMapDefaults(target, defaults map[string][]string) {
	for k, v := range defaults {
		if _, exists := target[k]; !exists {
			target[k] = v
		}
	}
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	path, err := xdg.SearchConfigFile(configRelPath)
	if err != nil {
		// Return where it would be created
		return xdg.ConfigFile(configRelPath)
	}
	return path, nil
}

// ThemesDir returns the directory custom theme files are read from.
func ThemesDir() string {
	return filepath.Join(xdg.ConfigHome, "contline", "themes")
}

// DefaultLogPath returns the log file used when [log] file is empty.
func DefaultLogPath() (string, error) {
	return xdg.StateFile("contline/contline.log")
}
