package config

import (
	"log"

	"github.com/dodorz/contline/internal/theme"
)

// Overrides contains CLI flag values that can override user config.
// Zero values indicate the flag was not set and should use the user config default.
type Overrides struct {
	// BorderStyle overrides the pane border style
	BorderStyle string

	// Shell overrides the preferred shell
	Shell string

	// ThemeName is the theme to load
	ThemeName string

	// LogLevel overrides [log] level
	LogLevel string

	// Debug forces debug logging
	Debug bool
}

// ApplyOverrides applies CLI flag overrides to global config, falling back to user config defaults.
// If userConfig is nil, only CLI flag values (when set) are applied.
func ApplyOverrides(overrides Overrides, userConfig *UserConfig) {
	// Border Style - CLI flag takes precedence, otherwise use user config
	if overrides.BorderStyle != "" {
		BorderStyle = overrides.BorderStyle
	} else if userConfig != nil && userConfig.Appearance.BorderStyle != "" {
		BorderStyle = userConfig.Appearance.BorderStyle
	}

	// Shell - CLI flag takes precedence, otherwise use user config
	if overrides.Shell != "" {
		PreferredShell = overrides.Shell
	} else if userConfig != nil {
		PreferredShell = userConfig.Appearance.PreferredShell
	}

	// Hide Status Bar - only from user config
	if userConfig != nil {
		HideStatusBar = userConfig.Appearance.HideStatusBar
	}

	// Leader Key - only from user config
	if userConfig != nil && userConfig.Keybindings.LeaderKey != "" {
		LeaderKey = userConfig.Keybindings.LeaderKey
	}

	// Log level - --debug wins, then --log-level, then user config
	if userConfig != nil {
		switch {
		case overrides.Debug:
			userConfig.Log.Level = "debug"
		case overrides.LogLevel != "":
			userConfig.Log.Level = overrides.LogLevel
		}
	}

	// Theme - CLI flag takes precedence, otherwise use user config
	themeName := overrides.ThemeName
	if themeName == "" && userConfig != nil && userConfig.Appearance.Theme != "" {
		themeName = userConfig.Appearance.Theme
	}
	if themeName != "" {
		if err := theme.Initialize(themeName, ThemesDir()); err != nil {
			log.Printf("Warning: Failed to load theme '%s': %v", themeName, err)
		}
	}
}
