// Package main implements contline, a small terminal multiplexer whose one
// trick is typing a configurable line continuation (by default a space, a
// backslash and a newline) into the focused pane on a single hotkey.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	configPath  string
	debugMode   bool
	logLevel    string
	themeName   string
	listThemes  bool
	borderStyle string
	shellPath   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "contline",
		Short: "Line continuation on a hotkey",
		Long: `contline - line continuation on a hotkey

Runs your shell in tabs and split panes. Pressing the send-text hotkey
(shift+enter by default) types the configured text into the focused pane,
which out of the box is " \" followed by a newline.`,
		Example: `  # Run contline
  contline

  # Run with debug logging
  contline --debug

  # Run with a specific theme and shell
  contline --theme dracula --shell /bin/zsh

  # List all available themes
  contline --list-themes

  # Change the text sent by the hotkey
  contline text set ' && \\n'

  # Edit the text interactively
  contline settings

  # List all keybindings
  contline keybinds list`,
		Version: version,
		RunE: func(_ *cobra.Command, _ []string) error {
			if listThemes {
				return printThemes()
			}
			return runLocal()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default: $XDG_CONFIG_HOME/contline/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "File log level: off, debug, info, warn, error (default: from config or off)")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "Color theme to use (e.g., dracula, nord, tokyonight). Leave empty to use standard terminal colors without theming")
	rootCmd.PersistentFlags().BoolVar(&listThemes, "list-themes", false, "List all available themes and exit")
	rootCmd.PersistentFlags().StringVar(&borderStyle, "border-style", "", "Pane border style: rounded, normal, thick, double, hidden, block, ascii, outer-half-block, inner-half-block (default: from config or rounded)")
	rootCmd.PersistentFlags().StringVar(&shellPath, "shell", "", "Shell to start in new panes (default: from config, then $SHELL)")

	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Edit the send-text settings",
		Long: `Open the send-text settings form on its own

Every change is saved immediately. A running contline picks the new text up
without a restart.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runSettings()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage contline configuration",
		Long:  `Manage the contline configuration file and settings`,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		Long:  `Print the path to the contline configuration file`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return printConfigPath()
		},
	}

	configEditCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		Long: `Open the contline configuration file in your default editor

The editor is determined by checking $EDITOR, $VISUAL, or common editors
like vim, vi, nano, and emacs in that order.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return editConfigFile()
		},
	}

	var resetForce bool
	configResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		Long: `Reset the contline configuration file to default settings

This will overwrite your existing configuration after confirmation.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return resetConfigToDefaults(resetForce)
		},
	}
	configResetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Skip the confirmation prompt")

	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the configuration file",
		Long:  `Print the configuration file and report validation problems`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return showConfig()
		},
	}

	configCmd.AddCommand(configPathCmd, configEditCmd, configResetCmd, configShowCmd)

	textCmd := &cobra.Command{
		Use:   "text",
		Short: "Manage the text sent by the hotkey",
		Long: `Manage the text the send-text hotkey types into the focused pane

The text may use the escapes \n (newline), \t (tab), \r (carriage return)
and \\ (backslash). An unset text means the default " \" plus newline.`,
	}

	textSetCmd := &cobra.Command{
		Use:   "set <text>",
		Short: "Set the custom text",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return setCustomText(args[0])
		},
	}

	textResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Go back to the default text",
		RunE: func(_ *cobra.Command, _ []string) error {
			return resetCustomText()
		},
	}

	textShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the text the hotkey sends",
		RunE: func(_ *cobra.Command, _ []string) error {
			return showCustomText()
		},
	}

	textPreviewCmd := &cobra.Command{
		Use:   "preview [text]",
		Short: "Preview how a text is shown and what it expands to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return previewText(args)
		},
	}

	textCmd.AddCommand(textSetCmd, textResetCmd, textShowCmd, textPreviewCmd)

	keybindsCmd := &cobra.Command{
		Use:     "keybinds",
		Aliases: []string{"keys", "kb"},
		Short:   "View keybinding configuration",
		Long:    `View and inspect contline keybinding configuration`,
	}

	keybindsListCmd := &cobra.Command{
		Use:   "list",
		Short: "List all keybindings",
		Long:  `Display all configured keybindings in a formatted table`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return listKeybindings()
		},
	}

	keybindsCmd.AddCommand(keybindsListCmd)

	rootCmd.AddCommand(settingsCmd, configCmd, textCmd, keybindsCmd)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}
