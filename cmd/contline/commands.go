package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/dodorz/contline/internal/config"
	"github.com/dodorz/contline/internal/sendtext"
	"github.com/dodorz/contline/internal/theme"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func resolvedConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

func printThemes() error {
	for _, t := range theme.ListThemes(config.ThemesDir()) {
		fmt.Println(t)
	}
	return nil
}

func printConfigPath() error {
	path, err := resolvedConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	fmt.Println(path)
	return nil
}

func findEditor() string {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if editor := os.Getenv(env); editor != "" {
			return editor
		}
	}
	for _, editor := range []string{"vim", "vi", "nano", "emacs"} {
		if _, err := exec.LookPath(editor); err == nil {
			return editor
		}
	}
	return ""
}

func editConfigFile() error {
	// Make sure the file exists before the editor opens it
	store, err := config.OpenStore(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	editor := findEditor()
	if editor == "" {
		return fmt.Errorf("no editor found: set $EDITOR or $VISUAL")
	}

	// $EDITOR may carry arguments, e.g. "code --wait"
	parts := strings.Fields(editor)
	// #nosec G204 - the editor comes from the user's own environment
	cmd := exec.Command(parts[0], append(parts[1:], store.Path())...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor exited with error: %w", err)
	}

	if _, err := config.LoadUserConfigFrom(store.Path()); err != nil {
		fmt.Println(warnStyle.Render("Warning: the edited config does not load: " + err.Error()))
	}
	return nil
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func resetConfigToDefaults(force bool) error {
	path, err := resolvedConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if !force && !confirm(fmt.Sprintf("Overwrite %s with the defaults?", path)) {
		fmt.Println("Aborted")
		return nil
	}

	if err := config.SaveUserConfig(config.DefaultConfig(), path); err != nil {
		return err
	}
	fmt.Println(okStyle.Render("Configuration reset to defaults: " + path))
	return nil
}

func showConfig() error {
	path, err := resolvedConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	// #nosec G304 - path is the user's own config file
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	fmt.Println(mutedStyle.Render("# " + path))
	fmt.Print(string(data))

	cfg, err := config.LoadUserConfigFrom(path)
	if err != nil {
		return err
	}
	result := config.ValidateConfig(cfg)
	for _, w := range result.Warnings {
		fmt.Println(warnStyle.Render("warning: " + w.String()))
	}
	return nil
}

func setCustomText(text string) error {
	store, err := config.OpenStore(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if text == "" {
		return resetStoreText(store)
	}
	if err := store.SetCustomText(text); err != nil {
		return err
	}
	fmt.Printf("%s %s\n", okStyle.Render("✓ Custom text set:"), sendtext.Preview(text))
	return nil
}

func resetCustomText() error {
	store, err := config.OpenStore(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return resetStoreText(store)
}

func resetStoreText(store *config.Store) error {
	if err := store.ResetCustomText(); err != nil {
		return err
	}
	fmt.Printf("%s %s\n", okStyle.Render("✓ Reset to default:"), sendtext.Preview(sendtext.DefaultText))
	return nil
}

func label(s string) string {
	return headerStyle.Render(fmt.Sprintf("%-8s", s))
}

func showCustomText() error {
	store, err := config.OpenStore(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	registry := config.NewKeybindRegistry(store.Config())
	keys := registry.GetKeysForDisplay(config.ActionSendText)
	if keys == "" {
		keys = "unbound"
	}

	raw, ok := store.CustomText()
	source := "custom"
	if !ok || raw == "" {
		source = "default"
	}
	effective := sendtext.EffectiveText(store)

	fmt.Printf("%s %s\n", label("Source:"), source)
	if source == "custom" {
		fmt.Printf("%s %q\n", label("Raw:"), raw)
	}
	fmt.Printf("%s %s\n", label("Preview:"), sendtext.Preview(effective))
	fmt.Printf("%s %q\n", label("Sends:"), sendtext.Expand(effective))
	fmt.Printf("%s %s\n", label("Hotkey:"), keys)
	return nil
}

func previewText(args []string) error {
	var raw string
	if len(args) > 0 {
		raw = args[0]
	} else {
		store, err := config.OpenStore(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		raw = sendtext.EffectiveText(store)
	}
	fmt.Printf("%s\n%q\n", sendtext.Preview(raw), sendtext.Expand(raw))
	return nil
}

func listKeybindings() error {
	store, err := config.OpenStore(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	registry := config.NewKeybindRegistry(store.Config())

	fmt.Println(headerStyle.Render("Leader key: " + registry.LeaderDisplay()))
	for _, section := range config.GetKeybindings(registry) {
		rows := make([][]string, 0, len(section.Bindings))
		for _, b := range section.Bindings {
			rows = append(rows, []string{b.Key, b.Description})
		}
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(mutedStyle).
			Headers("Key", "Action").
			Rows(rows...)

		fmt.Println()
		if section.Title != "" {
			fmt.Println(headerStyle.Render(section.Title))
		}
		fmt.Println(t.String())
	}
	return nil
}
