// Package contline provides the contline host as a Bubble Tea model, for
// embedding in other programs or running standalone.
//
// # Basic Usage
//
//	model, err := contline.New()
//	if err != nil {
//		log.Fatal(err)
//	}
//	p := tea.NewProgram(model, contline.ProgramOptions()...)
//	if _, err := p.Run(); err != nil {
//		log.Fatal(err)
//	}
//	model.Cleanup()
//
// # Custom Configuration
//
//	model, err := contline.New(
//		contline.WithConfigPath("/tmp/contline.toml"),
//		contline.WithTheme("dracula"),
//		contline.WithShell("/bin/zsh"),
//	)
package contline

import (
	tea "charm.land/bubbletea/v2"

	"github.com/dodorz/contline/internal/app"
	"github.com/dodorz/contline/internal/config"
	"github.com/dodorz/contline/internal/input"
	"github.com/dodorz/contline/internal/logging"
)

// Model is the host model. It implements tea.Model.
type Model = app.Host

// Options configures a contline instance.
type Options struct {
	// ConfigPath is the config file to load and watch. Empty means the XDG
	// location.
	ConfigPath string

	// Theme is the color theme name (e.g., "dracula", "nord", "tokyonight").
	// Leave empty to use the theme from the config file.
	Theme string

	// BorderStyle overrides the pane border style.
	// Valid values: "rounded", "normal", "thick", "double", "hidden", "block", "ascii"
	BorderStyle string

	// Shell overrides the shell started in new panes.
	Shell string

	// Logger receives file logs. Nil discards them.
	Logger *logging.Logger

	// Width is the initial width (set automatically if 0).
	Width int

	// Height is the initial height (set automatically if 0).
	Height int
}

// Option is a functional option for configuring contline.
type Option func(*Options)

// WithConfigPath sets the config file.
func WithConfigPath(path string) Option {
	return func(o *Options) {
		o.ConfigPath = path
	}
}

// WithTheme sets the color theme.
func WithTheme(name string) Option {
	return func(o *Options) {
		o.Theme = name
	}
}

// WithBorderStyle sets the pane border style.
func WithBorderStyle(style string) Option {
	return func(o *Options) {
		o.BorderStyle = style
	}
}

// WithShell sets the shell started in new panes.
func WithShell(shell string) Option {
	return func(o *Options) {
		o.Shell = shell
	}
}

// WithLogger sets the file logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(o *Options) {
		o.Width = width
		o.Height = height
	}
}

// New creates a host model with the given options.
func New(opts ...Option) (*Model, error) {
	var options Options
	for _, opt := range opts {
		opt(&options)
	}

	store, err := config.OpenStore(options.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg := *store.Config()
	config.ApplyOverrides(config.Overrides{
		BorderStyle: options.BorderStyle,
		Shell:       options.Shell,
		ThemeName:   options.Theme,
	}, &cfg)

	app.SetInputHandler(input.HandleInput)

	h, err := app.New(app.Options{Store: store, Logger: options.Logger})
	if err != nil {
		return nil, err
	}
	h.Width, h.Height = options.Width, options.Height
	return h, nil
}

// ProgramOptions returns recommended tea.ProgramOption values for running
// contline:
//
//	p := tea.NewProgram(model, contline.ProgramOptions()...)
func ProgramOptions() []tea.ProgramOption {
	return []tea.ProgramOption{
		tea.WithFPS(config.NormalFPS),
	}
}

// Config re-exports config helpers without importing internal packages.
var Config = struct {
	// DefaultConfig returns the default configuration.
	DefaultConfig func() *config.UserConfig
	// GetConfigPath returns the path to the configuration file.
	GetConfigPath func() (string, error)
}{
	DefaultConfig: config.DefaultConfig,
	GetConfigPath: config.GetConfigPath,
}
