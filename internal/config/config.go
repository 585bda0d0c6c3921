// Package config handles twig configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config represents twig configuration.
type Config struct {
	General GeneralConfig `toml:"general"`
	Log     LogConfig     `toml:"log"`
	Filter  FilterConfig  `toml:"filter"`
	Cache   CacheConfig   `toml:"cache"`
	UI      UIConfig      `toml:"ui"`
	Keys    KeysConfig    `toml:"keys"`
}

// GeneralConfig contains general settings.
type GeneralConfig struct {
	// Tab shown at startup: "local" or "remote"
	StartTab string `toml:"start_tab"`

	// git executable to run
	GitBinary string `toml:"git_binary"`
}

// LogConfig controls how `git log` is opened for a branch.
type LogConfig struct {
	// Where the log opens: "auto" (detect tmux/zellij), "tmux", "zellij",
	// or "none" (suspend twig and run it in this terminal)
	Surface string `toml:"surface"`

	// Open the log in a floating pane (tmux popup, zellij floating pane)
	// instead of a split.
	Floating bool `toml:"floating"`

	// Extra arguments placed between `git log` and the branch name
	Args []string `toml:"args"`
}

// FilterConfig contains settings for the branch filter.
type FilterConfig struct {
	// Matcher used to rank branches: "fuzzy" or "fold"
	Ranker string `toml:"ranker"`
}

// CacheConfig contains settings for the listing cache.
type CacheConfig struct {
	// Show the last listing immediately on startup while git runs
	Enabled bool `toml:"enabled"`
}

// UIConfig contains UI settings.
type UIConfig struct {
	// Show the upstream column in the local tab
	ShowUpstream bool `toml:"show_upstream"`

	// Show commit shas
	ShowSHA bool `toml:"show_sha"`
}

// KeysConfig contains keybinding settings.
type KeysConfig struct {
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	PageUp         string `toml:"page_up"`
	PageDown       string `toml:"page_down"`
	Home           string `toml:"home"`
	End            string `toml:"end"`
	Confirm        string `toml:"confirm"`
	NextTab        string `toml:"next_tab"`
	Refresh        string `toml:"refresh"`
	Create         string `toml:"create"`
	Delete         string `toml:"delete"`
	ForceDelete    string `toml:"force_delete"`
	Log            string `toml:"log"`
	SwitchPrevious string `toml:"switch_previous"`
	Fetch          string `toml:"fetch"`
	ClearFilter    string `toml:"clear_filter"`
	Erase          string `toml:"erase"`
	Quit           string `toml:"quit"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			StartTab:  "local",
			GitBinary: "git",
		},
		Log: LogConfig{
			Surface:  "auto",
			Floating: false,
			Args:     []string{},
		},
		Filter: FilterConfig{
			Ranker: "fuzzy",
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		UI: UIConfig{
			ShowUpstream: true,
			ShowSHA:      true,
		},
		Keys: KeysConfig{
			Up:             "up,ctrl+k",
			Down:           "down,ctrl+j",
			PageUp:         "pgup",
			PageDown:       "pgdown",
			Home:           "home",
			End:            "end",
			Confirm:        "enter",
			NextTab:        "tab",
			Refresh:        "ctrl+r",
			Create:         "ctrl+n",
			Delete:         "ctrl+d",
			ForceDelete:    "ctrl+x",
			Log:            "ctrl+l",
			SwitchPrevious: "ctrl+p",
			Fetch:          "ctrl+f",
			ClearFilter:    "ctrl+u",
			Erase:          "backspace",
			Quit:           "esc,ctrl+c",
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses ~/.config/twig/config.toml (XDG style) on all Unix systems.
func ConfigPath() string {
	// Respect XDG_CONFIG_HOME if set
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "twig", "config.toml")
	}
	// Default to ~/.config on Unix (including macOS)
	home := os.Getenv("HOME")
	if home != "" {
		return filepath.Join(home, ".config", "twig", "config.toml")
	}
	// Fallback to os.UserConfigDir() for Windows
	configDir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "twig", "config.toml")
	}
	return filepath.Join(configDir, "twig", "config.toml")
}

// Load loads configuration from the config file.
func Load() (*Config, error) {
	return LoadFromPath(ConfigPath())
}

// LoadFromPath loads configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file, use defaults
			return cfg, nil
		}
		return nil, err
	}

	// go-toml/v2 only overwrites fields present in the file, so defaults
	// survive for everything left unspecified (including booleans).
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// CreateDefaultConfigFile writes a commented default config file to path.
// An existing file is left alone.
func CreateDefaultConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(generateDefaultConfigContent()), 0644)
}

// generateDefaultConfigContent generates a commented config file.
func generateDefaultConfigContent() string {
	var b strings.Builder
	cfg := DefaultConfig()

	b.WriteString("# twig configuration\n\n")

	b.WriteString("[general]\n")
	b.WriteString("# Tab shown at startup: \"local\" or \"remote\"\n")
	fmt.Fprintf(&b, "start_tab = %q\n", cfg.General.StartTab)
	b.WriteString("# git executable\n")
	fmt.Fprintf(&b, "git_binary = %q\n\n", cfg.General.GitBinary)

	b.WriteString("[log]\n")
	b.WriteString("# Where to open `git log`: \"auto\", \"tmux\", \"zellij\" or \"none\" (this terminal)\n")
	fmt.Fprintf(&b, "surface = %q\n", cfg.Log.Surface)
	b.WriteString("# Open `git log` in a floating pane (tmux popup / zellij floating pane)\n")
	fmt.Fprintf(&b, "floating = %v\n", cfg.Log.Floating)
	b.WriteString("# Extra arguments for `git log`, placed before the branch name\n")
	b.WriteString("# args = [\"--oneline\", \"--graph\", \"--decorate\"]\n\n")

	b.WriteString("[filter]\n")
	b.WriteString("# Branch matcher: \"fuzzy\" (word-aware scoring) or \"fold\" (case-folded, by edit distance)\n")
	fmt.Fprintf(&b, "ranker = %q\n\n", cfg.Filter.Ranker)

	b.WriteString("[cache]\n")
	b.WriteString("# Show the previous listing instantly while git runs\n")
	fmt.Fprintf(&b, "enabled = %v\n\n", cfg.Cache.Enabled)

	b.WriteString("[ui]\n")
	fmt.Fprintf(&b, "show_upstream = %v\n", cfg.UI.ShowUpstream)
	fmt.Fprintf(&b, "show_sha = %v\n\n", cfg.UI.ShowSHA)

	b.WriteString("[keys]\n")
	b.WriteString("# Keybindings (comma-separated for multiple keys)\n")
	fmt.Fprintf(&b, "# up = %q\n", cfg.Keys.Up)
	fmt.Fprintf(&b, "# down = %q\n", cfg.Keys.Down)
	fmt.Fprintf(&b, "# confirm = %q\n", cfg.Keys.Confirm)
	fmt.Fprintf(&b, "# next_tab = %q\n", cfg.Keys.NextTab)
	fmt.Fprintf(&b, "# refresh = %q\n", cfg.Keys.Refresh)
	fmt.Fprintf(&b, "# create = %q\n", cfg.Keys.Create)
	fmt.Fprintf(&b, "# delete = %q\n", cfg.Keys.Delete)
	fmt.Fprintf(&b, "# force_delete = %q\n", cfg.Keys.ForceDelete)
	fmt.Fprintf(&b, "# log = %q\n", cfg.Keys.Log)
	fmt.Fprintf(&b, "# switch_previous = %q\n", cfg.Keys.SwitchPrevious)
	fmt.Fprintf(&b, "# fetch = %q\n", cfg.Keys.Fetch)
	fmt.Fprintf(&b, "# quit = %q\n", cfg.Keys.Quit)

	return b.String()
}

// Validate validates the configuration and returns warnings.
func (c *Config) Validate() []string {
	var warnings []string

	if c.General.StartTab != "" &&
		c.General.StartTab != "local" &&
		c.General.StartTab != "remote" {
		warnings = append(warnings, fmt.Sprintf("Invalid value for general.start_tab: %s (expected local or remote)", c.General.StartTab))
	}

	if c.Filter.Ranker != "" &&
		c.Filter.Ranker != "fuzzy" &&
		c.Filter.Ranker != "fold" {
		warnings = append(warnings, fmt.Sprintf("Invalid value for filter.ranker: %s (expected fuzzy or fold)", c.Filter.Ranker))
	}

	switch c.Log.Surface {
	case "", "auto", "tmux", "zellij", "none":
	default:
		warnings = append(warnings, fmt.Sprintf("Invalid value for log.surface: %s (expected auto, tmux, zellij or none)", c.Log.Surface))
	}

	for i, arg := range c.Log.Args {
		if strings.TrimSpace(arg) == "" {
			warnings = append(warnings, fmt.Sprintf("log.args[%d] is empty", i))
		}
	}

	// Printable single characters always go to the filter, so they can't be bindings.
	for _, b := range c.Keys.bindings() {
		for _, k := range strings.Split(b.keys, ",") {
			k = strings.TrimSpace(k)
			if len([]rune(k)) == 1 && k != " " {
				warnings = append(warnings, fmt.Sprintf("keys.%s: %q would shadow typing into the filter", b.name, k))
			}
		}
	}

	return warnings
}

type namedKeys struct {
	name string // TOML key under [keys]
	keys string
}

// bindings lists the key settings in config file order.
func (k KeysConfig) bindings() []namedKeys {
	return []namedKeys{
		{"up", k.Up},
		{"down", k.Down},
		{"page_up", k.PageUp},
		{"page_down", k.PageDown},
		{"home", k.Home},
		{"end", k.End},
		{"confirm", k.Confirm},
		{"next_tab", k.NextTab},
		{"refresh", k.Refresh},
		{"create", k.Create},
		{"delete", k.Delete},
		{"force_delete", k.ForceDelete},
		{"log", k.Log},
		{"switch_previous", k.SwitchPrevious},
		{"fetch", k.Fetch},
		{"clear_filter", k.ClearFilter},
		{"erase", k.Erase},
		{"quit", k.Quit},
	}
}
