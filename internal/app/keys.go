package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/henri123lemoine/twig/internal/config"
)

// KeyMap defines all keybindings. Printable characters are never bound:
// they always type into the filter.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	NextTab  key.Binding

	// Actions
	Confirm        key.Binding
	Refresh        key.Binding
	Create         key.Binding
	Delete         key.Binding
	ForceDelete    key.Binding
	Log            key.Binding
	SwitchPrevious key.Binding
	Fetch          key.Binding

	// Filter
	ClearFilter key.Binding
	Erase       key.Binding

	// General
	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMapFromConfig(&config.DefaultConfig().Keys)
}

// KeyMapFromConfig creates a KeyMap from config settings. Empty settings
// fall back to the defaults.
func KeyMapFromConfig(cfg *config.KeysConfig) KeyMap {
	def := config.DefaultConfig().Keys
	bind := func(keys, fallback, desc string) key.Binding {
		if strings.TrimSpace(keys) == "" {
			keys = fallback
		}
		parsed := parseKeys(keys)
		return key.NewBinding(
			key.WithKeys(parsed...),
			key.WithHelp(strings.Join(parsed, "/"), desc),
		)
	}

	return KeyMap{
		Up:             bind(cfg.Up, def.Up, "up"),
		Down:           bind(cfg.Down, def.Down, "down"),
		PageUp:         bind(cfg.PageUp, def.PageUp, "page up"),
		PageDown:       bind(cfg.PageDown, def.PageDown, "page down"),
		Home:           bind(cfg.Home, def.Home, "first"),
		End:            bind(cfg.End, def.End, "last"),
		NextTab:        bind(cfg.NextTab, def.NextTab, "switch tab"),
		Confirm:        bind(cfg.Confirm, def.Confirm, "switch / track"),
		Refresh:        bind(cfg.Refresh, def.Refresh, "refresh"),
		Create:         bind(cfg.Create, def.Create, "create"),
		Delete:         bind(cfg.Delete, def.Delete, "delete"),
		ForceDelete:    bind(cfg.ForceDelete, def.ForceDelete, "force delete"),
		Log:            bind(cfg.Log, def.Log, "log"),
		SwitchPrevious: bind(cfg.SwitchPrevious, def.SwitchPrevious, "previous branch"),
		Fetch:          bind(cfg.Fetch, def.Fetch, "fetch"),
		ClearFilter:    bind(cfg.ClearFilter, def.ClearFilter, "clear filter"),
		Erase:          bind(cfg.Erase, def.Erase, "erase"),
		Quit:           bind(cfg.Quit, def.Quit, "quit"),
	}
}

// parseKeys parses a comma-separated list of keys.
func parseKeys(s string) []string {
	parts := strings.Split(s, ",")
	var keys []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			keys = append(keys, p)
		}
	}
	return keys
}

// HelpFor returns the bindings listed in the help line of tab, described
// for what they do there.
func (k KeyMap) HelpFor(tab Tab) []key.Binding {
	confirm, next := k.Confirm, k.NextTab
	if tab == TabRemote {
		confirm.SetHelp(confirm.Help().Key, "track")
		next.SetHelp(next.Help().Key, "local")
		return []key.Binding{confirm, k.Refresh, k.Log, next, k.Quit}
	}

	confirm.SetHelp(confirm.Help().Key, "switch")
	next.SetHelp(next.Help().Key, "remote")
	previous := k.SwitchPrevious
	previous.SetHelp(previous.Help().Key, "previous")
	return []key.Binding{confirm, k.Create, k.Delete, k.ForceDelete, k.Fetch, previous, k.Log, k.Refresh, next, k.Quit}
}
