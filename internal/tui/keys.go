package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Filters
	NextCategory key.Binding
	PrevCategory key.Binding
	Genre        key.Binding
	ClearGenre   key.Binding
	Search       key.Binding
	Escape       key.Binding

	// Actions
	Enter           key.Binding
	More            key.Binding
	Refresh         key.Binding
	ToggleInspector key.Binding
	InfoUp          key.Binding
	InfoDown        key.Binding
	Help            key.Binding
	Quit            key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextCategory: key.NewBinding(
			key.WithKeys("tab", "c"),
			key.WithHelp("tab/c", "next category"),
		),
		PrevCategory: key.NewBinding(
			key.WithKeys("shift+tab", "C"),
			key.WithHelp("S-tab/C", "previous category"),
		),
		Genre: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "genre"),
		),
		ClearGenre: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear genre"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear search"),
		),

		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details/load more"),
		),
		More: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "load more"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		ToggleInspector: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "toggle info"),
		),
		InfoUp: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "scroll info up"),
		),
		InfoDown: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "scroll info down"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()

// helpBindings lists the bindings shown in the help overlay, in order
func helpBindings() []key.Binding {
	k := Keys
	return []key.Binding{
		k.NextCategory, k.PrevCategory, k.Genre, k.ClearGenre, k.Search, k.Escape,
		k.Enter, k.More, k.Refresh, k.ToggleInspector, k.InfoUp, k.InfoDown, k.Help, k.Quit,
	}
}
