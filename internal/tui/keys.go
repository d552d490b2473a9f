package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Play        key.Binding
	Pause       key.Binding
	Next        key.Binding
	Prev        key.Binding
	AutoPlay    key.Binding
	Shuffle     key.Binding
	PlayGrid    key.Binding
	ShuffleGrid key.Binding
	Filter      key.Binding
	Favorite    key.Binding
	Loop        key.Binding
	Forward     key.Binding
	Back        key.Binding
	Exit        key.Binding
	Help        key.Binding
	Quit        key.Binding
}

var defaultKeys = keyMap{
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Play:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
	Pause:       key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "pause")),
	Next:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
	Prev:        key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev")),
	AutoPlay:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "autoplay")),
	Shuffle:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shuffle")),
	PlayGrid:    key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "play grid")),
	ShuffleGrid: key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "shuffle grid")),
	Filter:      key.NewBinding(key.WithKeys("tab", "f"), key.WithHelp("f", "filter")),
	Favorite:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "favorite")),
	Loop:        key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "loop on/off")),
	Forward:     key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "+10s")),
	Back:        key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "-10s")),
	Exit:        key.NewBinding(key.WithKeys("x", "esc"), key.WithHelp("x", "exit player")),
	Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Pause, k.Next, k.AutoPlay, k.Filter, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Play, k.Favorite, k.Filter},
		{k.Pause, k.Forward, k.Back, k.Next, k.Prev, k.Exit},
		{k.AutoPlay, k.Shuffle, k.PlayGrid, k.ShuffleGrid, k.Loop},
		{k.Help, k.Quit},
	}
}
