package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next        key.Binding
	Prev        key.Binding
	Later       key.Binding
	Earlier     key.Binding
	LaterWeek   key.Binding
	EarlierWeek key.Binding
	Abort       key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:        key.NewBinding(key.WithKeys("tab", "n"), key.WithHelp("tab", "next task")),
		Prev:        key.NewBinding(key.WithKeys("shift+tab", "p"), key.WithHelp("shift+tab", "prev task")),
		Later:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "+1 day")),
		Earlier:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "-1 day")),
		LaterWeek:   key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("L", "+1 week")),
		EarlierWeek: key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("H", "-1 week")),
		Abort:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel drag")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Later, k.Earlier, k.Abort, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev},
		{k.Later, k.Earlier, k.LaterWeek, k.EarlierWeek},
		{k.Abort, k.Help, k.Quit},
	}
}
