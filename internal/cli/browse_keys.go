package cli

import "github.com/charmbracelet/bubbles/key"

// browseKeyMap is the browser's key bindings. It implements help.KeyMap.
type browseKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Back    key.Binding
	Root    key.Binding
	Toggle  key.Binding
	Add     key.Binding
	Delete  key.Binding
	Info    key.Binding
	Map     key.Binding
	NudgeL  key.Binding
	NudgeR  key.Binding
	NudgeU  key.Binding
	NudgeD  key.Binding
	Help    key.Binding
	Quit    key.Binding
	Confirm key.Binding
}

func newBrowseKeyMap() browseKeyMap {
	return browseKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:    key.NewBinding(key.WithKeys("enter", "right", "l"), key.WithHelp("enter", "open")),
		Back:    key.NewBinding(key.WithKeys("backspace", "left", "h", "esc"), key.WithHelp("←/h", "back")),
		Root:    key.NewBinding(key.WithKeys("g", "~"), key.WithHelp("g", "root")),
		Toggle:  key.NewBinding(key.WithKeys(" ", "t"), key.WithHelp("space", "toggle")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Delete:  key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		Info:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "info")),
		Map:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "list/map")),
		NudgeL:  key.NewBinding(key.WithKeys("H"), key.WithHelp("H/J/K/L", "move on map")),
		NudgeD:  key.NewBinding(key.WithKeys("J")),
		NudgeU:  key.NewBinding(key.WithKeys("K")),
		NudgeR:  key.NewBinding(key.WithKeys("L")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
	}
}

func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Back, k.Toggle, k.Add, k.Delete, k.Info, k.Map, k.Help, k.Quit}
}

func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Back, k.Root},
		{k.Toggle, k.Add, k.Delete, k.Info},
		{k.Map, k.NudgeL},
		{k.Help, k.Quit},
	}
}
