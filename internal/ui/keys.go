package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Play     key.Binding
	Back     key.Binding
	Forward  key.Binding
	PageBack key.Binding
	PageFwd  key.Binding
	Start    key.Binding
	End      key.Binding
	NextTake key.Binding
	PrevTake key.Binding
	Loop     key.Binding
	Mode     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Play:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Back:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "back")),
		Forward:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "forward")),
		PageBack: key.NewBinding(key.WithKeys("shift+left", "H", "pgup"), key.WithHelp("H", "page back")),
		PageFwd:  key.NewBinding(key.WithKeys("shift+right", "L", "pgdown"), key.WithHelp("L", "page forward")),
		Start:    key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "start")),
		End:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "end")),
		NextTake: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next take")),
		PrevTake: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev take")),
		Loop:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "loop")),
		Mode:     key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "style")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Back, k.Forward, k.NextTake, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Play, k.Back, k.Forward, k.PageBack, k.PageFwd},
		{k.Start, k.End, k.NextTake, k.PrevTake},
		{k.Loop, k.Mode, k.Help, k.Quit},
	}
}
