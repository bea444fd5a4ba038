package tui

import "github.com/charmbracelet/bubbles/key"

func bind(desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], desc))
}

type keyMap struct {
	ModeSelect key.Binding
	ModeDraw   key.Binding
	ModeSplit  key.Binding
	Quantize   key.Binding

	ZoomIn      key.Binding
	ZoomOut     key.Binding
	ScrollLeft  key.Binding
	ScrollRight key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding

	NudgeLeft     key.Binding
	NudgeRight    key.Binding
	TransposeUp   key.Binding
	TransposeDown key.Binding
	Delete        key.Binding
	Merge         key.Binding

	Rewind key.Binding
	Save   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		ModeSelect: bind("select mode", "1"),
		ModeDraw:   bind("draw mode", "2"),
		ModeSplit:  bind("split mode", "3"),
		Quantize:   bind("toggle quantize", "g"),

		ZoomIn:      bind("zoom in", "+", "="),
		ZoomOut:     bind("zoom out", "-", "_"),
		ScrollLeft:  bind("scroll left", "h"),
		ScrollRight: bind("scroll right", "l"),
		ScrollUp:    bind("scroll up", "k"),
		ScrollDown:  bind("scroll down", "j"),

		NudgeLeft:     bind("nudge left", "left"),
		NudgeRight:    bind("nudge right", "right"),
		TransposeUp:   bind("transpose up", "up"),
		TransposeDown: bind("transpose down", "down"),
		Delete:        bind("delete notes", "delete", "backspace"),
		Merge:         bind("merge notes", "m"),

		Rewind: bind("rewind", "0"),
		Save:   bind("save", "ctrl+s"),
		Help:   bind("help", "?"),
		Quit:   bind("quit", "q", "ctrl+c"),
	}
}

// ShortHelp is the one-line footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ModeSelect, k.ModeDraw, k.ModeSplit, k.Quantize, k.Save, k.Help, k.Quit}
}

// FullHelp is the expanded help toggled with ?.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ModeSelect, k.ModeDraw, k.ModeSplit, k.Quantize},
		{k.ZoomIn, k.ZoomOut, k.ScrollLeft, k.ScrollRight, k.ScrollUp, k.ScrollDown},
		{k.NudgeLeft, k.NudgeRight, k.TransposeUp, k.TransposeDown, k.Delete, k.Merge},
		{k.Rewind, k.Save, k.Help, k.Quit},
	}
}
