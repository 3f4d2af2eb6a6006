package cli

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// keyMap holds the browser's key bindings.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Home     key.Binding
	End      key.Binding
	Toggle   key.Binding
	Expand   key.Binding
	Collapse key.Binding
	Edit     key.Binding
	Open     key.Binding
	Save     key.Binding
	Quit     key.Binding

	// Prompt and editor bindings.
	Confirm  key.Binding
	Cancel   key.Binding
	Complete key.Binding
	AllFiles key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Home:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		End:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Toggle:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("⏎", "expand")),
		Expand:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "expand")),
		Collapse: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Open:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		Save:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save as")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Confirm:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("⏎", "confirm")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Complete: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete")),
		AllFiles: key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "all files")),
	}
}

func (k keyMap) browseHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Edit, k.Open, k.Save, k.Quit}
}

func (k keyMap) editHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

func (k keyMap) promptHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Complete, k.AllFiles, k.Cancel}
}

// renderHelp formats bindings as a single footer line.
func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, styleKey.Render(h.Key)+" "+StyleDim.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}
