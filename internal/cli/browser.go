package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/afero"

	"github.com/matzehuels/dicomtag/pkg/dataset"
	"github.com/matzehuels/dicomtag/pkg/errors"
	"github.com/matzehuels/dicomtag/pkg/tree"
)

// mode is what the browser's keys currently drive.
type mode int

const (
	modeBrowse mode = iota
	modeEdit
	modeOpen
	modeSave
)

const (
	defaultHeight  = 15
	minHeight      = 3
	chromeLines    = 9 // title, table borders and header, prompt, status, help
	maxValueWidth  = 60
	maxCandidates  = 6
	inputCharLimit = 4096
)

// visibleRow is one flattened row of the expanded tree.
type visibleRow struct {
	node  tree.NodeID
	depth int
}

// =============================================================================
// Browser - Interactive tag tree
// =============================================================================

// Browser is the bubbletea model of the tag tree. It renders the rows a
// tree.Model exposes, keeps its own expansion state and listens to the
// model so that resets and edits are reflected immediately.
type Browser struct {
	ctx    context.Context
	fs     afero.Fs
	loader *dataset.Loader
	model  *tree.Model
	keys   keyMap

	expanded map[tree.NodeID]bool
	rows     []visibleRow
	Cursor   int
	Offset   int
	Height   int
	Width    int

	mode       mode
	input      textinput.Model
	editing    tree.NodeID
	allFiles   bool
	candidates []string

	modified  bool
	status    string
	statusErr bool
}

var _ tree.Listener = (*Browser)(nil)

// NewBrowser creates a browser over model and subscribes it to changes.
// Open and save go through loader; path completion reads fs.
func NewBrowser(ctx context.Context, fs afero.Fs, loader *dataset.Loader, model *tree.Model) *Browser {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	in := textinput.New()
	in.CharLimit = inputCharLimit
	in.Width = maxValueWidth

	b := &Browser{
		ctx:      ctx,
		fs:       fs,
		loader:   loader,
		model:    model,
		keys:     defaultKeyMap(),
		expanded: make(map[tree.NodeID]bool),
		Height:   defaultHeight,
		input:    in,
	}
	model.Subscribe(b)
	b.refresh()
	return b
}

// ModelAboutToBeReset drops everything that refers to node ids of the
// build that is about to go away.
func (b *Browser) ModelAboutToBeReset() {
	b.mode = modeBrowse
	b.input.Blur()
	b.expanded = make(map[tree.NodeID]bool)
	b.rows = nil
}

func (b *Browser) ModelReset() {
	b.Cursor, b.Offset = 0, 0
	b.modified = false
	b.refresh()
}

func (b *Browser) DataChanged(topLeft, _ tree.Index, _ []tree.Role) {
	b.modified = true
	if it, ok := b.model.Item(topLeft.Node); ok {
		b.setStatus("Updated " + dataset.TagString(it.Tag()))
	}
}

func (b *Browser) setStatus(msg string) {
	b.status, b.statusErr = msg, false
}

func (b *Browser) setError(err error) {
	if err == nil {
		return
	}
	b.status, b.statusErr = errors.UserMessage(err), true
}

// refresh re-flattens the visible rows and clamps the cursor.
func (b *Browser) refresh() {
	b.rows = b.rows[:0]
	b.model.Walk(func(it *tree.Item, depth int) bool {
		b.rows = append(b.rows, visibleRow{node: it.ID(), depth: depth})
		return b.expanded[it.ID()]
	})
	if b.Cursor >= len(b.rows) {
		b.Cursor = len(b.rows) - 1
	}
	if b.Cursor < 0 {
		b.Cursor = 0
	}
	b.scroll()
}

func (b *Browser) scroll() {
	if b.Cursor < b.Offset {
		b.Offset = b.Cursor
	}
	if b.Cursor >= b.Offset+b.Height {
		b.Offset = b.Cursor - b.Height + 1
	}
	if b.Offset < 0 {
		b.Offset = 0
	}
}

// current returns the item under the cursor.
func (b *Browser) current() (*tree.Item, bool) {
	if b.Cursor < 0 || b.Cursor >= len(b.rows) {
		return nil, false
	}
	return b.model.Item(b.rows[b.Cursor].node)
}

// =============================================================================
// tea.Model
// =============================================================================

func (b *Browser) Init() tea.Cmd {
	return tea.SetWindowTitle(windowTitle)
}

func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.Width = msg.Width
		b.Height = msg.Height - chromeLines
		if b.Height < minHeight {
			b.Height = minHeight
		}
		b.input.Width = b.valueWidth()
		b.scroll()
		return b, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return b, tea.Quit
		}
		if b.mode == modeBrowse {
			return b.updateBrowse(msg)
		}
		return b.updateInput(msg)
	}

	if b.mode != modeBrowse {
		var cmd tea.Cmd
		b.input, cmd = b.input.Update(msg)
		return b, cmd
	}
	return b, nil
}

func (b *Browser) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keys.Quit):
		return b, tea.Quit

	case key.Matches(msg, b.keys.Up):
		if b.Cursor > 0 {
			b.Cursor--
			b.scroll()
		}

	case key.Matches(msg, b.keys.Down):
		if b.Cursor < len(b.rows)-1 {
			b.Cursor++
			b.scroll()
		}

	case key.Matches(msg, b.keys.Home):
		b.Cursor = 0
		b.scroll()

	case key.Matches(msg, b.keys.End):
		if len(b.rows) > 0 {
			b.Cursor = len(b.rows) - 1
			b.scroll()
		}

	case key.Matches(msg, b.keys.Toggle):
		if it, ok := b.current(); ok && it.ChildCount() > 0 {
			b.expanded[it.ID()] = !b.expanded[it.ID()]
			b.refresh()
		}

	case key.Matches(msg, b.keys.Expand):
		if it, ok := b.current(); ok && it.ChildCount() > 0 {
			b.expanded[it.ID()] = true
			b.refresh()
		}

	case key.Matches(msg, b.keys.Collapse):
		b.collapse()

	case key.Matches(msg, b.keys.Edit):
		return b, b.startEdit()

	case key.Matches(msg, b.keys.Open):
		dir := filepath.Dir(b.loader.Path())
		start := ""
		if b.loader.Path() != "" && dir != "." {
			start = dir + string(filepath.Separator)
		}
		return b, b.startPrompt(modeOpen, "Open: ", start)

	case key.Matches(msg, b.keys.Save):
		if !b.loader.Loaded() {
			b.status, b.statusErr = "No DICOM data to save", true
			return b, nil
		}
		return b, b.startPrompt(modeSave, "Save as: ", b.loader.DefaultSaveName())
	}
	return b, nil
}

// collapse closes the item under the cursor, or moves to its parent when
// it is already closed.
func (b *Browser) collapse() {
	it, ok := b.current()
	if !ok {
		return
	}
	if b.expanded[it.ID()] {
		b.expanded[it.ID()] = false
		b.refresh()
		return
	}
	parent, ok := b.model.Parent(it.ID())
	if !ok || parent == tree.RootID {
		return
	}
	for i, r := range b.rows {
		if r.node == parent {
			b.Cursor = i
			b.scroll()
			return
		}
	}
}

func (b *Browser) startEdit() tea.Cmd {
	it, ok := b.current()
	if !ok {
		return nil
	}
	// Binary values have no text form, so the editor would only be rejected.
	if !b.model.IsEditable(it.ID(), tree.ColumnValue) || !it.Element().Editable() {
		b.status, b.statusErr = it.DisplayValue(tree.ColumnTag)+" is not editable", true
		return nil
	}
	b.mode = modeEdit
	b.editing = it.ID()
	b.input.Prompt = ""
	b.input.SetValue(it.DisplayValue(tree.ColumnValue))
	b.input.CursorEnd()
	return b.input.Focus()
}

func (b *Browser) startPrompt(m mode, prompt, value string) tea.Cmd {
	b.mode = m
	b.candidates = nil
	b.input.Prompt = prompt
	b.input.SetValue(value)
	b.input.CursorEnd()
	return b.input.Focus()
}

func (b *Browser) closeInput() {
	b.mode = modeBrowse
	b.candidates = nil
	b.input.Blur()
	b.input.SetValue("")
}

func (b *Browser) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keys.Cancel):
		b.closeInput()
		return b, nil

	case key.Matches(msg, b.keys.Confirm):
		b.confirm()
		return b, nil

	case b.mode != modeEdit && key.Matches(msg, b.keys.Complete):
		value, names := completePath(b.fs, b.input.Value(), b.allFiles)
		b.input.SetValue(value)
		b.input.CursorEnd()
		b.candidates = nil
		if len(names) > 1 {
			b.candidates = names
		}
		return b, nil

	case b.mode != modeEdit && key.Matches(msg, b.keys.AllFiles):
		b.allFiles = !b.allFiles
		b.candidates = nil
		return b, nil
	}

	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	return b, cmd
}

// confirm applies the open input and returns to browsing.
func (b *Browser) confirm() {
	value := b.input.Value()
	m, node := b.mode, b.editing
	b.closeInput()

	switch m {
	case modeEdit:
		// A rejected edit leaves the element as it was, so the row
		// simply shows the old value again.
		if err := b.model.Edit(node, tree.ColumnValue, value); err != nil {
			b.setError(err)
		}

	case modeOpen:
		path := strings.TrimSpace(value)
		_, err := b.loader.Load(b.ctx, path)
		b.model.Rebuild()
		if err != nil {
			b.setError(err)
			return
		}
		b.setStatus(fmt.Sprintf("Loaded %s (%d tags)", path, b.model.ChildCount(tree.RootID)))

	case modeSave:
		path := strings.TrimSpace(value)
		if err := b.loader.Save(b.ctx, path); err != nil {
			b.setError(err)
			return
		}
		b.modified = false
		b.setStatus("Saved " + path)
	}
}

// =============================================================================
// View
// =============================================================================

func (b *Browser) View() string {
	var s strings.Builder

	s.WriteString(b.title())
	s.WriteString("\n")

	if b.model.State() == tree.StateEmpty {
		s.WriteString("\n")
		s.WriteString(StyleDim.Render("  No DICOM file loaded. Press o to open one."))
		s.WriteString("\n\n")
	} else {
		s.WriteString(b.renderTable())
		s.WriteString("\n")
	}

	switch b.mode {
	case modeOpen, modeSave:
		s.WriteString(b.input.View())
		if b.allFiles {
			s.WriteString(StyleDim.Render("  [all files]"))
		}
		s.WriteString("\n")
		if len(b.candidates) > 0 {
			s.WriteString(StyleDim.Render(b.candidateLine()))
			s.WriteString("\n")
		}
	default:
		s.WriteString("\n")
	}

	s.WriteString(b.statusLine())
	s.WriteString("\n")
	s.WriteString(renderHelp(b.help()))
	return s.String()
}

func (b *Browser) title() string {
	t := StyleTitle.Render(windowTitle)
	if p := b.loader.Path(); p != "" {
		t += StyleDim.Render("  " + p)
	}
	if b.modified {
		t += " " + StyleWarning.Render(iconModified)
	}
	return t
}

func (b *Browser) help() []key.Binding {
	switch b.mode {
	case modeEdit:
		return b.keys.editHelp()
	case modeOpen, modeSave:
		return b.keys.promptHelp()
	}
	return b.keys.browseHelp()
}

func (b *Browser) statusLine() string {
	if b.status == "" {
		return StyleDim.Render(fmt.Sprintf("[%d/%d]", b.Cursor+1, len(b.rows)))
	}
	if b.statusErr {
		return styleError.Render(iconError + " " + b.status)
	}
	return StyleSuccess.Render(iconSuccess + " " + b.status)
}

func (b *Browser) candidateLine() string {
	names := b.candidates
	more := ""
	if len(names) > maxCandidates {
		more = fmt.Sprintf("  (+%d more)", len(names)-maxCandidates)
		names = names[:maxCandidates]
	}
	return "  " + strings.Join(names, "  ") + more
}

func (b *Browser) valueWidth() int {
	if b.Width <= 0 {
		return maxValueWidth
	}
	w := b.Width / 2
	if w > maxValueWidth {
		w = maxValueWidth
	}
	if w < 10 {
		w = 10
	}
	return w
}

func (b *Browser) renderTable() string {
	end := b.Offset + b.Height
	if end > len(b.rows) {
		end = len(b.rows)
	}

	rows := make([][]string, 0, end-b.Offset)
	for i := b.Offset; i < end; i++ {
		r := b.rows[i]
		it, _ := b.model.Item(r.node)

		cursor := "  "
		if i == b.Cursor {
			cursor = iconCursor + " "
		}
		value := truncate(flatten(it.DisplayValue(tree.ColumnValue)), b.valueWidth())
		if b.mode == modeEdit && r.node == b.editing {
			value = b.input.View()
		}
		rows = append(rows, []string{
			cursor + tagCell(it, r.depth, b.expanded[r.node]),
			it.DisplayValue(tree.ColumnVR),
			value,
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers(headers(b.model)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			idx := b.Offset + row
			if idx >= len(b.rows) {
				return lipgloss.NewStyle()
			}
			it, _ := b.model.Item(b.rows[idx].node)

			base := StyleValue
			switch {
			case it.IsPlaceholder():
				base = styleItem
			case col == int(tree.ColumnVR) && it.IsSequence():
				base = styleSequence
			}
			if idx == b.Cursor {
				return styleCursor.Inherit(base)
			}
			return base
		}).
		Render()
}
