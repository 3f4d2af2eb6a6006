package tree

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/suyashkumar/dicom"

	"github.com/matzehuels/dicomtag/pkg/dataset"
	"github.com/matzehuels/dicomtag/pkg/errors"
	"github.com/matzehuels/dicomtag/pkg/observability"
)

// Source supplies the dataset the model mirrors. *dataset.Loader
// satisfies it; a nil dataset means nothing is loaded.
type Source interface {
	Current() *dicom.Dataset
}

// Role names what kind of data changed for a cell.
type Role int

const (
	RoleDisplay Role = iota
	RoleEdit
)

// Index addresses one cell: a node and the column within its row.
type Index struct {
	Node   NodeID
	Row    int
	Column Column
}

// State is the macro state of the model.
type State int

const (
	StateEmpty State = iota
	StatePopulated
)

func (s State) String() string {
	if s == StatePopulated {
		return "populated"
	}
	return "empty"
}

// Listener receives change notifications from a Model. Callbacks run
// synchronously on the caller of Rebuild or CommitEdit.
type Listener interface {
	ModelAboutToBeReset()
	ModelReset()
	DataChanged(topLeft, bottomRight Index, roles []Role)
}

// Model adapts the item arena to the index/row/column/parent contract of a
// tree view.
type Model struct {
	src       Source
	logger    *log.Logger
	arena     *arena
	listeners []Listener
}

// NewModel creates a model over src and builds the initial hierarchy.
// A nil logger discards output.
func NewModel(src Source, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := &Model{src: src, logger: logger, arena: newArena()}
	m.build()
	return m
}

// Subscribe registers l for change notifications.
func (m *Model) Subscribe(l Listener) {
	m.listeners = append(m.listeners, l)
}

// Rebuild discards every item and reconstructs the hierarchy from the
// source's current dataset. This is the only operation that changes the
// shape of the tree.
func (m *Model) Rebuild() {
	for _, l := range m.listeners {
		l.ModelAboutToBeReset()
	}
	m.build()
	for _, l := range m.listeners {
		l.ModelReset()
	}
}

func (m *Model) build() {
	start := time.Now()
	m.arena = newArena()
	var ds *dicom.Dataset
	if m.src != nil {
		ds = m.src.Current()
	}
	if ds != nil {
		m.arena.addElements(RootID, ds.Elements)
	}
	rows := m.ChildCount(RootID)
	m.logger.Debug("rebuilt tree", "rows", rows, "nodes", len(m.arena.items)-1)
	observability.Tree().OnRebuild(rows, len(m.arena.items)-1, time.Since(start))
}

// State reports whether any rows are present.
func (m *Model) State() State {
	if m.ChildCount(RootID) == 0 {
		return StateEmpty
	}
	return StatePopulated
}

// Len returns the number of items below the root.
func (m *Model) Len() int { return len(m.arena.items) - 1 }

// Item returns the item for id.
func (m *Model) Item(id NodeID) (*Item, bool) {
	return m.arena.get(id)
}

// ChildCount returns the number of children of node. Unknown nodes have none.
func (m *Model) ChildCount(node NodeID) int {
	it, ok := m.arena.get(node)
	if !ok {
		return 0
	}
	return it.ChildCount()
}

// ColumnCount is always 3: Tag, VR, Value.
func (m *Model) ColumnCount() int { return ColumnCount }

// HeaderAt returns the header label of col.
func (m *Model) HeaderAt(col Column) string {
	if !col.valid() {
		return ""
	}
	return columnHeaders[col]
}

// ValueAt renders one cell.
func (m *Model) ValueAt(node NodeID, col Column) string {
	it, ok := m.arena.get(node)
	if !ok || !col.valid() {
		return ""
	}
	return it.DisplayValue(col)
}

// Parent returns the parent of node. The root and unknown nodes have none.
func (m *Model) Parent(node NodeID) (NodeID, bool) {
	it, ok := m.arena.get(node)
	if !ok || it.parent == NoParent {
		return NoParent, false
	}
	return it.parent, true
}

// Index resolves (row, col) under parent to a cell index.
func (m *Model) Index(row int, col Column, parent NodeID) (Index, bool) {
	p, ok := m.arena.get(parent)
	if !ok || !col.valid() || row < 0 || row >= len(p.children) {
		return Index{}, false
	}
	return Index{Node: p.children[row], Row: row, Column: col}, true
}

// IndexOf returns the cell index of node's col.
func (m *Model) IndexOf(node NodeID, col Column) (Index, bool) {
	it, ok := m.arena.get(node)
	if !ok || node == RootID || !col.valid() {
		return Index{}, false
	}
	return Index{Node: node, Row: it.row, Column: col}, true
}

// IsEditable reports whether the cell accepts edits: the Value column of
// an element that is not a sequence. "Item N" placeholders wrap no element
// and are never editable.
func (m *Model) IsEditable(node NodeID, col Column) bool {
	it, ok := m.arena.get(node)
	if !ok || col != ColumnValue {
		return false
	}
	return !it.IsContainer()
}

// CommitEdit writes value into the cell and reports success.
func (m *Model) CommitEdit(node NodeID, col Column, value string) bool {
	return m.Edit(node, col, value) == nil
}

// Edit is CommitEdit with the rejection reason. Rejected edits leave the
// element unchanged; accepted ones emit DataChanged for that one cell with
// display and edit roles.
func (m *Model) Edit(node NodeID, col Column, value string) error {
	idx, ok := m.IndexOf(node, col)
	if !ok {
		return errors.New(errors.ErrCodeEditRejected, "no such cell (%d, %s)", node, col)
	}
	it := m.arena.items[node]
	tagText := dataset.TagString(it.Tag())

	if !m.IsEditable(node, col) {
		observability.Tree().OnEdit(tagText, int(col), false)
		return errors.New(errors.ErrCodeEditRejected, "%s %s is not editable", tagText, col)
	}
	if err := it.setValue(col, value); err != nil {
		m.logger.Debug("edit rejected", "tag", tagText, "err", err)
		observability.Tree().OnEdit(tagText, int(col), false)
		return err
	}

	m.logger.Debug("setting value", "tag", tagText, "value", value)
	observability.Tree().OnEdit(tagText, int(col), true)
	roles := []Role{RoleDisplay, RoleEdit}
	for _, l := range m.listeners {
		l.DataChanged(idx, idx, roles)
	}
	return nil
}

// Walk visits items depth-first in display order, starting with the
// root's children. fn returns whether to descend into the item.
func (m *Model) Walk(fn func(it *Item, depth int) bool) {
	var visit func(id NodeID, depth int)
	visit = func(id NodeID, depth int) {
		for _, child := range m.arena.items[id].children {
			it := m.arena.items[child]
			if fn(it, depth) {
				visit(child, depth+1)
			}
		}
	}
	visit(RootID, 0)
}
