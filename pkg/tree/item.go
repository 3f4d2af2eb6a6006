package tree

import (
	"fmt"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/matzehuels/dicomtag/pkg/dataset"
	"github.com/matzehuels/dicomtag/pkg/errors"
)

// NodeID identifies an item within one build of the arena.
type NodeID int

// RootID is the id of the invisible root item.
const RootID NodeID = 0

// NoParent is returned as the parent of the root.
const NoParent NodeID = -1

// Column is one of the three fixed columns.
type Column int

const (
	ColumnTag Column = iota
	ColumnVR
	ColumnValue
)

// ColumnCount is the number of columns; it never changes.
const ColumnCount = 3

var columnHeaders = [ColumnCount]string{"Tag", "VR", "Value"}

func (c Column) String() string {
	if c.valid() {
		return columnHeaders[c]
	}
	return fmt.Sprintf("Column(%d)", int(c))
}

func (c Column) valid() bool { return c >= 0 && c < ColumnCount }

// Item is one row of the hierarchy. Element items wrap a dataset element;
// the root and sequence-item placeholders carry only a label.
type Item struct {
	id       NodeID
	parent   NodeID
	row      int
	children []NodeID

	label string
	elem  *dataset.Element
}

// ID returns the item's node id.
func (it *Item) ID() NodeID { return it.id }

// Parent returns the parent id, or NoParent for the root.
func (it *Item) Parent() NodeID { return it.parent }

// Row returns the item's position among its siblings.
func (it *Item) Row() int { return it.row }

// Children returns the child ids in dataset order.
func (it *Item) Children() []NodeID { return it.children }

// ChildCount returns the number of children.
func (it *Item) ChildCount() int { return len(it.children) }

// Element returns the wrapped element, or nil for the root and placeholders.
func (it *Item) Element() *dataset.Element { return it.elem }

// Tag returns the element's tag. Placeholders report the zero tag.
func (it *Item) Tag() tag.Tag {
	if it.elem == nil {
		return tag.Tag{}
	}
	return it.elem.Tag()
}

// IsSequence reports whether the item wraps an SQ element.
func (it *Item) IsSequence() bool {
	return it.elem != nil && it.elem.IsSequence()
}

// IsPlaceholder reports whether the item stands for one nested dataset
// of a sequence.
func (it *Item) IsPlaceholder() bool {
	return it.elem == nil && it.id != RootID
}

// IsContainer reports whether the item may have children.
func (it *Item) IsContainer() bool {
	return it.elem == nil || it.elem.IsSequence()
}

// DisplayValue renders one column of the item.
func (it *Item) DisplayValue(col Column) string {
	if it.elem == nil {
		if col == ColumnTag {
			return it.label
		}
		return ""
	}
	switch col {
	case ColumnTag:
		return dataset.TagLabel(it.elem.Tag())
	case ColumnVR:
		return it.elem.VR()
	case ColumnValue:
		return it.elem.Text()
	}
	return ""
}

// SetValue writes value into the element. It only succeeds for the Value
// column of a non-sequence element.
func (it *Item) SetValue(col Column, value string) bool {
	return it.setValue(col, value) == nil
}

func (it *Item) setValue(col Column, value string) error {
	if col != ColumnValue {
		return errors.New(errors.ErrCodeEditRejected, "%s column is not editable", col)
	}
	if it.elem == nil {
		return errors.New(errors.ErrCodeEditRejected, "%q has no value", it.label)
	}
	return it.elem.SetText(value)
}

// arena holds every item of one build. Index 0 is the root.
type arena struct {
	items []*Item
}

func newArena() *arena {
	a := &arena{}
	a.items = append(a.items, &Item{id: RootID, parent: NoParent})
	return a
}

func (a *arena) get(id NodeID) (*Item, bool) {
	if id < 0 || int(id) >= len(a.items) {
		return nil, false
	}
	return a.items[id], true
}

func (a *arena) add(parent NodeID, it *Item) NodeID {
	p := a.items[parent]
	it.id = NodeID(len(a.items))
	it.parent = parent
	it.row = len(p.children)
	a.items = append(a.items, it)
	p.children = append(p.children, it.id)
	return it.id
}

// addElements appends one item per element under parent, in order, and
// expands sequences recursively.
func (a *arena) addElements(parent NodeID, elems []*dicom.Element) {
	for _, e := range elems {
		if e == nil {
			continue
		}
		id := a.add(parent, &Item{elem: dataset.Wrap(e)})
		a.buildChildren(id)
	}
}

// buildChildren creates one "Item N" placeholder per nested dataset of a
// sequence item, each holding that dataset's elements.
func (a *arena) buildChildren(id NodeID) {
	it := a.items[id]
	if !it.IsSequence() {
		return
	}
	for i, nested := range it.elem.Items() {
		ph := a.add(id, &Item{label: fmt.Sprintf("Item %d", i+1)})
		a.addElements(ph, nested)
	}
}
