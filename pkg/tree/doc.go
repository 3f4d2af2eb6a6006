// Package tree projects a DICOM dataset onto the generic row/column/parent
// contract of a hierarchical list view.
//
// # Arena
//
// Items live in a flat arena owned by [Model] and refer to each other by
// [NodeID]. The root is always [RootID]; it has no element and one child
// per top-level tag. A sequence item gets one placeholder child per nested
// dataset ("Item 1", "Item 2", ...) and the nested tags hang below the
// placeholder:
//
//	(0010,0010) (PatientName)             PN  Doe^John
//	(0008,1140) (ReferencedImageSequence) SQ  Sequence
//	    Item 1
//	        (0008,1150) (ReferencedSOPClassUID)    UI  1.2.840...
//	    Item 2
//	        (0008,1150) (ReferencedSOPClassUID)    UI  1.2.840...
//
// The arena is rebuilt wholesale by [Model.Rebuild]. Node ids are only
// meaningful until the next rebuild.
//
// # Editing
//
// Only the Value column of a leaf element is editable. [Model.CommitEdit]
// writes through to the dataset element and notifies listeners with a
// [Model] DataChanged event scoped to that one cell. Edits never change the
// shape of the hierarchy.
package tree
