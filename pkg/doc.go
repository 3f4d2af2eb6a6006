// Package pkg provides the libraries behind the dicomtag viewer and editor.
//
// # Overview
//
// dicomtag shows the tags of a DICOM file as a tree, lets leaf values be
// edited in place and writes the dataset back to disk. The pkg directory is
// organized into these areas:
//
//  1. [dataset] - Loading and saving datasets, and the element wrapper
//  2. [tree] - The tree item arena and the model a view renders
//  3. [errors] - Structured error codes for load, save and edit failures
//  4. [observability] - Hooks around load, save, edit and rebuild
//  5. [buildinfo] - Version metadata injected at build time
//
// # Architecture
//
// The data flow through dicomtag:
//
//	DICOM file
//	     ↓
//	[dataset] Loader (parse, keep the current dataset)
//	     ↓
//	[tree] Model (one item per element, "Item N" per sequence item)
//	     ↓
//	view (terminal browser or table dump)
//	     ↓
//	[tree] Model.Edit → element value → [dataset] Loader.Save
//
// # Quick Start
//
// Load a file, print its top-level tags, edit one and save:
//
//	import (
//	    "context"
//	    "fmt"
//
//	    "github.com/matzehuels/dicomtag/pkg/dataset"
//	    "github.com/matzehuels/dicomtag/pkg/tree"
//	)
//
//	loader := dataset.NewLoader(nil, nil)
//	if _, err := loader.Load(context.Background(), "scan.dcm"); err != nil {
//	    return err
//	}
//	model := tree.NewModel(loader, nil)
//	for row := 0; row < model.ChildCount(tree.RootID); row++ {
//	    idx, _ := model.Index(row, tree.ColumnTag, tree.RootID)
//	    fmt.Println(model.ValueAt(idx.Node, tree.ColumnTag), model.ValueAt(idx.Node, tree.ColumnValue))
//	}
//	idx, _ := model.Index(0, tree.ColumnValue, tree.RootID)
//	if model.IsEditable(idx.Node, tree.ColumnValue) {
//	    _ = model.Edit(idx.Node, tree.ColumnValue, "new value")
//	}
//	return loader.Save(context.Background(), loader.DefaultSaveName())
//
// # Error Handling
//
// Operations return *errors.Error values carrying a code. Use errors.Is with
// a code, or the IsLoadError, IsSaveError and IsEditRejected helpers, to tell
// failures apart.
package pkg
