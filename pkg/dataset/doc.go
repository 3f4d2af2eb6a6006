// Package dataset wraps a DICOM dataset for viewing and editing.
//
// Parsing, the tag dictionary and serialization are owned by
// github.com/suyashkumar/dicom. This package adds two things on top:
//
//   - [Loader] tracks the one "current" dataset of the editor together with
//     the path it came from, and reports [errors.ErrCodeLoadFailed] or
//     [errors.ErrCodeSaveFailed] instead of panicking or half-writing files.
//   - [Element] classifies a library element exactly once as either a scalar
//     or a sequence, and converts its value to and from the single line of
//     text shown in the Value column.
//
// # Value Text
//
// Multi-valued elements are rendered with the DICOM value delimiter:
//
//	ImageType    ORIGINAL\PRIMARY\AXIAL
//	PixelSpacing 0.5\0.5
//
// Editing parses the text back using the element's current value type.
// Binary values and pixel data have no text form and refuse edits.
//
// # Filesystem
//
// The loader performs all I/O through an [afero.Fs], so tests can run
// against afero.NewMemMapFs().
package dataset
