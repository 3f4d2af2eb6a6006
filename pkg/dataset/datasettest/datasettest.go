// Package datasettest builds small in-memory DICOM datasets and files for
// tests.
package datasettest

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
	"github.com/suyashkumar/dicom/pkg/uid"
)

// Values used by Scenario.
const (
	PatientName = "Doe^John"
	PatientID   = "PID-0042"
	SOPClass    = "1.2.840.10008.5.1.4.1.1.2"
	SOPInstance = "1.2.3.4.5.6.7.8.9"
)

// Element builds an element, failing the test on error.
func Element(t testing.TB, tg tag.Tag, data interface{}) *dicom.Element {
	t.Helper()
	e, err := dicom.NewElement(tg, data)
	if err != nil {
		t.Fatalf("NewElement(%v): %v", tg, err)
	}
	return e
}

// Meta returns the file meta elements needed to write a Part 10 file.
func Meta(t testing.TB) []*dicom.Element {
	t.Helper()
	return []*dicom.Element{
		Element(t, tag.FileMetaInformationVersion, []byte{0x00, 0x01}),
		Element(t, tag.MediaStorageSOPClassUID, []string{SOPClass}),
		Element(t, tag.MediaStorageSOPInstanceUID, []string{SOPInstance}),
		Element(t, tag.TransferSyntaxUID, []string{uid.ExplicitVRLittleEndian}),
	}
}

// Scenario returns a dataset whose top level holds one scalar tag
// (PatientName) and one sequence with two items.
func Scenario(t testing.TB) dicom.Dataset {
	t.Helper()
	seq := Element(t, tag.ReferencedImageSequence, [][]*dicom.Element{
		{
			Element(t, tag.ReferencedSOPClassUID, []string{SOPClass}),
			Element(t, tag.ReferencedSOPInstanceUID, []string{"1.2.3.1"}),
		},
		{
			Element(t, tag.ReferencedSOPClassUID, []string{SOPClass}),
			Element(t, tag.ReferencedSOPInstanceUID, []string{"1.2.3.2"}),
		},
	})
	return dicom.Dataset{Elements: []*dicom.Element{
		Element(t, tag.PatientName, []string{PatientName}),
		seq,
	}}
}

// Rich returns a dataset with file meta, strings, integers, decimals and a
// sequence nested inside a sequence item.
func Rich(t testing.TB) dicom.Dataset {
	t.Helper()
	inner := Element(t, tag.ReferencedSOPSequence, [][]*dicom.Element{
		{Element(t, tag.ReferencedSOPInstanceUID, []string{"1.2.3.9"})},
	})
	outer := Element(t, tag.ReferencedSeriesSequence, [][]*dicom.Element{
		{
			Element(t, tag.SeriesInstanceUID, []string{"1.2.3.100"}),
			inner,
		},
	})
	elems := Meta(t)
	elems = append(elems,
		Element(t, tag.PatientName, []string{PatientName}),
		Element(t, tag.PatientID, []string{PatientID}),
		Element(t, tag.ImageType, []string{"ORIGINAL", "PRIMARY"}),
		Element(t, tag.Rows, []int{512}),
		Element(t, tag.Columns, []int{256}),
		Element(t, tag.PixelSpacing, []string{"0.5", "0.5"}),
		outer,
	)
	return dicom.Dataset{Elements: elems}
}

// Encode serializes ds, adding file meta elements when missing.
func Encode(t testing.TB, ds dicom.Dataset) []byte {
	t.Helper()
	if _, err := ds.FindElementByTag(tag.TransferSyntaxUID); err != nil {
		ds = dicom.Dataset{Elements: append(Meta(t), ds.Elements...)}
	}
	var buf bytes.Buffer
	if err := dicom.Write(&buf, ds); err != nil {
		t.Fatalf("dicom.Write: %v", err)
	}
	return buf.Bytes()
}

// WriteFile encodes ds into fs at path.
func WriteFile(t testing.TB, fs afero.Fs, path string, ds dicom.Dataset) {
	t.Helper()
	if err := afero.WriteFile(fs, path, Encode(t, ds), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
}
