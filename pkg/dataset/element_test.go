package dataset

import (
	"testing"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/matzehuels/dicomtag/pkg/dataset/datasettest"
	"github.com/matzehuels/dicomtag/pkg/errors"
)

func TestWrapClassifiesByVR(t *testing.T) {
	ds := datasettest.Scenario(t)

	name := Wrap(ds.Elements[0])
	if name.IsSequence() || name.Kind() != KindScalar {
		t.Errorf("PatientName kind = %v, want scalar", name.Kind())
	}
	if name.VR() != "PN" {
		t.Errorf("PatientName VR = %q, want PN", name.VR())
	}

	seq := Wrap(ds.Elements[1])
	if !seq.IsSequence() || seq.Kind() != KindSequence {
		t.Errorf("sequence kind = %v, want sequence", seq.Kind())
	}
	if seq.VR() != VRSequence {
		t.Errorf("sequence VR = %q, want %q", seq.VR(), VRSequence)
	}
	if got := len(seq.Items()); got != 2 {
		t.Errorf("len(Items()) = %d, want 2", got)
	}
	if name.Items() != nil {
		t.Error("scalar should have no items")
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		name string
		tag  tag.Tag
		data interface{}
		want string
	}{
		{"person name", tag.PatientName, []string{"Doe^John"}, "Doe^John"},
		{"multi string", tag.ImageType, []string{"ORIGINAL", "PRIMARY"}, `ORIGINAL\PRIMARY`},
		{"empty string", tag.PatientID, []string{}, ""},
		{"integer", tag.Rows, []int{512}, "512"},
		{"decimal string", tag.PixelSpacing, []string{"0.5", "0.25"}, `0.5\0.25`},
		{"bytes", tag.FileMetaInformationVersion, []byte{0, 1}, "<2 bytes>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Wrap(datasettest.Element(t, tt.tag, tt.data))
			if got := e.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSequenceText(t *testing.T) {
	ds := datasettest.Scenario(t)
	if got := Wrap(ds.Elements[1]).Text(); got != SequencePlaceholder {
		t.Errorf("Text() = %q, want %q", got, SequencePlaceholder)
	}
}

func TestSetTextWritesThrough(t *testing.T) {
	tests := []struct {
		name string
		tag  tag.Tag
		data interface{}
		in   string
		want interface{}
	}{
		{"string", tag.PatientName, []string{"Doe^John"}, "Roe^Jane", []string{"Roe^Jane"}},
		{"multi string", tag.ImageType, []string{"ORIGINAL"}, `DERIVED\SECONDARY`, []string{"DERIVED", "SECONDARY"}},
		{"int", tag.Rows, []int{512}, " 1024 ", []int{1024}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := datasettest.Element(t, tt.tag, tt.data)
			e := Wrap(raw)
			if err := e.SetText(tt.in); err != nil {
				t.Fatalf("SetText(%q) error: %v", tt.in, err)
			}
			want, err := dicom.NewValue(tt.want)
			if err != nil {
				t.Fatal(err)
			}
			if raw.Value.String() != want.String() {
				t.Errorf("element value = %v, want %v", raw.Value, want)
			}
		})
	}
}

// intElement builds an integer element with an explicit VR.
func intElement(t *testing.T, vr string, n int) *dicom.Element {
	t.Helper()
	v, err := dicom.NewValue([]int{n})
	if err != nil {
		t.Fatal(err)
	}
	return &dicom.Element{
		Tag:                    tag.Tag{Group: 0x0009, Element: 0x1001},
		RawValueRepresentation: vr,
		Value:                  v,
	}
}

func TestSetTextIntegerBounds(t *testing.T) {
	tests := []struct {
		vr   string
		in   string
		want string
	}{
		{"US", "65535", "65535"},
		{"US", "0", "0"},
		{"SS", `-32768\32767`, `-32768\32767`},
		{"UL", "4294967295", "4294967295"},
		{"SL", "-2147483648", "-2147483648"},
		{"IS", "70000", "70000"},
	}

	for _, tt := range tests {
		t.Run(tt.vr+" "+tt.in, func(t *testing.T) {
			e := Wrap(intElement(t, tt.vr, 1))
			if err := e.SetText(tt.in); err != nil {
				t.Fatalf("SetText(%q) error = %v", tt.in, err)
			}
			if got := e.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func floatElement(t *testing.T, f float64) *dicom.Element {
	t.Helper()
	v, err := dicom.NewValue([]float64{f})
	if err != nil {
		t.Fatal(err)
	}
	return &dicom.Element{
		Tag:                    tag.Tag{Group: 0x0018, Element: 0x9089},
		RawValueRepresentation: "FD",
		Value:                  v,
	}
}

func TestFloatText(t *testing.T) {
	e := Wrap(floatElement(t, 2.5))
	if got := e.Text(); got != "2.5" {
		t.Errorf("Text() = %q, want %q", got, "2.5")
	}
	if err := e.SetText(`1.25\-3`); err != nil {
		t.Fatal(err)
	}
	if got := e.Text(); got != `1.25\-3` {
		t.Errorf("Text() = %q, want %q", got, `1.25\-3`)
	}
}

func TestSetTextThenText(t *testing.T) {
	e := Wrap(datasettest.Element(t, tag.PixelSpacing, []string{"0.5", "0.5"}))
	if err := e.SetText(`0.7\0.8`); err != nil {
		t.Fatal(err)
	}
	if got := e.Text(); got != `0.7\0.8` {
		t.Errorf("Text() = %q, want %q", got, `0.7\0.8`)
	}
}

func TestSetTextRejected(t *testing.T) {
	seqDS := datasettest.Scenario(t)

	tests := []struct {
		name string
		raw  *dicom.Element
		in   string
	}{
		{"sequence", seqDS.Elements[1], "anything"},
		{"bad int", datasettest.Element(t, tag.Rows, []int{512}), "abc"},
		{"bad float", floatElement(t, 1), "x"},
		{"Rows overflow", datasettest.Element(t, tag.Rows, []int{512}), "70000"},
		{"Rows negative", datasettest.Element(t, tag.Rows, []int{512}), "-1"},
		{"SS overflow", intElement(t, "SS", 1), "40000"},
		{"SL underflow", intElement(t, "SL", 1), "-2147483649"},
		{"UL second value", intElement(t, "UL", 1), `1\4294967296`},
		{"bytes", datasettest.Element(t, tag.FileMetaInformationVersion, []byte{0, 1}), "00 01"},
		{"null byte", datasettest.Element(t, tag.PatientName, []string{"Doe^John"}), "a\x00b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Wrap(tt.raw)
			before := e.Text()
			err := e.SetText(tt.in)
			if !errors.IsEditRejected(err) {
				t.Fatalf("SetText(%q) error = %v, want EDIT_REJECTED", tt.in, err)
			}
			if after := e.Text(); after != before {
				t.Errorf("element changed from %q to %q", before, after)
			}
		})
	}
}

func TestEditable(t *testing.T) {
	ds := datasettest.Scenario(t)
	if !Wrap(ds.Elements[0]).Editable() {
		t.Error("string element should be editable")
	}
	if Wrap(ds.Elements[1]).Editable() {
		t.Error("sequence should not be editable")
	}
	if Wrap(datasettest.Element(t, tag.FileMetaInformationVersion, []byte{0, 1})).Editable() {
		t.Error("binary element should not be editable")
	}
}

func TestTagLabel(t *testing.T) {
	tests := []struct {
		tag  tag.Tag
		want string
	}{
		{tag.PatientName, "(0010,0010) (PatientName)"},
		{tag.Rows, "(0028,0010) (Rows)"},
		{tag.Tag{Group: 0x0009, Element: 0x1001}, "(0009,1001) (Unknown)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := TagLabel(tt.tag); got != tt.want {
				t.Errorf("TagLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}
