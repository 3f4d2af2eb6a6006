package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/matzehuels/dicomtag/pkg/errors"
)

// VRSequence is the value representation of a sequence of items.
const VRSequence = "SQ"

// SequencePlaceholder is the Value text shown for sequence elements.
const SequencePlaceholder = "Sequence"

// valueDelimiter separates the values of a multi-valued element.
const valueDelimiter = `\`

// Kind distinguishes the two shapes an element can take.
type Kind int

const (
	KindScalar Kind = iota
	KindSequence
)

func (k Kind) String() string {
	if k == KindSequence {
		return "sequence"
	}
	return "scalar"
}

// Element is a classified view of one library element. The wrapped
// element is shared with the dataset, so SetText writes through.
type Element struct {
	raw  *dicom.Element
	kind Kind
}

// Wrap classifies e. The result is a sequence iff e's VR is "SQ".
func Wrap(e *dicom.Element) *Element {
	kind := KindScalar
	if vrOf(e) == VRSequence {
		kind = KindSequence
	}
	return &Element{raw: e, kind: kind}
}

func vrOf(e *dicom.Element) string {
	if e.RawValueRepresentation != "" {
		return e.RawValueRepresentation
	}
	if e.Value != nil && e.Value.ValueType() == dicom.Sequences {
		return VRSequence
	}
	return ""
}

// Kind returns the shape decided at wrap time.
func (e *Element) Kind() Kind { return e.kind }

// IsSequence reports whether the element is a sequence of items.
func (e *Element) IsSequence() bool { return e.kind == KindSequence }

// Tag returns the element's tag.
func (e *Element) Tag() tag.Tag { return e.raw.Tag }

// VR returns the raw value representation code, e.g. "PN" or "SQ".
func (e *Element) VR() string { return vrOf(e.raw) }

// Items returns the nested datasets of a sequence in file order.
// Scalars have no items.
func (e *Element) Items() [][]*dicom.Element {
	if e.kind != KindSequence || e.raw.Value == nil || e.raw.Value.ValueType() != dicom.Sequences {
		return nil
	}
	seq, ok := e.raw.Value.GetValue().([]*dicom.SequenceItemValue)
	if !ok {
		return nil
	}
	items := make([][]*dicom.Element, 0, len(seq))
	for _, item := range seq {
		elems, _ := item.GetValue().([]*dicom.Element)
		items = append(items, elems)
	}
	return items
}

// Text renders the element's value for the Value column.
func (e *Element) Text() string {
	if e.kind == KindSequence {
		return SequencePlaceholder
	}
	if e.raw.Value == nil {
		return ""
	}
	switch e.raw.Value.ValueType() {
	case dicom.Strings:
		v, _ := e.raw.Value.GetValue().([]string)
		return strings.Join(v, valueDelimiter)
	case dicom.Ints:
		v, _ := e.raw.Value.GetValue().([]int)
		parts := make([]string, len(v))
		for i, n := range v {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, valueDelimiter)
	case dicom.Floats:
		v, _ := e.raw.Value.GetValue().([]float64)
		parts := make([]string, len(v))
		for i, f := range v {
			parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
		}
		return strings.Join(parts, valueDelimiter)
	case dicom.Bytes:
		v, _ := e.raw.Value.GetValue().([]byte)
		return fmt.Sprintf("<%d bytes>", len(v))
	case dicom.PixelData:
		return "<pixel data>"
	}
	return e.raw.Value.String()
}

// Editable reports whether SetText can succeed for some input.
func (e *Element) Editable() bool {
	if e.kind == KindSequence {
		return false
	}
	if e.raw.Value == nil {
		return true
	}
	switch e.raw.Value.ValueType() {
	case dicom.Strings, dicom.Ints, dicom.Floats:
		return true
	}
	return false
}

// SetText parses text according to the element's current value type and
// stores the result in the underlying element. On error the element is
// left unchanged.
func (e *Element) SetText(text string) error {
	if e.kind == KindSequence {
		return errors.New(errors.ErrCodeEditRejected, "sequence %s is not directly editable", TagString(e.raw.Tag))
	}
	if err := errors.ValidateEditText(text); err != nil {
		return err
	}

	valueType := dicom.Strings
	if e.raw.Value != nil {
		valueType = e.raw.Value.ValueType()
	}

	var data interface{}
	switch valueType {
	case dicom.Strings:
		data = splitValues(text)
	case dicom.Ints:
		ints, err := parseInts(text)
		if err != nil {
			return errors.Wrap(errors.ErrCodeEditRejected, err, "invalid integer value for %s", TagString(e.raw.Tag))
		}
		if err := checkIntRange(e.VR(), ints); err != nil {
			return errors.Wrap(errors.ErrCodeEditRejected, err, "value out of range for %s", TagString(e.raw.Tag))
		}
		data = ints
	case dicom.Floats:
		floats, err := parseFloats(text)
		if err != nil {
			return errors.Wrap(errors.ErrCodeEditRejected, err, "invalid decimal value for %s", TagString(e.raw.Tag))
		}
		data = floats
	default:
		return errors.New(errors.ErrCodeEditRejected, "%s values of %s cannot be edited as text", e.VR(), TagString(e.raw.Tag))
	}

	v, err := dicom.NewValue(data)
	if err != nil {
		return errors.Wrap(errors.ErrCodeEditRejected, err, "cannot build value for %s", TagString(e.raw.Tag))
	}
	e.raw.Value = v
	return nil
}

func splitValues(text string) []string {
	if text == "" {
		return []string{}
	}
	return strings.Split(text, valueDelimiter)
}

func parseInts(text string) ([]int, error) {
	parts := splitValues(text)
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// intRanges bounds the integer VRs; the writer narrows values to these
// widths without checking.
var intRanges = map[string]struct{ min, max int64 }{
	"US": {0, math.MaxUint16},
	"SS": {math.MinInt16, math.MaxInt16},
	"UL": {0, math.MaxUint32},
	"SL": {math.MinInt32, math.MaxInt32},
}

func checkIntRange(vr string, ints []int) error {
	r, ok := intRanges[vr]
	if !ok {
		return nil
	}
	for _, n := range ints {
		if int64(n) < r.min || int64(n) > r.max {
			return fmt.Errorf("%d is outside %s range [%d, %d]", n, vr, r.min, r.max)
		}
	}
	return nil
}

func parseFloats(text string) ([]float64, error) {
	parts := splitValues(text)
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
