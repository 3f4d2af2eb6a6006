package dataset

import (
	"fmt"

	"github.com/suyashkumar/dicom/pkg/tag"
)

// UnknownKeyword is shown for tags missing from the data dictionary,
// such as private tags.
const UnknownKeyword = "Unknown"

// TagString formats t as "(GGGG,EEEE)".
func TagString(t tag.Tag) string {
	return fmt.Sprintf("(%04X,%04X)", t.Group, t.Element)
}

// Keyword looks t up in the library's data dictionary.
func Keyword(t tag.Tag) string {
	info, err := tag.Find(t)
	if err != nil || info.Name == "" {
		return UnknownKeyword
	}
	return info.Name
}

// TagLabel renders the Tag column: "(0010,0010) (PatientName)".
func TagLabel(t tag.Tag) string {
	return fmt.Sprintf("%s (%s)", TagString(t), Keyword(t))
}
