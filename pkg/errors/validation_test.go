package errors

import (
	"strings"
	"testing"
)

func TestValidateFilePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "scan.dcm", false},
		{"absolute", "/data/studies/scan.dcm", false},
		{"with spaces", "my scans/ct 01.dcm", false},
		{"parent dir", "../scan.dcm", false},

		{"empty", "", true},
		{"whitespace", "   ", true},
		{"too long", strings.Repeat("a", 5000), true},
		{"null byte", "scan\x00.dcm", true},
		{"newline", "scan\n.dcm", true},
		{"tab", "scan\t.dcm", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateFilePath(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateEditText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"person name", "Doe^John", false},
		{"empty", "", false},
		{"multi value", `ORIGINAL\PRIMARY`, false},
		{"multi line text", "line one\r\nline two", false},

		{"null byte", "Doe\x00John", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEditText(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEditText(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !IsEditRejected(err) {
				t.Errorf("ValidateEditText(%q) should be an edit rejection", tt.input)
			}
		})
	}
}
