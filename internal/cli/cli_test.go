package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/matzehuels/dicomtag/pkg/buildinfo"
	"github.com/matzehuels/dicomtag/pkg/dataset/datasettest"
	"github.com/matzehuels/dicomtag/pkg/observability"
)

// execute runs the root command against fs and returns stdout.
func execute(t *testing.T, fs afero.Fs, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(observability.Reset)

	c := New(io.Discard, log.ErrorLevel)
	if fs != nil {
		c.fs = fs
	}
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionFlag(t *testing.T) {
	for _, flag := range []string{"-V", "--version"} {
		t.Run(flag, func(t *testing.T) {
			out, err := execute(t, nil, flag)
			if err != nil {
				t.Fatalf("Execute(%s) error = %v", flag, err)
			}
			if want := appName + " " + buildinfo.Version; !strings.HasPrefix(out, want) {
				t.Errorf("output = %q, want prefix %q", out, want)
			}
		})
	}
}

func TestRunDumpsTree(t *testing.T) {
	fs := afero.NewMemMapFs()
	datasettest.WriteFile(t, fs, "scan.dcm", datasettest.Scenario(t))

	out, err := execute(t, fs, "scan.dcm")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{"(PatientName)", datasettest.PatientName, "(ReferencedImageSequence)", "Item 2", "1.2.3.2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunWithoutInput(t *testing.T) {
	out, err := execute(t, afero.NewMemMapFs())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "no DICOM file loaded") {
		t.Errorf("output = %q, want empty notice", out)
	}
}

func TestRunMissingInput(t *testing.T) {
	out, err := execute(t, afero.NewMemMapFs(), "missing.dcm")
	if err != nil {
		t.Fatalf("a load failure should not fail the command, got %v", err)
	}
	if !strings.Contains(out, iconError) || !strings.Contains(out, "missing.dcm") {
		t.Errorf("output = %q, want load error", out)
	}
	if !strings.Contains(out, "no DICOM file loaded") {
		t.Errorf("output = %q, want empty tree", out)
	}
}

func TestTooManyArgs(t *testing.T) {
	if _, err := execute(t, afero.NewMemMapFs(), "a.dcm", "b.dcm"); err == nil {
		t.Error("expected error for two input files")
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := execute(t, nil, "completion", shell)
			if err != nil {
				t.Fatalf("completion %s error = %v", shell, err)
			}
			if !strings.Contains(out, appName) {
				t.Errorf("completion %s output does not mention %s", shell, appName)
			}
		})
	}
}

func TestVerbosityFlag(t *testing.T) {
	var logs bytes.Buffer
	t.Cleanup(observability.Reset)

	c := New(&logs, log.ErrorLevel)
	c.fs = afero.NewMemMapFs()
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"-vvv", "missing.dcm"})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
	if !strings.Contains(logs.String(), "load started") {
		t.Errorf("debug hooks not logged:\n%s", logs.String())
	}
}
