package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
	"go.uber.org/multierr"

	"github.com/matzehuels/dicomtag/pkg/errors"
	"github.com/matzehuels/dicomtag/pkg/observability"
)

// EditedSuffix is appended to the source file's stem to form the default
// save-as name.
const EditedSuffix = "_EDITED"

// Extension is the conventional DICOM file extension.
const Extension = ".dcm"

// DefaultFileMode is the mode of newly saved files.
const DefaultFileMode os.FileMode = 0o644

// Loader owns the current dataset and the path it was read from.
// It is not safe for concurrent use; the editor drives it from its
// single event loop.
type Loader struct {
	fs     afero.Fs
	logger *log.Logger

	current *dicom.Dataset
	path    string
}

// NewLoader creates a loader reading and writing through fs.
// A nil fs means the OS filesystem; a nil logger discards output.
func NewLoader(fs afero.Fs, logger *log.Logger) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{fs: fs, logger: logger}
}

// Current returns the loaded dataset, or nil when nothing is loaded.
func (l *Loader) Current() *dicom.Dataset { return l.current }

// Path returns the source path of the current dataset.
func (l *Loader) Path() string { return l.path }

// Loaded reports whether a dataset is present.
func (l *Loader) Loaded() bool { return l.current != nil }

// Clear drops the current dataset.
func (l *Loader) Clear() {
	l.current = nil
	l.path = ""
}

// Load parses path and makes it the current dataset. On failure the
// current dataset becomes absent and the error is logged and returned.
func (l *Loader) Load(ctx context.Context, path string) (*dicom.Dataset, error) {
	hooks := observability.Document()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()

	ds, err := l.read(path)
	if err != nil {
		l.Clear()
		l.logger.Error("failed to load DICOM file", "path", path, "err", err)
		hooks.OnLoadComplete(ctx, path, 0, time.Since(start), err)
		return nil, err
	}

	l.current = ds
	l.path = path
	l.logger.Info("loaded DICOM file", "path", path, "elements", len(ds.Elements))
	hooks.OnLoadComplete(ctx, path, len(ds.Elements), time.Since(start), nil)
	return ds, nil
}

func (l *Loader) read(path string) (ds *dicom.Dataset, err error) {
	if err := errors.ValidateFilePath(path); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoadFailed, err, "invalid path")
	}

	info, err := l.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeLoadFailed, err, "cannot stat %s", path)
	}
	if info.IsDir() {
		return nil, errors.New(errors.ErrCodeLoadFailed, "%s is a directory", path)
	}

	f, err := l.fs.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoadFailed, err, "cannot open %s", path)
	}
	defer f.Close()

	// The parser may panic on malformed input; that must stay a LoadError.
	defer func() {
		if r := recover(); r != nil {
			ds = nil
			err = errors.New(errors.ErrCodeLoadFailed, "malformed DICOM file %s: %v", path, r)
		}
	}()

	parsed, err := dicom.Parse(f, info.Size(), nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoadFailed, err, "cannot parse %s", path)
	}
	return &parsed, nil
}

// Save writes the current dataset to path. The file is written to a
// temporary sibling and renamed into place, so a failed save never
// truncates an existing file. The in-memory dataset is never modified.
func (l *Loader) Save(ctx context.Context, path string) error {
	hooks := observability.Document()
	hooks.OnSaveStart(ctx, path)
	start := time.Now()

	err := l.write(path)
	if err != nil {
		if errors.Is(err, errors.ErrCodeNoDataset) {
			l.logger.Warn("no DICOM data to save")
		} else {
			l.logger.Error("failed to save DICOM file", "path", path, "err", err)
		}
	} else {
		l.logger.Info("saved DICOM file", "path", path)
	}
	hooks.OnSaveComplete(ctx, path, time.Since(start), err)
	return err
}

func (l *Loader) write(path string) (err error) {
	if l.current == nil {
		return errors.New(errors.ErrCodeNoDataset, "no DICOM data to save")
	}
	if err := errors.ValidateFilePath(path); err != nil {
		return errors.Wrap(errors.ErrCodeSaveFailed, err, "invalid path")
	}

	dir := filepath.Dir(path)
	tmp, err := afero.TempFile(l.fs, dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeSaveFailed, err, "cannot create file in %s", dir)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = l.fs.Remove(tmpName)
		}
	}()

	werr := writeDataset(tmp, *l.current)
	werr = multierr.Append(werr, tmp.Close())
	// Temp files are created 0600; keep the target's mode or use the usual one.
	werr = multierr.Append(werr, l.fs.Chmod(tmpName, l.saveMode(path)))
	if werr != nil {
		return errors.Wrap(errors.ErrCodeSaveFailed, werr, "cannot write %s", path)
	}

	if err := l.fs.Rename(tmpName, path); err != nil {
		return errors.Wrap(errors.ErrCodeSaveFailed, err, "cannot move file into place at %s", path)
	}
	return nil
}

// saveMode returns the permissions of an existing file at path, or
// DefaultFileMode.
func (l *Loader) saveMode(path string) os.FileMode {
	if info, err := l.fs.Stat(path); err == nil && info.Mode().IsRegular() {
		return info.Mode().Perm()
	}
	return DefaultFileMode
}

func writeDataset(w io.Writer, ds dicom.Dataset) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("serialization panic: %v", r)
		}
	}()
	return dicom.Write(w, ds,
		dicom.SkipVRVerification(),
		dicom.SkipValueTypeVerification(),
		dicom.DefaultMissingTransferSyntax(),
	)
}

// DefaultSaveName returns "<stem>_EDITED.dcm" beside the source file.
func (l *Loader) DefaultSaveName() string {
	if l.path == "" {
		return "untitled" + EditedSuffix + Extension
	}
	base := filepath.Base(l.path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(l.path), stem+EditedSuffix+Extension)
}

// TagValue returns the Value text of a top-level element.
func (l *Loader) TagValue(t tag.Tag) (string, error) {
	e, err := l.find(t)
	if err != nil {
		return "", err
	}
	return Wrap(e).Text(), nil
}

// SetTagValue replaces the value of a top-level element.
func (l *Loader) SetTagValue(t tag.Tag, text string) error {
	e, err := l.find(t)
	if err != nil {
		return err
	}
	if err := Wrap(e).SetText(text); err != nil {
		return err
	}
	l.logger.Info("set tag", "tag", TagString(t), "value", text)
	return nil
}

func (l *Loader) find(t tag.Tag) (*dicom.Element, error) {
	if l.current == nil {
		return nil, errors.New(errors.ErrCodeNoDataset, "no DICOM data loaded")
	}
	e, err := l.current.FindElementByTag(t)
	if err != nil {
		l.logger.Warn("tag not found in DICOM data", "tag", TagString(t))
		return nil, errors.Wrap(errors.ErrCodeTagNotFound, err, "tag %s not found", TagString(t))
	}
	return e, nil
}
