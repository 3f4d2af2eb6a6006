package cli

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
)

// dicomExt is the extension offered by path completion unless all files
// are requested.
const dicomExt = ".dcm"

// completePath completes the last element of input against the entries of
// its directory. Directories always match; files match only when they end
// in .dcm, or when all is set. It returns the completed input and the
// matching names; with several matches the input is extended to their
// longest common prefix.
func completePath(fs afero.Fs, input string, all bool) (string, []string) {
	dir, base := filepath.Split(input)
	readDir := dir
	if readDir == "" {
		readDir = "."
	}

	entries, err := afero.ReadDir(fs, readDir)
	if err != nil {
		return input, nil
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, base) {
			continue
		}
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(base, ".") {
			continue
		}
		if e.IsDir() {
			names = append(names, name+string(filepath.Separator))
			continue
		}
		if all || strings.EqualFold(filepath.Ext(name), dicomExt) {
			names = append(names, name)
		}
	}

	switch len(names) {
	case 0:
		return input, nil
	case 1:
		return dir + names[0], names
	}
	return dir + commonPrefix(names), names
}

func commonPrefix(names []string) string {
	prefix := names[0]
	for _, n := range names[1:] {
		for !strings.HasPrefix(n, prefix) {
			_, size := utf8.DecodeLastRuneInString(prefix)
			prefix = prefix[:len(prefix)-size]
		}
	}
	return prefix
}
