// Package cli implements the dicomtag command-line interface.
//
// dicomtag takes one optional positional argument, the DICOM file to open.
// On a terminal it starts an interactive browser in which tags can be
// expanded, edited and saved; when stdout is not a terminal it prints the
// whole tag tree as a table and exits.
//
// # Logging
//
// Logging uses charmbracelet/log. The -v flag can be repeated:
//   - (none): errors only
//   - -v: warnings
//   - -vv: info
//   - -vvv: debug
//
// While the browser owns the terminal, log lines that would be drawn over
// it are discarded; failures still reach the browser's status line.
package cli

import (
	"context"
	"errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dicomtag/pkg/buildinfo"
	"github.com/matzehuels/dicomtag/pkg/dataset"
	"github.com/matzehuels/dicomtag/pkg/tree"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "dicomtag"

	// windowTitle is shown at the top of the browser.
	windowTitle = "DICOM Tag Viewer"
)

// LogError is the initial level; -v raises it in PersistentPreRun.
const (
	LogError = log.ErrorLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for the command.
type CLI struct {
	Logger *log.Logger

	fs afero.Fs
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		fs:     afero.NewOsFs(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command.
func (c *CLI) RootCommand() *cobra.Command {
	var verbosity int

	root := &cobra.Command{
		Use:               appName + " [inputfile]",
		Short:             "View and edit DICOM tags",
		Long:              `dicomtag shows the tags of a DICOM file as a tree of tag, VR and value, lets you edit leaf values in place and saves the edited dataset to a new file.`,
		Version:           buildinfo.Version,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeInputFile,
		SilenceUsage:      true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			c.SetLogLevel(levelForVerbosity(verbosity))
			registerHooks(c.Logger)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.run(cmd.Context(), cmd.OutOrStdout(), input)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.Flags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v, -vv, -vvv)")
	root.Flags().BoolP("version", "V", false, "print version and exit")

	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Run
// =============================================================================

func (c *CLI) run(ctx context.Context, out io.Writer, input string) error {
	logger := loggerFromContext(ctx)
	loader := dataset.NewLoader(c.fs, logger)

	var loadErr error
	if input != "" {
		logger.Info("loading DICOM file", "path", input)
		prog := newProgress(logger)
		if _, loadErr = loader.Load(ctx, input); loadErr == nil {
			prog.done("Loaded " + input)
		}
	}

	model := tree.NewModel(loader, logger)

	if !isTerminal(out) {
		if loadErr != nil {
			printError(out, "%s", loadErr)
		}
		return printTree(out, model)
	}
	return c.browse(ctx, loader, model, loadErr)
}

// browse runs the interactive browser until the user quits.
func (c *CLI) browse(ctx context.Context, loader *dataset.Loader, model *tree.Model, loadErr error) error {
	logger := loggerFromContext(ctx)

	// Log lines on the terminal the browser draws on would corrupt it.
	if isatty.IsTerminal(os.Stderr.Fd()) {
		logger.SetOutput(io.Discard)
		defer logger.SetOutput(os.Stderr)
	}

	b := NewBrowser(ctx, c.fs, loader, model)
	if loadErr != nil {
		b.setError(loadErr)
	}

	p := tea.NewProgram(b, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
