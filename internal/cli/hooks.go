package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dicomtag/pkg/observability"
)

// logHooks reports loader and tree events to the CLI logger at debug level.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.DocumentHooks = (*logHooks)(nil)
	_ observability.TreeHooks     = (*logHooks)(nil)
)

func (h *logHooks) OnLoadStart(_ context.Context, path string) {
	h.logger.Debug("load started", "path", path)
}

func (h *logHooks) OnLoadComplete(_ context.Context, path string, elements int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load finished", "path", path, "took", d.Round(time.Millisecond), "err", err)
		return
	}
	h.logger.Debug("load finished", "path", path, "elements", elements, "took", d.Round(time.Millisecond))
}

func (h *logHooks) OnSaveStart(_ context.Context, path string) {
	h.logger.Debug("save started", "path", path)
}

func (h *logHooks) OnSaveComplete(_ context.Context, path string, d time.Duration, err error) {
	h.logger.Debug("save finished", "path", path, "took", d.Round(time.Millisecond), "ok", err == nil)
}

func (h *logHooks) OnRebuild(rows, nodes int, d time.Duration) {
	h.logger.Debug("tree reset", "rows", rows, "nodes", nodes, "took", d)
}

func (h *logHooks) OnEdit(tag string, column int, accepted bool) {
	h.logger.Debug("edit", "tag", tag, "column", column, "accepted", accepted)
}

// registerHooks installs logHooks for the lifetime of the process.
func registerHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetDocumentHooks(h)
	observability.SetTreeHooks(h)
}
