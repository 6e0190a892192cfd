package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event to a logger at debug level. Failures are
// reported at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks writing to logger. A nil logger discards events.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		return &LogHooks{}
	}
	return &LogHooks{logger: logger.WithPrefix("obs")}
}

func (h *LogHooks) debug(msg string, kv ...any) {
	if h.logger != nil {
		h.logger.Debug(msg, kv...)
	}
}

func (h *LogHooks) done(msg string, err error, kv ...any) {
	if h.logger == nil {
		return
	}
	if err != nil {
		h.logger.Warn(msg, append(kv, "err", err)...)
		return
	}
	h.logger.Debug(msg, kv...)
}

func (h *LogHooks) OnBuildStart(_ context.Context, rows int) {
	h.debug("build start", "rows", rows)
}

func (h *LogHooks) OnBuildComplete(_ context.Context, nodes int, d time.Duration, err error) {
	h.done("build complete", err, "nodes", nodes, "took", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, visible int) {
	h.debug("layout start", "visible", visible)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, d time.Duration, err error) {
	h.done("layout complete", err, "took", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("render complete", err, "formats", formats, "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.debug("response", "method", method, "route", route, "status", status, "took", d)
}

func (h *LogHooks) OnError(_ context.Context, method, route string, err error) {
	h.done("request failed", err, "method", method, "route", route)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
