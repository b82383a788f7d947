package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shredder/pkg/observability"
)

// logHooks reports observability events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnLoadStart(_ context.Context, source string) {
	h.logger.Debug("load start", "source", source)
}

func (h *logHooks) OnLoadComplete(_ context.Context, source string, height, width int, d time.Duration, err error) {
	h.logger.Debug("load complete", "source", source, "height", height, "width", width, "duration", d, "error", err)
}

func (h *logHooks) OnShredStart(_ context.Context, sliceWidth, hSlices, vSlices int) {
	h.logger.Debug("shred start", "slice_width", sliceWidth, "h_slices", hSlices, "v_slices", vSlices)
}

func (h *logHooks) OnShredComplete(_ context.Context, variants int, d time.Duration, err error) {
	h.logger.Debug("shred complete", "variants", variants, "duration", d, "error", err)
}

func (h *logHooks) OnComposeStart(_ context.Context, variants int) {
	h.logger.Debug("compose start", "variants", variants)
}

func (h *logHooks) OnComposeComplete(_ context.Context, height, width int, d time.Duration, err error) {
	h.logger.Debug("compose complete", "height", height, "width", width, "duration", d, "error", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, requestID, method, path string) {
	h.logger.Debug("request", "id", requestID, "method", method, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, requestID, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "id", requestID, "method", method, "path", path, "status", status, "duration", d)
}

var (
	_ observability.PipelineHooks = (*logHooks)(nil)
	_ observability.CacheHooks    = (*logHooks)(nil)
	_ observability.HTTPHooks     = (*logHooks)(nil)
)
