package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/typegraph/pkg/observability"
)

// logHooks reports graph and cache events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnSchemaLoad(_ context.Context, source string, typeCount int, err error) {
	if err != nil {
		h.logger.Debug("schema load failed", "source", source, "err", err)
		return
	}
	h.logger.Debug("schema loaded", "source", source, "types", typeCount)
}

func (h logHooks) OnFlatten(_ context.Context, nodeCount int, d time.Duration) {
	h.logger.Debug("flattened", "nodes", nodeCount, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnUnflatten(_ context.Context, nodeCount int, d time.Duration, err error) {
	h.logger.Debug("unflattened", "records", nodeCount, "took", d.Round(time.Microsecond), "err", err)
}

func (h logHooks) OnMerge(_ context.Context, typeName string, d time.Duration) {
	h.logger.Debug("merged", "root", typeName, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "kind", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "kind", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "kind", keyType, "bytes", size)
}

var (
	_ observability.GraphHooks = logHooks{}
	_ observability.CacheHooks = logHooks{}
)

// installHooks routes observability events to the CLI logger.
func (c *CLI) installHooks() {
	h := logHooks{logger: c.Logger}
	observability.SetGraphHooks(h)
	observability.SetCacheHooks(h)
}
