package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shredder/pkg/observability"
)

func TestSetLogLevelRegistersHooks(t *testing.T) {
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)
	c.SetLogLevel(log.DebugLevel)

	ctx := context.Background()
	observability.Pipeline().OnShredStart(ctx, 5, 3, 4)
	observability.Cache().OnCacheMiss(ctx, "artifact")
	observability.HTTP().OnResponse(ctx, "id-1", "POST", "/shred", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"shred start", "slice_width=5", "cache miss", "status=200"} {
		if !strings.Contains(out, want) {
			t.Errorf("debug output missing %q:\n%s", want, out)
		}
	}
}
