package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shredder/pkg/config"
)

func TestConfigInitAndShow(t *testing.T) {
	t.Chdir(t.TempDir())
	c := New(io.Discard, log.InfoLevel)

	root := c.RootCommand()
	root.SetArgs([]string{"config", "init"})
	if err := root.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := config.Load(config.DefaultFile); err != nil {
		t.Fatalf("written config does not load: %v", err)
	}

	root = c.RootCommand()
	root.SetArgs([]string{"config", "init"})
	if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second init error = %v, want already exists", err)
	}

	var out bytes.Buffer
	root = c.RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"config", "show"})
	if err := root.Execute(); err != nil {
		t.Fatalf("config show: %v", err)
	}
	cfg, err := config.Parse(out.Bytes())
	if err != nil {
		t.Fatalf("show output is not valid config: %v\n%s", err, out.String())
	}
	if cfg != config.Default() {
		t.Errorf("show = %+v, want defaults", cfg)
	}
}
