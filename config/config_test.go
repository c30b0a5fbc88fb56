package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	rt, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if rt != Defaults {
		t.Fatalf("got %+v, want defaults %+v", rt, Defaults)
	}
}

func TestLoadOverridesOnlySetFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	doc := "tickRate: 30\nreplayPath: /tmp/run.dmrp\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	rt, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if rt.TickRate != 30 {
		t.Fatalf("TickRate = %d, want 30", rt.TickRate)
	}
	if rt.ReplayPath != "/tmp/run.dmrp" {
		t.Fatalf("ReplayPath = %q, want /tmp/run.dmrp", rt.ReplayPath)
	}
	if rt.CommandQueueGlobal != Defaults.CommandQueueGlobal {
		t.Fatalf("CommandQueueGlobal = %d, want default %d", rt.CommandQueueGlobal, Defaults.CommandQueueGlobal)
	}
}
