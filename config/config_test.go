package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Body.Radius != 10 {
		t.Errorf("body.radius: got %v, want 10", cfg.Body.Radius)
	}
	if cfg.Plants.SpawnTimeLimit != time.Millisecond {
		t.Errorf("plants.spawn_time_limit: got %v, want 1ms", cfg.Plants.SpawnTimeLimit)
	}
	if cfg.Zoom.Max != 20 || cfg.Zoom.Min != 1 {
		t.Errorf("zoom: got %v..%v, want 1..20", cfg.Zoom.Min, cfg.Zoom.Max)
	}

	// Area defaults to the screen scaled by the body radius
	if cfg.Derived.WorldW != 12800 || cfg.Derived.WorldH != 8000 {
		t.Errorf("area: got %vx%v, want 12800x8000", cfg.Derived.WorldW, cfg.Derived.WorldH)
	}
	if cfg.Derived.ZoomW != 640 || cfg.Derived.ZoomH != 400 {
		t.Errorf("zoom rect: got %vx%v, want 640x400", cfg.Derived.ZoomW, cfg.Derived.ZoomH)
	}
	if cfg.Derived.DT != time.Second/60 {
		t.Errorf("dt: got %v, want %v", cfg.Derived.DT, time.Second/60)
	}
}

func TestLoadOverlaysUserFile(t *testing.T) {
	path := writeFile(t, "user.yaml", "body:\n  max_energy: 999\nworld:\n  width: 5000\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Body.MaxEnergy != 999 {
		t.Errorf("max_energy: got %v, want 999", cfg.Body.MaxEnergy)
	}
	// Untouched keys keep their defaults
	if cfg.Body.AverageSpeed != 1.5 {
		t.Errorf("average_speed: got %v, want 1.5", cfg.Body.AverageSpeed)
	}
	if cfg.Derived.WorldW != 5000 {
		t.Errorf("world width: got %v, want 5000", cfg.Derived.WorldW)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		want string
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") },
			want: "reading config file",
		},
		{
			name: "malformed yaml",
			path: func(t *testing.T) string { return writeFile(t, "bad.yaml", "body: [unclosed\n") },
			want: "parsing config file",
		},
		{
			name: "invalid value",
			path: func(t *testing.T) string { return writeFile(t, "grid.yaml", "grid:\n  rows: 0\n") },
			want: "grid.rows",
		},
		{
			name: "negative gap",
			path: func(t *testing.T) string { return writeFile(t, "gap.yaml", "body:\n  min_gap: -1\n") },
			want: "body.min_gap",
		},
		{
			name: "no body spawn attempts",
			path: func(t *testing.T) string { return writeFile(t, "body.yaml", "body:\n  spawn_attempts: 0\n") },
			want: "body.spawn_attempts",
		},
		{
			name: "no plant spawn attempts",
			path: func(t *testing.T) string { return writeFile(t, "plants.yaml", "plants:\n  spawn_attempts: 0\n") },
			want: "plants.spawn_attempts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path(t))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoaderReloadKeepsPreviousOnError(t *testing.T) {
	path := writeFile(t, "cfg.yaml", "plants:\n  hp: 40\n")

	l, err := NewLoader(path)
	if err != nil {
		t.Fatalf("NewLoader error: %v", err)
	}
	first := l.Current()

	if err := os.WriteFile(path, []byte("plants: {hp: [\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := l.Reload()
	if err == nil {
		t.Fatal("expected reload error")
	}
	if got != first || l.Current() != first {
		t.Error("failed reload replaced the active snapshot")
	}

	if err := os.WriteFile(path, []byte("plants:\n  hp: 60\nworld:\n  width: 100\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err = l.Reload()
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}
	if got.Plants.HP != 60 {
		t.Errorf("hp after reload: got %v, want 60", got.Plants.HP)
	}
	// Area stays fixed for the lifetime of a run
	if got.Derived.WorldW != first.Derived.WorldW {
		t.Errorf("world width changed on reload: got %v, want %v", got.Derived.WorldW, first.Derived.WorldW)
	}
	if first.Plants.HP != 40 {
		t.Errorf("previous snapshot mutated: hp %v", first.Plants.HP)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML error: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written file: %v", err)
	}
	if back.Body.DyingGrace != cfg.Body.DyingGrace {
		t.Errorf("dying_grace: got %v, want %v", back.Body.DyingGrace, cfg.Body.DyingGrace)
	}
}
