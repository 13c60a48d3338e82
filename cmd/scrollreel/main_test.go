package main

import (
	"flag"
	"path/filepath"
	"testing"

	"github.com/urfave/cli"

	"github.com/ivlev/scrollreel/internal/config"
	"github.com/ivlev/scrollreel/internal/surface"
)

func TestParseAspect(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"16:9", 16.0 / 9.0, true},
		{"9:16", 9.0 / 16.0, true},
		{"4:5", 0.8, true},
		{"21:9", 21.0 / 9.0, true},
		{"2.35", 2.35, true},
		{"", 16.0 / 9.0, true},
		{"0:9", 0, false},
		{"wide", 0, false},
		{"-1", 0, false},
	}
	for _, tt := range tests {
		got, err := parseAspect(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("parseAspect(%q) error = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("parseAspect(%q) = %f, want %f", tt.in, got, tt.want)
		}
	}
}

func TestParsePositions(t *testing.T) {
	got, err := parsePositions([]string{"0.15", "1"})
	if err != nil || len(got) != 2 || got[0] != 0.15 {
		t.Errorf("Unexpected result %v, %v", got, err)
	}
	if _, err := parsePositions([]string{"1.5"}); err == nil {
		t.Error("Expected error for position above 1")
	}
	if d, _ := parsePositions(nil); len(d) != 5 {
		t.Errorf("Expected default positions, got %v", d)
	}
}

func newContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	global := flag.NewFlagSet("scrollreel", flag.ContinueOnError)
	for _, f := range app.Flags {
		f.Apply(global)
	}
	if err := global.Parse(args); err != nil {
		t.Fatal(err)
	}
	parent := cli.NewContext(app, global, nil)

	local := flag.NewFlagSet("play", flag.ContinueOnError)
	if err := local.Parse(global.Args()); err != nil {
		t.Fatal(err)
	}
	return cli.NewContext(app, local, parent)
}

func TestLoadPageFromTemplate(t *testing.T) {
	c := newContext(t, "--frames", "140", "--end", "0.3", "--backend", "swap", "frames/hero/")
	page, err := loadPage(c)
	if err != nil {
		t.Fatalf("loadPage failed: %v", err)
	}
	seq := page.Sequences[0]
	if seq.ID != "hero" || seq.TotalFrames != 140 || seq.EndTrigger != 0.3 || seq.Backend != config.BackendSwap {
		t.Errorf("Unexpected sequence %+v", seq)
	}
	if page.ScrollLength != config.DefaultScrollLength {
		t.Errorf("Expected default scroll length, got %f", page.ScrollLength)
	}
}

func TestLoadPageNeedsFrames(t *testing.T) {
	if _, err := loadPage(newContext(t, "frames/hero/")); err == nil {
		t.Error("Expected error without --frames")
	}
	if _, err := loadPage(newContext(t)); err == nil {
		t.Error("Expected error without an argument")
	}
}

func TestLoadPageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.yaml")
	err := config.WritePage(&config.Page{Sequences: []config.Sequence{
		{ID: "hero", TotalFrames: 10, URLTemplate: "hero/"},
	}}, path)
	if err != nil {
		t.Fatal(err)
	}
	page, err := loadPage(newContext(t, path))
	if err != nil {
		t.Fatalf("loadPage failed: %v", err)
	}
	if page.Sequences[0].ID != "hero" {
		t.Errorf("Unexpected page %+v", page)
	}
}

func TestSurfaceRect(t *testing.T) {
	r := surfaceRect(surface.Viewport{Width: 1280, Height: 720, DevicePixelRatio: 1.5})
	if r.Dx() != 1920 || r.Dy() != 1080 {
		t.Errorf("Unexpected rect %v", r)
	}
}
