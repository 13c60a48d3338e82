package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli"

	"github.com/ivlev/scrollreel/internal/config"
	"github.com/ivlev/scrollreel/internal/source"
)

// loadPage reads a page file, or builds a one-sequence page from a frame
// template and the global flags.
func loadPage(c *cli.Context) (*config.Page, error) {
	arg := c.Args().Get(0)
	if arg == "" {
		return nil, fmt.Errorf("page file or frame template is required")
	}

	switch strings.ToLower(filepath.Ext(arg)) {
	case ".yaml", ".yml":
		return config.ReadPage(arg)
	}

	aspect, err := parseAspect(c.GlobalString("aspect"))
	if err != nil {
		return nil, err
	}

	frames := c.GlobalInt("frames")
	if frames == 0 {
		frames, err = countFrames(arg)
		if err != nil {
			return nil, err
		}
	}

	page := &config.Page{
		ScrollLength: c.GlobalFloat64("scroll-length"),
		Sequences: []config.Sequence{{
			ID:               strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg)),
			TotalFrames:      frames,
			URLTemplate:      arg,
			ScrollMultiplier: c.GlobalFloat64("multiplier"),
			StartTrigger:     c.GlobalFloat64("start"),
			EndTrigger:       c.GlobalFloat64("end"),
			AspectRatio:      aspect,
			Backend:          c.GlobalString("backend"),
			MaxConcurrent:    c.GlobalInt("concurrency"),
		}},
	}
	if err := page.Normalize(); err != nil {
		return nil, err
	}
	return page, nil
}

// countFrames asks the source how many frames it has. Only documents know;
// templates need --frames.
func countFrames(template string) (int, error) {
	src, err := source.Open(template)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	if n := src.FrameCount(); n > 0 {
		return n, nil
	}
	return 0, fmt.Errorf("--frames is required for template %q", template)
}

// parseAspect accepts "w:h" presets or a plain ratio.
func parseAspect(s string) (float64, error) {
	switch s {
	case "", "16:9":
		return 16.0 / 9.0, nil
	case "9:16":
		return 9.0 / 16.0, nil
	case "4:5":
		return 4.0 / 5.0, nil
	}

	if w, h, ok := strings.Cut(s, ":"); ok {
		fw, err1 := strconv.ParseFloat(w, 64)
		fh, err2 := strconv.ParseFloat(h, 64)
		if err1 != nil || err2 != nil || fw <= 0 || fh <= 0 {
			return 0, fmt.Errorf("invalid aspect ratio %q", s)
		}
		return fw / fh, nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid aspect ratio %q", s)
	}
	return v, nil
}
