package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/ivlev/scrollreel/internal/calibrate"
	"github.com/ivlev/scrollreel/internal/host/headless"
	"github.com/ivlev/scrollreel/internal/host/terminal"
	"github.com/ivlev/scrollreel/internal/host/window"
	"github.com/ivlev/scrollreel/internal/player"
	"github.com/ivlev/scrollreel/internal/surface"
	"github.com/ivlev/scrollreel/internal/system"
)

var playCommand = cli.Command{
	Name:      "play",
	Aliases:   []string{"p"},
	Usage:     "Play in the terminal (j/k, wheel, PgUp/PgDn, Home/End; q quits)",
	ArgsUsage: "<page.yaml|template>",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "log", Usage: "Write logs to this file while playing"},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadPage(c)
		if err != nil {
			return err
		}

		// The terminal is the display; logs go elsewhere.
		if path := c.String("log"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()
			log.SetOutput(f)
		} else {
			log.SetOutput(io.Discard)
		}
		defer log.SetOutput(os.Stderr)

		h, err := terminal.New(cfg.ScrollLength)
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		defer h.Close()

		ctx, cancel := signalContext()
		defer cancel()

		pg, err := player.NewPage(cfg, h, nil)
		if err != nil {
			return err
		}
		defer pg.Close()

		if err := pg.Mount(ctx); err != nil {
			return err
		}
		return h.Run(ctx, pg)
	},
}

var windowCommand = cli.Command{
	Name:      "window",
	Aliases:   []string{"w"},
	Usage:     "Play in a desktop window",
	ArgsUsage: "<page.yaml|template>",
	Action: func(c *cli.Context) error {
		cfg, err := loadPage(c)
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		h := window.New(cfg.ScrollLength)
		pg, err := player.NewPage(cfg, h, nil)
		if err != nil {
			return err
		}
		defer pg.Close()

		if err := pg.Mount(ctx); err != nil {
			return err
		}
		return h.Run(ctx, pg, "scrollreel - "+c.Args().Get(0))
	},
}

var renderCommand = cli.Command{
	Name:      "render",
	Aliases:   []string{"r"},
	Usage:     "Render snapshots at given scroll positions to PNG",
	ArgsUsage: "<page.yaml|template>",
	Flags: []cli.Flag{
		cli.StringSliceFlag{Name: "at", Usage: "Scroll fraction in [0,1], repeatable"},
		cli.StringFlag{Name: "out", Value: "output", Usage: "Output directory"},
		cli.IntFlag{Name: "width", Value: 1280, Usage: "Viewport width (CSS px)"},
		cli.IntFlag{Name: "height", Value: 720, Usage: "Viewport height (CSS px)"},
		cli.Float64Flag{Name: "dpr", Value: 1, Usage: "Device pixel ratio"},
		cli.DurationFlag{Name: "timeout", Value: time.Minute, Usage: "Give up loading after this long"},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadPage(c)
		if err != nil {
			return err
		}

		positions, err := parsePositions(c.StringSlice("at"))
		if err != nil {
			return err
		}
		out := c.String("out")
		if err := os.MkdirAll(out, 0755); err != nil {
			return err
		}

		vp := surface.Viewport{
			Width:            float64(c.Int("width")),
			Height:           float64(c.Int("height")),
			DevicePixelRatio: c.Float64("dpr"),
		}
		h := headless.New(vp, cfg.ScrollLength)
		pg, err := player.NewPage(cfg, h, nil)
		if err != nil {
			return err
		}
		defer pg.Close()

		ctx, cancel := signalContext()
		defer cancel()
		ctx, cancelLoad := context.WithTimeout(ctx, c.Duration("timeout"))
		defer cancelLoad()

		if err := pg.Mount(ctx); err != nil {
			return err
		}
		if err := waitReady(ctx, h, pg, nil); err != nil {
			return err
		}

		for _, at := range positions {
			h.SetScroll(at)
			h.Flush()

			img := system.GetImage(surfaceRect(vp))
			surface.Compose(img, vp, pg.Layers())
			path := filepath.Join(out, fmt.Sprintf("scroll-%.3f.png", at))
			err := writePNG(path, img)
			system.PutImage(img)
			if err != nil {
				return err
			}

			fields := logrus.Fields{"at": at, "file": path}
			for _, pl := range pg.Players() {
				fields[pl.ID()] = pl.Frame()
			}
			log.WithFields(fields).Info("snapshot written")
		}
		return nil
	},
}

var inspectCommand = cli.Command{
	Name:      "inspect",
	Aliases:   []string{"i"},
	Usage:     "Preload every frame and report load results and memory use",
	ArgsUsage: "<page.yaml|template>",
	Action: func(c *cli.Context) error {
		cfg, err := loadPage(c)
		if err != nil {
			return err
		}

		before, _ := system.ReadMemory()

		h := headless.New(surface.Viewport{Width: 1280, Height: 720}, cfg.ScrollLength)
		pg, err := player.NewPage(cfg, h, nil)
		if err != nil {
			return err
		}
		defer pg.Close()

		ctx, cancel := signalContext()
		defer cancel()
		if err := pg.Mount(ctx); err != nil {
			return err
		}

		_, total := pg.Progress()
		bar := newProgress(total, "loading frames")
		err = waitReady(ctx, h, pg, func(settled, _ int) { _ = bar.Set(settled) })
		_ = bar.Finish()
		fmt.Println()
		if err != nil {
			return err
		}

		for _, pl := range pg.Players() {
			st := pl.Stats().Store
			seq := pl.Sequence()
			log.WithFields(logrus.Fields{
				"sequence": seq.ID,
				"range":    fmt.Sprintf("[%g,%g]", seq.StartTrigger, seq.EndTrigger),
				"loaded":   st.Loaded,
				"failed":   st.Failed,
				"decoded":  fmt.Sprintf("%d MiB", st.Bytes>>20),
				"elapsed":  st.Elapsed.Round(time.Millisecond),
			}).Info("sequence")
		}

		after, err := system.ReadMemory()
		if err != nil {
			log.WithError(err).Warn("memory statistics unavailable")
			return nil
		}
		fields := after.Fields()
		fields["rss_growth_mb"] = (int64(after.ProcessRSS) - int64(before.ProcessRSS)) >> 20
		log.WithFields(fields).Info("memory")
		return nil
	},
}

var calibrateCommand = cli.Command{
	Name:      "calibrate",
	Aliases:   []string{"c"},
	Usage:     "Write numbered QR calibration frames",
	ArgsUsage: " ",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "out", Value: "calibration", Usage: "Output directory"},
		cli.IntFlag{Name: "width", Value: calibrate.DefaultOptions.Width, Usage: "Frame width"},
		cli.IntFlag{Name: "height", Value: calibrate.DefaultOptions.Height, Usage: "Frame height"},
	},
	Action: func(c *cli.Context) error {
		frames := c.GlobalInt("frames")
		if frames == 0 {
			frames = 60
		}

		ctx, cancel := signalContext()
		defer cancel()

		bar := newProgress(frames, "writing frames")
		opts := calibrate.Options{Width: c.Int("width"), Height: c.Int("height")}
		err := calibrate.Write(ctx, c.String("out"), frames, opts, func(int, int) { _ = bar.Add(1) })
		_ = bar.Finish()
		fmt.Println()
		if err != nil {
			return err
		}

		log.Infof("Play them with: scrollreel --frames %d play %s%c", frames, c.String("out"), filepath.Separator)
		return nil
	},
}

// waitReady flushes frame callbacks until every player is ready.
func waitReady(ctx context.Context, h *headless.Host, pg *player.Page, progress func(settled, total int)) error {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for {
		h.Flush()
		if progress != nil {
			progress(pg.Progress())
		}
		if pg.Ready() {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for frames: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func newProgress(max int, desc string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription(desc),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

func parsePositions(values []string) ([]float64, error) {
	if len(values) == 0 {
		return []float64{0, 0.25, 0.5, 0.75, 1}, nil
	}
	positions := make([]float64, 0, len(values))
	for _, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 1 {
			return nil, fmt.Errorf("--at %q: want a fraction in [0,1]", v)
		}
		positions = append(positions, f)
	}
	return positions, nil
}

// surfaceRect is the viewport in device pixels.
func surfaceRect(vp surface.Viewport) image.Rectangle {
	return image.Rect(0, 0, int(math.Ceil(vp.Width*vp.DPR())), int(math.Ceil(vp.Height*vp.DPR())))
}

func writePNG(path string, img *image.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
