package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"github.com/ivlev/scrollreel/internal/config"
	"github.com/ivlev/scrollreel/internal/logger"
	"github.com/ivlev/scrollreel/internal/system"
)

var app = cli.NewApp()
var log = logger.Log

func init() {
	app.Name = "scrollreel"
	app.Usage = "Scroll-scrubbed image sequence player"
	app.UsageText = "scrollreel [global options] command <page.yaml|frame template>"
	app.HideVersion = true
	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "debug", Usage: "Debug logging (same as DEBUG=1)"},
		cli.IntFlag{Name: "frames", Usage: "Frame count when playing a single template"},
		cli.Float64Flag{Name: "start", Usage: "Start trigger in [0,1)"},
		cli.Float64Flag{Name: "end", Value: 1, Usage: "End trigger in (start,1]"},
		cli.Float64Flag{Name: "multiplier", Value: config.DefaultScrollMultiplier, Usage: "Scroll multiplier"},
		cli.StringFlag{Name: "backend", Value: config.BackendCanvas, Usage: "Surface backend: canvas, swap"},
		cli.StringFlag{Name: "aspect", Value: "16:9", Usage: "Frame aspect ratio: 16:9, 9:16, 4:5 or a number"},
		cli.IntFlag{Name: "concurrency", Usage: "Max concurrent frame loads (0 = unbounded)"},
		cli.Float64Flag{Name: "scroll-length", Value: config.DefaultScrollLength, Usage: "Document height in viewports"},
	}
	app.Before = func(c *cli.Context) error {
		if c.GlobalBool("debug") {
			logger.SetDebug(true)
		}
		system.RaiseOpenFileLimit(system.DefaultOpenFiles)
		return nil
	}
	app.Commands = []cli.Command{
		playCommand,
		windowCommand,
		renderCommand,
		inspectCommand,
		calibrateCommand,
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
