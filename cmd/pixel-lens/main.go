package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ironsheep/pixel-lens/internal/lens"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// lensFlags are the lens settings shared by every command
type lensFlags struct {
	Radius        int     `help:"Lens radius in surface pixels." default:"80" env:"PIXEL_LENS_RADIUS"`
	Zoom          float64 `help:"Lens magnification." default:"3" env:"PIXEL_LENS_ZOOM"`
	BlockSize     int     `help:"Pixelation block size." default:"3" env:"PIXEL_LENS_BLOCK_SIZE"`
	BorderWidth   int     `help:"Lens border width." default:"13" env:"PIXEL_LENS_BORDER_WIDTH"`
	RestoreMargin int     `help:"Extra margin repainted around the previous lens." default:"10" env:"PIXEL_LENS_RESTORE_MARGIN"`
	FontSize      float64 `help:"Hex label font size." default:"16" env:"PIXEL_LENS_FONT_SIZE"`
}

func (f lensFlags) config() lens.Config {
	cfg := lens.DefaultConfig()
	cfg.Radius = f.Radius
	cfg.Zoom = f.Zoom
	cfg.BlockSize = f.BlockSize
	cfg.BorderWidth = f.BorderWidth
	cfg.RestoreMargin = f.RestoreMargin
	cfg.LabelFontSize = f.FontSize
	return cfg
}

type cli struct {
	Version  kong.VersionFlag `help:"Print version information." short:"v"`
	LogLevel string           `help:"Log level (debug, info, warn, error)." default:"info" enum:"debug,info,warn,error" env:"PIXEL_LENS_LOG_LEVEL"`

	Lens lensFlags `embed:""`

	Serve  serveCmd  `cmd:"" default:"1" help:"Run a lens session over JSON lines on stdin/stdout."`
	Render renderCmd `cmd:"" help:"Render the lens over an image at one pointer position and write a PNG."`
	Sample sampleCmd `cmd:"" help:"Print the pixelated color of an image at one point."`
}

// Validate implements kong's validation hook
func (c *cli) Validate() error {
	return c.Lens.config().Validate()
}

// runContext is bound into every command's Run method
type runContext struct {
	ctx    context.Context
	logger *slog.Logger
	cfg    lens.Config
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	// stdout carries the protocol and PNG output, so logs go to stderr.
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func main() {
	var c cli
	kctx := kong.Parse(&c,
		kong.Name("pixel-lens"),
		kong.Description("Pixelated magnifier lens and color sampler."),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("pixel-lens %s (built %s, commit %s)", Version, BuildTime, GitCommit)},
	)

	logger := newLogger(c.LogLevel)
	slog.SetDefault(logger)
	logger.Debug("starting", "version", Version, "buildTime", BuildTime, "commit", GitCommit, "command", kctx.Command())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := kctx.Run(&runContext{ctx: ctx, logger: logger, cfg: c.Lens.config()})
	if err != nil {
		logger.Error("command failed", "command", kctx.Command(), "error", err)
		stop()
		os.Exit(1)
	}
}
