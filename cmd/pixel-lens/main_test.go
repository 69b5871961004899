package main

import (
	"context"
	"image"
	"image/color"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/disintegration/imaging"

	pximg "github.com/ironsheep/pixel-lens/internal/imaging"
	"github.com/ironsheep/pixel-lens/internal/lens"
)

func parseArgs(t *testing.T, args ...string) (*cli, *kong.Context) {
	t.Helper()
	var c cli
	parser, err := kong.New(&c, kong.Vars{"version": "test"})
	if err != nil {
		t.Fatalf("kong.New failed: %v", err)
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		t.Fatalf("Parse(%v) failed: %v", args, err)
	}
	return &c, kctx
}

func TestCLI_Defaults(t *testing.T) {
	c, kctx := parseArgs(t)

	if kctx.Command() != "serve" {
		t.Errorf("default command = %q, want serve", kctx.Command())
	}
	if got, want := c.Lens.config(), lens.DefaultConfig(); got != want {
		t.Errorf("config = %+v, want %+v", got, want)
	}
}

func TestCLI_Flags(t *testing.T) {
	c, kctx := parseArgs(t, "--radius", "40", "--zoom", "2", "render", "bg.png", "--x", "5", "--y", "6")

	if kctx.Command() != "render <image>" {
		t.Errorf("command = %q", kctx.Command())
	}
	cfg := c.Lens.config()
	if cfg.Radius != 40 || cfg.Zoom != 2 {
		t.Errorf("config = %+v, want radius 40 zoom 2", cfg)
	}
	if c.Render.X != 5 || c.Render.Y != 6 || c.Render.Out != "-" {
		t.Errorf("render = %+v", c.Render)
	}
}

func TestCLI_Env(t *testing.T) {
	t.Setenv("PIXEL_LENS_BLOCK_SIZE", "7")
	t.Setenv("PIXEL_LENS_LOG_LEVEL", "debug")

	c, _ := parseArgs(t)
	if c.Lens.BlockSize != 7 {
		t.Errorf("BlockSize = %d, want 7", c.Lens.BlockSize)
	}
	if c.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", c.LogLevel)
	}
}

func TestCLI_InvalidConfig(t *testing.T) {
	var c cli
	parser, err := kong.New(&c, kong.Vars{"version": "test"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := parser.Parse([]string{"--radius", "0"}); err == nil {
		t.Error("expected a validation error for radius 0")
	}
}

func testContext() *runContext {
	return &runContext{
		ctx:    context.Background(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		cfg:    lens.DefaultConfig(),
	}
}

func TestRenderOnce(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 120, 120))
	for y := 0; y < 120; y++ {
		for x := 0; x < 120; x++ {
			img.SetNRGBA(x, y, color.NRGBA{0, 128, 0, 255})
		}
	}
	bg := pximg.FromImage(img)

	frame, hex, err := renderOnce(testContext(), bg, image.Point{}, image.Pt(60, 60))
	if err != nil {
		t.Fatalf("renderOnce failed: %v", err)
	}
	if hex != "#008000" {
		t.Errorf("hex = %q, want #008000", hex)
	}
	if frame.Bounds().Dx() != 120 || frame.Bounds().Dy() != 120 {
		t.Errorf("frame bounds = %v, want 120x120", frame.Bounds())
	}
}

func TestRenderOnce_InvalidBackground(t *testing.T) {
	bg := &pximg.PixelBuffer{Width: 10, Height: 10, Pix: make([]byte, 12)}
	if _, _, err := renderOnce(testContext(), bg, image.Point{}, image.Pt(1, 1)); err == nil {
		t.Error("expected an error for a malformed background")
	}
}

func TestWritePNG_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))

	if err := writePNG(img, path); err != nil {
		t.Fatalf("writePNG failed: %v", err)
	}
	got, err := imaging.Open(path)
	if err != nil {
		t.Fatalf("reading back failed: %v", err)
	}
	if got.Bounds().Dx() != 8 || got.Bounds().Dy() != 4 {
		t.Errorf("bounds = %v, want 8x4", got.Bounds())
	}
}

func TestFormatSample(t *testing.T) {
	s := pximg.SampledColor{
		Hex:  "#ff0000",
		RGBA: pximg.RGBAColor{R: 255, A: 255},
		HSL:  pximg.HSLColor{H: 0, S: 100, L: 50},
	}
	want := "#ff0000 rgba(255, 0, 0, 255) hsl(0, 100%, 50%)"
	if got := formatSample(s); got != want {
		t.Errorf("formatSample = %q, want %q", got, want)
	}
}
