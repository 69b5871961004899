package main

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"golang.org/x/term"

	pximg "github.com/ironsheep/pixel-lens/internal/imaging"
	"github.com/ironsheep/pixel-lens/internal/lens"
	"github.com/ironsheep/pixel-lens/internal/server"
	"github.com/ironsheep/pixel-lens/internal/session"
)

type serveCmd struct {
	Coalesce bool `help:"Render only the latest of back-to-back pointer moves." env:"PIXEL_LENS_COALESCE"`
}

func (c *serveCmd) Run(rc *runContext) error {
	opts := []server.Option{server.WithLogger(rc.logger)}
	if c.Coalesce {
		opts = append(opts, server.WithCoalescedMoves())
	}
	return server.New(rc.cfg, opts...).Run(rc.ctx)
}

type renderCmd struct {
	Image  string `arg:"" type:"existingfile" help:"Background image."`
	X      int    `help:"Pointer x in surface pixels." required:""`
	Y      int    `help:"Pointer y in surface pixels." required:""`
	Width  int    `help:"Surface width (defaults to the image width)."`
	Height int    `help:"Surface height (defaults to the image height)."`
	Out    string `short:"o" help:"Output PNG file, or - for stdout." default:"-"`
}

func (c *renderCmd) Run(rc *runContext) error {
	bg, err := pximg.NewImageCache().Load(c.Image)
	if err != nil {
		return err
	}

	frame, hex, err := renderOnce(rc, bg, image.Pt(c.Width, c.Height), image.Pt(c.X, c.Y))
	if err != nil {
		return err
	}
	rc.logger.Info("rendered lens", "x", c.X, "y", c.Y, "hexColor", hex)

	return writePNG(frame, c.Out)
}

// renderOnce runs a session for one pointer position and returns the final
// frame and the reported color.
func renderOnce(rc *runContext, bg *pximg.PixelBuffer, surfaceSize, pos image.Point) (*image.RGBA, string, error) {
	coord, err := session.New(rc.cfg, session.WithLogger(rc.logger))
	if err != nil {
		return nil, "", err
	}

	runErr := make(chan error, 1)
	go func() { runErr <- coord.Run(rc.ctx) }()

	coord.Post(session.Init{
		Surface:        lens.NewSurface(surfaceSize.X, surfaceSize.Y).Transfer(),
		Background:     bg.Pix,
		BackgroundSize: bg.Size(),
	})
	coord.Post(session.ToggleLens{Enabled: true})
	coord.Post(session.PointerMove{Position: pos})
	coord.Post(session.Snapshot{})
	coord.Close()

	var (
		frame   *image.RGBA
		hex     string
		initErr error
	)
	for ev := range coord.Events() {
		switch ev := ev.(type) {
		case session.InitFailed:
			initErr = ev.Err
		case session.ColorChanged:
			hex = ev.HexColor
		case session.Frame:
			frame = ev.Image
		}
	}
	if err := <-runErr; err != nil {
		return nil, "", err
	}
	if initErr != nil {
		return nil, "", initErr
	}
	if frame == nil {
		return nil, "", errors.New("session produced no frame")
	}
	return frame, hex, nil
}

// writePNG writes img to path, or to stdout when path is "-". Binary output
// is refused when stdout is a terminal.
func writePNG(img image.Image, path string) error {
	if path != "-" {
		if err := imaging.Save(img, path); err != nil {
			return fmt.Errorf("unable to save %q: %w", path, err)
		}
		return nil
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("`-` should be used with a pipe for stdout")
	}
	return encodePNG(os.Stdout, img)
}

func encodePNG(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

type sampleCmd struct {
	Image string `arg:"" type:"existingfile" help:"Image to sample."`
	X     int    `help:"X in image pixels." required:""`
	Y     int    `help:"Y in image pixels." required:""`
	Raw   bool   `help:"Sample the original pixels instead of the pixelated image."`
}

func (c *sampleCmd) Run(rc *runContext) error {
	buf, err := pximg.NewImageCache().Load(c.Image)
	if err != nil {
		return err
	}
	if !c.Raw {
		if buf, err = pximg.Pixelate(buf, rc.cfg.BlockSize); err != nil {
			return err
		}
	}
	fmt.Println(formatSample(pximg.Sample(buf, c.X, c.Y)))
	return nil
}

func formatSample(s pximg.SampledColor) string {
	return fmt.Sprintf("%s rgba(%d, %d, %d, %d) hsl(%d, %d%%, %d%%)",
		s.Hex, s.RGBA.R, s.RGBA.G, s.RGBA.B, s.RGBA.A, s.HSL.H, s.HSL.S, s.HSL.L)
}
