package server

import (
	"encoding/base64"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/pixel-lens/internal/imaging"
	"github.com/ironsheep/pixel-lens/internal/lens"
	"github.com/ironsheep/pixel-lens/internal/session"
)

// errMissingField is returned for messages without a required field.
var errMissingField = errors.New("missing field")

// command converts a message into a session command.
//
// Unknown types become session.Unsupported so that the session logs and
// skips them like any other command it does not handle.
func (s *Server) command(msg *Message, snaps *snapshotQueue) (session.Command, error) {
	switch session.Kind(msg.Type) {
	case session.KindInit:
		return s.handleInit(msg)

	case session.KindPointerMove:
		if msg.Position == nil {
			return nil, fmt.Errorf("%w: position", errMissingField)
		}
		return session.PointerMove{Position: image.Pt(msg.Position.X, msg.Position.Y)}, nil

	case session.KindToggleLens:
		if msg.Enabled == nil {
			return nil, fmt.Errorf("%w: enabled", errMissingField)
		}
		return session.ToggleLens{Enabled: *msg.Enabled}, nil

	case session.KindSnapshot:
		opts := snapshotOptions{region: msg.Region, scale: 1.0}
		if msg.Scale != nil {
			opts.scale = *msg.Scale
		}
		snaps.push(opts)
		return session.Snapshot{}, nil

	default:
		return session.Unsupported{Name: msg.Type}, nil
	}
}

// handleInit builds the Init command: it decodes or loads the background,
// decodes the optional overlay and creates the surface handed to the session.
func (s *Server) handleInit(msg *Message) (session.Command, error) {
	var cmd session.Init

	switch {
	case msg.BackgroundPath != "":
		// Cached buffers are immutable, so the session may share them.
		buf, err := s.cache.Load(msg.BackgroundPath)
		if err != nil {
			return nil, err
		}
		cmd.Background = buf.Pix
		cmd.BackgroundSize = buf.Size()

	case msg.Background != "":
		if msg.BackgroundSize == nil {
			return nil, fmt.Errorf("%w: backgroundSize", errMissingField)
		}
		pix, err := base64.StdEncoding.DecodeString(msg.Background)
		if err != nil {
			return nil, fmt.Errorf("invalid background encoding: %w", err)
		}
		cmd.Background = pix
		cmd.BackgroundSize = *msg.BackgroundSize

	default:
		return nil, fmt.Errorf("%w: background or backgroundPath", errMissingField)
	}

	if msg.Overlay != "" {
		if msg.OverlaySize == nil {
			return nil, fmt.Errorf("%w: overlaySize", errMissingField)
		}
		pix, err := base64.StdEncoding.DecodeString(msg.Overlay)
		if err != nil {
			return nil, fmt.Errorf("invalid overlay encoding: %w", err)
		}
		cmd.Overlay = pix
		cmd.OverlaySize = *msg.OverlaySize
	}

	var size imaging.Size
	if msg.SurfaceSize != nil {
		size = *msg.SurfaceSize
		if _, err := size.Area(); err != nil {
			return nil, fmt.Errorf("surfaceSize: %w", err)
		}
	}
	cmd.Surface = lens.NewSurface(size.Width, size.Height).Transfer()

	s.logger.Debug("init",
		"background", fmt.Sprintf("%dx%d", cmd.BackgroundSize.Width, cmd.BackgroundSize.Height),
		"overlay", len(cmd.Overlay) > 0)
	return cmd, nil
}

// reply converts a session event into an outbound line. Frame events consume
// the options of the oldest pending snapshot.
func (s *Server) reply(ev session.Event, snaps *snapshotQueue) *Reply {
	switch ev := ev.(type) {
	case session.BackgroundReady:
		return &Reply{
			Type: TypeBackgroundReady,
			Size: &imaging.Size{Width: ev.Width, Height: ev.Height},
		}

	case session.ColorChanged:
		sampled := ev.Color
		return &Reply{
			Type:     TypeColorChanged,
			HexColor: ev.HexColor,
			Color:    &sampled,
			Position: &Point{X: ev.Position.X, Y: ev.Position.Y},
		}

	case session.InitFailed:
		return &Reply{Type: TypeInitFailed, Error: ev.Err.Error()}

	case session.Frame:
		opts := snaps.pop()
		if ev.Image == nil {
			return &Reply{Type: TypeSnapshot, Error: imaging.ErrNotInitialized.Error()}
		}
		var region *image.Rectangle
		if opts.region != nil {
			r := opts.region.Rect()
			region = &r
		}
		frame, err := imaging.EncodeFrame(ev.Image, region, opts.scale)
		if err != nil {
			return &Reply{Type: TypeSnapshot, Error: err.Error()}
		}
		return &Reply{Type: TypeSnapshot, FrameResult: frame}

	default:
		s.logger.Warn("unhandled event", "kind", ev.Kind())
		return nil
	}
}
