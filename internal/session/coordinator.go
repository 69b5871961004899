package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ironsheep/pixel-lens/internal/imaging"
	"github.com/ironsheep/pixel-lens/internal/lens"
)

// ErrUnsupportedCommand is logged for command kinds the coordinator does not
// handle. It never stops the session.
var ErrUnsupportedCommand = errors.New("unsupported command")

// ErrAlreadyRunning is returned by a second concurrent call to Run.
var ErrAlreadyRunning = errors.New("coordinator already running")

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithCoalescedMoves makes the coordinator skip a queued PointerMove when
// another PointerMove is queued right behind it. Without this option every
// move is rendered in order.
func WithCoalescedMoves() Option {
	return func(c *Coordinator) {
		c.coalesce = true
	}
}

// Coordinator runs one render session. Commands posted from any goroutine are
// processed one at a time by Run; results come back on Events.
type Coordinator struct {
	cfg      lens.Config
	logger   *slog.Logger
	coalesce bool

	inbox   *mailbox[Command]
	outbox  *mailbox[Event]
	events  chan Event
	running atomic.Bool

	// Owned by the Run goroutine.
	renderer *lens.Renderer
	enabled  bool
}

// New creates a coordinator for lenses described by cfg.
func New(cfg lens.Config, opts ...Option) (*Coordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Coordinator{
		cfg:     cfg,
		logger:  slog.Default(),
		inbox:   newMailbox[Command](),
		outbox:  newMailbox[Event](),
		events:  make(chan Event),
		enabled: cfg.EnabledOnStart,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Post queues a command. It never blocks and never drops a command; it
// returns false only for a nil command or once Run has returned.
func (c *Coordinator) Post(cmd Command) bool {
	if cmd == nil {
		return false
	}
	return c.inbox.put(cmd)
}

// Close stops accepting commands. Run finishes the commands already queued
// and then returns nil.
func (c *Coordinator) Close() {
	c.inbox.close()
}

// Events returns the event stream. The channel is closed after Run returns
// and every pending event has been delivered.
func (c *Coordinator) Events() <-chan Event {
	return c.events
}

// Run processes commands until ctx is cancelled or the surface becomes
// unavailable. A command in progress always runs to completion; ctx is only
// checked between commands.
//
// Run returns nil on cancellation and an error wrapping
// lens.ErrSurfaceUnavailable when the session cannot draw.
func (c *Coordinator) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer c.inbox.close()
	defer c.outbox.close()

	go c.pump(ctx)

	var merge func(cur, next Command) bool
	if c.coalesce {
		merge = bothMoves
	}

	c.logger.Debug("session started", "coalesce", c.coalesce)
	for {
		if ctx.Err() != nil {
			c.logger.Debug("session stopped")
			return nil
		}
		cmd, err := c.inbox.take(ctx, merge)
		if err != nil {
			c.logger.Debug("session stopped", "reason", err)
			return nil
		}
		if err := c.handle(cmd); err != nil {
			c.logger.Error("session aborted", "command", cmd.Kind(), "error", err)
			return err
		}
	}
}

// pump forwards queued events to the events channel so that emitting never
// blocks rendering. Pending events are dropped once ctx is done.
func (c *Coordinator) pump(ctx context.Context) {
	defer close(c.events)
	for {
		ev, err := c.outbox.take(context.Background(), nil)
		if err != nil {
			return
		}
		select {
		case c.events <- ev:
		case <-ctx.Done():
		}
	}
}

func bothMoves(cur, next Command) bool {
	_, a := cur.(PointerMove)
	_, b := next.(PointerMove)
	return a && b
}

func (c *Coordinator) emit(ev Event) {
	c.outbox.put(ev)
}

// handle dispatches one command. A returned error ends the session.
func (c *Coordinator) handle(cmd Command) error {
	switch cmd := cmd.(type) {
	case Init:
		return c.handleInit(cmd)
	case PointerMove:
		return c.handlePointerMove(cmd)
	case ToggleLens:
		return c.handleToggleLens(cmd)
	case Snapshot:
		c.handleSnapshot()
		return nil
	default:
		c.logger.Warn("ignoring command", "kind", cmd.Kind(), "error", ErrUnsupportedCommand)
		return nil
	}
}

// handleInit validates the payload, draws the first frame and then
// pixelates the background before returning, so the next command already
// sees the pixelated image.
func (c *Coordinator) handleInit(cmd Init) error {
	if !cmd.Surface.Available() {
		err := fmt.Errorf("init: %w", lens.ErrSurfaceUnavailable)
		c.emit(InitFailed{Err: err})
		return err
	}

	bg, err := imaging.NewPixelBuffer(cmd.BackgroundSize.Width, cmd.BackgroundSize.Height, cmd.Background)
	if err != nil {
		c.failInit(fmt.Errorf("background: %w", err))
		return nil
	}

	var overlay *imaging.PixelBuffer
	if len(cmd.Overlay) > 0 {
		overlay, err = imaging.NewPixelBuffer(cmd.OverlaySize.Width, cmd.OverlaySize.Height, cmd.Overlay)
		if err != nil {
			c.failInit(fmt.Errorf("overlay: %w", err))
			return nil
		}
	}

	cfg := c.cfg
	cfg.EnabledOnStart = c.enabled
	r, err := lens.NewRenderer(cmd.Surface, cfg)
	if err != nil {
		c.failInit(err)
		return nil
	}
	if err := r.LoadBackground(bg, overlay); err != nil {
		return c.initDrawError(err)
	}
	if err := r.RenderBackground(); err != nil {
		return c.initDrawError(err)
	}
	c.renderer = r

	size := cmd.Surface.Size()
	c.emit(BackgroundReady{Width: size.X, Height: size.Y})
	c.logger.Debug("background ready",
		"image", fmt.Sprintf("%dx%d", bg.Width, bg.Height),
		"surface", fmt.Sprintf("%dx%d", size.X, size.Y))

	start := time.Now()
	if err := r.Pixelate(); err != nil {
		c.logger.Error("pixelation failed", "error", err)
		return nil
	}
	c.logger.Debug("pixelated background", "blockSize", c.cfg.BlockSize, "elapsed", time.Since(start))
	return nil
}

func (c *Coordinator) failInit(err error) {
	c.logger.Warn("init rejected", "error", err)
	c.emit(InitFailed{Err: err})
}

// initDrawError turns a drawing failure during Init into the session result.
func (c *Coordinator) initDrawError(err error) error {
	if errors.Is(err, lens.ErrSurfaceUnavailable) {
		c.emit(InitFailed{Err: err})
		return fmt.Errorf("init: %w", err)
	}
	c.failInit(err)
	return nil
}

func (c *Coordinator) handlePointerMove(cmd PointerMove) error {
	if c.renderer == nil {
		c.logger.Debug("pointer move before init", "x", cmd.Position.X, "y", cmd.Position.Y)
		return nil
	}
	sampled, drawn, err := c.renderer.Move(cmd.Position)
	if err != nil {
		return fmt.Errorf("render lens: %w", err)
	}
	if drawn {
		c.emit(ColorChanged{HexColor: sampled.Hex, Color: sampled, Position: cmd.Position})
	}
	return nil
}

func (c *Coordinator) handleToggleLens(cmd ToggleLens) error {
	c.enabled = cmd.Enabled
	if c.renderer == nil {
		return nil
	}
	if err := c.renderer.ToggleLens(cmd.Enabled); err != nil {
		return fmt.Errorf("toggle lens: %w", err)
	}
	c.logger.Debug("lens toggled", "enabled", cmd.Enabled)
	return nil
}

func (c *Coordinator) handleSnapshot() {
	if c.renderer == nil {
		c.logger.Debug("snapshot before init")
		c.emit(Frame{})
		return
	}
	c.emit(Frame{Image: c.renderer.Surface().Snapshot()})
}
