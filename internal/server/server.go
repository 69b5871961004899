package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/ironsheep/pixel-lens/internal/imaging"
	"github.com/ironsheep/pixel-lens/internal/lens"
	"github.com/ironsheep/pixel-lens/internal/session"
)

// Server drives one lens session over line-delimited JSON
type Server struct {
	cfg      lens.Config
	cache    *imaging.ImageCache
	logger   *slog.Logger
	coalesce bool
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the logger for the server and its session
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithCoalescedMoves renders only the latest of back-to-back pointer moves
func WithCoalescedMoves() Option {
	return func(s *Server) {
		s.coalesce = true
	}
}

// New creates a new server instance
func New(cfg lens.Config, opts ...Option) *Server {
	s := &Server{
		cfg:    cfg,
		cache:  imaging.NewImageCache(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run serves stdin and stdout until stdin closes or ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads messages from r and writes replies to w.
//
// When r reaches EOF the commands already read are finished and their
// replies written before Serve returns. A session that loses its surface
// ends Serve with that error.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	opts := []session.Option{session.WithLogger(s.logger)}
	if s.coalesce {
		opts = append(opts, session.WithCoalescedMoves())
	}
	coord, err := session.New(s.cfg, opts...)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := &replyWriter{enc: json.NewEncoder(w), logger: s.logger}
	snaps := &snapshotQueue{}

	runErr := make(chan error, 1)
	go func() { runErr <- coord.Run(ctx) }()

	written := make(chan struct{})
	go func() {
		defer close(written)
		for ev := range coord.Events() {
			if reply := s.reply(ev, snaps); reply != nil {
				out.write(reply)
			}
		}
	}()

	readErr := make(chan error, 1)
	go func() {
		readErr <- s.read(r, coord, out, snaps)
		coord.Close()
	}()

	var result error
	select {
	case err := <-readErr:
		result = err
		if err := <-runErr; err != nil && result == nil {
			result = err
		}
	case err := <-runErr:
		// The session ended on its own; the reader may still be blocked on r.
		result = err
	}
	<-written
	return result
}

// read decodes one message per line and posts the matching command
func (s *Server) read(r io.Reader, coord *session.Coordinator, out *replyWriter, snaps *snapshotQueue) error {
	scanner := bufio.NewScanner(r)
	// Init lines carry whole images.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 256*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var msg Message
		if err := json.Unmarshal(line, &msg); err != nil {
			s.logger.Warn("failed to parse message", "error", err)
			continue
		}

		cmd, err := s.command(&msg, snaps)
		if err != nil {
			s.logger.Warn("rejected message", "type", msg.Type, "error", err)
			if msg.Type == string(session.KindInit) {
				out.write(&Reply{Type: TypeInitFailed, Error: err.Error()})
			}
			continue
		}
		if !coord.Post(cmd) {
			s.logger.Warn("session closed, dropping message", "type", msg.Type)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}
	return nil
}

// replyWriter serializes replies from the reader and event goroutines
type replyWriter struct {
	mu     sync.Mutex
	enc    *json.Encoder
	logger *slog.Logger
}

func (o *replyWriter) write(reply *Reply) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.enc.Encode(reply); err != nil {
		o.logger.Error("failed to encode reply", "type", reply.Type, "error", err)
	}
}

// snapshotOptions are the encoding options of one pending snapshot
type snapshotOptions struct {
	region *Region
	scale  float64
}

// snapshotQueue pairs Frame events with the snapshot messages that asked for
// them. The session answers snapshots in order.
type snapshotQueue struct {
	mu      sync.Mutex
	pending []snapshotOptions
}

func (q *snapshotQueue) push(o snapshotOptions) {
	q.mu.Lock()
	q.pending = append(q.pending, o)
	q.mu.Unlock()
}

func (q *snapshotQueue) pop() snapshotOptions {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return snapshotOptions{scale: 1}
	}
	o := q.pending[0]
	q.pending = q.pending[1:]
	return o
}
