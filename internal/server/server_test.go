package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/pixel-lens/internal/lens"
)

func quietServer(opts ...Option) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(lens.DefaultConfig(), append([]Option{WithLogger(logger)}, opts...)...)
}

// solidBase64 returns base64 RGBA pixels of one opaque color
func solidBase64(width, height int, r, g, b uint8) string {
	pix := make([]byte, width*height*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = r, g, b, 255
	}
	return base64.StdEncoding.EncodeToString(pix)
}

// serve runs a session over the given lines and returns the decoded replies
func serve(t *testing.T, s *Server, lines ...string) []Reply {
	t.Helper()

	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	var out bytes.Buffer
	if err := s.Serve(context.Background(), in, &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	var replies []Reply
	dec := json.NewDecoder(&out)
	for dec.More() {
		var r Reply
		if err := dec.Decode(&r); err != nil {
			t.Fatalf("invalid reply: %v", err)
		}
		replies = append(replies, r)
	}
	return replies
}

func replyTypes(replies []Reply) []string {
	types := make([]string, len(replies))
	for i, r := range replies {
		types[i] = r.Type
	}
	return types
}

func TestServe_Session(t *testing.T) {
	initLine := `{"type":"init","background":"` + solidBase64(10, 10, 255, 0, 0) +
		`","backgroundSize":{"width":10,"height":10},"surfaceSize":{"width":20,"height":10}}`

	replies := serve(t, quietServer(),
		initLine,
		`not json`,
		`{"type":"resize","width":5}`,
		`{"type":"toggleLens","enabled":true}`,
		`{"type":"pointerMove","position":{"x":10,"y":5}}`,
		`{"type":"snapshot"}`,
	)

	want := []string{TypeBackgroundReady, TypeColorChanged, TypeSnapshot}
	if got := replyTypes(replies); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("reply types = %v, want %v", got, want)
	}

	if s := replies[0].Size; s == nil || s.Width != 20 || s.Height != 10 {
		t.Errorf("backgroundReady size = %+v, want 20x10", s)
	}

	cc := replies[1]
	if cc.HexColor != "#ff0000" {
		t.Errorf("hexColor = %q, want #ff0000", cc.HexColor)
	}
	if cc.Color == nil || cc.Color.RGB.R != 255 {
		t.Errorf("color = %+v", cc.Color)
	}
	if cc.Position == nil || *cc.Position != (Point{10, 5}) {
		t.Errorf("position = %+v", cc.Position)
	}

	snap := replies[2]
	if snap.FrameResult == nil {
		t.Fatalf("snapshot has no frame: %+v", snap)
	}
	if snap.Width != 20 || snap.Height != 10 || snap.MimeType != "image/png" {
		t.Errorf("snapshot = %dx%d %s, want 20x10 image/png", snap.Width, snap.Height, snap.MimeType)
	}
}

func TestServe_InitFailures(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantErr string
	}{
		{
			"no background",
			`{"type":"init"}`,
			"missing field",
		},
		{
			"bad base64",
			`{"type":"init","background":"!!!","backgroundSize":{"width":1,"height":1}}`,
			"invalid background encoding",
		},
		{
			"missing size",
			`{"type":"init","background":"` + solidBase64(2, 2, 0, 0, 0) + `"}`,
			"backgroundSize",
		},
		{
			"wrong length",
			`{"type":"init","background":"` + solidBase64(2, 2, 0, 0, 0) + `","backgroundSize":{"width":3,"height":3}}`,
			"invalid pixel buffer",
		},
		{
			"oversized surface",
			`{"type":"init","background":"` + solidBase64(2, 2, 0, 0, 0) +
				`","backgroundSize":{"width":2,"height":2},"surfaceSize":{"width":4611686018427387904,"height":4}}`,
			"too large",
		},
		{
			"negative surface",
			`{"type":"init","background":"` + solidBase64(2, 2, 0, 0, 0) +
				`","backgroundSize":{"width":2,"height":2},"surfaceSize":{"width":-1,"height":4}}`,
			"must not be negative",
		},
		{
			"missing file",
			`{"type":"init","backgroundPath":"/nonexistent/bg.png"}`,
			"failed to load image",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			replies := serve(t, quietServer(), tt.line)
			if len(replies) != 1 || replies[0].Type != TypeInitFailed {
				t.Fatalf("replies = %v, want one initFailed", replyTypes(replies))
			}
			if !strings.Contains(replies[0].Error, tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", replies[0].Error, tt.wantErr)
			}
		})
	}
}

func TestServe_BackgroundPath(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 30, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			img.SetNRGBA(x, y, color.NRGBA{0, 0, 255, 255})
		}
	}
	path := filepath.Join(t.TempDir(), "bg.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	s := quietServer()
	replies := serve(t, s,
		`{"type":"init","backgroundPath":"`+path+`"}`,
		`{"type":"toggleLens","enabled":true}`,
		`{"type":"pointerMove","position":{"x":15,"y":15}}`,
	)

	if got := replyTypes(replies); len(got) != 2 || got[1] != TypeColorChanged {
		t.Fatalf("reply types = %v", got)
	}
	if replies[0].Size == nil || replies[0].Size.Width != 30 {
		t.Errorf("surface should adopt the image size, got %+v", replies[0].Size)
	}
	if replies[1].HexColor != "#0000ff" {
		t.Errorf("hexColor = %q, want #0000ff", replies[1].HexColor)
	}
	if s.cache.Len() != 1 {
		t.Errorf("cache Len() = %d, want 1", s.cache.Len())
	}
}

func TestServe_SnapshotOptions(t *testing.T) {
	initLine := `{"type":"init","background":"` + solidBase64(40, 20, 0, 255, 0) +
		`","backgroundSize":{"width":40,"height":20}}`

	replies := serve(t, quietServer(),
		`{"type":"snapshot"}`,
		initLine,
		`{"type":"snapshot","region":{"x":10,"y":0,"width":20,"height":10}}`,
		`{"type":"snapshot","scale":0.5}`,
		`{"type":"snapshot","region":{"x":30,"y":0,"width":20,"height":10}}`,
		`{"type":"snapshot","scale":1e6}`,
	)

	want := []string{TypeSnapshot, TypeBackgroundReady, TypeSnapshot, TypeSnapshot, TypeSnapshot, TypeSnapshot}
	if got := replyTypes(replies); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("reply types = %v, want %v", got, want)
	}

	if replies[0].Error == "" {
		t.Error("snapshot before init should report an error")
	}
	if r := replies[2]; r.FrameResult == nil || r.Width != 20 || r.Height != 10 {
		t.Errorf("region snapshot = %+v, want 20x10", r.FrameResult)
	}
	if r := replies[3]; r.FrameResult == nil || r.Width != 20 || r.Height != 10 {
		t.Errorf("scaled snapshot = %+v, want 20x10", r.FrameResult)
	}
	if replies[4].Error == "" {
		t.Error("out of bounds region should report an error")
	}
	if !strings.Contains(replies[5].Error, "too large") {
		t.Errorf("oversized scale error = %q, want it to contain %q", replies[5].Error, "too large")
	}
}

func TestServer_Command(t *testing.T) {
	s := quietServer()
	snaps := &snapshotQueue{}

	tests := []struct {
		name    string
		msg     Message
		wantErr bool
	}{
		{"pointer move without position", Message{Type: "pointerMove"}, true},
		{"toggle without enabled", Message{Type: "toggleLens"}, true},
		{"background without size", Message{Type: "init", Background: "AAAAAA=="}, true},
		{"unknown type", Message{Type: "zoom"}, false},
		{"snapshot", Message{Type: "snapshot"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.command(&tt.msg, snaps)
			if (err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
