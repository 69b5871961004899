package imaging

import (
	"image"
	"testing"
)

func TestFitAspect(t *testing.T) {
	tests := []struct {
		name               string
		sw, sh, iw, ih     int
		wantScale          float64
		wantOffX, wantOffY float64
		wantRect           image.Rectangle
	}{
		{"same size", 100, 100, 100, 100, 1, 0, 0, image.Rect(0, 0, 100, 100)},
		{"same ratio upscaled", 400, 300, 200, 150, 2, 0, 0, image.Rect(0, 0, 400, 300)},
		{"pillarbox", 200, 100, 100, 100, 1, 50, 0, image.Rect(50, 0, 150, 100)},
		{"letterbox", 100, 200, 100, 100, 1, 0, 50, image.Rect(0, 50, 100, 150)},
		{"wide image downscaled", 100, 100, 400, 200, 0.25, 0, 25, image.Rect(0, 25, 100, 75)},
		{"tall image downscaled", 100, 100, 200, 400, 0.25, 25, 0, image.Rect(25, 0, 75, 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fit := FitAspect(tt.sw, tt.sh, tt.iw, tt.ih)
			if fit.Scale != tt.wantScale {
				t.Errorf("Scale = %v, want %v", fit.Scale, tt.wantScale)
			}
			if fit.OffsetX != tt.wantOffX || fit.OffsetY != tt.wantOffY {
				t.Errorf("offset = (%v,%v), want (%v,%v)", fit.OffsetX, fit.OffsetY, tt.wantOffX, tt.wantOffY)
			}
			if got := fit.Rect(); got != tt.wantRect {
				t.Errorf("Rect() = %v, want %v", got, tt.wantRect)
			}
		})
	}
}

func TestFitAspect_ImageAlwaysFits(t *testing.T) {
	sizes := [][4]int{
		{640, 480, 1920, 1080},
		{300, 700, 1000, 1000},
		{1, 1, 5000, 3},
		{800, 600, 3, 5000},
	}
	for _, s := range sizes {
		fit := FitAspect(s[0], s[1], s[2], s[3])
		if fit.Width > float64(s[0])+1e-9 || fit.Height > float64(s[1])+1e-9 {
			t.Errorf("FitAspect%v: %vx%v exceeds surface", s, fit.Width, fit.Height)
		}
		if fit.OffsetX < 0 || fit.OffsetY < 0 {
			t.Errorf("FitAspect%v: negative offset (%v,%v)", s, fit.OffsetX, fit.OffsetY)
		}
	}
}

func TestFitAspect_Degenerate(t *testing.T) {
	want := AspectFit{Scale: 1, Width: 100, Height: 100}
	if got := FitAspect(0, 100, 100, 100); got != want {
		t.Errorf("degenerate surface: got %+v, want %+v", got, want)
	}
}

func TestAspectFit_ToImage(t *testing.T) {
	tests := []struct {
		name string
		fit  AspectFit
		p    image.Point
		want image.Point
	}{
		{"identity", FitAspect(100, 100, 100, 100), image.Pt(37, 12), image.Pt(37, 12)},
		{"scaled up", FitAspect(200, 200, 100, 100), image.Pt(3, 5), image.Pt(1, 2)},
		{"pillarbox inside", FitAspect(200, 100, 100, 100), image.Pt(50, 0), image.Pt(0, 0)},
		{"pillarbox left margin", FitAspect(200, 100, 100, 100), image.Pt(49, 0), image.Pt(-1, 0)},
		{"pillarbox right margin", FitAspect(200, 100, 100, 100), image.Pt(150, 10), image.Pt(100, 10)},
		{"letterbox top margin", FitAspect(100, 200, 100, 100), image.Pt(10, 10), image.Pt(10, -40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fit.ToImage(tt.p); got != tt.want {
				t.Errorf("ToImage(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}
