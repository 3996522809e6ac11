package parser

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Color
		alpha   float64
		wantErr bool
	}{
		{"opaque red", "ff0000ff", Color{A: 0xff, R: 0xff}, 1, false},
		{"opaque blue", "ffff0000", Color{A: 0xff, B: 0xff}, 1, false},
		{"half green", "8000ff00", Color{A: 0x80, G: 0xff}, 128.0 / 255, false},
		{"leading hash", "#7f00ffff", Color{A: 0x7f, R: 0xff, G: 0xff}, 127.0 / 255, false},
		{"six digits", "0000ff", Color{A: 0xff, R: 0xff}, 1, false},
		{"byte order", "11223344", Color{A: 0x11, B: 0x22, G: 0x33, R: 0x44}, 0x11 / 255.0, false},
		{"too short", "fff", Color{}, 0, true},
		{"seven digits", "fffffff", Color{}, 0, true},
		{"not hex", "gg0000ff", Color{}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				var malformed *ErrMalformedColor
				if !errors.As(err, &malformed) {
					t.Errorf("error %v is not *ErrMalformedColor", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
			if math.Abs(got.Alpha()-tt.alpha) > 1e-9 {
				t.Errorf("Alpha() = %f, want %f", got.Alpha(), tt.alpha)
			}
		})
	}
}

func TestColorStringRoundTrip(t *testing.T) {
	for _, s := range []string{"ff0000ff", "80123456", "00000000"} {
		c, err := ParseColor(s)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", s, err)
		}
		if c.String() != s {
			t.Errorf("String() = %q, want %q", c.String(), s)
		}
	}
}

func TestHue(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"ff0000ff", 0},   // red
		{"ff00ff00", 120}, // green
		{"ffff0000", 240}, // blue
		{"ff00ffff", 60},  // yellow
		{"ff808080", 0},   // gray
	}

	for _, tt := range tests {
		c, err := ParseColor(tt.input)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", tt.input, err)
		}
		if got := HueFromColor(c); math.Abs(got-tt.want) > 0.5 {
			t.Errorf("HueFromColor(%s) = %f, want %f", tt.input, got, tt.want)
		}
	}
}

func TestHueRoundTrip(t *testing.T) {
	for h := 0.0; h < 360; h += 15 {
		c := ColorFromHue(h)
		if c.A != 0xff {
			t.Errorf("ColorFromHue(%f) alpha = %d, want 255", h, c.A)
		}
		got := HueFromColor(c)
		if math.Abs(got-h) > 1.0 {
			t.Errorf("HueFromColor(ColorFromHue(%f)) = %f", h, got)
		}
	}
}

func TestComputeRandomColor(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	t.Run("zero channels stay zero", func(t *testing.T) {
		in := Color{A: 0xaa, R: 200, G: 0, B: 17}
		for i := 0; i < 500; i++ {
			out := ComputeRandomColor(in, rng)
			if out.G != 0 {
				t.Fatalf("G = %d, want 0", out.G)
			}
			if out.R >= in.R {
				t.Fatalf("R = %d, want < %d", out.R, in.R)
			}
			if out.B >= in.B {
				t.Fatalf("B = %d, want < %d", out.B, in.B)
			}
			if out.A != in.A {
				t.Fatalf("A = %d, want %d", out.A, in.A)
			}
		}
	})

	t.Run("channel of one is always zero", func(t *testing.T) {
		out := ComputeRandomColor(Color{R: 1, G: 1, B: 1}, rng)
		if out.R != 0 || out.G != 0 || out.B != 0 {
			t.Errorf("ComputeRandomColor({1,1,1}) = %+v, want all zero", out)
		}
	})

	t.Run("black becomes random", func(t *testing.T) {
		nonBlack := false
		for i := 0; i < 20; i++ {
			out := ComputeRandomColor(Color{A: 0xff}, rng)
			if out.R != 0 || out.G != 0 || out.B != 0 {
				nonBlack = true
			}
		}
		if !nonBlack {
			t.Error("black input never produced a non-black color")
		}
	})

	t.Run("deterministic with seed", func(t *testing.T) {
		in := Color{A: 0xff, R: 120, G: 60, B: 30}
		a := ComputeRandomColor(in, rand.New(rand.NewSource(7)))
		b := ComputeRandomColor(in, rand.New(rand.NewSource(7)))
		if a != b {
			t.Errorf("same seed gave %+v and %+v", a, b)
		}
	})
}
