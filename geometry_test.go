package fbgrab

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		geom    FrameGeometry
		wantErr bool
	}{
		{"32 bpp", FrameGeometry{WidthVirtual: 4, HeightVirtual: 2, BitsPerPixel: 32}, false},
		{"24 bpp", FrameGeometry{WidthVirtual: 4, HeightVirtual: 2, BitsPerPixel: 24}, false},
		{"16 bpp", FrameGeometry{WidthVirtual: 4, HeightVirtual: 2, BitsPerPixel: 16}, false},
		{"12 bpp", FrameGeometry{WidthVirtual: 4, HeightVirtual: 2, BitsPerPixel: 12}, true},
		{"1 bpp", FrameGeometry{WidthVirtual: 4, HeightVirtual: 2, BitsPerPixel: 1}, true},
		{"0 bpp", FrameGeometry{WidthVirtual: 4, HeightVirtual: 2, BitsPerPixel: 0}, true},
		{"empty", FrameGeometry{WidthVirtual: 0, HeightVirtual: 2, BitsPerPixel: 32}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.geom.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, ErrUnsupportedPixelFormat) {
				t.Errorf("Validate() = %v, want ErrUnsupportedPixelFormat", err)
			}
			if step := StepOf(err); step != UnsupportedPixelFormat {
				t.Errorf("StepOf() = %v, want %v", step, UnsupportedPixelFormat)
			}
		})
	}
}

func TestAlphaPlan(t *testing.T) {
	tests := []struct {
		name        string
		geom        FrameGeometry
		present     bool
		offsetBytes int
	}{
		{"xrgb8888", FrameGeometry{BitsPerPixel: 32, RedBits: 8, GreenBits: 8, BlueBits: 8}, true, 3},
		{"rgb888", FrameGeometry{BitsPerPixel: 24, RedBits: 8, GreenBits: 8, BlueBits: 8}, false, 3},
		{"rgb565", FrameGeometry{BitsPerPixel: 16, RedBits: 5, GreenBits: 6, BlueBits: 5}, false, 2},
		{"xrgb1555", FrameGeometry{BitsPerPixel: 16, RedBits: 5, GreenBits: 5, BlueBits: 5}, true, 1},
		{"oversized channels", FrameGeometry{BitsPerPixel: 16, RedBits: 8, GreenBits: 8, BlueBits: 8}, false, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.geom.Alpha()
			if a.Present != tt.present {
				t.Errorf("Present = %v, want %v", a.Present, tt.present)
			}
			if a.OffsetBytes() != tt.offsetBytes {
				t.Errorf("OffsetBytes() = %d, want %d", a.OffsetBytes(), tt.offsetBytes)
			}
		})
	}
}

func TestSamplingPlan(t *testing.T) {
	tests := []struct {
		name          string
		width, height uint32
		factor        int
		sampledW      int
		sampledH      int
	}{
		{"identity", 4, 2, 1, 4, 2},
		{"even", 4, 2, 2, 2, 1},
		{"remainder", 7, 5, 3, 2, 1},
		{"factor larger than frame", 3, 3, 4, 0, 0},
		{"1080p thumbnail", 1920, 1080, 7, 274, 154},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := FrameGeometry{WidthVirtual: tt.width, HeightVirtual: tt.height, BitsPerPixel: 32}
			p := SamplingPlan{Factor: tt.factor}

			if got := p.SampledWidth(g); got != tt.sampledW {
				t.Errorf("SampledWidth() = %d, want %d", got, tt.sampledW)
			}
			if got := p.SampledHeight(g); got != tt.sampledH {
				t.Errorf("SampledHeight() = %d, want %d", got, tt.sampledH)
			}
			if got, want := p.PixelArraySize(g), tt.sampledW*tt.sampledH*4; got != want {
				t.Errorf("PixelArraySize() = %d, want %d", got, want)
			}
		})
	}
}

func TestNewSamplingPlan(t *testing.T) {
	for _, factor := range []int{0, -1, -100} {
		if _, err := NewSamplingPlan(factor); !errors.Is(err, ErrInvalidFactor) {
			t.Errorf("NewSamplingPlan(%d) = %v, want ErrInvalidFactor", factor, err)
		}
	}

	p, err := NewSamplingPlan(3)
	if err != nil {
		t.Fatalf("NewSamplingPlan(3) failed: %v", err)
	}
	if p.Factor != 3 {
		t.Errorf("Factor = %d, want 3", p.Factor)
	}
}
