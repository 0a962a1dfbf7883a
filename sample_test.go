package fbgrab

import (
	"bytes"
	"testing"
)

// patternFrame fills each pixel with its coordinates so sampled pixels can be
// traced back to their source.
func patternFrame(g FrameGeometry) []byte {
	bpp := g.BytesPerPixel()
	frame := make([]byte, g.FrameSize())
	for y := 0; y < int(g.HeightVirtual); y++ {
		for x := 0; x < int(g.WidthVirtual); x++ {
			pix := frame[(y*int(g.WidthVirtual)+x)*bpp:][:bpp]
			for i := range pix {
				pix[i] = byte(x + 31*y + 101*i)
			}
		}
	}
	return frame
}

func TestSampleIdentity(t *testing.T) {
	g := FrameGeometry{WidthVirtual: 4, HeightVirtual: 2, BitsPerPixel: 32}
	frame := patternFrame(g)

	out := Sample(frame, g, SamplingPlan{Factor: 1})
	if !bytes.Equal(out, frame) {
		t.Fatalf("factor 1 changed the frame")
	}
	if &out[0] != &frame[0] {
		t.Errorf("factor 1 copied the frame instead of passing it through")
	}
}

func TestSampleDecimates(t *testing.T) {
	tests := []struct {
		name   string
		geom   FrameGeometry
		factor int
	}{
		{"4x2 by 2", FrameGeometry{WidthVirtual: 4, HeightVirtual: 2, BitsPerPixel: 32}, 2},
		{"7x5 by 3", FrameGeometry{WidthVirtual: 7, HeightVirtual: 5, BitsPerPixel: 24}, 3},
		{"9x9 by 4 at 16 bpp", FrameGeometry{WidthVirtual: 9, HeightVirtual: 9, BitsPerPixel: 16}, 4},
		{"factor larger than frame", FrameGeometry{WidthVirtual: 3, HeightVirtual: 3, BitsPerPixel: 32}, 5},
		{"640x480 by 8", FrameGeometry{WidthVirtual: 640, HeightVirtual: 480, BitsPerPixel: 32}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := SamplingPlan{Factor: tt.factor}
			frame := patternFrame(tt.geom)
			bpp := tt.geom.BytesPerPixel()
			width := int(tt.geom.WidthVirtual)

			out := Sample(frame, tt.geom, p)

			sw, sh := p.SampledWidth(tt.geom), p.SampledHeight(tt.geom)
			if len(out) != sw*sh*bpp {
				t.Fatalf("len(out) = %d, want %d", len(out), sw*sh*bpp)
			}

			for j := 0; j < sh; j++ {
				for i := 0; i < sw; i++ {
					got := out[(j*sw+i)*bpp:][:bpp]
					srcOff := (j*tt.factor*width + i*tt.factor) * bpp
					want := frame[srcOff : srcOff+bpp]
					if !bytes.Equal(got, want) {
						t.Fatalf("pixel (%d, %d) = % x, want % x", i, j, got, want)
					}
				}
			}
		})
	}
}

func TestSampleDoesNotModifyFrame(t *testing.T) {
	g := FrameGeometry{WidthVirtual: 6, HeightVirtual: 4, BitsPerPixel: 32}
	frame := patternFrame(g)
	orig := append([]byte(nil), frame...)

	Sample(frame, g, SamplingPlan{Factor: 2})

	if !bytes.Equal(frame, orig) {
		t.Error("Sample modified its input")
	}
}
