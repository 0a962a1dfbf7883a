package fbgrab

import "fmt"

// FrameGeometry describes the layout of a framebuffer's virtual screen.
type FrameGeometry struct {
	WidthVirtual  uint32 `json:"widthVirtual"`
	HeightVirtual uint32 `json:"heightVirtual"`
	BitsPerPixel  uint32 `json:"bitsPerPixel"`

	RedBits   uint32 `json:"redBits"`
	GreenBits uint32 `json:"greenBits"`
	BlueBits  uint32 `json:"blueBits"`

	// Channel offsets and the declared transparency field are informational
	// only, the pipeline never reads them.
	RedOffset    uint32 `json:"redOffset"`
	GreenOffset  uint32 `json:"greenOffset"`
	BlueOffset   uint32 `json:"blueOffset"`
	TranspBits   uint32 `json:"transpBits"`
	TranspOffset uint32 `json:"transpOffset"`
}

// BytesPerPixel returns the pixel stride in bytes.
func (g FrameGeometry) BytesPerPixel() int {
	return int(g.BitsPerPixel / 8)
}

// FrameSize returns the number of bytes in a full virtual frame.
func (g FrameGeometry) FrameSize() int {
	return int(g.WidthVirtual) * int(g.HeightVirtual) * g.BytesPerPixel()
}

// Validate checks that pixels are byte aligned and the frame is not empty.
func (g FrameGeometry) Validate() error {
	if g.BitsPerPixel == 0 || g.BitsPerPixel%8 != 0 {
		return StepError(UnsupportedPixelFormat,
			fmt.Errorf("%w (%d)", ErrUnsupportedPixelFormat, g.BitsPerPixel))
	}

	if g.WidthVirtual == 0 || g.HeightVirtual == 0 {
		return StepError(UnsupportedPixelFormat,
			fmt.Errorf("%w: empty %dx%d frame", ErrUnsupportedPixelFormat,
				g.WidthVirtual, g.HeightVirtual))
	}

	return nil
}

func (g FrameGeometry) String() string {
	return fmt.Sprintf("%dx%d @ %d bpp (r%d g%d b%d)", g.WidthVirtual,
		g.HeightVirtual, g.BitsPerPixel, g.RedBits, g.GreenBits, g.BlueBits)
}

// AlphaPlan locates the padding bits that some drivers leave above the color
// channels without declaring them as transparency.
type AlphaPlan struct {
	OffsetBits uint32
	Present    bool
}

// Alpha derives the alpha plan for the geometry.
func (g FrameGeometry) Alpha() AlphaPlan {
	offset := g.RedBits + g.GreenBits + g.BlueBits
	present := offset != g.BitsPerPixel
	if present && int(offset/8) >= g.BytesPerPixel() {
		// A descriptor declaring more color bits than the pixel holds has
		// no padding byte to fix up.
		present = false
	}

	return AlphaPlan{
		OffsetBits: offset,
		Present:    present,
	}
}

// OffsetBytes returns the byte index of the alpha channel within a pixel.
func (a AlphaPlan) OffsetBytes() int {
	return int(a.OffsetBits / 8)
}

// SamplingPlan describes nearest-neighbour decimation by an integer factor.
// A factor of 1 keeps the full frame.
type SamplingPlan struct {
	Factor int
}

// NewSamplingPlan returns a plan for factor, rejecting values below 1.
func NewSamplingPlan(factor int) (SamplingPlan, error) {
	if factor < 1 {
		return SamplingPlan{}, fmt.Errorf("%w: %d", ErrInvalidFactor, factor)
	}
	return SamplingPlan{Factor: factor}, nil
}

func (p SamplingPlan) factor() int {
	if p.Factor < 1 {
		return 1
	}
	return p.Factor
}

// SampledWidth returns the output width with the remainder columns dropped.
func (p SamplingPlan) SampledWidth(g FrameGeometry) int {
	w, f := int(g.WidthVirtual), p.factor()
	return (w - w%f) / f
}

// SampledHeight returns the output height with the remainder rows dropped.
func (p SamplingPlan) SampledHeight(g FrameGeometry) int {
	h, f := int(g.HeightVirtual), p.factor()
	return (h - h%f) / f
}

// PixelArraySize returns the number of pixel bytes the sampler produces.
func (p SamplingPlan) PixelArraySize(g FrameGeometry) int {
	return p.SampledWidth(g) * p.SampledHeight(g) * g.BytesPerPixel()
}
