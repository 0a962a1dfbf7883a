package fbgrab

// Sample returns the pixel array to store for frame. With a factor of 1 the
// frame itself is returned. Otherwise the top-left pixel of every
// factor x factor block is copied into a new buffer in row-major order, and
// the columns and rows left over at the right and bottom edges are dropped.
func Sample(frame []byte, g FrameGeometry, p SamplingPlan) []byte {
	f := p.factor()
	if f == 1 {
		return frame
	}

	bpp := g.BytesPerPixel()
	width := int(g.WidthVirtual)
	maxX := p.SampledWidth(g) * f
	maxY := p.SampledHeight(g) * f

	out := make([]byte, 0, p.PixelArraySize(g))
	for y := 0; y < maxY; y += f {
		for x := 0; x < maxX; x += f {
			offset := (y*width + x) * bpp
			out = append(out, frame[offset:offset+bpp]...)
		}
	}

	return out
}
