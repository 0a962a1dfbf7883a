package fbgrab

// NormalizeAlpha forces the undeclared alpha byte of every pixel in frame to
// full opacity. Drivers tend to leave these padding bits at zero, which makes
// the bitmap render transparent. Frames without padding bits are not
// touched.
func NormalizeAlpha(frame []byte, g FrameGeometry) {
	alpha := g.Alpha()
	if !alpha.Present {
		return
	}

	stride := g.BytesPerPixel()
	offset := alpha.OffsetBytes()

	for i := 0; i+offset < len(frame); i += stride {
		if frame[i+offset] != 0xff {
			frame[i+offset] = 0xff
		}
	}
}
