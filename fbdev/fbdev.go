// Package fbdev reads Linux framebuffer devices (/dev/fbN).
package fbdev

import (
	"errors"

	"github.com/tmpim/fbgrab"
)

// DefaultPath is the framebuffer read when no device is given.
const DefaultPath = "/dev/fb0"

// FBIOGET_VSCREENINFO is the ioctl request from linux/fb.h that fills a
// VarScreenInfo.
const FBIOGET_VSCREENINFO = 0x4600

// ErrUnsupportedPlatform is returned by Open where framebuffer devices are
// not available.
var ErrUnsupportedPlatform = errors.New("fbdev: framebuffer devices are only supported on linux")

// BitField is struct fb_bitfield.
type BitField struct {
	Offset, Length, MsbRight uint32
}

// VarScreenInfo is struct fb_var_screeninfo.
type VarScreenInfo struct {
	Xres, Yres,
	XresVirtual, YresVirtual,
	Xoffset, Yoffset,
	BitsPerPixel, Grayscale uint32
	Red, Green, Blue, Transp BitField
	Nonstd, Activate,
	Height, Width,
	AccelFlags, Pixclock,
	LeftMargin, RightMargin, UpperMargin, LowerMargin,
	HsyncLen, VsyncLen, Sync,
	Vmode, Rotate, Colorspace uint32
	Reserved [4]uint32
}

// Geometry converts the screen info into the layout used for captures.
func (v *VarScreenInfo) Geometry() fbgrab.FrameGeometry {
	return fbgrab.FrameGeometry{
		WidthVirtual:  v.XresVirtual,
		HeightVirtual: v.YresVirtual,
		BitsPerPixel:  v.BitsPerPixel,
		RedBits:       v.Red.Length,
		GreenBits:     v.Green.Length,
		BlueBits:      v.Blue.Length,
		RedOffset:     v.Red.Offset,
		GreenOffset:   v.Green.Offset,
		BlueOffset:    v.Blue.Offset,
		TranspBits:    v.Transp.Length,
		TranspOffset:  v.Transp.Offset,
	}
}

// OpenSource opens the framebuffer at path as a capture source.
func OpenSource(path string) (fbgrab.Source, error) {
	dev, err := Open(path)
	if err != nil {
		return nil, err
	}
	return dev, nil
}
