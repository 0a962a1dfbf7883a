//go:build !linux
// +build !linux

package fbdev

import (
	"fmt"

	"github.com/tmpim/fbgrab"
)

// Device is an open framebuffer device.
type Device struct{}

// Open always fails on this platform.
func Open(path string) (*Device, error) {
	return nil, fbgrab.StepError(fbgrab.OpenFailed,
		fmt.Errorf("%s: %w", path, ErrUnsupportedPlatform))
}

// ScreenInfo always fails on this platform.
func (d *Device) ScreenInfo() (VarScreenInfo, error) {
	return VarScreenInfo{}, ErrUnsupportedPlatform
}

// Geometry always fails on this platform.
func (d *Device) Geometry() (fbgrab.FrameGeometry, error) {
	return fbgrab.FrameGeometry{}, fbgrab.StepError(fbgrab.QueryFailed,
		ErrUnsupportedPlatform)
}

func (d *Device) Read(p []byte) (int, error) {
	return 0, ErrUnsupportedPlatform
}

// Close does nothing.
func (d *Device) Close() error {
	return nil
}
