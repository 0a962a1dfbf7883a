//go:build linux
// +build linux

package fbdev

import (
	"os"
	"unsafe"

	"github.com/tmpim/fbgrab"
	"golang.org/x/sys/unix"
)

// Device is an open framebuffer device.
type Device struct {
	file *os.File
}

// Open opens the framebuffer at path for reading and writing and switches it
// to blocking mode, so a read returns the whole frame instead of whatever
// happens to be ready.
func Open(path string) (*Device, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fbgrab.StepError(fbgrab.OpenFailed, err)
	}

	if err := setBlocking(file); err != nil {
		file.Close()
		return nil, fbgrab.StepError(fbgrab.ModeSwitchFailed, err)
	}

	return &Device{file: file}, nil
}

func setBlocking(file *os.File) error {
	fd := int(file.Fd())

	flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFL, 0)
	if err != nil {
		return os.NewSyscallError("fcntl", err)
	}

	if _, err := unix.FcntlInt(uintptr(fd), unix.F_SETFL, flags&^unix.O_NONBLOCK); err != nil {
		return os.NewSyscallError("fcntl", err)
	}

	return nil
}

// ScreenInfo returns the variable screen information of the device.
func (d *Device) ScreenInfo() (VarScreenInfo, error) {
	var info VarScreenInfo
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, d.file.Fd(),
		FBIOGET_VSCREENINFO, uintptr(unsafe.Pointer(&info)))
	if errno != 0 {
		return info, os.NewSyscallError("ioctl", errno)
	}

	return info, nil
}

// Geometry returns the frame layout of the device.
func (d *Device) Geometry() (fbgrab.FrameGeometry, error) {
	info, err := d.ScreenInfo()
	if err != nil {
		return fbgrab.FrameGeometry{}, fbgrab.StepError(fbgrab.QueryFailed, err)
	}

	return info.Geometry(), nil
}

func (d *Device) Read(p []byte) (int, error) {
	return d.file.Read(p)
}

// Close closes the device.
func (d *Device) Close() error {
	return d.file.Close()
}
