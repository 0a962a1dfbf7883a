package fbgrab

import (
	"errors"
	"fmt"
)

// Step identifies the stage of a capture that failed.
type Step int

// Possible capture steps.
const (
	OpenFailed Step = iota + 1
	ModeSwitchFailed
	QueryFailed
	UnsupportedPixelFormat
	ReadFailed
	CreateFailed
	WriteFailed
)

var stepNames = map[Step]string{
	OpenFailed:             "open framebuffer device",
	ModeSwitchFailed:       "set framebuffer to blocking mode",
	QueryFailed:            "read framebuffer information",
	UnsupportedPixelFormat: "check pixel format",
	ReadFailed:             "read framebuffer data",
	CreateFailed:           "create output file",
	WriteFailed:            "write bitmap file",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

var (
	// ErrUnsupportedPixelFormat is returned when the framebuffer's pixels are
	// not a whole number of bytes wide.
	ErrUnsupportedPixelFormat = errors.New("bits per pixel is non-byte divisible")

	// ErrInvalidFactor is returned for a resolution division below 1.
	ErrInvalidFactor = errors.New("fbgrab: resolution division must be at least 1")
)

// CaptureError is returned by every failing capture operation. Err holds the
// underlying system error.
type CaptureError struct {
	Step Step
	Err  error
}

func (e *CaptureError) Error() string {
	return "fbgrab: " + e.Step.String() + ": " + e.Err.Error()
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

// StepError wraps err as a CaptureError for the given step. A nil err stays
// nil, and an error that is already a CaptureError is returned unchanged.
func StepError(step Step, err error) error {
	if err == nil {
		return nil
	}

	var ce *CaptureError
	if errors.As(err, &ce) {
		return err
	}

	return &CaptureError{Step: step, Err: err}
}

// StepOf returns the step an error was raised in, or 0 if err did not come
// from a capture.
func StepOf(err error) Step {
	var ce *CaptureError
	if errors.As(err, &ce) {
		return ce.Step
	}
	return 0
}
