// Package fbgrab captures the contents of a framebuffer device into a BMP
// file, optionally decimated by an integer factor to produce thumbnails.
package fbgrab

import (
	"errors"
	"fmt"
	"io"
)

// Source is an open framebuffer. Read must block until the requested bytes
// are available.
type Source interface {
	io.ReadCloser
	Geometry() (FrameGeometry, error)
}

// Opener opens the framebuffer at path. Failures should be reported as
// OpenFailed or ModeSwitchFailed CaptureErrors.
type Opener func(path string) (Source, error)

// ReadFrame reads a whole frame from src in a single read. A short read
// leaves the remainder of the frame zeroed.
func ReadFrame(src io.Reader, g FrameGeometry) ([]byte, error) {
	frame := make([]byte, g.FrameSize())

	n, err := src.Read(frame)
	if err == io.EOF && n == len(frame) {
		err = nil
	}
	if err != nil {
		return nil, StepError(ReadFailed, err)
	}

	return frame, nil
}

// Grab queries the geometry of src and reads one frame from it. src is
// closed before Grab returns, whether or not the frame was read.
func Grab(src Source) (FrameGeometry, []byte, error) {
	defer src.Close()

	g, err := src.Geometry()
	if err != nil {
		return FrameGeometry{}, nil, StepError(QueryFailed, err)
	}

	if err := g.Validate(); err != nil {
		return g, nil, err
	}

	frame, err := ReadFrame(src, g)
	if err != nil {
		return g, nil, err
	}

	return g, frame, nil
}

// Encode writes the header and sampled pixel array for frame to w. It does
// not sync or close w. The returned count includes the header.
func Encode(w io.Writer, frame []byte, g FrameGeometry,
	p SamplingPlan) (BmpHeader, int64, error) {
	header := BuildHeader(g, p)

	n, err := header.WriteTo(w)
	if err != nil {
		return header, n, StepError(WriteFailed, err)
	}

	m, err := writeAll(w, Sample(frame, g, p))
	return header, n + int64(m), StepError(WriteFailed, err)
}

// Options configures a capture.
type Options struct {
	Device string
	Output string
	Factor int

	// RemovePartial deletes the output file if writing it fails midway.
	// By default the truncated file is left in place.
	RemovePartial bool

	Open Opener
}

func (o *Options) validate() error {
	if o.Device == "" {
		return errors.New("fbgrab: Capture: device path must be specified")
	}
	if o.Output == "" {
		return errors.New("fbgrab: Capture: output path must be specified")
	}
	if o.Factor < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidFactor, o.Factor)
	}
	if o.Open == nil {
		return errors.New("fbgrab: Capture: opener must be specified")
	}

	return nil
}

// Result describes a completed capture.
type Result struct {
	Geometry FrameGeometry
	Header   BmpHeader
	Written  int64
}

// Capture grabs one frame from the device and stores it as a bitmap.
func Capture(opts Options) (Result, error) {
	if err := opts.validate(); err != nil {
		return Result{}, err
	}

	plan := SamplingPlan{Factor: opts.Factor}

	src, err := opts.Open(opts.Device)
	if err != nil {
		return Result{}, StepError(OpenFailed, err)
	}

	g, frame, err := Grab(src)
	if err != nil {
		return Result{Geometry: g}, err
	}

	NormalizeAlpha(frame, g)

	res := Result{
		Geometry: g,
		Header:   BuildHeader(g, plan),
	}

	out, err := CreateOutput(opts.Output)
	if err != nil {
		return res, err
	}
	out.RemoveOnAbort(opts.RemovePartial)

	if err := out.WriteHeader(res.Header); err != nil {
		res.Written = out.Written()
		return res, abortOutput(out, err)
	}

	if err := out.WritePixels(Sample(frame, g, plan)); err != nil {
		res.Written = out.Written()
		return res, abortOutput(out, err)
	}

	res.Written = out.Written()
	return res, out.Commit()
}

// abortOutput closes out after err and reports a failed close or removal
// alongside err.
func abortOutput(out *Output, err error) error {
	if abortErr := out.Abort(); abortErr != nil {
		return fmt.Errorf("%w; aborting output: %v", err, abortErr)
	}
	return err
}
