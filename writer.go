package fbgrab

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
)

// OutputPerm is the mode new bitmap files are created with.
const OutputPerm os.FileMode = 0700

// WriteAll writes all of p to w. Short writes are continued from where they
// stopped, while any error aborts immediately.
func WriteAll(w io.Writer, p []byte) error {
	_, err := writeAll(w, p)
	return err
}

func writeAll(w io.Writer, p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := w.Write(p[total:])
		if err != nil {
			return total + max0(n), err
		}
		if n <= 0 {
			return total, io.ErrNoProgress
		}

		total += n
	}

	return total, nil
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// Output is a bitmap file being written. The header goes first, then the
// pixel array, and Commit syncs the file to disk.
type Output struct {
	file          *os.File
	path          string
	written       int64
	regular       bool
	removePartial bool
}

// CreateOutput creates (or truncates) the bitmap at path.
func CreateOutput(path string) (*Output, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, OutputPerm)
	if err != nil {
		return nil, StepError(CreateFailed, err)
	}

	regular := false
	if info, err := file.Stat(); err == nil {
		regular = info.Mode().IsRegular()
	}

	return &Output{
		file:    file,
		path:    path,
		regular: regular,
	}, nil
}

// RemoveOnAbort makes a failed output get deleted instead of leaving a
// truncated bitmap behind. Only regular files are ever removed.
func (o *Output) RemoveOnAbort(remove bool) {
	o.removePartial = remove
}

// Path returns the path the output was created at.
func (o *Output) Path() string {
	return o.path
}

// Written returns the number of bytes written so far.
func (o *Output) Written() int64 {
	return o.written
}

// WriteHeader writes the bitmap header.
func (o *Output) WriteHeader(h BmpHeader) error {
	n, err := h.WriteTo(o.file)
	o.written += n
	return StepError(WriteFailed, err)
}

// WritePixels writes the pixel array.
func (o *Output) WritePixels(p []byte) error {
	n, err := writeAll(o.file, p)
	o.written += int64(n)
	return StepError(WriteFailed, err)
}

// unsyncable reports whether a Sync error means the file cannot be synced at
// all, as with pipes and character devices.
func unsyncable(err error) bool {
	return errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTSUP)
}

// Commit flushes the file to stable storage and closes it. Outputs that do
// not support syncing are closed without it.
func (o *Output) Commit() error {
	if err := o.file.Sync(); err != nil && !unsyncable(err) {
		o.file.Close()
		return o.discard(StepError(WriteFailed, err))
	}

	if err := o.file.Close(); err != nil {
		return o.discard(StepError(WriteFailed, err))
	}

	return nil
}

// Abort closes the file after a failed write. Whatever was written stays on
// disk unless RemoveOnAbort was enabled.
func (o *Output) Abort() error {
	err := o.file.Close()
	if rmErr := o.removeIfPartial(); rmErr != nil {
		return rmErr
	}
	return err
}

// discard applies the removal policy after a failed commit. A failed removal
// is reported alongside err.
func (o *Output) discard(err error) error {
	if rmErr := o.removeIfPartial(); rmErr != nil {
		return fmt.Errorf("%w; removing partial output: %v", err, rmErr)
	}
	return err
}

func (o *Output) removeIfPartial() error {
	if !o.removePartial || !o.regular {
		return nil
	}

	if err := os.Remove(o.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
