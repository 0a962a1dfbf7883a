package fbgrab

import (
	"bytes"
	"encoding/binary"
	"io"
)

// HeaderLength is the size of the serialized file and info headers.
const HeaderLength = 54

const (
	infoHeaderLength = 40
	pixelsPerMetre   = 2835
	compressionRGB   = 0
)

// BmpHeader holds the BITMAPFILEHEADER and BITMAPINFOHEADER fields in file
// order.
type BmpHeader struct {
	Type      [2]byte
	FileSize  uint32
	Reserved1 uint16
	Reserved2 uint16
	OffBits   uint32

	InfoSize        uint32
	Width           int32
	Height          int32
	Planes          uint16
	BitCount        uint16
	Compression     uint32
	ImageSize       uint32
	XPixelsPerM     int32
	YPixelsPerM     int32
	ColorsUsed      uint32
	ColorsImportant uint32
}

// TemplateHeader returns the fixed header every capture starts from. Only
// FileSize, Width, Height, BitCount and ImageSize vary between captures.
func TemplateHeader() BmpHeader {
	return BmpHeader{
		Type:        [2]byte{'B', 'M'},
		OffBits:     HeaderLength,
		InfoSize:    infoHeaderLength,
		Planes:      1,
		Compression: compressionRGB,
		XPixelsPerM: pixelsPerMetre,
		YPixelsPerM: pixelsPerMetre,
	}
}

// BuildHeader patches the template for a capture of g sampled with p.
//
// Width and height are the virtual dimensions divided by the factor, while
// ImageSize and FileSize count the cropped pixel array. Each is computed
// its own way and both must stay as written.
func BuildHeader(g FrameGeometry, p SamplingPlan) BmpHeader {
	f := uint32(p.factor())
	size := uint32(p.PixelArraySize(g))

	h := TemplateHeader()
	h.FileSize = size + HeaderLength
	h.Width = int32(g.WidthVirtual / f)
	// Framebuffers store rows top to bottom.
	h.Height = -int32(g.HeightVirtual / f)
	h.BitCount = uint16(g.BitsPerPixel)
	h.ImageSize = size
	return h
}

// MarshalBinary returns the little-endian on-disk form of the header.
func (h BmpHeader) MarshalBinary() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, HeaderLength))
	if err := binary.Write(buf, binary.LittleEndian, &h); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo writes the header to w, retrying short writes.
func (h BmpHeader) WriteTo(w io.Writer) (int64, error) {
	data, err := h.MarshalBinary()
	if err != nil {
		return 0, err
	}

	n, err := writeAll(w, data)
	return int64(n), err
}
