package psd

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Compression is the per-channel pixel data compression kind.
type Compression uint16

const (
	CompressionRaw           Compression = 0
	CompressionRLE           Compression = 1
	CompressionZIP           Compression = 2
	CompressionZIPPrediction Compression = 3
)

func (c Compression) String() string {
	switch c {
	case CompressionRaw:
		return "raw"
	case CompressionRLE:
		return "rle"
	case CompressionZIP:
		return "zip"
	case CompressionZIPPrediction:
		return "zip with prediction"
	default:
		return fmt.Sprintf("unknown(%d)", uint16(c))
	}
}

// ChannelImageData is one channel's pixel payload. The run-length and zip
// payloads are bounds-validated and consumed, never expanded into samples;
// Offset and Length record where the payload sits in the stream.
type ChannelImageData struct {
	Compression Compression

	// Payload boundaries, excluding the 2-byte compression tag.
	Offset int64
	Length int64

	// Raw payload bytes (CompressionRaw only).
	Data []byte

	// Per-scanline compressed byte counts (CompressionRLE only).
	RowCounts []uint16
}

// readChannelImageData decodes one channel's image data. rect is the owning
// layer's bounds; declaredLen is the channel table's declared byte length
// (compression tag included), used only to bound zip payloads.
func readChannelImageData(f *File, rect Rect, declaredLen uint32) (ChannelImageData, error) {
	var c ChannelImageData

	tagPos, _ := f.Tell()
	tag, err := f.ReadUint16()
	if err != nil {
		return c, fmt.Errorf("failed to read compression tag: %w", err)
	}
	if tag > uint16(CompressionZIPPrediction) {
		return c, errEnum(tagPos, "compression", tag)
	}
	c.Compression = Compression(tag)
	c.Offset = tagPos + 2

	switch c.Compression {
	case CompressionRaw:
		data, err := f.ReadBytes(int(rect.Area()))
		if err != nil {
			return c, fmt.Errorf("failed to read raw channel data: %w", err)
		}
		c.Data = data
		c.Length = int64(len(data))

	case CompressionRLE:
		scanlines := rect.ScanlineCount()
		c.RowCounts = make([]uint16, scanlines)
		for i := uint32(0); i < scanlines; i++ {
			if c.RowCounts[i], err = f.ReadUint16(); err != nil {
				return c, fmt.Errorf("failed to read row byte count %d: %w", i, err)
			}
		}
		for i, n := range c.RowCounts {
			if err := consume(f, int(n)); err != nil {
				return c, fmt.Errorf("failed to read rle row %d: %w", i, err)
			}
		}
		end, _ := f.Tell()
		c.Length = end - c.Offset

	case CompressionZIP, CompressionZIPPrediction:
		// The tag alone does not bound a zip payload; the channel table's
		// declared length does. The stream is inflated purely to validate
		// it, output discarded.
		if declaredLen < 2 {
			return c, errLength(tagPos, "zip channel data", int64(declaredLen), 2)
		}
		payload, err := f.ReadBytes(int(declaredLen) - 2)
		if err != nil {
			return c, fmt.Errorf("failed to read zip channel data: %w", err)
		}
		zr, err := zlib.NewReader(bytes.NewReader(payload))
		if err != nil {
			return c, fmt.Errorf("corrupt zip channel data at offset %d: %w", c.Offset, err)
		}
		if _, err := io.Copy(io.Discard, zr); err != nil {
			zr.Close()
			return c, fmt.Errorf("corrupt zip channel data at offset %d: %w", c.Offset, err)
		}
		zr.Close()
		c.Length = int64(len(payload))
	}

	return c, nil
}

// consume reads and discards exactly n bytes.
func consume(f *File, n int) error {
	if n == 0 {
		return nil
	}
	_, err := f.ReadBytes(n)
	return err
}
