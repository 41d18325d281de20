package psd

import (
	"fmt"
)

// Image is the merged image section that trails the layer data. Like
// per-layer channels, the payload is bounds-validated and consumed, not
// expanded into samples.
type Image struct {
	file   *File
	header *Header
	opts   *options

	Compression Compression
	Offset      int64
	Length      int64
	RowCounts   []uint16
}

// Parse parses the merged image section.
func (img *Image) Parse() error {
	tagPos, _ := img.file.Tell()
	img.opts.tracer.Section("merged image", tagPos)

	tag, err := img.file.ReadUint16()
	if err != nil {
		return fmt.Errorf("failed to read compression: %w", err)
	}
	// The merged image is stored raw or run-length encoded only.
	if tag > uint16(CompressionRLE) {
		return errEnum(tagPos, "merged image compression", tag)
	}
	img.Compression = Compression(tag)
	img.Offset = tagPos + 2

	height := img.header.Height()
	width := img.header.Width()
	channels := uint32(img.header.Channels)

	switch img.Compression {
	case CompressionRaw:
		total := int64(channels) * int64(height) * int64(width) * int64(img.header.Depth) / 8
		if err := consume(img.file, int(total)); err != nil {
			return fmt.Errorf("failed to read merged image data: %w", err)
		}
		img.Length = total

	case CompressionRLE:
		// One row count per scanline per channel.
		scanlines := channels * height
		img.RowCounts = make([]uint16, scanlines)
		for i := uint32(0); i < scanlines; i++ {
			if img.RowCounts[i], err = img.file.ReadUint16(); err != nil {
				return fmt.Errorf("failed to read merged image row count %d: %w", i, err)
			}
		}
		for i, n := range img.RowCounts {
			if err := consume(img.file, int(n)); err != nil {
				return fmt.Errorf("failed to read merged image row %d: %w", i, err)
			}
		}
		end, _ := img.file.Tell()
		img.Length = end - img.Offset
	}

	return nil
}
