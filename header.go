package psd

import (
	"fmt"
)

const headerSignature = "8BPS"

// ColorMode is the document color mode from the file header.
type ColorMode uint16

const (
	ColorModeBitmap       ColorMode = 0
	ColorModeGrayscale    ColorMode = 1
	ColorModeIndexed      ColorMode = 2
	ColorModeRGB          ColorMode = 3
	ColorModeCMYK         ColorMode = 4
	ColorModeMultichannel ColorMode = 7
	ColorModeDuotone      ColorMode = 8
	ColorModeLab          ColorMode = 9
)

var colorModeNames = map[ColorMode]string{
	ColorModeBitmap:       "Bitmap",
	ColorModeGrayscale:    "Grayscale",
	ColorModeIndexed:      "Indexed",
	ColorModeRGB:          "RGB",
	ColorModeCMYK:         "CMYK",
	ColorModeMultichannel: "Multichannel",
	ColorModeDuotone:      "Duotone",
	ColorModeLab:          "Lab",
}

func (m ColorMode) String() string {
	if name, ok := colorModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint16(m))
}

// Header is the fixed 26-byte file header.
type Header struct {
	file *File

	Sig      string
	Version  uint16
	Channels uint16
	Rows     uint32
	Cols     uint32
	Depth    uint16
	Mode     ColorMode
}

// Width returns the width of the document.
func (h *Header) Width() uint32 {
	return h.Cols
}

// Height returns the height of the document.
func (h *Header) Height() uint32 {
	return h.Rows
}

// IsRGB returns true if the color mode is RGB.
func (h *Header) IsRGB() bool {
	return h.Mode == ColorModeRGB
}

// IsCMYK returns true if the color mode is CMYK.
func (h *Header) IsCMYK() bool {
	return h.Mode == ColorModeCMYK
}

// Parse parses the header section.
func (h *Header) Parse() error {
	start, _ := h.file.Tell()

	sig, err := h.file.ReadString(4)
	if err != nil {
		return fmt.Errorf("failed to read signature: %w", err)
	}
	if sig != headerSignature {
		return errSignature(start, headerSignature, sig)
	}
	h.Sig = sig

	version, err := h.file.ReadUint16()
	if err != nil {
		return fmt.Errorf("failed to read version: %w", err)
	}
	h.Version = version

	// Reserved bytes are consumed but not validated.
	if err := h.file.Skip(6); err != nil {
		return fmt.Errorf("failed to skip reserved bytes: %w", err)
	}

	channels, err := h.file.ReadUint16()
	if err != nil {
		return fmt.Errorf("failed to read channels: %w", err)
	}
	h.Channels = channels

	rows, err := h.file.ReadUint32()
	if err != nil {
		return fmt.Errorf("failed to read rows: %w", err)
	}
	h.Rows = rows

	cols, err := h.file.ReadUint32()
	if err != nil {
		return fmt.Errorf("failed to read cols: %w", err)
	}
	h.Cols = cols

	depth, err := h.file.ReadUint16()
	if err != nil {
		return fmt.Errorf("failed to read depth: %w", err)
	}
	h.Depth = depth

	modePos, _ := h.file.Tell()
	mode, err := h.file.ReadUint16()
	if err != nil {
		return fmt.Errorf("failed to read mode: %w", err)
	}
	if _, ok := colorModeNames[ColorMode(mode)]; !ok {
		return errEnum(modePos, "color mode", mode)
	}
	h.Mode = ColorMode(mode)

	return nil
}

// ColorModeData is the length-prefixed opaque blob following the header.
// Only indexed and duotone documents carry a payload; zero length is valid
// and yields an empty blob.
type ColorModeData struct {
	file *File
	Data []byte
}

// Parse parses the color mode data section.
func (c *ColorModeData) Parse() error {
	length, err := c.file.ReadUint32()
	if err != nil {
		return fmt.Errorf("failed to read color mode data length: %w", err)
	}
	if length == 0 {
		return nil
	}
	data, err := c.file.ReadBytes(int(length))
	if err != nil {
		return fmt.Errorf("failed to read color mode data: %w", err)
	}
	c.Data = data
	return nil
}
