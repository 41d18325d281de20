package psd

import (
	"errors"
	"fmt"
	"strings"
)

// LayerFlags are the unpacked bits of the layer record flag byte.
type LayerFlags struct {
	TransparencyProtected bool
	Hidden                bool
	Obsolete              bool
	Bit4Useful            bool
	PixelDataIrrelevant   bool
}

func layerFlagsFromByte(b uint8) LayerFlags {
	return LayerFlags{
		TransparencyProtected: b&0x01 != 0,
		Hidden:                b&0x02 != 0,
		Obsolete:              b&0x04 != 0,
		Bit4Useful:            b&0x08 != 0,
		PixelDataIrrelevant:   b&0x10 != 0,
	}
}

// ChannelInfo is one entry of a layer's channel table.
type ChannelInfo struct {
	ID     int16
	Length uint32
}

// BlendingRange is one source/destination range pair.
type BlendingRange struct {
	Source      uint32
	Destination uint32
}

// LayerBlendingRanges holds the composite gray range plus one range per
// channel of the owning layer.
type LayerBlendingRanges struct {
	Length        uint32
	CompositeGray BlendingRange
	Channels      []BlendingRange
}

// Layer is a single layer record.
type Layer struct {
	file *File
	opts *options

	Rect         Rect
	Channels     uint16
	ChannelInfo  []ChannelInfo
	BlendModeKey string
	Opacity      uint8
	Clipping     uint8
	Flags        LayerFlags

	// Declared byte length of the extra-data block. Authoritative: the
	// cursor is reseeked past it regardless of how the optional
	// substructures inside parse.
	ExtraLength uint32

	Mask           LayerMaskData
	BlendingRanges LayerBlendingRanges
	Name           string

	// Tagged additional-information blocks found inside the extra-data
	// span ("8BIM"/"8B64" signature, 4-byte key, length-prefixed payload).
	Extras map[string][]byte
}

// parseRecord parses the layer record (not the channel image data).
func (l *Layer) parseRecord() error {
	rect, err := readRect(l.file)
	if err != nil {
		return fmt.Errorf("failed to read layer rect: %w", err)
	}
	if err := l.opts.checkRect(l.file, "layer", rect); err != nil {
		return err
	}
	l.Rect = rect

	channels, err := l.file.ReadUint16()
	if err != nil {
		return fmt.Errorf("failed to read channel count: %w", err)
	}
	l.Channels = channels

	l.ChannelInfo = make([]ChannelInfo, channels)
	for i := uint16(0); i < channels; i++ {
		id, err := l.file.ReadInt16()
		if err != nil {
			return fmt.Errorf("failed to read channel %d id: %w", i, err)
		}
		length, err := l.file.ReadUint32()
		if err != nil {
			return fmt.Errorf("failed to read channel %d length: %w", i, err)
		}
		l.ChannelInfo[i] = ChannelInfo{ID: id, Length: length}
	}

	sigPos, _ := l.file.Tell()
	sig, err := l.file.ReadString(4)
	if err != nil {
		return fmt.Errorf("failed to read blend mode signature: %w", err)
	}
	if sig != resourceSignature {
		return errSignature(sigPos, resourceSignature, sig)
	}

	blendMode, err := l.file.ReadString(4)
	if err != nil {
		return fmt.Errorf("failed to read blend mode key: %w", err)
	}
	l.BlendModeKey = blendMode

	if l.Opacity, err = l.file.ReadByte(); err != nil {
		return fmt.Errorf("failed to read opacity: %w", err)
	}
	if l.Clipping, err = l.file.ReadByte(); err != nil {
		return fmt.Errorf("failed to read clipping: %w", err)
	}

	flags, err := l.file.ReadByte()
	if err != nil {
		return fmt.Errorf("failed to read flags: %w", err)
	}
	l.Flags = layerFlagsFromByte(flags)

	filler, err := l.file.ReadByte()
	if err != nil {
		return fmt.Errorf("failed to read filler: %w", err)
	}
	if filler != 0 {
		pos, _ := l.file.Tell()
		if !l.opts.lenient {
			return errInvariant(pos-1, "layer record filler", filler)
		}
		l.opts.tracer.Warn("nonzero layer record filler", errInvariant(pos-1, "layer record filler", filler))
	}

	extraLen, err := l.file.ReadUint32()
	if err != nil {
		return fmt.Errorf("failed to read extra data length: %w", err)
	}
	l.ExtraLength = extraLen
	if extraLen == 0 {
		return nil
	}

	start, err := l.file.Tell()
	if err != nil {
		return err
	}

	if err := l.parseExtraData(); err != nil {
		return err
	}

	// The declared extra-data length is authoritative: whatever the
	// optional substructures above actually consumed, the next record
	// starts at this offset.
	return l.file.SeekTo(start + int64(extraLen))
}

// parseExtraData parses the mask data, blending ranges, layer name and any
// tagged extra blocks. A blending-range length mismatch is absorbed here:
// the caller's reseek makes the cursor position correct regardless.
func (l *Layer) parseExtraData() error {
	mask, err := readLayerMaskData(l.file, l.opts)
	if err != nil {
		return err
	}
	l.Mask = mask

	if err := l.parseBlendingRanges(); err != nil {
		if !errors.Is(err, ErrLengthMismatch) {
			return err
		}
		l.opts.tracer.Warn("layer blending ranges misdeclared", err)
		return nil
	}

	if err := l.parseLayerName(); err != nil {
		return err
	}

	l.parseExtraBlocks()
	return nil
}

func (l *Layer) parseBlendingRanges() error {
	pos, _ := l.file.Tell()

	length, err := l.file.ReadUint32()
	if err != nil {
		return fmt.Errorf("failed to read blending ranges length: %w", err)
	}
	l.BlendingRanges.Length = length

	if l.BlendingRanges.CompositeGray, err = readBlendingRange(l.file); err != nil {
		return fmt.Errorf("failed to read composite gray range: %w", err)
	}
	consumed := int64(8)

	l.BlendingRanges.Channels = make([]BlendingRange, l.Channels)
	for i := uint16(0); i < l.Channels; i++ {
		if l.BlendingRanges.Channels[i], err = readBlendingRange(l.file); err != nil {
			return fmt.Errorf("failed to read channel %d blending range: %w", i, err)
		}
		consumed += 8
	}

	if consumed != int64(length) {
		return errLength(pos, "layer blending ranges", int64(length), consumed)
	}
	return nil
}

func readBlendingRange(f *File) (BlendingRange, error) {
	var r BlendingRange
	var err error
	if r.Source, err = f.ReadUint32(); err != nil {
		return r, err
	}
	r.Destination, err = f.ReadUint32()
	return r, err
}

// parseLayerName reads the Pascal-style layer name. Unlike resource names,
// the total field (length byte plus name bytes) is padded to a multiple of
// four.
func (l *Layer) parseLayerName() error {
	nameLen, err := l.file.ReadByte()
	if err != nil {
		return fmt.Errorf("failed to read layer name length: %w", err)
	}

	total := int(nameLen) + 1
	if total%4 != 0 {
		total = (total/4 + 1) * 4
	}
	buf, err := l.file.ReadBytes(total - 1)
	if err != nil {
		return fmt.Errorf("failed to read layer name: %w", err)
	}
	l.Name = string(buf[:nameLen])
	return nil
}

// parseExtraBlocks scans tagged additional-information blocks up to the end
// of the extra-data span. Anything unparseable is abandoned; the owning
// record's reseek recovers the cursor.
func (l *Layer) parseExtraBlocks() {
	l.Extras = make(map[string][]byte)

	for {
		sig, err := l.file.Peek(4)
		if err != nil {
			return
		}
		if s := string(sig); s != "8BIM" && s != "8B64" {
			return
		}
		if err := l.file.Skip(4); err != nil {
			return
		}

		key, err := l.file.ReadString(4)
		if err != nil {
			return
		}
		dataLen, err := l.file.ReadUint32()
		if err != nil {
			return
		}
		data, err := l.file.ReadBytes(int(dataLen))
		if err != nil {
			return
		}
		l.Extras[key] = data

		// Block payloads are padded to a multiple of four.
		if pad := dataLen % 4; pad != 0 {
			if err := l.file.Skip(int64(4 - pad)); err != nil {
				return
			}
		}
	}
}

// Width returns the width of the layer.
func (l *Layer) Width() uint32 {
	return l.Rect.Width()
}

// Height returns the height of the layer.
func (l *Layer) Height() uint32 {
	return l.Rect.Height()
}

// Visible returns whether the layer is visible.
func (l *Layer) Visible() bool {
	return !l.Flags.Hidden
}

// IsFolder returns whether this layer is a group marker.
func (l *Layer) IsFolder() bool {
	if _, ok := l.Extras["lsct"]; ok {
		return true
	}
	_, ok := l.Extras["lsdk"]
	return ok
}

// IsFolderEnd returns whether this is the hidden divider closing a group.
func (l *Layer) IsFolderEnd() bool {
	divider := l.SectionDivider()
	return divider != nil && divider.Type == SectionDividerBounding
}

// BlendMode returns blend mode information for the layer.
func (l *Layer) BlendMode() *BlendMode {
	return &BlendMode{
		Mode:              l.blendModeString(),
		Opacity:           l.Opacity,
		OpacityPercentage: int(float64(l.Opacity) / 255.0 * 100),
		Visible:           l.Visible(),
	}
}

var blendModeName = map[string]string{
	"norm": "normal",
	"dark": "darken",
	"lite": "lighten",
	"hue ": "hue",
	"sat ": "saturation",
	"colr": "color",
	"lum ": "luminosity",
	"mul ": "multiply",
	"scrn": "screen",
	"diss": "dissolve",
	"over": "overlay",
	"hLit": "hard_light",
	"sLit": "soft_light",
	"diff": "difference",
	"smud": "exclusion",
	"div ": "color_dodge",
	"idiv": "color_burn",
	"lbrn": "linear_burn",
	"lddg": "linear_dodge",
	"vLit": "vivid_light",
	"lLit": "linear_light",
	"pLit": "pin_light",
	"hMix": "hard_mix",
	"lgCl": "lighter_color",
	"dkCl": "darker_color",
	"fsub": "subtract",
	"fdiv": "divide",
}

func (l *Layer) blendModeString() string {
	if mode, ok := blendModeName[l.BlendModeKey]; ok {
		return mode
	}
	return strings.TrimSpace(l.BlendModeKey)
}

// BlendMode is layer blend mode information.
type BlendMode struct {
	Mode              string
	Opacity           uint8
	OpacityPercentage int
	Visible           bool
}
