package psd

import (
	"bytes"
	"encoding/binary"
)

// Synthetic document builders shared by the package tests. All multi-byte
// values are written big-endian, matching the wire format.

func wU8(buf *bytes.Buffer, v uint8) {
	buf.WriteByte(v)
}

func wU16(buf *bytes.Buffer, v uint16) {
	binary.Write(buf, binary.BigEndian, v)
}

func wI16(buf *bytes.Buffer, v int16) {
	binary.Write(buf, binary.BigEndian, v)
}

func wU32(buf *bytes.Buffer, v uint32) {
	binary.Write(buf, binary.BigEndian, v)
}

func wRect(buf *bytes.Buffer, r Rect) {
	wU32(buf, r.Top)
	wU32(buf, r.Left)
	wU32(buf, r.Bottom)
	wU32(buf, r.Right)
}

func newTestFile(data []byte) *File {
	return NewFile(bytes.NewReader(data))
}

func testOptions() *options {
	return &options{tracer: nopTracer{}}
}

// writeHeader writes the fixed 26-byte file header.
func writeHeader(buf *bytes.Buffer, channels uint16, height, width uint32, depth uint16, mode ColorMode) {
	buf.WriteString(headerSignature)
	wU16(buf, 1)               // version
	buf.Write(make([]byte, 6)) // reserved
	wU16(buf, channels)
	wU32(buf, height)
	wU32(buf, width)
	wU16(buf, depth)
	wU16(buf, uint16(mode))
}

// writeResource writes one image resource record with the even-padding
// rules applied.
func writeResource(buf *bytes.Buffer, id uint16, name string, data []byte) {
	buf.WriteString(resourceSignature)
	wU16(buf, id)
	wU8(buf, uint8(len(name)))
	buf.WriteString(name)
	if len(name)%2 == 0 {
		wU8(buf, 0)
	}
	wU32(buf, uint32(len(data)))
	buf.Write(data)
	if len(data)%2 != 0 {
		wU8(buf, 0)
	}
}

// writePascalName4 writes a Pascal string whose total field is padded to a
// multiple of four (the layer-name rule).
func writePascalName4(buf *bytes.Buffer, name string) {
	wU8(buf, uint8(len(name)))
	buf.WriteString(name)
	total := len(name) + 1
	for total%4 != 0 {
		wU8(buf, 0)
		total++
	}
}

// writeBlendingRanges writes a well-formed blending ranges block for the
// given channel count.
func writeBlendingRanges(buf *bytes.Buffer, channels uint16) {
	wU32(buf, uint32(8*(int(channels)+1)))
	for i := 0; i <= int(channels); i++ {
		wU32(buf, 0x0000ffff)
		wU32(buf, 0x0000ffff)
	}
}

// layerSpec describes one synthetic layer record.
type layerSpec struct {
	rect     Rect
	channels []ChannelInfo
	name     string
	flags    uint8
	extras   map[string][]byte
}

// writeLayerRecord writes a complete layer record with an empty mask block,
// well-formed blending ranges, the padded name and any extra blocks, with
// the extra-data length computed from the actual content.
func writeLayerRecord(buf *bytes.Buffer, spec layerSpec) {
	wRect(buf, spec.rect)
	wU16(buf, uint16(len(spec.channels)))
	for _, ch := range spec.channels {
		wI16(buf, ch.ID)
		wU32(buf, ch.Length)
	}
	buf.WriteString(resourceSignature)
	buf.WriteString("norm")
	wU8(buf, 255)        // opacity
	wU8(buf, 0)          // clipping
	wU8(buf, spec.flags) // flags
	wU8(buf, 0)          // filler

	extra := new(bytes.Buffer)
	wU32(extra, 0) // no mask data
	writeBlendingRanges(extra, uint16(len(spec.channels)))
	writePascalName4(extra, spec.name)
	for key, data := range spec.extras {
		writeExtraBlock(extra, key, data)
	}

	wU32(buf, uint32(extra.Len()))
	buf.Write(extra.Bytes())
}

// writeExtraBlock writes one tagged additional-information block padded to
// a multiple of four.
func writeExtraBlock(buf *bytes.Buffer, key string, data []byte) {
	buf.WriteString(resourceSignature)
	buf.WriteString(key)
	wU32(buf, uint32(len(data)))
	buf.Write(data)
	for pad := len(data) % 4; pad != 0 && pad < 4; pad++ {
		wU8(buf, 0)
	}
}

// luniBlock builds a 'luni' payload for the given name.
func luniBlock(name string) []byte {
	buf := new(bytes.Buffer)
	runes := []rune(name)
	wU32(buf, uint32(len(runes)))
	for _, r := range runes {
		wU16(buf, uint16(r))
	}
	return buf.Bytes()
}

// lsctBlock builds a section divider payload of the given type.
func lsctBlock(dividerType SectionDividerType) []byte {
	buf := new(bytes.Buffer)
	wU32(buf, uint32(dividerType))
	return buf.Bytes()
}

// writeRawChannel writes a raw-compressed channel payload sized to rect.
func writeRawChannel(buf *bytes.Buffer, rect Rect, fill byte) {
	wU16(buf, uint16(CompressionRaw))
	buf.Write(bytes.Repeat([]byte{fill}, int(rect.Area())))
}

// writeRLEChannel writes a run-length channel payload with the given
// per-row byte counts.
func writeRLEChannel(buf *bytes.Buffer, rowCounts []uint16) {
	wU16(buf, uint16(CompressionRLE))
	for _, n := range rowCounts {
		wU16(buf, n)
	}
	for _, n := range rowCounts {
		buf.Write(bytes.Repeat([]byte{0xaa}, int(n)))
	}
}

// writeLayerMaskSection wraps a layer info block (count + records + channel
// data) in the section and block length prefixes.
func writeLayerMaskSection(buf *bytes.Buffer, layerInfo []byte) {
	wU32(buf, uint32(4+len(layerInfo))) // section length
	wU32(buf, uint32(len(layerInfo)))   // layer info length
	buf.Write(layerInfo)
}
