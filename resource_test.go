package psd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseResourceBytes(t *testing.T, data []byte) (*ResourceSection, *File) {
	t.Helper()
	f := newTestFile(data)
	section := &ResourceSection{file: f, tracer: nopTracer{}}
	require.NoError(t, section.Parse())
	return section, f
}

func TestResourceList(t *testing.T) {
	records := new(bytes.Buffer)
	writeResource(records, 1005, "", []byte{0, 1, 2, 3})
	writeResource(records, 1010, "bg", []byte{9})
	writeResource(records, 1050, "odd", []byte{1, 2, 3})

	buf := new(bytes.Buffer)
	wU32(buf, uint32(records.Len()))
	buf.Write(records.Bytes())

	section, _ := parseResourceBytes(t, buf.Bytes())

	require.Len(t, section.Resources, 3)
	assert.Equal(t, uint16(1005), section.Resources[0].ID)
	assert.Equal(t, uint16(1010), section.Resources[1].ID)
	assert.Equal(t, uint16(1050), section.Resources[2].ID)
	assert.Equal(t, "bg", section.Resources[1].Name)
	assert.Equal(t, []byte{1, 2, 3}, section.Resources[2].Data)
	assert.Equal(t, section.Resources[1], section.ByID(1010))
	assert.Nil(t, section.ByID(9999))
}

func TestResourceListTerminatesAtNonMarker(t *testing.T) {
	records := new(bytes.Buffer)
	writeResource(records, 1005, "", nil)
	writeResource(records, 1006, "", nil)

	buf := new(bytes.Buffer)
	wU32(buf, uint32(records.Len()))
	buf.Write(records.Bytes())
	terminatorPos := int64(buf.Len())
	buf.WriteString("NOPE trailing section data")

	section, f := parseResourceBytes(t, buf.Bytes())

	// Non-matching bytes end the list without error, cursor left at the
	// first unmatched byte.
	require.Len(t, section.Resources, 2)
	pos, err := f.Tell()
	require.NoError(t, err)
	assert.Equal(t, terminatorPos, pos)
}

func TestResourceListEndsAtEOF(t *testing.T) {
	records := new(bytes.Buffer)
	writeResource(records, 1005, "x", nil)

	buf := new(bytes.Buffer)
	wU32(buf, uint32(records.Len()))
	buf.Write(records.Bytes())

	section, _ := parseResourceBytes(t, buf.Bytes())
	require.Len(t, section.Resources, 1)
	assert.Equal(t, "x", section.Resources[0].Name)
}

func TestResourceNamePadding(t *testing.T) {
	// Name field bytes consumed, including the length byte, per name length:
	// 0 -> 2, 3 -> 4, 4 -> 6.
	tests := []struct {
		name     string
		consumed int64
	}{
		{"", 2},
		{"abc", 4},
		{"abcd", 6},
	}

	for _, tt := range tests {
		records := new(bytes.Buffer)
		writeResource(records, 2000, tt.name, nil)
		// signature(4) + id(2) + name field + data length(4)
		assert.Equal(t, 4+2+tt.consumed+4, int64(records.Len()), "name %q", tt.name)

		buf := new(bytes.Buffer)
		wU32(buf, uint32(records.Len()))
		buf.Write(records.Bytes())

		section, f := parseResourceBytes(t, buf.Bytes())
		require.Len(t, section.Resources, 1)
		assert.Equal(t, tt.name, section.Resources[0].Name)

		pos, err := f.Tell()
		require.NoError(t, err)
		assert.Equal(t, int64(buf.Len()), pos, "name %q", tt.name)
	}
}

func TestResourceOddDataPadded(t *testing.T) {
	records := new(bytes.Buffer)
	writeResource(records, 2001, "a", []byte{1, 2, 3, 4, 5})
	writeResource(records, 2002, "b", nil)

	buf := new(bytes.Buffer)
	wU32(buf, uint32(records.Len()))
	buf.Write(records.Bytes())

	section, _ := parseResourceBytes(t, buf.Bytes())
	require.Len(t, section.Resources, 2)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, section.Resources[0].Data)
	assert.Equal(t, uint16(2002), section.Resources[1].ID)
}

func TestParseGuides(t *testing.T) {
	guideData := new(bytes.Buffer)
	wU32(guideData, 1)               // version
	guideData.Write(make([]byte, 8)) // grid cycle info
	wU32(guideData, 2)               // guide count
	wU32(guideData, 300)
	wU8(guideData, 0) // vertical axis, horizontal guide
	wU32(guideData, 100)
	wU8(guideData, 1)

	records := new(bytes.Buffer)
	writeResource(records, resourceIDGuides, "", guideData.Bytes())

	buf := new(bytes.Buffer)
	wU32(buf, uint32(records.Len()))
	buf.Write(records.Bytes())

	section, _ := parseResourceBytes(t, buf.Bytes())

	guides, err := section.ParseGuides()
	require.NoError(t, err)
	require.Len(t, guides.Guides, 2)
	assert.Equal(t, int32(300), guides.Guides[0].Position)
	assert.True(t, guides.Guides[0].IsHorizontal)
	assert.Equal(t, int32(100), guides.Guides[1].Position)
	assert.False(t, guides.Guides[1].IsHorizontal)
}

func TestParseGuidesAbsent(t *testing.T) {
	buf := new(bytes.Buffer)
	wU32(buf, 0)

	section, _ := parseResourceBytes(t, buf.Bytes())
	guides, err := section.ParseGuides()
	require.NoError(t, err)
	assert.Empty(t, guides.Guides)
}
