package psd

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

// Additional layer information keys with typed views.
const (
	extraKeyUnicodeName     = "luni"
	extraKeyLayerID         = "lyid"
	extraKeySectionDivider  = "lsct"
	extraKeySectionDivider2 = "lsdk"
)

// decodeUnicodeName decodes a 'luni' payload: a uint32 UTF-16 code unit
// count followed by UTF-16BE data.
func decodeUnicodeName(data []byte) (string, error) {
	if len(data) < 4 {
		return "", fmt.Errorf("unicode name block too short: %d bytes", len(data))
	}
	count := binary.BigEndian.Uint32(data)
	end := 4 + int(count)*2
	if end > len(data) {
		return "", fmt.Errorf("unicode name declares %d code units, have %d bytes", count, len(data)-4)
	}
	decoder := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	decoded, err := decoder.Bytes(data[4:end])
	if err != nil {
		return "", fmt.Errorf("failed to decode unicode name: %w", err)
	}
	return string(decoded), nil
}

// UnicodeName returns the layer's Unicode name from the 'luni' block,
// falling back to the Pascal-string name.
func (l *Layer) UnicodeName() string {
	data, ok := l.Extras[extraKeyUnicodeName]
	if !ok {
		return l.Name
	}
	name, err := decodeUnicodeName(data)
	if err != nil || name == "" {
		return l.Name
	}
	return name
}

// LayerID returns the layer's id from the 'lyid' block, or 0.
func (l *Layer) LayerID() int32 {
	data, ok := l.Extras[extraKeyLayerID]
	if !ok || len(data) < 4 {
		return 0
	}
	return int32(binary.BigEndian.Uint32(data))
}

// SectionDividerType classifies group boundary markers.
type SectionDividerType int32

const (
	SectionDividerOther        SectionDividerType = 0
	SectionDividerOpenFolder   SectionDividerType = 1
	SectionDividerClosedFolder SectionDividerType = 2
	SectionDividerBounding     SectionDividerType = 3 // hidden divider closing a group
)

func (s SectionDividerType) String() string {
	switch s {
	case SectionDividerOther:
		return "other"
	case SectionDividerOpenFolder:
		return "open folder"
	case SectionDividerClosedFolder:
		return "closed folder"
	case SectionDividerBounding:
		return "bounding section divider"
	default:
		return fmt.Sprintf("unknown(%d)", int32(s))
	}
}

// SectionDividerInfo is the typed view of an 'lsct'/'lsdk' block.
type SectionDividerInfo struct {
	Type      SectionDividerType
	BlendMode string
}

// SectionDivider returns section divider info if the layer carries an
// 'lsct' or 'lsdk' block, nil otherwise.
func (l *Layer) SectionDivider() *SectionDividerInfo {
	data, ok := l.Extras[extraKeySectionDivider]
	if !ok {
		if data, ok = l.Extras[extraKeySectionDivider2]; !ok {
			return nil
		}
	}
	if len(data) < 4 {
		return nil
	}

	info := &SectionDividerInfo{
		Type: SectionDividerType(int32(binary.BigEndian.Uint32(data))),
	}
	// Longer payloads carry an "8BIM" signature plus a blend mode key.
	if len(data) >= 12 && string(data[4:8]) == resourceSignature {
		info.BlendMode = string(data[8:12])
	}
	return info
}
