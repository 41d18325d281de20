package psd

import (
	"fmt"
)

// MaskFlags are the unpacked bits of a mask flag byte.
type MaskFlags struct {
	PositionRelative   bool
	Disabled           bool
	InvertWhenBlending bool // obsolete in current documents
	FromRenderedData   bool
	HasParameters      bool
}

func maskFlagsFromByte(b uint8) MaskFlags {
	return MaskFlags{
		PositionRelative:   b&0x01 != 0,
		Disabled:           b&0x02 != 0,
		InvertWhenBlending: b&0x04 != 0,
		FromRenderedData:   b&0x08 != 0,
		HasParameters:      b&0x10 != 0,
	}
}

// LayerMaskData is the optional mask sub-structure of a layer record. A
// zero Length means no mask is present and no further fields were read.
// There is no length-based reseek here: the owning layer record's
// extra-data reseek is the safety net for any misaccounting below.
type LayerMaskData struct {
	Length       uint32
	Rect         Rect
	DefaultColor uint8 // 0 or 255
	Flags        MaskFlags

	// Parameter fields, present only when Flags.HasParameters and the
	// matching presence bit are both set.
	HasUserDensity   bool
	UserDensity      uint8
	HasUserFeather   bool
	UserFeather      float64
	HasVectorDensity bool
	VectorDensity    uint8
	HasVectorFeather bool
	VectorFeather    float64

	// "Real" trailer, present when Length != 20; a Length of exactly 20
	// carries two padding bytes instead.
	HasReal        bool
	RealFlags      MaskFlags
	RealBackground uint8 // 0 or 255
	RealRect       Rect
}

// Present reports whether the layer carries a mask.
func (m *LayerMaskData) Present() bool {
	return m.Length > 0
}

func readLayerMaskData(f *File, opts *options) (LayerMaskData, error) {
	var m LayerMaskData

	length, err := f.ReadUint32()
	if err != nil {
		return m, fmt.Errorf("failed to read mask data length: %w", err)
	}
	m.Length = length
	if length == 0 {
		return m, nil
	}

	if m.Rect, err = readRect(f); err != nil {
		return m, fmt.Errorf("failed to read mask rect: %w", err)
	}
	if err := opts.checkRect(f, "mask", m.Rect); err != nil {
		return m, err
	}

	if m.DefaultColor, err = f.ReadByte(); err != nil {
		return m, fmt.Errorf("failed to read mask default color: %w", err)
	}
	if err := opts.checkColorDomain(f, "mask default color", m.DefaultColor); err != nil {
		return m, err
	}

	flags, err := f.ReadByte()
	if err != nil {
		return m, fmt.Errorf("failed to read mask flags: %w", err)
	}
	m.Flags = maskFlagsFromByte(flags)

	if m.Flags.HasParameters {
		params, err := f.ReadByte()
		if err != nil {
			return m, fmt.Errorf("failed to read mask parameter flags: %w", err)
		}

		// Fixed field order: user density, user feather, vector density,
		// vector feather.
		if params&0x01 != 0 {
			m.HasUserDensity = true
			if m.UserDensity, err = f.ReadByte(); err != nil {
				return m, fmt.Errorf("failed to read user mask density: %w", err)
			}
		}
		if params&0x02 != 0 {
			m.HasUserFeather = true
			if m.UserFeather, err = f.ReadFloat64(); err != nil {
				return m, fmt.Errorf("failed to read user mask feather: %w", err)
			}
		}
		if params&0x04 != 0 {
			m.HasVectorDensity = true
			if m.VectorDensity, err = f.ReadByte(); err != nil {
				return m, fmt.Errorf("failed to read vector mask density: %w", err)
			}
		}
		if params&0x08 != 0 {
			m.HasVectorFeather = true
			if m.VectorFeather, err = f.ReadFloat64(); err != nil {
				return m, fmt.Errorf("failed to read vector mask feather: %w", err)
			}
		}
	}

	if length == 20 {
		if err := f.Skip(2); err != nil {
			return m, fmt.Errorf("failed to skip mask padding: %w", err)
		}
		return m, nil
	}

	m.HasReal = true
	realFlags, err := f.ReadByte()
	if err != nil {
		return m, fmt.Errorf("failed to read real mask flags: %w", err)
	}
	m.RealFlags = maskFlagsFromByte(realFlags)

	if m.RealBackground, err = f.ReadByte(); err != nil {
		return m, fmt.Errorf("failed to read real mask background: %w", err)
	}
	if err := opts.checkColorDomain(f, "real mask background", m.RealBackground); err != nil {
		return m, err
	}

	if m.RealRect, err = readRect(f); err != nil {
		return m, fmt.Errorf("failed to read real mask rect: %w", err)
	}
	if err := opts.checkRect(f, "real mask", m.RealRect); err != nil {
		return m, err
	}

	return m, nil
}
