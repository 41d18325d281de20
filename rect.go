package psd

// Rect is a layer or mask bounding box. Coordinates satisfy Bottom >= Top
// and Right >= Left in well-formed documents.
type Rect struct {
	Top    uint32
	Left   uint32
	Bottom uint32
	Right  uint32
}

// Width returns Right - Left.
func (r Rect) Width() uint32 {
	return r.Right - r.Left
}

// Height returns Bottom - Top.
func (r Rect) Height() uint32 {
	return r.Bottom - r.Top
}

// Area returns the number of samples covered by the rectangle.
func (r Rect) Area() uint32 {
	return r.Height() * r.Width()
}

// ScanlineCount returns the number of pixel rows.
func (r Rect) ScanlineCount() uint32 {
	return r.Height()
}

func readRect(f *File) (Rect, error) {
	var r Rect
	var err error
	if r.Top, err = f.ReadUint32(); err != nil {
		return r, err
	}
	if r.Left, err = f.ReadUint32(); err != nil {
		return r, err
	}
	if r.Bottom, err = f.ReadUint32(); err != nil {
		return r, err
	}
	r.Right, err = f.ReadUint32()
	return r, err
}
