package psd

import (
	"fmt"
)

// LayerInfo is the layer info block: layer records in document order
// followed by every layer's channel image data.
type LayerInfo struct {
	Length uint32

	// LayerCount as declared. A negative count means its absolute value is
	// the number of layers and the first alpha channel of the merged
	// result carries transparency; that is preserved as MergedAlpha and
	// does not alter the parse loop.
	LayerCount  int16
	MergedAlpha bool

	Layers []*Layer

	// Channel image data flattened layer-major then channel-minor, exactly
	// as declared in each layer's channel table. Its length equals the sum
	// of channel counts over all layers.
	ChannelImageData []ChannelImageData
}

// LayerMaskInfo is the layer and mask information section.
type LayerMaskInfo struct {
	file   *File
	header *Header
	opts   *options

	Length    uint32
	LayerInfo LayerInfo

	tree *Node
}

// Parse parses the layer and mask information section.
func (lm *LayerMaskInfo) Parse() error {
	length, err := lm.file.ReadUint32()
	if err != nil {
		return fmt.Errorf("failed to read layer mask info length: %w", err)
	}
	lm.Length = length
	if length == 0 {
		return nil
	}

	start, err := lm.file.Tell()
	if err != nil {
		return err
	}
	lm.opts.tracer.Section("layer and mask info", start)

	if err := lm.parseLayerInfo(); err != nil {
		return fmt.Errorf("failed to parse layer info: %w", err)
	}

	// The section length bounds trailing content (global layer mask,
	// document-level extra blocks) that is not modeled; skip past it.
	if err := lm.file.SeekTo(start + int64(length)); err != nil {
		return err
	}

	lm.tree = buildTree(lm.header, lm.LayerInfo.Layers)
	return nil
}

func (lm *LayerMaskInfo) parseLayerInfo() error {
	info := &lm.LayerInfo

	length, err := lm.file.ReadUint32()
	if err != nil {
		return err
	}
	info.Length = length
	if length == 0 {
		return nil
	}

	count, err := lm.file.ReadInt16()
	if err != nil {
		return err
	}
	info.LayerCount = count
	info.MergedAlpha = count < 0
	// Negate in int, not int16: -32768 has no int16 absolute value.
	n := int(count)
	if n < 0 {
		n = -n
	}
	lm.opts.tracer.Value("layer count", n)

	info.Layers = make([]*Layer, n)
	for i := 0; i < n; i++ {
		layer := &Layer{file: lm.file, opts: lm.opts}
		if err := layer.parseRecord(); err != nil {
			return fmt.Errorf("failed to parse layer %d: %w", i, err)
		}
		info.Layers[i] = layer
	}

	// Channel image data follows all records, in document order: every
	// channel of layer 0, then every channel of layer 1, and so on.
	for i, layer := range info.Layers {
		for _, ch := range layer.ChannelInfo {
			data, err := readChannelImageData(lm.file, layer.Rect, ch.Length)
			if err != nil {
				return fmt.Errorf("failed to parse channel %d of layer %d: %w", ch.ID, i, err)
			}
			info.ChannelImageData = append(info.ChannelImageData, data)
		}
	}

	return nil
}

// Layers returns the layer records in document order.
func (lm *LayerMaskInfo) Layers() []*Layer {
	return lm.LayerInfo.Layers
}

// Tree returns the group hierarchy built from section dividers.
func (lm *LayerMaskInfo) Tree() *Node {
	return lm.tree
}
