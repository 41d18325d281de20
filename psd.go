package psd

import (
	"fmt"
	"io"
	"os"
)

// options carry decoder configuration shared by every section parser.
type options struct {
	tracer  Tracer
	lenient bool
}

// checkColorDomain enforces the 0-or-255 domain of mask color bytes. In
// lenient mode the violation is traced instead of failing the decode.
func (o *options) checkColorDomain(f *File, what string, v uint8) error {
	if v == 0 || v == 255 {
		return nil
	}
	pos, _ := f.Tell()
	err := errInvariant(pos-1, what, v)
	if o.lenient {
		o.tracer.Warn("mask color outside domain", err)
		return nil
	}
	return err
}

// checkRect rejects bounding boxes with inverted coordinates before any
// size derived from them feeds an allocation. In lenient mode the
// violation is traced instead of failing the decode.
func (o *options) checkRect(f *File, what string, r Rect) error {
	if r.Bottom >= r.Top && r.Right >= r.Left {
		return nil
	}
	pos, _ := f.Tell()
	err := fmt.Errorf("%w: %s rect [%d %d %d %d] is inverted (offset %d)",
		ErrInvalidInvariant, what, r.Top, r.Left, r.Bottom, r.Right, pos-16)
	if o.lenient {
		o.tracer.Warn("inverted bounding box", err)
		return nil
	}
	return err
}

// Option configures a PSD decoder.
type Option func(*PSD)

// WithTracer routes decode diagnostics to t.
func WithTracer(t Tracer) Option {
	return func(p *PSD) {
		if t != nil {
			p.opts.tracer = t
		}
	}
}

// WithLenient downgrades invariant violations (nonzero filler byte, mask
// colors outside {0,255}, inverted bounding boxes) to tracer warnings.
func WithLenient() Option {
	return func(p *PSD) { p.opts.lenient = true }
}

// PSD represents a Photoshop document.
type PSD struct {
	file   *File
	closer io.Closer
	opts   options

	header        *Header
	colorModeData *ColorModeData
	resources     *ResourceSection
	layerMaskInfo *LayerMaskInfo
	image         *Image
	parsed        bool
}

// New creates a new PSD instance from a file path.
func New(filename string, opts ...Option) (*PSD, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	p := newPSD(f, opts...)
	p.closer = f
	return p, nil
}

// NewReader creates a new PSD instance from any seekable byte source, such
// as a bytes.Reader over an in-memory document.
func NewReader(rs io.ReadSeeker, opts ...Option) *PSD {
	return newPSD(rs, opts...)
}

func newPSD(rs io.ReadSeeker, opts ...Option) *PSD {
	p := &PSD{
		file: NewFile(rs),
		opts: options{tracer: nopTracer{}},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Open opens a PSD file, parses it, and executes the provided function.
func Open(filename string, fn func(*PSD) error) error {
	psd, err := New(filename)
	if err != nil {
		return err
	}
	defer psd.Close()

	if err := psd.Parse(); err != nil {
		return err
	}

	return fn(psd)
}

// Close closes the underlying file, if the PSD owns one.
func (p *PSD) Close() error {
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}

// Parse parses all sections of the document in a single forward pass.
func (p *PSD) Parse() error {
	if err := p.parseHeader(); err != nil {
		return fmt.Errorf("failed to parse header: %w", err)
	}

	if err := p.parseColorModeData(); err != nil {
		return fmt.Errorf("failed to parse color mode data: %w", err)
	}

	if err := p.parseResources(); err != nil {
		return fmt.Errorf("failed to parse resources: %w", err)
	}

	if err := p.parseLayerMaskInfo(); err != nil {
		return fmt.Errorf("failed to parse layer mask info: %w", err)
	}

	if err := p.parseImage(); err != nil {
		return fmt.Errorf("failed to parse merged image: %w", err)
	}

	p.parsed = true
	return nil
}

// Parsed returns whether the PSD has been parsed.
func (p *PSD) Parsed() bool {
	return p.parsed
}

// Header returns the file header.
func (p *PSD) Header() *Header {
	return p.header
}

// ColorModeData returns the color mode data blob.
func (p *PSD) ColorModeData() *ColorModeData {
	return p.colorModeData
}

// Resources returns the image resources section.
func (p *PSD) Resources() *ResourceSection {
	return p.resources
}

// LayerMaskInfo returns the layer and mask information section.
func (p *PSD) LayerMaskInfo() *LayerMaskInfo {
	return p.layerMaskInfo
}

// Image returns the merged image section, or nil when the document ends at
// the layer data.
func (p *PSD) Image() *Image {
	return p.image
}

// Layers returns all layer records in document order.
func (p *PSD) Layers() []*Layer {
	if p.layerMaskInfo == nil {
		return nil
	}
	return p.layerMaskInfo.Layers()
}

// Tree returns the layer tree structure.
func (p *PSD) Tree() *Node {
	if p.layerMaskInfo == nil {
		return nil
	}
	return p.layerMaskInfo.Tree()
}

// Guides returns the document guides.
func (p *PSD) Guides() (*GuidesResource, error) {
	if p.resources == nil {
		if err := p.Parse(); err != nil {
			return nil, err
		}
	}
	return p.resources.ParseGuides()
}

func (p *PSD) parseHeader() error {
	if p.header != nil {
		return nil
	}
	header := &Header{file: p.file}
	if err := header.Parse(); err != nil {
		return err
	}
	p.header = header
	return nil
}

func (p *PSD) parseColorModeData() error {
	if p.colorModeData != nil {
		return nil
	}
	cmd := &ColorModeData{file: p.file}
	if err := cmd.Parse(); err != nil {
		return err
	}
	p.colorModeData = cmd
	return nil
}

func (p *PSD) parseResources() error {
	if p.resources != nil {
		return nil
	}
	resources := &ResourceSection{file: p.file, tracer: p.opts.tracer}
	if err := resources.Parse(); err != nil {
		return err
	}
	p.resources = resources
	return nil
}

func (p *PSD) parseLayerMaskInfo() error {
	if p.layerMaskInfo != nil {
		return nil
	}
	lm := &LayerMaskInfo{file: p.file, header: p.header, opts: &p.opts}
	if err := lm.Parse(); err != nil {
		return err
	}
	p.layerMaskInfo = lm
	return nil
}

func (p *PSD) parseImage() error {
	if p.image != nil {
		return nil
	}

	// A document may legitimately end at the layer data (the merged image
	// section is trailing content).
	if _, err := p.file.Peek(2); err != nil {
		return nil
	}

	image := &Image{file: p.file, header: p.header, opts: &p.opts}
	if err := image.Parse(); err != nil {
		return err
	}
	p.image = image
	return nil
}
