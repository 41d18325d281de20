package psd

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const resourceSignature = "8BIM"

// Resource is a single image resource record.
type Resource struct {
	ID   uint16
	Name string
	Data []byte
}

// ResourceSection is the image resources section. Resources are kept in
// document order.
type ResourceSection struct {
	file   *File
	tracer Tracer

	// Declared size of the section. Informational only: iteration is driven
	// by signature matching, not by this value.
	DeclaredSize uint32

	Resources []*Resource
}

// Parse parses the resources section. The loop ends at the first position
// where the next four bytes are not the resource signature; that is the
// designed end-of-list condition, not corruption, and the cursor is left
// at the unmatched bytes.
func (r *ResourceSection) Parse() error {
	size, err := r.file.ReadUint32()
	if err != nil {
		return fmt.Errorf("failed to read resources length: %w", err)
	}
	r.DeclaredSize = size

	if pos, err := r.file.Tell(); err == nil {
		r.tracer.Section("image resources", pos)
	}

	for {
		ok, err := r.atResource()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		resource, err := r.parseResource()
		if err != nil {
			return fmt.Errorf("failed to parse resource: %w", err)
		}
		r.Resources = append(r.Resources, resource)
	}
}

// atResource reports whether the cursor sits on a resource record. Running
// out of bytes here means the list (and the stream) simply ended.
func (r *ResourceSection) atResource() (bool, error) {
	sig, err := r.file.Peek(4)
	if err != nil {
		if errors.Is(err, ErrUnexpectedEOF) {
			return false, nil
		}
		return false, err
	}
	return string(sig) == resourceSignature, nil
}

func (r *ResourceSection) parseResource() (*Resource, error) {
	if err := r.file.Skip(4); err != nil {
		return nil, err
	}

	resource := &Resource{}

	id, err := r.file.ReadUint16()
	if err != nil {
		return nil, err
	}
	resource.ID = id

	name, err := r.parseName()
	if err != nil {
		return nil, err
	}
	resource.Name = name

	dataSize, err := r.file.ReadUint32()
	if err != nil {
		return nil, err
	}
	if dataSize > 0 {
		data, err := r.file.ReadBytes(int(dataSize))
		if err != nil {
			return nil, err
		}
		resource.Data = data

		// Data is padded to even size.
		if dataSize%2 != 0 {
			if err := r.file.Skip(1); err != nil {
				return nil, err
			}
		}
	}

	r.tracer.Value("resource", resource.ID)
	return resource, nil
}

// parseName reads the Pascal-style resource name. The name field including
// the length byte is padded to an even total, so an even (or zero) length
// carries one trailing padding byte and an odd length carries none.
func (r *ResourceSection) parseName() (string, error) {
	nameLen, err := r.file.ReadByte()
	if err != nil {
		return "", err
	}

	padded := int(nameLen)
	if nameLen%2 == 0 {
		padded++
	}
	buf, err := r.file.ReadBytes(padded)
	if err != nil {
		return "", err
	}
	return string(buf[:nameLen]), nil
}

// ByID returns the first resource with the given id, or nil.
func (r *ResourceSection) ByID(id uint16) *Resource {
	for _, res := range r.Resources {
		if res.ID == id {
			return res
		}
	}
	return nil
}

// Guide is a single document guide.
type Guide struct {
	Position     int32
	IsHorizontal bool
}

// GuidesResource is the typed view of resource id 1032 grid/guides data.
type GuidesResource struct {
	Guides []Guide
}

const resourceIDGuides = 1032

// ParseGuides parses the guides resource (id 1032). Documents without
// guides yield an empty result.
func (r *ResourceSection) ParseGuides() (*GuidesResource, error) {
	resource := r.ByID(resourceIDGuides)
	if resource == nil || len(resource.Data) == 0 {
		return &GuidesResource{}, nil
	}

	reader := bytes.NewReader(resource.Data)

	// Skip version (4 bytes) and grid cycle info (8 bytes).
	if _, err := reader.Seek(12, 1); err != nil {
		return nil, err
	}

	var guideCount uint32
	if err := binary.Read(reader, binary.BigEndian, &guideCount); err != nil {
		return nil, fmt.Errorf("failed to read guide count: %w", err)
	}

	result := &GuidesResource{Guides: make([]Guide, guideCount)}
	for i := uint32(0); i < guideCount; i++ {
		var position int32
		var direction byte
		if err := binary.Read(reader, binary.BigEndian, &position); err != nil {
			return nil, fmt.Errorf("failed to read guide %d: %w", i, err)
		}
		if err := binary.Read(reader, binary.BigEndian, &direction); err != nil {
			return nil, fmt.Errorf("failed to read guide %d: %w", i, err)
		}
		result.Guides[i] = Guide{
			Position:     position,
			IsHorizontal: direction == 0,
		}
	}

	return result, nil
}
