// Package texture defines the write-mappable 2D texture contract frames are
// uploaded into, plus a host memory implementation of it.
package texture

import (
	"errors"

	"github.com/tauraamui/xerror"
)

type MapMode int

const (
	// MapWriteDiscard grants write access, prior contents may be discarded.
	MapWriteDiscard MapMode = iota
	// MapRead grants read access to the current contents.
	MapRead
)

func (m MapMode) String() string {
	switch m {
	case MapWriteDiscard:
		return "write-discard"
	case MapRead:
		return "read"
	default:
		return "unknown"
	}
}

var (
	ErrAlreadyMapped     = errors.New("texture is already mapped")
	ErrNotWritable       = errors.New("texture is not a copy destination")
	ErrNotReadable       = errors.New("texture is not a copy source")
	ErrInvalidDescriptor = errors.New("invalid texture descriptor")
)

// MappedSubresource is a CPU view of a mapped texture. RowPitch is the
// number of bytes between the start of consecutive rows and may be larger
// than width*4 when the driver pads rows.
type MappedSubresource struct {
	Data     []byte
	RowPitch int
}

// IsEmpty reports whether the mapping gave nothing usable to write into.
func (m MappedSubresource) IsEmpty() bool {
	return len(m.Data) == 0 || m.RowPitch <= 0
}

// Texture is borrowed per call by the uploader, every successful Map must
// be followed by exactly one Unmap.
type Texture interface {
	Map(MapMode) (MappedSubresource, error)
	Unmap()
}

func invalidDescriptor(reason string) error {
	return xerror.Errorf("%s: %w", reason, ErrInvalidDescriptor)
}
