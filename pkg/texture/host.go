package texture

import (
	"image"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/tauraamui/xerror"
)

const bytesPerPixel = 4

// Descriptor describes a host texture the same way a GPU texture is
// described, only BGRA8 two dimensional textures are supported.
type Descriptor struct {
	Label  string
	Size   gputypes.Extent3D
	Format gputypes.TextureFormat
	Usage  gputypes.TextureUsage
	// RowAlignment rounds each row up to a multiple of this many bytes,
	// 0 or 1 packs rows tightly.
	RowAlignment int
}

func (d Descriptor) validate() error {
	if d.Size.Width == 0 || d.Size.Height == 0 {
		return invalidDescriptor("texture dimensions must be positive")
	}
	if d.Size.DepthOrArrayLayers > 1 {
		return invalidDescriptor("texture must be two dimensional")
	}
	if d.Format != gputypes.TextureFormatBGRA8Unorm {
		return invalidDescriptor("texture format must be BGRA8Unorm")
	}
	if d.RowAlignment < 0 {
		return invalidDescriptor("row alignment cannot be negative")
	}
	return nil
}

func (d Descriptor) rowPitch() int {
	pitch := int(d.Size.Width) * bytesPerPixel
	if d.RowAlignment > 1 {
		pitch = (pitch + d.RowAlignment - 1) / d.RowAlignment * d.RowAlignment
	}
	return pitch
}

// Layout returns the data layout of the texture's backing memory.
func (d Descriptor) Layout() gputypes.TextureDataLayout {
	return gputypes.TextureDataLayout{
		BytesPerRow:  uint32(d.rowPitch()),
		RowsPerImage: d.Size.Height,
	}
}

// NewDescriptor returns a descriptor for a BGRA8 texture usable as a copy
// destination and source.
func NewDescriptor(label string, width, height, rowAlignment int) Descriptor {
	return Descriptor{
		Label: label,
		Size: gputypes.Extent3D{
			Width:              uint32(clampDimension(width)),
			Height:             uint32(clampDimension(height)),
			DepthOrArrayLayers: 1,
		},
		Format:       gputypes.TextureFormatBGRA8Unorm,
		Usage:        gputypes.TextureUsageCopyDst | gputypes.TextureUsageCopySrc,
		RowAlignment: rowAlignment,
	}
}

func clampDimension(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

type Counters struct {
	Maps, Unmaps uint64
}

// HostTexture keeps texture memory in a plain byte slice, used by hosts
// without a device and by tests.
type HostTexture struct {
	mu       sync.Mutex
	desc     Descriptor
	rowPitch int
	data     []byte
	mapped   bool
	counters Counters
}

func NewHostTexture(desc Descriptor) (*HostTexture, error) {
	if err := desc.validate(); err != nil {
		return nil, err
	}
	pitch := desc.rowPitch()
	return &HostTexture{
		desc:     desc,
		rowPitch: pitch,
		data:     make([]byte, pitch*int(desc.Size.Height)),
	}, nil
}

func (t *HostTexture) Descriptor() Descriptor { return t.desc }
func (t *HostTexture) Width() int             { return int(t.desc.Size.Width) }
func (t *HostTexture) Height() int            { return int(t.desc.Size.Height) }
func (t *HostTexture) RowPitch() int          { return t.rowPitch }

func (t *HostTexture) Map(mode MapMode) (MappedSubresource, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.mapped {
		return MappedSubresource{}, ErrAlreadyMapped
	}

	switch mode {
	case MapWriteDiscard:
		if t.desc.Usage&gputypes.TextureUsageCopyDst == 0 {
			return MappedSubresource{}, ErrNotWritable
		}
	case MapRead:
		if t.desc.Usage&gputypes.TextureUsageCopySrc == 0 {
			return MappedSubresource{}, ErrNotReadable
		}
	default:
		return MappedSubresource{}, xerror.Errorf("unsupported map mode: %d", mode)
	}

	t.mapped = true
	t.counters.Maps++
	return MappedSubresource{Data: t.data, RowPitch: t.rowPitch}, nil
}

// Unmap releases a mapping, calling it on an unmapped texture does nothing.
func (t *HostTexture) Unmap() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.mapped {
		return
	}
	t.mapped = false
	t.counters.Unmaps++
}

func (t *HostTexture) Counters() Counters {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counters
}

// ToImage copies the visible region of the texture into an RGBA image,
// skipping any row padding.
func (t *HostTexture) ToImage() (*image.RGBA, error) {
	mapped, err := t.Map(MapRead)
	if err != nil {
		return nil, err
	}
	defer t.Unmap()

	w, h := t.Width(), t.Height()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := mapped.Data[y*mapped.RowPitch : y*mapped.RowPitch+w*bytesPerPixel]
		dst := img.Pix[y*img.Stride : y*img.Stride+w*bytesPerPixel]
		for i := 0; i < len(src); i += bytesPerPixel {
			dst[i+0] = src[i+2]
			dst[i+1] = src[i+1]
			dst[i+2] = src[i+0]
			dst[i+3] = src[i+3]
		}
	}
	return img, nil
}
