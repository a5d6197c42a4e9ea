package frame

import (
	"errors"

	"github.com/tauraamui/offscreend/pkg/texture"
	"github.com/tauraamui/xerror"
)

var ErrTextureTooSmall = errors.New("mapped texture is smaller than the frame")

// Uploader copies the latest frame held in a buffer into textures.
type Uploader struct {
	buffer *Buffer
}

func NewUploader(buffer *Buffer) *Uploader {
	return &Uploader{buffer: buffer}
}

// RenderToTexture overwrites tex with the most recent frame. Nothing
// painted yet is not an error. The texture is only borrowed for the
// duration of the call and is always unmapped after a successful map.
func (u *Uploader) RenderToTexture(tex texture.Texture) error {
	u.buffer.BeginRead()
	defer u.buffer.EndRead()

	if u.buffer.empty() {
		return nil
	}

	mapped, err := tex.Map(texture.MapWriteDiscard)
	if err != nil {
		return xerror.Errorf("unable to map texture for frame upload: %w", err)
	}
	defer tex.Unmap()

	if mapped.IsEmpty() {
		return nil
	}

	return copyFrame(mapped, u.buffer.pixels, u.buffer.pitch(), u.buffer.height)
}

func copyFrame(dst texture.MappedSubresource, src []byte, srcPitch, height int) error {
	dstPitch := dst.RowPitch
	if dstPitch < srcPitch || len(dst.Data) < (height-1)*dstPitch+srcPitch {
		return ErrTextureTooSmall
	}

	if srcPitch == dstPitch {
		copy(dst.Data, src[:srcPitch*height])
		return nil
	}

	srcOff, dstOff := 0, 0
	for y := height; y > 0; y-- {
		copy(dst.Data[dstOff:dstOff+srcPitch], src[srcOff:srcOff+srcPitch])
		srcOff += srcPitch
		dstOff += dstPitch
	}
	return nil
}
