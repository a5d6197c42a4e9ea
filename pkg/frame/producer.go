package frame

import (
	"sync/atomic"

	"github.com/tauraamui/offscreend/pkg/engine"
	"github.com/tauraamui/offscreend/pkg/log"
)

// Producer is the engine facing side of a session. It implements the full
// engine.RenderHandler capability set, but only view paints and geometry
// queries have any effect.
type Producer struct {
	buffer   *Buffer
	geometry *Geometry
	detached int32
}

var _ engine.RenderHandler = (*Producer)(nil)

func NewProducer(buffer *Buffer, geometry *Geometry) *Producer {
	return &Producer{buffer: buffer, geometry: geometry}
}

// Detach stops the producer from writing any further paints. A paint
// already holding the buffer completes first.
func (p *Producer) Detach() {
	atomic.StoreInt32(&p.detached, 1)
}

func (p *Producer) isDetached() bool {
	return atomic.LoadInt32(&p.detached) == 1
}

// OnPaint copies a full view frame into the buffer. The dirty rect is not
// used to limit the copy, every paint overwrites the whole frame. Popup
// paints are discarded.
func (p *Producer) OnPaint(kind engine.PaintElementType, _ engine.Rect, buffer []byte, width, height int) {
	if kind != engine.PaintElementView || p.isDetached() {
		return
	}

	if width < 0 || height < 0 {
		log.Error("Discarding paint with negative dimensions %dx%d", width, height)
		return
	}

	size := width * height * engine.BytesPerPixel
	if len(buffer) < size {
		log.Error("Discarding paint of %dx%d, expected %d bytes but got %d", width, height, size, len(buffer))
		return
	}

	p.buffer.BeginWrite()
	defer p.buffer.EndWrite()

	// re-check under the lock so a paint racing disposal
	// cannot reallocate a released buffer
	if p.isDetached() {
		return
	}

	p.buffer.Resize(width, height)
	copy(p.buffer.pixels, buffer[:size])
	p.buffer.stamp(timeNow())
}

func (p *Producer) GetViewRect() engine.Rect {
	return p.geometry.GetViewRect()
}

func (p *Producer) GetScreenPoint(viewX, viewY int) (int, int, bool) {
	return p.geometry.GetScreenPoint(viewX, viewY)
}

func (p *Producer) GetScreenInfo() (engine.ScreenInfo, bool) {
	return engine.ScreenInfo{}, false
}

func (p *Producer) OnAcceleratedPaint(engine.PaintElementType, engine.Rect, uintptr) {}

func (p *Producer) OnCursorChange(uintptr, engine.CursorType, engine.CursorInfo) {}

func (p *Producer) OnImeCompositionRangeChanged(engine.Range, []engine.Rect) {}

func (p *Producer) OnPopupShow(bool) {}

func (p *Producer) OnPopupSize(engine.Rect) {}

func (p *Producer) OnVirtualKeyboardRequested(engine.TextInputMode) {}

func (p *Producer) StartDragging(engine.DragData, engine.DragOperationsMask, int, int) bool {
	return false
}

func (p *Producer) UpdateDragCursor(engine.DragOperationsMask) {}
