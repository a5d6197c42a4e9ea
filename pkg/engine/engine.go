// Package engine describes the contract between an off-screen rendering
// engine and the sidecar hosting it. The engine owns its own goroutines and
// calls into a RenderHandler whenever it needs geometry or has painted.
package engine

// PaintElementType identifies which surface a paint belongs to.
type PaintElementType int

const (
	// PaintElementView is the primary view surface.
	PaintElementView PaintElementType = iota
	// PaintElementPopup is a popup widget surface (select boxes etc).
	PaintElementPopup
)

func (t PaintElementType) String() string {
	switch t {
	case PaintElementView:
		return "view"
	case PaintElementPopup:
		return "popup"
	default:
		return "unknown"
	}
}

// BytesPerPixel of every frame the engine delivers, B,G,R,A byte order.
const BytesPerPixel = 4

type Rect struct {
	X, Y, Width, Height int
}

func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

type ScreenInfo struct {
	DeviceScaleFactor float32
	Depth             int
	Rect              Rect
	AvailableRect     Rect
}

type Range struct {
	From, To int
}

type CursorType int

type CursorInfo struct {
	HotspotX, HotspotY int
	ImageScaleFactor   float32
	Buffer             []byte
	Width, Height      int
}

type TextInputMode int

type DragOperationsMask uint32

const (
	DragOperationNone DragOperationsMask = 0
	DragOperationCopy DragOperationsMask = 1 << 0
	DragOperationLink DragOperationsMask = 1 << 1
	DragOperationMove DragOperationsMask = 1 << 4
)

// DragData is whatever the engine attaches to a drag, opaque to the sidecar.
type DragData interface{}

// RenderHandler is the full capability set the engine calls into. Hosts
// that only care about painted frames still implement every member, the
// ones they don't use with fixed trivial results.
type RenderHandler interface {
	// GetViewRect returns the rectangle the engine should render at.
	GetViewRect() Rect
	// GetScreenInfo returns false when no screen information is available.
	GetScreenInfo() (ScreenInfo, bool)
	// GetScreenPoint translates a view point into screen space,
	// false when translation is unsupported.
	GetScreenPoint(viewX, viewY int) (screenX, screenY int, ok bool)

	// OnPaint delivers a frame of width*height*4 contiguous, row-major,
	// unpadded bytes. buffer is only valid for the duration of the call.
	OnPaint(kind PaintElementType, dirty Rect, buffer []byte, width, height int)
	OnAcceleratedPaint(kind PaintElementType, dirty Rect, sharedHandle uintptr)

	OnCursorChange(cursor uintptr, kind CursorType, info CursorInfo)
	OnImeCompositionRangeChanged(selected Range, characterBounds []Rect)
	OnPopupShow(show bool)
	OnPopupSize(rect Rect)
	OnVirtualKeyboardRequested(mode TextInputMode)
	StartDragging(data DragData, mask DragOperationsMask, x, y int) bool
	UpdateDragCursor(operation DragOperationsMask)
}
