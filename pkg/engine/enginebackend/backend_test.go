package enginebackend_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/tauraamui/offscreend/pkg/engine"
	"github.com/tauraamui/offscreend/pkg/engine/enginebackend"
)

type paintRecord struct {
	kind          engine.PaintElementType
	length        int
	width, height int
}

type recordingHandler struct {
	mu     sync.Mutex
	rect   engine.Rect
	paints []paintRecord
	popups int
}

func (r *recordingHandler) GetViewRect() engine.Rect {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rect
}

func (r *recordingHandler) setRect(rect engine.Rect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rect = rect
}

func (r *recordingHandler) records() []paintRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]paintRecord{}, r.paints...)
}

func (r *recordingHandler) GetScreenInfo() (engine.ScreenInfo, bool) {
	return engine.ScreenInfo{}, false
}

func (r *recordingHandler) GetScreenPoint(x, y int) (int, int, bool) { return x, y, false }

func (r *recordingHandler) OnPaint(kind engine.PaintElementType, _ engine.Rect, buffer []byte, w, h int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paints = append(r.paints, paintRecord{kind: kind, length: len(buffer), width: w, height: h})
}

func (r *recordingHandler) OnAcceleratedPaint(engine.PaintElementType, engine.Rect, uintptr) {}

func (r *recordingHandler) OnCursorChange(uintptr, engine.CursorType, engine.CursorInfo) {}

func (r *recordingHandler) OnImeCompositionRangeChanged(engine.Range, []engine.Rect) {}

func (r *recordingHandler) OnPopupShow(bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.popups++
}

func (r *recordingHandler) OnPopupSize(engine.Rect) {}

func (r *recordingHandler) OnVirtualKeyboardRequested(engine.TextInputMode) {}

func (r *recordingHandler) StartDragging(engine.DragData, engine.DragOperationsMask, int, int) bool {
	return false
}

func (r *recordingHandler) UpdateDragCursor(engine.DragOperationsMask) {}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for !cond() {
		select {
		case <-timeout:
			t.Fatal("test timeout 3s limit exceeded")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestEngineBackendResolve(t *testing.T) {
	is := is.New(t)
	is.True(enginebackend.Default() != nil)
	is.True(enginebackend.Resolve("pattern") != nil)
	is.True(enginebackend.Resolve("mock") != nil)
	is.True(enginebackend.Resolve("") != nil)
}

func TestConnectWithCancelledContextFails(t *testing.T) {
	is := is.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	conn, err := enginebackend.Pattern().Connect(ctx, "about:blank", enginebackend.Settings{})
	is.True(conn == nil)
	is.Equal(err.Error(), "connection cancelled")
}

func TestConnectionPaintsAtViewRectGeometry(t *testing.T) {
	is := is.New(t)

	conn, err := enginebackend.Pattern().Connect(
		context.Background(), "about:blank", enginebackend.Settings{FrameRate: 60, PopupEvery: 2},
	)
	is.NoErr(err)
	defer conn.Close()
	is.True(conn.IsOpen())
	is.True(len(conn.UUID()) > 0)

	handler := &recordingHandler{rect: engine.Rect{Width: 32, Height: 16}}
	conn.SetRenderHandler(handler)

	waitFor(t, func() bool { return len(handler.records()) >= 4 })
	handler.setRect(engine.Rect{Width: 8, Height: 4})
	waitFor(t, func() bool {
		r := handler.records()
		last := r[len(r)-1]
		return last.kind == engine.PaintElementView && last.width == 8
	})

	var views, popups int
	for _, r := range handler.records() {
		is.Equal(r.length, r.width*r.height*engine.BytesPerPixel)
		switch r.kind {
		case engine.PaintElementView:
			views++
		case engine.PaintElementPopup:
			popups++
		}
	}
	is.True(views > 0)
	is.True(popups > 0)
}

func TestDetachedHandlerReceivesNoFurtherPaints(t *testing.T) {
	is := is.New(t)

	conn, err := enginebackend.Pattern().Connect(context.Background(), "about:blank", enginebackend.Settings{})
	is.NoErr(err)
	defer conn.Close()

	handler := &recordingHandler{rect: engine.Rect{Width: 4, Height: 4}}
	conn.SetRenderHandler(handler)
	waitFor(t, func() bool { return len(handler.records()) > 0 })

	conn.SetRenderHandler(nil)
	count := len(handler.records())
	time.Sleep(50 * time.Millisecond)
	is.Equal(len(handler.records()), count)
}

func TestEmptyViewRectIsNotPainted(t *testing.T) {
	is := is.New(t)

	conn, err := enginebackend.Pattern().Connect(context.Background(), "about:blank", enginebackend.Settings{})
	is.NoErr(err)
	defer conn.Close()

	handler := &recordingHandler{}
	conn.SetRenderHandler(handler)
	time.Sleep(50 * time.Millisecond)
	is.Equal(len(handler.records()), 0)
}

func TestConnectionCloseIsIdempotent(t *testing.T) {
	is := is.New(t)

	conn, err := enginebackend.Mock().Connect(context.Background(), "about:blank", enginebackend.Settings{})
	is.NoErr(err)

	is.NoErr(conn.Close())
	is.NoErr(conn.Close())
	is.True(!conn.IsOpen())
}

func TestPainterOutputIsOpaqueBGRA(t *testing.T) {
	for name, backend := range map[string]enginebackend.Backend{
		"mock":    enginebackend.Mock(),
		"pattern": enginebackend.Pattern(),
	} {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)
			w, h := 120, 80
			frame := enginebackend.PaintOnce(backend, enginebackend.Settings{Title: "front door"}, w, h, 3)
			is.Equal(len(frame), w*h*engine.BytesPerPixel)
			for i := 3; i < len(frame); i += 4 {
				if frame[i] != 0xFF {
					t.Fatalf("pixel %d is not opaque", i/4)
				}
			}
		})
	}
}
