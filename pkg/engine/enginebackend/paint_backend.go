package enginebackend

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tauraamui/offscreend/pkg/engine"
	"github.com/tauraamui/offscreend/pkg/log"
	"github.com/tauraamui/xerror"
)

const popupSize = 32

// painter fills dst, a tightly packed BGRA frame of w*h pixels.
type painter interface {
	paint(dst []byte, w, h int, frameIndex uint64)
}

type paintBackend struct {
	newPainter func(Settings) painter
}

func (b *paintBackend) Connect(ctx context.Context, addr string, settings Settings) (Connection, error) {
	select {
	case <-ctx.Done():
		return nil, xerror.New("connection cancelled")
	default:
	}

	if _, err := url.Parse(addr); err != nil {
		return nil, xerror.Errorf("unable to parse engine address: %w", err)
	}

	conn := &paintConnection{
		uuid:     uuid.NewString(),
		addr:     addr,
		settings: settings,
		painter:  b.newPainter(settings),
		done:     make(chan struct{}),
	}
	conn.start()
	return conn, nil
}

type paintConnection struct {
	uuid      string
	addr      string
	settings  Settings
	painter   painter
	mu        sync.Mutex
	handler   engine.RenderHandler
	isOpen    bool
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

func (c *paintConnection) UUID() string {
	return c.uuid
}

func (c *paintConnection) SetRenderHandler(h engine.RenderHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = h
}

func (c *paintConnection) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isOpen
}

func (c *paintConnection) start() {
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.isOpen = true
	go c.run(ctx)
}

func (c *paintConnection) run(ctx context.Context) {
	defer close(c.done)

	ticker := time.NewTicker(time.Second / time.Duration(c.settings.frameRate()))
	defer ticker.Stop()

	var frameIndex uint64
	var view, popup []byte
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			frameIndex++
			view, popup = c.paintOnce(frameIndex, view, popup)
		}
	}
}

// paintOnce holds the handler lock across the callbacks, so detaching a
// handler waits for a paint in progress.
func (c *paintConnection) paintOnce(frameIndex uint64, view, popup []byte) ([]byte, []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handler == nil {
		return view, popup
	}

	rect := c.handler.GetViewRect()
	if rect.Empty() {
		return view, popup
	}

	w, h := rect.Width, rect.Height
	view = ensureSize(view, w*h*engine.BytesPerPixel)
	c.painter.paint(view, w, h, frameIndex)
	full := engine.Rect{X: 0, Y: 0, Width: w, Height: h}
	c.handler.OnPaint(engine.PaintElementView, full, view, w, h)

	if every := uint64(c.settings.PopupEvery); every > 0 && frameIndex%every == 0 {
		popup = ensureSize(popup, popupSize*popupSize*engine.BytesPerPixel)
		c.handler.OnPopupShow(true)
		c.handler.OnPopupSize(engine.Rect{Width: popupSize, Height: popupSize})
		c.handler.OnPaint(engine.PaintElementPopup, engine.Rect{Width: popupSize, Height: popupSize}, popup, popupSize, popupSize)
	}
	return view, popup
}

func ensureSize(b []byte, size int) []byte {
	if cap(b) < size {
		return make([]byte, size)
	}
	return b[:size]
}

// Close stops painting and waits for the paint goroutine to exit.
func (c *paintConnection) Close() error {
	c.closeOnce.Do(func() {
		log.Debug("Closing engine connection to [%s]...", c.addr)
		c.cancel()
		<-c.done
		c.mu.Lock()
		c.isOpen = false
		c.handler = nil
		c.mu.Unlock()
	})
	return nil
}
