package enginebackend

import (
	"context"

	"github.com/tauraamui/offscreend/pkg/engine"
)

const (
	defaultFrameRate = 60
	maxFrameRate     = 60
)

// Settings mirror what the engine is told when a session is opened.
type Settings struct {
	Title     string
	FrameRate int
	// PopupEvery emits a popup paint every n view paints, 0 disables it.
	PopupEvery int
	WebGL      bool
	Encoding   string
}

func (s Settings) frameRate() int {
	if s.FrameRate <= 0 {
		return defaultFrameRate
	}
	if s.FrameRate > maxFrameRate {
		return maxFrameRate
	}
	return s.FrameRate
}

// Connection is a live engine instance painting into whichever render
// handler is currently attached.
type Connection interface {
	UUID() string
	// SetRenderHandler attaches a handler, nil detaches. Once it returns
	// the previous handler receives no further calls.
	SetRenderHandler(engine.RenderHandler)
	IsOpen() bool
	Close() error
}

type Backend interface {
	Connect(context.Context, string, Settings) (Connection, error)
}

func Default() Backend {
	return Mock()
}

// Mock paints a test card with the session title and a running clock.
func Mock() Backend {
	return &paintBackend{newPainter: newTestCardPainter}
}

// Pattern paints a moving gradient, cheap enough for high frame rates.
func Pattern() Backend {
	return &paintBackend{newPainter: newGradientPainter}
}

func Resolve(t string) Backend {
	switch t {
	case "pattern":
		return Pattern()
	case "mock":
		return Mock()
	default:
		return Default()
	}
}
