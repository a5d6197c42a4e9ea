package frame

import (
	"sync"

	"github.com/tauraamui/offscreend/pkg/engine"
)

// Geometry answers the engine's questions about where and how large to
// render. It only knows the configured view size.
type Geometry struct {
	mu            sync.RWMutex
	width, height int
}

func NewGeometry(width, height int) *Geometry {
	g := &Geometry{}
	g.SetSize(width, height)
	return g
}

func (g *Geometry) GetViewRect() engine.Rect {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return engine.Rect{X: 0, Y: 0, Width: g.width, Height: g.height}
}

// GetScreenPoint never translates, the view has no screen position.
func (g *Geometry) GetScreenPoint(viewX, viewY int) (int, int, bool) {
	return viewX, viewY, false
}

func (g *Geometry) SetSize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.width, g.height = width, height
}

func (g *Geometry) Size() (int, int) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.width, g.height
}
