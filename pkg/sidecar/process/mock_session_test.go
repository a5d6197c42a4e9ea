package process_test

import (
	"sync"

	"github.com/tauraamui/offscreend/pkg/frame"
	"github.com/tauraamui/offscreend/pkg/texture"
)

type mockSession struct {
	mu        sync.Mutex
	title     string
	w, h      int
	lastPaint int64
	tooSmall  bool
	renders   []*texture.HostTexture
}

func (m *mockSession) Title() string { return m.title }

func (m *mockSession) FrameSize() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.w, m.h
}

func (m *mockSession) setFrameSize(w, h int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.w, m.h = w, h
}

func (m *mockSession) LastPaint() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPaint
}

func (m *mockSession) setLastPaint(ms int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastPaint = ms
}

func (m *mockSession) RenderToTexture(tex texture.Texture) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.renders = append(m.renders, tex.(*texture.HostTexture))
	if m.tooSmall {
		m.tooSmall = false
		return frame.ErrTextureTooSmall
	}
	return nil
}

func (m *mockSession) rendered() []*texture.HostTexture {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*texture.HostTexture{}, m.renders...)
}
