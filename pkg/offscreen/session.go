// Package offscreen ties an engine connection to the frame synchronization
// core. A Session receives paints on the engine's goroutine and serves the
// latest frame to any number of texture uploads.
package offscreen

import (
	"context"
	"sync/atomic"

	"github.com/tauraamui/offscreend/pkg/engine/enginebackend"
	"github.com/tauraamui/offscreend/pkg/frame"
	"github.com/tauraamui/offscreend/pkg/log"
	"github.com/tauraamui/offscreend/pkg/texture"
	"github.com/tauraamui/xerror"
)

type Settings struct {
	Width, Height int
	Engine        enginebackend.Settings
}

type Session struct {
	title    string
	address  string
	conn     enginebackend.Connection
	buffer   *frame.Buffer
	geometry *frame.Geometry
	producer *frame.Producer
	uploader *frame.Uploader
	disposed int32
}

// Open connects to the engine and attaches a fresh producer to it. The
// engine starts painting at the configured size straight away.
func Open(ctx context.Context, backend enginebackend.Backend, title, address string, settings Settings) (*Session, error) {
	if settings.Engine.Title == "" {
		settings.Engine.Title = title
	}

	conn, err := backend.Connect(ctx, address, settings.Engine)
	if err != nil {
		return nil, xerror.Errorf("unable to open session [%s]: %w", title, err)
	}

	buffer := frame.NewBuffer()
	geometry := frame.NewGeometry(settings.Width, settings.Height)
	s := &Session{
		title:    title,
		address:  address,
		conn:     conn,
		buffer:   buffer,
		geometry: geometry,
		producer: frame.NewProducer(buffer, geometry),
		uploader: frame.NewUploader(buffer),
	}
	conn.SetRenderHandler(s.producer)
	return s, nil
}

func (s *Session) UUID() string    { return s.conn.UUID() }
func (s *Session) Title() string   { return s.title }
func (s *Session) Address() string { return s.address }

func (s *Session) IsOpen() bool {
	return !s.isDisposed() && s.conn.IsOpen()
}

// Size is the configured view size the engine renders at.
func (s *Session) Size() (int, int) {
	return s.geometry.Size()
}

// SetSize changes the view size, the engine picks it up on its next paint.
func (s *Session) SetSize(width, height int) {
	s.geometry.SetSize(width, height)
}

// FrameSize is the size of the latest painted frame.
func (s *Session) FrameSize() (int, int) {
	s.buffer.BeginRead()
	defer s.buffer.EndRead()
	return s.buffer.Width(), s.buffer.Height()
}

// LastPaint is the time in milliseconds since the epoch of the latest
// completed paint, zero until the first one.
func (s *Session) LastPaint() int64 {
	return s.buffer.LastUpdate()
}

// RenderToTexture uploads the latest frame into tex. It does nothing once
// the session is disposed.
func (s *Session) RenderToTexture(tex texture.Texture) error {
	if s.isDisposed() {
		return nil
	}
	return s.uploader.RenderToTexture(tex)
}

func (s *Session) isDisposed() bool {
	return atomic.LoadInt32(&s.disposed) == 1
}

// Dispose detaches the producer from the engine before anything else so no
// new paint can start, closes the engine connection and then releases the
// frame, waiting for any upload still reading it. Calling it again is a
// no-op.
func (s *Session) Dispose() error {
	if !atomic.CompareAndSwapInt32(&s.disposed, 0, 1) {
		return nil
	}

	log.Info("Disposing session [%s]...", s.title)
	s.conn.SetRenderHandler(nil)
	s.producer.Detach()

	err := s.conn.Close()
	if err != nil {
		err = xerror.Errorf("unable to close engine connection for session [%s]: %w", s.title, err)
	}

	s.buffer.Release()
	return err
}
