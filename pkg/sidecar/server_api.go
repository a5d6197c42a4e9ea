package sidecar

import (
	"errors"
	"fmt"
	"image"

	"github.com/tauraamui/offscreend/pkg/texture"
	"github.com/tauraamui/xerror"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNoFrame         = errors.New("session has not painted a frame yet")
)

type SessionData struct {
	UUID,
	Title,
	Address,
	Size string
	LastPaint int64
}

func (s *Server) activeSessions() []activeSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]activeSession{}, s.sessions...)
}

func (s *Server) APIFetchActiveSessions() []SessionData {
	sessions := []SessionData{}
	for _, sess := range s.activeSessions() {
		if !sess.IsOpen() {
			continue
		}
		w, h := sess.Size()
		sessions = append(sessions, SessionData{
			UUID:      sess.UUID(),
			Title:     sess.Title(),
			Address:   sess.Address(),
			Size:      fmt.Sprintf("%dx%d", w, h),
			LastPaint: sess.LastPaint(),
		})
	}
	return sessions
}

// APISnapshot uploads the latest frame of the session into a fresh host
// texture and reads it back as an image.
func (s *Server) APISnapshot(sessionUUID string) (image.Image, error) {
	for _, sess := range s.activeSessions() {
		if sess.UUID() != sessionUUID {
			continue
		}

		w, h := sess.FrameSize()
		if w == 0 || h == 0 {
			return nil, ErrNoFrame
		}

		tex, err := texture.NewHostTexture(texture.NewDescriptor(sess.Title(), w, h, sess.settings.RowAlignment))
		if err != nil {
			return nil, xerror.Errorf("unable to create snapshot texture: %w", err)
		}

		if err := sess.RenderToTexture(tex); err != nil {
			return nil, xerror.Errorf("unable to render snapshot of session [%s]: %w", sess.Title(), err)
		}
		return tex.ToImage()
	}

	return nil, ErrSessionNotFound
}
