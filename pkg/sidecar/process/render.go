package process

import (
	"context"
	"errors"
	"time"

	"github.com/tauraamui/offscreend/pkg/frame"
	"github.com/tauraamui/offscreend/pkg/log"
	"github.com/tauraamui/offscreend/pkg/texture"
)

// Session is the part of an offscreen session the processes drive.
type Session interface {
	Title() string
	FrameSize() (int, int)
	LastPaint() int64
	RenderToTexture(texture.Texture) error
}

func interval(rate int) time.Duration {
	if rate <= 0 {
		rate = 1
	}
	return time.Second / time.Duration(rate)
}

// RenderProcess uploads the session's latest frame into a host texture at
// the given rate. The texture follows the frame size, being rebuilt
// whenever the frame dimensions change.
func RenderProcess(sess Session, rate, rowAlignment int) func(context.Context) []chan interface{} {
	return func(ctx context.Context) []chan interface{} {
		log.Info("Rendering frames from session [%s]", sess.Title())
		stopping := make(chan interface{})
		go func(ctx context.Context, stopping chan interface{}) {
			defer close(stopping)
			r := renderer{sess: sess, rowAlignment: rowAlignment}
			ticker := time.NewTicker(interval(rate))
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					r.render()
				}
			}
		}(ctx, stopping)
		return []chan interface{}{stopping}
	}
}

type renderer struct {
	sess         Session
	rowAlignment int
	tex          *texture.HostTexture
}

func (r *renderer) render() {
	w, h := r.sess.FrameSize()
	if w == 0 || h == 0 {
		return
	}

	if r.tex == nil || r.tex.Width() != w || r.tex.Height() != h {
		tex, err := texture.NewHostTexture(texture.NewDescriptor(r.sess.Title(), w, h, r.rowAlignment))
		if err != nil {
			log.Error("Unable to create texture for session [%s]: %v", r.sess.Title(), err)
			return
		}
		log.Debug("Created %dx%d texture for session [%s]", w, h, r.sess.Title())
		r.tex = tex
	}

	if err := r.sess.RenderToTexture(r.tex); err != nil {
		if errors.Is(err, frame.ErrTextureTooSmall) {
			// frame resized between the size check and the upload
			log.Debug("Frame from session [%s] outgrew its texture, recreating...", r.sess.Title())
			r.tex = nil
			return
		}
		log.Error("Unable to render frame from session [%s]: %v", r.sess.Title(), err)
	}
}
