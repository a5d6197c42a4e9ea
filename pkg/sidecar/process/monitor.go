package process

import (
	"context"
	"time"

	"github.com/tauraamui/offscreend/pkg/log"
)

var timeNow = func() time.Time {
	return time.Now()
}

const minCheckInterval = 10 * time.Millisecond

// StaleMonitorProcess warns once when the session has not painted for
// longer than staleAfter and logs again when paints resume.
func StaleMonitorProcess(sess Session, staleAfter time.Duration) func(context.Context) []chan interface{} {
	return func(ctx context.Context) []chan interface{} {
		stopping := make(chan interface{})
		go func(ctx context.Context, stopping chan interface{}) {
			defer close(stopping)
			m := monitor{sess: sess, staleAfter: staleAfter, started: timeNow()}
			checkEvery := staleAfter / 2
			if checkEvery < minCheckInterval {
				checkEvery = minCheckInterval
			}
			ticker := time.NewTicker(checkEvery)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					m.check(timeNow())
				}
			}
		}(ctx, stopping)
		return []chan interface{}{stopping}
	}
}

type monitor struct {
	sess       Session
	staleAfter time.Duration
	started    time.Time
	stale      bool
}

func (m *monitor) check(now time.Time) {
	last := m.started
	if lp := m.sess.LastPaint(); lp > 0 {
		last = time.Unix(0, lp*int64(time.Millisecond))
	}

	idle := now.Sub(last)
	if idle > m.staleAfter {
		if !m.stale {
			m.stale = true
			log.Warn("Session [%s] has not painted for %s", m.sess.Title(), idle.Round(time.Millisecond))
		}
		return
	}

	if m.stale {
		m.stale = false
		log.Info("Session [%s] is painting again", m.sess.Title())
	}
}
