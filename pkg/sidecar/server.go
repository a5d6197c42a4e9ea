// Package sidecar hosts the configured offscreen sessions: it connects
// them to the engine backend, runs their render and monitor processes and
// disposes them on shutdown.
package sidecar

import (
	"context"
	"sync"
	"time"

	"github.com/tauraamui/offscreend/pkg/configdef"
	"github.com/tauraamui/offscreend/pkg/engine/enginebackend"
	"github.com/tauraamui/offscreend/pkg/log"
	"github.com/tauraamui/offscreend/pkg/offscreen"
	"github.com/tauraamui/offscreend/pkg/sidecar/process"
	"github.com/tauraamui/xerror"
)

type Server struct {
	backend       enginebackend.Backend
	config        configdef.Values
	mu            sync.Mutex
	shutdownOnce  sync.Once
	shutdownDone  chan interface{}
	sessions      []activeSession
	coreProcesses []process.Process
}

type activeSession struct {
	*offscreen.Session
	settings configdef.Session
}

func NewServer(cr configdef.Resolver, backend enginebackend.Backend) (*Server, error) {
	config, err := cr.Resolve()
	if err != nil {
		return nil, xerror.Errorf("unable to load configuration: %w", err)
	}

	return &Server{
		backend:      backend,
		config:       config,
		shutdownDone: make(chan interface{}),
	}, nil
}

func (s *Server) Connect() []error {
	return s.connect(context.Background())
}

func (s *Server) ConnectWithCancel(cancel context.Context) []error {
	return s.connect(cancel)
}

func (s *Server) connect(cancel context.Context) []error {
	var errs []error

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sessConfig := range s.config.Sessions {
		select {
		case <-cancel.Done():
			return errs
		default:
			if sessConfig.Disabled {
				log.Warn("Session [%s] is disabled... skipping...", sessConfig.Title)
				continue
			}

			sess, err := openSession(cancel, s.backend, sessConfig)
			if err != nil {
				errs = append(errs, err)
				continue
			}

			log.Info("Connected successfully to session: [%s]", sessConfig.Title)
			s.sessions = append(s.sessions, activeSession{Session: sess, settings: sessConfig})
		}
	}
	return errs
}

func openSession(ctx context.Context, backend enginebackend.Backend, conf configdef.Session) (*offscreen.Session, error) {
	log.Info("Connecting to session: [%s@%s]...", conf.Title, conf.Address)
	return offscreen.Open(ctx, backend, conf.Title, conf.Address, offscreen.Settings{
		Width:  conf.Width,
		Height: conf.Height,
		Engine: enginebackend.Settings{
			Title:     conf.Title,
			FrameRate: conf.FrameRate,
			WebGL:     conf.WebGL,
			Encoding:  conf.Encoding,
		},
	})
}

func (s *Server) SetupProcesses() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		proc := process.NewCoreProcess(sess.Session, process.CoreSettings{
			RenderRate:   sess.settings.RenderRate,
			RowAlignment: sess.settings.RowAlignment,
			StaleAfter:   time.Duration(sess.settings.StaleAfterMS) * time.Millisecond,
		})
		s.coreProcesses = append(s.coreProcesses, proc.Setup())
	}
}

func (s *Server) RunProcesses() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, proc := range s.coreProcesses {
		proc.Start()
	}
}

func (s *Server) shutdownProcesses() {
	wg := sync.WaitGroup{}
	wg.Add(len(s.coreProcesses))
	for _, proc := range s.coreProcesses {
		go func(wg *sync.WaitGroup, proc process.Process) {
			proc.Stop()
			proc.Wait()
			wg.Done()
		}(&wg, proc)
	}
	wg.Wait()
	s.coreProcesses = nil
}

func (s *Server) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdownProcesses()
	for _, sess := range s.sessions {
		log.Warn("Closing session: [%s]...", sess.Title())
		if err := sess.Dispose(); err != nil {
			log.Error(err.Error())
		}
	}
	s.sessions = nil
	close(s.shutdownDone)
}

// Shutdown stops every process and disposes every session. The returned
// channel is closed once that is done, calling it again is safe.
func (s *Server) Shutdown() chan interface{} {
	s.shutdownOnce.Do(s.shutdown)
	return s.shutdownDone
}
