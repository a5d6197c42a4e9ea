// Package api exposes the sidecar over net/rpc on HTTP. Callers swap a
// configured api key for a short lived token and pass it with every call.
package api

import (
	"bytes"
	"crypto/subtle"
	"errors"
	"image"
	"image/png"
	"net"
	"net/http"
	"net/rpc"
	"os"
	"sync"
	"time"

	"github.com/tauraamui/offscreend/pkg/api/auth"
	"github.com/tauraamui/offscreend/pkg/log"
	"github.com/tauraamui/offscreend/pkg/sidecar"
	"github.com/tauraamui/xerror"
	xdraw "golang.org/x/image/draw"
)

const (
	SIGREMOTE = Signal(0x1)

	ServiceName      = "Sidecar"
	snapshotMaxWidth = 320
	tokenSubject     = "api"
)

var shutdownDelay = time.Second

var (
	ErrUnauthenticated = errors.New("user must be authenticated")
	ErrInvalidAPIKey   = errors.New("invalid api key")
	ErrNotRunning      = errors.New("API server not running")
)

type Signal int

func (s Signal) Signal() {}

func (s Signal) String() string {
	return "remote-shutdown"
}

type Options struct {
	ListenAddress string
	SigningSecret string
	APIKey        string
}

type Session struct {
	Token       string
	SessionUUID string
}

// Sessions is what the API reads from, implemented by *sidecar.Server.
type Sessions interface {
	APIFetchActiveSessions() []sidecar.SessionData
	APISnapshot(string) (image.Image, error)
}

type Sidecar struct {
	interrupt     chan os.Signal
	s             Sessions
	mu            sync.Mutex
	httpServer    *http.Server
	listener      net.Listener
	listenAddress string
	signingSecret string
	apiKey        string
}

func New(interrupt chan os.Signal, server Sessions, opts Options) (*Sidecar, error) {
	if len(opts.SigningSecret) == 0 || len(opts.APIKey) == 0 {
		return nil, xerror.New("signing secret and api key are required to run the API")
	}
	return &Sidecar{
		interrupt:     interrupt,
		s:             server,
		httpServer:    &http.Server{},
		listenAddress: opts.ListenAddress,
		signingSecret: opts.SigningSecret,
		apiKey:        opts.APIKey,
	}, nil
}

func StartRPC(m *Sidecar) error {
	rpcServer := rpc.NewServer()
	if err := rpcServer.RegisterName(ServiceName, m); err != nil {
		return xerror.Errorf("unable to register API: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle(rpc.DefaultRPCPath, rpcServer)

	l, err := net.Listen("tcp", m.listenAddress)
	if err != nil {
		return xerror.Errorf("unable to listen on %s: %w", m.listenAddress, err)
	}

	m.mu.Lock()
	m.httpServer.Handler = mux
	m.listener = l
	m.mu.Unlock()

	go func() {
		if err := m.httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("API server stopped: %v", err)
		}
	}()

	log.Info("API listening on %s", l.Addr().String())
	return nil
}

// ListenAddr is the address the API is bound to, empty until started.
func ListenAddr(m *Sidecar) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listener == nil {
		return ""
	}
	return m.listener.Addr().String()
}

func ShutdownRPC(m *Sidecar) error {
	if m == nil || m.httpServer == nil {
		return ErrNotRunning
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listener == nil {
		return ErrNotRunning
	}
	m.listener = nil
	return m.httpServer.Close()
}

func (m *Sidecar) Authenticate(apiKey string, resp *string) error {
	if subtle.ConstantTimeCompare([]byte(apiKey), []byte(m.apiKey)) != 1 {
		log.Warn("Rejected API authentication attempt")
		return ErrInvalidAPIKey
	}

	token, err := auth.GenToken(m.signingSecret, tokenSubject)
	if err != nil {
		return err
	}

	*resp = token
	return nil
}

// Exposed API
func (m *Sidecar) ActiveSessions(sess *Session, resp *[]sidecar.SessionData) error {
	if err := m.validateSession(*sess); err != nil {
		return err
	}
	*resp = m.s.APIFetchActiveSessions()
	return nil
}

func (m *Sidecar) Snapshot(sess *Session, resp *[]byte) error {
	if err := m.validateSession(*sess); err != nil {
		return err
	}

	img, err := m.s.APISnapshot(sess.SessionUUID)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaleToWidth(img, snapshotMaxWidth)); err != nil {
		return xerror.Errorf("unable to encode snapshot: %w", err)
	}

	*resp = buf.Bytes()
	return nil
}

func (m *Sidecar) Shutdown(sess *Session, resp *bool) error {
	if err := m.validateSession(*sess); err != nil {
		return err
	}

	*resp = true
	log.Warn("Received remote shutdown request...")
	go func() {
		time.Sleep(shutdownDelay)
		m.interrupt <- SIGREMOTE
	}()
	return nil
}

func (m *Sidecar) validateSession(sess Session) error {
	if _, err := auth.ValidateToken(m.signingSecret, sess.Token); err != nil {
		log.Debug("Rejected API session: %v", err)
		return ErrUnauthenticated
	}
	return nil
}

func scaleToWidth(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxWidth {
		return img
	}

	height := b.Dy() * maxWidth / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}
