// Package process runs the long lived per session loops of the sidecar.
// Every process is started once, stopped by cancelling its context and
// joined through the channels its body hands back.
package process

import (
	"context"
	"sync"

	"github.com/tauraamui/offscreend/pkg/log"
)

type Process interface {
	Setup() Process
	Start()
	Stop()
	Wait()
}

type Settings struct {
	WaitForShutdownMsg string
	Process            func(context.Context) []chan interface{}
}

func New(settings Settings) Process {
	return &process{
		waitForShutdownMsg: settings.WaitForShutdownMsg,
		body:               settings.Process,
	}
}

type process struct {
	mu                 sync.Mutex
	body               func(context.Context) []chan interface{}
	waitForShutdownMsg string
	canceller          context.CancelFunc
	signals            []chan interface{}
}

func (p *process) Setup() Process { return p }

func (p *process) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.canceller != nil {
		return
	}
	ctx, canceller := context.WithCancel(context.Background())
	p.canceller = canceller
	p.signals = append(p.signals, p.body(ctx)...)
}

func (p *process) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.waitForShutdownMsg) > 0 {
		log.Info(p.waitForShutdownMsg)
	}
	if p.canceller != nil {
		p.canceller()
	}
}

// Wait blocks until every goroutine the body started has returned. It
// returns immediately for a process that was never started.
func (p *process) Wait() {
	p.mu.Lock()
	signals := p.signals
	p.mu.Unlock()
	for _, sig := range signals {
		<-sig
	}
}
