package process

import (
	"fmt"
	"sync"
	"time"
)

type CoreSettings struct {
	RenderRate   int
	RowAlignment int
	StaleAfter   time.Duration
}

func NewCoreProcess(sess Session, settings CoreSettings) Process {
	return &sessionCore{sess: sess, settings: settings}
}

// sessionCore runs the render loop and the staleness monitor of one session.
type sessionCore struct {
	sess     Session
	settings CoreSettings
	render   Process
	monitor  Process
}

func (proc *sessionCore) Setup() Process {
	proc.render = New(Settings{
		WaitForShutdownMsg: fmt.Sprintf("Stopping rendering frames from session [%s]...", proc.sess.Title()),
		Process:            RenderProcess(proc.sess, proc.settings.RenderRate, proc.settings.RowAlignment),
	})

	proc.monitor = New(Settings{
		WaitForShutdownMsg: fmt.Sprintf("Stopping monitoring session [%s]...", proc.sess.Title()),
		Process:            StaleMonitorProcess(proc.sess, proc.settings.StaleAfter),
	})
	return proc
}

func (proc *sessionCore) Start() {
	proc.monitor.Start()
	proc.render.Start()
}

func (proc *sessionCore) Stop() {
	proc.render.Stop()
	proc.monitor.Stop()
}

func (proc *sessionCore) Wait() {
	wg := sync.WaitGroup{}
	wg.Add(2)
	go func(wg *sync.WaitGroup) {
		proc.render.Wait()
		wg.Done()
	}(&wg)
	go func(wg *sync.WaitGroup) {
		proc.monitor.Wait()
		wg.Done()
	}(&wg)
	wg.Wait()
}
