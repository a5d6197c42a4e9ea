package sidecar_test

import (
	"fmt"
	"sync"

	"github.com/tauraamui/offscreend/pkg/log"
)

type logRecorder struct {
	mu   sync.Mutex
	logs []string
}

func (r *logRecorder) record(format string, a ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, fmt.Sprintf(format, a...))
}

func (r *logRecorder) entries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.logs...)
}

func overloadWarnLog(overload func(string, ...interface{})) func() {
	logWarnRef := log.Warn
	log.Warn = overload
	return func() { log.Warn = logWarnRef }
}

func overloadInfoLog(overload func(string, ...interface{})) func() {
	logInfoRef := log.Info
	log.Info = overload
	return func() { log.Info = logInfoRef }
}
