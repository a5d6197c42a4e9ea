package log_test

import (
	"testing"

	"github.com/matryer/is"
	"github.com/tacusci/logging/v2"
	"github.com/tauraamui/offscreend/pkg/log"
)

func TestSetLevelFromName(t *testing.T) {
	is := is.New(t)
	existing := logging.CurrentLoggingLevel
	defer func() { logging.CurrentLoggingLevel = existing }()

	log.SetLevel("debug")
	is.Equal(logging.CurrentLoggingLevel, logging.DebugLevel)
	is.True(logging.CallbackLabel)

	log.SetLevel("INFO")
	is.Equal(logging.CurrentLoggingLevel, logging.InfoLevel)
	is.True(!logging.CallbackLabel)

	log.SetLevel("silent")
	is.Equal(logging.CurrentLoggingLevel, logging.SilentLevel)

	log.SetLevel("nonsense")
	is.Equal(logging.CurrentLoggingLevel, logging.WarnLevel)
}

func TestLogFuncsCanBeOverloaded(t *testing.T) {
	is := is.New(t)
	ref := log.Warn
	defer func() { log.Warn = ref }()

	var got []string
	log.Warn = func(format string, a ...interface{}) {
		got = append(got, format)
	}
	log.Warn("session [%s] is stale", "a")
	is.Equal(got, []string{"session [%s] is stale"})
}
