package testlog

import (
	"testing"

	"github.com/chapmanb/bcbio.run/internal/logging"
)

// Start applies the test logging profile and tags output with the test
// name.
func Start(t *testing.T) {
	t.Helper()
	logging.ConfigureTests()
	log := logging.New("test")
	log.Debug().Str("test", t.Name()).Msg("start")
}
