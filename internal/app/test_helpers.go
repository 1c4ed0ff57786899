package app

import (
	"bytes"
	"os"
	"testing"

	"github.com/specialistvlad/cyclesim/internal/hcl_adapter"
	"github.com/specialistvlad/cyclesim/internal/registry"
	"github.com/specialistvlad/cyclesim/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing. It returns the
// app, its state output and its debug log.
func SetupAppTest(t *testing.T, cfg *Config, modules ...registry.Module) (*App, *bytes.Buffer, *testutil.SafeBuffer) {
	t.Helper()

	out := &bytes.Buffer{}
	logBuffer := &testutil.SafeBuffer{}
	cfg.LogLevel = "debug"
	testApp := NewApp(out, logBuffer, cfg, hcl_adapter.NewLoader(), modules...)

	t.Cleanup(func() {
		if os.Getenv("CYCLESIM_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, out, logBuffer
}
