// Package testutil provides the shared harness for tests that load real
// programs from HCL source.
package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/cyclesim/internal/ctxlog"
	"github.com/specialistvlad/cyclesim/internal/hcl_adapter"
	"github.com/specialistvlad/cyclesim/internal/program"
	"github.com/specialistvlad/cyclesim/internal/registry"
	"github.com/specialistvlad/cyclesim/modules/core"
	"github.com/specialistvlad/cyclesim/modules/memories"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Context returns a context carrying a debug logger that writes into the
// returned buffer. Set CYCLESIM_TEST_LOGS=true to print the logs of every
// test.
func Context(t *testing.T) (context.Context, *SafeBuffer) {
	t.Helper()
	buf := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() {
		if os.Getenv("CYCLESIM_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), buf.String())
		}
	})
	return ctxlog.WithLogger(context.Background(), logger), buf
}

// Registry returns a registry holding the standard primitive library.
func Registry() *registry.Registry {
	return registry.New(&core.Module{}, &memories.Module{})
}

// WriteFiles writes files, keyed by relative path, into a fresh temporary
// directory and returns it.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(Unindent(content)), 0644))
	}
	return dir
}

// LoadProgram writes src as main.hcl, then parses and loads it with the
// standard library and the default entry.
func LoadProgram(t *testing.T, src string) (*program.Program, error) {
	t.Helper()
	ctx, _ := Context(t)
	dir := WriteFiles(t, map[string]string{"main.hcl": src})
	defs, err := hcl_adapter.NewLoader().Load(ctx, dir)
	if err != nil {
		return nil, err
	}
	return program.Load(ctx, defs, Registry(), program.DefaultEntry)
}

// MustLoad is LoadProgram for sources that are expected to be valid.
func MustLoad(t *testing.T, src string) *program.Program {
	t.Helper()
	prog, err := LoadProgram(t, src)
	require.NoError(t, err)
	return prog
}
