package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/specialistvlad/cyclesim/internal/app"
	"github.com/specialistvlad/cyclesim/internal/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, exit, err := Parse([]string{
		"--entry", "top",
		"--data", "seed.json",
		"--out", "final.json",
		"--max-cycles", "100",
		"--break", "stop.rego",
		"--break-query", "data.x.stop",
		"--workers", "4",
		"--trace-url", "http://localhost:3000/socket.io/",
		"--log-level", "DEBUG",
		"--log-format", "json",
		"prog",
	}, out)
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Equal(t, &app.Config{
		ProgramPath: "prog",
		Entry:       "top",
		DataPath:    "seed.json",
		OutPath:     "final.json",
		MaxCycles:   100,
		BreakPath:   "stop.rego",
		BreakQuery:  "data.x.stop",
		Workers:     4,
		TraceURL:    "http://localhost:3000/socket.io/",
		LogFormat:   "json",
		LogLevel:    "debug",
	}, cfg)
}

func TestParse_Defaults(t *testing.T) {
	cfg, exit, err := Parse([]string{"prog"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Equal(t, "main", cfg.Entry)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 0, cfg.MaxCycles)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParse_UsageExits(t *testing.T) {
	for _, args := range [][]string{{}, {"-h"}} {
		out := &bytes.Buffer{}
		cfg, exit, err := Parse(args, out)
		require.NoError(t, err)
		assert.True(t, exit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
	}
}

func TestParse_Rejects(t *testing.T) {
	testCases := []struct {
		name        string
		args        []string
		errContains string
	}{
		{name: "unknown flag", args: []string{"--bogus", "prog"}, errContains: "flag provided but not defined"},
		{name: "two paths", args: []string{"a", "b"}, errContains: "expected one program path, got 2"},
		{name: "log format", args: []string{"--log-format", "xml", "prog"}, errContains: "invalid log-format"},
		{name: "log level", args: []string{"--log-level", "loud", "prog"}, errContains: "invalid log-level"},
		{name: "workers", args: []string{"--workers", "0", "prog"}, errContains: "invalid workers"},
		{name: "negative cycles", args: []string{"--max-cycles", "-3", "prog"}, errContains: "max-cycles must not be negative"},
		{name: "query without policy", args: []string{"--break-query", "data.x", "prog"}, errContains: "break-query needs a break policy file"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse(tc.args, &bytes.Buffer{})
			require.Error(t, err)
			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr))
			assert.Equal(t, app.ExitUsage, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.errContains)
		})
	}
}

func TestExit(t *testing.T) {
	assert.NoError(t, Exit(nil))

	err := Exit(fmt.Errorf("simulation failed: %w", driver.ErrCycleLimit))
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, app.ExitCycleLimit, exitErr.Code)
	assert.Equal(t, "simulation failed: cycle limit reached", exitErr.Message)
}
