package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/cyclesim/internal/app"
	"github.com/specialistvlad/cyclesim/internal/program"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Exit wraps err with the exit code of its class. It returns nil for nil.
func Exit(err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: app.ExitCode(err), Message: err.Error()}
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("cyclesim", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
cyclesim - A cycle-accurate interpreter for structured hardware programs.

Usage:
  cyclesim [options] PROGRAM_PATH

Arguments:
  PROGRAM_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	entryFlag := flagSet.String("entry", program.DefaultEntry, "Name of the entry component.")
	dataFlag := flagSet.String("data", "", "JSON file seeding the external cells.")
	outFlag := flagSet.String("out", "", "File receiving the final state of the external cells. Defaults to stdout.")
	maxCyclesFlag := flagSet.Int("max-cycles", 0, "Stop with an error after this many cycles. 0 is unbounded.")
	breakFlag := flagSet.String("break", "", "Rego policy stopping the run when its query holds.")
	breakQueryFlag := flagSet.String("break-query", "", "Query evaluated against the break policy. Defaults to data.cyclesim.watch.stop.")
	workersFlag := flagSet.Int("workers", 1, "Number of workers updating stateful cells at each clock edge.")
	traceFlag := flagSet.String("trace-url", "", "socket.io server receiving one event per cycle.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: app.ExitUsage, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No program path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: app.ExitUsage, Message: fmt.Sprintf("expected one program path, got %d", flagSet.NArg())}
	}
	path := flagSet.Arg(0)
	slog.Debug("Program path determined.", "path", path)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: app.ExitUsage, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	if !app.ValidLogLevel(logLevel) {
		return nil, false, &ExitError{Code: app.ExitUsage, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	if *workersFlag < 1 {
		return nil, false, &ExitError{Code: app.ExitUsage, Message: "invalid workers: must be at least 1"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ProgramPath: path,
		Entry:       *entryFlag,
		DataPath:    *dataFlag,
		OutPath:     *outFlag,
		MaxCycles:   *maxCyclesFlag,
		BreakPath:   *breakFlag,
		BreakQuery:  *breakQueryFlag,
		Workers:     *workersFlag,
		TraceURL:    *traceFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: app.ExitUsage, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
