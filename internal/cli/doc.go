// Package cli turns command-line arguments into an app.Config and maps
// run failures to process exit codes through ExitError.
package cli
