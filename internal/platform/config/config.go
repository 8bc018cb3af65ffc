// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v11"
)

// Prefix namespaces every environment variable read by notebook commands.
const Prefix = "NOTEBOOK_"

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseEnvWithPrefix loads configuration from Prefix-namespaced variables.
// When environ is nil the process environment is used.
func ParseEnvWithPrefix(target any, environ map[string]string) error {
	opts := env.Options{Prefix: Prefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(target, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	exitf(os.Stderr, os.Exit, format, args...)
}

func exitf(w io.Writer, exit func(int), format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
	exit(1)
}
