//go:build !dev

// Package trace wraps runtime/trace for dev builds. Release builds get
// these no-ops.
package trace

import "context"

// EnvVar names the file the trace is written to.
const EnvVar = "BFT_TRACE"

// Init is a no-op.
func Init() func() {
	return func() {}
}

// Task returns ctx unchanged.
func Task(ctx context.Context, _ string) (context.Context, func()) {
	return ctx, func() {}
}

// Region is a no-op.
func Region(_ context.Context, _ string) func() {
	return func() {}
}

// Log is a no-op.
func Log(_ context.Context, _, _ string) {}

// IsEnabled always returns false.
func IsEnabled() bool {
	return false
}
