// Package diag holds jtlog's internal self-diagnostic reporting.
//
// A logging library must not depend on itself (or any styled logging
// framework) to report its own faults; this keeps the teacher's
// hand-built "one line to stderr" idiom from opencoff-go-logger's
// rotateLog()/errf() instead of routing through jtlog itself.
package diag

import (
	"fmt"
	"os"
	"sync/atomic"
)

// Mode controls whether a precondition violation aborts, logs one line
// to stderr, or is silent. This is the runtime toggle called for in
// spec.md's Design Notes ("single runtime toggle... not part of the
// data model").
type Mode int32

const (
	ModeRelease Mode = iota // default: behavior depends on the error class, see Assert/ReportIOFailure
	ModeDebug               // panic (Go's nearest analog to assert/abort)
	ModeDist                // release build stripped of developer diagnostics
)

var mode atomic.Int32

// SetMode installs the process-wide build mode.
func SetMode(m Mode) { mode.Store(int32(m)) }

// GetMode returns the current build mode.
func GetMode() Mode { return Mode(mode.Load()) }

// Assert enforces the §7 contract for a precondition violation (a
// public operation invoked in a state that should never be reached
// from a would-accept level, e.g. logging while uninitialized). In
// ModeDebug it panics; spec.md requires this error class to stay
// silent in both ModeRelease and ModeDist, since it reflects caller
// misuse rather than an environmental failure.
func Assert(file, fn string, line int) {
	if GetMode() == ModeDebug {
		panic(fmt.Sprintf("Assertion at [%s:%s:%d] failed", file, fn, line))
	}
}

// ReportIOFailure enforces the §7 contract for an I/O failure (a
// dump/rotate write that returned an error). In ModeDebug it panics;
// spec.md requires this error class to print exactly one line to
// stderr, in the form "Assertion at [<file>:<func>:<line>] failed\n",
// in both ModeRelease and ModeDist, since it reflects an environmental
// failure the operator needs visibility into even in a dist build.
func ReportIOFailure(file, fn string, line int) {
	if GetMode() == ModeDebug {
		panic(fmt.Sprintf("Assertion at [%s:%s:%d] failed", file, fn, line))
	}
	fmt.Fprintf(os.Stderr, "Assertion at [%s:%s:%d] failed\n", file, fn, line)
}
