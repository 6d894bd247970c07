package jtlog

import "github.com/opencoff/go-jtlog/internal/diag"

// BuildMode selects how jtlog reacts to its own faults (spec.md §7/§9):
// ModeDebug panics on both a precondition violation and a failed
// dump/rotate write; ModeRelease (the default) and ModeDist stay silent
// on a precondition violation and print one line to stderr on a failed
// write.
type BuildMode = diag.Mode

const (
	ModeRelease = diag.ModeRelease
	ModeDebug   = diag.ModeDebug
	ModeDist    = diag.ModeDist
)
