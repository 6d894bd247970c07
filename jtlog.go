// Package jtlog is a thread-safe, in-process structured logger that
// accumulates log records in a hierarchical tree keyed by
// caller-supplied path components and periodically serializes the
// tree to disk as a single JSON document.
//
// Log records are not appended line-by-line; they live in memory as a
// mutable tree whose leaves are arrays of log entries, and the entire
// tree is re-emitted atomically (§4.4) on demand (Dump) or on rotation
// (Rotate). See SPEC_FULL.md for the full design.
package jtlog

import (
	"path/filepath"
	"runtime"
	"sync"

	"github.com/opencoff/go-jtlog/internal/diag"
)

// lifecycle is the process-wide logger's state machine (spec.md §3):
// Uninitialized -> Active -> Destroyed, with re-initialization from
// Destroyed permitted back to Active.
type lifecycle int32

const (
	lifecycleUninitialized lifecycle = iota
	lifecycleActive
	lifecycleDestroyed
)

// loggerState is the single process-wide logger instance. Exactly one
// exists per process (spec.md §9): callers never see a handle, only
// the package-level accessor functions below.
//
// Two mutexes, acquired in a fixed total order (spec.md §5): treeMu
// before configMu. A holder of only configMu must never acquire
// treeMu.
type loggerState struct {
	treeMu   sync.Mutex
	configMu sync.Mutex

	root        *node
	filter      severityFilter
	primaryPath string
	lifecycle   lifecycle
	counter     int
	registry    *rotationRegistry
}

var state loggerState

// Init installs (or replaces) the configured threshold and primary
// path, creating an empty tree if none yet exists. Calling Init twice
// while Active replaces the threshold and path without dropping
// accumulated records (spec.md §9 "Re-initialization"); calling Init
// from Destroyed starts a fresh, empty tree.
func Init(threshold Severity, primaryPath string) {
	if primaryPath == "" {
		return // undefined by the caller contract (spec.md §7); refuse rather than guess.
	}

	state.treeMu.Lock()
	defer state.treeMu.Unlock()
	state.configMu.Lock()
	defer state.configMu.Unlock()

	if state.root == nil {
		state.root = newNode()
	}
	if state.registry == nil {
		state.registry = newRotationRegistry()
	}
	state.filter.setThreshold(threshold)
	state.primaryPath = primaryPath
	state.lifecycle = lifecycleActive
}

// Destroy dumps the current tree to the primary path, then frees the
// tree, path, and rotated-file registry, resetting the counter. A
// no-op outside the Active state.
//
// The configured threshold is deliberately left untouched (see
// SPEC_FULL.md §13): §7's error taxonomy requires that a "log after
// destroy" call be able to land on either the would-accept (debug
// assert) or would-reject (silent no-op) branch depending on level,
// which only makes sense if the last-configured threshold survives
// the transition to Destroyed.
func Destroy() {
	state.treeMu.Lock()
	defer state.treeMu.Unlock()
	state.configMu.Lock()
	defer state.configMu.Unlock()

	if state.lifecycle != lifecycleActive {
		return
	}

	if state.root != nil && state.primaryPath != "" {
		if data, err := state.root.serializePretty(); err == nil {
			if werr := writeFile(state.primaryPath, data); werr != nil {
				reportIOFault()
			}
		}
	}

	state.root = nil
	state.registry = nil
	state.primaryPath = ""
	state.counter = 0
	state.lifecycle = lifecycleDestroyed
}

// SetThreshold clamps to the valid open interval and ignores
// out-of-range values (spec.md §4.1). Unlike log/dump/rotate this is
// not restricted to the Active state: the operations table binds it
// to no lifecycle precondition, and a threshold configured before
// Init (or surviving past Destroy) is what makes the would-accept/
// would-reject split in §7's "log after destroy" case meaningful.
func SetThreshold(l Severity) {
	state.configMu.Lock()
	defer state.configMu.Unlock()
	state.filter.setThreshold(l)
}

// Dump serializes the current tree and writes it to the configured
// primary path in full (spec.md §4.4). A no-op outside the Active
// state. Dumping an empty tree writes "{}".
func Dump() {
	state.treeMu.Lock()
	state.configMu.Lock()
	active := state.lifecycle == lifecycleActive
	var data, path string
	if active {
		data, _ = state.root.serializePretty()
		path = state.primaryPath
	}
	state.configMu.Unlock()
	state.treeMu.Unlock()

	if !active {
		return
	}
	if err := writeFile(path, data); err != nil {
		reportIOFault()
	}
}

// Rotate performs an explicit rotation (spec.md §4.5's "Explicit"
// trigger); the implicit, counter-triggered rotation runs the same
// procedure from inside Log. A no-op outside the Active state.
func Rotate() {
	state.treeMu.Lock()
	defer state.treeMu.Unlock()
	doRotateLocked()
}

// doRotateLocked runs spec.md §4.5's rotation procedure. Callers must
// already hold treeMu; it acquires and releases configMu internally,
// obeying the treeMu-before-configMu order.
func doRotateLocked() {
	state.configMu.Lock()
	if state.lifecycle != lifecycleActive {
		state.configMu.Unlock()
		return
	}
	state.counter = 0
	path := rotatedPath(state.primaryPath)
	state.registry.push(path)
	data, _ := state.root.serializePretty()
	state.configMu.Unlock()

	if err := writeFile(path, data); err != nil {
		// Best-effort retention: a failed rotation write does not
		// clear the tree (spec.md §4.5).
		reportIOFault()
		return
	}
	state.root.clear()
}

// emit implements the parser's sink interface: fire the implicit
// rotation trigger if the tree already holds the full 500-record
// quota, THEN descend/create the path and append the record to the
// (now guaranteed fresh-enough) tree — all under treeMu, released
// only once rotation (if any) has completed (spec.md §5's discipline
// of holding treeMu across the implicit rotation's write).
//
// Checking the quota before appending, rather than after, is what
// keeps a rotated file at exactly 500 records with the 501st record
// that crossed the threshold left live in the post-rotation tree.
func (st *loggerState) emit(level Severity, path []string, fileName, funcName string, fileLine int, message string) {
	st.treeMu.Lock()
	defer st.treeMu.Unlock()

	st.configMu.Lock()
	rotate := st.counter >= maxRecordsBeforeRotation
	st.configMu.Unlock()

	if rotate {
		doRotateLocked()
	}

	cur := st.root
	for _, name := range path {
		cur = cur.descendOrCreate(name)
	}
	cur.appendRecord(makeRecord(level, fileName, funcName, fileLine, message))

	st.configMu.Lock()
	st.counter++
	st.configMu.Unlock()
}

// Log decodes template+args per the path+format mini-language
// (spec.md §4.2) and, if level passes the severity filter, mutates the
// tree accordingly. Uninitialized-state calls at a would-accept level
// assert in debug builds and are a silent no-op otherwise (spec.md
// §7); would-reject levels are always a silent no-op.
func Log(level Severity, template string, args ...interface{}) {
	state.configMu.Lock()
	accept := state.filter.shouldLog(level)
	active := state.lifecycle == lifecycleActive
	state.configMu.Unlock()

	if !accept {
		return
	}
	if !active {
		reportFault()
		return
	}
	parseAndEmit(&state, level, template, args)
}

// reportFault applies spec.md §7's precondition-violation contract
// (panic in debug, otherwise silent in both release and dist) at the
// call site one frame up from here (i.e. the jtlog public operation
// that detected the caller misuse).
func reportFault() {
	file, fn, line := callerLocation(2)
	diag.Assert(file, fn, line)
}

// reportIOFault applies spec.md §7's I/O-failure contract (panic in
// debug, one stderr line in both release and dist — this error class
// stays visible even in a dist build, unlike reportFault's) at the
// call site one frame up from here.
func reportIOFault() {
	file, fn, line := callerLocation(2)
	diag.ReportIOFailure(file, fn, line)
}

// SetBuildMode installs the process-wide debug/release/dist toggle
// (spec.md §9's "single runtime toggle" for precondition-violation
// behavior).
func SetBuildMode(m diag.Mode) { diag.SetMode(m) }

// callerLocation returns the short file name, function name, and line
// number of the frame skip levels above callerLocation itself (skip 1
// is its immediate caller, as with runtime.Caller), the way the Lfileloc/
// Lfullpath machinery in the teacher's logger.go resolves a backtrace
// frame via runtime.Caller/runtime.CallersFrames.
func callerLocation(skip int) (file, fn string, line int) {
	pc, f, l, ok := runtime.Caller(skip)
	if !ok {
		return "???", "???", 0
	}
	file = filepath.Base(f)
	line = l
	fn = "???"
	if rf := runtime.FuncForPC(pc); rf != nil {
		fn = filepath.Base(rf.Name())
	}
	return file, fn, line
}
