package jtlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// asserter mirrors opencoff-go-logger's newAsserter idiom: a closure
// that turns a failed condition into a t.Fatalf, tagged with a name so
// failures in table-driven tests are traceable to their case.
type asserter func(cond bool, format string, args ...interface{})

func newAsserter(t *testing.T, name string) asserter {
	return func(cond bool, format string, args ...interface{}) {
		if cond {
			return
		}
		msg := fmt.Sprintf(format, args...)
		if name != "" {
			t.Fatalf("%s: %s", name, msg)
		} else {
			t.Fatalf("%s", msg)
		}
	}
}

// reset drives the package-level singleton out of the Active state
// (to Destroyed, with an empty tree) between tests; tests never run in parallel with each other because
// of the shared process-wide state (spec.md §9).
func reset() {
	Destroy()
}

func primaryPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "test_log.json")
}

type decodedTree map[string]interface{}

func readTree(t *testing.T, path string) decodedTree {
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %s", path, err)
	}
	var v decodedTree
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatalf("unmarshal %s: %s: %s", path, err, string(b))
	}
	return v
}

func logsUnder(t *testing.T, tr decodedTree, path ...string) []interface{} {
	cur := map[string]interface{}(tr)
	for _, p := range path {
		child, ok := cur[p]
		if !ok {
			t.Fatalf("no node %q in %v", p, cur)
		}
		m, ok := child.(map[string]interface{})
		if !ok {
			t.Fatalf("node %q is not an object: %T", p, child)
		}
		cur = m
	}
	logs, ok := cur["logs"]
	if !ok {
		return nil
	}
	arr, ok := logs.([]interface{})
	if !ok {
		t.Fatalf("logs under %v is not an array: %T", path, logs)
	}
	return arr
}

func TestRootRecord(t *testing.T) {
	defer reset()
	assert := newAsserter(t, "root record")

	path := primaryPath(t)
	Init(Info, path)
	Log(Info, "hello root")
	Dump()

	tr := readTree(t, path)
	logs := logsUnder(t, tr) // no descent: "logs" is already the top-level key
	assert(len(logs) == 1, "exp 1 root record, saw %d", len(logs))
}

func TestOneLevelPath(t *testing.T) {
	defer reset()
	assert := newAsserter(t, "one level path")

	path := primaryPath(t)
	Init(Info, path)
	Log(Info, "%1hello", "net")
	Dump()

	tr := readTree(t, path)
	logs := logsUnder(t, tr, "net")
	assert(len(logs) == 1, "exp 1 record under net, saw %d", len(logs))

	root := logsUnder(t, tr)
	assert(len(root) == 0, "exp no root-level records, saw %d", len(root))
}

func TestThreeLevelPath(t *testing.T) {
	defer reset()
	assert := newAsserter(t, "three level path")

	path := primaryPath(t)
	Init(Info, path)
	Log(Info, "%1%1%1deep msg", "a", "b", "c")
	Dump()

	tr := readTree(t, path)
	logs := logsUnder(t, tr, "a", "b", "c")
	assert(len(logs) == 1, "exp 1 record under a.b.c, saw %d", len(logs))

	rec, ok := logs[0].(map[string]interface{})
	assert(ok, "record is not an object: %T", logs[0])
	assert(rec["Log"] == "deep msg", "exp message 'deep msg', saw %v", rec["Log"])
}

func TestSeverityFilterDrop(t *testing.T) {
	defer reset()
	assert := newAsserter(t, "severity drop")

	path := primaryPath(t)
	Init(Warn, path)
	Log(Info, "%1should be dropped", "x")
	Log(Debug, "%1should also be dropped", "x")
	Dump()

	tr := readTree(t, path)
	_, hasX := tr["x"]
	assert(!hasX, "exp no 'x' node after filtered-out records, tree=%v", tr)
}

func TestSeverityFilterPassAfterRaise(t *testing.T) {
	defer reset()
	assert := newAsserter(t, "severity raise")

	path := primaryPath(t)
	Init(Error, path)
	Log(Info, "%1dropped", "x")
	SetThreshold(Info)
	Log(Info, "%1kept", "x")
	Dump()

	tr := readTree(t, path)
	logs := logsUnder(t, tr, "x")
	assert(len(logs) == 1, "exp 1 record under x after raising threshold, saw %d", len(logs))
}

func TestNodeNameCollision(t *testing.T) {
	defer reset()
	assert := newAsserter(t, "node collision")

	path := primaryPath(t)
	Init(Info, path)
	Log(Info, "%1%1m1", "a", "b")
	Log(Info, "%1%1m2", "a", "c")
	Dump()

	tr := readTree(t, path)
	aLogs := logsUnder(t, tr, "a")
	assert(len(aLogs) == 0, "exp no direct records on shared node a, saw %d", len(aLogs))

	bLogs := logsUnder(t, tr, "a", "b")
	assert(len(bLogs) == 1, "exp 1 record under a.b, saw %d", len(bLogs))

	cLogs := logsUnder(t, tr, "a", "c")
	assert(len(cLogs) == 1, "exp 1 record under a.c, saw %d", len(cLogs))

	names := NodeNames()
	seenA := 0
	for _, n := range names {
		if n == "a" {
			seenA++
		}
	}
	assert(seenA == 1, "exp node 'a' to appear exactly once in NodeNames, saw %v", names)
}

func TestRotationExactCounts(t *testing.T) {
	defer reset()
	assert := newAsserter(t, "rotation")

	path := primaryPath(t)
	Init(Info, path)

	for i := 0; i < 501; i++ {
		Log(Info, "%1msg", "x")
	}
	Dump()

	dir := filepath.Dir(path)
	entries, err := os.ReadDir(dir)
	assert(err == nil, "read dir: %s", err)

	var rotated []string
	for _, e := range entries {
		full := filepath.Join(dir, e.Name())
		if full != path {
			rotated = append(rotated, full)
		}
	}
	assert(len(rotated) == 1, "exp exactly 1 rotated file, saw %d: %v", len(rotated), rotated)

	rtr := readTree(t, rotated[0])
	rlogs := logsUnder(t, rtr, "x")
	assert(len(rlogs) == 500, "exp 500 records in rotated file, saw %d", len(rlogs))

	ltr := readTree(t, path)
	llogs := logsUnder(t, ltr, "x")
	assert(len(llogs) == 1, "exp 1 record left live after rotation, saw %d", len(llogs))

	stats := GetStats()
	assert(stats.RetainedRotations == 1, "exp 1 retained rotation, saw %d", stats.RetainedRotations)
}

func TestRotationRegistryBound(t *testing.T) {
	defer reset()
	assert := newAsserter(t, "rotation registry bound")

	path := primaryPath(t)
	Init(Info, path)

	// six rotation cycles; the registry must never retain more than 5.
	for cycle := 0; cycle < 6; cycle++ {
		for i := 0; i < 501; i++ {
			Log(Info, "%1msg", "x")
		}
	}
	Dump()

	stats := GetStats()
	assert(stats.RetainedRotations <= 5, "exp at most 5 retained rotations, saw %d", stats.RetainedRotations)

	dir := filepath.Dir(path)
	entries, err := os.ReadDir(dir)
	assert(err == nil, "read dir: %s", err)

	count := 0
	for _, e := range entries {
		if filepath.Join(dir, e.Name()) != path {
			count++
		}
	}
	assert(count <= 5, "exp at most 5 rotated files on disk, saw %d", count)
}

func TestConcurrentLogNoLoss(t *testing.T) {
	defer reset()
	assert := newAsserter(t, "concurrent log")

	path := primaryPath(t)
	Init(Info, path)

	const goroutines = 20
	const perGoroutine = 50

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				Log(Info, "%1worker %d call %d", "workers", id, i)
			}
		}(g)
	}
	wg.Wait()
	Dump()

	want := goroutines * perGoroutine
	// a rotation may have fired partway through; total records across
	// the live tree plus whatever rotated out must still equal want.
	tr := readTree(t, path)
	live := len(logsUnder(t, tr, "workers"))

	dir := filepath.Dir(path)
	entries, err := os.ReadDir(dir)
	assert(err == nil, "read dir: %s", err)

	rotatedTotal := 0
	for _, e := range entries {
		full := filepath.Join(dir, e.Name())
		if full == path {
			continue
		}
		rtr := readTree(t, full)
		rotatedTotal += len(logsUnder(t, rtr, "workers"))
	}

	assert(live+rotatedTotal == want, "exp %d total records, saw %d live + %d rotated = %d", want, live, rotatedTotal, live+rotatedTotal)
}

func TestConcurrentLogAndRotate(t *testing.T) {
	defer reset()
	assert := newAsserter(t, "concurrent log vs rotate")

	path := primaryPath(t)
	Init(Info, path)

	const goroutines = 8
	const perGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(goroutines + 1)
	for g := 0; g < goroutines; g++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				Log(Info, "%1rec %d", "y", i)
			}
		}(g)
	}
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			Rotate()
		}
	}()
	wg.Wait()
	Dump()

	dir := filepath.Dir(path)
	entries, err := os.ReadDir(dir)
	assert(err == nil, "read dir: %s", err)

	total := 0
	for _, e := range entries {
		full := filepath.Join(dir, e.Name())
		tr := readTree(t, full)
		total += len(logsUnder(t, tr, "y"))
	}
	assert(total == goroutines*perGoroutine, "exp %d total records across all files, saw %d", goroutines*perGoroutine, total)
}

func TestLifecycleReinit(t *testing.T) {
	defer reset()
	assert := newAsserter(t, "lifecycle re-init")

	path := primaryPath(t)
	Init(Info, path)
	Log(Info, "%1before destroy", "x")
	Destroy()

	// Destroy is a no-op the second time.
	Destroy()

	// log calls between Destroy and Init are silent no-ops.
	Log(Critical, "%1should not panic or record", "x")

	Init(Info, path)
	Log(Info, "%1after reinit", "x")
	Dump()

	tr := readTree(t, path)
	logs := logsUnder(t, tr, "x")
	assert(len(logs) == 1, "exp fresh tree after re-init to hold only the post-init record, saw %d", len(logs))
}

func TestSetThresholdOutOfRangeIgnored(t *testing.T) {
	defer reset()
	assert := newAsserter(t, "set threshold out of range")

	path := primaryPath(t)
	Init(Warn, path)

	SetThreshold(levelUninitialized)
	assert(GetStats().Threshold == Warn, "exp threshold unchanged by levelUninitialized, saw %s", GetStats().Threshold)

	SetThreshold(levelEnd)
	assert(GetStats().Threshold == Warn, "exp threshold unchanged by levelEnd, saw %s", GetStats().Threshold)

	SetThreshold(Severity(99))
	assert(GetStats().Threshold == Warn, "exp threshold unchanged by an out-of-range value, saw %s", GetStats().Threshold)

	SetThreshold(Info)
	assert(GetStats().Threshold == Info, "exp a valid threshold to still take effect, saw %s", GetStats().Threshold)
}

func TestOverLongTemplateDropped(t *testing.T) {
	defer reset()
	assert := newAsserter(t, "over-long template dropped")

	path := primaryPath(t)
	Init(Info, path)

	long := make([]byte, maxMessageLen+1)
	for i := range long {
		long[i] = 'x'
	}
	Log(Info, "%1"+string(long), "x")
	Dump()

	tr := readTree(t, path)
	_, hasX := tr["x"]
	assert(!hasX, "exp an over-long template to be silently dropped before any node is created, tree=%v", tr)
}

func TestDumpEmptyTree(t *testing.T) {
	defer reset()
	assert := newAsserter(t, "dump empty tree")

	path := primaryPath(t)
	Init(Info, path)
	Dump()

	b, err := os.ReadFile(path)
	assert(err == nil, "read: %s", err)
	assert(string(b) == "{}", "exp empty tree to serialize as {}, saw %q", string(b))
}
