package jtlog

// Stats is a point-in-time snapshot of the logger's internal counters
// (SPEC_FULL.md §12), mirroring the teacher's Prio()/Flags()/Prefix()
// read-accessor idiom.
type Stats struct {
	Active            bool
	Threshold         Severity
	AcceptedSince     int // records accepted since the last rotation
	TotalLogNodes     int // records stored anywhere in the current tree
	RetainedRotations int
}

// GetStats returns a snapshot of the logger's current counters, read
// under both locks in the spec.md §5 order.
func GetStats() Stats {
	state.treeMu.Lock()
	defer state.treeMu.Unlock()
	state.configMu.Lock()
	defer state.configMu.Unlock()

	var s Stats
	s.Active = state.lifecycle == lifecycleActive
	s.Threshold = state.filter.threshold
	s.AcceptedSince = state.counter
	if state.root != nil {
		s.TotalLogNodes = state.root.nodeLogCount()
	}
	if state.registry != nil {
		s.RetainedRotations = state.registry.cache.Len()
	}
	return s
}

// NodeNames returns the dot-joined path of every node in the current
// tree (the root is reported as "" first), in the order children were
// first created — an introspection helper for tests. (cmd/jtlogcat's
// "cat" subcommand does not use it; it decodes the JSON file instead.)
func NodeNames() []string {
	state.treeMu.Lock()
	defer state.treeMu.Unlock()

	var names []string
	if state.root != nil {
		state.root.walk("", func(path string, _ *node) {
			names = append(names, path)
		})
	}
	return names
}
