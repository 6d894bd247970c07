package jtlog

import "runtime"

// Guard is jtlog's stand-in for the at-exit hook spec.md §6/§9
// describes ("registers a process-exit handler that performs destroy
// exactly once"). Go has no native atexit; callers that want the same
// guarantee should `defer jtlog.MustGuard().Close()` in main(). As a
// best-effort second line of defense (finalizers are not guaranteed to
// run at process exit, but they catch the common "forgot to defer"
// case during tests and short-lived tools), MustGuard also attaches a
// runtime.SetFinalizer to the Guard it returns.
type Guard struct {
	closed bool
}

// Close performs Destroy exactly once; subsequent calls are no-ops.
func (g *Guard) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	Destroy()
	return nil
}

// MustGuard returns a Guard bound to the current process-wide logger.
// Panics if the logger has not been initialized.
func MustGuard() *Guard {
	state.configMu.Lock()
	active := state.lifecycle == lifecycleActive
	state.configMu.Unlock()
	if !active {
		panic("jtlog: MustGuard called before Init")
	}
	g := &Guard{}
	runtime.SetFinalizer(g, func(g *Guard) { _ = g.Close() })
	return g
}
