package jtlog

import "runtime"

// Level-specific helpers mirror spec.md §6's caller-facing macros:
// each wraps Log by injecting the header prefix "$$%s$$%s$$%d$$" with
// the current (basename-only) file, function name, and line number,
// followed by the user's template.
func LogCritical(template string, args ...interface{}) { logAt(1, Critical, template, args...) }
func LogError(template string, args ...interface{})    { logAt(1, Error, template, args...) }
func LogWarn(template string, args ...interface{})     { logAt(1, Warn, template, args...) }
func LogInfo(template string, args ...interface{})     { logAt(1, Info, template, args...) }
func LogDebug(template string, args ...interface{})    { logAt(1, Debug, template, args...) }

func logAt(skip int, level Severity, template string, args ...interface{}) {
	file, fn, line := callerLocation(skip + 2)
	full := headerPrefix + template
	fullArgs := make([]interface{}, 0, len(args)+3)
	fullArgs = append(fullArgs, file, fn, line)
	fullArgs = append(fullArgs, args...)
	Log(level, full, fullArgs...)
}
