package jtlog

import "fmt"

// headerPrefix is the fixed literal macros prepend (spec.md §4.2):
// "$$%s$$%s$$%d$$" bound to (file_name, func_name, file_line).
const headerPrefix = "$$%s$$%s$$%d$$"

// nodeDirectiveDigit is the literal digit character of the %<D>
// node-descent directive (spec.md §4.2: D is the digit '1' in this
// system).
const nodeDirectiveDigit = '1'

// parserState is the two-state machine of spec.md §4.2.
type parserState int

const (
	readingLiteral parserState = iota
	potentialDirective
)

// sink receives every record the parser flushes, already carrying the
// caller-supplied file/func/line (from the header prefix, if present).
type sink interface {
	emit(level Severity, path []string, fileName, funcName string, fileLine int, message string)
}

// parseAndEmit decodes template + args per spec.md §4.2 and drives s
// with every record the template produces. It never returns an error:
// a template over the 255-byte ceiling is silently dropped, and
// malformed directives degrade to literal text, exactly as specified.
func parseAndEmit(s sink, level Severity, template string, args []interface{}) {
	if len(template) > maxMessageLen {
		return
	}

	var fileName, funcName string
	var fileLine int
	rest := template

	if pfx, ok := stripHeaderPrefix(template); ok {
		if len(args) < 3 {
			return // malformed call; caller's contract to avoid (spec.md §4.2 Failure semantics)
		}
		var okFile, okFunc, okLine bool
		fileName, okFile = args[0].(string)
		funcName, okFunc = args[1].(string)
		fileLine, okLine = args[2].(int)
		if !okFile || !okFunc || !okLine {
			return
		}
		args = args[3:]
		rest = pfx
	}

	var path []string
	var fragment []byte
	argi := 0
	state := readingLiteral

	flush := func() {
		if len(fragment) == 0 {
			return
		}
		msg := formatFragment(string(fragment), args, &argi)
		s.emit(level, append([]string(nil), path...), fileName, funcName, fileLine, msg)
		fragment = fragment[:0]
	}

	for i := 0; i < len(rest); i++ {
		c := rest[i]
		switch state {
		case readingLiteral:
			if c == '%' {
				state = potentialDirective
			} else {
				fragment = append(fragment, c)
			}
		case potentialDirective:
			if c == nodeDirectiveDigit {
				flush()
				if argi < len(args) {
					if name, ok := args[argi].(string); ok {
						argi++
						if name != reservedLogsKey {
							path = append(path, name)
						}
					} else {
						argi++
					}
				}
			} else {
				fragment = append(fragment, '%', c)
			}
			state = readingLiteral
		}
	}
	flush()
}

// stripHeaderPrefix reports whether template begins with the exact
// literal header-prefix shape "$$%s$$%s$$%d$$" and, if so, returns the
// remainder of the template after it.
func stripHeaderPrefix(template string) (string, bool) {
	if len(template) >= len(headerPrefix) && template[:len(headerPrefix)] == headerPrefix {
		return template[len(headerPrefix):], true
	}
	return template, false
}

// formatFragment renders frag (a literal+printf-directive fragment)
// against the remaining variadic arguments starting at *argi, the way
// spec.md §4.2's "flush semantics" step 1 describes: format against
// the remaining variadic arguments and emit.
func formatFragment(frag string, args []interface{}, argi *int) string {
	n := countVerbs(frag)
	if n == 0 {
		return frag
	}
	end := *argi + n
	if end > len(args) {
		end = len(args)
	}
	used := args[*argi:end]
	*argi = end
	return fmt.Sprintf(frag, used...)
}

// countVerbs counts printf conversion specifiers in frag ("%%" does
// not count).
func countVerbs(frag string) int {
	n := 0
	for i := 0; i < len(frag); i++ {
		if frag[i] != '%' {
			continue
		}
		if i+1 < len(frag) && frag[i+1] == '%' {
			i++
			continue
		}
		n++
	}
	return n
}
