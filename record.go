package jtlog

import (
	"fmt"
	"time"
)

// maxMessageLen is spec.md §3's 255-character ceiling on a rendered
// message, and also the template-length ceiling of §4.2/§7.
const maxMessageLen = 255

const timeLayout = "2006-01-02 15:04:05.000000000"

// Record is an immutable log record once constructed (spec.md §3).
type Record struct {
	Time     string   `json:"Time"`
	LogLevel string   `json:"LogLevel"`
	FileName string   `json:"FileName,omitempty"`
	FuncName string   `json:"FuncName,omitempty"`
	FileLine int      `json:"FileLine,omitempty"`
	Log      string   `json:"Log"`
	level    Severity `json:"-"`
}

// newRecord renders msg against args printf-style, truncates to the
// 255-character ceiling, and stamps the current wall-clock instant.
// It is a package-internal helper for building a Record without going
// through the path+format parser; nothing in the package calls it.
func newRecord(level Severity, fileName, funcName string, fileLine int, msg string, args ...interface{}) Record {
	rendered := msg
	if len(args) > 0 {
		rendered = fmt.Sprintf(msg, args...)
	}
	return makeRecord(level, fileName, funcName, fileLine, rendered)
}

// makeRecord stamps an already-rendered message (the parser does its
// own printf formatting fragment-by-fragment; this just applies the
// 255-character ceiling and the timestamp).
func makeRecord(level Severity, fileName, funcName string, fileLine int, message string) Record {
	if len(message) > maxMessageLen {
		message = message[:maxMessageLen]
	}
	return Record{
		Time:     time.Now().Format(timeLayout),
		LogLevel: level.String(),
		FileName: fileName,
		FuncName: funcName,
		FileLine: fileLine,
		Log:      message,
		level:    level,
	}
}
