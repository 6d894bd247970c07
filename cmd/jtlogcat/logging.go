package main

import (
	"os"

	"github.com/op/go-logging"
)

// log is jtlogcat's own operational logger — deliberately independent
// of the jtlog library it drives, the same separation kryptco-kr's
// kr CLI keeps between its own "Krypton ▶" diagnostics and the
// protocol it implements.
var log = logging.MustGetLogger("jtlogcat")

var cliFormat = logging.MustStringFormatter(
	`%{color}jtlogcat ▶ %{message}%{color:reset}`,
)

// setupLogging wires a single stderr backend at the given level,
// mirroring kryptco-kr's logging.go SetupLogging (minus the syslog
// fallback, which has no analog in a short-lived CLI tool).
func setupLogging(level logging.Level) {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	logging.SetFormatter(cliFormat)
	leveled := logging.AddModuleLevel(backend)
	leveled.SetLevel(level, "jtlogcat")
	logging.SetBackend(leveled)
}
