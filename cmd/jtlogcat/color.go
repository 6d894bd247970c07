package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// stdout wraps os.Stdout through go-colorable on Windows consoles and
// leaves it untouched everywhere else, the way kryptco-kr's CLI tools
// assume ANSI works once isatty says so.
func stdout() io.Writer {
	return colorable.NewColorableStdout()
}

// colorEnabled reports whether stdout is a real terminal (including a
// Cygwin terminal); "cat" degrades to plain text when piped. No
// environment variable is consulted.
func colorEnabled() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func levelColor(level string) *color.Color {
	switch level {
	case "CRITICAL":
		return color.New(color.FgHiRed, color.Bold)
	case "ERROR":
		return color.New(color.FgHiRed)
	case "WARN":
		return color.New(color.FgHiYellow)
	case "INFO":
		return color.New(color.FgHiGreen)
	case "DEBUG":
		return color.New(color.FgHiBlack)
	default:
		return color.New(color.Reset)
	}
}
