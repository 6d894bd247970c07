package jtlog

import "os"

// writeFile truncates (or creates) path and writes data in full,
// closing the file afterward — the teacher's dump discipline
// (open/write/close, no append) generalized from opencoff-go-logger's
// O_TRUNC file constructor. Neither this nor rotation is assumed
// atomic from a crash-consistency standpoint (spec.md §4.4).
func writeFile(path, data string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	_, werr := f.WriteString(data)
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	return cerr
}
