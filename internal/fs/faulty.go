package fs

import (
	"errors"
	"io"
	"sync"
)

// ErrInjected is the default error returned by injected faults.
var ErrInjected = errors.New("injected fault error")

// Fault defines specific failure behavior.
type Fault struct {
	// FailAfterReads lets this many ReadAt calls succeed, then fails every
	// later one. -1 to disable.
	FailAfterReads int64
	// FailAtOffset fails every ReadAt whose span contains this file offset.
	// -1 to disable.
	FailAtOffset int64
	// ShortRead makes a failing ReadAt deliver half of the requested bytes
	// and io.EOF instead of Err.
	ShortRead bool
	Err       error
}

// NoFault is a Fault that never triggers.
var NoFault = Fault{FailAfterReads: -1, FailAtOffset: -1}

// FaultyFile is a File wrapper that can inject errors into ReadAt.
type FaultyFile struct {
	File

	mu    sync.Mutex
	fault Fault
	reads int64
}

// NewFaultyFile wraps f with the given fault.
func NewFaultyFile(f File, fault Fault) *FaultyFile {
	return &FaultyFile{File: f, fault: fault}
}

// SetFault replaces the active fault and resets the read counter.
func (ff *FaultyFile) SetFault(fault Fault) {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	ff.fault = fault
	ff.reads = 0
}

// Reads returns the number of ReadAt calls seen so far.
func (ff *FaultyFile) Reads() int64 {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	return ff.reads
}

func (ff *FaultyFile) ReadAt(p []byte, off int64) (int, error) {
	ff.mu.Lock()
	fault := ff.fault
	ff.reads++
	n := ff.reads
	ff.mu.Unlock()

	trip := fault.FailAfterReads >= 0 && n > fault.FailAfterReads
	if fault.FailAtOffset >= 0 && off <= fault.FailAtOffset && fault.FailAtOffset < off+int64(len(p)) {
		trip = true
	}
	if !trip {
		return ff.File.ReadAt(p, off)
	}

	if fault.ShortRead {
		half := len(p) / 2
		got, err := ff.File.ReadAt(p[:half], off)
		if err != nil {
			return got, err
		}
		return got, io.EOF
	}

	err := fault.Err
	if err == nil {
		err = ErrInjected
	}
	return 0, err
}
