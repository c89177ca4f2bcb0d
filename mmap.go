//go:build unix

package rangeread

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/hupe1980/rangeread/internal/mmap"
)

// Advice is an access-pattern hint applied to a mapped window.
type Advice int

const (
	// AdviceNone issues no madvise call.
	AdviceNone Advice = iota
	AdviceNormal
	AdviceSequential
	AdviceRandom
	AdviceWillNeed
)

func (a Advice) pattern() mmap.AccessPattern {
	switch a {
	case AdviceSequential:
		return mmap.AccessSequential
	case AdviceRandom:
		return mmap.AccessRandom
	case AdviceWillNeed:
		return mmap.AccessWillNeed
	default:
		return mmap.AccessDefault
	}
}

// MmapOptions configures the memory-map backend.
type MmapOptions struct {
	// Advice is applied to the covering window before the ranges are copied.
	Advice Advice
}

// Mmap maps the covering window of a request read-only and copies each range
// out of it.
//
// Mapped memory faults instead of short-reading, so ranges that end past the
// end of the file are rejected with a *ShortReadError before mapping. A fault
// during the copy (the file shrank concurrently) is reported as
// ErrMappingFault.
type Mmap struct {
	opts MmapOptions
}

// NewMmap returns the memory-map backend.
func NewMmap(optFns ...func(o *MmapOptions)) *Mmap {
	var opts MmapOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	return &Mmap{opts: opts}
}

// Name implements Backend.
func (*Mmap) Name() string { return "mmap" }

// ReadRanges implements Backend.
func (m *Mmap) ReadRanges(f File, buf Buffer) (Buffer, error) {
	return guarded(buf, func(dst []byte, ranges []Range) error {
		base, end, ok := (&Buffer{Ranges: ranges}).Span()
		if !ok {
			return nil
		}

		info, err := f.Stat()
		if err != nil {
			return err
		}
		size := uint64(info.Size())
		if end > size {
			return beyondEOF(ranges, size)
		}

		w, err := mmap.MapRange(int(f.Fd()), int64(base), int(end-base))
		runtime.KeepAlive(f)
		if err != nil {
			return &MapError{Offset: int64(base), Length: int(end - base), cause: err}
		}
		defer w.Close()

		if m.opts.Advice != AdviceNone {
			if err := w.Advise(m.opts.Advice.pattern()); err != nil {
				return err
			}
		}

		return copyWindow(w, dst, ranges)
	})
}

// beyondEOF reports the first non-empty range that ends past size.
func beyondEOF(ranges []Range, size uint64) error {
	for _, r := range ranges {
		if r.Length == 0 || r.End() <= size {
			continue
		}
		got := 0
		if r.Offset < size {
			got = int(size - r.Offset)
		}
		return &ShortReadError{Offset: r.Offset, Want: r.Length, Got: got}
	}
	return nil
}

func copyWindow(w *mmap.Mapping, dst []byte, ranges []Range) (err error) {
	defer debug.SetPanicOnFault(debug.SetPanicOnFault(true))
	defer func() {
		if r := recover(); r != nil {
			fault, ok := r.(interface{ Addr() uintptr })
			if !ok {
				panic(r)
			}
			err = fmt.Errorf("%w at address %#x", ErrMappingFault, fault.Addr())
		}
	}()

	done := 0
	for _, r := range ranges {
		if r.Length == 0 {
			continue
		}
		region, err := w.RegionAt(int64(r.Offset), r.Length)
		if err != nil {
			return err
		}
		if n := region.CopyTo(dst[done : done+r.Length]); n != r.Length {
			return &ShortReadError{Offset: r.Offset, Want: r.Length, Got: n}
		}
		done += r.Length
	}
	return nil
}

func init() {
	Register(NewMmap())
}
