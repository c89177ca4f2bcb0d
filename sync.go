package rangeread

import (
	"errors"
	"io"
)

// Sync reads every range with one positional read, in range order.
//
// It is the reference backend: all other backends must produce byte-identical
// output for the same request. It works with any File, including wrappers
// whose Fd is not usable by the kernel.
type Sync struct{}

// NewSync returns the positional-read backend.
func NewSync() *Sync {
	return &Sync{}
}

// Name implements Backend.
func (*Sync) Name() string { return "sync" }

// ReadRanges implements Backend.
func (*Sync) ReadRanges(f File, buf Buffer) (Buffer, error) {
	return guarded(buf, func(dst []byte, ranges []Range) error {
		done := 0
		for _, r := range ranges {
			chunk := dst[done : done+r.Length]
			n, err := f.ReadAt(chunk, int64(r.Offset))
			switch {
			case n == len(chunk) && (err == nil || errors.Is(err, io.EOF)):
				// io.ReaderAt may report EOF together with a full read.
			case err == nil || errors.Is(err, io.EOF):
				return &ShortReadError{Offset: r.Offset, Want: r.Length, Got: n}
			default:
				return err
			}
			done += r.Length
		}
		return nil
	})
}

func init() {
	Register(NewSync())
}
