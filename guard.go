package rangeread

import "github.com/hupe1980/rangeread/internal/mem"

// guard hides the unpopulated bytes of a Buffer.
//
// acquire grows Buf to its final length without clearing it, so until every
// range has been read Buf may expose bytes of an earlier request. release
// truncates Buf to zero length unless commit was called first.
type guard struct {
	buf       *Buffer
	committed bool
}

func acquire(buf *Buffer) (guard, error) {
	n, err := buf.Size()
	if err != nil {
		buf.Buf = buf.Buf[:0]
		return guard{}, err
	}
	if cap(buf.Buf) >= n {
		buf.Buf = buf.Buf[:n]
	} else {
		buf.Buf = mem.AllocAligned(n, mem.PageSize)
	}
	return guard{buf: buf}, nil
}

func (g *guard) commit() {
	g.committed = true
}

func (g *guard) release() {
	if g.committed || g.buf == nil {
		return
	}
	g.buf.Buf = g.buf.Buf[:0]
}

// guarded sizes buf, lets populate fill every byte of the output and commits
// the result only if populate returns nil. Requests without ranges perform
// no I/O.
func guarded(buf Buffer, populate func(dst []byte, ranges []Range) error) (out Buffer, err error) {
	out = buf
	g, err := acquire(&out)
	if err != nil {
		return out, err
	}
	defer g.release()

	if len(out.Ranges) > 0 {
		if err := populate(out.Buf, out.Ranges); err != nil {
			return out, err
		}
	}

	g.commit()
	return out, nil
}
