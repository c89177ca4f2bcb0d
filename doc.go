// Package rangeread reads many byte ranges of a file into one buffer.
//
// A request is a Buffer: an ordered list of (offset, length) ranges plus the
// output slice. A Backend reads every range and returns the concatenation of
// their bytes, in range order, as a single contiguous slice:
//
//	var buf rangeread.Buffer
//	buf.Add(0, 100)
//	buf.Add(1000, 200)
//	buf.Add(5000, 50)
//	buf, err := rangeread.NewSync().ReadRanges(f, buf)
//	// len(buf.Buf) == 350
//
// # Backends
//
// All backends implement the same contract and produce identical bytes:
//
//   - sync: one positional read per range (all platforms)
//   - mmap: maps the covering window read-only and copies the ranges out (unix)
//   - aio: Linux native AIO, io_submit and io_getevents in batches (linux)
//   - listio: POSIX lio_listio in blocking mode (freebsd)
//
// Backends register themselves for the platforms they support; use Backends,
// Available or Lookup to enumerate them.
//
// # Errors
//
// The first failing range aborts the request and nothing is retried. On
// error the returned Buffer is empty, so a partially filled buffer is never
// visible. A range that ends past the end of the file yields a
// *ShortReadError, which matches io.ErrUnexpectedEOF.
//
// # Buffer Reuse
//
// Pass a returned Buffer back in with new ranges to reuse its capacity:
//
//	buf.Ranges = buf.Ranges[:0]
//	buf.Add(8192, 4096)
//	buf, err = backend.ReadRanges(f, buf)
//
// # Page Cache Hints
//
// Flush drops the cached pages of a file and WillNeed starts read-ahead for a
// span. Both are advisory and never called by backends.
//
// # Reader
//
// A Reader wraps a backend with structured logging, metrics, an optional
// prefetch hint and admission control through a resource.Controller.
package rangeread
