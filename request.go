package rangeread

import "unsafe"

type opKind uint8

const opRead opKind = iota

// request describes the kernel read for one range: where to read from and
// which slice of the output buffer receives the bytes.
type request struct {
	op     opKind
	fd     int
	offset int64
	dstOff int
	length int
}

// buildRequests returns one read request per range, in range order. The
// destination of each request starts where the previous one ends, so
// destinations never overlap even when the source ranges do.
func buildRequests(fd int, ranges []Range) []request {
	reqs := make([]request, len(ranges))
	cursor := 0
	for i, r := range ranges {
		reqs[i] = request{
			op:     opRead,
			fd:     fd,
			offset: int64(r.Offset),
			dstOff: cursor,
			length: r.Length,
		}
		cursor += r.Length
	}
	return reqs
}

// splitRequests returns reqs with every request longer than maxLen cut into
// consecutive pieces of at most maxLen bytes. Pieces of one request read
// adjacent file bytes into adjacent destination bytes.
func splitRequests(reqs []request, maxLen int) []request {
	extra := 0
	for _, req := range reqs {
		if req.length > maxLen {
			extra += (req.length - 1) / maxLen
		}
	}
	if extra == 0 {
		return reqs
	}

	out := make([]request, 0, len(reqs)+extra)
	for _, req := range reqs {
		for req.length > maxLen {
			piece := req
			piece.length = maxLen
			out = append(out, piece)

			req.offset += int64(maxLen)
			req.dstOff += maxLen
			req.length -= maxLen
		}
		out = append(out, req)
	}
	return out
}

// sliceAddr returns the address of the first byte of b. The caller keeps b
// alive while the kernel uses the address.
func sliceAddr(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b))) //nolint:gosec // address handed to the kernel
}
