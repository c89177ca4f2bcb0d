package rangeread

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildRequests(t *testing.T) {
	reqs := buildRequests(7, []Range{{100, 10}, {0, 0}, {50, 5}})

	assert.Equal(t, []request{
		{op: opRead, fd: 7, offset: 100, dstOff: 0, length: 10},
		{op: opRead, fd: 7, offset: 0, dstOff: 10, length: 0},
		{op: opRead, fd: 7, offset: 50, dstOff: 10, length: 5},
	}, reqs)
}

func TestSplitRequests(t *testing.T) {
	reqs := buildRequests(3, []Range{{1000, 25}, {0, 4}, {500, 10}})

	got := splitRequests(reqs, 10)

	assert.Equal(t, []request{
		{op: opRead, fd: 3, offset: 1000, dstOff: 0, length: 10},
		{op: opRead, fd: 3, offset: 1010, dstOff: 10, length: 10},
		{op: opRead, fd: 3, offset: 1020, dstOff: 20, length: 5},
		{op: opRead, fd: 3, offset: 0, dstOff: 25, length: 4},
		{op: opRead, fd: 3, offset: 500, dstOff: 29, length: 10},
	}, got)
}

func TestSplitRequests_NothingToSplit(t *testing.T) {
	reqs := buildRequests(3, []Range{{0, 10}, {10, 0}})

	got := splitRequests(reqs, 10)

	assert.Equal(t, reqs, got)
	assert.Same(t, &reqs[0], &got[0])
}
