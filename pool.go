package p9c

import "sync"

// bufPair holds the send/receive scratch storage of one Session. This
// package pools bufPairs the same way the teacher's styx package pools
// decoders and bufio.Writers (see pool.go in the teacher): Sessions are
// generally short-lived relative to a long-running process — the
// conformance harness in p9test opens one per test case — and reusing
// the backing arrays avoids a fresh pair of msize-sized allocations
// every time.
type bufPair struct {
	send []byte
	recv []byte
}

var bufPairPool sync.Pool

func getBufPair(size int) *bufPair {
	if v := bufPairPool.Get(); v != nil {
		bp := v.(*bufPair)
		if cap(bp.send) >= size && cap(bp.recv) >= size {
			bp.send = bp.send[:size]
			bp.recv = bp.recv[:size]
			return bp
		}
	}
	return &bufPair{send: make([]byte, size), recv: make([]byte, size)}
}

func putBufPair(bp *bufPair) {
	bufPairPool.Put(bp)
}
