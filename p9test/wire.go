// Package p9test is a conformance harness for a p9c.Session: a mock
// 9P2000 server, reachable over loopback TCP connections, whose replies
// are driven by a side control channel rather than by real file-tree
// state. A test dials the harness, drives it through a sequence of
// control commands, and exercises a Session against whatever byte
// sequence each command produces — including sequences no conforming
// server would ever send, which is the point.
package p9test

import (
	"encoding/binary"

	"aqwari.net/net/p9c/p9wire"
)

// rawFrame builds a complete frame (size[4] type[1] tag[2] body...) with
// an explicit, possibly-wrong size field, for constructing malformed
// replies the p9wire marshaller itself refuses to produce.
func rawFrame(size uint32, typ uint8, tag uint16, body []byte) []byte {
	buf := make([]byte, 7+len(body))
	binary.LittleEndian.PutUint32(buf[0:4], size)
	buf[4] = typ
	binary.LittleEndian.PutUint16(buf[5:7], tag)
	copy(buf[7:], body)
	return buf
}

// frame builds a well-formed frame: size is computed from the body.
func frame(typ uint8, tag uint16, body []byte) []byte {
	return rawFrame(uint32(7+len(body)), typ, tag, body)
}

func putString(dst []byte, s string) int {
	binary.LittleEndian.PutUint16(dst, uint16(len(s)))
	copy(dst[2:], s)
	return 2 + len(s)
}

func stringLen(s string) int { return 2 + len(s) }

// rversionBody encodes an Rversion body with an arbitrary msize/version,
// bypassing p9wire.MarshalTversion's bounds checks.
func rversionBody(msize uint32, version string) []byte {
	body := make([]byte, 4+stringLen(version))
	binary.LittleEndian.PutUint32(body[0:4], msize)
	putString(body[4:], version)
	return body
}

// rattachBody encodes an Rattach body.
func rattachBody(q p9wire.Qid) []byte {
	body := make([]byte, p9wire.QidLen)
	putQid(body, q)
	return body
}

func putQid(dst []byte, q p9wire.Qid) {
	dst[0] = uint8(q.Type)
	binary.LittleEndian.PutUint32(dst[1:5], q.Version)
	binary.LittleEndian.PutUint64(dst[5:13], q.Path)
}

// rwalkBody encodes an Rwalk body for the given qids.
func rwalkBody(qids []p9wire.Qid) []byte {
	body := make([]byte, 2+len(qids)*p9wire.QidLen)
	binary.LittleEndian.PutUint16(body[0:2], uint16(len(qids)))
	off := 2
	for _, q := range qids {
		putQid(body[off:], q)
		off += p9wire.QidLen
	}
	return body
}

// rstatBody encodes an Rstat body (nstat prefix + Dir) using p9wire's
// own marshaller — there is no malformed-Rstat case that needs bypassing
// PutStat, since rstat_nstat_invalid corrupts the length field after the
// fact, in statBodyWithBadNstat.
func rstatBody(d p9wire.Dir) []byte {
	buf := p9wire.NewBuffer(make([]byte, 4096))
	if err := p9wire.PutStat(buf, d); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// statBodyWithBadNstat encodes an Rstat body whose inner nstat field
// claims a length much larger than the bytes that follow it.
func statBodyWithBadNstat(d p9wire.Dir, nstat uint16) []byte {
	body := rstatBody(d)
	binary.LittleEndian.PutUint16(body[0:2], nstat)
	return body
}
