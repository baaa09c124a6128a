package p9test

import (
	"encoding/binary"
	"fmt"
	"io"

	"aqwari.net/net/p9c/p9wire"
)

// request is the parsed header (plus raw body) of the T-message the
// harness just read off the data channel, the thing each command
// crafts its reply in response to.
type request struct {
	typ  uint8
	tag  uint16
	body []byte
}

func (h *Harness) readRequest() (request, error) {
	hdr := make([]byte, 4)
	if _, err := io.ReadFull(h.data, hdr); err != nil {
		return request{}, err
	}
	size := binary.LittleEndian.Uint32(hdr)
	if size < 7 {
		return request{}, fmt.Errorf("p9test: request header too short: size=%d", size)
	}
	rest := make([]byte, size-4)
	if _, err := io.ReadFull(h.data, rest); err != nil {
		return request{}, err
	}
	return request{typ: rest[0], tag: binary.LittleEndian.Uint16(rest[1:3]), body: rest[3:]}, nil
}

// msize reads a pending Tversion's requested msize field, for
// commands that need to answer with something relative to it.
func (r request) msize() uint32 {
	if len(r.body) < 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(r.body[:4])
}

func (h *Harness) write(b []byte) error {
	_, err := h.data.Write(b)
	return err
}

// handle reads the client's pending request and answers it (or
// deliberately fails to) according to cmd, per the conformance table.
func (h *Harness) handle(cmd string) error {
	req, err := h.readRequest()
	if err != nil {
		return err
	}

	switch cmd {
	case "header_too_short1":
		return h.write([]byte{0x07})

	case "header_too_short2":
		buf := make([]byte, 6)
		binary.LittleEndian.PutUint32(buf[0:4], 6)
		buf[4] = p9wire.MsgRversion
		buf[5] = 0
		return h.write(buf)

	case "header_too_large":
		buf := make([]byte, 7)
		binary.LittleEndian.PutUint32(buf[0:4], 42)
		buf[4] = p9wire.MsgRversion
		binary.LittleEndian.PutUint16(buf[5:7], req.tag)
		if err := h.write(buf); err != nil {
			return err
		}
		return h.data.Close()

	case "header_wrong_type":
		return h.write(frame(p9wire.MsgTversion, req.tag, rversionBody(8192, "9P2000")))

	case "header_invalid_type":
		return h.write(frame(p9wire.MsgInvalid, req.tag, nil))

	case "header_tag_mismatch":
		return h.write(frame(p9wire.MsgRversion, req.tag+1, rversionBody(8192, "9P2000")))

	case "header_type_mismatch":
		return h.write(frame(p9wire.MsgRversion, req.tag, rversionBody(8192, "9P2000")))

	case "rversion_success":
		return h.write(frame(p9wire.MsgRversion, req.tag, rversionBody(req.msize(), "9P2000")))

	case "rversion_unknown":
		return h.write(frame(p9wire.MsgRversion, req.tag, rversionBody(req.msize(), "unknown")))

	case "rversion_downgrade":
		return h.write(frame(p9wire.MsgRversion, req.tag, rversionBody(req.msize()/2, "9P2000")))

	case "rversion_msize_too_big":
		return h.write(frame(p9wire.MsgRversion, req.tag, rversionBody(req.msize()+1, "9P2000")))

	case "rversion_msize_too_small":
		return h.write(frame(p9wire.MsgRversion, req.tag, rversionBody(100, "9P2000")))

	case "rversion_invalid":
		return h.write(frame(p9wire.MsgRversion, req.tag, rversionBody(req.msize(), "9P20009P2000")))

	case "rversion_invalid_len":
		body := make([]byte, 4+2+6)
		binary.LittleEndian.PutUint32(body[0:4], req.msize())
		binary.LittleEndian.PutUint16(body[4:6], 7) // claims 7 bytes, only 6 follow
		copy(body[6:], "9P2000")
		return h.write(frame(p9wire.MsgRversion, req.tag, body))

	case "rversion_version_too_long":
		long := "9P2000-and-then-some-more-characters-than-allowed"
		return h.write(frame(p9wire.MsgRversion, req.tag, rversionBody(req.msize(), long)))

	case "rattach_success":
		return h.write(frame(p9wire.MsgRattach, req.tag, rattachBody(p9wire.Qid{Type: p9wire.QTDIR, Version: 1, Path: 1})))

	case "rattach_invalid_len":
		body := rattachBody(p9wire.Qid{Type: p9wire.QTDIR, Version: 1, Path: 1})
		return h.write(rawFrame(uint32(7+len(body)-1), p9wire.MsgRattach, req.tag, body[:len(body)-1]))

	case "rstat_success":
		return h.write(frame(p9wire.MsgRstat, req.tag, rstatBody(SeedDir())))

	case "rstat_nstat_invalid":
		return h.write(frame(p9wire.MsgRstat, req.tag, statBodyWithBadNstat(SeedDir(), 1337)))

	case "rwalk_partial":
		return h.write(frame(p9wire.MsgRwalk, req.tag, rwalkBody([]p9wire.Qid{{Type: p9wire.QTDIR, Version: 1, Path: 2}})))

	case "clunk_success":
		return h.write(frame(p9wire.MsgRclunk, req.tag, nil))

	case "rerror_on_non_version":
		return h.write(frame(p9wire.MsgRerror, req.tag, errorBody("permission denied")))

	case "rerror_on_version":
		return h.write(frame(p9wire.MsgRerror, req.tag, errorBody("version negotiation refused")))

	default:
		return fmt.Errorf("p9test: unknown command %q", cmd)
	}
}

func errorBody(ename string) []byte {
	body := make([]byte, stringLen(ename))
	putString(body, ename)
	return body
}
