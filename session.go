package p9c

import (
	"encoding/binary"
	"io"
	"time"

	"aqwari.net/net/p9c/internal/fidtag"
	"aqwari.net/net/p9c/p9wire"
)

// A Session drives one 9P2000 connection. A Session is created in phase
// Unversioned by Client.NewSession and is not safe for concurrent use;
// a caller issuing operations from multiple goroutines must serialize
// them itself (spec.md §5).
type Session struct {
	t Transport

	bufs    *bufPair
	sendBuf *p9wire.Buffer

	msize    uint32 // effective, negotiated after Version; the Client's MaxSize until then
	version  string
	phase    Phase
	rootFid  uint32
	afid     uint32
	timeout  time.Duration
	pending  bool // true while a request's reply has not yet been read
	pendTag  uint16
	iounit   map[uint32]uint32
	tags     fidtag.TagTable
	fids     fidtag.FidTable
}

func newSession(t Transport, maxSize uint32, maxTags, maxFids int, timeout time.Duration) *Session {
	bp := getBufPair(int(maxSize))
	s := &Session{
		t:       t,
		bufs:    bp,
		sendBuf: p9wire.NewBuffer(bp.send),
		msize:   maxSize,
		afid:    p9wire.NoFid,
		timeout: timeout,
		iounit:  make(map[uint32]uint32),
	}
	s.tags.Init(maxTags)
	s.fids.Init(maxFids)
	return s
}

// Phase returns the session's current phase.
func (s *Session) Phase() Phase { return s.phase }

// Msize returns the negotiated maximum message size. Before Version
// succeeds, it returns the client's requested maximum.
func (s *Session) Msize() uint32 { return s.msize }

// Close tears down the session: it closes the underlying Transport and
// returns the session's buffers to the pool. No further operations may
// be performed on s afterward. Close is idempotent.
func (s *Session) Close() error {
	if s.phase == Closed {
		return nil
	}
	s.phase = Closed
	err := s.t.Close()
	if s.bufs != nil {
		putBufPair(s.bufs)
		s.bufs = nil
	}
	return err
}

func (s *Session) closeWith(err *Error) *Error {
	s.phase = Closed
	s.t.Close()
	if s.bufs != nil {
		putBufPair(s.bufs)
		s.bufs = nil
	}
	return err
}

// checkPhase returns an error without closing the session if current
// phase is not want — a caller mistake, not a protocol violation.
func (s *Session) checkPhase(op string, want Phase) error {
	if s.phase == Closed {
		return callerError(op, ErrSessionClosed)
	}
	if s.phase != want {
		return callerError(op, ErrWrongPhase)
	}
	return nil
}

// roundTrip sends the frame currently held in s.sendBuf, then reads and
// decodes exactly one reply frame, checking it against tag. It is the
// sole place a Session performs I/O, matching spec.md §5's "at most one
// outstanding request" contract.
func (s *Session) roundTrip(op string, tag uint16) (p9wire.Msg, *Error) {
	if s.sendBuf.Len() > int(s.msize) {
		return nil, s.closeWith(framingError(op, p9wire.ErrOversize))
	}
	if err := sendAll(s.t, s.sendBuf.Bytes()); err != nil {
		return nil, s.closeWith(transportError(op, err))
	}
	s.pending, s.pendTag = true, tag
	defer func() { s.pending = false }()

	hdr := s.bufs.recv[:4]
	if err := readFull(s.t, hdr); err != nil {
		return nil, s.closeWith(transportError(op, err))
	}
	size := binary.LittleEndian.Uint32(hdr)
	if size < p9wire.MinMsize {
		return nil, s.closeWith(framingError(op, p9wire.ErrShortHeader))
	}
	if size > s.msize || int(size) > len(s.bufs.recv) {
		return nil, s.closeWith(framingError(op, p9wire.ErrOversize))
	}
	if err := readFull(s.t, s.bufs.recv[4:size]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, s.closeWith(framingError(op, p9wire.ErrTruncated))
		}
		return nil, s.closeWith(transportError(op, err))
	}

	msg, err := p9wire.Unmarshal(s.bufs.recv[:size], s.msize)
	if err != nil {
		if err == p9wire.ErrWrongDirection {
			return nil, s.closeWith(correlationError(op, ErrProtocolViolation))
		}
		return nil, s.closeWith(framingError(op, err))
	}
	if msg.Tag() != tag {
		return nil, s.closeWith(correlationError(op, ErrTagMismatch))
	}
	return msg, nil
}

// asRerror reports whether msg is an Rerror, and if fatal is true,
// closes the session (per spec.md §7: Rerror answering Version or
// Attach closes the session; any other Rerror is local recovery).
func (s *Session) asRerror(op string, msg p9wire.Msg, fatal bool) (*Error, bool) {
	re, ok := msg.(p9wire.Rerror)
	if !ok {
		return nil, false
	}
	if fatal {
		s.closeWith(nil)
	}
	return serverError(op, re.Ename), true
}

func (s *Session) wrongType(op string) *Error {
	return s.closeWith(correlationError(op, ErrProtocolViolation))
}

func (s *Session) allocTag(op string) (uint16, *Error) {
	tag, err := s.tags.Get()
	if err != nil {
		return 0, resourceError(op, err)
	}
	return tag, nil
}

func (s *Session) allocFid(op string) (uint32, *Error) {
	fid, err := s.fids.Get()
	if err != nil {
		return 0, resourceError(op, err)
	}
	return fid, nil
}
