package p9c

import (
	"aqwari.net/net/p9c/p9wire"
)

// Version performs the version handshake, spec.md §4.4. It must be the
// first operation performed on a Session. version is the protocol
// version the client requests; a caller with no particular reason to
// override it should pass "9P2000". On success, the Session's Msize
// reflects the (possibly smaller) negotiated value and the phase
// advances to Versioned.
func (s *Session) Version(version string) error {
	const op = "version"
	if err := s.checkPhase(op, Unversioned); err != nil {
		return err
	}
	tag := p9wire.NoTag
	requested := s.msize

	if err := p9wire.MarshalTversion(s.sendBuf, requested, version); err != nil {
		return s.closeWith(framingError(op, err))
	}
	msg, rtErr := s.roundTrip(op, tag)
	if rtErr != nil {
		return rtErr
	}
	if e, ok := s.asRerror(op, msg, true); ok {
		return e
	}
	rv, ok := msg.(p9wire.Rversion)
	if !ok {
		return s.wrongType(op)
	}
	if rv.Msize < p9wire.MinNegotiatedMsize || rv.Msize > requested {
		return s.closeWith(negotiationError(op, ErrProtocolViolation))
	}
	if rv.Version == "unknown" || rv.Version != version {
		return s.closeWith(negotiationError(op, ErrVersionUnsupported))
	}
	s.msize = rv.Msize
	s.version = rv.Version
	s.phase = Versioned
	return nil
}

// Attach introduces uname to the server and binds the root of the file
// tree named aname to a freshly allocated fid, returned as the Qid of
// that root. On success the phase advances to Attached.
func (s *Session) Attach(uname, aname string) (p9wire.Qid, error) {
	const op = "attach"
	if err := s.checkPhase(op, Versioned); err != nil {
		return p9wire.Qid{}, err
	}
	fid, aerr := s.allocFid(op)
	if aerr != nil {
		return p9wire.Qid{}, aerr
	}
	tag, aerr := s.allocTag(op)
	if aerr != nil {
		s.fids.Put(fid)
		return p9wire.Qid{}, aerr
	}
	defer s.tags.Put(tag)

	if err := p9wire.MarshalTattach(s.sendBuf, tag, fid, p9wire.NoFid, uname, aname); err != nil {
		s.fids.Put(fid)
		return p9wire.Qid{}, s.closeWith(framingError(op, err))
	}
	msg, rtErr := s.roundTrip(op, tag)
	if rtErr != nil {
		return p9wire.Qid{}, rtErr
	}
	if e, ok := s.asRerror(op, msg, true); ok {
		return p9wire.Qid{}, e
	}
	ra, ok := msg.(p9wire.Rattach)
	if !ok {
		s.fids.Put(fid)
		return p9wire.Qid{}, s.wrongType(op)
	}
	s.rootFid = fid
	s.phase = Attached
	return ra.Qid, nil
}

// RootFid returns the fid established by Attach.
func (s *Session) RootFid() uint32 { return s.rootFid }

// Walk walks fid through names, returning the fid of the final element
// reached (a freshly allocated fid) and the Qid for each element
// successfully walked. names may have zero elements, in which case the
// new fid is a duplicate of fid pointing at the same file.
//
// If the server only walks a prefix of names, the returned error wraps
// WalkPartial(k): per spec.md §4.4, the new fid is not created on the
// server in this case, and Walk releases it locally before returning.
func (s *Session) Walk(fid uint32, names []string) (uint32, []p9wire.Qid, error) {
	const op = "walk"
	if err := s.checkPhase(op, Attached); err != nil {
		return 0, nil, err
	}
	if !s.fids.InUse(fid) {
		return 0, nil, resourceError(op, ErrUnknownFid)
	}
	if len(names) > p9wire.MaxWElem {
		return 0, nil, callerError(op, ErrInvalidArgument)
	}
	newfid, aerr := s.allocFid(op)
	if aerr != nil {
		return 0, nil, aerr
	}
	tag, aerr := s.allocTag(op)
	if aerr != nil {
		s.fids.Put(newfid)
		return 0, nil, aerr
	}
	defer s.tags.Put(tag)

	if err := p9wire.MarshalTwalk(s.sendBuf, tag, fid, newfid, names); err != nil {
		s.fids.Put(newfid)
		return 0, nil, s.closeWith(framingError(op, err))
	}
	msg, rtErr := s.roundTrip(op, tag)
	if rtErr != nil {
		return 0, nil, rtErr
	}
	if e, ok := s.asRerror(op, msg, false); ok {
		s.fids.Put(newfid)
		return 0, nil, e
	}
	rw, ok := msg.(p9wire.Rwalk)
	if !ok {
		s.fids.Put(newfid)
		return 0, nil, s.wrongType(op)
	}
	if len(rw.Wqid) < len(names) {
		s.fids.Put(newfid)
		return 0, nil, resourceError(op, WalkPartial{N: len(rw.Wqid)})
	}
	return newfid, rw.Wqid, nil
}

// Open prepares fid for I/O with the given mode (OREAD, OWRITE, ORDWR,
// or OEXEC, optionally OR'd with OTRUNC/ORCLOSE). It returns the file's
// Qid. Subsequent Read/Write calls on fid are clipped to the iounit
// Open negotiates.
func (s *Session) Open(fid uint32, mode uint8) (p9wire.Qid, error) {
	const op = "open"
	if err := s.checkPhase(op, Attached); err != nil {
		return p9wire.Qid{}, err
	}
	if !s.fids.InUse(fid) {
		return p9wire.Qid{}, resourceError(op, ErrUnknownFid)
	}
	tag, aerr := s.allocTag(op)
	if aerr != nil {
		return p9wire.Qid{}, aerr
	}
	defer s.tags.Put(tag)

	if err := p9wire.MarshalTopen(s.sendBuf, tag, fid, mode); err != nil {
		return p9wire.Qid{}, s.closeWith(framingError(op, err))
	}
	msg, rtErr := s.roundTrip(op, tag)
	if rtErr != nil {
		return p9wire.Qid{}, rtErr
	}
	if e, ok := s.asRerror(op, msg, false); ok {
		return p9wire.Qid{}, e
	}
	ro, ok := msg.(p9wire.Ropen)
	if !ok {
		return p9wire.Qid{}, s.wrongType(op)
	}
	s.iounit[fid] = s.effectiveIOUnit(ro.IOunit)
	return ro.Qid, nil
}

// Create creates name under fid with the given permission bits and open
// mode; on success fid itself becomes the newly created file, open for
// I/O the same way Open would leave it.
func (s *Session) Create(fid uint32, name string, perm uint32, mode uint8) (p9wire.Qid, error) {
	const op = "create"
	if err := s.checkPhase(op, Attached); err != nil {
		return p9wire.Qid{}, err
	}
	if !s.fids.InUse(fid) {
		return p9wire.Qid{}, resourceError(op, ErrUnknownFid)
	}
	tag, aerr := s.allocTag(op)
	if aerr != nil {
		return p9wire.Qid{}, aerr
	}
	defer s.tags.Put(tag)

	if err := p9wire.MarshalTcreate(s.sendBuf, tag, fid, name, perm, mode); err != nil {
		return p9wire.Qid{}, s.closeWith(framingError(op, err))
	}
	msg, rtErr := s.roundTrip(op, tag)
	if rtErr != nil {
		return p9wire.Qid{}, rtErr
	}
	if e, ok := s.asRerror(op, msg, false); ok {
		return p9wire.Qid{}, e
	}
	rc, ok := msg.(p9wire.Rcreate)
	if !ok {
		return p9wire.Qid{}, s.wrongType(op)
	}
	s.iounit[fid] = s.effectiveIOUnit(rc.IOunit)
	return rc.Qid, nil
}

// ioHdrSize is the overhead of a Tread/Twrite header (tag, fid, offset,
// count) subtracted from msize to get the default iounit, following the
// original go9p IOHDRSZ constant.
const ioHdrSize = 24

func (s *Session) effectiveIOUnit(negotiated uint32) uint32 {
	if negotiated != 0 {
		return negotiated
	}
	if s.msize > ioHdrSize {
		return s.msize - ioHdrSize
	}
	return s.msize
}

// Read reads up to len(buf) bytes from fid at offset, clipped to fid's
// negotiated iounit. It returns the number of bytes actually read; 0
// with a nil error means EOF (when len(buf) > 0).
func (s *Session) Read(fid uint32, offset uint64, buf []byte) (int, error) {
	const op = "read"
	if err := s.checkPhase(op, Attached); err != nil {
		return 0, err
	}
	if !s.fids.InUse(fid) {
		return 0, resourceError(op, ErrUnknownFid)
	}
	count := uint32(len(buf))
	if iou := s.iounit[fid]; iou != 0 && count > iou {
		count = iou
	}
	tag, aerr := s.allocTag(op)
	if aerr != nil {
		return 0, aerr
	}
	defer s.tags.Put(tag)

	if err := p9wire.MarshalTread(s.sendBuf, tag, fid, offset, count); err != nil {
		return 0, s.closeWith(framingError(op, err))
	}
	msg, rtErr := s.roundTrip(op, tag)
	if rtErr != nil {
		return 0, rtErr
	}
	if e, ok := s.asRerror(op, msg, false); ok {
		return 0, e
	}
	rr, ok := msg.(p9wire.Rread)
	if !ok {
		return 0, s.wrongType(op)
	}
	if uint32(len(rr.Data)) > count {
		return 0, s.closeWith(correlationError(op, ErrProtocolViolation))
	}
	n := copy(buf, rr.Data)
	return n, nil
}

// Write writes data to fid at offset, clipped to fid's negotiated
// iounit. It returns the number of bytes actually written, which may
// be less than len(data); the caller is expected to loop.
func (s *Session) Write(fid uint32, offset uint64, data []byte) (int, error) {
	const op = "write"
	if err := s.checkPhase(op, Attached); err != nil {
		return 0, err
	}
	if !s.fids.InUse(fid) {
		return 0, resourceError(op, ErrUnknownFid)
	}
	if iou := s.iounit[fid]; iou != 0 && uint32(len(data)) > iou {
		data = data[:iou]
	}
	tag, aerr := s.allocTag(op)
	if aerr != nil {
		return 0, aerr
	}
	defer s.tags.Put(tag)

	if err := p9wire.MarshalTwrite(s.sendBuf, tag, fid, offset, data); err != nil {
		return 0, s.closeWith(framingError(op, err))
	}
	msg, rtErr := s.roundTrip(op, tag)
	if rtErr != nil {
		return 0, rtErr
	}
	if e, ok := s.asRerror(op, msg, false); ok {
		return 0, e
	}
	rw, ok := msg.(p9wire.Rwrite)
	if !ok {
		return 0, s.wrongType(op)
	}
	return int(rw.Count), nil
}

// Stat returns the Dir describing fid.
func (s *Session) Stat(fid uint32) (p9wire.Dir, error) {
	const op = "stat"
	if err := s.checkPhase(op, Attached); err != nil {
		return p9wire.Dir{}, err
	}
	if !s.fids.InUse(fid) {
		return p9wire.Dir{}, resourceError(op, ErrUnknownFid)
	}
	tag, aerr := s.allocTag(op)
	if aerr != nil {
		return p9wire.Dir{}, aerr
	}
	defer s.tags.Put(tag)

	if err := p9wire.MarshalTstat(s.sendBuf, tag, fid); err != nil {
		return p9wire.Dir{}, s.closeWith(framingError(op, err))
	}
	msg, rtErr := s.roundTrip(op, tag)
	if rtErr != nil {
		return p9wire.Dir{}, rtErr
	}
	if e, ok := s.asRerror(op, msg, false); ok {
		return p9wire.Dir{}, e
	}
	rs, ok := msg.(p9wire.Rstat)
	if !ok {
		return p9wire.Dir{}, s.wrongType(op)
	}
	return rs.Stat, nil
}

// Wstat attempts to apply changes in d to fid. The server may reject
// individual fields; a partial failure surfaces as a ServerError the
// same way a full failure would.
func (s *Session) Wstat(fid uint32, d p9wire.Dir) error {
	const op = "wstat"
	if err := s.checkPhase(op, Attached); err != nil {
		return err
	}
	if !s.fids.InUse(fid) {
		return resourceError(op, ErrUnknownFid)
	}
	tag, aerr := s.allocTag(op)
	if aerr != nil {
		return aerr
	}
	defer s.tags.Put(tag)

	if err := p9wire.MarshalTwstat(s.sendBuf, tag, fid, d); err != nil {
		return s.closeWith(framingError(op, err))
	}
	msg, rtErr := s.roundTrip(op, tag)
	if rtErr != nil {
		return rtErr
	}
	if e, ok := s.asRerror(op, msg, false); ok {
		return e
	}
	if _, ok := msg.(p9wire.Rwstat); !ok {
		return s.wrongType(op)
	}
	return nil
}

// Clunk retires fid. Per spec.md §4.4, the fid is released locally
// whether the server answers with Rclunk or Rerror — an errored clunk
// still invalidates the fid. Clunking a fid that is not (or is no
// longer) in service returns a KindResource error wrapping
// ErrUnknownFid and does not contact the server.
func (s *Session) Clunk(fid uint32) error {
	return s.clunkLike("clunk", fid, p9wire.MarshalTclunk)
}

// Remove clunks fid after asking the server to delete the file it
// names. Like Clunk, fid is released locally regardless of outcome.
func (s *Session) Remove(fid uint32) error {
	return s.clunkLike("remove", fid, p9wire.MarshalTremove)
}

func (s *Session) clunkLike(op string, fid uint32, marshal func(*p9wire.Buffer, uint16, uint32) error) error {
	if err := s.checkPhase(op, Attached); err != nil {
		return err
	}
	if !s.fids.InUse(fid) {
		return resourceError(op, ErrUnknownFid)
	}
	tag, aerr := s.allocTag(op)
	if aerr != nil {
		return aerr
	}
	defer s.tags.Put(tag)

	if err := marshal(s.sendBuf, tag, fid); err != nil {
		s.fids.Put(fid)
		delete(s.iounit, fid)
		return s.closeWith(framingError(op, err))
	}
	msg, rtErr := s.roundTrip(op, tag)
	s.fids.Put(fid)
	delete(s.iounit, fid)
	if rtErr != nil {
		return rtErr
	}
	if e, ok := s.asRerror(op, msg, false); ok {
		return e
	}
	switch msg.(type) {
	case p9wire.Rclunk, p9wire.Rremove:
		return nil
	default:
		return s.wrongType(op)
	}
}

// Flush cancels the request with the given tag. Because this Session
// never has more than one outstanding request (spec.md §5), and every
// other operation reads its reply before returning, a request is only
// outstanding while another operation is still in progress; Flush
// returns ErrNothingPending wrapped in a KindCaller error if no request
// is currently outstanding under oldtag.
func (s *Session) Flush(oldtag uint16) error {
	const op = "flush"
	if err := s.checkPhase(op, Attached); err != nil {
		return err
	}
	if !s.pending || s.pendTag != oldtag {
		return callerError(op, ErrNothingPending)
	}
	tag, aerr := s.allocTag(op)
	if aerr != nil {
		return aerr
	}
	defer s.tags.Put(tag)

	if err := p9wire.MarshalTflush(s.sendBuf, tag, oldtag); err != nil {
		return s.closeWith(framingError(op, err))
	}
	msg, rtErr := s.roundTrip(op, tag)
	s.pending = false
	if rtErr != nil {
		return rtErr
	}
	if e, ok := s.asRerror(op, msg, false); ok {
		return e
	}
	if _, ok := msg.(p9wire.Rflush); !ok {
		return s.wrongType(op)
	}
	return nil
}
