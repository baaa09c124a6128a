package p9wire

// This file holds the server-to-client half of the codec: unmarshalling
// incoming R-messages (and the distinguished Rerror, which can answer
// any outstanding request).

// Rversion is the reply to Tversion, carrying the msize and protocol
// version the server has chosen.
type Rversion struct {
	header
	Msize   uint32
	Version string
}

// Rauth is the reply to Tauth.
type Rauth struct {
	header
	Aqid Qid
}

// Rattach is the reply to Tattach.
type Rattach struct {
	header
	Qid Qid
}

// Rerror answers any outstanding request with a server-reported error.
// Rerror implements the error interface.
type Rerror struct {
	header
	Ename string
}

func (m Rerror) Error() string { return m.Ename }

// Rflush is the reply to Tflush.
type Rflush struct{ header }

// Rwalk is the reply to Twalk. Wqid has at most the nwname requested by
// the corresponding Twalk; fewer means a partial walk.
type Rwalk struct {
	header
	Wqid []Qid
}

// Ropen is the reply to Topen.
type Ropen struct {
	header
	Qid    Qid
	IOunit uint32
}

// Rcreate is the reply to Tcreate.
type Rcreate struct {
	header
	Qid    Qid
	IOunit uint32
}

// Rread is the reply to Tread. Data aliases the receive buffer and is
// only valid until the next operation on the session that produced it.
type Rread struct {
	header
	Data []byte
}

// Rwrite is the reply to Twrite.
type Rwrite struct {
	header
	Count uint32
}

// Rclunk is the reply to Tclunk.
type Rclunk struct{ header }

// Rremove is the reply to Tremove.
type Rremove struct{ header }

// Rstat is the reply to Tstat.
type Rstat struct {
	header
	Stat Dir
}

// Rwstat is the reply to Twstat.
type Rwstat struct{ header }

// isRType reports whether typ is one of the 14 types a client ever
// unmarshals. A type outside this set but still within the defined
// 9P2000 enumeration (a T-type) is a distinct error from a type that
// isn't defined at all — see Unmarshal.
func isRType(typ MsgType) bool {
	switch typ {
	case msgRversion, msgRauth, msgRattach, msgRerror, msgRflush,
		msgRwalk, msgRopen, msgRcreate, msgRread, msgRwrite,
		msgRclunk, msgRremove, msgRstat, msgRwstat:
		return true
	}
	return false
}

// Unmarshal decodes a single, complete 9P2000 frame — exactly the bytes
// of one message, size prefix included — into its concrete R-message
// type. msize bounds the frame's declared size field, per the
// session's negotiated (or default, pre-negotiation) maximum.
//
// Unmarshal enforces, in order: ErrShortHeader if the declared size
// can't hold even the common header; ErrOversize if it exceeds msize;
// ErrTruncated if the caller didn't actually supply that many bytes;
// ErrUnknownType if the type byte names nothing in the 9P2000
// enumeration; ErrWrongDirection if it names a T-type (a well-formed
// message, but not one a client ever receives); and ErrMalformedBody
// for any structural problem within the body.
func Unmarshal(frame []byte, msize uint32) (Msg, error) {
	if len(frame) < 4 {
		return nil, ErrShortHeader
	}
	size := guint32(frame[:4])
	if size < MinMsize {
		return nil, ErrShortHeader
	}
	if uint64(size) > uint64(msize) {
		return nil, ErrOversize
	}
	if int(size) != len(frame) {
		return nil, ErrTruncated
	}
	typ := MsgType(frame[4])
	if !typ.valid() {
		return nil, ErrUnknownType
	}
	if !isRType(typ) {
		return nil, ErrWrongDirection
	}
	tag := guint16(frame[5:7])
	body := frame[7:]
	if len(body) < minBodyLUT[typ] {
		return nil, ErrMalformedBody
	}
	b := NewBuffer(body)
	b.n = len(body)
	return decodeBody(typ, tag, b)
}

func decodeBody(typ MsgType, tag uint16, b *Buffer) (Msg, error) {
	h := header{tag: tag}
	switch typ {
	case msgRversion:
		msize, err := b.GetUint32()
		if err != nil {
			return nil, err
		}
		version, err := b.GetString(b.Len())
		if err != nil {
			return nil, err
		}
		if b.Len() != 0 {
			return nil, ErrMalformedBody
		}
		// The "unknown" sentinel is the one version string exempt from
		// MaxVersionLen: a server is always free to say it doesn't speak
		// our dialect, regardless of how long that dialect's name is.
		if len(version) > MaxVersionLen && version != "unknown" {
			return nil, ErrStringTooLong
		}
		return Rversion{header: h, Msize: msize, Version: version}, nil

	case msgRauth:
		qid, err := b.GetQid()
		if err != nil {
			return nil, err
		}
		if b.Len() != 0 {
			return nil, ErrMalformedBody
		}
		return Rauth{header: h, Aqid: qid}, nil

	case msgRattach:
		qid, err := b.GetQid()
		if err != nil {
			return nil, err
		}
		if b.Len() != 0 {
			return nil, ErrMalformedBody
		}
		return Rattach{header: h, Qid: qid}, nil

	case msgRerror:
		ename, err := b.GetString(b.Len())
		if err != nil {
			return nil, err
		}
		if b.Len() != 0 {
			return nil, ErrMalformedBody
		}
		if len(ename) > MaxErrorLen {
			return nil, ErrMalformedBody
		}
		return Rerror{header: h, Ename: ename}, nil

	case msgRflush:
		if b.Len() != 0 {
			return nil, ErrMalformedBody
		}
		return Rflush{header: h}, nil

	case msgRwalk:
		nwqid, err := b.GetUint16()
		if err != nil {
			return nil, err
		}
		if int(nwqid) > MaxWElem {
			return nil, ErrMalformedBody
		}
		if b.Len() != int(nwqid)*QidLen {
			return nil, ErrMalformedBody
		}
		wqid := make([]Qid, nwqid)
		for i := range wqid {
			q, err := b.GetQid()
			if err != nil {
				return nil, err
			}
			wqid[i] = q
		}
		return Rwalk{header: h, Wqid: wqid}, nil

	case msgRopen:
		qid, err := b.GetQid()
		if err != nil {
			return nil, err
		}
		iounit, err := b.GetUint32()
		if err != nil {
			return nil, err
		}
		if b.Len() != 0 {
			return nil, ErrMalformedBody
		}
		return Ropen{header: h, Qid: qid, IOunit: iounit}, nil

	case msgRcreate:
		qid, err := b.GetQid()
		if err != nil {
			return nil, err
		}
		iounit, err := b.GetUint32()
		if err != nil {
			return nil, err
		}
		if b.Len() != 0 {
			return nil, ErrMalformedBody
		}
		return Rcreate{header: h, Qid: qid, IOunit: iounit}, nil

	case msgRread:
		count, err := b.GetUint32()
		if err != nil {
			return nil, err
		}
		if b.Len() != int(count) {
			return nil, ErrMalformedBody
		}
		data, err := b.GetBytes(int(count))
		if err != nil {
			return nil, err
		}
		return Rread{header: h, Data: data}, nil

	case msgRwrite:
		count, err := b.GetUint32()
		if err != nil {
			return nil, err
		}
		if b.Len() != 0 {
			return nil, ErrMalformedBody
		}
		return Rwrite{header: h, Count: count}, nil

	case msgRclunk:
		if b.Len() != 0 {
			return nil, ErrMalformedBody
		}
		return Rclunk{header: h}, nil

	case msgRremove:
		if b.Len() != 0 {
			return nil, ErrMalformedBody
		}
		return Rremove{header: h}, nil

	case msgRstat:
		stat, err := GetStat(b)
		if err != nil {
			return nil, err
		}
		if b.Len() != 0 {
			return nil, ErrMalformedBody
		}
		return Rstat{header: h, Stat: stat}, nil

	case msgRwstat:
		if b.Len() != 0 {
			return nil, ErrMalformedBody
		}
		return Rwstat{header: h}, nil
	}
	return nil, ErrUnknownType
}
