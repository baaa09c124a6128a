package p9wire

// This file holds the client's half of the codec: marshalling outgoing
// T-messages. Each function Resets buf and writes one complete,
// size-prefixed frame into it; buf's capacity is the largest frame it
// can hold.

// marshalFrame resets buf, writes the common size[4] type[1] tag[2]
// header, invokes body to write the message-specific fields, then
// patches the size field with the frame's true length. Any overflow of
// buf's capacity is reported as ErrOversize, per spec.md's marshalling
// contract.
func marshalFrame(buf *Buffer, typ MsgType, tag uint16, body func(*Buffer) error) error {
	buf.Reset()
	if err := buf.PutUint32(0); err != nil {
		return toOversize(err)
	}
	if err := buf.PutUint8(uint8(typ)); err != nil {
		return toOversize(err)
	}
	if err := buf.PutUint16(tag); err != nil {
		return toOversize(err)
	}
	if body != nil {
		if err := body(buf); err != nil {
			return toOversize(err)
		}
	}
	size := buf.n
	puint32(buf.buf[:4], uint32(size))
	return nil
}

func toOversize(err error) error {
	if err == ErrBufferFull {
		return ErrOversize
	}
	return err
}

// MarshalTversion writes a Tversion message. Tag is always NoTag.
func MarshalTversion(buf *Buffer, msize uint32, version string) error {
	if len(version) > MaxVersionLen {
		return ErrStringTooLong
	}
	return marshalFrame(buf, msgTversion, NoTag, func(b *Buffer) error {
		if err := b.PutUint32(msize); err != nil {
			return err
		}
		return b.PutString(version)
	})
}

// MarshalTattach writes a Tattach message establishing fid as the root
// of the file tree named by aname, for user uname. afid should be
// NoFid if the client does not wish to authenticate.
func MarshalTattach(buf *Buffer, tag uint16, fid, afid uint32, uname, aname string) error {
	return marshalFrame(buf, msgTattach, tag, func(b *Buffer) error {
		if err := b.PutUint32(fid); err != nil {
			return err
		}
		if err := b.PutUint32(afid); err != nil {
			return err
		}
		if err := b.PutString(uname); err != nil {
			return err
		}
		return b.PutString(aname)
	})
}

// MarshalTauth writes a Tauth message.
func MarshalTauth(buf *Buffer, tag uint16, afid uint32, uname, aname string) error {
	return marshalFrame(buf, msgTauth, tag, func(b *Buffer) error {
		if err := b.PutUint32(afid); err != nil {
			return err
		}
		if err := b.PutString(uname); err != nil {
			return err
		}
		return b.PutString(aname)
	})
}

// MarshalTwalk writes a Twalk message. names must have at most MaxWElem
// elements; callers are expected to have checked this (InvalidArgument
// in the session engine) before reaching the codec.
func MarshalTwalk(buf *Buffer, tag uint16, fid, newfid uint32, names []string) error {
	return marshalFrame(buf, msgTwalk, tag, func(b *Buffer) error {
		if err := b.PutUint32(fid); err != nil {
			return err
		}
		if err := b.PutUint32(newfid); err != nil {
			return err
		}
		if err := b.PutUint16(uint16(len(names))); err != nil {
			return err
		}
		for _, n := range names {
			if err := b.PutString(n); err != nil {
				return err
			}
		}
		return nil
	})
}

// MarshalTopen writes a Topen message.
func MarshalTopen(buf *Buffer, tag uint16, fid uint32, mode uint8) error {
	return marshalFrame(buf, msgTopen, tag, func(b *Buffer) error {
		if err := b.PutUint32(fid); err != nil {
			return err
		}
		return b.PutUint8(mode)
	})
}

// MarshalTcreate writes a Tcreate message.
func MarshalTcreate(buf *Buffer, tag uint16, fid uint32, name string, perm uint32, mode uint8) error {
	return marshalFrame(buf, msgTcreate, tag, func(b *Buffer) error {
		if err := b.PutUint32(fid); err != nil {
			return err
		}
		if err := b.PutString(name); err != nil {
			return err
		}
		if err := b.PutUint32(perm); err != nil {
			return err
		}
		return b.PutUint8(mode)
	})
}

// MarshalTread writes a Tread message.
func MarshalTread(buf *Buffer, tag uint16, fid uint32, offset uint64, count uint32) error {
	return marshalFrame(buf, msgTread, tag, func(b *Buffer) error {
		if err := b.PutUint32(fid); err != nil {
			return err
		}
		if err := b.PutUint64(offset); err != nil {
			return err
		}
		return b.PutUint32(count)
	})
}

// MarshalTwrite writes a Twrite message with data as its payload.
func MarshalTwrite(buf *Buffer, tag uint16, fid uint32, offset uint64, data []byte) error {
	return marshalFrame(buf, msgTwrite, tag, func(b *Buffer) error {
		if err := b.PutUint32(fid); err != nil {
			return err
		}
		if err := b.PutUint64(offset); err != nil {
			return err
		}
		if err := b.PutUint32(uint32(len(data))); err != nil {
			return err
		}
		return b.PutBytes(data)
	})
}

// MarshalTclunk writes a Tclunk message.
func MarshalTclunk(buf *Buffer, tag uint16, fid uint32) error {
	return marshalFrame(buf, msgTclunk, tag, func(b *Buffer) error {
		return b.PutUint32(fid)
	})
}

// MarshalTremove writes a Tremove message.
func MarshalTremove(buf *Buffer, tag uint16, fid uint32) error {
	return marshalFrame(buf, msgTremove, tag, func(b *Buffer) error {
		return b.PutUint32(fid)
	})
}

// MarshalTstat writes a Tstat message.
func MarshalTstat(buf *Buffer, tag uint16, fid uint32) error {
	return marshalFrame(buf, msgTstat, tag, func(b *Buffer) error {
		return b.PutUint32(fid)
	})
}

// MarshalTwstat writes a Twstat message.
func MarshalTwstat(buf *Buffer, tag uint16, fid uint32, d Dir) error {
	return marshalFrame(buf, msgTwstat, tag, func(b *Buffer) error {
		if err := b.PutUint32(fid); err != nil {
			return err
		}
		return PutStat(b, d)
	})
}

// MarshalTflush writes a Tflush message cancelling the request with tag
// oldtag.
func MarshalTflush(buf *Buffer, tag, oldtag uint16) error {
	return marshalFrame(buf, msgTflush, tag, func(b *Buffer) error {
		return b.PutUint16(oldtag)
	})
}
