package p9wire

import "fmt"

// A Dir describes a directory entry, as returned by stat and accepted by
// wstat. String fields have no length limit other than MaxFilenameLen /
// MaxUidLen, enforced on the wire, not in this structure.
type Dir struct {
	Type   uint16
	Dev    uint32
	Qid    Qid
	Mode   uint32
	Atime  uint32
	Mtime  uint32
	Length uint64
	Name   string
	Uid    string
	Gid    string
	Muid   string
}

// IsDir reports whether d describes a directory.
func (d Dir) IsDir() bool { return d.Mode&DMDIR != 0 }

func (d Dir) String() string {
	return fmt.Sprintf("type=%d dev=%d qid=%s mode=%o atime=%d mtime=%d "+
		"length=%d name=%q uid=%q gid=%q muid=%q", d.Type, d.Dev, d.Qid,
		d.Mode, d.Atime, d.Mtime, d.Length, d.Name, d.Uid, d.Gid, d.Muid)
}

// encodedLen returns the number of bytes d occupies on the wire, its own
// 2-byte size field included, but not including the 2-byte nstat prefix
// that PutStat writes before it.
func (d Dir) encodedLen() int {
	return minStatLen + len(d.Name) + len(d.Uid) + len(d.Gid) + len(d.Muid)
}

// PutStat appends the 2-byte nstat count that precedes the Dir in an
// Rstat/Twstat body, then the wire form of d, which begins with its own
// 2-byte size field (nstat-2).
func PutStat(b *Buffer, d Dir) error {
	n := d.encodedLen()
	if n > maxStatLen {
		return ErrMalformedBody
	}
	if err := b.PutUint16(uint16(n)); err != nil {
		return err
	}
	if err := b.PutUint16(uint16(n - 2)); err != nil {
		return err
	}
	if err := b.PutUint16(d.Type); err != nil {
		return err
	}
	if err := b.PutUint32(d.Dev); err != nil {
		return err
	}
	if err := b.PutQid(d.Qid); err != nil {
		return err
	}
	if err := b.PutUint32(d.Mode); err != nil {
		return err
	}
	if err := b.PutUint32(d.Atime); err != nil {
		return err
	}
	if err := b.PutUint32(d.Mtime); err != nil {
		return err
	}
	if err := b.PutUint64(d.Length); err != nil {
		return err
	}
	if err := b.PutString(d.Name); err != nil {
		return err
	}
	if err := b.PutString(d.Uid); err != nil {
		return err
	}
	if err := b.PutString(d.Gid); err != nil {
		return err
	}
	return b.PutString(d.Muid)
}

// GetStat consumes a 2-byte nstat prefix and the Dir structure that
// follows it. It enforces that the Dir's own size field equals nstat-2
// (any discrepancy is ErrMalformedBody) and that every string field stays
// within its static limit.
func GetStat(b *Buffer) (Dir, error) {
	var d Dir

	nstat, err := b.GetUint16()
	if err != nil {
		return d, err
	}
	if int(nstat) < minStatLen || int(nstat) > maxStatLen {
		return d, ErrMalformedBody
	}
	// nstat counts the whole encoded Dir, including its own 2-byte size
	// field (see PutStat/encodedLen); that size field counts the
	// nstat-2 bytes after it.
	if b.Len() < int(nstat) {
		return d, ErrShortBuffer
	}
	size, err := b.GetUint16()
	if err != nil {
		return d, err
	}
	if int(size) != int(nstat)-2 {
		return d, ErrMalformedBody
	}
	remaining := int(nstat) - 2

	typ, err := b.GetUint16()
	if err != nil {
		return d, err
	}
	d.Type = typ
	remaining -= 2

	dev, err := b.GetUint32()
	if err != nil {
		return d, err
	}
	d.Dev = dev
	remaining -= 4

	qid, err := b.GetQid()
	if err != nil {
		return d, err
	}
	d.Qid = qid
	remaining -= QidLen

	mode, err := b.GetUint32()
	if err != nil {
		return d, err
	}
	d.Mode = mode
	remaining -= 4

	atime, err := b.GetUint32()
	if err != nil {
		return d, err
	}
	d.Atime = atime
	remaining -= 4

	mtime, err := b.GetUint32()
	if err != nil {
		return d, err
	}
	d.Mtime = mtime
	remaining -= 4

	length, err := b.GetUint64()
	if err != nil {
		return d, err
	}
	d.Length = length
	remaining -= 8

	name, err := b.GetString(remaining)
	if err != nil {
		return d, err
	}
	if len(name) > MaxFilenameLen {
		return d, ErrMalformedBody
	}
	d.Name = name
	remaining -= 2 + len(name)

	uid, err := b.GetString(remaining)
	if err != nil {
		return d, err
	}
	if len(uid) > MaxUidLen {
		return d, ErrMalformedBody
	}
	d.Uid = uid
	remaining -= 2 + len(uid)

	gid, err := b.GetString(remaining)
	if err != nil {
		return d, err
	}
	if len(gid) > MaxUidLen {
		return d, ErrMalformedBody
	}
	d.Gid = gid
	remaining -= 2 + len(gid)

	muid, err := b.GetString(remaining)
	if err != nil {
		return d, err
	}
	if len(muid) > MaxUidLen {
		return d, ErrMalformedBody
	}
	d.Muid = muid
	remaining -= 2 + len(muid)

	if remaining != 0 {
		return d, ErrMalformedBody
	}
	return d, nil
}
