package p9wire

import "encoding/binary"

// shorthand for the byte-order this package uses throughout: 9P2000 is
// little-endian end to end.
var (
	guint16 = binary.LittleEndian.Uint16
	guint32 = binary.LittleEndian.Uint32
	guint64 = binary.LittleEndian.Uint64
	puint16 = binary.LittleEndian.PutUint16
	puint32 = binary.LittleEndian.PutUint32
	puint64 = binary.LittleEndian.PutUint64
)

// A Buffer is a fixed-capacity byte buffer used to marshal and unmarshal
// 9P messages without allocating. Writes append to the end of the
// buffer and fail with ErrBufferFull if they would exceed its capacity.
// Reads consume from the front of the buffer and fail with
// ErrShortBuffer if they would read past its length.
//
// The zero value is not usable; use NewBuffer.
type Buffer struct {
	buf []byte // buf[:cap(buf)] is the backing array
	n   int    // length of valid data
	off int    // read offset
}

// NewBuffer returns a Buffer backed by storage, with zero length. The
// Buffer will never grow past len(storage).
func NewBuffer(storage []byte) *Buffer {
	return &Buffer{buf: storage}
}

// Reset empties b, making its full capacity available for writes and
// discarding any unread input.
func (b *Buffer) Reset() {
	b.n = 0
	b.off = 0
}

// Bytes returns the unread portion of b's contents. The returned slice
// aliases b's storage and is only valid until the next call to Reset.
func (b *Buffer) Bytes() []byte { return b.buf[b.off:b.n] }

// Len returns the number of unread bytes in b.
func (b *Buffer) Len() int { return b.n - b.off }

// Cap returns b's total capacity.
func (b *Buffer) Cap() int { return cap(b.buf) }

func (b *Buffer) grow(n int) ([]byte, error) {
	if b.n+n > cap(b.buf) {
		return nil, ErrBufferFull
	}
	s := b.buf[b.n : b.n+n]
	b.n += n
	return s, nil
}

func (b *Buffer) take(n int) ([]byte, error) {
	if b.off+n > b.n {
		return nil, ErrShortBuffer
	}
	s := b.buf[b.off : b.off+n]
	b.off += n
	return s, nil
}

// PutUint8 appends a single byte to b.
func (b *Buffer) PutUint8(v uint8) error {
	s, err := b.grow(1)
	if err != nil {
		return err
	}
	s[0] = v
	return nil
}

// PutUint16 appends a little-endian uint16 to b.
func (b *Buffer) PutUint16(v uint16) error {
	s, err := b.grow(2)
	if err != nil {
		return err
	}
	puint16(s, v)
	return nil
}

// PutUint32 appends a little-endian uint32 to b.
func (b *Buffer) PutUint32(v uint32) error {
	s, err := b.grow(4)
	if err != nil {
		return err
	}
	puint32(s, v)
	return nil
}

// PutUint64 appends a little-endian uint64 to b.
func (b *Buffer) PutUint64(v uint64) error {
	s, err := b.grow(8)
	if err != nil {
		return err
	}
	puint64(s, v)
	return nil
}

// PutBytes appends p verbatim, with no length prefix.
func (b *Buffer) PutBytes(p []byte) error {
	s, err := b.grow(len(p))
	if err != nil {
		return err
	}
	copy(s, p)
	return nil
}

// PutString appends a 2-byte little-endian length prefix followed by
// the UTF-8 bytes of s. It does not itself enforce MaxVersionLen-style
// limits; callers validate string length before calling PutString.
func (b *Buffer) PutString(s string) error {
	if len(s) > 0xffff {
		return ErrStringTooLong
	}
	if err := b.PutUint16(uint16(len(s))); err != nil {
		return err
	}
	return b.PutBytes([]byte(s))
}

// PutQid appends the 13-byte wire form of q.
func (b *Buffer) PutQid(q Qid) error {
	if err := b.PutUint8(uint8(q.Type)); err != nil {
		return err
	}
	if err := b.PutUint32(q.Version); err != nil {
		return err
	}
	return b.PutUint64(q.Path)
}

// GetUint8 consumes and returns one byte from the front of b.
func (b *Buffer) GetUint8() (uint8, error) {
	s, err := b.take(1)
	if err != nil {
		return 0, err
	}
	return s[0], nil
}

// GetUint16 consumes and returns a little-endian uint16 from the front of b.
func (b *Buffer) GetUint16() (uint16, error) {
	s, err := b.take(2)
	if err != nil {
		return 0, err
	}
	return guint16(s), nil
}

// GetUint32 consumes and returns a little-endian uint32 from the front of b.
func (b *Buffer) GetUint32() (uint32, error) {
	s, err := b.take(4)
	if err != nil {
		return 0, err
	}
	return guint32(s), nil
}

// GetUint64 consumes and returns a little-endian uint64 from the front of b.
func (b *Buffer) GetUint64() (uint64, error) {
	s, err := b.take(8)
	if err != nil {
		return 0, err
	}
	return guint64(s), nil
}

// GetBytes consumes and returns the next n bytes from the front of b.
// The returned slice aliases b's storage.
func (b *Buffer) GetBytes(n int) ([]byte, error) {
	return b.take(n)
}

// GetString consumes a 2-byte length prefix and the following UTF-8
// payload. maxRemaining bounds the declared length against the number
// of bytes the caller knows should still be available in the enclosing
// message (not just in b); a length that exceeds it is ErrStringTooLong
// rather than ErrShortBuffer, so callers can distinguish "the server
// lied about the message size" from "the buffer ran out."
func (b *Buffer) GetString(maxRemaining int) (string, error) {
	n, err := b.GetUint16()
	if err != nil {
		return "", err
	}
	if int(n) > maxRemaining-2 {
		return "", ErrStringTooLong
	}
	s, err := b.take(int(n))
	if err != nil {
		return "", err
	}
	return string(s), nil
}

// GetQid consumes and returns a 13-byte Qid from the front of b.
func (b *Buffer) GetQid() (Qid, error) {
	s, err := b.take(QidLen)
	if err != nil {
		return Qid{}, err
	}
	return Qid{
		Type:    QidType(s[0]),
		Version: guint32(s[1:5]),
		Path:    guint64(s[5:13]),
	}, nil
}
