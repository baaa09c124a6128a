package p9wire

import "testing"

func TestBufferScalarRoundTrip(t *testing.T) {
	b := NewBuffer(make([]byte, 64))
	if err := b.PutUint8(0x12); err != nil {
		t.Fatal(err)
	}
	if err := b.PutUint16(0x1234); err != nil {
		t.Fatal(err)
	}
	if err := b.PutUint32(0x12345678); err != nil {
		t.Fatal(err)
	}
	if err := b.PutUint64(0x1122334455667788); err != nil {
		t.Fatal(err)
	}
	if err := b.PutString("hello"); err != nil {
		t.Fatal(err)
	}
	if err := b.PutQid(Qid{Type: QTDIR, Version: 9, Path: 42}); err != nil {
		t.Fatal(err)
	}

	if v, err := b.GetUint8(); err != nil || v != 0x12 {
		t.Fatalf("GetUint8: %v, %v", v, err)
	}
	if v, err := b.GetUint16(); err != nil || v != 0x1234 {
		t.Fatalf("GetUint16: %v, %v", v, err)
	}
	if v, err := b.GetUint32(); err != nil || v != 0x12345678 {
		t.Fatalf("GetUint32: %v, %v", v, err)
	}
	if v, err := b.GetUint64(); err != nil || v != 0x1122334455667788 {
		t.Fatalf("GetUint64: %v, %v", v, err)
	}
	if s, err := b.GetString(b.Len()); err != nil || s != "hello" {
		t.Fatalf("GetString: %q, %v", s, err)
	}
	if q, err := b.GetQid(); err != nil || q != (Qid{Type: QTDIR, Version: 9, Path: 42}) {
		t.Fatalf("GetQid: %v, %v", q, err)
	}
	if b.Len() != 0 {
		t.Fatalf("expected buffer to be fully consumed, %d bytes left", b.Len())
	}
}

func TestBufferFull(t *testing.T) {
	b := NewBuffer(make([]byte, 2))
	if err := b.PutUint8(1); err != nil {
		t.Fatal(err)
	}
	if err := b.PutUint16(2); err != ErrBufferFull {
		t.Fatalf("expected ErrBufferFull, got %v", err)
	}
}

func TestBufferShort(t *testing.T) {
	b := NewBuffer(make([]byte, 4))
	b.PutUint32(1)
	b.GetUint32()
	if _, err := b.GetUint8(); err != ErrShortBuffer {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
}

func TestStringTooLong(t *testing.T) {
	b := NewBuffer(make([]byte, 64))
	b.PutUint16(5) // claims 5 bytes follow
	b.PutBytes([]byte("ab"))
	if _, err := b.GetString(4); err != ErrStringTooLong {
		t.Fatalf("expected ErrStringTooLong, got %v", err)
	}
}

func TestReset(t *testing.T) {
	b := NewBuffer(make([]byte, 4))
	b.PutUint32(1)
	b.Reset()
	if b.Len() != 0 {
		t.Fatalf("Reset left %d bytes", b.Len())
	}
	if err := b.PutUint32(2); err != nil {
		t.Fatal(err)
	}
}
