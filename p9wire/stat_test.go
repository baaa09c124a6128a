package p9wire

import "testing"

func seedDir() Dir {
	return Dir{
		Type:   9001,
		Dev:    5,
		Qid:    Qid{Type: 23, Version: 2342, Path: 1337},
		Mode:   DMDIR,
		Atime:  1494443596,
		Mtime:  1494443609,
		Length: 2342,
		Name:   "testfile",
		Uid:    "testuser",
		Gid:    "testgroup",
		Muid:   "ken",
	}
}

func TestStatRoundTrip(t *testing.T) {
	d := seedDir()
	buf := NewBuffer(make([]byte, 512))
	if err := PutStat(buf, d); err != nil {
		t.Fatal(err)
	}
	got, err := GetStat(buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != d {
		t.Fatalf("got %+v, want %+v", got, d)
	}
	if buf.Len() != 0 {
		t.Fatalf("%d bytes left unconsumed", buf.Len())
	}
}

func TestStatBadNstat(t *testing.T) {
	d := seedDir()
	buf := NewBuffer(make([]byte, 512))
	PutStat(buf, d)
	bs := buf.Bytes()
	bs[0], bs[1] = 0x39, 0x05 // 1337, little-endian
	if _, err := GetStat(newBufferFromBytes(bs)); err != ErrMalformedBody {
		t.Fatalf("expected ErrMalformedBody, got %v", err)
	}
}

// newBufferFromBytes wraps already-populated bytes as a readable Buffer,
// for tests that mutate an encoded message in place.
func newBufferFromBytes(b []byte) *Buffer {
	buf := NewBuffer(b)
	buf.n = len(b)
	return buf
}

func TestStatIsDir(t *testing.T) {
	d := seedDir()
	if !d.IsDir() {
		t.Fatal("expected IsDir() true for DMDIR mode")
	}
	d.Mode = 0
	if d.IsDir() {
		t.Fatal("expected IsDir() false")
	}
}
