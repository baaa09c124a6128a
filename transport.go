package p9c

import (
	"io"
	"net"
)

// A Transport is the opaque, bidirectional byte stream a Session speaks
// 9P2000 over. Transport setup — dialing, TLS, serial line
// configuration — is out of scope for this package (spec.md §1); the
// caller constructs one and hands it to NewSession.
//
// Send and Recv behave like io.Writer.Write and io.Reader.Read: a short
// count with a nil error means "try again with the rest," and Recv
// returning (0, io.EOF) means the peer is done.
type Transport interface {
	Send(p []byte) (n int, err error)
	Recv(buf []byte) (n int, err error)
	Close() error
}

// NetTransport adapts a net.Conn to the Transport interface.
type NetTransport struct {
	net.Conn
}

// Send implements Transport.
func (t NetTransport) Send(p []byte) (int, error) { return t.Conn.Write(p) }

// Recv implements Transport.
func (t NetTransport) Recv(buf []byte) (int, error) { return t.Conn.Read(buf) }

// readFull reads exactly len(buf) bytes from t, the way io.ReadFull
// does for an io.Reader. It returns io.ErrUnexpectedEOF if the
// transport is closed partway through a message.
func readFull(t Transport, buf []byte) error {
	got := 0
	for got < len(buf) {
		n, err := t.Recv(buf[got:])
		got += n
		if err != nil {
			if err == io.EOF && got > 0 {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		if n == 0 {
			return io.ErrUnexpectedEOF
		}
	}
	return nil
}

// sendAll writes all of p to t, loops over short writes the way
// io.Copy does for an io.Writer.
func sendAll(t Transport, p []byte) error {
	for len(p) > 0 {
		n, err := t.Send(p)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		p = p[n:]
	}
	return nil
}
