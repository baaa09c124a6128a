package p9test

import (
	"bufio"
	"fmt"
	"net"
	"time"

	"aqwari.net/net/p9c"
	"aqwari.net/retry"
)

// A Harness runs a mock 9P2000 server reachable over two TCP
// connections: the data channel, over which a Session speaks the wire
// protocol, and the control channel, a line-oriented text connection a
// test writes command names to. Each command name names one row of the
// conformance table; the harness answers the client's next request on
// the data channel with the corresponding byte sequence.
type Harness struct {
	dataLn net.Listener
	ctrlLn net.Listener
	data   net.Conn
}

// New starts a Harness. Accepting its two connections happens in a
// background goroutine; DialSession and DialControl retry their dial
// until that goroutine has caught up, so New does not itself block on
// an Accept.
func New() (*Harness, error) {
	dataLn, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	ctrlLn, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		dataLn.Close()
		return nil, err
	}
	h := &Harness{dataLn: dataLn, ctrlLn: ctrlLn}
	go h.run()
	return h, nil
}

func (h *Harness) run() {
	data, err := h.dataLn.Accept()
	if err != nil {
		return
	}
	h.data = data
	ctrl, err := h.ctrlLn.Accept()
	if err != nil {
		return
	}
	h.serveControl(ctrl)
}

func (h *Harness) serveControl(ctrl net.Conn) {
	defer ctrl.Close()
	sc := bufio.NewScanner(ctrl)
	for sc.Scan() {
		cmd := sc.Text()
		if err := h.handle(cmd); err != nil {
			fmt.Fprintf(ctrl, "error: %v\n", err)
			return
		}
		fmt.Fprintln(ctrl, "ok")
	}
}

// Close tears down both listeners and the data connection, if accepted.
func (h *Harness) Close() error {
	h.dataLn.Close()
	h.ctrlLn.Close()
	if h.data != nil {
		h.data.Close()
	}
	return nil
}

// dialRetry connects to addr, retrying with exponential backoff until
// the Harness's Accept has caught up — New returns before the harness
// goroutine has necessarily reached its Accept call.
func dialRetry(addr string) (net.Conn, error) {
	backoff := retry.Exponential(time.Millisecond).Max(100 * time.Millisecond)
	var lastErr error
	for try := 1; try <= 50; try++ {
		conn, err := net.Dial("tcp", addr)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		time.Sleep(backoff(try))
	}
	return nil, lastErr
}

// DialSession dials the harness's data channel and wraps it as a
// p9c.Transport, ready to hand to p9c.NewSession.
func (h *Harness) DialSession() (p9c.Transport, error) {
	conn, err := dialRetry(h.dataLn.Addr().String())
	if err != nil {
		return nil, err
	}
	return p9c.NetTransport{Conn: conn}, nil
}

// A Control is the test's end of the harness's control channel.
type Control struct {
	conn net.Conn
	sc   *bufio.Scanner
}

// DialControl dials the harness's control channel.
func (h *Harness) DialControl() (*Control, error) {
	conn, err := dialRetry(h.ctrlLn.Addr().String())
	if err != nil {
		return nil, err
	}
	return &Control{conn: conn, sc: bufio.NewScanner(conn)}, nil
}

// Command sends name to the harness and waits for its acknowledgement.
// The caller should already have issued (or be about to issue
// concurrently) the Session operation the command's reply answers;
// Command only synchronizes the control channel, not the data channel.
func (c *Control) Command(name string) error {
	if _, err := fmt.Fprintln(c.conn, name); err != nil {
		return err
	}
	if !c.sc.Scan() {
		if err := c.sc.Err(); err != nil {
			return err
		}
		return fmt.Errorf("p9test: control channel closed")
	}
	line := c.sc.Text()
	if line != "ok" {
		return fmt.Errorf("p9test: %s", line)
	}
	return nil
}

// Close closes the control connection.
func (c *Control) Close() error { return c.conn.Close() }
