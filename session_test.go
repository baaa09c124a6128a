package p9c_test

import (
	"testing"

	"aqwari.net/net/p9c"
	"aqwari.net/net/p9c/p9test"
	"aqwari.net/net/p9c/p9wire"
)

func newHarness(t *testing.T) (*p9test.Harness, *p9c.Session, *p9test.Control) {
	t.Helper()
	h, err := p9test.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { h.Close() })

	tr, err := h.DialSession()
	if err != nil {
		t.Fatal(err)
	}
	ctrl, err := h.DialControl()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ctrl.Close() })

	return h, p9c.NewSession(tr), ctrl
}

// S1 — successful version negotiation.
func TestVersionSuccess(t *testing.T) {
	_, s, ctrl := newHarness(t)
	errc := make(chan error, 1)
	go func() { errc <- s.Version("9P2000") }()
	if err := ctrl.Command("rversion_success"); err != nil {
		t.Fatal(err)
	}
	if err := <-errc; err != nil {
		t.Fatalf("Version: %v", err)
	}
	if s.Phase() != p9c.Versioned {
		t.Fatalf("phase = %v, want Versioned", s.Phase())
	}
	if s.Msize() != p9c.DefaultMaxSize {
		t.Fatalf("msize = %d, want %d", s.Msize(), p9c.DefaultMaxSize)
	}
}

// S2 — server downgrades msize.
func TestVersionDowngradedMsize(t *testing.T) {
	_, s, ctrl := newHarness(t)
	errc := make(chan error, 1)
	go func() { errc <- s.Version("9P2000") }()
	if err := ctrl.Command("rversion_downgrade"); err != nil {
		t.Fatal(err)
	}
	if err := <-errc; err != nil {
		t.Fatalf("Version: %v", err)
	}
	if want := uint32(p9c.DefaultMaxSize / 2); s.Msize() != want {
		t.Fatalf("msize = %d, want %d", s.Msize(), want)
	}
}

// S3 — server reports a larger msize than requested: ProtocolViolation,
// session closed.
func TestVersionOversizeMsizeRejected(t *testing.T) {
	_, s, ctrl := newHarness(t)
	errc := make(chan error, 1)
	go func() { errc <- s.Version("9P2000") }()
	if err := ctrl.Command("rversion_msize_too_big"); err != nil {
		t.Fatal(err)
	}
	err := <-errc
	assertKind(t, err, p9c.KindNegotiation)
	if s.Phase() != p9c.Closed {
		t.Fatalf("phase = %v, want Closed", s.Phase())
	}
}

// Server proposes an msize below the 256-byte negotiation floor
// (spec.md §3's session invariant): ProtocolViolation, session closed.
func TestVersionUndersizeMsizeRejected(t *testing.T) {
	_, s, ctrl := newHarness(t)
	errc := make(chan error, 1)
	go func() { errc <- s.Version("9P2000") }()
	if err := ctrl.Command("rversion_msize_too_small"); err != nil {
		t.Fatal(err)
	}
	err := <-errc
	assertKind(t, err, p9c.KindNegotiation)
	if s.Phase() != p9c.Closed {
		t.Fatalf("phase = %v, want Closed", s.Phase())
	}
}

// S4 — stat round-trips the seed Dir.
func TestStatRoundTrip(t *testing.T) {
	_, s, ctrl := newHarness(t)
	versionAndAttach(t, s, ctrl)

	fid := s.RootFid()
	errc := make(chan struct {
		d   p9wire.Dir
		err error
	}, 1)
	go func() {
		d, err := s.Stat(fid)
		errc <- struct {
			d   p9wire.Dir
			err error
		}{d, err}
	}()
	if err := ctrl.Command("rstat_success"); err != nil {
		t.Fatal(err)
	}
	res := <-errc
	if res.err != nil {
		t.Fatalf("Stat: %v", res.err)
	}
	if res.d != p9test.SeedDir() {
		t.Fatalf("got %+v, want %+v", res.d, p9test.SeedDir())
	}
}

// S5 — tag mismatch closes the session.
func TestTagMismatch(t *testing.T) {
	_, s, ctrl := newHarness(t)
	errc := make(chan error, 1)
	go func() { errc <- s.Version("9P2000") }()
	if err := ctrl.Command("header_tag_mismatch"); err != nil {
		t.Fatal(err)
	}
	err := <-errc
	assertKind(t, err, p9c.KindCorrelation)
	if s.Phase() != p9c.Closed {
		t.Fatalf("phase = %v, want Closed", s.Phase())
	}
}

// S6 — malformed nstat closes the session.
func TestMalformedNstat(t *testing.T) {
	_, s, ctrl := newHarness(t)
	versionAndAttach(t, s, ctrl)

	fid := s.RootFid()
	errc := make(chan error, 1)
	go func() {
		_, err := s.Stat(fid)
		errc <- err
	}()
	if err := ctrl.Command("rstat_nstat_invalid"); err != nil {
		t.Fatal(err)
	}
	err := <-errc
	assertKind(t, err, p9c.KindFraming)
	if s.Phase() != p9c.Closed {
		t.Fatalf("phase = %v, want Closed", s.Phase())
	}
}

func TestVersionUnknownRejected(t *testing.T) {
	_, s, ctrl := newHarness(t)
	errc := make(chan error, 1)
	go func() { errc <- s.Version("9P2000") }()
	if err := ctrl.Command("rversion_unknown"); err != nil {
		t.Fatal(err)
	}
	assertKind(t, <-errc, p9c.KindNegotiation)
}

func TestVersionTooLongRejected(t *testing.T) {
	_, s, ctrl := newHarness(t)
	errc := make(chan error, 1)
	go func() { errc <- s.Version("9P2000") }()
	if err := ctrl.Command("rversion_version_too_long"); err != nil {
		t.Fatal(err)
	}
	assertKind(t, <-errc, p9c.KindFraming)
}

func TestHeaderWrongTypeRejected(t *testing.T) {
	_, s, ctrl := newHarness(t)
	errc := make(chan error, 1)
	go func() { errc <- s.Version("9P2000") }()
	if err := ctrl.Command("header_wrong_type"); err != nil {
		t.Fatal(err)
	}
	assertKind(t, <-errc, p9c.KindCorrelation)
}

func TestHeaderInvalidTypeRejected(t *testing.T) {
	_, s, ctrl := newHarness(t)
	errc := make(chan error, 1)
	go func() { errc <- s.Version("9P2000") }()
	if err := ctrl.Command("header_invalid_type"); err != nil {
		t.Fatal(err)
	}
	assertKind(t, <-errc, p9c.KindFraming)
}

func TestHeaderTooLargeTruncated(t *testing.T) {
	_, s, ctrl := newHarness(t)
	errc := make(chan error, 1)
	go func() { errc <- s.Version("9P2000") }()
	if err := ctrl.Command("header_too_large"); err != nil {
		t.Fatal(err)
	}
	assertKind(t, <-errc, p9c.KindFraming)
}

// WalkPartial: the server only walks a prefix of the requested names;
// the new fid must not be created, so the allocator releases it
// (invariant 7) and the caller sees WalkPartial.
func TestWalkPartial(t *testing.T) {
	_, s, ctrl := newHarness(t)
	versionAndAttach(t, s, ctrl)

	fid := s.RootFid()
	type result struct {
		newfid uint32
		err    error
	}
	errc := make(chan result, 1)
	go func() {
		newfid, _, err := s.Walk(fid, []string{"a", "b", "c"})
		errc <- result{newfid, err}
	}()
	if err := ctrl.Command("rwalk_partial"); err != nil {
		t.Fatal(err)
	}
	res := <-errc
	assertKind(t, res.err, p9c.KindResource)
}

// Rerror answering a non-version/attach operation is local recovery:
// the session stays usable.
func TestRerrorOnNonVersionIsRecoverable(t *testing.T) {
	_, s, ctrl := newHarness(t)
	versionAndAttach(t, s, ctrl)

	fid := s.RootFid()
	errc := make(chan error, 1)
	go func() {
		_, err := s.Stat(fid)
		errc <- err
	}()
	if err := ctrl.Command("rerror_on_non_version"); err != nil {
		t.Fatal(err)
	}
	err := <-errc
	assertKind(t, err, p9c.KindServer)
	if s.Phase() == p9c.Closed {
		t.Fatal("expected session to remain usable after a non-fatal Rerror")
	}
}

// Rerror answering Version closes the session.
func TestRerrorOnVersionIsFatal(t *testing.T) {
	_, s, ctrl := newHarness(t)
	errc := make(chan error, 1)
	go func() { errc <- s.Version("9P2000") }()
	if err := ctrl.Command("rerror_on_version"); err != nil {
		t.Fatal(err)
	}
	err := <-errc
	assertKind(t, err, p9c.KindServer)
	if s.Phase() != p9c.Closed {
		t.Fatal("expected Rerror answering Version to close the session")
	}
}

// Invariant 6: clunking an already-clunked fid is a local, no-contact
// error.
func TestClunkIdempotence(t *testing.T) {
	_, s, ctrl := newHarness(t)
	versionAndAttach(t, s, ctrl)

	fid := s.RootFid()
	errc := make(chan error, 1)
	go func() { errc <- s.Clunk(fid) }()
	if err := ctrl.Command("clunk_success"); err != nil {
		t.Fatal(err)
	}
	if err := <-errc; err != nil {
		t.Fatalf("Clunk: %v", err)
	}

	if err := s.Clunk(fid); err == nil {
		t.Fatal("expected error clunking an already-clunked fid")
	} else {
		assertKind(t, err, p9c.KindResource)
	}
}

func versionAndAttach(t *testing.T, s *p9c.Session, ctrl *p9test.Control) {
	t.Helper()
	errc := make(chan error, 1)
	go func() { errc <- s.Version("9P2000") }()
	if err := ctrl.Command("rversion_success"); err != nil {
		t.Fatal(err)
	}
	if err := <-errc; err != nil {
		t.Fatalf("Version: %v", err)
	}

	go func() { errc <- attachOnly(s) }()
	if err := ctrl.Command("rattach_success"); err != nil {
		t.Fatal(err)
	}
	if err := <-errc; err != nil {
		t.Fatalf("Attach: %v", err)
	}
}

func attachOnly(s *p9c.Session) error {
	_, err := s.Attach("glenda", "/")
	return err
}

func assertKind(t *testing.T, err error, want p9c.Kind) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	pe, ok := err.(*p9c.Error)
	if !ok {
		t.Fatalf("error %v is not a *p9c.Error", err)
	}
	if pe.Kind != want {
		t.Fatalf("error kind = %v, want %v", pe.Kind, want)
	}
}
