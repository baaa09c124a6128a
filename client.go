package p9c

import "time"

// DefaultMaxSize is the msize a Client requests during version
// negotiation if MaxSize is left at zero.
const DefaultMaxSize = 8192

// DefaultMaxTags and DefaultMaxFids size a Session's tag and fid tables
// when a Client leaves MaxTags/MaxFids at zero — the "recommended
// defaults" of spec.md §4.3.
const (
	DefaultMaxTags = 16
	DefaultMaxFids = 32
)

// A Client holds the settings used to create new Sessions. The zero
// value of a Client is usable and chooses the defaults above.
type Client struct {
	// MaxSize is the largest 9P2000 message this client will ever send
	// or accept; it is the msize proposed during Version negotiation.
	// A server may negotiate a smaller value.
	MaxSize uint32

	// Timeout is copied into each Session this Client creates. No
	// Session operation applies it: every operation waits until the
	// Transport delivers a complete reply or returns an error.
	Timeout time.Duration

	// MaxTags and MaxFids size a Session's static tag and fid tables.
	// Zero selects DefaultMaxTags / DefaultMaxFids.
	MaxTags int
	MaxFids int
}

// DefaultClient is the Client used by NewSession when no Client is
// supplied.
var DefaultClient = &Client{}

// NewSession creates a Session that will speak 9P2000 over t, using c's
// settings. The session starts in phase Unversioned; callers must call
// Version before any other operation.
func (c *Client) NewSession(t Transport) *Session {
	maxSize := c.MaxSize
	if maxSize == 0 {
		maxSize = DefaultMaxSize
	}
	maxTags := c.MaxTags
	if maxTags == 0 {
		maxTags = DefaultMaxTags
	}
	maxFids := c.MaxFids
	if maxFids == 0 {
		maxFids = DefaultMaxFids
	}
	return newSession(t, maxSize, maxTags, maxFids, c.Timeout)
}

// NewSession creates a Session using DefaultClient's settings.
func NewSession(t Transport) *Session {
	return DefaultClient.NewSession(t)
}
