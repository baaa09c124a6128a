package p9c

// Phase is the session engine's position in the lifecycle diagram of
// spec.md §4.4.
type Phase int

const (
	// Unversioned is the initial phase: only Version may be called.
	Unversioned Phase = iota
	// Versioned is entered once Version succeeds: Attach may be
	// called.
	Versioned
	// Attached is entered once Attach succeeds: Walk, Open, Create,
	// Read, Write, Stat, Wstat, Clunk, Remove, and Flush may be
	// called.
	Attached
	// Closed is terminal. No further operations may be performed; the
	// underlying Transport has been, or is about to be, closed.
	Closed
)

func (p Phase) String() string {
	switch p {
	case Unversioned:
		return "unversioned"
	case Versioned:
		return "versioned"
	case Attached:
		return "attached"
	case Closed:
		return "closed"
	}
	return "invalid"
}
