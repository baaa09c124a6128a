package p9wire

// wireError is a lightweight error type for codec-level failures,
// following the same closed-string-constant pattern used throughout the
// 9P codecs this package is modeled on: no wrapping, no allocation on
// the error path.
type wireError string

func (e wireError) Error() string { return string(e) }

var (
	// ErrBufferFull is returned when a write would exceed a Buffer's
	// fixed capacity.
	ErrBufferFull = wireError("p9wire: buffer full")

	// ErrShortBuffer is returned when a read requests more bytes than
	// remain in a Buffer.
	ErrShortBuffer = wireError("p9wire: short buffer")

	// ErrStringTooLong is returned when a length-prefixed string's
	// declared length exceeds the remaining declared message body.
	ErrStringTooLong = wireError("p9wire: string too long")

	// ErrShortHeader is returned when a message's declared size is too
	// small to hold even the common header (size[4] type[1] tag[2]).
	ErrShortHeader = wireError("p9wire: short header")

	// ErrOversize is returned when a message's declared size exceeds
	// the negotiated msize.
	ErrOversize = wireError("p9wire: message exceeds msize")

	// ErrTruncated is returned when a message's declared size exceeds
	// the number of bytes actually available in the input.
	ErrTruncated = wireError("p9wire: truncated message")

	// ErrUnknownType is returned when a message's type byte does not
	// name any defined 9P2000 message variant, T or R.
	ErrUnknownType = wireError("p9wire: unknown message type")

	// ErrWrongDirection is returned when a message's type byte names a
	// well-formed T-message variant where an R-message was expected —
	// a well-defined type, but not one a client ever receives.
	ErrWrongDirection = wireError("p9wire: T-type message received as reply")

	// ErrMalformedBody is returned when a message body does not
	// strictly fill its declared size, or contains an internally
	// inconsistent length field (e.g. a Dir whose inner size disagrees
	// with the containing Rstat's nstat).
	ErrMalformedBody = wireError("p9wire: malformed message body")
)
