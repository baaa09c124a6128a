package p9wire

// Limits on variable-length fields. A client that enforces these before
// trusting a length-prefixed field never needs to allocate more than a
// fixed, known amount of memory to hold it.

// MaxVersionLen is the maximum length, in bytes, of the protocol version
// string in a Tversion/Rversion message.
const MaxVersionLen = 20

// MaxWElem is the maximum number of path elements in a single Twalk
// request, fixed by the 9P2000 protocol itself.
const MaxWElem = 16

// MaxFilenameLen is the maximum length, in bytes, of a single file name.
const MaxFilenameLen = 512

// MaxUidLen is the maximum length, in bytes, of a uid/gid/muid string in
// a Dir structure.
const MaxUidLen = 45

// MaxAttachLen is the maximum length, in bytes, of the aname field of a
// Tattach or Tauth message.
const MaxAttachLen = 255

// MaxErrorLen is the maximum length, in bytes, of the ename field of an
// Rerror message.
const MaxErrorLen = 512

// MinMsize is the smallest legal wire frame (size[4] + type[1] + tag[2]),
// the absolute floor below which a frame cannot even be parsed.
const MinMsize = 7

// MinNegotiatedMsize is the smallest msize a session may accept out of
// version negotiation (spec.md §3's session invariant, §4.4's handshake
// contract): a server proposing less is a protocol violation, not a
// frame too small to read.
const MinNegotiatedMsize = 256

// QidLen is the on-wire length of a Qid.
const QidLen = 13

// minStatLen is the length, in bytes, of a Dir structure with every
// string field empty.
const minStatLen = 2 + 2 + 4 + QidLen + 4 + 4 + 4 + 8 + 4*2

// maxStatLen is the longest a Dir structure is allowed to be: the
// fixed-width fields plus the longest possible name and three
// longest-possible uid/gid/muid strings.
const maxStatLen = minStatLen + MaxFilenameLen + 3*MaxUidLen

// Per-type minimum body length, not counting size[4] type[1] tag[2].
// Indexed by MsgType.
var minBodyLUT = [msgMax]int{
	msgTversion: 4 + 2,
	msgRversion: 4 + 2,
	msgTauth:    4 + 2 + 2,
	msgRauth:    QidLen,
	msgTattach:  4 + 4 + 2 + 2,
	msgRattach:  QidLen,
	msgRerror:   2,
	msgTflush:   2,
	msgRflush:   0,
	msgTwalk:    4 + 4 + 2,
	msgRwalk:    2,
	msgTopen:    4 + 1,
	msgRopen:    QidLen + 4,
	msgTcreate:  4 + 2 + 4 + 1,
	msgRcreate:  QidLen + 4,
	msgTread:    4 + 8 + 4,
	msgRread:    4,
	msgTwrite:   4 + 8 + 4,
	msgRwrite:   4,
	msgTclunk:   4,
	msgRclunk:   0,
	msgTremove:  4,
	msgRremove:  0,
	msgTstat:    4,
	msgRstat:    2 + minStatLen,
	msgTwstat:   4 + 2 + minStatLen,
	msgRwstat:   0,
}
