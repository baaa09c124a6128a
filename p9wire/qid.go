package p9wire

import "fmt"

// A QidType is a bit vector corresponding to the high 8 bits of a file's
// mode word, identifying what kind of file a Qid refers to.
type QidType uint8

const (
	QTDIR    QidType = 0x80 // directories
	QTAPPEND QidType = 0x40 // append-only files
	QTEXCL   QidType = 0x20 // exclusive-use files
	QTMOUNT  QidType = 0x10 // mounted channel
	QTAUTH   QidType = 0x08 // authentication file (afid)
	QTTMP    QidType = 0x04 // non-backed-up file
	QTFILE   QidType = 0x00 // plain file
)

// A Qid is the server's unique identifier for a file. Two files on the
// same server are the same file if and only if their Qids are equal;
// a change in Version means the file's content has changed.
type Qid struct {
	Type    QidType
	Version uint32
	Path    uint64
}

// Same reports whether q and o identify the same file, ignoring
// Version: q.Path uniquely names a file across its entire history on
// a server.
func (q Qid) Same(o Qid) bool { return q.Path == o.Path }

func (q Qid) String() string {
	return fmt.Sprintf("(%02x %d %x)", uint8(q.Type), q.Version, q.Path)
}

// DMDIR and friends are the corresponding bits in a Dir.Mode word; a
// QidType's bits occupy the high byte of a Dir's 32-bit Mode.
const (
	DMDIR    = uint32(QTDIR) << 24
	DMAPPEND = uint32(QTAPPEND) << 24
	DMEXCL   = uint32(QTEXCL) << 24
	DMMOUNT  = uint32(QTMOUNT) << 24
	DMAUTH   = uint32(QTAUTH) << 24
	DMTMP    = uint32(QTTMP) << 24
)
