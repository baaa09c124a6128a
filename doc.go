// Package p9c implements the client side of the 9P2000 protocol, sized
// for resource-constrained environments: send and receive buffers and
// tag/fid tables sized once per Session, and a single outstanding
// request at a time. Decoding a reply still allocates (strings, walk
// qids, error values); only the frame buffers are reused.
//
// A Session drives the wire protocol over a caller-supplied Transport.
// Operations block until a complete reply is framed or the Transport
// fails; there is no background goroutine and no implicit concurrency.
// A caller wanting to use a Session from multiple goroutines must
// serialize access itself.
package p9c
