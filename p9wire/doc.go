// Package p9wire provides low-level routines for marshalling and
// unmarshalling 9P2000 messages.
//
// The p9wire package is meant for use by a 9P2000 client that runs in a
// resource-constrained environment: it marshals into and unmarshals from
// caller-supplied buffers of fixed capacity. Decoding is not free of
// allocation: strings, Rwalk's qid slice and each decoded message value
// are allocated, while Rread data aliases the input frame. Message bodies
// are validated strictly against the declared size field; no message is
// ever partially trusted.
package p9wire
