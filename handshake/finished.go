package handshake

import (
	"crypto/subtle"

	"github.com/packetgate/tlscore/alert"
)

// finishedBodyLen is fixed for TLS 1.2 (RFC 5246 §7.4.9).
const finishedBodyLen = 12

// FeedChangeCipherSpec records that the peer's ChangeCipherSpec
// arrived. It is not part of the handshake transcript (spec.md §4.3).
func (c *Context) FeedChangeCipherSpec(body []byte) error {
	if len(body) != 1 || body[0] != 0x01 {
		return alert.ErrBadHSChangeCipherSpec
	}
	if c.Flags.Resume {
		c.State = StateServerFinished
	} else {
		c.State = StateClientFinished
	}
	return nil
}

// FeedClientFinished verifies the client's Finished MAC against the
// value the external key-derivation collaborator computed, and
// decides whether to wrap up (resumption) or emit the server's
// ChangeCipherSpec/Finished flight next.
//
// This is also where a Bleichenbacher-countermeasure RSA premaster
// first becomes observably wrong: the substituted random premaster
// (kx.DeriveRSAPremaster) propagates through DeriveKeys into an
// unrelated Finished MAC, so a corrupted RSA ClientKeyExchange fails
// exactly here, not at ClientKeyExchange parsing (spec.md §7/§8).
func (c *Context) FeedClientFinished(body []byte, expected []byte) error {
	if len(body) != finishedBodyLen || len(expected) != finishedBodyLen {
		return alert.ErrBadHSFinished
	}
	if subtle.ConstantTimeCompare(body, expected) != 1 {
		return alert.ErrBadHSFinished
	}
	c.recordTranscript(frame(HTFinished, body))

	if c.Flags.Resume {
		c.State = StateHandshakeWrapup
		return nil
	}
	c.State = StateServerChangeCipherSpec
	return nil
}

// BuildServerFinishedFlight assembles the server's
// ChangeCipherSpec/Finished pair (or, on resumption, the whole
// ChangeCipherSpec/Finished pair that opens the short flow — the
// caller is responsible for invoking this at the right point given
// Context.Flags.Resume, per spec.md §4.3's "Resumption reorders the
// two ChangeCipherSpec/Finished pairs").
func (c *Context) BuildServerFinishedFlight(verifyData []byte) ([]byte, []Segment, error) {
	if len(verifyData) != finishedBodyLen {
		return nil, nil, alert.ErrBadHSFinished
	}
	ccs := []byte{0x01}
	if c.Collaborators != nil && c.Collaborators.WriteChangeCipherSpec != nil {
		ccs = c.Collaborators.WriteChangeCipherSpec(c)
	}

	var segs []Segment
	if c.Flags.NewSessionTicket {
		ticketBody, err := c.buildNewSessionTicket()
		if err != nil {
			return nil, nil, err
		}
		segs = append(segs, Segment{Kind: HTNewSessionTicket, Body: ticketBody})
		c.recordTranscript(frame(HTNewSessionTicket, ticketBody))
	}

	segs = append(segs, Segment{Kind: HTFinished, Body: verifyData})
	c.recordTranscript(frame(HTFinished, verifyData))

	if c.Flags.Resume {
		c.State = StateClientChangeCipherSpec
	} else {
		c.State = StateHandshakeWrapup
	}
	return ccs, segs, nil
}
