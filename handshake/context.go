// Copyright 2024 The tlscore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package handshake implements the server-side TLS 1.2 handshake
// finite state machine of spec.md §4.3: an incremental, restartable
// parser over fragmented ClientHello input, ciphersuite/curve/
// certificate selection, ServerHello flight emission, ClientKeyExchange
// and CertificateVerify consumption, and Finished production.
//
// The FSM never blocks on I/O (spec.md §5): callers feed it byte
// chunks and it returns either an assembled output flight, a
// POSTPONE sentinel meaning "need more input", or a fatal error.
package handshake

import (
	"github.com/packetgate/tlscore/config"
	"github.com/packetgate/tlscore/ecp"
	"github.com/packetgate/tlscore/handshake/ext"
	"github.com/packetgate/tlscore/kx"
	"github.com/packetgate/tlscore/mpi"
)

// Version is a two-byte TLS ProtocolVersion (RFC 5246 §A.1).
type Version struct {
	Major, Minor uint8
}

// Version32 is the only version this stack accepts from a ClientHello.
var Version32 = Version{Major: 3, Minor: 3}

// Less reports whether v is an earlier protocol version than o.
func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	return v.Minor < o.Minor
}

// Flags collects the handful of session-wide booleans spec.md §3's
// Handshake context calls out by name.
type Flags struct {
	SecureRenegotiation bool
	ExtendedMS          bool
	NewSessionTicket    bool
	Resume              bool
	CurvesExt           bool
	ClientExtensions    bool
	FallbackSCSVSeen    bool
	CompressedOnlyPeer  bool
}

// Certificate is the narrow view the handshake core needs of a
// server certificate; X.509 parsing itself is an external collaborator
// (spec.md §1 Out of scope).
type Certificate struct {
	Chain     [][]byte // DER-encoded chain, leaf first
	PublicSig ext.SigAlg
}

// Session is what session resumption and NewSessionTicket operate on.
type Session struct {
	ID           []byte
	MasterSecret []byte
	CipherSuite  uint16
}

// Context is per-connection scratch: the spec.md §3 "Handshake
// context." It exclusively owns its MPIs and point state; Close
// zeroises everything that might hold secret material.
type Context struct {
	Config        *config.Config
	Collaborators *Collaborators

	State State

	ClientRandom [32]byte
	ServerRandom [32]byte
	Version      Version

	offeredCurves           []uint16
	sigAlgs                 []ext.SigHashAlg
	offeredALPN             []string
	sessionID               []byte
	ticketBody              []byte
	offeredSessionTicketExt bool

	Suite       *CipherSuite
	Curve       *ecp.Group
	ECDH        *kx.ECDHContext
	DH          *kx.DHContext
	Cert        *Certificate
	ALPN        string
	VHostName   string
	Flags       Flags

	session       *Session
	masterSecret  []byte
	premaster     []byte

	hsParser clientHelloParser

	transcript []byte // handshake message bytes seen so far, for md_* / Finished
}

// NewContext creates a fresh per-connection handshake context. cfg may
// be nil, in which case config.Default() semantics apply.
func NewContext(cfg *config.Config, collab *Collaborators) *Context {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Context{
		Config:        cfg.Normalized(),
		Collaborators: collab,
		State:         StateClientHello,
	}
}

// Close zeroises secret-bearing state. Safe to call more than once.
func (c *Context) Close() {
	if c.ECDH != nil {
		c.ECDH.Zeroize()
	}
	if c.DH != nil {
		c.DH.Zeroize()
	}
	for i := range c.premaster {
		c.premaster[i] = 0
	}
	c.premaster = nil
	for i := range c.masterSecret {
		c.masterSecret[i] = 0
	}
	c.masterSecret = nil
}

// recordTranscript feeds a handshake message's bytes (header included)
// into the running transcript, the external update_checksum collaborator's
// job in spec.md §6; ChangeCipherSpec is deliberately never passed here.
func (c *Context) recordTranscript(msg []byte) {
	c.transcript = append(c.transcript, msg...)
	if c.Collaborators != nil && c.Collaborators.UpdateChecksum != nil {
		c.Collaborators.UpdateChecksum(c, msg)
	}
}

func (c *Context) now() int64 {
	if c.Collaborators != nil && c.Collaborators.Now != nil {
		return c.Collaborators.Now()
	}
	return 0
}

func (c *Context) rng(buf []byte) error {
	if c.Collaborators == nil || c.Collaborators.RNG == nil {
		return mpi.ErrRandomFailed
	}
	return c.Collaborators.RNG(buf)
}

// Premaster exposes the just-derived premaster secret to the external
// DeriveKeys collaborator (spec.md §6's derive_keys glue); it is
// zeroised by Close like every other secret the context holds.
func (c *Context) Premaster() []byte { return c.premaster }

// SetMasterSecret lets the DeriveKeys collaborator record the 48-byte
// master secret it computed from Premaster(), ClientRandom and
// ServerRandom.
func (c *Context) SetMasterSecret(ms []byte) { c.masterSecret = ms }

// MasterSecret returns the master secret derived for this connection,
// or nil before DeriveKeys has run.
func (c *Context) MasterSecret() []byte { return c.masterSecret }
