// Copyright 2024 The tlscore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds the tunables spec.md documents as compile-time
// constants in the original implementation (window size, ciphersuite
// byte cap, ALPN/curve caps), exposed here as an ordinary struct with
// documented defaults, in the teacher's Config-with-defaults style.
//
// Config has no field for a record-layer bulk cipher: symmetric record
// encryption/MAC is explicitly out of scope for this handshake core
// (spec.md §1), owned entirely by whatever record-layer collaborator
// the caller wires in around Context — for example an AEAD registered
// from golang.org/x/crypto/chacha20poly1305, the way a caller would
// plug in AES-GCM or ChaCha20-Poly1305 once key_block derivation
// (DeriveKeys) has produced the traffic keys.
package config

import "github.com/packetgate/tlscore/mpi"

// Config holds the handshake core's tunables. The zero value is not
// meaningful; use Default() or clone an existing Config and override
// individual fields.
type Config struct {
	// ScalarMulWindowSize is the comb width w for ECP scalar
	// multiplication, bounded to [2,7]; spec.md defaults this to 6.
	ScalarMulWindowSize int

	// MaxCipherSuiteBytes caps the number of raw bytes read from a
	// ClientHello's cipher_suites vector into the retained css[] list;
	// excess bytes are still consumed from the wire (spec.md's
	// documented clamp-and-continue policy) but not retained.
	MaxCipherSuiteBytes int

	// MaxALPNProtocols caps how many protocol names from the ALPN
	// extension are considered during negotiation.
	MaxALPNProtocols int

	// MaxSupportedCurves caps how many named groups from the
	// supported_groups extension are retained in client preference
	// order.
	MaxSupportedCurves int

	// MaxSessionTicketBytes bounds the opaque ticket blob accepted in
	// the session_ticket extension before handing it to the external
	// ticket parser.
	MaxSessionTicketBytes int

	// RequireExtendedMasterSecret, when true, aborts any handshake
	// whose ClientHello did not offer the extended_master_secret
	// extension (RFC 7627). Off by default, matching common server
	// deployments that still interop with legacy clients.
	RequireExtendedMasterSecret bool

	// CertificateRequestEnabled toggles emission of the optional
	// CertificateRequest message; disabled per spec.md §4.3 ("off by
	// default in this revision").
	CertificateRequestEnabled bool

	// dheP and dheG are the server's configured DHE group (spec.md
	// §4.3: "DHE: set group from configured (P, G)"). Unexported since
	// the only supported way to set them is SetDHGroup, which keeps the
	// two MPIs consistent with each other.
	dheP, dheG *mpi.MPI
}

// SetDHGroup configures the fixed (P, G) used for every DHE
// ServerKeyExchange. Without a configured group, DHE suites are
// skipped during ciphersuite selection.
func (c *Config) SetDHGroup(p, g *mpi.MPI) {
	c.dheP, c.dheG = p, g
}

// DHParams returns the configured DHE group, if any.
func (c *Config) DHParams() (p, g *mpi.MPI, ok bool) {
	if c.dheP == nil || c.dheG == nil {
		return nil, nil, false
	}
	return c.dheP, c.dheG, true
}

// Default returns the configuration spec.md describes as the shipped
// defaults.
func Default() *Config {
	return &Config{
		ScalarMulWindowSize:         6,
		MaxCipherSuiteBytes:         2 << 8,
		MaxALPNProtocols:            16,
		MaxSupportedCurves:          16,
		MaxSessionTicketBytes:       4096,
		RequireExtendedMasterSecret: false,
		CertificateRequestEnabled:   false,
	}
}

// clone returns a shallow copy, filling any zero-valued tunable from
// Default() so partially-constructed Configs behave sanely.
func (c *Config) clone() *Config {
	d := Default()
	out := *c
	if out.ScalarMulWindowSize == 0 {
		out.ScalarMulWindowSize = d.ScalarMulWindowSize
	}
	if out.MaxCipherSuiteBytes == 0 {
		out.MaxCipherSuiteBytes = d.MaxCipherSuiteBytes
	}
	if out.MaxALPNProtocols == 0 {
		out.MaxALPNProtocols = d.MaxALPNProtocols
	}
	if out.MaxSupportedCurves == 0 {
		out.MaxSupportedCurves = d.MaxSupportedCurves
	}
	if out.MaxSessionTicketBytes == 0 {
		out.MaxSessionTicketBytes = d.MaxSessionTicketBytes
	}
	return &out
}

// Normalized returns a copy of c with all zero-valued tunables filled
// from Default() and the window size clamped into [2,7].
func (c *Config) Normalized() *Config {
	out := c.clone()
	if out.ScalarMulWindowSize < 2 {
		out.ScalarMulWindowSize = 2
	}
	if out.ScalarMulWindowSize > 7 {
		out.ScalarMulWindowSize = 7
	}
	return out
}
