// Copyright 2024 The tlscore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kx implements the ECDHE/DHE/RSA key-exchange helpers of
// spec.md §4.2/§4.3's ServerKeyExchange and ClientKeyExchange paths:
// parameter generation, peer-public-value parsing, and premaster
// derivation, including the RSA Bleichenbacher countermeasure.
package kx

import (
	"github.com/packetgate/tlscore/ecp"
	"github.com/packetgate/tlscore/mpi"
)

// ECDHContext holds one side's ephemeral (or static) EC Diffie-Hellman
// state for the lifetime of a single handshake.
type ECDHContext struct {
	Group *ecp.Group
	priv  *mpi.MPI
	Pub   *ecp.Point
}

// NewECDHEParams generates an ephemeral key pair on the given group,
// ready to be wire-encoded into ServerKeyExchange/ClientKeyExchange.
func NewECDHEParams(group *ecp.Group, rng func([]byte) error) (*ECDHContext, error) {
	d, q, err := group.GenerateKeyPair(rng)
	if err != nil {
		return nil, err
	}
	return &ECDHContext{Group: group, priv: d, Pub: q}, nil
}

// EncodePublic returns the wire-format ECPoint for this context's
// public value (ECParameters framing is the caller's responsibility,
// since it differs between ServerKeyExchange and ClientKeyExchange).
func (c *ECDHContext) EncodePublic() ([]byte, error) {
	if c.Group.Kind == ecp.KindMontgomeryX {
		return c.Group.EncodeX(c.Pub)
	}
	return c.Group.EncodeUncompressed(c.Pub)
}

// ReadECDHPublic parses a peer's wire-format ECPoint and validates it
// against the group (spec.md's check_pubkey contract).
func ReadECDHPublic(group *ecp.Group, buf []byte) (*ecp.Point, error) {
	p, err := group.DecodePoint(buf)
	if err != nil {
		return nil, err
	}
	if err := group.CheckPublicKey(p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeriveSecret computes the premaster secret as the X coordinate of
// d*Qpeer, big-endian encoded to the field's byte length (spec.md's
// "convert to premaster" step).
func (c *ECDHContext) DeriveSecret(peer *ecp.Point, rng func([]byte) error) ([]byte, error) {
	shared := ecp.NewPoint()
	if err := c.Group.ScalarMulGeneric(shared, c.priv, peer, rng); err != nil {
		return nil, err
	}
	coordLen := (c.Group.PBits + 7) / 8
	out := make([]byte, coordLen)
	if err := shared.X.WriteBinary(out, coordLen); err != nil {
		return nil, err
	}
	return out, nil
}

// Zeroize destroys the ephemeral private scalar.
func (c *ECDHContext) Zeroize() {
	c.priv.Zeroize()
}
