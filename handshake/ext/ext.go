// Copyright 2024 The tlscore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ext implements the ClientHello/ServerHello extension codecs
// of spec.md §4.3 "Recognised extensions": SNI, signature algorithms,
// supported elliptic curves, supported point formats, extended master
// secret, session ticket, ALPN, and renegotiation info. Extension
// bodies arrive already contiguous (the handshake package buffers each
// one before dispatch), so these codecs read with a single
// cryptobyte.String pass rather than an incremental parser.
package ext

import (
	"golang.org/x/crypto/cryptobyte"

	tlserrors "github.com/packetgate/tlscore/errors"
)

// Type is a TLS ExtensionType (RFC 5246 §7.4.1.4, plus the RFCs listed
// in spec.md §6).
type Type uint16

const (
	TypeServerName           Type = 0
	TypeSupportedGroups      Type = 10 // "supported elliptic curves" pre-RFC7919 naming
	TypeECPointFormats       Type = 11
	TypeSignatureAlgorithms  Type = 13
	TypeALPN                 Type = 16
	TypeEncryptThenMAC       Type = 22 // RFC 7366: parsed and ignored per spec.md §6
	TypeExtendedMasterSecret Type = 23
	TypeSessionTicket        Type = 35
	TypeRenegotiationInfo    Type = 0xff01
)

var (
	ErrMalformed  = tlserrors.New("ext: malformed extension body").AtError()
	ErrDuplicate  = tlserrors.New("ext: duplicate entry").AtError()
	ErrTooMany    = tlserrors.New("ext: entry count exceeds configured cap").AtError()
)

// readUint8Vector is a small cryptobyte helper that reads a
// `opaque foo<0..255>` vector. No codec in this package calls it.
func readUint8Vector(s *cryptobyte.String) (cryptobyte.String, bool) {
	var out cryptobyte.String
	if !s.ReadUint8LengthPrefixed(&out) {
		return nil, false
	}
	return out, true
}

// readUint16Vector reads a `opaque foo<0..65535>` vector.
func readUint16Vector(s *cryptobyte.String) (cryptobyte.String, bool) {
	var out cryptobyte.String
	if !s.ReadUint16LengthPrefixed(&out) {
		return nil, false
	}
	return out, true
}
