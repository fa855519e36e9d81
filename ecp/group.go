// Copyright 2024 The tlscore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ecp implements prime-field elliptic curve group arithmetic:
// Jacobian point representation, constant-time comb-method scalar
// multiplication with point randomisation, the Curve25519 Montgomery
// ladder, and the closed registry of curves admitted by this stack.
//
// Group values are immutable once loaded except for the lazily
// populated comb table T, which is why a *Group must not be shared
// across goroutines performing concurrent scalar multiplications; see
// the comment on Group.
package ecp

import (
	tlserrors "github.com/packetgate/tlscore/errors"
	"github.com/packetgate/tlscore/mpi"
)

// CurveID identifies a curve internally (distinct from its TLS wire id).
type CurveID int

const (
	CurveNone CurveID = iota
	CurveSECP256R1
	CurveSECP384R1
	CurveSECP521R1
	CurveBP256R1
	CurveBP384R1
	CurveBP512R1
	CurveX25519
)

// Kind distinguishes the curve shape, since Montgomery curves (only
// Curve25519 here) use a different point representation and ladder.
type Kind int

const (
	KindShortWeierstrass Kind = iota
	KindMontgomeryX
)

// Group holds the immutable domain parameters of one curve, plus a
// lazily-populated comb table.
//
// Group.comb (comb table T) is the one piece of documented shared mutable
// state: it is populated on first scalar multiplication against the
// generator and never reclaimed except on group teardown. Concurrent
// scalar multiplications against the *same* Group value that both race
// to populate T are not safe; callers that want concurrency must use
// per-goroutine Group instances (ByID, ByWireID and ByName return a
// fresh value each call).
type Group struct {
	ID    CurveID
	Kind  Kind
	Name  string
	WireID uint16 // TLS named-curve / named-group wire id

	P *mpi.MPI // prime field modulus
	A *mpi.MPI // curve coefficient A ((A+2)/4 for Montgomery curves)
	B *mpi.MPI // curve coefficient B (unused for Montgomery curves)
	N *mpi.MPI // subgroup order
	Gx *mpi.MPI
	Gy *mpi.MPI

	PBits int
	NBits int

	// window is the comb width w, in [2,7], used for scalar_mul; fixed
	// per spec.md at load time (default 6), distinct from the MPI
	// modexp sliding-window choice which is picked per call.
	window int

	comb []*Point // lazily built: 2^(window-1) precomputed multiples of G
	rr   *mpi.MPI // Montgomery RR scratch slot; no code in this package reads or sets it
}

// WindowSize returns the configured comb width for scalar multiplication.
func (g *Group) WindowSize() int { return g.window }

// SetWindowSize overrides the default comb width (bounded to [2,7] per
// spec.md §4.2) and invalidates any cached comb table.
func (g *Group) SetWindowSize(w int) error {
	if w < 2 || w > 7 {
		return ErrBadInput
	}
	g.window = w
	g.comb = nil
	return nil
}

var (
	ErrBadInput        = tlserrors.New("ecp: bad input data").AtError()
	ErrInvalidKey      = tlserrors.New("ecp: invalid key").AtError()
	ErrFeatureUnavail  = tlserrors.New("ecp: unsupported curve feature").AtError()
	ErrBufferTooSmall  = tlserrors.New("ecp: buffer too small").AtError()
)

func mpiFromHex(h string) *mpi.MPI {
	m := mpi.New()
	m.ReadBinary(hexBytes(h))
	return m
}

func hexBytes(s string) []byte {
	if len(s)%2 != 0 {
		s = "0" + s
	}
	b := make([]byte, len(s)/2)
	for i := range b {
		b[i] = hexByte(s[i*2])<<4 | hexByte(s[i*2+1])
	}
	return b
}

func hexByte(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
