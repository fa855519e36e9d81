package ecp

import "github.com/packetgate/tlscore/mpi"

// EncodeUncompressed writes the TLS uncompressed point encoding
// (0x04 || X || Y, each coordinate padded to ceil(pbits/8)), or the
// single byte 0x00 for the point at infinity, per spec.md §4.2.
func (g *Group) EncodeUncompressed(p *Point) ([]byte, error) {
	if p.IsInfinity() {
		return []byte{0x00}, nil
	}
	if err := g.Normalize(p); err != nil {
		return nil, err
	}
	coordLen := (g.PBits + 7) / 8
	out := make([]byte, 1+2*coordLen)
	out[0] = 0x04
	if err := p.X.WriteBinary(out[1:1+coordLen], coordLen); err != nil {
		return nil, ErrBufferTooSmall
	}
	if err := p.Y.WriteBinary(out[1+coordLen:], coordLen); err != nil {
		return nil, ErrBufferTooSmall
	}
	return out, nil
}

// EncodeX encodes the X25519 X-only Montgomery u-coordinate.
func (g *Group) EncodeX(p *Point) ([]byte, error) {
	coordLen := (g.PBits + 7) / 8
	out := make([]byte, coordLen)
	if err := p.X.WriteBinary(out, coordLen); err != nil {
		return nil, ErrBufferTooSmall
	}
	return out, nil
}

// DecodePoint parses a wire-format point: a single 0x00 byte for
// infinity, 0x04||X||Y for uncompressed, or 0x02/0x03||X for compressed
// (decode-only, needed for a subset of named curves). For Curve25519
// groups, buf is interpreted as the raw X-only u-coordinate.
func (g *Group) DecodePoint(buf []byte) (*Point, error) {
	if g.Kind == KindMontgomeryX {
		coordLen := (g.PBits + 7) / 8
		if len(buf) != coordLen {
			return nil, ErrBadInput
		}
		p := NewPoint()
		p.X = mpi.New()
		p.X.ReadBinary(buf)
		p.Y = mpi.New()
		p.Z = one()
		return p, nil
	}
	if len(buf) == 1 && buf[0] == 0x00 {
		return NewPoint(), nil
	}
	coordLen := (g.PBits + 7) / 8
	if len(buf) == 0 {
		return nil, ErrBadInput
	}
	switch buf[0] {
	case 0x04:
		if len(buf) != 1+2*coordLen {
			return nil, ErrBadInput
		}
		p := NewPoint()
		p.X.ReadBinary(buf[1 : 1+coordLen])
		p.Y.ReadBinary(buf[1+coordLen:])
		p.Z.SetInt(1)
		return p, nil
	case 0x02, 0x03:
		if len(buf) != 1+coordLen {
			return nil, ErrBadInput
		}
		x := mpi.New()
		x.ReadBinary(buf[1:])
		y, err := g.decompressY(x, buf[0] == 0x03)
		if err != nil {
			return nil, err
		}
		p := NewPoint()
		p.SetAffine(x, y)
		return p, nil
	default:
		return nil, ErrBadInput
	}
}

// decompressY recovers Y from X and the sign bit of a compressed point
// via a modular square root, which for these curves' primes (p mod 4 ==
// 3) is y = (x^3+Ax+B)^((p+1)/4) mod p.
func (g *Group) decompressY(x *mpi.MPI, odd bool) (*mpi.MPI, error) {
	x3 := mulModP(g, sqrModP(g, x), x)
	ax := mulModP(g, g.A, x)
	rhs := addModP(g, x3, ax)
	rhs = addModP(g, rhs, g.B)

	exp := mpi.New()
	one := mpi.New()
	one.SetInt(1)
	exp.Add(g.P, one)
	exp.ShiftRight(2)

	y := mpi.New()
	rr := mpi.New()
	if err := mpi.ExpMod(y, rhs, exp, g.P, rr); err != nil {
		return nil, err
	}
	if (y.GetBit(0) == 1) != odd {
		y = subModP(g, g.P, y)
	}
	if !g.CheckOnCurve(x, y) {
		return nil, ErrInvalidKey
	}
	return y, nil
}
