package ecp

import "github.com/packetgate/tlscore/mpi"

// Point is a Jacobian-coordinate elliptic curve point (X, Y, Z). The
// contract exposed to callers of the exported operations below is that
// Z is always 0 or 1 on return: Z=0 denotes the point at infinity,
// otherwise (X, Y) are affine. Internally Z may be any field element.
type Point struct {
	X, Y, Z *mpi.MPI
}

// NewPoint returns the point at infinity.
func NewPoint() *Point {
	z := mpi.New()
	return &Point{X: mpi.New(), Y: mpi.New(), Z: z}
}

// IsInfinity reports whether p is the point at infinity.
func (p *Point) IsInfinity() bool {
	return p.Z.IsZero()
}

// Copy makes p a deep copy of q.
func (p *Point) Copy(q *Point) {
	p.X = q.X.Clone()
	p.Y = q.Y.Clone()
	p.Z = q.Z.Clone()
}

// SetAffine sets p = (x, y), a finite affine point (Z=1).
func (p *Point) SetAffine(x, y *mpi.MPI) {
	p.X = x.Clone()
	p.Y = y.Clone()
	p.Z = mpi.New()
	p.Z.SetInt(1)
}

func modP(g *Group, x *mpi.MPI) *mpi.MPI {
	r := mpi.New()
	_ = r.Mod(x, g.P)
	return r
}

func addModP(g *Group, a, b *mpi.MPI) *mpi.MPI {
	t := mpi.New()
	t.Add(a, b)
	return modP(g, t)
}

func subModP(g *Group, a, b *mpi.MPI) *mpi.MPI {
	t := mpi.New()
	t.Sub(a, b)
	return modP(g, t)
}

func mulModP(g *Group, a, b *mpi.MPI) *mpi.MPI {
	t := mpi.New()
	t.Mul(a, b)
	return modP(g, t)
}

func sqrModP(g *Group, a *mpi.MPI) *mpi.MPI {
	return mulModP(g, a, a)
}

func invModP(g *Group, a *mpi.MPI) (*mpi.MPI, error) {
	r := mpi.New()
	if err := r.ModInverse(a, g.P); err != nil {
		return nil, err
	}
	return r, nil
}

// Normalize converts p from Jacobian to affine (Z=1), using a modular
// inverse. The point at infinity is left unchanged.
func (g *Group) Normalize(p *Point) error {
	if p.IsInfinity() {
		return nil
	}
	zInv, err := invModP(g, p.Z)
	if err != nil {
		return err
	}
	zInv2 := sqrModP(g, zInv)
	zInv3 := mulModP(g, zInv2, zInv)
	p.X = mulModP(g, p.X, zInv2)
	p.Y = mulModP(g, p.Y, zInv3)
	p.Z.SetInt(1)
	return nil
}

// NormalizeBatch normalises every point in pts using Montgomery's
// simultaneous-inversion trick: a running product of Z coordinates is
// inverted once, and each point's individual inverse is recovered by
// multiplying back through the running product, turning k inversions
// into one. Points already at infinity are skipped.
func (g *Group) NormalizeBatch(pts []*Point) error {
	n := len(pts)
	prefix := make([]*mpi.MPI, n+1)
	one := mpi.New()
	one.SetInt(1)
	prefix[0] = one
	for i, p := range pts {
		if p.IsInfinity() {
			prefix[i+1] = prefix[i]
			continue
		}
		prefix[i+1] = mulModP(g, prefix[i], p.Z)
	}
	inv, err := invModP(g, prefix[n])
	if err != nil {
		return err
	}
	for i := n - 1; i >= 0; i-- {
		p := pts[i]
		if p.IsInfinity() {
			continue
		}
		zInv := mulModP(g, prefix[i], inv)
		inv = mulModP(g, inv, p.Z)
		zInv2 := sqrModP(g, zInv)
		zInv3 := mulModP(g, zInv2, zInv)
		p.X = mulModP(g, p.X, zInv2)
		p.Y = mulModP(g, p.Y, zInv3)
		p.Z.SetInt(1)
	}
	return nil
}

// Double computes r = 2p (Jacobian doubling, EFD short-Weierstrass-
// Jacobian reference formulas, generic-a variant).
func (g *Group) Double(r, p *Point) {
	if p.IsInfinity() {
		r.Copy(p)
		return
	}
	xx := sqrModP(g, p.X)
	yy := sqrModP(g, p.Y)
	yyyy := sqrModP(g, yy)
	zz := sqrModP(g, p.Z)

	s := mulModP(g, p.X, yy)
	s.ShiftLeft(2)
	s = modP(g, s)

	three := mpi.New()
	three.SetInt(3)
	m := mulModP(g, three, xx)
	azz2 := sqrModP(g, zz)
	aTerm := mulModP(g, g.A, azz2)
	m = addModP(g, m, aTerm)

	t := sqrModP(g, m)
	twoS := addModP(g, s, s)
	xOut := subModP(g, t, twoS)

	eightYyyy := yyyy.Clone()
	eightYyyy.ShiftLeft(3)
	eightYyyy = modP(g, eightYyyy)

	sMinusX := subModP(g, s, xOut)
	yOut := mulModP(g, m, sMinusX)
	yOut = subModP(g, yOut, eightYyyy)

	yPlusZ := addModP(g, p.Y, p.Z)
	yPlusZ2 := sqrModP(g, yPlusZ)
	zOut := subModP(g, yPlusZ2, yy)
	zOut = subModP(g, zOut, zz)

	r.X, r.Y, r.Z = xOut, yOut, zOut
}

// AddMixed computes r = p + q where q is affine (Zq=1); this is the
// mixed-addition formula used when accumulating comb-table entries
// against a running Jacobian total.
func (g *Group) AddMixed(r, p, q *Point) {
	if p.IsInfinity() {
		r.SetAffine(q.X, q.Y)
		return
	}
	if q.IsInfinity() {
		r.Copy(p)
		return
	}
	z1z1 := sqrModP(g, p.Z)
	u2 := mulModP(g, q.X, z1z1)
	s2 := mulModP(g, q.Y, mulModP(g, p.Z, z1z1))

	h := subModP(g, u2, p.X)
	if h.IsZero() {
		s2mY := subModP(g, s2, p.Y)
		if s2mY.IsZero() {
			g.Double(r, p)
			return
		}
		r.Z = mpi.New()
		return // h==0, r==0 edge case collapses to infinity for generic inputs
	}
	hh := sqrModP(g, h)
	hhh := mulModP(g, hh, h)
	v := mulModP(g, p.X, hh)

	rr := subModP(g, s2, p.Y)

	t := sqrModP(g, rr)
	t = subModP(g, t, hhh)
	twoV := addModP(g, v, v)
	xOut := subModP(g, t, twoV)

	vMinusX := subModP(g, v, xOut)
	yOut := mulModP(g, rr, vMinusX)
	pyhhh := mulModP(g, p.Y, hhh)
	yOut = subModP(g, yOut, pyhhh)

	zOut := mulModP(g, p.Z, h)

	r.X, r.Y, r.Z = xOut, yOut, zOut
}

// Add computes r = p + q for two general Jacobian points.
func (g *Group) Add(r, p, q *Point) {
	if q.Z.CmpInt(1) == 0 {
		g.AddMixed(r, p, q)
		return
	}
	if p.IsInfinity() {
		r.Copy(q)
		return
	}
	if q.IsInfinity() {
		r.Copy(p)
		return
	}
	z1z1 := sqrModP(g, p.Z)
	z2z2 := sqrModP(g, q.Z)
	u1 := mulModP(g, p.X, z2z2)
	u2 := mulModP(g, q.X, z1z1)
	s1 := mulModP(g, p.Y, mulModP(g, q.Z, z2z2))
	s2 := mulModP(g, q.Y, mulModP(g, p.Z, z1z1))

	h := subModP(g, u2, u1)
	rr := subModP(g, s2, s1)
	if h.IsZero() {
		if rr.IsZero() {
			g.Double(r, p)
			return
		}
		r.Z = mpi.New()
		return
	}
	hh := sqrModP(g, h)
	hhh := mulModP(g, hh, h)
	v := mulModP(g, u1, hh)

	t := sqrModP(g, rr)
	t = subModP(g, t, hhh)
	twoV := addModP(g, v, v)
	xOut := subModP(g, t, twoV)

	vMinusX := subModP(g, v, xOut)
	yOut := mulModP(g, rr, vMinusX)
	s1hhh := mulModP(g, s1, hhh)
	yOut = subModP(g, yOut, s1hhh)

	zOut := mulModP(g, mulModP(g, p.Z, q.Z), h)

	r.X, r.Y, r.Z = xOut, yOut, zOut
}

// Negate computes r = -p (reflect Y across the field).
func (g *Group) Negate(r, p *Point) {
	r.Copy(p)
	if r.Y.IsZero() {
		return
	}
	r.Y = subModP(g, g.P, r.Y)
}

// CheckOnCurve reports whether (x,y) satisfies y^2 = x^3 + A*x + B mod P.
func (g *Group) CheckOnCurve(x, y *mpi.MPI) bool {
	lhs := sqrModP(g, y)
	x3 := mulModP(g, sqrModP(g, x), x)
	ax := mulModP(g, g.A, x)
	rhs := addModP(g, x3, ax)
	rhs = addModP(g, rhs, g.B)
	return lhs.Cmp(rhs) == 0
}

// CheckPublicKey validates a public point per spec.md §4.2: not the
// point at infinity, coordinates in [0,P), and on the curve. Subgroup
// membership is not checked (acceptable for the cofactor-1 curves this
// registry admits).
func (g *Group) CheckPublicKey(p *Point) error {
	if g.Kind == KindMontgomeryX {
		if p.X.Sign() < 0 || p.X.CmpAbs(g.P) >= 0 {
			return ErrInvalidKey
		}
		return nil
	}
	if p.IsInfinity() {
		return ErrInvalidKey
	}
	if err := g.Normalize(p); err != nil {
		return ErrInvalidKey
	}
	if p.X.Sign() < 0 || p.X.CmpAbs(g.P) >= 0 {
		return ErrInvalidKey
	}
	if p.Y.Sign() < 0 || p.Y.CmpAbs(g.P) >= 0 {
		return ErrInvalidKey
	}
	if !g.CheckOnCurve(p.X, p.Y) {
		return ErrInvalidKey
	}
	return nil
}

// CheckPrivateKey validates a scalar per spec.md §4.2: in [1, N-1] for
// short Weierstrass curves; for Curve25519 the bit-fixing mask is
// applied first and then the (wide) range is checked.
func (g *Group) CheckPrivateKey(d *mpi.MPI) error {
	if g.Kind == KindMontgomeryX {
		m := ClampX25519(d)
		if m.IsZero() {
			return ErrInvalidKey
		}
		return nil
	}
	if d.Sign() <= 0 {
		return ErrInvalidKey
	}
	nMinus1 := mpi.New()
	one := mpi.New()
	one.SetInt(1)
	nMinus1.Sub(g.N, one)
	if d.CmpAbs(nMinus1) > 0 {
		return ErrInvalidKey
	}
	return nil
}

// ClampX25519 applies the RFC 7748 scalar bit-fixing mask to d's low
// byte (clear bits 0-2), its top byte (clear bit 7, set bit 6), non-
// destructively, returning a new *MPI.
func ClampX25519(d *mpi.MPI) *mpi.MPI {
	buf := make([]byte, 32)
	_ = d.WriteBinary(buf, 32)
	// buf is big-endian; RFC 7748 clamps little-endian byte 0 and 31.
	buf[31] &= 0xF8
	buf[0] &= 0x7F
	buf[0] |= 0x40
	out := mpi.New()
	out.ReadBinary(buf)
	return out
}
