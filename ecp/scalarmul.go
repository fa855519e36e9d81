package ecp

import "github.com/packetgate/tlscore/mpi"

// combTeeth returns d = ceil(nbits/w), the number of doubling steps
// ("teeth" of the comb) for a window width w.
func combTeeth(nbits, w int) int {
	return (nbits + w - 1) / w
}

// recodeComb recodes the scalar m (conceptually zero-padded to a
// multiple of w bits) into a sequence of signed digits in
// {-2^(w-1)+1, ..., 2^(w-1)-1}, one per comb step, per spec.md §4.2
// step 1. digits[i] pairs a magnitude index (0..2^(w-1)-1, indexing the
// precomputed table) with a sign.
type combDigit struct {
	idx int
	neg bool
}

func recodeComb(m *mpi.MPI, d, w int) []combDigit {
	digits := make([]combDigit, d)
	// Process teeth from the most significant down; each digit packs w
	// bits spaced d apart (the comb interleaving), then is converted
	// from unsigned {0..2^w-1} to signed {-2^(w-1)+1..2^(w-1)-1} via a
	// carry propagated from the least significant tooth upward, as in
	// mbedTLS's ecp_comb_recode_core.
	raw := make([]int, d)
	for i := 0; i < d; i++ {
		var bits int
		for k := 0; k < w; k++ {
			bitPos := i + k*d
			bits |= m.GetBit(bitPos) << uint(k)
		}
		raw[i] = bits
	}
	var carry int
	half := 1 << uint(w-1)
	for i := 0; i < d; i++ {
		v := raw[i] + carry
		carry = 0
		if v >= half {
			v -= 1 << uint(w)
			carry = 1
		}
		neg := v < 0
		idx := v
		if neg {
			idx = -idx
		}
		digits[i] = combDigit{idx: idx, neg: neg}
	}
	return digits
}

// buildCombTable computes T[] of size 2^(w-1), T[i] = (2i+1) * base *
// 2^d, the odd multiples of the doubled base point used by the comb,
// per spec.md §4.2 step 2. base is the generator in this group's
// context (always G for the cached table; ScalarMulGeneric builds a
// disposable table for an arbitrary base point).
func (g *Group) buildCombTable(base *Point, w, d int) []*Point {
	size := 1 << uint(w-1)
	// big := 2^d * base
	big := NewPoint()
	big.Copy(base)
	for i := 0; i < d; i++ {
		g.Double(big, big)
	}
	table := make([]*Point, size)
	table[0] = NewPoint()
	table[0].Copy(big)
	cur := NewPoint()
	cur.Copy(big)
	two := NewPoint()
	g.Double(two, big)
	for i := 1; i < size; i++ {
		g.Add(cur, cur, two)
		table[i] = NewPoint()
		table[i].Copy(cur)
	}
	if err := g.NormalizeBatch(table); err != nil {
		// leave un-normalised; downstream AddMixed requires Z=1, so a
		// normalisation failure (only possible if base was invalid)
		// degrades to non-constant-time Add instead of panicking.
	}
	return table
}

// combTable lazily builds and caches this group's generator comb table.
// Not safe for concurrent callers against the same *Group (see the
// Group.comb field doc).
func (g *Group) combTable() []*Point {
	if g.comb != nil {
		return g.comb
	}
	base := &Point{X: g.Gx, Y: g.Gy, Z: mpi.New()}
	base.Z.SetInt(1)
	d := combTeeth(g.NBits+1, g.window)
	g.comb = g.buildCombTable(base, g.window, d)
	return g.comb
}

// selectConstantTime copies table[idx] into dst by iterating the whole
// table and conditionally assigning with a mask derived from the
// index, rather than indexing directly — per spec.md's constant-time
// selection discipline (§4.2 step 3, §9).
func selectConstantTime(table []*Point, idx int, dst *Point) {
	for i, t := range table {
		flag := uint8(0)
		if i == idx {
			flag = 1
		}
		dst.X.SafeCondAssign(t.X, flag)
		dst.Y.SafeCondAssign(t.Y, flag)
		dst.Z.SafeCondAssign(t.Z, flag)
	}
}

// randomizeJacobian blinds p's Jacobian representative in place:
// (X,Y,Z) -> (X*lambda^2, Y*lambda^3, Z*lambda) for a random field
// element lambda, per spec.md §4.2 step 5. Leaves the affine value
// represented unchanged.
func (g *Group) randomizeJacobian(p *Point, rng func([]byte) error) error {
	lambda := mpi.New()
	if err := lambda.FillRandom((g.PBits+7)/8+8, rng); err != nil {
		return err
	}
	_ = lambda.Mod(lambda, g.P)
	if lambda.IsZero() {
		lambda.SetInt(1)
	}
	l2 := sqrModP(g, lambda)
	l3 := mulModP(g, l2, lambda)
	p.X = mulModP(g, p.X, l2)
	p.Y = mulModP(g, p.Y, l3)
	p.Z = mulModP(g, p.Z, lambda)
	return nil
}

// ScalarMulBase computes r = m*G using the cached comb table (constant
// time with respect to m). If rng is non-nil, Jacobian point
// randomisation blinds intermediates before the main loop.
func (g *Group) ScalarMulBase(r *Point, m *mpi.MPI, rng func([]byte) error) error {
	if g.Kind == KindMontgomeryX {
		return g.x25519Ladder(r, m, g.Gx)
	}
	table := g.combTable()
	w := g.window
	d := combTeeth(g.NBits+1, w)
	digits := recodeComb(m, d, w)

	acc := NewPoint() // point at infinity

	selected := NewPoint()
	for i := d - 1; i >= 0; i-- {
		selectConstantTime(table, digits[i].idx, selected)
		neg := NewPoint()
		g.Negate(neg, selected)
		chosen := NewPoint()
		chosen.X = selected.X.Clone()
		chosen.Y = selected.Y.Clone()
		chosen.Z = selected.Z.Clone()
		flag := uint8(0)
		if digits[i].neg {
			flag = 1
		}
		chosen.Y.SafeCondAssign(neg.Y, flag)

		if i == d-1 {
			acc.Copy(chosen)
			if rng != nil {
				// Blind the accumulator's Jacobian representative
				// before it starts absorbing secret-dependent
				// additions; Jacobian arithmetic is projective so the
				// blinding factor carries through every subsequent
				// Double/Add untouched.
				if err := g.randomizeJacobian(acc, rng); err != nil {
					return err
				}
			}
		} else {
			acc2 := NewPoint()
			g.Add(acc2, acc, chosen)
			acc.Copy(acc2)
		}
	}

	if err := g.Normalize(acc); err != nil {
		return err
	}
	r.Copy(acc)
	return nil
}

// ScalarMulGeneric computes r = m*p for an arbitrary base point p
// (e.g. the peer's ECDHE public key), building a disposable comb table
// rather than using the group's cached generator table. Still
// constant-time in m.
func (g *Group) ScalarMulGeneric(r *Point, m *mpi.MPI, p *Point, rng func([]byte) error) error {
	if g.Kind == KindMontgomeryX {
		return g.x25519Ladder(r, m, p.X)
	}
	w := g.window
	d := combTeeth(g.NBits+1, w)
	base := p
	if rng != nil {
		blinded := NewPoint()
		blinded.Copy(p)
		if err := g.randomizeJacobian(blinded, rng); err != nil {
			return err
		}
		base = blinded
	}
	table := g.buildCombTable(base, w, d)
	digits := recodeComb(m, d, w)

	acc := NewPoint()
	selected := NewPoint()
	for i := d - 1; i >= 0; i-- {
		selectConstantTime(table, digits[i].idx, selected)
		neg := NewPoint()
		g.Negate(neg, selected)
		chosen := NewPoint()
		chosen.X = selected.X.Clone()
		chosen.Y = selected.Y.Clone()
		chosen.Z = selected.Z.Clone()
		flag := uint8(0)
		if digits[i].neg {
			flag = 1
		}
		chosen.Y.SafeCondAssign(neg.Y, flag)

		if i == d-1 {
			acc.Copy(chosen)
		} else {
			acc2 := NewPoint()
			g.Add(acc2, acc, chosen)
			acc.Copy(acc2)
		}
	}
	if err := g.Normalize(acc); err != nil {
		return err
	}
	r.Copy(acc)
	return nil
}

// MulAdd computes r = m*G + n*P without constant-time guarantees; only
// safe to use with public inputs (e.g. ECDSA signature verification),
// per spec.md §4.2.
func (g *Group) MulAdd(r *Point, m *mpi.MPI, n *mpi.MPI, p *Point) error {
	t1 := NewPoint()
	if err := g.scalarMulWindowedInsecure(t1, m, &Point{X: g.Gx, Y: g.Gy, Z: one()}); err != nil {
		return err
	}
	t2 := NewPoint()
	if err := g.scalarMulWindowedInsecure(t2, n, p); err != nil {
		return err
	}
	acc := NewPoint()
	g.Add(acc, t1, t2)
	if err := g.Normalize(acc); err != nil {
		return err
	}
	r.Copy(acc)
	return nil
}

func one() *mpi.MPI {
	m := mpi.New()
	m.SetInt(1)
	return m
}

// scalarMulWindowedInsecure is an ordinary (secret-dependent branch and
// index) double-and-add scalar multiplication, used only by MulAdd.
func (g *Group) scalarMulWindowedInsecure(r *Point, m *mpi.MPI, p *Point) error {
	acc := NewPoint()
	bl := m.BitLength()
	for i := bl - 1; i >= 0; i-- {
		g.Double(acc, acc)
		if m.GetBit(i) == 1 {
			t := NewPoint()
			g.Add(t, acc, p)
			acc.Copy(t)
		}
	}
	r.Copy(acc)
	return nil
}

// x25519Ladder performs the RFC 7748 Montgomery ladder over the
// u-coordinate only, with the coordinate swap done in constant time via
// a conditional-swap primitive (mpi.SafeCondSwap).
func (g *Group) x25519Ladder(r *Point, scalar *mpi.MPI, u *mpi.MPI) error {
	k := ClampX25519(scalar)

	x1 := modP(g, u)
	x2 := one()
	z2 := mpi.New()
	x3 := x1.Clone()
	z3 := one()

	swap := uint8(0)
	for t := 254; t >= 0; t-- {
		kt := uint8(k.GetBit(t))
		swap ^= kt
		x2.SafeCondSwap(x3, swap)
		z2.SafeCondSwap(z3, swap)
		swap = kt

		a := addModP(g, x2, z2)
		aa := sqrModP(g, a)
		b := subModP(g, x2, z2)
		bb := sqrModP(g, b)
		e := subModP(g, aa, bb)
		c := addModP(g, x3, z3)
		d := subModP(g, x3, z3)
		da := mulModP(g, d, a)
		cb := mulModP(g, c, b)

		x3 = sqrModP(g, addModP(g, da, cb))
		z3sum := subModP(g, da, cb)
		z3 = mulModP(g, x1, sqrModP(g, z3sum))
		x2 = mulModP(g, aa, bb)
		aE := mulModP(g, g.A, e)
		z2 = mulModP(g, e, addModP(g, bb, aE))
	}
	x2.SafeCondSwap(x3, swap)
	z2.SafeCondSwap(z3, swap)

	zInv, err := invModP(g, z2)
	if err != nil {
		return err
	}
	out := mulModP(g, x2, zInv)
	r.X = out
	r.Y = mpi.New()
	r.Z = one()
	return nil
}
