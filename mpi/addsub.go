package mpi

import "math/bits"

// addAbs sets z = |a| + |b| (unsigned limb-wise add with carry), growing
// z by at most one limb beyond the longer operand, as sized up front by
// inspecting the operands' limb counts (mirrors the precomputed-extend
// policy in spec.md §4.1).
func addAbs(z, a, b *MPI) {
	au, bu := a.used, b.used
	if au < bu {
		a, b = b, a
		au, bu = bu, au
	}
	// alias-safety: copy sources that alias the destination first.
	as, bs := a.p, b.p
	if z == a {
		as = append([]Limb(nil), a.p[:au]...)
	}
	if z == b {
		bs = append([]Limb(nil), b.p[:bu]...)
	}
	z.grow(au + 1)
	for i := range z.p {
		z.p[i] = 0
	}
	var carry uint64
	for i := 0; i < bu; i++ {
		sum, c := bits.Add64(as[i], bs[i], carry)
		z.p[i] = sum
		carry = c
	}
	for i := bu; i < au; i++ {
		sum, c := bits.Add64(as[i], 0, carry)
		z.p[i] = sum
		carry = c
	}
	z.p[au] = carry
	z.sign = 1
	z.fixup()
}

// subAbs sets z = |a| - |b|, requiring |a| >= |b|; else returns ErrBadInput
// and z is left unmodified.
func subAbs(z, a, b *MPI) error {
	if cmpAbsLimbs(a.p, b.p, a.used, b.used) < 0 {
		return ErrBadInput
	}
	au, bu := a.used, b.used
	as, bs := a.p, b.p
	if z == a {
		as = append([]Limb(nil), a.p[:au]...)
	}
	if z == b {
		bs = append([]Limb(nil), b.p[:bu]...)
	}
	z.grow(au)
	for i := range z.p {
		z.p[i] = 0
	}
	var borrow uint64
	for i := 0; i < bu; i++ {
		d, bo := bits.Sub64(as[i], bs[i], borrow)
		z.p[i] = d
		borrow = bo
	}
	for i := bu; i < au; i++ {
		d, bo := bits.Sub64(as[i], 0, borrow)
		z.p[i] = d
		borrow = bo
	}
	z.sign = 1
	z.fixup()
	return nil
}

// Add sets z = a + b (signed), dispatching on sign combinations into the
// unsigned primitives and deriving the result sign algebraically.
func (z *MPI) Add(a, b *MPI) {
	if a.sign == b.sign {
		addAbs(z, a, b)
		z.sign = a.sign
		if z.used == 0 {
			z.sign = 1
		}
		return
	}
	// different signs: subtract the smaller magnitude from the larger.
	if a.CmpAbs(b) >= 0 {
		_ = subAbs(z, a, b)
		z.sign = a.sign
	} else {
		_ = subAbs(z, b, a)
		z.sign = b.sign
	}
	if z.used == 0 {
		z.sign = 1
	}
}

// Sub sets z = a - b (signed).
func (z *MPI) Sub(a, b *MPI) {
	neg := New()
	neg.Copy(b)
	if !neg.IsZero() {
		neg.sign = -neg.sign
	}
	z.Add(a, neg)
}
