package mpi

// ModInverse computes x = a^-1 mod n via the extended Euclidean
// algorithm (HAC 14.61/14.64 compute the same Bezout coefficients; this
// walks the quotient sequence directly rather than the binary-shift
// variant, since both converge to the unique inverse in [0, n)).
// Requires gcd(a, n) = 1 and n > 1, else ErrNotInvertible/ErrBadInput.
func (x *MPI) ModInverse(a, n *MPI) error {
	if n.Cmp(one) <= 0 {
		return ErrBadInput
	}

	oldR, r := New(), New()
	oldR.Mod(a, n)
	r.Copy(n)

	oldS, s := New(), New()
	oldS.SetInt(1)
	s.SetInt(0)

	q, tmp, tmp2 := New(), New(), New()
	for !r.IsZero() {
		if err := DivMod(q, tmp, oldR, r); err != nil {
			return err
		}
		oldR, r = r, tmp.Clone()

		tmp2.Mul(q, s)
		newS := New()
		newS.Sub(oldS, tmp2)
		oldS, s = s, newS
	}

	if oldR.CmpInt(1) != 0 {
		return ErrNotInvertible
	}

	return x.Mod(oldS, n)
}

var one = func() *MPI { m := New(); m.SetInt(1); return m }()
