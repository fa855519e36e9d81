package mpi

// montgomeryConst computes mm = -n0^-1 mod 2^64 via the standard
// Newton-iteration doubling trick: the low 3 bits of the inverse of an
// odd n0 are n0 itself, and each Newton step doubles the number of
// correct bits, so six iterations suffice for a 64-bit limb.
func montgomeryConst(n0 Limb) Limb {
	inv := n0
	for i := 0; i < 6; i++ {
		inv *= 2 - n0*inv
	}
	return ^inv + 1
}

// montRedc performs Montgomery reduction of x (which may occupy up to
// 2*nLimbs limbs) modulo N in place, leaving x < N in non-Montgomery
// representation relative to whatever form it started in (i.e. this
// divides out one factor of R).
func montRedc(x, n *MPI, mm Limb, nLimbs int) {
	x.grow(2*nLimbs + 2)
	for i := 0; i < nLimbs; i++ {
		u := x.p[i] * mm
		mulVecLimb(x.p[i:], n.p[:nLimbs], nLimbs, u)
	}
	res := append([]Limb(nil), x.p[nLimbs:]...)
	x.p = res
	x.sign = 1
	x.fixup()
	if x.CmpAbs(n) >= 0 {
		_ = subAbs(x, x, n)
	}
}

// montMul sets dst = a*b*R^-1 mod N (Montgomery multiplication),
// tolerating dst aliasing a and/or b (the caller repeatedly squares X
// in place).
func montMul(dst, a, b, n *MPI, mm Limb, nLimbs int) {
	prod := New()
	prod.Mul(a, b)
	montRedc(prod, n, mm, nLimbs)
	dst.Copy(prod)
}

// windowSize picks the sliding-window width from the exponent's bit
// length using the thresholds {23, 79, 239, 671} -> {1, 3, 4, 5, 6}.
func windowSize(ebits int) int {
	switch {
	case ebits > 671:
		return 6
	case ebits > 239:
		return 5
	case ebits > 79:
		return 4
	case ebits > 23:
		return 3
	default:
		return 1
	}
}

// ExpMod computes X = A^E mod N via Montgomery multiplication with a
// sliding window of odd powers, per spec.md §4.1. N must be positive and
// odd, E non-negative. RR is an external scratch MPI that caches
// R^2 mod N across repeated calls against the same N; pass a zero-valued
// *MPI the first time and retain it for subsequent calls with the same N.
func ExpMod(x, a, e, n, rr *MPI) error {
	if n.used == 0 || n.sign < 0 || n.GetBit(0) == 0 {
		return ErrBadInput
	}
	if e.sign < 0 {
		return ErrBadInput
	}

	nLimbs := n.used
	mm := montgomeryConst(n.p[0])

	if rr.IsZero() {
		rr.SetInt(1)
		rr.ShiftLeft(2 * nLimbs * LimbBits)
		if err := rr.Mod(rr, n); err != nil {
			return err
		}
	}

	neg := a.sign < 0
	apos := New()
	apos.Copy(a)
	apos.sign = 1

	wsize := windowSize(e.BitLength())

	w := make([]*MPI, 1<<wsize)
	w[1] = New()
	if apos.CmpAbs(n) >= 0 {
		_ = w[1].Mod(apos, n)
	} else {
		w[1].Copy(apos)
	}
	montMul(w[1], w[1], rr, n, mm, nLimbs)

	x.Copy(rr)
	montRedc(x, n, mm, nLimbs)

	if wsize > 1 {
		j := 1 << (wsize - 1)
		w[j] = w[1].Clone()
		for i := 0; i < wsize-1; i++ {
			montMul(w[j], w[j], w[j], n, mm, nLimbs)
		}
		for i := j + 1; i < (1 << wsize); i++ {
			w[i] = w[i-1].Clone()
			montMul(w[i], w[i], w[1], n, mm, nLimbs)
		}
	}

	nblimbs := e.used
	bufsize := 0
	var state, nbits, wbits int
	for {
		if bufsize == 0 {
			if nblimbs == 0 {
				break
			}
			nblimbs--
			bufsize = LimbBits
		}
		bufsize--

		ei := int((e.p[nblimbs] >> uint(bufsize)) & 1)

		if ei == 0 && state == 0 {
			continue
		}
		if ei == 0 && state == 1 {
			montMul(x, x, x, n, mm, nLimbs)
			continue
		}

		state = 2
		nbits++
		wbits |= ei << uint(wsize-nbits)

		if nbits == wsize {
			for i := 0; i < wsize; i++ {
				montMul(x, x, x, n, mm, nLimbs)
			}
			montMul(x, x, w[wbits], n, mm, nLimbs)
			state = 1
			nbits = 0
			wbits = 0
		}
	}

	for i := 0; i < nbits; i++ {
		montMul(x, x, x, n, mm, nLimbs)
		wbits <<= 1
		if wbits&(1<<uint(wsize)) != 0 {
			montMul(x, x, w[1], n, mm, nLimbs)
		}
	}

	montRedc(x, n, mm, nLimbs)

	if neg && e.used > 0 && e.p[0]&1 == 1 {
		x.sign = -1
		t := New()
		t.Add(n, x)
		x.Copy(t)
	}

	return nil
}
