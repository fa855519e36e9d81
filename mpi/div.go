package mpi

import "math/bits"

// divModAbs divides unsigned magnitudes: a = q*b + r, 0 <= r < b. Uses
// Knuth's Algorithm D (TAOCP vol 2, 4.3.1): normalise b by left-shift so
// its top limb's MSB is set, run schoolbook long division with a
// two-word trial-quotient estimate, and apply the conservative
// corrective passes that decrement the trial quotient while it
// overshoots, then denormalise the remainder.
func divModAbs(a, b []Limb) (q, r []Limb, err error) {
	au := trimLen(a)
	bu := trimLen(b)
	if bu == 0 {
		return nil, nil, ErrDivByZero
	}
	if cmpAbsLimbs(a, b, au, bu) < 0 {
		return []Limb{}, append([]Limb(nil), a[:au]...), nil
	}
	if bu == 1 {
		return divModSmall(a[:au], b[0])
	}

	shift := bits.LeadingZeros64(b[bu-1])

	bn := make([]Limb, bu)
	shiftLeftInto(bn, b[:bu], shift)

	an := make([]Limb, au+1)
	shiftLeftInto(an[:au], a[:au], shift)
	if shift > 0 {
		an[au] = a[au-1] >> uint(LimbBits-shift)
	}

	n := bu
	m := au - bu // quotient has m+1 limbs
	qs := make([]Limb, m+1)

	bTop := bn[n-1]
	bTop2 := bn[n-2]

	for j := m; j >= 0; j-- {
		var qhat, rhat uint64
		rhatOverflow := false
		hi := an[j+n]
		lo := an[j+n-1]
		if hi == bTop {
			qhat = ^uint64(0)
			var c uint64
			rhat, c = bits.Add64(lo, bTop, 0)
			rhatOverflow = c != 0
		} else {
			qhat, rhat = bits.Div64(hi, lo, bTop)
		}
		// Corrective loop per Knuth D3: while qhat*bTop2 > rhat*2^64 + a[j+n-2], decrement.
		// Once rhat has reached the base the test cannot hold, so it is skipped.
		for !rhatOverflow {
			hi2, lo2 := bits.Mul64(qhat, bTop2)
			if hi2 > rhat || (hi2 == rhat && lo2 > an[j+n-2]) {
				qhat--
				newRhat := rhat + bTop
				if newRhat < rhat { // overflow: rhat would exceed base, stop correcting
					break
				}
				rhat = newRhat
				if rhat >= bTop {
					continue
				}
			}
			break
		}

		// Multiply and subtract: an[j:j+n+1] -= qhat * bn[0:n]
		borrow := mulSub(an[j:j+n+1], bn[:n], qhat)
		if borrow != 0 {
			// qhat was one too large: add back bn once and decrement qhat.
			qhat--
			addBack(an[j:j+n+1], bn[:n])
		}
		qs[j] = qhat
	}

	rn := make([]Limb, n)
	shiftRightInto(rn, an[:n], shift)

	return qs, rn, nil
}

// mulSub computes z[0:n+1] -= q*x[0:n], returning the borrow out of the
// top limb (non-zero means the trial quotient q was too large by one).
func mulSub(z []Limb, x []Limb, q Limb) Limb {
	var carry Limb
	var borrow Limb
	for i := 0; i < len(x); i++ {
		hi, lo := bits.Mul64(x[i], q)
		lo2, c := bits.Add64(lo, carry, 0)
		carry = hi + c
		d, b := bits.Sub64(z[i], lo2, borrow)
		z[i] = d
		borrow = b
	}
	d, b := bits.Sub64(z[len(x)], carry, borrow)
	z[len(x)] = d
	borrow = b
	return borrow
}

// addBack adds x back into z (used to correct an over-large trial
// quotient); the final carry is discarded since it cancels the borrow
// mulSub reported.
func addBack(z []Limb, x []Limb) {
	var carry Limb
	for i := 0; i < len(x); i++ {
		s, c := bits.Add64(z[i], x[i], carry)
		z[i] = s
		carry = c
	}
	z[len(x)], _ = bits.Add64(z[len(x)], 0, carry)
}

func divModSmall(a []Limb, b Limb) ([]Limb, []Limb, error) {
	n := len(a)
	q := make([]Limb, n)
	var rem Limb
	for i := n - 1; i >= 0; i-- {
		q[i], rem = bits.Div64(rem, a[i], b)
	}
	return q, []Limb{rem}, nil
}

func trimLen(a []Limb) int {
	n := len(a)
	for n > 0 && a[n-1] == 0 {
		n--
	}
	return n
}

func shiftLeftInto(dst, src []Limb, shift int) {
	if shift == 0 {
		copy(dst, src)
		return
	}
	var carry Limb
	for i := 0; i < len(src); i++ {
		dst[i] = (src[i] << uint(shift)) | carry
		carry = src[i] >> uint(LimbBits-shift)
	}
}

func shiftRightInto(dst, src []Limb, shift int) {
	if shift == 0 {
		copy(dst, src)
		return
	}
	for i := 0; i < len(src); i++ {
		v := src[i] >> uint(shift)
		if i+1 < len(src) {
			v |= src[i+1] << uint(LimbBits-shift)
		}
		dst[i] = v
	}
}

// DivMod sets q = a/b, r = a%b (truncated division: remainder takes the
// sign of a, matching the bignum.c convention); divisor zero is
// ErrBadInput; |a|<|b| yields q=0, r=a; divisor magnitude 1 yields
// q=a, r=0.
func DivMod(q, r, a, b *MPI) error {
	if b.used == 0 {
		return ErrBadInput
	}
	qu, ru, err := divModAbs(a.p[:a.used], b.p[:b.used])
	if err != nil {
		return ErrBadInput
	}
	if q != nil {
		q.grow(len(qu))
		for i := range q.p {
			q.p[i] = 0
		}
		copy(q.p, qu)
		q.sign = a.sign * b.sign
		q.fixup()
		if q.used == 0 {
			q.sign = 1
		}
	}
	if r != nil {
		r.grow(len(ru))
		for i := range r.p {
			r.p[i] = 0
		}
		copy(r.p, ru)
		r.sign = a.sign
		r.fixup()
		if r.used == 0 {
			r.sign = 1
		}
	}
	return nil
}

// Mod sets x = a mod n, n > 0, producing a representative in [0, n):
// take a rem n, then add n while negative and subtract n while >= n.
// Negative n is ErrBadInput.
func (x *MPI) Mod(a, n *MPI) error {
	if n.used == 0 || n.sign < 0 {
		return ErrBadInput
	}
	r := New()
	if err := DivMod(nil, r, a, n); err != nil {
		return err
	}
	for r.sign < 0 {
		r.Add(r, n)
	}
	for r.CmpAbs(n) >= 0 {
		r.Sub(r, n)
	}
	x.Copy(r)
	return nil
}
