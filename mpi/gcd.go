package mpi

// GCD computes the greatest common divisor of |a| and |b| via the binary
// GCD algorithm: strip common factors of 2, then repeatedly strip
// factors of 2 from whichever of the two remaining odd values is even,
// subtract the smaller from the larger, and halve, until one side
// reaches zero.
func (x *MPI) GCD(a, b *MPI) {
	ta := New()
	tb := New()
	ta.Copy(a)
	tb.Copy(b)
	ta.sign, tb.sign = 1, 1

	if ta.IsZero() {
		x.Copy(tb)
		return
	}
	if tb.IsZero() {
		x.Copy(ta)
		return
	}

	shift := 0
	for ta.GetBit(0) == 0 && tb.GetBit(0) == 0 {
		ta.ShiftRight(1)
		tb.ShiftRight(1)
		shift++
	}
	for ta.GetBit(0) == 0 {
		ta.ShiftRight(1)
	}
	for !tb.IsZero() {
		for tb.GetBit(0) == 0 {
			tb.ShiftRight(1)
		}
		if ta.CmpAbs(tb) > 0 {
			ta, tb = tb, ta
		}
		tb.Sub(tb, ta)
	}
	ta.ShiftLeft(shift)
	x.Copy(ta)
}
