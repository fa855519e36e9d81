package mpi

// ShiftLeft multiplies |x| by 2^k in place: whole-limb displacement
// composed with a sub-limb shift. Grows storage as needed.
func (x *MPI) ShiftLeft(k int) {
	if k <= 0 || x.used == 0 {
		return
	}
	limbShift := k / LimbBits
	bitShift := uint(k % LimbBits)

	oldUsed := x.used
	newLen := oldUsed + limbShift + 1
	x.grow(newLen)
	src := append([]Limb(nil), x.p[:oldUsed]...)
	for i := range x.p {
		x.p[i] = 0
	}
	if bitShift == 0 {
		copy(x.p[limbShift:limbShift+oldUsed], src)
	} else {
		var carry Limb
		for i := 0; i < oldUsed; i++ {
			v := src[i]
			x.p[limbShift+i] = (v << bitShift) | carry
			carry = v >> (LimbBits - bitShift)
		}
		x.p[limbShift+oldUsed] = carry
	}
	x.fixup()
}

// ShiftRight divides |x| by 2^k in place (floor division), truncating.
// Right-shift past the significant length yields 0.
func (x *MPI) ShiftRight(k int) {
	if k <= 0 || x.used == 0 {
		return
	}
	limbShift := k / LimbBits
	bitShift := uint(k % LimbBits)

	if limbShift >= x.used {
		x.used = 0
		x.sign = 1
		return
	}
	n := x.used - limbShift
	src := x.p[limbShift:x.used]
	if bitShift == 0 {
		copy(x.p[:n], src)
	} else {
		for i := 0; i < n; i++ {
			v := src[i] >> bitShift
			if i+1 < n {
				v |= src[i+1] << (LimbBits - bitShift)
			}
			x.p[i] = v
		}
	}
	for i := n; i < x.used; i++ {
		x.p[i] = 0
	}
	x.used = n
	x.fixup()
}
