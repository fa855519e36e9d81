package ecp

import "github.com/packetgate/tlscore/mpi"

// GenerateKeyPair draws a private scalar d and computes the public
// point Q = d*G, per spec.md §4.2: for short Weierstrass curves, draw
// nbits of randomness and retry if out of [1,N-1]; for Curve25519, draw
// nbits and apply the clamp mask (which always yields an in-range
// scalar, so no retry is needed).
func (g *Group) GenerateKeyPair(rng func([]byte) error) (d *mpi.MPI, q *Point, err error) {
	d = mpi.New()
	if g.Kind == KindMontgomeryX {
		if err = d.FillRandom(32, rng); err != nil {
			return nil, nil, err
		}
		d = ClampX25519(d)
	} else {
		nBytes := (g.NBits + 7) / 8
		for attempt := 0; attempt < 64; attempt++ {
			if err = d.FillRandom(nBytes, rng); err != nil {
				return nil, nil, err
			}
			if g.CheckPrivateKey(d) == nil {
				break
			}
		}
		if err = g.CheckPrivateKey(d); err != nil {
			return nil, nil, err
		}
	}

	q = NewPoint()
	if err = g.ScalarMulBase(q, d, rng); err != nil {
		return nil, nil, err
	}
	return d, q, nil
}
