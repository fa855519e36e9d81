package kx

import "github.com/packetgate/tlscore/mpi"

// DHContext holds one side's (EC-less, classic modular) Diffie-Hellman
// state for ServerKeyExchange's DHE path: server-configured (P, G),
// an ephemeral private exponent, and the corresponding public value.
type DHContext struct {
	P, G *mpi.MPI
	x    *mpi.MPI // private exponent
	Y    *mpi.MPI // public value G^x mod P
}

// NewDHEParams generates an ephemeral exponent against a
// server-configured (P, G) group, per spec.md §4.3's DHE path.
func NewDHEParams(p, g *mpi.MPI, rng func([]byte) error) (*DHContext, error) {
	x := mpi.New()
	if err := x.FillRandom(p.ByteLength(), rng); err != nil {
		return nil, err
	}
	// Keep the exponent well below P so G^x mod P exercises the full
	// modexp window machinery without pathological near-P values.
	_ = x.Mod(x, p)

	rr := mpi.New()
	y := mpi.New()
	if err := mpi.ExpMod(y, g, x, p, rr); err != nil {
		return nil, err
	}
	return &DHContext{P: p, G: g, x: x, Y: y}, nil
}

// ReadDHPublic parses a big-endian peer public value Yc, rejecting the
// degenerate 0/1 values (a cheap subgroup-confinement check since full
// DHE parameter validation is out of this stack's scope).
func ReadDHPublic(buf []byte) (*mpi.MPI, error) {
	yc := mpi.New()
	yc.ReadBinary(buf)
	if yc.CmpInt(1) <= 0 {
		return nil, ErrBadInput
	}
	return yc, nil
}

// DeriveSecret computes K = Ypeer^x mod P, the DHE premaster secret.
func (c *DHContext) DeriveSecret(peer *mpi.MPI) ([]byte, error) {
	rr := mpi.New()
	k := mpi.New()
	if err := mpi.ExpMod(k, peer, c.x, c.P, rr); err != nil {
		return nil, err
	}
	out := make([]byte, c.P.ByteLength())
	if err := k.WriteBinary(out, len(out)); err != nil {
		return nil, err
	}
	return out, nil
}

// Zeroize destroys the ephemeral private exponent.
func (c *DHContext) Zeroize() {
	c.x.Zeroize()
}
