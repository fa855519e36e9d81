package handshake

import (
	"github.com/packetgate/tlscore/alert"
	"github.com/packetgate/tlscore/handshake/ext"
	"github.com/packetgate/tlscore/kx"
	"github.com/packetgate/tlscore/mpi"
)

const (
	curveTypeNamedCurve uint8 = 3
)

// buildServerKeyExchange implements spec.md §4.3's ServerKeyExchange:
// ECDHE params (curve already chosen in selectCipherSuite) or DHE
// params from the configured group, followed by a signature over
// client_random ‖ server_random ‖ params when the suite requires one.
func (c *Context) buildServerKeyExchange() ([]byte, error) {
	var params []byte

	switch c.Suite.KeyExchange {
	case KeyExchangeECDHE:
		ecdh, err := kx.NewECDHEParams(c.Curve, c.rng)
		if err != nil {
			return nil, err
		}
		c.ECDH = ecdh
		pub, err := ecdh.EncodePublic()
		if err != nil {
			return nil, err
		}
		params = append(params, curveTypeNamedCurve, byte(c.Curve.WireID>>8), byte(c.Curve.WireID))
		params = append(params, byte(len(pub)))
		params = append(params, pub...)

	case KeyExchangeDHE:
		p, g, ok := c.Config.DHParams()
		if !ok {
			return nil, alert.ErrFeatureUnavailable
		}
		dhCtx, err := kx.NewDHEParams(p, g, c.rng)
		if err != nil {
			return nil, err
		}
		c.DH = dhCtx
		params = appendMPIVector(params, p)
		params = appendMPIVector(params, g)
		params = appendMPIVector(params, dhCtx.Y)

	default:
		return nil, alert.ErrFeatureUnavailable
	}

	if c.Suite.Auth == AuthNone {
		return params, nil
	}

	hashAlg, ok := ext.PreferredHashFor(c.sigAlgs, sigAlgFor(c.Suite.Auth))
	if !ok {
		return nil, alert.ErrHandshakeFailure
	}
	digestInput := append(append(append([]byte{}, c.ClientRandom[:]...), c.ServerRandom[:]...), params...)
	digest := c.hashBytes(hashAlg, digestInput)

	alg := ext.SigHashAlg{Hash: hashAlg, Sig: sigAlgFor(c.Suite.Auth)}
	if c.Collaborators == nil || c.Collaborators.Sign == nil {
		return nil, alert.ErrFeatureUnavailable
	}
	sig, err := c.Collaborators.Sign(c, alg, digest)
	if err != nil {
		return nil, alert.ErrVerifyFailed
	}

	out := append(params, byte(alg.Hash), byte(alg.Sig))
	out = append(out, byte(len(sig)>>8), byte(len(sig)))
	out = append(out, sig...)
	return out, nil
}

func (c *Context) hashBytes(alg ext.HashAlg, data []byte) []byte {
	if c.Collaborators == nil || c.Collaborators.Hash == nil {
		return nil
	}
	newHash := c.Collaborators.Hash(alg)
	if newHash == nil {
		return nil
	}
	h := newHash()
	h.Write(data)
	return h.Sum(nil)
}

func appendMPIVector(dst []byte, v *mpi.MPI) []byte {
	n := v.ByteLength()
	buf := make([]byte, n)
	_ = v.WriteBinary(buf, n)
	dst = append(dst, byte(n>>8), byte(n))
	return append(dst, buf...)
}
