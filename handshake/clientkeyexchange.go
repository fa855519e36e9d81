package handshake

import (
	"github.com/packetgate/tlscore/alert"
	"github.com/packetgate/tlscore/kx"
)

// FeedClientKeyExchange consumes the already-reassembled
// ClientKeyExchange body (spec.md §4.3: "Chunked input is coalesced
// into a bounded buffer only when the message arrives fragmented;
// otherwise parsed in place" — callers fragment-assemble upstream of
// this entry point using the same accumulate-until-length-known
// pattern as the ClientHello parser, so this function always sees a
// complete body).
func (c *Context) FeedClientKeyExchange(body []byte) error {
	if c.Suite == nil {
		return alert.ErrBadHSClientKeyExchange
	}

	var premaster []byte
	var err error

	switch c.Suite.KeyExchange {
	case KeyExchangeECDHE:
		premaster, err = c.clientKeyExchangeECDHE(body)
	case KeyExchangeDHE:
		premaster, err = c.clientKeyExchangeDHE(body)
	case KeyExchangeRSA:
		premaster, err = c.clientKeyExchangeRSA(body)
	default:
		return alert.ErrFeatureUnavailable
	}
	if err != nil {
		return err
	}

	c.recordTranscript(frame(HTClientKeyExchange, body))
	c.premaster = premaster

	if c.Collaborators != nil && c.Collaborators.DeriveKeys != nil {
		if err := c.Collaborators.DeriveKeys(c); err != nil {
			return err
		}
	}

	c.State = StateCertificateVerify
	return nil
}

func (c *Context) clientKeyExchangeECDHE(body []byte) ([]byte, error) {
	if len(body) < 1 {
		return nil, alert.ErrBadHSClientKeyExchange
	}
	n := int(body[0])
	if len(body) != 1+n {
		return nil, alert.ErrBadHSClientKeyExchange
	}
	peer, err := kx.ReadECDHPublic(c.Curve, body[1:])
	if err != nil {
		return nil, alert.ErrBadHSClientKeyExchange
	}
	secret, err := c.ECDH.DeriveSecret(peer, c.rng)
	if err != nil {
		return nil, alert.ErrBadHSClientKeyExchange
	}
	return secret, nil
}

func (c *Context) clientKeyExchangeDHE(body []byte) ([]byte, error) {
	if len(body) < 2 {
		return nil, alert.ErrBadHSClientKeyExchange
	}
	n := int(body[0])<<8 | int(body[1])
	if len(body) != 2+n {
		return nil, alert.ErrBadHSClientKeyExchange
	}
	peer, err := kx.ReadDHPublic(body[2:])
	if err != nil {
		return nil, alert.ErrBadHSClientKeyExchange
	}
	secret, err := c.DH.DeriveSecret(peer)
	if err != nil {
		return nil, alert.ErrBadHSClientKeyExchange
	}
	return secret, nil
}

// clientKeyExchangeRSA implements the Bleichenbacher-resistant path:
// the raw RSA decryption result (success/failure and whatever bytes
// came out) is fed straight into kx.DeriveRSAPremaster without any
// branch here that could leak decrypt status before Finished.
func (c *Context) clientKeyExchangeRSA(body []byte) ([]byte, error) {
	ciphertext := body
	if len(ciphertext) >= 2 {
		// TLS 1.2 RSA ClientKeyExchange carries a 2-byte length prefix
		// (historical artifact avoided in SSLv3); if present and
		// consistent, strip it, else treat body as the raw ciphertext.
		n := int(ciphertext[0])<<8 | int(ciphertext[1])
		if n == len(ciphertext)-2 {
			ciphertext = ciphertext[2:]
		}
	}

	var decrypted []byte
	decryptFail := byte(0xFF)
	if c.Collaborators != nil && c.Collaborators.Decrypt != nil {
		decrypted, decryptFail = c.Collaborators.Decrypt(ciphertext)
	}

	premaster, err := kx.DeriveRSAPremaster(decrypted, decryptFail, c.Version.Major, c.Version.Minor, c.rng)
	if err != nil {
		return nil, err
	}
	return premaster, nil
}
