package handshake

import (
	"github.com/packetgate/tlscore/alert"
	"github.com/packetgate/tlscore/handshake/ext"
)

// FeedCertificateVerify consumes an already-reassembled
// CertificateVerify body (spec.md §4.3): (hash-alg, sig-alg, len,
// signature), verified against the peer certificate's public key over
// the running handshake transcript digest. Only reached when a client
// certificate was requested and sent; callers should skip straight to
// FeedChangeCipherSpec otherwise.
func (c *Context) FeedCertificateVerify(body []byte) error {
	if len(body) < 4 {
		return alert.ErrBadHSCertificateVerify
	}
	alg := ext.SigHashAlg{Hash: ext.HashAlg(body[0]), Sig: ext.SigAlg(body[1])}
	sigLen := int(body[2])<<8 | int(body[3])
	if len(body) != 4+sigLen {
		return alert.ErrSigLenMismatch
	}
	sig := body[4:]

	digest := c.hashBytes(alg.Hash, c.transcript)

	if c.Collaborators == nil || c.Collaborators.Verify == nil || c.Cert == nil {
		return alert.ErrFeatureUnavailable
	}
	if err := c.Collaborators.Verify(c.Cert, alg, digest, sig); err != nil {
		return alert.ErrVerifyFailed
	}

	c.recordTranscript(frame(HTCertificateVerify, body))
	c.State = StateClientChangeCipherSpec
	return nil
}
