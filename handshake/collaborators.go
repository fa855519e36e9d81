package handshake

import (
	"hash"

	"github.com/packetgate/tlscore/handshake/ext"
)

// Collaborators bundles the external interfaces spec.md §6 names:
// everything the handshake core consumes but does not implement
// itself (RNG, wall clock, vhost resolution, ticket sealing,
// asymmetric-key operations, hashing, and record-layer glue).
type Collaborators struct {
	// RNG fills buf with cryptographically strong randomness; must not
	// fail in practice, but returns an error so callers can translate a
	// catastrophic failure into RANDOM_FAILED rather than panicking.
	RNG func(buf []byte) error

	// Now returns seconds since the Unix epoch, used only for the
	// client/server random prefix and ticket lifetime base.
	Now func() int64

	// SNICallback binds a peer configuration (vhost, certificate store)
	// for name. A non-nil error is a miss and is fatal per spec.md §4.3.
	SNICallback func(c *Context, name string) error

	// TicketParse attempts to open an opaque session ticket. ok=false on
	// any failure (including no ticket support configured); this must
	// never be treated as fatal (spec.md §4.3: "failure is non-fatal").
	TicketParse func(c *Context, ticket []byte) (sess *Session, ok bool)

	// TicketWrite seals c's current session into a fresh ticket with a
	// lifetime hint in seconds.
	TicketWrite func(c *Context) (ticket []byte, lifetimeHint uint32, err error)

	// Sign computes a signature over digest using the server's private
	// key under the given (hash, sig) algorithm pair, for
	// ServerKeyExchange.
	Sign func(c *Context, alg ext.SigHashAlg, digest []byte) (signature []byte, err error)

	// Verify checks a CertificateVerify signature against the peer
	// certificate's public key.
	Verify func(cert *Certificate, alg ext.SigHashAlg, digest, signature []byte) error

	// Decrypt performs the server's private-key RSA decryption of an
	// RSA ClientKeyExchange ciphertext. Per spec.md's Non-goals,
	// side-channel hardening of the RSA private-key operation itself is
	// delegated to this collaborator; fail is the raw decrypt status
	// (zero on success, any non-zero byte if the PKCS#1 v1.5 padding was
	// malformed), passed straight through to kx.DeriveRSAPremaster's
	// branch-free diff accumulator rather than collapsed to a bool, so
	// that signal never escapes before the Finished MAC check.
	Decrypt func(ciphertext []byte) (plaintext []byte, fail byte)

	// Hash returns a constructor for a fresh hash.Hash of the given TLS
	// 1.2 hash algorithm, used to build the handshake transcript digest
	// and the ServerKeyExchange/CertificateVerify signature input.
	Hash func(alg ext.HashAlg) (newHash func() hash.Hash)

	// DeriveKeys runs the master-secret and key-block derivation once
	// the premaster secret is known.
	DeriveKeys func(c *Context) error

	// UpdateChecksum folds one handshake message's bytes into the
	// running transcript hash(es); called by Context.recordTranscript.
	UpdateChecksum func(c *Context, msg []byte)

	// WriteChangeCipherSpec returns the one-byte ChangeCipherSpec record
	// body collaborators emit; not part of the handshake transcript.
	WriteChangeCipherSpec func(c *Context) []byte
}
