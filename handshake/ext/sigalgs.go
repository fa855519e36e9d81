package ext

import "golang.org/x/crypto/cryptobyte"

// HashAlg and SigAlg are the one-byte TLS 1.2 SignatureAndHashAlgorithm
// components (RFC 5246 §7.4.1.4.1).
type HashAlg uint8
type SigAlg uint8

const (
	HashNone   HashAlg = 0
	HashMD5    HashAlg = 1
	HashSHA1   HashAlg = 2
	HashSHA224 HashAlg = 3
	HashSHA256 HashAlg = 4
	HashSHA384 HashAlg = 5
	HashSHA512 HashAlg = 6
)

const (
	SigAnonymous SigAlg = 0
	SigRSA       SigAlg = 1
	SigDSA       SigAlg = 2
	SigECDSA     SigAlg = 3
)

// SigHashAlg is one (hash, sig) pair as carried on the wire.
type SigHashAlg struct {
	Hash HashAlg
	Sig  SigAlg
}

// ParseSignatureAlgorithms parses the signature_algorithms extension
// body (RFC 5246 §7.4.1.4.1), keeping only the first hash seen per
// signature algorithm per spec.md §4.3 ("one hash per sig is kept").
func ParseSignatureAlgorithms(body []byte) ([]SigHashAlg, error) {
	s := cryptobyte.String(body)
	var list cryptobyte.String
	if !s.ReadUint16LengthPrefixed(&list) || !s.Empty() {
		return nil, ErrMalformed
	}
	if len(list)%2 != 0 {
		return nil, ErrMalformed
	}
	seen := make(map[SigAlg]bool)
	var out []SigHashAlg
	for !list.Empty() {
		var h, sg uint8
		if !list.ReadUint8(&h) || !list.ReadUint8(&sg) {
			return nil, ErrMalformed
		}
		sig := SigAlg(sg)
		if seen[sig] {
			continue
		}
		seen[sig] = true
		out = append(out, SigHashAlg{Hash: HashAlg(h), Sig: sig})
	}
	return out, nil
}

// PreferredHashFor returns the first accepted hash for sig in the
// client's list, used when the server must pick a (hash, sig) pair
// for ServerKeyExchange/CertificateVerify.
func PreferredHashFor(algs []SigHashAlg, sig SigAlg) (HashAlg, bool) {
	for _, a := range algs {
		if a.Sig == sig {
			return a.Hash, true
		}
	}
	return HashNone, false
}
