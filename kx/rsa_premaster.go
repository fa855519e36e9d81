package kx

// RSAPremasterLen is the fixed length of an RSA-exchanged premaster
// secret (ProtocolVersion + 46 random bytes, RFC 5246 §7.4.7.1).
const RSAPremasterLen = 48

// neMask returns 0xFF if b is non-zero, else 0x00, using only shifts,
// ORs, and one multiply — no branch and no table lookup keyed on b.
func neMask(b byte) byte {
	v := uint32(b)
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	return byte(v&1) * 0xFF
}

// DeriveRSAPremaster implements the PKCS#1 v1.5 Bleichenbacher
// countermeasure of spec.md §4.3: regardless of whether RSA decryption
// of the ClientKeyExchange ciphertext succeeded, or whether the
// decrypted value looks like a well-formed premaster, this always
// returns a 48-byte value — either the peer's claimed premaster or a
// freshly generated random one — selected byte-wise by a mask so that
// no downstream branch (and in particular, nothing observable before
// the server Finished MAC check) depends on which one was chosen.
//
// decryptFail is the raw status of the RSA decryption step itself
// (zero on success, any non-zero byte on failure — wrong padding,
// wrong length from the raw RSA operation, etc), taken straight from
// the caller and OR'd into diff exactly like the length and version
// checks below it: no bool, no branch, just bits, matching
// original_source/tls/tls_srv.c's "avoid data-dependant branches here
// to protect against timing-based variants" fold of its own decrypt
// return code.
func DeriveRSAPremaster(peerPMS []byte, decryptFail byte, clientMajor, clientMinor byte, rng func([]byte) error) ([]byte, error) {
	fake := make([]byte, RSAPremasterLen)
	if err := rng(fake); err != nil {
		return nil, ErrRandomFailed
	}

	peer := make([]byte, RSAPremasterLen)
	copy(peer, peerPMS)

	diff := decryptFail
	diff |= byte(len(peerPMS) ^ RSAPremasterLen)
	diff |= peer[0] ^ clientMajor
	diff |= peer[1] ^ clientMinor

	mask := neMask(diff)

	out := make([]byte, RSAPremasterLen)
	for i := range out {
		out[i] = (fake[i] & mask) | (peer[i] &^ mask)
	}
	return out, nil
}
