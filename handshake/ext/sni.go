package ext

import (
	"strings"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/net/idna"
)

const serverNameTypeHostName = 0

// ParseServerName parses a server_name extension body (RFC 6066 §3)
// and returns the first host_name entry, normalized. Entries of any
// other NameType are skipped, matching the RFC's "MUST ignore
// unrecognized name types" guidance.
func ParseServerName(body []byte) (string, error) {
	s := cryptobyte.String(body)
	var list cryptobyte.String
	if !s.ReadUint16LengthPrefixed(&list) || !s.Empty() {
		return "", ErrMalformed
	}
	for !list.Empty() {
		var nameType uint8
		var name cryptobyte.String
		if !list.ReadUint8(&nameType) || !list.ReadUint16LengthPrefixed(&name) {
			return "", ErrMalformed
		}
		if nameType == serverNameTypeHostName {
			return normalizeHostName(string(name)), nil
		}
	}
	return "", ErrMalformed
}

// normalizeHostName lowercases, strips a trailing dot, and converts
// IDN labels to their ASCII (Punycode) form, mirroring browser SNI
// normalization: the vhost/certificate lookup that SNICallback drives
// must key on the same canonical form a client's literal Unicode or
// mixed-case host name would otherwise bypass. If idna conversion
// fails (not a validly encodable IDN), the lowercased/trimmed name is
// used as-is rather than rejecting the ClientHello outright — per
// spec.md §4.3, an unrecognized name is the SNICallback's concern, not
// this codec's.
func normalizeHostName(name string) string {
	if name == "" {
		return name
	}
	name = strings.ToLower(name)
	name = strings.TrimSuffix(name, ".")
	if ascii, err := idna.Lookup.ToASCII(name); err == nil {
		return ascii
	}
	return name
}

// BuildServerNameAck returns the (empty) server_name extension body
// servers echo back to acknowledge the client's SNI (RFC 6066 §3).
func BuildServerNameAck() []byte {
	return nil
}
