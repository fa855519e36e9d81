package ext

import "golang.org/x/crypto/cryptobyte"

// ParseALPN parses the application_layer_protocol_negotiation
// extension body (RFC 7301 §3.1), capping the number of protocol
// names considered at maxProtocols per spec.md §6's tunables.
func ParseALPN(body []byte, maxProtocols int) ([]string, error) {
	s := cryptobyte.String(body)
	var list cryptobyte.String
	if !s.ReadUint16LengthPrefixed(&list) || !s.Empty() || list.Empty() {
		return nil, ErrMalformed
	}
	var out []string
	for !list.Empty() {
		var name cryptobyte.String
		if !list.ReadUint8LengthPrefixed(&name) || len(name) == 0 {
			return nil, ErrMalformed
		}
		if len(out) < maxProtocols {
			out = append(out, string(name))
		}
	}
	return out, nil
}

// SelectALPN applies server preference order over the client's offered
// list, per spec.md §4.3 ("server-preference intersection"). Returns
// ok=false when the intersection is empty.
func SelectALPN(serverPreference, clientOffered []string) (string, bool) {
	offered := make(map[string]bool, len(clientOffered))
	for _, p := range clientOffered {
		offered[p] = true
	}
	for _, p := range serverPreference {
		if offered[p] {
			return p, true
		}
	}
	return "", false
}

// BuildALPN encodes the single negotiated protocol name as the
// server's ALPN extension body.
func BuildALPN(proto string) []byte {
	b := cryptobyte.NewBuilder(nil)
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddBytes([]byte(proto))
		})
	})
	return b.BytesOrPanic()
}
