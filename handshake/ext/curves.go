package ext

import "golang.org/x/crypto/cryptobyte"

// ParseSupportedGroups parses the supported_groups (née "supported
// elliptic curves") extension body (RFC 4492 §5.1.1 / RFC 8422 §5.1.1),
// rejecting a client list containing a wire id more than once, per
// spec.md §4.3 ("intersect with curve registry; duplicates fatal").
func ParseSupportedGroups(body []byte, maxCurves int) ([]uint16, error) {
	s := cryptobyte.String(body)
	var list cryptobyte.String
	if !s.ReadUint16LengthPrefixed(&list) || !s.Empty() {
		return nil, ErrMalformed
	}
	if len(list)%2 != 0 {
		return nil, ErrMalformed
	}
	seen := make(map[uint16]bool)
	var out []uint16
	for !list.Empty() {
		var id uint16
		if !list.ReadUint16(&id) {
			return nil, ErrMalformed
		}
		if seen[id] {
			return nil, ErrDuplicate
		}
		seen[id] = true
		if len(out) < maxCurves {
			out = append(out, id)
		}
	}
	return out, nil
}
