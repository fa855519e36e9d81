package ext

import "golang.org/x/crypto/cryptobyte"

const pointFormatUncompressed = 0

// ParseECPointFormats parses the ec_point_formats extension body
// (RFC 4492 §5.1.2) and reports whether uncompressed is offered
// (spec.md §4.3: "prefer uncompressed; set compressed flag" — the
// CompressedOnly return communicates the inverse to the caller).
func ParseECPointFormats(body []byte) (compressedOnly bool, err error) {
	s := cryptobyte.String(body)
	var list cryptobyte.String
	if !s.ReadUint8LengthPrefixed(&list) || !s.Empty() {
		return false, ErrMalformed
	}
	sawUncompressed := false
	for !list.Empty() {
		var f uint8
		if !list.ReadUint8(&f) {
			return false, ErrMalformed
		}
		if f == pointFormatUncompressed {
			sawUncompressed = true
		}
	}
	return !sawUncompressed, nil
}

// BuildECPointFormats returns the server's ec_point_formats body,
// which is always just {uncompressed} since this stack never emits
// compressed points.
func BuildECPointFormats() []byte {
	return []byte{0x01, pointFormatUncompressed}
}
