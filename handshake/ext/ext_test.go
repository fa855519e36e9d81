package ext

import (
	"testing"

	"golang.org/x/crypto/cryptobyte"
)

func buildUint16Vector(items ...byte) []byte {
	b := cryptobyte.NewBuilder(nil)
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes(items)
	})
	return b.BytesOrPanic()
}

func TestParseServerNameHostName(t *testing.T) {
	b := cryptobyte.NewBuilder(nil)
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddUint8(0) // host_name
		b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddBytes([]byte("example.com"))
		})
	})
	name, err := ParseServerName(b.BytesOrPanic())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "example.com" {
		t.Fatalf("got %q", name)
	}
}

func TestParseSignatureAlgorithmsKeepsFirstHashPerSig(t *testing.T) {
	body := buildUint16Vector(
		byte(HashSHA256), byte(SigRSA),
		byte(HashSHA1), byte(SigRSA), // duplicate sig, later hash ignored
		byte(HashSHA384), byte(SigECDSA),
	)
	algs, err := ParseSignatureAlgorithms(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h, ok := PreferredHashFor(algs, SigRSA)
	if !ok || h != HashSHA256 {
		t.Fatalf("expected first RSA hash SHA256, got %v ok=%v", h, ok)
	}
}

func TestParseSupportedGroupsRejectsDuplicates(t *testing.T) {
	body := buildUint16Vector(0x00, 0x17, 0x00, 0x17)
	if _, err := ParseSupportedGroups(body, 16); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestParseSupportedGroupsCapsAtMax(t *testing.T) {
	body := buildUint16Vector(0x00, 0x17, 0x00, 0x18, 0x00, 0x19)
	groups, err := ParseSupportedGroups(body, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected cap to 2, got %d", len(groups))
	}
}

func TestParseECPointFormatsPrefersUncompressed(t *testing.T) {
	b := cryptobyte.NewBuilder(nil)
	b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes([]byte{0x01, 0x00}) // compressed then uncompressed
	})
	compressedOnly, err := ParseECPointFormats(b.BytesOrPanic())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if compressedOnly {
		t.Fatalf("expected uncompressed to be recognised")
	}
}

func TestParseRenegotiationInfoRejectsNonEmpty(t *testing.T) {
	if err := ParseRenegotiationInfo([]byte{0x01, 0xAA}); err != ErrMalformed {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if err := ParseRenegotiationInfo([]byte{0x00}); err != nil {
		t.Fatalf("unexpected error on valid body: %v", err)
	}
}

func TestALPNSelectServerPreference(t *testing.T) {
	serverPref := []string{"h2", "http/1.1"}
	proto, ok := SelectALPN(serverPref, []string{"http/1.1", "h2"})
	if !ok || proto != "h2" {
		t.Fatalf("expected h2, got %q ok=%v", proto, ok)
	}
}

func TestALPNEmptyIntersectionFails(t *testing.T) {
	if _, ok := SelectALPN([]string{"h2"}, []string{"spdy/3"}); ok {
		t.Fatalf("expected empty intersection to fail")
	}
}

func TestParseALPNRoundTrip(t *testing.T) {
	b := cryptobyte.NewBuilder(nil)
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddBytes([]byte("h2"))
		})
		b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddBytes([]byte("http/1.1"))
		})
	})
	protos, err := ParseALPN(b.BytesOrPanic(), 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(protos) != 2 || protos[0] != "h2" || protos[1] != "http/1.1" {
		t.Fatalf("got %v", protos)
	}
}
