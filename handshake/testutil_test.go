package handshake

import (
	"crypto/sha256"
	"hash"
	"math/rand"

	"github.com/packetgate/tlscore/handshake/ext"
)

func testRNG(seed int64) func([]byte) error {
	r := rand.New(rand.NewSource(seed))
	return func(b []byte) error {
		_, err := r.Read(b)
		return err
	}
}

// chOpts configures a synthetic ClientHello body for tests.
type chOpts struct {
	version        [2]byte
	sessionID      []byte
	suites         []uint16
	curves         []uint16
	sigAlgs        []ext.SigHashAlg
	alpn           []string
	sni            string
	ems            bool
	renegotiation  bool
	ticket         []byte
	sessionTicket  bool
	omitCurvesExt  bool
	omitSigAlgsExt bool
	badCompression bool
}

func buildUint16Vec(items ...byte) []byte {
	out := make([]byte, 2, 2+len(items))
	out[0], out[1] = byte(len(items)>>8), byte(len(items))
	return append(out, items...)
}

func buildUint8Vec(items ...byte) []byte {
	out := make([]byte, 1, 1+len(items))
	out[0] = byte(len(items))
	return append(out, items...)
}

func buildExt(typ ext.Type, body []byte) []byte {
	out := []byte{byte(typ >> 8), byte(typ), byte(len(body) >> 8), byte(len(body))}
	return append(out, body...)
}

func buildClientHello(o chOpts) []byte {
	var body []byte
	body = append(body, o.version[0], o.version[1])
	body = append(body, make([]byte, 32)...) // client random
	body = append(body, byte(len(o.sessionID)))
	body = append(body, o.sessionID...)

	var cs []byte
	for _, id := range o.suites {
		cs = append(cs, byte(id>>8), byte(id))
	}
	body = append(body, byte(len(cs)>>8), byte(len(cs)))
	body = append(body, cs...)

	if o.badCompression {
		body = append(body, buildUint8Vec(0x01)...) // no null method
	} else {
		body = append(body, buildUint8Vec(0x00)...)
	}

	var exts []byte
	if !o.omitCurvesExt {
		var groups []byte
		for _, g := range o.curves {
			groups = append(groups, byte(g>>8), byte(g))
		}
		exts = append(exts, buildExt(ext.TypeSupportedGroups, buildUint16Vec(groups...))...)
	}
	if !o.omitSigAlgsExt {
		var sa []byte
		for _, a := range o.sigAlgs {
			sa = append(sa, byte(a.Hash), byte(a.Sig))
		}
		exts = append(exts, buildExt(ext.TypeSignatureAlgorithms, buildUint16Vec(sa...))...)
	}
	if len(o.alpn) > 0 {
		var protoList []byte
		for _, p := range o.alpn {
			protoList = append(protoList, buildUint8Vec([]byte(p)...)...)
		}
		exts = append(exts, buildExt(ext.TypeALPN, buildUint16Vec(protoList...))...)
	}
	if o.sni != "" {
		nameEntry := append([]byte{0x00}, buildUint16Vec([]byte(o.sni)...)...)
		exts = append(exts, buildExt(ext.TypeServerName, buildUint16Vec(nameEntry...))...)
	}
	if o.ems {
		exts = append(exts, buildExt(ext.TypeExtendedMasterSecret, nil)...)
	}
	if o.renegotiation {
		exts = append(exts, buildExt(ext.TypeRenegotiationInfo, []byte{0x00})...)
	}
	if o.sessionTicket {
		exts = append(exts, buildExt(ext.TypeSessionTicket, o.ticket)...)
	}

	body = append(body, byte(len(exts)>>8), byte(len(exts)))
	body = append(body, exts...)
	return body
}

func sha256HashCtor(alg ext.HashAlg) func() hash.Hash {
	return func() hash.Hash { return sha256.New() }
}

func testCollaborators() *Collaborators {
	return &Collaborators{
		RNG: testRNG(42),
		Now: func() int64 { return 1700000000 },
		Hash: func(alg ext.HashAlg) func() hash.Hash {
			return sha256HashCtor(alg)
		},
		Sign: func(c *Context, alg ext.SigHashAlg, digest []byte) ([]byte, error) {
			return append([]byte("sig:"), digest...), nil
		},
		Verify: func(cert *Certificate, alg ext.SigHashAlg, digest, sig []byte) error {
			return nil
		},
		DeriveKeys: func(c *Context) error {
			pm := c.Premaster()
			ms := make([]byte, 48)
			copy(ms, pm)
			c.SetMasterSecret(ms)
			return nil
		},
		UpdateChecksum:        func(c *Context, msg []byte) {},
		WriteChangeCipherSpec: func(c *Context) []byte { return []byte{0x01} },
	}
}
