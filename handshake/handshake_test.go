package handshake

import (
	"bytes"
	"errors"
	"testing"

	"github.com/packetgate/tlscore/config"
	"github.com/packetgate/tlscore/handshake/ext"
	"github.com/packetgate/tlscore/kx"
	"github.com/packetgate/tlscore/mpi"
)

func feedWhole(t *testing.T, c *Context, body []byte) {
	t.Helper()
	res, err := c.FeedClientHello(body)
	if err != nil {
		t.Fatalf("FeedClientHello: %v", err)
	}
	if res != ResultOK {
		t.Fatalf("expected ResultOK from a single-shot feed, got %v", res)
	}
}

// Scenario 1: ECDHE-ECDSA on secp256r1.
func TestScenarioECDHEECDSA(t *testing.T) {
	body := buildClientHello(chOpts{
		version: [2]byte{3, 3},
		suites:  []uint16{suiteECDHEECDSAAES128GCMSHA256},
		curves:  []uint16{23}, // secp256r1
		sigAlgs: []ext.SigHashAlg{{Hash: ext.HashSHA256, Sig: ext.SigECDSA}},
	})

	c := NewContext(nil, testCollaborators())
	c.Cert = &Certificate{Chain: [][]byte{[]byte("fake-der-cert")}}
	feedWhole(t, c, body)

	if c.Suite == nil || c.Suite.ID != suiteECDHEECDSAAES128GCMSHA256 {
		t.Fatalf("expected ECDHE-ECDSA suite, got %v", c.Suite)
	}
	if c.Curve == nil || c.Curve.WireID != 23 {
		t.Fatalf("expected secp256r1, got %v", c.Curve)
	}
	if c.State != StateServerHello {
		t.Fatalf("expected StateServerHello, got %v", c.State)
	}

	segs, err := c.BuildServerHelloFlight()
	if err != nil {
		t.Fatalf("BuildServerHelloFlight: %v", err)
	}
	var sawSKE bool
	for _, s := range segs {
		if s.Kind == HTServerKeyExchange {
			sawSKE = true
		}
	}
	if !sawSKE {
		t.Fatalf("expected a ServerKeyExchange segment for an ECDHE suite")
	}
	if c.State != StateClientKeyExchange {
		t.Fatalf("expected StateClientKeyExchange after flight, got %v", c.State)
	}

	clientECDH, err := kx.NewECDHEParams(c.Curve, testRNG(7))
	if err != nil {
		t.Fatalf("client ecdh: %v", err)
	}
	pub, err := clientECDH.EncodePublic()
	if err != nil {
		t.Fatalf("encode client pub: %v", err)
	}
	ckeBody := append([]byte{byte(len(pub))}, pub...)
	if err := c.FeedClientKeyExchange(ckeBody); err != nil {
		t.Fatalf("FeedClientKeyExchange: %v", err)
	}
	if len(c.MasterSecret()) != 48 {
		t.Fatalf("expected 48-byte master secret, got %d", len(c.MasterSecret()))
	}
}

// Scenario 2: DHE-RSA with a configured group.
func TestScenarioDHERSA(t *testing.T) {
	p := mpi.New()
	p.ReadBinary([]byte{
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xC5,
	})
	g := mpi.New()
	g.SetInt(2)
	cfg := config.Default()
	cfg.SetDHGroup(p, g)

	body := buildClientHello(chOpts{
		version:       [2]byte{3, 3},
		suites:        []uint16{suiteDHERSAAES128GCMSHA256},
		omitCurvesExt: true,
		sigAlgs:       []ext.SigHashAlg{{Hash: ext.HashSHA256, Sig: ext.SigRSA}},
	})

	c := NewContext(cfg, testCollaborators())
	c.Cert = &Certificate{Chain: [][]byte{[]byte("fake-der-cert")}}
	feedWhole(t, c, body)

	if c.Suite == nil || c.Suite.ID != suiteDHERSAAES128GCMSHA256 {
		t.Fatalf("expected DHE-RSA suite, got %v", c.Suite)
	}

	if _, err := c.BuildServerHelloFlight(); err != nil {
		t.Fatalf("BuildServerHelloFlight: %v", err)
	}
	if c.DH == nil {
		t.Fatalf("expected a DH context to have been created")
	}
}

// Scenario 3: malformed RSA ClientKeyExchange must fail at Finished,
// not at ClientKeyExchange parsing.
func TestScenarioRSABadPadding(t *testing.T) {
	body := buildClientHello(chOpts{
		version: [2]byte{3, 3},
		suites:  []uint16{suiteRSAAES128GCMSHA256},
		sigAlgs: []ext.SigHashAlg{{Hash: ext.HashSHA256, Sig: ext.SigRSA}},
	})

	collab := testCollaborators()
	collab.Decrypt = func(ciphertext []byte) ([]byte, byte) {
		return nil, 0xFF // simulate a PKCS#1 v1.5 padding failure
	}

	c := NewContext(nil, collab)
	c.Cert = &Certificate{Chain: [][]byte{[]byte("fake-der-cert")}}
	feedWhole(t, c, body)

	if c.Suite == nil || c.Suite.ID != suiteRSAAES128GCMSHA256 {
		t.Fatalf("expected RSA suite, got %v", c.Suite)
	}
	if _, err := c.BuildServerHelloFlight(); err != nil {
		t.Fatalf("BuildServerHelloFlight: %v", err)
	}

	garbage := make([]byte, 64)
	if err := c.FeedClientKeyExchange(append([]byte{0x00, 64}, garbage...)); err != nil {
		t.Fatalf("ClientKeyExchange must not fail even on a bad premaster: %v", err)
	}
	if len(c.MasterSecret()) != 48 {
		t.Fatalf("expected a (wrong) 48-byte master secret to still be derived")
	}

	wrongFinished := bytes.Repeat([]byte{0xAA}, finishedBodyLen)
	expected := bytes.Repeat([]byte{0xBB}, finishedBodyLen)
	if err := c.FeedClientFinished(wrongFinished, expected); err == nil {
		t.Fatalf("expected Finished verification to fail for a corrupted premaster")
	}
}

// Scenario 4: session resumption via ticket.
func TestScenarioResumption(t *testing.T) {
	body := buildClientHello(chOpts{
		version:       [2]byte{3, 3},
		sessionID:     bytes.Repeat([]byte{0x01}, 32),
		suites:        []uint16{suiteRSAAES128GCMSHA256},
		sigAlgs:       []ext.SigHashAlg{{Hash: ext.HashSHA256, Sig: ext.SigRSA}},
		sessionTicket: true,
		ticket:        []byte("opaque-ticket-blob"),
	})

	collab := testCollaborators()
	collab.TicketParse = func(c *Context, ticket []byte) (*Session, bool) {
		return &Session{ID: []byte("resumed"), MasterSecret: bytes.Repeat([]byte{0x42}, 48), CipherSuite: suiteRSAAES128GCMSHA256}, true
	}

	c := NewContext(nil, collab)
	feedWhole(t, c, body)

	if !c.Flags.Resume {
		t.Fatalf("expected resumption to be recognised")
	}

	segs, err := c.BuildServerHelloFlight()
	if err != nil {
		t.Fatalf("BuildServerHelloFlight: %v", err)
	}
	if len(segs) != 1 || segs[0].Kind != HTServerHello {
		t.Fatalf("resumption flight should be ServerHello only, got %d segments", len(segs))
	}
	if c.State != StateClientChangeCipherSpec {
		t.Fatalf("expected StateClientChangeCipherSpec, got %v", c.State)
	}
}

// Scenario 5 + fragmentation-invariance property: feeding a ClientHello
// one byte at a time must reach the same outcome as a single-shot feed.
func TestScenarioFragmentedClientHelloOneByteAtATime(t *testing.T) {
	body := buildClientHello(chOpts{
		version: [2]byte{3, 3},
		suites:  []uint16{suiteECDHEECDSAAES128GCMSHA256},
		curves:  []uint16{23},
		sigAlgs: []ext.SigHashAlg{{Hash: ext.HashSHA256, Sig: ext.SigECDSA}},
	})

	c := NewContext(nil, testCollaborators())
	var last Result
	var err error
	for i, b := range body {
		last, err = c.FeedClientHello([]byte{b})
		if err != nil {
			t.Fatalf("byte %d: unexpected error: %v", i, err)
		}
		if i < len(body)-1 && last != ResultPostpone {
			t.Fatalf("byte %d: expected POSTPONE, got %v", i, last)
		}
	}
	if last != ResultOK {
		t.Fatalf("expected final byte to complete the ClientHello, got %v", last)
	}
	if c.Suite == nil || c.Suite.ID != suiteECDHEECDSAAES128GCMSHA256 {
		t.Fatalf("fragmented parse produced a different suite selection: %v", c.Suite)
	}
}

func TestScenarioFragmentInArbitraryChunks(t *testing.T) {
	body := buildClientHello(chOpts{
		version: [2]byte{3, 3},
		suites:  []uint16{suiteECDHEECDSAAES128GCMSHA256},
		curves:  []uint16{23},
		sigAlgs: []ext.SigHashAlg{{Hash: ext.HashSHA256, Sig: ext.SigECDSA}},
	})
	chunkSizes := []int{1, 7, 3, 11, 2, 5}

	c := NewContext(nil, testCollaborators())
	pos := 0
	ci := 0
	var last Result
	var err error
	for pos < len(body) {
		n := chunkSizes[ci%len(chunkSizes)]
		ci++
		if pos+n > len(body) {
			n = len(body) - pos
		}
		last, err = c.FeedClientHello(body[pos : pos+n])
		if err != nil {
			t.Fatalf("chunk at %d: unexpected error: %v", pos, err)
		}
		pos += n
	}
	if last != ResultOK {
		t.Fatalf("expected ResultOK at end of input, got %v", last)
	}
	if c.Suite == nil || c.Suite.ID != suiteECDHEECDSAAES128GCMSHA256 {
		t.Fatalf("arbitrary-chunk parse produced a different suite selection: %v", c.Suite)
	}
}

// Scenario 6: SNI miss is fatal.
func TestScenarioSNIMiss(t *testing.T) {
	body := buildClientHello(chOpts{
		version: [2]byte{3, 3},
		suites:  []uint16{suiteECDHEECDSAAES128GCMSHA256},
		curves:  []uint16{23},
		sigAlgs: []ext.SigHashAlg{{Hash: ext.HashSHA256, Sig: ext.SigECDSA}},
		sni:     "nonexistent.example.com",
	})

	collab := testCollaborators()
	collab.SNICallback = func(c *Context, name string) error {
		return errors.New("no such vhost")
	}

	c := NewContext(nil, collab)
	_, err := c.FeedClientHello(body)
	if err == nil {
		t.Fatalf("expected a fatal error on SNI miss")
	}
}

func TestFallbackSCSVTriggersInappropriateFallback(t *testing.T) {
	body := buildClientHello(chOpts{
		version: [2]byte{3, 2}, // below ServerMaxVersion (3,3)
		suites:  []uint16{suiteRSAAES128GCMSHA256, 0x5600},
		sigAlgs: []ext.SigHashAlg{{Hash: ext.HashSHA256, Sig: ext.SigRSA}},
	})

	c := NewContext(nil, testCollaborators())
	_, err := c.FeedClientHello(body)
	if err == nil {
		t.Fatalf("expected INAPPROPRIATE_FALLBACK error")
	}
}

func TestMissingNullCompressionRejected(t *testing.T) {
	body := buildClientHello(chOpts{
		version:        [2]byte{3, 3},
		suites:         []uint16{suiteRSAAES128GCMSHA256},
		sigAlgs:        []ext.SigHashAlg{{Hash: ext.HashSHA256, Sig: ext.SigRSA}},
		badCompression: true,
	})

	c := NewContext(nil, testCollaborators())
	_, err := c.FeedClientHello(body)
	if err == nil {
		t.Fatalf("expected DECODE_ERROR for missing null compression method")
	}
}

func TestALPNEmptyIntersectionFatal(t *testing.T) {
	body := buildClientHello(chOpts{
		version: [2]byte{3, 3},
		suites:  []uint16{suiteRSAAES128GCMSHA256},
		sigAlgs: []ext.SigHashAlg{{Hash: ext.HashSHA256, Sig: ext.SigRSA}},
		alpn:    []string{"spdy/3"},
	})

	c := NewContext(nil, testCollaborators())
	_, err := c.FeedClientHello(body)
	if err == nil {
		t.Fatalf("expected NO_APPLICATION_PROTOCOL error")
	}
}

func TestALPNNegotiatesServerPreference(t *testing.T) {
	body := buildClientHello(chOpts{
		version: [2]byte{3, 3},
		suites:  []uint16{suiteRSAAES128GCMSHA256},
		sigAlgs: []ext.SigHashAlg{{Hash: ext.HashSHA256, Sig: ext.SigRSA}},
		alpn:    []string{"http/1.1", "h2"},
	})

	c := NewContext(nil, testCollaborators())
	feedWhole(t, c, body)
	if c.ALPN != "h2" {
		t.Fatalf("expected h2 (server's most preferred match), got %q", c.ALPN)
	}
}
