package handshake

import (
	"encoding/binary"

	"github.com/packetgate/tlscore/handshake/ext"
)

// Segment is one scatter-gather piece of an output flight (spec.md
// §4.3: "assembled into scatter-gather segments"); the caller is
// responsible for framing these into TLS records.
type Segment struct {
	Kind HandshakeType
	Body []byte
}

// HandshakeType is a TLS HandshakeType (RFC 5246 §7.4).
type HandshakeType uint8

const (
	HTServerHello        HandshakeType = 2
	HTCertificate         HandshakeType = 11
	HTServerKeyExchange   HandshakeType = 12
	HTCertificateRequest  HandshakeType = 13
	HTServerHelloDone     HandshakeType = 14
	HTCertificateVerify   HandshakeType = 15
	HTClientKeyExchange   HandshakeType = 16
	HTFinished            HandshakeType = 20
	HTNewSessionTicket    HandshakeType = 4
)

func handshakeHeader(typ HandshakeType, bodyLen int) []byte {
	h := make([]byte, 4)
	h[0] = byte(typ)
	h[1] = byte(bodyLen >> 16)
	h[2] = byte(bodyLen >> 8)
	h[3] = byte(bodyLen)
	return h
}

func frame(typ HandshakeType, body []byte) []byte {
	return append(handshakeHeader(typ, len(body)), body...)
}

// BuildServerHelloFlight assembles the single output flight of
// spec.md §4.3's "ServerHello emission": ServerHello, Certificate,
// optional ServerKeyExchange, optional CertificateRequest (disabled by
// default), ServerHelloDone. Must be called only after Context.State
// == StateServerHello (i.e. after ClientHello selection completed).
func (c *Context) BuildServerHelloFlight() ([]Segment, error) {
	var segs []Segment

	if err := c.rng(c.ServerRandom[:]); err != nil {
		return nil, err
	}
	now := c.now()
	binary.BigEndian.PutUint32(c.ServerRandom[:4], uint32(now))

	sessionID := c.sessionID
	if !c.Flags.Resume {
		fresh := make([]byte, 32)
		if err := c.rng(fresh); err != nil {
			return nil, err
		}
		if c.Flags.NewSessionTicket {
			sessionID = nil
		} else {
			sessionID = fresh
		}
	}
	c.sessionID = sessionID

	hello := c.buildServerHelloBody(sessionID)
	segs = append(segs, Segment{Kind: HTServerHello, Body: hello})
	c.recordTranscript(frame(HTServerHello, hello))

	if c.Flags.Resume {
		c.State = StateClientChangeCipherSpec
		return segs, nil
	}

	if c.Cert != nil {
		certBody := encodeCertificateChain(c.Cert.Chain)
		segs = append(segs, Segment{Kind: HTCertificate, Body: certBody})
		c.recordTranscript(frame(HTCertificate, certBody))
	}

	if c.Suite != nil && c.Suite.KeyExchange != KeyExchangeRSA {
		skeBody, err := c.buildServerKeyExchange()
		if err != nil {
			return nil, err
		}
		segs = append(segs, Segment{Kind: HTServerKeyExchange, Body: skeBody})
		c.recordTranscript(frame(HTServerKeyExchange, skeBody))
	}

	if c.Config.CertificateRequestEnabled {
		crBody := buildCertificateRequest()
		segs = append(segs, Segment{Kind: HTCertificateRequest, Body: crBody})
		c.recordTranscript(frame(HTCertificateRequest, crBody))
	}

	segs = append(segs, Segment{Kind: HTServerHelloDone, Body: nil})
	c.recordTranscript(frame(HTServerHelloDone, nil))

	c.State = StateClientKeyExchange
	return segs, nil
}

func (c *Context) buildServerHelloBody(sessionID []byte) []byte {
	body := make([]byte, 0, 2+32+1+len(sessionID)+2+1+64)
	body = append(body, c.Version.Major, c.Version.Minor)
	body = append(body, c.ServerRandom[:]...)
	body = append(body, byte(len(sessionID)))
	body = append(body, sessionID...)
	suiteID := uint16(0)
	if c.Suite != nil {
		suiteID = c.Suite.ID
	}
	body = append(body, byte(suiteID>>8), byte(suiteID))
	body = append(body, 0x00) // compression method: null

	var exts []byte
	exts = appendExt(exts, ext.TypeRenegotiationInfo, ext.BuildRenegotiationInfo())
	if c.Flags.ExtendedMS {
		exts = appendExt(exts, ext.TypeExtendedMasterSecret, ext.BuildExtendedMasterSecret())
	}
	if c.ALPN != "" {
		exts = appendExt(exts, ext.TypeALPN, ext.BuildALPN(c.ALPN))
	}
	if c.Suite != nil && c.Suite.KeyExchange == KeyExchangeECDHE {
		exts = appendExt(exts, ext.TypeECPointFormats, ext.BuildECPointFormats())
	}

	body = append(body, byte(len(exts)>>8), byte(len(exts)))
	body = append(body, exts...)
	return body
}

func appendExt(dst []byte, typ ext.Type, body []byte) []byte {
	dst = append(dst, byte(typ>>8), byte(typ))
	dst = append(dst, byte(len(body)>>8), byte(len(body)))
	return append(dst, body...)
}

// encodeCertificateChain frames a DER chain as the TLS Certificate
// message body (RFC 5246 §7.4.2): a 24-bit total length followed by
// each 24-bit-length-prefixed DER certificate, leaf first.
func encodeCertificateChain(chain [][]byte) []byte {
	var certs []byte
	for _, der := range chain {
		certs = append(certs, byte(len(der)>>16), byte(len(der)>>8), byte(len(der)))
		certs = append(certs, der...)
	}
	out := make([]byte, 3, 3+len(certs))
	out[0], out[1], out[2] = byte(len(certs)>>16), byte(len(certs)>>8), byte(len(certs))
	return append(out, certs...)
}

// buildCertificateRequest serialises the (disabled by default)
// CertificateRequest body; present per spec.md §9's note that "the
// code to serialise it is present" even though the path is off.
func buildCertificateRequest() []byte {
	body := []byte{1, 0x01} // certificate_types: rsa_sign
	body = append(body, 0x00, 0x02, 0x04, 0x01) // supported_signature_algorithms: sha256/rsa
	body = append(body, 0x00, 0x00) // certificate_authorities: empty
	return body
}
