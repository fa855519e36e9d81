package handshake

// KeyExchangeKind distinguishes the ServerKeyExchange/ClientKeyExchange
// branch a ciphersuite drives (spec.md §4.3).
type KeyExchangeKind int

const (
	KeyExchangeRSA KeyExchangeKind = iota
	KeyExchangeECDHE
	KeyExchangeDHE
)

// AuthKind is the signature algorithm a ciphersuite's ServerKeyExchange
// (when present) or certificate requires.
type AuthKind int

const (
	AuthRSA AuthKind = iota
	AuthECDSA
	AuthNone // RSA key exchange: certificate carries the key directly
)

// CipherSuite is the subset of a TLS 1.2 ciphersuite definition the
// handshake core needs to drive key exchange and signing; record-layer
// bulk cipher/MAC selection is an external collaborator's concern
// (spec.md §1 Out of scope), so only the wire ID is retained for that
// purpose.
type CipherSuite struct {
	ID          uint16
	Name        string
	KeyExchange KeyExchangeKind
	Auth        AuthKind
}

// Well-known TLS 1.2 ciphersuite IDs (RFC 5246/5289/5288), enough of
// the registry to exercise every key-exchange/auth branch the
// handshake core distinguishes.
const (
	suiteECDHEECDSAAES128GCMSHA256 uint16 = 0xC02B
	suiteECDHERSAAES128GCMSHA256   uint16 = 0xC02F
	suiteDHERSAAES128GCMSHA256     uint16 = 0x009E
	suiteRSAAES128GCMSHA256        uint16 = 0x009C
	suiteRSAAES128CBCSHA           uint16 = 0x002F
)

// ServerSuites is the server's ciphersuite preference list in
// descending priority, consulted by Selection ordering (spec.md
// §4.3's "iterate the server ciphersuite preference list").
var ServerSuites = []*CipherSuite{
	{ID: suiteECDHEECDSAAES128GCMSHA256, Name: "TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256", KeyExchange: KeyExchangeECDHE, Auth: AuthECDSA},
	{ID: suiteECDHERSAAES128GCMSHA256, Name: "TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256", KeyExchange: KeyExchangeECDHE, Auth: AuthRSA},
	{ID: suiteDHERSAAES128GCMSHA256, Name: "TLS_DHE_RSA_WITH_AES_128_GCM_SHA256", KeyExchange: KeyExchangeDHE, Auth: AuthRSA},
	{ID: suiteRSAAES128GCMSHA256, Name: "TLS_RSA_WITH_AES_128_GCM_SHA256", KeyExchange: KeyExchangeRSA, Auth: AuthNone},
	{ID: suiteRSAAES128CBCSHA, Name: "TLS_RSA_WITH_AES_128_CBC_SHA", KeyExchange: KeyExchangeRSA, Auth: AuthNone},
}

func suiteByID(id uint16) (*CipherSuite, bool) {
	for _, s := range ServerSuites {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// ServerMaxVersion is the highest protocol version this server would
// negotiate absent any client constraint. In this TLS-1.2-only stack
// it always equals the one accepted version, but it is kept distinct
// from Context.Version so the FALLBACK_SCSV downgrade check in
// spec.md §8 has something to compare the client's offer against.
var ServerMaxVersion = Version32

func offeredContains(offered []uint16, id uint16) bool {
	for _, o := range offered {
		if o == id {
			return true
		}
	}
	return false
}
