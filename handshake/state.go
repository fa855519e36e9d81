package handshake

// State enumerates the server states of spec.md §4.3. Optional states
// are skipped by direct transition when the corresponding feature is
// not in play (no client certificate requested, no new ticket, no
// ephemeral key exchange).
type State int

const (
	StateClientHello State = iota
	StateServerHello
	StateServerCertificate
	StateServerKeyExchange
	StateCertificateRequest
	StateServerHelloDone
	StateClientCertificate
	StateClientKeyExchange
	StateCertificateVerify
	StateClientChangeCipherSpec
	StateClientFinished
	StateServerChangeCipherSpec
	StateServerFinished
	StateHandshakeWrapup
	StateHandshakeOver
)

func (s State) String() string {
	switch s {
	case StateClientHello:
		return "CLIENT_HELLO"
	case StateServerHello:
		return "SERVER_HELLO"
	case StateServerCertificate:
		return "SERVER_CERTIFICATE"
	case StateServerKeyExchange:
		return "SERVER_KEY_EXCHANGE"
	case StateCertificateRequest:
		return "CERTIFICATE_REQUEST"
	case StateServerHelloDone:
		return "SERVER_HELLO_DONE"
	case StateClientCertificate:
		return "CLIENT_CERTIFICATE"
	case StateClientKeyExchange:
		return "CLIENT_KEY_EXCHANGE"
	case StateCertificateVerify:
		return "CERTIFICATE_VERIFY"
	case StateClientChangeCipherSpec:
		return "CLIENT_CHANGE_CIPHER_SPEC"
	case StateClientFinished:
		return "CLIENT_FINISHED"
	case StateServerChangeCipherSpec:
		return "SERVER_CHANGE_CIPHER_SPEC"
	case StateServerFinished:
		return "SERVER_FINISHED"
	case StateHandshakeWrapup:
		return "HANDSHAKE_WRAPUP"
	case StateHandshakeOver:
		return "HANDSHAKE_OVER"
	default:
		return "UNKNOWN"
	}
}

// Result is the three-way disposition of spec.md §7: OK advances
// state, Postpone means "need more bytes, substate saved", and a
// non-nil error from any entry point is always fatal (the FSM never
// retries internally).
type Result int

const (
	ResultOK Result = iota
	ResultPostpone
)
