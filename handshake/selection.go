package handshake

import (
	"github.com/packetgate/tlscore/alert"
	"github.com/packetgate/tlscore/ecp"
	"github.com/packetgate/tlscore/handshake/ext"
)

// finishClientHello runs spec.md §4.3's "Selection ordering" once the
// nested ClientHello FSM has consumed every byte of the message:
// downgrade/version check, the extended_master_secret requirement,
// vhost resolution, ciphersuite/curve negotiation, and ALPN
// negotiation. No certificate is checked during suite selection: a
// suite is chosen without regard to whether c.Cert can serve it.
func (c *Context) finishClientHello() error {
	if c.Flags.FallbackSCSVSeen && c.Version.Less(ServerMaxVersion) {
		return alert.ErrInappropriateFallback
	}
	if c.Version != Version32 {
		return alert.ErrProtocolVersion
	}
	if c.Config != nil && c.Config.RequireExtendedMasterSecret && !c.Flags.ExtendedMS {
		return alert.ErrHandshakeFailure
	}

	if c.VHostName != "" {
		if c.Collaborators != nil && c.Collaborators.SNICallback != nil {
			if err := c.Collaborators.SNICallback(c, c.VHostName); err != nil {
				return alert.ErrUnrecognizedName
			}
		}
	}

	if err := c.selectCipherSuite(); err != nil {
		return err
	}

	if len(c.offeredALPN) > 0 {
		proto, ok := ext.SelectALPN(ServerALPNPreference, c.offeredALPN)
		if !ok {
			return alert.ErrNoApplicationProtocol
		}
		c.ALPN = proto
	}

	if c.ticketBody != nil && c.Collaborators != nil && c.Collaborators.TicketParse != nil {
		if sess, ok := c.Collaborators.TicketParse(c, c.ticketBody); ok {
			c.session = sess
			c.Flags.Resume = true
		}
		// ticket decrypt failure is silently tolerated: a new ticket may
		// be issued instead (spec.md §4.3).
	}
	if c.offeredSessionTicketExt && !c.Flags.Resume && c.Collaborators != nil && c.Collaborators.TicketWrite != nil {
		c.Flags.NewSessionTicket = true
	}

	c.State = StateServerHello
	return nil
}

// ServerALPNPreference is the server's ALPN preference order consulted
// by spec.md §4.3's "server-preference intersection".
var ServerALPNPreference = []string{"h2", "http/1.1"}

// selectCipherSuite implements spec.md §4.3's iteration: walk the
// server preference list, and for each candidate check that the
// client offered it, that a usable curve exists for ECDHE suites, and
// that a compatible (hash, sig) pair exists for the suite's Auth kind.
// First match wins; no match is fatal HANDSHAKE_FAILURE.
func (c *Context) selectCipherSuite() error {
	for _, suite := range ServerSuites {
		if !offeredContains(c.css(), suite.ID) {
			continue
		}
		if suite.Auth != AuthNone {
			if _, ok := ext.PreferredHashFor(c.sigAlgs, sigAlgFor(suite.Auth)); !ok {
				continue
			}
		}
		if suite.KeyExchange == KeyExchangeECDHE {
			group, ok := c.selectCurve()
			if !ok {
				continue
			}
			c.Curve = group
		}
		if suite.KeyExchange == KeyExchangeDHE {
			if _, _, ok := c.Config.DHParams(); !ok {
				continue
			}
		}
		c.Suite = suite
		return nil
	}
	return alert.ErrHandshakeFailure
}

func sigAlgFor(a AuthKind) ext.SigAlg {
	switch a {
	case AuthECDSA:
		return ext.SigECDSA
	default:
		return ext.SigRSA
	}
}

// selectCurve intersects the server's curve preference order with the
// client's offered named groups, first server-preferred match wins.
func (c *Context) selectCurve() (*ecp.Group, bool) {
	for _, id := range ecp.PreferenceOrder() {
		group, ok := ecp.ByID(id)
		if !ok {
			continue
		}
		if c.Config != nil {
			// out-of-range widths are rejected and the group keeps its default
			_ = group.SetWindowSize(c.Config.ScalarMulWindowSize)
		}
		if offeredCurveContains(c.offeredCurves, group.WireID) {
			return group, true
		}
	}
	return nil, false
}

func offeredCurveContains(offered []uint16, wireID uint16) bool {
	for _, o := range offered {
		if o == wireID {
			return true
		}
	}
	return false
}

// css exposes the retained (capped) client ciphersuite list to
// selection logic; kept unexported since it is parser-internal state.
func (c *Context) css() []uint16 {
	return c.hsParser.css
}
