package handshake

import (
	"github.com/packetgate/tlscore/alert"
	"github.com/packetgate/tlscore/handshake/ext"
)

// chSubstate is the nested FSM of spec.md §4.3's ClientHello parser:
// "version, random, session-id-length, session-id, cs-length,
// cs-items, cs-skip-overflow, compression-count, compression-items,
// extensions-length, extension-type, extension-size, extension-body".
// Each value names a tagged variant; its partial payload lives in the
// parser's acc buffer, per the re-architecture suggested in spec.md §9.
type chSubstate int

const (
	chVersion chSubstate = iota
	chRandom
	chSessionIDLen
	chSessionID
	chCSLen
	chCSItems
	chCSSkipOverflow
	chCompressionCount
	chCompressionItems
	chExtensionsLen
	chExtensionType
	chExtensionSize
	chExtensionBody
	chComplete
)

// clientHelloParser is the saved substate the handshake Context keeps
// across POSTPONE re-entries: a cursor (sub, need, acc) plus the
// running totals each substate accumulates into.
type clientHelloParser struct {
	sub  chSubstate
	acc  []byte
	need int

	sessionIDLen int

	csLen       int
	csRemaining int
	css         []uint16 // retained, capped at Config.MaxCipherSuiteBytes/2

	compressionCount     int
	compressionRemaining  int
	sawNullCompression    bool

	extensionsLen       int
	extensionsRemaining int
	curExtType          uint16
	curExtLen           int
}

func (p *clientHelloParser) reset() {
	*p = clientHelloParser{}
}

func (p *clientHelloParser) want(n int) {
	p.acc = p.acc[:0]
	p.need = n
}

// feed appends as much of buf into the accumulator as needed to reach
// p.need, returning the leftover unconsumed bytes and whether the
// accumulator is now full. This is the single primitive every substate
// below re-enters through, matching spec.md §4.3's contract that "each
// substate consumes at most its required bytes and re-enters at the
// same point on the next chunk."
func (p *clientHelloParser) feed(buf []byte) (rest []byte, full bool) {
	missing := p.need - len(p.acc)
	if missing > len(buf) {
		p.acc = append(p.acc, buf...)
		return nil, false
	}
	p.acc = append(p.acc, buf[:missing]...)
	return buf[missing:], true
}

// FeedClientHello advances the nested ClientHello FSM with the next
// chunk of message body (handshake header already stripped by the
// caller). It may be called repeatedly with arbitrarily small chunks;
// ResultPostpone means feed it more, a non-nil error is always fatal.
func (c *Context) FeedClientHello(buf []byte) (Result, error) {
	p := &c.hsParser
	for {
		switch p.sub {
		case chVersion:
			if p.need == 0 {
				p.want(2)
			}
			rest, full := p.feed(buf)
			buf = rest
			if !full {
				return ResultPostpone, nil
			}
			// Version is validated in finishClientHello, after the
			// ciphersuite list (and any FALLBACK_SCSV) has been seen:
			// a downgrade signal takes precedence over a bare version
			// mismatch (spec.md §8's FALLBACK_SCSV property).
			c.Version = Version{Major: p.acc[0], Minor: p.acc[1]}
			p.want(32)
			p.sub = chRandom

		case chRandom:
			rest, full := p.feed(buf)
			buf = rest
			if !full {
				return ResultPostpone, nil
			}
			copy(c.ClientRandom[:], p.acc)
			p.want(1)
			p.sub = chSessionIDLen

		case chSessionIDLen:
			rest, full := p.feed(buf)
			buf = rest
			if !full {
				return ResultPostpone, nil
			}
			p.sessionIDLen = int(p.acc[0])
			if p.sessionIDLen > 32 {
				return 0, alert.ErrDecodeError
			}
			if p.sessionIDLen == 0 {
				p.want(2)
				p.sub = chCSLen
				continue
			}
			p.want(p.sessionIDLen)
			p.sub = chSessionID

		case chSessionID:
			rest, full := p.feed(buf)
			buf = rest
			if !full {
				return ResultPostpone, nil
			}
			c.sessionID = append([]byte(nil), p.acc...)
			p.want(2)
			p.sub = chCSLen

		case chCSLen:
			rest, full := p.feed(buf)
			buf = rest
			if !full {
				return ResultPostpone, nil
			}
			p.csLen = int(p.acc[0])<<8 | int(p.acc[1])
			if p.csLen == 0 || p.csLen%2 != 0 {
				return 0, alert.ErrDecodeError
			}
			p.csRemaining = p.csLen
			maxItems := c.Config.MaxCipherSuiteBytes / 2
			if p.csRemaining > 0 {
				p.want(2)
				if len(p.css) < maxItems {
					p.sub = chCSItems
				} else {
					p.sub = chCSSkipOverflow
				}
			} else {
				p.want(1)
				p.sub = chCompressionCount
			}

		case chCSItems:
			rest, full := p.feed(buf)
			buf = rest
			if !full {
				return ResultPostpone, nil
			}
			id := uint16(p.acc[0])<<8 | uint16(p.acc[1])
			p.css = append(p.css, id)
			p.csRemaining -= 2
			c.classifySCSV(id)
			if p.csRemaining == 0 {
				p.want(1)
				p.sub = chCompressionCount
				continue
			}
			maxItems := c.Config.MaxCipherSuiteBytes / 2
			p.want(2)
			if len(p.css) < maxItems {
				p.sub = chCSItems
			} else {
				p.sub = chCSSkipOverflow
			}

		case chCSSkipOverflow:
			rest, full := p.feed(buf)
			buf = rest
			if !full {
				return ResultPostpone, nil
			}
			p.csRemaining -= 2
			if p.csRemaining == 0 {
				p.want(1)
				p.sub = chCompressionCount
				continue
			}
			p.want(2)
			p.sub = chCSSkipOverflow

		case chCompressionCount:
			rest, full := p.feed(buf)
			buf = rest
			if !full {
				return ResultPostpone, nil
			}
			p.compressionCount = int(p.acc[0])
			if p.compressionCount == 0 {
				return 0, alert.ErrDecodeError
			}
			p.compressionRemaining = p.compressionCount
			p.sawNullCompression = false
			p.want(1)
			p.sub = chCompressionItems

		case chCompressionItems:
			rest, full := p.feed(buf)
			buf = rest
			if !full {
				return ResultPostpone, nil
			}
			if p.acc[0] == 0x00 {
				p.sawNullCompression = true
			}
			p.compressionRemaining--
			if p.compressionRemaining == 0 {
				if !p.sawNullCompression {
					return 0, alert.ErrDecodeError
				}
				p.want(2)
				p.sub = chExtensionsLen
				continue
			}
			p.want(1)
			p.sub = chCompressionItems

		case chExtensionsLen:
			rest, full := p.feed(buf)
			buf = rest
			if !full {
				return ResultPostpone, nil
			}
			p.extensionsLen = int(p.acc[0])<<8 | int(p.acc[1])
			p.extensionsRemaining = p.extensionsLen
			c.Flags.ClientExtensions = p.extensionsLen > 0
			if p.extensionsRemaining == 0 {
				p.sub = chComplete
				continue
			}
			p.want(4)
			p.sub = chExtensionType

		case chExtensionType:
			rest, full := p.feed(buf)
			buf = rest
			if !full {
				return ResultPostpone, nil
			}
			p.curExtType = uint16(p.acc[0])<<8 | uint16(p.acc[1])
			p.curExtLen = int(p.acc[2])<<8 | int(p.acc[3])
			p.extensionsRemaining -= 4
			if p.curExtLen == 0 {
				if err := c.dispatchExtension(p.curExtType, nil); err != nil {
					return 0, err
				}
				if p.extensionsRemaining <= 0 {
					p.sub = chComplete
				} else {
					p.want(4)
					p.sub = chExtensionType
				}
				continue
			}
			p.want(p.curExtLen)
			p.sub = chExtensionBody

		case chExtensionBody:
			rest, full := p.feed(buf)
			buf = rest
			if !full {
				return ResultPostpone, nil
			}
			if err := c.dispatchExtension(p.curExtType, p.acc); err != nil {
				return 0, err
			}
			p.extensionsRemaining -= p.curExtLen
			if p.extensionsRemaining <= 0 {
				p.sub = chComplete
				continue
			}
			p.want(4)
			p.sub = chExtensionType

		case chComplete:
			if err := c.finishClientHello(); err != nil {
				return 0, err
			}
			p.reset()
			return ResultOK, nil
		}
	}
}

// classifySCSV recognises the two signalling ciphersuite values inline
// while scanning the ciphersuite list, per spec.md §4.3.
func (c *Context) classifySCSV(id uint16) {
	const (
		fallbackSCSV            = 0x5600
		emptyRenegotiationSCSV   = 0x00FF
	)
	switch id {
	case fallbackSCSV:
		c.Flags.FallbackSCSVSeen = true
	case emptyRenegotiationSCSV:
		c.Flags.SecureRenegotiation = true
	}
}

func (c *Context) dispatchExtension(typ uint16, body []byte) error {
	switch ext.Type(typ) {
	case ext.TypeServerName:
		name, err := ext.ParseServerName(body)
		if err != nil {
			return nil // silent tolerance: malformed SNI is ignored, not fatal, per unknown-extension policy
		}
		c.VHostName = name
	case ext.TypeSignatureAlgorithms:
		algs, err := ext.ParseSignatureAlgorithms(body)
		if err != nil {
			return alert.ErrDecodeError
		}
		c.sigAlgs = algs
	case ext.TypeSupportedGroups:
		groups, err := ext.ParseSupportedGroups(body, c.Config.MaxSupportedCurves)
		if err == ext.ErrDuplicate {
			return alert.ErrDecodeError
		}
		if err != nil {
			return nil
		}
		c.offeredCurves = groups
		c.Flags.CurvesExt = true
	case ext.TypeECPointFormats:
		compressedOnly, err := ext.ParseECPointFormats(body)
		if err != nil {
			return nil
		}
		c.Flags.CompressedOnlyPeer = compressedOnly
	case ext.TypeExtendedMasterSecret:
		if err := ext.ParseExtendedMasterSecret(body); err == nil {
			c.Flags.ExtendedMS = true
		}
	case ext.TypeSessionTicket:
		c.offeredSessionTicketExt = true
		if len(body) <= c.Config.MaxSessionTicketBytes {
			c.ticketBody = ext.ParseSessionTicket(body)
		}
	case ext.TypeALPN:
		protos, err := ext.ParseALPN(body, c.Config.MaxALPNProtocols)
		if err != nil {
			return nil
		}
		c.offeredALPN = protos
	case ext.TypeRenegotiationInfo:
		if err := ext.ParseRenegotiationInfo(body); err == nil {
			c.Flags.SecureRenegotiation = true
		}
	case ext.TypeEncryptThenMAC:
		// parsed and ignored, per spec.md §6 (RFC 7366).
	default:
		// unknown extensions are silently ignored, per spec.md §4.3.
	}
	return nil
}
