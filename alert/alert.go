// Copyright 2024 The tlscore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package alert defines the fatal-error sentinels (*Error values) of
// spec.md §6 and the TLS alert (RFC 5246 §7.2) each maps to when the
// handshake FSM must emit a fatal alert.
package alert

import tlserrors "github.com/packetgate/tlscore/errors"

// Description is a TLS alert description code (RFC 5246 §7.2).
type Description uint8

const (
	DescCloseNotify            Description = 0
	DescUnexpectedMessage      Description = 10
	DescBadRecordMAC           Description = 20
	DescDecryptionFailed       Description = 21
	DescRecordOverflow         Description = 22
	DescDecompressionFailure   Description = 30
	DescHandshakeFailure       Description = 40
	DescBadCertificate         Description = 42
	DescUnsupportedCertificate Description = 43
	DescCertificateRevoked     Description = 44
	DescCertificateExpired     Description = 45
	DescCertificateUnknown     Description = 46
	DescIllegalParameter       Description = 47
	DescUnknownCA              Description = 48
	DescAccessDenied           Description = 49
	DescDecodeError            Description = 50
	DescDecryptError           Description = 51
	DescProtocolVersion        Description = 70
	DescInsufficientSecurity   Description = 71
	DescInternalError          Description = 80
	DescInappropriateFallback  Description = 86
	DescUserCanceled           Description = 90
	DescNoRenegotiation        Description = 100
	DescUnsupportedExtension   Description = 110
	DescUnrecognizedName       Description = 112
	DescNoApplicationProtocol  Description = 120
)

// Error is a fatal protocol error: a sentinel plus the TLS alert
// description it must be reported with. Non-fatal dispositions
// (POSTPONE, silent tolerance) are not represented as Error values —
// see the handshake package's three-way disposition in spec.md §7.
type Error struct {
	Inner *tlserrors.Error
	Alert Description
}

// Error implements the error interface by forwarding to Inner.
func (e *Error) Error() string {
	return e.Inner.Error()
}

func newErr(alert Description, msg string) *Error {
	return &Error{Inner: tlserrors.New(msg).AtError(), Alert: alert}
}

// Sentinel errors from spec.md §6, each bound to the alert it is
// reported with when it terminates a handshake.
var (
	ErrBadInputData       = newErr(DescInternalError, "bad input data")
	ErrBufferTooSmall     = newErr(DescInternalError, "buffer too small")
	ErrFeatureUnavailable = newErr(DescHandshakeFailure, "feature unavailable")
	ErrVerifyFailed       = newErr(DescDecryptError, "signature verification failed")
	ErrRandomFailed       = newErr(DescInternalError, "random source failed")
	ErrSigLenMismatch     = newErr(DescDecodeError, "signature length mismatch")

	ErrBadHSClientHello        = newErr(DescHandshakeFailure, "malformed ClientHello")
	ErrBadHSServerHello        = newErr(DescHandshakeFailure, "malformed ServerHello")
	ErrBadHSCertificate        = newErr(DescBadCertificate, "malformed Certificate")
	ErrBadHSServerKeyExchange  = newErr(DescHandshakeFailure, "malformed ServerKeyExchange")
	ErrBadHSCertificateRequest = newErr(DescHandshakeFailure, "malformed CertificateRequest")
	ErrBadHSClientKeyExchange  = newErr(DescHandshakeFailure, "malformed ClientKeyExchange")
	ErrBadHSCertificateVerify  = newErr(DescDecryptError, "malformed or invalid CertificateVerify")
	ErrBadHSChangeCipherSpec   = newErr(DescUnexpectedMessage, "malformed ChangeCipherSpec")
	ErrBadHSFinished           = newErr(DescDecryptError, "Finished MAC mismatch")

	ErrInvalidKey       = newErr(DescIllegalParameter, "invalid key material")
	ErrProtocolVersion  = newErr(DescProtocolVersion, "unsupported protocol version")
	ErrHandshakeFailure = newErr(DescHandshakeFailure, "no acceptable cipher suite")
	ErrDecodeError      = newErr(DescDecodeError, "malformed handshake message")

	ErrInappropriateFallback = newErr(DescInappropriateFallback, "fallback SCSV on non-fallback connection")
	ErrNoApplicationProtocol = newErr(DescNoApplicationProtocol, "no overlapping ALPN protocol")
	ErrUnrecognizedName      = newErr(DescUnrecognizedName, "SNI host name not recognised")
)
