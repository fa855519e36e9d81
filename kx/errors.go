package kx

import tlserrors "github.com/packetgate/tlscore/errors"

var ErrBadInput = tlserrors.New("kx: bad input data").AtError()

var ErrRandomFailed = tlserrors.New("kx: random source failed").AtError()
