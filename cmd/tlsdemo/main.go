// Copyright 2024 The tlscore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// tlsdemo drives the handshake package against a synthetic ClientHello
// and prints the resulting flight, for manual inspection of the wire
// shape the core produces.
//
// Usage:
//
//	go run ./cmd/tlsdemo
package main

import (
	"crypto/rand"
	"crypto/sha256"
	"flag"
	"fmt"
	"hash"
	"log"

	"github.com/packetgate/tlscore/config"
	"github.com/packetgate/tlscore/handshake"
	"github.com/packetgate/tlscore/handshake/ext"
)

var vhost = flag.String("vhost", "example.com", "server_name to accept in the synthetic ClientHello")

func main() {
	flag.Parse()

	cfg := config.Default()
	collab := &handshake.Collaborators{
		RNG: func(b []byte) error { _, err := rand.Read(b); return err },
		Now: func() int64 { return 0 },
		Hash: func(alg ext.HashAlg) func() hash.Hash {
			return func() hash.Hash { return sha256.New() }
		},
		SNICallback: func(c *handshake.Context, name string) error {
			if name != *vhost {
				return fmt.Errorf("no vhost for %q", name)
			}
			return nil
		},
		Sign: func(c *handshake.Context, alg ext.SigHashAlg, digest []byte) ([]byte, error) {
			return append([]byte("demo-signature:"), digest...), nil
		},
		DeriveKeys: func(c *handshake.Context) error {
			ms := make([]byte, 48)
			copy(ms, c.Premaster())
			c.SetMasterSecret(ms)
			return nil
		},
		UpdateChecksum:        func(c *handshake.Context, msg []byte) {},
		WriteChangeCipherSpec: func(c *handshake.Context) []byte { return []byte{0x01} },
	}

	ctx := handshake.NewContext(cfg, collab)
	ctx.Cert = &handshake.Certificate{Chain: [][]byte{[]byte("demo-certificate-der")}}
	defer ctx.Close()

	body := syntheticClientHello(*vhost)
	res, err := ctx.FeedClientHello(body)
	if err != nil {
		log.Fatalf("ClientHello rejected: %v", err)
	}
	if res != handshake.ResultOK {
		log.Fatalf("expected a complete single-shot ClientHello, got %v", res)
	}

	fmt.Printf("negotiated suite: %s\n", ctx.Suite.Name)

	segs, err := ctx.BuildServerHelloFlight()
	if err != nil {
		log.Fatalf("BuildServerHelloFlight: %v", err)
	}
	for _, s := range segs {
		fmt.Printf("  segment type=%d len=%d\n", s.Kind, len(s.Body))
	}
}

// syntheticClientHello hand-assembles a minimal RSA-suite ClientHello
// body naming vhost in its server_name extension.
func syntheticClientHello(vhost string) []byte {
	body := []byte{3, 3}
	body = append(body, make([]byte, 32)...)
	body = append(body, 0x00) // no session id

	suites := []byte{0x00, 0x9C} // TLS_RSA_WITH_AES_128_GCM_SHA256
	body = append(body, 0x00, byte(len(suites)))
	body = append(body, suites...)

	body = append(body, 0x01, 0x00) // compression methods: null only

	var exts []byte
	sigAlgs := []byte{0x04, 0x01} // sha256, rsa
	exts = append(exts, extTLV(uint16(ext.TypeSignatureAlgorithms), vec16(sigAlgs))...)

	nameEntry := append([]byte{0x00}, vec16([]byte(vhost))...)
	exts = append(exts, extTLV(uint16(ext.TypeServerName), vec16(nameEntry))...)

	body = append(body, byte(len(exts)>>8), byte(len(exts)))
	body = append(body, exts...)
	return body
}

func vec16(b []byte) []byte {
	return append([]byte{byte(len(b) >> 8), byte(len(b))}, b...)
}

func extTLV(typ uint16, body []byte) []byte {
	out := []byte{byte(typ >> 8), byte(typ), byte(len(body) >> 8), byte(len(body))}
	return append(out, body...)
}
