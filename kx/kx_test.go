package kx

import (
	"bytes"
	"testing"

	"github.com/packetgate/tlscore/ecp"
	"github.com/packetgate/tlscore/mpi"
)

func TestECDHERoundTrip(t *testing.T) {
	group, ok := ecp.ByID(ecp.CurveSECP256R1)
	if !ok {
		t.Fatal("secp256r1 not registered")
	}
	rng := seededRNG(10)

	server, err := NewECDHEParams(group, rng)
	if err != nil {
		t.Fatalf("server params: %v", err)
	}
	client, err := NewECDHEParams(group, rng)
	if err != nil {
		t.Fatalf("client params: %v", err)
	}

	serverPub, err := server.EncodePublic()
	if err != nil {
		t.Fatalf("encode server pub: %v", err)
	}
	clientPub, err := client.EncodePublic()
	if err != nil {
		t.Fatalf("encode client pub: %v", err)
	}

	peerOnClient, err := ReadECDHPublic(group, serverPub)
	if err != nil {
		t.Fatalf("client read server pub: %v", err)
	}
	peerOnServer, err := ReadECDHPublic(group, clientPub)
	if err != nil {
		t.Fatalf("server read client pub: %v", err)
	}

	clientSecret, err := client.DeriveSecret(peerOnClient, rng)
	if err != nil {
		t.Fatalf("client derive: %v", err)
	}
	serverSecret, err := server.DeriveSecret(peerOnServer, rng)
	if err != nil {
		t.Fatalf("server derive: %v", err)
	}

	if !bytes.Equal(clientSecret, serverSecret) {
		t.Fatalf("shared secrets differ: %x vs %x", clientSecret, serverSecret)
	}
}

func TestECDHEX25519RoundTrip(t *testing.T) {
	group, ok := ecp.ByID(ecp.CurveX25519)
	if !ok {
		t.Fatal("x25519 not registered")
	}
	rng := seededRNG(11)

	server, err := NewECDHEParams(group, rng)
	if err != nil {
		t.Fatalf("server params: %v", err)
	}
	client, err := NewECDHEParams(group, rng)
	if err != nil {
		t.Fatalf("client params: %v", err)
	}

	serverPub, _ := server.EncodePublic()
	clientPub, _ := client.EncodePublic()

	peerOnClient, err := ReadECDHPublic(group, serverPub)
	if err != nil {
		t.Fatalf("client read server pub: %v", err)
	}
	peerOnServer, err := ReadECDHPublic(group, clientPub)
	if err != nil {
		t.Fatalf("server read client pub: %v", err)
	}

	clientSecret, err := client.DeriveSecret(peerOnClient, rng)
	if err != nil {
		t.Fatalf("client derive: %v", err)
	}
	serverSecret, err := server.DeriveSecret(peerOnServer, rng)
	if err != nil {
		t.Fatalf("server derive: %v", err)
	}
	if !bytes.Equal(clientSecret, serverSecret) {
		t.Fatalf("x25519 shared secrets differ: %x vs %x", clientSecret, serverSecret)
	}
}

func TestDHERoundTrip(t *testing.T) {
	rng := seededRNG(12)

	// A small (test-only) safe-prime-shaped group: not cryptographically
	// sized, but large enough to exercise ExpMod's sliding window and
	// the DHE plumbing end to end.
	p := mpi.New()
	p.SetInt(0)
	pBytes := []byte{
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xC5,
	}
	p.ReadBinary(pBytes)
	g := mpi.New()
	g.SetInt(2)

	server, err := NewDHEParams(p, g, rng)
	if err != nil {
		t.Fatalf("server params: %v", err)
	}
	client, err := NewDHEParams(p, g, rng)
	if err != nil {
		t.Fatalf("client params: %v", err)
	}

	serverYBytes := make([]byte, p.ByteLength())
	if err := server.Y.WriteBinary(serverYBytes, len(serverYBytes)); err != nil {
		t.Fatalf("write server Y: %v", err)
	}
	clientYBytes := make([]byte, p.ByteLength())
	if err := client.Y.WriteBinary(clientYBytes, len(clientYBytes)); err != nil {
		t.Fatalf("write client Y: %v", err)
	}

	serverPeer, err := ReadDHPublic(clientYBytes)
	if err != nil {
		t.Fatalf("server read client Y: %v", err)
	}
	clientPeer, err := ReadDHPublic(serverYBytes)
	if err != nil {
		t.Fatalf("client read server Y: %v", err)
	}

	serverSecret, err := server.DeriveSecret(serverPeer)
	if err != nil {
		t.Fatalf("server derive: %v", err)
	}
	clientSecret, err := client.DeriveSecret(clientPeer)
	if err != nil {
		t.Fatalf("client derive: %v", err)
	}

	if !bytes.Equal(serverSecret, clientSecret) {
		t.Fatalf("DHE shared secrets differ: %x vs %x", serverSecret, clientSecret)
	}
}

func TestReadDHPublicRejectsDegenerateValues(t *testing.T) {
	if _, err := ReadDHPublic([]byte{0x00}); err == nil {
		t.Fatal("expected error for Yc=0")
	}
	if _, err := ReadDHPublic([]byte{0x01}); err == nil {
		t.Fatal("expected error for Yc=1")
	}
}
