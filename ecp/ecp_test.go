package ecp

import (
	"crypto/rand"
	"testing"

	"github.com/packetgate/tlscore/mpi"
)

func testRNG(buf []byte) error {
	_, err := rand.Read(buf)
	return err
}

func TestRegistryLookups(t *testing.T) {
	for _, id := range PreferenceOrder() {
		g, ok := ByID(id)
		if !ok {
			t.Fatalf("curve id %v missing from registry", id)
		}
		if g.Name == "" {
			t.Fatalf("curve %v has empty name", id)
		}
		if _, ok := ByWireID(g.WireID); !ok {
			t.Fatalf("wire id lookup failed for %s", g.Name)
		}
		if _, ok := ByName(g.Name); !ok {
			t.Fatalf("name lookup failed for %s", g.Name)
		}
	}
}

func TestGeneratorOnCurve(t *testing.T) {
	for _, d := range registry {
		g := loadGroup(d)
		if !g.CheckOnCurve(g.Gx, g.Gy) {
			t.Fatalf("%s: generator does not satisfy curve equation", g.Name)
		}
	}
}

func TestGeneratorOrderReachesInfinity(t *testing.T) {
	// Exercise on the smallest curve only: N*G = infinity is expensive
	// at 256+ bits of scalar multiplication per comb step in a test.
	g, _ := ByID(CurveSECP256R1)
	r := NewPoint()
	if err := g.ScalarMulBase(r, g.N, nil); err != nil {
		t.Fatal(err)
	}
	if !r.IsInfinity() {
		t.Fatalf("N*G should be the point at infinity")
	}
}

func TestScalarMulPassesPubkeyCheck(t *testing.T) {
	g, _ := ByID(CurveSECP256R1)
	d, q, err := g.GenerateKeyPair(testRNG)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.CheckPublicKey(q); err != nil {
		t.Fatalf("generated pubkey failed check: %v", err)
	}
	if err := g.CheckPrivateKey(d); err != nil {
		t.Fatalf("generated privkey failed check: %v", err)
	}
}

func TestMulAddMatchesOrdinaryAddition(t *testing.T) {
	g, _ := ByID(CurveSECP256R1)
	_, p, err := g.GenerateKeyPair(testRNG)
	if err != nil {
		t.Fatal(err)
	}
	a := mpi.New()
	a.SetInt(7)
	b := mpi.New()
	b.SetInt(11)

	got := NewPoint()
	if err := g.MulAdd(got, a, b, p); err != nil {
		t.Fatal(err)
	}

	aG := NewPoint()
	if err := g.ScalarMulBase(aG, a, nil); err != nil {
		t.Fatal(err)
	}
	bP := NewPoint()
	if err := g.ScalarMulGeneric(bP, b, p, nil); err != nil {
		t.Fatal(err)
	}
	want := NewPoint()
	g.Add(want, aG, bP)
	if err := g.Normalize(want); err != nil {
		t.Fatal(err)
	}

	if got.X.Cmp(want.X) != 0 || got.Y.Cmp(want.Y) != 0 {
		t.Fatalf("muladd(a,G,b,P) != scalar_mul(a,G)+scalar_mul(b,P)")
	}
}

func TestUncompressedEncodeDecodeRoundTrip(t *testing.T) {
	g, _ := ByID(CurveSECP256R1)
	_, q, err := g.GenerateKeyPair(testRNG)
	if err != nil {
		t.Fatal(err)
	}
	enc, err := g.EncodeUncompressed(q)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := g.DecodePoint(enc)
	if err != nil {
		t.Fatal(err)
	}
	if dec.X.Cmp(q.X) != 0 || dec.Y.Cmp(q.Y) != 0 {
		t.Fatalf("round trip mismatch")
	}
}

func TestInfinityEncodingIsOneByte(t *testing.T) {
	g, _ := ByID(CurveSECP256R1)
	enc, err := g.EncodeUncompressed(NewPoint())
	if err != nil {
		t.Fatal(err)
	}
	if len(enc) != 1 || enc[0] != 0x00 {
		t.Fatalf("infinity encoding = %x, want [00]", enc)
	}
	dec, err := g.DecodePoint(enc)
	if err != nil {
		t.Fatal(err)
	}
	if !dec.IsInfinity() {
		t.Fatalf("decoding 00 should yield the point at infinity")
	}
}

func TestX25519LadderRoundTrip(t *testing.T) {
	g, _ := ByID(CurveX25519)
	d1, q1, err := g.GenerateKeyPair(testRNG)
	if err != nil {
		t.Fatal(err)
	}
	d2, q2, err := g.GenerateKeyPair(testRNG)
	if err != nil {
		t.Fatal(err)
	}
	shared1 := NewPoint()
	if err := g.ScalarMulGeneric(shared1, d1, q2, nil); err != nil {
		t.Fatal(err)
	}
	shared2 := NewPoint()
	if err := g.ScalarMulGeneric(shared2, d2, q1, nil); err != nil {
		t.Fatal(err)
	}
	if shared1.X.Cmp(shared2.X) != 0 {
		t.Fatalf("x25519 shared secrets disagree")
	}
}
