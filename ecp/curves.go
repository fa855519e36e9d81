package ecp

// Registry of the closed set of curves this stack admits: the three
// NIST prime curves, the three Brainpool curves, and Curve25519 for
// the Montgomery ladder. Wire ids are the IANA TLS "Supported Groups"
// registry values (RFC 8422 / RFC 7919 range for the EC ones).
//
// Domain parameters are the standard published constants for each
// named curve (RFC 5114/6090 for the NIST curves via SEC 2, RFC 5639
// for Brainpool, RFC 7748 for X25519); they are loaded once into
// package-level *Group values and handed out as fresh copies so that
// comb-table caching never crosses callers that didn't ask to share it.

type curveDef struct {
	id     CurveID
	wireID uint16
	name   string
	kind   Kind
	pbits  int
	p, a, b, n, gx, gy string
}

var registry = []curveDef{
	{
		id: CurveSECP256R1, wireID: 23, name: "secp256r1", kind: KindShortWeierstrass, pbits: 256,
		p:  "FFFFFFFF00000001000000000000000000000000FFFFFFFFFFFFFFFFFFFFFFFF",
		a:  "FFFFFFFF00000001000000000000000000000000FFFFFFFFFFFFFFFFFFFFFFFC",
		b:  "5AC635D8AA3A93E7B3EBBD55769886BC651D06B0CC53B0F63BCE3C3E27D2604B",
		n:  "FFFFFFFF00000000FFFFFFFFFFFFFFFFBCE6FAADA7179E84F3B9CAC2FC632551",
		gx: "6B17D1F2E12C4247F8BCE6E563A440F277037D812DEB33A0F4A13945D898C296",
		gy: "4FE342E2FE1A7F9B8EE7EB4A7C0F9E162BCE33576B315ECECBB6406837BF51F5",
	},
	{
		id: CurveSECP384R1, wireID: 24, name: "secp384r1", kind: KindShortWeierstrass, pbits: 384,
		p:  "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFFFF0000000000000000FFFFFFFF",
		a:  "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFFFF0000000000000000FFFFFFFC",
		b:  "B3312FA7E23EE7E4988E056BE3F82D19181D9C6EFE8141120314088F5013875AC656398D8A2ED19D2A85C8EDD3EC2AEF",
		n:  "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFC7634D81F4372DDF581A0DB248B0A77AECEC196ACCC52973",
		gx: "AA87CA22BE8B05378EB1C71EF320AD746E1D3B628BA79B9859F741E082542A385502F25DBF55296C3A545E3872760AB7",
		gy: "3617DE4A96262C6F5D9E98BF9292DC29F8F41DBD289A147CE9DA3113B5F0B8C00A60B1CE1D7E819D7A431D7C90EA0E5F",
	},
	{
		id: CurveSECP521R1, wireID: 25, name: "secp521r1", kind: KindShortWeierstrass, pbits: 521,
		p:  "01FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF",
		a:  "01FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFC",
		b:  "0051953EB9618E1C9A1F929A21A0B68540EEA2DA725B99B315F3B8B489918EF109E156193951EC7E937B1652C0BD3BB1BF073573DF883D2C34F1EF451FD46B503F00",
		n:  "01FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFA51868783BF2F966B7FCC0148F709A5D03BB5C9B8899C47AEBB6FB71E91386409",
		gx: "00C6858E06B70404E9CD9E3ECB662395B4429C648139053FB521F828AF606B4D3DBAA14B5E77EFE75928FE1DC127A2FFA8DE3348B3C1856A429BF97E7E31C2E5BD66",
		gy: "011839296A789A3BC0045C8A5FB42C7D1BD998F54449579B446817AFBD17273E662C97EE72995EF42640C550B9013FAD0761353C7086A272C24088BE94769FD16650",
	},
	{
		id: CurveBP256R1, wireID: 26, name: "brainpoolP256r1", kind: KindShortWeierstrass, pbits: 256,
		p:  "A9FB57DBA1EEA9BC3E660A909D838D726E3BF623D52620282013481D1F6E5377",
		a:  "7D5A0975FC2C3057EEF67530417AFFE7FB8055C126DC5C6CE94A4B44F330B5D9",
		b:  "26DC5C6CE94A4B44F330B5D9BBD77CBF958416295CF7E1CE6BCCDC18FF8C07B6",
		n:  "A9FB57DBA1EEA9BC3E660A909D838D718C397AA3B561A6F7901E0E82974856A7",
		gx: "8BD2AEB9CB7E57CB2C4B482FFC81B7AFB9DE27E1E3BD23C23A4453BD9ACE3262",
		gy: "547EF835C3DAC4FD97F8461A14611DC9C27745132DED8E545C1D54C72F046997",
	},
	{
		id: CurveBP384R1, wireID: 27, name: "brainpoolP384r1", kind: KindShortWeierstrass, pbits: 384,
		p:  "8CB91E82A3386D280F5D6F7E50E641DF152F7109ED5456B412B1DA197FB71123ACD3A729901D1A71874700133107EC53",
		a:  "7BC382C63D8C150C3C72080ACE05AFA0C2BEA28E4FB22787139165EFBA91F90F8AA5814A503AD4EB04A8C7DD22CE2826",
		b:  "04A8C7DD22CE28268B39B55416F0447C2FB77DE107DCD2A62E880EA53EEB62D57CB4390295DBC9943AB78696FA504C11",
		n:  "8CB91E82A3386D280F5D6F7E50E641DF152F7109ED5456B31F166E6CAC0425A7CF3AB6AF6B7FC3103B883202E9046565",
		gx: "1D1C64F068CF45FFA2A63A81B7C13F6B8847A3E77EF14FE3DB7FCAFE0CBD10E8E826E03436D646AAEF87B2E247D4AF1E",
		gy: "8ABE1D7520F9C2A45CB1EB8E95CFD55262B70B29FEEC5864E19C054FF99129280E4646217791811142820341263C5315",
	},
	{
		id: CurveBP512R1, wireID: 28, name: "brainpoolP512r1", kind: KindShortWeierstrass, pbits: 512,
		p:  "AADD9DB8DBE9C48B3FD4E6AE33C9FC07CB308DB3B3C9D20ED6639CCA703308717D4D9B009BC66842AECDA12AE6A380E62881FF2F2D82C68528AA6056583A48F3",
		a:  "7830A3318B603B89E2327145AC234CC594CBDD8D3DF91610A83441CAEA9863BC2DED5D5AA8253AA10A2EF1C98B9AC8B57F1117A72BF2C7B9E7C1AC4D77FC94CA",
		b:  "3DF91610A83441CAEA9863BC2DED5D5AA8253AA10A2EF1C98B9AC8B57F1117A72BF2C7B9E7C1AC4D77FC94CADC083E67984050B75EBAE5DD2809BD638016F723",
		n:  "AADD9DB8DBE9C48B3FD4E6AE33C9FC07CB308DB3B3C9D20ED6639CCA70330870553E5C414CA92619418661197FAC10471DB1D381085DDADDB58796829CA90069",
		gx: "81AEE4BDD82ED9645A21322E9C4C6A9385ED9F70B5D916C1B43B62EEF4D0098EFF3B1F78E2D0D48D50D1687B93B97D5F7C6D5047406A5E688B352209BCB9F822",
		gy: "7DDE385D566332ECC0EABFA9CF7822FDF209F70024A57B1AA000C55B881F8111B2DCDE494A5F485E5BCA4BD88A2763AED1CA2B2FA8F0540678CD1E0F3AD80892",
	},
}

// loadGroup instantiates a fresh Group for a registry entry. Each call
// returns a new *Group (sharing no comb-table state) so callers that
// need per-goroutine groups can just call ByID, ByWireID or ByName again.
func loadGroup(d curveDef) *Group {
	g := &Group{
		ID:     d.id,
		Kind:   d.kind,
		Name:   d.name,
		WireID: d.wireID,
		PBits:  d.pbits,
		window: 6,
	}
	g.P = mpiFromHex(d.p)
	g.A = mpiFromHex(d.a)
	if d.kind == KindShortWeierstrass {
		g.B = mpiFromHex(d.b)
	}
	g.N = mpiFromHex(d.n)
	g.NBits = g.N.BitLength()
	g.Gx = mpiFromHex(d.gx)
	if d.kind == KindShortWeierstrass {
		g.Gy = mpiFromHex(d.gy)
	}
	return g
}

// x25519Group is handled separately: it carries only the Montgomery A
// coefficient (A+2)/4 and the base point's u-coordinate, per RFC 7748.
func x25519Group() *Group {
	g := &Group{
		ID:     CurveX25519,
		Kind:   KindMontgomeryX,
		Name:   "x25519",
		WireID: 29,
		PBits:  255,
		window: 6,
	}
	// p = 2^255 - 19
	g.P = mpiFromHex("7FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFED")
	// (A+2)/4 where A = 486662, per RFC 7748 §5.
	g.A = mpiFromHex("0001DB42")
	g.Gx = mpiFromHex("09")
	// Curve25519 is used at cofactor 8 with no published "N" consumed
	// by this stack's key-exchange path (X25519 does raw scalar
	// clamping instead of a cofactor-1 order check); NBits is the bit
	// length of N. CheckPrivateKey does not read it.
	g.N = mpiFromHex("1000000000000000000000000000000014DEF9DEA2F79CD65812631A5CF5D3ED")
	g.NBits = 253
	return g
}

// ByID looks up a curve by its internal CurveID.
func ByID(id CurveID) (*Group, bool) {
	if id == CurveX25519 {
		return x25519Group(), true
	}
	for _, d := range registry {
		if d.id == id {
			return loadGroup(d), true
		}
	}
	return nil, false
}

// ByWireID looks up a curve by its TLS named-group wire id.
func ByWireID(w uint16) (*Group, bool) {
	if w == 29 {
		return x25519Group(), true
	}
	for _, d := range registry {
		if d.wireID == w {
			return loadGroup(d), true
		}
	}
	return nil, false
}

// ByName looks up a curve by its human-readable name.
func ByName(name string) (*Group, bool) {
	if name == "x25519" {
		return x25519Group(), true
	}
	for _, d := range registry {
		if d.name == name {
			return loadGroup(d), true
		}
	}
	return nil, false
}

// PreferenceOrder is the server's default curve preference list
// (strongest/most-deployed first), exposed to the handshake FSM for
// intersecting with the client's supported-curves extension.
func PreferenceOrder() []CurveID {
	return []CurveID{
		CurveX25519,
		CurveSECP256R1,
		CurveSECP384R1,
		CurveSECP521R1,
		CurveBP256R1,
		CurveBP384R1,
		CurveBP512R1,
	}
}
