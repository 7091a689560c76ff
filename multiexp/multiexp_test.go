package multiexp

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shufflemix/mixnet/commitment"
	"github.com/shufflemix/mixnet/elgamal"
	"github.com/shufflemix/mixnet/group"
	"github.com/shufflemix/mixnet/gvec"
	"github.com/shufflemix/mixnet/randsource"
	"github.com/shufflemix/mixnet/transcript"
)

func ints(vs ...int64) []*big.Int {
	out := make([]*big.Int, len(vs))
	for i, v := range vs {
		out[i] = big.NewInt(v)
	}
	return out
}

func toyGroup() group.Group {
	return group.NewModPGroupFromInts("toy23", big.NewInt(23), big.NewInt(11), big.NewInt(2))
}

func elemFromInt(g group.Group, v int64) group.Element {
	return g.Element().SetBytes(big.NewInt(v).Bytes())
}

// fixtureKey builds a 2-base commitment key, enough capacity for the n=2
// row count exercised below.
func fixtureKey(t *testing.T, g group.Group) commitment.Key {
	t.Helper()
	h := g.Element().Scale(g.Generator(), big.NewInt(3))
	bases := []group.Element{
		g.Element().Scale(g.Generator(), big.NewInt(4)),
		g.Element().Scale(g.Generator(), big.NewInt(5)),
	}
	k, err := commitment.NewKey(g, h, bases)
	if err != nil {
		t.Fatal(err)
	}
	return k
}

func fixturePK(t *testing.T, g group.Group) elgamal.PublicKey {
	t.Helper()
	pk, err := elgamal.NewPublicKey(g, []group.Element{elemFromInt(g, 8)})
	if err != nil {
		t.Fatal(err)
	}
	return pk
}

func newService(k commitment.Key) Service {
	return Service{CK: k, Oracle: transcript.SHA256Oracle{}, Rand: randsource.CryptoSource{}}
}

// fixture builds a 2x2 exponent matrix against 2 single-component
// ciphertexts, and computes the target C-bar consistent with it.
func fixture(t *testing.T, g group.Group, pk elgamal.PublicKey) (Statement, Witness) {
	t.Helper()
	mod := g.N()

	c0, err := elgamal.ReEnc([]group.Element{elemFromInt(g, 4)}, big.NewInt(2), pk)
	if err != nil {
		t.Fatal(err)
	}
	c1, err := elgamal.ReEnc([]group.Element{elemFromInt(g, 8)}, big.NewInt(3), pk)
	if err != nil {
		t.Fatal(err)
	}
	C := []elgamal.Ciphertext{c0, c1}

	A, err := gvec.NewScalarMatrixFromColumns(mod, []gvec.ScalarVector{
		{Mod: mod, V: ints(2, 3)},
		{Mod: mod, V: ints(1, 4)},
	})
	if err != nil {
		t.Fatal(err)
	}
	R := gvec.ScalarVector{Mod: mod, V: ints(6, 7)}
	rhoBar := big.NewInt(5)

	w := combine(C, columnSum(A), pk.Len(), g)
	mask, err := elgamal.ReEncIdentity(pk.Len(), rhoBar, pk)
	if err != nil {
		t.Fatal(err)
	}
	cBar, err := w.Mul(mask)
	if err != nil {
		t.Fatal(err)
	}

	k := fixtureKey(t, g)
	cA, err := k.CommitMatrix(A, R)
	if err != nil {
		t.Fatal(err)
	}

	stmt := Statement{C: C, PK: pk, CA: cA, CBar: cBar}
	wit := Witness{A: A, R: R, RhoBar: rhoBar}
	return stmt, wit
}

func TestProveVerifyRoundTrip(t *testing.T) {
	g := toyGroup()
	pk := fixturePK(t, g)
	stmt, wit := fixture(t, g, pk)
	svc := newService(fixtureKey(t, g))

	arg, err := svc.Prove(stmt, wit)
	if err != nil {
		t.Fatalf("Prove failed on an honest witness: %v", err)
	}
	ok, err := svc.Verify(stmt, arg)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("Verify rejected a honestly generated multi-exponentiation argument")
	}
}

func TestArgumentMarshalRoundTrip(t *testing.T) {
	g := toyGroup()
	pk := fixturePK(t, g)
	stmt, wit := fixture(t, g, pk)
	svc := newService(fixtureKey(t, g))

	arg, err := svc.Prove(stmt, wit)
	require.NoError(t, err)

	stmtBytes, err := json.Marshal(stmt)
	require.NoError(t, err)
	gotStmt, err := StatementUnmarshalJSON(stmtBytes, g)
	require.NoError(t, err)

	argBytes, err := json.Marshal(arg)
	require.NoError(t, err)
	gotArg, err := ArgumentUnmarshalJSON(argBytes, g)
	require.NoError(t, err)

	ok, err := svc.Verify(gotStmt, gotArg)
	require.NoError(t, err)
	require.True(t, ok, "argument round-tripped through JSON should still verify")
}

func TestProveRejectsWrongTarget(t *testing.T) {
	g := toyGroup()
	pk := fixturePK(t, g)
	stmt, wit := fixture(t, g, pk)
	svc := newService(fixtureKey(t, g))

	wit.RhoBar = new(big.Int).Add(wit.RhoBar, big.NewInt(1))
	if _, err := svc.Prove(stmt, wit); err == nil {
		t.Error("Prove should reject a witness whose rho-bar does not match the claimed target")
	}
}

func TestProveRejectsShapeMismatch(t *testing.T) {
	g := toyGroup()
	pk := fixturePK(t, g)
	stmt, wit := fixture(t, g, pk)
	svc := newService(fixtureKey(t, g))

	stmt.C = stmt.C[:1]
	if _, err := svc.Prove(stmt, wit); err == nil {
		t.Error("Prove should reject a ciphertext count mismatched against the witness row count")
	}
}

func TestVerifyRejectsTamperedResponse(t *testing.T) {
	g := toyGroup()
	pk := fixturePK(t, g)
	stmt, wit := fixture(t, g, pk)
	svc := newService(fixtureKey(t, g))

	arg, err := svc.Prove(stmt, wit)
	require.NoError(t, err)
	arg.AResp.V[0] = new(big.Int).Add(arg.AResp.V[0], big.NewInt(1))

	ok, err := svc.Verify(stmt, arg)
	require.NoError(t, err)
	require.False(t, ok, "Verify accepted a tampered response vector")
}

func TestVerifyRejectsTamperedW(t *testing.T) {
	g := toyGroup()
	pk := fixturePK(t, g)
	stmt, wit := fixture(t, g, pk)
	svc := newService(fixtureKey(t, g))

	arg, err := svc.Prove(stmt, wit)
	if err != nil {
		t.Fatal(err)
	}
	arg.W.Phi[0] = g.Element().Scale(arg.W.Phi[0], big.NewInt(2))

	ok, err := svc.Verify(stmt, arg)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("Verify accepted an argument with a tampered W")
	}
}

func TestVerifyRejectsTamperedTauResp(t *testing.T) {
	g := toyGroup()
	pk := fixturePK(t, g)
	stmt, wit := fixture(t, g, pk)
	svc := newService(fixtureKey(t, g))

	arg, err := svc.Prove(stmt, wit)
	if err != nil {
		t.Fatal(err)
	}
	arg.TauResp = new(big.Int).Add(arg.TauResp, big.NewInt(1))

	ok, err := svc.Verify(stmt, arg)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("Verify accepted a tampered rho-bar blinding response")
	}
}

func TestVerifyRejectsTamperedPsi0Rho(t *testing.T) {
	g := toyGroup()
	pk := fixturePK(t, g)
	stmt, wit := fixture(t, g, pk)
	svc := newService(fixtureKey(t, g))

	arg, err := svc.Prove(stmt, wit)
	if err != nil {
		t.Fatal(err)
	}
	arg.Psi0Rho.Gamma = g.Element().Scale(arg.Psi0Rho.Gamma, big.NewInt(2))

	ok, err := svc.Verify(stmt, arg)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("Verify accepted an argument with a tampered rho-bar blinding commitment")
	}
}
