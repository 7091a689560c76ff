package shuffleargument

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shufflemix/mixnet/commitment"
	"github.com/shufflemix/mixnet/elgamal"
	"github.com/shufflemix/mixnet/group"
	"github.com/shufflemix/mixnet/permutation"
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

// fixtureKeys builds a 2-base key (row capacity n=2, used for the
// permutation matrices) and a 4-base key (flattened capacity N=4, used
// for the multi-exponentiation sub-claim) for the n=2,m=2 shuffles
// exercised below.
func fixtureKeys(t *testing.T, g group.Group) (commitment.Key, commitment.Key) {
	t.Helper()
	h := g.Element().Scale(g.Generator(), big.NewInt(3))
	ck, err := commitment.NewKey(g, h, []group.Element{
		g.Element().Scale(g.Generator(), big.NewInt(4)),
		g.Element().Scale(g.Generator(), big.NewInt(5)),
	})
	if err != nil {
		t.Fatal(err)
	}
	ck2, err := commitment.NewKey(g, h, []group.Element{
		g.Element().Scale(g.Generator(), big.NewInt(4)),
		g.Element().Scale(g.Generator(), big.NewInt(5)),
		g.Element().Scale(g.Generator(), big.NewInt(6)),
		g.Element().Scale(g.Generator(), big.NewInt(7)),
	})
	if err != nil {
		t.Fatal(err)
	}
	return ck, ck2
}

func fixturePK(t *testing.T, g group.Group) elgamal.PublicKey {
	t.Helper()
	pk, err := elgamal.NewPublicKey(g, []group.Element{elemFromInt(g, 8)})
	if err != nil {
		t.Fatal(err)
	}
	return pk
}

func newService(ck, ck2 commitment.Key) Service {
	return NewService(ck, ck2, transcript.SHA256Oracle{}, randsource.CryptoSource{})
}

// fixture builds a 4-ciphertext (n=2,m=2) shuffle: a fixed permutation
// source and re-encryption randomness drive permutation.GenShuffle, whose
// output is wired directly into a Statement/Witness pair.
func fixture(t *testing.T, g group.Group, pk elgamal.PublicKey) (Statement, Witness) {
	t.Helper()
	mod := g.N()

	C := make([]elgamal.Ciphertext, 4)
	msgs := []int64{4, 9, 16, 18}
	for i, v := range msgs {
		c, err := elgamal.ReEnc([]group.Element{elemFromInt(g, v)}, big.NewInt(int64(i+2)), pk)
		if err != nil {
			t.Fatal(err)
		}
		C[i] = c
	}

	permSrc := &randsource.Fixed{Values: ints(3, 1, 0)}
	rhoSrc := &randsource.Fixed{Values: ints(2, 3, 4, 5)}
	shuffle, err := permutation.GenShuffle(C, pk, mod, permSrc, rhoSrc)
	if err != nil {
		t.Fatal(err)
	}

	stmt := Statement{C: C, Cprime: shuffle.Shuffled, PK: pk, Rows: 2, Cols: 2}
	wit := Witness{Perm: shuffle.Perm, Rho: shuffle.Randomness}
	return stmt, wit
}

func TestProveVerifyRoundTrip(t *testing.T) {
	g := toyGroup()
	pk := fixturePK(t, g)
	stmt, wit := fixture(t, g, pk)
	ck, ck2 := fixtureKeys(t, g)
	svc := newService(ck, ck2)

	arg, err := svc.Prove(stmt, wit)
	if err != nil {
		t.Fatalf("Prove failed on an honest shuffle witness: %v", err)
	}
	ok, reason, err := svc.Verify(stmt, arg)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Errorf("Verify rejected a honestly generated shuffle argument: %s", reason)
	}
}

func TestProveRejectsInconsistentWitness(t *testing.T) {
	g := toyGroup()
	pk := fixturePK(t, g)
	stmt, wit := fixture(t, g, pk)
	ck, ck2 := fixtureKeys(t, g)
	svc := newService(ck, ck2)

	wit.Rho[0] = new(big.Int).Add(wit.Rho[0], big.NewInt(1))
	if _, err := svc.Prove(stmt, wit); err == nil {
		t.Error("Prove should reject a witness whose randomness does not reproduce C'")
	}
}

func TestProveRejectsShapeMismatch(t *testing.T) {
	g := toyGroup()
	pk := fixturePK(t, g)
	stmt, wit := fixture(t, g, pk)
	ck, ck2 := fixtureKeys(t, g)
	svc := newService(ck, ck2)

	stmt.Rows, stmt.Cols = 3, 2 // 3*2 != 4
	if _, err := svc.Prove(stmt, wit); err == nil {
		t.Error("Prove should reject rows*cols inconsistent with the ciphertext count")
	}
}

func TestArgumentMarshalRoundTrip(t *testing.T) {
	g := toyGroup()
	pk := fixturePK(t, g)
	stmt, wit := fixture(t, g, pk)
	ck, ck2 := fixtureKeys(t, g)
	svc := newService(ck, ck2)

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

	ok, reason, err := svc.Verify(gotStmt, gotArg)
	require.NoError(t, err)
	require.True(t, ok, "argument round-tripped through JSON should still verify: %s", reason)
}

func TestVerifyRejectsTamperedCA(t *testing.T) {
	g := toyGroup()
	pk := fixturePK(t, g)
	stmt, wit := fixture(t, g, pk)
	ck, ck2 := fixtureKeys(t, g)
	svc := newService(ck, ck2)

	arg, err := svc.Prove(stmt, wit)
	require.NoError(t, err)
	arg.CA.V[0] = g.Element().Scale(arg.CA.V[0], big.NewInt(2))

	ok, _, err := svc.Verify(stmt, arg)
	require.NoError(t, err)
	require.False(t, ok, "Verify accepted a shuffle argument with a tampered c_A")
}

func TestVerifyRejectsTamperedProductArgument(t *testing.T) {
	g := toyGroup()
	pk := fixturePK(t, g)
	stmt, wit := fixture(t, g, pk)
	ck, ck2 := fixtureKeys(t, g)
	svc := newService(ck, ck2)

	arg, err := svc.Prove(stmt, wit)
	require.NoError(t, err)
	arg.ProductArg.SVP.RTilde = new(big.Int).Add(arg.ProductArg.SVP.RTilde, big.NewInt(1))

	ok, reason, err := svc.Verify(stmt, arg)
	require.NoError(t, err)
	require.False(t, ok, "Verify accepted a shuffle argument with a tampered product sub-argument")
	require.Equal(t, "product sub-argument rejected", reason)
}

func TestVerifyRejectsTamperedMultiExpArgument(t *testing.T) {
	g := toyGroup()
	pk := fixturePK(t, g)
	stmt, wit := fixture(t, g, pk)
	ck, ck2 := fixtureKeys(t, g)
	svc := newService(ck, ck2)

	arg, err := svc.Prove(stmt, wit)
	if err != nil {
		t.Fatal(err)
	}
	arg.MultiExpArg.RResp = new(big.Int).Add(arg.MultiExpArg.RResp, big.NewInt(1))

	ok, reason, err := svc.Verify(stmt, arg)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("Verify accepted a shuffle argument with a tampered multi-exponentiation sub-argument")
	}
	if reason != "multi-exponentiation sub-argument rejected" {
		t.Errorf("unexpected rejection reason: %q", reason)
	}
}
