package zeroarg

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shufflemix/mixnet/commitment"
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

func TestComputeDEmpty(t *testing.T) {
	mod := big.NewInt(11)
	A, _ := gvec.NewScalarMatrixFromColumns(mod, nil)
	B, _ := gvec.NewScalarMatrixFromColumns(mod, nil)
	d, err := ComputeD(A, B, big.NewInt(2))
	if err != nil {
		t.Fatal(err)
	}
	if d.Len() != 0 {
		t.Errorf("ComputeD on empty matrices returned length %d, want 0", d.Len())
	}
}

func TestComputeDSingleColumn(t *testing.T) {
	// m+1 = 1 column each, n = 1 row: d has length 1, d_0 = A_0 . B_0
	// (star-map over a single row reduces to u_0*v_0*y).
	mod := big.NewInt(11)
	A, _ := gvec.NewScalarMatrixFromColumns(mod, []gvec.ScalarVector{{Mod: mod, V: ints(3)}})
	B, _ := gvec.NewScalarMatrixFromColumns(mod, []gvec.ScalarVector{{Mod: mod, V: ints(5)}})
	d, err := ComputeD(A, B, big.NewInt(2))
	if err != nil {
		t.Fatal(err)
	}
	if d.Len() != 1 {
		t.Fatalf("ComputeD length = %d, want 1", d.Len())
	}
	// 3*5*2 = 30 mod 11 = 8
	if d.V[0].Cmp(big.NewInt(8)) != 0 {
		t.Errorf("d_0 = %v, want 8", d.V[0])
	}
}

func TestComputeDAllZero(t *testing.T) {
	mod := big.NewInt(11)
	zeroCol := gvec.ScalarVector{Mod: mod, V: ints(0, 0)}
	A, _ := gvec.NewScalarMatrixFromColumns(mod, []gvec.ScalarVector{zeroCol, zeroCol})
	B, _ := gvec.NewScalarMatrixFromColumns(mod, []gvec.ScalarVector{zeroCol, zeroCol})
	d, err := ComputeD(A, B, big.NewInt(2))
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range d.V {
		if v.Sign() != 0 {
			t.Errorf("d[%d] = %v, want 0 for all-zero input matrices", k, v)
		}
	}
}

func toyGroup() group.Group {
	return group.NewModPGroupFromInts("toy23", big.NewInt(23), big.NewInt(11), big.NewInt(2))
}

func fixtureKey(t *testing.T, g group.Group) commitment.Key {
	t.Helper()
	h := g.Element().Scale(g.Generator(), big.NewInt(3))
	b0 := g.Element().Scale(g.Generator(), big.NewInt(4))
	b1 := g.Element().Scale(g.Generator(), big.NewInt(5))
	k, err := commitment.NewKey(g, h, []group.Element{b0, b1})
	if err != nil {
		t.Fatal(err)
	}
	return k
}

// vanishingWitness builds an n=2,m=2 witness over the toy group's Z_11
// that satisfies ∑ <A_i,B_i>_y = 0 for y=2: A columns (1,2),(3,4); B
// columns (0,0),(1,1). <A0,B0>=0 trivially; <A1,B1>_y=2 = 3*1*2+4*1*4 =
// 6+16 = 22 mod 11 = 0.
func vanishingWitness(mod *big.Int) (Witness, *big.Int) {
	A, _ := gvec.NewScalarMatrixFromColumns(mod, []gvec.ScalarVector{
		{Mod: mod, V: ints(1, 2)},
		{Mod: mod, V: ints(3, 4)},
	})
	B, _ := gvec.NewScalarMatrixFromColumns(mod, []gvec.ScalarVector{
		{Mod: mod, V: ints(0, 0)},
		{Mod: mod, V: ints(1, 1)},
	})
	R := gvec.ScalarVector{Mod: mod, V: ints(2, 3)}
	S := gvec.ScalarVector{Mod: mod, V: ints(4, 5)}
	return Witness{A: A, B: B, R: R, S: S}, big.NewInt(2)
}

func TestProveVerifyRoundTrip(t *testing.T) {
	g := toyGroup()
	k := fixtureKey(t, g)
	svc := Service{CK: k, Oracle: transcript.SHA256Oracle{}, Rand: randsource.CryptoSource{}}

	wit, y := vanishingWitness(g.N())
	cA, err := k.CommitMatrix(wit.A, wit.R)
	if err != nil {
		t.Fatal(err)
	}
	cB, err := k.CommitMatrix(wit.B, wit.S)
	if err != nil {
		t.Fatal(err)
	}
	stmt := Statement{CA: cA, CB: cB, Y: y}

	arg, err := svc.Prove(stmt, wit)
	if err != nil {
		t.Fatalf("Prove failed on a vanishing witness: %v", err)
	}

	ok, err := svc.Verify(stmt, arg)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("Verify rejected a honestly generated zero argument")
	}
}

func TestProveRejectsNonVanishingWitness(t *testing.T) {
	g := toyGroup()
	k := fixtureKey(t, g)
	svc := Service{CK: k, Oracle: transcript.SHA256Oracle{}, Rand: randsource.CryptoSource{}}

	wit, y := vanishingWitness(g.N())
	// Perturb B so the relation no longer vanishes:
	// <A1,B1>_2 = 3*2*2+4*1*4 = 28 mod 11 = 6.
	wit.B.Col[1] = gvec.ScalarVector{Mod: g.N(), V: ints(2, 1)}
	cA, err := k.CommitMatrix(wit.A, wit.R)
	require.NoError(t, err)
	cB, err := k.CommitMatrix(wit.B, wit.S)
	require.NoError(t, err)

	if _, err := svc.Prove(Statement{CA: cA, CB: cB, Y: y}, wit); err == nil {
		t.Error("Prove should reject a witness whose zero relation does not hold")
	}
}

func TestVerifyRejectsTamperedArgument(t *testing.T) {
	g := toyGroup()
	k := fixtureKey(t, g)
	svc := Service{CK: k, Oracle: transcript.SHA256Oracle{}, Rand: randsource.CryptoSource{}}

	wit, y := vanishingWitness(g.N())
	cA, err := k.CommitMatrix(wit.A, wit.R)
	if err != nil {
		t.Fatal(err)
	}
	cB, err := k.CommitMatrix(wit.B, wit.S)
	if err != nil {
		t.Fatal(err)
	}
	stmt := Statement{CA: cA, CB: cB, Y: y}

	arg, err := svc.Prove(stmt, wit)
	if err != nil {
		t.Fatal(err)
	}
	arg.RPrime = new(big.Int).Add(arg.RPrime, big.NewInt(1))

	ok, err := svc.Verify(stmt, arg)
	require.NoError(t, err)
	require.False(t, ok, "Verify accepted a tampered response scalar")
}

func TestArgumentMarshalRoundTrip(t *testing.T) {
	g := toyGroup()
	k := fixtureKey(t, g)
	svc := Service{CK: k, Oracle: transcript.SHA256Oracle{}, Rand: randsource.CryptoSource{}}

	wit, y := vanishingWitness(g.N())
	cA, err := k.CommitMatrix(wit.A, wit.R)
	require.NoError(t, err)
	cB, err := k.CommitMatrix(wit.B, wit.S)
	require.NoError(t, err)
	stmt := Statement{CA: cA, CB: cB, Y: y}

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

func TestVerifyRejectsWrongDSize(t *testing.T) {
	g := toyGroup()
	k := fixtureKey(t, g)
	svc := Service{CK: k, Oracle: transcript.SHA256Oracle{}, Rand: randsource.CryptoSource{}}

	wit, y := vanishingWitness(g.N())
	cA, err := k.CommitMatrix(wit.A, wit.R)
	if err != nil {
		t.Fatal(err)
	}
	cB, err := k.CommitMatrix(wit.B, wit.S)
	if err != nil {
		t.Fatal(err)
	}
	stmt := Statement{CA: cA, CB: cB, Y: y}

	arg, err := svc.Prove(stmt, wit)
	if err != nil {
		t.Fatal(err)
	}
	arg.CD = arg.CD[:len(arg.CD)-1]

	ok, err := svc.Verify(stmt, arg)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("Verify accepted an argument with the wrong number of diagonal commitments")
	}
}
