// Package hadamard implements the Hadamard Argument: a proof that a
// committed vector b is the componentwise (Hadamard) product across the
// columns of a committed matrix A. It reduces to a single Zero Argument
// over 2(m-1) constructed columns.
package hadamard

import (
	"fmt"
	"math/big"

	"github.com/shufflemix/mixnet/commitment"
	"github.com/shufflemix/mixnet/group"
	"github.com/shufflemix/mixnet/gvec"
	"github.com/shufflemix/mixnet/mixerr"
	"github.com/shufflemix/mixnet/randsource"
	"github.com/shufflemix/mixnet/transcript"
	"github.com/shufflemix/mixnet/zeroarg"
)

// Statement is (c_A, c_b): an m-column committed matrix and a single
// commitment to the claimed Hadamard product of its columns.
type Statement struct {
	CA gvec.ElementVector
	Cb group.Element
}

// Witness is (A, r, s): the n×m matrix, the randomness used for c_A's
// columns, and the randomness used for c_b.
type Witness struct {
	A gvec.ScalarMatrix
	R gvec.ScalarVector
	S *big.Int
}

// Argument carries the full chain of intermediate commitments c_{B_0}..
// c_{B_{m-1}} (the two endpoints equal stmt.CA[0] and stmt.Cb, but are
// kept here so Verify doesn't need m passed separately) plus the Zero
// Argument the claim reduces to.
type Argument struct {
	CB      []group.Element
	ZeroArg zeroarg.Argument
}

// Service binds a commitment key and the inner Zero Argument service
// this argument delegates soundness to.
type Service struct {
	CK   commitment.Key
	Zero zeroarg.Service
}

func NewService(ck commitment.Key, oracle transcript.Oracle, rand randsource.Source) Service {
	return Service{CK: ck, Zero: zeroarg.Service{CK: ck, Oracle: oracle, Rand: rand}}
}

func onesVector(mod *big.Int, n int) gvec.ScalarVector {
	v := make([]*big.Int, n)
	for i := range v {
		v[i] = big.NewInt(1)
	}
	return gvec.ScalarVector{Mod: mod, V: v}
}

func challenges(oracle transcript.Oracle, mod *big.Int, caCols []group.Element, cb group.Element, cbArr []group.Element) (x, y *big.Int, err error) {
	x, err = oracle.Challenge(mod, transcript.Elements(caCols), transcript.Element(cb), transcript.Elements(cbArr))
	if err != nil {
		return nil, nil, err
	}
	y, err = oracle.Challenge(mod, transcript.Int(x), transcript.Elements(caCols), transcript.Element(cb), transcript.Elements(cbArr))
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

// buildZeroStatement constructs the 2(m-1)-column Zero Argument
// statement, fully derivable by the verifier from the public commitments
// cA (statement columns), cb (the full B-chain), the challenge x and the
// row count n.
func buildZeroStatement(ck commitment.Key, caCols []group.Element, cb []group.Element, x *big.Int, n int) (zeroarg.Statement, error) {
	m := len(caCols)
	mod := ck.G.N()
	p := 2 * (m - 1)

	caPrimeCols := make([]group.Element, p)
	cbPrimeCols := make([]group.Element, p)
	xPow := gvec.Powers(x, mod, m-1) // x^1..x^{m-1}, index kIdx for k=kIdx+1

	for kIdx := 0; kIdx < m-1; kIdx++ {
		k := kIdx + 1
		xk := xPow.V[kIdx]

		onesCommit, err := ck.Commit(onesVector(mod, n).Scale(xk), big.NewInt(0))
		if err != nil {
			return zeroarg.Statement{}, err
		}
		caPrimeCols[2*kIdx] = onesCommit
		cbPrimeCols[2*kIdx] = cb[k]

		caPrimeCols[2*kIdx+1] = ck.G.Element().Scale(caCols[k], xk)
		cbPrimeCols[2*kIdx+1] = ck.G.Element().Negate(cb[k-1])
	}

	caPrime, err := gvec.NewElementVector(ck.G, caPrimeCols)
	if err != nil {
		return zeroarg.Statement{}, err
	}
	cbPrime, err := gvec.NewElementVector(ck.G, cbPrimeCols)
	if err != nil {
		return zeroarg.Statement{}, err
	}
	return zeroarg.Statement{CA: caPrime, CB: cbPrime}, nil
}

// buildZeroWitness constructs the matching Zero Argument witness from the
// prover's full knowledge of A, its randomness R, the Hadamard chain b
// and its randomness s.
func buildZeroWitness(mod *big.Int, n int, A gvec.ScalarMatrix, R gvec.ScalarVector, b []gvec.ScalarVector, s []*big.Int, x *big.Int) (zeroarg.Witness, error) {
	m := A.Cols
	p := 2 * (m - 1)
	wA := make([]gvec.ScalarVector, p)
	wB := make([]gvec.ScalarVector, p)
	wR := make([]*big.Int, p)
	wS := make([]*big.Int, p)
	xPow := gvec.Powers(x, mod, m-1)

	for kIdx := 0; kIdx < m-1; kIdx++ {
		k := kIdx + 1
		xk := xPow.V[kIdx]

		wA[2*kIdx] = onesVector(mod, n).Scale(xk)
		wB[2*kIdx] = b[k]
		wR[2*kIdx] = big.NewInt(0)
		wS[2*kIdx] = s[k]

		wA[2*kIdx+1] = A.Col[k].Scale(xk)
		wB[2*kIdx+1] = b[k-1].Neg()
		wR[2*kIdx+1] = new(big.Int).Mod(new(big.Int).Mul(xk, R.V[k]), mod)
		wS[2*kIdx+1] = new(big.Int).Mod(new(big.Int).Neg(s[k-1]), mod)
	}

	aMat, err := gvec.NewScalarMatrixFromColumns(mod, wA)
	if err != nil {
		return zeroarg.Witness{}, err
	}
	bMat, err := gvec.NewScalarMatrixFromColumns(mod, wB)
	if err != nil {
		return zeroarg.Witness{}, err
	}
	return zeroarg.Witness{
		A: aMat, B: bMat,
		R: gvec.ScalarVector{Mod: mod, V: wR},
		S: gvec.ScalarVector{Mod: mod, V: wS},
	}, nil
}

// Prove constructs a Hadamard Argument for stmt/wit. m = wit.A.Cols,
// which must be >= 2.
func (s Service) Prove(stmt Statement, wit Witness) (Argument, error) {
	m := wit.A.Cols
	n := wit.A.Rows
	mod := s.CK.G.N()

	if m < 2 {
		return Argument{}, fmt.Errorf("hadamard argument requires m >= 2: %w", mixerr.ErrBoundsViolation)
	}
	if wit.R.Len() != m || stmt.CA.Len() != m {
		return Argument{}, fmt.Errorf("hadamard argument shape mismatch: %w", mixerr.ErrShapeMismatch)
	}

	b := make([]gvec.ScalarVector, m)
	b[0] = wit.A.Col[0]
	for k := 1; k < m; k++ {
		var err error
		b[k], err = b[k-1].Hadamard(wit.A.Col[k])
		if err != nil {
			return Argument{}, err
		}
	}
	cbWant, err := s.CK.Commit(b[m-1], wit.S)
	if err != nil {
		return Argument{}, err
	}
	if !cbWant.IsEqual(stmt.Cb) {
		return Argument{}, fmt.Errorf("hadamard witness does not open the claimed product commitment: %w", mixerr.ErrWitnessInconsistent)
	}

	sArr := make([]*big.Int, m)
	sArr[0] = wit.R.V[0]
	sArr[m-1] = wit.S
	for k := 1; k < m-1; k++ {
		v, err := s.Zero.Rand.GenRandomInteger(mod)
		if err != nil {
			return Argument{}, err
		}
		sArr[k] = v
	}

	cb := make([]group.Element, m)
	cb[0] = stmt.CA.V[0]
	cb[m-1] = stmt.Cb
	for k := 1; k < m-1; k++ {
		c, err := s.CK.Commit(b[k], sArr[k])
		if err != nil {
			return Argument{}, err
		}
		cb[k] = c
	}

	x, y, err := challenges(s.Zero.Oracle, mod, stmt.CA.V, stmt.Cb, cb)
	if err != nil {
		return Argument{}, err
	}

	zeroStmt, err := buildZeroStatement(s.CK, stmt.CA.V, cb, x, n)
	if err != nil {
		return Argument{}, err
	}
	zeroStmt.Y = y
	zeroWit, err := buildZeroWitness(mod, n, wit.A, wit.R, b, sArr, x)
	if err != nil {
		return Argument{}, err
	}

	zeroArg, err := s.Zero.Prove(zeroStmt, zeroWit)
	if err != nil {
		return Argument{}, err
	}

	return Argument{CB: cb, ZeroArg: zeroArg}, nil
}

// Verify checks arg against stmt.
func (s Service) Verify(stmt Statement, arg Argument) (bool, error) {
	m := stmt.CA.Len()
	if m < 2 {
		return false, fmt.Errorf("hadamard argument requires m >= 2: %w", mixerr.ErrBoundsViolation)
	}
	if len(arg.CB) != m {
		return false, nil
	}
	if !arg.CB[0].IsEqual(stmt.CA.V[0]) || !arg.CB[m-1].IsEqual(stmt.Cb) {
		return false, nil
	}

	mod := s.CK.G.N()
	x, y, err := challenges(s.Zero.Oracle, mod, stmt.CA.V, stmt.Cb, arg.CB)
	if err != nil {
		return false, err
	}

	n := arg.ZeroArg.APrime.Len()
	zeroStmt, err := buildZeroStatement(s.CK, stmt.CA.V, arg.CB, x, n)
	if err != nil {
		return false, err
	}
	zeroStmt.Y = y

	return s.Zero.Verify(zeroStmt, arg.ZeroArg)
}
