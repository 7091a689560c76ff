// Package zeroarg implements the Zero Argument: a proof that the
// star-map sum ∑ ⟨A_·i, B_·i⟩_y over two committed n×m matrices vanishes.
// It is the innermost sub-argument of the tower: Hadamard reduces to it
// directly, and Product and Shuffle reach it through Hadamard.
package zeroarg

import (
	"fmt"
	"math/big"

	"github.com/shufflemix/mixnet/commitment"
	"github.com/shufflemix/mixnet/group"
	"github.com/shufflemix/mixnet/gvec"
	"github.com/shufflemix/mixnet/mixerr"
	"github.com/shufflemix/mixnet/randsource"
	"github.com/shufflemix/mixnet/transcript"
)

// Statement is (c_A, c_B, y): two length-m vectors of commitments and a
// challenge scalar y.
type Statement struct {
	CA, CB gvec.ElementVector
	Y      *big.Int
}

// Witness is (A, B, r, s): the n×m matrices committed to by CA/CB, and
// the randomness vectors used for each column commitment.
type Witness struct {
	A, B gvec.ScalarMatrix
	R, S gvec.ScalarVector
}

// Argument is the opaque proof object: commitments c_A0, c_Bm and the 2m+1
// diagonal commitments c_d, plus the prover's response vectors/scalars.
type Argument struct {
	CA0, CBm group.Element
	CD       []group.Element
	APrime   gvec.ScalarVector
	BPrime   gvec.ScalarVector
	RPrime   *big.Int
	SPrime   *big.Int
	TPrime   *big.Int
}

// Service binds a commitment key and the two collaborators needed to
// prove and verify zero arguments.
type Service struct {
	CK     commitment.Key
	Oracle transcript.Oracle
	Rand   randsource.Source
}

// ComputeD returns d ∈ Z_q^{2m+1}, d_k = ∑_{j-i=m-k} ⟨A_·i, B_·j⟩_y, for
// A, B of shape n×(m+1): the diagonal order under which ⟨a', b'⟩_y =
// ∑_k x^k·d_k for Prove's response vectors a' = ∑ x^i·A_·i and
// b' = ∑ x^{m-j}·B_·j. Empty matrices (0 columns) return an empty vector.
func ComputeD(A, B gvec.ScalarMatrix, y *big.Int) (gvec.ScalarVector, error) {
	if A.Cols != B.Cols {
		return gvec.ScalarVector{}, fmt.Errorf("computeD column count mismatch %d != %d: %w", A.Cols, B.Cols, mixerr.ErrShapeMismatch)
	}
	if A.Cols == 0 {
		return gvec.ScalarVector{Mod: A.Mod, V: nil}, nil
	}
	m := A.Cols - 1
	size := 2*m + 1
	d := make([]*big.Int, size)
	for k := 0; k < size; k++ {
		offset := m - k
		sum := big.NewInt(0)
		for i := 0; i < A.Cols; i++ {
			j := i + offset
			if j < 0 || j >= A.Cols {
				continue
			}
			term, err := gvec.StarMap(A.Col[i], B.Col[j], y)
			if err != nil {
				return gvec.ScalarVector{}, err
			}
			sum.Add(sum, term)
			sum.Mod(sum, A.Mod)
		}
		d[k] = sum
	}
	return gvec.ScalarVector{Mod: A.Mod, V: d}, nil
}

// Prove constructs a Zero Argument for stmt/wit. m (column count) and n
// (row count) come from the witness matrices.
func (s Service) Prove(stmt Statement, wit Witness) (Argument, error) {
	m := wit.A.Cols
	n := wit.A.Rows
	mod := s.CK.G.N()

	if m == 0 || n == 0 {
		return Argument{}, fmt.Errorf("zero argument requires m,n >= 1: %w", mixerr.ErrBoundsViolation)
	}
	if wit.B.Cols != m || wit.R.Len() != m || wit.S.Len() != m {
		return Argument{}, fmt.Errorf("zero argument witness shape mismatch: %w", mixerr.ErrShapeMismatch)
	}
	if stmt.CA.Len() != m || stmt.CB.Len() != m {
		return Argument{}, fmt.Errorf("zero argument statement shape mismatch: %w", mixerr.ErrShapeMismatch)
	}

	// Witness-consistency check: the claimed relation must actually hold.
	sum := big.NewInt(0)
	for i := 0; i < m; i++ {
		term, err := gvec.StarMap(wit.A.Col[i], wit.B.Col[i], stmt.Y)
		if err != nil {
			return Argument{}, err
		}
		sum.Add(sum, term)
		sum.Mod(sum, mod)
	}
	if sum.Sign() != 0 {
		return Argument{}, fmt.Errorf("zero argument witness does not vanish: %w", mixerr.ErrWitnessInconsistent)
	}

	r0, err := s.Rand.GenRandomInteger(mod)
	if err != nil {
		return Argument{}, err
	}
	sm, err := s.Rand.GenRandomInteger(mod)
	if err != nil {
		return Argument{}, err
	}

	a0 := make([]*big.Int, n)
	for i := range a0 {
		v, err := s.Rand.GenRandomInteger(mod)
		if err != nil {
			return Argument{}, err
		}
		a0[i] = v
	}
	a0Vec := gvec.ScalarVector{Mod: mod, V: a0}

	// b_m is sampled so that d_m (the coefficient paired with t_m=0)
	// vanishes: pick its first n-1 entries freely, solve the last one
	// from the single linear constraint the convolution leaves.
	bm := make([]*big.Int, n)
	for i := 0; i < n-1; i++ {
		v, err := s.Rand.GenRandomInteger(mod)
		if err != nil {
			return Argument{}, err
		}
		bm[i] = v
	}
	bm[n-1] = big.NewInt(0)
	bmVec := gvec.ScalarVector{Mod: mod, V: bm}

	partial := big.NewInt(0)
	t0, err := gvec.StarMap(a0Vec, wit.B.Col[0], stmt.Y)
	if err != nil {
		return Argument{}, err
	}
	partial.Add(partial, t0)
	for i := 0; i < m-1; i++ {
		t, err := gvec.StarMap(wit.A.Col[i], wit.B.Col[i+1], stmt.Y)
		if err != nil {
			return Argument{}, err
		}
		partial.Add(partial, t)
	}
	if n > 1 {
		tPartial, err := gvec.StarMap(bmVec, wit.A.Col[m-1], stmt.Y)
		if err != nil {
			return Argument{}, err
		}
		partial.Add(partial, tPartial)
	}
	partial.Mod(partial, mod)

	// Need <A_{m-1}, bm>_y = -partial; bm's last entry contributes
	// A_{m-1}[n-1] * y^n.
	yPow := new(big.Int).Exp(stmt.Y, big.NewInt(int64(n)), mod)
	coeff := new(big.Int).Mod(new(big.Int).Mul(wit.A.Col[m-1].V[n-1], yPow), mod)
	if coeff.Sign() == 0 {
		return Argument{}, fmt.Errorf("degenerate zero argument instance (zero coefficient): %w", mixerr.ErrBoundsViolation)
	}
	target := new(big.Int).Mod(new(big.Int).Neg(partial), mod)
	coeffInv := new(big.Int).ModInverse(coeff, mod)
	bm[n-1] = new(big.Int).Mod(new(big.Int).Mul(target, coeffInv), mod)
	bmVec = gvec.ScalarVector{Mod: mod, V: bm}

	// Extended matrices A' = [a0 | A], B' = [B | bm].
	aCols := make([]gvec.ScalarVector, m+1)
	aCols[0] = a0Vec
	copy(aCols[1:], wit.A.Col)
	aPrimeMat, err := gvec.NewScalarMatrixFromColumns(mod, aCols)
	if err != nil {
		return Argument{}, err
	}

	bCols := make([]gvec.ScalarVector, m+1)
	copy(bCols[:m], wit.B.Col)
	bCols[m] = bmVec
	bPrimeMat, err := gvec.NewScalarMatrixFromColumns(mod, bCols)
	if err != nil {
		return Argument{}, err
	}

	d, err := ComputeD(aPrimeMat, bPrimeMat, stmt.Y)
	if err != nil {
		return Argument{}, err
	}

	t := make([]*big.Int, len(d.V))
	for k := range t {
		if k == m {
			t[k] = big.NewInt(0)
			continue
		}
		v, err := s.Rand.GenRandomInteger(mod)
		if err != nil {
			return Argument{}, err
		}
		t[k] = v
	}

	cA0, err := s.CK.Commit(a0Vec, r0)
	if err != nil {
		return Argument{}, err
	}
	cBm, err := s.CK.Commit(bmVec, sm)
	if err != nil {
		return Argument{}, err
	}
	cD := make([]group.Element, len(d.V))
	for k := range d.V {
		c, err := s.CK.Commit(gvec.ScalarVector{Mod: mod, V: []*big.Int{d.V[k]}}, t[k])
		if err != nil {
			return Argument{}, err
		}
		cD[k] = c
	}

	x, err := s.Oracle.Challenge(mod, transcript.Element(cA0), transcript.Element(cBm),
		transcript.Elements(cD), transcript.Int(stmt.Y), transcript.Elements(stmt.CA.V), transcript.Elements(stmt.CB.V))
	if err != nil {
		return Argument{}, err
	}

	xPowI := gvec.Powers(x, mod, m) // x^1..x^m

	aPrime := a0Vec
	rPrime := new(big.Int).Set(r0)
	for i := 0; i < m; i++ {
		scaled := wit.A.Col[i].Scale(xPowI.V[i])
		aPrime, err = aPrime.Add(scaled)
		if err != nil {
			return Argument{}, err
		}
		rPrime.Add(rPrime, new(big.Int).Mul(xPowI.V[i], wit.R.V[i]))
		rPrime.Mod(rPrime, mod)
	}

	bPrime := bmVec
	sPrime := new(big.Int).Set(sm)
	for j := 0; j < m; j++ {
		xp := new(big.Int).Exp(x, big.NewInt(int64(m-j)), mod)
		scaled := wit.B.Col[j].Scale(xp)
		bPrime, err = bPrime.Add(scaled)
		if err != nil {
			return Argument{}, err
		}
		sPrime.Add(sPrime, new(big.Int).Mul(xp, wit.S.V[j]))
		sPrime.Mod(sPrime, mod)
	}

	tPrime := big.NewInt(0)
	xPowK := big.NewInt(1)
	for k := range t {
		tPrime.Add(tPrime, new(big.Int).Mul(xPowK, t[k]))
		tPrime.Mod(tPrime, mod)
		xPowK.Mul(xPowK, x)
		xPowK.Mod(xPowK, mod)
	}

	return Argument{
		CA0:    cA0,
		CBm:    cBm,
		CD:     cD,
		APrime: aPrime,
		BPrime: bPrime,
		RPrime: rPrime,
		SPrime: sPrime,
		TPrime: tPrime,
	}, nil
}

// Verify checks arg against stmt, returning false (never an error) for
// any unconvincing but well-shaped proof.
func (s Service) Verify(stmt Statement, arg Argument) (bool, error) {
	m := stmt.CA.Len()
	if m == 0 {
		return false, fmt.Errorf("zero argument requires m >= 1: %w", mixerr.ErrBoundsViolation)
	}
	if stmt.CB.Len() != m {
		return false, fmt.Errorf("zero statement shape mismatch: %w", mixerr.ErrShapeMismatch)
	}
	if len(arg.CD) != 2*m+1 {
		return false, nil
	}
	if arg.CA0 == nil || arg.CBm == nil {
		return false, nil
	}
	if !arg.CD[m].IsIdentity() {
		return false, nil
	}

	mod := s.CK.G.N()
	x, err := s.Oracle.Challenge(mod, transcript.Element(arg.CA0), transcript.Element(arg.CBm),
		transcript.Elements(arg.CD), transcript.Int(stmt.Y), transcript.Elements(stmt.CA.V), transcript.Elements(stmt.CB.V))
	if err != nil {
		return false, err
	}

	lhsA, err := s.CK.Commit(arg.APrime, arg.RPrime)
	if err != nil {
		return false, err
	}
	rhsA := arg.CA0
	for i := 0; i < m; i++ {
		xp := new(big.Int).Exp(x, big.NewInt(int64(i+1)), mod)
		rhsA = s.CK.G.Element().Add(rhsA, s.CK.G.Element().Scale(stmt.CA.V[i], xp))
	}
	if !lhsA.IsEqual(rhsA) {
		return false, nil
	}

	lhsB, err := s.CK.Commit(arg.BPrime, arg.SPrime)
	if err != nil {
		return false, err
	}
	rhsB := arg.CBm
	for j := 0; j < m; j++ {
		xp := new(big.Int).Exp(x, big.NewInt(int64(m-j)), mod)
		rhsB = s.CK.G.Element().Add(rhsB, s.CK.G.Element().Scale(stmt.CB.V[j], xp))
	}
	if !lhsB.IsEqual(rhsB) {
		return false, nil
	}

	innerVal, err := gvec.StarMap(arg.APrime, arg.BPrime, stmt.Y)
	if err != nil {
		return false, err
	}
	lhsD, err := s.CK.Commit(gvec.ScalarVector{Mod: mod, V: []*big.Int{innerVal}}, arg.TPrime)
	if err != nil {
		return false, err
	}
	rhsD := s.CK.G.Identity()
	xPowK := big.NewInt(1)
	for k := 0; k < len(arg.CD); k++ {
		rhsD = s.CK.G.Element().Add(rhsD, s.CK.G.Element().Scale(arg.CD[k], xPowK))
		xPowK = new(big.Int).Mod(new(big.Int).Mul(xPowK, x), mod)
	}
	if !lhsD.IsEqual(rhsD) {
		return false, nil
	}

	return true, nil
}
