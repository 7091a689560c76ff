// Package shuffleargument implements the Shuffle Argument: a proof that a
// committed re-encryption shuffle (C, C') is consistent with some hidden
// permutation and re-randomisation. It reduces to a
// Product Argument (proving the committed exponent matrices encode the
// same permutation under the polynomial identity prod(y*k+x^k-z)) and a
// Multi-Exponentiation Argument (proving the re-encryption relation holds
// for the permuted exponents).
//
// Design note: step 6's multi-exponentiation sub-claim operates on a
// flattened length-N exponent vector (the unreshaped B values, N = n*m)
// rather than the n×m grid used for the permutation check, because that
// vector must be paired one-for-one against the original N ciphertexts in
// their natural order. This needs its own commitment key with capacity at
// least N, separate from the n-capacity key the rest of the argument uses
// — see multiexp's Service.CK for the matching constraint.
package shuffleargument

import (
	"fmt"
	"math/big"

	"github.com/shufflemix/mixnet/commitment"
	"github.com/shufflemix/mixnet/elgamal"
	"github.com/shufflemix/mixnet/group"
	"github.com/shufflemix/mixnet/gvec"
	"github.com/shufflemix/mixnet/mixerr"
	"github.com/shufflemix/mixnet/multiexp"
	"github.com/shufflemix/mixnet/permutation"
	"github.com/shufflemix/mixnet/product"
	"github.com/shufflemix/mixnet/randsource"
	"github.com/shufflemix/mixnet/transcript"
)

// Statement is (C, C', pk, n, m): the original and shuffled ciphertext
// batches, the public key they were re-encrypted under, and the n×m
// reshaping of N = n*m used to build the permutation matrices.
type Statement struct {
	C      []elgamal.Ciphertext
	Cprime []elgamal.Ciphertext
	PK     elgamal.PublicKey
	Rows   int // n
	Cols   int // m
}

// Witness is (π, ρ): the hidden permutation and the re-encryption
// randomness used to build C' from C, matching permutation.Shuffle.
type Witness struct {
	Perm permutation.Permutation
	Rho  []*big.Int
}

// Argument carries the two committed exponent matrices and the two
// sub-arguments the shuffle reduces to, plus the auxiliary commitment the
// multi-exponentiation sub-claim's flattened exponent vector needs.
type Argument struct {
	CA           gvec.ElementVector
	CB           gvec.ElementVector
	CBFlatCommit group.Element
	ProductArg   product.Argument
	MultiExpArg  multiexp.Argument
}

// Service binds the two commitment keys (CK for the n-capacity matrices,
// CK2 for the N-capacity flattened exponent vector) and the Product/
// Multi-Exponentiation collaborators this argument composes.
type Service struct {
	CK       commitment.Key
	CK2      commitment.Key
	Product  product.Service
	MultiExp multiexp.Service
	Oracle   transcript.Oracle
	Rand     randsource.Source
}

// NewService wires the Product and Multi-Exponentiation sub-services from
// the two commitment keys and shared collaborators.
func NewService(ck, ck2 commitment.Key, oracle transcript.Oracle, rand randsource.Source) Service {
	return Service{
		CK:       ck,
		CK2:      ck2,
		Product:  product.NewService(ck, oracle, rand),
		MultiExp: multiexp.Service{CK: ck2, Oracle: oracle, Rand: rand},
		Oracle:   oracle,
		Rand:     rand,
	}
}

func onesVector(mod *big.Int, n int) gvec.ScalarVector {
	v := make([]*big.Int, n)
	for i := range v {
		v[i] = big.NewInt(1)
	}
	return gvec.ScalarVector{Mod: mod, V: v}
}

func randomVector(src randsource.Source, mod *big.Int, n int) (gvec.ScalarVector, error) {
	v := make([]*big.Int, n)
	for i := range v {
		r, err := src.GenRandomInteger(mod)
		if err != nil {
			return gvec.ScalarVector{}, err
		}
		v[i] = r
	}
	return gvec.ScalarVector{Mod: mod, V: v}, nil
}

// gather returns out[i] = vals[perm.Of[i]].
func gather(perm permutation.Permutation, vals []*big.Int) []*big.Int {
	out := make([]*big.Int, len(vals))
	for i, idx := range perm.Of {
		out[i] = vals[idx]
	}
	return out
}

// reshapeRowMajor fills an n×m matrix row by row from flat, i.e.
// entry (i,j) = flat[i*m+j].
func reshapeRowMajor(flat []*big.Int, mod *big.Int, n, m int) (gvec.ScalarMatrix, error) {
	if len(flat) != n*m {
		return gvec.ScalarMatrix{}, fmt.Errorf("reshape length %d != %d*%d: %w", len(flat), n, m, mixerr.ErrShapeMismatch)
	}
	cols := make([]gvec.ScalarVector, m)
	for j := 0; j < m; j++ {
		col := make([]*big.Int, n)
		for i := 0; i < n; i++ {
			col[i] = flat[i*m+j]
		}
		cols[j] = gvec.ScalarVector{Mod: mod, V: col}
	}
	return gvec.NewScalarMatrixFromColumns(mod, cols)
}

func identityCiphertext(g group.Group, l int) elgamal.Ciphertext {
	phi := make([]group.Element, l)
	for i := range phi {
		phi[i] = g.Identity()
	}
	return elgamal.Ciphertext{G: g, Gamma: g.Identity(), Phi: phi}
}

// combineWeighted returns prod_i C[i]^exps[i].
func combineWeighted(C []elgamal.Ciphertext, exps []*big.Int, l int, g group.Group) elgamal.Ciphertext {
	acc := identityCiphertext(g, l)
	for i, c := range C {
		acc, _ = acc.Mul(c.Exp(exps[i]))
	}
	return acc
}

func combinedRho(mod *big.Int, rho []*big.Int, xPow gvec.ScalarVector) *big.Int {
	acc := big.NewInt(0)
	for i, r := range rho {
		term := new(big.Int).Mul(xPow.V[i], r)
		acc = new(big.Int).Mod(new(big.Int).Add(acc, term), mod)
	}
	return acc
}

// buildD returns D = y*A + B - z (elementwise) and its matching
// commitment randomness y*R + S, column by column.
func buildD(mod *big.Int, A, B gvec.ScalarMatrix, R, S gvec.ScalarVector, y, z *big.Int) (gvec.ScalarMatrix, gvec.ScalarVector, error) {
	m := A.Cols
	negZ := new(big.Int).Mod(new(big.Int).Neg(z), mod)
	cols := make([]gvec.ScalarVector, m)
	rD := make([]*big.Int, m)
	for j := 0; j < m; j++ {
		scaled := A.Col[j].Scale(y)
		sum, err := scaled.Add(B.Col[j])
		if err != nil {
			return gvec.ScalarMatrix{}, gvec.ScalarVector{}, err
		}
		cols[j] = sum.AddConst(negZ)
		rD[j] = new(big.Int).Mod(new(big.Int).Add(new(big.Int).Mul(y, R.V[j]), S.V[j]), mod)
	}
	DMat, err := gvec.NewScalarMatrixFromColumns(mod, cols)
	if err != nil {
		return gvec.ScalarMatrix{}, gvec.ScalarVector{}, err
	}
	return DMat, gvec.ScalarVector{Mod: mod, V: rD}, nil
}

// buildCD computes c_D = y*c_A + c_B - commit(z*1, 0), column by column.
func buildCD(ck commitment.Key, cA, cB gvec.ElementVector, y, z *big.Int, n int) (gvec.ElementVector, error) {
	g := ck.G
	zOnes := onesVector(ck.G.N(), n).Scale(z)
	zCommit, err := ck.Commit(zOnes, big.NewInt(0))
	if err != nil {
		return gvec.ElementVector{}, err
	}
	negZCommit := g.Element().Negate(zCommit)
	m := cA.Len()
	cols := make([]group.Element, m)
	for j := 0; j < m; j++ {
		scaled := g.Element().Scale(cA.V[j], y)
		sum := g.Element().Add(scaled, cB.V[j])
		cols[j] = g.Element().Add(sum, negZCommit)
	}
	return gvec.NewElementVector(g, cols)
}

// polyTarget returns prod_{k=1}^{N} (y*k + x^k - z) mod mod.
func polyTarget(mod *big.Int, N int, y, x, z *big.Int) *big.Int {
	xPow := gvec.Powers(x, mod, N)
	result := big.NewInt(1)
	for k := 1; k <= N; k++ {
		term := new(big.Int).Mul(y, big.NewInt(int64(k)))
		term.Add(term, xPow.V[k-1])
		term.Sub(term, z)
		term.Mod(term, mod)
		result.Mul(result, term)
		result.Mod(result, mod)
	}
	return result
}

func (s Service) challengeX(stmt Statement, cA gvec.ElementVector) (*big.Int, error) {
	mod := s.CK.G.N()
	items := []transcript.Hashable{
		transcript.Elements(stmt.PK.PK),
		transcript.Element(s.CK.H),
		transcript.Elements(s.CK.Bases),
	}
	for _, c := range stmt.C {
		items = append(items, transcript.Element(c.Gamma), transcript.Elements(c.Phi))
	}
	for _, c := range stmt.Cprime {
		items = append(items, transcript.Element(c.Gamma), transcript.Elements(c.Phi))
	}
	items = append(items, transcript.Elements(cA.V))
	return s.Oracle.Challenge(mod, items...)
}

func (s Service) challengesYZ(mod *big.Int, cA, cB gvec.ElementVector) (y, z *big.Int, err error) {
	y, err = s.Oracle.Challenge(mod, transcript.Bytes([]byte("shuffleargument-y")), transcript.Elements(cA.V), transcript.Elements(cB.V))
	if err != nil {
		return nil, nil, err
	}
	z, err = s.Oracle.Challenge(mod, transcript.Bytes([]byte("shuffleargument-z")), transcript.Int(y), transcript.Elements(cA.V), transcript.Elements(cB.V))
	if err != nil {
		return nil, nil, err
	}
	return y, z, nil
}

func validateShape(stmt Statement) error {
	n, m := stmt.Rows, stmt.Cols
	N := len(stmt.C)
	if n < 1 || m < 1 {
		return fmt.Errorf("shuffle argument requires n,m >= 1: %w", mixerr.ErrBoundsViolation)
	}
	if n < 2 {
		return fmt.Errorf("shuffle argument requires n >= 2: %w", mixerr.ErrBoundsViolation)
	}
	if n*m != N {
		return fmt.Errorf("rows*cols %d != ciphertext count %d: %w", n*m, N, mixerr.ErrShapeMismatch)
	}
	if len(stmt.Cprime) != N {
		return fmt.Errorf("shuffled ciphertext count %d != %d: %w", len(stmt.Cprime), N, mixerr.ErrShapeMismatch)
	}
	for i, c := range stmt.C {
		if c.Len() > stmt.PK.Len() {
			return fmt.Errorf("ciphertext %d has %d components, exceeds public key length %d: %w", i, c.Len(), stmt.PK.Len(), mixerr.ErrBoundsViolation)
		}
	}
	if stmt.PK.G != nil {
		if upper := new(big.Int).Sub(stmt.PK.G.N(), big.NewInt(3)); big.NewInt(int64(N)).Cmp(upper) > 0 {
			return fmt.Errorf("ciphertext count %d exceeds q-3 = %s: %w", N, upper, mixerr.ErrBoundsViolation)
		}
	}
	return nil
}

// Prove constructs a Shuffle Argument attesting that stmt.Cprime is a
// re-encryption shuffle of stmt.C under wit.Perm/wit.Rho.
func (s Service) Prove(stmt Statement, wit Witness) (Argument, error) {
	if err := validateShape(stmt); err != nil {
		return Argument{}, err
	}
	n, m := stmt.Rows, stmt.Cols
	N := len(stmt.C)
	g := s.CK.G
	mod := g.N()

	if n > s.CK.Capacity() {
		return Argument{}, fmt.Errorf("row count %d exceeds commitment key capacity %d: %w", n, s.CK.Capacity(), mixerr.ErrBoundsViolation)
	}
	if N > s.CK2.Capacity() {
		return Argument{}, fmt.Errorf("ciphertext count %d exceeds multi-exponentiation key capacity %d: %w", N, s.CK2.Capacity(), mixerr.ErrBoundsViolation)
	}
	if err := permutation.VerifyWitness(stmt.C, stmt.Cprime, stmt.PK, wit.Perm, wit.Rho); err != nil {
		return Argument{}, err
	}

	invPerm := wit.Perm.Inverse()
	idVals := make([]*big.Int, N)
	for i := range idVals {
		idVals[i] = big.NewInt(int64(i + 1))
	}
	aFlat := gather(invPerm, idVals)

	r, err := randomVector(s.Rand, mod, m)
	if err != nil {
		return Argument{}, err
	}
	AMat, err := reshapeRowMajor(aFlat, mod, n, m)
	if err != nil {
		return Argument{}, err
	}
	cA, err := s.CK.CommitMatrix(AMat, r)
	if err != nil {
		return Argument{}, err
	}

	x, err := s.challengeX(stmt, cA)
	if err != nil {
		return Argument{}, err
	}

	xPow := gvec.Powers(x, mod, N)
	bFlat := gather(invPerm, xPow.V)

	sVec, err := randomVector(s.Rand, mod, m)
	if err != nil {
		return Argument{}, err
	}
	BMat, err := reshapeRowMajor(bFlat, mod, n, m)
	if err != nil {
		return Argument{}, err
	}
	cB, err := s.CK.CommitMatrix(BMat, sVec)
	if err != nil {
		return Argument{}, err
	}

	y, z, err := s.challengesYZ(mod, cA, cB)
	if err != nil {
		return Argument{}, err
	}

	DMat, rD, err := buildD(mod, AMat, BMat, r, sVec, y, z)
	if err != nil {
		return Argument{}, err
	}
	targetProduct := polyTarget(mod, N, y, x, z)
	cD, err := buildCD(s.CK, cA, cB, y, z, n)
	if err != nil {
		return Argument{}, err
	}

	prodArg, err := s.Product.Prove(
		product.Statement{CA: cD, B: targetProduct},
		product.Witness{A: DMat, R: rD},
	)
	if err != nil {
		return Argument{}, err
	}

	rBar, err := s.Rand.GenRandomInteger(mod)
	if err != nil {
		return Argument{}, err
	}
	bFlatVec := gvec.ScalarVector{Mod: mod, V: bFlat}
	bFlatMat, err := gvec.NewScalarMatrixFromColumns(mod, []gvec.ScalarVector{bFlatVec})
	if err != nil {
		return Argument{}, err
	}
	cBFlat, err := s.CK2.Commit(bFlatVec, rBar)
	if err != nil {
		return Argument{}, err
	}

	l := stmt.PK.Len()
	targetCiphertext := combineWeighted(stmt.Cprime, xPow.V, l, g)
	rhoBar := combinedRho(mod, wit.Rho, xPow)

	meArg, err := s.MultiExp.Prove(
		multiexp.Statement{
			C:    stmt.C,
			PK:   stmt.PK,
			CA:   gvec.ElementVector{G: g, V: []group.Element{cBFlat}},
			CBar: targetCiphertext,
		},
		multiexp.Witness{
			A:      bFlatMat,
			R:      gvec.ScalarVector{Mod: mod, V: []*big.Int{rBar}},
			RhoBar: rhoBar,
		},
	)
	if err != nil {
		return Argument{}, err
	}

	return Argument{
		CA:           cA,
		CB:           cB,
		CBFlatCommit: cBFlat,
		ProductArg:   prodArg,
		MultiExpArg:  meArg,
	}, nil
}

// Verify checks arg against stmt. The returned string is empty on success
// and otherwise names the first failing sub-check. Shape and bounds
// problems in stmt are also reported as false, with a reason prefixed
// "structural: "; a non-nil error comes only from a failing challenge,
// commitment or sub-argument computation.
func (s Service) Verify(stmt Statement, arg Argument) (bool, string, error) {
	n, m := stmt.Rows, stmt.Cols
	N := len(stmt.C)
	if err := validateShape(stmt); err != nil {
		return false, "structural: " + err.Error(), nil
	}
	if arg.CA.Len() != m || arg.CB.Len() != m {
		return false, "structural: exponent matrix commitment shape mismatch", nil
	}
	if n > s.CK.Capacity() || N > s.CK2.Capacity() {
		return false, "structural: dimensions exceed commitment key capacity", nil
	}

	g := s.CK.G
	mod := g.N()

	x, err := s.challengeX(stmt, arg.CA)
	if err != nil {
		return false, "", err
	}
	y, z, err := s.challengesYZ(mod, arg.CA, arg.CB)
	if err != nil {
		return false, "", err
	}

	cD, err := buildCD(s.CK, arg.CA, arg.CB, y, z, n)
	if err != nil {
		return false, "", err
	}
	targetProduct := polyTarget(mod, N, y, x, z)
	prodOK, err := s.Product.Verify(product.Statement{CA: cD, B: targetProduct}, arg.ProductArg)
	if err != nil {
		return false, "", err
	}
	if !prodOK {
		return false, "product sub-argument rejected", nil
	}

	xPow := gvec.Powers(x, mod, N)
	l := stmt.PK.Len()
	targetCiphertext := combineWeighted(stmt.Cprime, xPow.V, l, g)
	meOK, err := s.MultiExp.Verify(
		multiexp.Statement{
			C:    stmt.C,
			PK:   stmt.PK,
			CA:   gvec.ElementVector{G: g, V: []group.Element{arg.CBFlatCommit}},
			CBar: targetCiphertext,
		},
		arg.MultiExpArg,
	)
	if err != nil {
		return false, "", err
	}
	if !meOK {
		return false, "multi-exponentiation sub-argument rejected", nil
	}

	return true, "", nil
}
