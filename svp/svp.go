// Package svp implements the Single-Value-Product Argument: a proof that
// the committed vector a's entries multiply to a claimed scalar b.
// Requires n >= 2 (n = 1 is the Product Argument's own special-case
// return).
package svp

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

// Statement is (c_a, b): a commitment to the vector and the claimed
// product of its entries.
type Statement struct {
	CA group.Element
	B  *big.Int
}

// Witness is (a, r): the committed vector and its commitment randomness.
type Witness struct {
	A gvec.ScalarVector
	R *big.Int
}

// Argument is the opaque proof object.
type Argument struct {
	CD, CDelta, CBigDelta group.Element
	ATilde, BTilde        gvec.ScalarVector
	RTilde, STilde        *big.Int
}

// Service binds a commitment key and the collaborators needed to prove
// and verify single-value-product arguments.
type Service struct {
	CK     commitment.Key
	Oracle transcript.Oracle
	Rand   randsource.Source
}

func partialProducts(a gvec.ScalarVector) gvec.ScalarVector {
	mod := a.Mod
	out := make([]*big.Int, a.Len())
	acc := big.NewInt(1)
	for i, v := range a.V {
		acc = new(big.Int).Mod(new(big.Int).Mul(acc, v), mod)
		out[i] = new(big.Int).Set(acc)
	}
	return gvec.ScalarVector{Mod: mod, V: out}
}

// Prove constructs a single-value-product argument for stmt/wit.
// n = wit.A.Len(), which must be >= 2.
func (s Service) Prove(stmt Statement, wit Witness) (Argument, error) {
	n := wit.A.Len()
	mod := s.CK.G.N()

	if n < 2 {
		return Argument{}, fmt.Errorf("single-value-product argument requires n >= 2: %w", mixerr.ErrBoundsViolation)
	}

	bStar := partialProducts(wit.A)
	if bStar.V[n-1].Cmp(new(big.Int).Mod(stmt.B, mod)) != 0 {
		return Argument{}, fmt.Errorf("single-value-product witness does not multiply to the claimed product: %w", mixerr.ErrWitnessInconsistent)
	}

	d := make([]*big.Int, n)
	for i := range d {
		v, err := s.Rand.GenRandomInteger(mod)
		if err != nil {
			return Argument{}, err
		}
		d[i] = v
	}
	rd, err := s.Rand.GenRandomInteger(mod)
	if err != nil {
		return Argument{}, err
	}

	delta := make([]*big.Int, n)
	delta[0] = d[0]
	delta[n-1] = big.NewInt(0)
	for i := 1; i < n-1; i++ {
		v, err := s.Rand.GenRandomInteger(mod)
		if err != nil {
			return Argument{}, err
		}
		delta[i] = v
	}

	u := make([]*big.Int, n-1)
	bigDelta := make([]*big.Int, n-1)
	for i := 0; i < n-1; i++ {
		u[i] = new(big.Int).Mod(new(big.Int).Neg(new(big.Int).Mul(delta[i], d[i+1])), mod)
		term := new(big.Int).Mul(wit.A.V[i+1], delta[i])
		term.Add(term, new(big.Int).Mul(bStar.V[i], d[i+1]))
		bigDelta[i] = new(big.Int).Mod(new(big.Int).Sub(delta[i+1], term), mod)
	}

	s0, err := s.Rand.GenRandomInteger(mod)
	if err != nil {
		return Argument{}, err
	}
	sx, err := s.Rand.GenRandomInteger(mod)
	if err != nil {
		return Argument{}, err
	}

	cD, err := s.CK.Commit(gvec.ScalarVector{Mod: mod, V: d}, rd)
	if err != nil {
		return Argument{}, err
	}
	cDelta, err := s.CK.Commit(gvec.ScalarVector{Mod: mod, V: u}, s0)
	if err != nil {
		return Argument{}, err
	}
	cBigDelta, err := s.CK.Commit(gvec.ScalarVector{Mod: mod, V: bigDelta}, sx)
	if err != nil {
		return Argument{}, err
	}

	x, err := s.Oracle.Challenge(mod, transcript.Element(stmt.CA), transcript.Int(stmt.B),
		transcript.Element(cD), transcript.Element(cDelta), transcript.Element(cBigDelta))
	if err != nil {
		return Argument{}, err
	}

	aTilde := make([]*big.Int, n)
	bTilde := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		aTilde[i] = new(big.Int).Mod(new(big.Int).Add(new(big.Int).Mul(x, wit.A.V[i]), d[i]), mod)
		bTilde[i] = new(big.Int).Mod(new(big.Int).Add(new(big.Int).Mul(x, bStar.V[i]), delta[i]), mod)
	}
	rTilde := new(big.Int).Mod(new(big.Int).Add(new(big.Int).Mul(x, wit.R), rd), mod)
	sTilde := new(big.Int).Mod(new(big.Int).Add(new(big.Int).Mul(x, sx), s0), mod)

	return Argument{
		CD: cD, CDelta: cDelta, CBigDelta: cBigDelta,
		ATilde: gvec.ScalarVector{Mod: mod, V: aTilde},
		BTilde: gvec.ScalarVector{Mod: mod, V: bTilde},
		RTilde: rTilde, STilde: sTilde,
	}, nil
}

// Verify checks arg against stmt, returning false (never an error) for
// any unconvincing but well-shaped proof.
func (s Service) Verify(stmt Statement, arg Argument) (bool, error) {
	n := arg.ATilde.Len()
	if n < 2 || arg.BTilde.Len() != n {
		return false, nil
	}
	if arg.CD == nil || arg.CDelta == nil || arg.CBigDelta == nil {
		return false, nil
	}
	mod := s.CK.G.N()

	x, err := s.Oracle.Challenge(mod, transcript.Element(stmt.CA), transcript.Int(stmt.B),
		transcript.Element(arg.CD), transcript.Element(arg.CDelta), transcript.Element(arg.CBigDelta))
	if err != nil {
		return false, err
	}

	lhs1, err := s.CK.Commit(arg.ATilde, arg.RTilde)
	if err != nil {
		return false, err
	}
	rhs1 := s.CK.G.Element().Add(s.CK.G.Element().Scale(stmt.CA, x), arg.CD)
	if !lhs1.IsEqual(rhs1) {
		return false, nil
	}

	if arg.BTilde.V[0].Cmp(arg.ATilde.V[0]) != 0 {
		return false, nil
	}

	wantLast := new(big.Int).Mod(new(big.Int).Mul(x, stmt.B), mod)
	if arg.BTilde.V[n-1].Cmp(wantLast) != 0 {
		return false, nil
	}

	w := make([]*big.Int, n-1)
	for i := 0; i < n-1; i++ {
		term := new(big.Int).Mul(arg.ATilde.V[i+1], arg.BTilde.V[i])
		val := new(big.Int).Mul(x, arg.BTilde.V[i+1])
		w[i] = new(big.Int).Mod(new(big.Int).Sub(val, term), mod)
	}
	lhs2, err := s.CK.Commit(gvec.ScalarVector{Mod: mod, V: w}, arg.STilde)
	if err != nil {
		return false, err
	}
	rhs2 := s.CK.G.Element().Add(s.CK.G.Element().Scale(arg.CBigDelta, x), arg.CDelta)
	if !lhs2.IsEqual(rhs2) {
		return false, nil
	}

	return true, nil
}
