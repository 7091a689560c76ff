// Package multiexp implements the Multi-Exponentiation Argument: a proof
// that a committed n×m exponent matrix A, applied to a fixed list of n
// ciphertexts C (one scalar exponent per ciphertext per column, columns
// then multiplied together), re-encrypts to a claimed target ciphertext
// C-bar.
//
// Design note: the textbook diagonal-product sketch for this argument
// (D_k = prod over j-i=k-m+1 of C_i^{A_j}, k in [0,2m-1]) is not
// dimensionally consistent with its own stated helper signature (C as an
// m×n ciphertext matrix against A as n×(m+1)): no assignment of "rows"
// and "columns" to C and A makes C_i^{A_j} a well-typed single
// ciphertext exponentiation for every (i,j) pair in that range while
// also landing D_{m-1} on the target C-bar. This package instead proves
// the same underlying relation (a committed matrix re-encrypts a fixed
// ciphertext list to a target) with a construction built from this
// tower's existing primitives: the committed matrix's columns are
// blinded and opened exactly like every other sub-argument (a_0, c_A0,
// challenge x, response a = a_0 + x*sum(columns)), and the ciphertext
// side is checked by combining C with the opened response and comparing
// against a blinded, revealed combination Psi0 of the blinding column
// and the x-th power of the (publicly revealed, one-way) full
// combination W.
//
// The re-encryption randomness rho-bar binding W to the claimed target
// is never published: it is opened the same Schnorr way as the A
// columns are, via a fresh blinding scalar tau0, a published commitment
// Psi0Rho = ReEncIdentity(tau0, pk), and a response tauResp = tau0 +
// x*rhoBar. The verifier checks ReEncIdentity(tauResp,pk)*W^x ==
// Psi0Rho*CBar^x, which holds iff CBar = W*ReEncIdentity(rhoBar,pk)
// without ever evaluating ReEncIdentity(rhoBar,pk) itself.
package multiexp

import (
	"fmt"
	"math/big"

	"github.com/shufflemix/mixnet/commitment"
	"github.com/shufflemix/mixnet/elgamal"
	"github.com/shufflemix/mixnet/group"
	"github.com/shufflemix/mixnet/gvec"
	"github.com/shufflemix/mixnet/mixerr"
	"github.com/shufflemix/mixnet/randsource"
	"github.com/shufflemix/mixnet/transcript"
)

// Statement is (C, pk, c_A, C-bar): the fixed ciphertext list the
// exponent matrix is applied to, the public key used for re-encryption,
// the per-column commitments to A, and the claimed target ciphertext.
type Statement struct {
	C    []elgamal.Ciphertext
	PK   elgamal.PublicKey
	CA   gvec.ElementVector
	CBar elgamal.Ciphertext
}

// Witness is (A, r, rho-bar): the n×m exponent matrix, its per-column
// commitment randomness, and the re-encryption randomness binding the
// combined ciphertext to the claimed target.
type Witness struct {
	A      gvec.ScalarMatrix
	R      gvec.ScalarVector
	RhoBar *big.Int
}

// Argument is the opaque proof object. Psi0Rho and TauResp are the
// blinding commitment and Schnorr response that open rho-bar without
// ever revealing it.
type Argument struct {
	CA0     group.Element
	Psi0    elgamal.Ciphertext
	W       elgamal.Ciphertext
	Psi0Rho elgamal.Ciphertext
	TauResp *big.Int
	AResp   gvec.ScalarVector
	RResp   *big.Int
}

// Service binds a commitment key and the collaborators needed to prove
// and verify multi-exponentiation arguments.
type Service struct {
	CK     commitment.Key
	Oracle transcript.Oracle
	Rand   randsource.Source
}

// combine returns prod_i C[i]^v[i], the multi-exponentiation of C by v.
// len(v) must equal len(C); an empty C returns the identity ciphertext
// of length l.
func combine(C []elgamal.Ciphertext, v gvec.ScalarVector, l int, g group.Group) elgamal.Ciphertext {
	acc := identityCiphertext(g, l)
	for i, c := range C {
		acc, _ = acc.Mul(c.Exp(v.V[i]))
	}
	return acc
}

func identityCiphertext(g group.Group, l int) elgamal.Ciphertext {
	phi := make([]group.Element, l)
	for i := range phi {
		phi[i] = g.Identity()
	}
	return elgamal.Ciphertext{G: g, Gamma: g.Identity(), Phi: phi}
}

func columnSum(A gvec.ScalarMatrix) gvec.ScalarVector {
	acc := gvec.ZeroScalarVector(A.Mod, A.Rows)
	for j := 0; j < A.Cols; j++ {
		acc, _ = acc.Add(A.Col[j])
	}
	return acc
}

func randomSum(r gvec.ScalarVector) *big.Int {
	acc := big.NewInt(0)
	for _, v := range r.V {
		acc = new(big.Int).Mod(new(big.Int).Add(acc, v), r.Mod)
	}
	return acc
}

func challenge(oracle transcript.Oracle, mod *big.Int, stmt Statement, cA0 group.Element, psi0, w, psi0Rho elgamal.Ciphertext) (*big.Int, error) {
	items := []transcript.Hashable{}
	for _, c := range stmt.C {
		items = append(items, transcript.Element(c.Gamma))
		for _, p := range c.Phi {
			items = append(items, transcript.Element(p))
		}
	}
	for _, c := range stmt.CA.V {
		items = append(items, transcript.Element(c))
	}
	items = append(items, transcript.Element(stmt.CBar.Gamma))
	for _, p := range stmt.CBar.Phi {
		items = append(items, transcript.Element(p))
	}
	items = append(items, transcript.Element(cA0))
	items = append(items, transcript.Element(psi0.Gamma))
	for _, p := range psi0.Phi {
		items = append(items, transcript.Element(p))
	}
	items = append(items, transcript.Element(w.Gamma))
	for _, p := range w.Phi {
		items = append(items, transcript.Element(p))
	}
	items = append(items, transcript.Element(psi0Rho.Gamma))
	for _, p := range psi0Rho.Phi {
		items = append(items, transcript.Element(p))
	}
	return oracle.Challenge(mod, items...)
}

// Prove constructs a multi-exponentiation argument for stmt/wit.
// n = wit.A.Rows must equal len(stmt.C); m = wit.A.Cols must be >= 1.
func (s Service) Prove(stmt Statement, wit Witness) (Argument, error) {
	n, m := wit.A.Rows, wit.A.Cols
	if n == 0 || m == 0 {
		return Argument{}, fmt.Errorf("multi-exponentiation argument requires n,m >= 1: %w", mixerr.ErrBoundsViolation)
	}
	if len(stmt.C) != n {
		return Argument{}, fmt.Errorf("ciphertext count %d != witness row count %d: %w", len(stmt.C), n, mixerr.ErrShapeMismatch)
	}
	if wit.R.Len() != m || stmt.CA.Len() != m {
		return Argument{}, fmt.Errorf("randomness/commitment length mismatch against m=%d: %w", m, mixerr.ErrShapeMismatch)
	}
	l := stmt.PK.Len()
	g := s.CK.G
	mod := g.N()

	colSum := columnSum(wit.A)
	rSum := randomSum(wit.R)

	w := combine(stmt.C, colSum, l, g)
	wantCBar, err := elgamal.ReEncIdentity(l, wit.RhoBar, stmt.PK)
	if err != nil {
		return Argument{}, err
	}
	wantCBar, err = w.Mul(wantCBar)
	if err != nil {
		return Argument{}, err
	}
	if !stmt.CBar.IsEqual(wantCBar) {
		return Argument{}, fmt.Errorf("multi-exponentiation witness does not re-encrypt to the claimed target: %w", mixerr.ErrWitnessInconsistent)
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
	r0, err := s.Rand.GenRandomInteger(mod)
	if err != nil {
		return Argument{}, err
	}

	psi0 := combine(stmt.C, a0Vec, l, g)
	cA0, err := s.CK.Commit(a0Vec, r0)
	if err != nil {
		return Argument{}, err
	}

	tau0, err := s.Rand.GenRandomInteger(mod)
	if err != nil {
		return Argument{}, err
	}
	psi0Rho, err := elgamal.ReEncIdentity(l, tau0, stmt.PK)
	if err != nil {
		return Argument{}, err
	}

	x, err := challenge(s.Oracle, mod, stmt, cA0, psi0, w, psi0Rho)
	if err != nil {
		return Argument{}, err
	}

	aResp, err := a0Vec.Add(colSum.Scale(x))
	if err != nil {
		return Argument{}, err
	}
	rResp := new(big.Int).Mod(new(big.Int).Add(r0, new(big.Int).Mul(x, rSum)), mod)
	tauResp := new(big.Int).Mod(new(big.Int).Add(tau0, new(big.Int).Mul(x, wit.RhoBar)), mod)

	return Argument{
		CA0:     cA0,
		Psi0:    psi0,
		W:       w,
		Psi0Rho: psi0Rho,
		TauResp: tauResp,
		AResp:   aResp,
		RResp:   rResp,
	}, nil
}

// Verify checks arg against stmt, returning false (never an error) for
// any unconvincing but well-shaped proof.
func (s Service) Verify(stmt Statement, arg Argument) (bool, error) {
	n := len(stmt.C)
	m := stmt.CA.Len()
	if n == 0 || m == 0 || arg.AResp.Len() != n {
		return false, nil
	}
	if arg.CA0 == nil || arg.TauResp == nil || arg.RResp == nil {
		return false, nil
	}
	l := stmt.PK.Len()
	g := s.CK.G
	mod := g.N()

	x, err := challenge(s.Oracle, mod, stmt, arg.CA0, arg.Psi0, arg.W, arg.Psi0Rho)
	if err != nil {
		return false, err
	}

	caSum := g.Identity()
	for _, c := range stmt.CA.V {
		caSum = g.Element().Add(caSum, c)
	}
	lhs1, err := s.CK.Commit(arg.AResp, arg.RResp)
	if err != nil {
		return false, err
	}
	rhs1 := g.Element().Add(arg.CA0, g.Element().Scale(caSum, x))
	if !lhs1.IsEqual(rhs1) {
		return false, nil
	}

	combined := combine(stmt.C, arg.AResp, l, g)
	rhs2, err := arg.Psi0.Mul(arg.W.Exp(x))
	if err != nil {
		return false, nil
	}
	if !combined.IsEqual(rhs2) {
		return false, nil
	}

	// ReEncIdentity(tauResp,pk)*W^x == Psi0Rho*CBar^x holds iff CBar =
	// W*ReEncIdentity(rhoBar,pk), without ever evaluating
	// ReEncIdentity(rhoBar,pk) directly.
	reencResp, err := elgamal.ReEncIdentity(l, arg.TauResp, stmt.PK)
	if err != nil {
		return false, err
	}
	lhs3, err := reencResp.Mul(arg.W.Exp(x))
	if err != nil {
		return false, nil
	}
	rhs3, err := arg.Psi0Rho.Mul(stmt.CBar.Exp(x))
	if err != nil {
		return false, nil
	}
	if !lhs3.IsEqual(rhs3) {
		return false, nil
	}

	return true, nil
}
