// Package product implements the Product Argument: a proof that the
// Hadamard product across the columns of a committed matrix A equals a
// claimed scalar b. For m=1 it wraps a single-value product argument
// directly; for m>1 it commits the Hadamard product vector and runs a
// Hadamard argument plus a single-value-product argument over it.
package product

import (
	"fmt"
	"math/big"

	"github.com/shufflemix/mixnet/commitment"
	"github.com/shufflemix/mixnet/group"
	"github.com/shufflemix/mixnet/gvec"
	"github.com/shufflemix/mixnet/hadamard"
	"github.com/shufflemix/mixnet/mixerr"
	"github.com/shufflemix/mixnet/randsource"
	"github.com/shufflemix/mixnet/svp"
	"github.com/shufflemix/mixnet/transcript"
)

// Statement is (c_A, b): an m-column committed matrix and the claimed
// product of all of its entries.
type Statement struct {
	CA gvec.ElementVector
	B  *big.Int
}

// Witness is (A, r): the n×m matrix and the randomness used for each
// column commitment.
type Witness struct {
	A gvec.ScalarMatrix
	R gvec.ScalarVector
}

// Argument is a tagged variant: the m=1 case ("Short") carries only a
// single-value-product argument over c_A[0]; the m>1 case ("Long")
// carries the intermediate commitment c_b plus a Hadamard argument and a
// single-value-product argument over it.
type Argument struct {
	Short bool // true: only SVP is populated. false: Cb, Had, SVP are all populated.

	SVP svp.Argument

	Cb  group.Element
	Had hadamard.Argument
}

// Service binds a commitment key and the Hadamard/SVP collaborators this
// argument composes.
type Service struct {
	CK   commitment.Key
	Had  hadamard.Service
	Svp  svp.Service
	Rand randsource.Source
}

func NewService(ck commitment.Key, oracle transcript.Oracle, rand randsource.Source) Service {
	return Service{
		CK:   ck,
		Had:  hadamard.NewService(ck, oracle, rand),
		Svp:  svp.Service{CK: ck, Oracle: oracle, Rand: rand},
		Rand: rand,
	}
}

// Prove constructs a Product Argument for stmt/wit.
func (s Service) Prove(stmt Statement, wit Witness) (Argument, error) {
	m := wit.A.Cols
	if m == 0 {
		return Argument{}, fmt.Errorf("product argument requires m >= 1: %w", mixerr.ErrBoundsViolation)
	}
	if wit.R.Len() != m || stmt.CA.Len() != m {
		return Argument{}, fmt.Errorf("product argument shape mismatch: %w", mixerr.ErrShapeMismatch)
	}

	if m == 1 {
		svpStmt := svp.Statement{CA: stmt.CA.V[0], B: stmt.B}
		svpWit := svp.Witness{A: wit.A.Col[0], R: wit.R.V[0]}
		arg, err := s.Svp.Prove(svpStmt, svpWit)
		if err != nil {
			return Argument{}, err
		}
		return Argument{Short: true, SVP: arg}, nil
	}

	mod := s.CK.G.N()
	b, err := wit.A.HadamardColumns(m - 1)
	if err != nil {
		return Argument{}, err
	}
	sb, err := s.Rand.GenRandomInteger(mod)
	if err != nil {
		return Argument{}, err
	}
	cb, err := s.CK.Commit(b, sb)
	if err != nil {
		return Argument{}, err
	}

	hadStmt := hadamard.Statement{CA: stmt.CA, Cb: cb}
	hadWit := hadamard.Witness{A: wit.A, R: wit.R, S: sb}
	hadArg, err := s.Had.Prove(hadStmt, hadWit)
	if err != nil {
		return Argument{}, err
	}

	finalProduct := new(big.Int).Mod(big.NewInt(1), mod)
	for _, v := range b.V {
		finalProduct.Mul(finalProduct, v)
		finalProduct.Mod(finalProduct, mod)
	}

	svpStmt := svp.Statement{CA: cb, B: stmt.B}
	svpWit := svp.Witness{A: b, R: sb}
	svpArg, err := s.Svp.Prove(svpStmt, svpWit)
	if err != nil {
		return Argument{}, err
	}

	return Argument{Short: false, Cb: cb, Had: hadArg, SVP: svpArg}, nil
}

// Verify checks arg against stmt.
func (s Service) Verify(stmt Statement, arg Argument) (bool, error) {
	m := stmt.CA.Len()
	if m == 0 {
		return false, fmt.Errorf("product argument requires m >= 1: %w", mixerr.ErrBoundsViolation)
	}

	if m == 1 {
		if !arg.Short {
			return false, nil // mixed Short/Long branches are rejected.
		}
		return s.Svp.Verify(svp.Statement{CA: stmt.CA.V[0], B: stmt.B}, arg.SVP)
	}

	if arg.Short || arg.Cb == nil {
		return false, nil
	}
	hadOK, err := s.Had.Verify(hadamard.Statement{CA: stmt.CA, Cb: arg.Cb}, arg.Had)
	if err != nil {
		return false, err
	}
	if !hadOK {
		return false, nil
	}
	return s.Svp.Verify(svp.Statement{CA: arg.Cb, B: stmt.B}, arg.SVP)
}
