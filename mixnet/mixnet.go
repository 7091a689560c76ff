// Package mixnet is the public facade over the shuffle-argument tower:
// it wires a permutation-and-re-encryption shuffle together with the
// proof that attests to it.
package mixnet

import (
	"fmt"
	"math/big"

	"github.com/shufflemix/mixnet/commitment"
	"github.com/shufflemix/mixnet/elgamal"
	"github.com/shufflemix/mixnet/mixerr"
	"github.com/shufflemix/mixnet/permutation"
	"github.com/shufflemix/mixnet/randsource"
	"github.com/shufflemix/mixnet/shuffleargument"
	"github.com/shufflemix/mixnet/transcript"
)

// VerifiableShuffle bundles a shuffled ciphertext vector with the proof
// that it is a valid re-encryption shuffle of the input.
type VerifiableShuffle struct {
	ShuffledCiphertexts []elgamal.Ciphertext
	ShuffleArgument     shuffleargument.Argument
}

// VerificationResult aggregates the three sub-checks a shuffle
// verification runs into a typed value rather than a bare (bool, string)
// pair: category 6 (ProofInvalid) failures are reported here rather than
// as an error, matching mixerr's own doc comment that reserves this type
// for the root package.
type VerificationResult struct {
	StructuralOK bool
	ProductOK    bool
	MultiExpOK   bool
	Message      string
}

// IsVerified reports whether every sub-check passed.
func (r VerificationResult) IsVerified() bool {
	return r.StructuralOK && r.ProductOK && r.MultiExpOK
}

func verifiedResult() VerificationResult {
	return VerificationResult{StructuralOK: true, ProductOK: true, MultiExpOK: true}
}

// resultFromReason classifies shuffleargument.Verify's reason string
// into the three-way StructuralOK/ProductOK/MultiExpOK aggregate. An
// empty reason means every check passed.
func resultFromReason(reason string) VerificationResult {
	switch reason {
	case "":
		return verifiedResult()
	case "product sub-argument rejected":
		return VerificationResult{StructuralOK: true, ProductOK: false, MultiExpOK: true,
			Message: "Failed to verify Product Argument."}
	case "multi-exponentiation sub-argument rejected":
		return VerificationResult{StructuralOK: true, ProductOK: true, MultiExpOK: false,
			Message: "Failed to verify Multi-Exponentiation Argument."}
	default:
		return VerificationResult{Message: reason}
	}
}

// Mixnet is a configured shuffle-and-prove facade: a fixed n×m reshaping
// of the N = n*m ciphertext vectors it accepts, a commitment-key pair
// (the n-capacity key for the permutation matrices, the N-capacity key
// for the multi-exponentiation sub-claim), and the random/hash
// collaborators the tower needs throughout.
type Mixnet struct {
	Rows, Cols int
	Shuffle    shuffleargument.Service
	Rand       randsource.Source
}

// NewMixnet validates the commitment keys against the requested shape
// and wires a shuffleargument.Service for it.
func NewMixnet(ck, ck2 commitment.Key, oracle transcript.Oracle, rand randsource.Source, rows, cols int) (Mixnet, error) {
	if rows < 2 || cols < 1 {
		return Mixnet{}, fmt.Errorf("mixnet requires rows >= 2, cols >= 1: %w", mixerr.ErrBoundsViolation)
	}
	if rows > ck.Capacity() {
		return Mixnet{}, fmt.Errorf("rows %d exceeds commitment key capacity %d: %w", rows, ck.Capacity(), mixerr.ErrBoundsViolation)
	}
	if rows*cols > ck2.Capacity() {
		return Mixnet{}, fmt.Errorf("n*m %d exceeds second commitment key capacity %d: %w", rows*cols, ck2.Capacity(), mixerr.ErrBoundsViolation)
	}
	return Mixnet{
		Rows:    rows,
		Cols:    cols,
		Shuffle: shuffleargument.NewService(ck, ck2, oracle, rand),
		Rand:    rand,
	}, nil
}

// validateN checks the bounds on the ciphertext count: at least 2, at
// most q-3, and exactly rows*cols.
func (m Mixnet) validateN(n int, mod *big.Int) error {
	if n != m.Rows*m.Cols {
		return fmt.Errorf("ciphertext count %d != rows*cols %d: %w", n, m.Rows*m.Cols, mixerr.ErrShapeMismatch)
	}
	if n < 2 {
		return fmt.Errorf("ciphertext count %d below the minimum of 2: %w", n, mixerr.ErrBoundsViolation)
	}
	upper := new(big.Int).Sub(mod, big.NewInt(3))
	if big.NewInt(int64(n)).Cmp(upper) > 0 {
		return fmt.Errorf("ciphertext count %d exceeds q-3 = %s: %w", n, upper.String(), mixerr.ErrBoundsViolation)
	}
	return nil
}

// GenVerifiableShuffle draws a uniformly random permutation and
// re-encryption randomness, applies them to ciphertexts, and produces a
// shuffle argument attesting the result is a valid shuffle of the input
// under publicKey.
func (m Mixnet) GenVerifiableShuffle(ciphertexts []elgamal.Ciphertext, publicKey elgamal.PublicKey) (VerifiableShuffle, error) {
	if len(ciphertexts) == 0 {
		return VerifiableShuffle{}, fmt.Errorf("ciphertext vector is nil: %w", mixerr.ErrNullInput)
	}
	g := publicKey.G
	mod := g.N()
	if err := m.validateN(len(ciphertexts), mod); err != nil {
		return VerifiableShuffle{}, err
	}

	shuffle, err := permutation.GenShuffle(ciphertexts, publicKey, mod, m.Rand, m.Rand)
	if err != nil {
		return VerifiableShuffle{}, err
	}

	stmt := shuffleargument.Statement{
		C: ciphertexts, Cprime: shuffle.Shuffled, PK: publicKey,
		Rows: m.Rows, Cols: m.Cols,
	}
	wit := shuffleargument.Witness{Perm: shuffle.Perm, Rho: shuffle.Randomness}

	arg, err := m.Shuffle.Prove(stmt, wit)
	if err != nil {
		return VerifiableShuffle{}, err
	}

	return VerifiableShuffle{ShuffledCiphertexts: shuffle.Shuffled, ShuffleArgument: arg}, nil
}

// VerifyShuffle checks that shuffled is a valid re-encryption shuffle of
// ciphertexts under publicKey, attested to by argument. Category 6
// (ProofInvalid) failures are reported in the returned result rather
// than as an error; only structural/bounds problems in the inputs
// themselves produce a non-nil error.
func (m Mixnet) VerifyShuffle(ciphertexts, shuffled []elgamal.Ciphertext, argument shuffleargument.Argument, publicKey elgamal.PublicKey) (VerificationResult, error) {
	if len(ciphertexts) == 0 || len(shuffled) == 0 {
		return VerificationResult{}, fmt.Errorf("ciphertext vector is nil: %w", mixerr.ErrNullInput)
	}
	mod := publicKey.G.N()
	if err := m.validateN(len(ciphertexts), mod); err != nil {
		return VerificationResult{}, err
	}
	if len(shuffled) != len(ciphertexts) {
		return VerificationResult{}, fmt.Errorf("shuffled vector length %d != input length %d: %w", len(shuffled), len(ciphertexts), mixerr.ErrShapeMismatch)
	}

	stmt := shuffleargument.Statement{
		C: ciphertexts, Cprime: shuffled, PK: publicKey,
		Rows: m.Rows, Cols: m.Cols,
	}
	ok, reason, err := m.Shuffle.Verify(stmt, argument)
	if err != nil {
		return VerificationResult{}, err
	}
	if !ok && reason == "" {
		reason = "shuffle argument rejected"
	}
	if ok {
		return verifiedResult(), nil
	}
	return resultFromReason(reason), nil
}
