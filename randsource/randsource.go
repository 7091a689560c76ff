// Package randsource provides the RandomSource collaborator: uniform
// integer sampling in [0, bound), injected into every prover so tests can
// substitute a deterministic sequence.
package randsource

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/shufflemix/mixnet/mixerr"
)

// Source returns a uniform random integer in [0, bound).
type Source interface {
	GenRandomInteger(bound *big.Int) (*big.Int, error)
}

// CryptoSource draws from crypto/rand, used wherever a fresh uniform
// scalar is needed (re-encryption randomness, commitment and proof
// blinding values).
type CryptoSource struct{}

func (CryptoSource) GenRandomInteger(bound *big.Int) (*big.Int, error) {
	if bound == nil || bound.Sign() <= 0 {
		return nil, fmt.Errorf("random bound must be positive: %w", mixerr.ErrBoundsViolation)
	}
	return rand.Int(rand.Reader, bound)
}

// Fixed is a deterministic test fake returning values from a
// pre-programmed queue, in call order, cycling once exhausted.
type Fixed struct {
	Values []*big.Int
	calls  int
}

func (f *Fixed) GenRandomInteger(bound *big.Int) (*big.Int, error) {
	if len(f.Values) == 0 {
		return nil, fmt.Errorf("fixed source has no programmed values: %w", mixerr.ErrNullInput)
	}
	v := f.Values[f.calls%len(f.Values)]
	f.calls++
	return new(big.Int).Mod(v, bound), nil
}
