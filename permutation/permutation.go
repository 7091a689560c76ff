// Package permutation builds the re-encryption shuffle a Bayer-Groth
// proof attests to: a uniformly random permutation plus independent
// re-randomisation of every ciphertext. The permutation generator is
// grounded on the Fisher-Yates shuffle in
// other_examples/94f72568_cjpatton-shuffle's GeneratePerm, rewritten to
// draw from the injected RandomSource collaborator instead of
// crypto/rand directly.
package permutation

import (
	"fmt"
	"math/big"

	"github.com/shufflemix/mixnet/elgamal"
	"github.com/shufflemix/mixnet/mixerr"
	"github.com/shufflemix/mixnet/randsource"
)

// Permutation is a bijection [0,N) -> [0,N), represented as the image
// array: Of[i] = π(i).
type Permutation struct {
	Of []int
}

func (p Permutation) Len() int { return len(p.Of) }

// Inverse returns π^-1.
func (p Permutation) Inverse() Permutation {
	inv := make([]int, len(p.Of))
	for i, v := range p.Of {
		inv[v] = i
	}
	return Permutation{Of: inv}
}

// GenPermutation draws a uniformly random permutation of [0,N) via
// Fisher-Yates, consuming N-1 random draws from src in decreasing bound
// order.
func GenPermutation(n int, src randsource.Source) (Permutation, error) {
	of := make([]int, n)
	for i := range of {
		of[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j, err := src.GenRandomInteger(big.NewInt(int64(i + 1)))
		if err != nil {
			return Permutation{}, fmt.Errorf("sampling permutation index: %w", err)
		}
		jIdx := int(j.Int64())
		of[i], of[jIdx] = of[jIdx], of[i]
	}
	return Permutation{Of: of}, nil
}

// Shuffle is the output of genShuffle: the re-encrypted, permuted
// ciphertext vector together with the permutation and re-encryption
// randomness used to build it.
type Shuffle struct {
	Shuffled    []elgamal.Ciphertext
	Perm        Permutation
	Randomness  []*big.Int
}

// GenShuffle computes C'_i = ReEnc(1, ρ_i, pk) · C_{π(i)} for a freshly
// sampled permutation π and randomness vector ρ.
// l = len(C[i].Phi) must not exceed len(pk.PK) for every ciphertext.
func GenShuffle(C []elgamal.Ciphertext, pk elgamal.PublicKey, mod *big.Int, permSrc, rhoSrc randsource.Source) (Shuffle, error) {
	n := len(C)
	for i, c := range C {
		if c.Len() > pk.Len() {
			return Shuffle{}, fmt.Errorf("ciphertext %d has %d components, exceeds public key length %d: %w", i, c.Len(), pk.Len(), mixerr.ErrBoundsViolation)
		}
	}

	perm, err := GenPermutation(n, permSrc)
	if err != nil {
		return Shuffle{}, err
	}

	shuffled := make([]elgamal.Ciphertext, n)
	rho := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		r, err := rhoSrc.GenRandomInteger(mod)
		if err != nil {
			return Shuffle{}, fmt.Errorf("sampling re-encryption randomness: %w", err)
		}
		rho[i] = r

		src := C[perm.Of[i]]
		mask, err := elgamal.ReEncIdentity(src.Len(), r, pk)
		if err != nil {
			return Shuffle{}, err
		}
		shuffled[i], err = mask.Mul(src)
		if err != nil {
			return Shuffle{}, err
		}
	}

	return Shuffle{Shuffled: shuffled, Perm: perm, Randomness: rho}, nil
}

// VerifyWitness recomputes the shuffle from C, π, ρ and checks it equals
// Cprime, the witness-consistency check required before a shuffle
// argument is produced.
func VerifyWitness(C, Cprime []elgamal.Ciphertext, pk elgamal.PublicKey, perm Permutation, rho []*big.Int) error {
	if len(C) != len(Cprime) || len(C) != perm.Len() || len(C) != len(rho) {
		return fmt.Errorf("shuffle witness size mismatch: %w", mixerr.ErrShapeMismatch)
	}
	for i := range C {
		src := C[perm.Of[i]]
		mask, err := elgamal.ReEncIdentity(src.Len(), rho[i], pk)
		if err != nil {
			return err
		}
		expect, err := mask.Mul(src)
		if err != nil {
			return err
		}
		if !expect.IsEqual(Cprime[i]) {
			return fmt.Errorf("shuffled ciphertext %d inconsistent with permutation/randomness: %w", i, mixerr.ErrWitnessInconsistent)
		}
	}
	return nil
}
