// Package elgamal provides the ciphertext algebra (multiplication,
// exponentiation, re-encryption) that the shuffle generator and the
// multi-exponentiation argument consume as external collaborators. Key
// generation, encryption and decryption are explicit non-goals and are
// not implemented here.
package elgamal

import (
	"fmt"
	"math/big"

	"github.com/shufflemix/mixnet/group"
	"github.com/shufflemix/mixnet/mixerr"
)

// PublicKey is pk = (pk_0, ..., pk_{k-1}), a vector of non-identity G_q
// elements.
type PublicKey struct {
	G  group.Group
	PK []group.Element
}

// NewPublicKey validates that every key component is a non-identity
// element of g.
func NewPublicKey(g group.Group, pk []group.Element) (PublicKey, error) {
	for i, e := range pk {
		if e == nil {
			return PublicKey{}, fmt.Errorf("public key component %d is nil: %w", i, mixerr.ErrNullInput)
		}
		if e.IsIdentity() {
			return PublicKey{}, fmt.Errorf("public key component %d is the identity: %w", i, mixerr.ErrBoundsViolation)
		}
	}
	return PublicKey{G: g, PK: pk}, nil
}

func (pk PublicKey) Len() int { return len(pk.PK) }

// Ciphertext is (γ, φ_0, ..., φ_{l-1}) ∈ G_q^{l+1}.
type Ciphertext struct {
	G     group.Group
	Gamma group.Element
	Phi   []group.Element
}

// Len returns l, the number of message components.
func (c Ciphertext) Len() int { return len(c.Phi) }

func (c Ciphertext) checkCompatible(o Ciphertext) error {
	if c.G.Name() != o.G.Name() {
		return fmt.Errorf("ciphertexts over different groups: %w", mixerr.ErrGroupMismatch)
	}
	if len(c.Phi) != len(o.Phi) {
		return fmt.Errorf("ciphertext component count %d != %d: %w", len(c.Phi), len(o.Phi), mixerr.ErrShapeMismatch)
	}
	return nil
}

// Mul returns the componentwise product c * o.
func (c Ciphertext) Mul(o Ciphertext) (Ciphertext, error) {
	if err := c.checkCompatible(o); err != nil {
		return Ciphertext{}, err
	}
	out := Ciphertext{
		G:     c.G,
		Gamma: c.G.Element().Add(c.Gamma, o.Gamma),
		Phi:   make([]group.Element, len(c.Phi)),
	}
	for i := range c.Phi {
		out.Phi[i] = c.G.Element().Add(c.Phi[i], o.Phi[i])
	}
	return out, nil
}

// Exp returns c raised componentwise to the scalar s.
func (c Ciphertext) Exp(s *big.Int) Ciphertext {
	out := Ciphertext{
		G:     c.G,
		Gamma: c.G.Element().Scale(c.Gamma, s),
		Phi:   make([]group.Element, len(c.Phi)),
	}
	for i := range c.Phi {
		out.Phi[i] = c.G.Element().Scale(c.Phi[i], s)
	}
	return out
}

// IsEqual compares two ciphertexts componentwise.
func (c Ciphertext) IsEqual(o Ciphertext) bool {
	if err := c.checkCompatible(o); err != nil {
		return false
	}
	if !c.Gamma.IsEqual(o.Gamma) {
		return false
	}
	for i := range c.Phi {
		if !c.Phi[i].IsEqual(o.Phi[i]) {
			return false
		}
	}
	return true
}

// ReEnc computes ReEnc(m, ρ, pk) = (g^ρ, m_0 * pk_0^ρ, ..., m_{l-1} *
// pk_{l-1}^ρ), the re-encryption of plaintext vector m with randomness
// rho under pk. l = len(m) must not exceed len(pk).
func ReEnc(m []group.Element, rho *big.Int, pk PublicKey) (Ciphertext, error) {
	if len(m) > pk.Len() {
		return Ciphertext{}, fmt.Errorf("message length %d exceeds public key length %d: %w", len(m), pk.Len(), mixerr.ErrBoundsViolation)
	}
	phi := make([]group.Element, len(m))
	for i, mi := range m {
		if mi == nil {
			return Ciphertext{}, fmt.Errorf("message component %d is nil: %w", i, mixerr.ErrNullInput)
		}
		mask := pk.G.Element().Scale(pk.PK[i], rho)
		phi[i] = pk.G.Element().Add(mi, mask)
	}
	return Ciphertext{
		G:     pk.G,
		Gamma: pk.G.Element().BaseScale(rho),
		Phi:   phi,
	}, nil
}

// ReEncIdentity computes ReEnc(1, ρ, pk): an encryption of the identity
// message vector (all-ones, the multiplicative group's neutral element),
// used by the shuffle generator to re-randomise a ciphertext without
// changing its plaintext.
func ReEncIdentity(l int, rho *big.Int, pk PublicKey) (Ciphertext, error) {
	ones := make([]group.Element, l)
	for i := range ones {
		ones[i] = pk.G.Identity()
	}
	return ReEnc(ones, rho, pk)
}
