// Package commitment implements the Pedersen vector/matrix commitment
// scheme the whole argument tower is built on: commit(a, r, ck) = h^r *
// ∏ g_i^{a_i}.
package commitment

import (
	"fmt"
	"math/big"

	"github.com/shufflemix/mixnet/group"
	"github.com/shufflemix/mixnet/gvec"
	"github.com/shufflemix/mixnet/mixerr"
)

// Key is a Pedersen commitment key ck = (h, g_0, ..., g_{ν-1}), all
// non-identity elements of G. ν = len(Bases) is the max commit length.
type Key struct {
	G group.Group
	H group.Element
	// Bases are the g_i, indexed 0..ν-1.
	Bases []group.Element
}

// NewKey validates that h and every base are non-identity elements of g,
// and that at least one base is present: |ck| >= 2, i.e. h plus at
// least one base.
func NewKey(g group.Group, h group.Element, bases []group.Element) (Key, error) {
	if h == nil {
		return Key{}, fmt.Errorf("nil commitment key base h: %w", mixerr.ErrNullInput)
	}
	if h.IsIdentity() {
		return Key{}, fmt.Errorf("commitment key base h is the identity: %w", mixerr.ErrBoundsViolation)
	}
	if len(bases) < 1 {
		return Key{}, fmt.Errorf("commitment key needs at least one base: %w", mixerr.ErrBoundsViolation)
	}
	for i, b := range bases {
		if b == nil {
			return Key{}, fmt.Errorf("nil commitment key base %d: %w", i, mixerr.ErrNullInput)
		}
		if b.IsIdentity() {
			return Key{}, fmt.Errorf("commitment key base %d is the identity: %w", i, mixerr.ErrBoundsViolation)
		}
	}
	return Key{G: g, H: h, Bases: bases}, nil
}

// Capacity returns ν, the maximum vector length this key can commit to.
func (k Key) Capacity() int { return len(k.Bases) }

// Commit computes h^r * ∏_{i<len(a)} g_i^{a_i}. len(a) must not exceed
// the key's capacity. An empty a returns h^r, the documented empty-input
// identity.
func (k Key) Commit(a gvec.ScalarVector, r *big.Int) (group.Element, error) {
	if a.Len() > k.Capacity() {
		return nil, fmt.Errorf("commit length %d exceeds key capacity %d: %w", a.Len(), k.Capacity(), mixerr.ErrBoundsViolation)
	}
	c := k.G.Element().Scale(k.H, r)
	for i, v := range a.V {
		c = k.G.Element().Add(c, k.G.Element().Scale(k.Bases[i], v))
	}
	return c, nil
}

// CommitVector commits each scalar in a individually, against the
// single base Bases[0], using the matching randomness in r.
func (k Key) CommitVector(a, r gvec.ScalarVector) (gvec.ElementVector, error) {
	if a.Len() != r.Len() {
		return gvec.ElementVector{}, fmt.Errorf("value/randomness length mismatch %d != %d: %w", a.Len(), r.Len(), mixerr.ErrShapeMismatch)
	}
	out := make([]group.Element, a.Len())
	for i := range a.V {
		single := gvec.ScalarVector{Mod: a.Mod, V: []*big.Int{a.V[i]}}
		c, err := k.Commit(single, r.V[i])
		if err != nil {
			return gvec.ElementVector{}, err
		}
		out[i] = c
	}
	return gvec.ElementVector{G: k.G, V: out}, nil
}

// CommitMatrix commits each column of A independently with the matching
// entry of r, returning one commitment per column.
func (k Key) CommitMatrix(A gvec.ScalarMatrix, r gvec.ScalarVector) (gvec.ElementVector, error) {
	if A.Cols != r.Len() {
		return gvec.ElementVector{}, fmt.Errorf("column count %d != randomness length %d: %w", A.Cols, r.Len(), mixerr.ErrShapeMismatch)
	}
	out := make([]group.Element, A.Cols)
	for j := 0; j < A.Cols; j++ {
		c, err := k.Commit(A.Col[j], r.V[j])
		if err != nil {
			return gvec.ElementVector{}, err
		}
		out[j] = c
	}
	return gvec.ElementVector{G: k.G, V: out}, nil
}
