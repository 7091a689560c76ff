package gvec

import (
	"fmt"
	"math/big"

	"github.com/shufflemix/mixnet/group"
	"github.com/shufflemix/mixnet/mixerr"
)

// ElementVector is a fixed-length sequence of elements of a single group.
type ElementVector struct {
	G group.Group
	V []group.Element
}

// NewElementVector validates that every element belongs to g before
// wrapping them in a vector.
func NewElementVector(g group.Group, v []group.Element) (ElementVector, error) {
	for i, e := range v {
		if e == nil {
			return ElementVector{}, fmt.Errorf("element %d is nil: %w", i, mixerr.ErrNullInput)
		}
		if e.FieldOrder().Cmp(g.P()) != 0 || e.GroupOrder().Cmp(g.N()) != 0 {
			return ElementVector{}, fmt.Errorf("element %d belongs to a different group: %w", i, mixerr.ErrGroupMismatch)
		}
	}
	return ElementVector{G: g, V: v}, nil
}

func (ev ElementVector) Len() int { return len(ev.V) }

// Mul returns the componentwise product ev * o in the group.
func (ev ElementVector) Mul(o ElementVector) (ElementVector, error) {
	if ev.G.Name() != o.G.Name() || len(ev.V) != len(o.V) {
		return ElementVector{}, fmt.Errorf("mismatched element vectors: %w", mixerr.ErrShapeMismatch)
	}
	out := make([]group.Element, len(ev.V))
	for i := range ev.V {
		out[i] = ev.G.Element().Add(ev.V[i], o.V[i])
	}
	return ElementVector{G: ev.G, V: out}, nil
}

// ExpPowers returns (ev_0^{s^1}, ev_1^{s^2}, ...) i.e. each entry raised to
// an increasing power of s — the shape needed for ∏ c_d_k^{x^k} style
// verification checks.
func (ev ElementVector) ExpPowers(s, mod *big.Int) ElementVector {
	out := make([]group.Element, len(ev.V))
	p := new(big.Int).Set(s)
	for i := range ev.V {
		out[i] = ev.G.Element().Scale(ev.V[i], p)
		p = new(big.Int).Mod(new(big.Int).Mul(p, s), mod)
	}
	return ElementVector{G: ev.G, V: out}
}

// ProductWithExponents returns the product of every entry, each raised to the
// corresponding exponent in exps (exps must be the same length).
func (ev ElementVector) ProductWithExponents(exps []*big.Int) (group.Element, error) {
	if len(exps) != len(ev.V) {
		return nil, fmt.Errorf("exponent count %d != element count %d: %w", len(exps), len(ev.V), mixerr.ErrShapeMismatch)
	}
	acc := ev.G.Identity()
	for i := range ev.V {
		acc = ev.G.Element().Add(acc, ev.G.Element().Scale(ev.V[i], exps[i]))
	}
	return acc, nil
}

// ElementMatrix is an n×m matrix of group elements, stored column-major.
type ElementMatrix struct {
	G    group.Group
	Rows int
	Cols int
	Col  []ElementVector
}
