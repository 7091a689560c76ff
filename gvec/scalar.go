// Package gvec provides size-typed, homogeneous containers over Z_q
// scalars and G_q group elements (GroupVector/GroupMatrix in spec terms),
// plus the vector arithmetic the sub-argument services build on.
package gvec

import (
	"fmt"
	"math/big"

	"github.com/ing-bank/zkrp/util/bn"
	"github.com/shufflemix/mixnet/mixerr"
)

// ScalarVector is a fixed-length sequence of Z_q elements, all reduced
// modulo the same Mod.
type ScalarVector struct {
	Mod *big.Int
	V   []*big.Int
}

// NewScalarVector reduces every entry of v modulo mod and returns the
// resulting vector.
func NewScalarVector(mod *big.Int, v []*big.Int) ScalarVector {
	out := make([]*big.Int, len(v))
	for i, x := range v {
		out[i] = new(big.Int).Mod(x, mod)
	}
	return ScalarVector{Mod: mod, V: out}
}

// ZeroScalarVector returns the length-n all-zero vector.
func ZeroScalarVector(mod *big.Int, n int) ScalarVector {
	v := make([]*big.Int, n)
	for i := range v {
		v[i] = big.NewInt(0)
	}
	return ScalarVector{Mod: mod, V: v}
}

func (s ScalarVector) Len() int { return len(s.V) }

func (s ScalarVector) checkCompatible(o ScalarVector) error {
	if s.Mod.Cmp(o.Mod) != 0 {
		return fmt.Errorf("scalar vectors over different moduli: %w", mixerr.ErrGroupMismatch)
	}
	if len(s.V) != len(o.V) {
		return fmt.Errorf("scalar vector length %d != %d: %w", len(s.V), len(o.V), mixerr.ErrShapeMismatch)
	}
	return nil
}

// Add returns the componentwise sum s + o mod Mod.
func (s ScalarVector) Add(o ScalarVector) (ScalarVector, error) {
	if err := s.checkCompatible(o); err != nil {
		return ScalarVector{}, err
	}
	out := make([]*big.Int, len(s.V))
	for i := range s.V {
		out[i] = bn.Mod(bn.Add(s.V[i], o.V[i]), s.Mod)
	}
	return ScalarVector{Mod: s.Mod, V: out}, nil
}

// Sub returns the componentwise difference s - o mod Mod.
func (s ScalarVector) Sub(o ScalarVector) (ScalarVector, error) {
	if err := s.checkCompatible(o); err != nil {
		return ScalarVector{}, err
	}
	out := make([]*big.Int, len(s.V))
	for i := range s.V {
		out[i] = bn.Mod(bn.Sub(s.V[i], o.V[i]), s.Mod)
	}
	return ScalarVector{Mod: s.Mod, V: out}, nil
}

// Hadamard returns the componentwise product s ⊙ o mod Mod.
func (s ScalarVector) Hadamard(o ScalarVector) (ScalarVector, error) {
	if err := s.checkCompatible(o); err != nil {
		return ScalarVector{}, err
	}
	out := make([]*big.Int, len(s.V))
	for i := range s.V {
		out[i] = bn.Mod(bn.Multiply(s.V[i], o.V[i]), s.Mod)
	}
	return ScalarVector{Mod: s.Mod, V: out}, nil
}

// Scale returns c*s mod Mod.
func (s ScalarVector) Scale(c *big.Int) ScalarVector {
	out := make([]*big.Int, len(s.V))
	for i := range s.V {
		out[i] = bn.Mod(bn.Multiply(s.V[i], c), s.Mod)
	}
	return ScalarVector{Mod: s.Mod, V: out}
}

// AddConst adds the scalar c to every entry, mod Mod.
func (s ScalarVector) AddConst(c *big.Int) ScalarVector {
	out := make([]*big.Int, len(s.V))
	for i := range s.V {
		out[i] = bn.Mod(bn.Add(s.V[i], c), s.Mod)
	}
	return ScalarVector{Mod: s.Mod, V: out}
}

// Neg returns -s mod Mod.
func (s ScalarVector) Neg() ScalarVector {
	zero := ZeroScalarVector(s.Mod, len(s.V))
	out, _ := zero.Sub(s)
	return out
}

// InnerProduct returns ∑ s_i * o_i mod Mod. Empty vectors return 0, per
// the empty-input identity invariant.
func (s ScalarVector) InnerProduct(o ScalarVector) (*big.Int, error) {
	if err := s.checkCompatible(o); err != nil {
		return nil, err
	}
	result := big.NewInt(0)
	for i := range s.V {
		tmp := bn.Multiply(s.V[i], o.V[i])
		result = bn.Add(result, bn.Mod(tmp, s.Mod))
	}
	return bn.Mod(result, s.Mod), nil
}

// StarMap computes the bilinear form ⟨u,v⟩_y = ∑ u_i*v_i*y^(i+1) mod Mod.
// Empty vectors return 0.
func StarMap(u, v ScalarVector, y *big.Int) (*big.Int, error) {
	if err := u.checkCompatible(v); err != nil {
		return nil, err
	}
	result := big.NewInt(0)
	yPow := new(big.Int).Mod(y, u.Mod)
	for i := range u.V {
		term := bn.Multiply(u.V[i], v.V[i])
		term = bn.Multiply(term, yPow)
		result = bn.Add(result, bn.Mod(term, u.Mod))
		yPow = bn.Mod(bn.Multiply(yPow, y), u.Mod)
	}
	return bn.Mod(result, u.Mod), nil
}

// Powers returns (x^1, x^2, ..., x^n) mod mod. n = 0 returns an empty
// vector.
func Powers(x, mod *big.Int, n int) ScalarVector {
	out := make([]*big.Int, n)
	p := new(big.Int).Mod(x, mod)
	for i := 0; i < n; i++ {
		out[i] = new(big.Int).Set(p)
		p = bn.Mod(bn.Multiply(p, x), mod)
	}
	return ScalarVector{Mod: mod, V: out}
}
