package gvec

import (
	"fmt"
	"math/big"

	"github.com/shufflemix/mixnet/mixerr"
)

// ScalarMatrix is an n×m matrix of Z_q scalars, stored column-major since
// every sub-argument in this module operates on columns.
type ScalarMatrix struct {
	Mod  *big.Int
	Rows int
	Cols int
	// Col[j] is column j, of length Rows.
	Col []ScalarVector
}

// NewScalarMatrixFromColumns builds a matrix from its columns, checking
// that all columns share Mod and length.
func NewScalarMatrixFromColumns(mod *big.Int, cols []ScalarVector) (ScalarMatrix, error) {
	if len(cols) == 0 {
		return ScalarMatrix{Mod: mod, Rows: 0, Cols: 0}, nil
	}
	rows := cols[0].Len()
	for j, c := range cols {
		if c.Mod.Cmp(mod) != 0 {
			return ScalarMatrix{}, fmt.Errorf("column %d over wrong modulus: %w", j, mixerr.ErrGroupMismatch)
		}
		if c.Len() != rows {
			return ScalarMatrix{}, fmt.Errorf("column %d has length %d, want %d: %w", j, c.Len(), rows, mixerr.ErrShapeMismatch)
		}
	}
	return ScalarMatrix{Mod: mod, Rows: rows, Cols: len(cols), Col: cols}, nil
}

// Row returns row i as a ScalarVector of length Cols.
func (m ScalarMatrix) Row(i int) ScalarVector {
	out := make([]*big.Int, m.Cols)
	for j := 0; j < m.Cols; j++ {
		out[j] = m.Col[j].V[i]
	}
	return ScalarVector{Mod: m.Mod, V: out}
}

// HadamardColumns returns the componentwise product of columns [0, j],
// i.e. ⊙_{i ≤ j} Col[i].
func (m ScalarMatrix) HadamardColumns(j int) (ScalarVector, error) {
	if j < 0 || j >= m.Cols {
		return ScalarVector{}, fmt.Errorf("column index %d out of range [0,%d): %w", j, m.Cols, mixerr.ErrBoundsViolation)
	}
	acc := m.Col[0]
	var err error
	for i := 1; i <= j; i++ {
		acc, err = acc.Hadamard(m.Col[i])
		if err != nil {
			return ScalarVector{}, err
		}
	}
	return acc, nil
}

// FullProduct returns ∏ of every entry of the matrix mod Mod.
func (m ScalarMatrix) FullProduct() *big.Int {
	result := big.NewInt(1)
	for _, col := range m.Col {
		for _, v := range col.V {
			result.Mul(result, v)
			result.Mod(result, m.Mod)
		}
	}
	return result
}
