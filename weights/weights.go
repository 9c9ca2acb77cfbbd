/*package weights holds the precomputed convolution weight tensor used by the
spectral collision operator.

Row idx of a Tensor is the length-N^3 vector of quadrature weights used when
accumulating the collision contribution at Fourier node idx. How the
weights are generated depends on the collision kernel and is not this
package's business: they are either read from a table or built by the
caller. A Tensor is never modified after construction, so one Tensor can be
shared by any number of engines.
*/
package weights

import (
	"errors"
	"fmt"
	"math"

	"github.com/phil-mansfield/table"

	"github.com/phil-mansfield/gocollide/geom"
)

// ErrShape is returned when a tensor does not have N^3 rows of N^3 weights.
var ErrShape = errors.New("weights: invalid tensor shape")

// Tensor is an N^3 x N^3 table of convolution weights.
type Tensor struct {
	n, cells int
	rows     [][]float64
}

// New wraps rows in a Tensor for grids with n nodes per axis. The rows are
// not copied, and rows may share backing arrays.
func New(n int, rows [][]float64) (*Tensor, error) {
	cells := n * n * n
	if n < 1 {
		return nil, fmt.Errorf("%w: %d nodes per axis", ErrShape, n)
	} else if len(rows) != cells {
		return nil, fmt.Errorf("%w: %d rows for %d^3 grid", ErrShape, len(rows), n)
	}
	for i := range rows {
		if len(rows[i]) != cells {
			return nil, fmt.Errorf(
				"%w: row %d has %d weights for %d^3 grid",
				ErrShape, i, len(rows[i]), n,
			)
		}
	}
	return &Tensor{n, cells, rows}, nil
}

// Uniform returns a tensor where every weight is val. Every row shares the
// same storage.
func Uniform(n int, val float64) *Tensor {
	cells := n * n * n
	row := make([]float64, cells)
	for i := range row {
		row[i] = val
	}
	rows := make([][]float64, cells)
	for i := range rows {
		rows[i] = row
	}
	return &Tensor{n, cells, rows}
}

// Nodes returns the number of grid nodes per axis.
func (t *Tensor) Nodes() int { return t.n }

// Cells returns the number of rows (and weights per row).
func (t *Tensor) Cells() int { return t.cells }

// Row returns the weights used for Fourier node idx. It must not be
// modified.
func (t *Tensor) Row(idx int) []float64 { return t.rows[idx] }

// ReadTable reads a sparse tensor from a text table with columns
// "row column weight", where row and column are flattened grid indices.
// Entries not listed in the file are zero and repeated entries are summed.
// Rows without any entries share a single zero row.
func ReadTable(fname string, n int) (*Tensor, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d nodes per axis", ErrShape, n)
	}

	cols, err := table.ReadTable(fname, []int{0, 1, 2}, nil)
	if err != nil {
		return nil, err
	}
	rowIdxs, colIdxs, ws := cols[0], cols[1], cols[2]

	cells := n * n * n
	zero := make([]float64, cells)
	rows := make([][]float64, cells)

	for i := range ws {
		r, c, err := tableIndices(rowIdxs[i], colIdxs[i], cells)
		if err != nil {
			return nil, fmt.Errorf("Line %d of %s: %w", i+1, fname, err)
		}
		if rows[r] == nil {
			rows[r] = make([]float64, cells)
		}
		rows[r][c] += ws[i]
	}

	for i := range rows {
		if rows[i] == nil {
			rows[i] = zero
		}
	}

	return &Tensor{n, cells, rows}, nil
}

func tableIndices(r, c float64, cells int) (int, int, error) {
	if r != math.Trunc(r) || c != math.Trunc(c) {
		return 0, 0, fmt.Errorf(
			"%w: non-integer index pair (%g, %g)", ErrShape, r, c,
		)
	}
	ri, ci := int(r), int(c)
	if ri < 0 || ri >= cells || ci < 0 || ci >= cells {
		return 0, 0, fmt.Errorf(
			"%w: index pair (%d, %d) outside [0, %d)", ErrShape, ri, ci, cells,
		)
	}
	return ri, ci, nil
}

// Partner returns the flattened index of the frequency which is paired with
// lmn when accumulating into Fourier node idx: component-wise
// (i + N/2 - l) mod N.
func Partner(g *geom.Grid, idx, lmn int) int {
	i, j, k := g.Coords(idx)
	l, m, n := g.Coords(lmn)
	n2 := g.N / 2
	return g.Idx(
		geom.Wrap(i+n2-l, g.N), geom.Wrap(j+n2-m, g.N), geom.Wrap(k+n2-n, g.N),
	)
}

// Symmetric returns true if every row satisfies w[idx][lmn] =
// w[idx][Partner(idx, lmn)] to within tol. Tensors with this property give
// collision operators which are symmetric under exchanging their two
// arguments.
func Symmetric(g *geom.Grid, t *Tensor, tol float64) bool {
	for idx := 0; idx < t.cells; idx++ {
		row := t.rows[idx]
		for lmn := range row {
			p := Partner(g, idx, lmn)
			if math.Abs(row[lmn]-row[p]) > tol {
				return false
			}
		}
	}
	return true
}
