package geom

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrGridSize is returned when a Grid is constructed from arrays which are
// too short or which disagree with the node count.
var ErrGridSize = errors.New("geom: invalid grid size")

// Quadrature is the one-dimensional integration rule used when turning
// discrete sums over the grid into integrals.
type Quadrature int

const (
	// Trapezoidal weights the two endpoints by 0.5 and everything else by 1.
	Trapezoidal Quadrature = iota
	// Rectangle weights every node by 1. With this rule the forward and
	// inverse transforms are exact inverses of one another.
	Rectangle
	EndQuadrature
)

func (q Quadrature) String() string {
	switch q {
	case Trapezoidal:
		return "Trapezoidal"
	case Rectangle:
		return "Rectangle"
	}
	return fmt.Sprintf("Quadrature(%d)", int(q))
}

// QuadratureFromString returns the Quadrature with the given name and true,
// or false if no such rule exists.
func QuadratureFromString(s string) (Quadrature, bool) {
	for q := Quadrature(0); q < EndQuadrature; q++ {
		if q.String() == s {
			return q, true
		}
	}
	return 0, false
}

// Grid is a cubic velocity grid together with its conjugate Fourier grid.
// Both grids have N nodes along each axis. Scalar fields living on the grid
// are flattened in row-major order, idx = k + N*(j + N*i).
type Grid struct {
	N int
	// V and Eta are the velocity and Fourier coordinates along one axis.
	V, Eta []float64
	Dv, Deta float64
	// Half-lengths of the two domains. Leta is always -Eta[0].
	Lv, Leta float64
	// Wt holds the one-dimensional quadrature weights.
	Wt []float64
	Quad Quadrature

	Area, Volume int
}

// NewGrid returns a new Grid with n nodes per axis. v and eta must be
// ascending and uniformly spaced; this is not checked here (see Check).
func NewGrid(
	n int, lv float64, v, eta []float64, quad Quadrature,
) (*Grid, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 nodes, got %d",
			ErrGridSize, n)
	} else if len(v) != n {
		return nil, fmt.Errorf("%w: velocity grid has %d nodes, not %d",
			ErrGridSize, len(v), n)
	} else if len(eta) != n {
		return nil, fmt.Errorf("%w: Fourier grid has %d nodes, not %d",
			ErrGridSize, len(eta), n)
	}

	g := &Grid{
		N: n, V: v, Eta: eta,
		Dv: v[1] - v[0], Deta: eta[1] - eta[0],
		Lv: lv, Leta: -eta[0],
		Quad: quad,
		Area: n * n, Volume: n * n * n,
	}
	g.Wt = QuadratureWeights(n, quad)

	return g, nil
}

// UniformGrid returns the standard grid pair on [-lv, lv): the velocity
// spacing is 2*lv/n and the Fourier spacing is chosen so that
// Dv * Deta = 2 pi / n.
func UniformGrid(n int, lv float64, quad Quadrature) (*Grid, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 nodes, got %d",
			ErrGridSize, n)
	}

	dv := 2 * lv / float64(n)
	deta := 2 * math.Pi / (float64(n) * dv)
	leta := float64(n) * deta / 2

	v := make([]float64, n)
	eta := make([]float64, n)
	floats.Span(v, -lv, lv-dv)
	floats.Span(eta, -leta, leta-deta)

	return NewGrid(n, lv, v, eta, quad)
}

// QuadratureWeights returns the one-dimensional weights of the given rule.
func QuadratureWeights(n int, quad Quadrature) []float64 {
	wt := make([]float64, n)
	for i := range wt {
		wt[i] = 1
	}
	if quad == Trapezoidal && n > 1 {
		wt[0], wt[n-1] = 0.5, 0.5
	}
	return wt
}

// Check returns an error if either coordinate array is not ascending with
// a constant spacing (to within a relative tolerance tol).
func (g *Grid) Check(tol float64) error {
	if err := checkUniform("velocity", g.V, g.Dv, tol); err != nil {
		return err
	}
	return checkUniform("Fourier", g.Eta, g.Deta, tol)
}

func checkUniform(name string, xs []float64, dx, tol float64) error {
	if dx <= 0 {
		return fmt.Errorf("%w: %s grid is not ascending", ErrGridSize, name)
	}
	for i := 1; i < len(xs); i++ {
		if math.Abs((xs[i]-xs[i-1])-dx) > tol*dx {
			return fmt.Errorf(
				"%w: %s grid spacing at node %d is %g, expected %g",
				ErrGridSize, name, i, xs[i]-xs[i-1], dx,
			)
		}
	}
	return nil
}

// Cells returns the number of points in a scalar field on g.
func (g *Grid) Cells() int { return g.Volume }

// Idx returns the flattened index of the node (i, j, k).
func (g *Grid) Idx(i, j, k int) int {
	return k + g.N*(j+g.N*i)
}

// Coords returns the i, j, k coordinates of a point from its grid index.
func (g *Grid) Coords(idx int) (i, j, k int) {
	i = idx / g.Area
	j = (idx % g.Area) / g.N
	k = idx % g.N
	return i, j, k
}

// Wrap computes the positive modulo x % n. It is used for the toroidal
// index arithmetic of the convolution.
func Wrap(x, n int) int {
	m := x % n
	if m < 0 {
		m += n
	}
	return m
}
