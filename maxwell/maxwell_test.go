package maxwell

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/gocollide/geom"
)

func TestMaxwellianPointValues(t *testing.T) {
	g, err := geom.UniformGrid(8, 4, geom.Trapezoidal)
	require.NoError(t, err)

	mo := Moments{Rho: 2, U: [3]float64{1, -1, 0}, T: 0.5}
	M := make([]float64, g.Cells())
	Maxwellian(g, mo, M)

	for idx := range M {
		i, j, k := g.Coords(idx)
		dx, dy, dz := g.V[i]-mo.U[0], g.V[j]-mo.U[1], g.V[k]-mo.U[2]
		expected := mo.Rho * math.Pow(2*math.Pi*mo.T, -1.5) *
			math.Exp(-(dx*dx+dy*dy+dz*dz)/(2*mo.T))
		assert.InEpsilon(t, expected, M[idx], 1e-12, "idx = %d", idx)
	}

	// v = (1, -1, 0) is a grid node: the peak.
	peak := M[g.Idx(5, 3, 4)]
	assert.InEpsilon(t, 2*math.Pow(math.Pi, -1.5), peak, 1e-12)
}

func TestSplit(t *testing.T) {
	g, err := geom.UniformGrid(6, 3, geom.Trapezoidal)
	require.NoError(t, err)

	src := make([]float64, g.Cells())
	for i := range src {
		src[i] = float64(i%7) * 0.01
	}
	mo := Moments{Rho: 1, T: 1}
	M := make([]float64, g.Cells())
	pert := make([]float64, g.Cells())
	Split(g, mo, src, M, pert)

	for i := range src {
		assert.Equal(t, src[i]-M[i], pert[i])
	}

	// A Maxwellian has no perturbation about itself.
	Split(g, mo, M, make([]float64, g.Cells()), pert)
	for i := range pert {
		assert.Equal(t, 0.0, pert[i])
	}
}

func TestQuadratureRecoversMoments(t *testing.T) {
	g, err := geom.UniformGrid(24, 8, geom.Trapezoidal)
	require.NoError(t, err)

	table := []Moments{
		{Rho: 1, U: [3]float64{0, 0, 0}, T: 1},
		{Rho: 3.5, U: [3]float64{0.5, -0.25, 1}, T: 0.8},
		{Rho: 0.1, U: [3]float64{-1, 0, 0}, T: 1},
	}

	q := &Quadrature{g}
	f := make([]float64, g.Cells())
	for i, mo := range table {
		Maxwellian(g, mo, f)
		res := Find(q, f)

		assert.InEpsilon(t, mo.Rho, res.Rho, 1e-8, "%d) density", i)
		for d := 0; d < 3; d++ {
			assert.InDelta(t, mo.U[d], res.U[d], 1e-8, "%d) u[%d]", i, d)
		}
		assert.InEpsilon(t, mo.T, res.T, 1e-8, "%d) temperature", i)
	}
}

type fixed Moments

func (m fixed) Density([]float64) float64 { return m.Rho }
func (m fixed) BulkVelocity([]float64, float64) [3]float64 { return m.U }
func (m fixed) Temperature([]float64, [3]float64, float64) float64 {
	return m.T
}

func TestFind(t *testing.T) {
	mo := Moments{Rho: 4, U: [3]float64{1, 2, 3}, T: 5}
	assert.Equal(t, mo, Find(fixed(mo), nil))
}
