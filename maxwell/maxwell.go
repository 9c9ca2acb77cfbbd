/*package maxwell splits velocity distributions into a local Maxwellian and
a perturbation.

The moments which parameterize the Maxwellian are computed by a Routines
value. Quadrature is the default implementation; simulations with their own
moment code (e.g. with conservation corrections) supply their own.
*/
package maxwell

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/phil-mansfield/gocollide/geom"
)

// Moments are the macroscopic quantities of a distribution.
type Moments struct {
	Rho float64
	U   [3]float64
	T   float64
}

// Routines computes the moments of a scalar field.
type Routines interface {
	Density(f []float64) float64
	BulkVelocity(f []float64, rho float64) [3]float64
	Temperature(f []float64, u [3]float64, rho float64) float64
}

// Find computes all the moments of f with r.
func Find(r Routines, f []float64) Moments {
	mo := Moments{}
	mo.Rho = r.Density(f)
	mo.U = r.BulkVelocity(f, mo.Rho)
	mo.T = r.Temperature(f, mo.U, mo.Rho)
	return mo
}

// Maxwellian writes the Maxwellian with moments mo into M:
// rho (2 pi T)^-3/2 exp(-|v - u|^2 / 2T). T <= 0 is not checked.
func Maxwellian(g *geom.Grid, mo Moments, M []float64) {
	prefactor := mo.Rho * math.Pow(0.5/(math.Pi*mo.T), 1.5)
	c := 0.5 / mo.T

	// Per-axis factors, so the exponential is only evaluated 3N times.
	ex := make([]float64, 3*g.N)
	for d := 0; d < 3; d++ {
		for i, v := range g.V {
			dv := v - mo.U[d]
			ex[d*g.N+i] = math.Exp(-c * dv * dv)
		}
	}
	ey, ez := ex[g.N:2*g.N], ex[2*g.N:]

	idx := 0
	for i := 0; i < g.N; i++ {
		for j := 0; j < g.N; j++ {
			xy := prefactor * ex[i] * ey[j]
			for k := 0; k < g.N; k++ {
				M[idx] = xy * ez[k]
				idx++
			}
		}
	}
}

// Split writes the Maxwellian of src into M and the perturbation src - M
// into pert.
func Split(g *geom.Grid, mo Moments, src, M, pert []float64) {
	Maxwellian(g, mo, M)
	floats.SubTo(pert, src, M)
}

// Quadrature computes moments by integrating over the grid with its
// quadrature weights.
type Quadrature struct {
	Grid *geom.Grid
}

var _ Routines = &Quadrature{}

// integrate returns the integral of h(i, j, k) * f over the grid.
func (q *Quadrature) integrate(f []float64, h func(i, j, k int) float64) float64 {
	g := q.Grid
	wt := g.Wt
	sum, idx := 0.0, 0
	for i := 0; i < g.N; i++ {
		for j := 0; j < g.N; j++ {
			for k := 0; k < g.N; k++ {
				sum += wt[i] * wt[j] * wt[k] * h(i, j, k) * f[idx]
				idx++
			}
		}
	}
	return sum * g.Dv * g.Dv * g.Dv
}

func (q *Quadrature) Density(f []float64) float64 {
	return q.integrate(f, func(i, j, k int) float64 { return 1 })
}

func (q *Quadrature) BulkVelocity(f []float64, rho float64) [3]float64 {
	v := q.Grid.V
	u := [3]float64{}
	u[0] = q.integrate(f, func(i, j, k int) float64 { return v[i] }) / rho
	u[1] = q.integrate(f, func(i, j, k int) float64 { return v[j] }) / rho
	u[2] = q.integrate(f, func(i, j, k int) float64 { return v[k] }) / rho
	return u
}

func (q *Quadrature) Temperature(f []float64, u [3]float64, rho float64) float64 {
	v := q.Grid.V
	e := q.integrate(f, func(i, j, k int) float64 {
		dx, dy, dz := v[i]-u[0], v[j]-u[1], v[k]-u[2]
		return dx*dx + dy*dy + dz*dz
	})
	return e / (3 * rho)
}
