package gocollide

import (
	"github.com/phil-mansfield/gocollide/maxwell"
	"github.com/phil-mansfield/gocollide/weights"
)

// ComputeQ writes the collision operator Q(f, g) into Q.
func (eng *Engine) ComputeQ(f, g []float64, w *weights.Tensor, Q []float64) {
	eng.qhat(w, f, g)
	for idx := range Q {
		Q[idx] = real(eng.fOut[idx])
	}
}

// ComputeQMaxPreserve writes the collision operator into Q after splitting
// f and g into local Maxwellians and perturbations, f = M_f + g_f:
//
//     Q = Q(M_f, g_g) + Q(g_f, M_g) + Q(g_f, g_g)
//
// This improves conservation when f and g are close to equilibrium.
//
// Q vanishes for Maxwellian inputs only when the engine's moment routines
// reproduce the Maxwellian exactly. The default quadrature moments are
// taken on the truncated grid and are slightly off, so a Maxwellian leaves
// a small residual which shrinks as the grid is refined.
//
// NOTE: the Maxwellian-Maxwellian term Q(M_f, M_g) is deliberately left
// out. It is not known whether it is meant to vanish analytically or to be
// handled by a conservation correction. Don't add it back without resolving
// that.
func (eng *Engine) ComputeQMaxPreserve(
	f, g []float64, w *weights.Tensor, Q []float64,
) {
	eng.checkOpen()
	grid := eng.grid

	maxwell.Split(grid, maxwell.Find(eng.moments, f), f, eng.mI, eng.gI)
	maxwell.Split(grid, maxwell.Find(eng.moments, g), g, eng.mJ, eng.gJ)

	eng.qhat(w, eng.mI, eng.gJ)
	for idx := range Q {
		Q[idx] = real(eng.fOut[idx])
	}

	eng.qhat(w, eng.gI, eng.mJ)
	for idx := range Q {
		Q[idx] += real(eng.fOut[idx])
	}

	eng.qhat(w, eng.gI, eng.gJ)
	for idx := range Q {
		Q[idx] += real(eng.fOut[idx])
	}
}
