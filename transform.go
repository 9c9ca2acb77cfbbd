package gocollide

// Forward computes the continuous Fourier transform
//
//     out(eta) = (2 pi)^-3/2 integral in(v) exp(-i v.eta) dv
//
// of a field sampled on the velocity grid, evaluated on the Fourier grid
// with the grid's quadrature rule. in and out may be the same slice.
func (eng *Engine) Forward(in, out []complex128) {
	eng.checkOpen()
	g := eng.grid

	prefactor := eng.scale3 * g.Dv * g.Dv * g.Dv
	eng.phaseShift(in, eng.temp, eng.fwdPre, prefactor)
	eng.ft.Forward(eng.temp)
	eng.phaseShift(eng.temp, out, eng.fwdPost, 1)
}

// Inverse computes the continuous inverse Fourier transform
//
//     out(v) = (2 pi)^-3/2 integral in(eta) exp(+i v.eta) deta
//
// of a field sampled on the Fourier grid. With Rectangle quadrature on a
// uniform grid, Inverse exactly undoes Forward. in and out may be the same
// slice.
func (eng *Engine) Inverse(in, out []complex128) {
	eng.checkOpen()
	g := eng.grid

	prefactor := eng.scale3 * g.Deta * g.Deta * g.Deta
	eng.phaseShift(in, eng.temp, eng.invPre, prefactor)
	eng.ft.Inverse(eng.temp)
	eng.phaseShift(eng.temp, out, eng.invPost, 1)
}

// phaseShift sets out[idx] = scale * phase[i] phase[j] phase[k] * in[idx].
func (eng *Engine) phaseShift(in, out, phase []complex128, scale float64) {
	n := eng.grid.N
	s := complex(scale, 0)

	idx := 0
	for i := 0; i < n; i++ {
		pi := s * phase[i]
		for j := 0; j < n; j++ {
			pij := pi * phase[j]
			for k := 0; k < n; k++ {
				out[idx] = pij * phase[k] * in[idx]
				idx++
			}
		}
	}
}
