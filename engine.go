/*package gocollide evaluates the spectral Boltzmann collision operator on
uniform three-dimensional velocity grids.

An Engine owns every buffer the computation needs. Create one with
NewEngine, call ComputeQ or ComputeQMaxPreserve as many times as you like,
and release it with Close. An Engine is not safe for concurrent use; run
independent evaluations on independent Engines. The convolution step is
spread over Workers() goroutines internally.
*/
package gocollide

import (
	"fmt"
	"log"
	"math"
	"math/cmplx"
	"runtime"
	"unsafe"

	"github.com/phil-mansfield/gocollide/fft3"
	"github.com/phil-mansfield/gocollide/geom"
	"github.com/phil-mansfield/gocollide/maxwell"
)

// Engine computes collision operators for a single grid.
type Engine struct {
	grid   *geom.Grid
	ft     fft3.Transform
	scale3 float64

	// Per-axis phase and weight factors. The 3D factor at (i, j, k) is the
	// product of the three axis factors.
	fwdPre, fwdPost []complex128
	invPre, invPost []complex128

	// Transform scratch and frequency-domain buffers.
	temp, fIn, fOut, gIn, gOut, qHat []complex128
	// Maxwellian and perturbation buffers.
	mI, mJ, gI, gJ []float64

	moments maxwell.Routines

	workers int
	closed  bool

	log bool
	ms  runtime.MemStats
}

// NewEngine allocates an Engine for the given grid, using ft as the raw
// transform. ft must be sized for g.
func NewEngine(g *geom.Grid, ft fft3.Transform) (*Engine, error) {
	if ft.Len() != g.N {
		return nil, fmt.Errorf(
			"%w: backend has length %d, grid has %d nodes",
			ErrBackend, ft.Len(), g.N,
		)
	}

	eng := &Engine{
		grid:    g,
		ft:      ft,
		scale3:  math.Pow(1/math.Sqrt(2*math.Pi), 3),
		moments: &maxwell.Quadrature{Grid: g},
		workers: runtime.NumCPU(),
	}

	if err := eng.alloc(); err != nil {
		return nil, err
	}
	eng.initPhases()

	return eng, nil
}

// BufferBytes returns the number of bytes of scratch space an Engine needs
// for a grid with n nodes per axis.
func BufferBytes(n int) float64 {
	cells := float64(n) * float64(n) * float64(n)
	return cells * (6*float64(unsafe.Sizeof(complex128(0))) +
		4*float64(unsafe.Sizeof(float64(0))))
}

func (eng *Engine) alloc() (err error) {
	n := eng.grid.N
	bytes := BufferBytes(n)
	if bytes > float64(math.MaxInt) {
		return fmt.Errorf("%w: %d^3 grid needs %g bytes", ErrResources, n, bytes)
	}

	// make panics on lengths it can never satisfy. That is all this
	// catches: running out of memory partway through is a fatal runtime
	// error.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrResources, r)
		}
	}()

	cells := eng.grid.Cells()
	eng.temp = make([]complex128, cells)
	eng.fIn = make([]complex128, cells)
	eng.fOut = make([]complex128, cells)
	eng.gIn = make([]complex128, cells)
	eng.gOut = make([]complex128, cells)
	eng.qHat = make([]complex128, cells)

	eng.mI = make([]float64, cells)
	eng.mJ = make([]float64, cells)
	eng.gI = make([]float64, cells)
	eng.gJ = make([]float64, cells)

	return nil
}

func (eng *Engine) initPhases() {
	g := eng.grid
	eng.fwdPre = make([]complex128, g.N)
	eng.fwdPost = make([]complex128, g.N)
	eng.invPre = make([]complex128, g.N)
	eng.invPost = make([]complex128, g.N)

	for i := 0; i < g.N; i++ {
		wt := complex(g.Wt[i], 0)
		fi := float64(i)

		// Shift the velocity domain so it starts at -Lv rather than 0...
		eng.fwdPre[i] = wt * cmplx.Rect(1, fi*g.Leta*g.Dv)
		// ... and the Fourier domain so it starts at -Leta.
		eng.fwdPost[i] = cmplx.Rect(1, g.Lv*g.Eta[i])

		eng.invPre[i] = wt * cmplx.Rect(1, -fi*g.Lv*g.Deta)
		eng.invPost[i] = cmplx.Rect(1, -g.Leta*g.V[i])
	}
}

// Grid returns the grid the Engine was built for.
func (eng *Engine) Grid() *geom.Grid { return eng.grid }

// Scale3 returns (2 pi)^-3/2, the normalization of the continuous 3D
// Fourier transform.
func (eng *Engine) Scale3() float64 { return eng.scale3 }

// Workers sets the number of goroutines used by the convolution. Values
// below 1 are treated as 1.
func (eng *Engine) Workers(n int) {
	if n < 1 {
		n = 1
	}
	eng.workers = n
}

// Moments sets the routines used to compute the moments of distributions
// in ComputeQMaxPreserve.
func (eng *Engine) Moments(r maxwell.Routines) { eng.moments = r }

// Log turns logging of buffer sizes and timings on or off.
func (eng *Engine) Log(flag bool) {
	eng.log = flag
	if eng.log {
		log.Printf(
			"Engine for %d^3 grid: %.1f MB of buffers, %d workers",
			eng.grid.N, BufferBytes(eng.grid.N)/(1<<20), eng.workers,
		)
		eng.logMemory()
	}
}

func (eng *Engine) logMemory() {
	runtime.ReadMemStats(&eng.ms)
	log.Printf(
		"Alloc: %5d MB, Sys: %5d MB",
		eng.ms.Alloc>>20, eng.ms.Sys>>20,
	)
}

// Close releases the Engine's buffers. The Engine cannot be used
// afterwards.
func (eng *Engine) Close() {
	eng.checkOpen()
	eng.closed = true

	eng.temp, eng.fIn, eng.fOut, eng.gIn, eng.gOut, eng.qHat =
		nil, nil, nil, nil, nil, nil
	eng.mI, eng.mJ, eng.gI, eng.gJ = nil, nil, nil, nil
	eng.fwdPre, eng.fwdPost, eng.invPre, eng.invPost = nil, nil, nil, nil
}

func (eng *Engine) checkOpen() {
	if eng.closed {
		panic("Engine used after Close().")
	}
}
