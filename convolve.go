package gocollide

import (
	"log"
	"time"

	"github.com/phil-mansfield/gocollide/geom"
	"github.com/phil-mansfield/gocollide/weights"
)

// Qhat evaluates the weighted spectral convolution of f and g and writes
// its inverse transform into out. Q(f, g) is the real part of out.
func (eng *Engine) Qhat(w *weights.Tensor, f, g []float64, out []complex128) {
	eng.qhat(w, f, g)
	copy(out, eng.fOut)
}

// qhat leaves the result of the convolution in eng.fOut.
func (eng *Engine) qhat(w *weights.Tensor, f, g []float64) {
	eng.checkOpen()

	for idx := range eng.qHat {
		eng.qHat[idx] = 0
		eng.fIn[idx] = complex(f[idx], 0)
		eng.gIn[idx] = complex(g[idx], 0)
	}

	t0 := time.Now()
	eng.Forward(eng.fIn, eng.fOut)
	eng.Forward(eng.gIn, eng.gOut)

	t1 := time.Now()
	eng.convolve(w)

	t2 := time.Now()
	eng.Inverse(eng.qHat, eng.fOut)

	if eng.log {
		log.Printf(
			"Qhat: transforms %s, convolution %s, inverse %s",
			t1.Sub(t0), t2.Sub(t1), time.Since(t2),
		)
	}
}

// convolve fills qHat. Every output slot belongs to exactly one worker, so
// the workers never write to the same memory, and the summation order
// within a slot doesn't depend on the number of workers.
func (eng *Engine) convolve(w *weights.Tensor) {
	out := make(chan int, eng.workers)

	for id := 0; id < eng.workers-1; id++ {
		go eng.chanConvolve(id, w, out)
	}
	eng.chanConvolve(eng.workers-1, w, out)

	for i := 0; i < eng.workers; i++ {
		<-out
	}
}

func (eng *Engine) chanConvolve(id int, w *weights.Tensor, out chan<- int) {
	cells := eng.grid.Cells()
	for idx := id; idx < cells; idx += eng.workers {
		eng.qHat[idx] = eng.convolveAt(idx, w.Row(idx))
	}
	out <- id
}

// convolveAt returns
//
//     sum_{l,m,n} w[lmn] gHat[l,m,n] fHat[i+N/2-l, j+N/2-m, k+N/2-n]
//
// for idx = (i, j, k), with the fHat indices taken mod N.
func (eng *Engine) convolveAt(idx int, w []float64) complex128 {
	g := eng.grid
	N, n2 := g.N, g.N/2
	i, j, k := g.Coords(idx)
	fOut, gOut := eng.fOut, eng.gOut

	var acc complex128
	lmn := 0
	for l := 0; l < N; l++ {
		x := geom.Wrap(i+n2-l, N)
		for m := 0; m < N; m++ {
			y := geom.Wrap(j+n2-m, N)
			xy := N * (y + N*x)
			for n := 0; n < N; n++ {
				z := geom.Wrap(k+n2-n, N)

				p := gOut[lmn] * fOut[z+xy]
				acc += complex(w[lmn]*real(p), w[lmn]*imag(p))
				lmn++
			}
		}
	}
	return acc
}
