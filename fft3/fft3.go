/*package fft3 provides raw, unnormalized three-dimensional complex discrete
Fourier transforms on cubic grids. All scaling and phase corrections live in
the caller; a Transform only ever computes

    X[p] = sum_q x[q] exp(-2 pi i p.q / n)   (Forward)
    x[q] = sum_p X[p] exp(+2 pi i p.q / n)   (Inverse)

over flattened row-major data, idx = k + n*(j + n*i).
*/
package fft3

import (
	"fmt"
	"strings"

	dspfft "github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Transform is an in-place 3D DFT over an n x n x n cube. Implementations
// keep internal line buffers and are not safe for concurrent use.
type Transform interface {
	// Len returns the number of nodes along each axis.
	Len() int
	Forward(data []complex128)
	Inverse(data []complex128)
}

// Backend names accepted by New.
const (
	GonumBackend = "gonum"
	DSPBackend   = "go-dsp"
)

// New returns the Transform backend with the given name.
func New(name string, n int) (Transform, error) {
	if n < 1 {
		return nil, fmt.Errorf("Transform length must be positive, got %d.", n)
	}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case GonumBackend, "":
		return NewGonum(n), nil
	case DSPBackend:
		return NewDSP(n), nil
	}
	return nil, fmt.Errorf(
		"Unrecognized FFT backend '%s'. Must be one of [%s | %s].",
		name, GonumBackend, DSPBackend,
	)
}

// Gonum computes transforms with gonum's complex FFT.
type Gonum struct {
	n    int
	fft  *fourier.CmplxFFT
	line []complex128
}

// NewGonum returns a gonum-backed Transform for n x n x n grids.
func NewGonum(n int) *Gonum {
	return &Gonum{n, fourier.NewCmplxFFT(n), make([]complex128, n)}
}

func (t *Gonum) Len() int { return t.n }

func (t *Gonum) Forward(data []complex128) {
	eachLine(data, t.n, t.line, func(line []complex128) {
		t.fft.Coefficients(line, line)
	})
}

func (t *Gonum) Inverse(data []complex128) {
	eachLine(data, t.n, t.line, func(line []complex128) {
		t.fft.Sequence(line, line)
	})
}

// DSP computes transforms with go-dsp, which allocates a new slice for
// every line.
type DSP struct {
	n    int
	line []complex128
}

// NewDSP returns a go-dsp-backed Transform for n x n x n grids.
func NewDSP(n int) *DSP {
	return &DSP{n, make([]complex128, n)}
}

func (t *DSP) Len() int { return t.n }

func (t *DSP) Forward(data []complex128) {
	eachLine(data, t.n, t.line, func(line []complex128) {
		copy(line, dspfft.FFT(line))
	})
}

func (t *DSP) Inverse(data []complex128) {
	// go-dsp normalizes its inverse by 1/n.
	scale := complex(float64(t.n), 0)
	eachLine(data, t.n, t.line, func(line []complex128) {
		out := dspfft.IFFT(line)
		for i := range line {
			line[i] = out[i] * scale
		}
	})
}

// eachLine applies a one-dimensional transform to every line of the cube
// along each of the three axes in turn. line is a length-n buffer.
func eachLine(data []complex128, n int, line []complex128, f func([]complex128)) {
	if len(data) != n*n*n {
		panic(fmt.Sprintf(
			"Data has length %d, but transform is for %d^3 grids.",
			len(data), n,
		))
	}

	n2 := n * n
	// stride 1: k, stride n: j, stride n^2: i.
	for _, stride := range [3]int{1, n, n2} {
		for start := 0; start < n*n2; start++ {
			if (start/stride)%n != 0 {
				continue
			}

			for i := range line {
				line[i] = data[start+i*stride]
			}
			f(line)
			for i := range line {
				data[start+i*stride] = line[i]
			}
		}
	}
}
