package weights

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/gocollide/geom"
)

func TestUniform(t *testing.T) {
	w := Uniform(3, 2.5)
	assert.Equal(t, 3, w.Nodes())
	assert.Equal(t, 27, w.Cells())
	for idx := 0; idx < w.Cells(); idx++ {
		row := w.Row(idx)
		require.Len(t, row, 27)
		for _, x := range row {
			assert.Equal(t, 2.5, x)
		}
	}
}

func TestNewShapeErrors(t *testing.T) {
	_, err := New(2, make([][]float64, 7))
	assert.True(t, errors.Is(err, ErrShape))

	rows := make([][]float64, 8)
	for i := range rows {
		rows[i] = make([]float64, 8)
	}
	rows[3] = make([]float64, 9)
	_, err = New(2, rows)
	assert.True(t, errors.Is(err, ErrShape))

	rows[3] = make([]float64, 8)
	w, err := New(2, rows)
	require.NoError(t, err)
	assert.Equal(t, 8, w.Cells())
}

func writeTable(t *testing.T, lines []string) string {
	fname := filepath.Join(t.TempDir(), "weights.txt")
	err := os.WriteFile(fname, []byte(strings.Join(lines, "\n")+"\n"), 0644)
	require.NoError(t, err)
	return fname
}

func TestReadTable(t *testing.T) {
	fname := writeTable(t, []string{
		"0 0 1.5",
		"0 7 2",
		"5 3 -1",
		"5 3 0.25",
	})

	w, err := ReadTable(fname, 2)
	require.NoError(t, err)
	require.Equal(t, 8, w.Cells())

	assert.Equal(t, 1.5, w.Row(0)[0])
	assert.Equal(t, 2.0, w.Row(0)[7])
	assert.Equal(t, -0.75, w.Row(5)[3])
	assert.Equal(t, 0.0, w.Row(5)[4])
	for _, x := range w.Row(1) {
		assert.Equal(t, 0.0, x)
	}
}

func TestReadTableOutOfRange(t *testing.T) {
	fname := writeTable(t, []string{"0 0 1", fmt.Sprintf("%d 0 1", 8)})
	_, err := ReadTable(fname, 2)
	assert.True(t, errors.Is(err, ErrShape))

	fname = writeTable(t, []string{"0.5 0 1"})
	_, err = ReadTable(fname, 2)
	assert.True(t, errors.Is(err, ErrShape))
}

func TestPartnerIsInvolution(t *testing.T) {
	for _, n := range []int{2, 3, 4} {
		g, err := geom.UniformGrid(n, 1, geom.Rectangle)
		require.NoError(t, err)

		for idx := 0; idx < g.Cells(); idx++ {
			for lmn := 0; lmn < g.Cells(); lmn++ {
				p := Partner(g, idx, lmn)
				assert.Equal(t, lmn, Partner(g, idx, p))
			}
		}
	}
}

func TestSymmetric(t *testing.T) {
	g, err := geom.UniformGrid(4, 2, geom.Rectangle)
	require.NoError(t, err)
	assert.True(t, Symmetric(g, Uniform(4, 1), 0))

	rows := make([][]float64, g.Cells())
	for idx := range rows {
		rows[idx] = make([]float64, g.Cells())
		for lmn := range rows[idx] {
			rows[idx][lmn] = float64(lmn)
		}
	}
	w, err := New(4, rows)
	require.NoError(t, err)
	assert.False(t, Symmetric(g, w, 1e-12))

	for idx := range rows {
		for lmn := range rows[idx] {
			rows[idx][lmn] = float64(lmn + Partner(g, idx, lmn))
		}
	}
	assert.True(t, Symmetric(g, w, 1e-12))
}
