package io

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/phil-mansfield/gocollide/geom"
)

var end = binary.LittleEndian

// ErrFieldFormat is returned when a field file's header cannot be
// understood.
var ErrFieldFormat = errors.New("io: malformed field file")

type FieldHeader struct {
	Type TypeInfo
	Grid GridInfo
	Run  RunInfo
}

type TypeInfo struct {
	Endianness int64
	HeaderSize int64
	FieldType  int64
}

type GridInfo struct {
	Nodes          int64
	VelocityLength float64
	Dv, Deta       float64
	Quadrature     int64
}

type RunInfo struct {
	Method  int64
	Workers int64
}

type FieldFlag int64

const (
	FirstDistribution FieldFlag = iota
	SecondDistribution
	CollisionOperator
	EndField
)

func NewGridInfo(g *geom.Grid) GridInfo {
	return GridInfo{
		Nodes:          int64(g.N),
		VelocityLength: g.Lv,
		Dv:             g.Dv,
		Deta:           g.Deta,
		Quadrature:     int64(g.Quad),
	}
}

func NewRunInfo(method Method, workers int) RunInfo {
	return RunInfo{int64(method), int64(workers)}
}

// WriteField writes a header followed by the N^3 values of xs.
func WriteField(
	flag FieldFlag, xs []float64, grid GridInfo, run RunInfo, wr io.Writer,
) error {
	n := grid.Nodes
	if int64(len(xs)) != n*n*n {
		return fmt.Errorf(
			"Field has %d values, but a %d^3 grid needs %d.",
			len(xs), n, n*n*n,
		)
	}

	var endFlag int64
	if end == binary.LittleEndian {
		endFlag = -1
	} else {
		endFlag = 0
	}

	hd := FieldHeader{}
	hd.Type.Endianness = endFlag
	hd.Type.HeaderSize = int64(binary.Size(hd))
	hd.Type.FieldType = int64(flag)
	hd.Grid = grid
	hd.Run = run

	if err := binary.Write(wr, end, &hd); err != nil {
		return err
	}
	return binary.Write(wr, end, xs)
}

// ReadField reads a file written by WriteField.
func ReadField(rd io.Reader) (*FieldHeader, []float64, error) {
	hd := &FieldHeader{}
	if err := binary.Read(rd, end, hd); err != nil {
		return nil, nil, err
	}

	switch {
	case hd.Type.Endianness != -1:
		return nil, nil, fmt.Errorf(
			"%w: endianness flag is %d", ErrFieldFormat, hd.Type.Endianness,
		)
	case hd.Type.HeaderSize != int64(binary.Size(hd)):
		return nil, nil, fmt.Errorf(
			"%w: header size is %d, expected %d",
			ErrFieldFormat, hd.Type.HeaderSize, binary.Size(hd),
		)
	case hd.Type.FieldType < 0 || hd.Type.FieldType >= int64(EndField):
		return nil, nil, fmt.Errorf(
			"%w: unknown field type %d", ErrFieldFormat, hd.Type.FieldType,
		)
	case hd.Grid.Nodes < 2 || hd.Grid.Nodes > 1<<10:
		return nil, nil, fmt.Errorf(
			"%w: grid has %d nodes", ErrFieldFormat, hd.Grid.Nodes,
		)
	}

	// Read one plane at a time so that a header which claims more nodes
	// than the file holds fails before the whole field is allocated.
	n := hd.Grid.Nodes
	plane := make([]float64, n*n)
	xs := make([]float64, 0, n*n)
	for i := int64(0); i < n; i++ {
		if err := binary.Read(rd, end, plane); err != nil {
			return nil, nil, fmt.Errorf(
				"%w: plane %d of %d: %v", ErrFieldFormat, i, n, err,
			)
		}
		xs = append(xs, plane...)
	}
	return hd, xs, nil
}
