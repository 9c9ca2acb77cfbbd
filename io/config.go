package io

import (
	"fmt"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/gocollide/fft3"
	"github.com/phil-mansfield/gocollide/geom"
	"github.com/phil-mansfield/gocollide/maxwell"
)

const (
	ExampleCollideFile = `[Collide]

#######################
# Required Parameters #
#######################

# Number of grid nodes along each velocity axis. The operator costs N^6, so
# keep this modest: 16 is quick, 32 takes a while.
Nodes = 16

# The velocity grid covers [-VelocityLength, VelocityLength) along each axis.
VelocityLength = 6

# The distributions f and g are sums of the Maxwellians named here. Each name
# must have a matching [Maxwellian "name"] section below. List a variable more
# than once to add more than one Maxwellian.
F = core
F = beam
G = core

# Base name of the output files. The driver writes <Output>_f.field,
# <Output>_g.field and <Output>_Q.field.
Output = path/to/output/run

#######################
# Optional Parameters #
#######################

# Method must be one of [ Plain | MaxPreserve ]. MaxPreserve splits f and g
# into local Maxwellians and perturbations before the convolution. Default is
# Plain.
# Method = MaxPreserve

# Backend selects the FFT library and must be one of [ gonum | go-dsp ].
# Default is gonum.
# Backend = go-dsp

# Quadrature must be one of [ Trapezoidal | Rectangle ]. Default is
# Trapezoidal.
# Quadrature = Rectangle

# Collision weights are read from WeightsFile, a whitespace-separated table
# with the columns "row col weight" (row and col are flattened grid indices).
# Missing entries are zero. If no WeightsFile is given, every weight is
# UniformWeight, which defaults to 1.
# WeightsFile = path/to/weights.txt
# UniformWeight = 1

# Plots f, g and Q along the v_x axis through the center of the grid.
# Requires a working matplotlib installation.
# PlotFile = q_slice.png

# Output files which are useful for profiling and debugging. Generally, there
# isn't a reason to use these unless something goes wrong.
# ProfileFile = prof.out
# LogFile = log.out

[Maxwellian "core"]
Density = 1
Temperature = 1

[Maxwellian "beam"]
Density = 0.25
Temperature = 0.5
# Bulk velocity components default to 0.
UX = 2
# UY = 0
# UZ = 0`
)

// Method is the variant of the collision operator the driver evaluates.
type Method int64

const (
	Plain Method = iota
	MaxPreserve
	EndMethod
)

var methodNames = []string{"Plain", "MaxPreserve"}

func (m Method) String() string {
	if m < 0 || m >= EndMethod {
		return fmt.Sprintf("Method(%d)", int64(m))
	}
	return methodNames[m]
}

// MethodFromString parses a Method name case-insensitively.
func MethodFromString(s string) (Method, bool) {
	s = strings.ToLower(strings.Trim(s, " "))
	for m := Method(0); m < EndMethod; m++ {
		if strings.ToLower(m.String()) == s {
			return m, true
		}
	}
	return EndMethod, false
}

type SharedConfig struct {
	// Required
	Output string
	// Optional
	LogFile, ProfileFile string
}

func (con *SharedConfig) ValidOutput() bool {
	return con.Output != ""
}
func (con *SharedConfig) ValidLogFile() bool {
	return con.LogFile != ""
}
func (con *SharedConfig) ValidProfileFile() bool {
	return con.ProfileFile != ""
}

type CollideConfig struct {
	SharedConfig

	// Required
	Nodes          int
	VelocityLength float64
	F, G           []string

	// Optional
	Method, Backend, Quadrature string
	WeightsFile                 string
	UniformWeight               float64
	PlotFile                    string
}

func (con *CollideConfig) ValidNodes() bool {
	return con.Nodes >= 2
}
func (con *CollideConfig) ValidVelocityLength() bool {
	return con.VelocityLength > 0
}
func (con *CollideConfig) ValidF() bool {
	return len(con.F) > 0
}
func (con *CollideConfig) ValidG() bool {
	return len(con.G) > 0
}
func (con *CollideConfig) ValidMethod() bool {
	_, ok := MethodFromString(con.Method)
	return ok
}
func (con *CollideConfig) ValidBackend() bool {
	b := strings.ToLower(con.Backend)
	return b == fft3.GonumBackend || b == fft3.DSPBackend
}
func (con *CollideConfig) ValidQuadrature() bool {
	_, ok := geom.QuadratureFromString(con.Quadrature)
	return ok
}
func (con *CollideConfig) ValidWeightsFile() bool {
	return con.WeightsFile != ""
}
func (con *CollideConfig) ValidPlotFile() bool {
	return con.PlotFile != ""
}

// CheckInit returns an error describing the first invalid required or
// optional parameter.
func (con *CollideConfig) CheckInit() error {
	switch {
	case !con.ValidNodes():
		return fmt.Errorf("Nodes must be at least 2, but is %d.", con.Nodes)
	case !con.ValidVelocityLength():
		return fmt.Errorf(
			"VelocityLength must be positive, but is %g.", con.VelocityLength,
		)
	case !con.ValidF():
		return fmt.Errorf("Need to specify at least one Maxwellian for F.")
	case !con.ValidG():
		return fmt.Errorf("Need to specify at least one Maxwellian for G.")
	case !con.ValidOutput():
		return fmt.Errorf("Need to specify an Output.")
	case !con.ValidMethod():
		return fmt.Errorf(
			"Method must be one of [Plain | MaxPreserve]. '%s' is not "+
				"recognized.", con.Method,
		)
	case !con.ValidBackend():
		return fmt.Errorf(
			"Backend must be one of [%s | %s]. '%s' is not recognized.",
			fft3.GonumBackend, fft3.DSPBackend, con.Backend,
		)
	case !con.ValidQuadrature():
		return fmt.Errorf(
			"Quadrature must be one of [Trapezoidal | Rectangle]. '%s' is "+
				"not recognized.", con.Quadrature,
		)
	}
	con.Backend = strings.ToLower(con.Backend)
	return nil
}

// MethodFlag returns the parsed Method. Only call after CheckInit.
func (con *CollideConfig) MethodFlag() Method {
	m, _ := MethodFromString(con.Method)
	return m
}

// QuadratureFlag returns the parsed quadrature rule. Only call after
// CheckInit.
func (con *CollideConfig) QuadratureFlag() geom.Quadrature {
	q, _ := geom.QuadratureFromString(con.Quadrature)
	return q
}

type MaxwellianConfig struct {
	// Required
	Density, Temperature float64

	// Optional
	UX, UY, UZ float64
	Name       string
}

func (mc *MaxwellianConfig) CheckInit(name string) error {
	if mc.Density <= 0 {
		return fmt.Errorf(
			"Need to specify a positive Density for Maxwellian '%s'.", name,
		)
	} else if mc.Temperature <= 0 {
		return fmt.Errorf(
			"Need to specify a positive Temperature for Maxwellian '%s'.",
			name,
		)
	}

	mc.Name = name
	return nil
}

// Moments returns the moments of the Maxwellian.
func (mc *MaxwellianConfig) Moments() maxwell.Moments {
	return maxwell.Moments{
		Rho: mc.Density,
		U:   [3]float64{mc.UX, mc.UY, mc.UZ},
		T:   mc.Temperature,
	}
}

type CollideWrapper struct {
	Collide    CollideConfig
	Maxwellian map[string]*MaxwellianConfig
}

func DefaultCollideWrapper() *CollideWrapper {
	con := CollideConfig{}
	con.Method = Plain.String()
	con.Backend = fft3.GonumBackend
	con.Quadrature = geom.Trapezoidal.String()
	con.UniformWeight = 1
	return &CollideWrapper{Collide: con}
}

// CheckInit validates the [Collide] section and every Maxwellian it
// references.
func (w *CollideWrapper) CheckInit() error {
	if err := w.Collide.CheckInit(); err != nil {
		return err
	}

	for name, mc := range w.Maxwellian {
		if err := mc.CheckInit(name); err != nil {
			return err
		}
	}

	for _, names := range [][]string{w.Collide.F, w.Collide.G} {
		for _, name := range names {
			if _, ok := w.Maxwellian[name]; !ok {
				return fmt.Errorf(
					"No [Maxwellian \"%s\"] section has been specified.", name,
				)
			}
		}
	}

	return nil
}

// Distribution returns the moments of each Maxwellian in names. Only call
// after CheckInit.
func (w *CollideWrapper) Distribution(names []string) []maxwell.Moments {
	mos := make([]maxwell.Moments, len(names))
	for i, name := range names {
		mos[i] = w.Maxwellian[name].Moments()
	}
	return mos
}

// ReadCollideConfig reads and validates a config file.
func ReadCollideConfig(fname string) (*CollideWrapper, error) {
	w := DefaultCollideWrapper()
	if err := gcfg.ReadFileInto(w, fname); err != nil {
		return nil, err
	}
	if err := w.CheckInit(); err != nil {
		return nil, err
	}
	return w, nil
}

// ParseCollideConfig is ReadCollideConfig for config text held in memory.
func ParseCollideConfig(text string) (*CollideWrapper, error) {
	w := DefaultCollideWrapper()
	if err := gcfg.ReadStringInto(w, text); err != nil {
		return nil, err
	}
	if err := w.CheckInit(); err != nil {
		return nil, err
	}
	return w, nil
}
