package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"sort"
	"strings"

	plt "github.com/phil-mansfield/pyplot"
	"gonum.org/v1/gonum/floats"

	"github.com/phil-mansfield/gocollide"
	"github.com/phil-mansfield/gocollide/fft3"
	"github.com/phil-mansfield/gocollide/geom"
	"github.com/phil-mansfield/gocollide/io"
	"github.com/phil-mansfield/gocollide/maxwell"
	"github.com/phil-mansfield/gocollide/weights"
)

// runFiles holds the optional log and CPU profile of a run.
type runFiles struct {
	log, prof *os.File
}

// openRunFiles creates the LogFile and ProfileFile named by con, redirects
// the logger and starts profiling. Files which were opened before a failure
// are closed again.
func openRunFiles(con *io.SharedConfig) (*runFiles, error) {
	rf := &runFiles{}
	var err error
	if con.ValidLogFile() {
		if rf.log, err = os.Create(con.LogFile); err != nil {
			return nil, fmt.Errorf("Could not create LogFile: %w", err)
		}
		log.SetOutput(rf.log)
	}

	if con.ValidProfileFile() {
		if rf.prof, err = os.Create(con.ProfileFile); err != nil {
			rf.Close()
			return nil, fmt.Errorf("Could not create ProfileFile: %w", err)
		}
		if err = pprof.StartCPUProfile(rf.prof); err != nil {
			rf.prof.Close()
			rf.prof = nil
			rf.Close()
			return nil, err
		}
	}
	return rf, nil
}

// Close stops profiling, points the logger back at stderr and closes both
// files. It returns the first error encountered.
func (rf *runFiles) Close() error {
	var first error
	if rf.prof != nil {
		pprof.StopCPUProfile()
		first = rf.prof.Close()
		rf.prof = nil
	}
	if rf.log != nil {
		log.SetOutput(os.Stderr)
		if err := rf.log.Close(); first == nil {
			first = err
		}
		rf.log = nil
	}
	return first
}

// getModeName returns the name of the single mode flag which was set. The
// error names the mode flags when none or several of them were given.
func getModeName(vars map[string]*string) (string, error) {
	flags, setFlags := []string{}, []string{}
	for name, varPtr := range vars {
		flags = append(flags, "-"+name)
		if *varPtr != "" {
			setFlags = append(setFlags, "-"+name)
		}
	}
	sort.Strings(flags)
	sort.Strings(setFlags)

	switch len(setFlags) {
	case 0:
		return "", fmt.Errorf(
			"No mode was given. Set exactly one of %s.",
			strings.Join(flags, " or "),
		)
	case 1:
		return setFlags[0][1:], nil
	}
	return "", fmt.Errorf(
		"Both %s were set, but gocollide runs one mode at a time.",
		strings.Join(setFlags, " and "),
	)
}

func collideMain(wrap *io.CollideWrapper, threads int) {
	con := &wrap.Collide
	rf, err := openRunFiles(&con.SharedConfig)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer func() {
		if err := rf.Close(); err != nil {
			log.Fatal(err.Error())
		}
	}()

	log.Println("Running Collide main.")

	res, err := run(wrap, threads, con.ValidLogFile())
	if err != nil {
		log.Fatal(err.Error())
	}

	if con.ValidPlotFile() {
		plotSlices(res, con.MethodFlag(), con.PlotFile)
		plt.Execute()
	}
}

// result holds the fields of a single run.
type result struct {
	g       *geom.Grid
	f, h, Q []float64
}

// run evaluates the operator described by wrap and writes f, g and Q to
// disk.
func run(
	wrap *io.CollideWrapper, threads int, logFlag bool,
) (*result, error) {
	con := &wrap.Collide

	g, err := geom.UniformGrid(
		con.Nodes, con.VelocityLength, con.QuadratureFlag(),
	)
	if err != nil {
		return nil, err
	}

	ft, err := fft3.New(con.Backend, g.N)
	if err != nil {
		return nil, err
	}

	eng, err := gocollide.NewEngine(g, ft)
	if err != nil {
		return nil, err
	}
	defer eng.Close()
	eng.Workers(threads)
	eng.Log(logFlag)

	w, err := loadWeights(con, g.N)
	if err != nil {
		return nil, err
	}
	if !weights.Symmetric(g, w, 1e-12) {
		log.Println("Weights are not symmetric: Q(f, g) != Q(g, f).")
	}

	f := buildDistribution(g, wrap.Distribution(con.F))
	h := buildDistribution(g, wrap.Distribution(con.G))
	Q := make([]float64, g.Cells())

	method := con.MethodFlag()
	log.Printf("Computing %s operator on a %d^3 grid.", method, g.N)

	switch method {
	case io.Plain:
		eng.ComputeQ(f, h, w, Q)
	case io.MaxPreserve:
		eng.ComputeQMaxPreserve(f, h, w, Q)
	default:
		panic("Impossible")
	}

	grid, runInfo := io.NewGridInfo(g), io.NewRunInfo(method, threads)
	fields := []struct {
		flag   io.FieldFlag
		suffix string
		xs     []float64
	}{
		{io.FirstDistribution, "f", f},
		{io.SecondDistribution, "g", h},
		{io.CollisionOperator, "Q", Q},
	}

	for _, field := range fields {
		out := fieldName(con.Output, field.suffix)
		log.Printf("Writing to %s", out)

		file, err := os.Create(out)
		if err != nil {
			return nil, err
		}
		err = io.WriteField(field.flag, field.xs, grid, runInfo, file)
		if err != nil {
			file.Close()
			return nil, err
		}
		if err = file.Close(); err != nil {
			return nil, err
		}
	}

	return &result{g, f, h, Q}, nil
}

func fieldName(output, suffix string) string {
	return fmt.Sprintf("%s_%s.field", output, suffix)
}

func loadWeights(con *io.CollideConfig, n int) (*weights.Tensor, error) {
	if con.ValidWeightsFile() {
		log.Printf("Reading weights from %s", con.WeightsFile)
		return weights.ReadTable(con.WeightsFile, n)
	}
	return weights.Uniform(n, con.UniformWeight), nil
}

// buildDistribution returns the sum of the given Maxwellians.
func buildDistribution(g *geom.Grid, mos []maxwell.Moments) []float64 {
	f := make([]float64, g.Cells())
	buf := make([]float64, g.Cells())
	for _, mo := range mos {
		maxwell.Maxwellian(g, mo, buf)
		floats.Add(f, buf)
	}
	return f
}

// plotSlices plots f, g and Q along the v_x axis through the center of the
// grid.
func plotSlices(res *result, method io.Method, fname string) {
	g := res.g
	slice := func(xs []float64) []float64 {
		out := make([]float64, g.N)
		for i := range out {
			out[i] = xs[g.Idx(i, g.N/2, g.N/2)]
		}
		return out
	}

	plt.Figure()
	plt.Plot(g.V, slice(res.f), "b", plt.LW(2))
	plt.Plot(g.V, slice(res.h), "r", plt.LW(2))
	plt.Plot(g.V, slice(res.Q), "k", plt.LW(3))
	plt.Title(fmt.Sprintf(
		"%s operator, $N$ = %d: $f$ (blue), $g$ (red), $Q$ (black)",
		method, g.N,
	))
	plt.XLabel(`$v_x$`, plt.FontSize(16))
	plt.YLabel(`$v_y = v_z = 0$ slice`, plt.FontSize(16))
	plt.SaveFig(fname)
}
