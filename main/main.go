package main

import (
	"flag"
	"fmt"
	"os"
	"path"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/phil-mansfield/goretarget/io"
	"github.com/phil-mansfield/goretarget/logger"
	"github.com/phil-mansfield/goretarget/mesh"
	"github.com/phil-mansfield/goretarget/retarget"
)

func main() {
	// The main function manages input sanitization and hands the heavy
	// lifting to the retarget package. The code tries to fail gracefully
	// with a descriptive message if the user provides incorrect input.

	var (
		configStr, exampleConfig, pprofFile string
		function, logLevel                  string
		radius                              float64
		threads                             int
		highQuality, asLayer, onlySelection bool
	)

	flag.StringVar(
		&configStr, "Config", "",
		"Configuration file for [Retarget] mode.",
	)
	flag.StringVar(
		&exampleConfig, "ExampleConfig", "",
		"Prints an example configuration file to stdout. 'Retarget' is "+
			"the only accepted argument.",
	)
	flag.StringVar(
		&pprofFile, "PProf", "",
		"File which a CPU profile is written to.",
	)
	flag.StringVar(
		&function, "Function", "",
		"Overrides the config file's 'Function' value.",
	)
	flag.Float64Var(
		&radius, "Radius", 0,
		"Overrides the config file's 'Radius' value.",
	)
	flag.IntVar(
		&threads, "Threads", 0,
		"Overrides the config file's 'Threads' value.",
	)
	flag.StringVar(
		&logLevel, "LogLevel", "",
		"Overrides the config file's 'LogLevel' value.",
	)
	flag.BoolVar(
		&highQuality, "HighQuality", false,
		"Sets the config file's 'HighQuality' value.",
	)
	flag.BoolVar(
		&asLayer, "AsLayer", false,
		"Sets the config file's 'AsLayer' value.",
	)
	flag.BoolVar(
		&onlySelection, "OnlySelection", false,
		"Sets the config file's 'OnlySelection' value.",
	)

	flag.Parse()

	if exampleConfig != "" {
		switch exampleConfig {
		case "Retarget":
			fmt.Println(io.ExampleRetargetFile)
			return
		default:
			fmt.Fprintf(os.Stderr,
				"Unrecognized 'ExampleConfig' argument %s.\n", exampleConfig)
			os.Exit(1)
		}
	}
	if configStr == "" {
		fmt.Fprintln(os.Stderr, "A 'Config' file must be given.")
		os.Exit(1)
	}

	con, err := io.ReadRetargetConfig(configStr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	if function != "" {
		con.Function = function
	}
	if radius > 0 {
		con.Radius = radius
	}
	if threads > 0 {
		con.Threads = threads
	}
	if logLevel != "" {
		con.LogLevel = logLevel
	}
	con.HighQuality = con.HighQuality || highQuality
	con.AsLayer = con.AsLayer || asLayer
	con.OnlySelection = con.OnlySelection || onlySelection

	logger.Init(con.LogLevel, con.LogFile)
	defer logger.Sync()

	if pprofFile != "" {
		f, err := os.Create(pprofFile)
		if err != nil {
			logger.Sugar.Fatal(err.Error())
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			logger.Sugar.Fatal(err.Error())
		}
		defer pprof.StopCPUProfile()
	}

	if err := retargetMain(con); err != nil {
		logger.Sugar.Fatal(err.Error())
	}
}

// baseName strips the directory and extension off a mesh file path, giving
// the name output files are derived from.
func baseName(file string) string {
	base := path.Base(file)
	return strings.TrimSuffix(base, path.Ext(base))
}

// readMesh reads a mesh and, optionally, its transform.
func readMesh(vertFile, matrixFile string) (*mesh.Mesh, error) {
	verts, err := io.ReadVecs(vertFile)
	if err != nil {
		return nil, err
	}
	m := mesh.New(baseName(vertFile), verts)

	if matrixFile != "" {
		m.Matrix, err = io.ReadMatrix(matrixFile)
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

// layerFile names the file a coordinate layer of a mesh is stored in,
// following the <mesh>_<layer>.txt convention.
func layerFile(vertFile, layer string) string {
	ext := path.Ext(vertFile)
	return strings.TrimSuffix(vertFile, ext) + "_" + layer + ext
}

func retargetMain(con *io.RetargetConfig) error {
	start := time.Now()

	src, err := readMesh(con.Source, "")
	if err != nil {
		return err
	}
	if con.OnlySelection {
		src.Select, err = io.ReadMask(con.Selection)
		if err != nil {
			return err
		}
		if len(src.Select) != src.NumVerts() {
			return fmt.Errorf(
				"selection file %s has %d rows for %d vertices",
				con.Selection, len(src.Select), src.NumVerts(),
			)
		}
	}

	var dst *mesh.Mesh
	if con.DstLayer != "" {
		layer, err := io.ReadVecs(layerFile(con.Source, con.DstLayer))
		if err != nil {
			return err
		}
		if err := src.AddLayer(con.DstLayer, layer); err != nil {
			return err
		}
	} else {
		dst, err = readMesh(con.Destination, con.DestinationMatrix)
		if err != nil {
			return err
		}
	}

	targets := make([]*mesh.Mesh, len(con.Target))
	for i, file := range con.Target {
		matrixFile := ""
		if len(con.TargetMatrix) > 0 {
			matrixFile = con.TargetMatrix[i]
		}
		if targets[i], err = readMesh(file, matrixFile); err != nil {
			return err
		}
	}

	opt := retarget.DefaultOptions()
	opt.Function = con.Function
	opt.Radius = con.Radius
	opt.OnlySelection = con.OnlySelection
	opt.HighQuality = con.HighQuality
	opt.AsLayer = con.AsLayer
	opt.DstLayer = con.DstLayer
	opt.Threads = con.Threads

	logger.Sugar.Infof("retargeting %d meshes from %q", len(targets),
		con.Source)

	results, err := retarget.Retarget(src, dst, targets, opt)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(con.Output, 0777); err != nil {
		return err
	}
	for _, res := range results {
		name := res.Mesh.Name
		if res.Layer != "" {
			name += "_" + res.Layer
		}
		out := path.Join(con.Output, name+".txt")
		if err := io.WriteVecs(out, res.Points); err != nil {
			return err
		}
		logger.Sugar.Infof("wrote %d vertices to %s",
			len(res.Points), out)
	}

	logger.Sugar.Infof("finished in %v", time.Since(start))
	return nil
}
