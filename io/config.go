package io

import (
	"fmt"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/goretarget/rbf"
)

const (
	ExampleRetargetFile = `[Retarget]

#######################
# Required Parameters #
#######################

# File containing the source mesh vertices, one "x y z" row per vertex.
Source = path/to/source.txt

# File containing the deformed version of the source mesh. It must have
# exactly the same number of rows as Source, in the same vertex order.
# You can leave this out if you set DstLayer instead.
Destination = path/to/destination.txt

# Any number of target mesh files. Each one is fit to the deformation and
# written to the Output directory under its own base name.
Target = path/to/target_a.txt
Target = path/to/target_b.txt

# Directory which output files will be written to.
Output = path/to/output/dir

#######################
# Optional Parameters #
#######################

# The radial basis function used to interpolate the deformation. Must be
# one of:
# [ linear | gaussian | thin-plate | biharmonic | inv-biharmonic | c2 ]
# Anything else is an error. Default is biharmonic.
# Function = biharmonic

# Smoothing radius. Larger values give smoother, less local deformations.
# The useful range depends on the kernel, but the per-kernel scaling means
# values around 0.5 - 2.0 are usually reasonable. Default is 0.5.
# Radius = 0.5

# File containing a selection mask for the source mesh: one row per vertex,
# non-zero means selected. Only read when OnlySelection is set.
# Selection = path/to/selection.txt

# Fit the deformation only from the selected vertices of the source mesh.
# OnlySelection = false

# Raise the correspondence point cap from 1000 to 5000. The fit gets more
# accurate on dense meshes and the solve gets much slower.
# HighQuality = false

# Instead of a separate Destination file, read the deformed positions from
# a coordinate layer file attached to the source under this name. The layer
# file is path/to/source_<DstLayer>.txt next to the Source file.
# DstLayer = squash

# Write results as new coordinate layers (output files named
# <target>_Retarget_<destination>.txt) instead of replacing the target
# vertices.
# AsLayer = false

# A 4x4 transform for the destination mesh, stored as four rows of four
# values. Identity when not given.
# DestinationMatrix = path/to/destination_matrix.txt

# One 4x4 transform file per Target, in the same order. Targets without a
# matrix use the identity.
# TargetMatrix = path/to/target_a_matrix.txt
# TargetMatrix = path/to/target_b_matrix.txt

# Number of targets to deform concurrently. Defaults to the number of
# logical cores.
# Threads = 4

# Log verbosity, one of [ debug | info | warn | error ]. Default is info.
# LogLevel = info

# Append log output to a rotated file as well as stderr.
# LogFile = log.out`
)

type RetargetConfig struct {
	// Required
	Source      string
	Destination string
	Target      []string
	Output      string

	// Optional
	Function          string
	Radius            float64
	Selection         string
	OnlySelection     bool
	HighQuality       bool
	DstLayer          string
	AsLayer           bool
	DestinationMatrix string
	TargetMatrix      []string
	Threads           int
	LogLevel          string
	LogFile           string
}

type RetargetWrapper struct {
	Retarget RetargetConfig
}

func DefaultRetargetWrapper() *RetargetWrapper {
	con := RetargetConfig{}
	con.Function = rbf.DefaultKernel
	con.Radius = 0.5
	con.LogLevel = "info"
	return &RetargetWrapper{con}
}

func (con *RetargetConfig) ValidSource() bool {
	return con.Source != ""
}
func (con *RetargetConfig) ValidDestination() bool {
	return con.Destination != "" || con.DstLayer != ""
}
func (con *RetargetConfig) ValidTarget() bool {
	return len(con.Target) > 0
}
func (con *RetargetConfig) ValidOutput() bool {
	return con.Output != ""
}
func (con *RetargetConfig) ValidFunction() bool {
	_, err := rbf.Lookup(con.Function)
	return err == nil
}
func (con *RetargetConfig) ValidRadius() bool {
	return con.Radius > 0
}
func (con *RetargetConfig) ValidSelection() bool {
	return !con.OnlySelection || con.Selection != ""
}
func (con *RetargetConfig) ValidTargetMatrix() bool {
	return len(con.TargetMatrix) == 0 ||
		len(con.TargetMatrix) == len(con.Target)
}
func (con *RetargetConfig) ValidThreads() bool {
	return con.Threads >= 0
}
func (con *RetargetConfig) ValidLogLevel() bool {
	switch strings.ToLower(con.LogLevel) {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

// ReadRetargetConfig reads and validates a [Retarget] config file.
func ReadRetargetConfig(fname string) (*RetargetConfig, error) {
	wrap := DefaultRetargetWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return nil, err
	}
	con := &wrap.Retarget

	if !con.ValidSource() {
		return nil, fmt.Errorf("Invalid/non-existent 'Source' value.")
	} else if !con.ValidDestination() {
		return nil, fmt.Errorf(
			"You must set either a valid 'Destination' or a 'DstLayer'.",
		)
	} else if !con.ValidTarget() {
		return nil, fmt.Errorf("Must supply at least one 'Target' value.")
	} else if !con.ValidOutput() {
		return nil, fmt.Errorf("Invalid/non-existent 'Output' value.")
	} else if !con.ValidFunction() {
		return nil, fmt.Errorf("Invalid 'Function' value.")
	} else if !con.ValidRadius() {
		return nil, fmt.Errorf("Invalid 'Radius' value.")
	} else if !con.ValidSelection() {
		return nil, fmt.Errorf(
			"'OnlySelection' requires a valid 'Selection' value.",
		)
	} else if !con.ValidTargetMatrix() {
		return nil, fmt.Errorf(
			"Number of 'TargetMatrix' values must match 'Target' values.",
		)
	} else if !con.ValidThreads() {
		return nil, fmt.Errorf("Invalid 'Threads' value.")
	} else if !con.ValidLogLevel() {
		return nil, fmt.Errorf("Invalid 'LogLevel' value.")
	}
	return con, nil
}
