package sgsim

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Options bundles the full configuration of a simulation batch: grid
// description, variogram model and simulation parameters.
type Options struct {
	Grid          GridSpec    `yaml:"grid"`
	Nugget        float64     `yaml:"nugget"`
	Structures    []Structure `yaml:"structures"`
	MaxNeighbors  int         `yaml:"maxNeighbors"`
	Realizations  int         `yaml:"realizations"`
	Seed          uint64      `yaml:"seed"`
	BackTransform bool        `yaml:"backTransform"`
	Workers       int         `yaml:"workers"`
}

func DefaultOptions() Options {
	return Options{
		MaxNeighbors: 16,
		Realizations: 1,
	}
}

// LoadOptions reads a YAML options file over the defaults. A missing file
// yields the defaults.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return opts, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, err
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	return opts, nil
}

// ParseGridSpec parses a legacy one-line grid description of the form
// "nx ny xsize ysize xmin ymin".
func ParseGridSpec(line string) (GridSpec, error) {
	fields := strings.Fields(line)
	if len(fields) != 6 {
		return GridSpec{}, fmt.Errorf("%w: grid description needs 6 fields, got %d", ErrInvalidParameter, len(fields))
	}

	ints := make([]int, 2)
	for i := 0; i < 2; i++ {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return GridSpec{}, fmt.Errorf("%w: bad node count %q", ErrInvalidParameter, fields[i])
		}
		ints[i] = v
	}
	floats := make([]float64, 4)
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(fields[i+2], 64)
		if err != nil {
			return GridSpec{}, fmt.Errorf("%w: bad grid scalar %q", ErrInvalidParameter, fields[i+2])
		}
		floats[i] = v
	}

	spec := GridSpec{
		NX:    ints[0],
		NY:    ints[1],
		XSize: floats[0],
		YSize: floats[1],
		XMin:  floats[2],
		YMin:  floats[3],
	}
	return spec, spec.Validate()
}

// NewSimulatorFromOptions builds the variogram, grid and simulator from a
// single options bundle. Configuration errors surface here, before any
// simulation work starts.
func NewSimulatorFromOptions(opts Options, dataset *SpatialDataset) (*Simulator, error) {
	model, err := NewVariogram(opts.Nugget, opts.Structures...)
	if err != nil {
		return nil, err
	}
	grid, err := NewGrid(opts.Grid)
	if err != nil {
		return nil, err
	}
	return NewSimulator(grid, dataset, model, SimParams{
		MaxNeighbors:  opts.MaxNeighbors,
		Realizations:  opts.Realizations,
		Seed:          opts.Seed,
		BackTransform: opts.BackTransform,
		Workers:       opts.Workers,
	})
}
