package sgsim

import (
	"fmt"
	"math"

	vec2d "github.com/flywave/go3d/float64/vec2"
)

// GridSpec is a GSLIB/Geo-DAS style regular grid description.
type GridSpec struct {
	NX    int     `yaml:"nx"`
	NY    int     `yaml:"ny"`
	XSize float64 `yaml:"xsize"`
	YSize float64 `yaml:"ysize"`
	XMin  float64 `yaml:"xmin"`
	YMin  float64 `yaml:"ymin"`
}

func (s GridSpec) Validate() error {
	if s.NX <= 0 || s.NY <= 0 {
		return fmt.Errorf("%w: grid node counts %dx%d must be positive", ErrInvalidParameter, s.NX, s.NY)
	}
	if s.XSize <= 0 || s.YSize <= 0 {
		return fmt.Errorf("%w: grid cell sizes %gx%g must be positive", ErrInvalidParameter, s.XSize, s.YSize)
	}
	return nil
}

// Grid is the node lattice produced by a GridSpec. Coordinates are stored in
// row-major order, y ascending from YMin: index = iy*NX + ix, node (ix, iy)
// at (XMin + ix*XSize, YMin + iy*YSize). Realization arrays follow the same
// order.
type Grid struct {
	Spec        GridSpec
	Coordinates []vec2d.T
	Count       int
}

func NewGrid(spec GridSpec) (*Grid, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	grid := &Grid{Spec: spec, Count: spec.NX * spec.NY}
	coords := make([]vec2d.T, 0, grid.Count)
	for iy := 0; iy < spec.NY; iy++ {
		y := spec.YMin + float64(iy)*spec.YSize
		for ix := 0; ix < spec.NX; ix++ {
			x := spec.XMin + float64(ix)*spec.XSize
			coords = append(coords, vec2d.T{x, y})
		}
	}
	grid.Coordinates = coords
	return grid, nil
}

// GridFromHull derives a grid covering the convex hull of the input sample
// locations at the given cell size.
func GridFromHull(c *Convex, cell vec2d.T) (*Grid, error) {
	if cell[0] <= 0 || cell[1] <= 0 {
		return nil, fmt.Errorf("%w: cell sizes %gx%g must be positive", ErrInvalidParameter, cell[0], cell[1])
	}
	rect := c.Rect()
	if rect.Min[0] > rect.Max[0] {
		return nil, fmt.Errorf("%w: hull has no vertices", ErrEmptyInput)
	}
	spec := GridSpec{
		NX:    int(math.Floor((rect.Max[0]-rect.Min[0])/cell[0])) + 1,
		NY:    int(math.Floor((rect.Max[1]-rect.Min[1])/cell[1])) + 1,
		XSize: cell[0],
		YSize: cell[1],
		XMin:  rect.Min[0],
		YMin:  rect.Min[1],
	}
	return NewGrid(spec)
}

func (g *Grid) Node(i int) vec2d.T {
	return g.Coordinates[i]
}

func (g *Grid) Index(ix, iy int) int {
	return iy*g.Spec.NX + ix
}

func (g *Grid) CellSize() vec2d.T {
	return vec2d.T{g.Spec.XSize, g.Spec.YSize}
}

// GetRect returns the bounding box of the node coordinates, for display
// bounds only.
func (g *Grid) GetRect() vec2d.Rect {
	r := vec2d.Rect{Min: vec2d.MaxVal, Max: vec2d.MinVal}
	for i := range g.Coordinates {
		r.Extend(&g.Coordinates[i])
	}
	return r
}
