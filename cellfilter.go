package sgsim

import (
	vec2d "github.com/flywave/go3d/float64/vec2"
)

// CellFilter thins dense or duplicated sample sets by averaging locations
// and values inside regular cells before simulation.
type CellFilter struct {
	CellSize vec2d.T
}

type cell struct {
	sum   vec2d.T
	value float64
	num   int
	index int
}

func NewCellFilter(cellSize vec2d.T) *CellFilter {
	return &CellFilter{CellSize: cellSize}
}

func minMaxVec2(ra []vec2d.T) (vec2d.T, vec2d.T, error) {
	if len(ra) == 0 {
		return vec2d.T{}, vec2d.T{}, ErrEmptyInput
	}
	min, max := ra[0], ra[0]
	for i := 1; i < len(ra); i++ {
		v := ra[i]
		for j := range v {
			if v[j] < min[j] {
				min[j] = v[j]
			}
			if v[j] > max[j] {
				max[j] = v[j]
			}
		}
	}
	return min, max, nil
}

func (f *CellFilter) Filter(points []vec2d.T, values []float64) ([]vec2d.T, []float64, error) {
	if len(points) != len(values) {
		return nil, nil, ErrInvalidParameter
	}
	min, max, err := minMaxVec2(points)
	if err != nil {
		return nil, nil, err
	}

	size := max.Sub(&min)
	xs, ys := int(size[0]/f.CellSize[0]), int(size[1]/f.CellSize[1])
	cells := make([]cell, (xs+1)*(ys+1))

	for i := range points {
		p := vec2d.Sub(&points[i], &min)
		x, y := int(p[0]/f.CellSize[0]), int(p[1]/f.CellSize[1])
		c := &cells[x+(xs+1)*y]
		if c.num == 0 {
			c.index = i
		}
		c.num++
		c.sum.Add(&p)
		c.value += values[i]
	}

	outPoints := make([]vec2d.T, 0, len(points))
	outValues := make([]float64, 0, len(values))
	for i := range cells {
		c := &cells[i]
		if c.num == 0 {
			continue
		}
		if c.num > 1 {
			inv := 1.0 / float64(c.num)
			p := vec2d.T{c.sum[0] * inv, c.sum[1] * inv}
			p.Add(&min)
			outPoints = append(outPoints, p)
			outValues = append(outValues, c.value*inv)
		} else {
			outPoints = append(outPoints, points[c.index])
			outValues = append(outValues, values[c.index])
		}
	}

	return outPoints, outValues, nil
}
