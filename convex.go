package sgsim

import (
	"math"

	vec2d "github.com/flywave/go3d/float64/vec2"
)

// Convex is the convex hull of a set of sample locations. It supplies grid
// bounds for simulations without an explicit grid description and a coverage
// test for reporting which nodes fall inside the data footprint.
type Convex struct {
	vertices []vec2d.T
	hull     []vec2d.T
	edges    []Edge
}

type Edge struct {
	Start  vec2d.T
	End    vec2d.T
	Normal vec2d.T
}

func NewConvex(vertices []vec2d.T) *Convex {
	c := Convex{vertices, nil, nil}
	return &c
}

func (c *Convex) Rect() vec2d.Rect {
	r := vec2d.Rect{Min: vec2d.MaxVal, Max: vec2d.MinVal}
	hull := c.Hull()
	for i := range hull {
		r.Extend(&hull[i])
	}
	return r
}

func (c *Convex) Hull() []vec2d.T {
	if c.hull == nil && len(c.vertices) > 0 {
		minX, maxX := c.getExtremePoints()
		c.hull = append(c.quickHull(c.vertices, maxX, minX), c.quickHull(c.vertices, minX, maxX)...)
	}

	return c.hull
}

func (c *Convex) Edges() []Edge {
	if c.edges == nil {
		hull := c.Hull()
		for i, start := range hull {
			nextIndex := i + 1
			if len(hull) <= nextIndex {
				nextIndex = 0
			}
			end := hull[nextIndex]
			r := Rotator{90}
			normal := r.RotateVector(vec2d.Sub(&start, &end))
			normal.Normalize()
			c.edges = append(c.edges, Edge{
				start,
				end,
				normal})
		}
	}
	return c.edges
}

func (c *Convex) quickHull(points []vec2d.T, start, end vec2d.T) []vec2d.T {
	pointDistanceIndicators := c.getLhsPointDistanceIndicatorMap(points, start, end)
	if len(pointDistanceIndicators) == 0 {
		return []vec2d.T{end}
	}

	farthestPoint := c.getFarthestPoint(pointDistanceIndicators)

	newPoints := []vec2d.T{}
	for point := range pointDistanceIndicators {
		newPoints = append(newPoints, point)
	}

	return append(
		c.quickHull(newPoints, farthestPoint, end),
		c.quickHull(newPoints, start, farthestPoint)...)
}

func Cross(lhs, rhs vec2d.T) float64 {
	return (lhs[0] * rhs[1]) - (lhs[1] * rhs[0])
}

func OnTheRight(v vec2d.T, o vec2d.T) bool {
	return Cross(v, o) < 0
}

func (c *Convex) InHull(point vec2d.T) bool {
	for _, edge := range c.Edges() {
		if !OnTheRight(vec2d.Sub(&point, &edge.Start), vec2d.Sub(&edge.End, &edge.Start)) {
			return false
		}
	}

	return true
}

func (c *Convex) getExtremePoints() (minX, maxX vec2d.T) {
	minX = vec2d.T{math.MaxFloat64, 0}
	maxX = vec2d.T{-math.MaxFloat64, 0}

	for _, p := range c.vertices {
		if p[0] < minX[0] {
			minX = p
		}

		if maxX[0] < p[0] {
			maxX = p
		}
	}

	return minX, maxX
}

func (c *Convex) getLhsPointDistanceIndicatorMap(points []vec2d.T, start, end vec2d.T) map[vec2d.T]float64 {
	pointDistanceIndicatorMap := make(map[vec2d.T]float64)

	for _, point := range points {
		distanceIndicator := c.getDistanceIndicator(point, start, end)
		if distanceIndicator > 0 {
			pointDistanceIndicatorMap[point] = distanceIndicator
		}
	}

	return pointDistanceIndicatorMap
}

func (c *Convex) getDistanceIndicator(point vec2d.T, start, end vec2d.T) float64 {
	vLine := vec2d.Sub(&end, &start)
	vPoint := vec2d.Sub(&point, &start)

	return Cross(vLine, vPoint)
}

func (c *Convex) getFarthestPoint(pointDistanceIndicatorMap map[vec2d.T]float64) (farthestPoint vec2d.T) {
	maxDistanceIndicator := -math.MaxFloat64
	for point, distanceIndicator := range pointDistanceIndicatorMap {
		if maxDistanceIndicator < distanceIndicator {
			maxDistanceIndicator = distanceIndicator
			farthestPoint = point
		}
	}

	return farthestPoint
}
