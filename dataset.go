package sgsim

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/flywave/go-geom"
	"github.com/flywave/go-geom/general"
	vec2d "github.com/flywave/go3d/float64/vec2"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// Sample is one conditioning datum: a location, the raw measured value and
// its normal-score transform.
type Sample struct {
	Pos   vec2d.T
	Raw   float64
	Score float64
}

type samplePoint struct {
	pos vec2d.T
	idx int
}

func (p samplePoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(samplePoint)
	return p.pos[d] - q.pos[d]
}

func (p samplePoint) Dims() int { return 2 }

func (p samplePoint) Distance(c kdtree.Comparable) float64 {
	q := c.(samplePoint)
	return dist2(p.pos, q.pos)
}

type samplePoints []samplePoint

func (p samplePoints) Index(i int) kdtree.Comparable { return p[i] }
func (p samplePoints) Len() int                      { return len(p) }
func (p samplePoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}
func (p samplePoints) Pivot(d kdtree.Dim) int {
	return samplePlane{samplePoints: p, dim: d}.Pivot()
}

type samplePlane struct {
	samplePoints
	dim kdtree.Dim
}

func (p samplePlane) Less(i, j int) bool {
	return p.samplePoints[i].pos[p.dim] < p.samplePoints[j].pos[p.dim]
}
func (p samplePlane) Pivot() int {
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}
func (p samplePlane) Slice(start, end int) kdtree.SortSlicer {
	return samplePlane{samplePoints: p.samplePoints[start:end], dim: p.dim}
}
func (p samplePlane) Swap(i, j int) {
	p.samplePoints[i], p.samplePoints[j] = p.samplePoints[j], p.samplePoints[i]
}

// SpatialDataset holds the conditioning samples with their normal scores and
// answers nearest-neighbor queries over their locations.
type SpatialDataset struct {
	samples   []Sample
	transform *NormalScoreTransform
	tree      *kdtree.Tree
}

// NewSpatialDataset fits a normal-score transform to the values and indexes
// the locations for search. An empty dataset is valid and supports
// unconditional simulation.
func NewSpatialDataset(points []vec2d.T, values []float64) (*SpatialDataset, error) {
	if len(points) != len(values) {
		return nil, fmt.Errorf("%w: %d points but %d values", ErrInvalidParameter, len(points), len(values))
	}

	ds := &SpatialDataset{}
	if len(points) == 0 {
		return ds, nil
	}

	transform, err := FitNormalScore(values)
	if err != nil {
		return nil, err
	}
	ds.transform = transform

	ds.samples = make([]Sample, len(points))
	pts := make(samplePoints, len(points))
	for i := range points {
		ds.samples[i] = Sample{
			Pos:   points[i],
			Raw:   values[i],
			Score: transform.Forward(values[i]),
		}
		pts[i] = samplePoint{pos: points[i], idx: i}
	}
	ds.tree = kdtree.New(pts, true)
	return ds, nil
}

func (ds *SpatialDataset) Len() int {
	return len(ds.samples)
}

func (ds *SpatialDataset) Samples() []Sample {
	return ds.samples
}

// Transform returns the fitted normal-score transform, nil for an empty
// dataset.
func (ds *SpatialDataset) Transform() *NormalScoreTransform {
	return ds.transform
}

// NearestK returns up to maxCount samples sorted by ascending Euclidean
// distance to the location.
func (ds *SpatialDataset) NearestK(location vec2d.T, maxCount int) []Sample {
	if ds.tree == nil || maxCount <= 0 {
		return nil
	}
	if maxCount > len(ds.samples) {
		maxCount = len(ds.samples)
	}

	keeper := kdtree.NewNKeeper(maxCount)
	ds.tree.NearestSet(keeper, samplePoint{pos: location, idx: -1})

	found := make([]kdtree.ComparableDist, 0, keeper.Len())
	for _, item := range keeper.Heap {
		if item.Comparable == nil {
			continue
		}
		found = append(found, item)
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Dist < found[j].Dist })

	result := make([]Sample, len(found))
	for i, item := range found {
		result[i] = ds.samples[item.Comparable.(samplePoint).idx]
	}
	return result
}

// DatasetFromFeatureCollection extracts Point and MultiPoint features with a
// z-coordinate or measured value as samples.
func DatasetFromFeatureCollection(fc *geom.FeatureCollection) (*SpatialDataset, error) {
	points := make([]vec2d.T, 0, len(fc.Features))
	values := make([]float64, 0, len(fc.Features))

	for _, feas := range fc.Features {
		switch g := feas.Geometry.(type) {
		case *general.Point:
			points = append(points, vec2d.T{g.X(), g.Y()})
			values = append(values, g.Data()[2])
		case *general.MultiPoint:
			for _, pos := range g.Points() {
				points = append(points, vec2d.T{pos.X(), pos.Y()})
				values = append(values, pos.Data()[2])
			}
		}
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no point features in collection", ErrEmptyInput)
	}
	return NewSpatialDataset(points, values)
}

// ReadSamplesCSV parses header-named tabular data with X and Y columns and a
// value column. An empty valueField selects the first column that is neither
// X nor Y.
func ReadSamplesCSV(r io.Reader, valueField string) ([]vec2d.T, []float64, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: missing csv header", ErrEmptyInput)
	}

	xCol, yCol, vCol := -1, -1, -1
	for i, name := range header {
		switch {
		case strings.EqualFold(name, "x"):
			xCol = i
		case strings.EqualFold(name, "y"):
			yCol = i
		case valueField != "" && strings.EqualFold(name, valueField):
			vCol = i
		case valueField == "" && vCol < 0:
			vCol = i
		}
	}
	if xCol < 0 || yCol < 0 || vCol < 0 {
		return nil, nil, fmt.Errorf("%w: csv header lacks X, Y or value column", ErrInvalidParameter)
	}

	var points []vec2d.T
	var values []float64
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		x, err := strconv.ParseFloat(record[xCol], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: bad X value %q", ErrInvalidParameter, record[xCol])
		}
		y, err := strconv.ParseFloat(record[yCol], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: bad Y value %q", ErrInvalidParameter, record[yCol])
		}
		v, err := strconv.ParseFloat(record[vCol], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: bad value %q", ErrInvalidParameter, record[vCol])
		}
		points = append(points, vec2d.T{x, y})
		values = append(values, v)
	}
	return points, values, nil
}
