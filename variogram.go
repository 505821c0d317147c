package sgsim

import (
	"fmt"
	"math"

	vec2d "github.com/flywave/go3d/float64/vec2"
)

// Structure is one nested variogram component. Azimuth is the direction of
// the major continuity axis in degrees clockwise from north, Ratio the
// minor/major range ratio in (0, 1]. A zero Ratio is treated as isotropic.
type Structure struct {
	Type    StructureType `yaml:"type"`
	Sill    float64       `yaml:"sill"`
	Range   float64       `yaml:"range"`
	Azimuth float64       `yaml:"azimuth"`
	Ratio   float64       `yaml:"ratio"`
}

func (s Structure) validate() error {
	switch s.Type {
	case Gaussian, Exponential, Spherical:
	default:
		return fmt.Errorf("%w: unknown structure type %q", ErrInvalidParameter, s.Type)
	}
	if s.Sill <= 0 {
		return fmt.Errorf("%w: structure sill %g must be positive", ErrInvalidParameter, s.Sill)
	}
	if s.Range <= 0 {
		return fmt.Errorf("%w: structure range %g must be positive", ErrInvalidParameter, s.Range)
	}
	if s.Ratio < 0 || s.Ratio > 1 {
		return fmt.Errorf("%w: anisotropy ratio %g must be in (0,1], or 0 for isotropic", ErrInvalidParameter, s.Ratio)
	}
	return nil
}

// localFrame projects a separation vector onto the structure's anisotropy
// axes: component 0 along the major axis, component 1 along the minor axis.
// With azimuth 0 the major axis points north (+y).
func (s Structure) localFrame(h vec2d.T) vec2d.T {
	rad := DegToRad(s.Azimuth)
	sin, cos := math.Sin(rad), math.Cos(rad)
	return vec2d.T{
		h[0]*sin + h[1]*cos,
		h[0]*cos - h[1]*sin,
	}
}

// gamma is the normalized semivariance of the structure for separation h,
// scaled so the minor-axis range is Range*Ratio.
func (s Structure) gamma(h vec2d.T) float64 {
	local := s.localFrame(h)
	ratio := s.Ratio
	if ratio == 0 {
		ratio = 1
	}
	local[1] /= ratio
	d := local.Length() / s.Range

	switch s.Type {
	case Spherical:
		if d >= 1 {
			return s.Sill
		}
		return s.Sill * (1.5*d - 0.5*pow3(d))
	case Exponential:
		return s.Sill * (1 - math.Exp(-3*d))
	case Gaussian:
		return s.Sill * (1 - math.Exp(-3*pow2(d)))
	}
	return 0
}

// Variogram is an ordered list of nested structures plus a nugget constant.
type Variogram struct {
	Nugget     float64
	Structures []Structure
}

func NewVariogram(nugget float64, structures ...Structure) (*Variogram, error) {
	if nugget < 0 {
		return nil, fmt.Errorf("%w: nugget %g must be non-negative", ErrInvalidParameter, nugget)
	}
	for i, s := range structures {
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("structure %d: %w", i, err)
		}
	}
	return &Variogram{Nugget: nugget, Structures: structures}, nil
}

// Sill is the total sill: nugget plus all partial sills.
func (v *Variogram) Sill() float64 {
	sill := v.Nugget
	for _, s := range v.Structures {
		sill += s.Sill
	}
	return sill
}

// Semivariance of the separation vector h. Zero at h = 0; the nugget
// contributes for any non-zero separation.
func (v *Variogram) Semivariance(h vec2d.T) float64 {
	if h[0] == 0 && h[1] == 0 {
		return 0
	}
	gamma := v.Nugget
	for _, s := range v.Structures {
		gamma += s.gamma(h)
	}
	return gamma
}

// Covariance of the separation vector h. Equal to Sill() at h = 0 and
// approaches zero beyond the ranges of all structures.
func (v *Variogram) Covariance(h vec2d.T) float64 {
	return v.Sill() - v.Semivariance(h)
}
