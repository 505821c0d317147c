package sgsim

import (
	vec2d "github.com/flywave/go3d/float64/vec2"
)

func pow2(x float64) float64 {
	return x * x
}

func pow3(x float64) float64 {
	return x * x * x
}

func dist2(a, b vec2d.T) float64 {
	return pow2(a[0]-b[0]) + pow2(a[1]-b[1])
}
