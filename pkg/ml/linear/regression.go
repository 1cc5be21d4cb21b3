package linear

import (
	"errors"
	"math"
)

var ErrInsufficientPoints = errors.New("need at least two points to fit a line")

// Model is a fitted least-squares line y = Slope*x + Intercept.
type Model struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Fit computes the ordinary least-squares line through the given points.
// It fails when fewer than two points are supplied or when all x values
// coincide (degenerate fit).
func Fit(x []float64, y []float64) (Model, error) {
	n := len(x)
	if n < 2 || len(y) != n {
		return Model{}, ErrInsufficientPoints
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var ssXY, ssXX float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		ssXY += dx * (y[i] - meanY)
		ssXX += dx * dx
	}
	if ssXX == 0 {
		return Model{}, errors.New("degenerate fit: all x values are equal")
	}

	slope := ssXY / ssXX
	intercept := meanY - slope*meanX
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		return Model{}, errors.New("numerical failure fitting line")
	}

	return Model{Slope: slope, Intercept: intercept}, nil
}

// At evaluates the fitted line at x.
func (m Model) At(x float64) float64 {
	return m.Slope*x + m.Intercept
}
