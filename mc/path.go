package mc

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Path is a sequence of (time, price) samples with strictly increasing time.
// Paths produced by one model share the Time slice; neither slice may be modified.
type Path struct {
	Time  []float64
	Price []float64
}

func (p Path) Len() int {
	return len(p.Price)
}

// Terminal price, the last sample.
func (p Path) Terminal() float64 {
	return p.Price[len(p.Price)-1]
}

func (p Path) Min() float64 {
	return floats.Min(p.Price)
}

func (p Path) Max() float64 {
	return floats.Max(p.Price)
}

// Mean is the arithmetic mean of all samples, spot included.
func (p Path) Mean() float64 {
	return stat.Mean(p.Price, nil)
}
