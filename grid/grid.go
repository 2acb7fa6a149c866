// Package grid describes regular periodic grids and assembles the per-axis
// finite-difference operators handed to the fast-diagonalization solver.
package grid

import (
	"fmt"

	"github.com/chenhsu16/jax-cfd/utils"
)

// Grid is a regular periodic grid: shape[a] cells along axis a covering
// domain[a], with uniform step sizes. Immutable after construction.
type Grid struct {
	shape  []int
	domain [][2]float64
	step   []float64
}

// New builds a grid. Without an explicit domain each axis covers [0, 1).
func New(shape []int, domainO ...[][2]float64) (g Grid, err error) {
	if len(shape) == 0 {
		err = fmt.Errorf("grid: empty shape")
		return
	}
	for a, n := range shape {
		if n < 1 {
			err = fmt.Errorf("grid: axis %d has non-positive extent %d", a, n)
			return
		}
	}
	domain := make([][2]float64, len(shape))
	for a := range domain {
		domain[a] = [2]float64{0, 1}
	}
	if len(domainO) != 0 {
		if len(domainO[0]) != len(shape) {
			err = fmt.Errorf("grid: domain rank %d does not match shape rank %d", len(domainO[0]), len(shape))
			return
		}
		for a, d := range domainO[0] {
			if d[1] <= d[0] {
				err = fmt.Errorf("grid: axis %d domain [%v, %v] is empty", a, d[0], d[1])
				return
			}
			domain[a] = d
		}
	}
	step := make([]float64, len(shape))
	for a := range step {
		step[a] = (domain[a][1] - domain[a][0]) / float64(shape[a])
	}
	g = Grid{
		shape:  append([]int{}, shape...),
		domain: domain,
		step:   step,
	}
	return
}

func (g Grid) Ndim() int { return len(g.shape) }

func (g Grid) Size() int { return utils.ShapeSize(g.shape) }

func (g Grid) Shape() (shape []int) {
	shape = append(shape, g.shape...)
	return
}

func (g Grid) Step(axis int) float64 { return g.step[axis] }

func (g Grid) Domain(axis int) [2]float64 { return g.domain[axis] }

// Axis returns the cell-center coordinates along one axis.
func (g Grid) Axis(axis int) (x utils.Vector) {
	var (
		n  = g.shape[axis]
		h  = g.step[axis]
		lo = g.domain[axis][0]
	)
	x = utils.NewVector(n)
	data := x.RawVector().Data
	for i := 0; i < n; i++ {
		data[i] = lo + (float64(i)+0.5)*h
	}
	return
}

// MinStep returns the smallest step size over all axes.
func (g Grid) MinStep() (h float64) {
	h = g.step[0]
	for _, s := range g.step[1:] {
		if s < h {
			h = s
		}
	}
	return
}
