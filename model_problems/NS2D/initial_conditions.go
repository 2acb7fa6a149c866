package NS2D

import (
	"math"
	"math/rand"

	"github.com/chenhsu16/jax-cfd/fastdiag"
	"github.com/chenhsu16/jax-cfd/grid"
	"github.com/chenhsu16/jax-cfd/pressure"
	"github.com/chenhsu16/jax-cfd/utils"
)

// FilteredVelocityField generates a random velocity field from low-wavenumber
// Fourier modes, rescales it to the requested peak speed, and projects it
// onto the divergence-free manifold with the same pressure-Poisson machinery
// used during time stepping.
func FilteredVelocityField(g grid.Grid, rng *rand.Rand, maxVelocity float64,
	peakWavenumber int, solver *fastdiag.Solver) (v []utils.Tensor, err error) {
	var (
		shape = g.Shape()
		x     = g.Axis(0)
		y     = g.Axis(1)
	)
	if peakWavenumber < 1 {
		peakWavenumber = 3
	}
	component := func() utils.Tensor {
		t := utils.NewTensor(shape)
		// A handful of random modes below the peak wavenumber gives a
		// smooth field without high-frequency noise.
		for m := 0; m < 2*peakWavenumber; m++ {
			kx := float64(rng.Intn(2*peakWavenumber+1) - peakWavenumber)
			ky := float64(rng.Intn(2*peakWavenumber+1) - peakWavenumber)
			amp := rng.NormFloat64()
			phase := 2 * math.Pi * rng.Float64()
			for i := 0; i < shape[0]; i++ {
				for j := 0; j < shape[1]; j++ {
					arg := 2*math.Pi*(kx*x.AtVec(i)+ky*y.AtVec(j)) + phase
					t.Set(t.At(i, j)+amp*math.Sin(arg), i, j)
				}
			}
		}
		return t
	}
	v = []utils.Tensor{component(), component()}

	var vmax float64
	for _, t := range v {
		for _, val := range t.Data() {
			if a := math.Abs(val); a > vmax {
				vmax = a
			}
		}
	}
	if vmax > 0 {
		for _, t := range v {
			t.Scale(maxVelocity / vmax)
		}
	}
	return pressure.Projection(g, v, solver)
}
