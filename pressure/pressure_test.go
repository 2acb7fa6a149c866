package pressure

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chenhsu16/jax-cfd/fastdiag"
	"github.com/chenhsu16/jax-cfd/grid"
	"github.com/chenhsu16/jax-cfd/utils"
)

func randomField(g grid.Grid, rng *rand.Rand) (v []utils.Tensor) {
	v = make([]utils.Tensor, g.Ndim())
	for a := range v {
		v[a] = utils.NewTensor(g.Shape())
		for i := range v[a].Data() {
			v[a].Data()[i] = rng.NormFloat64()
		}
	}
	return
}

func maxAbs(t utils.Tensor) (m float64) {
	for _, v := range t.Data() {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return
}

func TestProjectionRemovesDivergence(t *testing.T) {
	var (
		rng = rand.New(rand.NewSource(1))
	)
	g, err := grid.New([]int{16, 12})
	assert.NoError(t, err)
	solver, err := NewSolver(g)
	assert.NoError(t, err)
	assert.Equal(t, fastdiag.CirculantFFT, solver.Strategy())

	v := randomField(g, rng)
	assert.Greater(t, maxAbs(Divergence(g, v)), 1.0)

	projected, err := Projection(g, v, solver)
	assert.NoError(t, err)
	assert.InDelta(t, 0, maxAbs(Divergence(g, projected)), 1.e-8)
}

func TestProjectionIdempotent(t *testing.T) {
	var (
		rng = rand.New(rand.NewSource(2))
	)
	g, err := grid.New([]int{8, 8})
	assert.NoError(t, err)
	solver, err := NewSolver(g)
	assert.NoError(t, err)

	once, err := Projection(g, randomField(g, rng), solver)
	assert.NoError(t, err)
	twice, err := Projection(g, once, solver)
	assert.NoError(t, err)
	for a := range once {
		for k, v := range once[a].Data() {
			assert.InDelta(t, v, twice[a].Data()[k], 1.e-8)
		}
	}
}

func TestProjectionPreservesDivergenceFree(t *testing.T) {
	// A constant field is already divergence free and must pass through.
	g, err := grid.New([]int{8, 8})
	assert.NoError(t, err)
	solver, err := NewSolver(g)
	assert.NoError(t, err)

	v := []utils.Tensor{
		utils.NewTensor(g.Shape(), utils.ConstArray(g.Size(), 1.5)),
		utils.NewTensor(g.Shape(), utils.ConstArray(g.Size(), -0.5)),
	}
	projected, err := Projection(g, v, solver)
	assert.NoError(t, err)
	for a := range v {
		for _, val := range projected[a].Data() {
			assert.InDelta(t, v[a].Data()[0], val, 1.e-10)
		}
	}
}

func TestSolverOptionsRespected(t *testing.T) {
	g, err := grid.New([]int{8, 8})
	assert.NoError(t, err)
	opts := fastdiag.NewOptions(fastdiag.Float64)
	opts.Strategy = fastdiag.CirculantRFFT
	solver, err := NewSolver(g, opts)
	assert.NoError(t, err)
	assert.Equal(t, fastdiag.CirculantRFFT, solver.Strategy())
}
