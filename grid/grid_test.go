package grid

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chenhsu16/jax-cfd/utils"
)

func TestGrid(t *testing.T) {
	// Defaults: unit box, uniform steps, cell-center coordinates
	{
		g, err := New([]int{4, 8})
		assert.NoError(t, err)
		assert.Equal(t, 2, g.Ndim())
		assert.Equal(t, 32, g.Size())
		assert.Equal(t, 0.25, g.Step(0))
		assert.Equal(t, 0.125, g.Step(1))
		assert.Equal(t, 0.125, g.MinStep())
		x := g.Axis(0)
		assert.Equal(t, 4, x.Len())
		assert.InDelta(t, 0.125, x.AtVec(0), 1.e-14)
		assert.InDelta(t, 0.875, x.AtVec(3), 1.e-14)
	}
	// Explicit domain
	{
		g, err := New([]int{10}, [][2]float64{{0, 5}})
		assert.NoError(t, err)
		assert.Equal(t, 0.5, g.Step(0))
		assert.Equal(t, [2]float64{0, 5}, g.Domain(0))
	}
	// Invalid inputs
	{
		_, err := New([]int{})
		assert.Error(t, err)
		_, err = New([]int{0, 4})
		assert.Error(t, err)
		_, err = New([]int{4}, [][2]float64{{1, 1}})
		assert.Error(t, err)
		_, err = New([]int{4, 4}, [][2]float64{{0, 1}})
		assert.Error(t, err)
	}
}

func TestLaplacians(t *testing.T) {
	g, err := New([]int{4}, [][2]float64{{0, 4}}) // unit spacing
	assert.NoError(t, err)
	ops := g.Laplacians()
	assert.Len(t, ops, 1)
	L := ops[0]
	assert.True(t, L.IsSquare())
	assert.True(t, L.IsSymmetric())
	assert.Equal(t, []float64{
		-2, 1, 0, 1,
		1, -2, 1, 0,
		0, 1, -2, 1,
		1, 0, 1, -2,
	}, L.RawMatrix().Data)
	// Immutable once built
	assert.Panics(t, func() { L.Set(0, 0, 5) })

	// Scaling by 1/h^2
	g2, err := New([]int{4}) // h = 0.25
	assert.NoError(t, err)
	L2 := g2.Laplacians()[0]
	assert.Equal(t, -32., L2.At(0, 0))
	assert.Equal(t, 16., L2.At(0, 1))
}

func TestDifferences(t *testing.T) {
	g, err := New([]int{4}, [][2]float64{{0, 4}})
	assert.NoError(t, err)
	q := utils.NewTensor([]int{4}, []float64{1, 2, 4, 8})
	// (q[i+1] - q[i]) / h with periodic wrap
	assert.Equal(t, []float64{1, 2, 4, -7}, g.ForwardDiff(q, 0).Data())
	// (q[i] - q[i-1]) / h
	assert.Equal(t, []float64{-7, 1, 2, 4}, g.BackwardDiff(q, 0).Data())
	// (q[i+1] - q[i-1]) / 2h
	assert.Equal(t, []float64{-3, 1.5, 3, -1.5}, g.CenteredDiff(q, 0).Data())
	// Inputs untouched
	assert.Equal(t, []float64{1, 2, 4, 8}, q.Data())
}

func TestDivGradMatchesLaplacian(t *testing.T) {
	// BackwardDiff of ForwardDiff must reproduce the assembled operator, so
	// the projection's div-grad composition matches the solver's Laplacian.
	var (
		rng = rand.New(rand.NewSource(1))
	)
	g, err := New([]int{8, 6})
	assert.NoError(t, err)
	q := utils.NewTensor(g.Shape())
	for i := range q.Data() {
		q.Data()[i] = rng.NormFloat64()
	}
	ops := g.Laplacians()
	for a := 0; a < g.Ndim(); a++ {
		direct := q.ContractAxis(ops[a], a)
		stencil := g.BackwardDiff(g.ForwardDiff(q, a), a)
		for k, v := range direct.Data() {
			assert.InDelta(t, v, stencil.Data()[k], 1.e-9)
		}
	}
}
