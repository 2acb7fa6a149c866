package grid

import (
	"github.com/james-bowman/sparse"

	"github.com/chenhsu16/jax-cfd/utils"
)

// Laplacians assembles the periodic second-difference operator for each axis,
// scaled by 1/h^2. Each matrix is circulant and symmetric, so it qualifies
// for every fast-diagonalization strategy. The matrices are returned
// read-only; the solver captures them by reference.
func (g Grid) Laplacians() (ops []utils.Matrix) {
	ops = make([]utils.Matrix, g.Ndim())
	for a := range ops {
		ops[a] = g.laplacian1D(a)
	}
	return
}

func (g Grid) laplacian1D(axis int) utils.Matrix {
	var (
		n     = g.shape[axis]
		scale = utils.POW(g.step[axis], -2)
	)
	dok := sparse.NewDOK(n, n)
	for i := 0; i < n; i++ {
		dok.Set(i, i, -2*scale)
		dok.Set(i, (i+1)%n, dok.At(i, (i+1)%n)+scale)
		dok.Set(i, (i-1+n)%n, dok.At(i, (i-1+n)%n)+scale)
	}
	csr := dok.ToCSR()
	L := utils.NewMatrix(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if v := csr.At(i, j); v != 0 {
				L.Set(i, j, v)
			}
		}
	}
	return L.SetReadOnly("laplacian")
}

// ForwardDiff is the periodic forward difference along one axis:
// (t[i+1] - t[i]) / h.
func (g Grid) ForwardDiff(t utils.Tensor, axis int) utils.Tensor {
	h := g.step[axis]
	return t.Shift(axis, 1).Subtract(t).Scale(1 / h)
}

// BackwardDiff is the periodic backward difference along one axis:
// (t[i] - t[i-1]) / h. Composing BackwardDiff with ForwardDiff reproduces
// the assembled Laplacian stencil exactly.
func (g Grid) BackwardDiff(t utils.Tensor, axis int) utils.Tensor {
	h := g.step[axis]
	return t.Copy().Subtract(t.Shift(axis, -1)).Scale(1 / h)
}

// CenteredDiff is the periodic centered difference along one axis:
// (t[i+1] - t[i-1]) / (2h).
func (g Grid) CenteredDiff(t utils.Tensor, axis int) utils.Tensor {
	h := g.step[axis]
	return t.Shift(axis, 1).Subtract(t.Shift(axis, -1)).Scale(1 / (2 * h))
}
