package fastdiag

import (
	"math"
	"math/cmplx"

	"github.com/chenhsu16/jax-cfd/utils"
)

// DefaultCutoff is the eigenvalue magnitude below which the pseudoinverse
// treats a mode as singular: ten times machine epsilon for float64.
func DefaultCutoff() float64 {
	return 10 * (math.Nextafter(1, 2) - 1)
}

// Pseudoinverse builds a regularized Moore-Penrose style inverse of the
// Kronecker sum of operators: eigenvalues map to their reciprocal except
// near-zero ones, which map to zero. For a periodic Laplacian this nulls the
// constant (DC) mode instead of dividing by it, which is exactly the solve
// needed by pressure projection. An optional cutoff overrides DefaultCutoff.
func Pseudoinverse(operators []utils.Matrix, opts Options, cutoffO ...float64) (*Solver, error) {
	cutoff := DefaultCutoff()
	if len(cutoffO) != 0 {
		cutoff = cutoffO[0]
	}
	fn := func(lambda complex128) complex128 {
		if cmplx.Abs(lambda) > cutoff {
			return 1 / lambda
		}
		return 0
	}
	return Transform(fn, operators, opts)
}
