// Package fastdiag solves separable linear systems by fast diagonalization.
//
// An operator that is a Kronecker sum of per-axis 1-D operators (for example
// the discrete Laplacian on a regular grid) is diagonalized axis by axis,
// either with a dense symmetric eigendecomposition or with the Fourier basis
// when the operators are circulant. A caller-supplied scalar transfer
// function is applied to the combined eigenvalues, which yields matrix
// functions of the full operator at the cost of 1-D decompositions: the
// reciprocal gives the solver used for pressure-Poisson projection.
//
// The expensive decomposition happens once in Transform or Pseudoinverse;
// the returned Solver is reused across right-hand sides.
package fastdiag

import (
	"github.com/chenhsu16/jax-cfd/utils"
)

// TransferFunc maps a combined eigenvalue to the scalar multiplier applied in
// the diagonal basis. For the matmul strategy eigenvalues are real and the
// function must map reals to reals; the imaginary part of its result is
// discarded there.
type TransferFunc func(lambda complex128) complex128

// Identity passes eigenvalues through unchanged, so the solver applies the
// combined operator itself.
func Identity(lambda complex128) complex128 { return lambda }

// Solver applies a fixed scalar function of a separable operator to
// right-hand-side tensors. Built once by Transform; Apply performs no
// allocation of decompositions and is safe for concurrent use as long as
// callers do not share rhs storage.
type Solver struct {
	strategy   Strategy
	dtype      Dtype
	precision  Precision
	shape      []int
	applyReal  func(rhs utils.Tensor) utils.Tensor
	applyCmplx func(rhs utils.CTensor) utils.CTensor
}

func (s *Solver) Strategy() Strategy   { return s.strategy }
func (s *Solver) Dtype() Dtype         { return s.dtype }
func (s *Solver) Precision() Precision { return s.precision }

func (s *Solver) Shape() (shape []int) {
	shape = append(shape, s.shape...)
	return
}

// Apply solves for a real right-hand side. The result has the same shape and
// dtype; inputs are never mutated.
func (s *Solver) Apply(rhs utils.Tensor) (utils.Tensor, error) {
	if s.dtype != Float64 {
		return utils.Tensor{}, &DtypeMismatchError{Got: Float64, Want: s.dtype}
	}
	if !utils.ShapeEqual(rhs.Shape(), s.shape) {
		return utils.Tensor{}, &ShapeMismatchError{Got: rhs.Shape(), Want: s.Shape()}
	}
	return s.applyReal(rhs), nil
}

// ApplyComplex solves for a complex right-hand side.
func (s *Solver) ApplyComplex(rhs utils.CTensor) (utils.CTensor, error) {
	if s.dtype != Complex128 {
		return utils.CTensor{}, &DtypeMismatchError{Got: Complex128, Want: s.dtype}
	}
	if !utils.ShapeEqual(rhs.Shape(), s.shape) {
		return utils.CTensor{}, &ShapeMismatchError{Got: rhs.Shape(), Want: s.Shape()}
	}
	return s.applyCmplx(rhs), nil
}

// Transform builds a Solver computing fn of the Kronecker sum of operators.
// One operator per rhs axis, each square with side equal to the rhs extent on
// that axis. Decomposition cost is paid here; the Solver amortizes it across
// repeated Apply calls.
func Transform(fn TransferFunc, operators []utils.Matrix, opts Options) (*Solver, error) {
	if err := validateOperators(operators); err != nil {
		return nil, err
	}
	strat, err := selectStrategy(opts, operators)
	if err != nil {
		return nil, err
	}
	switch strat {
	case HermitianMatmul:
		return buildMatmul(fn, operators, opts)
	case CirculantFFT:
		return buildFFT(fn, operators, opts)
	default:
		return buildRFFT(fn, operators, opts)
	}
}

func operatorShape(operators []utils.Matrix) (shape []int) {
	shape = make([]int, len(operators))
	for a, op := range operators {
		shape[a], _ = op.Dims()
	}
	return
}

// combineEigenvalues evaluates fn over the Kronecker-sum combination of the
// per-axis eigenvalue vectors. Each vector is broadcast by index arithmetic
// against row-major strides, so nothing larger than the result itself is
// materialized.
func combineEigenvalues(fn TransferFunc, eigs [][]complex128, shape []int) (factors []complex128) {
	var (
		strides = utils.RowMajorStrides(shape)
		size    = utils.ShapeSize(shape)
	)
	factors = make([]complex128, size)
	for flat := 0; flat < size; flat++ {
		var sum complex128
		for a, ev := range eigs {
			sum += ev[(flat/strides[a])%shape[a]]
		}
		factors[flat] = fn(sum)
	}
	return
}
