package fastdiag

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/chenhsu16/jax-cfd/utils"
)

// eigenpair holds the dense decomposition of one symmetric operator. The
// eigenvector columns are orthonormal, so the inverse transform is the
// transpose.
type eigenpair struct {
	vectors utils.Matrix // columns are eigenvectors
	inverse utils.Matrix // transpose of vectors
	values  []float64
}

func decomposeSymmetric(op utils.Matrix, axis int) (p eigenpair, err error) {
	var (
		n, _ = op.Dims()
	)
	if !op.IsSymmetric() {
		err = &ImplementationMismatchError{HermitianMatmul,
			fmt.Sprintf("operator for axis %d is not symmetric", axis)}
		return
	}
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, op.At(i, j))
		}
	}
	var eig mat.EigenSym
	if ok := eig.Factorize(sym, true); !ok {
		panic("eigenvalue decomposition failed")
	}
	Q := utils.NewMatrix(n, n)
	eig.VectorsTo(Q.M)
	p = eigenpair{
		vectors: Q,
		inverse: Q.Transpose(),
		values:  eig.Values(nil),
	}
	return
}

// buildMatmul constructs the dense eigendecomposition strategy: transform the
// rhs into the per-axis eigenbases, scale by fn of the combined eigenvalues,
// and transform back. Operators must be exactly symmetric.
func buildMatmul(fn TransferFunc, operators []utils.Matrix, opts Options) (*Solver, error) {
	var (
		shape = operatorShape(operators)
		pairs = make([]eigenpair, len(operators))
	)
	for a, op := range operators {
		p, err := decomposeSymmetric(op, a)
		if err != nil {
			return nil, err
		}
		pairs[a] = p
	}

	eigs := make([][]complex128, len(pairs))
	for a, p := range pairs {
		ev := make([]complex128, len(p.values))
		for i, v := range p.values {
			ev[i] = complex(v, 0)
		}
		eigs[a] = ev
	}
	cfactors := combineEigenvalues(fn, eigs, shape)
	factors := utils.NewTensor(shape)
	for i, c := range cfactors {
		factors.Data()[i] = real(c)
	}
	cfactorsT := utils.NewCTensor(shape, cfactors)

	s := &Solver{
		strategy:  HermitianMatmul,
		dtype:     opts.Dtype,
		precision: opts.Precision,
		shape:     shape,
	}
	s.applyReal = func(rhs utils.Tensor) utils.Tensor {
		out := rhs
		for a, p := range pairs {
			out = out.ContractAxis(p.inverse, a)
		}
		out.ElMul(factors)
		for a, p := range pairs {
			out = out.ContractAxis(p.vectors, a)
		}
		return out
	}
	s.applyCmplx = func(rhs utils.CTensor) utils.CTensor {
		out := rhs
		for a, p := range pairs {
			out = out.ContractAxis(p.inverse, a)
		}
		out.ElMul(cfactorsT)
		for a, p := range pairs {
			out = out.ContractAxis(p.vectors, a)
		}
		return out
	}
	return s, nil
}
