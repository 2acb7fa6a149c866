package fastdiag

import (
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/chenhsu16/jax-cfd/utils"
)

// circulantEigenvalues computes the eigenvalues of a circulant operator as
// the DFT of its first column (the convolution kernel the matrix applies).
// Bin ordering matches the unshifted FFT layout used by the solve transforms.
func circulantEigenvalues(op utils.Matrix) []complex128 {
	var (
		n, _ = op.Dims()
		col  = make([]complex128, n)
	)
	for i := 0; i < n; i++ {
		col[i] = complex(op.At(i, 0), 0)
	}
	fft := fourier.NewCmplxFFT(n)
	return fft.Coefficients(nil, col)
}

// fftAxis applies an unnormalized 1-D complex FFT along one axis of a
// tensor, in place. Lines are gathered through the axis stride, transformed,
// and scattered back.
func fftAxis(t utils.CTensor, axis int, inverse bool) {
	var (
		shape   = t.Shape()
		strides = t.Strides()
		data    = t.Data()
		n       = shape[axis]
		inner   = strides[axis]
		outer   = len(data) / (n * inner)
		fft     = fourier.NewCmplxFFT(n)
		line    = make([]complex128, n)
		coef    = make([]complex128, n)
	)
	for o := 0; o < outer; o++ {
		base := o * n * inner
		for k := 0; k < inner; k++ {
			for i := 0; i < n; i++ {
				line[i] = data[base+i*inner+k]
			}
			if inverse {
				fft.Sequence(coef, line)
			} else {
				fft.Coefficients(coef, line)
			}
			for i := 0; i < n; i++ {
				data[base+i*inner+k] = coef[i]
			}
		}
	}
}

// buildFFT constructs the full-complex Fourier strategy: the rhs goes through
// an N-dimensional FFT, is scaled by fn of the combined eigenvalues in
// frequency space, and comes back through the inverse FFT. gonum transforms
// are unnormalized, so the inverse pass carries a 1/size factor.
func buildFFT(fn TransferFunc, operators []utils.Matrix, opts Options) (*Solver, error) {
	var (
		shape = operatorShape(operators)
		eigs  = make([][]complex128, len(operators))
	)
	for a, op := range operators {
		eigs[a] = circulantEigenvalues(op)
	}
	factors := utils.NewCTensor(shape, combineEigenvalues(fn, eigs, shape))
	norm := complex(1/float64(utils.ShapeSize(shape)), 0)

	applyCmplx := func(rhs utils.CTensor) utils.CTensor {
		out := rhs.Copy()
		for a := range shape {
			fftAxis(out, a, false)
		}
		out.ElMul(factors)
		for a := range shape {
			fftAxis(out, a, true)
		}
		return out.Scale(norm)
	}

	s := &Solver{
		strategy:   CirculantFFT,
		dtype:      opts.Dtype,
		precision:  opts.Precision,
		shape:      shape,
		applyCmplx: applyCmplx,
	}
	s.applyReal = func(rhs utils.Tensor) utils.Tensor {
		// Real dtype: the roundoff-level imaginary residue is discarded.
		return applyCmplx(utils.NewCTensorFromReal(rhs)).Real()
	}
	return s, nil
}

// buildRFFT constructs the half-spectrum strategy: a real-to-complex
// transform on the designated axis exploits Hermitian symmetry for half the
// work there, full complex FFTs cover the remaining axes. Requires an even
// transform-axis length and a real dtype; slightly larger rounding error than
// the full-FFT path is accepted.
func buildRFFT(fn TransferFunc, operators []utils.Matrix, opts Options) (*Solver, error) {
	var (
		shape = operatorShape(operators)
		ax    = opts.transformAxis(len(operators))
		n     = shape[ax]
		eigs  = make([][]complex128, len(operators))
	)
	// Frequency-space shape: the transform axis keeps n/2+1 bins.
	freqShape := append([]int{}, shape...)
	freqShape[ax] = n/2 + 1
	for a, op := range operators {
		if a == ax {
			eigs[a] = circulantEigenvalues(op)[:n/2+1]
		} else {
			eigs[a] = circulantEigenvalues(op)
		}
	}
	factors := utils.NewCTensor(freqShape, combineEigenvalues(fn, eigs, freqShape))
	norm := 1 / float64(utils.ShapeSize(shape))

	s := &Solver{
		strategy:  CirculantRFFT,
		dtype:     opts.Dtype,
		precision: opts.Precision,
		shape:     shape,
	}
	s.applyReal = func(rhs utils.Tensor) utils.Tensor {
		var (
			fft       = fourier.NewFFT(n)
			inStride  = rhs.Strides()[ax]
			inData    = rhs.Data()
			outer     = len(inData) / (n * inStride)
			line      = make([]float64, n)
			half      = make([]complex128, n/2+1)
			freq      = utils.NewCTensor(freqShape)
			outStride = freq.Strides()[ax]
			fdata     = freq.Data()
			nf        = freqShape[ax]
		)
		// Real-to-complex transform along the designated axis.
		for o := 0; o < outer; o++ {
			baseIn := o * n * inStride
			baseOut := o * nf * outStride
			for k := 0; k < inStride; k++ {
				for i := 0; i < n; i++ {
					line[i] = inData[baseIn+i*inStride+k]
				}
				fft.Coefficients(half, line)
				for i := 0; i < nf; i++ {
					fdata[baseOut+i*outStride+k] = half[i]
				}
			}
		}
		for a := range freqShape {
			if a != ax {
				fftAxis(freq, a, false)
			}
		}
		freq.ElMul(factors)
		for a := range freqShape {
			if a != ax {
				fftAxis(freq, a, true)
			}
		}
		// Complex-to-real transform back, with the combined normalization.
		out := utils.NewTensor(shape)
		outData := out.Data()
		for o := 0; o < outer; o++ {
			baseIn := o * nf * outStride
			baseOut := o * n * inStride
			for k := 0; k < inStride; k++ {
				for i := 0; i < nf; i++ {
					half[i] = fdata[baseIn+i*outStride+k]
				}
				fft.Sequence(line, half)
				for i := 0; i < n; i++ {
					outData[baseOut+i*inStride+k] = line[i] * norm
				}
			}
		}
		return out
	}
	return s, nil
}
