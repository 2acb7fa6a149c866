package fastdiag

import (
	"fmt"

	"github.com/chenhsu16/jax-cfd/utils"
)

// Dtype declares the numeric type of the right-hand sides a solver accepts.
// Operators themselves are always real square matrices.
type Dtype uint8

const (
	Float64 Dtype = iota
	Complex128
)

func (d Dtype) String() string {
	switch d {
	case Float64:
		return "float64"
	case Complex128:
		return "complex128"
	}
	return fmt.Sprintf("Dtype(%d)", d)
}

// Precision is an opaque accuracy knob for the dense contraction kernel. It
// is recorded and forwarded, never branched on; the pure-Go BLAS backend has
// a single precision mode so it only matters under accelerated backends.
type Precision uint8

const (
	PrecisionDefault Precision = iota
	PrecisionHigh
	PrecisionHighest
)

// Strategy selects the per-axis diagonalization scheme. It is resolved once
// at solver construction; no string matching happens per solve.
type Strategy uint8

const (
	StrategyAuto Strategy = iota
	HermitianMatmul
	CirculantFFT
	CirculantRFFT
)

func (s Strategy) String() string {
	switch s {
	case StrategyAuto:
		return "auto"
	case HermitianMatmul:
		return "matmul"
	case CirculantFFT:
		return "fft"
	case CirculantRFFT:
		return "rfft"
	}
	return fmt.Sprintf("Strategy(%d)", s)
}

// ParseStrategy maps a configuration string to a Strategy. An empty string
// selects automatic strategy choice.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "auto":
		return StrategyAuto, nil
	case "matmul":
		return HermitianMatmul, nil
	case "fft":
		return CirculantFFT, nil
	case "rfft":
		return CirculantRFFT, nil
	}
	return StrategyAuto, fmt.Errorf("fastdiag: unknown strategy %q", s)
}

// HardwareClass hints whether the numeric backend runs on general-purpose
// cores or on accelerator hardware whose real-valued transforms are cheaper.
type HardwareClass uint8

const (
	GeneralPurpose HardwareClass = iota
	Accelerator
)

// DefaultRFFTThreshold is the transform-axis length at or above which the
// automatic policy prefers the real-FFT path on accelerator hardware. It is
// a performance heuristic, tunable via Options.RFFTThreshold.
const DefaultRFFTThreshold = 1024

type Options struct {
	Dtype     Dtype
	Hermitian bool // all operators symmetric
	Circulant bool // all operators circulant (determined by their first column)
	Strategy  Strategy
	Hardware  HardwareClass
	Precision Precision
	// RFFTThreshold overrides DefaultRFFTThreshold when positive.
	RFFTThreshold int
	// TransformAxis designates the axis halved by the real-FFT path.
	// Negative values count from the last axis; NewOptions sets -1.
	TransformAxis int
}

// NewOptions returns Options with the defaults expected by Transform: auto
// strategy, general-purpose hardware, default precision, last transform axis.
func NewOptions(dtype Dtype) Options {
	return Options{
		Dtype:         dtype,
		Strategy:      StrategyAuto,
		Hardware:      GeneralPurpose,
		Precision:     PrecisionDefault,
		RFFTThreshold: DefaultRFFTThreshold,
		TransformAxis: -1,
	}
}

func (o Options) rfftThreshold() int {
	if o.RFFTThreshold > 0 {
		return o.RFFTThreshold
	}
	return DefaultRFFTThreshold
}

func (o Options) transformAxis(ndim int) int {
	if o.TransformAxis < 0 {
		return ndim + o.TransformAxis
	}
	return o.TransformAxis
}

// validateOperators checks that every per-axis operator is square.
func validateOperators(operators []utils.Matrix) error {
	for a, op := range operators {
		if !op.IsSquare() {
			nr, nc := op.Dims()
			return &OperatorShapeError{Axis: a, Rows: nr, Cols: nc}
		}
	}
	if len(operators) == 0 {
		return &OperatorShapeError{Axis: 0, Rows: 0, Cols: 0}
	}
	return nil
}

// selectStrategy resolves the strategy once at construction time. With an
// explicit override the choice is validated against the operator flags; the
// automatic policy prefers the real-FFT path on accelerator hardware for
// long, even transform axes and falls back to dense eigendecomposition
// otherwise.
func selectStrategy(o Options, operators []utils.Matrix) (Strategy, error) {
	var (
		ax    = o.transformAxis(len(operators))
		n, _  = operators[ax].Dims()
		strat = o.Strategy
	)
	if strat == StrategyAuto {
		if o.Circulant && o.Dtype == Float64 && o.Hardware == Accelerator &&
			n >= o.rfftThreshold() && n%2 == 0 {
			strat = CirculantRFFT
		} else if o.Hermitian {
			strat = HermitianMatmul
		} else if o.Circulant {
			strat = CirculantFFT
		} else {
			strat = HermitianMatmul
		}
	}
	switch strat {
	case HermitianMatmul:
		if !o.Hermitian {
			return strat, &ImplementationMismatchError{strat, "operators not declared hermitian"}
		}
	case CirculantFFT:
		if !o.Circulant {
			return strat, &ImplementationMismatchError{strat, "operators not declared circulant"}
		}
	case CirculantRFFT:
		if !o.Circulant {
			return strat, &ImplementationMismatchError{strat, "operators not declared circulant"}
		}
		if n%2 != 0 {
			return strat, &ImplementationMismatchError{strat,
				fmt.Sprintf("transform axis %d has odd length %d", ax, n)}
		}
		if o.Dtype != Float64 {
			return strat, &ImplementationMismatchError{strat, "real transform requires float64 dtype"}
		}
	}
	return strat, nil
}
