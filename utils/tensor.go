package utils

import (
	"fmt"
)

// Tensor is a dense N-dimensional float64 array in row-major order. The last
// axis is contiguous in memory; strides[a] gives the flat distance between
// neighbors along axis a.
type Tensor struct {
	shape   []int
	strides []int
	data    []float64
}

func NewTensor(shape []int, dataO ...[]float64) (T Tensor) {
	var (
		size = ShapeSize(shape)
	)
	if size <= 0 {
		err := fmt.Errorf("invalid tensor shape: %v", shape)
		panic(err)
	}
	var data []float64
	if len(dataO) != 0 {
		if len(dataO[0]) != size {
			err := fmt.Errorf("mismatch in allocation: NewTensor shape = %v, len(data[0]) = %v", shape, len(dataO[0]))
			panic(err)
		}
		data = dataO[0]
	} else {
		data = make([]float64, size)
	}
	T = Tensor{
		shape:   append([]int{}, shape...),
		strides: RowMajorStrides(shape),
		data:    data,
	}
	return
}

func ShapeSize(shape []int) (size int) {
	size = 1
	for _, n := range shape {
		size *= n
	}
	if len(shape) == 0 {
		size = 0
	}
	return
}

func RowMajorStrides(shape []int) (strides []int) {
	strides = make([]int, len(shape))
	stride := 1
	for a := len(shape) - 1; a >= 0; a-- {
		strides[a] = stride
		stride *= shape[a]
	}
	return
}

func ShapeEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (t Tensor) Ndim() int       { return len(t.shape) }
func (t Tensor) Size() int       { return len(t.data) }
func (t Tensor) Data() []float64 { return t.data }
func (t Tensor) Strides() []int  { return t.strides }

func (t Tensor) Shape() (shape []int) {
	shape = append(shape, t.shape...)
	return
}

func (t Tensor) flatIndex(idx []int) (flat int) {
	if len(idx) != len(t.shape) {
		err := fmt.Errorf("index rank %v does not match tensor rank %v", len(idx), len(t.shape))
		panic(err)
	}
	for a, i := range idx {
		flat += i * t.strides[a]
	}
	return
}

func (t Tensor) At(idx ...int) float64 {
	return t.data[t.flatIndex(idx)]
}

func (t Tensor) Set(val float64, idx ...int) Tensor { // Changes receiver
	t.data[t.flatIndex(idx)] = val
	return t
}

func (t Tensor) Copy() (R Tensor) { // Does not change receiver
	dataR := make([]float64, len(t.data))
	copy(dataR, t.data)
	R = NewTensor(t.shape, dataR)
	return
}

func (t Tensor) Add(a Tensor) Tensor { // Changes receiver
	var (
		data  = t.data
		dataA = a.data
	)
	for i, val := range dataA {
		data[i] += val
	}
	return t
}

func (t Tensor) Subtract(a Tensor) Tensor { // Changes receiver
	var (
		data  = t.data
		dataA = a.data
	)
	for i, val := range dataA {
		data[i] -= val
	}
	return t
}

func (t Tensor) Scale(a float64) Tensor { // Changes receiver
	for i := range t.data {
		t.data[i] *= a
	}
	return t
}

func (t Tensor) Apply(f func(float64) float64) Tensor { // Changes receiver
	for i, val := range t.data {
		t.data[i] = f(val)
	}
	return t
}

func (t Tensor) ElMul(a Tensor) Tensor { // Changes receiver
	var (
		data  = t.data
		dataA = a.data
	)
	for i, val := range dataA {
		data[i] *= val
	}
	return t
}

func (t Tensor) Min() (min float64) {
	min = t.data[0]
	for _, val := range t.data {
		if val < min {
			min = val
		}
	}
	return
}

func (t Tensor) Max() (max float64) {
	max = t.data[0]
	for _, val := range t.data {
		if val > max {
			max = val
		}
	}
	return
}

// Shift produces a periodically rolled copy where along axis the element at
// position i takes the value previously at position (i+k) mod n.
func (t Tensor) Shift(axis, k int) (R Tensor) { // Does not change receiver
	var (
		n     = t.shape[axis]
		inner = t.strides[axis]
		outer = len(t.data) / (n * inner)
	)
	R = NewTensor(t.shape)
	dataR := R.data
	for o := 0; o < outer; o++ {
		base := o * n * inner
		for i := 0; i < n; i++ {
			src := ((i+k)%n + n) % n
			copy(dataR[base+i*inner:base+(i+1)*inner], t.data[base+src*inner:base+(src+1)*inner])
		}
	}
	return
}

// ContractAxis contracts the tensor with a matrix along one axis:
// R[..., i, ...] = sum_j m[i,j] * t[..., j, ...]. The matrix column count
// must equal the tensor extent on that axis; the result extent equals the
// matrix row count.
func (t Tensor) ContractAxis(m Matrix, axis int) (R Tensor) { // Does not change receiver
	var (
		n      = t.shape[axis]
		inner  = t.strides[axis]
		outer  = len(t.data) / (n * inner)
		mr, mc = m.Dims()
		md     = m.RawMatrix().Data
	)
	if mc != n {
		err := fmt.Errorf("dimension mismatch in ContractAxis: matrix %vx%v against axis %v extent %v", mr, mc, axis, n)
		panic(err)
	}
	shapeR := t.Shape()
	shapeR[axis] = mr
	R = NewTensor(shapeR)
	dataR := R.data
	for o := 0; o < outer; o++ {
		baseIn := o * n * inner
		baseOut := o * mr * inner
		for i := 0; i < mr; i++ {
			row := md[i*mc : (i+1)*mc]
			out := dataR[baseOut+i*inner : baseOut+(i+1)*inner]
			for j, v := range row {
				if v == 0 {
					continue
				}
				in := t.data[baseIn+j*inner : baseIn+(j+1)*inner]
				for k, w := range in {
					out[k] += v * w
				}
			}
		}
	}
	return
}
