package utils

import (
	"fmt"
)

// CTensor is the complex128 counterpart of Tensor, used by the Fourier-space
// solver paths. Same row-major layout conventions.
type CTensor struct {
	shape   []int
	strides []int
	data    []complex128
}

func NewCTensor(shape []int, dataO ...[]complex128) (T CTensor) {
	var (
		size = ShapeSize(shape)
	)
	if size <= 0 {
		err := fmt.Errorf("invalid tensor shape: %v", shape)
		panic(err)
	}
	var data []complex128
	if len(dataO) != 0 {
		if len(dataO[0]) != size {
			err := fmt.Errorf("mismatch in allocation: NewCTensor shape = %v, len(data[0]) = %v", shape, len(dataO[0]))
			panic(err)
		}
		data = dataO[0]
	} else {
		data = make([]complex128, size)
	}
	T = CTensor{
		shape:   append([]int{}, shape...),
		strides: RowMajorStrides(shape),
		data:    data,
	}
	return
}

// NewCTensorFromReal widens a real tensor into a complex one.
func NewCTensorFromReal(t Tensor) (R CTensor) {
	R = NewCTensor(t.Shape())
	for i, val := range t.Data() {
		R.data[i] = complex(val, 0)
	}
	return
}

func (t CTensor) Ndim() int          { return len(t.shape) }
func (t CTensor) Size() int          { return len(t.data) }
func (t CTensor) Data() []complex128 { return t.data }
func (t CTensor) Strides() []int     { return t.strides }

func (t CTensor) Shape() (shape []int) {
	shape = append(shape, t.shape...)
	return
}

func (t CTensor) flatIndex(idx []int) (flat int) {
	if len(idx) != len(t.shape) {
		err := fmt.Errorf("index rank %v does not match tensor rank %v", len(idx), len(t.shape))
		panic(err)
	}
	for a, i := range idx {
		flat += i * t.strides[a]
	}
	return
}

func (t CTensor) At(idx ...int) complex128 {
	return t.data[t.flatIndex(idx)]
}

func (t CTensor) Set(val complex128, idx ...int) CTensor { // Changes receiver
	t.data[t.flatIndex(idx)] = val
	return t
}

func (t CTensor) Copy() (R CTensor) { // Does not change receiver
	dataR := make([]complex128, len(t.data))
	copy(dataR, t.data)
	R = NewCTensor(t.shape, dataR)
	return
}

func (t CTensor) Scale(a complex128) CTensor { // Changes receiver
	for i := range t.data {
		t.data[i] *= a
	}
	return t
}

func (t CTensor) ElMul(a CTensor) CTensor { // Changes receiver
	var (
		data  = t.data
		dataA = a.data
	)
	for i, val := range dataA {
		data[i] *= val
	}
	return t
}

// Real narrows to a float64 tensor, discarding imaginary parts.
func (t CTensor) Real() (R Tensor) {
	R = NewTensor(t.shape)
	dataR := R.Data()
	for i, val := range t.data {
		dataR[i] = real(val)
	}
	return
}

// ContractAxis contracts the complex tensor against a real matrix along one
// axis, the complex analogue of Tensor.ContractAxis.
func (t CTensor) ContractAxis(m Matrix, axis int) (R CTensor) { // Does not change receiver
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
	R = NewCTensor(shapeR)
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
					out[k] += complex(v, 0) * w
				}
			}
		}
	}
	return
}
