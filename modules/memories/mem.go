package memories

import (
	"fmt"
	"math/big"
	"slices"

	"github.com/specialistvlad/cyclesim/internal/primitive"
	"github.com/specialistvlad/cyclesim/internal/value"
)

// mem is a row-major memory with one combinational read port and one
// write port. Both d1 and d2 variants share it; they differ in the number
// of address ports.
type mem struct {
	width    int
	dims     []int
	idxWidth []int
}

type memState struct {
	data []*big.Int
	done bool
}

func newMemD1(params primitive.Params) (primitive.Primitive, error) {
	if err := params.Expect(3); err != nil {
		return nil, err
	}
	return newMem(params, 1)
}

func newMemD2(params primitive.Params) (primitive.Primitive, error) {
	if err := params.Expect(5); err != nil {
		return nil, err
	}
	return newMem(params, 2)
}

// newMem reads WIDTH, SIZE_0..SIZE_n-1, IDX_0..IDX_n-1.
func newMem(params primitive.Params, n int) (primitive.Primitive, error) {
	width, err := params.Int(0)
	if err != nil {
		return nil, err
	}
	m := &mem{width: width}
	for i := 0; i < n; i++ {
		size, err := params.Int(1 + i)
		if err != nil {
			return nil, err
		}
		idx, err := params.Int(1 + n + i)
		if err != nil {
			return nil, err
		}
		if idx > 62 || size > 1<<idx {
			return nil, fmt.Errorf("address width %d cannot index %d entries", idx, size)
		}
		m.dims = append(m.dims, size)
		m.idxWidth = append(m.idxWidth, idx)
	}
	return m, nil
}

func (m *mem) addrName(i int) string { return fmt.Sprintf("addr%d", i) }

func (m *mem) Signature() primitive.Signature {
	var inputs []primitive.PortSpec
	var addrs []string
	for i, w := range m.idxWidth {
		inputs = append(inputs, in(m.addrName(i), w))
		addrs = append(addrs, m.addrName(i))
	}
	inputs = append(inputs, in("write_data", m.width), in("write_en", 1))
	return primitive.Signature{
		Inputs:   inputs,
		Outputs:  []primitive.PortSpec{out("read_data", m.width), out("done", 1)},
		CombDeps: map[string][]string{"read_data": addrs},
		Stateful: true,
	}
}

func (m *mem) size() int {
	n := 1
	for _, d := range m.dims {
		n *= d
	}
	return n
}

func (m *mem) Init() primitive.State {
	data := make([]*big.Int, m.size())
	for i := range data {
		data[i] = new(big.Int)
	}
	return memState{data: data}
}

// offset returns the flat index addressed by in, or ok=false when an address
// is undefined or out of range.
func (m *mem) offset(in []value.Value) (int, bool) {
	off := 0
	for i, d := range m.dims {
		a, ok := in[i].Uint64()
		if !ok || a >= uint64(d) {
			return 0, false
		}
		off = off*d + int(a)
	}
	return off, true
}

func (m *mem) Poke(st primitive.State, in []value.Value) []value.Value {
	s := st.(memState)
	readData := value.Unknown()
	if off, ok := m.offset(in); ok {
		readData = value.Truncate(m.width, s.data[off])
	}
	return []value.Value{readData, value.Bool(s.done)}
}

func (m *mem) Tick(st primitive.State, in []value.Value) (primitive.State, error) {
	s := st.(memState)
	n := len(m.dims)
	if !in[n+1].IsTrue() {
		return memState{data: s.data}, nil
	}
	for _, a := range in[:n] {
		if !a.IsDefined() {
			return memState{data: s.data}, fmt.Errorf("%w: write_en is high but the address %v is undefined", primitive.ErrHeld, in[:n])
		}
	}
	off, ok := m.offset(in)
	if !ok {
		return nil, fmt.Errorf("write_en is high but the address %v is out of range", in[:n])
	}
	if !in[n].IsDefined() {
		return memState{data: s.data}, fmt.Errorf("%w: write_en is high but write_data is undefined", primitive.ErrHeld)
	}
	data := slices.Clone(s.data)
	data[off] = in[n].Bits()
	return memState{data: data, done: true}, nil
}

func (m *mem) Dims() []int { return slices.Clone(m.dims) }

func (m *mem) DataWidth() int { return m.width }

func (m *mem) Load(_ primitive.State, data []*big.Int) (primitive.State, error) {
	if len(data) != m.size() {
		return nil, fmt.Errorf("memory expects %d values, got %d", m.size(), len(data))
	}
	cp := make([]*big.Int, len(data))
	for i, d := range data {
		if !value.Fits(m.width, d) {
			return nil, fmt.Errorf("value %d: %s does not fit in %d bits", i, d, m.width)
		}
		cp[i] = new(big.Int).Set(d)
	}
	return memState{data: cp}, nil
}

func (m *mem) Dump(st primitive.State) []*big.Int {
	s := st.(memState)
	out := make([]*big.Int, len(s.data))
	for i, d := range s.data {
		out[i] = new(big.Int).Set(d)
	}
	return out
}
