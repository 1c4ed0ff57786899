package registry

import (
	"errors"
	"testing"

	"github.com/specialistvlad/cyclesim/internal/primitive"
	"github.com/specialistvlad/cyclesim/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePrim struct{ sig primitive.Signature }

func (f *fakePrim) Signature() primitive.Signature { return f.sig }
func (f *fakePrim) Init() primitive.State          { return nil }
func (f *fakePrim) Poke(primitive.State, []value.Value) []value.Value {
	return make([]value.Value, len(f.sig.Outputs))
}
func (f *fakePrim) Tick(st primitive.State, _ []value.Value) (primitive.State, error) {
	return st, nil
}

type fakeModule struct{ sig primitive.Signature }

func (m fakeModule) Register(r *Registry) {
	r.RegisterPrimitive("fake", func(primitive.Params) (primitive.Primitive, error) {
		return &fakePrim{sig: m.sig}, nil
	})
	r.RegisterPrimitive("broken", func(primitive.Params) (primitive.Primitive, error) {
		return nil, errors.New("bad params")
	})
}

func TestRegistry_Instantiate(t *testing.T) {
	good := primitive.Signature{
		Inputs:   []primitive.PortSpec{{Name: "in", Dir: primitive.Input, Width: 4}},
		Outputs:  []primitive.PortSpec{{Name: "out", Dir: primitive.Output, Width: 4}},
		CombDeps: map[string][]string{"out": {"in"}},
	}
	r := New(fakeModule{sig: good})

	assert.True(t, r.Has("fake"))
	assert.Equal(t, []string{"broken", "fake"}, r.Names())

	p, err := r.Instantiate("fake", nil)
	require.NoError(t, err)
	assert.Len(t, p.Signature().Inputs, 1)

	_, err = r.Instantiate("nope", nil)
	assert.ErrorContains(t, err, "unknown primitive 'nope'")

	_, err = r.Instantiate("broken", nil)
	assert.ErrorContains(t, err, "bad params")
}

func TestRegistry_RejectsMalformedSignature(t *testing.T) {
	bad := primitive.Signature{
		Inputs:   []primitive.PortSpec{{Name: "in", Dir: primitive.Input, Width: 0}},
		Outputs:  []primitive.PortSpec{{Name: "in", Dir: primitive.Output, Width: 4}},
		CombDeps: map[string][]string{"out": {"missing"}},
	}
	r := New(fakeModule{sig: bad})

	_, err := r.Instantiate("fake", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate port 'in'")
	assert.Contains(t, err.Error(), "non-positive width")
	assert.Contains(t, err.Error(), "unknown output 'out'")
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := New()
	r.RegisterPrimitive("x", nil)
	assert.Panics(t, func() { r.RegisterPrimitive("x", nil) })
}
