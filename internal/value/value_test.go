package value

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	three := Uint(8, 3)
	four := Uint(8, 4)

	testCases := []struct {
		name     string
		a, b     Value
		expected Value
	}{
		{name: "unknown is identity (left)", a: Unknown(), b: three, expected: three},
		{name: "unknown is identity (right)", a: three, b: Unknown(), expected: three},
		{name: "both unknown", a: Unknown(), b: Unknown(), expected: Unknown()},
		{name: "equal defined values", a: three, b: Uint(8, 3), expected: three},
		{name: "different defined values", a: three, b: four, expected: Conflict()},
		{name: "conflict absorbs defined", a: Conflict(), b: three, expected: Conflict()},
		{name: "conflict absorbs unknown", a: Unknown(), b: Conflict(), expected: Conflict()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Merge(tc.a, tc.b)
			assert.True(t, tc.expected.Equal(got), "expected %s, got %s", tc.expected, got)
			assert.True(t, Merge(tc.b, tc.a).Equal(got), "merge must be commutative")
		})
	}
}

func TestNew(t *testing.T) {
	v, err := New(4, big.NewInt(15))
	require.NoError(t, err)
	assert.Equal(t, 4, v.Width())
	n, ok := v.Uint64()
	require.True(t, ok)
	assert.Equal(t, uint64(15), n)

	_, err = New(4, big.NewInt(16))
	assert.Error(t, err, "16 needs five bits")

	_, err = New(4, big.NewInt(-1))
	assert.Error(t, err)

	_, err = New(0, big.NewInt(0))
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.True(t, Uint(4, 0x1f).Equal(Uint(4, 0xf)))
	assert.True(t, Truncate(8, big.NewInt(-1)).Equal(Uint(8, 255)))

	wide := new(big.Int).Lsh(big.NewInt(1), 100)
	v := Truncate(101, wide)
	assert.Equal(t, 0, v.Bits().Cmp(wide))
	_, ok := v.Uint64()
	assert.False(t, ok)
}

func TestPredicates(t *testing.T) {
	assert.True(t, Bool(true).IsTrue())
	assert.True(t, Bool(false).IsFalse())
	assert.False(t, Unknown().IsTrue())
	assert.False(t, Unknown().IsFalse())
	assert.False(t, Conflict().IsTrue())
	assert.Nil(t, Unknown().Bits())
	assert.Equal(t, "x", Unknown().String())
	assert.Equal(t, "8'd42", Uint(8, 42).String())
	assert.False(t, Uint(8, 1).Equal(Uint(4, 1)), "width is part of equality")
}

func TestBitsIsACopy(t *testing.T) {
	v := Uint(8, 7)
	b := v.Bits()
	b.SetInt64(0)
	n, _ := v.Uint64()
	assert.Equal(t, uint64(7), n)
}
