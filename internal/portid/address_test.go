// internal/portid/address_test.go
package portid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress_String(t *testing.T) {
	testCases := []struct {
		name        string
		addr        *Address
		expectedStr string
	}{
		{name: "port", addr: New("main", "r", "out"), expectedStr: "main.r.out"},
		{name: "hole", addr: NewHole(HoleDone, "main", "incr"), expectedStr: "main.incr[done]"},
		{name: "nil address", addr: nil, expectedStr: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStr, tc.addr.String())
		})
	}
}

func TestAddress_RoundTrip(t *testing.T) {
	for _, id := range []string{"main.a.b", "main.sub.g[go]", "main.x"} {
		t.Run(id, func(t *testing.T) {
			addr, err := Parse(id)
			require.NoError(t, err)
			assert.Equal(t, id, addr.String())
		})
	}
}

func TestAddress_Navigation(t *testing.T) {
	inst := New("main", "sub")
	port := inst.Child("r").Child("out")
	assert.Equal(t, "main.sub.r.out", port.String())
	assert.Equal(t, "out", port.Name())
	assert.Equal(t, "main.sub.r", port.Parent().String())
	assert.Nil(t, New("main").Parent())
	assert.Equal(t, "main.sub.g[done]", inst.Child("g").WithHole(HoleDone).String())
	assert.True(t, inst.Child("g").WithHole(HoleGo).IsHole())
	assert.Equal(t, "sub.r.out", port.Rel("main"))
	assert.Equal(t, "other.r", New("other", "r").Rel("main"))
	assert.Equal(t, "", (*Address)(nil).Name())
}
