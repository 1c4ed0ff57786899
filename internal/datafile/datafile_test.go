package datafile_test

import (
	"bytes"
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/cyclesim/internal/datafile"
	"github.com/specialistvlad/cyclesim/internal/driver"
	"github.com/specialistvlad/cyclesim/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const store = `
	component "main" {
	  cell "mem" "std_mem_d1" {
	    params   = [8, 4, 2]
	    external = true
	  }
	  cell "matrix" "std_mem_d2" {
	    params   = [8, 2, 3, 1, 2]
	    external = true
	  }
	  cell "r" "std_reg" {
	    params   = [8]
	    external = true
	  }
	  group "store" {
	    assign {
	      dst = mem.addr0
	      src = 0
	    }
	    assign {
	      dst = mem.write_data
	      src = 9
	    }
	    assign {
	      dst = mem.write_en
	      src = 1
	    }
	    assign {
	      dst = store.done
	      src = mem.done
	    }
	  }
	  control {
	    enable "store" {}
	  }
	}
`

const seed = `{
  "mem": {
    "data": [1, 2, 3, 4],
    "format": {"numeric_type": "bitnum", "is_signed": false, "width": 8}
  },
  "matrix": {
    "data": [[1, 2, 3], [4, 5, 255]],
    "format": {"numeric_type": "bitnum", "is_signed": false, "width": 8}
  }
}`

func newDriver(t *testing.T) (context.Context, *driver.Driver) {
	t.Helper()
	ctx, _ := testutil.Context(t)
	return ctx, driver.New(ctx, testutil.MustLoad(t, store))
}

func read(t *testing.T, src string) datafile.File {
	t.Helper()
	v, err := datafile.NewValidator()
	require.NoError(t, err)
	f, err := datafile.Read(v, strings.NewReader(src))
	require.NoError(t, err)
	return f
}

func ints(vals ...int64) []*big.Int {
	out := make([]*big.Int, len(vals))
	for i, v := range vals {
		out[i] = big.NewInt(v)
	}
	return out
}

var bigComparer = cmp.Comparer(func(a, b *big.Int) bool { return a.Cmp(b) == 0 })

func TestSeedRunExtract(t *testing.T) {
	ctx, d := newDriver(t)
	require.NoError(t, datafile.Seed(d, read(t, seed)))
	require.NoError(t, d.Run(ctx))

	f, err := datafile.Extract(d)
	require.NoError(t, err)
	assert.Equal(t, []string{"matrix", "mem", "r"}, f.Names())

	want := datafile.File{
		"mem": {
			Data:   []any{big.NewInt(9), big.NewInt(2), big.NewInt(3), big.NewInt(4)},
			Format: datafile.Format{NumericType: "bitnum", Width: 8},
		},
		"matrix": {
			Data: []any{
				[]any{big.NewInt(1), big.NewInt(2), big.NewInt(3)},
				[]any{big.NewInt(4), big.NewInt(5), big.NewInt(255)},
			},
			Format: datafile.Format{NumericType: "bitnum", Width: 8},
		},
		"r": {
			Data:   []any{big.NewInt(0)},
			Format: datafile.Format{NumericType: "bitnum", Width: 8},
		},
	}
	if diff := cmp.Diff(want, f, bigComparer); diff != "" {
		t.Errorf("extracted file mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	ctx, d := newDriver(t)
	require.NoError(t, datafile.Seed(d, read(t, seed)))
	require.NoError(t, d.Run(ctx))
	f, err := datafile.Extract(d)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, datafile.Write(&buf, f))
	out := buf.String()
	assert.Less(t, strings.Index(out, `"matrix"`), strings.Index(out, `"mem"`), "cells are written in name order")

	_, again := newDriver(t)
	require.NoError(t, datafile.Seed(again, read(t, out)))
	data, err := again.ReadState("mem")
	require.NoError(t, err)
	if diff := cmp.Diff(ints(9, 2, 3, 4), data, bigComparer); diff != "" {
		t.Errorf("reseeded memory mismatch (-want +got):\n%s", diff)
	}
}

func TestSchemaRejects(t *testing.T) {
	v, err := datafile.NewValidator()
	require.NoError(t, err)

	testCases := []struct {
		name string
		src  string
	}{
		{name: "not an object", src: `[1, 2]`},
		{name: "missing format", src: `{"mem": {"data": [1]}}`},
		{name: "negative value", src: `{"mem": {"data": [-1], "format": {"numeric_type": "bitnum", "is_signed": false, "width": 8}}}`},
		{name: "fractional value", src: `{"mem": {"data": [1.5], "format": {"numeric_type": "bitnum", "is_signed": false, "width": 8}}}`},
		{name: "wrong numeric type", src: `{"mem": {"data": [1], "format": {"numeric_type": "float", "is_signed": false, "width": 8}}}`},
		{name: "zero width", src: `{"mem": {"data": [1], "format": {"numeric_type": "bitnum", "is_signed": false, "width": 0}}}`},
		{name: "signed", src: `{"mem": {"data": [1], "format": {"numeric_type": "bitnum", "is_signed": true, "width": 8}}}`},
		{name: "unknown field", src: `{"mem": {"data": [1], "init": 0, "format": {"numeric_type": "bitnum", "is_signed": false, "width": 8}}}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := datafile.Read(v, strings.NewReader(tc.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "schema validation failed")
			assert.NotEmpty(t, v.Problems([]byte(tc.src)))
		})
	}

	assert.Empty(t, v.Problems([]byte(seed)))
}

func TestSeedRejects(t *testing.T) {
	format := `"format": {"numeric_type": "bitnum", "is_signed": false, "width": 8}`
	testCases := []struct {
		name        string
		src         string
		errContains string
	}{
		{
			name:        "unknown cell",
			src:         `{"ghost": {"data": [1], ` + format + `}}`,
			errContains: "data for 'ghost': no external cell",
		},
		{
			name:        "width mismatch",
			src:         `{"mem": {"data": [1, 2, 3, 4], "format": {"numeric_type": "bitnum", "is_signed": false, "width": 4}}}`,
			errContains: "declared width 4, cell is 8 bits wide",
		},
		{
			name:        "short array",
			src:         `{"mem": {"data": [1, 2, 3], ` + format + `}}`,
			errContains: "expected an array of 4, got 3",
		},
		{
			name:        "flat data for two dimensions",
			src:         `{"matrix": {"data": [1, 2, 3, 4, 5, 6], ` + format + `}}`,
			errContains: "expected an array of 2, got 6",
		},
		{
			name:        "value too wide",
			src:         `{"mem": {"data": [1, 2, 3, 256], ` + format + `}}`,
			errContains: "256 does not fit in 8 bits",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, d := newDriver(t)
			err := datafile.Seed(d, read(t, tc.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errContains)
		})
	}
}

func TestSeedAfterStart(t *testing.T) {
	ctx, d := newDriver(t)
	_, err := d.Step(ctx)
	require.NoError(t, err)
	err = datafile.Seed(d, read(t, seed))
	assert.ErrorIs(t, err, driver.ErrStarted)
}
