package update_test

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/cyclesim/internal/eval"
	"github.com/specialistvlad/cyclesim/internal/program"
	"github.com/specialistvlad/cyclesim/internal/testutil"
	"github.com/specialistvlad/cyclesim/internal/update"
	"github.com/specialistvlad/cyclesim/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bank = `
	component "main" {
	  cell "r0"  "std_reg" { params = [8] }
	  cell "r1"  "std_reg" { params = [8] }
	  cell "r2"  "std_reg" { params = [8] }
	  cell "r3"  "std_reg" { params = [8] }
	  cell "r4"  "std_reg" { params = [8] }
	  cell "add" "std_add" { params = [8] }
	  cell "mem" "std_mem_d1" {
	    params   = [8, 4, 2]
	    external = true
	  }
	}
`

// drive returns settled values with every register's input set to base+i.
func drive(t *testing.T, prog *program.Program, base uint64, wen bool) eval.Values {
	t.Helper()
	vals := make(eval.Values, len(prog.Ports))
	for i, name := range []string{"r0", "r1", "r2", "r3", "r4"} {
		in, ok := prog.PortByName("main." + name + ".in")
		require.True(t, ok)
		en, _ := prog.PortByName("main." + name + ".write_en")
		vals[in] = value.Uint(8, base+uint64(i))
		vals[en] = value.Bool(wen)
	}
	return vals
}

func dump(t *testing.T, prog *program.Program, u *update.Updater) []string {
	t.Helper()
	var out []string
	for _, name := range []string{"r0", "r1", "r2", "r3", "r4"} {
		id, _ := prog.CellByName("main." + name)
		data, err := u.Dump(id)
		require.NoError(t, err)
		out = append(out, data[0].String())
	}
	return out
}

func TestTick_SerialAndParallelAgree(t *testing.T) {
	ctx, _ := testutil.Context(t)
	prog := testutil.MustLoad(t, bank)

	var results [][]string
	for _, workers := range []int{1, 2, 3, 8} {
		u := update.New(prog, workers)
		require.NoError(t, u.Tick(ctx, drive(t, prog, 10, true)))
		require.NoError(t, u.Tick(ctx, drive(t, prog, 50, false)))
		results = append(results, dump(t, prog, u))
	}

	expected := []string{"10", "11", "12", "13", "14"}
	for i, got := range results {
		if diff := cmp.Diff(expected, got); diff != "" {
			t.Errorf("run %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestTick_ConflictInputIsFatal(t *testing.T) {
	ctx, _ := testutil.Context(t)
	prog := testutil.MustLoad(t, bank)
	u := update.New(prog, 2)

	vals := drive(t, prog, 10, true)
	in, _ := prog.PortByName("main.r3.in")
	vals[in] = value.Conflict()

	err := u.Tick(ctx, vals)
	require.Error(t, err)
	var ce *update.ContractError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "main.r3", ce.Cell)
	assert.Contains(t, err.Error(), "in conflict")

	assert.Equal(t, []string{"0", "0", "0", "0", "0"}, dump(t, prog, u), "a failed tick installs nothing")
}

func TestTick_UndefinedWriteHolds(t *testing.T) {
	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			ctx, logs := testutil.Context(t)
			prog := testutil.MustLoad(t, bank)
			u := update.New(prog, workers)

			vals := drive(t, prog, 10, true)
			in, _ := prog.PortByName("main.r0.in")
			vals[in] = value.Unknown()

			require.NoError(t, u.Tick(ctx, vals))
			assert.Equal(t, []string{"0", "11", "12", "13", "14"}, dump(t, prog, u), "only the undefined write is held")
			assert.Contains(t, logs.String(), "Write held, state unchanged.")
			assert.Contains(t, logs.String(), "cell=main.r0")
		})
	}
}

func TestTick_Cancelled(t *testing.T) {
	ctx, _ := testutil.Context(t)
	ctx, cancel := context.WithCancel(ctx)
	cancel()
	prog := testutil.MustLoad(t, bank)
	u := update.New(prog, 4)

	err := u.Tick(ctx, drive(t, prog, 1, true))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadAndDump(t *testing.T) {
	prog := testutil.MustLoad(t, bank)
	u := update.New(prog, 1)

	mem, ok := prog.CellByName("main.mem")
	require.True(t, ok)
	data := []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3), big.NewInt(4)}
	require.NoError(t, u.Load(mem, data))

	got, err := u.Dump(mem)
	require.NoError(t, err)
	require.Len(t, got, 4)
	for i := range data {
		assert.Equal(t, 0, data[i].Cmp(got[i]))
	}

	require.Error(t, u.Load(mem, data[:2]), "shape must match")

	add, _ := prog.CellByName("main.add")
	_, err = u.Dump(add)
	assert.ErrorIs(t, err, update.ErrNotSeedable)
}
