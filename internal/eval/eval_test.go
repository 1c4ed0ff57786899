package eval_test

import (
	"errors"
	"testing"

	"github.com/specialistvlad/cyclesim/internal/eval"
	"github.com/specialistvlad/cyclesim/internal/primitive"
	"github.com/specialistvlad/cyclesim/internal/program"
	"github.com/specialistvlad/cyclesim/internal/testutil"
	"github.com/specialistvlad/cyclesim/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoWriters = `
	component "main" {
	  cell "x"   "std_reg" { params = [8] }
	  cell "inc" "std_add" { params = [8] }
	  group "a" {
	    assign {
	      dst = x.in
	      src = 1
	    }
	    assign {
	      dst = x.write_en
	      src = 1
	    }
	    assign {
	      dst = a.done
	      src = x.done
	    }
	  }
	  group "b" {
	    assign {
	      dst = x.in
	      src = 2
	    }
	    assign {
	      dst = x.write_en
	      src = 1
	    }
	    assign {
	      dst = b.done
	      src = x.done
	    }
	  }
	  wires {
	    assign {
	      dst = inc.left
	      src = x.out
	    }
	    assign {
	      dst = inc.right
	      src = 1
	    }
	  }
	  control {
	    par {
	      enable "a" {}
	      enable "b" {}
	    }
	  }
	}
`

type fixture struct {
	prog   *program.Program
	ev     *eval.Evaluator
	states []primitive.State
}

func newFixture(t *testing.T, src string) *fixture {
	t.Helper()
	prog := testutil.MustLoad(t, src)
	states := make([]primitive.State, len(prog.Cells))
	for i := range prog.Cells {
		states[i] = prog.Cells[i].Prim.Init()
	}
	return &fixture{prog: prog, ev: eval.New(prog), states: states}
}

func (f *fixture) group(t *testing.T, name string) program.GroupID {
	t.Helper()
	id, ok := f.prog.GroupByName(name)
	require.True(t, ok, name)
	return id
}

func (f *fixture) read(t *testing.T, vals eval.Values, name string) value.Value {
	t.Helper()
	id, ok := f.prog.PortByName(name)
	require.True(t, ok, name)
	return vals[id]
}

func TestSettle_ActiveGroupDrivesItsPorts(t *testing.T) {
	f := newFixture(t, twoWriters)
	set := &eval.ActiveSet{Instances: []program.InstID{program.RootInst}}
	set.AddGroup(f.group(t, "main.a"))

	vals, err := f.ev.Settle(set, f.states)
	require.NoError(t, err)

	assert.Equal(t, "8'd1", f.read(t, vals, "main.x.in").String())
	assert.Equal(t, "1'd1", f.read(t, vals, "main.x.write_en").String())
	assert.Equal(t, "1'd0", f.read(t, vals, "main.a[done]").String())
	assert.Equal(t, "1'd1", f.read(t, vals, "main.a[go]").String())
	assert.True(t, f.read(t, vals, "main.b[go]").IsUnknown(), "inactive group holes stay unknown")
	assert.True(t, f.read(t, vals, "main.b[done]").IsUnknown())
	assert.Equal(t, "8'd1", f.read(t, vals, "main.inc.out").String(), "wires are always active")
}

func TestSettle_NothingActive(t *testing.T) {
	f := newFixture(t, twoWriters)
	vals, err := f.ev.Settle(&eval.ActiveSet{Instances: []program.InstID{program.RootInst}}, f.states)
	require.NoError(t, err)
	assert.True(t, f.read(t, vals, "main.x.in").IsUnknown())
	assert.True(t, f.read(t, vals, "main.x.write_en").IsUnknown())
	assert.Equal(t, "8'd0", f.read(t, vals, "main.x.out").String())
}

func TestSettle_Conflict(t *testing.T) {
	f := newFixture(t, twoWriters)
	set := &eval.ActiveSet{Instances: []program.InstID{program.RootInst}}
	set.AddGroup(f.group(t, "main.a"))
	set.AddGroup(f.group(t, "main.b"))

	_, err := f.ev.Settle(set, f.states)
	require.Error(t, err)

	var ce *eval.ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "main.x.in", ce.Port)
	assert.Contains(t, ce.Sources[0], "main.a")
	assert.Contains(t, ce.Sources[1], "main.b")
	assert.Equal(t, "8'd1", ce.Values[0].String())
	assert.Equal(t, "8'd2", ce.Values[1].String())
}

func TestSettle_AgreeingDriversMerge(t *testing.T) {
	f := newFixture(t, twoWriters)
	set := &eval.ActiveSet{Instances: []program.InstID{program.RootInst}}
	set.AddGroup(f.group(t, "main.a"))
	wen, _ := f.prog.PortByName("main.x.write_en")
	set.AddDrive(eval.Drive{Port: wen, Value: value.Bool(true), Source: "test"})

	vals, err := f.ev.Settle(set, f.states)
	require.NoError(t, err)
	assert.Equal(t, "1'd1", vals[wen].String())

	set.Drives[0].Value = value.Bool(false)
	_, err = f.ev.Settle(set, f.states)
	var ce *eval.ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "test", ce.Sources[1])
}

func TestSettle_DoneGatesTheGroup(t *testing.T) {
	f := newFixture(t, twoWriters)
	cell, ok := f.prog.CellByName("main.x")
	require.True(t, ok)
	next, err := f.prog.Cells[cell].Prim.Tick(f.states[cell], []value.Value{value.Uint(8, 9), value.Bool(true)})
	require.NoError(t, err)
	f.states[cell] = next

	set := &eval.ActiveSet{Instances: []program.InstID{program.RootInst}}
	set.AddGroup(f.group(t, "main.a"))
	vals, err := f.ev.Settle(set, f.states)
	require.NoError(t, err)

	assert.Equal(t, "1'd1", f.read(t, vals, "main.a[done]").String())
	assert.Equal(t, "1'd0", f.read(t, vals, "main.a[go]").String())
	assert.True(t, f.read(t, vals, "main.x.in").IsUnknown(), "gated assignments stop once done is high")
	assert.Equal(t, "8'd10", f.read(t, vals, "main.inc.out").String())
}

func TestSettle_InactiveInstanceIsUnknown(t *testing.T) {
	f := newFixture(t, `
		component "child" {
		  outputs = { o = 4 }
		  cell "k" "std_const" { params = [4, 3] }
		  wires {
		    assign {
		      dst = o
		      src = k.out
		    }
		  }
		}
		component "main" {
		  cell "c" "child" {}
		}
	`)
	sub, ok := f.prog.InstanceByName("main.c")
	require.True(t, ok)

	vals, err := f.ev.Settle(&eval.ActiveSet{Instances: []program.InstID{program.RootInst}}, f.states)
	require.NoError(t, err)
	assert.True(t, f.read(t, vals, "main.c.o").IsUnknown())

	vals, err = f.ev.Settle(&eval.ActiveSet{Instances: []program.InstID{program.RootInst, sub}}, f.states)
	require.NoError(t, err)
	assert.Equal(t, "4'd3", f.read(t, vals, "main.c.o").String())
}
