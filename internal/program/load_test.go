package program_test

import (
	"errors"
	"testing"

	"github.com/specialistvlad/cyclesim/internal/program"
	"github.com/specialistvlad/cyclesim/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const counter = `
	component "main" {
	  cell "r"   "std_reg" { params = [8] }
	  cell "add" "std_add" { params = [8] }
	  group "incr" {
	    assign {
	      dst = add.left
	      src = r.out
	    }
	    assign {
	      dst = add.right
	      src = 1
	    }
	    assign {
	      dst = r.in
	      src = add.out
	    }
	    assign {
	      dst = r.write_en
	      src = 1
	    }
	    assign {
	      dst = incr.done
	      src = r.done
	    }
	  }
	  control {
	    seq {
	      enable "incr" {}
	      enable "incr" {}
	    }
	  }
	}
`

func TestLoad_Counter(t *testing.T) {
	prog := testutil.MustLoad(t, counter)

	assert.Equal(t, "main", prog.Entry)
	require.Len(t, prog.Instances, 1)
	assert.Len(t, prog.Cells, 2)
	require.Len(t, prog.Groups, 1)
	assert.Len(t, prog.Assigns, 5)
	assert.Len(t, prog.Order, len(prog.Ports))

	gid, ok := prog.GroupByName("main.incr")
	require.True(t, ok)
	grp := prog.Groups[gid]
	assert.Equal(t, "main.incr[go]", prog.Ports[grp.Go].Name)
	assert.Equal(t, "main.incr[done]", prog.Ports[grp.Done].Name)

	for _, aid := range grp.Assigns {
		a := prog.Assigns[aid]
		assert.Equal(t, a.Dst != grp.Done, a.Gated, "assignment %s", a.Text)
	}

	ctl := prog.Instances[program.RootInst].Control
	require.Equal(t, program.CtlSeq, ctl.Kind)
	require.Len(t, ctl.Children, 2)
	assert.Equal(t, program.CtlEnable, ctl.Children[0].Kind)
	assert.NotEqual(t, ctl.Children[0].ID, ctl.Children[1].ID)
	assert.Equal(t, 3, prog.NumControls)
}

func TestLoad_OrderRespectsDependencies(t *testing.T) {
	prog := testutil.MustLoad(t, counter)

	pos := make(map[program.PortID]int, len(prog.Order))
	for i, id := range prog.Order {
		pos[id] = i
	}
	port := func(name string) program.PortID {
		id, ok := prog.PortByName(name)
		require.True(t, ok, name)
		return id
	}

	assert.Less(t, pos[port("main.r.out")], pos[port("main.add.left")])
	assert.Less(t, pos[port("main.add.left")], pos[port("main.add.out")])
	assert.Less(t, pos[port("main.add.out")], pos[port("main.r.in")])
	assert.Less(t, pos[port("main.r.done")], pos[port("main.incr[done]")])
	assert.Less(t, pos[port("main.incr[done]")], pos[port("main.incr[go]")])
	assert.Less(t, pos[port("main.incr[go]")], pos[port("main.r.write_en")])
}

func TestLoad_Hierarchy(t *testing.T) {
	prog := testutil.MustLoad(t, `
		component "adder" {
		  inputs  = { a = 4, b = 4 }
		  outputs = { sum = 4 }
		  cell "add" "std_add" { params = [4] }
		  wires {
		    assign {
		      dst = add.left
		      src = a
		    }
		    assign {
		      dst = add.right
		      src = b
		    }
		    assign {
		      dst = sum
		      src = add.out
		    }
		  }
		}
		component "main" {
		  cell "r"  "std_reg" { params = [4] }
		  cell "s1" "adder" {}
		  control {
		    invoke "s1" {
		      inputs  = { a = r.out, b = 2 }
		      outputs = { sum = r.in }
		    }
		  }
		}
	`)

	require.Len(t, prog.Instances, 2)
	sub, ok := prog.InstanceByName("main.s1")
	require.True(t, ok)
	assert.Equal(t, "adder", prog.Instances[sub].Component)
	assert.Equal(t, program.RootInst, prog.Instances[sub].Parent)

	_, ok = prog.PortByName("main.s1.add.out")
	assert.True(t, ok)

	ctl := prog.Instances[program.RootInst].Control
	require.Equal(t, program.CtlInvoke, ctl.Kind)
	assert.Equal(t, sub, ctl.Target)
	require.Len(t, ctl.InArgs, 2)
	assert.Equal(t, "main.s1.a", prog.Ports[ctl.InArgs[0].Port].Name)
	assert.False(t, ctl.InArgs[1].Src.IsPort())
	assert.Equal(t, "4'd2", ctl.InArgs[1].Src.Lit.String())
	require.Len(t, ctl.OutArgs, 1)
	assert.Equal(t, "main.r.in", prog.Ports[ctl.OutArgs[0].Dst].Name)
}

func TestLoad_Rejects(t *testing.T) {
	testCases := []struct {
		name        string
		src         string
		errContains string
	}{
		{
			name: "width mismatch",
			src: `
				component "main" {
				  cell "r" "std_reg" { params = [8] }
				  cell "s" "std_reg" { params = [4] }
				  wires {
				    assign {
				      dst = r.in
				      src = s.out
				    }
				  }
				}`,
			errContains: "width mismatch",
		},
		{
			name: "literal too wide",
			src: `
				component "main" {
				  cell "r" "std_reg" { params = [2] }
				  wires {
				    assign {
				      dst = r.in
				      src = 7
				    }
				  }
				}`,
			errContains: "does not fit",
		},
		{
			name: "unknown cell",
			src: `
				component "main" {
				  cell "r" "std_reg" { params = [8] }
				  wires {
				    assign {
				      dst = r.in
				      src = nope.out
				    }
				  }
				}`,
			errContains: "unknown cell or group 'nope'",
		},
		{
			name: "unknown prototype",
			src: `
				component "main" {
				  cell "r" "std_flux" { params = [8] }
				}`,
			errContains: "unknown prototype 'std_flux'",
		},
		{
			name: "group without done",
			src: `
				component "main" {
				  cell "r" "std_reg" { params = [8] }
				  group "g" {
				    assign {
				      dst = r.in
				      src = 1
				    }
				  }
				  control {
				    enable "g" {}
				  }
				}`,
			errContains: "never assigns its done hole",
		},
		{
			name: "writing an output port of a cell",
			src: `
				component "main" {
				  cell "r" "std_reg" { params = [8] }
				  wires {
				    assign {
				      dst = r.out
				      src = 1
				    }
				  }
				}`,
			errContains: "cell output 'r.out' cannot be assigned",
		},
		{
			name: "multiple drivers",
			src: `
				component "main" {
				  cell "r" "std_reg" { params = [8] }
				  wires {
				    assign {
				      dst = r.in
				      src = 1
				    }
				    assign {
				      dst = r.in
				      src = 2
				    }
				  }
				}`,
			errContains: "multiple drivers",
		},
		{
			name: "enable of unknown group",
			src: `
				component "main" {
				  control {
				    enable "ghost" {}
				  }
				}`,
			errContains: "enable of unknown group",
		},
		{
			name: "condition wider than one bit",
			src: `
				component "main" {
				  cell "r" "std_reg" { params = [8] }
				  control {
				    if {
				      port = r.out
				      then {}
				    }
				  }
				}`,
			errContains: "condition port must be 1 bit",
		},
		{
			name: "combinational cycle",
			src: `
				component "main" {
				  cell "a" "std_not" { params = [1] }
				  wires {
				    assign {
				      dst = a.in
				      src = a.out
				    }
				  }
				}`,
			errContains: "combinational cycle",
		},
		{
			name: "recursive instantiation",
			src: `
				component "main" {
				  cell "inner" "loop" {}
				}
				component "loop" {
				  cell "again" "main" {}
				}`,
			errContains: "recursive instantiation",
		},
		{
			name: "invoke of a primitive",
			src: `
				component "main" {
				  cell "r" "std_reg" { params = [8] }
				  control {
				    invoke "r" {}
				  }
				}`,
			errContains: "invoke target must be a component cell",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := testutil.LoadProgram(t, tc.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errContains)

			var le *program.LoadError
			assert.True(t, errors.As(err, &le), "expected a *program.LoadError, got %T", err)
		})
	}
}

func TestLoad_DisjointGuardsAreAllowed(t *testing.T) {
	_, err := testutil.LoadProgram(t, `
		component "main" {
		  inputs = { sel = 1 }
		  cell "r" "std_reg" { params = [8] }
		  wires {
		    assign {
		      dst   = r.in
		      src   = 1
		      guard = sel
		    }
		    assign {
		      dst   = r.in
		      src   = 2
		      guard = !sel
		    }
		  }
		}
	`)
	require.NoError(t, err)
}

func TestLoad_MissingEntry(t *testing.T) {
	_, err := testutil.LoadProgram(t, `component "other" {}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry component not found")
}
