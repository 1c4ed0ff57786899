package trace_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/cyclesim/internal/driver"
	"github.com/specialistvlad/cyclesim/internal/testutil"
	"github.com/specialistvlad/cyclesim/internal/trace"
	"github.com/specialistvlad/cyclesim/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	events    []string
	frames    []trace.Frame
	connected bool
	closed    bool
}

func (f *fakeSink) Emit(event string, data any) {
	f.events = append(f.events, event)
	f.frames = append(f.frames, data.(trace.Frame))
}
func (f *fakeSink) Connected() bool { return f.connected }
func (f *fakeSink) Close()          { f.closed = true }

const writer = `
	component "main" {
	  cell "r" "std_reg" { params = [4] }
	  group "set" {
	    assign {
	      dst = r.in
	      src = 5
	    }
	    assign {
	      dst = r.write_en
	      src = 1
	    }
	    assign {
	      dst = set.done
	      src = r.done
	    }
	  }
	  control {
	    enable "set" {}
	  }
	}
`

func TestPublish_DiffsPorts(t *testing.T) {
	sink := &fakeSink{connected: true}
	p := trace.New(sink)

	ports := map[string]value.Value{"main.a": value.Uint(4, 1), "main.b": value.Unknown()}
	require.NoError(t, p.Publish(driver.Snapshot{Cycle: 1, Active: []string{"main.g"}, Ports: ports}))

	ports = map[string]value.Value{"main.a": value.Uint(4, 1), "main.b": value.Uint(4, 2)}
	require.NoError(t, p.Publish(driver.Snapshot{Cycle: 2, Ports: ports}))

	ports = map[string]value.Value{"main.a": value.Unknown(), "main.b": value.Uint(4, 2)}
	require.NoError(t, p.Publish(driver.Snapshot{Cycle: 3, Ports: ports}))

	want := []trace.Frame{
		{Cycle: 1, Active: []string{"main.g"}, Ports: map[string]string{"main.a": "4'd1"}},
		{Cycle: 2, Active: nil, Ports: map[string]string{"main.b": "4'd2"}},
		{Cycle: 3, Active: nil, Ports: map[string]string{"main.a": "x"}},
	}
	if diff := cmp.Diff(want, sink.frames); diff != "" {
		t.Errorf("frames mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"cycle", "cycle", "cycle"}, sink.events)

	p.Close()
	assert.True(t, sink.closed)
}

func TestPublish_AsObserver(t *testing.T) {
	ctx, _ := testutil.Context(t)
	sink := &fakeSink{connected: true}
	p := trace.New(sink)
	d := driver.New(ctx, testutil.MustLoad(t, writer), driver.WithObserver(p.Observer()))
	require.NoError(t, d.Run(ctx))

	require.Len(t, sink.frames, 2)
	assert.Equal(t, []string{"main.set"}, sink.frames[0].Active)
	assert.Equal(t, "4'd5", sink.frames[0].Ports["main.r.in"])
	assert.Equal(t, "4'd0", sink.frames[0].Ports["main.r.out"])
	assert.Equal(t, []string{"main.set"}, sink.frames[1].Active)
	assert.Equal(t, "4'd5", sink.frames[1].Ports["main.r.out"])
	assert.Equal(t, "x", sink.frames[1].Ports["main.r.in"], "writes are gated once done is high")
}

func TestPublish_Disconnected(t *testing.T) {
	ctx, _ := testutil.Context(t)
	sink := &fakeSink{}
	p := trace.New(sink)
	d := driver.New(ctx, testutil.MustLoad(t, writer), driver.WithObserver(p.Observer()))

	err := d.Run(ctx)
	require.ErrorIs(t, err, trace.ErrDisconnected)
	assert.Equal(t, 1, d.Cycles())
	assert.Empty(t, sink.frames)
}

func TestDial_Rejects(t *testing.T) {
	ctx, _ := testutil.Context(t)

	_, err := trace.Dial(ctx, "localhost", "/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs a scheme and a host")

	_, err = trace.Dial(ctx, "http://[::1", "/")
	assert.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = trace.Dial(cancelled, "http://127.0.0.1:1", "/")
	assert.Error(t, err)
}
