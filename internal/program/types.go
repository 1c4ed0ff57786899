package program

import (
	"github.com/specialistvlad/cyclesim/internal/model"
	"github.com/specialistvlad/cyclesim/internal/primitive"
	"github.com/specialistvlad/cyclesim/internal/value"
)

type (
	PortID   int32
	CellID   int32
	GroupID  int32
	AssignID int32
	InstID   int32
)

// Sentinels for absent references.
const (
	NoPort  PortID  = -1
	NoCell  CellID  = -1
	NoGroup GroupID = -1
	NoInst  InstID  = -1
)

// RootInst is the instance of the entry component.
const RootInst InstID = 0

// PortKind classifies a port by what drives it.
type PortKind uint8

const (
	// PortSignature is an input or output of a component instance.
	PortSignature PortKind = iota
	// PortCellInput is an input of a primitive cell.
	PortCellInput
	// PortCellOutput is an output of a primitive cell, computed by Poke.
	PortCellOutput
	// PortGo is a group's go hole, computed from activity and done.
	PortGo
	// PortDone is a group's done hole, driven by the group's assignments.
	PortDone
)

// Port is one node of the port arena.
type Port struct {
	Name     string
	Width    int
	Kind     PortKind
	Dir      primitive.Direction
	Instance InstID
	Cell     CellID
	// Index is the position among the cell's inputs or outputs.
	Index int
	Group GroupID
	// Drivers are the assignments whose destination is this port.
	Drivers []AssignID
}

// Cell is an instantiated primitive.
type Cell struct {
	Name      string
	Prototype string
	Instance  InstID
	Prim      primitive.Primitive
	Inputs    []PortID
	Outputs   []PortID
	Stateful  bool
	External  bool
}

// Group is an instantiated group. Go and Done are NoPort for combinational
// groups.
type Group struct {
	Name     string
	Instance InstID
	Comb     bool
	Assigns  []AssignID
	Go, Done PortID
}

// Operand is a port read or a sized literal.
type Operand struct {
	Port PortID
	Lit  value.Value
}

// IsPort reports whether the operand reads a port.
func (o Operand) IsPort() bool { return o.Port != NoPort }

// Assign is an elaborated guarded assignment.
type Assign struct {
	Instance InstID
	// Group is NoGroup for continuous assignments.
	Group GroupID
	Dst   PortID
	Src   Operand
	// Guard is nil when the assignment is unconditional.
	Guard *Guard
	// Gated assignments only drive while the owning group's go hole is high.
	Gated bool
	// Text describes the assignment for diagnostics.
	Text string
}

// GuardOp is the node type of an elaborated guard.
type GuardOp uint8

const (
	GuardPort GuardOp = iota
	GuardNot
	GuardAnd
	GuardOr
	GuardCmp
)

// Guard is an elaborated guard expression.
type Guard struct {
	Op          GuardOp
	Port        PortID
	Left, Right *Guard
	Cmp         model.CmpOp
	A, B        Operand
}

// Ports calls fn for every port the guard reads.
func (g *Guard) Ports(fn func(PortID)) {
	if g == nil {
		return
	}
	switch g.Op {
	case GuardPort:
		fn(g.Port)
	case GuardNot:
		g.Left.Ports(fn)
	case GuardAnd, GuardOr:
		g.Left.Ports(fn)
		g.Right.Ports(fn)
	case GuardCmp:
		if g.A.IsPort() {
			fn(g.A.Port)
		}
		if g.B.IsPort() {
			fn(g.B.Port)
		}
	}
}

// Instance is one instantiated component.
type Instance struct {
	Name      string
	Component string
	Parent    InstID
	Inputs    map[string]PortID
	Outputs   map[string]PortID
	// Wires are the continuous assignments of the instance.
	Wires   []AssignID
	Cells   []CellID
	Groups  []GroupID
	Control *Control
}

// ControlKind is the node type of an elaborated control tree.
type ControlKind uint8

const (
	CtlEmpty ControlKind = iota
	CtlEnable
	CtlSeq
	CtlPar
	CtlIf
	CtlWhile
	CtlInvoke
)

var controlKindNames = [...]string{"empty", "enable", "seq", "par", "if", "while", "invoke"}

// String returns the statement keyword.
func (k ControlKind) String() string {
	if int(k) < len(controlKindNames) {
		return controlKindNames[k]
	}
	return "control"
}

// Control is an elaborated control statement. ID is unique within the program.
type Control struct {
	Kind     ControlKind
	ID       int
	Instance InstID
	// Children holds seq/par statements, [then, else] for if, and the body of
	// a while.
	Children []*Control
	Group    GroupID
	Cond     PortID
	With     GroupID
	Target   InstID
	InArgs   []Binding
	OutArgs  []Binding
}

// Binding connects an invoked instance's port with its caller. For inputs,
// Src drives Port; for outputs, Port is written back to Dst.
type Binding struct {
	Port PortID
	Src  Operand
	Dst  PortID
}

// Program is a validated, elaborated hierarchy ready for simulation.
type Program struct {
	Entry     string
	Ports     []Port
	Cells     []Cell
	Groups    []Group
	Assigns   []Assign
	Instances []Instance
	// Order is the static topological evaluation order over all ports.
	Order []PortID
	// NumControls is one more than the largest Control.ID.
	NumControls int

	portIndex  map[string]PortID
	cellIndex  map[string]CellID
	groupIndex map[string]GroupID
	instIndex  map[string]InstID
}
