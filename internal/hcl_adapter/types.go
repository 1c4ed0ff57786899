package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is used to decode all top-level blocks from any file.
type fileRoot struct {
	Components []*componentBlock `hcl:"component,block"`
}

type componentBlock struct {
	Name       string         `hcl:"name,label"`
	Inputs     map[string]int `hcl:"inputs,optional"`
	Outputs    map[string]int `hcl:"outputs,optional"`
	Cells      []*cellBlock   `hcl:"cell,block"`
	Groups     []*groupBlock  `hcl:"group,block"`
	CombGroups []*groupBlock  `hcl:"comb_group,block"`
	Wires      []*wiresBlock  `hcl:"wires,block"`
	Control    *controlBlock  `hcl:"control,block"`
}

type cellBlock struct {
	Name      string         `hcl:"name,label"`
	Prototype string         `hcl:"prototype,label"`
	Params    hcl.Expression `hcl:"params,optional"`
	External  bool           `hcl:"external,optional"`
}

type groupBlock struct {
	Name    string         `hcl:"name,label"`
	Assigns []*assignBlock `hcl:"assign,block"`
}

type wiresBlock struct {
	Assigns []*assignBlock `hcl:"assign,block"`
}

type assignBlock struct {
	Dst   hcl.Expression `hcl:"dst"`
	Src   hcl.Expression `hcl:"src"`
	Guard hcl.Expression `hcl:"guard,optional"`
}

// controlBlock is walked syntactically since statement order matters.
type controlBlock struct {
	Body hcl.Body `hcl:",remain"`
}
