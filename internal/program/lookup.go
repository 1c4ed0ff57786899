package program

// PortByName resolves a fully qualified port or hole name.
func (p *Program) PortByName(name string) (PortID, bool) {
	id, ok := p.portIndex[name]
	return id, ok
}

// CellByName resolves a fully qualified primitive cell name.
func (p *Program) CellByName(name string) (CellID, bool) {
	id, ok := p.cellIndex[name]
	return id, ok
}

// GroupByName resolves a fully qualified group name.
func (p *Program) GroupByName(name string) (GroupID, bool) {
	id, ok := p.groupIndex[name]
	return id, ok
}

// InstanceByName resolves a fully qualified instance name.
func (p *Program) InstanceByName(name string) (InstID, bool) {
	id, ok := p.instIndex[name]
	return id, ok
}

// ExternalCells returns the IDs of cells marked external, in arena order.
func (p *Program) ExternalCells() []CellID {
	var ids []CellID
	for i := range p.Cells {
		if p.Cells[i].External {
			ids = append(ids, CellID(i))
		}
	}
	return ids
}
