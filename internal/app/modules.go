package app

import (
	"github.com/specialistvlad/cyclesim/internal/registry"
	"github.com/specialistvlad/cyclesim/modules/core"
	"github.com/specialistvlad/cyclesim/modules/memories"
)

// coreModules is the definitive list of all primitive modules that are
// compiled into the cyclesim binary.
var coreModules = []registry.Module{
	&core.Module{},
	&memories.Module{},
}
