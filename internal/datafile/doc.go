// Package datafile reads and writes the JSON files that seed external cells
// before a run and capture their contents after it.
//
// A file maps each cell name, relative to the entry component, to its data
// and format:
//
//	{
//	  "mem": {
//	    "data": [1, 2, 3, 4],
//	    "format": {"numeric_type": "bitnum", "is_signed": false, "width": 8}
//	  }
//	}
//
// Files are checked in two stages. The embedded CUE schema rejects anything
// that is not structurally a data file. Seeding then checks every entry
// against the loaded program: the cell must exist, the declared width must
// match, the nesting must match the cell's dimensions and every value must
// fit.
package datafile
