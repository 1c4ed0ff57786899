package datafile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"sort"

	"github.com/specialistvlad/cyclesim/internal/driver"
	"github.com/specialistvlad/cyclesim/internal/value"
)

// NumericType is the only numeric representation data files carry.
const NumericType = "bitnum"

// Format describes how the values of an entry are encoded.
type Format struct {
	NumericType string `json:"numeric_type"`
	IsSigned    bool   `json:"is_signed"`
	Width       int    `json:"width"`
}

// Entry is the content of one cell. Data is a nested array of numbers;
// after Read its leaves are json.Number, after Extract they are *big.Int.
type Entry struct {
	Data   any    `json:"data"`
	Format Format `json:"format"`
}

// File maps cell names, relative to the entry component, to their content.
type File map[string]Entry

// Names returns the cell names of f, sorted.
func (f File) Names() []string {
	names := make([]string, 0, len(f))
	for n := range f {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Cells is the part of a driver that data files read from.
type Cells interface {
	ExternalCells() []driver.ExternalCell
	ReadState(name string) ([]*big.Int, error)
}

// Seeder is the part of a driver that data files write into.
type Seeder interface {
	ExternalCells() []driver.ExternalCell
	Seed(name string, data []*big.Int) error
}

// Read validates r against the schema and decodes it.
func Read(v *Validator, r io.Reader) (File, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading data file: %w", err)
	}
	if err := v.ValidateJSON(b); err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding data file: %w", err)
	}
	return f, nil
}

// Write encodes f as indented JSON. Cells are written in name order.
func Write(w io.Writer, f File) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("writing data file: %w", err)
	}
	return nil
}

// Seed loads every entry of f into the matching external cell of s.
// Cells absent from f keep their initial contents.
func Seed(s Seeder, f File) error {
	cells := make(map[string]driver.ExternalCell)
	for _, c := range s.ExternalCells() {
		cells[c.Name] = c
	}
	for _, name := range f.Names() {
		cell, ok := cells[name]
		if !ok {
			return fmt.Errorf("data for '%s': no external cell with that name", name)
		}
		data, err := f[name].flatten(cell)
		if err != nil {
			return fmt.Errorf("data for '%s': %w", name, err)
		}
		if err := s.Seed(name, data); err != nil {
			return err
		}
	}
	return nil
}

// Extract captures the contents of every external cell of c.
func Extract(c Cells) (File, error) {
	f := make(File)
	for _, cell := range c.ExternalCells() {
		data, err := c.ReadState(cell.Name)
		if err != nil {
			return nil, fmt.Errorf("extracting '%s': %w", cell.Name, err)
		}
		if len(data) != product(cell.Dims) {
			return nil, fmt.Errorf("extracting '%s': expected %d values, got %d", cell.Name, product(cell.Dims), len(data))
		}
		nested, _ := nest(data, cell.Dims)
		f[cell.Name] = Entry{
			Data:   nested,
			Format: Format{NumericType: NumericType, Width: cell.Width},
		}
	}
	return f, nil
}

func (e Entry) flatten(cell driver.ExternalCell) ([]*big.Int, error) {
	if e.Format.Width != cell.Width {
		return nil, fmt.Errorf("declared width %d, cell is %d bits wide", e.Format.Width, cell.Width)
	}
	if e.Format.IsSigned {
		return nil, fmt.Errorf("signed data is not supported")
	}
	out := make([]*big.Int, 0, product(cell.Dims))
	if err := flatten(e.Data, cell.Dims, cell.Width, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// flatten appends the leaves of data in row-major order, checking the
// nesting against dims.
func flatten(data any, dims []int, width int, out *[]*big.Int) error {
	if len(dims) == 0 {
		n, ok := data.(json.Number)
		if !ok {
			return fmt.Errorf("expected a number, got %T", data)
		}
		b, ok := new(big.Int).SetString(n.String(), 10)
		if !ok {
			return fmt.Errorf("'%s' is not an integer", n)
		}
		if !value.Fits(width, b) {
			return fmt.Errorf("%s does not fit in %d bits", b, width)
		}
		*out = append(*out, b)
		return nil
	}
	list, ok := data.([]any)
	if !ok {
		return fmt.Errorf("expected an array of %d, got %T", dims[0], data)
	}
	if len(list) != dims[0] {
		return fmt.Errorf("expected an array of %d, got %d", dims[0], len(list))
	}
	for _, item := range list {
		if err := flatten(item, dims[1:], width, out); err != nil {
			return err
		}
	}
	return nil
}

// nest rebuilds the row-major nesting of flat for dims and returns it with
// the unconsumed rest.
func nest(flat []*big.Int, dims []int) (any, []*big.Int) {
	if len(dims) == 0 {
		return flat[0], flat[1:]
	}
	list := make([]any, dims[0])
	for i := range list {
		list[i], flat = nest(flat, dims[1:])
	}
	return list, flat
}

func product(dims []int) int {
	n := 1
	for _, d := range dims {
		n *= d
	}
	return n
}
