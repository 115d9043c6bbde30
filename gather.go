package kadro

import (
	"fmt"
)

// Gather reshapes from wide to long. Columns named in keep stay as
// identifier columns; every other column melts into two new columns: key
// holds the melted column's name, value holds its value. Output rows are
// laid out in column blocks: all rows of the first melted column, then all
// rows of the second, and so on, preserving source row order within each
// block. Melted columns of different dtypes must still combine into a
// single value column, so the usual inference rules apply (ints promote
// next to floats; other mixes are an error). The result is ungrouped.
func (f *Frame) Gather(key, value string, keep ...string) (*Frame, error) {
	t := f.table
	keepSet := make(map[string]bool, len(keep))
	for _, name := range keep {
		if !t.HasColumn(name) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
		}
		keepSet[name] = true
	}

	var melted []*Series
	for i := 0; i < t.Width(); i++ {
		s := t.ColumnAt(i)
		if !keepSet[s.Name()] {
			melted = append(melted, s)
		}
	}

	h := t.Height()
	total := h * len(melted)

	// Identifier columns repeat once per melted column, via a tiled index
	// gather so dtypes and null masks carry over untouched.
	tile := make([]int, total)
	for block := range melted {
		for row := 0; row < h; row++ {
			tile[block*h+row] = row
		}
	}

	cols := make([]*Series, 0, len(keep)+2)
	for _, name := range keep {
		cols = append(cols, t.Column(name).Take(tile))
	}

	keyData := make([]string, total)
	values := make([]any, total)
	for block, s := range melted {
		for row := 0; row < h; row++ {
			keyData[block*h+row] = s.Name()
			values[block*h+row] = s.Get(row)
		}
	}
	cols = append(cols, NewSeriesString(key, keyData))

	valueCol, err := seriesFromValues(value, values)
	if err != nil {
		return nil, err
	}
	cols = append(cols, valueCol)

	out, err := NewTable(cols...)
	if err != nil {
		return nil, err
	}
	return New(out), nil
}
