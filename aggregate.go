package kadro

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// AggFunc reduces one partition's sub-table (or the whole table when no
// grouping is active) to a single scalar value.
type AggFunc func(*Table) (any, error)

// Aggregation binds an output column name to its reducer. Output columns
// appear in declaration order after the group key columns.
type Aggregation struct {
	Name string
	Fn   AggFunc
}

// Reduce is a convenience constructor for an Aggregation.
func Reduce(name string, fn AggFunc) Aggregation {
	return Aggregation{Name: name, Fn: fn}
}

// aggregateTable reduces t to one row per distinct key tuple. Output rows
// ascend lexicographically by key tuple; columns are the group keys in
// group order followed by the aggregations in declaration order. With an
// empty group list the whole table is a single implicit partition and the
// result is one row with no key columns.
func aggregateTable(t *Table, groups []string, aggs []Aggregation) (*Table, error) {
	if len(aggs) == 0 {
		return nil, fmt.Errorf("at least one aggregation required")
	}
	for _, a := range aggs {
		if a.Fn == nil {
			return nil, fmt.Errorf("aggregation %q has no function", a.Name)
		}
	}

	if len(groups) == 0 {
		return aggregateWhole(t, aggs)
	}

	parts, err := partitionRows(t, groups)
	if err != nil {
		return nil, err
	}

	results := make([][]any, len(aggs))
	for i := range results {
		results[i] = make([]any, len(parts))
	}

	apply := func(p int) error {
		sub := subTable(t, parts[p].rows)
		for a, agg := range aggs {
			v, err := agg.Fn(sub)
			if err != nil {
				return fmt.Errorf("%w: aggregation %q: %v", ErrReducerFailure, agg.Name, err)
			}
			results[a][p] = v
		}
		return nil
	}

	if len(parts) > 1 && ShouldParallelizeOp(OpGroupApply, t.Height()) {
		var g errgroup.Group
		g.SetLimit(globalConfig.numWorkers())
		for p := range parts {
			g.Go(func() error { return apply(p) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for p := range parts {
			if err := apply(p); err != nil {
				return nil, err
			}
		}
	}

	// One representative row per partition carries the key values, so key
	// columns keep their source dtype exactly.
	firstRows := make([]int, len(parts))
	for p, part := range parts {
		firstRows[p] = part.rows[0]
	}

	cols := make([]*Series, 0, len(groups)+len(aggs))
	for _, name := range groups {
		cols = append(cols, t.Column(name).Take(firstRows))
	}
	for a, agg := range aggs {
		col, err := seriesFromValues(agg.Name, results[a])
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return NewTable(cols...)
}

// aggregateWhole reduces the whole table to a single row.
func aggregateWhole(t *Table, aggs []Aggregation) (*Table, error) {
	cols := make([]*Series, 0, len(aggs))
	for _, agg := range aggs {
		v, err := agg.Fn(t)
		if err != nil {
			return nil, fmt.Errorf("%w: aggregation %q: %v", ErrReducerFailure, agg.Name, err)
		}
		col, err := seriesFromValues(agg.Name, []any{v})
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return NewTable(cols...)
}
