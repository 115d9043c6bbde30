package kadro

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// MutateFunc computes a new column from a table (or from one partition's
// sub-table when grouping is active). The returned series must have
// exactly as many values as the input has rows.
type MutateFunc func(*Table) (*Series, error)

// Mutation binds an output column name to the function that computes it.
// Mutations are applied in declaration order; a later mutation sees the
// columns produced by earlier ones in the same Mutate call.
type Mutation struct {
	Name string
	Fn   MutateFunc
}

// Mut is a convenience constructor for a Mutation.
func Mut(name string, fn MutateFunc) Mutation {
	return Mutation{Name: name, Fn: fn}
}

// mutateTable applies the mutations to t. With an empty group list each
// function sees the whole table; otherwise each function runs once per
// partition and its values are scattered back to the partition's original
// row positions. Row count and order are always preserved.
func mutateTable(t *Table, groups []string, muts []Mutation) (*Table, error) {
	if len(groups) == 0 {
		return mutateWhole(t, muts)
	}

	parts, err := partitionRows(t, groups)
	if err != nil {
		return nil, err
	}

	result := t
	height := t.Height()
	for _, mut := range muts {
		values := make([]any, height)
		src := result

		apply := func(p partition) error {
			sub := subTable(src, p.rows)
			s, err := mut.Fn(sub)
			if err != nil {
				return fmt.Errorf("%w: mutation %q: %v", ErrReducerFailure, mut.Name, err)
			}
			if s.Len() != len(p.rows) {
				return fmt.Errorf("%w: mutation %q returned %d values for a partition of %d rows",
					ErrPartitionLengthMismatch, mut.Name, s.Len(), len(p.rows))
			}
			// Scatter by original position; partitions are disjoint, so
			// concurrent writes never touch the same index.
			for j, row := range p.rows {
				values[row] = s.Get(j)
			}
			return nil
		}

		if len(parts) > 1 && ShouldParallelizeOp(OpGroupApply, height) {
			var g errgroup.Group
			g.SetLimit(globalConfig.numWorkers())
			for _, p := range parts {
				g.Go(func() error { return apply(p) })
			}
			if err := g.Wait(); err != nil {
				return nil, err
			}
		} else {
			for _, p := range parts {
				if err := apply(p); err != nil {
					return nil, err
				}
			}
		}

		col, err := seriesFromValues(mut.Name, values)
		if err != nil {
			return nil, err
		}
		result, err = result.WithColumn(col)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// mutateWhole is the ungrouped path: one implicit partition covering the
// whole table, no scatter needed.
func mutateWhole(t *Table, muts []Mutation) (*Table, error) {
	result := t
	for _, mut := range muts {
		s, err := mut.Fn(result)
		if err != nil {
			return nil, fmt.Errorf("%w: mutation %q: %v", ErrReducerFailure, mut.Name, err)
		}
		if s.Len() != t.Height() {
			return nil, fmt.Errorf("%w: mutation %q returned %d values for %d rows",
				ErrPartitionLengthMismatch, mut.Name, s.Len(), t.Height())
		}
		result, err = result.WithColumn(s.WithName(mut.Name))
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}
