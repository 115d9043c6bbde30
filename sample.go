package kadro

import (
	"fmt"
	"math/rand"
)

// SampleOptions configures row sampling.
type SampleOptions struct {
	// Replace allows the same row to be drawn more than once.
	Replace bool
	// Rand supplies the randomness source. Nil uses the package-level
	// math/rand source; pass a seeded *rand.Rand for reproducible draws.
	Rand *rand.Rand
}

// DefaultSampleOptions returns sampling without replacement using the
// package-level randomness source.
func DefaultSampleOptions() SampleOptions {
	return SampleOptions{}
}

// SampleN returns a Frame with n randomly drawn rows. Without replacement
// the result is a uniform random permutation subset, so n must not exceed
// the row count; with replacement any n >= 0 works. Grouping is carried
// through unchanged.
func (f *Frame) SampleN(n int, opts ...SampleOptions) (*Frame, error) {
	o := DefaultSampleOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	if n < 0 {
		return nil, fmt.Errorf("sample size %d is negative", n)
	}
	h := f.table.Height()

	intn := rand.Intn
	perm := rand.Perm
	if o.Rand != nil {
		intn = o.Rand.Intn
		perm = o.Rand.Perm
	}

	var indices []int
	if o.Replace {
		indices = make([]int, n)
		if h > 0 {
			for i := range indices {
				indices[i] = intn(h)
			}
		} else if n > 0 {
			return nil, fmt.Errorf("cannot sample %d rows from an empty table", n)
		}
	} else {
		if n > h {
			return nil, fmt.Errorf("cannot sample %d rows from %d without replacement", n, h)
		}
		indices = perm(h)[:n]
	}

	return f.derive(f.table.Take(indices)), nil
}
