package analysis

import (
	"github.com/pkg/errors"
	"github.com/zeu5/imitation-rl/core"
)

// ComposedComparator hands the same datasets to every comparator in order
// and stops at the first error
type ComposedComparator struct {
	comparators []core.Comparator
}

var _ core.Comparator = &ComposedComparator{}

func (c *ComposedComparator) Compare(experimentNames []string, datasets []core.DataSet) error {
	for i, cmp := range c.comparators {
		if err := cmp.Compare(experimentNames, datasets); err != nil {
			return errors.Wrapf(err, "comparator %d", i)
		}
	}
	return nil
}

type ComposedComparatorConstructor struct {
	constructors []core.ComparatorConstructor
}

var _ core.ComparatorConstructor = &ComposedComparatorConstructor{}

func NewComposedComparatorConstructor(constructors ...core.ComparatorConstructor) *ComposedComparatorConstructor {
	return &ComposedComparatorConstructor{
		constructors: constructors,
	}
}

func (c *ComposedComparatorConstructor) NewComparator(run int) core.Comparator {
	out := &ComposedComparator{
		comparators: make([]core.Comparator, len(c.constructors)),
	}
	for i, cc := range c.constructors {
		out.comparators[i] = cc.NewComparator(run)
	}
	return out
}
