package analysis

import (
	"fmt"
	"io"
	"os"

	"github.com/logrusorgru/aurora"
	"github.com/zeu5/imitation-rl/core"
)

// ConsoleComparator prints the final evaluation of every experiment. The best
// mean reward is highlighted and failed experiments are marked.
type ConsoleComparator struct {
	run    int
	out    io.Writer
	colors aurora.Aurora
}

var _ core.Comparator = &ConsoleComparator{}

func NewConsoleComparator(run int, out io.Writer, colors bool) *ConsoleComparator {
	return &ConsoleComparator{
		run:    run,
		out:    out,
		colors: aurora.NewAurora(colors),
	}
}

func (c *ConsoleComparator) Compare(experimentNames []string, datasets []core.DataSet) error {
	best := -1
	bestMean := 0.0
	for i := range experimentNames {
		d, ok := datasets[i].(*rewardDataset)
		if !ok || d.Len() == 0 {
			continue
		}
		if mean := d.Mean[d.Len()-1]; best == -1 || mean > bestMean {
			best, bestMean = i, mean
		}
	}

	fmt.Fprintf(c.out, "%s\n", c.colors.Bold(fmt.Sprintf("Run %d", c.run)))
	for i, name := range experimentNames {
		d, ok := datasets[i].(*rewardDataset)
		if !ok || d == nil {
			fmt.Fprintf(c.out, "  %-12s %s\n", name, c.colors.Red("failed"))
			continue
		}
		if d.Len() == 0 {
			fmt.Fprintf(c.out, "  %-12s %s\n", name, c.colors.Yellow("no rounds"))
			continue
		}
		last := d.Len() - 1
		line := fmt.Sprintf("mean %7.2f  std %6.2f  median %7.2f  samples %d",
			d.Mean[last], d.Std[last], d.Median[last], d.DatasetSizes[last])
		if i == best {
			fmt.Fprintf(c.out, "  %-12s %s\n", name, c.colors.Green(line))
		} else {
			fmt.Fprintf(c.out, "  %-12s %s\n", name, c.colors.Blue(line))
		}
	}
	return nil
}

type ConsoleComparatorConstructor struct {
	out    io.Writer
	colors bool
}

var _ core.ComparatorConstructor = &ConsoleComparatorConstructor{}

func NewConsoleComparatorConstructor() *ConsoleComparatorConstructor {
	return &ConsoleComparatorConstructor{
		out:    os.Stdout,
		colors: true,
	}
}

func (c *ConsoleComparatorConstructor) NewComparator(run int) core.Comparator {
	return NewConsoleComparator(run, c.out, c.colors)
}
