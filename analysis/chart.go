package analysis

import (
	"os"
	"path"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"
	"github.com/zeu5/imitation-rl/core"
)

// ChartComparator renders one line per experiment into an html page. Reward
// datasets plot the mean evaluation reward, dataset datasets the disagreement rate.
type ChartComparator struct {
	savePath string
	title    string
}

var _ core.Comparator = &ChartComparator{}

func NewChartComparator(savePath, title string) *ChartComparator {
	return &ChartComparator{
		savePath: savePath,
		title:    title,
	}
}

func (c *ChartComparator) Compare(experimentNames []string, datasets []core.DataSet) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: c.title,
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Round"}),
	)

	longest := 0
	for i, name := range experimentNames {
		rounds, values := chartSeries(datasets[i])
		if values == nil {
			continue
		}
		items := make([]opts.LineData, len(values))
		for j, v := range values {
			items[j] = opts.LineData{Value: v}
		}
		line.AddSeries(name, items)
		if len(rounds) > longest {
			longest = len(rounds)
		}
	}
	steps := make([]string, longest)
	for i := range steps {
		steps[i] = strconv.Itoa(i)
	}
	line.SetXAxis(steps)

	page := components.NewPage()
	page.AddCharts(line)

	if err := os.MkdirAll(path.Dir(c.savePath), 0755); err != nil {
		return errors.Wrap(err, "creating chart directory")
	}
	f, err := os.Create(c.savePath)
	if err != nil {
		return errors.Wrap(err, "creating chart file")
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		return errors.Wrap(err, "rendering chart")
	}
	return nil
}

func chartSeries(ds core.DataSet) ([]int, []float64) {
	switch d := ds.(type) {
	case *rewardDataset:
		return d.Rounds, d.Mean
	case *datasetDataset:
		return d.Rounds, d.DisagreementRate()
	}
	return nil, nil
}

type ChartComparatorConstructor struct {
	savePath string
	fileName string
	title    string
}

var _ core.ComparatorConstructor = &ChartComparatorConstructor{}

func NewChartComparatorConstructor(savePath, fileName, title string) *ChartComparatorConstructor {
	return &ChartComparatorConstructor{
		savePath: savePath,
		fileName: fileName,
		title:    title,
	}
}

func (c *ChartComparatorConstructor) NewComparator(run int) core.Comparator {
	return NewChartComparator(path.Join(c.savePath, strconv.Itoa(run), c.fileName), c.title+" (run "+strconv.Itoa(run)+")")
}
