package pricecast_test

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aouyang1/go-pricecast"
	"github.com/aouyang1/go-pricecast/linearforecast"
	"github.com/aouyang1/go-pricecast/rawtable"
	"github.com/aouyang1/go-pricecast/source"
	"github.com/aouyang1/go-pricecast/timedataset"
)

func ExamplePipeline_Run() {
	// six hundred trading days of a slowly rising price, newest first as on the source page
	t := timedataset.GenerateTradingDays(time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), 600)
	table := rawtable.Table{{"Data", "Preço"}}
	for i := len(t) - 1; i >= 0; i-- {
		table = append(table, []string{t[i].Format(rawtable.DateLayout), strconv.Itoa(6000 + 2*i)})
	}
	src := source.Static{{{"menu"}}, {{"header"}}, table}

	backend, err := linearforecast.NewBackend(nil)
	if err != nil {
		panic(err)
	}
	p, err := pricecast.New(src, backend, nil)
	if err != nil {
		panic(err)
	}
	res, err := p.Run(context.Background())
	if err != nil {
		panic(err)
	}

	fmt.Println("history rows:", res.History.Len())
	fmt.Println("first history row:", res.History.Records()[0])
	fmt.Println("forecast rows:", res.ForecastTable.Len())
	fmt.Println("first forecast date:", res.ForecastTable.Rows[0].Date.Format(time.DateOnly))
	fmt.Println("chart history points:", len(res.Chart.History))
	fmt.Println("markers:", len(res.Chart.Markers))
	// Output:
	// history rows: 365
	// first history row: [2018-01-01 60.00]
	// forecast rows: 365
	// first forecast date: 2020-03-07
	// chart history points: 338
	// markers: 4
}
