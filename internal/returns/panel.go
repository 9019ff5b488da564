package returns

import (
	"errors"
	"sort"
	"time"

	"github.com/sstoeckl/tidy-finance/internal/domain"
)

// ErrEmptyPanel indicates that aligning the given series produced no
// shared observation dates.
var ErrEmptyPanel = errors.New("no shared observation dates")

// Panel is a rectangular matrix of return observations aligned on dates.
// Data is row-major: Data[i][j] is the return of Symbols[j] on Dates[i].
type Panel struct {
	Symbols []string
	Dates   []time.Time
	Data    [][]float64
}

// Column returns the observation series for asset j.
func (p *Panel) Column(j int) []float64 {
	col := make([]float64, len(p.Dates))
	for i := range p.Dates {
		col[i] = p.Data[i][j]
	}
	return col
}

// Align inner-joins the given return series on their observation dates.
// Dates missing for any symbol are dropped, so the result is balanced.
// Symbols appear in lexicographic order.
func Align(series map[string][]*domain.ReturnPoint) (*Panel, error) {
	if len(series) == 0 {
		return nil, ErrEmptyPanel
	}

	symbols := make([]string, 0, len(series))
	for symbol := range series {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	bySymbol := make(map[string]map[time.Time]float64, len(symbols))
	for symbol, points := range series {
		values := make(map[time.Time]float64, len(points))
		for _, p := range points {
			values[domain.Day(p.Date)] = p.Value
		}
		bySymbol[symbol] = values
	}

	var dates []time.Time
	for date := range bySymbol[symbols[0]] {
		shared := true
		for _, symbol := range symbols[1:] {
			if _, ok := bySymbol[symbol][date]; !ok {
				shared = false
				break
			}
		}
		if shared {
			dates = append(dates, date)
		}
	}
	if len(dates) == 0 {
		return nil, ErrEmptyPanel
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	data := make([][]float64, len(dates))
	for i, date := range dates {
		row := make([]float64, len(symbols))
		for j, symbol := range symbols {
			row[j] = bySymbol[symbol][date]
		}
		data[i] = row
	}

	return &Panel{Symbols: symbols, Dates: dates, Data: data}, nil
}
