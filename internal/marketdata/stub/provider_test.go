package stub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sstoeckl/tidy-finance/internal/domain"
	"github.com/sstoeckl/tidy-finance/internal/marketdata"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDailyCandlesFiltersAndSorts(t *testing.T) {
	p := NewProvider()
	p.AddCandles("AAPL",
		&domain.Candle{Symbol: "AAPL", Date: day(2024, time.January, 4), Close: 103},
		&domain.Candle{Symbol: "AAPL", Date: day(2024, time.January, 2), Close: 100},
		&domain.Candle{Symbol: "AAPL", Date: day(2024, time.February, 2), Close: 110},
	)

	candles, err := p.DailyCandles(context.Background(), "AAPL", day(2024, time.January, 1), day(2024, time.January, 31))
	require.NoError(t, err)

	require.Len(t, candles, 2)
	assert.True(t, candles[0].Date.Before(candles[1].Date))
}

func TestUnknownSymbol(t *testing.T) {
	p := NewProvider()

	_, err := p.DailyCandles(context.Background(), "NOSUCH", day(2024, time.January, 1), day(2024, time.December, 31))
	require.ErrorIs(t, err, marketdata.ErrSymbolNotFound)

	_, err = p.Dividends(context.Background(), "NOSUCH", day(2024, time.January, 1), day(2024, time.December, 31))
	require.ErrorIs(t, err, marketdata.ErrSymbolNotFound)

	_, err = p.Splits(context.Background(), "NOSUCH", day(2024, time.January, 1), day(2024, time.December, 31))
	require.ErrorIs(t, err, marketdata.ErrSymbolNotFound)
}

func TestReturnedCandlesAreCopies(t *testing.T) {
	p := NewProvider()
	p.AddCandles("AAPL", &domain.Candle{Symbol: "AAPL", Date: day(2024, time.January, 2), Close: 100})

	first, err := p.DailyCandles(context.Background(), "AAPL", day(2024, time.January, 1), day(2024, time.January, 31))
	require.NoError(t, err)
	first[0].Close = 999

	second, err := p.DailyCandles(context.Background(), "AAPL", day(2024, time.January, 1), day(2024, time.January, 31))
	require.NoError(t, err)
	assert.Equal(t, 100.0, second[0].Close)
}
