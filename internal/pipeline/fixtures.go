package pipeline

import (
	"context"
	"math"
	"time"

	"github.com/sstoeckl/tidy-finance/internal/domain"
	"github.com/sstoeckl/tidy-finance/internal/storage"
)

// fixtureUniverse describes the demo assets. Drift and vol are daily,
// seed decorrelates the noise across assets.
var fixtureUniverse = []struct {
	symbol string
	name   string
	start  float64
	drift  float64
	vol    float64
	seed   int64
}{
	{"AAPL", "Apple Inc.", 180, 0.0008, 0.015, 1},
	{"MSFT", "Microsoft Corporation", 370, 0.0006, 0.012, 2},
	{"KO", "The Coca-Cola Company", 60, 0.0003, 0.008, 3},
	{"XOM", "Exxon Mobil Corporation", 100, 0.0004, 0.014, 4},
}

// LoadFixtures populates the stores with two years of deterministic
// daily candles for a small demo universe. The series are generated
// from a fixed-seed random walk, so every run produces identical data.
func LoadFixtures(ctx context.Context, securityStore storage.SecurityStore, candleStore storage.CandleStore) error {
	start := time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC)
	addedAt := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

	for _, asset := range fixtureUniverse {
		sec := &domain.Security{
			Symbol:   asset.symbol,
			Name:     asset.name,
			Exchange: "NYSE",
			Currency: "USD",
			Index:    "DEMO",
			AddedAt:  addedAt,
		}
		if err := securityStore.Insert(ctx, sec); err != nil {
			return err
		}

		candles := generateCandles(asset.symbol, start, 504, asset.start, asset.drift, asset.vol, asset.seed)
		if err := candleStore.InsertBulk(ctx, candles); err != nil {
			return err
		}
	}

	return nil
}

// generateCandles produces a deterministic geometric random walk,
// skipping weekends. Adjusted close equals close since the fixture
// universe has no corporate actions.
func generateCandles(symbol string, start time.Time, n int, price, drift, vol float64, seed int64) []*domain.Candle {
	rng := newFixtureRand(seed)

	candles := make([]*domain.Candle, 0, n)
	date := start
	for len(candles) < n {
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			date = date.AddDate(0, 0, 1)
			continue
		}

		ret := drift + vol*rng.normFloat64()
		next := price * math.Exp(ret)

		high := math.Max(price, next) * (1 + 0.002*rng.float64())
		low := math.Min(price, next) * (1 - 0.002*rng.float64())

		candles = append(candles, &domain.Candle{
			Symbol:   symbol,
			Date:     date,
			Open:     round2(price),
			High:     round2(high),
			Low:      round2(low),
			Close:    round2(next),
			AdjClose: round2(next),
			Volume:   1_000_000 + int64(rng.float64()*9_000_000),
		})

		price = next
		date = date.AddDate(0, 0, 1)
	}

	return candles
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// fixtureRand is a tiny deterministic generator so fixtures never
// change between runs or Go releases.
type fixtureRand struct {
	state uint64
}

func newFixtureRand(seed int64) *fixtureRand {
	return &fixtureRand{state: uint64(seed)*2685821657736338717 + 1442695040888963407}
}

func (r *fixtureRand) next() uint64 {
	r.state ^= r.state << 13
	r.state ^= r.state >> 7
	r.state ^= r.state << 17
	return r.state
}

func (r *fixtureRand) float64() float64 {
	return float64(r.next()>>11) / float64(1<<53)
}

// normFloat64 approximates a standard normal draw by summing uniforms.
func (r *fixtureRand) normFloat64() float64 {
	var sum float64
	for i := 0; i < 12; i++ {
		sum += r.float64()
	}
	return sum - 6
}
