package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyCandles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/eod/AAPL", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("fmt"))
		assert.Equal(t, "demo", r.URL.Query().Get("api_token"))
		assert.Equal(t, "2024-01-02", r.URL.Query().Get("from"))
		assert.Equal(t, "2024-01-05", r.URL.Query().Get("to"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"date":"2024-01-02","open":184.2,"high":186.0,"low":183.9,"close":185.6,"adjusted_close":185.1,"volume":52430400},
			{"date":"2024-01-03","open":185.0,"high":185.9,"low":183.4,"close":0,"adjusted_close":0,"volume":0},
			{"date":"2024-01-04","open":182.1,"high":183.1,"low":180.9,"close":181.9,"adjusted_close":181.4,"volume":71983600}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "demo")
	candles, err := client.DailyCandles(context.Background(),
		"AAPL",
		time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, candles, 2, "zero-close row must be dropped")
	assert.Equal(t, "AAPL", candles[0].Symbol)
	assert.Equal(t, time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC), candles[0].Date)
	assert.Equal(t, 185.6, candles[0].Close)
	assert.Equal(t, 185.1, candles[0].AdjClose)
	assert.Equal(t, int64(52430400), candles[0].Volume)
}

func TestDailyCandlesSymbolNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "demo")
	_, err := client.DailyCandles(context.Background(), "NOSUCH", time.Now().AddDate(0, -1, 0), time.Now())
	require.ErrorIs(t, err, ErrSymbolNotFound)
}

func TestDailyCandlesUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "bad-token")
	_, err := client.DailyCandles(context.Background(), "AAPL", time.Now().AddDate(0, -1, 0), time.Now())
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestGetJSONRetriesServerErrors(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[{"date":"2024-01-02","open":1,"high":1,"low":1,"close":1,"adjusted_close":1,"volume":1}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "demo", WithRetries(3), WithRetryDelay(time.Millisecond))
	candles, err := client.DailyCandles(context.Background(), "AAPL", time.Now().AddDate(0, -1, 0), time.Now())
	require.NoError(t, err)
	assert.Len(t, candles, 1)
	assert.Equal(t, int64(3), calls.Load())
}

func TestGetJSONGivesUpAfterRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "demo", WithRetries(1), WithRetryDelay(time.Millisecond))
	_, err := client.DailyCandles(context.Background(), "AAPL", time.Now().AddDate(0, -1, 0), time.Now())
	require.Error(t, err)
}

func TestDividends(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/div/AAPL", r.URL.Path)
		w.Write([]byte(`[
			{"date":"2024-02-09","value":0.24,"currency":"USD"},
			{"date":"2024-05-10","value":0.25,"currency":"USD"},
			{"date":"2024-06-10","value":0,"currency":"USD"}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "demo")
	dividends, err := client.Dividends(context.Background(), "AAPL", time.Now().AddDate(-1, 0, 0), time.Now())
	require.NoError(t, err)

	require.Len(t, dividends, 2, "zero dividend must be dropped")
	assert.Equal(t, time.Date(2024, time.February, 9, 0, 0, 0, 0, time.UTC), dividends[0].ExDate)
	assert.Equal(t, "0.24", dividends[0].Amount.String())
}

func TestSplits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/splits/NVDA", r.URL.Path)
		w.Write([]byte(`[
			{"date":"2024-06-10","split":"10.000000/1.000000"},
			{"date":"2021-07-20","split":"4.000000/1.000000"}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "demo")
	splits, err := client.Splits(context.Background(), "NVDA", time.Now().AddDate(-5, 0, 0), time.Now())
	require.NoError(t, err)

	require.Len(t, splits, 2)
	assert.Equal(t, int64(10), splits[0].Numerator)
	assert.Equal(t, int64(1), splits[0].Denominator)
}

func TestParseSplitRatio(t *testing.T) {
	cases := []struct {
		in       string
		num, den int64
	}{
		{"4.000000/1.000000", 4, 1},
		{"10/1", 10, 1},
		{"1.500000/1.000000", 3, 2},
		{"1/2", 1, 2},
	}
	for _, tc := range cases {
		num, den, err := parseSplitRatio(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.num, num, tc.in)
		assert.Equal(t, tc.den, den, tc.in)
	}

	_, _, err := parseSplitRatio("garbage")
	assert.Error(t, err)
	_, _, err = parseSplitRatio("-1/2")
	assert.Error(t, err)
}

func TestWithDailyCacheServesSecondRequestFromDisk(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`[{"date":"2024-01-02","open":1,"high":1,"low":1,"close":1,"adjusted_close":1,"volume":1}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "demo", WithDailyCache(t.TempDir()))

	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)

	_, err := client.DailyCandles(context.Background(), "AAPL", from, to)
	require.NoError(t, err)
	_, err = client.DailyCandles(context.Background(), "AAPL", from, to)
	require.NoError(t, err)

	assert.Equal(t, int64(1), calls.Load(), "second request must hit the cache")
}
