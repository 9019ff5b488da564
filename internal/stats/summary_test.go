package stats

import (
	"errors"
	"math"
	"testing"

	"github.com/sstoeckl/tidy-finance/internal/domain"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestSummarizeDescriptives(t *testing.T) {
	values := []float64{0.01, -0.02, 0.03, 0.00, 0.02}

	s, err := Summarize("AAPL", domain.MethodSimple, domain.FrequencyDaily, values)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if s.Symbol != "AAPL" || s.Observations != 5 {
		t.Errorf("unexpected header fields: %+v", s)
	}
	if !almostEqual(s.Mean, 0.008, 1e-12) {
		t.Errorf("expected mean 0.008, got %f", s.Mean)
	}

	// sample variance with n-1 in the denominator
	wantVar := (math.Pow(0.01-0.008, 2) + math.Pow(-0.02-0.008, 2) +
		math.Pow(0.03-0.008, 2) + math.Pow(0.00-0.008, 2) + math.Pow(0.02-0.008, 2)) / 4
	if !almostEqual(s.Stddev, math.Sqrt(wantVar), 1e-12) {
		t.Errorf("expected stddev %f, got %f", math.Sqrt(wantVar), s.Stddev)
	}

	if s.Min != -0.02 || s.Max != 0.03 {
		t.Errorf("expected min/max -0.02/0.03, got %f/%f", s.Min, s.Max)
	}
	if !almostEqual(s.Median, 0.01, 1e-12) {
		t.Errorf("expected median 0.01, got %f", s.Median)
	}
	if !almostEqual(s.P25, 0.00, 1e-12) {
		t.Errorf("expected p25 0.00, got %f", s.P25)
	}
	if !almostEqual(s.P75, 0.02, 1e-12) {
		t.Errorf("expected p75 0.02, got %f", s.P75)
	}
}

func TestSummarizeAnnualization(t *testing.T) {
	values := []float64{0.01, 0.02, 0.03, 0.04}

	daily, err := Summarize("AAPL", domain.MethodSimple, domain.FrequencyDaily, values)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if !almostEqual(daily.MeanAnnualized, daily.Mean*252, 1e-12) {
		t.Errorf("expected annualized mean %f, got %f", daily.Mean*252, daily.MeanAnnualized)
	}
	if !almostEqual(daily.StddevAnnualized, daily.Stddev*math.Sqrt(252), 1e-12) {
		t.Errorf("expected annualized stddev %f, got %f", daily.Stddev*math.Sqrt(252), daily.StddevAnnualized)
	}

	monthly, err := Summarize("AAPL", domain.MethodSimple, domain.FrequencyMonthly, values)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if !almostEqual(monthly.MeanAnnualized, monthly.Mean*12, 1e-12) {
		t.Errorf("expected annualized mean %f, got %f", monthly.Mean*12, monthly.MeanAnnualized)
	}
	if !almostEqual(monthly.StddevAnnualized, monthly.Stddev*math.Sqrt(12), 1e-12) {
		t.Errorf("expected annualized stddev %f, got %f", monthly.Stddev*math.Sqrt(12), monthly.StddevAnnualized)
	}
}

func TestSummarizeSymmetricSeries(t *testing.T) {
	values := []float64{-0.02, -0.01, 0.00, 0.01, 0.02}

	s, err := Summarize("AAPL", domain.MethodSimple, domain.FrequencyDaily, values)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if !almostEqual(s.Skewness, 0, 1e-12) {
		t.Errorf("expected zero skewness for symmetric series, got %f", s.Skewness)
	}
}

func TestSummarizeTooShort(t *testing.T) {
	if _, err := Summarize("AAPL", domain.MethodSimple, domain.FrequencyDaily, []float64{0.01}); !errors.Is(err, ErrNotEnoughObservations) {
		t.Fatalf("expected ErrNotEnoughObservations, got %v", err)
	}
	if _, err := Summarize("AAPL", domain.MethodSimple, domain.FrequencyDaily, nil); !errors.Is(err, ErrNotEnoughObservations) {
		t.Fatalf("expected ErrNotEnoughObservations, got %v", err)
	}
}

func TestPercentileInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}

	if got := percentile(sorted, 50); !almostEqual(got, 2.5, 1e-12) {
		t.Errorf("expected median 2.5, got %f", got)
	}
	if got := percentile(sorted, 0); got != 1 {
		t.Errorf("expected p0 1, got %f", got)
	}
	if got := percentile(sorted, 100); got != 4 {
		t.Errorf("expected p100 4, got %f", got)
	}
	if got := percentile(sorted, 25); !almostEqual(got, 1.75, 1e-12) {
		t.Errorf("expected p25 1.75, got %f", got)
	}
}
