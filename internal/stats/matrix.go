package stats

import (
	"errors"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/sstoeckl/tidy-finance/internal/returns"
)

// ErrPanelTooShort indicates a panel with fewer observation rows than
// needed for a sample covariance estimate.
var ErrPanelTooShort = errors.New("panel needs at least two observation rows")

// Moments holds the cross-sectional sample moments of a return panel.
type Moments struct {
	Symbols []string
	Mean    []float64
	Cov     *mat.SymDense
}

// ComputeMoments estimates the mean vector and sample covariance matrix
// of the panel's assets.
func ComputeMoments(panel *returns.Panel) (*Moments, error) {
	if panel == nil || len(panel.Dates) < 2 {
		return nil, ErrPanelTooShort
	}

	rows := len(panel.Dates)
	cols := len(panel.Symbols)

	x := mat.NewDense(rows, cols, nil)
	for i := range panel.Data {
		x.SetRow(i, panel.Data[i])
	}

	mean := make([]float64, cols)
	for j := 0; j < cols; j++ {
		mean[j] = stat.Mean(mat.Col(nil, j, x), nil)
	}

	cov := mat.NewSymDense(cols, nil)
	stat.CovarianceMatrix(cov, x, nil)

	return &Moments{Symbols: panel.Symbols, Mean: mean, Cov: cov}, nil
}

// CorrelationMatrix estimates the sample correlation matrix of the
// panel's assets, row-major.
func CorrelationMatrix(panel *returns.Panel) ([][]float64, error) {
	if panel == nil || len(panel.Dates) < 2 {
		return nil, ErrPanelTooShort
	}

	rows := len(panel.Dates)
	cols := len(panel.Symbols)

	x := mat.NewDense(rows, cols, nil)
	for i := range panel.Data {
		x.SetRow(i, panel.Data[i])
	}

	corr := mat.NewSymDense(cols, nil)
	stat.CorrelationMatrix(corr, x, nil)

	result := make([][]float64, cols)
	for i := 0; i < cols; i++ {
		row := make([]float64, cols)
		for j := 0; j < cols; j++ {
			row[j] = corr.At(i, j)
		}
		result[i] = row
	}

	return result, nil
}
